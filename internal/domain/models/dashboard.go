package models

// TopCustomer is one row of the admin "most bookings" table.
type TopCustomer struct {
	UserID       int64  `json:"user_id"`
	UserName     string `json:"user_name"`
	BookingCount int    `json:"booking_count"`
}

type AdminDashboard struct {
	Bookings       []BookingView      `json:"bookings"`
	MonthlyRevenue map[string]float64 `json:"monthly_revenue"`
	JourneyRevenue map[string]float64 `json:"journey_revenue"`
	TopCustomers   []TopCustomer      `json:"top_customers"`
}

// HomeData feeds the search form.
type HomeData struct {
	DepartureLocations []string `json:"departure_locations"`
	ArrivalLocations   []string `json:"arrival_locations"`
	TravelTypes        []string `json:"travel_types"`
}
