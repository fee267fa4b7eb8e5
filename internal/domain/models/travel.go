package models

import "time"

// TravelDetail is one scheduled journey of a travel type between two locations.
type TravelDetail struct {
	Base
	TravelTypeID        int64     `json:"travel_type_id"`
	DepartureLocationID int64     `json:"departure_location_id"`
	DepartureTime       time.Time `json:"departure_time"`
	ArrivalLocationID   int64     `json:"arrival_location_id"`
	ArrivalTime         time.Time `json:"arrival_time"`
}

type TravelDetailInput struct {
	TravelTypeID        int64     `json:"travel_type_id" validate:"required,gt=0"`
	DepartureLocationID int64     `json:"departure_location_id" validate:"required,gt=0"`
	DepartureTime       time.Time `json:"departure_time" validate:"required"`
	ArrivalLocationID   int64     `json:"arrival_location_id" validate:"required,gt=0,nefield=DepartureLocationID"`
	ArrivalTime         time.Time `json:"arrival_time" validate:"required,gtfield=DepartureTime"`
}

// TravelDetailPatch is merged onto the stored row and the result re-validated
// as a TravelDetailInput, so the location/time invariants hold after any patch.
type TravelDetailPatch struct {
	TravelTypeID        *int64     `json:"travel_type_id"`
	DepartureLocationID *int64     `json:"departure_location_id"`
	DepartureTime       *time.Time `json:"departure_time"`
	ArrivalLocationID   *int64     `json:"arrival_location_id"`
	ArrivalTime         *time.Time `json:"arrival_time"`
}

// Apply returns the input produced by laying p over d.
func (p TravelDetailPatch) Apply(d TravelDetail) TravelDetailInput {
	in := TravelDetailInput{
		TravelTypeID:        d.TravelTypeID,
		DepartureLocationID: d.DepartureLocationID,
		DepartureTime:       d.DepartureTime,
		ArrivalLocationID:   d.ArrivalLocationID,
		ArrivalTime:         d.ArrivalTime,
	}
	if p.TravelTypeID != nil {
		in.TravelTypeID = *p.TravelTypeID
	}
	if p.DepartureLocationID != nil {
		in.DepartureLocationID = *p.DepartureLocationID
	}
	if p.DepartureTime != nil {
		in.DepartureTime = *p.DepartureTime
	}
	if p.ArrivalLocationID != nil {
		in.ArrivalLocationID = *p.ArrivalLocationID
	}
	if p.ArrivalTime != nil {
		in.ArrivalTime = *p.ArrivalTime
	}
	return in
}

// Expense prices a travel detail for one price category.
type Expense struct {
	Base
	TravelDetailID  int64   `json:"travel_detail_id"`
	PriceCategoryID int64   `json:"price_category_id"`
	Cost            float64 `json:"cost"`
}

type ExpenseInput struct {
	TravelDetailID  int64   `json:"travel_detail_id" validate:"required,gt=0"`
	PriceCategoryID int64   `json:"price_category_id" validate:"required,gt=0"`
	Cost            float64 `json:"cost" validate:"gt=0"`
}

type ExpensePatch struct {
	TravelDetailID  *int64   `json:"travel_detail_id"`
	PriceCategoryID *int64   `json:"price_category_id"`
	Cost            *float64 `json:"cost"`
}

func (p ExpensePatch) Apply(e Expense) ExpenseInput {
	in := ExpenseInput{
		TravelDetailID:  e.TravelDetailID,
		PriceCategoryID: e.PriceCategoryID,
		Cost:            e.Cost,
	}
	if p.TravelDetailID != nil {
		in.TravelDetailID = *p.TravelDetailID
	}
	if p.PriceCategoryID != nil {
		in.PriceCategoryID = *p.PriceCategoryID
	}
	if p.Cost != nil {
		in.Cost = *p.Cost
	}
	return in
}

// FareRow is one joined expense/travel-detail row before discounting.
type FareRow struct {
	ExpenseID         int64
	TravelDetailID    int64
	PriceCategoryID   int64
	TravelType        string
	ClassType         string
	DepartureLocation string
	DepartureTime     time.Time
	ArrivalLocation   string
	ArrivalTime       time.Time
	Cost              float64
}

// FareOption is a priced itinerary as returned to clients.
type FareOption struct {
	TravelDetailID    int64     `json:"travel_detail_id"`
	PriceCategoryID   int64     `json:"price_category_id"`
	TravelType        string    `json:"travel_type"`
	ClassType         string    `json:"class_type"`
	DepartureLocation string    `json:"departure_location"`
	DepartureTime     time.Time `json:"departure_time"`
	ArrivalLocation   string    `json:"arrival_location"`
	ArrivalTime       time.Time `json:"arrival_time"`
	Cost              float64   `json:"cost"`
	DiscountedCost    float64   `json:"discounted_cost"`
}

// RouteQuery names a route by its display names.
type RouteQuery struct {
	TravelType string `json:"travel_type" validate:"required"`
	Departure  string `json:"departure_location" validate:"required"`
	Arrival    string `json:"arrival_location" validate:"required"`
}
