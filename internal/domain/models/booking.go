package models

import "time"

const (
	BookingStatusSuccess   = "success"
	BookingStatusCancelled = "cancelled"
)

// Booking is a ledger entry. Cost is the discounted price locked in at purchase.
type Booking struct {
	Base
	UserID          *int64  `json:"user_id"`
	TravelDetailID  int64   `json:"travel_detail_id"`
	PriceCategoryID *int64  `json:"price_category_id"`
	Cost            float64 `json:"cost"`
	Status          string  `json:"status"`
	RefundAmount    float64 `json:"refund_amount"`
}

// Active reports whether the booking still holds a seat.
func (b Booking) Active() bool {
	return !b.IsDeleted && b.Status == BookingStatusSuccess
}

// CreateBookingInput books one travel detail. Without a price category the
// cheapest active fare of the journey is charged.
type CreateBookingInput struct {
	TravelDetailID  int64  `json:"travel_detail_id" validate:"required,gt=0"`
	PriceCategoryID *int64 `json:"price_category_id" validate:"omitempty,gt=0"`
	UserID          *int64 `json:"-"`
}

// RouteBookingInput books by display names, as the search page submits them.
type RouteBookingInput struct {
	RouteQuery
	ClassType string `json:"class_type"`
	UserID    *int64 `json:"-"`
}

// BookingPatch supports PATCH-style updates via key presence.
type BookingPatch struct {
	UserID         *int64   `json:"user_id" validate:"omitempty,gt=0"`
	TravelDetailID *int64   `json:"travel_detail_id" validate:"omitempty,gt=0"`
	Cost           *float64 `json:"cost" validate:"omitempty,gte=0"`
	Status         *string  `json:"status" validate:"omitempty,oneof=success cancelled"`
	RefundAmount   *float64 `json:"refund_amount" validate:"omitempty,gte=0"`
}

func (p BookingPatch) Empty() bool {
	return p.UserID == nil && p.TravelDetailID == nil && p.Cost == nil && p.Status == nil && p.RefundAmount == nil
}

// BookingView is a booking joined with its journey, used by dashboards and receipts.
type BookingView struct {
	BookingID         int64     `json:"booking_id"`
	UserID            *int64    `json:"user_id,omitempty"`
	UserName          string    `json:"user_name,omitempty"`
	UserEmail         string    `json:"-"`
	Username          string    `json:"-"`
	TravelType        string    `json:"travel_type"`
	ClassType         string    `json:"class_type"`
	DepartureLocation string    `json:"departure_location"`
	DepartureTime     time.Time `json:"departure_time"`
	ArrivalLocation   string    `json:"arrival_location"`
	ArrivalTime       time.Time `json:"arrival_time"`
	Cost              float64   `json:"cost"`
	Status            string    `json:"status"`
	RefundAmount      float64   `json:"refund_amount"`
	CreatedAt         time.Time `json:"created_at"`
}
