package models

import "time"

// Base holds the columns every table carries. Rows are soft-deleted only.
type Base struct {
	ID        int64     `json:"id"`
	IsDeleted bool      `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Location struct {
	Base
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type LocationInput struct {
	Name      string  `json:"name" validate:"required,max=255"`
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
}

// LocationPatch applies only the fields that were sent.
type LocationPatch struct {
	Name      *string  `json:"name" validate:"omitempty,max=255"`
	Latitude  *float64 `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
}

// NamedRef is the shape shared by travel types and price categories.
type NamedRef struct {
	Base
	Name string `json:"name"`
}

type TravelType struct {
	NamedRef
}

type PriceCategory struct {
	NamedRef
}

type NameInput struct {
	Name string `json:"name" validate:"required,max=255"`
}

type MaxSeat struct {
	Base
	TravelTypeID int64 `json:"travel_type_id"`
	Seats        int   `json:"seats"`
}

type MaxSeatInput struct {
	TravelTypeID int64 `json:"travel_type_id" validate:"required,gt=0"`
	Seats        int   `json:"seats" validate:"required,gt=0"`
}

type MaxSeatPatch struct {
	Seats *int `json:"seats" validate:"omitempty,gt=0"`
}
