package domain

import (
	"errors"
	"fmt"
)

// DomainError keeps backward compatibility for generic codes.
type DomainError struct {
	Code string
	Err  error
}

func (e DomainError) Error() string {
	if e.Err == nil {
		return e.Code
	}
	if e.Code == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Code, e.Err)
}

func (e DomainError) Unwrap() error {
	return e.Err
}

type NotFoundError struct {
	Resource string
	Err      error
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e NotFoundError) Unwrap() error { return e.Err }

// NoRouteError means the travel type and both locations exist but no
// scheduled journey connects them.
type NoRouteError struct {
	TravelType string
	Departure  string
	Arrival    string
}

func (e NoRouteError) Error() string {
	return fmt.Sprintf("no %s journey scheduled from %s to %s", e.TravelType, e.Departure, e.Arrival)
}

// NoFareError means a journey exists but has no priced expense row.
type NoFareError struct {
	TravelDetailIDs []int64
}

func (e NoFareError) Error() string {
	if len(e.TravelDetailIDs) == 1 {
		return fmt.Sprintf("no fare available for travel detail %d", e.TravelDetailIDs[0])
	}
	return "no fare available for the requested journey"
}

type ValidationError struct {
	Field string
	Msg   string
	Err   error
}

func (e ValidationError) Error() string {
	if e.Msg != "" && e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	if e.Msg != "" {
		return e.Msg
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid %s", e.Field)
	}
	return "validation error"
}

func (e ValidationError) Unwrap() error { return e.Err }

type ConflictError struct {
	Resource string
	Code     string
	Msg      string
	Err      error
}

func (e ConflictError) Error() string {
	switch {
	case e.Msg != "" && e.Resource != "":
		return fmt.Sprintf("%s conflict: %s", e.Resource, e.Msg)
	case e.Msg != "":
		return e.Msg
	case e.Resource != "":
		return fmt.Sprintf("%s conflict", e.Resource)
	default:
		return "conflict"
	}
}

func (e ConflictError) Unwrap() error { return e.Err }

// IntegrityKind tells a duplicate key apart from a dangling foreign key.
type IntegrityKind string

const (
	IntegrityDuplicate   IntegrityKind = "duplicate"
	IntegrityInvalidRef  IntegrityKind = "invalid_reference"
	IntegrityUnspecified IntegrityKind = "integrity"
)

type IntegrityError struct {
	Resource string
	Kind     IntegrityKind
	Err      error
}

func (e IntegrityError) Error() string {
	res := e.Resource
	if res == "" {
		res = "record"
	}
	switch e.Kind {
	case IntegrityDuplicate:
		return fmt.Sprintf("%s already exists", res)
	case IntegrityInvalidRef:
		return fmt.Sprintf("%s references a missing record", res)
	default:
		return fmt.Sprintf("%s integrity error", res)
	}
}

func (e IntegrityError) Unwrap() error { return e.Err }

type UnauthorizedError struct {
	Msg string
}

func (e UnauthorizedError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "unauthorized"
}

type ForbiddenError struct {
	Msg string
}

func (e ForbiddenError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "forbidden"
}

type InternalError struct {
	Msg string
	Err error
}

func (e InternalError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "internal error"
}

func (e InternalError) Unwrap() error { return e.Err }

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsNoRoute(err error) bool {
	var target NoRouteError
	return errors.As(err, &target)
}

func IsNoFare(err error) bool {
	var target NoFareError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target ConflictError
	return errors.As(err, &target)
}

func IsIntegrity(err error) bool {
	var target IntegrityError
	return errors.As(err, &target)
}

func IsUnauthorized(err error) bool {
	var target UnauthorizedError
	return errors.As(err, &target)
}

func IsForbidden(err error) bool {
	var target ForbiddenError
	return errors.As(err, &target)
}

func IsInternal(err error) bool {
	var target InternalError
	return errors.As(err, &target)
}
