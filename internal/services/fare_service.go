package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	intdb "horizontravels/internal/db"
	"horizontravels/internal/domain"
	"horizontravels/internal/domain/models"
	"horizontravels/internal/repositories"
	"horizontravels/internal/utils"
)

// FareService resolves a named route into priced options.
type FareService struct {
	DB        *sql.DB
	Now       utils.Clock
	RequestID string
}

type routeIDs struct {
	travelType, departure, arrival int64
}

// resolveRoute maps display names to active ids, failing on the first unknown name.
func resolveRoute(ctx context.Context, db intdb.DBTX, q models.RouteQuery) (routeIDs, error) {
	var ids routeIDs
	lookups := []struct {
		resource string
		find     func(context.Context, string) (int64, error)
		name     string
		dst      *int64
	}{
		{"travel type", repositories.TravelTypeRepository{DB: db}.FindIDByName, q.TravelType, &ids.travelType},
		{"departure location", repositories.LocationRepository{DB: db}.FindIDByName, q.Departure, &ids.departure},
		{"arrival location", repositories.LocationRepository{DB: db}.FindIDByName, q.Arrival, &ids.arrival},
	}
	for _, l := range lookups {
		id, err := l.find(ctx, l.name)
		if errors.Is(err, sql.ErrNoRows) {
			return ids, domain.NotFoundError{Resource: l.resource, Err: fmt.Errorf("%q", l.name)}
		}
		if err != nil {
			return ids, err
		}
		*l.dst = id
	}
	return ids, nil
}

// routeFares returns the undiscounted fares of a named route, cheapest first.
func routeFares(ctx context.Context, db intdb.DBTX, q models.RouteQuery) ([]models.FareRow, error) {
	q.TravelType = utils.NormalizeSpace(q.TravelType)
	q.Departure = utils.NormalizeSpace(q.Departure)
	q.Arrival = utils.NormalizeSpace(q.Arrival)
	if err := validateInput(q); err != nil {
		return nil, err
	}
	ids, err := resolveRoute(ctx, db, q)
	if err != nil {
		return nil, err
	}
	n, err := repositories.TravelDetailRepository{DB: db}.CountRoute(ctx, ids.travelType, ids.departure, ids.arrival)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, domain.NoRouteError{TravelType: q.TravelType, Departure: q.Departure, Arrival: q.Arrival}
	}
	rows, err := repositories.FareRepository{DB: db}.ForRoute(ctx, ids.travelType, ids.departure, ids.arrival)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, domain.NoFareError{}
	}
	sortFares(rows)
	return rows, nil
}

func sortFares(rows []models.FareRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Cost != rows[j].Cost {
			return rows[i].Cost < rows[j].Cost
		}
		return rows[i].ExpenseID < rows[j].ExpenseID
	})
}

func priceFare(r models.FareRow, now time.Time) models.FareOption {
	return models.FareOption{
		TravelDetailID:    r.TravelDetailID,
		PriceCategoryID:   r.PriceCategoryID,
		TravelType:        r.TravelType,
		ClassType:         r.ClassType,
		DepartureLocation: r.DepartureLocation,
		DepartureTime:     r.DepartureTime,
		ArrivalLocation:   r.ArrivalLocation,
		ArrivalTime:       r.ArrivalTime,
		Cost:              r.Cost,
		DiscountedCost:    utils.DiscountedCost(r.Cost, r.ArrivalTime, now),
	}
}

// ResolveFares lists every priced option for the route, sorted by undiscounted cost.
func (s FareService) ResolveFares(ctx context.Context, q models.RouteQuery) ([]models.FareOption, error) {
	rows, err := routeFares(ctx, s.DB, q)
	if err != nil {
		fareLookups.WithLabelValues(fareOutcome(err)).Inc()
		return nil, err
	}
	now := s.Now.Now()
	out := make([]models.FareOption, 0, len(rows))
	for _, r := range rows {
		out = append(out, priceFare(r, now))
	}
	fareLookups.WithLabelValues("ok").Inc()
	utils.LogEvent(s.RequestID, "fares", "resolve", fmt.Sprintf("type=%s from=%s to=%s options=%d", q.TravelType, q.Departure, q.Arrival, len(out)))
	return out, nil
}

func fareOutcome(err error) string {
	switch {
	case domain.IsNotFound(err):
		return "not_found"
	case domain.IsNoRoute(err):
		return "no_route"
	case domain.IsNoFare(err):
		return "no_fare"
	case domain.IsValidation(err):
		return "invalid"
	default:
		return "error"
	}
}
