package repositories

import (
	"context"

	intdb "horizontravels/internal/db"
	"horizontravels/internal/domain/models"
)

// FareRepository reads priced journeys with one join over the fare table.
type FareRepository struct {
	DB intdb.DBTX
}

const fareSelect = `
	SELECT e.id, td.id, pc.id, tt.name, pc.name,
	       dl.name, td.departure_time, al.name, td.arrival_time, e.cost
	FROM expenses e
	JOIN travel_details td   ON td.id = e.travel_detail_id AND td.is_deleted = 0
	JOIN travel_types tt     ON tt.id = td.travel_type_id AND tt.is_deleted = 0
	JOIN price_categories pc ON pc.id = e.price_category_id AND pc.is_deleted = 0
	JOIN locations dl        ON dl.id = td.departure_location_id
	JOIN locations al        ON al.id = td.arrival_location_id
	WHERE e.is_deleted = 0`

func (r FareRepository) query(ctx context.Context, where string, args ...any) ([]models.FareRow, error) {
	rows, err := r.DB.QueryContext(ctx, fareSelect+where+` ORDER BY e.cost ASC, e.id ASC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.FareRow{}
	for rows.Next() {
		var f models.FareRow
		if err := rows.Scan(&f.ExpenseID, &f.TravelDetailID, &f.PriceCategoryID, &f.TravelType, &f.ClassType,
			&f.DepartureLocation, &f.DepartureTime, &f.ArrivalLocation, &f.ArrivalTime, &f.Cost); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// ForRoute returns every active fare of a route, cheapest first.
func (r FareRepository) ForRoute(ctx context.Context, travelTypeID, departureID, arrivalID int64) ([]models.FareRow, error) {
	return r.query(ctx,
		` AND td.travel_type_id = ? AND td.departure_location_id = ? AND td.arrival_location_id = ?`,
		travelTypeID, departureID, arrivalID)
}

// ForTravelDetail returns the fares of one journey, cheapest first.
// A non-nil priceCategoryID narrows it to that category.
func (r FareRepository) ForTravelDetail(ctx context.Context, travelDetailID int64, priceCategoryID *int64) ([]models.FareRow, error) {
	if priceCategoryID != nil {
		return r.query(ctx, ` AND td.id = ? AND pc.id = ?`, travelDetailID, *priceCategoryID)
	}
	return r.query(ctx, ` AND td.id = ?`, travelDetailID)
}
