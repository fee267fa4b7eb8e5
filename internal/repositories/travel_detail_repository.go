package repositories

import (
	"context"

	intdb "horizontravels/internal/db"
	"horizontravels/internal/domain"
	"horizontravels/internal/domain/models"
)

type TravelDetailRepository struct {
	DB intdb.DBTX
}

const travelDetailColumns = `id, travel_type_id, departure_location_id, departure_time, arrival_location_id, arrival_time, is_deleted, created_at, updated_at`

func scanTravelDetail(row interface{ Scan(...any) error }) (models.TravelDetail, error) {
	var d models.TravelDetail
	err := row.Scan(&d.ID, &d.TravelTypeID, &d.DepartureLocationID, &d.DepartureTime,
		&d.ArrivalLocationID, &d.ArrivalTime, &d.IsDeleted, &d.CreatedAt, &d.UpdatedAt)
	return d, err
}

func (r TravelDetailRepository) List(ctx context.Context, p domain.Pagination) ([]models.TravelDetail, int, error) {
	total, err := countActive(ctx, r.DB, "travel_details", "")
	if err != nil {
		return nil, 0, err
	}
	limit, args := intdb.LimitClause(p)
	rows, err := r.DB.QueryContext(ctx, `SELECT `+travelDetailColumns+` FROM travel_details WHERE is_deleted = 0 ORDER BY id`+limit, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	out := []models.TravelDetail{}
	for rows.Next() {
		d, err := scanTravelDetail(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, d)
	}
	return out, total, rows.Err()
}

func (r TravelDetailRepository) GetByID(ctx context.Context, id int64) (models.TravelDetail, error) {
	d, err := scanTravelDetail(r.DB.QueryRowContext(ctx, `SELECT `+travelDetailColumns+` FROM travel_details WHERE id = ? AND is_deleted = 0`, id))
	return d, intdb.NotFoundIfNoRows("travel detail", err)
}

// CountRoute counts active journeys of a travel type between two locations.
func (r TravelDetailRepository) CountRoute(ctx context.Context, travelTypeID, departureID, arrivalID int64) (int, error) {
	return countActive(ctx, r.DB, "travel_details",
		"travel_type_id = ? AND departure_location_id = ? AND arrival_location_id = ?",
		travelTypeID, departureID, arrivalID)
}

func (r TravelDetailRepository) Create(ctx context.Context, in models.TravelDetailInput) (int64, error) {
	return insertID(ctx, r.DB, "travel detail", `
		INSERT INTO travel_details (travel_type_id, departure_location_id, departure_time, arrival_location_id, arrival_time)
		VALUES (?, ?, ?, ?, ?)
	`, in.TravelTypeID, in.DepartureLocationID, in.DepartureTime, in.ArrivalLocationID, in.ArrivalTime)
}

// Replace overwrites every mutable column; callers merge patches first.
func (r TravelDetailRepository) Replace(ctx context.Context, id int64, in models.TravelDetailInput) error {
	return updateColumns(ctx, r.DB, "travel_details", "travel detail", id,
		[]string{"travel_type_id = ?", "departure_location_id = ?", "departure_time = ?", "arrival_location_id = ?", "arrival_time = ?"},
		[]any{in.TravelTypeID, in.DepartureLocationID, in.DepartureTime, in.ArrivalLocationID, in.ArrivalTime})
}

func (r TravelDetailRepository) SoftDelete(ctx context.Context, id int64) error {
	return softDelete(ctx, r.DB, "travel_details", "travel detail", id)
}
