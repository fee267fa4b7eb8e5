package repositories

import (
	"context"
	"database/sql"
	"errors"

	intdb "horizontravels/internal/db"
	"horizontravels/internal/domain"
	"horizontravels/internal/domain/models"
)

type MaxSeatRepository struct {
	DB intdb.DBTX
}

const maxSeatColumns = `id, travel_type_id, seats, is_deleted, created_at, updated_at`

func scanMaxSeat(row interface{ Scan(...any) error }) (models.MaxSeat, error) {
	var m models.MaxSeat
	err := row.Scan(&m.ID, &m.TravelTypeID, &m.Seats, &m.IsDeleted, &m.CreatedAt, &m.UpdatedAt)
	return m, err
}

func (r MaxSeatRepository) List(ctx context.Context, p domain.Pagination) ([]models.MaxSeat, int, error) {
	total, err := countActive(ctx, r.DB, "max_seats", "")
	if err != nil {
		return nil, 0, err
	}
	limit, args := intdb.LimitClause(p)
	rows, err := r.DB.QueryContext(ctx, `SELECT `+maxSeatColumns+` FROM max_seats WHERE is_deleted = 0 ORDER BY id`+limit, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	out := []models.MaxSeat{}
	for rows.Next() {
		m, err := scanMaxSeat(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, m)
	}
	return out, total, rows.Err()
}

func (r MaxSeatRepository) GetByID(ctx context.Context, id int64) (models.MaxSeat, error) {
	m, err := scanMaxSeat(r.DB.QueryRowContext(ctx, `SELECT `+maxSeatColumns+` FROM max_seats WHERE id = ? AND is_deleted = 0`, id))
	return m, intdb.NotFoundIfNoRows("max seat", err)
}

// SeatsForTravelType returns the configured capacity, or 0 when none is set.
func (r MaxSeatRepository) SeatsForTravelType(ctx context.Context, travelTypeID int64) (int, error) {
	var seats int
	err := r.DB.QueryRowContext(ctx,
		`SELECT seats FROM max_seats WHERE travel_type_id = ? AND is_deleted = 0 LIMIT 1`, travelTypeID,
	).Scan(&seats)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return seats, err
}

func (r MaxSeatRepository) Create(ctx context.Context, in models.MaxSeatInput) (int64, error) {
	return insertID(ctx, r.DB, "max seat",
		`INSERT INTO max_seats (travel_type_id, seats) VALUES (?, ?)`, in.TravelTypeID, in.Seats)
}

func (r MaxSeatRepository) Update(ctx context.Context, id int64, p models.MaxSeatPatch) error {
	if p.Seats == nil {
		return nil
	}
	return updateColumns(ctx, r.DB, "max_seats", "max seat", id, []string{"seats = ?"}, []any{*p.Seats})
}

func (r MaxSeatRepository) SoftDelete(ctx context.Context, id int64) error {
	return softDelete(ctx, r.DB, "max_seats", "max seat", id)
}
