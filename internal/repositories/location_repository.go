package repositories

import (
	"context"
	"strings"

	intdb "horizontravels/internal/db"
	"horizontravels/internal/domain"
	"horizontravels/internal/domain/models"
)

type LocationRepository struct {
	DB intdb.DBTX
}

const locationColumns = `id, name, latitude, longitude, is_deleted, created_at, updated_at`

func scanLocation(row interface{ Scan(...any) error }) (models.Location, error) {
	var l models.Location
	err := row.Scan(&l.ID, &l.Name, &l.Latitude, &l.Longitude, &l.IsDeleted, &l.CreatedAt, &l.UpdatedAt)
	return l, err
}

func (r LocationRepository) List(ctx context.Context, p domain.Pagination) ([]models.Location, int, error) {
	total, err := countActive(ctx, r.DB, "locations", "")
	if err != nil {
		return nil, 0, err
	}
	limit, args := intdb.LimitClause(p)
	rows, err := r.DB.QueryContext(ctx, `SELECT `+locationColumns+` FROM locations WHERE is_deleted = 0 ORDER BY id`+limit, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []models.Location{}
	for rows.Next() {
		l, err := scanLocation(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, l)
	}
	return out, total, rows.Err()
}

func (r LocationRepository) GetByID(ctx context.Context, id int64) (models.Location, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+locationColumns+` FROM locations WHERE id = ? AND is_deleted = 0`, id)
	l, err := scanLocation(row)
	return l, intdb.NotFoundIfNoRows("location", err)
}

// FindIDByName matches an active location case-insensitively.
func (r LocationRepository) FindIDByName(ctx context.Context, name string) (int64, error) {
	var id int64
	err := r.DB.QueryRowContext(ctx,
		`SELECT id FROM locations WHERE LOWER(name) = ? AND is_deleted = 0 ORDER BY id LIMIT 1`,
		strings.ToLower(strings.TrimSpace(name)),
	).Scan(&id)
	return id, err
}

// Names lists active location names alphabetically.
func (r LocationRepository) Names(ctx context.Context) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT name FROM locations WHERE is_deleted = 0 ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []string{}
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r LocationRepository) Create(ctx context.Context, in models.LocationInput) (int64, error) {
	return insertID(ctx, r.DB, "location",
		`INSERT INTO locations (name, latitude, longitude) VALUES (?, ?, ?)`,
		strings.TrimSpace(in.Name), in.Latitude, in.Longitude)
}

func (r LocationRepository) Update(ctx context.Context, id int64, p models.LocationPatch) error {
	sets := []string{}
	args := []any{}
	if p.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, strings.TrimSpace(*p.Name))
	}
	if p.Latitude != nil {
		sets = append(sets, "latitude = ?")
		args = append(args, *p.Latitude)
	}
	if p.Longitude != nil {
		sets = append(sets, "longitude = ?")
		args = append(args, *p.Longitude)
	}
	return updateColumns(ctx, r.DB, "locations", "location", id, sets, args)
}

func (r LocationRepository) SoftDelete(ctx context.Context, id int64) error {
	return softDelete(ctx, r.DB, "locations", "location", id)
}
