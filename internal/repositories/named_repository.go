package repositories

import (
	"context"
	"strings"

	intdb "horizontravels/internal/db"
	"horizontravels/internal/domain"
	"horizontravels/internal/domain/models"
)

// namedTable covers the lookup tables that only carry a unique name.
type namedTable struct {
	db       intdb.DBTX
	table    string
	resource string
}

const namedColumns = `id, name, is_deleted, created_at, updated_at`

func scanNamed(row interface{ Scan(...any) error }) (models.NamedRef, error) {
	var n models.NamedRef
	err := row.Scan(&n.ID, &n.Name, &n.IsDeleted, &n.CreatedAt, &n.UpdatedAt)
	return n, err
}

func (t namedTable) list(ctx context.Context, p domain.Pagination) ([]models.NamedRef, int, error) {
	total, err := countActive(ctx, t.db, t.table, "")
	if err != nil {
		return nil, 0, err
	}
	limit, args := intdb.LimitClause(p)
	rows, err := t.db.QueryContext(ctx, `SELECT `+namedColumns+` FROM `+t.table+` WHERE is_deleted = 0 ORDER BY id`+limit, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	out := []models.NamedRef{}
	for rows.Next() {
		n, err := scanNamed(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, n)
	}
	return out, total, rows.Err()
}

func (t namedTable) get(ctx context.Context, id int64) (models.NamedRef, error) {
	n, err := scanNamed(t.db.QueryRowContext(ctx, `SELECT `+namedColumns+` FROM `+t.table+` WHERE id = ? AND is_deleted = 0`, id))
	return n, intdb.NotFoundIfNoRows(t.resource, err)
}

func (t namedTable) findID(ctx context.Context, name string) (int64, error) {
	var id int64
	err := t.db.QueryRowContext(ctx,
		`SELECT id FROM `+t.table+` WHERE LOWER(name) = ? AND is_deleted = 0 ORDER BY id LIMIT 1`,
		strings.ToLower(strings.TrimSpace(name)),
	).Scan(&id)
	return id, err
}

func (t namedTable) names(ctx context.Context) ([]string, error) {
	rows, err := t.db.QueryContext(ctx, `SELECT name FROM `+t.table+` WHERE is_deleted = 0 ORDER BY id`)
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

func (t namedTable) create(ctx context.Context, name string) (int64, error) {
	return insertID(ctx, t.db, t.resource, `INSERT INTO `+t.table+` (name) VALUES (?)`, strings.TrimSpace(name))
}

func (t namedTable) rename(ctx context.Context, id int64, name string) error {
	return updateColumns(ctx, t.db, t.table, t.resource, id, []string{"name = ?"}, []any{strings.TrimSpace(name)})
}

func (t namedTable) softDelete(ctx context.Context, id int64) error {
	return softDelete(ctx, t.db, t.table, t.resource, id)
}

type TravelTypeRepository struct {
	DB intdb.DBTX
}

func (r TravelTypeRepository) t() namedTable {
	return namedTable{db: r.DB, table: "travel_types", resource: "travel type"}
}

func (r TravelTypeRepository) List(ctx context.Context, p domain.Pagination) ([]models.TravelType, int, error) {
	refs, total, err := r.t().list(ctx, p)
	out := make([]models.TravelType, 0, len(refs))
	for _, n := range refs {
		out = append(out, models.TravelType{NamedRef: n})
	}
	return out, total, err
}

func (r TravelTypeRepository) GetByID(ctx context.Context, id int64) (models.TravelType, error) {
	n, err := r.t().get(ctx, id)
	return models.TravelType{NamedRef: n}, err
}

func (r TravelTypeRepository) FindIDByName(ctx context.Context, name string) (int64, error) {
	return r.t().findID(ctx, name)
}

func (r TravelTypeRepository) Names(ctx context.Context) ([]string, error) {
	return r.t().names(ctx)
}

func (r TravelTypeRepository) Create(ctx context.Context, name string) (int64, error) {
	return r.t().create(ctx, name)
}

func (r TravelTypeRepository) Rename(ctx context.Context, id int64, name string) error {
	return r.t().rename(ctx, id, name)
}

func (r TravelTypeRepository) SoftDelete(ctx context.Context, id int64) error {
	return r.t().softDelete(ctx, id)
}

type PriceCategoryRepository struct {
	DB intdb.DBTX
}

func (r PriceCategoryRepository) t() namedTable {
	return namedTable{db: r.DB, table: "price_categories", resource: "price category"}
}

func (r PriceCategoryRepository) List(ctx context.Context, p domain.Pagination) ([]models.PriceCategory, int, error) {
	refs, total, err := r.t().list(ctx, p)
	out := make([]models.PriceCategory, 0, len(refs))
	for _, n := range refs {
		out = append(out, models.PriceCategory{NamedRef: n})
	}
	return out, total, err
}

func (r PriceCategoryRepository) GetByID(ctx context.Context, id int64) (models.PriceCategory, error) {
	n, err := r.t().get(ctx, id)
	return models.PriceCategory{NamedRef: n}, err
}

func (r PriceCategoryRepository) FindIDByName(ctx context.Context, name string) (int64, error) {
	return r.t().findID(ctx, name)
}

func (r PriceCategoryRepository) Create(ctx context.Context, name string) (int64, error) {
	return r.t().create(ctx, name)
}

func (r PriceCategoryRepository) Rename(ctx context.Context, id int64, name string) error {
	return r.t().rename(ctx, id, name)
}

func (r PriceCategoryRepository) SoftDelete(ctx context.Context, id int64) error {
	return r.t().softDelete(ctx, id)
}
