package repositories

import (
	"context"

	intdb "horizontravels/internal/db"
	"horizontravels/internal/domain"
	"horizontravels/internal/domain/models"
)

type RoleRepository struct {
	DB intdb.DBTX
}

const roleColumns = `id, role_name, is_deleted, created_at, updated_at`

func scanRole(row interface{ Scan(...any) error }) (models.Role, error) {
	var r models.Role
	err := row.Scan(&r.ID, &r.RoleName, &r.IsDeleted, &r.CreatedAt, &r.UpdatedAt)
	return r, err
}

func (r RoleRepository) List(ctx context.Context, p domain.Pagination) ([]models.Role, int, error) {
	total, err := countActive(ctx, r.DB, "roles", "")
	if err != nil {
		return nil, 0, err
	}
	limit, args := intdb.LimitClause(p)
	rows, err := r.DB.QueryContext(ctx, `SELECT `+roleColumns+` FROM roles WHERE is_deleted = 0 ORDER BY id`+limit, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	out := []models.Role{}
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, role)
	}
	return out, total, rows.Err()
}

func (r RoleRepository) GetByID(ctx context.Context, id int64) (models.Role, error) {
	role, err := scanRole(r.DB.QueryRowContext(ctx, `SELECT `+roleColumns+` FROM roles WHERE id = ? AND is_deleted = 0`, id))
	return role, intdb.NotFoundIfNoRows("role", err)
}

func (r RoleRepository) Create(ctx context.Context, in models.RoleInput) (int64, error) {
	return insertID(ctx, r.DB, "role", `INSERT INTO roles (role_name) VALUES (?)`, in.RoleName)
}

func (r RoleRepository) Rename(ctx context.Context, id int64, in models.RoleInput) error {
	return updateColumns(ctx, r.DB, "roles", "role", id, []string{"role_name = ?"}, []any{in.RoleName})
}

func (r RoleRepository) SoftDelete(ctx context.Context, id int64) error {
	return softDelete(ctx, r.DB, "roles", "role", id)
}
