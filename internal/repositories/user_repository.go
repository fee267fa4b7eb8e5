package repositories

import (
	"context"
	"database/sql"
	"strings"

	intdb "horizontravels/internal/db"
	"horizontravels/internal/domain"
	"horizontravels/internal/domain/models"
)

type UserRepository struct {
	DB intdb.DBTX
}

const userColumns = `id, name, contact, username, email, password, is_admin, password_otp, password_verified, is_deleted, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (models.User, error) {
	var (
		u        models.User
		otp      sql.NullString
		verified sql.NullBool
	)
	err := row.Scan(&u.ID, &u.Name, &u.Contact, &u.Username, &u.Email, &u.PasswordHash, &u.IsAdmin,
		&otp, &verified, &u.IsDeleted, &u.CreatedAt, &u.UpdatedAt)
	if otp.Valid {
		u.PasswordOTP = &otp.String
	}
	if verified.Valid {
		u.PasswordVerified = &verified.Bool
	}
	return u, err
}

func (r UserRepository) List(ctx context.Context, p domain.Pagination) ([]models.User, int, error) {
	total, err := countActive(ctx, r.DB, "users", "")
	if err != nil {
		return nil, 0, err
	}
	limit, args := intdb.LimitClause(p)
	rows, err := r.DB.QueryContext(ctx, `SELECT `+userColumns+` FROM users WHERE is_deleted = 0 ORDER BY id`+limit, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	out := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, u)
	}
	return out, total, rows.Err()
}

func (r UserRepository) GetByID(ctx context.Context, id int64) (models.User, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ? AND is_deleted = 0`, id))
	return u, intdb.NotFoundIfNoRows("user", err)
}

// GetByLogin finds an active user by email or username.
func (r UserRepository) GetByLogin(ctx context.Context, login string) (models.User, error) {
	login = strings.TrimSpace(login)
	u, err := scanUser(r.DB.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE (email = ? OR username = ?) AND is_deleted = 0 LIMIT 1`, login, login))
	return u, intdb.NotFoundIfNoRows("user", err)
}

// CountByEmailOrUsername counts accounts, deleted or not, holding either identifier.
func (r UserRepository) CountByEmailOrUsername(ctx context.Context, email, username string) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE email = ? OR username = ?`, email, username).Scan(&n)
	return n, err
}

func (r UserRepository) Create(ctx context.Context, u models.User) (int64, error) {
	return insertID(ctx, r.DB, "user", `
		INSERT INTO users (name, contact, username, email, password, is_admin)
		VALUES (?, ?, ?, ?, ?, ?)
	`, u.Name, u.Contact, u.Username, u.Email, u.PasswordHash, u.IsAdmin)
}

// Update applies a patch; passwordHash replaces the stored hash when non-empty.
func (r UserRepository) Update(ctx context.Context, id int64, p models.UserPatch, passwordHash string) error {
	sets := []string{}
	args := []any{}
	if p.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, strings.TrimSpace(*p.Name))
	}
	if p.Contact != nil {
		sets = append(sets, "contact = ?")
		args = append(args, strings.TrimSpace(*p.Contact))
	}
	if p.Username != nil {
		sets = append(sets, "username = ?")
		args = append(args, strings.TrimSpace(*p.Username))
	}
	if p.Email != nil {
		sets = append(sets, "email = ?")
		args = append(args, strings.TrimSpace(*p.Email))
	}
	if passwordHash != "" {
		sets = append(sets, "password = ?")
		args = append(args, passwordHash)
	}
	if p.IsAdmin != nil {
		sets = append(sets, "is_admin = ?")
		args = append(args, *p.IsAdmin)
	}
	return updateColumns(ctx, r.DB, "users", "user", id, sets, args)
}

func (r UserRepository) SoftDelete(ctx context.Context, id int64) error {
	return softDelete(ctx, r.DB, "users", "user", id)
}
