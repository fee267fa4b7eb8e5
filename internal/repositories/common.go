package repositories

import (
	"context"
	"fmt"
	"strings"

	intdb "horizontravels/internal/db"
	"horizontravels/internal/domain"
)

func countActive(ctx context.Context, db intdb.DBTX, table, where string, args ...any) (int, error) {
	q := `SELECT COUNT(*) FROM ` + table + ` WHERE is_deleted = 0`
	if where != "" {
		q += " AND " + where
	}
	var n int
	if err := db.QueryRowContext(ctx, q, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// softDelete flags an active row as deleted. A missing or already deleted row
// is reported as not found.
func softDelete(ctx context.Context, db intdb.DBTX, table, resource string, id int64) error {
	res, err := db.ExecContext(ctx, `UPDATE `+table+` SET is_deleted = 1 WHERE id = ? AND is_deleted = 0`, id)
	if err != nil {
		return intdb.ClassifyError(resource, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: resource}
	}
	return nil
}

// updateColumns applies "col = ?" assignments to one active row.
func updateColumns(ctx context.Context, db intdb.DBTX, table, resource string, id int64, sets []string, args []any) error {
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)
	q := fmt.Sprintf(`UPDATE %s SET %s WHERE id = ? AND is_deleted = 0`, table, strings.Join(sets, ", "))
	if _, err := db.ExecContext(ctx, q, args...); err != nil {
		return intdb.ClassifyError(resource, err)
	}
	return nil
}

func insertID(ctx context.Context, db intdb.DBTX, resource, query string, args ...any) (int64, error) {
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, intdb.ClassifyError(resource, err)
	}
	return res.LastInsertId()
}
