package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"horizontravels/internal/domain"

	"github.com/go-sql-driver/mysql"
)

// MySQL server error numbers surfaced as integrity errors.
const (
	mysqlDuplicateEntry   = 1062
	mysqlNoReferencedRow  = 1452
	mysqlRowIsReferenced  = 1451
	mysqlNoReferencedRow2 = 1216
)

// DBTX is satisfied by both *sql.DB and *sql.Tx so repositories work inside
// and outside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// WithinTx runs fn in a transaction, committing on success and rolling back
// on error or panic.
func WithinTx(ctx context.Context, conn *sql.DB, fn func(tx *sql.Tx) error) (err error) {
	if conn == nil {
		return domain.InternalError{Msg: "database not connected"}
	}
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		if cerr := tx.Commit(); cerr != nil {
			err = fmt.Errorf("commit transaction: %w", cerr)
		}
	}()

	err = fn(tx)
	return err
}

// ClassifyError turns driver-level constraint failures into domain errors.
// Other errors pass through unchanged.
func ClassifyError(resource string, err error) error {
	if err == nil {
		return nil
	}
	var myErr *mysql.MySQLError
	if !errors.As(err, &myErr) {
		return err
	}
	switch myErr.Number {
	case mysqlDuplicateEntry:
		return domain.IntegrityError{Resource: resource, Kind: domain.IntegrityDuplicate, Err: err}
	case mysqlNoReferencedRow, mysqlNoReferencedRow2, mysqlRowIsReferenced:
		return domain.IntegrityError{Resource: resource, Kind: domain.IntegrityInvalidRef, Err: err}
	default:
		return err
	}
}

// NotFoundIfNoRows maps sql.ErrNoRows to a NotFoundError for resource.
func NotFoundIfNoRows(resource string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NotFoundError{Resource: resource, Err: err}
	}
	return err
}

// LimitClause renders LIMIT/OFFSET for a pagination request, or "" for all rows.
func LimitClause(p domain.Pagination) (string, []any) {
	if p.Limit <= 0 {
		return "", nil
	}
	return " LIMIT ? OFFSET ?", []any{p.Limit, p.Offset()}
}

// NullInt64 converts an optional id into a driver value.
func NullInt64(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}

// NullTime maps a zero time to NULL so the column default applies.
func NullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}

// Int64Ptr reads a nullable column back into an optional id.
func Int64Ptr(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}
