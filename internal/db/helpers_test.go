package db

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"horizontravels/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
)

func TestWithinTxCommits(t *testing.T) {
	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer conn.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE bookings`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err = WithinTx(context.Background(), conn, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(context.Background(), `UPDATE bookings SET status = 'cancelled'`)
		return err
	})
	if err != nil {
		t.Fatalf("WithinTx returned error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestWithinTxRollsBackOnError(t *testing.T) {
	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer conn.Close()

	boom := errors.New("boom")
	mock.ExpectBegin()
	mock.ExpectRollback()

	err = WithinTx(context.Background(), conn, func(tx *sql.Tx) error { return boom })
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestWithinTxNilConnection(t *testing.T) {
	err := WithinTx(context.Background(), nil, func(tx *sql.Tx) error { return nil })
	if !domain.IsInternal(err) {
		t.Fatalf("expected internal error, got %v", err)
	}
}

func TestClassifyError(t *testing.T) {
	dup := ClassifyError("expense", &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})
	var ie domain.IntegrityError
	if !errors.As(dup, &ie) || ie.Kind != domain.IntegrityDuplicate {
		t.Fatalf("expected duplicate integrity error, got %v", dup)
	}

	ref := ClassifyError("booking", &mysql.MySQLError{Number: 1452, Message: "Cannot add or update a child row"})
	if !errors.As(ref, &ie) || ie.Kind != domain.IntegrityInvalidRef {
		t.Fatalf("expected invalid reference, got %v", ref)
	}

	other := errors.New("timeout")
	if got := ClassifyError("booking", other); got != other {
		t.Fatalf("unrelated errors must pass through, got %v", got)
	}
	if ClassifyError("booking", nil) != nil {
		t.Fatalf("nil must stay nil")
	}
}

func TestLimitClause(t *testing.T) {
	if clause, args := LimitClause(domain.Pagination{}); clause != "" || args != nil {
		t.Fatalf("expected no limit, got %q %v", clause, args)
	}
	clause, args := LimitClause(domain.Pagination{Page: 3, Limit: 10})
	if clause != " LIMIT ? OFFSET ?" || args[0] != 10 || args[1] != 20 {
		t.Fatalf("unexpected limit clause %q %v", clause, args)
	}
}
