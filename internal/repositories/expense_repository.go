package repositories

import (
	"context"

	intdb "horizontravels/internal/db"
	"horizontravels/internal/domain"
	"horizontravels/internal/domain/models"
)

type ExpenseRepository struct {
	DB intdb.DBTX
}

const expenseColumns = `id, travel_detail_id, price_category_id, cost, is_deleted, created_at, updated_at`

func scanExpense(row interface{ Scan(...any) error }) (models.Expense, error) {
	var e models.Expense
	err := row.Scan(&e.ID, &e.TravelDetailID, &e.PriceCategoryID, &e.Cost, &e.IsDeleted, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

func (r ExpenseRepository) List(ctx context.Context, p domain.Pagination) ([]models.Expense, int, error) {
	total, err := countActive(ctx, r.DB, "expenses", "")
	if err != nil {
		return nil, 0, err
	}
	limit, args := intdb.LimitClause(p)
	rows, err := r.DB.QueryContext(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE is_deleted = 0 ORDER BY id`+limit, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	out := []models.Expense{}
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, e)
	}
	return out, total, rows.Err()
}

func (r ExpenseRepository) GetByID(ctx context.Context, id int64) (models.Expense, error) {
	e, err := scanExpense(r.DB.QueryRowContext(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE id = ? AND is_deleted = 0`, id))
	return e, intdb.NotFoundIfNoRows("expense", err)
}

// CountPair counts active expenses for a travel detail and price category,
// ignoring excludeID (0 to ignore nothing).
func (r ExpenseRepository) CountPair(ctx context.Context, travelDetailID, priceCategoryID, excludeID int64) (int, error) {
	return countActive(ctx, r.DB, "expenses",
		"travel_detail_id = ? AND price_category_id = ? AND id <> ?",
		travelDetailID, priceCategoryID, excludeID)
}

func (r ExpenseRepository) Create(ctx context.Context, in models.ExpenseInput) (int64, error) {
	return insertID(ctx, r.DB, "expense",
		`INSERT INTO expenses (travel_detail_id, price_category_id, cost) VALUES (?, ?, ?)`,
		in.TravelDetailID, in.PriceCategoryID, in.Cost)
}

func (r ExpenseRepository) Replace(ctx context.Context, id int64, in models.ExpenseInput) error {
	return updateColumns(ctx, r.DB, "expenses", "expense", id,
		[]string{"travel_detail_id = ?", "price_category_id = ?", "cost = ?"},
		[]any{in.TravelDetailID, in.PriceCategoryID, in.Cost})
}

func (r ExpenseRepository) SoftDelete(ctx context.Context, id int64) error {
	return softDelete(ctx, r.DB, "expenses", "expense", id)
}
