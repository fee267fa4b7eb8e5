package services

import (
	"context"
	"database/sql"
	"fmt"

	intdb "horizontravels/internal/db"
	"horizontravels/internal/domain"
	"horizontravels/internal/domain/models"
	"horizontravels/internal/repositories"
	"horizontravels/internal/utils"
)

// TravelService manages the timetable (travel details) and the fare table (expenses).
type TravelService struct {
	DB        *sql.DB
	RequestID string
}

func (s TravelService) ListTravelDetails(ctx context.Context, p domain.Pagination) (domain.Page[models.TravelDetail], error) {
	items, total, err := repositories.TravelDetailRepository{DB: s.DB}.List(ctx, p)
	if err != nil {
		return domain.Page[models.TravelDetail]{}, err
	}
	return domain.NewPage(items, p, total), nil
}

func (s TravelService) GetTravelDetail(ctx context.Context, id int64) (models.TravelDetail, error) {
	return repositories.TravelDetailRepository{DB: s.DB}.GetByID(ctx, id)
}

func (s TravelService) CreateTravelDetail(ctx context.Context, in models.TravelDetailInput) (models.TravelDetail, error) {
	if err := validateInput(in); err != nil {
		return models.TravelDetail{}, err
	}
	var out models.TravelDetail
	err := intdb.WithinTx(ctx, s.DB, func(tx *sql.Tx) error {
		repo := repositories.TravelDetailRepository{DB: tx}
		id, err := repo.Create(ctx, in)
		if err != nil {
			return err
		}
		out, err = repo.GetByID(ctx, id)
		return err
	})
	if err == nil {
		utils.LogEvent(s.RequestID, "travel", "create_travel_detail", fmt.Sprintf("travel_detail_id=%d", out.ID))
	}
	return out, err
}

// UpdateTravelDetail merges the patch onto the stored journey and re-checks
// the location and time invariants on the result.
func (s TravelService) UpdateTravelDetail(ctx context.Context, id int64, p models.TravelDetailPatch) (models.TravelDetail, error) {
	var out models.TravelDetail
	err := intdb.WithinTx(ctx, s.DB, func(tx *sql.Tx) error {
		repo := repositories.TravelDetailRepository{DB: tx}
		cur, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		merged := p.Apply(cur)
		if err := validateInput(merged); err != nil {
			return err
		}
		if err := repo.Replace(ctx, id, merged); err != nil {
			return err
		}
		out, err = repo.GetByID(ctx, id)
		return err
	})
	return out, err
}

func (s TravelService) DeleteTravelDetail(ctx context.Context, id int64) error {
	return intdb.WithinTx(ctx, s.DB, func(tx *sql.Tx) error {
		return repositories.TravelDetailRepository{DB: tx}.SoftDelete(ctx, id)
	})
}

func (s TravelService) ListExpenses(ctx context.Context, p domain.Pagination) (domain.Page[models.Expense], error) {
	items, total, err := repositories.ExpenseRepository{DB: s.DB}.List(ctx, p)
	if err != nil {
		return domain.Page[models.Expense]{}, err
	}
	return domain.NewPage(items, p, total), nil
}

func (s TravelService) GetExpense(ctx context.Context, id int64) (models.Expense, error) {
	return repositories.ExpenseRepository{DB: s.DB}.GetByID(ctx, id)
}

func (s TravelService) CreateExpense(ctx context.Context, in models.ExpenseInput) (models.Expense, error) {
	if err := validateInput(in); err != nil {
		return models.Expense{}, err
	}
	in.Cost = utils.RoundMoney(in.Cost)
	var out models.Expense
	err := intdb.WithinTx(ctx, s.DB, func(tx *sql.Tx) error {
		repo := repositories.ExpenseRepository{DB: tx}
		if err := ensureSinglePrice(ctx, repo, in, 0); err != nil {
			return err
		}
		id, err := repo.Create(ctx, in)
		if err != nil {
			return err
		}
		out, err = repo.GetByID(ctx, id)
		return err
	})
	return out, err
}

func (s TravelService) UpdateExpense(ctx context.Context, id int64, p models.ExpensePatch) (models.Expense, error) {
	var out models.Expense
	err := intdb.WithinTx(ctx, s.DB, func(tx *sql.Tx) error {
		repo := repositories.ExpenseRepository{DB: tx}
		cur, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		merged := p.Apply(cur)
		if err := validateInput(merged); err != nil {
			return err
		}
		merged.Cost = utils.RoundMoney(merged.Cost)
		if err := ensureSinglePrice(ctx, repo, merged, id); err != nil {
			return err
		}
		if err := repo.Replace(ctx, id, merged); err != nil {
			return err
		}
		out, err = repo.GetByID(ctx, id)
		return err
	})
	return out, err
}

func (s TravelService) DeleteExpense(ctx context.Context, id int64) error {
	return intdb.WithinTx(ctx, s.DB, func(tx *sql.Tx) error {
		return repositories.ExpenseRepository{DB: tx}.SoftDelete(ctx, id)
	})
}

// ensureSinglePrice keeps one active price per journey and category.
func ensureSinglePrice(ctx context.Context, repo repositories.ExpenseRepository, in models.ExpenseInput, selfID int64) error {
	n, err := repo.CountPair(ctx, in.TravelDetailID, in.PriceCategoryID, selfID)
	if err != nil {
		return err
	}
	if n > 0 {
		return domain.ConflictError{
			Resource: "expense",
			Code:     "duplicate_fare",
			Msg:      fmt.Sprintf("travel detail %d already has a price for category %d", in.TravelDetailID, in.PriceCategoryID),
		}
	}
	return nil
}
