package services

import (
	"context"
	"database/sql"
	"fmt"

	"horizontravels/internal/domain/models"
	"horizontravels/internal/repositories"
	"horizontravels/internal/utils"
)

const topCustomerLimit = 5

type DashboardService struct {
	DB *sql.DB
}

// UserDashboard lists a user's bookings, newest first.
func (s DashboardService) UserDashboard(ctx context.Context, userID int64) ([]models.BookingView, error) {
	if _, err := (repositories.UserRepository{DB: s.DB}).GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return repositories.BookingRepository{DB: s.DB}.ListViews(ctx, &userID)
}

// AdminDashboard aggregates all owned bookings. Revenue is net of refunds.
func (s DashboardService) AdminDashboard(ctx context.Context) (models.AdminDashboard, error) {
	repo := repositories.BookingRepository{DB: s.DB}
	views, err := repo.ListViews(ctx, nil)
	if err != nil {
		return models.AdminDashboard{}, err
	}
	top, err := repo.TopCustomers(ctx, topCustomerLimit)
	if err != nil {
		return models.AdminDashboard{}, err
	}
	out := summarize(views)
	out.TopCustomers = top
	return out, nil
}

func summarize(views []models.BookingView) models.AdminDashboard {
	out := models.AdminDashboard{
		Bookings:       views,
		MonthlyRevenue: map[string]float64{},
		JourneyRevenue: map[string]float64{},
		TopCustomers:   []models.TopCustomer{},
	}
	for _, v := range views {
		net := v.Cost - v.RefundAmount
		month := utils.MonthKey(v.CreatedAt)
		out.MonthlyRevenue[month] = utils.RoundMoney(out.MonthlyRevenue[month] + net)
		journey := fmt.Sprintf("%s - %s by %s", v.DepartureLocation, v.ArrivalLocation, v.TravelType)
		out.JourneyRevenue[journey] = utils.RoundMoney(out.JourneyRevenue[journey] + net)
	}
	return out
}
