package repositories

import (
	"context"
	"database/sql"

	intdb "horizontravels/internal/db"
	"horizontravels/internal/domain"
	"horizontravels/internal/domain/models"
)

type BookingRepository struct {
	DB intdb.DBTX
}

const bookingColumns = `id, user_id, travel_detail_id, price_category_id, cost, status, refund_amount, is_deleted, created_at, updated_at`

func scanBooking(row interface{ Scan(...any) error }) (models.Booking, error) {
	var (
		b        models.Booking
		userID   sql.NullInt64
		category sql.NullInt64
	)
	err := row.Scan(&b.ID, &userID, &b.TravelDetailID, &category, &b.Cost, &b.Status, &b.RefundAmount,
		&b.IsDeleted, &b.CreatedAt, &b.UpdatedAt)
	b.UserID = intdb.Int64Ptr(userID)
	b.PriceCategoryID = intdb.Int64Ptr(category)
	return b, err
}

// Create stores a booking stamped with b.CreatedAt, the clock refund ages are
// measured against. A zero CreatedAt falls back to the database clock.
func (r BookingRepository) Create(ctx context.Context, b models.Booking) (int64, error) {
	return insertID(ctx, r.DB, "booking", `
		INSERT INTO bookings (user_id, travel_detail_id, price_category_id, cost, status, refund_amount, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, COALESCE(?, CURRENT_TIMESTAMP), COALESCE(?, CURRENT_TIMESTAMP))
	`, intdb.NullInt64(b.UserID), b.TravelDetailID, intdb.NullInt64(b.PriceCategoryID), b.Cost, b.Status, b.RefundAmount,
		intdb.NullTime(b.CreatedAt), intdb.NullTime(b.CreatedAt))
}

func (r BookingRepository) GetByID(ctx context.Context, id int64) (models.Booking, error) {
	b, err := scanBooking(r.DB.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = ? AND is_deleted = 0`, id))
	return b, intdb.NotFoundIfNoRows("booking", err)
}

// GetForUpdate locks the booking row for the rest of the transaction.
func (r BookingRepository) GetForUpdate(ctx context.Context, id int64) (models.Booking, error) {
	b, err := scanBooking(r.DB.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = ? AND is_deleted = 0 FOR UPDATE`, id))
	return b, intdb.NotFoundIfNoRows("booking", err)
}

func (r BookingRepository) List(ctx context.Context, p domain.Pagination) ([]models.Booking, int, error) {
	total, err := countActive(ctx, r.DB, "bookings", "")
	if err != nil {
		return nil, 0, err
	}
	limit, args := intdb.LimitClause(p)
	rows, err := r.DB.QueryContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE is_deleted = 0 ORDER BY id DESC`+limit, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	out := []models.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, b)
	}
	return out, total, rows.Err()
}

// Cancel moves a successful booking to cancelled with the given refund.
// It reports false when the row was not in the success state.
func (r BookingRepository) Cancel(ctx context.Context, id int64, refund float64) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE bookings SET status = ?, refund_amount = ?
		WHERE id = ? AND status = ? AND is_deleted = 0
	`, models.BookingStatusCancelled, refund, id, models.BookingStatusSuccess)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r BookingRepository) Update(ctx context.Context, id int64, p models.BookingPatch) error {
	sets := []string{}
	args := []any{}
	if p.UserID != nil {
		sets = append(sets, "user_id = ?")
		args = append(args, *p.UserID)
	}
	if p.TravelDetailID != nil {
		sets = append(sets, "travel_detail_id = ?")
		args = append(args, *p.TravelDetailID)
	}
	if p.Cost != nil {
		sets = append(sets, "cost = ?")
		args = append(args, *p.Cost)
	}
	if p.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, *p.Status)
	}
	if p.RefundAmount != nil {
		sets = append(sets, "refund_amount = ?")
		args = append(args, *p.RefundAmount)
	}
	return updateColumns(ctx, r.DB, "bookings", "booking", id, sets, args)
}

func (r BookingRepository) SoftDelete(ctx context.Context, id int64) error {
	return softDelete(ctx, r.DB, "bookings", "booking", id)
}

// CountActiveByTravelDetail counts bookings still holding a seat on a journey.
func (r BookingRepository) CountActiveByTravelDetail(ctx context.Context, travelDetailID int64) (int, error) {
	return countActive(ctx, r.DB, "bookings", "travel_detail_id = ? AND status = ?", travelDetailID, models.BookingStatusSuccess)
}

const bookingViewSelect = `
	SELECT b.id, b.user_id, COALESCE(u.name, ''), COALESCE(u.email, ''), COALESCE(u.username, ''),
	       tt.name, COALESCE(pc.name, ''), dl.name, td.departure_time, al.name, td.arrival_time,
	       b.cost, b.status, b.refund_amount, b.created_at
	FROM bookings b
	JOIN travel_details td        ON td.id = b.travel_detail_id
	JOIN travel_types tt          ON tt.id = td.travel_type_id
	JOIN locations dl             ON dl.id = td.departure_location_id
	JOIN locations al             ON al.id = td.arrival_location_id
	LEFT JOIN price_categories pc ON pc.id = b.price_category_id
	LEFT JOIN users u             ON u.id = b.user_id
	WHERE b.is_deleted = 0`

func scanBookingView(row interface{ Scan(...any) error }) (models.BookingView, error) {
	var (
		v      models.BookingView
		userID sql.NullInt64
	)
	err := row.Scan(&v.BookingID, &userID, &v.UserName, &v.UserEmail, &v.Username,
		&v.TravelType, &v.ClassType, &v.DepartureLocation, &v.DepartureTime, &v.ArrivalLocation, &v.ArrivalTime,
		&v.Cost, &v.Status, &v.RefundAmount, &v.CreatedAt)
	v.UserID = intdb.Int64Ptr(userID)
	return v, err
}

// GetView loads one booking joined with its journey and owner.
func (r BookingRepository) GetView(ctx context.Context, id int64) (models.BookingView, error) {
	v, err := scanBookingView(r.DB.QueryRowContext(ctx, bookingViewSelect+` AND b.id = ?`, id))
	return v, intdb.NotFoundIfNoRows("booking", err)
}

// ListViews lists joined bookings, newest first. A non-nil userID restricts
// the list to that user; otherwise only bookings with an owner are returned.
func (r BookingRepository) ListViews(ctx context.Context, userID *int64) ([]models.BookingView, error) {
	q := bookingViewSelect
	args := []any{}
	if userID != nil {
		q += ` AND b.user_id = ?`
		args = append(args, *userID)
	} else {
		q += ` AND b.user_id IS NOT NULL`
	}
	rows, err := r.DB.QueryContext(ctx, q+` ORDER BY b.created_at DESC, b.id DESC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []models.BookingView{}
	for rows.Next() {
		v, err := scanBookingView(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// TopCustomers ranks users by number of bookings.
func (r BookingRepository) TopCustomers(ctx context.Context, limit int) ([]models.TopCustomer, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT u.id, u.name, COUNT(b.id) AS booking_count
		FROM bookings b
		JOIN users u ON u.id = b.user_id AND u.is_deleted = 0
		WHERE b.is_deleted = 0
		GROUP BY u.id, u.name
		ORDER BY booking_count DESC, u.id ASC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []models.TopCustomer{}
	for rows.Next() {
		var c models.TopCustomer
		if err := rows.Scan(&c.UserID, &c.UserName, &c.BookingCount); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
