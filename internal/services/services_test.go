package services

import (
	"context"
	"database/sql"
	"errors"
	"reflect"
	"testing"
	"time"

	"horizontravels/internal/domain"
	"horizontravels/internal/domain/models"

	"github.com/DATA-DOG/go-sqlmock"
)

var fixedNow = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
		db.Close()
	})
	return db, mock
}

var bookingCols = []string{"id", "user_id", "travel_detail_id", "price_category_id", "cost", "status", "refund_amount", "is_deleted", "created_at", "updated_at"}

func bookingRow(id int64, userID any, cost float64, status string, refund float64, created time.Time) *sqlmock.Rows {
	return sqlmock.NewRows(bookingCols).AddRow(id, userID, int64(3), int64(2), cost, status, refund, false, created, created)
}

var fareCols = []string{"e.id", "td.id", "pc.id", "tt.name", "pc.name", "dl.name", "td.departure_time", "al.name", "td.arrival_time", "e.cost"}

func expectRouteLookup(mock sqlmock.Sqlmock) {
	mock.ExpectQuery(`SELECT id FROM travel_types WHERE LOWER\(name\) = \?`).WithArgs("air").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectQuery(`SELECT id FROM locations WHERE LOWER\(name\) = \?`).WithArgs("london").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(8))
	mock.ExpectQuery(`SELECT id FROM locations WHERE LOWER\(name\) = \?`).WithArgs("manchester").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(9))
}

func TestResolveFaresSortsAndDiscounts(t *testing.T) {
	db, mock := newMockDB(t)

	arrival := fixedNow.Add(85 * 24 * time.Hour)
	departure := arrival.Add(-80 * time.Minute)
	expectRouteLookup(mock)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM travel_details`).WithArgs(int64(1), int64(8), int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(1))
	mock.ExpectQuery(`FROM expenses e`).WithArgs(int64(1), int64(8), int64(9)).
		WillReturnRows(sqlmock.NewRows(fareCols).
			AddRow(4, 3, 1, "air", "business", "London", departure, "Manchester", arrival, 200.0).
			AddRow(5, 3, 2, "air", "economy", "London", departure, "Manchester", arrival, 120.0).
			AddRow(3, 3, 2, "air", "economy", "London", departure, "Manchester", arrival, 120.0))

	svc := FareService{DB: db, Now: clock}
	got, err := svc.ResolveFares(context.Background(), models.RouteQuery{TravelType: "Air", Departure: " london ", Arrival: "MANCHESTER"})
	if err != nil {
		t.Fatalf("ResolveFares: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 options, got %d", len(got))
	}
	wantCost := []float64{120, 120, 200}
	wantDiscounted := []float64{96, 96, 160}
	for i := range got {
		if got[i].Cost != wantCost[i] || got[i].DiscountedCost != wantDiscounted[i] {
			t.Errorf("option %d: cost=%v discounted=%v", i, got[i].Cost, got[i].DiscountedCost)
		}
	}
	if got[2].ClassType != "business" {
		t.Fatalf("expected business last, got %s", got[2].ClassType)
	}
}

func TestResolveFaresIsDeterministic(t *testing.T) {
	db, mock := newMockDB(t)

	arrival := fixedNow.Add(20 * 24 * time.Hour)
	departure := arrival.Add(-80 * time.Minute)
	for i := 0; i < 2; i++ {
		expectRouteLookup(mock)
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM travel_details`).WithArgs(int64(1), int64(8), int64(9)).
			WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(2))
		mock.ExpectQuery(`FROM expenses e`).WithArgs(int64(1), int64(8), int64(9)).
			WillReturnRows(sqlmock.NewRows(fareCols).
				AddRow(7, 4, 2, "air", "economy", "London", departure.Add(time.Hour), "Manchester", arrival.Add(time.Hour), 120.0).
				AddRow(5, 3, 2, "air", "economy", "London", departure, "Manchester", arrival, 120.0).
				AddRow(4, 3, 1, "air", "business", "London", departure, "Manchester", arrival, 200.0))
	}

	svc := FareService{DB: db, Now: clock}
	q := models.RouteQuery{TravelType: "air", Departure: "London", Arrival: "Manchester"}
	first, err := svc.ResolveFares(context.Background(), q)
	if err != nil {
		t.Fatalf("ResolveFares: %v", err)
	}
	second, err := svc.ResolveFares(context.Background(), q)
	if err != nil {
		t.Fatalf("ResolveFares: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("same data and clock gave different results:\n%+v\n%+v", first, second)
	}
	if len(first) != 3 || first[0].TravelDetailID != 3 || first[1].TravelDetailID != 4 {
		t.Fatalf("unexpected order %+v", first)
	}
}

func TestResolveFaresUnknownDeparture(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(`SELECT id FROM travel_types`).WithArgs("air").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectQuery(`SELECT id FROM locations`).WithArgs("atlantis").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := FareService{DB: db, Now: clock}.ResolveFares(context.Background(),
		models.RouteQuery{TravelType: "air", Departure: "Atlantis", Arrival: "Manchester"})
	var nf domain.NotFoundError
	if !errors.As(err, &nf) || nf.Resource != "departure location" {
		t.Fatalf("expected departure location not found, got %v", err)
	}
}

func TestResolveFaresNoRouteAndNoFare(t *testing.T) {
	db, mock := newMockDB(t)
	q := models.RouteQuery{TravelType: "air", Departure: "London", Arrival: "Manchester"}

	expectRouteLookup(mock)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM travel_details`).
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(0))
	if _, err := (FareService{DB: db, Now: clock}).ResolveFares(context.Background(), q); !domain.IsNoRoute(err) {
		t.Fatalf("expected no route, got %v", err)
	}

	expectRouteLookup(mock)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM travel_details`).
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(2))
	mock.ExpectQuery(`FROM expenses e`).WillReturnRows(sqlmock.NewRows(fareCols))
	if _, err := (FareService{DB: db, Now: clock}).ResolveFares(context.Background(), q); !domain.IsNoFare(err) {
		t.Fatalf("expected no fare, got %v", err)
	}
}

func TestResolveFaresRejectsBlankNames(t *testing.T) {
	db, _ := newMockDB(t)
	_, err := FareService{DB: db}.ResolveFares(context.Background(), models.RouteQuery{TravelType: "air", Departure: "  ", Arrival: "Leeds"})
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateBookingLocksDiscountedCost(t *testing.T) {
	db, mock := newMockDB(t)

	arrival := fixedNow.Add(50 * 24 * time.Hour)
	userID := int64(7)
	mock.ExpectBegin()
	mock.ExpectQuery(`FROM expenses e.*AND td.id = \?`).WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(fareCols).
			AddRow(9, 3, 2, "air", "economy", "London", arrival.Add(-time.Hour), "Manchester", arrival, 100.0))
	mock.ExpectExec(`INSERT INTO bookings`).
		WithArgs(userID, int64(3), int64(2), 95.0, models.BookingStatusSuccess, 0.0, fixedNow, fixedNow).
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectQuery(`FROM bookings WHERE id = \?`).WithArgs(int64(11)).
		WillReturnRows(bookingRow(11, userID, 95, models.BookingStatusSuccess, 0, fixedNow))
	mock.ExpectQuery(`FROM travel_details WHERE id = \?`).WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "travel_type_id", "dep", "dt", "arr", "at", "is_deleted", "created_at", "updated_at"}).
			AddRow(3, 1, 8, arrival.Add(-time.Hour), 9, arrival, false, fixedNow, fixedNow))
	mock.ExpectQuery(`SELECT seats FROM max_seats`).WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"seats"}).AddRow(120))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM bookings`).WithArgs(int64(3), models.BookingStatusSuccess).
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(1))
	mock.ExpectCommit()

	b, err := BookingService{DB: db, Now: clock}.Create(context.Background(), models.CreateBookingInput{TravelDetailID: 3, UserID: &userID})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if b.Cost != 95 || b.Status != models.BookingStatusSuccess || b.RefundAmount != 0 {
		t.Fatalf("unexpected booking %+v", b)
	}
}

func TestCreateBookingWithoutFareRollsBack(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM expenses e`).WithArgs(int64(3)).WillReturnRows(sqlmock.NewRows(fareCols))
	mock.ExpectQuery(`FROM travel_details WHERE id = \?`).WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "travel_type_id", "dep", "dt", "arr", "at", "is_deleted", "created_at", "updated_at"}).
			AddRow(3, 1, 8, fixedNow, 9, fixedNow.Add(time.Hour), false, fixedNow, fixedNow))
	mock.ExpectRollback()

	_, err := BookingService{DB: db, Now: clock}.Create(context.Background(), models.CreateBookingInput{TravelDetailID: 3})
	if !domain.IsNoFare(err) {
		t.Fatalf("expected no fare, got %v", err)
	}
}

func TestCancelBookingRefundsHalfAfterThirtyDays(t *testing.T) {
	db, mock := newMockDB(t)

	created := fixedNow.Add(-(45*24 + 1) * time.Hour)
	mock.ExpectBegin()
	mock.ExpectQuery(`FROM bookings WHERE id = \? AND is_deleted = 0 FOR UPDATE`).WithArgs(int64(11)).
		WillReturnRows(bookingRow(11, int64(7), 100, models.BookingStatusSuccess, 0, created))
	mock.ExpectExec(`UPDATE bookings SET status = \?, refund_amount = \?`).
		WithArgs(models.BookingStatusCancelled, 50.0, int64(11), models.BookingStatusSuccess).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`FROM bookings WHERE id = \?`).WithArgs(int64(11)).
		WillReturnRows(bookingRow(11, int64(7), 100, models.BookingStatusCancelled, 50, created))
	mock.ExpectCommit()

	b, err := BookingService{DB: db, Now: clock}.Cancel(context.Background(), 11, domain.RequestContext{UserID: 7})
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if b.Status != models.BookingStatusCancelled || b.RefundAmount != 50 {
		t.Fatalf("unexpected booking %+v", b)
	}
}

func TestCancelTwiceIsConflict(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).WithArgs(int64(11)).
		WillReturnRows(bookingRow(11, int64(7), 100, models.BookingStatusCancelled, 100, fixedNow.Add(-90*24*time.Hour)))
	mock.ExpectRollback()

	_, err := BookingService{DB: db, Now: clock}.Cancel(context.Background(), 11, domain.RequestContext{UserID: 7})
	if !domain.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if ce, ok := err.(domain.ConflictError); !ok || ce.Code != "already_cancelled" {
		t.Fatalf("expected already_cancelled code, got %#v", err)
	}
}

func TestCancelOtherUsersBookingIsForbidden(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).WithArgs(int64(11)).
		WillReturnRows(bookingRow(11, int64(7), 100, models.BookingStatusSuccess, 0, fixedNow))
	mock.ExpectRollback()

	_, err := BookingService{DB: db, Now: clock}.Cancel(context.Background(), 11, domain.RequestContext{UserID: 8})
	if !domain.IsForbidden(err) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestCancelMissingBookingIsNotFound(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).WithArgs(int64(99)).WillReturnRows(sqlmock.NewRows(bookingCols))
	mock.ExpectRollback()

	_, err := BookingService{DB: db, Now: clock}.Cancel(context.Background(), 99, domain.RequestContext{IsAdmin: true})
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestPatchRejectsReopeningCancelledBooking(t *testing.T) {
	db, mock := newMockDB(t)

	status := models.BookingStatusSuccess
	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).WithArgs(int64(11)).
		WillReturnRows(bookingRow(11, int64(7), 100, models.BookingStatusCancelled, 0, fixedNow))
	mock.ExpectRollback()

	_, err := BookingService{DB: db, Now: clock}.Patch(context.Background(), 11, models.BookingPatch{Status: &status})
	if !domain.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestPatchRequiresAField(t *testing.T) {
	db, _ := newMockDB(t)
	_, err := BookingService{DB: db}.Patch(context.Background(), 1, models.BookingPatch{})
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSummarizeNetRevenue(t *testing.T) {
	oct := time.Date(2026, 10, 3, 10, 0, 0, 0, time.UTC)
	nov := time.Date(2026, 11, 1, 10, 0, 0, 0, time.UTC)
	views := []models.BookingView{
		{BookingID: 1, DepartureLocation: "London", ArrivalLocation: "Manchester", TravelType: "air", Cost: 100, CreatedAt: oct},
		{BookingID: 2, DepartureLocation: "London", ArrivalLocation: "Manchester", TravelType: "air", Cost: 80, RefundAmount: 40, CreatedAt: oct},
		{BookingID: 3, DepartureLocation: "Bristol", ArrivalLocation: "Glasgow", TravelType: "coach", Cost: 30.5, CreatedAt: nov},
	}
	d := summarize(views)
	if d.MonthlyRevenue["October 2026"] != 140 || d.MonthlyRevenue["November 2026"] != 30.5 {
		t.Fatalf("monthly revenue %v", d.MonthlyRevenue)
	}
	if d.JourneyRevenue["London - Manchester by air"] != 140 || d.JourneyRevenue["Bristol - Glasgow by coach"] != 30.5 {
		t.Fatalf("journey revenue %v", d.JourneyRevenue)
	}
}

func TestValidateInputReportsJSONField(t *testing.T) {
	dep := fixedNow
	err := validateInput(models.TravelDetailInput{
		TravelTypeID:        1,
		DepartureLocationID: 2,
		DepartureTime:       dep,
		ArrivalLocationID:   2,
		ArrivalTime:         dep.Add(time.Hour),
	})
	var ve domain.ValidationError
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	ve, _ = err.(domain.ValidationError)
	if ve.Field != "arrival_location_id" {
		t.Fatalf("field = %q", ve.Field)
	}

	err = validateInput(models.TravelDetailInput{
		TravelTypeID:        1,
		DepartureLocationID: 2,
		DepartureTime:       dep,
		ArrivalLocationID:   3,
		ArrivalTime:         dep,
	})
	ve, _ = err.(domain.ValidationError)
	if ve.Field != "arrival_time" {
		t.Fatalf("expected arrival_time error, got %v", err)
	}
}

func TestCreateByRouteFiltersClass(t *testing.T) {
	db, mock := newMockDB(t)

	arrival := fixedNow.Add(85 * 24 * time.Hour)
	departure := arrival.Add(-80 * time.Minute)
	mock.ExpectBegin()
	expectRouteLookup(mock)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM travel_details`).WithArgs(int64(1), int64(8), int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(1))
	mock.ExpectQuery(`FROM expenses e`).WithArgs(int64(1), int64(8), int64(9)).
		WillReturnRows(sqlmock.NewRows(fareCols).
			AddRow(5, 3, 1, "air", "business", "London", departure, "Manchester", arrival, 200.0).
			AddRow(6, 3, 2, "air", "economy", "London", departure, "Manchester", arrival, 120.0))
	mock.ExpectExec(`INSERT INTO bookings`).
		WithArgs(nil, int64(3), int64(1), 160.0, models.BookingStatusSuccess, 0.0, fixedNow, fixedNow).
		WillReturnResult(sqlmock.NewResult(12, 1))
	mock.ExpectQuery(`FROM bookings WHERE id = \?`).WithArgs(int64(12)).
		WillReturnRows(bookingRow(12, nil, 160, models.BookingStatusSuccess, 0, fixedNow))
	mock.ExpectQuery(`FROM travel_details WHERE id = \?`).WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "travel_type_id", "dep", "dt", "arr", "at", "is_deleted", "created_at", "updated_at"}).
			AddRow(3, 1, 8, departure, 9, arrival, false, fixedNow, fixedNow))
	mock.ExpectQuery(`SELECT seats FROM max_seats`).WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"seats"}).AddRow(120))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM bookings`).WithArgs(int64(3), models.BookingStatusSuccess).
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(1))
	mock.ExpectCommit()

	in := models.RouteBookingInput{
		RouteQuery: models.RouteQuery{TravelType: "Air", Departure: "London", Arrival: "Manchester"},
		ClassType:  "Business",
	}
	b, err := BookingService{DB: db, Now: clock}.CreateByRoute(context.Background(), in)
	if err != nil {
		t.Fatalf("CreateByRoute: %v", err)
	}
	if b.Cost != 160 || b.UserID != nil {
		t.Fatalf("unexpected booking %+v", b)
	}
}

func TestCreateByRouteUnknownClass(t *testing.T) {
	db, mock := newMockDB(t)

	arrival := fixedNow.Add(85 * 24 * time.Hour)
	departure := arrival.Add(-80 * time.Minute)
	mock.ExpectBegin()
	expectRouteLookup(mock)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM travel_details`).WithArgs(int64(1), int64(8), int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(1))
	mock.ExpectQuery(`FROM expenses e`).WithArgs(int64(1), int64(8), int64(9)).
		WillReturnRows(sqlmock.NewRows(fareCols).
			AddRow(5, 3, 1, "air", "business", "London", departure, "Manchester", arrival, 200.0).
			AddRow(6, 3, 2, "air", "economy", "London", departure, "Manchester", arrival, 120.0))
	mock.ExpectRollback()

	in := models.RouteBookingInput{
		RouteQuery: models.RouteQuery{TravelType: "air", Departure: "London", Arrival: "Manchester"},
		ClassType:  "first",
	}
	_, err := BookingService{DB: db, Now: clock}.CreateByRoute(context.Background(), in)
	if !domain.IsNoFare(err) {
		t.Fatalf("expected no fare for unknown class, got %v", err)
	}
}
