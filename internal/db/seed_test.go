package db

import (
	"context"
	"testing"
	"time"

	"horizontravels/internal/utils"

	"github.com/DATA-DOG/go-sqlmock"
)

var seedNow = time.Date(2026, 1, 1, 9, 15, 0, 0, time.UTC)

func TestSeedTimetableCoversDiscountTiers(t *testing.T) {
	for _, tt := range seedTravelTypes {
		timetable, err := seedTimetable(tt, seedNow)
		if err != nil {
			t.Fatalf("%s: %v", tt.name, err)
		}
		want := 16
		if tt.name == "air" {
			want = len(seedJourneys)
		}
		if len(timetable) != want {
			t.Fatalf("%s: %d journeys, want %d", tt.name, len(timetable), want)
		}

		tiers := map[float64]bool{}
		for _, j := range timetable {
			if !j.arrival.After(j.departure) {
				t.Errorf("%s %s-%s arrives %v before departing %v", tt.name, j.from, j.to, j.arrival, j.departure)
			}
			if !j.departure.After(seedNow) {
				t.Errorf("%s %s-%s departs in the past", tt.name, j.from, j.to)
			}
			tiers[utils.DiscountMultiplier(utils.DaysBetween(seedNow, j.arrival))] = true
		}
		for _, m := range []float64{0.8, 0.9, 0.95, 1} {
			if !tiers[m] {
				t.Errorf("%s: no journey priced at multiplier %v (got %v)", tt.name, m, tiers)
			}
		}
	}
}

func TestSeedLondonManchesterAirFares(t *testing.T) {
	timetable, err := seedTimetable(seedTravelTypes[0], seedNow)
	if err != nil {
		t.Fatalf("seedTimetable: %v", err)
	}
	found := 0
	for _, j := range timetable {
		if j.from != "London" || j.to != "Manchester" {
			continue
		}
		found++
		if len(j.costs) != len(seedPriceCategories) {
			t.Fatalf("expected one fare per class, got %v", j.costs)
		}
		for k, cost := range j.costs {
			class := seedPriceCategories[k].name
			if class != "business" && class != "economy" {
				t.Errorf("unexpected class %q", class)
			}
			if d := utils.DiscountedCost(cost, j.arrival, seedNow); d > cost {
				t.Errorf("%s discounted %v exceeds cost %v", class, d, cost)
			}
		}
		if j.costs[1] >= j.costs[0] {
			t.Errorf("economy %v should be cheaper than business %v", j.costs[1], j.costs[0])
		}
	}
	if found == 0 {
		t.Fatalf("no air journey from London to Manchester")
	}
}

func TestSeedInsertsInDependencyOrder(t *testing.T) {
	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer conn.Close()

	admin := AdminSeed{Name: "Admin", Contact: "0000", Username: "admin", Email: "admin@example.com", Password: "admin12345"}
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM locations`).WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(0))
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO users`).
		WithArgs("Admin", "0000", "admin", "admin@example.com", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO roles`).WithArgs("admin").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO roles`).WithArgs("user").WillReturnResult(sqlmock.NewResult(2, 1))

	locationIDs := map[string]int64{}
	for i, l := range seedLocations {
		locationIDs[l.name] = int64(i + 1)
		mock.ExpectExec(`INSERT INTO locations`).WithArgs(l.name, l.lat, l.long).
			WillReturnResult(sqlmock.NewResult(int64(i+1), 1))
	}
	if locationIDs["London"] != 8 || locationIDs["Manchester"] != 9 {
		t.Fatalf("unexpected location order %v", locationIDs)
	}
	for i, pc := range seedPriceCategories {
		mock.ExpectExec(`INSERT INTO price_categories`).WithArgs(pc.name).
			WillReturnResult(sqlmock.NewResult(int64(i+1), 1))
	}

	detailID := int64(0)
	for i, tt := range seedTravelTypes {
		typeID := int64(i + 1)
		mock.ExpectExec(`INSERT INTO travel_types`).WithArgs(tt.name).WillReturnResult(sqlmock.NewResult(typeID, 1))
		mock.ExpectExec(`INSERT INTO max_seats`).WithArgs(typeID, tt.seats).WillReturnResult(sqlmock.NewResult(typeID, 1))

		timetable, err := seedTimetable(tt, seedNow)
		if err != nil {
			t.Fatalf("seedTimetable: %v", err)
		}
		for _, j := range timetable {
			detailID++
			mock.ExpectExec(`INSERT INTO travel_details`).
				WithArgs(typeID, locationIDs[j.from], j.departure, locationIDs[j.to], j.arrival).
				WillReturnResult(sqlmock.NewResult(detailID, 1))
			for k, cost := range j.costs {
				mock.ExpectExec(`INSERT INTO expenses`).WithArgs(detailID, int64(k+1), cost).
					WillReturnResult(sqlmock.NewResult(detailID*10+int64(k), 1))
			}
		}
	}
	mock.ExpectCommit()

	if err := Seed(context.Background(), conn, admin, seedNow); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSeedSkipsPopulatedDatabase(t *testing.T) {
	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer conn.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM locations`).WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(12))
	if err := Seed(context.Background(), conn, AdminSeed{Password: "x"}, seedNow); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
