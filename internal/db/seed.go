package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// AdminSeed is the administrator account created on first start.
type AdminSeed struct {
	Name     string
	Contact  string
	Username string
	Email    string
	Password string
}

type seedLocation struct {
	name      string
	lat, long float64
}

var seedLocations = []seedLocation{
	{"Aberdeen", 57.1482436, -2.0928095},
	{"Birmingham", 52.4796992, -1.9026911},
	{"Bristol", 51.4538022, -2.5972985},
	{"Cardiff", 51.4816546, -3.1791934},
	{"Dundee", 56.4614281, -2.9681009},
	{"Edinburgh", 55.9533456, -3.1883749},
	{"Glasgow", 55.861138, -4.250196},
	{"London", 51.5073219, -0.1276474},
	{"Manchester", 53.4794892, -2.2451148},
	{"Newcastle", 54.9748484, -1.6140793},
	{"Portsmouth", 50.7989132, -1.0911629},
	{"Southampton", 50.9025349, -1.404189},
}

// seedTravelType holds name, max seats, journey-time factor relative to air and base business fare.
type seedTravelType struct {
	name     string
	seats    int
	factor   int
	business float64
}

var seedTravelTypes = []seedTravelType{
	{"air", 120, 1, 200},
	{"train", 300, 4, 90},
	{"coach", 50, 9, 45},
}

var seedPriceCategories = []struct {
	name  string
	ratio float64
}{
	{"business", 1},
	{"economy", 0.6},
}

// Air journeys: departure, arrival, departure clock time, flight minutes.
var seedJourneys = []struct {
	from, to string
	at       string
	minutes  int
}{
	{"Newcastle", "Bristol", "16:45", 75},
	{"Bristol", "Newcastle", "08:00", 75},
	{"Cardiff", "Edinburgh", "06:00", 90},
	{"Bristol", "Manchester", "11:30", 60},
	{"Manchester", "Bristol", "12:20", 60},
	{"Bristol", "London", "07:40", 40},
	{"London", "Manchester", "11:00", 80},
	{"Manchester", "Glasgow", "12:20", 70},
	{"Bristol", "Glasgow", "07:40", 65},
	{"Glasgow", "Newcastle", "14:30", 75},
	{"Newcastle", "Manchester", "16:15", 50},
	{"Portsmouth", "Dundee", "12:00", 120},
	{"Dundee", "Portsmouth", "10:00", 120},
	{"Edinburgh", "Cardiff", "18:30", 90},
	{"Southampton", "Manchester", "12:00", 90},
	{"Manchester", "Southampton", "19:00", 90},
	{"Birmingham", "Newcastle", "16:00", 90},
	{"Newcastle", "Aberdeen", "09:00", 75},
}

// seededJourney is one timetable row with a cost per seedPriceCategories entry.
type seededJourney struct {
	from, to           string
	departure, arrival time.Time
	costs              []float64
}

// seedTimetable lays out the journeys for one travel type. Departures start two
// weeks after now and are five days apart, so every discount tier has journeys.
// Only air serves Aberdeen and Dundee.
func seedTimetable(tt seedTravelType, now time.Time) ([]seededJourney, error) {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	var out []seededJourney
	for i, j := range seedJourneys {
		if tt.name != "air" && (j.to == "Aberdeen" || j.to == "Dundee") {
			continue
		}
		clock, err := time.Parse("15:04", j.at)
		if err != nil {
			return nil, fmt.Errorf("seed journey %s-%s: %w", j.from, j.to, err)
		}
		dep := day.AddDate(0, 0, 14+i*5).Add(time.Duration(clock.Hour())*time.Hour + time.Duration(clock.Minute())*time.Minute)
		costs := make([]float64, len(seedPriceCategories))
		for k, pc := range seedPriceCategories {
			costs[k] = float64(int64(tt.business*pc.ratio*100)) / 100
		}
		out = append(out, seededJourney{
			from:      j.from,
			to:        j.to,
			departure: dep,
			arrival:   dep.Add(time.Duration(j.minutes*tt.factor) * time.Minute),
			costs:     costs,
		})
	}
	return out, nil
}

// Seed inserts reference data, the admin account and a sample timetable.
// It is a no-op once any location exists.
func Seed(ctx context.Context, conn *sql.DB, admin AdminSeed, now time.Time) error {
	var count int
	if err := conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM locations`).Scan(&count); err != nil {
		return fmt.Errorf("seed check: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed admin password: %w", err)
	}

	return WithinTx(ctx, conn, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO users (name, contact, username, email, password, is_admin)
			VALUES (?, ?, ?, ?, ?, 1)
		`, admin.Name, admin.Contact, admin.Username, admin.Email, string(hash)); err != nil {
			return ClassifyError("user", err)
		}
		for _, r := range []string{"admin", "user"} {
			if _, err := tx.ExecContext(ctx, `INSERT INTO roles (role_name) VALUES (?)`, r); err != nil {
				return ClassifyError("role", err)
			}
		}

		locationIDs := map[string]int64{}
		for _, l := range seedLocations {
			res, err := tx.ExecContext(ctx, `INSERT INTO locations (name, latitude, longitude) VALUES (?, ?, ?)`, l.name, l.lat, l.long)
			if err != nil {
				return ClassifyError("location", err)
			}
			id, _ := res.LastInsertId()
			locationIDs[l.name] = id
		}

		categoryIDs := make([]int64, len(seedPriceCategories))
		for i, pc := range seedPriceCategories {
			res, err := tx.ExecContext(ctx, `INSERT INTO price_categories (name) VALUES (?)`, pc.name)
			if err != nil {
				return ClassifyError("price category", err)
			}
			categoryIDs[i], _ = res.LastInsertId()
		}

		for _, tt := range seedTravelTypes {
			timetable, err := seedTimetable(tt, now)
			if err != nil {
				return err
			}
			res, err := tx.ExecContext(ctx, `INSERT INTO travel_types (name) VALUES (?)`, tt.name)
			if err != nil {
				return ClassifyError("travel type", err)
			}
			typeID, _ := res.LastInsertId()
			if _, err := tx.ExecContext(ctx, `INSERT INTO max_seats (travel_type_id, seats) VALUES (?, ?)`, typeID, tt.seats); err != nil {
				return ClassifyError("max seat", err)
			}

			for _, j := range timetable {
				res, err := tx.ExecContext(ctx, `
					INSERT INTO travel_details (travel_type_id, departure_location_id, departure_time, arrival_location_id, arrival_time)
					VALUES (?, ?, ?, ?, ?)
				`, typeID, locationIDs[j.from], j.departure, locationIDs[j.to], j.arrival)
				if err != nil {
					return ClassifyError("travel detail", err)
				}
				detailID, _ := res.LastInsertId()
				for k, cost := range j.costs {
					if _, err := tx.ExecContext(ctx, `
						INSERT INTO expenses (travel_detail_id, price_category_id, cost) VALUES (?, ?, ?)
					`, detailID, categoryIDs[k], cost); err != nil {
						return ClassifyError("expense", err)
					}
				}
			}
		}
		return nil
	})
}
