package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	intconfig "horizontravels/internal/config"
	"horizontravels/internal/domain/models"
	"horizontravels/internal/services"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testEnv() intconfig.Env {
	return intconfig.Env{
		JWTSecret:     "router-secret",
		SessionCookie: "session",
		SessionTTL:    time.Hour,
	}
}

func tokenFor(t *testing.T, env intconfig.Env, id int64, admin bool) string {
	t.Helper()
	tok, _, err := services.AuthService{Secret: []byte(env.JWTSecret), TTL: env.SessionTTL}.
		IssueToken(models.User{Base: models.Base{ID: id}, IsAdmin: admin})
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	return tok
}

func serve(r *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRouterPublicEndpoints(t *testing.T) {
	r := NewRouter(testEnv(), Deps{})

	if w := serve(r, http.MethodGet, "/api/health", ""); w.Code != http.StatusOK {
		t.Fatalf("health status = %d", w.Code)
	}
	if w := serve(r, http.MethodGet, "/metrics", ""); w.Code != http.StatusOK {
		t.Fatalf("metrics status = %d", w.Code)
	}

	w := serve(r, http.MethodGet, "/api/nope", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("no route status = %d", w.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil || body["code"] != "not_found" {
		t.Fatalf("unexpected 404 body %s", w.Body.String())
	}

	w = serve(r, http.MethodGet, "/api/routes", "")
	if w.Code != http.StatusOK {
		t.Fatalf("routes status = %d", w.Code)
	}
}

func TestRouterAccessControl(t *testing.T) {
	env := testEnv()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	r := NewRouter(env, Deps{DB: db})
	user := tokenFor(t, env, 7, false)
	admin := tokenFor(t, env, 1, true)

	cases := []struct {
		name   string
		method string
		path   string
		token  string
		userID int64
		stored string
		want   int
	}{
		{"anonymous booking lookup", http.MethodGet, "/api/bookings/1", "", 0, "", http.StatusUnauthorized},
		{"anonymous cancel", http.MethodPost, "/api/bookings/1/cancel", "", 0, "", http.StatusUnauthorized},
		{"anonymous dashboard", http.MethodGet, "/api/dashboard/me", "", 0, "", http.StatusUnauthorized},
		{"user lists bookings", http.MethodGet, "/api/bookings", user, 7, "user", http.StatusForbidden},
		{"user edits locations", http.MethodPost, "/api/locations", user, 7, "user", http.StatusForbidden},
		{"user admin dashboard", http.MethodGet, "/api/dashboard/admin", user, 7, "user", http.StatusForbidden},
		{"admin bad id reaches handler", http.MethodGet, "/api/locations/abc", admin, 1, "admin", http.StatusBadRequest},
		{"demoted admin is a user", http.MethodGet, "/api/dashboard/admin", admin, 1, "user", http.StatusForbidden},
		{"deleted account is anonymous", http.MethodGet, "/api/dashboard/me", user, 7, "deleted", http.StatusUnauthorized},
		{"forged token is anonymous", http.MethodGet, "/api/roles", "not-a-jwt", 0, "", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.userID != 0 {
				rows := sqlmock.NewRows(userCols)
				if tc.stored != "deleted" {
					rows.AddRow(tc.userID, "Jo Doe", "0123", "jdoe", "jo@example.com", "hash", tc.stored == "admin", nil, nil, false, time.Time{}, time.Time{})
				}
				mock.ExpectQuery(`FROM users WHERE id = \?`).WithArgs(tc.userID).WillReturnRows(rows)
			}
			if w := serve(r, tc.method, tc.path, tc.token); w.Code != tc.want {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tc.want, w.Body.String())
			}
		})
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

var userCols = []string{"id", "name", "contact", "username", "email", "password", "is_admin", "password_otp", "password_verified", "is_deleted", "created_at", "updated_at"}
