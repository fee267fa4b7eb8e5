package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"horizontravels/internal/cache"
	"horizontravels/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubAuth map[string]domain.RequestContext

func (s stubAuth) Authenticate(_ context.Context, token string) (domain.RequestContext, error) {
	rc, ok := s[token]
	if !ok {
		return domain.RequestContext{}, domain.UnauthorizedError{}
	}
	return rc, nil
}

func TestRequestIDGeneratesAndEchoes(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	if _, err := uuid.Parse(w.Body.String()); err != nil {
		t.Fatalf("expected generated uuid, got %q", w.Body.String())
	}
	if w.Header().Get("X-Request-ID") != w.Body.String() {
		t.Fatalf("response header must carry the request id")
	}

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Body.String() != "abc-123" {
		t.Fatalf("expected incoming id to be kept, got %q", w.Body.String())
	}
}

func TestSessionAndRoles(t *testing.T) {
	auth := stubAuth{
		"user-token":  {UserID: 7},
		"admin-token": {UserID: 1, IsAdmin: true},
	}
	r := gin.New()
	r.Use(RequestID(), Session(auth, "session"))
	r.GET("/me", RequireLogin(), func(c *gin.Context) {
		rc, _ := GetRequestContext(c)
		c.JSON(http.StatusOK, gin.H{"user_id": rc.UserID})
	})
	r.GET("/admin", RequireAdmin(), func(c *gin.Context) { c.Status(http.StatusOK) })

	cases := []struct {
		name   string
		path   string
		bearer string
		cookie string
		want   int
	}{
		{"anonymous me", "/me", "", "", http.StatusUnauthorized},
		{"bad token is anonymous", "/me", "nope", "", http.StatusUnauthorized},
		{"bearer user", "/me", "user-token", "", http.StatusOK},
		{"cookie user", "/me", "", "user-token", http.StatusOK},
		{"user on admin route", "/admin", "user-token", "", http.StatusForbidden},
		{"admin on admin route", "/admin", "", "admin-token", http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if tc.bearer != "" {
				req.Header.Set("Authorization", "Bearer "+tc.bearer)
			}
			if tc.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "session", Value: tc.cookie})
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tc.want {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tc.want, w.Body.String())
			}
		})
	}
}

type memoryGuard struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (g *memoryGuard) Begin(_ context.Context, key string) ([]byte, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	v, ok := g.data[key]
	if !ok {
		g.data[key] = nil
		return nil, nil
	}
	if v == nil {
		return nil, cache.ErrInFlight
	}
	return v, nil
}

func (g *memoryGuard) Complete(_ context.Context, key string, response []byte) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.data[key] = response
	return nil
}

func (g *memoryGuard) Release(_ context.Context, key string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.data, key)
	return nil
}

func TestIdempotencyReplaysResponse(t *testing.T) {
	guard := &memoryGuard{data: map[string][]byte{}}
	calls := 0
	r := gin.New()
	r.POST("/bookings", Idempotency(guard), func(c *gin.Context) {
		calls++
		c.JSON(http.StatusCreated, gin.H{"id": calls})
	})

	send := func(key string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader(`{}`))
		if key != "" {
			req.Header.Set("Idempotency-Key", key)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	first := send("k1")
	second := send("k1")
	if calls != 1 {
		t.Fatalf("handler ran %d times, want 1", calls)
	}
	if second.Code != http.StatusCreated || second.Body.String() != first.Body.String() {
		t.Fatalf("replay mismatch: %d %s vs %s", second.Code, second.Body.String(), first.Body.String())
	}
	if second.Header().Get("X-Idempotency-Hit") != "true" {
		t.Fatalf("replay must be flagged")
	}

	send("")
	if calls != 2 {
		t.Fatalf("requests without a key must not be deduplicated")
	}
}

func TestIdempotencyReleasesOnFailure(t *testing.T) {
	guard := &memoryGuard{data: map[string][]byte{}}
	r := gin.New()
	r.POST("/bookings", Idempotency(guard), func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"code": "no_fare"})
	})
	req := httptest.NewRequest(http.MethodPost, "/bookings", nil)
	req.Header.Set("Idempotency-Key", "k2")
	r.ServeHTTP(httptest.NewRecorder(), req)
	if len(guard.data) != 0 {
		t.Fatalf("failed requests must release their key, got %v", guard.data)
	}
}

func TestIdempotencyInFlight(t *testing.T) {
	guard := &memoryGuard{data: map[string][]byte{"anonymous:192.0.2.1:/bookings:k3": nil}}
	r := gin.New()
	r.POST("/bookings", Idempotency(guard), func(c *gin.Context) { c.Status(http.StatusCreated) })
	req := httptest.NewRequest(http.MethodPost, "/bookings", nil)
	req.Header.Set("Idempotency-Key", "k3")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", w.Code)
	}
}

func TestIdempotencyRejectsReusedKeyWithDifferentBody(t *testing.T) {
	guard := &memoryGuard{data: map[string][]byte{}}
	calls := 0
	r := gin.New()
	r.POST("/bookings", Idempotency(guard), func(c *gin.Context) {
		calls++
		var in map[string]any
		if err := c.ShouldBindJSON(&in); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}
		c.JSON(http.StatusCreated, in)
	})
	send := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Idempotency-Key", "k4")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	first := send(`{"travel_detail_id":3}`)
	if first.Code != http.StatusCreated || !strings.Contains(first.Body.String(), `"travel_detail_id":3`) {
		t.Fatalf("handler must see the original body, got %d %s", first.Code, first.Body.String())
	}
	if w := send(`{"travel_detail_id":4}`); w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422 (%s)", w.Code, w.Body.String())
	}
	if w := send(`{"travel_detail_id":3}`); w.Code != http.StatusCreated || w.Header().Get("X-Idempotency-Hit") != "true" {
		t.Fatalf("same body must replay, got %d", w.Code)
	}
	if calls != 1 {
		t.Fatalf("handler ran %d times, want 1", calls)
	}
}

func TestIdempotencyScopesAnonymousCallersByIP(t *testing.T) {
	guard := &memoryGuard{data: map[string][]byte{}}
	calls := 0
	r := gin.New()
	r.POST("/bookings", Idempotency(guard), func(c *gin.Context) {
		calls++
		c.JSON(http.StatusCreated, gin.H{"id": calls})
	})
	for _, addr := range []string{"192.0.2.1:1234", "198.51.100.7:5555"} {
		req := httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader(`{}`))
		req.RemoteAddr = addr
		req.Header.Set("Idempotency-Key", "shared")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Header().Get("X-Idempotency-Hit") != "" {
			t.Fatalf("%s replayed another caller's response", addr)
		}
	}
	if calls != 2 {
		t.Fatalf("handler ran %d times, want 2", calls)
	}
}

func TestCORSPreflight(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"http://app.example"}))
	r.POST("/api/bookings", func(c *gin.Context) { c.Status(http.StatusCreated) })

	req := httptest.NewRequest(http.MethodOptions, "/api/bookings", nil)
	req.Header.Set("Origin", "http://app.example")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("preflight status = %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "http://app.example" {
		t.Fatalf("origin not allowed: %v", w.Header())
	}
}
