package handlers

import (
	"database/sql"
	"sync"
	"time"

	"horizontravels/internal/http/middleware"
	"horizontravels/internal/services"
	"horizontravels/internal/utils"

	"github.com/gin-gonic/gin"
)

// SessionConfig describes the session cookie and token signing.
type SessionConfig struct {
	Secret     []byte
	TTL        time.Duration
	CookieName string
	Secure     bool
}

// Handler serves the /api surface. Services are built per request so each
// one carries the request id into its logs.
type Handler struct {
	DB      *sql.DB
	Now     utils.Clock
	Session SessionConfig
	Revoker services.TokenRevoker

	routerMu sync.RWMutex
	router   *gin.Engine
}

// SetRouter stores the active gin engine for /api/routes.
func (h *Handler) SetRouter(r *gin.Engine) {
	h.routerMu.Lock()
	defer h.routerMu.Unlock()
	h.router = r
}

func (h *Handler) auth(c *gin.Context) services.AuthService {
	return services.AuthService{
		DB:        h.DB,
		Secret:    h.Session.Secret,
		TTL:       h.Session.TTL,
		Now:       h.Now,
		Revoker:   h.Revoker,
		RequestID: middleware.GetRequestID(c),
	}
}

func (h *Handler) bookings(c *gin.Context) services.BookingService {
	return services.BookingService{DB: h.DB, Now: h.Now, RequestID: middleware.GetRequestID(c)}
}

func (h *Handler) fares(c *gin.Context) services.FareService {
	return services.FareService{DB: h.DB, Now: h.Now, RequestID: middleware.GetRequestID(c)}
}

func (h *Handler) catalog(c *gin.Context) services.CatalogService {
	return services.CatalogService{DB: h.DB, RequestID: middleware.GetRequestID(c)}
}

func (h *Handler) travel(c *gin.Context) services.TravelService {
	return services.TravelService{DB: h.DB, RequestID: middleware.GetRequestID(c)}
}

func (h *Handler) users(c *gin.Context) services.UserService {
	return services.UserService{DB: h.DB, RequestID: middleware.GetRequestID(c)}
}

func (h *Handler) docs(c *gin.Context) services.DocsService {
	return services.DocsService{DB: h.DB, Now: h.Now, RequestID: middleware.GetRequestID(c)}
}

// Authenticator exposes session checking to the Session middleware.
func (h *Handler) Authenticator() middleware.Authenticator {
	return services.AuthService{
		DB:      h.DB,
		Secret:  h.Session.Secret,
		TTL:     h.Session.TTL,
		Now:     h.Now,
		Revoker: h.Revoker,
	}
}

func (h *Handler) dashboard() services.DashboardService {
	return services.DashboardService{DB: h.DB}
}

func (h *Handler) roles() services.RoleService {
	return services.RoleService{DB: h.DB}
}
