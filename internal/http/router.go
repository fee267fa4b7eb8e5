package api

import (
	"database/sql"
	stdhttp "net/http"

	intconfig "horizontravels/internal/config"
	h "horizontravels/internal/http/handlers"
	"horizontravels/internal/http/middleware"
	"horizontravels/internal/services"
	"horizontravels/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps are the runtime collaborators the router wires into handlers.
type Deps struct {
	DB          *sql.DB
	Now         utils.Clock
	Revoker     services.TokenRevoker
	Idempotency middleware.IdempotencyGuard
}

func NewRouter(env intconfig.Env, deps Deps) *gin.Engine {
	handler := &h.Handler{
		DB:  deps.DB,
		Now: deps.Now,
		Session: h.SessionConfig{
			Secret:     []byte(env.JWTSecret),
			TTL:        env.SessionTTL,
			CookieName: env.SessionCookie,
			Secure:     env.GinMode == gin.ReleaseMode,
		},
		Revoker: deps.Revoker,
	}

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logger(),
		gin.Recovery(),
		middleware.CORS(env.CORSAllowedOrigins),
		middleware.Metrics(),
	)

	if err := r.SetTrustedProxies(nil); err != nil {
		utils.LogWarn("", "http", "trusted_proxies", err.Error())
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":      "route not found",
			"code":       "not_found",
			"path":       c.Request.URL.Path,
			"method":     c.Request.Method,
			"request_id": middleware.GetRequestID(c),
		})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.Use(middleware.Session(handler.Authenticator(), env.SessionCookie))
	{
		api.GET("/health", handler.Health)
		api.GET("/db-check", handler.DBCheck)
		api.GET("/routes", handler.Routes)

		api.GET("/home", handler.Home)
		api.GET("/records/:travel_type/:departure/:arrival", handler.Records)

		auth := api.Group("/auth")
		auth.POST("/register", handler.Register)
		auth.POST("/login", handler.Login)
		auth.POST("/logout", handler.Logout)
		auth.GET("/me", middleware.RequireLogin(), handler.Me)

		idem := middleware.Idempotency(deps.Idempotency)
		bookings := api.Group("/bookings")
		bookings.POST("", idem, handler.CreateBooking)
		bookings.POST("/by-route", idem, handler.CreateBookingByRoute)
		bookings.GET("/:id", middleware.RequireLogin(), handler.GetBooking)
		bookings.POST("/:id/cancel", middleware.RequireLogin(), handler.CancelBooking)
		bookings.GET("/:id/receipt", middleware.RequireLogin(), handler.BookingReceipt)
		bookings.GET("", middleware.RequireAdmin(), handler.ListBookings)
		bookings.PUT("/:id", middleware.RequireAdmin(), handler.UpdateBooking)
		bookings.PATCH("/:id", middleware.RequireAdmin(), handler.UpdateBooking)
		bookings.DELETE("/:id", middleware.RequireAdmin(), handler.DeleteBooking)

		dashboard := api.Group("/dashboard")
		dashboard.GET("/me", middleware.RequireLogin(), handler.MyDashboard)
		dashboard.GET("/admin", middleware.RequireAdmin(), handler.AdminDashboard)
		dashboard.GET("/users/:id", middleware.RequireAdmin(), handler.UserDashboard)

		admin := api.Group("", middleware.RequireAdmin())
		mountCRUD(admin.Group("/locations"), handler.Locations())
		mountCRUD(admin.Group("/travel-types"), handler.TravelTypes())
		mountCRUD(admin.Group("/price-categories"), handler.PriceCategories())
		mountCRUD(admin.Group("/max-seats"), handler.MaxSeats())
		mountCRUD(admin.Group("/travel-details"), handler.TravelDetails())
		mountCRUD(admin.Group("/expenses"), handler.Expenses())
		mountCRUD(admin.Group("/users"), handler.Users())
		mountCRUD(admin.Group("/roles"), handler.Roles())
	}

	handler.SetRouter(r)
	return r
}

func mountCRUD(g *gin.RouterGroup, crud h.CRUD) {
	g.GET("", crud.List)
	g.GET("/:id", crud.Get)
	g.POST("", crud.Create)
	g.PUT("/:id", crud.Update)
	g.PATCH("/:id", crud.Update)
	g.DELETE("/:id", crud.Delete)
}
