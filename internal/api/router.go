package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/monochrome/portal/docs"
	"github.com/monochrome/portal/internal/api/handler"
	"github.com/monochrome/portal/internal/api/middleware"
	"github.com/monochrome/portal/internal/core/domain"
	"github.com/monochrome/portal/internal/core/ports"
)

// RouterConfig carries everything the router wires into handlers.
type RouterConfig struct {
	Sessions  ports.SessionProvider
	Dashboard ports.DashboardService
	Bookings  ports.BookingService
	Catalog   ports.CatalogService
	// Readiness lists the dependencies probed by /health/ready.
	Readiness map[string]handler.PingFunc
	Cookies   middleware.CookieOptions
	Logger    zerolog.Logger
	// Registry receives the HTTP metrics. Nil means the default registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(cfg.Logger)

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if cfg.Registry != nil {
		registerer, gatherer = cfg.Registry, cfg.Registry
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(cfg.Logger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "portal",
		Subsystem:  "http",
		Registerer: registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	// --- Operational routes (no session) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(cfg.Readiness)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Session-bound routes ---
	app := e.Group("", middleware.Session(cfg.Sessions, cfg.Cookies, cfg.Logger))

	authHandler := handler.NewAuthHandler()
	catalogHandler := handler.NewCatalogHandler(cfg.Catalog)
	bookingHandler := handler.NewBookingHandler(cfg.Bookings)
	dashboardHandler := handler.NewDashboardHandler(cfg.Dashboard)

	app.POST("/login", authHandler.Login)
	app.POST("/register", authHandler.Register)
	app.POST("/logout", authHandler.Logout)
	app.GET("/session", authHandler.Session)

	app.GET("/services", catalogHandler.List)
	app.GET("/services/:slug", catalogHandler.Get)

	app.GET("/bookings/form", bookingHandler.Form)
	app.POST("/bookings", bookingHandler.Submit)

	// Any logged-in user.
	member := middleware.Guard(domain.RequireAuthenticated)
	app.GET("/profile", authHandler.Profile, member)
	app.PUT("/profile", authHandler.UpdateProfile, member)
	app.GET("/dashboard", dashboardHandler.Overview, member)
	app.GET("/dashboard/orders", dashboardHandler.Orders, member)
	app.GET("/dashboard/payments", dashboardHandler.Payments, member)
	app.GET("/dashboard/stats", dashboardHandler.Stats, member)

	// Admins only.
	admin := app.Group("/dashboard", middleware.Guard(domain.RequireAdmin))
	admin.GET("/bookings", dashboardHandler.Bookings)
	admin.PUT("/bookings/:id", dashboardHandler.UpdateBooking)
	admin.DELETE("/bookings/:id", dashboardHandler.DeleteBooking)
	admin.GET("/services", dashboardHandler.Services)
	admin.POST("/services", dashboardHandler.CreateService)
	admin.PUT("/services/:id", dashboardHandler.UpdateService)
	admin.DELETE("/services/:id", dashboardHandler.DeleteService)
	admin.GET("/users", dashboardHandler.Users)
	admin.PUT("/users/:id", dashboardHandler.UpdateUser)
	admin.DELETE("/users/:id", dashboardHandler.DeleteUser)

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			log.Info().
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
