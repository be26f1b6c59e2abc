// Package server contains the HTTP handlers for the dashboard API.
package server

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"time"

	_ "accessdash/docs" // swagger docs
	"accessdash/internal/bootstrap"
	"accessdash/internal/config"
	"accessdash/internal/database"
	"accessdash/internal/middleware"
	"accessdash/internal/observability"
	"accessdash/internal/query"
	"accessdash/internal/repository"
	"accessdash/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Services bundles the use cases the handlers call.
type Services struct {
	Reports   *service.ReportService
	Requests  *service.RequestService
	Listing   *service.ListingService
	Reference *service.ReferenceService
}

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	readDB         *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	shutdownTracer func(context.Context) error

	reports   *service.ReportService
	requests  *service.RequestService
	listing   *service.ListingService
	reference *service.ReferenceService
}

// NewServer connects to the stores, brings the schema up to date and wires
// the services.
func NewServer(cfg *config.Config) (*Server, error) {
	rt, err := bootstrap.InitRuntime(context.Background(), cfg, bootstrap.Options{ApplySchema: true})
	if err != nil {
		return nil, err
	}

	srv, err := NewServerWithDeps(cfg, rt.DB, rt.ReadDB, rt.Redis)
	if err != nil {
		rt.Close()
		return nil, err
	}
	srv.shutdownTracer = rt.ShutdownTracer
	return srv, nil
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// readDB and redisClient may be nil.
func NewServerWithDeps(cfg *config.Config, db, readDB *gorm.DB, redisClient *redis.Client) (*Server, error) {
	if db == nil {
		return nil, fmt.Errorf("database handle is required")
	}

	composer := query.NewComposer()
	reportRepo := repository.NewReportRepository(db, readDB)

	srv := NewServerWithServices(cfg, Services{
		Reports:   service.NewReportService(reportRepo, composer),
		Requests:  service.NewRequestService(repository.NewRequestRepository(db)),
		Listing:   service.NewListingService(reportRepo, composer),
		Reference: service.NewReferenceService(repository.NewReferenceRepository(db, readDB)),
	}, redisClient)
	srv.db = db
	srv.readDB = readDB
	return srv, nil
}

// NewServerWithServices creates a Server around prebuilt services. It owns
// no database handles.
func NewServerWithServices(cfg *config.Config, svcs Services, redisClient *redis.Client) *Server {
	return &Server{
		config:         cfg,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics(observability.ServiceName),
		reports:        svcs.Reports,
		requests:       svcs.Requests,
		listing:        svcs.Listing,
		reference:      svcs.Reference,
	}
}

// SetupMiddleware installs the global middleware chain. Tracing runs before
// the context middleware so log lines carry the trace id.
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New(), requestid.New())
	app.Use(middleware.TracingMiddleware(), middleware.ContextMiddleware())
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}
	app.Use(helmet.New(), middleware.StructuredLogger())

	// CORS first so a limited response still carries CORS headers.
	app.Use(cors.New(s.corsConfig()), limiter.New(s.globalLimit()))
}

func (s *Server) corsConfig() cors.Config {
	origins := cmp.Or(s.config.AllowedOrigins, "*")
	return cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     "GET,POST,PATCH,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept",
		AllowCredentials: origins != "*",
		MaxAge:           int((24 * time.Hour).Seconds()),
	}
}

// globalLimit caps every client IP at RATE_LIMIT_MAX requests per window.
// Preflight requests are not counted.
func (s *Server) globalLimit() limiter.Config {
	window := time.Duration(s.config.RateLimitWindowMinutes) * time.Minute
	if window <= 0 {
		window = 15 * time.Minute
	}
	return limiter.Config{
		Max:          positiveOr(s.config.RateLimitMax, 100),
		Expiration:   window,
		Next:         func(c *fiber.Ctx) bool { return c.Method() == fiber.MethodOptions },
		KeyGenerator: func(c *fiber.Ctx) string { return c.IP() },
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests from this IP, please try again later.",
			})
		},
	}
}

func positiveOr(v, fallback int) int {
	if v > 0 {
		return v
	}
	return fallback
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	api.Get("/health", s.HealthCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "Access Request Dashboard Metrics",
	}))

	api.Get("/swagger/*", swagger.HandlerDefault)

	dashboard := api.Group("/dashboard")
	dashboard.Get("/metrics", s.GetMetrics)
	dashboard.Get("/monthly-trend", s.GetMonthlyTrend)
	dashboard.Get("/performance", s.GetPerformanceTrend)
	dashboard.Get("/status-distribution", s.GetStatusDistribution)
	dashboard.Get("/request-types", s.GetRequestTypeDistribution)
	dashboard.Get("/department-performance", s.GetDepartmentPerformance)

	// Creates and status changes share one per-IP write budget.
	writes := middleware.RateLimit(s.redis, positiveOr(s.config.WriteRateLimitPerMinute, 30), time.Minute, "write")

	requests := api.Group("/requests")
	requests.Get("/", s.ListRequests)
	requests.Post("/", writes, s.CreateRequest)
	requests.Patch("/:requestId/status", writes, s.UpdateRequestStatus)
	requests.Get("/:requestId", s.GetRequest)

	api.Get("/filter-options", s.GetFilterOptions)
	api.Get("/export", s.ExportRequests)

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Endpoint not found"})
	})
}

// App returns the Fiber app with middleware and routes installed, building
// it on first use.
func (s *Server) App() *fiber.App {
	if s.app != nil {
		return s.app
	}
	app := fiber.New(fiber.Config{
		AppName:      "Access Request Dashboard API",
		BodyLimit:    1024 * 1024,
		ErrorHandler: s.errorHandler,
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	s.app = app
	return app
}

// Start starts the server
func (s *Server) Start() error {
	app := s.App()
	middleware.Logger.Info("Server starting", slog.String("port", s.config.Port), slog.String("env", s.config.Env))
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", slog.String("error", err.Error()))
		}
	}

	if s.shutdownTracer != nil {
		if err := s.shutdownTracer(ctx); err != nil {
			middleware.Logger.Error("error flushing traces", slog.String("error", err.Error()))
		}
	}

	database.Close(s.db, s.readDB)

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			middleware.Logger.Error("error closing redis", slog.String("error", rerr.Error()))
		}
	}

	middleware.Logger.Info("Server shutdown complete")
	return nil
}
