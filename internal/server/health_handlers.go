package server

import (
	"context"
	"time"

	"accessdash/internal/service"

	"github.com/gofiber/fiber/v2"
)

const checkTimeout = 5 * time.Second

// LivenessCheck answers as long as the process serves HTTP.
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "up", "time": time.Now()})
}

// ReadinessCheck pings the database and, when configured, Redis. A missing
// Redis client reads as "unavailable" and does not fail readiness.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), checkTimeout)
	defer cancel()

	checks := fiber.Map{
		"database": checkStatus(func() error { _, err := s.reference.Health(ctx); return err }),
		"redis":    "unavailable",
	}
	if s.redis != nil {
		checks["redis"] = checkStatus(func() error { return s.redis.Ping(ctx).Err() })
	}

	ready := checks["database"] == "healthy" && checks["redis"] != "unhealthy"
	status, overall := fiber.StatusOK, "healthy"
	if !ready {
		status, overall = fiber.StatusServiceUnavailable, "unhealthy"
	}
	return c.Status(status).JSON(fiber.Map{"status": overall, "checks": checks, "time": time.Now()})
}

func checkStatus(check func() error) string {
	if check() != nil {
		return "unhealthy"
	}
	return "healthy"
}

// HealthCheck handles GET /api/health
// @Summary Store connectivity check
// @Tags health
// @Produce json
// @Success 200 {object} object{status=string,database=string,timestamp=string}
// @Failure 503 {object} object{status=string,database=string,timestamp=string}
// @Router /health [get]
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), checkTimeout)
	defer cancel()

	health, err := s.reference.Health(ctx)
	status := fiber.StatusOK
	if err != nil {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(healthResponse{HealthStatus: health, Timestamp: timestamp()})
}

type healthResponse struct {
	service.HealthStatus
	Timestamp time.Time `json:"timestamp"`
}
