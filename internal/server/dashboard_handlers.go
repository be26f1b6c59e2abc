package server

import (
	"github.com/gofiber/fiber/v2"
)

// GetMetrics handles GET /api/dashboard/metrics
// @Summary Headline metrics
// @Description Counts per status, average processing time, approval and SLA-met rates.
// @Tags dashboard
// @Produce json
// @Param startDate query string false "Inclusive start date (YYYY-MM-DD)"
// @Param endDate query string false "Inclusive end date (YYYY-MM-DD)"
// @Param department query string false "Department name or All"
// @Param system query string false "System name or All"
// @Success 200 {object} object{current=models.DashboardMetrics,timestamp=string}
// @Failure 400 {object} models.ErrorResponse
// @Router /dashboard/metrics [get]
func (s *Server) GetMetrics(c *fiber.Ctx) error {
	metrics, err := s.reports.Metrics(c.UserContext(), rawFilter(c))
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(fiber.Map{"current": metrics, "timestamp": timestamp()})
}

// GetMonthlyTrend handles GET /api/dashboard/monthly-trend
// @Summary Monthly request volumes
// @Tags dashboard
// @Produce json
// @Param startDate query string false "Inclusive start date (YYYY-MM-DD)"
// @Param endDate query string false "Inclusive end date (YYYY-MM-DD)"
// @Param department query string false "Department name or All"
// @Param system query string false "System name or All"
// @Success 200 {object} object{data=[]models.MonthlyTrendPoint,timestamp=string}
// @Router /dashboard/monthly-trend [get]
func (s *Server) GetMonthlyTrend(c *fiber.Ctx) error {
	points, err := s.reports.MonthlyTrend(c.UserContext(), rawFilter(c))
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": points, "timestamp": timestamp()})
}

// GetPerformanceTrend handles GET /api/dashboard/performance
// @Summary Monthly processing performance
// @Tags dashboard
// @Produce json
// @Success 200 {object} object{data=[]models.PerformancePoint,timestamp=string}
// @Router /dashboard/performance [get]
func (s *Server) GetPerformanceTrend(c *fiber.Ctx) error {
	points, err := s.reports.PerformanceTrend(c.UserContext(), rawFilter(c))
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": points, "timestamp": timestamp()})
}

// GetStatusDistribution handles GET /api/dashboard/status-distribution
// @Summary Share of requests per status
// @Tags dashboard
// @Produce json
// @Success 200 {object} object{data=[]models.StatusShare,timestamp=string}
// @Router /dashboard/status-distribution [get]
func (s *Server) GetStatusDistribution(c *fiber.Ctx) error {
	shares, err := s.reports.StatusDistribution(c.UserContext(), rawFilter(c))
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": shares, "timestamp": timestamp()})
}

// GetRequestTypeDistribution handles GET /api/dashboard/request-types
// @Summary Share of requests per request type
// @Tags dashboard
// @Produce json
// @Success 200 {object} object{data=[]models.RequestTypeShare,timestamp=string}
// @Router /dashboard/request-types [get]
func (s *Server) GetRequestTypeDistribution(c *fiber.Ctx) error {
	shares, err := s.reports.RequestTypeDistribution(c.UserContext(), rawFilter(c))
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": shares, "timestamp": timestamp()})
}

// GetDepartmentPerformance handles GET /api/dashboard/department-performance
// @Summary Per-department performance
// @Description One row per active department, including departments without matching requests.
// @Tags dashboard
// @Produce json
// @Success 200 {object} object{data=[]models.DepartmentPerformance,timestamp=string}
// @Router /dashboard/department-performance [get]
func (s *Server) GetDepartmentPerformance(c *fiber.Ctx) error {
	rows, err := s.reports.DepartmentPerformance(c.UserContext(), rawFilter(c))
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": rows, "timestamp": timestamp()})
}
