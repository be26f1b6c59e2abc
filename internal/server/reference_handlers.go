package server

import (
	"github.com/gofiber/fiber/v2"
)

// GetFilterOptions handles GET /api/filter-options
// @Summary Values offered by the dashboard filters
// @Tags reference
// @Produce json
// @Success 200 {object} object{departments=[]models.Department,systems=[]models.System,statuses=[]string,requestTypes=[]string,priorities=[]string,timestamp=string}
// @Router /filter-options [get]
func (s *Server) GetFilterOptions(c *fiber.Ctx) error {
	opts, err := s.reference.FilterOptions(c.UserContext())
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"departments":  opts.Departments,
		"systems":      opts.Systems,
		"statuses":     opts.Statuses,
		"requestTypes": opts.RequestTypes,
		"priorities":   opts.Priorities,
		"timestamp":    timestamp(),
	})
}

// ExportRequests handles GET /api/export
// @Summary Download the filtered request list
// @Description CSV fields are quoted but not escaped.
// @Tags reference
// @Produce text/csv
// @Produce json
// @Param format query string false "csv or json" default(csv)
// @Param startDate query string false "Inclusive start date (YYYY-MM-DD)"
// @Param endDate query string false "Inclusive end date (YYYY-MM-DD)"
// @Param department query string false "Department name or All"
// @Param system query string false "System name or All"
// @Param status query string false "Status or All"
// @Success 200 {file} file
// @Failure 400 {object} models.ErrorResponse
// @Router /export [get]
func (s *Server) ExportRequests(c *fiber.Ctx) error {
	file, err := s.listing.Export(c.UserContext(), c.Query("format"), rawFilter(c))
	if err != nil {
		return s.respondError(c, err)
	}
	attachment(c, file.ContentType, file.Filename)
	return c.Send(file.Body)
}
