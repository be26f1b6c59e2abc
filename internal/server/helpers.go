package server

import (
	"errors"
	"strings"
	"time"

	"accessdash/internal/filter"
	"accessdash/internal/middleware"
	"accessdash/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// statusForCode maps AppError codes onto HTTP statuses.
var statusForCode = map[string]int{
	models.CodeValidation:       fiber.StatusBadRequest,
	models.CodeReference:        fiber.StatusBadRequest,
	models.CodeNotFound:         fiber.StatusNotFound,
	models.CodeConflict:         fiber.StatusConflict,
	models.CodeStoreUnavailable: fiber.StatusInternalServerError,
	models.CodeInternal:         fiber.StatusInternalServerError,
}

// toAppError normalises err into an AppError and the status it is sent with.
// Errors of unknown origin become internal errors so their text is only
// exposed as details.
func toAppError(err error) (int, *models.AppError) {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		if status, ok := statusForCode[appErr.Code]; ok {
			return status, appErr
		}
		return fiber.StatusInternalServerError, appErr
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		switch {
		case fiberErr.Code == fiber.StatusNotFound:
			return fiberErr.Code, &models.AppError{Code: models.CodeNotFound, Message: "Endpoint not found"}
		case fiberErr.Code < fiber.StatusInternalServerError:
			return fiberErr.Code, &models.AppError{Code: models.CodeValidation, Message: fiberErr.Message}
		}
	}

	return fiber.StatusInternalServerError, models.NewInternalError(err)
}

// respondError writes err as a JSON error response. Wrapped causes are only
// included in development.
func (s *Server) respondError(c *fiber.Ctx, err error) error {
	status, appErr := toAppError(err)
	if status >= fiber.StatusInternalServerError {
		middleware.Logger.ErrorContext(c.UserContext(), "request error",
			"path", c.Path(), "code", appErr.Code, "error", err.Error())
	}
	return models.RespondWithError(c, status, appErr, s.config.IsDevelopment())
}

// errorHandler is Fiber's last-resort handler for errors returned by
// middleware and handlers.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	return s.respondError(c, err)
}

// parseBody decodes the JSON request body into dst. On failure it writes a
// 400 JSON response and returns errResponseWritten.
func (s *Server) parseBody(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"), false)
		return errResponseWritten
	}
	return nil
}

// rawFilter collects the dashboard filter parameters from the query string.
func rawFilter(c *fiber.Ctx) filter.Raw {
	return filter.Raw{
		StartDate:  c.Query("startDate"),
		EndDate:    c.Query("endDate"),
		Department: c.Query("department"),
		System:     c.Query("system"),
		Status:     c.Query("status"),
		Page:       c.Query("page"),
		Limit:      c.Query("limit"),
		SortBy:     c.Query("sortBy"),
		SortOrder:  c.Query("sortOrder"),
	}
}

// parseOptionalDate accepts YYYY-MM-DD or an RFC 3339 timestamp. Blank
// input yields nil.
func parseOptionalDate(v, field string) (*time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.DateOnly, v); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, models.NewValidationError("Invalid " + field + " format")
	}
	return &t, nil
}

func timestamp() time.Time {
	return time.Now().UTC()
}

// attachment sets the download headers for a file named filename.
func attachment(c *fiber.Ctx, contentType, filename string) {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, "attachment; filename="+filename)
	c.Status(fiber.StatusOK)
}
