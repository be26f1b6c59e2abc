package server

import (
	"accessdash/internal/middleware"
	"accessdash/internal/models"
	"accessdash/internal/service"

	"github.com/gofiber/fiber/v2"
)

type createRequestBody struct {
	RequesterID           uint   `json:"requester_id"`
	DepartmentID          uint   `json:"department_id"`
	SystemID              uint   `json:"system_id"`
	RequestType           string `json:"request_type"`
	Priority              string `json:"priority"`
	Title                 string `json:"title"`
	Description           string `json:"description"`
	BusinessJustification string `json:"business_justification"`
	AccessLevel           string `json:"access_level"`
	TemporaryAccess       bool   `json:"temporary_access"`
	AccessStartDate       string `json:"access_start_date"`
	AccessEndDate         string `json:"access_end_date"`
}

type updateStatusBody struct {
	Status    string `json:"status"`
	Comments  string `json:"comments"`
	UpdatedBy uint   `json:"updated_by"`
}

// ListRequests handles GET /api/requests
// @Summary List access requests
// @Description Paginated, filtered and sorted request list.
// @Tags requests
// @Produce json
// @Param startDate query string false "Inclusive start date (YYYY-MM-DD)"
// @Param endDate query string false "Inclusive end date (YYYY-MM-DD)"
// @Param department query string false "Department name or All"
// @Param system query string false "System name or All"
// @Param status query string false "Status or All"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size (max 100)" default(10)
// @Param sortBy query string false "request_id, submitted_at, status or processing_time_hours"
// @Param sortOrder query string false "ASC or DESC"
// @Success 200 {object} object{data=[]models.RequestListItem,pagination=models.Pagination,timestamp=string}
// @Failure 400 {object} models.ErrorResponse
// @Router /requests [get]
func (s *Server) ListRequests(c *fiber.Ctx) error {
	page, err := s.listing.List(c.UserContext(), rawFilter(c))
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"data":       page.Data,
		"pagination": page.Pagination,
		"timestamp":  timestamp(),
	})
}

// GetRequest handles GET /api/requests/:requestId
// @Summary Get one access request
// @Description Accepts the numeric id, the request code or the uuid.
// @Tags requests
// @Produce json
// @Param requestId path string true "Request id, code or uuid"
// @Success 200 {object} object{request=models.RequestDetail,comments=[]models.Comment,timestamp=string}
// @Failure 404 {object} models.ErrorResponse
// @Router /requests/{requestId} [get]
func (s *Server) GetRequest(c *fiber.Ctx) error {
	ctx := middleware.WithRequestCode(c.UserContext(), c.Params("requestId"))
	detail, comments, err := s.requests.Get(ctx, c.Params("requestId"))
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"request":   detail,
		"comments":  comments,
		"timestamp": timestamp(),
	})
}

// CreateRequest handles POST /api/requests
// @Summary Submit an access request
// @Tags requests
// @Accept json
// @Produce json
// @Param request body createRequestBody true "New request"
// @Success 201 {object} object{message=string,request=models.AccessRequest,timestamp=string}
// @Failure 400 {object} models.ErrorResponse
// @Router /requests [post]
func (s *Server) CreateRequest(c *fiber.Ctx) error {
	var body createRequestBody
	if err := s.parseBody(c, &body); err != nil {
		return nil
	}

	start, err := parseOptionalDate(body.AccessStartDate, "access start date")
	if err != nil {
		return s.respondError(c, err)
	}
	end, err := parseOptionalDate(body.AccessEndDate, "access end date")
	if err != nil {
		return s.respondError(c, err)
	}

	created, err := s.requests.Create(c.UserContext(), service.CreateRequestInput{
		RequesterID:           body.RequesterID,
		DepartmentID:          body.DepartmentID,
		SystemID:              body.SystemID,
		RequestType:           models.RequestType(body.RequestType),
		Priority:              models.Priority(body.Priority),
		Title:                 body.Title,
		Description:           body.Description,
		BusinessJustification: body.BusinessJustification,
		AccessLevel:           body.AccessLevel,
		TemporaryAccess:       body.TemporaryAccess,
		AccessStartDate:       start,
		AccessEndDate:         end,
	})
	if err != nil {
		return s.respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":   "Access request created successfully",
		"request":   created,
		"timestamp": timestamp(),
	})
}

// UpdateRequestStatus handles PATCH /api/requests/:requestId/status
// @Summary Change the status of an access request
// @Description Updates the status and records the optional comment in one transaction.
// @Tags requests
// @Accept json
// @Produce json
// @Param requestId path string true "Request id, code or uuid"
// @Param request body updateStatusBody true "Status change"
// @Success 200 {object} object{message=string,request=models.AccessRequest,timestamp=string}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /requests/{requestId}/status [patch]
func (s *Server) UpdateRequestStatus(c *fiber.Ctx) error {
	var body updateStatusBody
	if err := s.parseBody(c, &body); err != nil {
		return nil
	}

	ctx := middleware.WithRequestCode(c.UserContext(), c.Params("requestId"))
	updated, err := s.requests.TransitionStatus(ctx, service.TransitionInput{
		IDOrCode:  c.Params("requestId"),
		Status:    models.Status(body.Status),
		Comment:   body.Comments,
		UpdatedBy: body.UpdatedBy,
	})
	if err != nil {
		return s.respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message":   "Request status updated successfully",
		"request":   updated,
		"timestamp": timestamp(),
	})
}
