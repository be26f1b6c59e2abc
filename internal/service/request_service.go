package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"accessdash/internal/middleware"
	"accessdash/internal/models"
	"accessdash/internal/observability"
	"accessdash/internal/repository"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

// RequestService creates access requests and moves them through their
// lifecycle.
type RequestService struct {
	repo    repository.RequestRepository
	tracer  *observability.TraceLayer
	now     func() time.Time
	newUUID func() string
}

type CreateRequestInput struct {
	RequesterID           uint
	DepartmentID          uint
	SystemID              uint
	RequestType           models.RequestType
	Priority              models.Priority
	Title                 string
	Description           string
	BusinessJustification string
	AccessLevel           string
	TemporaryAccess       bool
	AccessStartDate       *time.Time
	AccessEndDate         *time.Time
}

type TransitionInput struct {
	IDOrCode  string
	Status    models.Status
	Comment   string
	UpdatedBy uint
}

func NewRequestService(repo repository.RequestRepository) *RequestService {
	return &RequestService{
		repo:    repo,
		tracer:  observability.GetTraceLayer(),
		now:     time.Now,
		newUUID: uuid.NewString,
	}
}

// WithClock returns a copy of s that reads the time from now.
func (s *RequestService) WithClock(now func() time.Time) *RequestService {
	c := *s
	c.now = now
	return &c
}

// RequestCode derives the public request code from the submission year and
// the request uuid.
func RequestCode(submitted time.Time, id string) string {
	hex := strings.ReplaceAll(id, "-", "")
	if len(hex) > 8 {
		hex = hex[:8]
	}
	return fmt.Sprintf("REQ-%d-%s", submitted.Year(), strings.ToUpper(hex))
}

func missingFields(in CreateRequestInput) []string {
	var missing []string
	if in.RequesterID == 0 {
		missing = append(missing, "requester_id")
	}
	if in.DepartmentID == 0 {
		missing = append(missing, "department_id")
	}
	if in.SystemID == 0 {
		missing = append(missing, "system_id")
	}
	if strings.TrimSpace(in.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(in.BusinessJustification) == "" {
		missing = append(missing, "business_justification")
	}
	return missing
}

// Create validates in, applies defaults and stores a new Pending request.
func (s *RequestService) Create(ctx context.Context, in CreateRequestInput) (req *models.AccessRequest, err error) {
	ctx, span := s.tracer.TraceServiceCall(ctx, "RequestService", "Create")
	defer func() { observability.EndSpan(span, err) }()

	if missing := missingFields(in); len(missing) > 0 {
		return nil, models.NewValidationError("Missing required fields: " + strings.Join(missing, ", "))
	}

	if in.Priority == "" {
		in.Priority = models.PriorityMedium
	}
	if !in.Priority.Valid() {
		return nil, models.NewValidationError("Invalid priority value")
	}
	if in.RequestType == "" {
		in.RequestType = models.RequestTypeMiscellaneous
	}
	if !in.RequestType.Valid() {
		return nil, models.NewValidationError("Invalid request type value")
	}
	if strings.TrimSpace(in.AccessLevel) == "" {
		in.AccessLevel = models.DefaultAccessLevel
	}
	if in.AccessStartDate != nil && in.AccessEndDate != nil && in.AccessEndDate.Before(*in.AccessStartDate) {
		return nil, models.NewValidationError("Access end date cannot be before access start date")
	}

	now := s.now().UTC()
	id := s.newUUID()
	requester := in.RequesterID
	req = &models.AccessRequest{
		RequestCode:           RequestCode(now, id),
		UUID:                  id,
		RequesterID:           in.RequesterID,
		DepartmentID:          in.DepartmentID,
		SystemID:              in.SystemID,
		RequestType:           in.RequestType,
		Priority:              in.Priority,
		Status:                models.StatusPending,
		Title:                 strings.TrimSpace(in.Title),
		Description:           in.Description,
		BusinessJustification: in.BusinessJustification,
		AccessLevel:           in.AccessLevel,
		TemporaryAccess:       in.TemporaryAccess,
		AccessStartDate:       in.AccessStartDate,
		AccessEndDate:         in.AccessEndDate,
		SubmittedAt:           now,
		CreatedBy:             requester,
		UpdatedBy:             &requester,
	}
	span.SetAttributes(attribute.String("request.code", req.RequestCode))

	if err := s.repo.Create(ctx, req); err != nil {
		return nil, err
	}

	middleware.Logger.InfoContext(ctx, "access request created",
		slog.String("request_code", req.RequestCode),
		slog.Uint64("department_id", uint64(req.DepartmentID)),
		slog.Uint64("system_id", uint64(req.SystemID)),
	)
	return req, nil
}

// Get returns the request addressed by numeric id, request code or uuid,
// along with its comments oldest first.
func (s *RequestService) Get(ctx context.Context, idOrCode string) (*models.RequestDetail, []models.Comment, error) {
	idOrCode = strings.TrimSpace(idOrCode)
	if idOrCode == "" {
		return nil, nil, models.NewValidationError("Request ID is required")
	}

	detail, err := s.repo.GetDetail(ctx, idOrCode)
	if err != nil {
		return nil, nil, err
	}
	comments, err := s.repo.ListComments(ctx, detail.ID)
	if err != nil {
		return nil, nil, err
	}
	return detail, comments, nil
}

// TransitionStatus moves a request to in.Status and records the optional
// comment. Both writes happen in one transaction.
func (s *RequestService) TransitionStatus(ctx context.Context, in TransitionInput) (req *models.AccessRequest, err error) {
	if !in.Status.Valid() {
		return nil, models.NewValidationError("Invalid status value")
	}
	if in.UpdatedBy == 0 {
		return nil, models.NewValidationError("updated_by is required")
	}

	ctx, span := s.tracer.TraceServiceCall(ctx, "RequestService", "TransitionStatus",
		attribute.String("request.status", string(in.Status)))
	defer func() { observability.EndSpan(span, err) }()

	now := s.now().UTC()
	req, err = s.repo.Transition(ctx, in.IDOrCode, func(r *models.AccessRequest) *models.Comment {
		s.applyTransition(r, in, now)
		if strings.TrimSpace(in.Comment) == "" {
			return nil
		}
		return &models.Comment{
			UserID:      in.UpdatedBy,
			CommentType: in.Status.CommentType(),
			Body:        in.Comment,
			CreatedAt:   now,
		}
	})
	if err != nil {
		return nil, err
	}

	observability.StatusTransitions.WithLabelValues(string(in.Status)).Inc()
	middleware.Logger.InfoContext(ctx, "access request status changed",
		slog.String("request_code", req.RequestCode),
		slog.String("status", string(req.Status)),
		slog.Uint64("updated_by", uint64(in.UpdatedBy)),
	)
	return req, nil
}

// applyTransition sets the new status and keeps the completion fields in
// step with it: they are filled for terminal statuses and cleared otherwise.
func (s *RequestService) applyTransition(r *models.AccessRequest, in TransitionInput, now time.Time) {
	by := in.UpdatedBy
	r.Status = in.Status
	r.UpdatedBy = &by
	r.UpdatedAt = now

	if !in.Status.Terminal() {
		r.CompletedAt = nil
		r.ProcessingTimeHours = nil
		r.SLAMet = nil
		return
	}

	hours := roundHours(now.Sub(r.SubmittedAt))
	met := hours <= r.Priority.SLATarget().Hours()
	completed := now
	r.CompletedAt = &completed
	r.ProcessingTimeHours = &hours
	r.SLAMet = &met
}

func roundHours(d time.Duration) float64 {
	if d < 0 {
		return 0
	}
	return math.Round(d.Hours()*100) / 100
}
