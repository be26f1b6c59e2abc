package repository

import (
	"context"
	"errors"
	"strconv"

	"accessdash/internal/models"
	"accessdash/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TransitionFunc mutates a locked request in place and returns the comment to
// record with the change, or nil for none.
type TransitionFunc func(req *models.AccessRequest) *models.Comment

// RequestRepository defines the interface for access request persistence.
type RequestRepository interface {
	Create(ctx context.Context, req *models.AccessRequest) error
	GetDetail(ctx context.Context, idOrCode string) (*models.RequestDetail, error)
	ListComments(ctx context.Context, requestID uint) ([]models.Comment, error)
	Transition(ctx context.Context, idOrCode string, apply TransitionFunc) (*models.AccessRequest, error)
}

type requestRepository struct {
	db *gorm.DB
}

// NewRequestRepository creates a new RequestRepository. Request reads go to
// the primary so a client sees its own writes.
func NewRequestRepository(db *gorm.DB) RequestRepository {
	return &requestRepository{db: db}
}

// transitionColumns are the columns a status transition may change.
var transitionColumns = []string{
	"status", "updated_by", "updated_at", "completed_at", "processing_time_hours", "sla_met",
}

const detailColumns = `ar.*,
	d.name AS department_name,
	s.name AS system_name,
	s.description AS system_description,
	u.first_name || ' ' || u.last_name AS requester_name,
	u.email AS requester_email,
	a.first_name || ' ' || a.last_name AS assigned_to_name`

// byIDOrCode restricts q to the request addressed by idOrCode: a numeric value
// matches the surrogate id, anything else the request code or uuid.
func byIDOrCode(q *gorm.DB, prefix, idOrCode string) *gorm.DB {
	if id, err := strconv.ParseUint(idOrCode, 10, 64); err == nil {
		return q.Where(prefix+"id = ?", id)
	}
	return q.Where("("+prefix+"request_code = ? OR "+prefix+"uuid = ?)", idOrCode, idOrCode)
}

func notFound(idOrCode string) error {
	return models.NewNotFoundError("Request", idOrCode)
}

func (r *requestRepository) Create(ctx context.Context, req *models.AccessRequest) error {
	ctx, span := observability.GetTraceLayer().TraceRepositoryMethod(ctx, "Create", "access_requests")
	err := translateError(r.db.WithContext(ctx).Create(req).Error)
	observability.EndSpan(span, err)
	return err
}

func (r *requestRepository) GetDetail(ctx context.Context, idOrCode string) (*models.RequestDetail, error) {
	var detail models.RequestDetail
	q := r.db.WithContext(ctx).
		Table("access_requests ar").
		Select(detailColumns).
		Joins("JOIN departments d ON ar.department_id = d.id").
		Joins("JOIN systems s ON ar.system_id = s.id").
		Joins("JOIN users u ON ar.requester_id = u.id").
		Joins("LEFT JOIN users a ON ar.assigned_to = a.id")
	res := byIDOrCode(q, "ar.", idOrCode).Limit(1).Scan(&detail)
	if res.Error != nil {
		return nil, translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, notFound(idOrCode)
	}
	return &detail, nil
}

func (r *requestRepository) ListComments(ctx context.Context, requestID uint) ([]models.Comment, error) {
	comments := []models.Comment{}
	err := r.db.WithContext(ctx).
		Table("request_comments rc").
		Select("rc.*, u.first_name || ' ' || u.last_name AS commenter_name").
		Joins("JOIN users u ON rc.user_id = u.id").
		Where("rc.request_id = ?", requestID).
		Order("rc.created_at ASC, rc.id ASC").
		Scan(&comments).Error
	if err != nil {
		return nil, translateError(err)
	}
	return comments, nil
}

// Transition locks the addressed request, lets apply change it and writes the
// change and the optional comment in one transaction. Nothing is written
// when any step fails.
func (r *requestRepository) Transition(ctx context.Context, idOrCode string, apply TransitionFunc) (*models.AccessRequest, error) {
	ctx, span := observability.GetTraceLayer().TraceRepositoryMethod(ctx, "Transition", "access_requests")

	var req models.AccessRequest
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		locked := byIDOrCode(tx.Clauses(clause.Locking{Strength: "UPDATE"}), "", idOrCode)
		if err := locked.First(&req).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound(idOrCode)
			}
			return err
		}

		comment := apply(&req)

		if err := tx.Model(&req).Select(transitionColumns).Updates(&req).Error; err != nil {
			return err
		}
		if comment != nil {
			comment.RequestID = req.ID
			if err := tx.Create(comment).Error; err != nil {
				return err
			}
		}
		return nil
	})
	err = translateError(err)
	observability.EndSpan(span, err)
	if err != nil {
		return nil, err
	}
	return &req, nil
}
