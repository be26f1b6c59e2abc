// Package seed creates demo data for development databases. It is never
// called on the request path.
package seed

import (
	"fmt"
	"math"
	"strings"
	"time"

	"accessdash/internal/models"
	"accessdash/internal/service"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
)

// Factory builds domain entities without persisting them.
type Factory struct {
	faker   *gofakeit.Faker
	now     time.Time
	maxDays int
	// userSeq keeps generated emails unique within one run
	userSeq int
}

// NewFactory returns a Factory whose output is reproducible for a given seed.
// Submission dates are spread over the maxDays before now.
func NewFactory(seed int64, now time.Time, maxDays int) *Factory {
	if maxDays <= 0 {
		maxDays = 365
	}
	return &Factory{faker: gofakeit.New(seed), now: now.UTC(), maxDays: maxDays}
}

// BuildUser constructs a user with a unique example.com address.
func (f *Factory) BuildUser(overrides ...func(*models.User)) *models.User {
	f.userSeq++
	first := f.faker.FirstName()
	last := f.faker.LastName()
	user := &models.User{
		FirstName: first,
		LastName:  last,
		Email:     fmt.Sprintf("%s.%s.%d@example.com", strings.ToLower(first), strings.ToLower(last), f.userSeq),
	}
	for _, override := range overrides {
		override(user)
	}
	return user
}

var statusWeights = []struct {
	status models.Status
	weight int
}{
	{models.StatusPending, 20},
	{models.StatusApproved, 55},
	{models.StatusRejected, 15},
	{models.StatusCancelled, 10},
}

func (f *Factory) pickStatus() models.Status {
	n := f.faker.Number(1, 100)
	for _, sw := range statusWeights {
		if n <= sw.weight {
			return sw.status
		}
		n -= sw.weight
	}
	return models.StatusPending
}

// BuildRequest constructs a request from requester in dept for sys. Terminal
// requests carry completion fields consistent with their priority's SLA.
func (f *Factory) BuildRequest(requester *models.User, dept *models.Department, sys *models.System, overrides ...func(*models.AccessRequest)) *models.AccessRequest {
	submitted := f.now.Add(-time.Duration(f.faker.Number(0, f.maxDays*24*60)) * time.Minute).Truncate(time.Second)
	id := uuid.NewString()

	req := &models.AccessRequest{
		RequestCode:           service.RequestCode(submitted, id),
		UUID:                  id,
		RequesterID:           requester.ID,
		DepartmentID:          dept.ID,
		SystemID:              sys.ID,
		RequestType:           models.RequestTypes[f.faker.Number(0, len(models.RequestTypes)-1)],
		Priority:              models.Priorities[f.faker.Number(0, len(models.Priorities)-1)],
		Status:                f.pickStatus(),
		Title:                 strings.TrimSuffix(f.faker.Sentence(5), "."),
		Description:           f.faker.Paragraph(1, 2, 12, " "),
		BusinessJustification: f.faker.Sentence(12),
		AccessLevel:           f.faker.RandomString([]string{models.DefaultAccessLevel, "Read Only", "Elevated", "Admin"}),
		TemporaryAccess:       f.faker.Bool(),
		SubmittedAt:           submitted,
		CreatedBy:             requester.ID,
		UpdatedBy:             &requester.ID,
		CreatedAt:             submitted,
		UpdatedAt:             submitted,
	}

	if req.TemporaryAccess {
		start := submitted.Add(24 * time.Hour)
		end := start.Add(time.Duration(f.faker.Number(1, 30)) * 24 * time.Hour)
		req.AccessStartDate = &start
		req.AccessEndDate = &end
	}

	if req.Status.Terminal() {
		f.complete(req)
	}

	for _, override := range overrides {
		override(req)
	}
	return req
}

// complete fills the completion fields, never placing completion after now.
func (f *Factory) complete(req *models.AccessRequest) {
	hours := f.faker.Float64Range(0.25, 2*req.Priority.SLATarget().Hours())
	completed := req.SubmittedAt.Add(time.Duration(hours * float64(time.Hour)))
	if completed.After(f.now) {
		completed = f.now
	}
	hours = math.Round(completed.Sub(req.SubmittedAt).Hours()*100) / 100
	met := hours <= req.Priority.SLATarget().Hours()

	req.CompletedAt = &completed
	req.ProcessingTimeHours = &hours
	req.SLAMet = &met
	req.UpdatedAt = completed
}

// BuildComment constructs the note a reviewer leaves when closing req. Pending
// requests get a general note.
func (f *Factory) BuildComment(req *models.AccessRequest, author *models.User) *models.Comment {
	created := req.SubmittedAt
	if req.CompletedAt != nil {
		created = *req.CompletedAt
	}
	return &models.Comment{
		RequestID:   req.ID,
		UserID:      author.ID,
		CommentType: req.Status.CommentType(),
		Body:        f.faker.Sentence(10),
		CreatedAt:   created,
	}
}
