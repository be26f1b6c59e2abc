// Package testutil provides shared test doubles and fixtures for tests.
package testutil

import (
	"context"
	"strconv"
	"sync"
	"time"

	"accessdash/internal/models"
	"accessdash/internal/query"
	"accessdash/internal/repository"
)

// ReportRepoStub records every query it is asked to scan and delegates the
// scan itself to ScanFn. A nil ScanFn leaves dest untouched.
type ReportRepoStub struct {
	ScanFn  func(ctx context.Context, q query.Query, dest any) error
	Queries []query.Query
}

var _ repository.ReportRepository = (*ReportRepoStub)(nil)

// Scan records q and calls ScanFn.
func (s *ReportRepoStub) Scan(ctx context.Context, q query.Query, dest any) error {
	s.Queries = append(s.Queries, q)
	if s.ScanFn == nil {
		return nil
	}
	return s.ScanFn(ctx, q, dest)
}

// Kinds returns the kinds of the recorded queries in call order.
func (s *ReportRepoStub) Kinds() []query.Kind {
	kinds := make([]query.Kind, 0, len(s.Queries))
	for _, q := range s.Queries {
		kinds = append(kinds, q.Kind)
	}
	return kinds
}

// RequestRepoStub is an in-memory request repository.
type RequestRepoStub struct {
	mu       sync.Mutex
	items    map[uint]*models.AccessRequest
	comments []models.Comment
	nextID   uint

	// CreateErr, when set, is returned by Create without storing anything.
	CreateErr error
	// CommentErr, when set, fails Transition after apply ran; nothing is kept.
	CommentErr error
	// Users resolves display names for details and comments.
	Users map[uint]models.User
}

var _ repository.RequestRepository = (*RequestRepoStub)(nil)

// NewRequestRepoStub creates an empty RequestRepoStub.
func NewRequestRepoStub() *RequestRepoStub {
	return &RequestRepoStub{
		items:  make(map[uint]*models.AccessRequest),
		nextID: 1,
		Users:  make(map[uint]models.User),
	}
}

// Create stores a copy of req and assigns its id.
func (s *RequestRepoStub) Create(_ context.Context, req *models.AccessRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.CreateErr != nil {
		return s.CreateErr
	}
	if req.ID == 0 {
		req.ID = s.nextID
		s.nextID++
	}
	now := time.Now().UTC()
	req.CreatedAt = now
	req.UpdatedAt = now
	stored := *req
	s.items[req.ID] = &stored
	return nil
}

func (s *RequestRepoStub) find(idOrCode string) *models.AccessRequest {
	if id, err := strconv.ParseUint(idOrCode, 10, 64); err == nil {
		return s.items[uint(id)]
	}
	for _, item := range s.items {
		if item.RequestCode == idOrCode || item.UUID == idOrCode {
			return item
		}
	}
	return nil
}

// GetDetail returns the stored request with the requester's display fields.
func (s *RequestRepoStub) GetDetail(_ context.Context, idOrCode string) (*models.RequestDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item := s.find(idOrCode)
	if item == nil {
		return nil, models.NewNotFoundError("Request", idOrCode)
	}
	user := s.Users[item.RequesterID]
	return &models.RequestDetail{
		AccessRequest:  *item,
		RequesterName:  user.FullName(),
		RequesterEmail: user.Email,
	}, nil
}

// ListComments returns the comments of a request in insertion order.
func (s *RequestRepoStub) ListComments(_ context.Context, requestID uint) ([]models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Comment{}
	for _, c := range s.comments {
		if c.RequestID == requestID {
			c.CommenterName = s.Users[c.UserID].FullName()
			out = append(out, c)
		}
	}
	return out, nil
}

// Transition applies the change to a copy and keeps it only when every step
// succeeds.
func (s *RequestRepoStub) Transition(_ context.Context, idOrCode string, apply repository.TransitionFunc) (*models.AccessRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item := s.find(idOrCode)
	if item == nil {
		return nil, models.NewNotFoundError("Request", idOrCode)
	}

	working := *item
	comment := apply(&working)
	if comment != nil && s.CommentErr != nil {
		return nil, s.CommentErr
	}

	*item = working
	if comment != nil {
		comment.ID = uint(len(s.comments) + 1)
		comment.RequestID = item.ID
		s.comments = append(s.comments, *comment)
	}
	result := working
	return &result, nil
}

// CommentCount returns how many comments are stored.
func (s *RequestRepoStub) CommentCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.comments)
}

// Stored returns a copy of the stored request with the given id.
func (s *RequestRepoStub) Stored(id uint) (models.AccessRequest, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	if !ok {
		return models.AccessRequest{}, false
	}
	return *item, true
}

// ReferenceRepoStub serves fixed departments and systems.
type ReferenceRepoStub struct {
	Departments []models.Department
	Systems     []models.System
	Err         error
	PingErr     error
}

var _ repository.ReferenceRepository = (*ReferenceRepoStub)(nil)

func (s *ReferenceRepoStub) ActiveDepartments(_ context.Context) ([]models.Department, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Departments, nil
}

func (s *ReferenceRepoStub) ActiveSystems(_ context.Context) ([]models.System, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Systems, nil
}

func (s *ReferenceRepoStub) Ping(_ context.Context) error {
	return s.PingErr
}

// DemoDepartments mirrors the reference departments seeded by migration.
func DemoDepartments() []models.Department {
	return []models.Department{
		{ID: 5, Name: "Customer Service", Code: "CS", IsActive: true},
		{ID: 2, Name: "Finance", Code: "FIN", IsActive: true},
		{ID: 1, Name: "IT", Code: "IT", IsActive: true},
		{ID: 4, Name: "Legal", Code: "LEG", IsActive: true},
		{ID: 3, Name: "Marketing", Code: "MKT", IsActive: true},
	}
}

// DemoSystems mirrors the reference systems seeded by migration.
func DemoSystems() []models.System {
	return []models.System{
		{ID: 2, Name: "Account Management", Code: "ACCT", IsActive: true},
		{ID: 3, Name: "Data Reporting", Code: "DATA", IsActive: true},
		{ID: 1, Name: "System A", Code: "SYSA", IsActive: true},
	}
}
