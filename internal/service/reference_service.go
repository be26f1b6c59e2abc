package service

import (
	"context"

	"accessdash/internal/models"
	"accessdash/internal/repository"

	"golang.org/x/sync/errgroup"
)

// Health values reported by ReferenceService.Health.
const (
	HealthHealthy   = "healthy"
	HealthUnhealthy = "unhealthy"
	DBConnected     = "connected"
	DBDisconnected  = "disconnected"
)

// HealthStatus summarises whether the store answers.
type HealthStatus struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// ReferenceService serves the static and semi-static values the dashboard
// filters on.
type ReferenceService struct {
	repo repository.ReferenceRepository
}

func NewReferenceService(repo repository.ReferenceRepository) *ReferenceService {
	return &ReferenceService{repo: repo}
}

// FilterOptions returns the active departments and systems together with
// the enumerated statuses, request types and priorities. Departments and
// systems are read concurrently.
func (s *ReferenceService) FilterOptions(ctx context.Context) (*models.FilterOptions, error) {
	var departments []models.Department
	var systems []models.System

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		departments, err = s.repo.ActiveDepartments(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		systems, err = s.repo.ActiveSystems(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if departments == nil {
		departments = []models.Department{}
	}
	if systems == nil {
		systems = []models.System{}
	}
	return &models.FilterOptions{
		Departments:  departments,
		Systems:      systems,
		Statuses:     models.Statuses,
		RequestTypes: models.RequestTypes,
		Priorities:   models.Priorities,
	}, nil
}

// Health pings the store. The returned error is non-nil when it does not
// answer; the status is filled either way.
func (s *ReferenceService) Health(ctx context.Context) (HealthStatus, error) {
	if err := s.repo.Ping(ctx); err != nil {
		return HealthStatus{Status: HealthUnhealthy, Database: DBDisconnected}, err
	}
	return HealthStatus{Status: HealthHealthy, Database: DBConnected}, nil
}
