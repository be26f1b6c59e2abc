// Package service holds the application's use cases. Handlers call services;
// services normalise input, compose queries and call repositories.
package service

import (
	"context"

	"accessdash/internal/filter"
	"accessdash/internal/models"
	"accessdash/internal/observability"
	"accessdash/internal/query"
	"accessdash/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// ReportService produces the dashboard's aggregate reports.
type ReportService struct {
	repo     repository.ReportRepository
	composer *query.Composer
	tracer   *observability.TraceLayer
}

// NewReportService creates a ReportService. A nil composer uses the wall clock.
func NewReportService(repo repository.ReportRepository, composer *query.Composer) *ReportService {
	if composer == nil {
		composer = query.NewComposer()
	}
	return &ReportService{
		repo:     repo,
		composer: composer,
		tracer:   observability.GetTraceLayer(),
	}
}

// run normalises the report-scoped part of raw, composes the report of the
// given kind and scans its rows into dest.
func (s *ReportService) run(ctx context.Context, kind query.Kind, raw filter.Raw, dest any) (err error) {
	defer observability.TrackReport(string(kind))()
	ctx, span := s.tracer.TraceServiceCall(ctx, "ReportService", string(kind),
		attribute.String("report.kind", string(kind)))
	defer func() { observability.EndSpan(span, err) }()

	f, err := filter.Normalize(raw.ReportScope())
	if err != nil {
		return err
	}
	return execute(ctx, s.repo, s.composer, kind, f, dest)
}

func execute(ctx context.Context, repo repository.ReportRepository, composer *query.Composer, kind query.Kind, f filter.Canonical, dest any) error {
	q, err := composer.Compose(kind, f)
	if err != nil {
		return models.NewInternalError(err)
	}
	return repo.Scan(ctx, q, dest)
}

// Metrics returns the headline counts and rates for the filtered requests.
func (s *ReportService) Metrics(ctx context.Context, raw filter.Raw) (*models.DashboardMetrics, error) {
	var metrics models.DashboardMetrics
	if err := s.run(ctx, query.KindMetrics, raw, &metrics); err != nil {
		return nil, err
	}
	return &metrics, nil
}

// MonthlyTrend returns request volumes per month over the trailing year.
func (s *ReportService) MonthlyTrend(ctx context.Context, raw filter.Raw) ([]models.MonthlyTrendPoint, error) {
	points := []models.MonthlyTrendPoint{}
	if err := s.run(ctx, query.KindMonthlyTrend, raw, &points); err != nil {
		return nil, err
	}
	return points, nil
}

// PerformanceTrend returns processing time and rates per month over the
// trailing year.
func (s *ReportService) PerformanceTrend(ctx context.Context, raw filter.Raw) ([]models.PerformancePoint, error) {
	points := []models.PerformancePoint{}
	if err := s.run(ctx, query.KindPerformanceTrend, raw, &points); err != nil {
		return nil, err
	}
	return points, nil
}

func (s *ReportService) StatusDistribution(ctx context.Context, raw filter.Raw) ([]models.StatusShare, error) {
	shares := []models.StatusShare{}
	if err := s.run(ctx, query.KindStatusDistribution, raw, &shares); err != nil {
		return nil, err
	}
	return shares, nil
}

func (s *ReportService) RequestTypeDistribution(ctx context.Context, raw filter.Raw) ([]models.RequestTypeShare, error) {
	shares := []models.RequestTypeShare{}
	if err := s.run(ctx, query.KindTypeDistribution, raw, &shares); err != nil {
		return nil, err
	}
	return shares, nil
}

// DepartmentPerformance returns one row per active department, including
// departments with no matching requests.
func (s *ReportService) DepartmentPerformance(ctx context.Context, raw filter.Raw) ([]models.DepartmentPerformance, error) {
	rows := []models.DepartmentPerformance{}
	if err := s.run(ctx, query.KindDepartmentPerformance, raw, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}
