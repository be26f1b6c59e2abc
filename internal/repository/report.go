package repository

import (
	"context"

	"accessdash/internal/observability"
	"accessdash/internal/query"

	"gorm.io/gorm"
)

// ReportRepository executes composed report queries.
type ReportRepository interface {
	Scan(ctx context.Context, q query.Query, dest any) error
}

type reportRepository struct {
	db     *gorm.DB
	readDB *gorm.DB
}

// NewReportRepository creates a ReportRepository. Queries run on readDB when
// it is non-nil and on db otherwise.
func NewReportRepository(db, readDB *gorm.DB) ReportRepository {
	return &reportRepository{db: db, readDB: readDB}
}

// Scan runs q and scans every result row into dest, which must be a pointer
// to a slice, a struct or a scalar.
func (r *reportRepository) Scan(ctx context.Context, q query.Query, dest any) error {
	ctx, span := observability.GetTraceLayer().TraceRepositoryMethod(ctx, "Scan."+string(q.Kind), "access_requests")
	err := readDB(r.db, r.readDB).WithContext(ctx).Raw(q.SQL, q.Args...).Scan(dest).Error
	if err != nil {
		err = translateError(err)
	}
	observability.EndSpan(span, err)
	return err
}
