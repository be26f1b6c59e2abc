package service

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"accessdash/internal/filter"
	"accessdash/internal/models"
	"accessdash/internal/observability"
	"accessdash/internal/query"
	"accessdash/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// Export formats.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
)

// csvHeader names the exported columns in order.
const csvHeader = "Request ID,Title,Status,Priority,Type,Processing Time (hours),Submitted At,Completed At,Department,System,Requester"

// ExportFile is a rendered export ready to be sent as a download.
type ExportFile struct {
	Format      string
	ContentType string
	Filename    string
	Body        []byte
	Rows        int
}

// ListingService pages through requests and renders exports.
type ListingService struct {
	repo     repository.ReportRepository
	composer *query.Composer
	tracer   *observability.TraceLayer
}

func NewListingService(repo repository.ReportRepository, composer *query.Composer) *ListingService {
	if composer == nil {
		composer = query.NewComposer()
	}
	return &ListingService{
		repo:     repo,
		composer: composer,
		tracer:   observability.GetTraceLayer(),
	}
}

// List returns one page of requests matching raw plus the pagination
// metadata for the whole result. A page past the end has no rows.
func (s *ListingService) List(ctx context.Context, raw filter.Raw) (page *models.RequestPage, err error) {
	defer observability.TrackReport(string(query.KindList))()
	ctx, span := s.tracer.TraceServiceCall(ctx, "ListingService", "List")
	defer func() { observability.EndSpan(span, err) }()

	f, err := filter.Normalize(raw)
	if err != nil {
		return nil, err
	}

	var total int64
	if err := execute(ctx, s.repo, s.composer, query.KindCount, f, &total); err != nil {
		return nil, err
	}

	pages := totalPages(total, f.Limit)
	rows := []models.RequestListItem{}
	if int64(f.Page) <= pages {
		if err := execute(ctx, s.repo, s.composer, query.KindList, f, &rows); err != nil {
			return nil, err
		}
	}

	return &models.RequestPage{
		Data: rows,
		Pagination: models.Pagination{
			Page:       f.Page,
			Limit:      f.Limit,
			Total:      total,
			TotalPages: pages,
		},
	}, nil
}

func totalPages(total int64, limit int) int64 {
	if limit <= 0 {
		return 0
	}
	l := int64(limit)
	return (total + l - 1) / l
}

// Export renders every request matching raw in the given format. An empty
// format means CSV.
func (s *ListingService) Export(ctx context.Context, format string, raw filter.Raw) (file *ExportFile, err error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = FormatCSV
	}
	if format != FormatCSV && format != FormatJSON {
		return nil, models.NewValidationError("Invalid format. Use csv or json")
	}

	defer observability.TrackReport(string(query.KindExport))()
	ctx, span := s.tracer.TraceServiceCall(ctx, "ListingService", "Export",
		attribute.String("export.format", format))
	defer func() { observability.EndSpan(span, err) }()

	f, err := filter.Normalize(raw)
	if err != nil {
		return nil, err
	}

	rows := []models.RequestListItem{}
	if err := execute(ctx, s.repo, s.composer, query.KindExport, f, &rows); err != nil {
		return nil, err
	}

	file = &ExportFile{
		Format:   format,
		Filename: "access_requests." + format,
		Rows:     len(rows),
	}
	if format == FormatJSON {
		file.ContentType = "application/json"
		if file.Body, err = json.Marshal(rows); err != nil {
			return nil, models.NewInternalError(err)
		}
	} else {
		file.ContentType = "text/csv"
		file.Body = []byte(RenderCSV(rows))
	}

	observability.ExportRows.WithLabelValues(format).Add(float64(len(rows)))
	return file, nil
}

// RenderCSV renders rows under the fixed export header. Every field is
// wrapped in double quotes as is; embedded quotes and newlines are not
// escaped.
func RenderCSV(rows []models.RequestListItem) string {
	var b strings.Builder
	b.WriteString(csvHeader)
	b.WriteByte('\n')
	for i, r := range rows {
		if i > 0 {
			b.WriteByte('\n')
		}
		fields := []string{
			r.RequestID,
			r.Title,
			string(r.Status),
			string(r.Priority),
			string(r.RequestType),
			formatHours(r.ProcessingTimeHours),
			r.SubmittedAt.Format(time.RFC3339),
			formatTime(r.CompletedAt),
			r.DepartmentName,
			r.SystemName,
			r.RequesterName,
		}
		for j, v := range fields {
			if j > 0 {
				b.WriteByte(',')
			}
			b.WriteByte('"')
			b.WriteString(v)
			b.WriteByte('"')
		}
	}
	return b.String()
}

func formatHours(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
