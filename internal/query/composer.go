package query

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"accessdash/internal/filter"
)

// Kind names a report shape.
type Kind string

const (
	KindMetrics               Kind = "metrics"
	KindMonthlyTrend          Kind = "monthly-trend"
	KindStatusDistribution    Kind = "status-distribution"
	KindTypeDistribution      Kind = "type-distribution"
	KindDepartmentPerformance Kind = "department-performance"
	KindPerformanceTrend      Kind = "performance-trend"
	KindList                  Kind = "list"
	KindExport                Kind = "export"
	// KindCount counts the rows a list query would page over.
	KindCount Kind = "count"
)

// Kinds lists every kind Compose accepts.
var Kinds = []Kind{
	KindMetrics, KindMonthlyTrend, KindStatusDistribution, KindTypeDistribution,
	KindDepartmentPerformance, KindPerformanceTrend, KindList, KindExport, KindCount,
}

// ErrUnknownReportKind is returned by Compose for a kind it does not know.
var ErrUnknownReportKind = errors.New("unknown report kind")

// trendWindow is how far back the trend reports look.
const trendWindow = 12

// Query is composed SQL ready to execute. SQL uses ? placeholders.
type Query struct {
	Kind Kind
	SQL  string
	Args []any
}

const (
	fromRequests = `
FROM access_requests ar
JOIN departments d ON ar.department_id = d.id
JOIN systems s ON ar.system_id = s.id`

	fromRequestsWithUsers = fromRequests + `
JOIN users u ON ar.requester_id = u.id`

	avgProcessing = `ROUND(AVG(ar.processing_time_hours), 2)`

	approvalRate = `ROUND(
		COUNT(*) FILTER (WHERE ar.status = 'Approved') * 1.0 /
		NULLIF(COUNT(*) FILTER (WHERE ar.status IN ('Approved', 'Rejected')), 0) * 100,
	2)`

	slaMetRate = `ROUND(
		COUNT(*) FILTER (WHERE ar.sla_met = true) * 1.0 /
		NULLIF(COUNT(*) FILTER (WHERE ar.status IN ('Approved', 'Rejected', 'Cancelled')), 0) * 100,
	2)`

	monthBucket = `DATE_TRUNC('month', ar.submitted_at)`

	share = `ROUND(COUNT(*) * 1.0 / SUM(COUNT(*)) OVER () * 100, 2)`

	listColumns = `ar.request_code AS request_id,
	ar.title,
	ar.status,
	ar.priority,
	ar.request_type,
	ar.processing_time_hours,
	ar.submitted_at,
	ar.completed_at,
	d.name AS department_name,
	s.name AS system_name,
	CONCAT(u.first_name, ' ', u.last_name) AS requester_name`
)

// Composer builds queries. Now anchors the trend window.
type Composer struct {
	Now func() time.Time
}

// NewComposer returns a Composer using the wall clock.
func NewComposer() *Composer {
	return &Composer{Now: time.Now}
}

// FromFilter turns a canonical filter into predicates in a fixed order:
// start, end, department, system and, when withStatus is set, status.
func FromFilter(f filter.Canonical, withStatus bool) Predicates {
	var p Predicates
	if f.Start != nil {
		p = append(p, Predicate{Column: "ar.submitted_at", Op: Gte, Value: *f.Start})
	}
	if f.End != nil {
		p = append(p, Predicate{Column: "ar.submitted_at", Op: Lte, Value: *f.End})
	}
	if f.Department != "" {
		p = append(p, Predicate{Column: "d.name", Op: Eq, Value: f.Department})
	}
	if f.System != "" {
		p = append(p, Predicate{Column: "s.name", Op: Eq, Value: f.System})
	}
	if withStatus && f.Status != "" {
		p = append(p, Predicate{Column: "ar.status", Op: Eq, Value: string(f.Status)})
	}
	return p
}

// Compose builds the query for kind restricted by f.
func (c *Composer) Compose(kind Kind, f filter.Canonical) (Query, error) {
	var (
		sql  string
		args []any
	)
	switch kind {
	case KindMetrics:
		sql, args = c.metrics(f)
	case KindMonthlyTrend:
		sql, args = c.monthlyTrend(f)
	case KindPerformanceTrend:
		sql, args = c.performanceTrend(f)
	case KindStatusDistribution:
		sql, args = c.distribution(f, "ar.status", "status")
	case KindTypeDistribution:
		sql, args = c.distribution(f, "ar.request_type", "request_type")
	case KindDepartmentPerformance:
		sql, args = c.departmentPerformance(f)
	case KindList:
		sql, args = c.list(f)
	case KindCount:
		sql, args = c.count(f)
	case KindExport:
		sql, args = c.export(f)
	default:
		return Query{}, fmt.Errorf("%w: %q", ErrUnknownReportKind, kind)
	}
	return Query{Kind: kind, SQL: strings.TrimSpace(sql), Args: args}, nil
}

// TrendStart is the earliest submission date included in trend reports.
func (c *Composer) TrendStart() time.Time {
	now := time.Now()
	if c.Now != nil {
		now = c.Now()
	}
	y, m, d := now.Date()
	return time.Date(y, m-trendWindow, d, 0, 0, 0, 0, now.Location())
}

func (c *Composer) metrics(f filter.Canonical) (string, []any) {
	where, args := FromFilter(f, false).Where()
	sql := `
SELECT
	COUNT(*) AS total_requests,
	COUNT(*) FILTER (WHERE ar.status = 'Pending') AS pending_requests,
	COUNT(*) FILTER (WHERE ar.status = 'Approved') AS approved_requests,
	COUNT(*) FILTER (WHERE ar.status = 'Rejected') AS rejected_requests,
	COUNT(*) FILTER (WHERE ar.status = 'Cancelled') AS cancelled_requests,
	` + avgProcessing + ` AS avg_processing_time,
	` + approvalRate + ` AS approval_rate,
	` + slaMetRate + ` AS sla_met_rate` + fromRequests + where
	return sql, args
}

func (c *Composer) trendPredicates(f filter.Canonical) Predicates {
	window := Predicates{{Column: "ar.submitted_at", Op: Gte, Value: c.TrendStart()}}
	return append(window, FromFilter(f, false)...)
}

func (c *Composer) monthlyTrend(f filter.Canonical) (string, []any) {
	where, args := c.trendPredicates(f).Where()
	sql := `
SELECT
	TO_CHAR(` + monthBucket + `, 'Mon') AS month,
	` + monthBucket + ` AS month_date,
	COUNT(*) AS total_requests,
	COUNT(*) FILTER (WHERE ar.status = 'Approved') AS approved_requests,
	COUNT(*) FILTER (WHERE ar.status = 'Rejected') AS rejected_requests,
	COUNT(*) FILTER (WHERE ar.status = 'Pending') AS pending_requests,
	` + avgProcessing + ` AS avg_processing_time` + fromRequests + where + `
GROUP BY ` + monthBucket + `
ORDER BY month_date`
	return sql, args
}

func (c *Composer) performanceTrend(f filter.Canonical) (string, []any) {
	where, args := c.trendPredicates(f).Where()
	sql := `
SELECT
	TO_CHAR(` + monthBucket + `, 'Mon') AS month,
	` + monthBucket + ` AS month_date,
	` + avgProcessing + ` AS avg_processing_time,
	` + approvalRate + ` AS approval_rate,
	` + slaMetRate + ` AS sla_met_rate` + fromRequests + where + `
GROUP BY ` + monthBucket + `
ORDER BY month_date`
	return sql, args
}

func (c *Composer) distribution(f filter.Canonical, column, alias string) (string, []any) {
	where, args := FromFilter(f, false).Where()
	sql := `
SELECT
	` + column + ` AS ` + alias + `,
	COUNT(*) AS count,
	` + share + ` AS percentage` + fromRequests + where + `
GROUP BY ` + column + `
ORDER BY count DESC`
	return sql, args
}

// departmentPerformance lists every active department. Date and system
// predicates restrict the joined requests, not the departments; the
// department filter does not apply to this report.
func (c *Composer) departmentPerformance(f filter.Canonical) (string, []any) {
	joinFilter := f
	joinFilter.Department = ""
	joinCond, args := FromFilter(joinFilter, false).Compile()
	on := "ar.department_id = d.id"
	if joinCond != "" {
		on += " AND " + joinCond
	}

	where := " WHERE d.is_active = true"

	sql := `
SELECT
	d.name AS department_name,
	d.code AS department_code,
	COUNT(ar.id) AS total_requests,
	COUNT(*) FILTER (WHERE ar.status = 'Approved') AS approved_requests,
	COUNT(*) FILTER (WHERE ar.status = 'Rejected') AS rejected_requests,
	COUNT(*) FILTER (WHERE ar.status = 'Pending') AS pending_requests,
	` + avgProcessing + ` AS avg_processing_time,
	` + approvalRate + ` AS approval_rate
FROM departments d
LEFT JOIN (access_requests ar JOIN systems s ON ar.system_id = s.id) ON ` + on + where + `
GROUP BY d.id, d.name, d.code
ORDER BY total_requests DESC, d.name`
	return sql, args
}

func (c *Composer) list(f filter.Canonical) (string, []any) {
	where, args := FromFilter(f, true).Where()
	dir := string(f.SortOrder)
	if dir == "" {
		dir = string(filter.Desc)
	}
	sortBy := f.SortBy
	if sortBy == "" {
		sortBy = filter.SortSubmittedAt
	}
	if f.Limit <= 0 {
		f.Limit = filter.DefaultLimit
	}
	if f.Page <= 0 {
		f.Page = filter.DefaultPage
	}
	sql := `
SELECT
	` + listColumns + `,
	u.email AS requester_email` + fromRequestsWithUsers + where + `
ORDER BY ar.` + sortBy.Column() + ` ` + dir + `, ar.id ` + dir + `
LIMIT ? OFFSET ?`
	return sql, append(args, f.Limit, f.Offset())
}

func (c *Composer) count(f filter.Canonical) (string, []any) {
	where, args := FromFilter(f, true).Where()
	return `SELECT COUNT(*)` + fromRequestsWithUsers + where, args
}

func (c *Composer) export(f filter.Canonical) (string, []any) {
	where, args := FromFilter(f, true).Where()
	sql := `
SELECT
	` + listColumns + fromRequestsWithUsers + where + `
ORDER BY ar.submitted_at DESC`
	return sql, args
}
