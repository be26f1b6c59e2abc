// Package filter turns raw dashboard query parameters into a validated,
// canonical filter shared by every report and list query.
package filter

import (
	"math"
	"strconv"
	"strings"
	"time"

	"accessdash/internal/models"
)

const (
	// All is the sentinel the dashboard sends for "no restriction".
	All = "All"

	DefaultPage  = 1
	DefaultLimit = 10
	// MaxLimit caps page size regardless of what the caller asks for.
	MaxLimit = 100

	dateLayout = "2006-01-02"
)

// SortField is a column a request list may be ordered by.
type SortField string

const (
	SortRequestID      SortField = "request_id"
	SortSubmittedAt    SortField = "submitted_at"
	SortStatus         SortField = "status"
	SortProcessingTime SortField = "processing_time_hours"
)

// Column returns the access_requests column backing the sort field.
func (f SortField) Column() string {
	if f == SortRequestID {
		return "request_code"
	}
	return string(f)
}

// SortOrder is ASC or DESC.
type SortOrder string

const (
	Asc  SortOrder = "ASC"
	Desc SortOrder = "DESC"
)

// Raw holds query parameters exactly as received.
type Raw struct {
	StartDate  string
	EndDate    string
	Department string
	System     string
	Status     string
	Page       string
	Limit      string
	SortBy     string
	SortOrder  string
}

// ReportScope keeps only the parameters aggregate reports use. Status,
// paging and sorting belong to the request list and export.
func (r Raw) ReportScope() Raw {
	return Raw{StartDate: r.StartDate, EndDate: r.EndDate, Department: r.Department, System: r.System}
}

// Canonical is a validated filter. Empty Department, System and Status mean
// no restriction. End, when set, points at the last second of its day.
type Canonical struct {
	Start      *time.Time
	End        *time.Time
	Department string
	System     string
	Status     models.Status
	Page       int
	Limit      int
	SortBy     SortField
	SortOrder  SortOrder
}

// Offset is the number of rows skipped before the current page. It saturates
// at math.MaxInt instead of overflowing for absurd page numbers.
func (c Canonical) Offset() int {
	if c.Page <= 1 || c.Limit <= 0 {
		return 0
	}
	if c.Page-1 > math.MaxInt/c.Limit {
		return math.MaxInt
	}
	return (c.Page - 1) * c.Limit
}

// Normalize validates raw and fills in defaults.
func Normalize(raw Raw) (Canonical, error) {
	out := Canonical{
		Department: selection(raw.Department),
		System:     selection(raw.System),
		Page:       positiveOr(raw.Page, DefaultPage),
		Limit:      positiveOr(raw.Limit, DefaultLimit),
	}
	if out.Limit > MaxLimit {
		out.Limit = MaxLimit
	}

	if s := strings.TrimSpace(raw.StartDate); s != "" {
		start, err := parseDate(s)
		if err != nil {
			return Canonical{}, models.NewValidationError("Invalid start date format")
		}
		out.Start = &start
	}
	if s := strings.TrimSpace(raw.EndDate); s != "" {
		end, err := parseDate(s)
		if err != nil {
			return Canonical{}, models.NewValidationError("Invalid end date format")
		}
		end = endOfDay(end)
		out.End = &end
	}
	if out.Start != nil && out.End != nil && out.Start.After(*out.End) {
		return Canonical{}, models.NewValidationError("Start date cannot be after end date")
	}

	if st := selection(raw.Status); st != "" {
		status := models.Status(st)
		if !status.Valid() {
			return Canonical{}, models.NewValidationError("Invalid status value")
		}
		out.Status = status
	}

	sortBy, err := parseSortField(raw.SortBy)
	if err != nil {
		return Canonical{}, err
	}
	out.SortBy = sortBy

	order, err := parseSortOrder(raw.SortOrder)
	if err != nil {
		return Canonical{}, err
	}
	out.SortOrder = order

	return out, nil
}

func selection(v string) string {
	v = strings.TrimSpace(v)
	if v == All {
		return ""
	}
	return v
}

func positiveOr(v string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n <= 0 {
		return def
	}
	return n
}

// parseDate accepts a calendar date or a full RFC 3339 timestamp. Calendar
// dates are interpreted in UTC.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 0, t.Location())
}

func parseSortField(v string) (SortField, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return SortSubmittedAt, nil
	}
	switch f := SortField(v); f {
	case SortRequestID, SortSubmittedAt, SortStatus, SortProcessingTime:
		return f, nil
	}
	return "", models.NewValidationError("Invalid sort field")
}

func parseSortOrder(v string) (SortOrder, error) {
	switch strings.ToUpper(strings.TrimSpace(v)) {
	case "":
		return Desc, nil
	case string(Asc):
		return Asc, nil
	case string(Desc):
		return Desc, nil
	}
	return "", models.NewValidationError("Invalid sort order")
}
