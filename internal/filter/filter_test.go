package filter

import (
	"errors"
	"math"
	"testing"
	"time"

	"accessdash/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertValidationError(t *testing.T, err error, msg string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, models.CodeValidation, appErr.Code)
	assert.Equal(t, msg, appErr.Message)
}

func TestNormalize_Defaults(t *testing.T) {
	f, err := Normalize(Raw{})
	require.NoError(t, err)

	assert.Nil(t, f.Start)
	assert.Nil(t, f.End)
	assert.Empty(t, f.Department)
	assert.Empty(t, f.System)
	assert.Empty(t, f.Status)
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, 10, f.Limit)
	assert.Equal(t, SortSubmittedAt, f.SortBy)
	assert.Equal(t, Desc, f.SortOrder)
	assert.Equal(t, 0, f.Offset())
}

func TestNormalize_AllMeansNoRestriction(t *testing.T) {
	f, err := Normalize(Raw{Department: "All", System: "All", Status: "All"})
	require.NoError(t, err)
	assert.Empty(t, f.Department)
	assert.Empty(t, f.System)
	assert.Empty(t, f.Status)
}

func TestNormalize_PassesSelectionsThrough(t *testing.T) {
	f, err := Normalize(Raw{Department: "Finance", System: "SAP ERP", Status: "Approved"})
	require.NoError(t, err)
	assert.Equal(t, "Finance", f.Department)
	assert.Equal(t, "SAP ERP", f.System)
	assert.Equal(t, models.StatusApproved, f.Status)
}

func TestNormalize_DateRange(t *testing.T) {
	f, err := Normalize(Raw{StartDate: "2024-01-01", EndDate: "2024-01-31"})
	require.NoError(t, err)
	require.NotNil(t, f.Start)
	require.NotNil(t, f.End)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), *f.Start)
	assert.Equal(t, time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC), *f.End)
}

func TestNormalize_SameDayIsValid(t *testing.T) {
	f, err := Normalize(Raw{StartDate: "2024-03-05", EndDate: "2024-03-05"})
	require.NoError(t, err)
	assert.True(t, f.End.After(*f.Start))
}

func TestNormalize_AcceptsTimestamps(t *testing.T) {
	f, err := Normalize(Raw{StartDate: "2024-03-05T10:00:00Z"})
	require.NoError(t, err)
	assert.Equal(t, 10, f.Start.Hour())
}

func TestNormalize_Errors(t *testing.T) {
	tests := []struct {
		name string
		raw  Raw
		msg  string
	}{
		{"bad start", Raw{StartDate: "01/02/2024"}, "Invalid start date format"},
		{"bad end", Raw{EndDate: "yesterday"}, "Invalid end date format"},
		{"inverted range", Raw{StartDate: "2024-02-01", EndDate: "2024-01-01"}, "Start date cannot be after end date"},
		{"unknown status", Raw{Status: "Archived"}, "Invalid status value"},
		{"unknown sort field", Raw{SortBy: "title"}, "Invalid sort field"},
		{"sql in sort field", Raw{SortBy: "submitted_at; DROP TABLE users"}, "Invalid sort field"},
		{"unknown sort order", Raw{SortOrder: "sideways"}, "Invalid sort order"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(tt.raw)
			assertValidationError(t, err, tt.msg)
		})
	}
}

func TestNormalize_SortOrderCaseInsensitive(t *testing.T) {
	f, err := Normalize(Raw{SortBy: "processing_time_hours", SortOrder: "asc"})
	require.NoError(t, err)
	assert.Equal(t, SortProcessingTime, f.SortBy)
	assert.Equal(t, Asc, f.SortOrder)
}

func TestNormalize_Pagination(t *testing.T) {
	tests := []struct {
		name        string
		page, limit string
		wantPage    int
		wantLimit   int
		wantOffset  int
	}{
		{"explicit", "2", "5", 2, 5, 5},
		{"non numeric", "abc", "x", 1, 10, 0},
		{"zero and negative", "0", "-3", 1, 10, 0},
		{"limit capped", "3", "1000", 3, MaxLimit, 200},
		{"offset saturates", "9223372036854775807", "10", math.MaxInt, 10, math.MaxInt},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Normalize(Raw{Page: tt.page, Limit: tt.limit})
			require.NoError(t, err)
			assert.Equal(t, tt.wantPage, f.Page)
			assert.Equal(t, tt.wantLimit, f.Limit)
			assert.Equal(t, tt.wantOffset, f.Offset())
		})
	}
}

func TestSortFieldColumn(t *testing.T) {
	assert.Equal(t, "request_code", SortRequestID.Column())
	assert.Equal(t, "submitted_at", SortSubmittedAt.Column())
	assert.Equal(t, "processing_time_hours", SortProcessingTime.Column())
}

func TestRawReportScope(t *testing.T) {
	raw := Raw{
		StartDate: "2024-01-01", EndDate: "2024-02-01", Department: "IT", System: "System A",
		Status: "bogus", Page: "2", Limit: "5", SortBy: "nope", SortOrder: "sideways",
	}
	assert.Equal(t, Raw{StartDate: "2024-01-01", EndDate: "2024-02-01", Department: "IT", System: "System A"}, raw.ReportScope())

	_, err := Normalize(raw.ReportScope())
	assert.NoError(t, err)
}
