package query

import (
	"errors"
	"strings"
	"testing"
	"time"

	"accessdash/internal/filter"
	"accessdash/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 6, 15, 13, 45, 0, 0, time.UTC)

func newTestComposer() *Composer {
	return &Composer{Now: func() time.Time { return fixedNow }}
}

func mustNormalize(t *testing.T, raw filter.Raw) filter.Canonical {
	t.Helper()
	f, err := filter.Normalize(raw)
	require.NoError(t, err)
	return f
}

func TestPredicatesCompile(t *testing.T) {
	clause, args := Predicates{}.Compile()
	assert.Empty(t, clause)
	assert.Nil(t, args)

	where, _ := Predicates(nil).Where()
	assert.Empty(t, where)

	clause, args = Predicates{
		{Column: "ar.submitted_at", Op: Gte, Value: 1},
		{Column: "d.name", Op: Eq, Value: "Finance"},
	}.Compile()
	assert.Equal(t, "ar.submitted_at >= ? AND d.name = ?", clause)
	assert.Equal(t, []any{1, "Finance"}, args)
}

func TestFromFilter_Order(t *testing.T) {
	f := mustNormalize(t, filter.Raw{
		StartDate: "2024-01-01", EndDate: "2024-01-31",
		Department: "Finance", System: "SAP ERP", Status: "Approved",
	})

	preds := FromFilter(f, true)
	require.Len(t, preds, 5)
	cols := make([]string, 0, len(preds))
	for _, p := range preds {
		cols = append(cols, p.Column+" "+string(p.Op))
	}
	assert.Equal(t, []string{
		"ar.submitted_at >=", "ar.submitted_at <=", "d.name =", "s.name =", "ar.status =",
	}, cols)
	assert.Equal(t, time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC), preds[1].Value)

	assert.Len(t, FromFilter(f, false), 4)
}

func TestCompose_NoFilterHasNoWhere(t *testing.T) {
	q, err := newTestComposer().Compose(KindMetrics, mustNormalize(t, filter.Raw{}))
	require.NoError(t, err)
	assert.NotContains(t, q.SQL, "WHERE ar.")
	assert.NotContains(t, q.SQL, "1=1")
	assert.Empty(t, q.Args)
	assert.Equal(t, KindMetrics, q.Kind)
}

func TestCompose_MetricsWithFilter(t *testing.T) {
	f := mustNormalize(t, filter.Raw{Department: "Finance", Status: "Approved"})
	q, err := newTestComposer().Compose(KindMetrics, f)
	require.NoError(t, err)

	assert.Contains(t, q.SQL, "WHERE d.name = ?")
	// status only restricts list and export
	assert.NotContains(t, q.SQL, "ar.status = ?")
	assert.Equal(t, []any{"Finance"}, q.Args)
}

func TestCompose_RateExpressions(t *testing.T) {
	q, err := newTestComposer().Compose(KindMetrics, filter.Canonical{})
	require.NoError(t, err)
	sql := strings.Join(strings.Fields(q.SQL), " ")

	assert.Contains(t, sql, "ROUND( COUNT(*) FILTER (WHERE ar.status = 'Approved') * 1.0 / "+
		"NULLIF(COUNT(*) FILTER (WHERE ar.status IN ('Approved', 'Rejected')), 0) * 100, 2) AS approval_rate")
	assert.Contains(t, sql, "ROUND( COUNT(*) FILTER (WHERE ar.sla_met = true) * 1.0 / "+
		"NULLIF(COUNT(*) FILTER (WHERE ar.status IN ('Approved', 'Rejected', 'Cancelled')), 0) * 100, 2) AS sla_met_rate")
	assert.Contains(t, sql, "ROUND(AVG(ar.processing_time_hours), 2) AS avg_processing_time")
}

func TestCompose_ValuesNeverInlined(t *testing.T) {
	f := mustNormalize(t, filter.Raw{Department: "x' OR '1'='1", System: "Robert'); DROP TABLE users;--"})
	for _, kind := range Kinds {
		q, err := newTestComposer().Compose(kind, f)
		require.NoError(t, err)
		assert.NotContains(t, q.SQL, "DROP TABLE", kind)
		assert.NotContains(t, q.SQL, "'1'='1", kind)
	}
}

func TestCompose_TrendWindowLeads(t *testing.T) {
	f := mustNormalize(t, filter.Raw{System: "Salesforce"})
	for _, kind := range []Kind{KindMonthlyTrend, KindPerformanceTrend} {
		q, err := newTestComposer().Compose(kind, f)
		require.NoError(t, err)
		assert.Contains(t, q.SQL, "WHERE ar.submitted_at >= ? AND s.name = ?")
		require.Len(t, q.Args, 2)
		assert.Equal(t, time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC), q.Args[0])
		assert.Equal(t, "Salesforce", q.Args[1])
		assert.True(t, strings.HasSuffix(q.SQL, "ORDER BY month_date"), kind)
	}
}

func TestCompose_Distributions(t *testing.T) {
	q, err := newTestComposer().Compose(KindStatusDistribution, filter.Canonical{})
	require.NoError(t, err)
	assert.Contains(t, q.SQL, "ar.status AS status")
	assert.Contains(t, q.SQL, "SUM(COUNT(*)) OVER ()")
	assert.Contains(t, q.SQL, "GROUP BY ar.status")

	q, err = newTestComposer().Compose(KindTypeDistribution, filter.Canonical{})
	require.NoError(t, err)
	assert.Contains(t, q.SQL, "ar.request_type AS request_type")
	assert.True(t, strings.HasSuffix(q.SQL, "ORDER BY count DESC"))
}

func TestCompose_DepartmentPerformanceKeepsEmptyDepartments(t *testing.T) {
	f := mustNormalize(t, filter.Raw{StartDate: "2024-01-01", System: "Workday", Department: "Finance"})
	q, err := newTestComposer().Compose(KindDepartmentPerformance, f)
	require.NoError(t, err)

	assert.Contains(t, q.SQL, "FROM departments d\nLEFT JOIN (access_requests ar JOIN systems s ON ar.system_id = s.id)")
	// request predicates live in the join so departments without matches survive
	assert.Contains(t, q.SQL, "ON ar.department_id = d.id AND ar.submitted_at >= ? AND s.name = ?")
	assert.Contains(t, q.SQL, "WHERE d.is_active = true\nGROUP BY")
	assert.NotContains(t, q.SQL, "d.name = ?")
	assert.Contains(t, q.SQL, "COUNT(ar.id) AS total_requests")
	assert.Equal(t, []any{*f.Start, "Workday"}, q.Args)
}

func TestCompose_ListPaging(t *testing.T) {
	f := mustNormalize(t, filter.Raw{Page: "2", Limit: "5", Status: "Pending", SortBy: "request_id", SortOrder: "asc"})
	q, err := newTestComposer().Compose(KindList, f)
	require.NoError(t, err)

	assert.Contains(t, q.SQL, "WHERE ar.status = ?")
	assert.Contains(t, q.SQL, "ORDER BY ar.request_code ASC, ar.id ASC")
	assert.True(t, strings.HasSuffix(q.SQL, "LIMIT ? OFFSET ?"))
	assert.Equal(t, []any{string(models.StatusPending), 5, 5}, q.Args)
}

func TestCompose_CountMatchesListFilter(t *testing.T) {
	f := mustNormalize(t, filter.Raw{Department: "IT", Status: "Rejected", Page: "3"})
	count, err := newTestComposer().Compose(KindCount, f)
	require.NoError(t, err)
	list, err := newTestComposer().Compose(KindList, f)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(count.SQL, "SELECT COUNT(*)"))
	assert.NotContains(t, count.SQL, "LIMIT")
	assert.Equal(t, count.Args, list.Args[:len(count.Args)])
}

func TestCompose_Export(t *testing.T) {
	f := mustNormalize(t, filter.Raw{Status: "Approved", SortBy: "status", Page: "4"})
	q, err := newTestComposer().Compose(KindExport, f)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(q.SQL, "ORDER BY ar.submitted_at DESC"))
	assert.NotContains(t, q.SQL, "LIMIT")
	assert.NotContains(t, q.SQL, "requester_email")
	assert.Equal(t, []any{"Approved"}, q.Args)
}

func TestCompose_UnknownKind(t *testing.T) {
	_, err := newTestComposer().Compose(Kind("heatmap"), filter.Canonical{})
	assert.True(t, errors.Is(err, ErrUnknownReportKind))
}
