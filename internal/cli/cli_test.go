package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"accessdash/internal/models"
	"accessdash/internal/query"
	"accessdash/internal/service"
	"accessdash/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func stubOpen(repo *testutil.ReportRepoStub) OpenFunc {
	return func(context.Context) (*Services, func(), error) {
		composer := query.NewComposer()
		return &Services{
			Reports: service.NewReportService(repo, composer),
			Listing: service.NewListingService(repo, composer),
		}, func() {}, nil
	}
}

func metricsRepo() *testutil.ReportRepoStub {
	return &testutil.ReportRepoStub{
		ScanFn: func(_ context.Context, q query.Query, dest any) error {
			if q.Kind == query.KindMetrics {
				rate := 66.67
				*dest.(*models.DashboardMetrics) = models.DashboardMetrics{TotalRequests: 3, ApprovedRequests: 2, ApprovalRate: &rate}
			}
			return nil
		},
	}
}

func execute(t *testing.T, open OpenFunc, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand(open)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestMetrics_JSON(t *testing.T) {
	repo := metricsRepo()
	out, err := execute(t, stubOpen(repo), "metrics", "--department", "Finance", "-o", "json")
	require.NoError(t, err)

	var got models.DashboardMetrics
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.EqualValues(t, 3, got.TotalRequests)
	require.NotNil(t, got.ApprovalRate)
	assert.InDelta(t, 66.67, *got.ApprovalRate, 0.001)
	require.Len(t, repo.Queries, 1)
	assert.Contains(t, repo.Queries[0].Args, "Finance")
}

func TestMetrics_YAML(t *testing.T) {
	out, err := execute(t, stubOpen(metricsRepo()), "metrics", "--output", "yaml")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &got))
	assert.Equal(t, 3, got["total_requests"])
	assert.Nil(t, got["sla_met_rate"])
}

func TestMetrics_Table(t *testing.T) {
	out, err := execute(t, stubOpen(metricsRepo()), "metrics")
	require.NoError(t, err)
	assert.Contains(t, out, "Approval rate (%):")
	assert.Contains(t, out, "66.67")
	assert.Regexp(t, `SLA met rate \(%\):\s+-`, out)
}

func TestMetrics_Errors(t *testing.T) {
	_, err := execute(t, stubOpen(metricsRepo()), "metrics", "-o", "xml")
	assert.ErrorContains(t, err, "unsupported output")

	_, err = execute(t, stubOpen(metricsRepo()), "metrics", "--start", "June")
	assert.ErrorContains(t, err, "Invalid start date format")

	failing := func(context.Context) (*Services, func(), error) {
		return nil, nil, errors.New("database connection failed")
	}
	_, err = execute(t, failing, "metrics")
	assert.ErrorContains(t, err, "database connection failed")
}

func TestExport_ToFile(t *testing.T) {
	repo := &testutil.ReportRepoStub{
		ScanFn: func(_ context.Context, q query.Query, dest any) error {
			if q.Kind == query.KindExport {
				*dest.(*[]models.RequestListItem) = []models.RequestListItem{{
					RequestID:   "REQ-2024-ABCDEF12",
					Title:       "Ledger read access",
					Status:      models.StatusPending,
					SubmittedAt: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
				}}
			}
			return nil
		},
	}
	path := filepath.Join(t.TempDir(), "requests.csv")

	out, err := execute(t, stubOpen(repo), "export", "--out", path)
	require.NoError(t, err)
	assert.Contains(t, out, "wrote 1 requests")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(string(data), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "Request ID,"))
	assert.True(t, strings.HasPrefix(lines[1], `"REQ-2024-ABCDEF12","Ledger read access","Pending"`))
}

func TestExport_JSONToStdout(t *testing.T) {
	out, err := execute(t, stubOpen(&testutil.ReportRepoStub{}), "export", "-f", "json")
	require.NoError(t, err)
	assert.Equal(t, "[]", out)

	_, err = execute(t, stubOpen(&testutil.ReportRepoStub{}), "export", "-f", "xml")
	assert.ErrorContains(t, err, "Invalid format. Use csv or json")
}
