package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"accessdash/internal/config"
	"accessdash/internal/models"
	"accessdash/internal/query"
	"accessdash/internal/service"
	"accessdash/internal/testutil"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockReferenceRepository is a mock of the ReferenceRepository interface
type MockReferenceRepository struct {
	mock.Mock
}

func (m *MockReferenceRepository) ActiveDepartments(ctx context.Context) ([]models.Department, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Department), args.Error(1)
}

func (m *MockReferenceRepository) ActiveSystems(ctx context.Context) ([]models.System, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.System), args.Error(1)
}

func (m *MockReferenceRepository) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type testEnv struct {
	srv       *Server
	reports   *testutil.ReportRepoStub
	requests  *testutil.RequestRepoStub
	reference *MockReferenceRepository
}

// newTestEnv wires the real services over in-memory stores.
func newTestEnv(t *testing.T, env string, rdb *redis.Client) *testEnv {
	t.Helper()
	e := &testEnv{
		reports:   &testutil.ReportRepoStub{},
		requests:  testutil.NewRequestRepoStub(),
		reference: &MockReferenceRepository{},
	}
	composer := query.NewComposer()
	cfg := &config.Config{
		Port:                    "0",
		Env:                     env,
		AllowedOrigins:          "*",
		RateLimitMax:            1000,
		RateLimitWindowMinutes:  1,
		WriteRateLimitPerMinute: 30,
	}
	e.srv = NewServerWithServices(cfg, Services{
		Reports:   service.NewReportService(e.reports, composer),
		Requests:  service.NewRequestService(e.requests),
		Listing:   service.NewListingService(e.reports, composer),
		Reference: service.NewReferenceService(e.reference),
	}, rdb)
	return e
}

func (e *testEnv) do(t *testing.T, method, target string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			raw, err := json.Marshal(b)
			require.NoError(t, err)
			reader = bytes.NewReader(raw)
		}
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := e.srv.App().Test(req, -1)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}
