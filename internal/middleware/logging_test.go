package middleware

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCtxHandler_AddsRequestAndTraceIDs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(&ctxHandler{slog.NewJSONHandler(&buf, nil)})

	ctx := context.WithValue(context.Background(), RequestIDKey, "req-1")
	ctx = context.WithValue(ctx, TraceIDKey, "trace-1")
	logger.InfoContext(ctx, "hello")

	assert.Contains(t, buf.String(), `"request_id":"req-1"`)
	assert.Contains(t, buf.String(), `"trace_id":"trace-1"`)
}

func TestCtxHandler_WithAttrsKeepsContext(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(&ctxHandler{slog.NewJSONHandler(&buf, nil)}).With("component", "repo")

	logger.InfoContext(context.WithValue(context.Background(), RequestIDKey, "req-2"), "hello")
	assert.Contains(t, buf.String(), `"component":"repo"`)
	assert.Contains(t, buf.String(), `"request_id":"req-2"`)
}

func TestContextMiddleware_PropagatesRequestID(t *testing.T) {
	app := fiber.New()
	app.Use(requestid.New())
	app.Use(ContextMiddleware())
	app.Get("/", func(c *fiber.Ctx) error {
		rid, _ := c.UserContext().Value(RequestIDKey).(string)
		return c.SendString(rid)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	resp, err := app.Test(req)
	require.NoError(t, err)

	buf := new(bytes.Buffer)
	_, _ = buf.ReadFrom(resp.Body)
	assert.Equal(t, "abc-123", buf.String())
}

func TestNewLogger_ProductionIsJSON(t *testing.T) {
	logger := NewLogger("production")
	_, ok := logger.Handler().(*ctxHandler)
	assert.True(t, ok)
}

func TestCtxHandler_RequestCode(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(&ctxHandler{slog.NewJSONHandler(&buf, nil)})

	logger.InfoContext(WithRequestCode(context.Background(), "REQ-2024-ABCDEF12"), "transition")
	assert.Contains(t, buf.String(), `"request_code":"REQ-2024-ABCDEF12"`)

	buf.Reset()
	logger.InfoContext(WithRequestCode(context.Background(), ""), "transition")
	assert.NotContains(t, buf.String(), "request_code")
}

func TestStructuredLogger_LevelsAndQuietPaths(t *testing.T) {
	var buf bytes.Buffer
	orig := Logger
	Logger = slog.New(&ctxHandler{slog.NewJSONHandler(&buf, nil)})
	t.Cleanup(func() { Logger = orig })

	app := fiber.New()
	app.Use(StructuredLogger())
	app.Get("/health/live", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
	app.Get("/bad", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusBadRequest) })
	app.Get("/ok", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	for _, path := range []string{"/health/live", "/bad", "/ok"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
		require.NoError(t, err)
		_ = resp.Body.Close()
	}

	out := buf.String()
	assert.NotContains(t, out, "/health/live")
	assert.Contains(t, out, `"level":"WARN","msg":"request","status":400`)
	assert.Contains(t, out, `"level":"INFO","msg":"request","status":200`)
}
