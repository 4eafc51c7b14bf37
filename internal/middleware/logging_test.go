package middleware

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextLogger_AddsContextValues(t *testing.T) {
	var buf bytes.Buffer
	logger := NewContextLogger(slog.NewTextHandler(&buf, nil))

	ctx := context.WithValue(context.Background(), RequestIDKey, "req-1")
	ctx = WithUserID(ctx, 12)
	ctx = context.WithValue(ctx, TraceIDKey, "trace-9")

	logger.With("component", "test").InfoContext(ctx, "hello")

	out := buf.String()
	assert.Contains(t, out, "request_id=req-1")
	assert.Contains(t, out, "user_id=12")
	assert.Contains(t, out, "trace_id=trace-9")
	assert.Contains(t, out, "component=test")
}

func TestContextMiddleware_PropagatesLocals(t *testing.T) {
	app := fiber.New()
	app.Use(requestid.New())
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("userID", uint(5))
		return c.Next()
	})
	app.Use(ContextMiddleware())
	app.Get("/", func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		rid, _ := ctx.Value(RequestIDKey).(string)
		uid, _ := ctx.Value(UserIDKey).(uint)
		return c.JSON(fiber.Map{"request_id": rid, "user_id": uid})
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "fixed-id")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	var body struct {
		RequestID string `json:"request_id"`
		UserID    uint   `json:"user_id"`
	}
	require.NoError(t, decodeJSON(resp, &body))
	assert.Equal(t, "fixed-id", body.RequestID)
	assert.Equal(t, uint(5), body.UserID)
}

func TestTracingMiddleware_SetsTraceHeader(t *testing.T) {
	app := fiber.New()
	app.Use(TracingMiddleware())
	app.Get("/", func(c *fiber.Ctx) error {
		_, ok := c.Locals("traceID").(string)
		assert.True(t, ok)
		return c.SendStatus(fiber.StatusNoContent)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Len(t, resp.Header.Get("X-Trace-ID"), 32)
}

func TestStructuredLogger_LevelsAndFields(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		wantLevel string
		wantMsg   string
		wantAttrs []string
	}{
		{"served", "/api/posts/7", "level=INFO", "request served", []string{"status=200", "route=/api/posts/:id", "path=/api/posts/7", "user_id=42", "bytes_out=2"}},
		{"rejected", "/api/forbidden", "level=WARN", "request rejected", []string{"status=403", "route=/api/forbidden"}},
		{"failed", "/api/boom", "level=ERROR", "request failed", []string{"status=500", "error=boom"}},
		{"probe", "/health/live", "level=DEBUG", "probe served", []string{"status=200"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewContextLogger(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

			app := fiber.New()
			app.Use(StructuredLogger(logger))
			app.Use(func(c *fiber.Ctx) error {
				c.SetUserContext(WithUserID(c.UserContext(), 42))
				return c.Next()
			})
			app.Get("/api/posts/:id", func(c *fiber.Ctx) error { return c.SendString("ok") })
			app.Get("/api/forbidden", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusForbidden) })
			app.Get("/api/boom", func(c *fiber.Ctx) error { return errors.New("boom") })
			app.Get("/health/live", func(c *fiber.Ctx) error { return c.SendString("up") })

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, tt.path, nil))
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()

			out := buf.String()
			assert.Contains(t, out, tt.wantLevel)
			assert.Contains(t, out, tt.wantMsg)
			for _, attr := range tt.wantAttrs {
				assert.Contains(t, out, attr)
			}
		})
	}
}

func TestStructuredLogger_FiberErrorStatus(t *testing.T) {
	var buf bytes.Buffer
	logger := NewContextLogger(slog.NewTextHandler(&buf, nil))

	app := fiber.New()
	app.Use(StructuredLogger(logger))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/missing", nil))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, buf.String(), "status=404")
	assert.Contains(t, buf.String(), "level=WARN")
}
