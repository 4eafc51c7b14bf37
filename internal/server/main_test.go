package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"bloghub/internal/config"
	"bloghub/internal/database"
	"bloghub/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testEnv struct {
	srv           *Server
	app           *fiber.App
	db            *gorm.DB
	upstreamCalls *atomic.Int32
	upstreamCode  *atomic.Int32
}

type envelope struct {
	StatusCode int             `json:"status_code"`
	Data       json.RawMessage `json:"data"`
	Errors     json.RawMessage `json:"errors"`
	Message    string          `json:"message"`
	Settings   map[string]any  `json:"settings"`
}

func (e envelope) errorList(t *testing.T) []string {
	t.Helper()
	var out []string
	require.NoError(t, json.Unmarshal(e.Errors, &out))
	return out
}

func (e envelope) errorFields(t *testing.T) map[string][]string {
	t.Helper()
	var out map[string][]string
	require.NoError(t, json.Unmarshal(e.Errors, &out))
	return out
}

func (e envelope) decode(t *testing.T, dest any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(e.Data, dest))
}

// setupTestServer builds the full app on an in-memory SQLite database, in-process cache
// and queue, and a fake weather upstream.
func setupTestServer(t *testing.T, opts ...func(*config.Config)) *testEnv {
	t.Helper()

	calls := &atomic.Int32{}
	code := &atomic.Int32{}
	code.Store(http.StatusOK)
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(int(code.Load()))
		_, _ = fmt.Fprintf(w, `{"name":"Perth","q":%q,"main":{"temp":24.1}}`, r.URL.Query().Get("q"))
	}))
	t.Cleanup(upstream.Close)

	cfg := &config.Config{
		Env:                    "test",
		Port:                   "0",
		AppURL:                 "http://localhost:8375",
		JWTSecret:              "server-test-secret-0123456789abcdef",
		TokenTTLHours:          1,
		DBDriver:               "sqlite",
		OpenWeatherAPIKey:      "test-key",
		OpenWeatherBaseURL:     upstream.URL,
		WeatherLocation:        "Perth,AU",
		WeatherRefreshLocation: "Jakarta,ID",
	}
	for _, opt := range opts {
		opt(cfg)
	}

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, database.Migrate(db))

	srv, err := NewServerWithDeps(cfg, db, nil)
	require.NoError(t, err)

	app := srv.NewApp()
	srv.SetupMiddleware(app)
	srv.SetupRoutes(app)

	return &testEnv{srv: srv, app: app, db: db, upstreamCalls: calls, upstreamCode: code}
}

// do sends a request and decodes the envelope. body may be nil, a string (sent raw) or any JSON value.
func (e *testEnv) do(t *testing.T, method, path string, body any, token string) (*http.Response, envelope) {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var env envelope
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp, env
}

// register creates a user through the API and returns its id and token.
func (e *testEnv) register(t *testing.T, name, email string) (uint, string) {
	t.Helper()
	resp, env := e.do(t, http.MethodPost, "/api/register", map[string]string{
		"name":                  name,
		"email":                 email,
		"password":              "password123",
		"password_confirmation": "password123",
	}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(env.Errors))

	var data struct {
		User  models.User `json:"user"`
		Token string      `json:"token"`
	}
	env.decode(t, &data)
	return data.User.ID, data.Token
}

func (e *testEnv) seedPost(t *testing.T, userID uint, title string) models.Post {
	t.Helper()
	post := models.Post{Title: title, Content: title + " content", UserID: userID}
	require.NoError(t, e.db.Create(&post).Error)
	return post
}
