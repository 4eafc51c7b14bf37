package jobs

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"testing"

	"bloghub/internal/featureflags"
	"bloghub/internal/models"
	"bloghub/internal/weather"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWelcomeEmailHandler_LogsMessage(t *testing.T) {
	var logs bytes.Buffer
	h := WelcomeEmailHandler(LogMailer{Logger: slog.New(slog.NewTextHandler(&logs, nil))})

	job, err := NewJob(TypeSendWelcomeEmail, WelcomeEmailPayload{UserID: 3, Email: "ada@example.com", Name: "Ada"})
	require.NoError(t, err)
	require.NoError(t, h(context.Background(), job))

	out := logs.String()
	assert.Contains(t, out, "Welcome email sent to user")
	assert.Contains(t, out, "user_id=3")
	assert.Contains(t, out, "email=ada@example.com")
	assert.Contains(t, out, "name=Ada")
}

func TestWelcomeEmailHandler_BadPayload(t *testing.T) {
	h := WelcomeEmailHandler(LogMailer{})
	assert.Error(t, h(context.Background(), Job{Type: TypeSendWelcomeEmail}))
}

type refresherFunc func(ctx context.Context, loc weather.Location) error

func (f refresherFunc) Refresh(ctx context.Context, loc weather.Location) error { return f(ctx, loc) }

func TestUpdateWeatherHandler(t *testing.T) {
	jakarta := weather.NewLocation("Jakarta,ID")

	tests := []struct {
		name   string
		err    error
		logged string
	}{
		{"success", nil, "Weather data updated successfully via background job"},
		{"no key", weather.ErrNotConfigured, "Weather API key not configured for background job"},
		{"bad status", &weather.UpstreamError{Status: http.StatusUnauthorized}, "Weather API failed in background job"},
		{"transport", errors.New("dial tcp: refused"), "Weather background job error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logs bytes.Buffer
			var gotLoc weather.Location
			h := UpdateWeatherHandler(refresherFunc(func(_ context.Context, loc weather.Location) error {
				gotLoc = loc
				return tt.err
			}), jakarta, slog.New(slog.NewTextHandler(&logs, nil)))

			assert.NoError(t, h(context.Background(), Job{Type: TypeUpdateWeather}))
			assert.Equal(t, jakarta, gotLoc)
			assert.Contains(t, logs.String(), tt.logged)
		})
	}
}

func TestDispatcher_WelcomeEmail(t *testing.T) {
	user := &models.User{ID: 9, Name: "Ada", Email: "ada@example.com"}

	t.Run("enqueues by default", func(t *testing.T) {
		q := NewMemoryQueue(1)
		NewDispatcher(q, featureflags.NewManager(""), nil).WelcomeEmail(context.Background(), user)

		job, err := q.Dequeue(context.Background())
		require.NoError(t, err)
		assert.Equal(t, TypeSendWelcomeEmail, job.Type)

		var p WelcomeEmailPayload
		require.NoError(t, job.Decode(&p))
		assert.Equal(t, WelcomeEmailPayload{UserID: 9, Email: "ada@example.com", Name: "Ada"}, p)
	})

	t.Run("flag off", func(t *testing.T) {
		q := NewMemoryQueue(1)
		NewDispatcher(q, featureflags.NewManager("welcome_email=off"), nil).WelcomeEmail(context.Background(), user)
		assert.Len(t, q.ch, 0)
	})

	t.Run("full queue is logged not returned", func(t *testing.T) {
		var logs bytes.Buffer
		q := NewMemoryQueue(1)
		d := NewDispatcher(q, nil, slog.New(slog.NewTextHandler(&logs, nil)))
		d.WelcomeEmail(context.Background(), user)
		d.WelcomeEmail(context.Background(), user)
		assert.Contains(t, logs.String(), "welcome email dispatch failed")
	})
}
