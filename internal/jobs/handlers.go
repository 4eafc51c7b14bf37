package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"bloghub/internal/weather"
)

// Mailer delivers the welcome message.
type Mailer interface {
	SendWelcome(ctx context.Context, p WelcomeEmailPayload) error
}

// LogMailer records welcome emails in the log instead of sending them.
type LogMailer struct {
	Logger *slog.Logger
}

func (m LogMailer) SendWelcome(ctx context.Context, p WelcomeEmailPayload) error {
	logger := m.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, "Welcome email sent to user",
		slog.Uint64("user_id", uint64(p.UserID)),
		slog.String("email", p.Email),
		slog.String("name", p.Name),
	)
	return nil
}

// WelcomeEmailHandler sends the welcome email described by a send_welcome_email job.
func WelcomeEmailHandler(mailer Mailer) Handler {
	return func(ctx context.Context, job Job) error {
		var p WelcomeEmailPayload
		if err := job.Decode(&p); err != nil {
			return fmt.Errorf("welcome email payload: %w", err)
		}
		if err := mailer.SendWelcome(ctx, p); err != nil {
			return fmt.Errorf("welcome email job failed for user %d: %w", p.UserID, err)
		}
		return nil
	}
}

// Refresher refetches one location into the weather cache.
type Refresher interface {
	Refresh(ctx context.Context, loc weather.Location) error
}

// UpdateWeatherHandler refreshes loc on every update_weather job.
// Provider failures are logged here and not reported as job failures.
func UpdateWeatherHandler(refresher Refresher, loc weather.Location, logger *slog.Logger) Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(ctx context.Context, _ Job) error {
		err := refresher.Refresh(ctx, loc)

		var upstream *weather.UpstreamError
		switch {
		case err == nil:
			logger.InfoContext(ctx, "Weather data updated successfully via background job",
				slog.String("location", loc.Query),
				slog.String("key", loc.Key),
			)
		case errors.Is(err, weather.ErrNotConfigured):
			logger.ErrorContext(ctx, "Weather API key not configured for background job")
		case errors.As(err, &upstream):
			logger.ErrorContext(ctx, "Weather API failed in background job",
				slog.Int("status", upstream.Status),
			)
		default:
			logger.ErrorContext(ctx, "Weather background job error",
				slog.String("error", err.Error()),
			)
		}
		return nil
	}
}
