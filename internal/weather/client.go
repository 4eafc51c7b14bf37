package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"bloghub/internal/observability"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
)

const (
	DefaultBaseURL = "https://api.openweathermap.org/data/2.5/weather"
	DefaultTimeout = 10 * time.Second

	// maxBodyBytes bounds how much of an upstream body is read or logged.
	maxBodyBytes = 1 << 20
)

// ErrNotConfigured is returned when no API key is set. No request is made.
var ErrNotConfigured = errors.New("weather API key not configured")

// UpstreamError reports a non-2xx answer from the provider.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("weather provider returned status %d", e.Status)
}

// Provider fetches the current weather for a location.
type Provider interface {
	Fetch(ctx context.Context, loc Location) (Payload, error)
}

// Client is the OpenWeatherMap current-weather Provider.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient returns a Client. An empty baseURL uses the public endpoint.
func NewClient(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: DefaultTimeout},
	}
}

// Configured reports whether an API key is set.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// Fetch issues a single GET with q, appid and units=metric. There is no retry.
func (c *Client) Fetch(ctx context.Context, loc Location) (Payload, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	ctx, span := observability.StartClientSpan(ctx, "weather.fetch",
		attribute.String("weather.location", loc.Query),
	)
	defer span.End()

	start := time.Now()
	payload, err := c.fetch(ctx, loc)
	observability.WeatherUpstreamLatency.Observe(time.Since(start).Seconds())

	var upstream *UpstreamError
	switch {
	case err == nil:
		observability.WeatherUpstreamRequests.WithLabelValues("success").Inc()
	case errors.As(err, &upstream):
		observability.WeatherUpstreamRequests.WithLabelValues("bad_status").Inc()
		span.SetAttributes(attribute.Int("http.status_code", upstream.Status))
		span.SetStatus(codes.Error, err.Error())
	default:
		observability.WeatherUpstreamRequests.WithLabelValues("error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return payload, err
}

func (c *Client) fetch(ctx context.Context, loc Location) (Payload, error) {
	q := url.Values{}
	q.Set("q", loc.Query)
	q.Set("appid", c.apiKey)
	q.Set("units", "metric")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build weather request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("weather request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read weather response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UpstreamError{Status: resp.StatusCode, Body: string(body)}
	}

	var payload Payload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode weather response: %w", err)
	}
	if payload == nil {
		return nil, errors.New("decode weather response: body is not a JSON object")
	}
	return payload, nil
}
