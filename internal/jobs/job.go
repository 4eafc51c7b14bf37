// Package jobs runs fire-and-forget background work: welcome emails and weather refreshes.
package jobs

import (
	"encoding/json"
	"fmt"
	"time"
)

// Job types.
const (
	TypeSendWelcomeEmail = "send_welcome_email"
	TypeUpdateWeather    = "update_weather"
)

// Job is one unit of queued work.
type Job struct {
	Type       string          `json:"type"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	EnqueuedAt time.Time       `json:"enqueued_at"`
}

// WelcomeEmailPayload identifies the user to greet.
type WelcomeEmailPayload struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

// NewJob marshals payload into a Job of the given type. A nil payload is allowed.
func NewJob(jobType string, payload any) (Job, error) {
	job := Job{Type: jobType, EnqueuedAt: time.Now().UTC()}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return Job{}, fmt.Errorf("marshal %s payload: %w", jobType, err)
		}
		job.Payload = raw
	}
	return job, nil
}

// Decode unmarshals the job payload into dest.
func (j Job) Decode(dest any) error {
	if len(j.Payload) == 0 {
		return fmt.Errorf("%s job has no payload", j.Type)
	}
	return json.Unmarshal(j.Payload, dest)
}
