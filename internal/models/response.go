package models

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Envelope is the uniform body every API response is wrapped in.
type Envelope struct {
	StatusCode int            `json:"status_code"`
	Data       any            `json:"data,omitempty"`
	Errors     any            `json:"errors,omitempty"`
	Message    string         `json:"message,omitempty"`
	Settings   map[string]any `json:"settings"`
}

func settingsOrEmpty(settings []map[string]any) map[string]any {
	if len(settings) > 0 && settings[0] != nil {
		return settings[0]
	}
	return map[string]any{}
}

func dataOrEmpty(data any) any {
	if data == nil {
		return fiber.Map{}
	}
	return data
}

// errorList normalizes a single message or a list into the errors payload.
func errorList(defaultMsg string, errs []string) []string {
	if len(errs) == 0 {
		return []string{defaultMsg}
	}
	return errs
}

func send(c *fiber.Ctx, env Envelope) error {
	return c.Status(env.StatusCode).JSON(env)
}

// Success answers 200 with data.
func Success(c *fiber.Ctx, data any, message string, settings ...map[string]any) error {
	return send(c, Envelope{
		StatusCode: http.StatusOK,
		Data:       dataOrEmpty(data),
		Message:    message,
		Settings:   settingsOrEmpty(settings),
	})
}

// Created answers 201 with the new resource.
func Created(c *fiber.Ctx, data any, message string, settings ...map[string]any) error {
	return send(c, Envelope{
		StatusCode: http.StatusCreated,
		Data:       dataOrEmpty(data),
		Message:    message,
		Settings:   settingsOrEmpty(settings),
	})
}

// NoContent answers 204. The transport drops the body for this status.
func NoContent(c *fiber.Ctx, message string, settings ...map[string]any) error {
	return send(c, Envelope{
		StatusCode: http.StatusNoContent,
		Message:    message,
		Settings:   settingsOrEmpty(settings),
	})
}

// Failed answers status with an arbitrary errors payload, either a list or a field map.
func Failed(c *fiber.Ctx, status int, errs any, settings ...map[string]any) error {
	if errs == nil {
		errs = []string{}
	}
	return send(c, Envelope{
		StatusCode: status,
		Errors:     errs,
		Settings:   settingsOrEmpty(settings),
	})
}

func BadRequest(c *fiber.Ctx, errs ...string) error {
	return Failed(c, http.StatusBadRequest, errorList("Bad Request", errs))
}

func Unauthorized(c *fiber.Ctx, errs ...string) error {
	return Failed(c, http.StatusUnauthorized, errorList("Unauthorized", errs))
}

func Forbidden(c *fiber.Ctx, errs ...string) error {
	return Failed(c, http.StatusForbidden, errorList("Forbidden", errs))
}

func NotFound(c *fiber.Ctx, errs ...string) error {
	return Failed(c, http.StatusNotFound, errorList("Not Found", errs))
}

func MethodNotAllowed(c *fiber.Ctx, errs ...string) error {
	return Failed(c, http.StatusMethodNotAllowed, errorList("Method Not Allowed", errs))
}

func Conflict(c *fiber.Ctx, errs ...string) error {
	return Failed(c, http.StatusConflict, errorList("Conflict", errs))
}

// UnprocessableEntity answers 422 with a field -> messages map.
func UnprocessableEntity(c *fiber.Ctx, fields map[string][]string) error {
	if fields == nil {
		return Failed(c, http.StatusUnprocessableEntity, []string{})
	}
	return Failed(c, http.StatusUnprocessableEntity, fields)
}

func TooManyRequests(c *fiber.Ctx, errs ...string) error {
	return Failed(c, http.StatusTooManyRequests, errorList("Too Many Requests", errs))
}

func InternalServerError(c *fiber.Ctx, errs ...string) error {
	return Failed(c, http.StatusInternalServerError, errorList("Internal Server Error", errs))
}

func ServiceUnavailable(c *fiber.Ctx, errs ...string) error {
	return Failed(c, http.StatusServiceUnavailable, errorList("Service Unavailable", errs))
}

// RespondWithError writes the envelope matching err. Internal details are logged, never returned.
func RespondWithError(c *fiber.Ctx, logger *slog.Logger, err error) error {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		appErr = NewInternalError(err)
	}

	status := StatusFor(appErr)
	switch {
	case status >= http.StatusInternalServerError:
		if logger != nil {
			logger.ErrorContext(c.UserContext(), "request failed",
				slog.String("code", appErr.Code),
				slog.String("error", err.Error()),
			)
		}
		if appErr.Code == CodeUnavailable {
			return ServiceUnavailable(c, appErr.Message)
		}
		return InternalServerError(c)
	case len(appErr.Fields) > 0:
		return Failed(c, status, appErr.Fields)
	default:
		return Failed(c, status, []string{appErr.Message})
	}
}
