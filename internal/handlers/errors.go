// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	authsvc "codeberg.org/oliverandrich/alumni-api/internal/services/auth"
	"codeberg.org/oliverandrich/alumni-api/internal/services/images"
	"codeberg.org/oliverandrich/alumni-api/internal/services/news"
	"codeberg.org/oliverandrich/alumni-api/internal/services/users"
	"codeberg.org/oliverandrich/alumni-api/internal/services/vacancies"
	"github.com/labstack/echo/v4"
)

const (
	MsgValidation    = "Validation error"
	MsgUnexpected    = "Unexpected error"
	MsgImageNotFound = "Image not found"
)

// FieldError describes one rejected input field.
type FieldError struct {
	Location string `json:"location"`
	Path     string `json:"path"`
	Msg      string `json:"msg"`
}

// APIError is the JSON error body of every failed request.
type APIError struct {
	Status  int          `json:"-"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

// NewAPIError returns an APIError without field errors.
func NewAPIError(status int, message string) *APIError {
	return &APIError{Status: status, Message: message, Errors: []FieldError{}}
}

// ValidationError wraps field errors in a 400 response.
func ValidationError(errs []FieldError) *APIError {
	if errs == nil {
		errs = []FieldError{}
	}
	return &APIError{Status: http.StatusBadRequest, Message: MsgValidation, Errors: errs}
}

// badRequest lists domain errors reported to clients as 400 with their own message.
var badRequest = []error{
	news.ErrNotFound,
	news.ErrPosterRequired,
	news.ErrTooManyImages,
	vacancies.ErrNotFound,
	vacancies.ErrLogoRequired,
	users.ErrInvalidEducation,
	users.ErrInvalidSpecialty,
}

// ToAPIError maps err to the response it produces.
func ToAPIError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	if errors.Is(err, authsvc.ErrUnauthorized) {
		return NewAPIError(http.StatusUnauthorized, authsvc.ErrUnauthorized.Message)
	}

	var authErr *authsvc.Error
	if errors.As(err, &authErr) {
		return NewAPIError(http.StatusBadRequest, authErr.Message)
	}

	if errors.Is(err, images.ErrNotFound) {
		return NewAPIError(http.StatusNotFound, MsgImageNotFound)
	}

	for _, target := range badRequest {
		if errors.Is(err, target) {
			return NewAPIError(http.StatusBadRequest, target.Error())
		}
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) && httpErr.Code < http.StatusInternalServerError {
		message := http.StatusText(httpErr.Code)
		if m, ok := httpErr.Message.(string); ok {
			message = m
		}
		return NewAPIError(httpErr.Code, message)
	}

	return NewAPIError(http.StatusInternalServerError, MsgUnexpected)
}

// ErrorHandler is the echo HTTPErrorHandler. Unmapped errors are logged and
// answered with 500.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	apiErr := ToAPIError(err)
	if apiErr.Status >= http.StatusInternalServerError {
		slog.Error("unexpected_error",
			"method", c.Request().Method,
			"uri", c.Request().RequestURI,
			"error", err,
		)
	}

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(apiErr.Status)
	} else {
		writeErr = c.JSON(apiErr.Status, apiErr)
	}
	if writeErr != nil {
		slog.Error("failed to write error response", "error", writeErr)
	}
}
