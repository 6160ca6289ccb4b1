// Package services holds the application logic threaded through the HTTP
// layer: FootprintService (estimator, history log and observers) and
// AssistantService (remote or local assistant with footprint context).
//
// This file centralizes the service-level errors. Translation into HTTP
// status codes happens in the handlers.
package services

import (
	"errors"

	"github.com/tbourn/go-eco-backend/internal/footprint"
	"github.com/tbourn/go-eco-backend/internal/history"
)

var (
	// ErrInvalidInput is matched by every input validation failure; the
	// concrete error is a *footprint.InvalidInputError naming the field.
	ErrInvalidInput = footprint.ErrInvalidInput

	// ErrPersistence reports that the history log could not be read or
	// written.
	ErrPersistence = history.ErrPersistence

	// ErrEmptyPrompt is returned when an assistant prompt is blank.
	ErrEmptyPrompt = errors.New("prompt is empty")

	// ErrTooLong is returned when an assistant prompt exceeds the configured
	// rune limit.
	ErrTooLong = errors.New("prompt too long")

	// ErrAssistantUnavailable wraps any failure of the remote assistant.
	ErrAssistantUnavailable = errors.New("assistant unavailable")
)
