// Package handlers defines the stable error codes returned in the error
// envelope. Clients branch on these, not on messages.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-eco-backend/internal/footprint"
	"github.com/tbourn/go-eco-backend/internal/services"
)

const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeNotFound         = "not_found"
	ErrCodeRateLimited      = "too_many_requests"
	ErrCodeInternal         = "internal_error"
	ErrCodeMethodNotAllowed = "method_not_allowed"

	// Domain-specific:
	ErrCodeInvalidInput         = "invalid_input"
	ErrCodePersistenceFailed    = "persistence_failed"
	ErrCodeAssistantUnavailable = "assistant_unavailable"
	ErrCodePromptTooLong        = "prompt_too_long"
	ErrCodeConfirmRequired      = "confirmation_required"
)

// assistantFailureMessage is shown to users when the assistant cannot answer.
const assistantFailureMessage = "Error contacting AI service."

// failService maps a service error onto the envelope.
func failService(c *gin.Context, err error) {
	var inv *footprint.InvalidInputError
	switch {
	case errors.As(err, &inv):
		fail(c, http.StatusBadRequest, ErrCodeInvalidInput, inv.Error())
	case errors.Is(err, services.ErrInvalidInput):
		fail(c, http.StatusBadRequest, ErrCodeInvalidInput, err.Error())
	case errors.Is(err, services.ErrEmptyPrompt):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "prompt is required")
	case errors.Is(err, services.ErrTooLong):
		fail(c, http.StatusRequestEntityTooLarge, ErrCodePromptTooLong, "prompt too long")
	case errors.Is(err, services.ErrAssistantUnavailable):
		logUpstream(c, err)
		fail(c, http.StatusBadGateway, ErrCodeAssistantUnavailable, assistantFailureMessage)
	case errors.Is(err, services.ErrPersistence):
		fail(c, http.StatusInternalServerError, ErrCodePersistenceFailed, "history storage unavailable")
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "internal server error")
	}
}
