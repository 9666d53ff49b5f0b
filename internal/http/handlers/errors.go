package handlers

import (
	"errors"
	"log"
	"net/http"

	"backoffice/internal/domain"
	"backoffice/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

// ErrorResponse standardizes error payloads.
type ErrorResponse struct {
	Error      string `json:"error"`
	Code       string `json:"code,omitempty"`
	Details    any    `json:"details,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
	RequestID  string `json:"request_id,omitempty"`
}

func respondError(c *gin.Context, status int, code, message string, details any) {
	if code == "" {
		code = http.StatusText(status)
	}
	c.JSON(status, ErrorResponse{
		Error:     message,
		Code:      code,
		Details:   details,
		RequestID: middleware.GetRequestID(c),
	})
}

// RespondDomainError maps domain errors to HTTP responses.
func RespondDomainError(c *gin.Context, err error) {
	reqID := middleware.GetRequestID(c)
	if sm, ok := domain.AsSchemaMismatch(err); ok {
		log.Printf("[API] request_id=%s schema mismatch table=%s err=%v", reqID, sm.Table, sm.Err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:      sm.Error(),
			Code:       "schema_mismatch",
			Details:    sm.Details,
			Suggestion: sm.Suggestion,
			RequestID:  reqID,
		})
		return
	}
	switch {
	case domain.IsValidation(err):
		respondError(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case domain.IsNotFound(err):
		respondError(c, http.StatusNotFound, "not_found", err.Error(), nil)
	case domain.IsConflict(err):
		respondError(c, http.StatusConflict, "conflict", err.Error(), nil)
	case domain.IsUpstream(err):
		log.Printf("[API] request_id=%s upstream error: %v", reqID, errors.Unwrap(err))
		respondError(c, http.StatusBadGateway, "upstream_error", err.Error(), nil)
	case domain.IsInternal(err):
		log.Printf("[API] request_id=%s internal error: %v (%v)", reqID, err, errors.Unwrap(err))
		respondError(c, http.StatusInternalServerError, "internal_error", err.Error(), nil)
	default:
		log.Printf("[API] request_id=%s unexpected error: %v", reqID, err)
		respondError(c, http.StatusInternalServerError, "internal_error", "internal server error", nil)
	}
}
