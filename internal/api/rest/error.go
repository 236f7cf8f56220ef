package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/feral-file/provenance-engine/internal/domain"
	"github.com/feral-file/provenance-engine/internal/logger"
)

// ErrorCode represents a standardized error code
type ErrorCode string

const (
	// Client errors (4xx)
	errCodeBadRequest    ErrorCode = "bad_request"
	errCodeNotFound      ErrorCode = "not_found"
	errCodeDuplicateMint ErrorCode = "duplicate_mint"
	errCodeRangeTooLarge ErrorCode = "range_too_large"

	// Server errors (5xx)
	errCodeInternalError     ErrorCode = "internal_error"
	errCodeSourceUnavailable ErrorCode = "source_unavailable"
)

// errorResponse represents a standardized error response
type errorResponse struct {
	Error errorDetail `json:"error"`
}

// errorDetail contains error information
type errorDetail struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
}

// respondWithError sends a standardized error response
func respondWithError(c *gin.Context, statusCode int, code ErrorCode, message string, details ...string) {
	response := errorResponse{
		Error: errorDetail{
			Code:    code,
			Message: message,
		},
	}

	if len(details) > 0 {
		response.Error.Details = details[0]
	}

	c.JSON(statusCode, response)
}

// respondBadRequest sends a 400 Bad Request response
func respondBadRequest(c *gin.Context, message string, details ...string) {
	respondWithError(c, http.StatusBadRequest, errCodeBadRequest, message, details...)
}

// respondServiceError maps an engine error onto the HTTP surface
func respondServiceError(c *gin.Context, err error) {
	var duplicateMint *domain.DuplicateMintError

	switch {
	case errors.Is(err, domain.ErrNotFound):
		respondWithError(c, http.StatusNotFound, errCodeNotFound, "Asset not found", err.Error())
	case errors.As(err, &duplicateMint):
		respondWithError(c, http.StatusConflict, errCodeDuplicateMint, "Asset history failed integrity checks", err.Error())
	case errors.Is(err, domain.ErrRangeTooLarge):
		respondWithError(c, http.StatusBadRequest, errCodeRangeTooLarge, "Requested range too large", err.Error())
	case errors.Is(err, domain.ErrSourceUnavailable):
		logger.Error(err, zap.String("path", c.Request.URL.Path))
		respondWithError(c, http.StatusServiceUnavailable, errCodeSourceUnavailable, "Ledger source unavailable")
	default:
		logger.Error(err, zap.String("path", c.Request.URL.Path))
		respondWithError(c, http.StatusInternalServerError, errCodeInternalError, "Internal server error")
	}
}
