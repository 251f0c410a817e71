package blog

// error_response.go maps errors to the JSON error body returned to clients

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/information-sharing-networks/blog-api/internal/logger"
)

// ErrorResponse is the JSON body returned with every 4xx/5xx response
type ErrorResponse struct {
	// The HTTP status code returned
	StatusCode int `json:"statusCode" example:"404"`

	// A standard short description corresponding to the HTTP status code
	StatusCodeText string `json:"statusCodeText" example:"Not Found"`

	// The error code, see ErrorCode
	ErrorCode ErrorCode `json:"errorCode" example:"NOT_FOUND"`

	// A description of the problem, e.g. the fields that failed validation
	Message string `json:"message" example:"blog post 6630f1a2c1d4e8a9b0c1d2e3 not found"`

	// The request id assigned by the server (also returned in the X-Request-Id header when set by a proxy)
	RequestID string `json:"requestId,omitempty"`

	// The time the error occurred (RFC3339)
	ErrorDateTime string `json:"errorDateTime"`
}

// MapErrorToResponse maps an error to an ErrorResponse and establishes the HTTP status.
//
// BlogError messages are returned as-is; the wrapped error is only logged server-side.
// Any other error type is reported as an internal error.
func MapErrorToResponse(err error, r *http.Request) *ErrorResponse {
	requestID := middleware.GetReqID(r.Context())

	var blogErr *BlogError
	if errors.As(err, &blogErr) {
		statusCode := StatusCode(blogErr.Code())
		return &ErrorResponse{
			StatusCode:     statusCode,
			StatusCodeText: http.StatusText(statusCode),
			ErrorCode:      blogErr.Code(),
			Message:        blogErr.Message(),
			RequestID:      requestID,
			ErrorDateTime:  time.Now().UTC().Format(time.RFC3339),
		}
	}

	// fallback - this is not expected - if it does, return an internal error response and log the unmapped error
	reqLogger := logger.ContextRequestLogger(r.Context())
	reqLogger.Error("BUG: Unmapped error type in MapErrorToResponse",
		slog.String("error_type", fmt.Sprintf("%T", err)),
		slog.String("error", err.Error()),
		slog.String("request_id", requestID),
	)
	return &ErrorResponse{
		StatusCode:     http.StatusInternalServerError,
		StatusCodeText: http.StatusText(http.StatusInternalServerError),
		ErrorCode:      ErrCodeInternal,
		Message:        "An internal error occurred",
		RequestID:      requestID,
		ErrorDateTime:  time.Now().UTC().Format(time.RFC3339),
	}
}

// StatusCode returns the HTTP status used for an error code
func StatusCode(code ErrorCode) int {
	switch code {
	case ErrCodeMalformedRequest, ErrCodeIDMismatch:
		return http.StatusBadRequest
	case ErrCodeValidation:
		return http.StatusUnprocessableEntity
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeRateLimitExceeded:
		return http.StatusTooManyRequests
	case ErrCodeRequestTooLarge:
		return http.StatusRequestEntityTooLarge
	case ErrCodeUnsupportedMediaType:
		return http.StatusUnsupportedMediaType
	default:
		return http.StatusInternalServerError
	}
}
