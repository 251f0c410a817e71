package blog

// errors.go defines the errors returned by the blog API handlers

import "fmt"

// BlogError represents a structured error from the blog package.
type BlogError struct {
	// code identifies the kind of failure and determines the HTTP status
	code ErrorCode

	// message is a human-readable error message (safe to return to the client)
	message string

	// wrapped is the optional underlying error (logged, never returned to the client)
	wrapped error
}

func (e *BlogError) Error() string {
	if e.wrapped != nil {
		return fmt.Sprintf("%s: %v", e.message, e.wrapped)
	}
	return e.message
}

func (e *BlogError) Code() ErrorCode { return e.code }
func (e *BlogError) Message() string { return e.message }
func (e *BlogError) Unwrap() error   { return e.wrapped }

// ErrorCode is used in errors returned by the blog API.
type ErrorCode string

const (
	// ErrCodeMalformedRequest is used when the request body is not valid JSON
	ErrCodeMalformedRequest ErrorCode = "MALFORMED_REQUEST"

	// ErrCodeValidation is used when required fields are missing or invalid
	ErrCodeValidation ErrorCode = "VALIDATION_ERROR"

	// ErrCodeIDMismatch is used when the id in the request path does not match the id in the request body
	ErrCodeIDMismatch ErrorCode = "ID_MISMATCH"

	// ErrCodeNotFound is used when the referenced post does not exist
	ErrCodeNotFound ErrorCode = "NOT_FOUND"

	// ErrCodeStoreUnavailable is used when the document store could not complete the operation
	ErrCodeStoreUnavailable ErrorCode = "STORE_UNAVAILABLE"

	// ErrCodeInternal is used for unexpected server side failures
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"

	// ErrCodeRateLimitExceeded is used when the rate limit is exceeded
	// - this is only used in the middleware
	ErrCodeRateLimitExceeded ErrorCode = "RATE_LIMIT_EXCEEDED"

	// ErrCodeRequestTooLarge is used when the request body is too large
	// - this is only used in the middleware
	ErrCodeRequestTooLarge ErrorCode = "REQUEST_TOO_LARGE"

	// ErrCodeUnsupportedMediaType is used when a request body is sent with a content type other than JSON
	// - this is only used in the middleware
	ErrCodeUnsupportedMediaType ErrorCode = "UNSUPPORTED_MEDIA_TYPE"
)

// NewMalformedRequestError creates an error for request bodies that cannot be decoded.
func NewMalformedRequestError(msg string) error {
	return &BlogError{code: ErrCodeMalformedRequest, message: msg}
}

// WrapMalformedRequestError wraps a decoding error as a malformed request error.
func WrapMalformedRequestError(err error, msg string) error {
	return &BlogError{code: ErrCodeMalformedRequest, message: msg, wrapped: err}
}

// NewValidationError creates a validation error. msg should name the offending field(s).
func NewValidationError(msg string) error {
	return &BlogError{code: ErrCodeValidation, message: msg}
}

// NewIDMismatchError creates an error for updates where the path id and body id differ.
func NewIDMismatchError(pathID, bodyID string) error {
	return &BlogError{
		code:    ErrCodeIDMismatch,
		message: fmt.Sprintf("request path id (%s) and request body id (%s) must match", pathID, bodyID),
	}
}

// NewNotFoundError creates an error for a post that does not exist.
func NewNotFoundError(id string) error {
	return &BlogError{code: ErrCodeNotFound, message: fmt.Sprintf("blog post %s not found", id)}
}

// WrapStoreError wraps a store failure. The store error is logged but not returned to the client.
func WrapStoreError(err error, msg string) error {
	return &BlogError{code: ErrCodeStoreUnavailable, message: msg, wrapped: err}
}

// WrapInternalError wraps an unexpected error.
func WrapInternalError(err error, msg string) error {
	return &BlogError{code: ErrCodeInternal, message: msg, wrapped: err}
}

// NewRateLimitError creates an error for requests rejected by the rate limiter.
func NewRateLimitError(msg string) error {
	return &BlogError{code: ErrCodeRateLimitExceeded, message: msg}
}

// NewRequestTooLargeError creates an error for request bodies over the size limit.
func NewRequestTooLargeError(msg string) error {
	return &BlogError{code: ErrCodeRequestTooLarge, message: msg}
}

// NewUnsupportedMediaTypeError creates an error for request bodies that are not JSON.
func NewUnsupportedMediaTypeError(contentType string) error {
	return &BlogError{
		code:    ErrCodeUnsupportedMediaType,
		message: fmt.Sprintf("unsupported content type %q (use application/json)", contentType),
	}
}
