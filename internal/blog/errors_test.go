package blog

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestStatusCodes(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want int
	}{
		{ErrCodeMalformedRequest, http.StatusBadRequest},
		{ErrCodeIDMismatch, http.StatusBadRequest},
		{ErrCodeValidation, http.StatusUnprocessableEntity},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeStoreUnavailable, http.StatusInternalServerError},
		{ErrCodeInternal, http.StatusInternalServerError},
		{ErrCodeRateLimitExceeded, http.StatusTooManyRequests},
		{ErrCodeRequestTooLarge, http.StatusRequestEntityTooLarge},
		{ErrCodeUnsupportedMediaType, http.StatusUnsupportedMediaType},
	}
	for _, tt := range tests {
		if got := StatusCode(tt.code); got != tt.want {
			t.Errorf("%s: got %d, want %d", tt.code, got, tt.want)
		}
	}
}

func TestBlogErrorWrapping(t *testing.T) {
	cause := errors.New("socket closed")
	err := fmt.Errorf("listing posts: %w", WrapStoreError(cause, "failed to list blog posts"))

	if !errors.Is(err, cause) {
		t.Error("expected wrapped cause to be reachable with errors.Is")
	}

	var blogErr *BlogError
	if !errors.As(err, &blogErr) {
		t.Fatal("expected BlogError")
	}
	if blogErr.Message() != "failed to list blog posts" {
		t.Errorf("got message %q", blogErr.Message())
	}
	if !strings.Contains(blogErr.Error(), "socket closed") {
		t.Errorf("Error() should include the cause: %q", blogErr.Error())
	}
}

func TestRespondWithErrorResponse(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantCode    ErrorCode
		wantMessage string
	}{
		{"not found", NewNotFoundError("abc"), http.StatusNotFound, ErrCodeNotFound, "blog post abc not found"},
		{"store failure hides cause", WrapStoreError(errors.New("dial tcp: refused"), "failed to get blog post"), http.StatusInternalServerError, ErrCodeStoreUnavailable, "failed to get blog post"},
		{"unmapped error", errors.New("boom"), http.StatusInternalServerError, ErrCodeInternal, "An internal error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			RespondWithErrorResponse(rr, httptest.NewRequest("GET", "/posts/abc", nil), tt.err)

			if rr.Code != tt.wantStatus {
				t.Errorf("got status %d, want %d", rr.Code, tt.wantStatus)
			}

			var resp ErrorResponse
			if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.StatusCode != tt.wantStatus || resp.ErrorCode != tt.wantCode {
				t.Errorf("got %d/%s, want %d/%s", resp.StatusCode, resp.ErrorCode, tt.wantStatus, tt.wantCode)
			}
			if resp.Message != tt.wantMessage {
				t.Errorf("got message %q, want %q", resp.Message, tt.wantMessage)
			}
			if resp.ErrorDateTime == "" {
				t.Error("expected errorDateTime to be set")
			}
		})
	}
}
