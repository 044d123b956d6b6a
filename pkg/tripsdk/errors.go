package tripsdk

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/asinan007/tripping/pkg/httpx"
)

// ============================================================================
// Error Codes
// ============================================================================

const (
	ErrorCodeInvalidRequest         = "invalid_request"
	ErrorCodeUnauthenticated        = "unauthenticated"
	ErrorCodeNotFound               = "not_found"
	ErrorCodeDuplicateInvitation    = "duplicate_invitation"
	ErrorCodeInvitationNotFound     = "invitation_not_found"
	ErrorCodeInvalidShareLink       = "invalid_share_link"
	ErrorCodeSuggestionsUnavailable = "suggestions_unavailable"
	ErrorCodeRateLimitExceeded      = "rate_limit_exceeded"
	ErrorCodeServerError            = "server_error"
)

// ============================================================================
// APIError
// ============================================================================

// APIError is an error response from the service. It is used both by the
// server to write responses and by the client to report them.
type APIError struct {
	// StatusCode is the HTTP status code for this error
	StatusCode int `json:"-"`

	Code        string `json:"error"`
	Description string `json:"error_description"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// WithDescription returns a copy of e with a different description.
func (e *APIError) WithDescription(desc string) *APIError {
	return &APIError{StatusCode: e.StatusCode, Code: e.Code, Description: desc}
}

// WriteError writes e as a JSON error response.
func (e *APIError) WriteError(w http.ResponseWriter) {
	httpx.WriteJSON(w, e.StatusCode, ErrorResponse{
		Error:            e.Code,
		ErrorDescription: e.Description,
	})
}

// Is matches on status code and error code so callers can use errors.Is
// against the predefined errors.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	if !ok {
		return false
	}
	return e.StatusCode == t.StatusCode && e.Code == t.Code
}

// ============================================================================
// Predefined Errors
// ============================================================================

var (
	ErrInvalidRequest = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "the request is malformed or missing required fields",
	}

	ErrUnauthenticated = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeUnauthenticated,
		Description: "authentication required",
	}

	// ErrNotFound covers both absent trips and trips the caller may not view.
	ErrNotFound = &APIError{
		StatusCode:  http.StatusNotFound,
		Code:        ErrorCodeNotFound,
		Description: "trip not found",
	}

	ErrDuplicateInvitation = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeDuplicateInvitation,
		Description: "an active invitation already exists for this email",
	}

	ErrInvitationNotFound = &APIError{
		StatusCode:  http.StatusNotFound,
		Code:        ErrorCodeInvitationNotFound,
		Description: "no pending invitation matches this request",
	}

	ErrInvalidShareLink = &APIError{
		StatusCode:  http.StatusNotFound,
		Code:        ErrorCodeInvalidShareLink,
		Description: "invalid share link",
	}

	ErrSuggestionsUnavailable = &APIError{
		StatusCode:  http.StatusBadGateway,
		Code:        ErrorCodeSuggestionsUnavailable,
		Description: "the suggestion provider failed",
	}

	ErrRateLimited = &APIError{
		StatusCode:  http.StatusTooManyRequests,
		Code:        ErrorCodeRateLimitExceeded,
		Description: "too many requests, try again later",
	}

	ErrServerError = &APIError{
		StatusCode:  http.StatusInternalServerError,
		Code:        ErrorCodeServerError,
		Description: "internal server error",
	}
)

// parseErrorResponse turns a non-2xx response into an *APIError.
func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		return &APIError{
			StatusCode:  resp.StatusCode,
			Code:        errResp.Error,
			Description: errResp.ErrorDescription,
		}
	}

	return &APIError{
		StatusCode:  resp.StatusCode,
		Code:        ErrorCodeServerError,
		Description: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
}
