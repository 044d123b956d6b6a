package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/asinan007/tripping/internal/trip/service"
	"github.com/asinan007/tripping/pkg/httpx"
	"github.com/asinan007/tripping/pkg/slogx"
	"github.com/asinan007/tripping/pkg/tripsdk"
)

// writeError translates a service error into the API error body. Unknown
// errors are logged and reported as server_error.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidRequest):
		tripsdk.ErrInvalidRequest.WithDescription(err.Error()).WriteError(w)
	case errors.Is(err, service.ErrUnauthenticated):
		writeUnauthenticated(w)
	case errors.Is(err, service.ErrTripNotFound):
		tripsdk.ErrNotFound.WriteError(w)
	case errors.Is(err, service.ErrDuplicateInvitation):
		tripsdk.ErrDuplicateInvitation.WriteError(w)
	case errors.Is(err, service.ErrInvitationNotFound):
		tripsdk.ErrInvitationNotFound.WriteError(w)
	case errors.Is(err, service.ErrInvalidShareLink):
		tripsdk.ErrInvalidShareLink.WriteError(w)
	case errors.Is(err, service.ErrSuggestionsUnavailable):
		tripsdk.ErrSuggestionsUnavailable.WriteError(w)
	default:
		slogx.FromContext(r.Context()).Error("request failed",
			slog.String("path", r.URL.Path),
			slog.Any("error", err),
		)
		tripsdk.ErrServerError.WriteError(w)
	}
}

func writeUnauthenticated(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
	tripsdk.ErrUnauthenticated.WriteError(w)
}

// decodeRequest reads a JSON body into v, answering 400 on failure.
func decodeRequest(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := httpx.DecodeJSON(w, r, v); err != nil {
		tripsdk.ErrInvalidRequest.WithDescription("Invalid JSON body").WriteError(w)
		return false
	}
	return true
}

// callerFrom returns the identity injected by the authn middleware.
func callerFrom(w http.ResponseWriter, r *http.Request) (service.Caller, bool) {
	claims, ok := httpx.ClaimsFromContext(r.Context())
	if !ok || claims.Subject == "" {
		writeUnauthenticated(w)
		return service.Caller{}, false
	}
	return service.Caller{UserID: claims.Subject, Email: claims.Email}, true
}
