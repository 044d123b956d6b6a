package tripsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// Session is an authenticated view of the service for one user. Sessions
// are safe for concurrent use; the token never changes after creation.
type Session struct {
	client      *SDKClient
	accessToken string
	user        UserResponse
}

// AccessToken returns the bearer token backing the session.
func (s *Session) AccessToken() string { return s.accessToken }

// User returns the user the session was created for.
func (s *Session) User() UserResponse { return s.user }

// call marshals in (when non-nil), performs the request and decodes the
// response into out.
func (s *Session) call(ctx context.Context, method, path string, in, out any, expectedStatus int) error {
	var body io.Reader
	var headers map[string]string
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(raw)
		headers = jsonHeaders
	}

	resp, err := s.doAuthRequest(ctx, method, path, body, headers)
	if err != nil {
		return err
	}
	if out == nil {
		return checkStatusNoContent(resp)
	}
	return decodeJSON(resp, out, expectedStatus)
}

// ============================================================================
// User
// ============================================================================

// Me returns the authenticated user.
func (s *Session) Me(ctx context.Context) (*UserResponse, error) {
	var out UserResponse
	if err := s.call(ctx, http.MethodGet, "/api/auth/me", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// ============================================================================
// Trips
// ============================================================================

// CreateTrip creates a trip with the caller as its creator and first participant.
func (s *Session) CreateTrip(ctx context.Context, req TripRequest) (*TripResponse, error) {
	var out TripResponse
	if err := s.call(ctx, http.MethodPost, "/api/trips", req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListTrips returns the trips the caller participates in.
func (s *Session) ListTrips(ctx context.Context) (*ListTripsResponse, error) {
	var out ListTripsResponse
	if err := s.call(ctx, http.MethodGet, "/api/trips", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetTrip returns a trip the caller participates in.
func (s *Session) GetTrip(ctx context.Context, tripID string) (*TripResponse, error) {
	var out TripResponse
	if err := s.call(ctx, http.MethodGet, tripPath(tripID), nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateTrip replaces the editable fields of a trip.
func (s *Session) UpdateTrip(ctx context.Context, tripID string, req TripRequest) (*TripResponse, error) {
	var out TripResponse
	if err := s.call(ctx, http.MethodPut, tripPath(tripID), req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteTrip deletes a trip. Only its creator may do this.
func (s *Session) DeleteTrip(ctx context.Context, tripID string) error {
	return s.call(ctx, http.MethodDelete, tripPath(tripID), nil, nil, http.StatusNoContent)
}

// AddActivity appends an entry to the trip itinerary.
func (s *Session) AddActivity(ctx context.Context, tripID string, req ActivityRequest) (*ActivityResponse, error) {
	var out ActivityResponse
	if err := s.call(ctx, http.MethodPost, tripPath(tripID)+"/itinerary", req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListItinerary returns the trip itinerary in the order entries were added.
func (s *Session) ListItinerary(ctx context.Context, tripID string) (*ItineraryResponse, error) {
	var out ItineraryResponse
	if err := s.call(ctx, http.MethodGet, tripPath(tripID)+"/itinerary", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// RefreshSuggestions regenerates and caches the trip's suggestion bundle.
func (s *Session) RefreshSuggestions(ctx context.Context, tripID string) (*SuggestionsResponse, error) {
	var out SuggestionsResponse
	if err := s.call(ctx, http.MethodPost, tripPath(tripID)+"/suggestions", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// ============================================================================
// Suggestions
// ============================================================================

// SuggestDestinations asks for destinations matching preferences.
func (s *Session) SuggestDestinations(ctx context.Context, preferences string) (*DestinationsResponse, error) {
	var out DestinationsResponse
	req := DestinationQuery{Preferences: preferences}
	if err := s.call(ctx, http.MethodPost, "/api/ai/destinations", req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// SuggestActivities asks for activities at destination.
func (s *Session) SuggestActivities(ctx context.Context, destination string) (*ActivitiesResponse, error) {
	var out ActivitiesResponse
	req := ActivityQuery{Destination: destination}
	if err := s.call(ctx, http.MethodPost, "/api/ai/activities", req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func tripPath(tripID string) string {
	return "/api/trips/" + url.PathEscape(tripID)
}
