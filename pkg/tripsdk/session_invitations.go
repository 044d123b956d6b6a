package tripsdk

import (
	"context"
	"net/http"
	"net/url"
)

// Invite invites an email address to the trip. The returned invitation
// carries the invite token; it is not shown again.
func (s *Session) Invite(ctx context.Context, tripID string, req InviteRequest) (*InvitationResponse, error) {
	var out InvitationResponse
	if err := s.call(ctx, http.MethodPost, tripPath(tripID)+"/invitations", req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListTripInvitations lists every invitation of a trip.
func (s *Session) ListTripInvitations(ctx context.Context, tripID string) (*ListInvitationsResponse, error) {
	var out ListInvitationsResponse
	if err := s.call(ctx, http.MethodGet, tripPath(tripID)+"/invitations", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListMyInvitations lists the pending invitations addressed to the caller.
func (s *Session) ListMyInvitations(ctx context.Context) (*ListInvitationsResponse, error) {
	var out ListInvitationsResponse
	if err := s.call(ctx, http.MethodGet, "/api/invitations", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Respond accepts or rejects an invitation addressed to the caller.
func (s *Session) Respond(ctx context.Context, invitationID, action string) (*RespondResponse, error) {
	var out RespondResponse
	path := "/api/invitations/" + url.PathEscape(invitationID) + "/respond"
	if err := s.call(ctx, http.MethodPost, path, RespondRequest{Action: action}, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// AcceptInvitation accepts an invitation by its token.
func (s *Session) AcceptInvitation(ctx context.Context, token string) (*TripResponse, error) {
	var out TripResponse
	req := AcceptInvitationRequest{Token: token}
	if err := s.call(ctx, http.MethodPost, "/api/invitations/accept", req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// ShareLink returns the trip's share token, creating it on first use.
func (s *Session) ShareLink(ctx context.Context, tripID string) (*ShareLinkResponse, error) {
	var out ShareLinkResponse
	if err := s.call(ctx, http.MethodPost, tripPath(tripID)+"/share", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// JoinByShareLink joins the trip owning token.
func (s *Session) JoinByShareLink(ctx context.Context, token string) (*JoinResponse, error) {
	var out JoinResponse
	path := "/api/share/" + url.PathEscape(token) + "/join"
	if err := s.call(ctx, http.MethodPost, path, nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}
