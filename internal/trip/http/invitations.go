package http

import (
	"net/http"

	"github.com/asinan007/tripping/internal/trip/domain"
	"github.com/asinan007/tripping/internal/trip/service"
	"github.com/asinan007/tripping/pkg/httpx"
	"github.com/asinan007/tripping/pkg/tripsdk"
)

type InvitationsHandler struct {
	MembershipService *service.MembershipService
}

// HandleInvite godoc
//
//	@Summary		Invite to Trip
//	@Description	Creates a pending invitation for an email address. The invite_token is only returned here.
//	@Description	Fails with duplicate_invitation while a pending or accepted invitation exists for the same email.
//	@Tags			Invitations
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"Trip ID"
//	@Param			request	body		tripsdk.InviteRequest		true	"Invitee"
//	@Success		201		{object}	tripsdk.InvitationResponse
//	@Failure		400		{object}	tripsdk.ErrorResponse	"error, error_description"
//	@Failure		404		{object}	tripsdk.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/api/trips/{id}/invitations [post].
func (h *InvitationsHandler) HandleInvite(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	var req tripsdk.InviteRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	inv, token, err := h.MembershipService.Invite(r.Context(), r.PathValue("id"), caller.UserID, req.Email, req.Message)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusCreated, toInvitationResponse(inv, token))
}

// HandleListTrip godoc
//
//	@Summary		List Trip Invitations
//	@Description	Lists every invitation of a trip, including resolved ones
//	@Tags			Invitations
//	@Produce		json
//	@Param			id	path		string	true	"Trip ID"
//	@Success		200	{object}	tripsdk.ListInvitationsResponse
//	@Failure		404	{object}	tripsdk.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/api/trips/{id}/invitations [get].
func (h *InvitationsHandler) HandleListTrip(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}

	invs, err := h.MembershipService.ListTripInvitations(r.Context(), r.PathValue("id"), caller.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toInvitationsResponse(invs))
}

// HandleListMine godoc
//
//	@Summary		List My Invitations
//	@Description	Lists pending invitations addressed to the caller's email
//	@Tags			Invitations
//	@Produce		json
//	@Success		200	{object}	tripsdk.ListInvitationsResponse
//	@Security		BearerAuth
//	@Router			/api/invitations [get].
func (h *InvitationsHandler) HandleListMine(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}

	invs, err := h.MembershipService.ListMyInvitations(r.Context(), caller.Email)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toInvitationsResponse(invs))
}

// HandleRespond godoc
//
//	@Summary		Respond to Invitation
//	@Description	Accepts or rejects a pending invitation addressed to the caller.
//	@Description	Responding twice fails with invitation_not_found.
//	@Tags			Invitations
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string					true	"Invitation ID"
//	@Param			request	body		tripsdk.RespondRequest	true	"accept or reject"
//	@Success		200		{object}	tripsdk.RespondResponse
//	@Failure		400		{object}	tripsdk.ErrorResponse	"error, error_description"
//	@Failure		404		{object}	tripsdk.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/api/invitations/{id}/respond [post].
func (h *InvitationsHandler) HandleRespond(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	var req tripsdk.RespondRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	res, err := h.MembershipService.Respond(r.Context(), r.PathValue("id"), caller, domain.InviteAction(req.Action))
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := tripsdk.RespondResponse{Status: string(res.Status)}
	if res.Trip != nil {
		t := toTripResponse(*res.Trip)
		resp.Trip = &t
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleAccept godoc
//
//	@Summary		Accept Invitation by Token
//	@Description	Accepts the pending invitation identified by its invite token
//	@Tags			Invitations
//	@Accept			json
//	@Produce		json
//	@Param			request	body		tripsdk.AcceptInvitationRequest	true	"Invite token"
//	@Success		200		{object}	tripsdk.TripResponse
//	@Failure		404		{object}	tripsdk.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/api/invitations/accept [post].
func (h *InvitationsHandler) HandleAccept(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	var req tripsdk.AcceptInvitationRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	trip, err := h.MembershipService.AcceptByToken(r.Context(), req.Token, caller.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toTripResponse(trip))
}

// HandleShare godoc
//
//	@Summary		Get Share Link
//	@Description	Returns the trip's share token, creating it on first use. The token never changes afterwards.
//	@Tags			Sharing
//	@Produce		json
//	@Param			id	path		string	true	"Trip ID"
//	@Success		200	{object}	tripsdk.ShareLinkResponse
//	@Failure		404	{object}	tripsdk.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/api/trips/{id}/share [post].
func (h *InvitationsHandler) HandleShare(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	tripID := r.PathValue("id")

	token, err := h.MembershipService.ShareLink(r.Context(), tripID, caller.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, tripsdk.ShareLinkResponse{TripID: tripID, ShareToken: token})
}

// HandleJoin godoc
//
//	@Summary		Join by Share Link
//	@Description	Adds the caller to the trip holding the share token. Joining twice reports already_member.
//	@Tags			Sharing
//	@Produce		json
//	@Param			token	path		string	true	"Share token"
//	@Success		200		{object}	tripsdk.JoinResponse
//	@Failure		404		{object}	tripsdk.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/api/share/{token}/join [post].
func (h *InvitationsHandler) HandleJoin(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}

	res, err := h.MembershipService.JoinByShareLink(r.Context(), r.PathValue("token"), caller.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, tripsdk.JoinResponse{
		AlreadyMember: res.AlreadyMember,
		Trip:          toTripResponse(res.Trip),
	})
}
