package http

import (
	"net/http"

	"github.com/asinan007/tripping/internal/trip/service"
	"github.com/asinan007/tripping/pkg/httpx"
	"github.com/asinan007/tripping/pkg/tripsdk"
)

type AuthHandler struct {
	AuthService *service.AuthService
}

// HandleSocialLogin godoc
//
//	@Summary		Social Login
//	@Description	Exchanges a profile verified by an external identity provider for a session token.
//	@Description	The user is created on first login and refreshed (name, avatar) afterwards.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		tripsdk.SocialLoginRequest	true	"Verified profile"
//	@Success		200		{object}	tripsdk.SocialLoginResponse	"access_token, token_type, expires_in, user"
//	@Failure		400		{object}	tripsdk.ErrorResponse		"error, error_description"
//	@Failure		429		{object}	tripsdk.ErrorResponse		"error, error_description"
//	@Router			/api/auth/social [post].
func (h *AuthHandler) HandleSocialLogin(w http.ResponseWriter, r *http.Request) {
	var req tripsdk.SocialLoginRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	sess, err := h.AuthService.SocialLogin(r.Context(), service.SocialProfile{
		Name:     req.Name,
		Email:    req.Email,
		Avatar:   req.Avatar,
		Provider: req.Provider,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, tripsdk.SocialLoginResponse{
		AccessToken: sess.AccessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int(sess.ExpiresIn.Seconds()),
		User:        toUserResponse(sess.User),
	})
}

// HandleMe godoc
//
//	@Summary		Current User
//	@Description	Returns the profile of the authenticated user
//	@Tags			Auth
//	@Produce		json
//	@Success		200	{object}	tripsdk.UserResponse	"id, name, email, avatar, provider"
//	@Failure		401	{object}	tripsdk.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/api/auth/me [get].
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}

	user, err := h.AuthService.Me(r.Context(), caller.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toUserResponse(user))
}
