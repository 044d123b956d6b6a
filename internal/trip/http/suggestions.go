package http

import (
	"net/http"

	"github.com/asinan007/tripping/internal/trip/service"
	"github.com/asinan007/tripping/pkg/httpx"
	"github.com/asinan007/tripping/pkg/tripsdk"
)

type SuggestionsHandler struct {
	SuggestionService *service.SuggestionService
}

// HandleDestinations godoc
//
//	@Summary		Suggest Destinations
//	@Description	Suggests up to 5 destinations for free-text preferences. An empty list means no suggestions are available.
//	@Tags			Suggestions
//	@Accept			json
//	@Produce		json
//	@Param			request	body		tripsdk.DestinationQuery	true	"Preferences"
//	@Success		200		{object}	tripsdk.DestinationsResponse
//	@Failure		400		{object}	tripsdk.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/api/ai/destinations [post].
func (h *SuggestionsHandler) HandleDestinations(w http.ResponseWriter, r *http.Request) {
	var req tripsdk.DestinationQuery
	if !decodeRequest(w, r, &req) {
		return
	}

	out := h.SuggestionService.Destinations(r.Context(), req.Preferences)
	httpx.WriteJSON(w, http.StatusOK, tripsdk.DestinationsResponse{Suggestions: toDestinationSuggestions(out)})
}

// HandleActivities godoc
//
//	@Summary		Suggest Activities
//	@Description	Suggests up to 8 activities for a destination. An empty list means no suggestions are available.
//	@Tags			Suggestions
//	@Accept			json
//	@Produce		json
//	@Param			request	body		tripsdk.ActivityQuery	true	"Destination"
//	@Success		200		{object}	tripsdk.ActivitiesResponse
//	@Failure		400		{object}	tripsdk.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/api/ai/activities [post].
func (h *SuggestionsHandler) HandleActivities(w http.ResponseWriter, r *http.Request) {
	var req tripsdk.ActivityQuery
	if !decodeRequest(w, r, &req) {
		return
	}

	out := h.SuggestionService.Activities(r.Context(), req.Destination)
	httpx.WriteJSON(w, http.StatusOK, tripsdk.ActivitiesResponse{Suggestions: toActivitySuggestions(out)})
}
