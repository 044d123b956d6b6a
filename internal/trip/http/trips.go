package http

import (
	"net/http"

	"github.com/asinan007/tripping/internal/trip/domain"
	"github.com/asinan007/tripping/internal/trip/service"
	"github.com/asinan007/tripping/pkg/httpx"
	"github.com/asinan007/tripping/pkg/slogx"
	"github.com/asinan007/tripping/pkg/tripsdk"
)

type TripsHandler struct {
	TripService *service.TripService
}

func tripDetails(req tripsdk.TripRequest) domain.TripDetails {
	return domain.TripDetails{
		Title:       req.Title,
		Description: req.Description,
		Destination: req.Destination,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	}
}

// HandleCreate godoc
//
//	@Summary		Create Trip
//	@Description	Creates a trip with the caller as creator and only participant.
//	@Description	When a destination is given, activity suggestions are attached if the provider answers in time.
//	@Tags			Trips
//	@Accept			json
//	@Produce		json
//	@Param			request	body		tripsdk.TripRequest		true	"Trip"
//	@Success		201		{object}	tripsdk.TripResponse
//	@Failure		400		{object}	tripsdk.ErrorResponse	"error, error_description"
//	@Failure		401		{object}	tripsdk.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/api/trips [post].
func (h *TripsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	var req tripsdk.TripRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	trip, err := h.TripService.CreateTrip(r.Context(), caller.UserID, tripDetails(req))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toTripResponse(trip))
}

// HandleList godoc
//
//	@Summary		List Trips
//	@Description	Lists the trips the caller participates in, newest first
//	@Tags			Trips
//	@Produce		json
//	@Success		200	{object}	tripsdk.ListTripsResponse
//	@Failure		401	{object}	tripsdk.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/api/trips [get].
func (h *TripsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}

	trips, err := h.TripService.ListTrips(r.Context(), caller.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toTripsResponse(trips))
}

// HandleGet godoc
//
//	@Summary		Get Trip
//	@Description	Returns a trip. Trips the caller does not participate in are reported as not found.
//	@Tags			Trips
//	@Produce		json
//	@Param			id	path		string	true	"Trip ID"
//	@Success		200	{object}	tripsdk.TripResponse
//	@Failure		404	{object}	tripsdk.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/api/trips/{id} [get].
func (h *TripsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}

	trip, err := h.TripService.GetTrip(r.Context(), r.PathValue("id"), caller.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toTripResponse(trip))
}

// HandleUpdate godoc
//
//	@Summary		Update Trip
//	@Description	Replaces the editable fields of a trip and notifies live viewers
//	@Tags			Trips
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string					true	"Trip ID"
//	@Param			request	body		tripsdk.TripRequest		true	"Trip"
//	@Success		200		{object}	tripsdk.TripResponse
//	@Failure		400		{object}	tripsdk.ErrorResponse	"error, error_description"
//	@Failure		404		{object}	tripsdk.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/api/trips/{id} [put].
func (h *TripsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	var req tripsdk.TripRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	trip, err := h.TripService.UpdateTrip(r.Context(), r.PathValue("id"), caller.UserID, tripDetails(req))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toTripResponse(trip))
}

// HandleDelete godoc
//
//	@Summary		Delete Trip
//	@Description	Deletes a trip. Only the creator may delete; other callers get not found.
//	@Tags			Trips
//	@Param			id	path	string	true	"Trip ID"
//	@Success		204
//	@Failure		404	{object}	tripsdk.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/api/trips/{id} [delete].
func (h *TripsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}

	if err := h.TripService.DeleteTrip(r.Context(), r.PathValue("id"), caller.UserID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleListItinerary godoc
//
//	@Summary		List Itinerary
//	@Description	Returns the itinerary entries of a trip in the order they were added
//	@Tags			Itinerary
//	@Produce		json
//	@Param			id	path		string	true	"Trip ID"
//	@Success		200	{object}	tripsdk.ItineraryResponse
//	@Failure		404	{object}	tripsdk.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/api/trips/{id}/itinerary [get].
func (h *TripsHandler) HandleListItinerary(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	tripID := r.PathValue("id")

	items, err := h.TripService.ListItinerary(r.Context(), tripID, caller.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := tripsdk.ItineraryResponse{TripID: tripID, Entries: make([]tripsdk.ActivityResponse, 0, len(items))}
	for _, it := range items {
		resp.Entries = append(resp.Entries, toActivityResponse(it))
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleAddActivity godoc
//
//	@Summary		Add Activity
//	@Description	Appends an activity to the itinerary and pushes an activity_added event to live viewers
//	@Tags			Itinerary
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string					true	"Trip ID"
//	@Param			request	body		tripsdk.ActivityRequest	true	"Activity"
//	@Success		201		{object}	tripsdk.ActivityResponse
//	@Failure		400		{object}	tripsdk.ErrorResponse	"error, error_description"
//	@Failure		404		{object}	tripsdk.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/api/trips/{id}/itinerary [post].
func (h *TripsHandler) HandleAddActivity(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	var req tripsdk.ActivityRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	ctx := slogx.WithTrip(r.Context(), r.PathValue("id"))
	entry, err := h.TripService.AddActivity(ctx, r.PathValue("id"), caller.UserID, domain.ItineraryEntry{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Duration:    req.Duration,
		Cost:        req.Cost,
		Location:    req.Location,
		Day:         req.Day,
		Time:        req.Time,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toActivityResponse(entry))
}

// HandleRefreshSuggestions godoc
//
//	@Summary		Refresh Trip Suggestions
//	@Description	Regenerates the AI suggestions cached on a trip. Unlike trip creation, a provider failure is reported.
//	@Tags			Suggestions
//	@Produce		json
//	@Param			id	path		string	true	"Trip ID"
//	@Success		200	{object}	tripsdk.SuggestionsResponse
//	@Failure		404	{object}	tripsdk.ErrorResponse	"error, error_description"
//	@Failure		502	{object}	tripsdk.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/api/trips/{id}/suggestions [post].
func (h *TripsHandler) HandleRefreshSuggestions(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}

	ctx := slogx.WithTrip(r.Context(), r.PathValue("id"))
	bundle, err := h.TripService.RefreshSuggestions(ctx, r.PathValue("id"), caller.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toSuggestionsResponse(bundle))
}
