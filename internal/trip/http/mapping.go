package http

import (
	"github.com/asinan007/tripping/internal/trip/domain"
	"github.com/asinan007/tripping/pkg/tripsdk"
)

func toUserResponse(u domain.User) tripsdk.UserResponse {
	return tripsdk.UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Avatar:    u.Avatar,
		Provider:  u.Provider,
		CreatedAt: u.CreatedAt,
	}
}

func toTripResponse(t domain.Trip) tripsdk.TripResponse {
	participants := t.Participants
	if participants == nil {
		participants = []string{}
	}
	resp := tripsdk.TripResponse{
		ID:           t.ID,
		Title:        t.Title,
		Description:  t.Description,
		Destination:  t.Destination,
		StartDate:    t.StartDate,
		EndDate:      t.EndDate,
		CreatedBy:    t.CreatorID,
		Participants: participants,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
	if t.Suggestions != nil {
		s := toSuggestionsResponse(*t.Suggestions)
		resp.Suggestions = &s
	}
	return resp
}

func toTripsResponse(trips []domain.Trip) tripsdk.ListTripsResponse {
	out := make([]tripsdk.TripResponse, 0, len(trips))
	for _, t := range trips {
		out = append(out, toTripResponse(t))
	}
	return tripsdk.ListTripsResponse{Trips: out}
}

func toActivityResponse(e domain.ItineraryEntry) tripsdk.ActivityResponse {
	return tripsdk.ActivityResponse{
		ID:          e.ID,
		TripID:      e.TripID,
		Name:        e.Name,
		Description: e.Description,
		Category:    e.Category,
		Duration:    e.Duration,
		Cost:        e.Cost,
		Location:    e.Location,
		Day:         e.Day,
		Time:        e.Time,
		AddedBy:     e.AddedBy,
		AddedAt:     e.AddedAt,
	}
}

func toInvitationResponse(inv domain.Invitation, token string) tripsdk.InvitationResponse {
	return tripsdk.InvitationResponse{
		ID:           inv.ID,
		TripID:       inv.TripID,
		InviterID:    inv.InviterID,
		InviteeEmail: inv.InviteeEmail,
		Message:      inv.Message,
		Status:       string(inv.Status),
		CreatedAt:    inv.CreatedAt,
		RespondedAt:  inv.RespondedAt,
		InviteToken:  token,
	}
}

func toInvitationsResponse(invs []domain.Invitation) tripsdk.ListInvitationsResponse {
	out := make([]tripsdk.InvitationResponse, 0, len(invs))
	for _, inv := range invs {
		out = append(out, toInvitationResponse(inv, ""))
	}
	return tripsdk.ListInvitationsResponse{Invitations: out}
}

func toActivitySuggestions(in []domain.ActivitySuggestion) []tripsdk.ActivitySuggestion {
	out := make([]tripsdk.ActivitySuggestion, 0, len(in))
	for _, a := range in {
		out = append(out, tripsdk.ActivitySuggestion(a))
	}
	return out
}

func toDestinationSuggestions(in []domain.DestinationSuggestion) []tripsdk.DestinationSuggestion {
	out := make([]tripsdk.DestinationSuggestion, 0, len(in))
	for _, d := range in {
		out = append(out, tripsdk.DestinationSuggestion(d))
	}
	return out
}

func toSuggestionsResponse(b domain.SuggestionBundle) tripsdk.SuggestionsResponse {
	resp := tripsdk.SuggestionsResponse{
		Activities:  toActivitySuggestions(b.Activities),
		GeneratedAt: b.GeneratedAt,
	}
	for _, p := range b.Personalized {
		resp.Personalized = append(resp.Personalized, tripsdk.PersonalizedSuggestion(p))
	}
	return resp
}
