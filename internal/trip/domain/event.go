package domain

import "time"

type EventType string

const (
	EventTripCreated        EventType = "trip_created"
	EventTripUpdated        EventType = "trip_updated"
	EventTripDeleted        EventType = "trip_deleted"
	EventActivityAdded      EventType = "activity_added"
	EventParticipantJoined  EventType = "participant_joined"
	EventInvitationCreated  EventType = "invitation_created"
	EventSuggestionsUpdated EventType = "suggestions_updated"
)

// Event is pushed to every live viewer of a trip after a mutation is
// persisted. Only the fields relevant to Type are set.
type Event struct {
	Type        EventType         `json:"type"`
	TripID      string            `json:"trip_id"`
	Trip        *Trip             `json:"trip,omitempty"`
	Activity    *ItineraryEntry   `json:"activity,omitempty"`
	Invitation  *Invitation       `json:"invitation,omitempty"`
	UserID      string            `json:"user_id,omitempty"`
	Suggestions *SuggestionBundle `json:"suggestions,omitempty"`
	At          time.Time         `json:"at"`
}
