package domain

import (
	"slices"
	"time"
)

// Trip is the central planning unit. The creator is always a participant.
type Trip struct {
	ID           string            `json:"id"`
	Title        string            `json:"title"`
	Description  string            `json:"description,omitempty"`
	Destination  string            `json:"destination,omitempty"`
	StartDate    *time.Time        `json:"start_date,omitempty"`
	EndDate      *time.Time        `json:"end_date,omitempty"`
	CreatorID    string            `json:"created_by"`
	Participants []string          `json:"participants"`
	ShareToken   string            `json:"-"`
	Suggestions  *SuggestionBundle `json:"ai_suggestions,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// HasParticipant reports whether userID may view and mutate the trip.
func (t Trip) HasParticipant(userID string) bool {
	return userID != "" && slices.Contains(t.Participants, userID)
}

// TripDetails are the caller-editable fields of a trip.
type TripDetails struct {
	Title       string
	Description string
	Destination string
	StartDate   *time.Time
	EndDate     *time.Time
}
