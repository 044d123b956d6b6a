package domain

import "time"

// ItineraryEntry is one activity in a trip itinerary. Entries are append only.
type ItineraryEntry struct {
	ID          string    `json:"id"`
	TripID      string    `json:"trip_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category,omitempty"`
	Duration    int       `json:"duration,omitempty"` // minutes
	Cost        *float64  `json:"cost,omitempty"`
	Location    string    `json:"location,omitempty"`
	Day         int       `json:"day,omitempty"`
	Time        string    `json:"time,omitempty"`
	AddedBy     string    `json:"added_by"`
	AddedAt     time.Time `json:"added_at"`
}
