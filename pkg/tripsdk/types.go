package tripsdk

import "time"

// ============================================================================
// Common Types
// ============================================================================

// ErrorResponse is the JSON body of every non-2xx response.
type ErrorResponse struct {
	// Error is the machine readable error code (e.g., "not_found")
	Error string `json:"error"`

	// ErrorDescription is a human-readable description of the error
	ErrorDescription string `json:"error_description"`
}

// HealthResponse is returned by /livez and /readyz.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports readiness of critical dependencies.
type HealthChecks struct {
	Database    string `json:"database"`
	Suggestions string `json:"suggestions"`
	Subscribers int    `json:"subscribers"`
}

// BannerResponse is returned by GET /.
type BannerResponse struct {
	Message string `json:"message"`
	Version string `json:"version"`
}

// ============================================================================
// Auth Types
// ============================================================================

// SocialLoginRequest carries a profile already verified by an external
// identity provider.
type SocialLoginRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Avatar   string `json:"avatar,omitempty"`
	Provider string `json:"provider"`
}

// SocialLoginResponse returns the bearer token for subsequent requests.
type SocialLoginResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresIn   int          `json:"expires_in"`
	User        UserResponse `json:"user"`
}

// UserResponse is the public view of a user.
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Avatar    string    `json:"avatar,omitempty"`
	Provider  string    `json:"provider"`
	CreatedAt time.Time `json:"created_at"`
}

// ============================================================================
// Trip Types
// ============================================================================

// TripRequest creates or fully replaces the editable fields of a trip.
type TripRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Destination string     `json:"destination,omitempty"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
}

// TripResponse is the view of a trip returned to participants.
type TripResponse struct {
	ID           string               `json:"id"`
	Title        string               `json:"title"`
	Description  string               `json:"description,omitempty"`
	Destination  string               `json:"destination,omitempty"`
	StartDate    *time.Time           `json:"start_date,omitempty"`
	EndDate      *time.Time           `json:"end_date,omitempty"`
	CreatedBy    string               `json:"created_by"`
	Participants []string             `json:"participants"`
	Suggestions  *SuggestionsResponse `json:"ai_suggestions,omitempty"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

// ListTripsResponse wraps the trips the caller participates in.
type ListTripsResponse struct {
	Trips []TripResponse `json:"trips"`
}

// ActivityRequest appends an entry to a trip itinerary.
type ActivityRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Category    string   `json:"category,omitempty"`
	Duration    int      `json:"duration,omitempty"` // minutes
	Cost        *float64 `json:"cost,omitempty"`
	Location    string   `json:"location,omitempty"`
	Day         int      `json:"day,omitempty"`
	Time        string   `json:"time,omitempty"`
}

// ActivityResponse is one itinerary entry.
type ActivityResponse struct {
	ID          string    `json:"id"`
	TripID      string    `json:"trip_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category,omitempty"`
	Duration    int       `json:"duration,omitempty"`
	Cost        *float64  `json:"cost,omitempty"`
	Location    string    `json:"location,omitempty"`
	Day         int       `json:"day,omitempty"`
	Time        string    `json:"time,omitempty"`
	AddedBy     string    `json:"added_by"`
	AddedAt     time.Time `json:"added_at"`
}

// ItineraryResponse lists entries in the order they were added.
type ItineraryResponse struct {
	TripID  string             `json:"trip_id"`
	Entries []ActivityResponse `json:"entries"`
}

// ============================================================================
// Invitation Types
// ============================================================================

// InviteRequest invites an email address to a trip.
type InviteRequest struct {
	Email   string `json:"email"`
	Message string `json:"message,omitempty"`
}

// InvitationResponse describes an invitation. InviteToken is only present in
// the response to the invite call itself.
type InvitationResponse struct {
	ID           string     `json:"id"`
	TripID       string     `json:"trip_id"`
	InviterID    string     `json:"inviter_id"`
	InviteeEmail string     `json:"invitee_email"`
	Message      string     `json:"message,omitempty"`
	Status       string     `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	RespondedAt  *time.Time `json:"responded_at,omitempty"`
	InviteToken  string     `json:"invite_token,omitempty"`
}

// ListInvitationsResponse wraps a list of invitations.
type ListInvitationsResponse struct {
	Invitations []InvitationResponse `json:"invitations"`
}

// RespondRequest accepts or rejects an invitation.
type RespondRequest struct {
	Action string `json:"action"` // "accept" or "reject"
}

// RespondResponse reports the resolved invitation; Trip is set on accept.
type RespondResponse struct {
	Status string        `json:"status"`
	Trip   *TripResponse `json:"trip,omitempty"`
}

// AcceptInvitationRequest accepts an invitation by its token.
type AcceptInvitationRequest struct {
	Token string `json:"token"`
}

// ShareLinkResponse carries the trip's stable share token.
type ShareLinkResponse struct {
	TripID     string `json:"trip_id"`
	ShareToken string `json:"share_token"`
}

// JoinResponse is returned after joining through a share link.
type JoinResponse struct {
	AlreadyMember bool         `json:"already_member"`
	Trip          TripResponse `json:"trip"`
}

// ============================================================================
// Suggestion Types
// ============================================================================

// DestinationQuery asks for destinations matching free-text preferences.
type DestinationQuery struct {
	Preferences string `json:"preferences"`
}

// ActivityQuery asks for activities at a destination.
type ActivityQuery struct {
	Destination string `json:"destination"`
}

// DestinationSuggestion is one suggested destination.
type DestinationSuggestion struct {
	Name          string   `json:"name"`
	Country       string   `json:"country"`
	Description   string   `json:"description"`
	BestTime      string   `json:"best_time"`
	KeyActivities []string `json:"key_activities"`
	BudgetRange   string   `json:"budget_range"`
}

// ActivitySuggestion is one suggested activity.
type ActivitySuggestion struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Duration    string `json:"duration"`
	Cost        string `json:"cost"`
	BestTime    string `json:"best_time"`
	Location    string `json:"location"`
}

// PersonalizedSuggestion is one trip-specific tip.
type PersonalizedSuggestion struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Priority    string `json:"priority"`
	Relevance   string `json:"relevance"`
}

// DestinationsResponse wraps destination suggestions. An empty list means
// no suggestions are available.
type DestinationsResponse struct {
	Suggestions []DestinationSuggestion `json:"suggestions"`
}

// ActivitiesResponse wraps activity suggestions.
type ActivitiesResponse struct {
	Suggestions []ActivitySuggestion `json:"suggestions"`
}

// SuggestionsResponse is the suggestion bundle cached on a trip.
type SuggestionsResponse struct {
	Activities   []ActivitySuggestion     `json:"activities"`
	Personalized []PersonalizedSuggestion `json:"personalized,omitempty"`
	GeneratedAt  time.Time                `json:"generated_at"`
}

// ============================================================================
// Realtime Types
// ============================================================================

// Event is a structured message pushed on a trip's live channel.
type Event struct {
	Type        string               `json:"type"`
	TripID      string               `json:"trip_id"`
	Trip        *TripResponse        `json:"trip,omitempty"`
	Activity    *ActivityResponse    `json:"activity,omitempty"`
	Invitation  *InvitationResponse  `json:"invitation,omitempty"`
	UserID      string               `json:"user_id,omitempty"`
	Suggestions *SuggestionsResponse `json:"suggestions,omitempty"`
	At          time.Time            `json:"at"`
}
