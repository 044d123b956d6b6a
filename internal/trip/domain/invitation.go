package domain

import "time"

type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationRejected InvitationStatus = "rejected"
)

// Active reports whether the status blocks a new invitation for the same
// trip and email.
func (s InvitationStatus) Active() bool {
	return s == InvitationPending || s == InvitationAccepted
}

// Invitation is an email-targeted request to join a trip. Transitions are
// one way: pending to accepted or pending to rejected. Invitations are never
// deleted.
type Invitation struct {
	ID           string           `json:"id"`
	TripID       string           `json:"trip_id"`
	InviterID    string           `json:"inviter_id"`
	InviteeEmail string           `json:"invitee_email"`
	Message      string           `json:"message,omitempty"`
	Status       InvitationStatus `json:"status"`
	TokenHash    string           `json:"-"`
	CreatedAt    time.Time        `json:"created_at"`
	RespondedAt  *time.Time       `json:"responded_at,omitempty"`
}

// InviteAction is the invitee's answer to an invitation.
type InviteAction string

const (
	ActionAccept InviteAction = "accept"
	ActionReject InviteAction = "reject"
)

func (a InviteAction) Valid() bool {
	return a == ActionAccept || a == ActionReject
}
