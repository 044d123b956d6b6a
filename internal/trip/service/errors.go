package service

import (
	"context"
	"errors"
)

var (
	ErrInvalidRequest         = errors.New("invalid request")
	ErrUnauthenticated        = errors.New("unauthenticated")
	ErrTripNotFound           = errors.New("trip not found")
	ErrDuplicateInvitation    = errors.New("an active invitation already exists for this email")
	ErrInvitationNotFound     = errors.New("invitation not found or already resolved")
	ErrInvalidShareLink       = errors.New("invalid share link")
	ErrSuggestionsUnavailable = errors.New("suggestions unavailable")
)

// Publisher delivers an event to the live viewers of a trip. Delivery is
// best effort: Publish never fails the caller.
type Publisher interface {
	Publish(ctx context.Context, tripID string, event any)
}

// Caller is the resolved identity behind a request.
type Caller struct {
	UserID string
	Email  string
}
