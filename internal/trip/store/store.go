package store

import (
	"context"
	"errors"
	"time"

	"github.com/asinan007/tripping/internal/trip/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers implement it and
// expose sub-repositories; a Tx exposes the same repositories bound to one
// transaction.
type Store interface {
	Users() Users
	Trips() Trips
	Invitations() Invitations
	Itinerary() Itinerary

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction, committing when fn returns nil and
	// rolling back otherwise. Inside fn only the repositories of tx may be
	// used.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error

	// Optimize runs periodic database maintenance.
	Optimize(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// UpsertUser inserts u or, when a user with the same email exists,
	// refreshes its name and avatar. ID, email and provider of an existing
	// user are kept. The stored user is returned.
	UpsertUser(ctx context.Context, u domain.User) (domain.User, error)

	GetUserByID(ctx context.Context, id string) (domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)
}

type Trips interface {
	// CreateTrip inserts the trip and its initial participants.
	CreateTrip(ctx context.Context, t domain.Trip) error

	// GetTrip returns a trip with its participants in join order.
	GetTrip(ctx context.Context, id string) (domain.Trip, error)

	// GetTripByShareToken looks a trip up by its share token.
	GetTripByShareToken(ctx context.Context, token string) (domain.Trip, error)

	// ListTripsForUser returns the trips userID participates in, newest first.
	ListTripsForUser(ctx context.Context, userID string) ([]domain.Trip, error)

	// UpdateTripDetails replaces the editable fields and bumps updated_at.
	UpdateTripDetails(ctx context.Context, id string, d domain.TripDetails, now time.Time) error

	// DeleteTrip removes the trip, its participants and itinerary.
	DeleteTrip(ctx context.Context, id string) error

	// AddParticipant is a set-add: it reports false without error when
	// userID is already a participant.
	AddParticipant(ctx context.Context, tripID, userID string, now time.Time) (bool, error)

	// SetShareTokenIfAbsent stores token only when the trip has none and
	// returns whichever token is stored afterwards.
	SetShareTokenIfAbsent(ctx context.Context, tripID, token string, now time.Time) (string, error)

	// SetSuggestions overwrites the cached suggestion bundle.
	SetSuggestions(ctx context.Context, tripID string, b domain.SuggestionBundle, now time.Time) error
}

type Invitations interface {
	// CreateInvitation fails with ErrAlreadyExists when an active invitation
	// for the same trip and email exists.
	CreateInvitation(ctx context.Context, inv domain.Invitation) error

	GetInvitation(ctx context.Context, id string) (domain.Invitation, error)
	GetInvitationByTokenHash(ctx context.Context, hash string) (domain.Invitation, error)

	// FindActiveInvitation returns the pending or accepted invitation for
	// (tripID, email), if any.
	FindActiveInvitation(ctx context.Context, tripID, email string) (domain.Invitation, error)

	ListTripInvitations(ctx context.Context, tripID string) ([]domain.Invitation, error)
	ListPendingInvitations(ctx context.Context, email string) ([]domain.Invitation, error)

	// ResolveInvitation moves a pending invitation to status. It returns
	// ErrNotFound when the invitation does not exist or is no longer pending.
	ResolveInvitation(ctx context.Context, id string, status domain.InvitationStatus, now time.Time) error
}

type Itinerary interface {
	// AppendEntry adds e after every existing entry of its trip.
	AppendEntry(ctx context.Context, e domain.ItineraryEntry) error

	// ListEntries returns entries in arrival order.
	ListEntries(ctx context.Context, tripID string) ([]domain.ItineraryEntry, error)
}
