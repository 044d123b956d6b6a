package service

import (
	"context"
	"errors"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/asinan007/tripping/internal/trip/domain"
	"github.com/asinan007/tripping/internal/trip/store"
	"github.com/asinan007/tripping/pkg/cryptox"
	"github.com/asinan007/tripping/pkg/idx"
	"github.com/asinan007/tripping/pkg/slogx"
)

const maxInviteMessage = 2000

// MembershipService owns who may view a trip and the invitation lifecycle.
type MembershipService struct {
	Store  store.Store
	Events Publisher
}

// RespondResult is the outcome of answering an invitation. Trip is set only
// for an accepted invitation.
type RespondResult struct {
	Status domain.InvitationStatus
	Trip   *domain.Trip
}

// JoinResult is the outcome of joining through a share link.
type JoinResult struct {
	Trip          domain.Trip
	AlreadyMember bool
}

// viewableTrip loads tripID and checks userID participates in it. Absent and
// forbidden trips both yield ErrTripNotFound.
func viewableTrip(ctx context.Context, trips store.Trips, tripID, userID string) (domain.Trip, error) {
	trip, err := trips.GetTrip(ctx, tripID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Trip{}, ErrTripNotFound
		}
		slogx.FromContext(ctx).Error("failed to fetch trip",
			slog.String("trip_id", tripID),
			slog.Any("error", err),
		)
		return domain.Trip{}, err
	}
	if !trip.HasParticipant(userID) {
		slogx.FromContext(ctx).Warn("trip access denied",
			slog.String("trip_id", tripID),
			slog.String("user_id", userID),
		)
		return domain.Trip{}, ErrTripNotFound
	}
	return trip, nil
}

// CanView reports whether userID participates in tripID.
func (s *MembershipService) CanView(ctx context.Context, tripID, userID string) (bool, error) {
	_, err := viewableTrip(ctx, s.Store.Trips(), tripID, userID)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrTripNotFound):
		return false, nil
	default:
		return false, err
	}
}

// CanDelete reports whether userID created tripID.
func (s *MembershipService) CanDelete(ctx context.Context, tripID, userID string) (bool, error) {
	return canDelete(ctx, s.Store.Trips(), tripID, userID)
}

// canDelete is the deletion rule shared by CanDelete and TripService.DeleteTrip.
// Only the creator may delete; an absent trip is simply not deletable.
func canDelete(ctx context.Context, trips store.Trips, tripID, userID string) (bool, error) {
	trip, err := trips.GetTrip(ctx, tripID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return userID != "" && trip.CreatorID == userID, nil
}

// Invite creates a pending invitation for email. The raw invite token is
// returned once; only its fingerprint is stored.
func (s *MembershipService) Invite(
	ctx context.Context,
	tripID string,
	inviterID string,
	email string,
	message string,
) (domain.Invitation, string, error) {
	log := slogx.FromContext(ctx)

	// 1. Validate input
	email = domain.NormalizeEmail(email)
	message = strings.TrimSpace(message)
	if _, err := mail.ParseAddress(email); err != nil || len(message) > maxInviteMessage {
		return domain.Invitation{}, "", ErrInvalidRequest
	}

	// 2. Only participants may invite
	if _, err := viewableTrip(ctx, s.Store.Trips(), tripID, inviterID); err != nil {
		return domain.Invitation{}, "", err
	}

	// 3. At most one active invitation per (trip, email)
	_, err := s.Store.Invitations().FindActiveInvitation(ctx, tripID, email)
	switch {
	case err == nil:
		log.Info("duplicate invitation rejected",
			slog.String("trip_id", tripID),
			slog.String("invitee_email", email),
		)
		return domain.Invitation{}, "", ErrDuplicateInvitation
	case !errors.Is(err, store.ErrNotFound):
		log.Error("failed to look up active invitation", slog.Any("error", err))
		return domain.Invitation{}, "", err
	}

	// 4. Mint the token and store its fingerprint
	token, err := cryptox.InviteToken()
	if err != nil {
		log.Error("failed to generate invite token", slog.Any("error", err))
		return domain.Invitation{}, "", err
	}

	now := time.Now().UTC()
	inv := domain.Invitation{
		ID:           idx.NewAt(now).String(),
		TripID:       tripID,
		InviterID:    inviterID,
		InviteeEmail: email,
		Message:      message,
		Status:       domain.InvitationPending,
		TokenHash:    cryptox.FingerprintToken(token),
		CreatedAt:    now,
	}

	// The unique index closes the window between the check above and here.
	if err := s.Store.Invitations().CreateInvitation(ctx, inv); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Invitation{}, "", ErrDuplicateInvitation
		}
		log.Error("failed to create invitation",
			slog.String("invitation_id", inv.ID),
			slog.Any("error", err),
		)
		return domain.Invitation{}, "", err
	}

	log.Info("invitation created",
		slog.String("invitation_id", inv.ID),
		slog.String("trip_id", tripID),
		slog.String("inviter_id", inviterID),
	)

	s.Events.Publish(ctx, tripID, domain.Event{
		Type:       domain.EventInvitationCreated,
		TripID:     tripID,
		Invitation: &inv,
		At:         now,
	})

	return inv, token, nil
}

// Respond answers a pending invitation addressed to the caller's email.
// A second response to the same invitation fails with ErrInvitationNotFound.
func (s *MembershipService) Respond(
	ctx context.Context,
	invitationID string,
	caller Caller,
	action domain.InviteAction,
) (RespondResult, error) {
	log := slogx.FromContext(ctx)

	if !action.Valid() {
		return RespondResult{}, ErrInvalidRequest
	}

	inv, err := s.Store.Invitations().GetInvitation(ctx, invitationID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return RespondResult{}, ErrInvitationNotFound
		}
		log.Error("failed to fetch invitation", slog.Any("error", err))
		return RespondResult{}, err
	}
	if inv.Status != domain.InvitationPending || inv.InviteeEmail != domain.NormalizeEmail(caller.Email) {
		log.Warn("invitation response rejected",
			slog.String("invitation_id", invitationID),
			slog.String("status", string(inv.Status)),
		)
		return RespondResult{}, ErrInvitationNotFound
	}

	if action == domain.ActionReject {
		err := s.Store.Invitations().ResolveInvitation(ctx, inv.ID, domain.InvitationRejected, time.Now().UTC())
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return RespondResult{}, ErrInvitationNotFound
			}
			log.Error("failed to reject invitation", slog.Any("error", err))
			return RespondResult{}, err
		}
		log.Info("invitation rejected", slog.String("invitation_id", inv.ID))
		return RespondResult{Status: domain.InvitationRejected}, nil
	}

	trip, err := s.accept(ctx, inv, caller.UserID)
	if err != nil {
		return RespondResult{}, err
	}
	return RespondResult{Status: domain.InvitationAccepted, Trip: &trip}, nil
}

// AcceptByToken accepts the pending invitation identified by its raw token.
func (s *MembershipService) AcceptByToken(ctx context.Context, token, userID string) (domain.Trip, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.Trip{}, ErrInvitationNotFound
	}

	inv, err := s.Store.Invitations().GetInvitationByTokenHash(ctx, cryptox.FingerprintToken(token))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			slogx.FromContext(ctx).Warn("invitation accept with unknown token")
			return domain.Trip{}, ErrInvitationNotFound
		}
		return domain.Trip{}, err
	}
	if inv.Status != domain.InvitationPending {
		return domain.Trip{}, ErrInvitationNotFound
	}

	return s.accept(ctx, inv, userID)
}

// accept resolves inv and adds userID to the trip in one transaction, then
// announces the new participant.
func (s *MembershipService) accept(ctx context.Context, inv domain.Invitation, userID string) (domain.Trip, error) {
	log := slogx.FromContext(ctx)
	now := time.Now().UTC()

	var (
		trip  domain.Trip
		added bool
	)
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Invitations().ResolveInvitation(ctx, inv.ID, domain.InvitationAccepted, now); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrInvitationNotFound
			}
			return err
		}

		var err error
		added, err = tx.Trips().AddParticipant(ctx, inv.TripID, userID, now)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrTripNotFound
			}
			return err
		}

		trip, err = tx.Trips().GetTrip(ctx, inv.TripID)
		if errors.Is(err, store.ErrNotFound) {
			return ErrTripNotFound
		}
		return err
	})
	if err != nil {
		if !errors.Is(err, ErrInvitationNotFound) && !errors.Is(err, ErrTripNotFound) {
			log.Error("failed to accept invitation",
				slog.String("invitation_id", inv.ID),
				slog.Any("error", err),
			)
		}
		return domain.Trip{}, err
	}

	log.Info("invitation accepted",
		slog.String("invitation_id", inv.ID),
		slog.String("trip_id", inv.TripID),
		slog.String("user_id", userID),
		slog.Bool("added", added),
	)

	if added {
		s.publishJoined(ctx, trip, userID, now)
	}
	return trip, nil
}

// ShareLink returns the trip's share token, creating it on first use.
// Concurrent first calls agree on a single token.
func (s *MembershipService) ShareLink(ctx context.Context, tripID, userID string) (string, error) {
	log := slogx.FromContext(ctx)

	trip, err := viewableTrip(ctx, s.Store.Trips(), tripID, userID)
	if err != nil {
		return "", err
	}
	if trip.ShareToken != "" {
		return trip.ShareToken, nil
	}

	candidate, err := cryptox.ShareToken()
	if err != nil {
		log.Error("failed to generate share token", slog.Any("error", err))
		return "", err
	}

	token, err := s.Store.Trips().SetShareTokenIfAbsent(ctx, tripID, candidate, time.Now().UTC())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrTripNotFound
		}
		log.Error("failed to store share token", slog.Any("error", err))
		return "", err
	}

	if token == candidate {
		log.Info("share link created", slog.String("trip_id", tripID))
	}
	return token, nil
}

// JoinByShareLink adds userID to the trip holding token. Joining a trip the
// user already participates in succeeds without changes.
func (s *MembershipService) JoinByShareLink(ctx context.Context, token, userID string) (JoinResult, error) {
	log := slogx.FromContext(ctx)

	token = strings.TrimSpace(token)
	if token == "" {
		return JoinResult{}, ErrInvalidShareLink
	}

	trip, err := s.Store.Trips().GetTripByShareToken(ctx, token)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Warn("join with unknown share token")
			return JoinResult{}, ErrInvalidShareLink
		}
		return JoinResult{}, err
	}
	if trip.HasParticipant(userID) {
		return JoinResult{Trip: trip, AlreadyMember: true}, nil
	}

	now := time.Now().UTC()
	added, err := s.Store.Trips().AddParticipant(ctx, trip.ID, userID, now)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return JoinResult{}, ErrInvalidShareLink
		}
		log.Error("failed to add participant", slog.Any("error", err))
		return JoinResult{}, err
	}

	trip, err = s.Store.Trips().GetTrip(ctx, trip.ID)
	if err != nil {
		return JoinResult{}, err
	}

	if added {
		log.Info("joined trip by share link",
			slog.String("trip_id", trip.ID),
			slog.String("user_id", userID),
		)
		s.publishJoined(ctx, trip, userID, now)
	}
	return JoinResult{Trip: trip, AlreadyMember: !added}, nil
}

// ListTripInvitations returns every invitation of a trip the caller can view.
func (s *MembershipService) ListTripInvitations(ctx context.Context, tripID, userID string) ([]domain.Invitation, error) {
	if _, err := viewableTrip(ctx, s.Store.Trips(), tripID, userID); err != nil {
		return nil, err
	}
	return s.Store.Invitations().ListTripInvitations(ctx, tripID)
}

// ListMyInvitations returns pending invitations addressed to email.
func (s *MembershipService) ListMyInvitations(ctx context.Context, email string) ([]domain.Invitation, error) {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return nil, nil
	}
	return s.Store.Invitations().ListPendingInvitations(ctx, email)
}

func (s *MembershipService) publishJoined(ctx context.Context, trip domain.Trip, userID string, at time.Time) {
	s.Events.Publish(ctx, trip.ID, domain.Event{
		Type:   domain.EventParticipantJoined,
		TripID: trip.ID,
		Trip:   &trip,
		UserID: userID,
		At:     at,
	})
}
