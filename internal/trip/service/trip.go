package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/asinan007/tripping/internal/trip/ai"
	"github.com/asinan007/tripping/internal/trip/domain"
	"github.com/asinan007/tripping/internal/trip/store"
	"github.com/asinan007/tripping/pkg/idx"
	"github.com/asinan007/tripping/pkg/slogx"
)

const (
	maxTitleLen       = 200
	maxDescriptionLen = 5000

	// DefaultEnrichTimeout bounds the suggestion call made after a trip is
	// created.
	DefaultEnrichTimeout = 10 * time.Second
)

// TripService coordinates trip mutations: it checks membership, persists the
// change and then notifies live viewers. Notification never undoes a
// persisted change.
type TripService struct {
	Store         store.Store
	Events        Publisher
	Suggestions   ai.Provider
	EnrichTimeout time.Duration
}

func validateDetails(d domain.TripDetails) (domain.TripDetails, error) {
	d.Title = strings.TrimSpace(d.Title)
	d.Description = strings.TrimSpace(d.Description)
	d.Destination = strings.TrimSpace(d.Destination)

	switch {
	case d.Title == "", len(d.Title) > maxTitleLen:
		return d, fmt.Errorf("%w: title is required and at most %d characters", ErrInvalidRequest, maxTitleLen)
	case len(d.Description) > maxDescriptionLen:
		return d, fmt.Errorf("%w: description is too long", ErrInvalidRequest)
	case d.StartDate != nil && d.EndDate != nil && d.EndDate.Before(*d.StartDate):
		return d, fmt.Errorf("%w: end_date is before start_date", ErrInvalidRequest)
	}
	return d, nil
}

// CreateTrip persists a trip with the creator as its only participant,
// announces it, and then tries to attach activity suggestions for its
// destination. Enrichment failures are logged and otherwise ignored.
func (s *TripService) CreateTrip(ctx context.Context, userID string, d domain.TripDetails) (domain.Trip, error) {
	log := slogx.FromContext(ctx)

	d, err := validateDetails(d)
	if err != nil {
		return domain.Trip{}, err
	}

	now := time.Now().UTC()
	trip := domain.Trip{
		ID:           idx.NewAt(now).String(),
		Title:        d.Title,
		Description:  d.Description,
		Destination:  d.Destination,
		StartDate:    d.StartDate,
		EndDate:      d.EndDate,
		CreatorID:    userID,
		Participants: []string{userID},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		return tx.Trips().CreateTrip(ctx, trip)
	})
	if err != nil {
		log.Error("failed to create trip", slog.Any("error", err))
		return domain.Trip{}, err
	}

	log.Info("trip created",
		slog.String("trip_id", trip.ID),
		slog.String("creator_id", userID),
	)

	created := trip
	s.Events.Publish(ctx, trip.ID, domain.Event{
		Type:   domain.EventTripCreated,
		TripID: trip.ID,
		Trip:   &created,
		At:     now,
	})

	if bundle, ok := s.enrich(ctx, trip); ok {
		trip.Suggestions = &bundle
	}
	return trip, nil
}

func (s *TripService) enrich(ctx context.Context, trip domain.Trip) (domain.SuggestionBundle, bool) {
	if trip.Destination == "" || s.Suggestions == nil {
		return domain.SuggestionBundle{}, false
	}
	log := slogx.FromContext(ctx).With(slog.String("trip_id", trip.ID))

	timeout := s.EnrichTimeout
	if timeout <= 0 {
		timeout = DefaultEnrichTimeout
	}
	ectx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	activities, err := s.Suggestions.SuggestActivities(ectx, trip.Destination)
	if err != nil {
		log.Warn("trip enrichment failed", slog.Any("error", err))
		return domain.SuggestionBundle{}, false
	}

	bundle := domain.SuggestionBundle{Activities: activities, GeneratedAt: time.Now().UTC()}
	if bundle.Empty() {
		return domain.SuggestionBundle{}, false
	}
	if err := s.Store.Trips().SetSuggestions(ctx, trip.ID, bundle, bundle.GeneratedAt); err != nil {
		log.Warn("failed to cache trip suggestions", slog.Any("error", err))
		return domain.SuggestionBundle{}, false
	}
	return bundle, true
}

// ListTrips returns the trips userID participates in, newest first.
func (s *TripService) ListTrips(ctx context.Context, userID string) ([]domain.Trip, error) {
	return s.Store.Trips().ListTripsForUser(ctx, userID)
}

func (s *TripService) GetTrip(ctx context.Context, tripID, userID string) (domain.Trip, error) {
	return viewableTrip(ctx, s.Store.Trips(), tripID, userID)
}

// UpdateTrip replaces the editable fields of a trip the caller can view.
func (s *TripService) UpdateTrip(ctx context.Context, tripID, userID string, d domain.TripDetails) (domain.Trip, error) {
	log := slogx.FromContext(ctx)

	d, err := validateDetails(d)
	if err != nil {
		return domain.Trip{}, err
	}
	if _, err := viewableTrip(ctx, s.Store.Trips(), tripID, userID); err != nil {
		return domain.Trip{}, err
	}

	now := time.Now().UTC()
	if err := s.Store.Trips().UpdateTripDetails(ctx, tripID, d, now); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Trip{}, ErrTripNotFound
		}
		log.Error("failed to update trip", slog.Any("error", err))
		return domain.Trip{}, err
	}

	trip, err := s.Store.Trips().GetTrip(ctx, tripID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Trip{}, ErrTripNotFound
		}
		return domain.Trip{}, err
	}

	log.Info("trip updated", slog.String("trip_id", tripID), slog.String("user_id", userID))
	s.Events.Publish(ctx, tripID, domain.Event{
		Type:   domain.EventTripUpdated,
		TripID: tripID,
		Trip:   &trip,
		At:     now,
	})
	return trip, nil
}

// DeleteTrip removes a trip. Only its creator may delete it; everyone else
// gets ErrTripNotFound. Invitations are kept.
func (s *TripService) DeleteTrip(ctx context.Context, tripID, userID string) error {
	log := slogx.FromContext(ctx)

	allowed, err := canDelete(ctx, s.Store.Trips(), tripID, userID)
	if err != nil {
		log.Error("failed to check trip ownership", slog.Any("error", err))
		return err
	}
	if !allowed {
		log.Warn("trip delete denied",
			slog.String("trip_id", tripID),
			slog.String("user_id", userID),
		)
		return ErrTripNotFound
	}

	if err := s.Store.Trips().DeleteTrip(ctx, tripID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrTripNotFound
		}
		log.Error("failed to delete trip", slog.Any("error", err))
		return err
	}

	log.Info("trip deleted", slog.String("trip_id", tripID))
	s.Events.Publish(ctx, tripID, domain.Event{
		Type:   domain.EventTripDeleted,
		TripID: tripID,
		UserID: userID,
		At:     time.Now().UTC(),
	})
	return nil
}

// AddActivity appends e to the trip itinerary and announces the full entry.
func (s *TripService) AddActivity(ctx context.Context, tripID, userID string, e domain.ItineraryEntry) (domain.ItineraryEntry, error) {
	log := slogx.FromContext(ctx)

	e.Name = strings.TrimSpace(e.Name)
	switch {
	case e.Name == "", len(e.Name) > maxTitleLen:
		return domain.ItineraryEntry{}, fmt.Errorf("%w: name is required", ErrInvalidRequest)
	case e.Day < 0:
		return domain.ItineraryEntry{}, fmt.Errorf("%w: day must be 1 or greater", ErrInvalidRequest)
	case e.Duration < 0:
		return domain.ItineraryEntry{}, fmt.Errorf("%w: duration must not be negative", ErrInvalidRequest)
	case e.Cost != nil && *e.Cost < 0:
		return domain.ItineraryEntry{}, fmt.Errorf("%w: cost must not be negative", ErrInvalidRequest)
	}

	if _, err := viewableTrip(ctx, s.Store.Trips(), tripID, userID); err != nil {
		return domain.ItineraryEntry{}, err
	}

	now := time.Now().UTC()
	e.ID = idx.NewAt(now).String()
	e.TripID = tripID
	e.AddedBy = userID
	e.AddedAt = now

	if err := s.Store.Itinerary().AppendEntry(ctx, e); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.ItineraryEntry{}, ErrTripNotFound
		}
		log.Error("failed to append itinerary entry", slog.Any("error", err))
		return domain.ItineraryEntry{}, err
	}

	log.Info("activity added",
		slog.String("trip_id", tripID),
		slog.String("entry_id", e.ID),
	)
	s.Events.Publish(ctx, tripID, domain.Event{
		Type:     domain.EventActivityAdded,
		TripID:   tripID,
		Activity: &e,
		At:       now,
	})
	return e, nil
}

// ListItinerary returns the itinerary in arrival order.
func (s *TripService) ListItinerary(ctx context.Context, tripID, userID string) ([]domain.ItineraryEntry, error) {
	if _, err := viewableTrip(ctx, s.Store.Trips(), tripID, userID); err != nil {
		return nil, err
	}
	return s.Store.Itinerary().ListEntries(ctx, tripID)
}

// RefreshSuggestions regenerates the cached suggestions of a trip. Unlike
// enrichment on creation, a provider failure is returned to the caller as
// ErrSuggestionsUnavailable. The newest bundle always wins.
func (s *TripService) RefreshSuggestions(ctx context.Context, tripID, userID string) (domain.SuggestionBundle, error) {
	log := slogx.FromContext(ctx)

	trip, err := viewableTrip(ctx, s.Store.Trips(), tripID, userID)
	if err != nil {
		return domain.SuggestionBundle{}, err
	}
	if s.Suggestions == nil {
		return domain.SuggestionBundle{}, ErrSuggestionsUnavailable
	}

	items, err := s.Store.Itinerary().ListEntries(ctx, tripID)
	if err != nil {
		return domain.SuggestionBundle{}, err
	}

	var bundle domain.SuggestionBundle
	bundle.Personalized, err = s.Suggestions.SuggestPersonalized(ctx, describeTrip(trip, items))
	if err != nil {
		log.Warn("personalized suggestions failed", slog.String("trip_id", tripID), slog.Any("error", err))
		return domain.SuggestionBundle{}, fmt.Errorf("%w: %v", ErrSuggestionsUnavailable, err)
	}
	if trip.Destination != "" {
		bundle.Activities, err = s.Suggestions.SuggestActivities(ctx, trip.Destination)
		if err != nil {
			log.Warn("activity suggestions failed", slog.String("trip_id", tripID), slog.Any("error", err))
			return domain.SuggestionBundle{}, fmt.Errorf("%w: %v", ErrSuggestionsUnavailable, err)
		}
	}
	bundle.GeneratedAt = time.Now().UTC()

	if err := s.Store.Trips().SetSuggestions(ctx, tripID, bundle, bundle.GeneratedAt); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.SuggestionBundle{}, ErrTripNotFound
		}
		log.Error("failed to cache suggestions", slog.Any("error", err))
		return domain.SuggestionBundle{}, err
	}

	s.Events.Publish(ctx, tripID, domain.Event{
		Type:        domain.EventSuggestionsUpdated,
		TripID:      tripID,
		Suggestions: &bundle,
		At:          bundle.GeneratedAt,
	})
	return bundle, nil
}

// describeTrip renders the context handed to the personalized prompt.
func describeTrip(trip domain.Trip, items []domain.ItineraryEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Title: %s\n", trip.Title)
	if trip.Destination != "" {
		fmt.Fprintf(&b, "Destination: %s\n", trip.Destination)
	}
	if trip.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", trip.Description)
	}
	if trip.StartDate != nil && trip.EndDate != nil {
		fmt.Fprintf(&b, "Dates: %s to %s\n", trip.StartDate.Format(time.DateOnly), trip.EndDate.Format(time.DateOnly))
	}
	fmt.Fprintf(&b, "Travellers: %d\n", len(trip.Participants))
	if len(items) > 0 {
		b.WriteString("Planned activities:\n")
		for _, it := range items {
			if it.Day > 0 {
				fmt.Fprintf(&b, "- Day %d: %s\n", it.Day, it.Name)
			} else {
				fmt.Fprintf(&b, "- %s\n", it.Name)
			}
		}
	}
	return b.String()
}
