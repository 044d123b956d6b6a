// Package ai produces destination, activity and trip-specific suggestions
// from a generative model.
//
// Callers treat an empty result as "no suggestions available". Providers
// return an error only when the upstream call itself failed; a reply that
// cannot be parsed degrades to a small static list instead.
package ai

import (
	"context"

	"github.com/asinan007/tripping/internal/trip/domain"
)

const (
	MaxDestinations = 5
	MaxActivities   = 8
	MaxPersonalized = 6
)

// Provider is the suggestion capability consumed by the trip services.
type Provider interface {
	SuggestDestinations(ctx context.Context, preferences string) ([]domain.DestinationSuggestion, error)
	SuggestActivities(ctx context.Context, destination string) ([]domain.ActivitySuggestion, error)
	SuggestPersonalized(ctx context.Context, tripContext string) ([]domain.PersonalizedSuggestion, error)

	// Name identifies the provider in health output.
	Name() string
}

// Disabled is used when no model credentials are configured. Every call
// returns an empty list.
type Disabled struct{}

func (Disabled) SuggestDestinations(context.Context, string) ([]domain.DestinationSuggestion, error) {
	return nil, nil
}

func (Disabled) SuggestActivities(context.Context, string) ([]domain.ActivitySuggestion, error) {
	return nil, nil
}

func (Disabled) SuggestPersonalized(context.Context, string) ([]domain.PersonalizedSuggestion, error) {
	return nil, nil
}

func (Disabled) Name() string { return "disabled" }

// Fallback lists returned when the model answers with something that is not
// the JSON we asked for.

func fallbackDestinations() []domain.DestinationSuggestion {
	return []domain.DestinationSuggestion{{
		Name:          "Tokyo",
		Country:       "Japan",
		Description:   "A vibrant metropolis blending traditional culture with modern innovation. Experience world-class cuisine, historic temples, and bustling city life.",
		BestTime:      "March-May and September-November",
		KeyActivities: []string{"Temple visits", "Sushi experiences", "Shopping in Shibuya"},
		BudgetRange:   "$1500-3000 per person",
	}}
}

func fallbackActivities() []domain.ActivitySuggestion {
	return []domain.ActivitySuggestion{{
		Name:        "Local Food Tour",
		Description: "Explore authentic local cuisine with a guided food tour",
		Category:    "food",
		Duration:    "3-4 hours",
		Cost:        "$50-80",
		BestTime:    "Evening",
	}}
}

func fallbackPersonalized() []domain.PersonalizedSuggestion {
	return []domain.PersonalizedSuggestion{{
		Title:       "Book popular spots early",
		Description: "Reserve timed-entry attractions and well known restaurants a few weeks ahead.",
		Category:    "planning",
		Priority:    "medium",
		Relevance:   "Applies to most destinations during peak season",
	}}
}
