package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/asinan007/tripping/internal/trip/ai"
	"github.com/asinan007/tripping/internal/trip/domain"
	"github.com/asinan007/tripping/pkg/slogx"
)

// SuggestionService answers standalone suggestion queries. Provider failures
// degrade to an empty list.
type SuggestionService struct {
	Provider ai.Provider
	Timeout  time.Duration
}

func (s *SuggestionService) Destinations(ctx context.Context, preferences string) []domain.DestinationSuggestion {
	preferences = strings.TrimSpace(preferences)
	if preferences == "" || s.Provider == nil {
		return nil
	}
	ctx, cancel := s.bound(ctx)
	defer cancel()

	out, err := s.Provider.SuggestDestinations(ctx, preferences)
	if err != nil {
		slogx.FromContext(ctx).Warn("destination suggestions failed", slog.Any("error", err))
		return nil
	}
	return out
}

func (s *SuggestionService) Activities(ctx context.Context, destination string) []domain.ActivitySuggestion {
	destination = strings.TrimSpace(destination)
	if destination == "" || s.Provider == nil {
		return nil
	}
	ctx, cancel := s.bound(ctx)
	defer cancel()

	out, err := s.Provider.SuggestActivities(ctx, destination)
	if err != nil {
		slogx.FromContext(ctx).Warn("activity suggestions failed", slog.Any("error", err))
		return nil
	}
	return out
}

func (s *SuggestionService) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.Timeout)
}
