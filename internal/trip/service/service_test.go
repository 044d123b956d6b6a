package service

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/asinan007/tripping/internal/trip/ai"
	"github.com/asinan007/tripping/internal/trip/domain"
	"github.com/asinan007/tripping/internal/trip/store/drivers/sqlite"
	"github.com/asinan007/tripping/pkg/jwtx"
	"github.com/asinan007/tripping/pkg/slogx"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

// recorder is a Publisher that keeps every event per trip.
type recorder struct {
	mu     sync.Mutex
	events map[string][]domain.Event
}

func newRecorder() *recorder {
	return &recorder{events: make(map[string][]domain.Event)}
}

func (r *recorder) Publish(_ context.Context, tripID string, event any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events[tripID] = append(r.events[tripID], event.(domain.Event))
}

func (r *recorder) For(tripID string) []domain.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Event(nil), r.events[tripID]...)
}

func (r *recorder) Types(tripID string) []domain.EventType {
	var out []domain.EventType
	for _, e := range r.For(tripID) {
		out = append(out, e.Type)
	}
	return out
}

// fakeProvider returns canned suggestions or err.
type fakeProvider struct {
	err        error
	delay      time.Duration
	activities []domain.ActivitySuggestion
	tips       []domain.PersonalizedSuggestion
}

func (f *fakeProvider) wait(ctx context.Context) error {
	if f.delay == 0 {
		return f.err
	}
	select {
	case <-time.After(f.delay):
		return f.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *fakeProvider) SuggestDestinations(ctx context.Context, _ string) ([]domain.DestinationSuggestion, error) {
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	return []domain.DestinationSuggestion{{Name: "Kyoto", Country: "Japan"}}, nil
}

func (f *fakeProvider) SuggestActivities(ctx context.Context, _ string) ([]domain.ActivitySuggestion, error) {
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	return f.activities, nil
}

func (f *fakeProvider) SuggestPersonalized(ctx context.Context, _ string) ([]domain.PersonalizedSuggestion, error) {
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	return f.tips, nil
}

func (f *fakeProvider) Name() string { return "fake" }

var _ ai.Provider = (*fakeProvider)(nil)

type fixture struct {
	store      *sqlite.Store
	events     *recorder
	provider   *fakeProvider
	auth       *AuthService
	membership *MembershipService
	trips      *TripService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	st, err := sqlite.NewStore(filepath.Join(t.TempDir(), "trip.db"))
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	tokens, err := jwtx.NewHS256(testSecret, "tripping-test")
	require.NoError(t, err)

	events := newRecorder()
	provider := &fakeProvider{
		activities: []domain.ActivitySuggestion{{Name: "Senso-ji", Category: "cultural"}},
		tips:       []domain.PersonalizedSuggestion{{Title: "Get a Suica card", Priority: "high"}},
	}

	return &fixture{
		store:      st,
		events:     events,
		provider:   provider,
		auth:       &AuthService{Store: st, Signer: tokens, Verifier: tokens, Issuer: "tripping-test", TTL: time.Hour},
		membership: &MembershipService{Store: st, Events: events},
		trips: &TripService{
			Store:         st,
			Events:        events,
			Suggestions:   provider,
			EnrichTimeout: time.Second,
		},
	}
}

// login creates (or refreshes) a user and returns the caller identity.
func (f *fixture) login(t *testing.T, name, email string) Caller {
	t.Helper()
	sess, err := f.auth.SocialLogin(context.Background(), SocialProfile{Name: name, Email: email, Provider: "google"})
	require.NoError(t, err)
	return Caller{UserID: sess.User.ID, Email: sess.User.Email}
}

func (f *fixture) createTrip(t *testing.T, owner Caller) domain.Trip {
	t.Helper()
	trip, err := f.trips.CreateTrip(context.Background(), owner.UserID, domain.TripDetails{
		Title:       "Spring in Japan",
		Description: "Cherry blossoms and ramen",
		Destination: "Tokyo, Japan",
	})
	require.NoError(t, err)
	return trip
}

var errProvider = errors.New("provider down")

func discardLogger() *slog.Logger { return slogx.Discard() }
