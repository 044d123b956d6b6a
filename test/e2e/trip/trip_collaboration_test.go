package trip_test

import (
	"testing"
	"time"

	"github.com/asinan007/tripping/pkg/tripsdk"
	"github.com/stretchr/testify/require"
)

// TestInviteAcceptAndCollaborate tests the complete flow:
// 1. Ana creates a trip and invites Bob
// 2. Bob sees the invitation and accepts it
// 3. Both can add to the itinerary
// 4. Only Ana can delete the trip
func TestInviteAcceptAndCollaborate(t *testing.T) {
	baseURL, cleanup := setupTripContainer(t)
	defer cleanup()

	client := tripsdk.NewSDKClient(baseURL)
	ctx := t.Context()

	ana := login(t, client, "Ana", "ana@example.com")
	bob := login(t, client, "Bob", "bob@example.com")

	trip, err := ana.CreateTrip(ctx, tripsdk.TripRequest{Title: "Spring in Japan", Destination: "Tokyo, Japan"})
	require.NoError(t, err)
	// Suggestions are disabled in the container
	require.Nil(t, trip.Suggestions)

	_, err = bob.GetTrip(ctx, trip.ID)
	assertAPIError(t, err, tripsdk.ErrNotFound)

	inv, err := ana.Invite(ctx, trip.ID, tripsdk.InviteRequest{Email: "bob@example.com", Message: "join us"})
	require.NoError(t, err)
	t.Logf("Invitation %s created", inv.ID)

	_, err = ana.Invite(ctx, trip.ID, tripsdk.InviteRequest{Email: "bob@example.com"})
	assertAPIError(t, err, tripsdk.ErrDuplicateInvitation)

	mine, err := bob.ListMyInvitations(ctx)
	require.NoError(t, err)
	require.Len(t, mine.Invitations, 1)

	resp, err := bob.Respond(ctx, inv.ID, "accept")
	require.NoError(t, err)
	require.Equal(t, "accepted", resp.Status)

	_, err = bob.AddActivity(ctx, trip.ID, tripsdk.ActivityRequest{Name: "Tsukiji breakfast", Day: 1})
	require.NoError(t, err)
	_, err = ana.AddActivity(ctx, trip.ID, tripsdk.ActivityRequest{Name: "Senso-ji", Day: 1})
	require.NoError(t, err)

	itinerary, err := ana.ListItinerary(ctx, trip.ID)
	require.NoError(t, err)
	require.Len(t, itinerary.Entries, 2)
	require.Equal(t, "Tsukiji breakfast", itinerary.Entries[0].Name)

	err = bob.DeleteTrip(ctx, trip.ID)
	assertAPIError(t, err, tripsdk.ErrNotFound)
	require.NoError(t, ana.DeleteTrip(ctx, trip.ID))

	list, err := bob.ListTrips(ctx)
	require.NoError(t, err)
	require.Empty(t, list.Trips)
}

// TestShareLinkAndLiveUpdates joins through a share link while the creator
// watches the trip's live channel.
func TestShareLinkAndLiveUpdates(t *testing.T) {
	baseURL, cleanup := setupTripContainer(t)
	defer cleanup()

	client := tripsdk.NewSDKClient(baseURL)
	ctx := t.Context()

	ana := login(t, client, "Ana", "ana@example.com")
	bob := login(t, client, "Bob", "bob@example.com")

	trip, err := ana.CreateTrip(ctx, tripsdk.TripRequest{Title: "Lisbon"})
	require.NoError(t, err)

	link, err := ana.ShareLink(ctx, trip.ID)
	require.NoError(t, err)

	_, err = bob.Subscribe(ctx, trip.ID)
	require.Error(t, err, "non-participants cannot subscribe")

	sub, err := ana.Subscribe(ctx, trip.ID)
	require.NoError(t, err)
	defer sub.Close()

	// The hub registers the subscription just after the handshake completes
	time.Sleep(200 * time.Millisecond)

	joined, err := bob.JoinByShareLink(ctx, link.ShareToken)
	require.NoError(t, err)
	require.False(t, joined.AlreadyMember)

	_, err = bob.AddActivity(ctx, trip.ID, tripsdk.ActivityRequest{Name: "Tram 28"})
	require.NoError(t, err)

	var seen []string
	for {
		ev, err := sub.NextEvent(5 * time.Second)
		require.NoError(t, err)
		seen = append(seen, ev.Type)
		if ev.Type == tripsdk.EventActivityAdded {
			require.Equal(t, "Tram 28", ev.Activity.Name)
			break
		}
	}
	require.Contains(t, seen, tripsdk.EventParticipantJoined)
}

// TestSuggestionEndpointsDisabled verifies suggestions degrade to empty
// results when no provider is configured.
func TestSuggestionEndpointsDisabled(t *testing.T) {
	baseURL, cleanup := setupTripContainer(t)
	defer cleanup()

	client := tripsdk.NewSDKClient(baseURL)
	ana := login(t, client, "Ana", "ana@example.com")

	dest, err := ana.SuggestDestinations(t.Context(), "quiet beaches")
	require.NoError(t, err)
	require.Empty(t, dest.Suggestions)

	acts, err := ana.SuggestActivities(t.Context(), "Lisbon")
	require.NoError(t, err)
	require.Empty(t, acts.Suggestions)
}
