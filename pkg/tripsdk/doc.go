/*
Package tripsdk provides the wire types and a client SDK for the Tripping
collaborative trip-planning service.

# SDKClient vs Session

SDKClient talks to public endpoints and performs the social login exchange:

	client := tripsdk.NewSDKClient("http://localhost:8080")
	session, err := client.SocialLogin(ctx, tripsdk.SocialLoginRequest{
		Name:     "Alice",
		Email:    "alice@example.com",
		Provider: "google",
	})

Session carries the bearer token and exposes the authenticated operations:

	trip, err := session.CreateTrip(ctx, tripsdk.TripRequest{
		Title:       "Spring in Japan",
		Destination: "Tokyo, Japan",
	})
	invite, err := session.Invite(ctx, trip.ID, tripsdk.InviteRequest{Email: "bob@example.com"})

# Live updates

Subscribe opens the per-trip WebSocket channel. Events arrive as JSON objects
with at least a "type" field; text sent with Relay is passed verbatim to every
other viewer of the trip.

	sub, err := session.Subscribe(ctx, trip.ID)
	defer sub.Close()
	ev, err := sub.Next()

# Errors

Non-2xx responses are returned as *APIError carrying the HTTP status and the
service error code (for example "not_found" or "duplicate_invitation").
*/
package tripsdk
