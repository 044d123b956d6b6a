package tripsdk

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/websocket"
)

// Event types pushed on a trip channel.
const (
	EventTripCreated        = "trip_created"
	EventTripUpdated        = "trip_updated"
	EventTripDeleted        = "trip_deleted"
	EventActivityAdded      = "activity_added"
	EventParticipantJoined  = "participant_joined"
	EventInvitationCreated  = "invitation_created"
	EventSuggestionsUpdated = "suggestions_updated"
)

// Subscription is a live connection to one trip's channel.
type Subscription struct {
	conn *websocket.Conn
}

// Subscribe opens the live channel of tripID. The caller must be a
// participant of the trip.
func (s *Session) Subscribe(ctx context.Context, tripID string) (*Subscription, error) {
	origin := s.client.BaseURL
	wsURL := strings.Replace(origin, "http", "ws", 1) +
		"/ws/" + url.PathEscape(tripID) +
		"?access_token=" + url.QueryEscape(s.accessToken)

	cfg, err := websocket.NewConfig(wsURL, origin)
	if err != nil {
		return nil, fmt.Errorf("failed to build websocket config: %w", err)
	}
	conn, err := cfg.DialContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to dial websocket: %w", err)
	}
	return &Subscription{conn: conn}, nil
}

// Next blocks until the next message arrives and returns it verbatim.
// A zero timeout waits forever.
func (sub *Subscription) Next(timeout time.Duration) (string, error) {
	var deadline time.Time
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}
	if err := sub.conn.SetReadDeadline(deadline); err != nil {
		return "", err
	}
	var msg string
	if err := websocket.Message.Receive(sub.conn, &msg); err != nil {
		return "", err
	}
	return msg, nil
}

// NextEvent reads the next message and decodes it as an Event.
func (sub *Subscription) NextEvent(timeout time.Duration) (*Event, error) {
	msg, err := sub.Next(timeout)
	if err != nil {
		return nil, err
	}
	var ev Event
	if err := json.Unmarshal([]byte(msg), &ev); err != nil {
		return nil, fmt.Errorf("failed to decode event: %w", err)
	}
	return &ev, nil
}

// Relay sends text to every other viewer of the trip.
func (sub *Subscription) Relay(text string) error {
	return websocket.Message.Send(sub.conn, text)
}

// Close closes the channel.
func (sub *Subscription) Close() error {
	return sub.conn.Close()
}
