package http

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/websocket"

	"github.com/asinan007/tripping/internal/trip/realtime"
	"github.com/asinan007/tripping/internal/trip/service"
	"github.com/asinan007/tripping/pkg/httpx"
	"github.com/asinan007/tripping/pkg/slogx"
	"github.com/asinan007/tripping/pkg/tripsdk"
)

const maxRelayBytes = 64 << 10

// RealtimeHandler upgrades GET /ws/{tripId} to a WebSocket and keeps the
// connection subscribed to the trip until either side closes it. Text sent
// by the client is relayed verbatim to the other viewers.
type RealtimeHandler struct {
	AuthService       *service.AuthService
	MembershipService *service.MembershipService
	Hub               *realtime.Hub
	WriteTimeout      time.Duration
	AllowedOrigins    []string
}

// ServeHTTP godoc
//
//	@Summary		Trip Live Channel
//	@Description	WebSocket upgrade. Pushes trip events as JSON text frames and relays client text to other viewers.
//	@Description	Browsers pass the session token as the access_token query parameter.
//	@Tags			Realtime
//	@Param			tripId			path	string	true	"Trip ID"
//	@Param			access_token	query	string	false	"Session token"
//	@Success		101
//	@Failure		401	{object}	tripsdk.ErrorResponse	"error, error_description"
//	@Failure		404	{object}	tripsdk.ErrorResponse	"error, error_description"
//	@Router			/ws/{tripId} [get].
func (h *RealtimeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tripID := r.PathValue("tripId")

	token := httpx.BearerToken(r)
	if token == "" {
		token = strings.TrimSpace(r.URL.Query().Get(httpx.AccessTokenQueryParam))
	}
	caller, err := h.AuthService.Resolve(token)
	if err != nil {
		writeUnauthenticated(w)
		return
	}

	// Subscribing requires the same membership as reading the trip
	allowed, err := h.MembershipService.CanView(ctx, tripID, caller.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !allowed {
		tripsdk.ErrNotFound.WriteError(w)
		return
	}

	ctx = slogx.WithTrip(slogx.WithUser(ctx, caller.UserID), tripID)
	srv := websocket.Server{
		Handshake: h.checkOrigin,
		Handler: func(conn *websocket.Conn) {
			h.serve(ctx, conn, tripID)
		},
	}
	srv.ServeHTTP(w, r.WithContext(ctx))
}

func (h *RealtimeHandler) checkOrigin(cfg *websocket.Config, r *http.Request) error {
	origin := r.Header.Get("Origin")
	if origin == "" || len(h.AllowedOrigins) == 0 || slices.Contains(h.AllowedOrigins, "*") {
		return nil
	}
	if !slices.Contains(h.AllowedOrigins, origin) {
		return errors.New("origin not allowed")
	}
	return nil
}

func (h *RealtimeHandler) serve(ctx context.Context, conn *websocket.Conn, tripID string) {
	log := slogx.FromContext(ctx)
	defer conn.Close()

	conn.MaxPayloadBytes = maxRelayBytes
	sub := &wsSubscriber{
		id:           uuid.NewString(),
		conn:         conn,
		writeTimeout: h.WriteTimeout,
	}

	h.Hub.Subscribe(tripID, sub)
	defer h.Hub.Unsubscribe(tripID, sub)
	log.Info("viewer connected", slog.String("conn_id", sub.id))

	for {
		var msg string
		if err := websocket.Message.Receive(conn, &msg); err != nil {
			if !errors.Is(err, io.EOF) {
				log.Debug("viewer read failed", slog.String("conn_id", sub.id), slog.Any("error", err))
			}
			break
		}
		h.Hub.Relay(ctx, tripID, []byte(msg), sub)
	}

	log.Info("viewer disconnected", slog.String("conn_id", sub.id))
}

// wsSubscriber adapts a WebSocket connection to realtime.Subscriber. A
// failed write closes the connection, which ends the read loop in serve.
type wsSubscriber struct {
	id           string
	conn         *websocket.Conn
	writeTimeout time.Duration

	mu sync.Mutex
}

func (s *wsSubscriber) ID() string { return s.id }

func (s *wsSubscriber) Send(ctx context.Context, msg []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deadline time.Time
	if s.writeTimeout > 0 {
		deadline = time.Now().Add(s.writeTimeout)
	}
	if d, ok := ctx.Deadline(); ok && (deadline.IsZero() || d.Before(deadline)) {
		deadline = d
	}
	err := s.conn.SetWriteDeadline(deadline)
	if err == nil {
		err = websocket.Message.Send(s.conn, string(msg))
	}
	if err != nil {
		// A timed out write may leave a partial frame; the connection is done.
		_ = s.conn.Close()
		return err
	}
	return nil
}
