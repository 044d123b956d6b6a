package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/asinan007/tripping/internal/trip/ai"
	"github.com/asinan007/tripping/internal/trip/realtime"
	"github.com/asinan007/tripping/internal/trip/service"
	"github.com/asinan007/tripping/internal/trip/store"
	"github.com/asinan007/tripping/pkg/httpx"
	"github.com/asinan007/tripping/pkg/jwtx"
	"github.com/asinan007/tripping/pkg/slogx"

	_ "github.com/asinan007/tripping/api/tripping" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier       jwtx.Verifier
	buildVersion   string
	startTime      time.Time
	logger         *slog.Logger
	allowedOrigins []string

	store store.Store
	hub   *realtime.Hub

	// Limits are the rate limit profiles. Set before ApplyRoutes.
	Limits httpx.RateLimits
	// WSWriteTimeout bounds a single write to a realtime connection.
	WSWriteTimeout time.Duration

	AuthService       *service.AuthService
	TripService       *service.TripService
	MembershipService *service.MembershipService
	SuggestionService *service.SuggestionService
}

func NewRouter(
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	hub *realtime.Hub,
	allowedOrigins []string,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:            http.NewServeMux(),
		verifier:       verifier,
		buildVersion:   buildVersion,
		startTime:      time.Now(),
		logger:         logger,
		allowedOrigins: allowedOrigins,
		store:          st,
		hub:            hub,
		Limits:         httpx.DefaultRateLimits(),
		WSWriteTimeout: 5 * time.Second,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.CORS(allowedOrigins),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerSystem()
	r.registerAuth()
	r.registerTrips()
	r.registerInvitations()
	r.registerSuggestions()
	r.registerRealtime()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Tripping API
//	@version		0.1.0
//	@description	Collaborative trip planning: trips, itineraries, invitations, share links and AI suggestions.
//	@description
//	@description				Live updates for a trip are pushed over a WebSocket at /ws/{tripId}.
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Session token from /api/auth/social. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// secured wraps h with bearer authentication and a per-user rate limit.
func (r *Router) secured(h http.HandlerFunc, limit httpx.RateLimitConfig) http.Handler {
	return httpx.Chain(h,
		httpx.AuthnMiddleware(r.verifier),
		httpx.RateLimitByUser(limit),
	)
}

func (r *Router) registerSystem() {
	var provider ai.Provider = ai.Disabled{}
	if r.SuggestionService != nil && r.SuggestionService.Provider != nil {
		provider = r.SuggestionService.Provider
	}

	// Health endpoints are polled by orchestrators
	r.Mux.Handle("GET /{$}",
		httpx.Chain(BannerHandler(r.buildVersion),
			httpx.RateLimitByIP(r.Limits.Public),
		),
	)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(r.Limits.Public),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.hub, provider),
			httpx.RateLimitByIP(r.Limits.Public),
		),
	)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{AuthService: r.AuthService}

	// POST /api/auth/social - strict rate limit by IP (login)
	r.Mux.Handle("POST /api/auth/social",
		httpx.Chain(http.HandlerFunc(h.HandleSocialLogin),
			httpx.RateLimitByIP(r.Limits.Strict),
		),
	)
	r.Mux.Handle("GET /api/auth/me", r.secured(h.HandleMe, r.Limits.Lenient))
}

func (r *Router) registerTrips() {
	h := &TripsHandler{TripService: r.TripService}

	r.Mux.Handle("POST /api/trips", r.secured(h.HandleCreate, r.Limits.Moderate))
	r.Mux.Handle("GET /api/trips", r.secured(h.HandleList, r.Limits.Lenient))
	r.Mux.Handle("GET /api/trips/{id}", r.secured(h.HandleGet, r.Limits.Lenient))
	r.Mux.Handle("PUT /api/trips/{id}", r.secured(h.HandleUpdate, r.Limits.Moderate))
	r.Mux.Handle("DELETE /api/trips/{id}", r.secured(h.HandleDelete, r.Limits.Moderate))

	r.Mux.Handle("GET /api/trips/{id}/itinerary", r.secured(h.HandleListItinerary, r.Limits.Lenient))
	r.Mux.Handle("POST /api/trips/{id}/itinerary", r.secured(h.HandleAddActivity, r.Limits.Lenient))

	// Each refresh is a model call
	r.Mux.Handle("POST /api/trips/{id}/suggestions", r.secured(h.HandleRefreshSuggestions, r.Limits.Moderate))
}

func (r *Router) registerInvitations() {
	h := &InvitationsHandler{MembershipService: r.MembershipService}

	r.Mux.Handle("POST /api/trips/{id}/invitations", r.secured(h.HandleInvite, r.Limits.Moderate))
	r.Mux.Handle("GET /api/trips/{id}/invitations", r.secured(h.HandleListTrip, r.Limits.Lenient))
	r.Mux.Handle("GET /api/invitations", r.secured(h.HandleListMine, r.Limits.Lenient))
	r.Mux.Handle("POST /api/invitations/{id}/respond", r.secured(h.HandleRespond, r.Limits.Moderate))

	// Token lookups get the strict profile
	r.Mux.Handle("POST /api/invitations/accept", r.secured(h.HandleAccept, r.Limits.Strict))
	r.Mux.Handle("POST /api/trips/{id}/share", r.secured(h.HandleShare, r.Limits.Moderate))
	r.Mux.Handle("POST /api/share/{token}/join", r.secured(h.HandleJoin, r.Limits.Strict))
}

func (r *Router) registerSuggestions() {
	h := &SuggestionsHandler{SuggestionService: r.SuggestionService}

	r.Mux.Handle("POST /api/ai/destinations", r.secured(h.HandleDestinations, r.Limits.Moderate))
	r.Mux.Handle("POST /api/ai/activities", r.secured(h.HandleActivities, r.Limits.Moderate))
}

func (r *Router) registerRealtime() {
	h := &RealtimeHandler{
		AuthService:       r.AuthService,
		MembershipService: r.MembershipService,
		Hub:               r.hub,
		WriteTimeout:      r.WSWriteTimeout,
		AllowedOrigins:    r.allowedOrigins,
	}

	r.Mux.Handle("GET /ws/{tripId}",
		httpx.Chain(h,
			httpx.RateLimitByIP(r.Limits.Lenient),
		),
	)
}
