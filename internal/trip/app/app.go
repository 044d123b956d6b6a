package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/asinan007/tripping/internal/trip/ai"
	httpapi "github.com/asinan007/tripping/internal/trip/http"
	"github.com/asinan007/tripping/internal/trip/realtime"
	"github.com/asinan007/tripping/internal/trip/service"
	"github.com/asinan007/tripping/internal/trip/store"
	"github.com/asinan007/tripping/internal/trip/store/drivers/sqlite"
	"github.com/asinan007/tripping/pkg/cryptox"
	"github.com/asinan007/tripping/pkg/jwtx"
	"github.com/asinan007/tripping/pkg/slogx"
)

// BuildVersion is set at build time with
// -ldflags "-X github.com/asinan007/tripping/internal/trip/app.BuildVersion=...".
var BuildVersion = "v0.1.0"


// Application owns every long-lived dependency of the trip service.
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db         store.Store
	tokens     *jwtx.HS256
	hub        *realtime.Hub
	suggestion ai.Provider

	// Services
	authService         *service.AuthService
	tripService         *service.TripService
	membershipService   *service.MembershipService
	suggestionService   *service.SuggestionService
	housekeepingService *service.HousekeepingService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "tripping",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}
	if err := app.initTokens(); err != nil {
		_ = app.db.Close()
		return nil, err
	}
	if err := app.initSuggestions(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	app.hub = realtime.NewHub(app.logger)
	app.initServices()
	app.initHTTP()

	return app, nil
}

// Handler exposes the routed HTTP handler.
func (app *Application) Handler() http.Handler {
	return app.router
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("trip service starting",
		slog.Int("port", app.cfg.Port),
		slog.String("version", BuildVersion),
		slog.String("suggestions", app.suggestion.Name()),
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.housekeepingService.Stop()
			_ = app.db.Close()
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown drains HTTP requests, stops background work and closes the
// database. Open WebSocket connections are hijacked and not tracked by the
// server, so they end when the process exits.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down trip service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", slog.Any("error", err))
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", slog.Any("error", err))
		}
	}

	app.housekeepingService.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", slog.Any("error", err))
		return err
	}

	app.logger.Info("trip service stopped")
	return nil
}

// initDatabase opens the database and applies migrations.
func (app *Application) initDatabase() error {
	db, err := sqlite.NewStore(app.cfg.DatabaseFile)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully",
		slog.String("file", app.cfg.DatabaseFile),
	)
	return nil
}

func (app *Application) initTokens() error {
	secret := app.cfg.JWTSecret
	if secret == "" {
		// Validate only lets this through in dev
		generated, err := cryptox.GenerateToken(jwtx.MinSecretLen)
		if err != nil {
			return fmt.Errorf("failed to generate session secret: %w", err)
		}
		secret = generated
		app.logger.Warn("JWT_SECRET not set, using an ephemeral secret; sessions end on restart")
	}

	tokens, err := jwtx.NewHS256([]byte(secret), app.cfg.Issuer)
	if err != nil {
		return fmt.Errorf("failed to initialize session tokens: %w", err)
	}
	app.tokens = tokens
	return nil
}

func (app *Application) initSuggestions() error {
	if !app.cfg.SuggestionsEnabled() {
		app.suggestion = ai.Disabled{}
		app.logger.Info("GEMINI_API_KEY not set, suggestions disabled")
		return nil
	}

	client, err := ai.NewGemini(app.cfg.geminiConfig())
	if err != nil {
		return fmt.Errorf("failed to initialize suggestion provider: %w", err)
	}
	app.suggestion = client
	return nil
}

// initServices wires the business services.
func (app *Application) initServices() {
	app.authService = &service.AuthService{
		Store:    app.db,
		Signer:   app.tokens,
		Verifier: app.tokens,
		Issuer:   app.cfg.Issuer,
		TTL:      app.cfg.SessionTTL,
	}
	app.membershipService = &service.MembershipService{
		Store:  app.db,
		Events: app.hub,
	}
	app.tripService = &service.TripService{
		Store:         app.db,
		Events:        app.hub,
		Suggestions:   app.suggestion,
		EnrichTimeout: app.cfg.EnrichTimeout,
	}
	app.suggestionService = &service.SuggestionService{
		Provider: app.suggestion,
		Timeout:  app.cfg.AITimeout,
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.hub,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
}

// initHTTP initializes the HTTP router and server.
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.tokens,
		BuildVersion,
		app.db,
		app.hub,
		app.cfg.AllowedOrigins,
		app.logger,
	)

	router.Limits = app.cfg.RateLimits
	router.WSWriteTimeout = app.cfg.WSWriteTimeout
	router.AuthService = app.authService
	router.TripService = app.tripService
	router.MembershipService = app.membershipService
	router.SuggestionService = app.suggestionService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
