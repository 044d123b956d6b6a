package service

import (
	"context"
	"errors"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/asinan007/tripping/internal/trip/domain"
	"github.com/asinan007/tripping/internal/trip/store"
	"github.com/asinan007/tripping/pkg/idx"
	"github.com/asinan007/tripping/pkg/jwtx"
	"github.com/asinan007/tripping/pkg/slogx"
)

// SocialProfile is the verified identity handed over by the external
// identity provider.
type SocialProfile struct {
	Name     string
	Email    string
	Avatar   string
	Provider string
}

// Session is the outcome of a successful login.
type Session struct {
	AccessToken string
	ExpiresIn   time.Duration
	User        domain.User
}

type AuthService struct {
	Store    store.Store
	Signer   jwtx.Signer
	Verifier jwtx.Verifier
	Issuer   string
	TTL      time.Duration
}

// SocialLogin upserts the user keyed on email and issues a session token.
func (s *AuthService) SocialLogin(ctx context.Context, p SocialProfile) (Session, error) {
	log := slogx.FromContext(ctx)

	email := domain.NormalizeEmail(p.Email)
	name := strings.TrimSpace(p.Name)
	if _, err := mail.ParseAddress(email); err != nil || name == "" {
		log.Warn("social login with invalid profile", slog.String("email", email))
		return Session{}, ErrInvalidRequest
	}
	provider := strings.TrimSpace(p.Provider)
	if provider == "" {
		provider = "google"
	}

	now := time.Now().UTC()
	user, err := s.Store.Users().UpsertUser(ctx, domain.User{
		ID:        idx.NewAt(now).String(),
		Name:      name,
		Email:     email,
		Avatar:    strings.TrimSpace(p.Avatar),
		Provider:  provider,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		log.Error("failed to upsert user", slog.Any("error", err))
		return Session{}, err
	}

	ttl := s.TTL
	if ttl <= 0 {
		ttl = jwtx.DefaultSessionTTL
	}
	token, err := s.Signer.Sign(jwtx.NewSessionClaims(user.ID, user.Email, user.Name, s.Issuer, ttl, now))
	if err != nil {
		log.Error("failed to sign session token", slog.Any("error", err))
		return Session{}, err
	}

	log.Info("user logged in",
		slog.String("user_id", user.ID),
		slog.String("provider", user.Provider),
	)
	return Session{AccessToken: token, ExpiresIn: ttl, User: user}, nil
}

// Resolve maps a bearer token to the caller it identifies.
func (s *AuthService) Resolve(token string) (Caller, error) {
	claims, err := s.Verifier.Verify(token)
	if err != nil {
		return Caller{}, ErrUnauthenticated
	}
	return Caller{UserID: claims.Subject, Email: claims.Email}, nil
}

// Me returns the stored profile of userID. A valid token for a user that no
// longer exists is treated as unauthenticated.
func (s *AuthService) Me(ctx context.Context, userID string) (domain.User, error) {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrUnauthenticated
		}
		return domain.User{}, err
	}
	return user, nil
}
