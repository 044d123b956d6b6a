package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSocialLoginUpsertsByEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.auth.SocialLogin(ctx, SocialProfile{Name: "Alice", Email: "Alice@Example.com ", Provider: "google"})
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", first.User.Email)
	require.NotEmpty(t, first.AccessToken)

	second, err := f.auth.SocialLogin(ctx, SocialProfile{Name: "Alice B", Email: "alice@example.com", Provider: "github", Avatar: "https://img/a.png"})
	require.NoError(t, err)
	require.Equal(t, first.User.ID, second.User.ID)
	require.Equal(t, "Alice B", second.User.Name)
	require.Equal(t, "https://img/a.png", second.User.Avatar)
	require.Equal(t, "google", second.User.Provider, "provider is fixed at creation")
}

func TestSocialLoginRejectsBadProfile(t *testing.T) {
	f := newFixture(t)

	_, err := f.auth.SocialLogin(context.Background(), SocialProfile{Name: "x", Email: "not-an-email"})
	require.ErrorIs(t, err, ErrInvalidRequest)

	_, err = f.auth.SocialLogin(context.Background(), SocialProfile{Name: " ", Email: "a@example.com"})
	require.ErrorIs(t, err, ErrInvalidRequest)
}

func TestResolve(t *testing.T) {
	f := newFixture(t)

	sess, err := f.auth.SocialLogin(context.Background(), SocialProfile{Name: "Bob", Email: "bob@example.com"})
	require.NoError(t, err)

	caller, err := f.auth.Resolve(sess.AccessToken)
	require.NoError(t, err)
	require.Equal(t, sess.User.ID, caller.UserID)
	require.Equal(t, "bob@example.com", caller.Email)

	_, err = f.auth.Resolve("garbage")
	require.ErrorIs(t, err, ErrUnauthenticated)

	me, err := f.auth.Me(context.Background(), caller.UserID)
	require.NoError(t, err)
	require.Equal(t, "Bob", me.Name)

	_, err = f.auth.Me(context.Background(), "missing")
	require.ErrorIs(t, err, ErrUnauthenticated)
}
