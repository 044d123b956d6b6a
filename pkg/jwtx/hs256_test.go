package jwtx

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func newTestHS256(t *testing.T) *HS256 {
	t.Helper()
	h, err := NewHS256(testSecret, "tripping")
	require.NoError(t, err)
	return h
}

func TestNewHS256RejectsShortSecret(t *testing.T) {
	_, err := NewHS256([]byte("short"), "tripping")
	require.ErrorIs(t, err, ErrWeakSecret)
}

func TestHS256RoundTrip(t *testing.T) {
	h := newTestHS256(t)
	now := time.Now()

	token, err := h.Sign(NewSessionClaims("user-1", "alice@example.com", "Alice", "tripping", time.Hour, now))
	require.NoError(t, err)

	claims, err := h.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.Subject)
	require.Equal(t, "alice@example.com", claims.Email)
	require.Equal(t, "Alice", claims.Name)
	require.NotEmpty(t, claims.ID)
}

func TestHS256VerifyFailures(t *testing.T) {
	h := newTestHS256(t)
	now := time.Now()

	t.Run("expired", func(t *testing.T) {
		token, err := h.Sign(NewSessionClaims("u", "", "", "tripping", time.Minute, now.Add(-time.Hour)))
		require.NoError(t, err)
		_, err = h.Verify(token)
		require.ErrorIs(t, err, ErrExpired)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		token, err := h.Sign(NewSessionClaims("u", "", "", "someone-else", time.Hour, now))
		require.NoError(t, err)
		_, err = h.Verify(token)
		require.ErrorIs(t, err, ErrIssuer)
	})

	t.Run("missing subject", func(t *testing.T) {
		token, err := h.Sign(NewSessionClaims("", "", "", "tripping", time.Hour, now))
		require.NoError(t, err)
		_, err = h.Verify(token)
		require.ErrorIs(t, err, ErrSubject)
	})

	t.Run("tampered signature", func(t *testing.T) {
		other, err := NewHS256([]byte(strings.Repeat("x", 32)), "tripping")
		require.NoError(t, err)
		token, err := other.Sign(NewSessionClaims("u", "", "", "tripping", time.Hour, now))
		require.NoError(t, err)
		_, err = h.Verify(token)
		require.ErrorIs(t, err, ErrInvalidSig)
	})

	t.Run("algorithm none", func(t *testing.T) {
		tok := jwt.NewWithClaims(jwt.SigningMethodNone, NewSessionClaims("u", "", "", "tripping", time.Hour, now))
		raw, err := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = h.Verify(raw)
		require.ErrorIs(t, err, ErrAlgMismatch)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := h.Verify("not.a.jwt")
		require.ErrorIs(t, err, ErrMalformed)
	})
}
