package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/asinan007/tripping/pkg/tripsdk"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("ENV", "dev")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, "tripping.db", cfg.DatabaseFile)
	require.Equal(t, "tripping", cfg.Issuer)
	require.Equal(t, 168*time.Hour, cfg.SessionTTL)
	require.Equal(t, 10*time.Second, cfg.EnrichTimeout)
	require.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	require.False(t, cfg.SuggestionsEnabled())
	require.Equal(t, 5, cfg.RateLimits.Strict.RequestsPerWindow)
	require.Equal(t, time.Minute, cfg.RateLimits.Public.Window)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("ENV", "prod")
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("GEMINI_API_KEY", "key")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("RATELIMIT_STRICT_REQUESTS", "50")
	t.Setenv("RATELIMIT_STRICT_WINDOW", "30s")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, 9090, cfg.Port)
	require.True(t, cfg.SuggestionsEnabled())
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	require.Equal(t, 50, cfg.RateLimits.Strict.RequestsPerWindow)
	require.Equal(t, 30*time.Second, cfg.RateLimits.Strict.Window)
	// Untouched fields keep their defaults
	require.Equal(t, 5, cfg.RateLimits.Strict.Burst)
	require.Equal(t, 20, cfg.RateLimits.Moderate.RequestsPerWindow)
}

func TestLoadConfigRejects(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing secret outside dev", map[string]string{"ENV": "prod"}},
		{"short secret", map[string]string{"JWT_SECRET": "short"}},
		{"bad port", map[string]string{"PORT": "70000"}},
		{"bad duration", map[string]string{"SESSION_TTL": "soon"}},
		{"zero rate limit", map[string]string{"RATELIMIT_LENIENT_BURST": "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("ENV", "dev")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig()
			require.Error(t, err)
		})
	}
}

func TestNewServesRoutes(t *testing.T) {
	t.Setenv("ENV", "dev")
	t.Setenv("TRIP_DATABASE_FILE", filepath.Join(t.TempDir(), "trip.db"))
	t.Setenv("LOG_LEVEL", "error")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	application, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = application.db.Close() })
	require.Equal(t, "disabled", application.suggestion.Name())

	srv := httptest.NewServer(application.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/readyz")
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/api/trips")
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestBuildVersionIsReported(t *testing.T) {
	original := BuildVersion
	BuildVersion = "v9.9.9-rc1"
	t.Cleanup(func() { BuildVersion = original })

	t.Setenv("ENV", "dev")
	t.Setenv("TRIP_DATABASE_FILE", filepath.Join(t.TempDir(), "trip.db"))
	t.Setenv("LOG_LEVEL", "error")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	application, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = application.db.Close() })

	srv := httptest.NewServer(application.Handler())
	defer srv.Close()

	live, err := tripsdk.NewSDKClient(srv.URL).GetLiveness(context.Background())
	require.NoError(t, err)
	require.Equal(t, "v9.9.9-rc1", live.Version)
}
