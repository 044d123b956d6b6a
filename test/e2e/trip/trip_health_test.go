package trip_test

import (
	"testing"

	"github.com/asinan007/tripping/pkg/tripsdk"
	"github.com/stretchr/testify/require"
)

// TestLivezEndpoint verifies the liveness endpoint.
func TestLivezEndpoint(t *testing.T) {
	baseURL, cleanup := setupTripContainer(t)
	defer cleanup()

	client := tripsdk.NewSDKClient(baseURL)

	health, err := client.GetLiveness(t.Context())
	assertHealthy(t, health, err)
}

// TestReadyzEndpoint verifies readiness reports the database and the
// disabled suggestion provider.
func TestReadyzEndpoint(t *testing.T) {
	baseURL, cleanup := setupTripContainer(t)
	defer cleanup()

	client := tripsdk.NewSDKClient(baseURL)

	health, err := client.GetReadiness(t.Context())
	assertHealthy(t, health, err)
	require.NotNil(t, health.Checks)
	require.Equal(t, "ok", health.Checks.Database)
	require.Equal(t, "disabled", health.Checks.Suggestions)
}
