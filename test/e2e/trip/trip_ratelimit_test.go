package trip_test

import (
	"testing"

	"github.com/asinan007/tripping/pkg/tripsdk"
	"github.com/stretchr/testify/require"
)

// TestLoginRateLimit verifies the strict profile rejects a burst of logins.
func TestLoginRateLimit(t *testing.T) {
	baseURL, cleanup := setupTripContainerWithDefaultRateLimits(t)
	defer cleanup()

	client := tripsdk.NewSDKClient(baseURL)

	var limited bool
	for i := 0; i < 10; i++ {
		_, err := client.SocialLogin(t.Context(), tripsdk.SocialLoginRequest{
			Name: "Ana", Email: "ana@example.com", Provider: "google",
		})
		if err != nil {
			require.ErrorIs(t, err, tripsdk.ErrRateLimited)
			limited = true
			break
		}
	}
	require.True(t, limited, "strict rate limit should reject the burst")
}
