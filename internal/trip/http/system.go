package http

import (
	"net/http"
	"time"

	"github.com/asinan007/tripping/internal/trip/ai"
	"github.com/asinan007/tripping/internal/trip/realtime"
	"github.com/asinan007/tripping/internal/trip/store"
	"github.com/asinan007/tripping/pkg/httpx"
	"github.com/asinan007/tripping/pkg/tripsdk"
)

// BannerHandler godoc
//
//	@Summary		Service Banner
//	@Description	Identifies the service and its version
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	tripsdk.BannerResponse	"message, version"
//	@Router			/ [get].
func BannerHandler(version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, tripsdk.BannerResponse{
			Message: "Tripping API",
			Version: version,
		})
	}
}

// LivezHandler godoc
//
//	@Summary		Health Check Endpoint
//	@Description	Liveness probe endpoint returning basic service health status, uptime, and version information
//	@Description	This endpoint always returns 200 OK if the service is running
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	tripsdk.HealthResponse	"status, uptime, version"
//	@Router			/livez [get].
func LivezHandler(startTime time.Time, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, tripsdk.HealthResponse{
			Status:  "ok",
			Uptime:  time.Since(startTime).String(),
			Version: version,
		})
	}
}

// ReadyzHandler godoc
//
//	@Summary		Readiness Check Endpoint
//	@Description	Readiness probe endpoint returning service health status and checks for critical dependencies
//	@Description	Includes database connectivity, the active suggestion provider and the number of live subscribers
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	tripsdk.HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	tripsdk.HealthResponse	"status, uptime, version, checks - service not ready"
//	@Router			/readyz [get].
func ReadyzHandler(
	startTime time.Time,
	version string,
	st store.Store,
	hub *realtime.Hub,
	provider ai.Provider,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &tripsdk.HealthChecks{
			Database:    "ok",
			Suggestions: provider.Name(),
			Subscribers: hub.Total(),
		}
		overallStatus := "ok"
		statusCode := http.StatusOK

		// Suggestions are optional; only the database gates readiness
		if err := st.Ping(r.Context()); err != nil {
			checks.Database = "error: " + err.Error()
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		httpx.WriteJSON(w, statusCode, tripsdk.HealthResponse{
			Status:  overallStatus,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}
