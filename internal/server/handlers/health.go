package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/information-sharing-networks/blog-api/internal/blog"
	"github.com/information-sharing-networks/blog-api/internal/logger"
	"github.com/information-sharing-networks/blog-api/internal/store"
)

// HandleHealth godoc
//
//	@Summary		Liveness check
//	@Description	Returns 200 while the process is serving HTTP. The store is not checked.
//	@Tags			Common
//	@Produce		plain
//	@Success		200	{string}	string	"OK"
//	@Router			/health/live [get]
func HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// ReadinessResponse is returned by /health/ready
type ReadinessResponse struct {
	Status string `json:"status" example:"ready"`
	Store  string `json:"store" example:"ok"`
	// PingMillis is how long the store took to answer
	PingMillis int64 `json:"pingMillis" example:"2"`
}

// HandleReadiness godoc
//
//	@Summary		Readiness check
//	@Description	Pings the blog post store. Returns 503 when the store does not answer within the ping timeout.
//	@Tags			Common
//	@Produce		json
//	@Success		200	{object}	ReadinessResponse	"ready"
//	@Failure		503	{object}	ReadinessResponse	"store unavailable"
//	@Router			/health/ready [get]
func HandleReadiness(s store.Store, pingTimeout time.Duration) http.HandlerFunc {
	if pingTimeout <= 0 {
		pingTimeout = 2 * time.Second
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
		defer cancel()

		start := time.Now()
		err := s.Ping(ctx)
		elapsed := time.Since(start).Milliseconds()

		if err != nil {
			logger.ContextRequestLogger(r.Context()).Warn("store ping failed",
				slog.String("error", err.Error()),
				slog.Int64("ping_ms", elapsed),
			)
			blog.RespondWithJSONPayload(w, http.StatusServiceUnavailable, ReadinessResponse{
				Status:     "not ready",
				Store:      "unavailable",
				PingMillis: elapsed,
			})
			return
		}

		blog.RespondWithJSONPayload(w, http.StatusOK, ReadinessResponse{
			Status:     "ready",
			Store:      "ok",
			PingMillis: elapsed,
		})
	}
}
