package handler

import (
	"context"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/osse101/Atelier_Go/internal/database"
	"github.com/osse101/Atelier_Go/internal/logger"
)

// ReadinessTimeout bounds every dependency check of the readiness probe
const ReadinessTimeout = 2 * time.Second

// HealthResponse is the body of both probes
type HealthResponse struct {
	Status  string            `json:"status"`
	Message string            `json:"message,omitempty"`
	Checks  map[string]string `json:"checks,omitempty"`
}

// ReadinessCheck probes one dependency. Message is reported when it fails.
type ReadinessCheck struct {
	Name    string
	Message string
	Probe   func(ctx context.Context) error
}

// DatabaseCheck pings the connection pool
func DatabaseCheck(pool database.Pool) ReadinessCheck {
	return ReadinessCheck{
		Name:    "database",
		Message: MsgDatabaseUnavailable,
		Probe:   pool.Ping,
	}
}

// HandleHealthz reports that the process is up
func HandleHealthz() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, HealthResponse{Status: HealthStatusOK})
	}
}

// HandleReadyz runs every check in parallel and answers 503 when any fails
func HandleReadyz(checks ...ReadinessCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), ReadinessTimeout)
		defer cancel()

		var (
			mu      sync.Mutex
			results = make(map[string]string, len(checks))
			failed  []string
		)
		var g errgroup.Group
		for _, check := range checks {
			g.Go(func() error {
				err := check.Probe(ctx)

				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					logger.FromContext(r.Context()).Error(LogMsgReadinessFailed, "check", check.Name, "error", err)
					results[check.Name] = HealthStatusUnavailable
					failed = append(failed, check.Message)
					return nil
				}
				results[check.Name] = HealthStatusOK
				return nil
			})
		}
		_ = g.Wait()

		if len(failed) > 0 {
			respondJSON(w, http.StatusServiceUnavailable, HealthResponse{
				Status:  HealthStatusUnavailable,
				Message: failed[0],
				Checks:  results,
			})
			return
		}
		respondJSON(w, http.StatusOK, HealthResponse{Status: HealthStatusOK, Checks: results})
	}
}
