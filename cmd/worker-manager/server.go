// cmd/worker-manager/server.go
package main

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	gb "archai-workers/internal/workers/orchestration/generate-blueprint"
)

// readinessCheck is satisfied by the database clients.
type readinessCheck interface {
	Name() string
	Ping(ctx context.Context) error
}

func newMux(api *gb.API, checks []readinessCheck) *http.ServeMux {
	mux := http.NewServeMux()
	api.Register(mux)

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, map[string]interface{}{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	mux.HandleFunc("GET /ready", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		failing := map[string]string{}
		for _, check := range checks {
			if err := check.Ping(ctx); err != nil {
				failing[check.Name()] = err.Error()
			}
		}

		if len(failing) > 0 {
			writeStatus(w, http.StatusServiceUnavailable, map[string]interface{}{
				"status":  "not_ready",
				"failing": failing,
				"time":    time.Now().Format(time.RFC3339),
			})
			return
		}
		writeStatus(w, http.StatusOK, map[string]interface{}{
			"status": "ready",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	mux.Handle("GET /metrics", promhttp.Handler())
	return mux
}

func writeStatus(w http.ResponseWriter, status int, body map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
