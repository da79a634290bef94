package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"archai-workers/internal/common/config"
	"archai-workers/internal/common/logger"
	"archai-workers/internal/common/observability"
	"archai-workers/internal/common/validation"
	gb "archai-workers/internal/workers/orchestration/generate-blueprint"
)

type stubCheck struct {
	name string
	err  error
}

func (s stubCheck) Name() string                   { return s.name }
func (s stubCheck) Ping(ctx context.Context) error { return s.err }

func newTestMux(t *testing.T, checks ...readinessCheck) *http.ServeMux {
	log := logger.NewTestLogger(t)
	cfg := gb.LoadConfig(config.DefaultPipeline(), config.ReasoningConfig{})
	pipeline := gb.NewPipeline(cfg, nil, observability.NewNoop(), log)

	validator, err := validation.NewValidator(validation.GenerateRequestSchema)
	require.NoError(t, err)

	api := gb.NewAPI(gb.NewHandler(cfg, pipeline, log), nil, validator, log)
	return newMux(api, checks)
}

func TestHealth(t *testing.T) {
	mux := newTestMux(t)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestReady(t *testing.T) {
	tests := []struct {
		name       string
		checks     []readinessCheck
		wantStatus int
		wantBody   string
	}{
		{
			name:       "no dependencies",
			wantStatus: http.StatusOK,
			wantBody:   "ready",
		},
		{
			name:       "all dependencies reachable",
			checks:     []readinessCheck{stubCheck{name: "postgres"}, stubCheck{name: "redis"}},
			wantStatus: http.StatusOK,
			wantBody:   "ready",
		},
		{
			name:       "redis down",
			checks:     []readinessCheck{stubCheck{name: "postgres"}, stubCheck{name: "redis", err: errors.New("refused")}},
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   "not_ready",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := newTestMux(t, tt.checks...)

			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantBody, body["status"])
			if tt.wantStatus != http.StatusOK {
				assert.Equal(t, "refused", body["failing"].(map[string]interface{})["redis"])
			}
		})
	}
}

func TestMetricsAndAPIRoutesRegistered(t *testing.T) {
	mux := newTestMux(t)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/blueprints/run-1", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
