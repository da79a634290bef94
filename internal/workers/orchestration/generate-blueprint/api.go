// internal/workers/orchestration/generate-blueprint/api.go
package generateblueprint

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	apperrors "archai-workers/internal/common/errors"
	"archai-workers/internal/common/logger"
	"archai-workers/internal/common/validation"
	"archai-workers/internal/models"
)

const maxRequestBytes = 1 << 20

// BlueprintReader looks up a stored blueprint by run id.
type BlueprintReader interface {
	Get(ctx context.Context, runID string) (*models.Blueprint, error)
}

type envelope struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Error     *apiError   `json:"error,omitempty"`
	Timestamp string      `json:"timestamp"`
}

type apiError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// API exposes the pipeline over HTTP. reader may be nil when no store is
// configured, in which case lookups answer 404.
type API struct {
	handler   *Handler
	reader    BlueprintReader
	validator *validation.Validator
	logger    logger.Logger
	now       func() time.Time
}

func NewAPI(handler *Handler, reader BlueprintReader, validator *validation.Validator, log logger.Logger) *API {
	return &API{
		handler:   handler,
		reader:    reader,
		validator: validator,
		logger:    log.WithFields(map[string]interface{}{"component": "api"}),
		now:       time.Now,
	}
}

// Register mounts the routes on mux.
func (a *API) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/generate", a.generate)
	mux.HandleFunc("GET /api/v1/blueprints/{runId}", a.blueprint)
}

func (a *API) generate(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBytes))
	if err != nil {
		a.fail(w, apperrors.NewInputValidationError(err.Error()), nil)
		return
	}

	if result := a.validator.ValidateJSON(body); !result.Valid {
		a.fail(w, apperrors.NewInputValidationError(strings.Join(result.GetErrorMessages(), "; ")), result.Errors)
		return
	}

	var input Input
	if err := json.Unmarshal(body, &input); err != nil {
		a.fail(w, apperrors.NewInputValidationError(err.Error()), nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), a.handler.config.Timeout)
	defer cancel()

	output, err := a.handler.Execute(ctx, &input)
	if err != nil {
		a.fail(w, err, nil)
		return
	}
	a.respond(w, http.StatusOK, envelope{Success: true, Data: output.Blueprint})
}

func (a *API) blueprint(w http.ResponseWriter, r *http.Request) {
	runID := r.PathValue("runId")
	if a.reader == nil {
		a.fail(w, apperrors.NewBlueprintNotFoundError(runID), nil)
		return
	}

	bp, err := a.reader.Get(r.Context(), runID)
	if err != nil {
		a.fail(w, err, nil)
		return
	}
	a.respond(w, http.StatusOK, envelope{Success: true, Data: bp})
}

func (a *API) fail(w http.ResponseWriter, err error, details interface{}) {
	stdErr := apperrors.AsStandardError(err)
	status := apperrors.HTTPStatus(stdErr.Code)
	if details == nil && stdErr.Details != "" {
		details = stdErr.Details
	}
	if status >= http.StatusInternalServerError {
		a.logger.Error("request failed", map[string]interface{}{
			"errorCode": string(stdErr.Code),
			"error":     stdErr.Error(),
		})
	}
	a.respond(w, status, envelope{
		Error: &apiError{
			Code:    string(stdErr.Code),
			Message: stdErr.Message,
			Details: details,
		},
	})
}

func (a *API) respond(w http.ResponseWriter, status int, env envelope) {
	env.Timestamp = a.now().UTC().Format(time.RFC3339)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		a.logger.Warn("failed to encode response", map[string]interface{}{"error": err.Error()})
	}
}
