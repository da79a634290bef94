// internal/workers/intake/normalize-constraints/handler.go
package normalizeconstraints

import (
	"context"
	"encoding/json"

	"archai-workers/internal/common/camunda"
	apperrors "archai-workers/internal/common/errors"
	"archai-workers/internal/common/logger"
	"archai-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "normalize-constraints"
)

type Handler struct {
	config       *Config
	logger       logger.Logger
	errorHandler *apperrors.ErrorHandler
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		logger:       log,
		errorHandler: apperrors.NewErrorHandler(log),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.errorHandler.HandleJobError(ctx, client, job, apperrors.NewInputValidationError(err.Error()))
		return
	}

	output, err := h.Execute(ctx, &input)
	if err != nil {
		h.errorHandler.HandleJobError(ctx, client, job, err)
		return
	}

	if err := camunda.CompleteJob(ctx, client, job, output); err != nil {
		h.logger.Error("failed to complete job", map[string]interface{}{"error": err})
	}
}

// Execute never fails; the error return keeps the stage signature uniform.
func (h *Handler) Execute(_ context.Context, input *Input) (*Output, error) {
	intake := models.ResolveIntake(input.Intake)
	constraints := Normalize(&intake, input.Context)

	if len(constraints.ContradictionFlags) > 0 {
		h.logger.Warn("contradictions detected", map[string]interface{}{
			"flags": constraints.ContradictionFlags,
		})
	}
	h.logger.Debug("constraints normalized", map[string]interface{}{
		"budget":   constraints.Budget,
		"scale":    constraints.Scale,
		"timeline": constraints.Timeline,
	})

	return &Output{Constraints: constraints}, nil
}
