// internal/workers/review/run-quality-gate/handler.go
package runqualitygate

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
	TaskType = "run-quality-gate"

	consistencyFailureThreshold = 3
	hardFailureBelow            = 70
	softFailureBelow            = 85
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

func (h *Handler) Execute(_ context.Context, input *Input) (*Output, error) {
	result := h.Evaluate(input)

	fields := map[string]interface{}{
		"score":  result.Score,
		"status": result.Status,
		"failed": len(result.FailedChecks),
	}
	if result.Status == models.QualityGatePassed {
		h.logger.Info("quality gate passed", fields)
	} else {
		h.logger.Warn("quality gate failed", fields)
	}
	return &Output{QualityGate: result}, nil
}

// Evaluate runs the checklist in order. Fixes are advisory; nothing here
// mutates the requirements document.
func (h *Handler) Evaluate(input *Input) models.QualityGateResult {
	score := 100
	failed := make([]models.QualityCheckFailure, 0)
	structural := false

	for _, c := range checks {
		if !c.fails(input) {
			continue
		}
		failed = append(failed, models.QualityCheckFailure{
			CheckID:     c.id,
			Description: c.description,
			Fix:         c.fix,
		})
		score -= h.config.Deduction
		structural = structural || c.structural
	}
	if score < 0 {
		score = 0
	}

	status := models.QualityGatePassed
	switch {
	case len(failed) >= consistencyFailureThreshold:
		status = models.QualityGateConsistencyFailure
	case score < hardFailureBelow:
		status = models.QualityGateFailedHard
	case score < softFailureBelow:
		status = models.QualityGateFailedSoft
	}
	if structural && status.Rank() < models.QualityGateFailedSoft.Rank() {
		status = models.QualityGateFailedSoft
	}

	return models.QualityGateResult{
		Score:        score,
		Status:       status,
		FailedChecks: failed,
	}
}
