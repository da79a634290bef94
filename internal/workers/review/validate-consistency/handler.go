// internal/workers/review/validate-consistency/handler.go
package validateconsistency

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
	TaskType = "validate-consistency"
)

type Handler struct {
	config       *Config
	logger       logger.Logger
	errorHandler *apperrors.ErrorHandler
	enabled      map[string]bool
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})

	enabled := make(map[string]bool, len(config.RuleGroups))
	for _, g := range config.RuleGroups {
		if _, ok := ruleGroups[g]; !ok {
			log.Warn("ignoring unknown rule group", map[string]interface{}{"group": g})
			continue
		}
		enabled[g] = true
	}

	return &Handler{
		config:       config,
		logger:       log,
		errorHandler: apperrors.NewErrorHandler(log),
		enabled:      enabled,
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
	result := h.Validate(&input.Blueprint)

	h.logger.Info("consistency validated", map[string]interface{}{
		"passed":    result.Passed,
		"critiques": len(result.Critiques),
		"score":     result.Score,
	})
	return &Output{Validation: result}, nil
}

// Validate runs every enabled rule group against a draft blueprint.
func (h *Handler) Validate(bp *models.Blueprint) models.ValidationResult {
	critiques := make([]models.Critique, 0)
	for _, group := range groupOrder {
		if !h.enabled[group] {
			continue
		}
		for _, r := range ruleGroups[group] {
			critiques = append(critiques, r(bp)...)
		}
	}

	score := 100 - h.config.Penalty*len(critiques)
	if score < 0 {
		score = 0
	}
	return models.ValidationResult{
		Passed:    len(critiques) == 0,
		Critiques: critiques,
		Score:     score,
	}
}
