// internal/workers/analysis/analyze-stability/handler.go
package analyzestability

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
	TaskType = "analyze-stability"

	baseScore = 100
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
	intake := models.ResolveIntake(input.Intake)
	result := h.Analyze(&intake)

	h.logger.Info("stability analyzed", map[string]interface{}{
		"stabilityScore": result.StabilityScore,
		"riskLevel":      result.RiskLevel,
		"tensions":       len(result.Tensions),
		"amplification":  result.AmplificationDeductions,
	})

	return &Output{Stability: result}, nil
}

// Analyze scores an intake against the tension table. Every rule is
// independent and deductions come only from the configured severity weights.
func (h *Handler) Analyze(in *models.Intake) models.StabilityResult {
	tensions := make([]models.Tension, 0)
	direct := 0
	for _, rule := range tensionRules {
		if !rule.when(in) {
			continue
		}
		t := models.Tension{
			ID:          rule.id,
			Severity:    rule.severity,
			Title:       rule.title,
			Description: rule.description,
			Deduction:   h.config.Deduction(rule.severity),
			Mitigation:  rule.mitigation,
		}
		direct += t.Deduction
		tensions = append(tensions, t)
	}

	amps := make([]models.Amplification, 0)
	amplified := 0
	for _, rule := range amplificationRules {
		if !rule.when(in, tensions) {
			continue
		}
		w := rule.weight(h.config)
		amplified += w
		amps = append(amps, models.Amplification{ID: rule.id, Reason: rule.reason, Deduction: w})
	}

	score := clamp(baseScore-direct-amplified, 0, 100)
	return models.StabilityResult{
		BaseScore:               baseScore,
		Tensions:                tensions,
		AmplificationDeductions: amplified,
		Amplifications:          amps,
		StabilityScore:          score,
		RiskLevel:               models.RiskLevelFor(score),
	}
}

func clamp(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
