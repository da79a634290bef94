// internal/workers/analysis/select-archetype/handler.go
package selectarchetype

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
	TaskType = "select-archetype"

	ReasonLowStability  = "stabilityScore < 50"
	ReasonTightTimeline = "tight timeline (<= 60 days)"
	ReasonSmallTeam     = "solo/small team favors low operational complexity"
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
	decision := h.Select(&intake, input.Stability)

	h.logger.Info("archetype selected", map[string]interface{}{
		"archetype": decision.SelectedArchetype,
		"method":    decision.SelectionMethod,
		"reasons":   decision.ForcedReasons,
	})
	return &Output{Archetype: decision}, nil
}

// Select walks the decision rules top-down; the first match wins.
func (h *Handler) Select(in *models.Intake, stability models.StabilityResult) models.ArchetypeDecision {
	switch {
	case stability.StabilityScore < h.config.StabilityFloor:
		return forced(ReasonLowStability)
	case in.MvpTimelineDays <= h.config.TightTimelineDays:
		return forced(ReasonTightTimeline)
	case in.DevTeamSize == models.TeamSolo || in.DevTeamSize == models.TeamSmall:
		return forced(ReasonSmallTeam)
	case in.DevTeamSize == models.TeamEnterprise &&
		in.IsLateFunding() &&
		in.IsLargeScale() &&
		in.MvpTimelineDays >= h.config.MicroservicesMinDays:
		return models.ArchetypeDecision{
			SelectedArchetype: models.ArchetypeMicroservices,
			SelectionMethod:   models.SelectionSuggested,
			ForcedReasons:     []string{},
		}
	default:
		return models.ArchetypeDecision{
			SelectedArchetype: models.ArchetypeModularMonolith,
			SelectionMethod:   models.SelectionDefault,
			ForcedReasons:     []string{},
		}
	}
}

func forced(reason string) models.ArchetypeDecision {
	return models.ArchetypeDecision{
		SelectedArchetype: models.ArchetypeMonolith,
		SelectionMethod:   models.SelectionForced,
		ForcedReasons:     []string{reason},
	}
}
