// internal/workers/orchestration/generate-blueprint/handler.go
package generateblueprint

import (
	"context"
	"encoding/json"

	"archai-workers/internal/common/camunda"
	apperrors "archai-workers/internal/common/errors"
	"archai-workers/internal/common/logger"
	"archai-workers/internal/common/metrics"
	"archai-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "generate-blueprint"
)

// Sink receives every finished blueprint after the pipeline returns. Sinks
// never change the blueprint and their failures never fail the run.
type Sink interface {
	Name() string
	Accept(ctx context.Context, bp *models.Blueprint) error
}

type Handler struct {
	config       *Config
	pipeline     *Pipeline
	sinks        []Sink
	logger       logger.Logger
	errorHandler *apperrors.ErrorHandler
}

func NewHandler(config *Config, pipeline *Pipeline, log logger.Logger, sinks ...Sink) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		pipeline:     pipeline,
		sinks:        sinks,
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
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(apperrors.AsStandardError(err).Code)).Inc()
		return
	}

	if err := camunda.CompleteJob(ctx, client, job, output); err != nil {
		h.logger.Error("failed to complete job", map[string]interface{}{"error": err})
		return
	}
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	bp, err := h.pipeline.Run(ctx, input)
	if err != nil {
		return nil, err
	}
	h.deliver(bp)
	return &Output{Blueprint: bp, Halted: bp.Halted()}, nil
}

// deliver hands the blueprint to every sink on a fresh context so a caller
// deadline cannot cut peripheral writes short.
func (h *Handler) deliver(bp *models.Blueprint) {
	if len(h.sinks) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), h.config.SinkTimeout)
	defer cancel()

	for _, s := range h.sinks {
		if err := s.Accept(ctx, bp); err != nil {
			metrics.SinkFailures.WithLabelValues(s.Name()).Inc()
			h.logger.Warn("sink failed", map[string]interface{}{
				"sink":  s.Name(),
				"runId": bp.RunID,
				"error": err.Error(),
			})
		}
	}
}
