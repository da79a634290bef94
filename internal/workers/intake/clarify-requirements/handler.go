// internal/workers/intake/clarify-requirements/handler.go
package clarifyrequirements

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"archai-workers/internal/common/camunda"
	"archai-workers/internal/common/config"
	apperrors "archai-workers/internal/common/errors"
	"archai-workers/internal/common/logger"
	"archai-workers/internal/common/metrics"
	"archai-workers/internal/common/reasoning"
	"archai-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "clarify-requirements"
)

const (
	purposeGap       = "gap_report"
	purposeQuestions = "questions"
)

var errNoUsableQuestions = errors.New("no usable questions in response")

type Handler struct {
	config       *Config
	reasoner     reasoning.Client
	logger       logger.Logger
	errorHandler *apperrors.ErrorHandler
}

// NewHandler builds the coordinator. reasoner may be nil when only demo mode
// is used; a live run without one takes the safe default verdict.
func NewHandler(config *Config, reasoner reasoning.Client, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		reasoner:     reasoner,
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

// Execute scores the intake and either lets the run proceed or halts it with
// clarification questions. Reasoning failures never surface as errors.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	intake := input.Intake
	mode := h.config.ExecutionMode
	if input.ExecutionMode != "" {
		mode = input.ExecutionMode
	}

	report, outcome := h.assess(ctx, mode, &intake)

	output := &Output{
		Clarification: models.Clarification{
			ClarityScore:   report.ClarityScore,
			MissingFields:  report.MissingFields,
			AmbiguousAreas: report.AmbiguousAreas,
			Questions:      []models.ClarificationQuestion{},
		},
	}

	switch {
	case len(input.Answers) > 0:
		output.Proceed = true
		output.Clarification.Status = models.ClarificationResolved
		outcome.Details += fmt.Sprintf(" %d clarification answers supplied; gate satisfied.", len(input.Answers))
	case report.ClarityScore >= h.config.ClarityThreshold:
		output.Proceed = true
		output.Clarification.Status = models.ClarificationSkipped
		outcome.Details += fmt.Sprintf(" Clarity %d meets threshold %d.", report.ClarityScore, h.config.ClarityThreshold)
	default:
		output.Clarification.Status = models.ClarificationPending
		output.Clarification.Questions = h.questions(ctx, mode, report, &intake, &outcome)
		outcome.Details += fmt.Sprintf(" Clarity %d below threshold %d; halted with %d questions.",
			report.ClarityScore, h.config.ClarityThreshold, len(output.Clarification.Questions))
	}

	if output.Proceed {
		output.Context = models.NewNormalizedContext(&intake, input.Answers)
	}
	output.Outcome = outcome

	h.logger.Info("clarity assessed", map[string]interface{}{
		"mode":         mode,
		"clarityScore": report.ClarityScore,
		"proceed":      output.Proceed,
		"status":       string(outcome.Status),
	})
	return output, nil
}

func (h *Handler) assess(ctx context.Context, mode string, in *models.Intake) (GapReport, Outcome) {
	if mode != config.ExecutionModeLive {
		report := ScoreDimensions(in)
		return report, Outcome{
			Status:  models.AuditPassed,
			Details: fmt.Sprintf("Deterministic clarity heuristic scored %d/100.", report.ClarityScore),
		}
	}

	raw, err := h.complete(ctx, purposeGap, gapSystemPrompt, gapPrompt(in), gapReplyCheck)
	if err == nil {
		var parsed interface{}
		if parsed, err = ExtractJSON(raw, isGapReport); err == nil {
			report := normalizeGapReport(parsed)
			return report, Outcome{
				Status:  models.AuditPassed,
				Details: fmt.Sprintf("Reasoning service scored clarity %d/100.", report.ClarityScore),
			}
		}
		err = apperrors.NewReasoningParseError(err)
	}

	h.logger.Warn("clarity assessment failed, using safe default verdict", map[string]interface{}{
		"error": err.Error(),
	})
	return FallbackReport(), Outcome{
		Status:  models.AuditFailed,
		Details: fmt.Sprintf("Reasoning call failed (%s); safe default verdict applied.", err.Error()),
	}
}

func (h *Handler) questions(ctx context.Context, mode string, report GapReport, in *models.Intake, outcome *Outcome) []models.ClarificationQuestion {
	limit := h.config.MaxQuestions
	if mode != config.ExecutionModeLive {
		return dimensionQuestions(in, limit)
	}

	raw, err := h.complete(ctx, purposeQuestions, questionSystemPrompt, questionPrompt(report, in, limit), questionReplyCheck(limit))
	if err == nil {
		var parsed interface{}
		if parsed, err = ExtractJSON(raw, isQuestionSet); err == nil {
			if qs := normalizeQuestions(parsed, limit); len(qs) > 0 {
				return qs
			}
			err = errNoUsableQuestions
		}
	}

	h.logger.Warn("question generation failed, deriving questions from gap report", map[string]interface{}{
		"error": err.Error(),
	})
	qs := fallbackQuestions(report, limit)
	if len(qs) == 0 {
		qs = dimensionQuestions(in, limit)
	}
	if outcome.Status == models.AuditPassed {
		outcome.Status = models.AuditRepaired
	}
	outcome.Repairs = append(outcome.Repairs, "Deterministic fallback: clarification questions derived from the gap report.")
	return qs
}

func (h *Handler) complete(ctx context.Context, purpose, system, prompt string, check reasoning.ReplyCheck) (string, error) {
	if h.reasoner == nil {
		metrics.ReasoningCalls.WithLabelValues(purpose, "unconfigured").Inc()
		return "", apperrors.NewReasoningUnavailableError("none", errors.New("no reasoning client configured"))
	}

	ctx, cancel := context.WithTimeout(ctx, h.config.ReasoningTimeout)
	defer cancel()

	out, err := reasoning.CompleteChecked(ctx, h.reasoner, system, prompt, check)
	switch {
	case err == nil:
		metrics.ReasoningCalls.WithLabelValues(purpose, "ok").Inc()
		return out, nil
	case errors.Is(err, reasoning.ErrRejected):
		metrics.ReasoningCalls.WithLabelValues(purpose, "rejected").Inc()
		return "", apperrors.NewReasoningParseError(err)
	case errors.Is(err, reasoning.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		metrics.ReasoningCalls.WithLabelValues(purpose, "timeout").Inc()
		return "", apperrors.NewReasoningTimeoutError(h.reasoner.Name())
	default:
		metrics.ReasoningCalls.WithLabelValues(purpose, "error").Inc()
		return "", apperrors.NewReasoningUnavailableError(h.reasoner.Name(), err)
	}
}

// gapReplyCheck and questionReplyCheck keep unusable replies out of the
// verdict cache.
func gapReplyCheck(reply string) error {
	_, err := ExtractJSON(reply, isGapReport)
	return err
}

func questionReplyCheck(limit int) reasoning.ReplyCheck {
	return func(reply string) error {
		parsed, err := ExtractJSON(reply, isQuestionSet)
		if err != nil {
			return err
		}
		if len(normalizeQuestions(parsed, limit)) == 0 {
			return errNoUsableQuestions
		}
		return nil
	}
}
