// internal/workers/review/run-quality-gate/handler_test.go
package runqualitygate

import (
	"context"
	"testing"

	"archai-workers/internal/common/config"
	"archai-workers/internal/common/logger"
	"archai-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestConfig() *Config {
	return LoadConfig(config.DefaultPipeline())
}

func completeDoc() models.RequirementsDoc {
	return models.RequirementsDoc{
		ID:       "PRD-TEST",
		Personas: []string{"Operations Manager"},
		Features: []models.Feature{
			{ID: "F-1", Description: "Task board", Priority: "P0"},
			{ID: "F-2", Description: "Reports"},
		},
		AcceptanceCriteria: []string{"GIVEN a user WHEN they create a task THEN it appears on the board"},
		NonFunctionalRequirements: []string{
			"Handle 5k concurrent real-time connections",
			"Background work runs on a durable queue with retry and backoff",
			"Reads are served from a read replica",
		},
	}
}

func checkIDs(r models.QualityGateResult) []string {
	ids := make([]string, 0, len(r.FailedChecks))
	for _, f := range r.FailedChecks {
		ids = append(ids, f.CheckID)
	}
	return ids
}

func TestHandler_Execute(t *testing.T) {
	tests := []struct {
		name           string
		input          func() *Input
		validateOutput func(t *testing.T, r models.QualityGateResult)
	}{
		{
			name: "complete document passes",
			input: func() *Input {
				return &Input{
					Requirements: completeDoc(),
					Intake: models.Intake{
						RequiresRealTime:       true,
						RequiresBackgroundJobs: true,
						ReadReplicaRequired:    true,
						ComplianceFrameworks:   []string{"gdpr"},
					},
					Stability: models.StabilityResult{StabilityScore: 90},
					Archetype: models.ArchetypeDecision{SelectionMethod: models.SelectionDefault},
				}
			},
			validateOutput: func(t *testing.T, r models.QualityGateResult) {
				assert.Equal(t, 100, r.Score)
				assert.Equal(t, models.QualityGatePassed, r.Status)
				assert.Empty(t, r.FailedChecks)
			},
		},
		{
			name: "zero features fails the inventory check and caps the status",
			input: func() *Input {
				doc := completeDoc()
				doc.Features = nil
				return &Input{Requirements: doc, Stability: models.StabilityResult{StabilityScore: 60}}
			},
			validateOutput: func(t *testing.T, r models.QualityGateResult) {
				assert.Equal(t, []string{"CC-002", "CC-003"}, checkIDs(r))
				assert.Equal(t, 94, r.Score)
				assert.Equal(t, models.QualityGateFailedSoft, r.Status)
			},
		},
		{
			name: "missing priority counts as P1",
			input: func() *Input {
				doc := completeDoc()
				doc.Features = []models.Feature{{ID: "F-1", Description: "Only feature"}}
				return &Input{Requirements: doc}
			},
			validateOutput: func(t *testing.T, r models.QualityGateResult) {
				assert.Equal(t, []string{"CC-003"}, checkIDs(r))
				assert.Equal(t, models.QualityGatePassed, r.Status)
			},
		},
		{
			name: "three failures is a consistency failure",
			input: func() *Input {
				return &Input{
					Requirements: models.RequirementsDoc{},
					Stability:    models.StabilityResult{StabilityScore: 80},
					Archetype:    models.ArchetypeDecision{SelectionMethod: models.SelectionForced},
				}
			},
			validateOutput: func(t *testing.T, r models.QualityGateResult) {
				assert.Equal(t, []string{"CC-001", "CC-002", "CC-003", "CC-004", "CC-011"}, checkIDs(r))
				assert.Equal(t, 85, r.Score)
				assert.Equal(t, models.QualityGateConsistencyFailure, r.Status)
			},
		},
		{
			name: "nfr gaps for declared capabilities",
			input: func() *Input {
				doc := completeDoc()
				doc.NonFunctionalRequirements = []string{"p95 latency under 200ms"}
				return &Input{
					Requirements: doc,
					Intake: models.Intake{
						RequiresRealTime:       true,
						RequiresBackgroundJobs: true,
					},
				}
			},
			validateOutput: func(t *testing.T, r models.QualityGateResult) {
				assert.Equal(t, []string{"CC-013", "CC-014"}, checkIDs(r))
				assert.Equal(t, models.QualityGatePassed, r.Status)
			},
		},
		{
			name: "compliance without any nfr",
			input: func() *Input {
				doc := completeDoc()
				doc.NonFunctionalRequirements = nil
				return &Input{Requirements: doc, Intake: models.Intake{
					ComplianceFrameworks: []string{"hipaa"},
					ReadReplicaRequired:  true,
				}}
			},
			validateOutput: func(t *testing.T, r models.QualityGateResult) {
				assert.Equal(t, []string{"CC-006", "CC-015"}, checkIDs(r))
				assert.Equal(t, "Compliance declared but NFR section is empty.", r.FailedChecks[0].Description)
			},
		},
		{
			name: "none placeholder is not a compliance declaration",
			input: func() *Input {
				doc := completeDoc()
				doc.NonFunctionalRequirements = nil
				return &Input{Requirements: doc, Intake: models.Intake{ComplianceFrameworks: []string{"none"}}}
			},
			validateOutput: func(t *testing.T, r models.QualityGateResult) {
				assert.Empty(t, r.FailedChecks)
			},
		},
	}

	handler := NewHandler(createTestConfig(), logger.NewTestLogger(t))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := handler.Execute(context.Background(), tt.input())
			require.NoError(t, err)
			tt.validateOutput(t, out.QualityGate)
		})
	}
}

func TestHandler_Evaluate_ScoreBands(t *testing.T) {
	pipeline := config.DefaultPipeline()
	pipeline.QualityDeduction = 20
	handler := NewHandler(LoadConfig(pipeline), logger.NewNoOpLogger())

	doc := completeDoc()
	doc.Features = []models.Feature{{ID: "F-1", Description: "x", Priority: "P2"}}
	r := handler.Evaluate(&Input{Requirements: doc})
	assert.Equal(t, 80, r.Score)
	assert.Equal(t, models.QualityGateFailedSoft, r.Status)

	doc.Personas = nil
	r = handler.Evaluate(&Input{Requirements: doc})
	assert.Equal(t, []string{"CC-001", "CC-003"}, checkIDs(r))
	assert.Equal(t, 60, r.Score)
	assert.Equal(t, models.QualityGateFailedHard, r.Status)
}
