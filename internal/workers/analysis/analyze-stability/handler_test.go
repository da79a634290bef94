// internal/workers/analysis/analyze-stability/handler_test.go
package analyzestability

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

func tensionIDs(r models.StabilityResult) []string {
	ids := make([]string, 0, len(r.Tensions))
	for _, t := range r.Tensions {
		ids = append(ids, t.ID)
	}
	return ids
}

func TestHandler_Execute(t *testing.T) {
	tests := []struct {
		name           string
		intake         models.Intake
		validateOutput func(t *testing.T, r models.StabilityResult)
	}{
		{
			name:   "clean intake keeps the base score",
			intake: models.Intake{Description: "Internal tool", FundingStage: models.FundingSeed, DevTeamSize: models.TeamSmall},
			validateOutput: func(t *testing.T, r models.StabilityResult) {
				assert.Equal(t, 100, r.BaseScore)
				assert.Equal(t, 100, r.StabilityScore)
				assert.Equal(t, models.RiskLow, r.RiskLevel)
				assert.Empty(t, r.Tensions)
				assert.Empty(t, r.Amplifications)
			},
		},
		{
			name: "hipaa on bootstrap is critical",
			intake: models.Intake{
				FundingStage:         models.FundingBootstrapped,
				ComplianceFrameworks: []string{"hipaa"},
				MvpTimelineDays:      120,
			},
			validateOutput: func(t *testing.T, r models.StabilityResult) {
				require.Len(t, r.Tensions, 1)
				assert.Equal(t, "T-CB-001", r.Tensions[0].ID)
				assert.Equal(t, models.SeverityCritical, r.Tensions[0].Severity)
				assert.Equal(t, 25, r.Tensions[0].Deduction)
				assert.Equal(t, 75, r.StabilityScore)
				assert.Equal(t, models.RiskLow, r.RiskLevel)
			},
		},
		{
			name: "info tensions do not deduct",
			intake: models.Intake{
				DevTeamSize:           models.TeamSolo,
				OpenTelemetryRequired: true,
			},
			validateOutput: func(t *testing.T, r models.StabilityResult) {
				assert.Equal(t, []string{"T-AT-004"}, tensionIDs(r))
				assert.Equal(t, 0, r.Tensions[0].Deduction)
				assert.Equal(t, 100, r.StabilityScore)
			},
		},
		{
			name: "critical cluster amplifies and score floors at zero",
			intake: models.Intake{
				FundingStage:               models.FundingBootstrapped,
				DevTeamSize:                models.TeamSolo,
				MvpTimelineDays:            14,
				UsersAt12Months:            models.UsersOver1m,
				AcceptableDowntimePerMonth: "under_5min",
				ComplianceFrameworks:       []string{"hipaa", "soc2_type2", "pci_dss"},
				RequiresRealTime:           true,
			},
			validateOutput: func(t *testing.T, r models.StabilityResult) {
				assert.Equal(t, []string{
					"T-BS-002", "T-BS-005", "T-TC-003", "T-TC-005", "T-CB-001", "T-CB-002", "T-CB-004",
				}, tensionIDs(r))
				assert.Equal(t, 10+15+10+10, r.AmplificationDeductions)
				assert.Len(t, r.Amplifications, 4)
				assert.Equal(t, 0, r.StabilityScore)
				assert.Equal(t, models.RiskCritical, r.RiskLevel)
			},
		},
		{
			name: "ai privacy contradiction",
			intake: models.Intake{
				RequiresAI:           true,
				AIDataPrivacy:        "no_external_ai",
				AIProvider:           []string{"google_gemini"},
				AIMonthlyCostCeiling: "under_100",
				AIFeatures:           []string{"text_generation"},
			},
			validateOutput: func(t *testing.T, r models.StabilityResult) {
				assert.Equal(t, []string{"T-AC-002", "T-AC-003"}, tensionIDs(r))
				assert.Equal(t, 65, r.StabilityScore)
				assert.Equal(t, models.RiskMedium, r.RiskLevel)
			},
		},
		{
			name: "performance and realtime tensions",
			intake: models.Intake{
				TargetAPIP95:              "under_100ms",
				ColdStartTolerance:        "zero",
				DeploymentPlatform:        "vercel",
				TargetFCP:                 "under_1s",
				RenderingStrategy:         "csr",
				PeakRPS:                   "over_10k",
				ConnectionPooling:         "none",
				RequiresRealTime:          true,
				RealTimeProtocol:          "websockets",
				RealTimeDeliveryGuarantee: "exactly_once",
			},
			validateOutput: func(t *testing.T, r models.StabilityResult) {
				assert.Equal(t, []string{"T-PI-001", "T-PI-003", "T-PI-004", "T-PI-005", "T-RT-003"}, tensionIDs(r))
				assert.Equal(t, 20, r.StabilityScore)
				assert.Equal(t, models.RiskCritical, r.RiskLevel)
				assert.Zero(t, r.AmplificationDeductions)
			},
		},
	}

	handler := NewHandler(createTestConfig(), logger.NewTestLogger(t))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := handler.Execute(context.Background(), &Input{Intake: tt.intake})
			require.NoError(t, err)
			tt.validateOutput(t, out.Stability)
			assert.GreaterOrEqual(t, out.Stability.StabilityScore, 0)
			assert.LessOrEqual(t, out.Stability.StabilityScore, 100)
		})
	}
}

func TestHandler_ConfiguredWeights(t *testing.T) {
	pipeline := config.DefaultPipeline()
	pipeline.Severity.Critical = 40
	pipeline.Amplification.SoloComplexity = 30

	handler := NewHandler(LoadConfig(pipeline), logger.NewNoOpLogger())
	result := handler.Analyze(&models.Intake{
		FundingStage:         models.FundingBootstrapped,
		ComplianceFrameworks: []string{"hipaa"},
		DevTeamSize:          models.TeamSolo,
		RequiresRealTime:     true,
		MvpTimelineDays:      90,
	})

	assert.Equal(t, []string{"T-CB-001"}, tensionIDs(result))
	assert.Equal(t, 40, result.Tensions[0].Deduction)
	assert.Equal(t, 30, result.AmplificationDeductions)
	assert.Equal(t, 30, result.StabilityScore)
	assert.Equal(t, models.RiskHigh, result.RiskLevel)
}

func TestHandler_Analyze_IsDeterministic(t *testing.T) {
	handler := NewHandler(createTestConfig(), logger.NewNoOpLogger())
	in := &models.Intake{FundingStage: models.FundingBootstrapped, MonthlyInfrastructureBudget: "under_50"}
	assert.Equal(t, handler.Analyze(in), handler.Analyze(in))
}
