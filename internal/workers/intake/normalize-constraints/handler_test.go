// internal/workers/intake/normalize-constraints/handler_test.go
package normalizeconstraints

import (
	"context"
	"testing"

	"archai-workers/internal/common/logger"
	"archai-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestConfig() *Config {
	return LoadConfig()
}

func TestHandler_Execute(t *testing.T) {
	tests := []struct {
		name           string
		input          *Input
		validateOutput func(t *testing.T, out *Output)
	}{
		{
			name:  "defaults for an empty intake",
			input: &Input{Intake: models.Intake{Description: "A todo app"}},
			validateOutput: func(t *testing.T, out *Output) {
				c := out.Constraints
				assert.Equal(t, models.BudgetModerate, c.Budget)
				assert.Equal(t, models.ScaleSmall, c.Scale)
				assert.Equal(t, models.TimelineMedium, c.Timeline)
				assert.True(t, c.AuthRequired)
				assert.Equal(t, "relational", c.DBType)
				assert.Empty(t, c.ContradictionFlags)
				assert.NotNil(t, c.ContradictionFlags)
			},
		},
		{
			name: "global scale on a low budget is flagged",
			input: &Input{Intake: models.Intake{
				BudgetTier: "low",
				ScaleHint:  "global",
			}},
			validateOutput: func(t *testing.T, out *Output) {
				assert.Equal(t, models.BudgetLow, out.Constraints.Budget)
				assert.Equal(t, models.ScaleGlobal, out.Constraints.Scale)
				assert.Equal(t, []string{"Global scale requires infrastructure budget (detected: low)"},
					out.Constraints.ContradictionFlags)
			},
		},
		{
			name: "structured fields back up missing hints",
			input: &Input{Intake: models.Intake{
				MonthlyInfrastructureBudget: "50_to_200",
				UsersAt12Months:             models.UsersOver1m,
				MvpTimelineDays:             400,
			}},
			validateOutput: func(t *testing.T, out *Output) {
				assert.Equal(t, models.BudgetLow, out.Constraints.Budget)
				assert.Equal(t, models.ScaleGlobal, out.Constraints.Scale)
				assert.Equal(t, models.TimelineExtended, out.Constraints.Timeline)
				assert.Len(t, out.Constraints.ContradictionFlags, 1)
			},
		},
		{
			name: "hints take precedence over structured fields",
			input: &Input{Intake: models.Intake{
				BudgetTier:                  "Enterprise procurement",
				MonthlyInfrastructureBudget: "under_50",
			}},
			validateOutput: func(t *testing.T, out *Output) {
				assert.Equal(t, models.BudgetEnterprise, out.Constraints.Budget)
			},
		},
		{
			name: "enterprise intent on a fast timeline",
			input: &Input{Intake: models.Intake{
				ArchitectureIntent: models.IntentEnterpriseGrade,
				MvpTimelineDays:    30,
			}},
			validateOutput: func(t *testing.T, out *Output) {
				assert.Equal(t, models.TimelineFast, out.Constraints.Timeline)
				assert.Equal(t, []string{"Enterprise-grade architecture requires a longer timeline (detected: fast)"},
					out.Constraints.ContradictionFlags)
			},
		},
		{
			name: "context hints and standards win over the intake",
			input: &Input{
				Intake: models.Intake{BudgetTier: "high", ComplianceFrameworks: []string{"gdpr"}},
				Context: &models.NormalizedContext{
					Constraints: models.ContextConstraints{Budget: "tight budget", Scale: "worldwide"},
					Compliance:  models.ComplianceRequirements{IsRequired: true, Standards: []string{"hipaa"}},
				},
			},
			validateOutput: func(t *testing.T, out *Output) {
				assert.Equal(t, models.BudgetLow, out.Constraints.Budget)
				assert.Equal(t, models.ScaleGlobal, out.Constraints.Scale)
				assert.Equal(t, []string{"hipaa"}, out.Constraints.Compliance)
			},
		},
		{
			name:  "compliance falls back to declared frameworks",
			input: &Input{Intake: models.Intake{ComplianceFrameworks: []string{"none", "GDPR", "soc2_type2"}}},
			validateOutput: func(t *testing.T, out *Output) {
				assert.Equal(t, []string{"gdpr", "soc2_type2"}, out.Constraints.Compliance)
			},
		},
	}

	handler := NewHandler(createTestConfig(), logger.NewTestLogger(t))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := handler.Execute(context.Background(), tt.input)
			require.NoError(t, err)
			require.NotNil(t, out)
			tt.validateOutput(t, out)
		})
	}
}

func TestTimelineTier(t *testing.T) {
	tests := []struct {
		days int
		want string
	}{
		{0, models.TimelineMedium},
		{14, models.TimelineFast},
		{60, models.TimelineFast},
		{61, models.TimelineMedium},
		{180, models.TimelineMedium},
		{181, models.TimelineStandard},
		{365, models.TimelineStandard},
		{366, models.TimelineExtended},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TimelineTier(tt.days), "days=%d", tt.days)
	}
}

func TestNormalize_IsDeterministic(t *testing.T) {
	in := &models.Intake{BudgetTier: "low", ScaleHint: "global", MvpTimelineDays: 20}
	assert.Equal(t, Normalize(in, nil), Normalize(in, nil))
}
