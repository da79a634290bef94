// internal/workers/analysis/select-archetype/handler_test.go
package selectarchetype

import (
	"context"
	"testing"

	"archai-workers/internal/common/logger"
	"archai-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testLogger struct {
	t *testing.T
}

func (tl *testLogger) Debug(msg string, fields map[string]interface{}) {
	tl.t.Logf("DEBUG: %s %v", msg, fields)
}

func (tl *testLogger) Info(msg string, fields map[string]interface{}) {
	tl.t.Logf("INFO: %s %v", msg, fields)
}

func (tl *testLogger) Warn(msg string, fields map[string]interface{}) {
	tl.t.Logf("WARN: %s %v", msg, fields)
}

func (tl *testLogger) Error(msg string, fields map[string]interface{}) {
	tl.t.Logf("ERROR: %s %v", msg, fields)
}

func (tl *testLogger) WithFields(fields map[string]interface{}) logger.Logger {
	return tl
}

func (tl *testLogger) WithError(err error) logger.Logger {
	return tl
}

func (tl *testLogger) With(fields map[string]interface{}) logger.Logger {
	return tl
}

func newTestLogger(t *testing.T) logger.Logger {
	return &testLogger{t: t}
}

func stable(score int) models.StabilityResult {
	return models.StabilityResult{BaseScore: 100, StabilityScore: score, RiskLevel: models.RiskLevelFor(score)}
}

func TestHandler_Execute(t *testing.T) {
	tests := []struct {
		name      string
		intake    models.Intake
		stability models.StabilityResult
		archetype models.Archetype
		method    models.SelectionMethod
		reasons   []string
	}{
		{
			name:      "low stability forces a monolith",
			intake:    models.Intake{DevTeamSize: models.TeamEnterprise, MvpTimelineDays: 400},
			stability: stable(49),
			archetype: models.ArchetypeMonolith,
			method:    models.SelectionForced,
			reasons:   []string{ReasonLowStability},
		},
		{
			name:      "solo team on a 20 day timeline reports the timeline",
			intake:    models.Intake{DevTeamSize: models.TeamSolo, MvpTimelineDays: 20},
			stability: stable(90),
			archetype: models.ArchetypeMonolith,
			method:    models.SelectionForced,
			reasons:   []string{ReasonTightTimeline},
		},
		{
			name:      "small team",
			intake:    models.Intake{DevTeamSize: models.TeamSmall, MvpTimelineDays: 120},
			stability: stable(80),
			archetype: models.ArchetypeMonolith,
			method:    models.SelectionForced,
			reasons:   []string{ReasonSmallTeam},
		},
		{
			name: "enterprise profile suggests microservices",
			intake: models.Intake{
				DevTeamSize:     models.TeamEnterprise,
				FundingStage:    models.FundingSeriesB,
				UsersAt12Months: models.Users100kTo1m,
				MvpTimelineDays: 365,
			},
			stability: stable(85),
			archetype: models.ArchetypeMicroservices,
			method:    models.SelectionSuggested,
			reasons:   []string{},
		},
		{
			name: "enterprise profile with a short runway falls back to the default",
			intake: models.Intake{
				DevTeamSize:     models.TeamEnterprise,
				FundingStage:    models.FundingGovernment,
				UsersAt12Months: models.UsersOver1m,
				MvpTimelineDays: 300,
			},
			stability: stable(85),
			archetype: models.ArchetypeModularMonolith,
			method:    models.SelectionDefault,
			reasons:   []string{},
		},
		{
			name:      "missing timeline uses the default days",
			intake:    models.Intake{DevTeamSize: models.TeamMedium},
			stability: stable(70),
			archetype: models.ArchetypeModularMonolith,
			method:    models.SelectionDefault,
			reasons:   []string{},
		},
	}

	handler := NewHandler(LoadConfig(), newTestLogger(t))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := handler.Execute(context.Background(), &Input{Intake: tt.intake, Stability: tt.stability})
			require.NoError(t, err)
			assert.Equal(t, tt.archetype, out.Archetype.SelectedArchetype)
			assert.Equal(t, tt.method, out.Archetype.SelectionMethod)
			assert.Equal(t, tt.reasons, out.Archetype.ForcedReasons)
		})
	}
}

func TestHandler_Select_LowStabilityAlwaysForcesMonolith(t *testing.T) {
	handler := NewHandler(LoadConfig(), newTestLogger(t))
	for score := 0; score < 50; score++ {
		d := handler.Select(&models.Intake{DevTeamSize: models.TeamEnterprise, MvpTimelineDays: 500}, stable(score))
		assert.Equal(t, models.ArchetypeMonolith, d.SelectedArchetype)
		assert.Equal(t, models.SelectionForced, d.SelectionMethod)
	}
}
