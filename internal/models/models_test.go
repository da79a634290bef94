package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRiskLevelFor(t *testing.T) {
	tests := []struct {
		score int
		want  RiskLevel
	}{
		{0, RiskCritical},
		{24, RiskCritical},
		{25, RiskHigh},
		{49, RiskHigh},
		{50, RiskMedium},
		{74, RiskMedium},
		{75, RiskLow},
		{100, RiskLow},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RiskLevelFor(tt.score), "score %d", tt.score)
	}
}

func TestAdaptLegacy(t *testing.T) {
	in := LegacyIntake{
		Description:      "Marketplace for independent repair shops",
		TargetUsers:      "global_consumers",
		ExpectedScale:    "10M+",
		ArchitectureMode: "enterprise_grade",
		CoreFeatures:     "booking, payments; reviews",
		Budget:           "low",
		Timeline:         "3_months",
	}

	out, err := AdaptLegacy(in)
	require.NoError(t, err)

	assert.Equal(t, UsersOver1m, out.UsersAt12Months)
	assert.Equal(t, "global", out.ScaleHint)
	assert.Equal(t, "low", out.BudgetTier)
	assert.Equal(t, 90, out.MvpTimelineDays)
	assert.Equal(t, FundingEnterpriseBudget, out.FundingStage)
	assert.Equal(t, TeamEnterprise, out.DevTeamSize)
	assert.Equal(t, IntentEnterpriseGrade, out.EffectiveIntent())
	assert.Equal(t, []string{"booking", "payments", "reviews"}, out.CoreFeatures)
	assert.Equal(t, []string{"global"}, out.TargetGeographies)
}

func TestAdaptLegacy_RejectsUnknownValues(t *testing.T) {
	base := LegacyIntake{
		Description:      "Internal dashboard",
		TargetUsers:      "internal_ops",
		ExpectedScale:    "10k",
		ArchitectureMode: "lean_mvp",
		CoreFeatures:     "charts and exports",
		Budget:           "moderate",
		Timeline:         "6_months",
	}

	bad := base
	bad.ExpectedScale = "1B"
	_, err := AdaptLegacy(bad)
	assert.ErrorContains(t, err, "expectedScale")

	bad = base
	bad.Timeline = "tomorrow"
	_, err = AdaptLegacy(bad)
	assert.ErrorContains(t, err, "timeline")

	bad = base
	bad.ArchitectureMode = "serverless"
	_, err = AdaptLegacy(bad)
	assert.ErrorContains(t, err, "architectureMode")
}

func TestIntakeHelpers(t *testing.T) {
	in := Intake{
		ComplianceFrameworks: []string{"none", "HIPAA", " gdpr "},
		AIProvider:           []string{"OpenAI"},
		FundingStage:         FundingSeriesA,
		UsersAt12Months:      Users10kTo100k,
	}

	assert.Equal(t, []string{"hipaa", "gdpr"}, in.Compliance())
	assert.True(t, in.HasCompliance("hipaa"))
	assert.True(t, in.UsesAIProvider("anthropic", "openai"))
	assert.False(t, in.IsFundingAtMostSeed())
	assert.True(t, in.IsFundingAtMostSeriesA())
	assert.True(t, in.IsMidMarketOrHigher())
	assert.False(t, in.IsLargeScale())
	assert.Equal(t, IntentVCReady, in.EffectiveIntent())
}

func TestResolveIntake_DefaultsTimeline(t *testing.T) {
	resolved := ResolveIntake(Intake{Description: "  spaced  "})
	assert.Equal(t, DefaultTimelineDays, resolved.MvpTimelineDays)
	assert.Equal(t, "spaced", resolved.Description)

	kept := ResolveIntake(Intake{MvpTimelineDays: 20})
	assert.Equal(t, 20, kept.MvpTimelineDays)
}

func TestNormalizePriority(t *testing.T) {
	assert.Equal(t, "P0", NormalizePriority("high"))
	assert.Equal(t, "P0", NormalizePriority("P0"))
	assert.Equal(t, "P1", NormalizePriority(""))
	assert.Equal(t, "P2", NormalizePriority("low"))
}

func TestStabilityResult_CountSeverity(t *testing.T) {
	r := StabilityResult{Tensions: []Tension{
		{ID: "T-CB-001", Severity: SeverityCritical},
		{ID: "T-TC-003", Severity: SeverityWarning},
		{ID: "T-CB-002", Severity: SeverityCritical},
	}}

	assert.Equal(t, 2, r.CountSeverity(SeverityCritical))
	assert.Equal(t, 1, r.CountSeverity(SeverityWarning))
	assert.Zero(t, r.CountSeverity(SeverityInfo))
}
