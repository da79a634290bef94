// internal/models/legacy.go
package models

import (
	"fmt"
	"strings"
)

// LegacyIntake is the original seven-field intake still accepted by the API.
type LegacyIntake struct {
	Description      string `json:"description"`
	TargetUsers      string `json:"targetUsers"`
	ExpectedScale    string `json:"expectedScale"`
	ArchitectureMode string `json:"architectureMode"`
	CoreFeatures     string `json:"coreFeatures"`
	Budget           string `json:"budget"`
	Timeline         string `json:"timeline"`
}

// DefaultTimelineDays is assumed when an intake carries no MVP timeline.
const DefaultTimelineDays = 90

var ArchitectureModeLabels = map[string]string{
	IntentLeanMVP:         "Lean MVP",
	IntentScalableStartup: "Scalable Startup",
	IntentVCReady:         "VC-Ready Infra",
	IntentEnterpriseGrade: "Enterprise Grade",
}

var ScaleLabels = map[string]string{
	"10k":  "< 10k users",
	"100k": "10k–100k users",
	"1M":   "100k–1M users",
	"10M+": "1M+ users",
}

var TargetUserLabels = map[string]string{
	"developers":       "Developers (API-first)",
	"gen_z":            "Gen Z (Mobile-first)",
	"enterprise":       "Enterprise (B2B/Security)",
	"internal_ops":     "Internal Teams (Admin/Dashboards)",
	"global_consumers": "Global Consumers (Multi-region)",
}

var legacyScale = map[string]struct{ users, hint string }{
	"10k":  {Users1kTo10k, "small"},
	"100k": {Users10kTo100k, "medium"},
	"1M":   {Users100kTo1m, "large"},
	"10M+": {UsersOver1m, "global"},
}

var legacyTimelineDays = map[string]int{
	"3_months":  90,
	"6_months":  180,
	"12_months": 365,
}

var legacyModeProfile = map[string]struct{ funding, team string }{
	IntentLeanMVP:         {FundingBootstrapped, TeamSolo},
	IntentScalableStartup: {FundingSeed, TeamSmall},
	IntentVCReady:         {FundingSeriesA, TeamMedium},
	IntentEnterpriseGrade: {FundingEnterpriseBudget, TeamEnterprise},
}

// ModeLabel returns the display label of an architecture intent.
func ModeLabel(intent string) string {
	if label, ok := ArchitectureModeLabels[intent]; ok {
		return label
	}
	return ArchitectureModeLabels[IntentScalableStartup]
}

// AdaptLegacy converts the legacy shape into the current intake so both flow
// through the same stages.
func AdaptLegacy(in LegacyIntake) (*Intake, error) {
	scale, ok := legacyScale[in.ExpectedScale]
	if !ok {
		return nil, fmt.Errorf("unknown expectedScale %q", in.ExpectedScale)
	}
	days, ok := legacyTimelineDays[in.Timeline]
	if !ok {
		return nil, fmt.Errorf("unknown timeline %q", in.Timeline)
	}
	profile, ok := legacyModeProfile[in.ArchitectureMode]
	if !ok {
		return nil, fmt.Errorf("unknown architectureMode %q", in.ArchitectureMode)
	}

	out := &Intake{
		Description:        strings.TrimSpace(in.Description),
		TargetUsers:        in.TargetUsers,
		CoreFeatures:       splitFeatures(in.CoreFeatures),
		BudgetTier:         in.Budget,
		ScaleHint:          scale.hint,
		ArchitectureIntent: in.ArchitectureMode,
		UsersAt12Months:    scale.users,
		FundingStage:       profile.funding,
		DevTeamSize:        profile.team,
		MvpTimelineDays:    days,
	}

	switch in.TargetUsers {
	case "enterprise":
		out.PrimaryUserType = "b2b"
	case "internal_ops":
		out.PrimaryUserType = "internal"
	case "global_consumers":
		out.PrimaryUserType = "b2c"
		out.TargetGeographies = []string{"global"}
	default:
		out.PrimaryUserType = "b2c"
	}
	return out, nil
}

// ResolveIntake applies the defaults every stage relies on without mutating
// the caller's value.
func ResolveIntake(in Intake) Intake {
	if in.MvpTimelineDays <= 0 {
		in.MvpTimelineDays = DefaultTimelineDays
	}
	in.Description = strings.TrimSpace(in.Description)
	return in
}

func splitFeatures(raw string) []string {
	var out []string
	for _, part := range strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == ';' || r == '\n' }) {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
