// internal/models/analysis.go
package models

type NormalizedContext struct {
	ProblemStatement string                 `json:"problemStatement"`
	TargetUser       string                 `json:"targetUser"`
	SuccessMetrics   []string               `json:"successMetrics"`
	Constraints      ContextConstraints     `json:"constraints"`
	Compliance       ComplianceRequirements `json:"compliance"`
}

// ContextConstraints holds the raw hint strings before normalization.
type ContextConstraints struct {
	Budget   string `json:"budget"`
	Scale    string `json:"scale"`
	Timeline string `json:"timeline"`
}

type ComplianceRequirements struct {
	IsRequired bool     `json:"isRequired"`
	Standards  []string `json:"standards"`
}

const (
	BudgetLow        = "low"
	BudgetModerate   = "moderate"
	BudgetHigh       = "high"
	BudgetEnterprise = "enterprise"

	ScaleSmall  = "small"
	ScaleMedium = "medium"
	ScaleLarge  = "large"
	ScaleGlobal = "global"

	TimelineFast     = "fast"
	TimelineMedium   = "medium"
	TimelineStandard = "standard"
	TimelineExtended = "extended"
)

type SanitizedConstraints struct {
	Budget             string   `json:"budget"`
	Scale              string   `json:"scale"`
	Timeline           string   `json:"timeline"`
	Compliance         []string `json:"compliance"`
	AuthRequired       bool     `json:"authRequired"`
	DBType             string   `json:"dbType"`
	ContradictionFlags []string `json:"contradictionFlags"`
}

type Severity string

const (
	SeverityCritical Severity = "CRIT"
	SeverityWarning  Severity = "WARN"
	SeverityInfo     Severity = "INFO"
)

type RiskLevel string

const (
	RiskLow      RiskLevel = "Low"
	RiskMedium   RiskLevel = "Medium"
	RiskHigh     RiskLevel = "High"
	RiskCritical RiskLevel = "Critical"
)

// RiskLevelFor buckets a stability score.
func RiskLevelFor(score int) RiskLevel {
	switch {
	case score < 25:
		return RiskCritical
	case score < 50:
		return RiskHigh
	case score < 75:
		return RiskMedium
	default:
		return RiskLow
	}
}

type Tension struct {
	ID          string   `json:"id"`
	Severity    Severity `json:"severity"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Deduction   int      `json:"deduction"`
	Mitigation  string   `json:"mitigation"`
}

// Amplification is a flat penalty applied on top of tension deductions.
type Amplification struct {
	ID        string `json:"id"`
	Reason    string `json:"reason"`
	Deduction int    `json:"deduction"`
}

type StabilityResult struct {
	BaseScore               int             `json:"baseScore"`
	Tensions                []Tension       `json:"tensions"`
	AmplificationDeductions int             `json:"amplificationDeductions"`
	Amplifications          []Amplification `json:"amplifications"`
	StabilityScore          int             `json:"stabilityScore"`
	RiskLevel               RiskLevel       `json:"riskLevel"`
}

// CountSeverity returns how many tensions carry the given severity.
func (r *StabilityResult) CountSeverity(sev Severity) int {
	n := 0
	for _, t := range r.Tensions {
		if t.Severity == sev {
			n++
		}
	}
	return n
}

type Archetype string

const (
	ArchetypeMonolith        Archetype = "monolith"
	ArchetypeModularMonolith Archetype = "modular_monolith"
	ArchetypeMicroservices   Archetype = "microservices"
)

type SelectionMethod string

const (
	SelectionForced    SelectionMethod = "FORCED"
	SelectionSuggested SelectionMethod = "SUGGESTED"
	SelectionDefault   SelectionMethod = "DEFAULT"
)

type ArchetypeDecision struct {
	SelectedArchetype Archetype       `json:"selectedArchetype"`
	SelectionMethod   SelectionMethod `json:"selectionMethod"`
	ForcedReasons     []string        `json:"forcedReasons"`
}
