// internal/workers/intake/clarify-requirements/dimensions.go
package clarifyrequirements

import (
	"strings"

	"archai-workers/internal/models"
)

const minDescriptionLength = 20

// Dimension is one axis of intake clarity. Demo mode scores an intake by the
// weighted share of dimensions it covers.
type Dimension struct {
	Name     string
	Weight   int
	Question models.ClarificationQuestion
	covered  func(in *models.Intake) bool
}

var dimensions = []Dimension{
	{
		Name:   "problem_statement",
		Weight: 10,
		Question: models.ClarificationQuestion{
			Label: "What problem does the product solve, and what does a successful first release look like?",
			Type:  models.QuestionText,
		},
		covered: func(in *models.Intake) bool {
			return len(strings.TrimSpace(in.Description)) >= minDescriptionLength
		},
	},
	{
		Name:   "core_features",
		Weight: 10,
		Question: models.ClarificationQuestion{
			Label: "Which core features must ship in the MVP?",
			Type:  models.QuestionText,
		},
		covered: func(in *models.Intake) bool { return len(in.CoreFeatures) > 0 },
	},
	{
		Name:   "target_users",
		Weight: 8,
		Question: models.ClarificationQuestion{
			Label:   "Who are the primary users?",
			Type:    models.QuestionChoice,
			Options: []string{"developers", "gen_z", "enterprise", "internal_ops", "global_consumers"},
		},
		covered: func(in *models.Intake) bool { return in.TargetUsers != "" || in.PrimaryUserType != "" },
	},
	{
		Name:   "expected_scale",
		Weight: 7,
		Question: models.ClarificationQuestion{
			Label:   "How many users do you expect twelve months after launch?",
			Type:    models.QuestionChoice,
			Options: []string{models.Users1kTo10k, models.Users10kTo100k, models.Users100kTo1m, models.UsersOver1m},
		},
		covered: func(in *models.Intake) bool {
			return in.UsersAt12Months != "" || in.ScaleHint != "" || in.PeakRPS != ""
		},
	},
	{
		Name:   "budget",
		Weight: 6,
		Question: models.ClarificationQuestion{
			Label: "What is the funding stage of the project?",
			Type:  models.QuestionChoice,
			Options: []string{
				models.FundingBootstrapped, models.FundingSeed, models.FundingSeriesA,
				models.FundingSeriesB, models.FundingEnterpriseBudget,
			},
		},
		covered: func(in *models.Intake) bool {
			return in.FundingStage != "" || in.BudgetTier != "" || in.MonthlyInfrastructureBudget != ""
		},
	},
	{
		Name:   "timeline",
		Weight: 5,
		Question: models.ClarificationQuestion{
			Label: "How many days until the MVP must be live?",
			Type:  models.QuestionText,
		},
		covered: func(in *models.Intake) bool { return in.MvpTimelineDays > 0 },
	},
	{
		Name:   "team",
		Weight: 5,
		Question: models.ClarificationQuestion{
			Label:   "How large is the engineering team?",
			Type:    models.QuestionChoice,
			Options: []string{models.TeamSolo, models.TeamSmall, models.TeamMedium, models.TeamLarge, models.TeamEnterprise},
		},
		covered: func(in *models.Intake) bool { return in.DevTeamSize != "" },
	},
	{
		Name:   "architecture_intent",
		Weight: 4,
		Question: models.ClarificationQuestion{
			Label:   "How far should the first architecture go beyond the MVP? (1 = lean MVP, 5 = enterprise grade)",
			Type:    models.QuestionScale,
			Options: []string{"1", "5"},
		},
		covered: func(in *models.Intake) bool { return in.ArchitectureIntent != "" },
	},
	{
		Name:   "compliance",
		Weight: 4,
		Question: models.ClarificationQuestion{
			Label:   "Which compliance frameworks apply?",
			Type:    models.QuestionChoice,
			Options: []string{"none", "gdpr", "hipaa", "soc2", "pci_dss"},
		},
		covered: func(in *models.Intake) bool {
			return len(in.ComplianceFrameworks) > 0 || in.ComplianceHints != ""
		},
	},
}

// ScoreDimensions is the demo-mode verdict. Uncovered dimensions become
// missing fields; a short description is also flagged as ambiguous.
func ScoreDimensions(in *models.Intake) GapReport {
	total, covered := 0, 0
	report := GapReport{MissingFields: []string{}, AmbiguousAreas: []string{}}

	for _, d := range dimensions {
		total += d.Weight
		if d.covered(in) {
			covered += d.Weight
			continue
		}
		report.MissingFields = append(report.MissingFields, d.Name)
	}

	if desc := strings.TrimSpace(in.Description); desc != "" && len(desc) < minDescriptionLength {
		report.AmbiguousAreas = append(report.AmbiguousAreas, "Problem description is too short to infer the domain")
	}
	if len(in.CoreFeatures) == 1 {
		report.AmbiguousAreas = append(report.AmbiguousAreas, "Only one core feature is described")
	}

	report.ClarityScore = covered * 100 / total
	return report
}

// dimensionQuestions returns questions for uncovered dimensions, heaviest
// first, keyed by dimension name.
func dimensionQuestions(in *models.Intake, limit int) []models.ClarificationQuestion {
	var out []models.ClarificationQuestion
	for _, d := range dimensions {
		if len(out) == limit {
			break
		}
		if d.covered(in) {
			continue
		}
		q := d.Question
		q.ID = d.Name
		q.Options = append([]string(nil), d.Question.Options...)
		out = append(out, q)
	}
	return out
}
