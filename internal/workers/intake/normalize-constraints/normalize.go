// internal/workers/intake/normalize-constraints/normalize.go
package normalizeconstraints

import (
	"strings"
	"unicode"

	"archai-workers/internal/models"
)

type keywordRule struct {
	value    string
	keywords []string
}

// Rules are evaluated in order; the first rule with a matching word wins.
var budgetRules = []keywordRule{
	{models.BudgetEnterprise, []string{"enterprise", "unlimited", "corporate"}},
	{models.BudgetLow, []string{"low", "lowest", "bootstrap", "bootstrapped", "minimal", "tight", "limited", "cheap", "shoestring", "free"}},
	{models.BudgetHigh, []string{"high", "well-funded", "generous", "significant", "funded"}},
	{models.BudgetModerate, []string{"moderate", "medium", "mid", "reasonable", "standard"}},
}

var scaleRules = []keywordRule{
	{models.ScaleGlobal, []string{"global", "worldwide", "international", "multi-region", "10m+"}},
	{models.ScaleLarge, []string{"large", "massive", "millions", "1m"}},
	{models.ScaleMedium, []string{"medium", "moderate", "growing", "thousands", "100k"}},
	{models.ScaleSmall, []string{"small", "tiny", "pilot", "internal", "hundreds", "10k"}},
}

var budgetBands = map[string]string{
	"under_50":   models.BudgetLow,
	"50_to_200":  models.BudgetLow,
	"200_to_500": models.BudgetModerate,
	"500_to_2k":  models.BudgetModerate,
	"2k_to_10k":  models.BudgetHigh,
	"over_10k":   models.BudgetEnterprise,
}

var userBands = map[string]string{
	"under_100":           models.ScaleSmall,
	"100_to_1k":           models.ScaleSmall,
	models.Users1kTo10k:   models.ScaleSmall,
	models.Users10kTo100k: models.ScaleMedium,
	models.Users100kTo1m:  models.ScaleLarge,
	models.UsersOver1m:    models.ScaleGlobal,
}

type contradictionRule struct {
	applies func(c *models.SanitizedConstraints, in *models.Intake) bool
	message string
}

// contradictionRules only ever append; adding a rule never changes the
// other output fields.
var contradictionRules = []contradictionRule{
	{
		applies: func(c *models.SanitizedConstraints, _ *models.Intake) bool {
			return c.Scale == models.ScaleGlobal && c.Budget == models.BudgetLow
		},
		message: "Global scale requires infrastructure budget (detected: low)",
	},
	{
		applies: func(c *models.SanitizedConstraints, in *models.Intake) bool {
			return c.Timeline == models.TimelineFast && in.ArchitectureIntent == models.IntentEnterpriseGrade
		},
		message: "Enterprise-grade architecture requires a longer timeline (detected: fast)",
	},
}

// Normalize maps an intake and its context onto the closed constraint
// vocabulary. It is total: every input produces a value.
func Normalize(in *models.Intake, ctx *models.NormalizedContext) models.SanitizedConstraints {
	budgetHint, scaleHint := in.BudgetTier, in.ScaleHint
	var standards []string
	if ctx != nil {
		if ctx.Constraints.Budget != "" {
			budgetHint = ctx.Constraints.Budget
		}
		if ctx.Constraints.Scale != "" {
			scaleHint = ctx.Constraints.Scale
		}
		standards = ctx.Compliance.Standards
	}
	if len(standards) == 0 {
		standards = in.Compliance()
	}

	out := models.SanitizedConstraints{
		Budget:             resolve(budgetHint, budgetRules, budgetBands[in.MonthlyInfrastructureBudget], models.BudgetModerate),
		Scale:              resolve(scaleHint, scaleRules, userBands[in.UsersAt12Months], models.ScaleSmall),
		Timeline:           TimelineTier(in.MvpTimelineDays),
		Compliance:         append([]string{}, standards...),
		AuthRequired:       true,
		DBType:             "relational",
		ContradictionFlags: []string{},
	}

	for _, rule := range contradictionRules {
		if rule.applies(&out, in) {
			out.ContradictionFlags = append(out.ContradictionFlags, rule.message)
		}
	}
	return out
}

// TimelineTier buckets MVP days. Zero or negative means unspecified.
func TimelineTier(days int) string {
	switch {
	case days <= 0:
		return models.TimelineMedium
	case days <= 60:
		return models.TimelineFast
	case days <= 180:
		return models.TimelineMedium
	case days <= 365:
		return models.TimelineStandard
	default:
		return models.TimelineExtended
	}
}

func resolve(hint string, rules []keywordRule, fallback, def string) string {
	if hint != "" {
		words := tokenize(hint)
		for _, rule := range rules {
			for _, kw := range rule.keywords {
				if _, ok := words[kw]; ok {
					return rule.value
				}
			}
		}
	}
	if fallback != "" {
		return fallback
	}
	return def
}

func tokenize(s string) map[string]struct{} {
	words := make(map[string]struct{})
	for _, w := range strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-' && r != '+'
	}) {
		words[w] = struct{}{}
	}
	return words
}
