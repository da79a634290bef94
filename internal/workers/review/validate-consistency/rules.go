// internal/workers/review/validate-consistency/rules.go
package validateconsistency

import (
	"fmt"
	"strings"

	"archai-workers/internal/models"
)

const (
	GroupIntegrity    = "integrity"
	GroupProduct      = "product"
	GroupArchitecture = "architecture"
	GroupRepository   = "repository"
)

// rule inspects a draft and returns zero or more critiques.
type rule func(bp *models.Blueprint) []models.Critique

var ruleGroups = map[string][]rule{
	GroupIntegrity:    {highScaleWithoutAsync, mobileFoldersDespiteNonGoal, globalSummaryOnRegionalDB},
	GroupProduct:      {qualitativeSuccessCriteria, mobileJourneysDespiteNonGoal},
	GroupArchitecture: {enterpriseOnVercel, personasWithoutAuth},
	GroupRepository:   {servicesWithoutFolders, brokerWithoutClient},
}

// groupOrder fixes evaluation order regardless of configuration order.
var groupOrder = []string{GroupIntegrity, GroupProduct, GroupArchitecture, GroupRepository}

var highScaleModes = map[string]bool{
	"Enterprise Grade": true,
	"VC Ready":         true,
	"VC-Ready Infra":   true,
}

func highScaleWithoutAsync(bp *models.Blueprint) []models.Critique {
	if !highScaleModes[bp.ArchitectureMode] {
		return nil
	}
	for _, s := range bp.Services {
		if s.Name == "Message Broker" || s.Name == "Distributed Cache" {
			return nil
		}
	}
	return []models.Critique{{
		ID:            "v-001",
		Field:         "services",
		Severity:      models.CritiqueHigh,
		Message:       "Architecture claims High-Scale readiness but lacks asynchronous messaging or distributed caching.",
		FixSuggestion: "Add Kafka or Redis to service decomposition.",
	}}
}

func mobileFoldersDespiteNonGoal(bp *models.Blueprint) []models.Critique {
	if !anyContains(bp.EngineeringSpec.FolderStructure, "mobile", "ios") || !hasMobileNonGoal(bp) {
		return nil
	}
	return []models.Critique{{
		ID:            "v-002",
		Field:         "engineeringSpec.folderStructure",
		Severity:      models.CritiqueMedium,
		Message:       "Engineering spec includes mobile paths despite 'Web-first' non-goal in PRD.",
		FixSuggestion: "Remove mobile-specific folders from structure.",
	}}
}

func globalSummaryOnRegionalDB(bp *models.Blueprint) []models.Critique {
	db := strings.ToLower(bp.RecommendedStack.Database)
	if !strings.Contains(bp.StartupSummary, "Global") ||
		!(strings.Contains(db, "supabase") || strings.Contains(db, "neon")) {
		return nil
	}
	return []models.Critique{{
		ID:            "v-003",
		Field:         "recommendedStack.database",
		Severity:      models.CritiqueHigh,
		Message:       "Global summary suggests multi-region needs, but standard PostgreSQL (Supabase/Neon) without read-replicas or sharding is selected.",
		FixSuggestion: "Switch to CockroachDB or Aurora with Global Replicas.",
	}}
}

func qualitativeSuccessCriteria(bp *models.Blueprint) []models.Critique {
	if !anyContains(bp.ProductSpec.SuccessCriteria, "easy to use", "good experience") {
		return nil
	}
	return []models.Critique{{
		ID:            "prd-001",
		Field:         "productSpec.successCriteria",
		Severity:      models.CritiqueMedium,
		Message:       "Success criteria contains non-measurable qualitative terms.",
		FixSuggestion: "Replace qualitative terms with numeric KPIs (e.g., <3min onboarding).",
	}}
}

func mobileJourneysDespiteNonGoal(bp *models.Blueprint) []models.Critique {
	if !anyContains(bp.ProductSpec.CoreJourneys, "mobile", "app store") || !hasMobileNonGoal(bp) {
		return nil
	}
	return []models.Critique{{
		ID:            "prd-002",
		Field:         "productSpec.coreJourneys",
		Severity:      models.CritiqueHigh,
		Message:       "Contradiction: Core journeys include mobile flows despite a 'No Native Mobile' non-goal.",
		FixSuggestion: "Remove mobile journeys or remove the non-goal.",
	}}
}

func enterpriseOnVercel(bp *models.Blueprint) []models.Critique {
	if bp.ArchitectureMode != "Enterprise Grade" || !strings.Contains(strings.ToLower(bp.RecommendedStack.Infra), "vercel") {
		return nil
	}
	return []models.Critique{{
		ID:            "arch-001",
		Field:         "recommendedStack.infra",
		Severity:      models.CritiqueMedium,
		Message:       "Enterprise Grade mode suggested Vercel; AWS/EKS is preferred for corporate compliance and fine-grained control.",
		FixSuggestion: "Switch infrastructure to AWS (EKS/Terraform).",
	}}
}

func personasWithoutAuth(bp *models.Blueprint) []models.Critique {
	if !anyContains(bp.ProductSpec.Personas, "user", "customer") || bp.HasService("auth", "identity") {
		return nil
	}
	return []models.Critique{{
		ID:            "arch-002",
		Field:         "services",
		Severity:      models.CritiqueHigh,
		Message:       "User personas detected but no dedicated Auth/Identity service assigned.",
		FixSuggestion: "Add 'Auth & Identity' service to decomposition.",
	}}
}

func servicesWithoutFolders(bp *models.Blueprint) []models.Critique {
	var out []models.Critique
	for _, s := range bp.Services {
		if s.Name == "Global CDN" {
			continue
		}
		first := strings.ToLower(strings.SplitN(s.Name, " ", 2)[0])
		if anyContains(bp.EngineeringSpec.FolderStructure, first) {
			continue
		}
		out = append(out, models.Critique{
			ID:            "repo-001",
			Field:         "engineeringSpec.folderStructure",
			Severity:      models.CritiqueMedium,
			Message:       fmt.Sprintf("Service '%s' defined in Architecture but missing dedicated folder in Repo Layout.", s.Name),
			FixSuggestion: fmt.Sprintf("Add 'src/%s' to folder structure.", strings.ReplaceAll(strings.ToLower(s.Name), " ", "-")),
		})
	}
	return out
}

func brokerWithoutClient(bp *models.Blueprint) []models.Critique {
	if !bp.HasService("kafka", "message broker") || anyContains(bp.EngineeringSpec.KeyDependencies, "kafka") {
		return nil
	}
	return []models.Critique{{
		ID:            "repo-002",
		Field:         "engineeringSpec.keyDependencies",
		Severity:      models.CritiqueHigh,
		Message:       "Architecture includes Message Broker (Kafka) but 'kafkajs' or equivalent is missing from dependencies.",
		FixSuggestion: "Add 'kafkajs' to key dependencies.",
	}}
}

func hasMobileNonGoal(bp *models.Blueprint) bool {
	return anyContains(bp.ProductSpec.NonGoals, "no native mobile")
}

func anyContains(list []string, needles ...string) bool {
	for _, item := range list {
		lower := strings.ToLower(item)
		for _, n := range needles {
			if strings.Contains(lower, n) {
				return true
			}
		}
	}
	return false
}
