// internal/workers/orchestration/generate-blueprint/requirements.go
package generateblueprint

import (
	"fmt"
	"strings"

	"archai-workers/internal/models"
)

// launchCriticalFeatures is how many leading core features are marked P0.
const launchCriticalFeatures = 3

// buildRequirements derives the requirements document scored by the quality
// gate. Each NFR is only emitted when the intake carries enough detail to
// state it, so the gate flags what the intake left open.
func (p *Pipeline) buildRequirements(runID string, in *models.Intake, nc *models.NormalizedContext, sc *models.SanitizedConstraints) models.RequirementsDoc {
	doc := models.RequirementsDoc{
		ID:                        "prd_" + runID,
		Personas:                  p.personas(in, nc),
		UserJourneys:              append([]string(nil), p.catalog.Product.Journeys...),
		Features:                  []models.Feature{},
		AcceptanceCriteria:        []string{},
		NonFunctionalRequirements: []string{},
		EdgeCases:                 append([]string(nil), p.catalog.Product.EdgeCases...),
	}

	for i, name := range in.CoreFeatures {
		priority := "P1"
		if i < launchCriticalFeatures {
			priority = "P0"
		}
		doc.Features = append(doc.Features, models.Feature{
			ID:          fmt.Sprintf("F%d", i+1),
			Name:        name,
			Description: fmt.Sprintf("Deliver %s for %s", name, nc.TargetUser),
			Priority:    priority,
		})
		doc.UserJourneys = append(doc.UserJourneys, fmt.Sprintf("Complete %s end to end", name))
		doc.AcceptanceCriteria = append(doc.AcceptanceCriteria,
			fmt.Sprintf("GIVEN a signed-in user WHEN they use %s THEN the result is persisted and visible", name))
	}
	for _, metric := range nc.SuccessMetrics {
		doc.AcceptanceCriteria = append(doc.AcceptanceCriteria, "Success metric met: "+metric)
	}

	for _, std := range sc.Compliance {
		doc.NonFunctionalRequirements = append(doc.NonFunctionalRequirements,
			fmt.Sprintf("%s controls with audit logging and access reviews", strings.ToUpper(std)))
	}
	if in.RequiresRealTime && in.RealTimeScale != "" {
		doc.NonFunctionalRequirements = append(doc.NonFunctionalRequirements,
			fmt.Sprintf("Sustain %s concurrent real-time connections", strings.ReplaceAll(in.RealTimeScale, "_", " ")))
	}
	if in.RequiresBackgroundJobs && in.JobQueuePreference != "" {
		doc.NonFunctionalRequirements = append(doc.NonFunctionalRequirements,
			fmt.Sprintf("Background jobs run on a %s queue with retry and backoff", in.JobQueuePreference))
	}
	if in.ReadReplicaRequired {
		doc.NonFunctionalRequirements = append(doc.NonFunctionalRequirements,
			"Read replica topology for read-heavy paths")
	}
	if in.TargetAPIP95 != "" {
		doc.NonFunctionalRequirements = append(doc.NonFunctionalRequirements,
			"API p95 latency "+strings.ReplaceAll(in.TargetAPIP95, "_", " "))
	}
	if in.AcceptableDowntimePerMonth != "" {
		doc.NonFunctionalRequirements = append(doc.NonFunctionalRequirements,
			"Monthly downtime "+strings.ReplaceAll(in.AcceptableDowntimePerMonth, "_", " "))
	}
	return doc
}

func (p *Pipeline) personas(in *models.Intake, nc *models.NormalizedContext) []string {
	primary, ok := p.catalog.Product.Personas[in.TargetUsers]
	if !ok {
		primary = nc.TargetUser
	}
	return []string{primary, p.catalog.Product.SecondaryPersona}
}

// buildProductSpec is the descriptive product section of the blueprint.
func (p *Pipeline) buildProductSpec(doc *models.RequirementsDoc, nc *models.NormalizedContext) models.ProductSpec {
	criteria := append([]string(nil), p.catalog.Product.SuccessCriteria...)
	criteria = append(criteria, nc.SuccessMetrics...)
	return models.ProductSpec{
		Personas:        append([]string(nil), doc.Personas...),
		CoreJourneys:    append([]string(nil), doc.UserJourneys...),
		NonGoals:        append([]string(nil), p.catalog.Product.NonGoals...),
		SuccessCriteria: criteria,
	}
}
