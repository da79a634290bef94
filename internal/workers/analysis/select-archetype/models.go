// internal/workers/analysis/select-archetype/models.go
package selectarchetype

import "archai-workers/internal/models"

type Input struct {
	Intake    models.Intake          `json:"intake"`
	Stability models.StabilityResult `json:"stability"`
}

type Output struct {
	Archetype models.ArchetypeDecision `json:"archetype"`
}
