// internal/workers/review/run-quality-gate/models.go
package runqualitygate

import "archai-workers/internal/models"

type Input struct {
	Requirements models.RequirementsDoc   `json:"requirements"`
	Intake       models.Intake            `json:"intake"`
	Stability    models.StabilityResult   `json:"stability"`
	Archetype    models.ArchetypeDecision `json:"archetype"`
}

type Output struct {
	QualityGate models.QualityGateResult `json:"qualityGate"`
}
