// internal/workers/orchestration/generate-blueprint/models.go
package generateblueprint

import "archai-workers/internal/models"

// Input is the generate request. Exactly one of Intake and LegacyIntake must
// be set.
type Input struct {
	Intake        *models.Intake       `json:"intake,omitempty"`
	LegacyIntake  *models.LegacyIntake `json:"legacyIntake,omitempty"`
	Answers       map[string]string    `json:"answers,omitempty"`
	ExecutionMode string               `json:"executionMode,omitempty"`
}

type Output struct {
	Blueprint *models.Blueprint `json:"blueprint"`
	Halted    bool              `json:"halted"`
}
