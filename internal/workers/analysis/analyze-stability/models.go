// internal/workers/analysis/analyze-stability/models.go
package analyzestability

import "archai-workers/internal/models"

type Input struct {
	Intake models.Intake `json:"intake"`
}

type Output struct {
	Stability models.StabilityResult `json:"stability"`
}
