// internal/workers/intake/normalize-constraints/models.go
package normalizeconstraints

import "archai-workers/internal/models"

type Input struct {
	Intake  models.Intake             `json:"intake"`
	Context *models.NormalizedContext `json:"context,omitempty"`
}

type Output struct {
	Constraints models.SanitizedConstraints `json:"constraints"`
}
