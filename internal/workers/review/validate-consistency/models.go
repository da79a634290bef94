// internal/workers/review/validate-consistency/models.go
package validateconsistency

import "archai-workers/internal/models"

type Input struct {
	Blueprint models.Blueprint `json:"blueprint"`
}

type Output struct {
	Validation models.ValidationResult `json:"validation"`
}
