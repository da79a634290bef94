// internal/workers/data-access/persist-blueprint/models.go
package persistblueprint

import "archai-workers/internal/models"

type Input struct {
	Blueprint models.Blueprint `json:"blueprint"`
}

type Output struct {
	RunID  string `json:"runId"`
	Stored bool   `json:"stored"`
}
