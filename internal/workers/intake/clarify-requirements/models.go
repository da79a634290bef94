// internal/workers/intake/clarify-requirements/models.go
package clarifyrequirements

import "archai-workers/internal/models"

// Input carries the intake and any answers from a previous halt. A non-empty
// ExecutionMode overrides the configured mode for this run.
type Input struct {
	Intake        models.Intake     `json:"intake"`
	Answers       map[string]string `json:"answers,omitempty"`
	ExecutionMode string            `json:"executionMode,omitempty"`
}

// Outcome is what the orchestrator writes into the D1 audit entry.
type Outcome struct {
	Status  models.AuditStatus `json:"status"`
	Details string             `json:"details"`
	Repairs []string           `json:"repairs,omitempty"`
}

type Output struct {
	Proceed       bool                     `json:"proceed"`
	Clarification models.Clarification     `json:"clarification"`
	Context       models.NormalizedContext `json:"normalizedContext"`
	Outcome       Outcome                  `json:"outcome"`
}
