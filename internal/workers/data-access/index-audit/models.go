// internal/workers/data-access/index-audit/models.go
package indexaudit

import (
	"time"

	"archai-workers/internal/models"
)

type Input struct {
	Blueprint models.Blueprint `json:"blueprint"`
}

type Output struct {
	RunID   string `json:"runId"`
	Index   string `json:"index"`
	Indexed bool   `json:"indexed"`
}

// AuditDocument is the flattened shape stored per run. Stage entries are
// nested so a single query can match on stage id and status together.
type AuditDocument struct {
	RunID               string              `json:"runId"`
	ExecutionMode       string              `json:"executionMode"`
	Halted              bool                `json:"halted"`
	OrchestratorVersion string              `json:"orchestratorVersion"`
	TotalRepairs        int                 `json:"totalRepairs"`
	TotalDurationMs     int64               `json:"totalDurationMs"`
	StabilityScore      int                 `json:"stabilityScore"`
	RiskLevel           string              `json:"riskLevel,omitempty"`
	Archetype           string              `json:"archetype,omitempty"`
	QualityGateStatus   string              `json:"qualityGateStatus,omitempty"`
	Stages              []models.AuditEntry `json:"stages"`
	IndexedAt           time.Time           `json:"indexedAt"`
}
