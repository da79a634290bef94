// internal/models/audit.go
package models

type AuditStatus string

const (
	AuditPending  AuditStatus = "pending"
	AuditRunning  AuditStatus = "running"
	AuditPassed   AuditStatus = "passed"
	AuditRepaired AuditStatus = "repaired"
	AuditFailed   AuditStatus = "failed"
)

type AuditEntry struct {
	ID         string      `json:"id"`
	Stage      string      `json:"stage"`
	Status     AuditStatus `json:"status"`
	Attempts   int         `json:"attempts"`
	Details    string      `json:"details"`
	Timestamp  string      `json:"timestamp"`
	DurationMs int64       `json:"durationMs"`
	Repairs    []string    `json:"repairs,omitempty"`
}

type ExecutionAudit struct {
	History             []AuditEntry `json:"history"`
	TotalRepairs        int          `json:"totalRepairs"`
	TotalDurationMs     int64        `json:"totalDurationMs"`
	OrchestratorVersion string       `json:"orchestratorVersion"`
}

// StageIDs lists entry ids in execution order.
func (a *ExecutionAudit) StageIDs() []string {
	ids := make([]string, 0, len(a.History))
	for _, e := range a.History {
		ids = append(ids, e.ID)
	}
	return ids
}
