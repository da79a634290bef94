// internal/workers/data-access/index-audit/queries.go
package indexaudit

import (
	"time"

	"archai-workers/internal/models"
)

const indexMapping = `{
	"mappings": {
		"properties": {
			"runId":               {"type": "keyword"},
			"executionMode":       {"type": "keyword"},
			"halted":              {"type": "boolean"},
			"orchestratorVersion": {"type": "keyword"},
			"totalRepairs":        {"type": "integer"},
			"totalDurationMs":     {"type": "long"},
			"stabilityScore":      {"type": "integer"},
			"riskLevel":           {"type": "keyword"},
			"archetype":           {"type": "keyword"},
			"qualityGateStatus":   {"type": "keyword"},
			"indexedAt":           {"type": "date"},
			"stages": {
				"type": "nested",
				"properties": {
					"id":         {"type": "keyword"},
					"stage":      {"type": "keyword"},
					"status":     {"type": "keyword"},
					"attempts":   {"type": "integer"},
					"details":    {"type": "text"},
					"timestamp":  {"type": "date"},
					"durationMs": {"type": "long"},
					"repairs":    {"type": "text"}
				}
			}
		}
	}
}`

func buildDocument(bp *models.Blueprint, now time.Time) AuditDocument {
	stages := bp.ExecutionAudit.History
	if stages == nil {
		stages = []models.AuditEntry{}
	}
	return AuditDocument{
		RunID:               bp.RunID,
		ExecutionMode:       bp.ExecutionMode,
		Halted:              bp.Halted(),
		OrchestratorVersion: bp.ExecutionAudit.OrchestratorVersion,
		TotalRepairs:        bp.ExecutionAudit.TotalRepairs,
		TotalDurationMs:     bp.ExecutionAudit.TotalDurationMs,
		StabilityScore:      bp.StabilityScore,
		RiskLevel:           string(bp.RiskLevel),
		Archetype:           string(bp.Archetype.SelectedArchetype),
		QualityGateStatus:   string(bp.QualityGate.Status),
		Stages:              stages,
		IndexedAt:           now.UTC(),
	}
}

// stageStatusQuery counts runs with at least one stage entry matching both
// the stage id and status.
func stageStatusQuery(stageID string, status models.AuditStatus) map[string]interface{} {
	return map[string]interface{}{
		"query": map[string]interface{}{
			"nested": map[string]interface{}{
				"path": "stages",
				"query": map[string]interface{}{
					"bool": map[string]interface{}{
						"filter": []interface{}{
							map[string]interface{}{"term": map[string]interface{}{"stages.id": stageID}},
							map[string]interface{}{"term": map[string]interface{}{"stages.status": string(status)}},
						},
					},
				},
			},
		},
	}
}
