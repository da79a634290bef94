// internal/models/review.go
package models

import "strings"

// RequirementsDoc is the product requirements document scored by the quality gate.
type RequirementsDoc struct {
	ID                        string    `json:"id"`
	Personas                  []string  `json:"personas"`
	UserJourneys              []string  `json:"userJourneys"`
	Features                  []Feature `json:"features"`
	AcceptanceCriteria        []string  `json:"acceptanceCriteria"`
	NonFunctionalRequirements []string  `json:"nonFunctionalRequirements"`
	EdgeCases                 []string  `json:"edgeCases"`
}

type Feature struct {
	ID           string   `json:"id"`
	Name         string   `json:"name,omitempty"`
	Description  string   `json:"description"`
	Priority     string   `json:"priority,omitempty"`
	Requirements []string `json:"requirements,omitempty"`
}

// NormalizePriority maps loose priority labels onto P0/P1/P2. Empty means P1.
func NormalizePriority(p string) string {
	switch strings.ToLower(strings.TrimSpace(p)) {
	case "p0", "high", "critical":
		return "P0"
	case "p2", "low":
		return "P2"
	default:
		return "P1"
	}
}

// HasNFR reports whether any NFR mentions one of the needles, case-insensitively.
func (d *RequirementsDoc) HasNFR(needles ...string) bool {
	for _, item := range d.NonFunctionalRequirements {
		lower := strings.ToLower(item)
		for _, n := range needles {
			if strings.Contains(lower, n) {
				return true
			}
		}
	}
	return false
}

type QualityGateStatus string

const (
	QualityGatePassed             QualityGateStatus = "QUALITY_GATE_PASSED"
	QualityGateFailedSoft         QualityGateStatus = "QUALITY_GATE_FAILED_SOFT"
	QualityGateFailedHard         QualityGateStatus = "QUALITY_GATE_FAILED_HARD"
	QualityGateConsistencyFailure QualityGateStatus = "QUALITY_GATE_CONSISTENCY_FAILURE"
)

// Rank orders statuses from best (0) to worst.
func (s QualityGateStatus) Rank() int {
	switch s {
	case QualityGatePassed:
		return 0
	case QualityGateFailedSoft:
		return 1
	case QualityGateFailedHard:
		return 2
	default:
		return 3
	}
}

type QualityCheckFailure struct {
	CheckID     string `json:"checkId"`
	Description string `json:"description"`
	Fix         string `json:"fix"`
}

type QualityGateResult struct {
	Score        int                   `json:"score"`
	Status       QualityGateStatus     `json:"status"`
	FailedChecks []QualityCheckFailure `json:"failedChecks"`
}

type CritiqueSeverity string

const (
	CritiqueLow    CritiqueSeverity = "low"
	CritiqueMedium CritiqueSeverity = "medium"
	CritiqueHigh   CritiqueSeverity = "high"
)

type Critique struct {
	ID            string           `json:"id"`
	Field         string           `json:"field"`
	Severity      CritiqueSeverity `json:"severity"`
	Message       string           `json:"message"`
	FixSuggestion string           `json:"fixSuggestion,omitempty"`
}

type ValidationResult struct {
	Passed    bool       `json:"passed"`
	Critiques []Critique `json:"critiques"`
	Score     int        `json:"score"`
}
