// internal/models/context.go
package models

import (
	"sort"
	"strconv"
)

const defaultTargetUser = "General User"

// NewNormalizedContext merges an intake with clarification answers. Answers
// become success metrics ordered by question id so identical inputs always
// produce the same context.
func NewNormalizedContext(in *Intake, answers map[string]string) NormalizedContext {
	ids := make([]string, 0, len(answers))
	for id := range answers {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	metrics := make([]string, 0, len(ids))
	for _, id := range ids {
		if v := answers[id]; v != "" {
			metrics = append(metrics, v)
		}
	}

	target := defaultTargetUser
	switch {
	case in.TargetUsers != "":
		if label, ok := TargetUserLabels[in.TargetUsers]; ok {
			target = label
		} else {
			target = in.TargetUsers
		}
	case in.PrimaryUserType != "":
		target = in.PrimaryUserType
	}

	standards := in.Compliance()
	if len(standards) == 0 && in.ComplianceHints != "" {
		standards = []string{in.ComplianceHints}
	}

	timeline := ""
	if in.MvpTimelineDays > 0 {
		timeline = strconv.Itoa(in.MvpTimelineDays) + "_days"
	}

	return NormalizedContext{
		ProblemStatement: in.Description,
		TargetUser:       target,
		SuccessMetrics:   metrics,
		Constraints: ContextConstraints{
			Budget:   in.BudgetTier,
			Scale:    in.ScaleHint,
			Timeline: timeline,
		},
		Compliance: ComplianceRequirements{
			IsRequired: len(standards) > 0,
			Standards:  standards,
		},
	}
}
