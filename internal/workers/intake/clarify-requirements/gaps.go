// internal/workers/intake/clarify-requirements/gaps.go
package clarifyrequirements

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"archai-workers/internal/models"
)

const (
	fallbackClarity       = 50
	fallbackAmbiguityNote = "High ambiguity detected in raw input"
	defaultQuestionText   = "Please provide more detail."
)

// GapReport is the clarity verdict for one intake.
type GapReport struct {
	MissingFields  []string `json:"missing_fields"`
	AmbiguousAreas []string `json:"ambiguous_areas"`
	ClarityScore   int      `json:"clarity_score"`
}

// FallbackReport is the verdict used whenever the reasoning call fails.
func FallbackReport() GapReport {
	return GapReport{
		MissingFields:  []string{},
		AmbiguousAreas: []string{fallbackAmbiguityNote},
		ClarityScore:   fallbackClarity,
	}
}

func normalizeGapReport(v interface{}) GapReport {
	m, ok := v.(map[string]interface{})
	if !ok {
		return GapReport{
			MissingFields:  []string{},
			AmbiguousAreas: []string{"Unstructured ambiguity report"},
			ClarityScore:   fallbackClarity,
		}
	}

	report := GapReport{
		MissingFields:  stringList(m["missing_fields"]),
		AmbiguousAreas: stringList(m["ambiguous_areas"]),
		ClarityScore:   fallbackClarity,
	}
	if score, ok := m["clarity_score"].(float64); ok {
		report.ClarityScore = int(math.Max(0, math.Min(100, score)))
	}
	return report
}

func normalizeQuestions(v interface{}, limit int) []models.ClarificationQuestion {
	m, ok := v.(map[string]interface{})
	if !ok {
		return nil
	}
	raw, _ := m["questions"].([]interface{})

	questions := make([]models.ClarificationQuestion, 0, len(raw))
	for i, item := range raw {
		q, ok := item.(map[string]interface{})
		if !ok {
			continue
		}

		id := fmt.Sprintf("q_%d", i+1)
		switch v := q["id"].(type) {
		case string:
			id = v
		case float64:
			id = strconv.FormatFloat(v, 'f', -1, 64)
		}

		text := defaultQuestionText
		if s, ok := q["text"].(string); ok {
			text = s
		}

		qtype := models.QuestionText
		if s, _ := q["type"].(string); s == string(models.QuestionChoice) || s == string(models.QuestionScale) {
			qtype = models.QuestionType(s)
		}

		questions = append(questions, models.ClarificationQuestion{
			ID:      id,
			Label:   text,
			Type:    qtype,
			Options: questionOptions(q["options"], qtype),
		})
		if len(questions) == limit {
			break
		}
	}
	return questions
}

// questionOptions accepts a plain list, or for scale questions an object
// carrying labels or a min/max range.
func questionOptions(raw interface{}, qtype models.QuestionType) []string {
	switch opts := raw.(type) {
	case []interface{}:
		return stringList(opts)
	case map[string]interface{}:
		if qtype != models.QuestionScale {
			return nil
		}
		if labels, ok := opts["labels"].(map[string]interface{}); ok {
			out := make([]string, 0, len(labels))
			for _, key := range sortedKeys(labels) {
				if s, ok := labels[key].(string); ok {
					out = append(out, s)
				}
			}
			if len(out) > 0 {
				return out
			}
		}
		lo, hi := 1.0, 5.0
		if v, ok := opts["min"].(float64); ok {
			lo = v
		}
		if v, ok := opts["max"].(float64); ok {
			hi = v
		}
		return []string{
			strconv.FormatFloat(lo, 'f', -1, 64),
			strconv.FormatFloat(hi, 'f', -1, 64),
		}
	}
	return nil
}

// fallbackQuestions turns a gap report into text questions when the question
// call fails. Missing fields come first, then ambiguous areas.
func fallbackQuestions(report GapReport, limit int) []models.ClarificationQuestion {
	var out []models.ClarificationQuestion
	add := func(label string) {
		if len(out) < limit {
			out = append(out, models.ClarificationQuestion{
				ID:    fmt.Sprintf("q_%d", len(out)+1),
				Label: label,
				Type:  models.QuestionText,
			})
		}
	}
	for _, f := range report.MissingFields {
		add(fmt.Sprintf("The intake does not cover %s. Can you describe it?", f))
	}
	for _, a := range report.AmbiguousAreas {
		if a == fallbackAmbiguityNote {
			continue
		}
		add(fmt.Sprintf("Can you clarify: %s?", a))
	}
	return out
}

func stringList(v interface{}) []string {
	items, _ := v.([]interface{})
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// sortedKeys orders numeric keys numerically and the rest lexically.
func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, errA := strconv.Atoi(keys[i])
		b, errB := strconv.Atoi(keys[j])
		if errA == nil && errB == nil {
			return a < b
		}
		if (errA == nil) != (errB == nil) {
			return errA == nil
		}
		return keys[i] < keys[j]
	})
	return keys
}
