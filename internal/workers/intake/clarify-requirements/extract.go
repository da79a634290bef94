// internal/workers/intake/clarify-requirements/extract.go
package clarifyrequirements

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

var ErrNoJSONFound = errors.New("no valid JSON found in response")

var fencedBlock = regexp.MustCompile("(?i)```(?:json)?\\s*([\\s\\S]*?)\\s*```")

// ExtractJSON parses a model reply that may wrap JSON in prose. Candidates
// are the whole body followed by every fenced block; the last candidate
// accepted by pred wins, otherwise the last candidate.
func ExtractJSON(content string, pred func(interface{}) bool) (interface{}, error) {
	var candidates []interface{}

	var whole interface{}
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &whole); err == nil {
		candidates = append(candidates, whole)
	}

	for _, m := range fencedBlock.FindAllStringSubmatch(content, -1) {
		var block interface{}
		if err := json.Unmarshal([]byte(m[1]), &block); err == nil {
			candidates = append(candidates, block)
		}
	}

	if len(candidates) == 0 {
		return nil, ErrNoJSONFound
	}

	if pred != nil {
		for i := len(candidates) - 1; i >= 0; i-- {
			if pred(candidates[i]) {
				return candidates[i], nil
			}
		}
	}
	return candidates[len(candidates)-1], nil
}

func isGapReport(v interface{}) bool {
	m, ok := v.(map[string]interface{})
	if !ok {
		return false
	}
	_, missing := m["missing_fields"].([]interface{})
	_, ambiguous := m["ambiguous_areas"].([]interface{})
	_, score := m["clarity_score"].(float64)
	return missing && ambiguous && score
}

func isQuestionSet(v interface{}) bool {
	m, ok := v.(map[string]interface{})
	if !ok {
		return false
	}
	_, ok = m["questions"].([]interface{})
	return ok
}
