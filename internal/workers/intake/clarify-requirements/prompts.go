// internal/workers/intake/clarify-requirements/prompts.go
package clarifyrequirements

import (
	"encoding/json"
	"fmt"

	"archai-workers/internal/models"
)

const (
	gapSystemPrompt      = "You are a senior product architect focusing on requirement precision."
	questionSystemPrompt = "You are an expert systems consultant. You ask only the most impactful questions."
)

func gapPrompt(in *models.Intake) string {
	return fmt.Sprintf(`Analyze the following product input for ambiguity and missing information.
Input: %s

Return a JSON object with:
- missing_fields: string[] (technical or product fields that are totally missing)
- ambiguous_areas: string[] (areas that need more detail)
- clarity_score: 0-100 (how ready is this for architecture design?)`, mustJSON(in))
}

func questionPrompt(report GapReport, in *models.Intake, limit int) string {
	return fmt.Sprintf(`Based on the following ambiguity report and raw input, generate up to %d high-leverage questions to resolve the most critical gaps.
Gap Report: %s
Raw Input: %s

Return a JSON object with a 'questions' array. Each question has: id, text, type (text|choice|scale), and optional options.`,
		limit, mustJSON(report), mustJSON(in))
}

// mustJSON never fails for the plain structs passed to it.
func mustJSON(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(b)
}
