package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"archai-workers/pkg/registry"
)

func testActivity() *registry.Activity {
	return &registry.Activity{
		ID:          "score-readiness",
		DisplayName: "Score Readiness",
		Description: "scores handoff readiness.",
		Category:    "Review",
		TaskType:    "score-readiness",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"runId":     map[string]interface{}{"type": "string"},
				"blueprint": map[string]interface{}{"type": "object"},
			},
		},
		OutputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"score": map[string]interface{}{"type": "integer"},
			},
		},
	}
}

func TestNewWorkerData(t *testing.T) {
	data := newWorkerData(testActivity())

	assert.Equal(t, "scorereadiness", data.PackageName)
	assert.Equal(t, "review/score-readiness", data.Dir)
	assert.Equal(t, "\tBlueprint map[string]interface{} `json:\"blueprint\"`\n\tRunId     string                 `json:\"runId\"`", data.InputFields)
	assert.Equal(t, "\tScore int `json:\"score\"`", data.OutputFields)
}

func TestGoTypeFromJSONType(t *testing.T) {
	tests := map[interface{}]string{
		"string":  "string",
		"integer": "int",
		"number":  "float64",
		"boolean": "bool",
		"array":   "[]interface{}",
		nil:       "interface{}",
	}
	for in, want := range tests {
		assert.Equal(t, want, goTypeFromJSONType(in), "%v", in)
	}
}

func TestGenerate(t *testing.T) {
	out := t.TempDir()
	data := newWorkerData(testActivity())

	files, err := generate(out, data)
	require.NoError(t, err)
	assert.Len(t, files, 4)

	handler, err := os.ReadFile(filepath.Join(out, "review", "score-readiness", "handler.go"))
	require.NoError(t, err)
	assert.Contains(t, string(handler), "// internal/workers/review/score-readiness/handler.go")
	assert.Contains(t, string(handler), "package scorereadiness")
	assert.Contains(t, string(handler), `TaskType = "score-readiness"`)

	_, err = generate(out, data)
	assert.Error(t, err, "existing files must not be overwritten")
}
