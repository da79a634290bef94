package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"archai-workers/internal/common/logger"
)

const startupRequest = `{
  "intake": {
    "description": "Marketplace connecting local farmers with restaurants",
    "targetUsers": "enterprise",
    "coreFeatures": ["catalog", "ordering", "invoicing"],
    "budgetTier": "moderate",
    "usersAt12Months": "10k_to_100k",
    "fundingStage": "seed",
    "devTeamSize": "small",
    "mvpTimelineDays": 120,
    "architectureIntent": "scalable_startup"
  }
}`

func writeFile(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadRequest(t *testing.T) {
	t.Run("valid request with answers file", func(t *testing.T) {
		intake := writeFile(t, "intake.json", startupRequest)
		answers := writeFile(t, "answers.json", `{"q_1": "restaurants in Lisbon"}`)

		input, err := readRequest(intake, answers)
		require.NoError(t, err)
		require.NotNil(t, input.Intake)
		assert.Equal(t, "restaurants in Lisbon", input.Answers["q_1"])
	})

	t.Run("schema violation", func(t *testing.T) {
		intake := writeFile(t, "intake.json", `{"answers": {}}`)

		_, err := readRequest(intake, "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid request")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := readRequest(filepath.Join(t.TempDir(), "nope.json"), "")
		assert.Error(t, err)
	})
}

func TestRunAndRender(t *testing.T) {
	input, err := readRequest(writeFile(t, "intake.json", startupRequest), "")
	require.NoError(t, err)

	out, err := run(context.Background(), input, logger.NewTestLogger(t))
	require.NoError(t, err)
	require.NotNil(t, out.Blueprint)
	assert.Equal(t, "demo", out.Blueprint.ExecutionMode)

	report := renderReport(out.Blueprint)
	assert.Contains(t, report, "Architecture blueprint "+out.Blueprint.RunID)
	assert.Contains(t, report, "Execution audit v1.3.0")
	require.False(t, out.Halted)
	assert.Contains(t, report, out.Blueprint.StartupSummary)
	assert.Contains(t, report, "D13")
}

func TestRenderHaltedReport(t *testing.T) {
	input, err := readRequest(writeFile(t, "intake.json", `{"intake": {"description": "an app"}}`), "")
	require.NoError(t, err)

	out, err := run(context.Background(), input, logger.NewNoOpLogger())
	require.NoError(t, err)
	require.True(t, out.Halted)

	report := renderReport(out.Blueprint)
	assert.Contains(t, report, "Clarification needed")
	assert.Contains(t, report, "-answers")
	assert.NotContains(t, report, "Services")
}
