package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFile_AppliesDefaults(t *testing.T) {
	t.Setenv("EXECUTION_MODE", "")
	path := writeConfig(t, `
app:
  name: archai-test
logging:
  level: debug
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "archai-test", cfg.App.Name)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, ExecutionModeDemo, cfg.Pipeline.ExecutionMode)
	assert.Equal(t, 85, cfg.Pipeline.ClarityThreshold)
	assert.Equal(t, 7, cfg.Pipeline.MaxQuestions)
	assert.Equal(t, 10, cfg.Pipeline.RepairCap)
	assert.Equal(t, SeverityWeights{Critical: 25, Warning: 10, Info: 0}, cfg.Pipeline.Severity)
	assert.Equal(t, 15, cfg.Pipeline.Amplification.BootstrapScale)
	assert.Equal(t, 15, cfg.Pipeline.CritiquePenalty)
	assert.Equal(t, "llama-3.3-70b-versatile", cfg.Reasoning.Model)
	assert.Equal(t, "https://api.groq.com/openai/v1", cfg.Reasoning.BaseURL)
	assert.False(t, cfg.Database.Postgres.Enabled())
}

func TestLoadFromFile_ExpandsEnvPlaceholders(t *testing.T) {
	t.Setenv("EXECUTION_MODE", "")
	t.Setenv("TEST_GROQ_KEY", "gsk-test")
	path := writeConfig(t, `
reasoning:
  provider: groq
  api_key: ${TEST_GROQ_KEY}
pipeline:
  execution_mode: live
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "gsk-test", cfg.Reasoning.APIKey)
	assert.Equal(t, ExecutionModeLive, cfg.Pipeline.ExecutionMode)
}

func TestLoadFromFile_Validation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "unknown execution mode",
			body:    "pipeline:\n  execution_mode: turbo\n",
			wantErr: "pipeline.execution_mode",
		},
		{
			name:    "live mode without key",
			body:    "pipeline:\n  execution_mode: live\nreasoning:\n  provider: gemini\n",
			wantErr: "reasoning.api_key",
		},
		{
			name:    "camunda without broker",
			body:    "camunda:\n  enabled: true\n",
			wantErr: "camunda.broker_address",
		},
		{
			name:    "unsupported provider",
			body:    "reasoning:\n  provider: mystery\n",
			wantErr: "reasoning.provider",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("EXECUTION_MODE", "")
			t.Setenv("GROQ_API_KEY", "")
			t.Setenv("GEMINI_API_KEY", "")
			t.Setenv("GOOGLE_API_KEY", "")

			_, err := LoadFromFile(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGetWorkerConfig(t *testing.T) {
	cfg := &Config{Workers: map[string]WorkerConfig{
		"analyze-stability": {Enabled: false, MaxJobsActive: 2, Timeout: 1000, MaxRetries: 1},
	}}

	assert.Equal(t, 2, GetWorkerConfig(cfg, "analyze-stability").MaxJobsActive)
	assert.False(t, IsWorkerEnabled(cfg, "analyze-stability"))

	fallback := GetWorkerConfig(cfg, "select-archetype")
	assert.True(t, fallback.Enabled)
	assert.Equal(t, 30000, fallback.Timeout)
	assert.True(t, IsWorkerEnabled(cfg, "select-archetype"))
}
