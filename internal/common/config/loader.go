package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads configs/config.yaml, merges config.<APP_ENVIRONMENT>.yaml on top
// and lets environment variables override any key (ARCHAI_PIPELINE_EXECUTION_MODE
// overrides pipeline.execution_mode).
func Load() (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigName("config")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")
	if root := findProjectRoot(); root != "" {
		v.AddConfigPath(filepath.Join(root, "configs"))
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}
	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig()

	return decode(v)
}

// LoadFromFile reads a single config file without environment overlays.
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("ARCHAI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func loadEnvFile() {
	paths := []string{".env", "../.env", "../../.env"}
	if root := findProjectRoot(); root != "" {
		paths = append(paths, filepath.Join(root, ".env"))
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err == nil {
			return
		}
	}
}

func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// expandEnvVars resolves ${VAR} placeholders left in string values.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok || !strings.Contains(strVal, "$") {
			continue
		}
		if expanded := os.ExpandEnv(strVal); expanded != strVal {
			v.Set(key, expanded)
		}
	}
}

// overrideEmptyConfig fills secrets from their conventional variable names
// when the YAML leaves them blank.
func overrideEmptyConfig(cfg *Config) {
	fill := func(dst *string, envKeys ...string) {
		if *dst != "" {
			return
		}
		for _, k := range envKeys {
			if val := os.Getenv(k); val != "" {
				*dst = val
				return
			}
		}
	}

	switch cfg.Reasoning.Provider {
	case "gemini":
		fill(&cfg.Reasoning.APIKey, "GEMINI_API_KEY", "GOOGLE_API_KEY")
	default:
		fill(&cfg.Reasoning.APIKey, "GROQ_API_KEY")
	}
	fill(&cfg.Database.Postgres.User, "DB_USER")
	fill(&cfg.Database.Postgres.Password, "DB_PASSWORD")
	fill(&cfg.Storage.Minio.AccessKey, "MINIO_ACCESS_KEY")
	fill(&cfg.Storage.Minio.SecretKey, "MINIO_SECRET_KEY")
	fill(&cfg.Events.SNS.TopicARN, "PIPELINE_EVENTS_TOPIC_ARN")

	if mode := os.Getenv("EXECUTION_MODE"); mode != "" {
		cfg.Pipeline.ExecutionMode = mode
	}
}

func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "archai-workers"
	}
	if cfg.Server.Address == "" {
		cfg.Server.Address = ":8080"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15000
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 60000
	}

	if cfg.Camunda.MaxJobsActive == 0 {
		cfg.Camunda.MaxJobsActive = 10
	}
	if cfg.Camunda.Timeout == 0 {
		cfg.Camunda.Timeout = 30000
	}
	if cfg.Camunda.RequestTimeout == 0 {
		cfg.Camunda.RequestTimeout = 30000
	}

	if cfg.Database.Postgres.Port == 0 {
		cfg.Database.Postgres.Port = 5432
	}
	if cfg.Database.Postgres.MaxConnections == 0 {
		cfg.Database.Postgres.MaxConnections = 25
	}
	if cfg.Database.Postgres.MaxIdle == 0 {
		cfg.Database.Postgres.MaxIdle = 5
	}
	if cfg.Database.Postgres.SSLMode == "" {
		cfg.Database.Postgres.SSLMode = "disable"
	}
	if cfg.Database.Elasticsearch.AuditIndex == "" {
		cfg.Database.Elasticsearch.AuditIndex = "execution-audits"
	}
	if cfg.Storage.Minio.Bucket == "" {
		cfg.Storage.Minio.Bucket = "handoff-packages"
	}
	if cfg.Events.SNS.Region == "" {
		cfg.Events.SNS.Region = "us-east-1"
	}

	if cfg.Reasoning.Provider == "" {
		cfg.Reasoning.Provider = "groq"
	}
	if cfg.Reasoning.BaseURL == "" && cfg.Reasoning.Provider == "groq" {
		cfg.Reasoning.BaseURL = "https://api.groq.com/openai/v1"
	}
	if cfg.Reasoning.Model == "" {
		if cfg.Reasoning.Provider == "gemini" {
			cfg.Reasoning.Model = "gemini-2.0-flash"
		} else {
			cfg.Reasoning.Model = "llama-3.3-70b-versatile"
		}
	}
	if cfg.Reasoning.Timeout == 0 {
		cfg.Reasoning.Timeout = 15000
	}
	if cfg.Reasoning.MaxRetries == 0 {
		cfg.Reasoning.MaxRetries = 2
	}
	if cfg.Reasoning.Temperature == 0 {
		cfg.Reasoning.Temperature = 0.1
	}
	if cfg.Reasoning.MaxTokens == 0 {
		cfg.Reasoning.MaxTokens = 2000
	}
	if cfg.Reasoning.CacheSize == 0 {
		cfg.Reasoning.CacheSize = 512
	}
	if cfg.Reasoning.CacheTTL == 0 {
		cfg.Reasoning.CacheTTL = 24 * 60 * 60 * 1000
	}

	applyPipelineDefaults(&cfg.Pipeline)

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}

	for key, worker := range cfg.Workers {
		if worker.MaxJobsActive == 0 {
			worker.MaxJobsActive = 5
		}
		if worker.Timeout == 0 {
			worker.Timeout = 30000
		}
		if worker.MaxRetries == 0 {
			worker.MaxRetries = 3
		}
		cfg.Workers[key] = worker
	}
}

// DefaultPipeline returns the pipeline settings used when nothing is configured.
func DefaultPipeline() PipelineConfig {
	var p PipelineConfig
	applyPipelineDefaults(&p)
	return p
}

func applyPipelineDefaults(p *PipelineConfig) {
	if p.ExecutionMode == "" {
		p.ExecutionMode = ExecutionModeDemo
	}
	if p.ClarityThreshold == 0 {
		p.ClarityThreshold = 85
	}
	if p.MaxQuestions == 0 {
		p.MaxQuestions = 7
	}
	if p.RepairCap == 0 {
		p.RepairCap = 10
	}
	if p.OrchestratorVersion == "" {
		p.OrchestratorVersion = "1.3.0"
	}
	if p.Severity == (SeverityWeights{}) {
		p.Severity = SeverityWeights{Critical: 25, Warning: 10, Info: 0}
	}
	if p.Amplification == (AmplificationConfig{}) {
		p.Amplification = AmplificationConfig{
			CriticalCluster: 10,
			BootstrapScale:  15,
			ComplianceLoad:  10,
			SoloComplexity:  10,
		}
	}
	if p.QualityDeduction == 0 {
		p.QualityDeduction = 3
	}
	if p.CritiquePenalty == 0 {
		p.CritiquePenalty = 15
	}
	if len(p.RuleGroups) == 0 {
		p.RuleGroups = []string{"integrity", "product", "architecture", "repository"}
	}
}

func validateConfig(cfg *Config) error {
	switch cfg.Pipeline.ExecutionMode {
	case ExecutionModeDemo, ExecutionModeLive:
	default:
		return fmt.Errorf("pipeline.execution_mode must be %q or %q, got %q",
			ExecutionModeDemo, ExecutionModeLive, cfg.Pipeline.ExecutionMode)
	}
	if cfg.Pipeline.ExecutionMode == ExecutionModeLive && cfg.Reasoning.APIKey == "" {
		return fmt.Errorf("reasoning.api_key is required in live mode")
	}
	switch cfg.Reasoning.Provider {
	case "groq", "gemini":
	default:
		return fmt.Errorf("reasoning.provider %q is not supported", cfg.Reasoning.Provider)
	}
	if cfg.Pipeline.ClarityThreshold < 0 || cfg.Pipeline.ClarityThreshold > 100 {
		return fmt.Errorf("pipeline.clarity_threshold must be within 0..100")
	}
	if cfg.Camunda.Enabled && cfg.Camunda.BrokerAddress == "" {
		return fmt.Errorf("camunda.broker_address is required when camunda is enabled")
	}
	if cfg.Storage.Minio.Enabled && cfg.Storage.Minio.Endpoint == "" {
		return fmt.Errorf("storage.minio.endpoint is required when minio is enabled")
	}
	if cfg.Events.SNS.Enabled && cfg.Events.SNS.TopicARN == "" {
		return fmt.Errorf("events.sns.topic_arn is required when sns is enabled")
	}
	return nil
}

func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}

func GetWorkerConfig(cfg *Config, workerName string) WorkerConfig {
	if worker, exists := cfg.Workers[workerName]; exists {
		return worker
	}
	return WorkerConfig{
		Enabled:       true,
		MaxJobsActive: 5,
		Timeout:       30000,
		MaxRetries:    3,
	}
}

func IsWorkerEnabled(cfg *Config, workerName string) bool {
	if worker, exists := cfg.Workers[workerName]; exists {
		return worker.Enabled
	}
	return true
}
