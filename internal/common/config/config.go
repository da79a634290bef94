package config

import "fmt"

const (
	ExecutionModeDemo = "demo"
	ExecutionModeLive = "live"
)

type Config struct {
	App       AppConfig               `mapstructure:"app"`
	Server    ServerConfig            `mapstructure:"server"`
	Camunda   CamundaConfig           `mapstructure:"camunda"`
	Database  DatabaseConfig          `mapstructure:"database"`
	Storage   StorageConfig           `mapstructure:"storage"`
	Events    EventsConfig            `mapstructure:"events"`
	Reasoning ReasoningConfig         `mapstructure:"reasoning"`
	Pipeline  PipelineConfig          `mapstructure:"pipeline"`
	Workers   map[string]WorkerConfig `mapstructure:"workers"`
	Logging   LoggingConfig           `mapstructure:"logging"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Address      string `mapstructure:"address"`
	ReadTimeout  int    `mapstructure:"read_timeout"`  // milliseconds
	WriteTimeout int    `mapstructure:"write_timeout"` // milliseconds
}

type CamundaConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// Enabled reports whether a blueprint store should be opened at all.
func (p PostgresConfig) Enabled() bool {
	return p.Host != "" && p.Database != ""
}

func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type ElasticsearchConfig struct {
	Addresses  []string `mapstructure:"addresses"`
	Username   string   `mapstructure:"username"`
	Password   string   `mapstructure:"password"`
	AuditIndex string   `mapstructure:"audit_index"`
}

func (e ElasticsearchConfig) Enabled() bool {
	return len(e.Addresses) > 0
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r RedisConfig) Enabled() bool {
	return r.Address != ""
}

type StorageConfig struct {
	Minio MinioConfig `mapstructure:"minio"`
}

type MinioConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	Bucket        string `mapstructure:"bucket"`
	UseSSL        bool   `mapstructure:"use_ssl"`
	PublicBaseURL string `mapstructure:"public_base_url"`
}

type EventsConfig struct {
	SNS SNSConfig `mapstructure:"sns"`
}

type SNSConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Region   string `mapstructure:"region"`
	TopicARN string `mapstructure:"topic_arn"`
}

// ReasoningConfig configures the external model used by the clarification
// gate in live mode.
type ReasoningConfig struct {
	Provider    string  `mapstructure:"provider"` // groq | gemini
	BaseURL     string  `mapstructure:"base_url"`
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	Timeout     int     `mapstructure:"timeout"` // milliseconds
	MaxRetries  int     `mapstructure:"max_retries"`
	Temperature float64 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	CacheSize   int     `mapstructure:"cache_size"`
	CacheTTL    int     `mapstructure:"cache_ttl"` // milliseconds
}

type PipelineConfig struct {
	ExecutionMode       string              `mapstructure:"execution_mode"`
	ClarityThreshold    int                 `mapstructure:"clarity_threshold"`
	MaxQuestions        int                 `mapstructure:"max_questions"`
	RepairCap           int                 `mapstructure:"repair_cap"`
	OrchestratorVersion string              `mapstructure:"orchestrator_version"`
	Severity            SeverityWeights     `mapstructure:"severity"`
	Amplification       AmplificationConfig `mapstructure:"amplification"`
	QualityDeduction    int                 `mapstructure:"quality_deduction"`
	CritiquePenalty     int                 `mapstructure:"critique_penalty"`
	RuleGroups          []string            `mapstructure:"rule_groups"`
}

type SeverityWeights struct {
	Critical int `mapstructure:"critical"`
	Warning  int `mapstructure:"warning"`
	Info     int `mapstructure:"info"`
}

type AmplificationConfig struct {
	CriticalCluster int `mapstructure:"critical_cluster"`
	BootstrapScale  int `mapstructure:"bootstrap_scale"`
	ComplianceLoad  int `mapstructure:"compliance_load"`
	SoloComplexity  int `mapstructure:"solo_complexity"`
}

type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"` // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}
