package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Azure     AzureConfig
	Advisory  AdvisoryConfig
	Webhook   WebhookConfig
	Redis     RedisConfig
	Push      PushConfig
	Scheduler SchedulerConfig
	Logging   LoggingConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port            string
	Environment     string
	ShutdownTimeout time.Duration
	AllowedOrigins  []string
	Timezone        string // zone of the ward's shift hours
}

// Location returns the ward time zone. Validate has already checked it loads.
func (c ServerConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// AzureConfig holds Azure service configuration
type AzureConfig struct {
	OpenAI  OpenAIConfig
	Storage StorageConfig
}

// OpenAIConfig holds Azure OpenAI configuration
type OpenAIConfig struct {
	Endpoint   string
	APIKey     string
	Deployment string
}

// Enabled reports whether every Azure OpenAI setting is present
func (c OpenAIConfig) Enabled() bool {
	return c.Endpoint != "" && c.APIKey != "" && c.Deployment != ""
}

// StorageConfig holds Azure Blob Storage configuration
type StorageConfig struct {
	AccountName     string
	AccountKey      string
	ReportContainer string
}

// Enabled reports whether blob storage credentials are present
func (c StorageConfig) Enabled() bool {
	return c.AccountName != "" && c.AccountKey != ""
}

// AdvisoryConfig tunes the external risk advisory call
type AdvisoryConfig struct {
	Timeout    time.Duration
	MaxRetries int
}

// WebhookConfig holds the alert automation webhook configuration
type WebhookConfig struct {
	URL     string
	Secret  string
	Timeout time.Duration
}

// RedisConfig holds the Redis Streams mirror configuration
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Stream   string
	MaxLen   int64
}

// PushConfig holds Firebase Cloud Messaging configuration
type PushConfig struct {
	CredentialsFile string
	ChannelID       string
}

// SchedulerConfig holds periodic sweep configuration
type SchedulerConfig struct {
	Enabled            bool
	VitalInterval      time.Duration
	RiskInterval       time.Duration
	MedicationInterval time.Duration
	RiskConcurrency    int
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string // json or console
}

// Load reads configuration from a .env file, environment variables and defaults
func Load() (*Config, error) {
	// A missing .env file is fine, the process environment still applies.
	_ = godotenv.Load()

	v := viper.New()

	// Set default values
	setDefaults(v)

	// Read from environment variables
	v.AutomaticEnv()

	// Bind specific environment variables
	bindEnvVars(v)

	// Unmarshal into config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.shutdowntimeout", 30*time.Second)
	v.SetDefault("server.allowedorigins", []string{"*"})
	v.SetDefault("server.timezone", "Local")

	// Database defaults
	v.SetDefault("database.maxopenconns", 25)
	v.SetDefault("database.maxidleconns", 5)
	v.SetDefault("database.connmaxlifetime", 5*time.Minute)

	// Azure Storage defaults
	v.SetDefault("azure.storage.reportcontainer", "risk-reports")

	// Advisory defaults
	v.SetDefault("advisory.timeout", 8*time.Second)
	v.SetDefault("advisory.maxretries", 1)

	// Webhook defaults
	v.SetDefault("webhook.timeout", 5*time.Second)

	// Redis defaults
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.stream", "wardwatch:alerts")
	v.SetDefault("redis.maxlen", 10000)

	// Push defaults
	v.SetDefault("push.channelid", "ward_alerts")

	// Scheduler defaults
	v.SetDefault("scheduler.enabled", true)
	v.SetDefault("scheduler.vitalinterval", 5*time.Second)
	v.SetDefault("scheduler.riskinterval", 5*time.Minute)
	v.SetDefault("scheduler.medicationinterval", time.Minute)
	v.SetDefault("scheduler.riskconcurrency", 4)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// bindEnvVars binds environment variables to config keys
func bindEnvVars(v *viper.Viper) {
	// Server
	v.BindEnv("server.port", "PORT")
	v.BindEnv("server.environment", "ENV", "ENVIRONMENT")
	v.BindEnv("server.timezone", "WARD_TIMEZONE")

	// Database
	v.BindEnv("database.url", "DATABASE_URL")

	// Azure OpenAI
	v.BindEnv("azure.openai.endpoint", "AZURE_OPENAI_ENDPOINT")
	v.BindEnv("azure.openai.apikey", "AZURE_OPENAI_API_KEY")
	v.BindEnv("azure.openai.deployment", "AZURE_OPENAI_DEPLOYMENT")

	// Azure Storage
	v.BindEnv("azure.storage.accountname", "AZURE_STORAGE_ACCOUNT_NAME")
	v.BindEnv("azure.storage.accountkey", "AZURE_STORAGE_ACCOUNT_KEY")
	v.BindEnv("azure.storage.reportcontainer", "AZURE_STORAGE_REPORT_CONTAINER")

	// Advisory
	v.BindEnv("advisory.timeout", "ADVISORY_TIMEOUT")

	// Webhook
	v.BindEnv("webhook.url", "N8N_WEBHOOK_URL", "WEBHOOK_URL")
	v.BindEnv("webhook.secret", "WEBHOOK_SECRET")
	v.BindEnv("webhook.timeout", "WEBHOOK_TIMEOUT")

	// Redis
	v.BindEnv("redis.addr", "REDIS_ADDR")
	v.BindEnv("redis.password", "REDIS_PASSWORD")
	v.BindEnv("redis.db", "REDIS_DB")

	// Push
	v.BindEnv("push.credentialsfile", "FIREBASE_CREDENTIALS_PATH")

	// Scheduler
	v.BindEnv("scheduler.enabled", "SCHEDULER_ENABLED")
	v.BindEnv("scheduler.vitalinterval", "VITAL_SWEEP_INTERVAL")
	v.BindEnv("scheduler.riskinterval", "RISK_SWEEP_INTERVAL")
	v.BindEnv("scheduler.medicationinterval", "MEDICATION_SWEEP_INTERVAL")

	// Logging
	v.BindEnv("logging.level", "LOG_LEVEL")
	v.BindEnv("logging.format", "LOG_FORMAT")
}

// Validate checks if the configuration is valid. Optional integrations are
// left disabled when their settings are absent.
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("database.url is required")
	}

	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}

	if c.Advisory.Timeout <= 0 {
		return fmt.Errorf("advisory.timeout must be positive")
	}

	if c.Webhook.Timeout <= 0 {
		return fmt.Errorf("webhook.timeout must be positive")
	}

	if c.Scheduler.RiskConcurrency < 1 {
		return fmt.Errorf("scheduler.riskconcurrency must be at least 1")
	}

	if c.Scheduler.Enabled && (c.Scheduler.VitalInterval <= 0 || c.Scheduler.RiskInterval <= 0 || c.Scheduler.MedicationInterval <= 0) {
		return fmt.Errorf("scheduler intervals must be positive when the scheduler is enabled")
	}

	if _, err := time.LoadLocation(c.Server.Timezone); err != nil {
		return fmt.Errorf("server.timezone: %w", err)
	}

	return nil
}
