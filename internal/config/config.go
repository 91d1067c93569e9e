package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Database    DatabaseConfig    `yaml:"database"`
	Redis       RedisConfig       `yaml:"redis"`
	SES         SESConfig         `yaml:"ses"`
	SendGrid    SendGridConfig    `yaml:"sendgrid"`
	Enrichment  EnrichmentConfig  `yaml:"enrichment"`
	Personalize PersonalizeConfig `yaml:"personalize"`
	Outreach    OutreachConfig    `yaml:"outreach"`
	Import      ImportConfig      `yaml:"import"`
}

// ServerConfig holds the webhook HTTP server configuration
type ServerConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

// GetHost returns the server host, with container detection
func (c ServerConfig) GetHost() string {
	// On ECS/container, listen on all interfaces
	if os.Getenv("ECS_CONTAINER_METADATA_URI") != "" || os.Getenv("AWS_EXECUTION_ENV") != "" {
		return "0.0.0.0"
	}
	if host := os.Getenv("SERVER_HOST"); host != "" {
		return host
	}
	return c.Host
}

// DatabaseConfig holds PostgreSQL connection settings
type DatabaseConfig struct {
	URL          string `yaml:"url"`
	MaxOpenConns int    `yaml:"max_open_conns"`
	MaxIdleConns int    `yaml:"max_idle_conns"`
}

// RedisConfig holds Redis settings for the daily send counter
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Enabled  bool   `yaml:"enabled"`
}

// SESConfig holds AWS SES API configuration
type SESConfig struct {
	Region         string `yaml:"region"`
	AccessKey      string `yaml:"access_key"`
	SecretKey      string `yaml:"secret_key"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	Enabled        bool   `yaml:"enabled"`
	ConfigSet      string `yaml:"config_set"` // SES configuration set for event publishing
}

// Timeout returns the configured timeout as a duration
func (c SESConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// SendGridConfig holds SendGrid API configuration
type SendGridConfig struct {
	APIKey         string `yaml:"api_key"`
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	Enabled        bool   `yaml:"enabled"`
}

// Timeout returns the configured timeout as a duration
func (c SendGridConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// EnrichmentConfig holds the contact enrichment provider configuration
type EnrichmentConfig struct {
	APIKey         string `yaml:"api_key"`
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	Enabled        bool   `yaml:"enabled"`
	RatePerMinute  int    `yaml:"rate_per_minute"`
}

// Timeout returns the configured timeout as a duration
func (c EnrichmentConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// PersonalizeConfig holds LLM provider settings for first-line generation
type PersonalizeConfig struct {
	Provider  string `yaml:"provider"` // "openai" or "bedrock"
	APIKey    string `yaml:"api_key"`
	BaseURL   string `yaml:"base_url"`
	Model     string `yaml:"model"`
	AWSRegion string `yaml:"aws_region"` // bedrock only
	Enabled   bool   `yaml:"enabled"`
}

// OutreachConfig holds send cadence and identity settings
type OutreachConfig struct {
	FromName       string `yaml:"from_name"`
	FromEmail      string `yaml:"from_email"`
	ReplyTo        string `yaml:"reply_to"`
	UnsubscribeURL string `yaml:"unsubscribe_url"`
	TemplatesDir   string `yaml:"templates_dir"`

	DailyLimit  int `yaml:"daily_limit"`
	SendDelayMS int `yaml:"send_delay_ms"`

	// FollowupScheduleDays[i] is the wait in days before follow-up i+1.
	FollowupScheduleDays []int    `yaml:"followup_schedule_days"`
	FollowupTemplates    []string `yaml:"followup_templates"`
}

// SendDelay returns the pause between consecutive sends
func (c OutreachConfig) SendDelay() time.Duration {
	return time.Duration(c.SendDelayMS) * time.Millisecond
}

// MaxFollowups returns the follow-up cap implied by the schedule
func (c OutreachConfig) MaxFollowups() int {
	return len(c.FollowupScheduleDays)
}

// ImportConfig holds CSV import source settings
type ImportConfig struct {
	S3Region   string `yaml:"s3_region"`
	AWSProfile string `yaml:"aws_profile"` // Empty string uses default credential chain
}

// GetAWSProfile returns the AWS profile, with environment variable override
func (c ImportConfig) GetAWSProfile() string {
	if envProfile := os.Getenv("AWS_PROFILE_OVERRIDE"); envProfile != "" {
		if envProfile == "none" || envProfile == "iam" {
			return ""
		}
		return envProfile
	}
	if os.Getenv("ECS_CONTAINER_METADATA_URI") != "" || os.Getenv("AWS_EXECUTION_ENV") != "" {
		return ""
	}
	return c.AWSProfile
}

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	// Set defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 10
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = "localhost:6379"
	}
	if cfg.SES.TimeoutSeconds == 0 {
		cfg.SES.TimeoutSeconds = 30
	}
	if cfg.SES.Region == "" {
		cfg.SES.Region = "us-west-2"
	}
	if cfg.SendGrid.TimeoutSeconds == 0 {
		cfg.SendGrid.TimeoutSeconds = 30
	}
	if cfg.SendGrid.BaseURL == "" {
		cfg.SendGrid.BaseURL = "https://api.sendgrid.com"
	}
	if cfg.Enrichment.TimeoutSeconds == 0 {
		cfg.Enrichment.TimeoutSeconds = 30
	}
	if cfg.Enrichment.RatePerMinute == 0 {
		cfg.Enrichment.RatePerMinute = 120
	}
	if cfg.Personalize.Provider == "" {
		cfg.Personalize.Provider = "openai"
	}
	if cfg.Personalize.Model == "" {
		cfg.Personalize.Model = "gpt-4o"
	}
	if cfg.Personalize.AWSRegion == "" {
		cfg.Personalize.AWSRegion = "us-east-1"
	}
	if cfg.Outreach.TemplatesDir == "" {
		cfg.Outreach.TemplatesDir = "./templates"
	}
	if cfg.Outreach.DailyLimit == 0 {
		cfg.Outreach.DailyLimit = 50
	}
	if cfg.Outreach.SendDelayMS == 0 {
		cfg.Outreach.SendDelayMS = 200
	}
	if len(cfg.Outreach.FollowupScheduleDays) == 0 {
		cfg.Outreach.FollowupScheduleDays = []int{3, 7, 14}
	}
	if len(cfg.Outreach.FollowupTemplates) == 0 {
		cfg.Outreach.FollowupTemplates = []string{"followup_1", "followup_2", "followup_3"}
	}

	return &cfg, nil
}

// LoadFromEnv loads configuration with environment variable overrides.
// It automatically loads a .env file (if present) before reading env vars,
// so secrets can live in .env locally and in real env vars on ECS.
func LoadFromEnv(path string) (*Config, error) {
	// Load .env file if it exists (no error if missing)
	_ = godotenv.Load()

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		cfg.Database.URL = dbURL
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
		cfg.Redis.Enabled = true
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if accessKey := os.Getenv("AWS_SES_ACCESS_KEY"); accessKey != "" {
		cfg.SES.AccessKey = accessKey
	}
	if secretKey := os.Getenv("AWS_SES_SECRET_KEY"); secretKey != "" {
		cfg.SES.SecretKey = secretKey
	}
	if region := os.Getenv("AWS_SES_REGION"); region != "" {
		cfg.SES.Region = region
	}
	if apiKey := os.Getenv("SENDGRID_API_KEY"); apiKey != "" {
		cfg.SendGrid.APIKey = apiKey
		cfg.SendGrid.Enabled = true
	}
	if baseURL := os.Getenv("SENDGRID_BASE_URL"); baseURL != "" {
		cfg.SendGrid.BaseURL = baseURL
	}
	if apiKey := os.Getenv("ENRICHMENT_API_KEY"); apiKey != "" {
		cfg.Enrichment.APIKey = apiKey
		cfg.Enrichment.Enabled = true
	}
	if baseURL := os.Getenv("ENRICHMENT_BASE_URL"); baseURL != "" {
		cfg.Enrichment.BaseURL = baseURL
	}
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		cfg.Personalize.APIKey = apiKey
	}
	if v := os.Getenv("PERSONALIZE_PROVIDER"); v != "" {
		cfg.Personalize.Provider = v
	}
	if v := os.Getenv("OUTREACH_FROM_EMAIL"); v != "" {
		cfg.Outreach.FromEmail = v
	}
	if v := os.Getenv("OUTREACH_REPLY_TO"); v != "" {
		cfg.Outreach.ReplyTo = v
	}

	return cfg, nil
}
