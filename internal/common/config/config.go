package config

import (
	"fmt"
	"time"
)

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig          `mapstructure:"app"`
	Logging       LoggingConfig      `mapstructure:"logging"`
	Auth          AuthConfig         `mapstructure:"auth"`
	Server        ServerConfig       `mapstructure:"server"`
	Source        SourceConfig       `mapstructure:"source"`
	Target        TargetConfig       `mapstructure:"target"`
	Storage       StorageConfig      `mapstructure:"storage"`
	Webhooks      WebhookConfig      `mapstructure:"webhooks"`
	Notifications NotificationConfig `mapstructure:"notifications"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// AuthConfig holds the shared-secret token compared for equality on
// secured endpoints.
type AuthConfig struct {
	Token string `mapstructure:"token"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

// SourceConfig configures the paginated extraction step.
type SourceConfig struct {
	URL            string        `mapstructure:"url"`
	Query          string        `mapstructure:"query"`
	MaxPages       int           `mapstructure:"max_pages"`
	Timeout        time.Duration `mapstructure:"timeout"`
	PageDelay      time.Duration `mapstructure:"page_delay"`
	RetryAttempts  int           `mapstructure:"retry_attempts"`
	TransientDelay time.Duration `mapstructure:"transient_delay"`
}

// TargetConfig configures delivery to the downstream scores endpoint.
type TargetConfig struct {
	URL            string        `mapstructure:"url"`
	Token          string        `mapstructure:"token"`
	Timeout        time.Duration `mapstructure:"timeout"`
	ItemDelay      time.Duration `mapstructure:"item_delay"`
	RetryAttempts  int           `mapstructure:"retry_attempts"`
	StatusDelay    time.Duration `mapstructure:"status_delay"`
	TransientDelay time.Duration `mapstructure:"transient_delay"`
}

type StorageConfig struct {
	Backend       string              `mapstructure:"backend"` // "file" or "postgres"
	DataDir       string              `mapstructure:"data_dir"`
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Redis         RedisConfig         `mapstructure:"redis"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
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

// GetDSN returns the PostgreSQL connection string.
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Address  string        `mapstructure:"address"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

type ElasticsearchConfig struct {
	Enabled   bool     `mapstructure:"enabled"`
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
	Index     string   `mapstructure:"index"`
}

// WebhookConfig configures the event queue and subscriber fan-out.
type WebhookConfig struct {
	Timeout   time.Duration `mapstructure:"timeout"`
	QueueSize int           `mapstructure:"queue_size"`
	SNS       SNSConfig     `mapstructure:"sns"`
}

// SNSConfig enables mirroring drained events to an SNS topic.
type SNSConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Region   string `mapstructure:"region"`
	TopicARN string `mapstructure:"topic_arn"`
}

// NotificationConfig configures the post-run summary email.
type NotificationConfig struct {
	Email EmailConfig `mapstructure:"email"`
}

type EmailConfig struct {
	Enabled    bool     `mapstructure:"enabled"`
	Region     string   `mapstructure:"region"`
	Sender     string   `mapstructure:"sender"`
	Recipients []string `mapstructure:"recipients"`
}
