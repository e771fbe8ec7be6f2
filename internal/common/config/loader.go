package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	loadEnvFile()

	// Base config
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../../configs")
	viper.AddConfigPath(".")

	// Enable ENV override like SOURCE_URL or AUTH_TOKEN
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	// Environment-specific overlay, ignored when absent
	envConfigFile := fmt.Sprintf("config.%s", env)
	viper.SetConfigName(envConfigFile)
	_ = viper.MergeInConfig()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// loadEnvFile tries .env in the locations we run from (repo root, cmd
// dirs, test dirs).
func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
		"../../../.env",
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "scout-pipeline"
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = "development"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Server.Address == "" {
		cfg.Server.Address = ":8000"
	}

	if cfg.Source.MaxPages <= 0 {
		cfg.Source.MaxPages = 5
	}
	if cfg.Source.Timeout <= 0 {
		cfg.Source.Timeout = 5 * time.Second
	}
	if cfg.Source.PageDelay <= 0 {
		cfg.Source.PageDelay = 500 * time.Millisecond
	}
	if cfg.Source.RetryAttempts <= 0 {
		cfg.Source.RetryAttempts = 3
	}
	if cfg.Source.TransientDelay <= 0 {
		cfg.Source.TransientDelay = 2 * time.Second
	}

	if cfg.Target.Timeout <= 0 {
		cfg.Target.Timeout = 5 * time.Second
	}
	if cfg.Target.ItemDelay <= 0 {
		cfg.Target.ItemDelay = 500 * time.Millisecond
	}
	if cfg.Target.RetryAttempts <= 0 {
		cfg.Target.RetryAttempts = 3
	}
	if cfg.Target.StatusDelay <= 0 {
		cfg.Target.StatusDelay = 1 * time.Second
	}
	if cfg.Target.TransientDelay <= 0 {
		cfg.Target.TransientDelay = 2 * time.Second
	}

	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = "file"
	}
	if cfg.Storage.DataDir == "" {
		cfg.Storage.DataDir = "data"
	}
	if cfg.Storage.Redis.CacheTTL <= 0 {
		cfg.Storage.Redis.CacheTTL = 5 * time.Minute
	}
	if cfg.Storage.Elasticsearch.Index == "" {
		cfg.Storage.Elasticsearch.Index = "players"
	}

	if cfg.Webhooks.Timeout <= 0 {
		cfg.Webhooks.Timeout = 5 * time.Second
	}
	if cfg.Webhooks.QueueSize <= 0 {
		cfg.Webhooks.QueueSize = 1024
	}
}

func validateConfig(cfg *Config) error {
	if cfg.Source.MaxPages < 1 {
		return fmt.Errorf("source.max_pages must be at least 1")
	}
	if cfg.Storage.Backend != "file" && cfg.Storage.Backend != "postgres" {
		return fmt.Errorf("storage.backend must be file or postgres, got %q", cfg.Storage.Backend)
	}
	if cfg.Storage.Backend == "postgres" {
		if cfg.Storage.Postgres.Host == "" || cfg.Storage.Postgres.Database == "" {
			return fmt.Errorf("storage.postgres host and database are required for the postgres backend")
		}
	}
	if cfg.Storage.Redis.Enabled && cfg.Storage.Redis.Address == "" {
		return fmt.Errorf("storage.redis.address is required when redis is enabled")
	}
	if cfg.Storage.Elasticsearch.Enabled && len(cfg.Storage.Elasticsearch.Addresses) == 0 {
		return fmt.Errorf("storage.elasticsearch.addresses is required when elasticsearch is enabled")
	}
	if cfg.Webhooks.SNS.Enabled && cfg.Webhooks.SNS.TopicARN == "" {
		return fmt.Errorf("webhooks.sns.topic_arn is required when the SNS mirror is enabled")
	}
	if cfg.Notifications.Email.Enabled {
		if cfg.Notifications.Email.Sender == "" || len(cfg.Notifications.Email.Recipients) == 0 {
			return fmt.Errorf("notifications.email sender and recipients are required when email is enabled")
		}
	}
	return nil
}
