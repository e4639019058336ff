package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	EnvironmentDevelopment = "development"
	EnvironmentProduction  = "production"
	EnvironmentTest        = "test"

	SnapshotPolicyPartial = "partial"
	SnapshotPolicyStrict  = "strict"
)

type Config struct {
	Environment      string
	Port             string
	DiscordToken     string
	DiscordClientID  string
	GithubToken      string
	PostgresURL      string
	RedisURL         string
	ChainRPCURL      string
	SnapshotPolicy   string
	CommandWorkers   int
	CommandQueueSize int
	ReplyTTL         time.Duration
}

// Load reads the process configuration from the environment. Every missing
// required variable is reported in a single error.
func Load() (*Config, error) {
	var missing []string
	required := func(key string) string {
		value := strings.TrimSpace(os.Getenv(key))
		if value == "" {
			missing = append(missing, key)
		}
		return value
	}

	cfg := &Config{
		Environment:     getString("APP_ENV", EnvironmentDevelopment),
		Port:            getString("PORT", "3001"),
		DiscordToken:    required("DISCORD_BOT_TOKEN"),
		DiscordClientID: required("DISCORD_CLIENT_ID"),
		GithubToken:     getString("GITHUB_TOKEN", ""),
		PostgresURL:     required("POSTGRES_URL"),
		RedisURL:        required("REDIS_URL"),
		ChainRPCURL:     required("ANVIL_RPC_URL"),
		SnapshotPolicy:  strings.ToLower(getString("SNAPSHOT_POLICY", SnapshotPolicyPartial)),
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	var err error
	if cfg.CommandWorkers, err = getPositiveInt("COMMAND_WORKERS", 16); err != nil {
		return nil, err
	}
	if cfg.CommandQueueSize, err = getPositiveInt("COMMAND_QUEUE_SIZE", 64); err != nil {
		return nil, err
	}
	ttlMinutes, err := getPositiveInt("REPLY_TTL_MINUTES", 15)
	if err != nil {
		return nil, err
	}
	cfg.ReplyTTL = time.Duration(ttlMinutes) * time.Minute

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == EnvironmentProduction
}

func (c *Config) validate() error {
	switch c.Environment {
	case EnvironmentDevelopment, EnvironmentProduction, EnvironmentTest:
	default:
		return fmt.Errorf("invalid APP_ENV %q: expected development, production or test", c.Environment)
	}
	switch c.SnapshotPolicy {
	case SnapshotPolicyPartial, SnapshotPolicyStrict:
	default:
		return fmt.Errorf("invalid SNAPSHOT_POLICY %q: expected partial or strict", c.SnapshotPolicy)
	}
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("invalid PORT %q: %w", c.Port, err)
	}
	return nil
}

func getString(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func getPositiveInt(key string, fallback int) (int, error) {
	value, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(value) == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if parsed <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive, got %d", key, parsed)
	}
	return parsed, nil
}
