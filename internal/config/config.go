package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

type RetentionConfig struct {
	HorizonDays int `yaml:"horizon_days"`
	SweepHour   int `yaml:"sweep_hour"`
}

type WriterConfig struct {
	MaxAttempts int `yaml:"max_attempts"`
	BaseDelayMs int `yaml:"base_delay_ms"`
}

func (w WriterConfig) BaseDelay() time.Duration {
	return time.Duration(w.BaseDelayMs) * time.Millisecond
}

type TriggerConfig struct {
	DedupTTLSeconds int `yaml:"dedup_ttl_seconds"`
	DedupMaxKeys    int `yaml:"dedup_max_keys"`
}

type RateLimitConfig struct {
	Rate          int `yaml:"rate"`
	WindowSeconds int `yaml:"window_seconds"`
}

type EventsConfig struct {
	Subject         string `yaml:"subject"`
	PublishRetryMax int    `yaml:"publish_retry_max"`
}

type Config struct {
	HTTPAddr  string
	Database  DatabaseConfig
	RedisAddr string
	NATSURL   string

	Retention RetentionConfig `yaml:"retention"`
	Writer    WriterConfig    `yaml:"writer"`
	Trigger   TriggerConfig   `yaml:"trigger"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Events    EventsConfig    `yaml:"events"`
}

// Load reads env vars (with .env overlay if present), then applies the
// optional YAML file on top for the tunables. Env wins for connection
// endpoints, YAML for behavior knobs.
func Load(yamlPath string) (*Config, error) {
	_ = godotenv.Load() // Optional; absence is not an error

	cfg := &Config{
		HTTPAddr: envOr("HTTP_ADDR", ":3001"),
		Database: DatabaseConfig{
			Host:     envOr("DB_HOST", "localhost"),
			Port:     envOr("DB_PORT", "5432"),
			User:     envOr("DB_USER", "postgres"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     envOr("DB_NAME", "cctv_nvr_monitor"),
			SSLMode:  envOr("DB_SSLMODE", "disable"),
		},
		RedisAddr: envOr("REDIS_ADDR", "localhost:6379"),
		NATSURL:   os.Getenv("NATS_URL"),
		Retention: RetentionConfig{
			HorizonDays: 365,
			SweepHour:   7,
		},
		Writer: WriterConfig{
			MaxAttempts: 3,
			BaseDelayMs: 1000,
		},
		Trigger: TriggerConfig{
			DedupTTLSeconds: 30,
			DedupMaxKeys:    1024,
		},
		RateLimit: RateLimitConfig{
			Rate:          10,
			WindowSeconds: 60,
		},
		Events: EventsConfig{
			Subject:         "nvr.snapshots.triggered",
			PublishRetryMax: 3,
		},
	}

	if v := os.Getenv("RETENTION_HORIZON_DAYS"); v != "" {
		if days, err := strconv.Atoi(v); err == nil && days > 0 {
			cfg.Retention.HorizonDays = days
		}
	}

	if yamlPath != "" {
		raw, err := os.ReadFile(yamlPath)
		if err == nil {
			if err := yaml.Unmarshal(raw, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", yamlPath, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config %s: %w", yamlPath, err)
		}
	}

	return cfg, nil
}

func (c *Config) Horizon() time.Duration {
	return time.Duration(c.Retention.HorizonDays) * 24 * time.Hour
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
