// Package config assembles the service configuration once at startup.
// Values come from defaults, an optional config.yaml, a .env file and the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the complete service configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Gemini    GeminiConfig    `mapstructure:"gemini"`
	Ingest    IngestConfig    `mapstructure:"ingest"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
	Session   SessionConfig   `mapstructure:"session"`
	Sentry    SentryConfig    `mapstructure:"sentry"`
	Events    EventsConfig    `mapstructure:"events"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	Port            string        `mapstructure:"port" validate:"required"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

// GeminiConfig holds the model settings. APIKey is resolved from API_KEY first,
// then GEMINI_API_KEY.
type GeminiConfig struct {
	APIKey         string        `mapstructure:"api_key"`
	Model          string        `mapstructure:"model" validate:"required"`
	Temperature    float32       `mapstructure:"temperature" validate:"gte=0,lte=2"`
	ThinkingBudget int32         `mapstructure:"thinking_budget" validate:"gte=0"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" validate:"gte=0"`
}

type IngestConfig struct {
	MaxFileBytes      int64 `mapstructure:"max_file_bytes" validate:"gt=0"`
	MaxImageDimension int   `mapstructure:"max_image_dimension" validate:"gt=0"`
	MaxImagePixels    int64 `mapstructure:"max_image_pixels" validate:"gt=0"`
	JPEGQuality       int   `mapstructure:"jpeg_quality" validate:"gte=1,lte=100"`
}

type DashboardConfig struct {
	CurrentYear        string `mapstructure:"current_year"`
	FallbackYear       string `mapstructure:"fallback_year"`
	ComparisonEnabled  bool   `mapstructure:"comparison_enabled"`
	RatioToggleEnabled bool   `mapstructure:"ratio_toggle_enabled"`
	AnomalyLimit       int    `mapstructure:"anomaly_limit" validate:"gt=0"`
	RatioLimit         int    `mapstructure:"ratio_limit" validate:"gt=0"`
}

type SessionConfig struct {
	TTL         time.Duration `mapstructure:"ttl" validate:"gt=0"`
	MaxSessions int           `mapstructure:"max_sessions" validate:"gt=0"`
}

type SentryConfig struct {
	DSN         string  `mapstructure:"dsn"`
	Environment string  `mapstructure:"environment"`
	SampleRate  float64 `mapstructure:"sample_rate" validate:"gte=0,lte=1"`
}

// EventsConfig selects where analysis events are published.
type EventsConfig struct {
	Backend  string         `mapstructure:"backend" validate:"oneof=none kafka rabbitmq"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	RabbitMQ RabbitMQConfig `mapstructure:"rabbitmq"`
}

type KafkaConfig struct {
	BootstrapServers string `mapstructure:"bootstrap_servers"`
	Topic            string `mapstructure:"topic"`
	ClientID         string `mapstructure:"client_id"`
}

type RabbitMQConfig struct {
	Server string `mapstructure:"server"`
	Port   string `mapstructure:"port"`
	User   string `mapstructure:"user"`
	Pass   string `mapstructure:"pass"`
	Queue  string `mapstructure:"queue"`
}

type LogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
}

// envBindings maps config keys to the plain environment variables the service has always read.
// When a key lists several variables the first one that is set wins.
var envBindings = map[string][]string{
	"server.port":                    {"PORT"},
	"gemini.api_key":                 {"API_KEY", "GEMINI_API_KEY"},
	"gemini.model":                   {"GEMINI_MODEL"},
	"sentry.dsn":                     {"SENTRY_DSN"},
	"sentry.environment":             {"ENVIRONMENT"},
	"sentry.sample_rate":             {"SENTRY_SAMPLE_RATE"},
	"events.backend":                 {"EVENTS_BACKEND"},
	"events.kafka.bootstrap_servers": {"KAFKA_BOOTSTRAPSERVERS"},
	"events.kafka.topic":             {"KAFKA_TOPIC"},
	"events.rabbitmq.server":         {"RABBITMQ_SERVER"},
	"events.rabbitmq.port":           {"RABBITMQ_PORT"},
	"events.rabbitmq.user":           {"RABBITMQ_USER"},
	"events.rabbitmq.pass":           {"RABBITMQ_PASS"},
	"events.rabbitmq.queue":          {"RABBITMQ_QUEUE"},
	"log.level":                      {"LOG_LEVEL"},
	"dashboard.current_year":         {"CURRENT_FISCAL_YEAR"},
	"dashboard.fallback_year":        {"FALLBACK_FISCAL_YEAR"},
	"dashboard.comparison_enabled":   {"DASHBOARD_COMPARISON"},
	"dashboard.ratio_toggle_enabled": {"DASHBOARD_RATIO_TOGGLE"},
}

// Load reads .env (if present), config.yaml (if present) and the environment.
// Config file search order: ./config, $HOME/.finsight.
// Any key can also be set as FINSIGHT_<SECTION>_<KEY>.
func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".finsight"))
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return build(v)
}

// LoadFromFile reads configuration from a specific yaml file plus the environment.
func LoadFromFile(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}
	return build(v)
}

func build(v *viper.Viper) (*Config, error) {
	v.SetEnvPrefix("FINSIGHT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, envs := range envBindings {
		args := append([]string{key}, envs...)
		if err := v.BindEnv(args...); err != nil {
			return nil, fmt.Errorf("error binding %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the assembled configuration.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// defaults always decode
	_ = v.Unmarshal(&cfg)
	return &cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "4000")
	v.SetDefault("server.shutdown_timeout", 5*time.Second)

	v.SetDefault("gemini.model", "gemini-2.5-flash")
	v.SetDefault("gemini.temperature", 0.1)
	v.SetDefault("gemini.thinking_budget", 0)
	v.SetDefault("gemini.request_timeout", 2*time.Minute)

	v.SetDefault("ingest.max_file_bytes", 10*1024*1024)
	v.SetDefault("ingest.max_image_dimension", 1500)
	v.SetDefault("ingest.max_image_pixels", 50_000_000)
	v.SetDefault("ingest.jpeg_quality", 80)

	v.SetDefault("dashboard.current_year", "2568")
	v.SetDefault("dashboard.fallback_year", "2025")
	v.SetDefault("dashboard.comparison_enabled", true)
	v.SetDefault("dashboard.ratio_toggle_enabled", true)
	v.SetDefault("dashboard.anomaly_limit", 5)
	v.SetDefault("dashboard.ratio_limit", 5)

	v.SetDefault("session.ttl", 30*time.Minute)
	v.SetDefault("session.max_sessions", 1000)

	v.SetDefault("sentry.sample_rate", 1.0)

	v.SetDefault("events.backend", "none")
	v.SetDefault("events.kafka.topic", "finsight.analysis")
	v.SetDefault("events.kafka.client_id", "finsight")
	v.SetDefault("events.rabbitmq.server", "localhost")
	v.SetDefault("events.rabbitmq.port", "5672")
	v.SetDefault("events.rabbitmq.user", "guest")
	v.SetDefault("events.rabbitmq.pass", "guest")
	v.SetDefault("events.rabbitmq.queue", "finsight")

	v.SetDefault("log.level", "info")
}
