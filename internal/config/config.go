// Package config loads the service configuration from environment variables,
// applies defaults and validates the result. Settings cover the HTTP server,
// logging, the history store backend, the assistant, event publishing,
// reminders and observability.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// Store backends.
const (
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

// CORSConfig lists the browser origins allowed to call the API.
type CORSConfig struct {
	AllowedOrigins []string
}

// SecurityConfig toggles Strict-Transport-Security.
type SecurityConfig struct {
	EnableHSTS bool
	HSTSMaxAge time.Duration
}

// OTELConfig defines OpenTelemetry settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT, host:port of the collector
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE
	ServiceName string  // OTEL_SERVICE_NAME
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG, parent-based ratio
}

// StoreConfig selects the key-value backend holding the history log.
type StoreConfig struct {
	Backend    string // STORE_BACKEND: sqlite|redis|memory
	DBPath     string // DB_PATH (sqlite; also holds idempotency records)
	HistoryKey string // HISTORY_KEY

	RedisAddr     string // REDIS_ADDR
	RedisPassword string // REDIS_PASSWORD
	RedisDB       int    // REDIS_DB
	RedisPrefix   string // REDIS_PREFIX
}

// AssistantConfig configures the chat assistant. Without an API key the
// local tips index answers.
type AssistantConfig struct {
	APIKey         string        // OPENAI_API_KEY
	BaseURL        string        // OPENAI_BASE_URL
	Model          string        // OPENAI_MODEL
	Timeout        time.Duration // ASSISTANT_TIMEOUT
	MaxPromptRunes int           // ASSISTANT_MAX_PROMPT_RUNES
	TipsPath       string        // TIPS_PATH (empty = bundled tips)
	Threshold      float64       // THRESHOLD, minimum tip score [0,1]
}

// Remote reports whether the OpenAI client should be used.
func (a AssistantConfig) Remote() bool { return strings.TrimSpace(a.APIKey) != "" }

// KafkaConfig enables publishing of footprint events when Brokers is set.
type KafkaConfig struct {
	Brokers []string // KAFKA_BROKERS (comma separated)
	Topic   string   // KAFKA_TOPIC
}

// ReminderConfig controls the reminder queue and the periodic nudge.
type ReminderConfig struct {
	Tick          time.Duration // REMINDER_TICK
	NotifyEnabled bool          // NOTIFY_ENABLED
	NotifySpec    string        // NOTIFY_SPEC (cron spec)
	NotifyMessage string        // NOTIFY_MESSAGE
}

// Config holds all configuration values.
type Config struct {
	// Server
	Port              string
	ReadTimeout       time.Duration
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	MaxHeaderBytes    int
	MaxBodyBytes      int64
	GinMode           string // debug|release|test

	// Logging / Docs
	LogLevel       string
	LogPretty      bool
	SwaggerEnabled bool
	APIBasePath    string

	Store     StoreConfig
	Assistant AssistantConfig
	Kafka     KafkaConfig
	Reminder  ReminderConfig

	// Rate limiting
	RateRPS   float64
	RateBurst int

	CORS     CORSConfig
	Security SecurityConfig

	IdempotencyTTL time.Duration

	OTEL OTELConfig
}

// MustLoad is Load for process startup: an invalid environment is fatal.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from the environment, applies defaults,
// normalizes values and validates the result.
func Load() (Config, error) {
	cfg := Config{
		Port:              envString("PORT", "8080"),
		ReadTimeout:       envDuration("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: envDuration("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      envDuration("WRITE_TIMEOUT", 30*time.Second),
		IdleTimeout:       envDuration("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes:    envInt("MAX_HEADER_BYTES", 1<<20),
		MaxBodyBytes:      int64(envInt("MAX_BODY_BYTES", 1<<20)),
		GinMode:           envLower("GIN_MODE", "release"),

		LogLevel:       envLower("LOG_LEVEL", "info"),
		LogPretty:      envBool("LOG_PRETTY", false),
		SwaggerEnabled: envBool("SWAGGER_ENABLED", false),
		APIBasePath:    basePath(envString("API_BASE_PATH", "/api/v1")),

		Store: StoreConfig{
			Backend:       envLower("STORE_BACKEND", StoreSQLite),
			DBPath:        envString("DB_PATH", "eco.db"),
			HistoryKey:    envString("HISTORY_KEY", "ecoHistory"),
			RedisAddr:     envString("REDIS_ADDR", "localhost:6379"),
			RedisPassword: envString("REDIS_PASSWORD", ""),
			RedisDB:       envInt("REDIS_DB", 0),
			RedisPrefix:   envString("REDIS_PREFIX", "eco:"),
		},

		Assistant: AssistantConfig{
			APIKey:         envString("OPENAI_API_KEY", ""),
			BaseURL:        envString("OPENAI_BASE_URL", ""),
			Model:          envString("OPENAI_MODEL", "gpt-4o-mini"),
			Timeout:        envDuration("ASSISTANT_TIMEOUT", 20*time.Second),
			MaxPromptRunes: envInt("ASSISTANT_MAX_PROMPT_RUNES", 2000),
			TipsPath:       envString("TIPS_PATH", ""),
			Threshold:      envFloat("THRESHOLD", 0.05),
		},

		Kafka: KafkaConfig{
			Brokers: envList("KAFKA_BROKERS"),
			Topic:   envString("KAFKA_TOPIC", "eco.footprints"),
		},

		Reminder: ReminderConfig{
			Tick:          envDuration("REMINDER_TICK", time.Second),
			NotifyEnabled: envBool("NOTIFY_ENABLED", false),
			NotifySpec:    envString("NOTIFY_SPEC", "@every 2h"),
			NotifyMessage: envString("NOTIFY_MESSAGE", ""),
		},

		RateRPS:   envFloat("RATE_RPS", 5.0),
		RateBurst: envInt("RATE_BURST", 10),

		CORS: CORSConfig{AllowedOrigins: envList("CORS_ALLOWED_ORIGINS")},
		Security: SecurityConfig{
			EnableHSTS: envBool("ENABLE_HSTS", false),
			HSTSMaxAge: envDuration("HSTS_MAX_AGE", 180*24*time.Hour),
		},

		IdempotencyTTL: envDuration("IDEMPOTENCY_TTL", 24*time.Hour),

		OTEL: OTELConfig{
			Enabled:     envBool("OTEL_ENABLED", false),
			Endpoint:    envString("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    envBool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: envString("OTEL_SERVICE_NAME", "go-eco-backend"),
			SampleRatio: envFloat("OTEL_TRACES_SAMPLER_ARG", 1.0),
		},
	}

	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	if !oneOf(cfg.GinMode, "debug", "release", "test") {
		cfg.GinMode = "release"
	}

	return cfg, cfg.validate()
}

// validate returns the first violated rule, in declaration order.
func (c Config) validate() error {
	blank := func(s string) bool { return strings.TrimSpace(s) == "" }
	rules := []struct {
		broken bool
		msg    string
	}{
		{!oneOf(c.LogLevel, "debug", "info", "warn", "error", "fatal", "panic"),
			"LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic"},
		{blank(c.Port), "PORT must not be empty"},
		{c.ReadTimeout <= 0 || c.ReadHeaderTimeout <= 0 || c.WriteTimeout <= 0 || c.IdleTimeout <= 0,
			"timeouts must be positive durations"},
		{c.MaxHeaderBytes <= 0, "MAX_HEADER_BYTES must be > 0"},
		{c.MaxBodyBytes <= 0, "MAX_BODY_BYTES must be > 0"},
		{!oneOf(c.Store.Backend, StoreSQLite, StoreRedis, StoreMemory),
			"STORE_BACKEND must be one of: sqlite, redis, memory"},
		{blank(c.Store.DBPath), "DB_PATH must not be empty"},
		{blank(c.Store.HistoryKey), "HISTORY_KEY must not be empty"},
		{c.Store.Backend == StoreRedis && blank(c.Store.RedisAddr),
			"REDIS_ADDR must not be empty when STORE_BACKEND=redis"},
		{c.Assistant.Threshold < 0 || c.Assistant.Threshold > 1, "THRESHOLD must be within [0,1]"},
		{c.Assistant.Timeout <= 0, "ASSISTANT_TIMEOUT must be > 0"},
		{c.Assistant.MaxPromptRunes < 0, "ASSISTANT_MAX_PROMPT_RUNES must be >= 0"},
		{len(c.Kafka.Brokers) > 0 && blank(c.Kafka.Topic),
			"KAFKA_TOPIC must not be empty when KAFKA_BROKERS is set"},
		{c.Reminder.Tick <= 0, "REMINDER_TICK must be > 0"},
		{c.Reminder.NotifyEnabled && blank(c.Reminder.NotifySpec),
			"NOTIFY_SPEC must not be empty when NOTIFY_ENABLED"},
		{c.RateRPS < 0, "RATE_RPS must not be negative"},
		{c.RateBurst < 1, "RATE_BURST must be at least 1"},
		{c.Security.HSTSMaxAge < 0, "HSTS_MAX_AGE must not be negative"},
		{c.IdempotencyTTL <= 0, "IDEMPOTENCY_TTL must be > 0"},
		{c.OTEL.SampleRatio < 0 || c.OTEL.SampleRatio > 1, "OTEL_TRACES_SAMPLER_ARG must be within [0,1]"},
	}
	for _, r := range rules {
		if r.broken {
			return errors.New(r.msg)
		}
	}
	return nil
}

func oneOf(v string, allowed ...string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}

// env returns the parsed value of k, or def when k is unset, empty or
// does not parse.
func env[T any](k string, def T, parse func(string) (T, error)) T {
	raw, ok := os.LookupEnv(k)
	if !ok || raw == "" {
		return def
	}
	v, err := parse(raw)
	if err != nil {
		return def
	}
	return v
}

func envString(k, def string) string {
	return env(k, def, func(s string) (string, error) { return s, nil })
}

func envLower(k, def string) string { return strings.ToLower(envString(k, def)) }

func envInt(k string, def int) int { return env(k, def, strconv.Atoi) }

func envDuration(k string, def time.Duration) time.Duration {
	return env(k, def, time.ParseDuration)
}

func envFloat(k string, def float64) float64 {
	return env(k, def, func(s string) (float64, error) { return strconv.ParseFloat(s, 64) })
}

var boolWords = map[string]bool{
	"1": true, "true": true, "yes": true, "y": true, "on": true,
	"0": false, "false": false, "no": false, "n": false, "off": false,
}

func envBool(k string, def bool) bool {
	return env(k, def, func(s string) (bool, error) {
		b, ok := boolWords[strings.ToLower(strings.TrimSpace(s))]
		if !ok {
			return false, errors.New("not a boolean")
		}
		return b, nil
	})
}

// envList splits a comma separated variable, dropping blank items.
func envList(k string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(k), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// basePath yields "/x" for "x", "/x/" and " /x"; blank becomes "/".
func basePath(p string) string {
	p = strings.Trim(strings.TrimSpace(p), "/")
	return "/" + p
}
