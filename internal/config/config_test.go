package config

import (
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestMustLoad_PanicsOnInvalidConfig(t *testing.T) {
	t.Setenv("LOG_LEVEL", "verbose")
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("MustLoad should panic on invalid config")
		}
	}()
	_ = MustLoad()
}

func TestMustLoad_DefaultsAreValid(t *testing.T) {
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("MustLoad should not panic on defaults, got: %v", r)
		}
	}()
	cfg := MustLoad()
	if cfg.APIBasePath != "/api/v1" {
		t.Fatalf("API_BASE_PATH default expected /api/v1, got %q", cfg.APIBasePath)
	}
	if cfg.Store.Backend != StoreSQLite || cfg.Store.HistoryKey != "ecoHistory" {
		t.Fatalf("unexpected store defaults: %+v", cfg.Store)
	}
	if cfg.Assistant.Remote() {
		t.Fatal("assistant should default to local tips")
	}
	if cfg.Reminder.NotifySpec != "@every 2h" || cfg.Reminder.NotifyEnabled {
		t.Fatalf("unexpected reminder defaults: %+v", cfg.Reminder)
	}
	if len(cfg.Kafka.Brokers) != 0 {
		t.Fatalf("kafka should be disabled by default, got %v", cfg.Kafka.Brokers)
	}
}

func TestLoad_OverridesAndNormalization(t *testing.T) {
	t.Setenv("PORT", "8088")
	t.Setenv("READ_TIMEOUT", "2s")
	t.Setenv("GIN_MODE", "weird")
	t.Setenv("LOG_LEVEL", "warning")
	t.Setenv("LOG_PRETTY", "yes")
	t.Setenv("SWAGGER_ENABLED", "on")
	t.Setenv("API_BASE_PATH", "api/v2/")

	t.Setenv("STORE_BACKEND", "REDIS")
	t.Setenv("REDIS_ADDR", "redis:6380")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("HISTORY_KEY", "profile1")

	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("OPENAI_MODEL", "gpt-x")
	t.Setenv("ASSISTANT_TIMEOUT", "5s")
	t.Setenv("THRESHOLD", "0.5")

	t.Setenv("KAFKA_BROKERS", " k1:9092 , ,k2:9092 ")
	t.Setenv("KAFKA_TOPIC", "eco")

	t.Setenv("NOTIFY_ENABLED", "true")
	t.Setenv("NOTIFY_SPEC", "0 9 * * *")

	t.Setenv("RATE_RPS", "x")
	t.Setenv("RATE_BURST", "nope")
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.com , , http://b ")
	t.Setenv("ENABLE_HSTS", "TRUE")
	t.Setenv("IDEMPOTENCY_TTL", "48h")
	t.Setenv("OTEL_TRACES_SAMPLER_ARG", "0.25")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Port != "8088" || cfg.ReadTimeout != 2*time.Second {
		t.Fatalf("server overrides not applied: %+v", cfg)
	}
	if cfg.GinMode != "release" || cfg.LogLevel != "warn" || !cfg.LogPretty || !cfg.SwaggerEnabled {
		t.Fatalf("normalization failed: gin=%q level=%q", cfg.GinMode, cfg.LogLevel)
	}
	if cfg.APIBasePath != "/api/v2" {
		t.Fatalf("base path: %q", cfg.APIBasePath)
	}
	if cfg.Store.Backend != StoreRedis || cfg.Store.RedisAddr != "redis:6380" || cfg.Store.RedisDB != 3 || cfg.Store.HistoryKey != "profile1" {
		t.Fatalf("store overrides: %+v", cfg.Store)
	}
	if !cfg.Assistant.Remote() || cfg.Assistant.Model != "gpt-x" || cfg.Assistant.Timeout != 5*time.Second || cfg.Assistant.Threshold != 0.5 {
		t.Fatalf("assistant overrides: %+v", cfg.Assistant)
	}
	if !reflect.DeepEqual(cfg.Kafka.Brokers, []string{"k1:9092", "k2:9092"}) || cfg.Kafka.Topic != "eco" {
		t.Fatalf("kafka overrides: %+v", cfg.Kafka)
	}
	if !cfg.Reminder.NotifyEnabled || cfg.Reminder.NotifySpec != "0 9 * * *" {
		t.Fatalf("reminder overrides: %+v", cfg.Reminder)
	}
	if cfg.RateRPS != 5.0 || cfg.RateBurst != 10 {
		t.Fatalf("unparseable rate values should fall back: %v %v", cfg.RateRPS, cfg.RateBurst)
	}
	if !reflect.DeepEqual(cfg.CORS.AllowedOrigins, []string{"https://a.com", "http://b"}) || !cfg.Security.EnableHSTS {
		t.Fatalf("web protection overrides: %+v %+v", cfg.CORS, cfg.Security)
	}
	if cfg.IdempotencyTTL != 48*time.Hour || cfg.OTEL.SampleRatio != 0.25 {
		t.Fatalf("ttl/otel overrides: %v %v", cfg.IdempotencyTTL, cfg.OTEL.SampleRatio)
	}
}

func TestLoad_ValidationErrors(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"log level", map[string]string{"LOG_LEVEL": "loud"}, "LOG_LEVEL"},
		{"timeouts", map[string]string{"READ_TIMEOUT": "-1s"}, "timeouts"},
		{"header bytes", map[string]string{"MAX_HEADER_BYTES": "0"}, "MAX_HEADER_BYTES"},
		{"body bytes", map[string]string{"MAX_BODY_BYTES": "-5"}, "MAX_BODY_BYTES"},
		{"backend", map[string]string{"STORE_BACKEND": "etcd"}, "STORE_BACKEND"},
		{"redis addr", map[string]string{"STORE_BACKEND": "redis", "REDIS_ADDR": " "}, "REDIS_ADDR"},
		{"history key", map[string]string{"HISTORY_KEY": " "}, "HISTORY_KEY"},
		{"threshold", map[string]string{"THRESHOLD": "1.5"}, "THRESHOLD"},
		{"assistant timeout", map[string]string{"ASSISTANT_TIMEOUT": "0s"}, "ASSISTANT_TIMEOUT"},
		{"prompt runes", map[string]string{"ASSISTANT_MAX_PROMPT_RUNES": "-1"}, "ASSISTANT_MAX_PROMPT_RUNES"},
		{"kafka topic", map[string]string{"KAFKA_BROKERS": "k:9092", "KAFKA_TOPIC": " "}, "KAFKA_TOPIC"},
		{"reminder tick", map[string]string{"REMINDER_TICK": "0s"}, "REMINDER_TICK"},
		{"notify spec", map[string]string{"NOTIFY_ENABLED": "1", "NOTIFY_SPEC": " "}, "NOTIFY_SPEC"},
		{"rate rps", map[string]string{"RATE_RPS": "-1"}, "RATE_RPS"},
		{"rate burst", map[string]string{"RATE_BURST": "0"}, "RATE_BURST"},
		{"hsts", map[string]string{"HSTS_MAX_AGE": "-1h"}, "HSTS_MAX_AGE"},
		{"idempotency", map[string]string{"IDEMPOTENCY_TTL": "0s"}, "IDEMPOTENCY_TTL"},
		{"sampler", map[string]string{"OTEL_TRACES_SAMPLER_ARG": "2"}, "OTEL_TRACES_SAMPLER_ARG"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error mentioning %s, got %v", tc.want, err)
			}
		})
	}
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("X_FLOAT", "1.5")
	t.Setenv("X_INT", "7")
	t.Setenv("X_DUR", "3m")
	t.Setenv("X_BAD", "zzz")
	t.Setenv("X_OFF", " Off ")
	t.Setenv("X_LIST", " a, ,b ,")

	if envFloat("X_FLOAT", 0) != 1.5 || envFloat("X_BAD", 2) != 2 {
		t.Error("envFloat")
	}
	if envInt("X_INT", 0) != 7 || envInt("X_BAD", 4) != 4 {
		t.Error("envInt")
	}
	if envDuration("X_DUR", 0) != 3*time.Minute || envDuration("X_BAD", time.Second) != time.Second {
		t.Error("envDuration")
	}
	if envBool("X_OFF", true) || !envBool("X_BAD", true) || envBool("X_UNSET", false) {
		t.Error("envBool")
	}
	if envString("X_UNSET", "def") != "def" || envLower("X_BAD", "") != "zzz" {
		t.Error("envString")
	}
	if got := envList("X_LIST"); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("envList = %v", got)
	}
	if envList("X_UNSET") != nil {
		t.Error("envList of unset variable should be nil")
	}
}

func TestBasePath(t *testing.T) {
	for in, want := range map[string]string{"": "/", "v1": "/v1", "/v1/": "/v1", " / ": "/", "api/v2": "/api/v2"} {
		if got := basePath(in); got != want {
			t.Errorf("basePath(%q) = %q, want %q", in, got, want)
		}
	}
}
