package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	// Clear relevant env vars
	envVars := []string{
		"SERVICE_PRINCIPAL", "HTTP_PORT", "LOG_LEVEL",
		"INTAKE_MAX_SIZE_BYTES", "INTAKE_MAX_DURATION_SEC",
		"STT_PROVIDER", "STT_LANGUAGE", "STT_RELIABILITY_THRESHOLD",
		"EXTRACTION_RECONCILE_POLICY", "LLM_ENABLED",
		"PREVIEW_TTL", "KAFKA_ENABLED", "KAFKA_BROKERS",
		"KAFKA_TOPIC_PREVIEW", "KAFKA_TOPIC_TASK", "KAFKA_PRINCIPAL",
	}
	for _, v := range envVars {
		os.Unsetenv(v)
	}

	cfg := Load()

	// Service defaults
	if cfg.Service.Principal != "svc-voice-task" {
		t.Errorf("expected default principal 'svc-voice-task', got %s", cfg.Service.Principal)
	}
	if cfg.Service.HTTPPort != "8080" {
		t.Errorf("expected default port '8080', got %s", cfg.Service.HTTPPort)
	}

	// Intake defaults
	if cfg.Intake.MaxSizeBytes != 10*1024*1024 {
		t.Errorf("expected default max size 10MB, got %d", cfg.Intake.MaxSizeBytes)
	}
	if cfg.Intake.MaxDurationSec != 120 {
		t.Errorf("expected default max duration 120s, got %v", cfg.Intake.MaxDurationSec)
	}

	// STT defaults
	if cfg.STT.Provider != "mock" {
		t.Errorf("expected default STT provider 'mock', got %s", cfg.STT.Provider)
	}
	if cfg.STT.Language != "fr" {
		t.Errorf("expected default language 'fr', got %s", cfg.STT.Language)
	}
	if cfg.STT.ReliabilityThreshold != 0.7 {
		t.Errorf("expected default reliability threshold 0.7, got %v", cfg.STT.ReliabilityThreshold)
	}

	// Extraction defaults
	if cfg.Extraction.ReconcilePolicy != "highest-confidence" {
		t.Errorf("expected default reconcile policy 'highest-confidence', got %s", cfg.Extraction.ReconcilePolicy)
	}
	if cfg.Extraction.LLMEnabled != false {
		t.Errorf("expected LLM disabled by default, got %v", cfg.Extraction.LLMEnabled)
	}

	// Preview defaults
	if cfg.Preview.TTL != 24*time.Hour {
		t.Errorf("expected default preview TTL 24h, got %v", cfg.Preview.TTL)
	}

	// Kafka defaults
	if cfg.Kafka.Enabled != false {
		t.Errorf("expected Kafka disabled by default, got %v", cfg.Kafka.Enabled)
	}
	if cfg.Kafka.TopicPreview != "task.preview.created" {
		t.Errorf("expected default preview topic 'task.preview.created', got %s", cfg.Kafka.TopicPreview)
	}
	if cfg.Kafka.TopicTask != "task.generated" {
		t.Errorf("expected default task topic 'task.generated', got %s", cfg.Kafka.TopicTask)
	}

	// Observability defaults
	if cfg.Observability.LogLevel != "info" {
		t.Errorf("expected default log level 'info', got %s", cfg.Observability.LogLevel)
	}
	if cfg.Observability.Port != "9090" {
		t.Errorf("expected default observability port '9090', got %s", cfg.Observability.Port)
	}
}

func TestLoad_CustomValues(t *testing.T) {
	os.Setenv("SERVICE_PRINCIPAL", "custom-principal")
	os.Setenv("HTTP_PORT", "9999")
	os.Setenv("LOG_LEVEL", "debug")
	os.Setenv("INTAKE_MAX_SIZE_BYTES", "5242880")
	os.Setenv("INTAKE_MAX_DURATION_SEC", "60")
	os.Setenv("STT_PROVIDER", "google")
	os.Setenv("STT_LANGUAGE", "en")
	os.Setenv("STT_RELIABILITY_THRESHOLD", "0.85")
	os.Setenv("EXTRACTION_RECONCILE_POLICY", "prefer-llm")
	os.Setenv("LLM_ENABLED", "true")
	os.Setenv("PREVIEW_TTL", "48h")
	os.Setenv("KAFKA_ENABLED", "true")

	defer func() {
		os.Unsetenv("SERVICE_PRINCIPAL")
		os.Unsetenv("HTTP_PORT")
		os.Unsetenv("LOG_LEVEL")
		os.Unsetenv("INTAKE_MAX_SIZE_BYTES")
		os.Unsetenv("INTAKE_MAX_DURATION_SEC")
		os.Unsetenv("STT_PROVIDER")
		os.Unsetenv("STT_LANGUAGE")
		os.Unsetenv("STT_RELIABILITY_THRESHOLD")
		os.Unsetenv("EXTRACTION_RECONCILE_POLICY")
		os.Unsetenv("LLM_ENABLED")
		os.Unsetenv("PREVIEW_TTL")
		os.Unsetenv("KAFKA_ENABLED")
	}()

	cfg := Load()

	if cfg.Service.Principal != "custom-principal" {
		t.Errorf("expected principal 'custom-principal', got %s", cfg.Service.Principal)
	}
	if cfg.Service.HTTPPort != "9999" {
		t.Errorf("expected port '9999', got %s", cfg.Service.HTTPPort)
	}
	if cfg.Intake.MaxSizeBytes != 5242880 {
		t.Errorf("expected max size 5242880, got %d", cfg.Intake.MaxSizeBytes)
	}
	if cfg.Intake.MaxDurationSec != 60 {
		t.Errorf("expected max duration 60s, got %v", cfg.Intake.MaxDurationSec)
	}
	if cfg.STT.Provider != "google" {
		t.Errorf("expected STT provider 'google', got %s", cfg.STT.Provider)
	}
	if cfg.STT.Language != "en" {
		t.Errorf("expected language 'en', got %s", cfg.STT.Language)
	}
	if cfg.STT.ReliabilityThreshold != 0.85 {
		t.Errorf("expected reliability threshold 0.85, got %v", cfg.STT.ReliabilityThreshold)
	}
	if cfg.Extraction.ReconcilePolicy != "prefer-llm" {
		t.Errorf("expected reconcile policy 'prefer-llm', got %s", cfg.Extraction.ReconcilePolicy)
	}
	if cfg.Extraction.LLMEnabled != true {
		t.Errorf("expected LLM enabled, got %v", cfg.Extraction.LLMEnabled)
	}
	if cfg.Preview.TTL != 48*time.Hour {
		t.Errorf("expected preview TTL 48h, got %v", cfg.Preview.TTL)
	}
	if cfg.Kafka.Enabled != true {
		t.Errorf("expected Kafka enabled, got %v", cfg.Kafka.Enabled)
	}
	if cfg.Observability.LogLevel != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Observability.LogLevel)
	}
}

func TestLoad_InvalidValues_FallbackToDefaults(t *testing.T) {
	os.Setenv("INTAKE_MAX_SIZE_BYTES", "not-a-number")
	os.Setenv("INTAKE_MAX_DURATION_SEC", "invalid")
	os.Setenv("STT_RELIABILITY_THRESHOLD", "invalid")
	os.Setenv("LLM_ENABLED", "invalid")
	os.Setenv("PREVIEW_TTL", "invalid")

	defer func() {
		os.Unsetenv("INTAKE_MAX_SIZE_BYTES")
		os.Unsetenv("INTAKE_MAX_DURATION_SEC")
		os.Unsetenv("STT_RELIABILITY_THRESHOLD")
		os.Unsetenv("LLM_ENABLED")
		os.Unsetenv("PREVIEW_TTL")
	}()

	cfg := Load()

	if cfg.Intake.MaxSizeBytes != 10*1024*1024 {
		t.Errorf("expected default max size on invalid input, got %d", cfg.Intake.MaxSizeBytes)
	}
	if cfg.Intake.MaxDurationSec != 120 {
		t.Errorf("expected default max duration on invalid input, got %v", cfg.Intake.MaxDurationSec)
	}
	if cfg.STT.ReliabilityThreshold != 0.7 {
		t.Errorf("expected default reliability threshold on invalid input, got %v", cfg.STT.ReliabilityThreshold)
	}
	if cfg.Extraction.LLMEnabled != false {
		t.Errorf("expected default LLM enabled on invalid input, got %v", cfg.Extraction.LLMEnabled)
	}
	if cfg.Preview.TTL != 24*time.Hour {
		t.Errorf("expected default preview TTL on invalid input, got %v", cfg.Preview.TTL)
	}
}

func TestLoad_KafkaPrincipal_FallsBackToServicePrincipal(t *testing.T) {
	os.Setenv("SERVICE_PRINCIPAL", "my-service")
	os.Unsetenv("KAFKA_PRINCIPAL")

	defer os.Unsetenv("SERVICE_PRINCIPAL")

	cfg := Load()

	if cfg.Kafka.Principal != "my-service" {
		t.Errorf("expected Kafka principal to fall back to service principal, got %s", cfg.Kafka.Principal)
	}
}

func TestEnvOrDefaultBool(t *testing.T) {
	tests := []struct {
		name     string
		envValue string
		def      bool
		expected bool
	}{
		{"true string", "true", false, true},
		{"false string", "false", true, false},
		{"1", "1", false, true},
		{"0", "0", true, false},
		{"TRUE uppercase", "TRUE", false, true},
		{"invalid", "invalid", true, true},
		{"empty", "", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := "TEST_BOOL_VAR"
			if tt.envValue != "" {
				os.Setenv(key, tt.envValue)
			} else {
				os.Unsetenv(key)
			}
			defer os.Unsetenv(key)

			got := envOrDefaultBool(key, tt.def)
			if got != tt.expected {
				t.Errorf("envOrDefaultBool(%s, %v) = %v, want %v", tt.envValue, tt.def, got, tt.expected)
			}
		})
	}
}
