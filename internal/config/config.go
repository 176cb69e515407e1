// Package config loads service configuration from the environment.
package config

import (
	"os"
	"strconv"
	"time"
)

// Configuration holds all runtime settings for the service.
type Configuration struct {
	Service       ServiceConfig
	Intake        IntakeConfig
	STT           STTConfig
	Extraction    ExtractionConfig
	Preview       PreviewConfig
	Kafka         KafkaConfig
	Observability ObservabilityConfig
}

// ServiceConfig identifies the service and its API listener.
type ServiceConfig struct {
	Principal string
	HTTPPort  string
}

// IntakeConfig bounds accepted audio uploads.
type IntakeConfig struct {
	MaxSizeBytes   int64
	MaxDurationSec float64
}

// STTConfig selects and tunes the speech-to-text provider.
type STTConfig struct {
	Provider             string // mock, google
	Language             string
	ReliabilityThreshold float64
}

// ExtractionConfig tunes semantic extraction.
type ExtractionConfig struct {
	ReconcilePolicy string // highest-confidence, prefer-llm, prefer-heuristic
	LLMEnabled      bool
	LLMAPIKey       string
	LLMModel        string
}

// PreviewConfig tunes task preview lifecycle.
type PreviewConfig struct {
	TTL time.Duration
}

// KafkaConfig configures event publishing.
type KafkaConfig struct {
	Enabled      bool
	Brokers      []string
	TopicPreview string
	TopicTask    string
	Principal    string
}

// ObservabilityConfig configures logging and the metrics listener.
type ObservabilityConfig struct {
	LogLevel string
	Port     string
}

// Load reads configuration from environment variables, falling back to
// defaults when a variable is unset or unparsable.
func Load() *Configuration {
	principal := envOrDefault("SERVICE_PRINCIPAL", "svc-voice-task")

	return &Configuration{
		Service: ServiceConfig{
			Principal: principal,
			HTTPPort:  envOrDefault("HTTP_PORT", "8080"),
		},
		Intake: IntakeConfig{
			MaxSizeBytes:   envOrDefaultInt64("INTAKE_MAX_SIZE_BYTES", 10*1024*1024),
			MaxDurationSec: envOrDefaultFloat("INTAKE_MAX_DURATION_SEC", 120),
		},
		STT: STTConfig{
			Provider:             envOrDefault("STT_PROVIDER", "mock"),
			Language:             envOrDefault("STT_LANGUAGE", "fr"),
			ReliabilityThreshold: envOrDefaultFloat("STT_RELIABILITY_THRESHOLD", 0.7),
		},
		Extraction: ExtractionConfig{
			ReconcilePolicy: envOrDefault("EXTRACTION_RECONCILE_POLICY", "highest-confidence"),
			LLMEnabled:      envOrDefaultBool("LLM_ENABLED", false),
			LLMAPIKey:       os.Getenv("ANTHROPIC_API_KEY"),
			LLMModel:        envOrDefault("LLM_MODEL", ""),
		},
		Preview: PreviewConfig{
			TTL: envOrDefaultDuration("PREVIEW_TTL", 24*time.Hour),
		},
		Kafka: KafkaConfig{
			Enabled:      envOrDefaultBool("KAFKA_ENABLED", false),
			Brokers:      []string{envOrDefault("KAFKA_BROKERS", "localhost:9092")},
			TopicPreview: envOrDefault("KAFKA_TOPIC_PREVIEW", "task.preview.created"),
			TopicTask:    envOrDefault("KAFKA_TOPIC_TASK", "task.generated"),
			Principal:    envOrDefault("KAFKA_PRINCIPAL", principal),
		},
		Observability: ObservabilityConfig{
			LogLevel: envOrDefault("LOG_LEVEL", "info"),
			Port:     envOrDefault("OBSERVABILITY_PORT", "9090"),
		},
	}
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}

func envOrDefaultInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			return parsed
		}
	}
	return def
}

func envOrDefaultFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			return parsed
		}
	}
	return def
}

func envOrDefaultDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return def
}
