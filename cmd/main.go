package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"voice-task-service/internal/app"
	"voice-task-service/internal/config"
	"voice-task-service/internal/directory"
	"voice-task-service/internal/events"
	apihttp "voice-task-service/internal/http"
	"voice-task-service/internal/observability"
	"voice-task-service/internal/observability/logging"
	"voice-task-service/internal/service/extraction"
	"voice-task-service/internal/service/intake"
	"voice-task-service/internal/service/llm"
	"voice-task-service/internal/service/pipeline"
	"voice-task-service/internal/service/stt"
	sttgoogle "voice-task-service/internal/service/stt/google"
	sttmock "voice-task-service/internal/service/stt/mock"
)

// expirySweepInterval is how often lazily-expired previews are tidied.
const expirySweepInterval = 10 * time.Minute

func main() {
	cfg := config.Load()

	application := app.New(cfg)
	if err := application.Start(); err != nil {
		log.Fatal().Err(err).Msg("Application startup failed")
	}
	defer application.Shutdown()

	logging.Init(logging.Config{
		Level:      cfg.Observability.LogLevel,
		Format:     os.Getenv("LOG_FORMAT"),
		TimeFormat: time.RFC3339,
	})

	// Kafka publisher with separate topics for previews and generated tasks
	publisher := events.New(&events.Config{
		Enabled:      cfg.Kafka.Enabled,
		Brokers:      cfg.Kafka.Brokers,
		TopicPreview: cfg.Kafka.TopicPreview,
		TopicTask:    cfg.Kafka.TopicTask,
		Principal:    cfg.Kafka.Principal,
	})
	defer publisher.Close()

	recognizer := newRecognizer(cfg)
	analyzer := newAnalyzer(cfg)

	dir := directory.NewSeeded()
	if path := os.Getenv("DIRECTORY_FILE"); path != "" {
		loaded, err := directory.LoadFile(path)
		if err != nil {
			log.Fatal().Err(err).Str("path", path).Msg("Failed to load household directory")
		}
		dir = loaded
	}

	limits := intake.DefaultLimits()
	limits.MaxSizeBytes = cfg.Intake.MaxSizeBytes
	limits.MaxDurationSeconds = cfg.Intake.MaxDurationSec

	orchestrator := pipeline.New(pipeline.Config{
		Limits:               limits,
		Language:             cfg.STT.Language,
		Provider:             cfg.STT.Provider,
		ReliabilityThreshold: cfg.STT.ReliabilityThreshold,
		ReconcilePolicy:      extraction.ReconcilePolicy(cfg.Extraction.ReconcilePolicy),
		PreviewTTL:           cfg.Preview.TTL,
	}, recognizer, analyzer, publisher, dir)

	// Periodic sweep for previews past their TTL
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go runExpirySweep(sweepCtx, orchestrator)

	obsServer := observability.NewServer(":" + cfg.Observability.Port)
	obsServer.Start()

	apiServer := &http.Server{
		Addr:         ":" + cfg.Service.HTTPPort,
		Handler:      apihttp.NewRouter(orchestrator),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	go func() {
		log.Info().Str("port", cfg.Service.HTTPPort).Msg("Voice task service API started")
		if err := apiServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("API server failed")
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("API server shutdown error")
	}
	if err := obsServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Observability server shutdown error")
	}
}

func newRecognizer(cfg *config.Configuration) stt.Recognizer {
	switch cfg.STT.Provider {
	case "google":
		recognizer, err := sttgoogle.New(context.Background())
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create Google STT adapter")
		}
		return recognizer
	default:
		log.Info().Msg("Using mock STT adapter")
		return sttmock.New()
	}
}

func newAnalyzer(cfg *config.Configuration) llm.Analyzer {
	if !cfg.Extraction.LLMEnabled || cfg.Extraction.LLMAPIKey == "" {
		log.Info().Msg("LLM refinement disabled, running heuristics only")
		return llm.Disabled{}
	}
	return llm.NewAnthropic(cfg.Extraction.LLMAPIKey, cfg.Extraction.LLMModel)
}

func runExpirySweep(ctx context.Context, orchestrator *pipeline.Orchestrator) {
	ticker := time.NewTicker(expirySweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if expired := orchestrator.ExpirePreviews(); expired > 0 {
				log.Info().Int("count", expired).Msg("Expired stale task previews")
			}
		}
	}
}
