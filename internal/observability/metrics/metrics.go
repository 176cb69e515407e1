// Package metrics provides Prometheus metrics for observability.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "voice_task"

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	// Upload metrics
	UploadsTotal    prometheus.Counter
	UploadsActive   prometheus.Gauge
	UploadsFailed   prometheus.Counter
	ChunksReceived  prometheus.Counter
	AudioBytesTotal prometheus.Counter

	// Pipeline metrics
	PipelineRuns     prometheus.Counter
	PipelineDuration prometheus.Histogram
	NeedsReview      *prometheus.CounterVec

	// Transcription metrics
	TranscriptionsCompleted prometheus.Counter
	TranscriptionsFailed    prometheus.Counter
	TranscriptionLatency    *prometheus.HistogramVec
	STTErrors               *prometheus.CounterVec

	// Extraction metrics
	ExtractionsCompleted prometheus.Counter
	ExtractionConfidence prometheus.Histogram
	LLMErrors            prometheus.Counter

	// Preview metrics
	PreviewsCreated   prometheus.Counter
	PreviewsConfirmed prometheus.Counter
	PreviewsCancelled prometheus.Counter
	PreviewsExpired   prometheus.Counter

	// Kafka publish metrics
	KafkaPublishTotal   *prometheus.CounterVec
	KafkaPublishErrors  *prometheus.CounterVec
	KafkaPublishLatency *prometheus.HistogramVec
}

// DefaultMetrics is the global metrics instance.
var DefaultMetrics = NewMetrics()

// NewMetrics creates and registers all Prometheus metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		// Upload metrics
		UploadsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploads_total",
			Help:      "Total number of upload sessions initialized",
		}),
		UploadsActive: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "uploads_active",
			Help:      "Number of upload sessions not yet assembled or failed",
		}),
		UploadsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploads_failed_total",
			Help:      "Total number of upload sessions marked failed",
		}),
		ChunksReceived: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chunks_received_total",
			Help:      "Total number of audio chunks received",
		}),
		AudioBytesTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audio_bytes_total",
			Help:      "Total audio bytes received across all uploads",
		}),

		// Pipeline metrics
		PipelineRuns: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pipeline_runs_total",
			Help:      "Total number of voice memo pipeline executions",
		}),
		PipelineDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pipeline_duration_seconds",
			Help:      "End to end pipeline duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		}),
		NeedsReview: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "needs_review_total",
			Help:      "Total number of memos routed to manual review",
		}, []string{"reason"}),

		// Transcription metrics
		TranscriptionsCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transcriptions_completed_total",
			Help:      "Total number of completed transcription jobs",
		}),
		TranscriptionsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transcriptions_failed_total",
			Help:      "Total number of failed transcription jobs",
		}),
		TranscriptionLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "transcription_latency_seconds",
			Help:      "Speech-to-text processing latency in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		}, []string{"provider"}),
		STTErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stt_errors_total",
			Help:      "Total number of STT errors",
		}, []string{"provider", "error_type"}),

		// Extraction metrics
		ExtractionsCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "extractions_completed_total",
			Help:      "Total number of completed extraction jobs",
		}),
		ExtractionConfidence: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "extraction_confidence",
			Help:      "Minimum facet confidence per extraction",
			Buckets:   []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1},
		}),
		LLMErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "llm_errors_total",
			Help:      "Total number of LLM analysis errors",
		}),

		// Preview metrics
		PreviewsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "previews_created_total",
			Help:      "Total number of task previews created",
		}),
		PreviewsConfirmed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "previews_confirmed_total",
			Help:      "Total number of task previews confirmed",
		}),
		PreviewsCancelled: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "previews_cancelled_total",
			Help:      "Total number of task previews cancelled",
		}),
		PreviewsExpired: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "previews_expired_total",
			Help:      "Total number of task previews expired",
		}),

		// Kafka publish metrics
		KafkaPublishTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kafka_publish_total",
			Help:      "Total number of Kafka messages published",
		}, []string{"topic", "event_type"}),
		KafkaPublishErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kafka_publish_errors_total",
			Help:      "Total number of Kafka publish errors",
		}, []string{"topic", "event_type"}),
		KafkaPublishLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "kafka_publish_latency_seconds",
			Help:      "Kafka publish latency in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"topic"}),
	}
}

// RecordUploadStart records a new upload session being initialized.
func (m *Metrics) RecordUploadStart() {
	m.UploadsTotal.Inc()
	m.UploadsActive.Inc()
}

// RecordUploadEnd records an upload session reaching a terminal state.
func (m *Metrics) RecordUploadEnd(success bool) {
	m.UploadsActive.Dec()
	if !success {
		m.UploadsFailed.Inc()
	}
}

// RecordChunk records an audio chunk received.
func (m *Metrics) RecordChunk(bytes int) {
	m.ChunksReceived.Inc()
	m.AudioBytesTotal.Add(float64(bytes))
}

// RecordPipelineRun records a full pipeline execution.
func (m *Metrics) RecordPipelineRun(durationSeconds float64) {
	m.PipelineRuns.Inc()
	m.PipelineDuration.Observe(durationSeconds)
}

// RecordNeedsReview records a memo routed to manual review.
func (m *Metrics) RecordNeedsReview(reason string) {
	m.NeedsReview.WithLabelValues(reason).Inc()
}

// RecordTranscription records a transcription attempt outcome.
func (m *Metrics) RecordTranscription(provider string, err error, latencySeconds float64) {
	m.TranscriptionLatency.WithLabelValues(provider).Observe(latencySeconds)
	if err != nil {
		m.TranscriptionsFailed.Inc()
		return
	}
	m.TranscriptionsCompleted.Inc()
}

// RecordSTTError records an STT error.
func (m *Metrics) RecordSTTError(provider, errorType string) {
	m.STTErrors.WithLabelValues(provider, errorType).Inc()
}

// RecordExtraction records a completed extraction and its weakest facet.
func (m *Metrics) RecordExtraction(minConfidence float64) {
	m.ExtractionsCompleted.Inc()
	m.ExtractionConfidence.Observe(minConfidence)
}

// RecordLLMError records a failed LLM analysis call.
func (m *Metrics) RecordLLMError() {
	m.LLMErrors.Inc()
}

// RecordPreviewCreated records a task preview being created.
func (m *Metrics) RecordPreviewCreated() {
	m.PreviewsCreated.Inc()
}

// RecordPreviewConfirmed records a task preview being confirmed.
func (m *Metrics) RecordPreviewConfirmed() {
	m.PreviewsConfirmed.Inc()
}

// RecordPreviewCancelled records a task preview being cancelled.
func (m *Metrics) RecordPreviewCancelled() {
	m.PreviewsCancelled.Inc()
}

// RecordPreviewExpired records a task preview expiring unconfirmed.
func (m *Metrics) RecordPreviewExpired() {
	m.PreviewsExpired.Inc()
}

// RecordKafkaPublish records a Kafka publish attempt.
func (m *Metrics) RecordKafkaPublish(topic, eventType string, err error, latencySeconds float64) {
	m.KafkaPublishTotal.WithLabelValues(topic, eventType).Inc()
	m.KafkaPublishLatency.WithLabelValues(topic).Observe(latencySeconds)
	if err != nil {
		m.KafkaPublishErrors.WithLabelValues(topic, eventType).Inc()
	}
}
