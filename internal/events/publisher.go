// Package events publishes pipeline outcomes to Kafka.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"

	"voice-task-service/internal/observability/metrics"
)

// Publisher publishes preview and task events to separate Kafka topics.
type Publisher struct {
	writerPreview *kafka.Writer
	writerTask    *kafka.Writer
	principal     string
	topicPreview  string
	topicTask     string
	enabled       bool
	metrics       *metrics.Metrics
}

// Config holds Kafka publisher configuration.
type Config struct {
	Brokers      []string
	TopicPreview string
	TopicTask    string
	Principal    string
	Enabled      bool
}

// New creates a new Kafka publisher with separate topics for task
// previews and generated tasks. With Kafka disabled or unconfigured the
// publisher runs in log-only mode.
func New(cfg *Config) *Publisher {
	m := metrics.DefaultMetrics

	if cfg == nil {
		log.Info().Msg("Kafka disabled (nil config), using log-only mode")
		return &Publisher{
			enabled: false,
			metrics: m,
		}
	}

	if !cfg.Enabled || len(cfg.Brokers) == 0 {
		log.Info().Msg("Kafka disabled, using log-only mode")
		return &Publisher{
			principal:    cfg.Principal,
			topicPreview: cfg.TopicPreview,
			topicTask:    cfg.TopicTask,
			enabled:      false,
			metrics:      m,
		}
	}

	// Custom dialer with longer timeouts for DNS resolution in Kubernetes
	dialer := &kafka.Dialer{
		Timeout:   10 * time.Second,
		DualStack: true,
	}

	transport := &kafka.Transport{
		Dial: dialer.DialFunc,
	}

	writerPreview := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.TopicPreview,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
		RequiredAcks: kafka.RequireOne,
		Transport:    transport,
	}

	writerTask := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.TopicTask,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
		RequiredAcks: kafka.RequireOne,
		Transport:    transport,
	}

	log.Info().
		Strs("brokers", cfg.Brokers).
		Str("topicPreview", cfg.TopicPreview).
		Str("topicTask", cfg.TopicTask).
		Str("principal", cfg.Principal).
		Msg("Kafka publisher initialized")

	return &Publisher{
		writerPreview: writerPreview,
		writerTask:    writerTask,
		principal:     cfg.Principal,
		topicPreview:  cfg.TopicPreview,
		topicTask:     cfg.TopicTask,
		enabled:       true,
		metrics:       m,
	}
}

// PublishPreview publishes a preview lifecycle event (created, needs
// review, cancelled) to the preview topic, keyed by household ID.
func (p *Publisher) PublishPreview(ctx context.Context, key string, event any) error {
	return p.publish(ctx, p.writerPreview, p.topicPreview, "preview", key, event)
}

// PublishTask publishes a confirmed GeneratedTask snapshot to the task
// topic for the downstream task-persistence layer.
func (p *Publisher) PublishTask(ctx context.Context, key string, event any) error {
	return p.publish(ctx, p.writerTask, p.topicTask, "task", key, event)
}

func (p *Publisher) publish(ctx context.Context, writer *kafka.Writer, topic, eventType, key string, event any) error {
	start := time.Now()

	payload, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("topic", topic).Msg("Failed to marshal event")
		return err
	}

	log.Debug().
		Str("principal", p.principal).
		Str("topic", topic).
		Str("key", key).
		RawJSON("payload", payload).
		Msg("Publishing event")

	// If Kafka is disabled, just log
	if !p.enabled || writer == nil {
		p.metrics.RecordKafkaPublish(topic, eventType, nil, time.Since(start).Seconds())
		return nil
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "eventType", Value: []byte(topic)},
			{Key: "principal", Value: []byte(p.principal)},
		},
	}

	if err := writer.WriteMessages(ctx, msg); err != nil {
		log.Error().
			Err(err).
			Str("topic", topic).
			Str("key", key).
			Msg("Failed to write to Kafka")
		p.metrics.RecordKafkaPublish(topic, eventType, err, time.Since(start).Seconds())
		return err
	}

	p.metrics.RecordKafkaPublish(topic, eventType, nil, time.Since(start).Seconds())
	return nil
}

// Close closes both Kafka writers.
func (p *Publisher) Close() error {
	var err error
	if p.writerPreview != nil {
		if e := p.writerPreview.Close(); e != nil {
			log.Error().Err(e).Msg("Error closing preview writer")
			err = e
		}
	}
	if p.writerTask != nil {
		if e := p.writerTask.Close(); e != nil {
			log.Error().Err(e).Msg("Error closing task writer")
			err = e
		}
	}
	return err
}
