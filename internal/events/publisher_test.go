package events

import (
	"context"
	"testing"
)

func TestNew_DisabledMode(t *testing.T) {
	tests := []struct {
		name string
		cfg  *Config
	}{
		{"disabled", &Config{Enabled: false, Brokers: []string{"localhost:9092"}}},
		{"no brokers", &Config{Enabled: true, Brokers: []string{}}},
		{"nil brokers", &Config{Enabled: true, Brokers: nil}},
		{"nil config", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(tt.cfg)
			if p == nil {
				t.Fatal("expected non-nil publisher")
			}
			if p.enabled {
				t.Error("expected publisher to be disabled")
			}
			if p.writerPreview != nil {
				t.Error("expected nil preview writer when disabled")
			}
			if p.writerTask != nil {
				t.Error("expected nil task writer when disabled")
			}
		})
	}
}

func TestNew_ConfigValues(t *testing.T) {
	cfg := &Config{
		Enabled:      false,
		Brokers:      []string{"localhost:9092"},
		TopicPreview: "test.preview",
		TopicTask:    "test.task",
		Principal:    "test-principal",
	}

	p := New(cfg)

	if p.principal != "test-principal" {
		t.Errorf("expected principal 'test-principal', got %s", p.principal)
	}
	if p.topicPreview != "test.preview" {
		t.Errorf("expected topic preview 'test.preview', got %s", p.topicPreview)
	}
	if p.topicTask != "test.task" {
		t.Errorf("expected topic task 'test.task', got %s", p.topicTask)
	}
}

func TestPublisher_Publish_Disabled(t *testing.T) {
	p := New(&Config{Enabled: false})

	if err := p.PublishPreview(context.Background(), "h1", map[string]string{"title": "test"}); err != nil {
		t.Errorf("expected no error when disabled, got %v", err)
	}
	if err := p.PublishTask(context.Background(), "h1", map[string]string{"title": "test"}); err != nil {
		t.Errorf("expected no error when disabled, got %v", err)
	}
}

func TestPublisher_Publish_InvalidJSON(t *testing.T) {
	p := New(&Config{Enabled: false})

	// Channels are not marshalable
	event := make(chan int)
	if err := p.PublishPreview(context.Background(), "h1", event); err == nil {
		t.Error("expected error for unmarshalable event")
	}
	if err := p.PublishTask(context.Background(), "h1", event); err == nil {
		t.Error("expected error for unmarshalable event")
	}
}

func TestPublisher_Close_NoWriters(t *testing.T) {
	p := New(&Config{Enabled: false})

	if err := p.Close(); err != nil {
		t.Errorf("expected no error closing disabled publisher, got %v", err)
	}
}

type previewEvent struct {
	EventType   string `json:"eventType"`
	HouseholdID string `json:"householdId"`
	Title       string `json:"title"`
}

func TestPublisher_PublishPreview_ValidEvent(t *testing.T) {
	p := New(&Config{
		Enabled:      false,
		TopicPreview: "test.preview",
		Principal:    "test-svc",
	})

	event := previewEvent{
		EventType:   "task.preview.created",
		HouseholdID: "h1",
		Title:       "Emmener Lucas au football",
	}

	if err := p.PublishPreview(context.Background(), "h1", event); err != nil {
		t.Errorf("expected no error, got %v", err)
	}
}
