package events

import (
	"time"

	"voice-task-service/internal/models"
)

// PreviewCreated is emitted on the preview topic whenever the pipeline
// produces a new task preview. NeedsReview flags previews whose
// transcription or extraction confidence fell below threshold.
type PreviewCreated struct {
	EventID      string             `json:"eventId"`
	OccurredAt   time.Time          `json:"occurredAt"`
	Preview      models.TaskPreview `json:"preview"`
	NeedsReview  bool               `json:"needsReview"`
	ReviewReason string             `json:"reviewReason,omitempty"`
}

// TaskGenerated is emitted on the task topic when a preview is
// confirmed, carrying the full task snapshot for downstream persistence.
type TaskGenerated struct {
	EventID    string               `json:"eventId"`
	OccurredAt time.Time            `json:"occurredAt"`
	Task       models.GeneratedTask `json:"task"`
}
