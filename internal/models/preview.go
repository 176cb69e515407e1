package models

import "time"

// PreviewStatus represents the lifecycle stage of a task preview.
type PreviewStatus string

const (
	PreviewPending   PreviewStatus = "pending"
	PreviewConfirmed PreviewStatus = "confirmed"
	PreviewCancelled PreviewStatus = "cancelled"
	PreviewExpired   PreviewStatus = "expired"
)

// IsTerminal returns true if the preview reached a final state.
func (s PreviewStatus) IsTerminal() bool {
	return s == PreviewConfirmed || s == PreviewCancelled || s == PreviewExpired
}

// WeightFactor records one contribution to a charge weight, for explainability.
type WeightFactor struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// ChargeWeight estimates the household load a task represents.
type ChargeWeight struct {
	Base       float64        `json:"base"`
	Multiplier float64        `json:"multiplier"`
	Total      float64        `json:"total"`
	Factors    []WeightFactor `json:"factors"`
}

// AssigneeCandidate is one ranked suggestion for who should take a task.
type AssigneeCandidate struct {
	MemberID string  `json:"memberId"`
	Score    float64 `json:"score"`
}

// TaskPreview is a not-yet-committed task proposal awaiting confirmation.
type TaskPreview struct {
	PreviewID        string              `json:"previewId"`
	HouseholdID      string              `json:"householdId"`
	ExtractionID     string              `json:"extractionId"`
	Title            string              `json:"title"`
	Description      string              `json:"description"`
	Category         Category            `json:"category"`
	Priority         Urgency             `json:"priority"`
	DueDate          *time.Time          `json:"dueDate,omitempty"`
	EstimatedMinutes int                 `json:"estimatedMinutes"`
	Weight           ChargeWeight        `json:"weight"`
	Suggested        []AssigneeCandidate `json:"suggested"`
	ChildID          *string             `json:"childId,omitempty"`
	Recurrence       string              `json:"recurrence,omitempty"`
	Status           PreviewStatus       `json:"status"`
	Confidence       float64             `json:"confidence"`
	CreatedAt        time.Time           `json:"createdAt"`
	ExpiresAt        time.Time           `json:"expiresAt"`
}

// ExpiredAt reports whether the preview should be treated as expired at
// the given instant, even if no explicit transition has been recorded.
func (p TaskPreview) ExpiredAt(now time.Time) bool {
	return p.Status == PreviewExpired || (p.Status == PreviewPending && now.After(p.ExpiresAt))
}

// GeneratedTask is the snapshot materialized when a preview is confirmed.
type GeneratedTask struct {
	TaskID           string       `json:"taskId"`
	PreviewID        string       `json:"previewId"`
	HouseholdID      string       `json:"householdId"`
	AssigneeID       string       `json:"assigneeId"`
	Title            string       `json:"title"`
	Description      string       `json:"description"`
	Category         Category     `json:"category"`
	Priority         Urgency      `json:"priority"`
	DueDate          *time.Time   `json:"dueDate,omitempty"`
	EstimatedMinutes int          `json:"estimatedMinutes"`
	Weight           ChargeWeight `json:"weight"`
	ChildID          *string      `json:"childId,omitempty"`
	ConfirmedAt      time.Time    `json:"confirmedAt"`
}
