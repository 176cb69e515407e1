package preview

import (
	"sort"
	"time"

	"voice-task-service/internal/models"
)

// Store indexes task previews and the tasks generated from them.
// Immutable: transitions return a new Store value. Expiry is lazy: a
// pending preview past its ExpiresAt is treated as expired by readers
// even if no transition has been recorded.
type Store struct {
	previews map[string]models.TaskPreview
	tasks    map[string]models.GeneratedTask // keyed by preview ID, one per confirmation
}

// NewStore creates an empty preview store.
func NewStore() Store {
	return Store{
		previews: map[string]models.TaskPreview{},
		tasks:    map[string]models.GeneratedTask{},
	}
}

func (s Store) clone() Store {
	next := Store{
		previews: make(map[string]models.TaskPreview, len(s.previews)),
		tasks:    make(map[string]models.GeneratedTask, len(s.tasks)),
	}
	for id, p := range s.previews {
		next.previews[id] = p
	}
	for id, t := range s.tasks {
		next.tasks[id] = t
	}
	return next
}

// Get returns the preview for the given ID, or nil if unknown.
func (s Store) Get(previewID string) *models.TaskPreview {
	p, ok := s.previews[previewID]
	if !ok {
		return nil
	}
	return &p
}

// All returns every stored preview in unspecified order.
func (s Store) All() []models.TaskPreview {
	out := make([]models.TaskPreview, 0, len(s.previews))
	for _, p := range s.previews {
		out = append(out, p)
	}
	return out
}

// TaskFor returns the generated task for a confirmed preview, or nil.
func (s Store) TaskFor(previewID string) *models.GeneratedTask {
	t, ok := s.tasks[previewID]
	if !ok {
		return nil
	}
	return &t
}

// Add inserts a new preview. Duplicate preview IDs are a no-op.
func Add(s Store, p models.TaskPreview) Store {
	if _, exists := s.previews[p.PreviewID]; exists {
		return s
	}
	next := s.clone()
	next.previews[p.PreviewID] = p
	return next
}

// Update describes a partial edit to a pending preview. Nil fields are
// left untouched.
type Update struct {
	Title            *string
	Description      *string
	Category         *models.Category
	Priority         *models.Urgency
	DueDate          *time.Time
	EstimatedMinutes *int
	ChildID          *string
	Recurrence       *string
}

// UpdatePreview applies a partial edit to a preview. Permitted only
// while the preview is pending and unexpired; otherwise a no-op. Edits
// touching category, priority or duration recompute the charge weight.
func UpdatePreview(s Store, previewID string, u Update, now time.Time) Store {
	p, ok := s.previews[previewID]
	if !ok || p.Status != models.PreviewPending || p.ExpiredAt(now) {
		return s
	}

	reweigh := false
	if u.Title != nil {
		p.Title = *u.Title
	}
	if u.Description != nil {
		p.Description = *u.Description
	}
	if u.Category != nil {
		p.Category = *u.Category
		reweigh = true
	}
	if u.Priority != nil {
		p.Priority = *u.Priority
		reweigh = true
	}
	if u.DueDate != nil {
		d := *u.DueDate
		p.DueDate = &d
	}
	if u.EstimatedMinutes != nil {
		p.EstimatedMinutes = *u.EstimatedMinutes
		reweigh = true
	}
	if u.ChildID != nil {
		id := *u.ChildID
		p.ChildID = &id
	}
	if u.Recurrence != nil {
		p.Recurrence = *u.Recurrence
	}
	if reweigh {
		p.Weight = CalculateChargeWeight(p.Category, p.Priority, p.EstimatedMinutes)
	}

	next := s.clone()
	next.previews[previewID] = p
	return next
}

// PendingForHousehold returns the household's pending previews, excluding
// expired-but-unmarked ones, ordered by creation time.
func PendingForHousehold(s Store, householdID string, now time.Time) []models.TaskPreview {
	var pending []models.TaskPreview
	for _, p := range s.previews {
		if p.HouseholdID != householdID || p.Status != models.PreviewPending {
			continue
		}
		if p.ExpiredAt(now) {
			continue
		}
		pending = append(pending, p)
	}
	sort.Slice(pending, func(i, j int) bool {
		return pending[i].CreatedAt.Before(pending[j].CreatedAt)
	})
	return pending
}

// ConfirmedTasks returns the household's generated tasks, ordered by
// confirmation time.
func ConfirmedTasks(s Store, householdID string) []models.GeneratedTask {
	var tasks []models.GeneratedTask
	for _, t := range s.tasks {
		if t.HouseholdID == householdID {
			tasks = append(tasks, t)
		}
	}
	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].ConfirmedAt.Before(tasks[j].ConfirmedAt)
	})
	return tasks
}

// Confirm transitions a pending preview to confirmed and materializes
// exactly one GeneratedTask snapshot under the caller-supplied task ID.
// Terminal previews (including lazily expired ones) are a no-op, so
// retries and duplicate messages never create a second task.
func Confirm(s Store, previewID, assigneeID, taskID string, now time.Time) Store {
	p, ok := s.previews[previewID]
	if !ok || p.Status != models.PreviewPending || p.ExpiredAt(now) {
		return s
	}

	next := s.clone()
	p.Status = models.PreviewConfirmed
	next.previews[previewID] = p
	next.tasks[previewID] = models.GeneratedTask{
		TaskID:           taskID,
		PreviewID:        p.PreviewID,
		HouseholdID:      p.HouseholdID,
		AssigneeID:       assigneeID,
		Title:            p.Title,
		Description:      p.Description,
		Category:         p.Category,
		Priority:         p.Priority,
		DueDate:          p.DueDate,
		EstimatedMinutes: p.EstimatedMinutes,
		Weight:           p.Weight,
		ChildID:          p.ChildID,
		ConfirmedAt:      now,
	}
	return next
}

// Cancel transitions a pending preview to cancelled. Terminal previews
// are a no-op.
func Cancel(s Store, previewID string, now time.Time) Store {
	p, ok := s.previews[previewID]
	if !ok || p.Status != models.PreviewPending || p.ExpiredAt(now) {
		return s
	}
	next := s.clone()
	p.Status = models.PreviewCancelled
	next.previews[previewID] = p
	return next
}

// ExpireDue explicitly marks lazily-expired previews. Readers already
// exclude them, so this sweep only tidies the stored status.
func ExpireDue(s Store, now time.Time) Store {
	var due []string
	for id, p := range s.previews {
		if p.Status == models.PreviewPending && p.ExpiredAt(now) {
			due = append(due, id)
		}
	}
	if len(due) == 0 {
		return s
	}
	next := s.clone()
	for _, id := range due {
		p := next.previews[id]
		p.Status = models.PreviewExpired
		next.previews[id] = p
	}
	return next
}
