// Package transcription tracks the lifecycle of transcription jobs issued
// to the speech-to-text capability and assesses result quality.
//
// Lifecycle:
//
//	pending -> completed | failed
//
// Both completed and failed are terminal; further transitions are no-ops.
// The orchestrator owns timeout/retry policy, this package only records
// the transitions it is told about.
package transcription

import "voice-task-service/internal/models"

// Store indexes transcription jobs by ID and keeps a running count of
// completed jobs. Immutable: transitions return a new Store value.
type Store struct {
	jobs           map[string]models.TranscriptionJob
	completedCount int
}

// NewStore creates an empty transcription store.
func NewStore() Store {
	return Store{jobs: map[string]models.TranscriptionJob{}}
}

func (s Store) clone() Store {
	next := Store{
		jobs:           make(map[string]models.TranscriptionJob, len(s.jobs)),
		completedCount: s.completedCount,
	}
	for id, job := range s.jobs {
		next.jobs[id] = job
	}
	return next
}

// Get returns the job for the given transcription ID, or nil if unknown.
func (s Store) Get(transcriptionID string) *models.TranscriptionJob {
	job, ok := s.jobs[transcriptionID]
	if !ok {
		return nil
	}
	return &job
}

// CompletedCount returns the number of jobs completed in this store.
func (s Store) CompletedCount() int {
	return s.completedCount
}

// Start creates a pending job bound to an assembled upload ID. Duplicate
// transcription IDs are a no-op.
func Start(s Store, transcriptionID, uploadID, language string) Store {
	if _, exists := s.jobs[transcriptionID]; exists {
		return s
	}
	next := s.clone()
	next.jobs[transcriptionID] = models.TranscriptionJob{
		TranscriptionID: transcriptionID,
		UploadID:        uploadID,
		Language:        NormalizeLanguage(language),
		Status:          models.JobPending,
	}
	return next
}

// Complete transitions a pending job to completed and attaches the result.
// No-op for unknown IDs, terminal jobs, and nil results (completed always
// implies a non-nil result).
func Complete(s Store, transcriptionID string, result *models.TranscriptionResult) Store {
	job, ok := s.jobs[transcriptionID]
	if !ok || job.Status.IsTerminal() || result == nil {
		return s
	}
	next := s.clone()
	job.Status = models.JobCompleted
	job.Result = result
	next.jobs[transcriptionID] = job
	next.completedCount++
	return next
}

// Fail transitions a pending job to failed with a reason. No-op for
// unknown IDs and terminal jobs.
func Fail(s Store, transcriptionID, reason string) Store {
	job, ok := s.jobs[transcriptionID]
	if !ok || job.Status.IsTerminal() {
		return s
	}
	next := s.clone()
	job.Status = models.JobFailed
	job.FailureReason = reason
	next.jobs[transcriptionID] = job
	return next
}
