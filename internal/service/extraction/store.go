package extraction

import "voice-task-service/internal/models"

// Store indexes extraction jobs by ID. Immutable: transitions return a
// new Store value, terminal jobs are never mutated.
type Store struct {
	jobs map[string]models.ExtractionJob
}

// NewStore creates an empty extraction store.
func NewStore() Store {
	return Store{jobs: map[string]models.ExtractionJob{}}
}

func (s Store) clone() Store {
	next := Store{jobs: make(map[string]models.ExtractionJob, len(s.jobs))}
	for id, job := range s.jobs {
		next.jobs[id] = job
	}
	return next
}

// Get returns the job for the given extraction ID, or nil if unknown.
func (s Store) Get(extractionID string) *models.ExtractionJob {
	job, ok := s.jobs[extractionID]
	if !ok {
		return nil
	}
	return &job
}

// Start creates a pending extraction job over a completed transcription.
// Duplicate IDs are a no-op.
func Start(s Store, extractionID, transcriptionID string) Store {
	if _, exists := s.jobs[extractionID]; exists {
		return s
	}
	next := s.clone()
	next.jobs[extractionID] = models.ExtractionJob{
		ExtractionID:    extractionID,
		TranscriptionID: transcriptionID,
		Status:          models.JobPending,
	}
	return next
}

// Complete transitions a pending job to completed with its result. No-op
// for unknown IDs, terminal jobs, and nil results.
func Complete(s Store, extractionID string, result *models.ExtractionResult) Store {
	job, ok := s.jobs[extractionID]
	if !ok || job.Status.IsTerminal() || result == nil {
		return s
	}
	next := s.clone()
	job.Status = models.JobCompleted
	job.Result = result
	next.jobs[extractionID] = job
	return next
}

// Fail transitions a pending job to failed with a reason. No-op for
// unknown IDs and terminal jobs.
func Fail(s Store, extractionID, reason string) Store {
	job, ok := s.jobs[extractionID]
	if !ok || job.Status.IsTerminal() {
		return s
	}
	next := s.clone()
	job.Status = models.JobFailed
	job.FailureReason = reason
	next.jobs[extractionID] = job
	return next
}
