package models

// JobStatus represents the lifecycle stage of a transcription or extraction job.
type JobStatus string

const (
	JobPending   JobStatus = "pending"
	JobCompleted JobStatus = "completed"
	JobFailed    JobStatus = "failed"
)

// IsTerminal returns true if the job reached a final state.
// Terminal jobs must not be mutated; model a new job instead.
func (s JobStatus) IsTerminal() bool {
	return s == JobCompleted || s == JobFailed
}

// WordSpan is a single word-level transcript span with timing and confidence.
type WordSpan struct {
	Word       string  `json:"word"`
	StartSec   float64 `json:"startSec"`
	EndSec     float64 `json:"endSec"`
	Confidence float64 `json:"confidence"`
}

// TranscriptionResult is the completed output of a speech-to-text request.
type TranscriptionResult struct {
	Text        string     `json:"text"`
	Language    string     `json:"language"`
	Confidence  float64    `json:"confidence"`
	DurationSec float64    `json:"durationSec"`
	Words       []WordSpan `json:"words,omitempty"`
}

// TranscriptionJob tracks one transcription request issued to the
// speech-to-text capability. Completed implies a non-nil Result.
type TranscriptionJob struct {
	TranscriptionID string               `json:"transcriptionId"`
	UploadID        string               `json:"uploadId"`
	Language        string               `json:"language"`
	Status          JobStatus            `json:"status"`
	Result          *TranscriptionResult `json:"result,omitempty"`
	FailureReason   string               `json:"failureReason,omitempty"`
}
