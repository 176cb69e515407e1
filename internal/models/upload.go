// Package models defines the data structures shared by the pipeline stages.
package models

// UploadStatus represents the lifecycle stage of an audio upload session.
type UploadStatus string

const (
	UploadPending    UploadStatus = "pending"
	UploadAssembling UploadStatus = "assembling"
	UploadAssembled  UploadStatus = "assembled"
	UploadFailed     UploadStatus = "failed"
)

// IsTerminal returns true if the upload reached a final state.
func (s UploadStatus) IsTerminal() bool {
	return s == UploadAssembled || s == UploadFailed
}

// AudioChunk is one sequence-indexed fragment of an audio upload.
type AudioChunk struct {
	SequenceIndex int    `json:"sequenceIndex"`
	Data          []byte `json:"data"`
}

// UploadSession tracks one in-progress chunked audio upload.
// Chunks are reassembled strictly in ascending sequence-index order.
type UploadSession struct {
	UploadID  string       `json:"uploadId"`
	MediaType string       `json:"mediaType"`
	Chunks    []AudioChunk `json:"chunks"`
	Status    UploadStatus `json:"status"`
}

// TotalBytes returns the accumulated size of all received chunks.
func (s UploadSession) TotalBytes() int64 {
	var total int64
	for _, c := range s.Chunks {
		total += int64(len(c.Data))
	}
	return total
}
