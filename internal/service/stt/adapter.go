// Package stt defines the interface for speech-to-text providers.
package stt

import (
	"context"

	"voice-task-service/internal/models"
)

// Recognizer transcribes one assembled voice memo. Implementations exist
// for Google Cloud Speech-to-Text and a mock provider for tests and
// credential-less runs.
type Recognizer interface {
	// Transcribe runs speech recognition over the assembled audio bytes.
	// The declared language is a hint; the result carries the language
	// actually used. Implementations must respect ctx cancellation.
	Transcribe(ctx context.Context, audio []byte, language string) (*models.TranscriptionResult, error)
}
