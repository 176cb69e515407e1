package intake

import (
	"errors"
	"fmt"
)

// Validation errors, each a distinct failure reason.
var (
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrAudioTooLarge        = errors.New("audio exceeds maximum size")
	ErrAudioTooLong         = errors.New("audio exceeds maximum duration")
)

// Limits defines upload guardrails. These prevent unbounded resource usage.
type Limits struct {
	MediaTypes         []string // Accepted MIME types
	MaxSizeBytes       int64    // Max declared upload size
	MaxDurationSeconds float64  // Max declared clip duration
}

// DefaultLimits returns sensible default limits for voice memos.
func DefaultLimits() Limits {
	return Limits{
		MediaTypes:         []string{"audio/webm", "audio/ogg", "audio/mp4", "audio/mpeg", "audio/wav"},
		MaxSizeBytes:       10 * 1024 * 1024, // 10MB
		MaxDurationSeconds: 120,              // 2 minutes max memo
	}
}

// Validate checks a declared upload against the limits before any session
// is created. It never mutates state.
func Validate(limits Limits, mediaType string, sizeBytes int64, durationSeconds float64) error {
	supported := false
	for _, mt := range limits.MediaTypes {
		if mt == mediaType {
			supported = true
			break
		}
	}
	if !supported {
		return fmt.Errorf("%w: %q", ErrUnsupportedMediaType, mediaType)
	}
	if limits.MaxSizeBytes > 0 && sizeBytes > limits.MaxSizeBytes {
		return fmt.Errorf("%w: %d > %d", ErrAudioTooLarge, sizeBytes, limits.MaxSizeBytes)
	}
	if limits.MaxDurationSeconds > 0 && durationSeconds > limits.MaxDurationSeconds {
		return fmt.Errorf("%w: %.1fs > %.1fs", ErrAudioTooLong, durationSeconds, limits.MaxDurationSeconds)
	}
	return nil
}

// EstimateProcessingTime returns a rough transcription wait in seconds,
// linear in clip duration with a small fixed overhead. Used for UI
// progress only, never for correctness.
func EstimateProcessingTime(durationSeconds float64, sizeBytes int64) float64 {
	const (
		overheadSec    = 1.5
		perAudioSec    = 0.35
		perMegabyteSec = 0.2
	)
	return overheadSec + perAudioSec*durationSeconds + perMegabyteSec*float64(sizeBytes)/(1024*1024)
}
