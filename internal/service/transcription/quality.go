package transcription

import "voice-task-service/internal/models"

// DefaultReliabilityThreshold is the minimum overall confidence above
// which a transcription is treated as usable without manual review.
const DefaultReliabilityThreshold = 0.7

// minReliableDurationSec filters out trivially short clips (a stray tap
// on the record button is not a task).
const minReliableDurationSec = 1.0

// AssessQuality blends overall confidence, average word-level confidence
// and utterance length into a single 0..1 score.
func AssessQuality(r *models.TranscriptionResult) float64 {
	if r == nil {
		return 0
	}

	wordConf := r.Confidence
	if len(r.Words) > 0 {
		sum := 0.0
		for _, w := range r.Words {
			sum += w.Confidence
		}
		wordConf = sum / float64(len(r.Words))
	}

	// Longer utterances give the recognizer more context; score saturates
	// around ten words.
	words := len(r.Words)
	if words == 0 {
		words = len(CleanText(r.Text)) / 6 // rough word count from characters
	}
	lengthScore := float64(words) / 10
	if lengthScore > 1 {
		lengthScore = 1
	}

	score := 0.5*r.Confidence + 0.3*wordConf + 0.2*lengthScore
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// IsReliable reports whether a result can be trusted without manual
// review: overall confidence at or above the threshold and a non-trivial
// duration.
func IsReliable(r *models.TranscriptionResult, threshold float64) bool {
	if r == nil {
		return false
	}
	return r.Confidence >= threshold && r.DurationSec > minReliableDurationSec
}
