// Package mock provides a mock recognizer for testing without cloud
// credentials. It returns canned utterances with realistic confidence
// scores and word-level spans, cycling deterministically so repeated
// uploads in a demo do not all yield the same task.
package mock

import (
	"context"
	"strings"
	"sync"

	"voice-task-service/internal/models"
	"voice-task-service/internal/service/stt"
)

// SimulatedUtterance is one canned recognition result.
type SimulatedUtterance struct {
	Text        string  // Final transcript text
	Confidence  float64 // Overall confidence score
	DurationSec float64 // Simulated clip duration
}

// DefaultUtterances provides sample household voice memos for simulation.
var DefaultUtterances = []SimulatedUtterance{
	{Text: "Emmener Lucas au football samedi", Confidence: 0.94, DurationSec: 4.2},
	{Text: "Prendre rendez-vous chez le dentiste pour Emma demain", Confidence: 0.91, DurationSec: 5.1},
	{Text: "Faire les courses pour le dîner ce soir", Confidence: 0.96, DurationSec: 3.8},
	{Text: "Ranger le garage quand tu peux", Confidence: 0.89, DurationSec: 3.2},
	{Text: "Appeler l'école lundi prochain c'est important", Confidence: 0.87, DurationSec: 4.9},
}

// Recognizer implements stt.Recognizer with canned responses.
type Recognizer struct {
	mu         sync.Mutex
	utterances []SimulatedUtterance
	next       int
}

var _ stt.Recognizer = (*Recognizer)(nil)

// New creates a mock recognizer cycling through DefaultUtterances.
func New() *Recognizer {
	return &Recognizer{utterances: DefaultUtterances}
}

// NewWithUtterances creates a mock recognizer with a fixed script.
func NewWithUtterances(utterances []SimulatedUtterance) *Recognizer {
	return &Recognizer{utterances: utterances}
}

// Transcribe returns the next canned utterance. Word spans are derived
// from the text so downstream quality assessment sees realistic input.
func (r *Recognizer) Transcribe(ctx context.Context, audio []byte, language string) (*models.TranscriptionResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	utt := r.utterances[r.next%len(r.utterances)]
	r.next++
	r.mu.Unlock()

	words := strings.Fields(utt.Text)
	spans := make([]models.WordSpan, len(words))
	step := utt.DurationSec / float64(len(words))
	for i, w := range words {
		spans[i] = models.WordSpan{
			Word:       w,
			StartSec:   float64(i) * step,
			EndSec:     float64(i+1) * step,
			Confidence: utt.Confidence,
		}
	}

	return &models.TranscriptionResult{
		Text:        utt.Text,
		Language:    language,
		Confidence:  utt.Confidence,
		DurationSec: utt.DurationSec,
		Words:       spans,
	}, nil
}
