// Package google provides a Google Cloud Speech-to-Text recognizer.
package google

import (
	"context"

	speech "cloud.google.com/go/speech/apiv1"
	speechpb "google.golang.org/genproto/googleapis/cloud/speech/v1"

	"voice-task-service/internal/models"
	"voice-task-service/internal/service/stt"
)

// locales maps canonical two-letter codes to the locale Google expects.
var locales = map[string]string{
	"fr": "fr-FR",
	"en": "en-US",
	"es": "es-ES",
	"de": "de-DE",
}

// Recognizer implements stt.Recognizer using the Google Cloud
// Speech-to-Text batch Recognize API.
type Recognizer struct {
	client *speech.Client
}

var _ stt.Recognizer = (*Recognizer)(nil)

// New creates a new Google recognizer.
// Requires GOOGLE_APPLICATION_CREDENTIALS environment variable to be set.
func New(ctx context.Context) (*Recognizer, error) {
	c, err := speech.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	return &Recognizer{client: c}, nil
}

// Transcribe runs one-shot recognition over an assembled voice memo.
func (r *Recognizer) Transcribe(ctx context.Context, audio []byte, language string) (*models.TranscriptionResult, error) {
	locale, ok := locales[language]
	if !ok {
		locale = locales["fr"]
	}

	resp, err := r.client.Recognize(ctx, &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:              speechpb.RecognitionConfig_WEBM_OPUS,
			SampleRateHertz:       48000,
			LanguageCode:          locale,
			EnableWordTimeOffsets: true,
			EnableWordConfidence:  true,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: audio},
		},
	})
	if err != nil {
		return nil, err
	}

	return fromRecognizeResponse(resp, language), nil
}

// Close releases the underlying client.
func (r *Recognizer) Close() error {
	return r.client.Close()
}

func fromRecognizeResponse(resp *speechpb.RecognizeResponse, language string) *models.TranscriptionResult {
	result := &models.TranscriptionResult{Language: language}

	var confSum float64
	var alternatives int
	for _, res := range resp.Results {
		if len(res.Alternatives) == 0 {
			continue
		}
		alt := res.Alternatives[0]
		if result.Text != "" {
			result.Text += " "
		}
		result.Text += alt.Transcript
		confSum += float64(alt.Confidence)
		alternatives++

		for _, w := range alt.Words {
			span := models.WordSpan{
				Word:       w.Word,
				StartSec:   w.StartTime.AsDuration().Seconds(),
				EndSec:     w.EndTime.AsDuration().Seconds(),
				Confidence: float64(w.Confidence),
			}
			result.Words = append(result.Words, span)
			if span.EndSec > result.DurationSec {
				result.DurationSec = span.EndSec
			}
		}
	}
	if alternatives > 0 {
		result.Confidence = confSum / float64(alternatives)
	}
	return result
}
