package transcription

import (
	"testing"

	"voice-task-service/internal/models"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		expected string
	}{
		{"collapses spaces", "acheter   du  pain", "acheter du pain"},
		{"trims ends", "  bonjour  ", "bonjour"},
		{"tabs and newlines", "emmener\tLucas\nau foot", "emmener Lucas au foot"},
		{"empty", "", ""},
		{"only whitespace", "   \t\n ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanText(tt.in); got != tt.expected {
				t.Errorf("CleanText(%q) = %q, want %q", tt.in, got, tt.expected)
			}
		})
	}
}

func TestFormatText(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		lang     string
		expected string
	}{
		{"capitalizes first letter", "acheter du pain", "fr", "Acheter du pain"},
		{"already capitalized", "Acheter du pain", "fr", "Acheter du pain"},
		{"accented first letter", "éplucher les légumes", "fr", "Éplucher les légumes"},
		{"cleans whitespace", "  emmener   Lucas ", "fr", "Emmener Lucas"},
		{"empty", "", "fr", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatText(tt.in, tt.lang); got != tt.expected {
				t.Errorf("FormatText(%q, %q) = %q, want %q", tt.in, tt.lang, got, tt.expected)
			}
		})
	}
}

func TestNormalizeLanguage(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"français", "fr"},
		{"French", "fr"},
		{"FR-fr", "fr"},
		{"en-US", "en"},
		{"English", "en"},
		{"es", "es"},
		{"de-DE", "de"},
		{"", "fr"},
		{"klingon", "fr"},
	}

	for _, tt := range tests {
		if got := NormalizeLanguage(tt.in); got != tt.expected {
			t.Errorf("NormalizeLanguage(%q) = %q, want %q", tt.in, got, tt.expected)
		}
	}
}

func TestAssessQuality(t *testing.T) {
	high := &models.TranscriptionResult{
		Text: "emmener Lucas au football samedi", Confidence: 0.95, DurationSec: 5,
		Words: []models.WordSpan{
			{Word: "emmener", Confidence: 0.96}, {Word: "Lucas", Confidence: 0.94},
			{Word: "au", Confidence: 0.99}, {Word: "football", Confidence: 0.92},
			{Word: "samedi", Confidence: 0.95},
		},
	}
	low := &models.TranscriptionResult{Text: "euh", Confidence: 0.2, DurationSec: 0.5}

	hq := AssessQuality(high)
	lq := AssessQuality(low)

	if hq <= lq {
		t.Errorf("expected high-quality result to score above low: %f <= %f", hq, lq)
	}
	if hq < 0 || hq > 1 || lq < 0 || lq > 1 {
		t.Errorf("expected scores in [0,1], got %f and %f", hq, lq)
	}
	if AssessQuality(nil) != 0 {
		t.Error("expected nil result to score 0")
	}
}

func TestIsReliable(t *testing.T) {
	tests := []struct {
		name     string
		result   *models.TranscriptionResult
		expected bool
	}{
		{"confident and long enough", &models.TranscriptionResult{Confidence: 0.9, DurationSec: 5}, true},
		{"at threshold", &models.TranscriptionResult{Confidence: 0.7, DurationSec: 5}, true},
		{"below threshold", &models.TranscriptionResult{Confidence: 0.69, DurationSec: 5}, false},
		{"too short", &models.TranscriptionResult{Confidence: 0.9, DurationSec: 0.8}, false},
		{"nil result", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsReliable(tt.result, DefaultReliabilityThreshold); got != tt.expected {
				t.Errorf("IsReliable() = %v, want %v", got, tt.expected)
			}
		})
	}
}
