// Package llm provides the optional LLM extraction capability. Its output
// is reconciled with the keyword heuristics, never blindly trusted.
package llm

import (
	"context"

	"voice-task-service/internal/models"
)

// Analyzer derives a partial extraction from transcript text. The
// household children are passed so implementations can resolve referenced
// first names to child IDs. A nil result with a nil error means the
// capability is disabled; the pipeline then relies on heuristics alone.
type Analyzer interface {
	Analyze(ctx context.Context, text string, children []models.Child) (*models.ExtractionResult, error)
}

// Disabled is an Analyzer that always opts out.
type Disabled struct{}

// Analyze returns no extraction and no error.
func (Disabled) Analyze(ctx context.Context, text string, children []models.Child) (*models.ExtractionResult, error) {
	return nil, nil
}
