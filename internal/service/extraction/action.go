package extraction

import (
	"strings"

	"voice-task-service/internal/models"
)

// ExtractAction parses the action phrase: the first token is the verb,
// the remainder the object. A single-word input yields a nil object.
// Normalization trims and collapses whitespace; the raw text is preserved
// for audit.
func ExtractAction(text string) models.ActionFacet {
	normalized := strings.Join(strings.Fields(text), " ")
	if normalized == "" {
		return models.ActionFacet{
			Raw:        text,
			Confidence: 0.2,
			Reason:     "empty input",
		}
	}

	parts := strings.SplitN(normalized, " ", 2)
	facet := models.ActionFacet{
		Raw:        text,
		Normalized: normalized,
		Verb:       parts[0],
	}
	if len(parts) == 2 {
		obj := parts[1]
		facet.Object = &obj
		facet.Confidence = 0.8
		facet.Reason = "verb and object parsed"
	} else {
		facet.Confidence = 0.5
		facet.Reason = "single-word action, no object"
	}
	return facet
}
