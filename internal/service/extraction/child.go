package extraction

import (
	"strings"

	"voice-task-service/internal/models"
)

// MatchChild finds the household child referenced in the text. An exact
// case-insensitive first-name match wins outright; a partial match wins
// with reduced confidence; no match yields a nil ID. An empty children
// list is tolerated.
func MatchChild(text string, children []models.Child) models.ChildFacet {
	if len(children) == 0 {
		return models.ChildFacet{Confidence: 0, Reason: "no children in household"}
	}

	tokens := tokenize(text)

	for _, child := range children {
		name := strings.ToLower(child.FirstName)
		if name == "" {
			continue
		}
		for _, tok := range tokens {
			if tok == name {
				id := child.ChildID
				return models.ChildFacet{ChildID: &id, Confidence: 0.95, Reason: "exact first-name match: " + child.FirstName}
			}
		}
	}

	// Partial: a token sharing a prefix of at least three letters with a
	// first name, to catch clipped transcriptions ("Luca" for "Lucas").
	for _, child := range children {
		name := strings.ToLower(child.FirstName)
		if len(name) < 3 {
			continue
		}
		for _, tok := range tokens {
			if len(tok) >= 3 && (strings.HasPrefix(name, tok) || strings.HasPrefix(tok, name)) {
				id := child.ChildID
				return models.ChildFacet{ChildID: &id, Confidence: 0.6, Reason: "partial first-name match: " + child.FirstName}
			}
		}
	}

	return models.ChildFacet{Confidence: 0.4, Reason: "no child name matched"}
}
