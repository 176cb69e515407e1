package extraction

import (
	"time"

	"voice-task-service/internal/models"
)

// Extract computes all five facets independently. It never errors:
// adversarial input degrades each facet to its none/other/nil case with a
// low but defined confidence.
func Extract(text string, children []models.Child, now time.Time) models.ExtractionResult {
	return models.ExtractionResult{
		Action:   ExtractAction(text),
		Category: DetectCategory(text),
		Urgency:  DetectUrgency(text),
		Date:     ParseDate(text, now),
		Child:    MatchChild(text, children),
	}
}

// ReconcilePolicy selects which extraction wins when the keyword
// heuristics and the LLM capability disagree on a facet.
type ReconcilePolicy string

const (
	PolicyHighestConfidence ReconcilePolicy = "highest-confidence"
	PolicyPreferLLM         ReconcilePolicy = "prefer-llm"
	PolicyPreferHeuristic   ReconcilePolicy = "prefer-heuristic"
)

// Reconcile merges a heuristic extraction with an optional LLM one under
// the given policy, facet by facet. The heuristic result serves as a
// fallback and a sanity check: an LLM facet with an unknown value or zero
// confidence never replaces the heuristic one.
func Reconcile(heuristic, llm *models.ExtractionResult, policy ReconcilePolicy) *models.ExtractionResult {
	if llm == nil {
		return heuristic
	}
	if heuristic == nil {
		return llm
	}

	prefersLLM := func(hConf, lConf float64) bool {
		switch policy {
		case PolicyPreferLLM:
			return lConf > 0
		case PolicyPreferHeuristic:
			return false
		default: // PolicyHighestConfidence
			return lConf > hConf
		}
	}

	merged := *heuristic

	if llm.Category.Primary.Valid() && prefersLLM(heuristic.Category.Confidence, llm.Category.Confidence) {
		merged.Category = llm.Category
	}
	if llm.Urgency.Level.Valid() && prefersLLM(heuristic.Urgency.Confidence, llm.Urgency.Confidence) {
		merged.Urgency = llm.Urgency
	}
	if llm.Date.Kind != models.DateNone && llm.Date.Date != nil && prefersLLM(heuristic.Date.Confidence, llm.Date.Confidence) {
		merged.Date = llm.Date
	}
	if llm.Child.ChildID != nil && prefersLLM(heuristic.Child.Confidence, llm.Child.Confidence) {
		merged.Child = llm.Child
	}
	if llm.Action.Verb != "" && prefersLLM(heuristic.Action.Confidence, llm.Action.Confidence) {
		merged.Action = llm.Action
	}

	return &merged
}

