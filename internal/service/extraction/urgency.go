package extraction

import (
	"strings"

	"voice-task-service/internal/models"
)

// Urgency markers checked as a priority-ordered cascade, not a weighted
// score: a critical marker always wins, whatever else the text contains.
var (
	criticalMarkers = []string{
		"urgence", "urgent", "maintenant", "tout de suite", "immédiatement",
	}
	highMarkers = []string{
		"vite", "rapidement", "dès que possible", "bientôt", "important", "ce soir",
	}
	lowMarkers = []string{
		"quand tu peux", "pas pressé", "rien ne presse", "un de ces jours",
		"éventuellement", "à l'occasion",
	}
)

// DetectUrgency resolves the urgency level from marker phrases. Critical
// markers are checked first, then high, then low; no marker yields normal
// with moderate confidence.
func DetectUrgency(text string) models.UrgencyFacet {
	lower := strings.ToLower(text)

	for _, m := range criticalMarkers {
		if strings.Contains(lower, m) {
			return models.UrgencyFacet{Level: models.UrgencyCritical, Confidence: 0.9, Reason: "critical marker: " + m}
		}
	}
	for _, m := range highMarkers {
		if strings.Contains(lower, m) {
			return models.UrgencyFacet{Level: models.UrgencyHigh, Confidence: 0.8, Reason: "high-urgency marker: " + m}
		}
	}
	for _, m := range lowMarkers {
		if strings.Contains(lower, m) {
			return models.UrgencyFacet{Level: models.UrgencyLow, Confidence: 0.75, Reason: "low-urgency marker: " + m}
		}
	}
	return models.UrgencyFacet{Level: models.UrgencyNormal, Confidence: 0.6, Reason: "no urgency marker"}
}
