// Package preview turns extraction results into reviewable task previews:
// title generation, charge-weight computation, workload-aware assignee
// suggestion, and the preview confirmation lifecycle.
package preview

import (
	"strings"
	"unicode/utf8"

	"voice-task-service/internal/models"
)

// categoryFallbackTitles name a task when the transcript gave us no
// usable action phrase.
var categoryFallbackTitles = map[models.Category]string{
	models.CategoryTransport:  "Trajet à organiser",
	models.CategoryHealth:     "Rendez-vous santé",
	models.CategoryEducation:  "Suivi scolaire",
	models.CategoryFood:       "Repas à préparer",
	models.CategoryHousehold:  "Tâche ménagère",
	models.CategoryActivities: "Activité à organiser",
	models.CategorySocial:     "Événement familial",
	models.CategoryOther:      "Nouvelle tâche",
}

func capitalize(s string) string {
	if s == "" {
		return ""
	}
	_, size := utf8.DecodeRuneInString(s)
	return strings.ToUpper(s[:size]) + s[size:]
}

// GenerateTitle composes a task title from the action's verb and object,
// falling back to a category phrase. The result is always non-empty.
func GenerateTitle(action models.ActionFacet, category models.Category) string {
	verb := capitalize(strings.TrimSpace(action.Verb))
	if verb == "" {
		if title, ok := categoryFallbackTitles[category]; ok {
			return title
		}
		return categoryFallbackTitles[models.CategoryOther]
	}
	if action.Object != nil && strings.TrimSpace(*action.Object) != "" {
		return verb + " " + strings.TrimSpace(*action.Object)
	}
	return verb
}
