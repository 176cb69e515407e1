// Package extraction derives task facets (category, urgency, date, child,
// action) from cleaned transcript text using keyword heuristics. Every
// facet degrades to its none/other/nil case on adversarial input instead
// of failing the whole extraction.
package extraction

import (
	"fmt"
	"strings"

	"voice-task-service/internal/models"
)

// keyword is a scored vocabulary entry. Action verbs carry more weight
// than context nouns: "emmener Lucas au football" is a transport task,
// not a sports activity.
type keyword struct {
	word   string
	weight int
}

var categoryKeywords = map[models.Category][]keyword{
	models.CategoryTransport: {
		{"emmener", 2}, {"conduire", 2}, {"déposer", 2}, {"récupérer", 2},
		{"chercher", 2}, {"voiture", 1}, {"bus", 1}, {"train", 1}, {"trajet", 1},
	},
	models.CategoryHealth: {
		{"médecin", 2}, {"docteur", 2}, {"dentiste", 2}, {"pédiatre", 2},
		{"pharmacie", 1}, {"médicament", 1}, {"vaccin", 1}, {"ordonnance", 1},
	},
	models.CategoryEducation: {
		{"devoirs", 2}, {"réviser", 2}, {"école", 1}, {"leçon", 1},
		{"cours", 1}, {"cartable", 1}, {"inscription", 1}, {"cantine", 1},
	},
	models.CategoryFood: {
		{"cuisiner", 2}, {"courses", 2}, {"acheter", 2}, {"repas", 1}, {"dîner", 1},
		{"déjeuner", 1}, {"goûter", 1}, {"supermarché", 1}, {"pain", 1},
	},
	models.CategoryHousehold: {
		{"ranger", 2}, {"nettoyer", 2}, {"réparer", 2}, {"ménage", 1},
		{"lessive", 1}, {"linge", 1}, {"vaisselle", 1}, {"poubelle", 1}, {"jardin", 1},
	},
	models.CategoryActivities: {
		{"entraînement", 1}, {"football", 1}, {"foot", 1}, {"piscine", 1},
		{"musique", 1}, {"danse", 1}, {"match", 1}, {"sport", 1}, {"activité", 1},
	},
	models.CategorySocial: {
		{"inviter", 2}, {"anniversaire", 1}, {"fête", 1}, {"cadeau", 1},
		{"copains", 1}, {"amis", 1}, {"famille", 1}, {"visite", 1},
	},
}

var elisionReplacer = strings.NewReplacer("'", " ", "’", " ")

// tokenize lowercases the text and splits it into words. Elisions are
// split ("l'anniversaire" yields "anniversaire") and punctuation is
// stripped from word edges so "Lucas," matches "lucas".
func tokenize(text string) []string {
	fields := strings.Fields(elisionReplacer.Replace(strings.ToLower(text)))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, ".,;:!?'\"()")
		if f != "" {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// DetectCategory scores each category by weighted keyword hits. Ties and
// zero scores resolve to other; confidence grows with the margin between
// the top and second-best score, capped at 1.0.
func DetectCategory(text string) models.CategoryFacet {
	tokens := tokenize(text)
	tokenSet := make(map[string]bool, len(tokens))
	for _, tok := range tokens {
		tokenSet[tok] = true
	}

	scores := map[models.Category]int{}
	for cat, kws := range categoryKeywords {
		for _, kw := range kws {
			if tokenSet[kw.word] {
				scores[cat] += kw.weight
			}
		}
	}

	var best, second models.Category
	bestScore, secondScore := 0, 0
	for cat, score := range scores {
		switch {
		case score > bestScore:
			second, secondScore = best, bestScore
			best, bestScore = cat, score
		case score > secondScore:
			second, secondScore = cat, score
		}
	}

	if bestScore == 0 {
		return models.CategoryFacet{
			Primary:    models.CategoryOther,
			Confidence: 0.3,
			Reason:     "no category keyword matched",
		}
	}
	if secondScore == bestScore {
		return models.CategoryFacet{
			Primary:    models.CategoryOther,
			Confidence: 0.35,
			Reason:     fmt.Sprintf("tie between %s and %s", best, second),
		}
	}

	margin := bestScore - secondScore
	conf := 0.5 + 0.15*float64(margin)
	if conf > 1 {
		conf = 1
	}

	facet := models.CategoryFacet{
		Primary:    best,
		Confidence: conf,
		Reason:     fmt.Sprintf("keyword score %d (margin %d)", bestScore, margin),
	}
	if secondScore > 0 {
		sec := second
		facet.Secondary = &sec
	}
	return facet
}
