package preview

import (
	"fmt"

	"voice-task-service/internal/models"
)

// Base weights per category: health and logistics carry more mental load
// than routine chores.
var categoryBaseWeight = map[models.Category]float64{
	models.CategoryHealth:     3.0,
	models.CategoryTransport:  2.0,
	models.CategoryEducation:  2.0,
	models.CategoryFood:       1.5,
	models.CategoryActivities: 1.5,
	models.CategoryHousehold:  1.0,
	models.CategorySocial:     1.0,
	models.CategoryOther:      1.0,
}

// Priority multipliers, monotonically increasing with urgency.
var priorityMultiplier = map[models.Urgency]float64{
	models.UrgencyLow:      0.8,
	models.UrgencyNormal:   1.0,
	models.UrgencyHigh:     1.3,
	models.UrgencyCritical: 1.6,
}

// Tasks longer than this contribute an additive duration term.
const durationThresholdMinutes = 30

// CalculateChargeWeight computes the load estimate for a task: a
// category base, scaled by priority, plus an additive term for long
// tasks. Every contribution is recorded as a factor for explainability.
func CalculateChargeWeight(category models.Category, priority models.Urgency, estimatedMinutes int) models.ChargeWeight {
	base, ok := categoryBaseWeight[category]
	if !ok {
		base = categoryBaseWeight[models.CategoryOther]
	}
	mult, ok := priorityMultiplier[priority]
	if !ok {
		mult = priorityMultiplier[models.UrgencyNormal]
	}

	factors := []models.WeightFactor{
		{Name: fmt.Sprintf("category:%s", category), Value: base},
		{Name: fmt.Sprintf("priority:%s", priority), Value: mult},
	}

	durationTerm := 0.0
	if estimatedMinutes > durationThresholdMinutes {
		durationTerm = float64(estimatedMinutes-durationThresholdMinutes) / 30 * 0.5
		factors = append(factors, models.WeightFactor{Name: "duration", Value: durationTerm})
	}

	return models.ChargeWeight{
		Base:       base,
		Multiplier: mult,
		Total:      base*mult + durationTerm,
		Factors:    factors,
	}
}
