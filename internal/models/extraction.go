package models

import "time"

// Category is a task category derived from transcript text.
type Category string

const (
	CategoryTransport  Category = "transport"
	CategoryHealth     Category = "health"
	CategoryEducation  Category = "education"
	CategoryFood       Category = "food"
	CategoryHousehold  Category = "household"
	CategoryActivities Category = "activities"
	CategorySocial     Category = "social"
	CategoryOther      Category = "other"
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryTransport, CategoryHealth, CategoryEducation, CategoryFood,
		CategoryHousehold, CategoryActivities, CategorySocial, CategoryOther:
		return true
	}
	return false
}

// Urgency is a priority level derived from transcript text.
type Urgency string

const (
	UrgencyCritical Urgency = "critical"
	UrgencyHigh     Urgency = "high"
	UrgencyNormal   Urgency = "normal"
	UrgencyLow      Urgency = "low"
)

// Valid reports whether u is one of the known urgency levels.
func (u Urgency) Valid() bool {
	switch u {
	case UrgencyCritical, UrgencyHigh, UrgencyNormal, UrgencyLow:
		return true
	}
	return false
}

// DateKind describes how a date facet was derived.
type DateKind string

const (
	DateAbsolute DateKind = "absolute"
	DateRelative DateKind = "relative"
	DateNone     DateKind = "none"
)

// ActionFacet is the parsed action phrase of an extraction.
type ActionFacet struct {
	Raw        string  `json:"raw"`
	Normalized string  `json:"normalized"`
	Verb       string  `json:"verb"`
	Object     *string `json:"object,omitempty"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
}

// CategoryFacet is the detected category with an optional secondary.
type CategoryFacet struct {
	Primary    Category  `json:"primary"`
	Secondary  *Category `json:"secondary,omitempty"`
	Confidence float64   `json:"confidence"`
	Reason     string    `json:"reason"`
}

// UrgencyFacet is the detected urgency level.
type UrgencyFacet struct {
	Level      Urgency `json:"level"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
}

// DateFacet is the parsed calendar date, if any.
type DateFacet struct {
	Date       *time.Time `json:"date,omitempty"`
	Kind       DateKind   `json:"kind"`
	Confidence float64    `json:"confidence"`
	Reason     string     `json:"reason"`
}

// ChildFacet is the referenced household child, if any.
type ChildFacet struct {
	ChildID    *string `json:"childId,omitempty"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
}

// ExtractionResult holds the five independently-scored facets derived
// from transcribed text.
type ExtractionResult struct {
	Action   ActionFacet   `json:"action"`
	Category CategoryFacet `json:"category"`
	Urgency  UrgencyFacet  `json:"urgency"`
	Date     DateFacet     `json:"date"`
	Child    ChildFacet    `json:"child"`
}

// MinConfidence returns the lowest facet confidence, used to decide
// whether the extraction needs manual review downstream.
func (r ExtractionResult) MinConfidence() float64 {
	min := r.Action.Confidence
	for _, c := range []float64{r.Category.Confidence, r.Urgency.Confidence, r.Date.Confidence, r.Child.Confidence} {
		if c < min {
			min = c
		}
	}
	return min
}

// ExtractionJob tracks one semantic extraction over a completed transcription.
type ExtractionJob struct {
	ExtractionID    string            `json:"extractionId"`
	TranscriptionID string            `json:"transcriptionId"`
	Status          JobStatus         `json:"status"`
	Result          *ExtractionResult `json:"result,omitempty"`
	FailureReason   string            `json:"failureReason,omitempty"`
}
