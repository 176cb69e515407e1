package models

// Child is a household child entry from the directory, used for name matching.
type Child struct {
	ChildID   string `json:"childId"`
	FirstName string `json:"firstName"`
	Age       int    `json:"age"`
}

// MemberWorkload is a household member's current load and category affinities,
// used for assignee suggestion.
type MemberWorkload struct {
	MemberID         string               `json:"memberId"`
	CurrentLoad      float64              `json:"currentLoad"`
	CategoryAffinity map[Category]float64 `json:"categoryAffinity,omitempty"`
}
