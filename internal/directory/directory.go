// Package directory provides read-only household membership data used
// for child matching and assignee suggestion.
package directory

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/rotisserie/eris"

	"voice-task-service/internal/models"
)

// Household groups the children and adult members of one household.
type Household struct {
	HouseholdID string                  `json:"household_id"`
	Children    []models.Child          `json:"children"`
	Members     []models.MemberWorkload `json:"members"`
}

// Directory resolves household membership. Lookups return copies so
// callers cannot mutate the shared state.
type Directory struct {
	mu         sync.RWMutex
	households map[string]Household
}

// New creates an empty directory.
func New() *Directory {
	return &Directory{households: make(map[string]Household)}
}

// NewSeeded creates a directory preloaded with a demo household. Used
// when no directory file is configured.
func NewSeeded() *Directory {
	d := New()
	d.Put(Household{
		HouseholdID: "demo-household",
		Children: []models.Child{
			{ChildID: "child-lucas", FirstName: "Lucas", Age: 8},
			{ChildID: "child-emma", FirstName: "Emma", Age: 5},
		},
		Members: []models.MemberWorkload{
			{MemberID: "member-alice", CurrentLoad: 4.5, CategoryAffinity: map[models.Category]float64{
				models.CategoryTransport: 0.8,
				models.CategoryHealth:    1.2,
			}},
			{MemberID: "member-bruno", CurrentLoad: 3.0, CategoryAffinity: map[models.Category]float64{
				models.CategoryFood:      1.0,
				models.CategoryHousehold: 0.6,
			}},
		},
	})
	return d
}

// LoadFile reads a JSON directory file containing a list of households.
func LoadFile(path string) (*Directory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "reading directory file %s", path)
	}

	var households []Household
	if err := json.Unmarshal(data, &households); err != nil {
		return nil, eris.Wrapf(err, "parsing directory file %s", path)
	}

	d := New()
	for _, h := range households {
		d.Put(h)
	}
	return d, nil
}

// Put registers or replaces a household.
func (d *Directory) Put(h Household) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.households[h.HouseholdID] = h
}

// Children returns the children of a household. Unknown households
// return an empty slice.
func (d *Directory) Children(householdID string) []models.Child {
	d.mu.RLock()
	defer d.mu.RUnlock()

	h, ok := d.households[householdID]
	if !ok {
		return nil
	}
	out := make([]models.Child, len(h.Children))
	copy(out, h.Children)
	return out
}

// Members returns the adult members of a household with their current
// workloads. Unknown households return an empty slice.
func (d *Directory) Members(householdID string) []models.MemberWorkload {
	d.mu.RLock()
	defer d.mu.RUnlock()

	h, ok := d.households[householdID]
	if !ok {
		return nil
	}
	out := make([]models.MemberWorkload, len(h.Members))
	copy(out, h.Members)
	return out
}
