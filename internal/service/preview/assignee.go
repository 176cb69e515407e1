package preview

import (
	"sort"

	"voice-task-service/internal/models"
)

// SuggestAssignee ranks household members by ascending current load,
// adjusted by category affinity when available, and returns up to count
// candidates (all of them when count <= 0). An ordered list is returned
// rather than a single pick so the UI can offer alternatives.
func SuggestAssignee(workloads []models.MemberWorkload, category models.Category, count int) []models.AssigneeCandidate {
	candidates := make([]models.AssigneeCandidate, 0, len(workloads))
	for _, w := range workloads {
		score := w.CurrentLoad
		if affinity, ok := w.CategoryAffinity[category]; ok {
			// Affinity lowers the effective load: members who like a
			// category are suggested before equally-loaded ones.
			score -= affinity
		}
		candidates = append(candidates, models.AssigneeCandidate{MemberID: w.MemberID, Score: score})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score < candidates[j].Score
		}
		return candidates[i].MemberID < candidates[j].MemberID
	})

	if count > 0 && len(candidates) > count {
		candidates = candidates[:count]
	}
	return candidates
}
