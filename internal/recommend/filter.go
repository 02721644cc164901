package recommend

import "github.com/Harisharivananthan/AI-Learning-Platform/pkg/models"

// Eligible partitions the catalog into the candidate pool for a user: a
// course is excluded when the user has a progress record for it with
// completion at or above the threshold. Catalog order is preserved and
// neither input is mutated.
//
// A user with no progress records is eligible for the entire catalog.
// Progress records referencing courses absent from the catalog are ignored.
func Eligible(catalog []models.Course, progress []models.Progress, threshold float64) []models.Course {
	if len(progress) == 0 {
		return catalog
	}

	excluded := make(map[string]struct{})
	for _, p := range progress {
		if p.Completion >= threshold {
			excluded[p.CourseID.String()] = struct{}{}
		}
	}

	eligible := make([]models.Course, 0, len(catalog))
	for _, c := range catalog {
		if _, ok := excluded[c.ID.String()]; ok {
			continue
		}
		eligible = append(eligible, c)
	}
	return eligible
}
