package services

import (
	"sort"

	"github.com/ajramos/tagview/internal/models"
)

// TagUsageCounts counts, for every tag, how many messages carry its ID.
// Unused tags are present with a count of 0.
func TagUsageCounts(messages []models.Message, tags []models.Tag) map[string]int {
	counts := make(map[string]int, len(tags))
	for _, t := range tags {
		counts[t.ID] = 0
	}
	for _, m := range messages {
		seen := make(map[string]struct{}, len(m.Tags))
		for _, id := range m.Tags {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			if _, known := counts[id]; known {
				counts[id]++
			}
		}
	}
	return counts
}

// SortTagsByUsage returns tags ordered by descending usage. Ties keep their
// original relative order.
func SortTagsByUsage(tags []models.Tag, counts map[string]int) []models.Tag {
	out := make([]models.Tag, len(tags))
	copy(out, tags)
	sort.SliceStable(out, func(i, j int) bool {
		return counts[out[i].ID] > counts[out[j].ID]
	})
	return out
}
