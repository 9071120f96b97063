// Package filter decides which messages belong to which view.
//
// Everything here is a pure function of its arguments. Tag IDs are compared
// as plain strings, so IDs that no longer exist in the tag registry simply
// never contribute a match.
package filter

import (
	"github.com/ajramos/tagview/internal/models"
)

type tagSet map[string]struct{}

func newTagSet(tags []string) tagSet {
	s := make(tagSet, len(tags))
	for _, t := range tags {
		s[t] = struct{}{}
	}
	return s
}

func (s tagSet) has(id string) bool {
	_, ok := s[id]
	return ok
}

// MatchesCondition reports whether msg satisfies a single condition.
// A condition with no tags is vacuously true for every mode.
func MatchesCondition(msg models.Message, cond models.Condition) bool {
	return matchCondition(newTagSet(msg.Tags), cond)
}

func matchCondition(tags tagSet, cond models.Condition) bool {
	if len(cond.Tags) == 0 {
		return true
	}

	switch cond.Type {
	case models.ConditionIncludesAny:
		for _, id := range cond.Tags {
			if tags.has(id) {
				return true
			}
		}
		return false
	case models.ConditionIncludesAll:
		for _, id := range cond.Tags {
			if !tags.has(id) {
				return false
			}
		}
		return true
	case models.ConditionExcludesAny:
		for _, id := range cond.Tags {
			if tags.has(id) {
				return false
			}
		}
		return true
	default:
		// Unknown modes never match
		return false
	}
}

// IsEmpty reports whether a view can never match anything: it has no
// conditions, or every condition has an empty tag list
func IsEmpty(view models.View) bool {
	for _, c := range view.Conditions {
		if len(c.Tags) > 0 {
			return false
		}
	}
	return true
}

// MatchesView reports whether msg belongs to view. Conditions are AND-ed.
func MatchesView(msg models.Message, view models.View) bool {
	if IsEmpty(view) {
		return false
	}
	return matchAll(newTagSet(msg.Tags), view.Conditions)
}

func matchAll(tags tagSet, conds []models.Condition) bool {
	for _, c := range conds {
		if !matchCondition(tags, c) {
			return false
		}
	}
	return true
}

// FilterByView returns the messages matching view in their original order.
// A nil view is the "no view selected" state and returns messages unchanged.
func FilterByView(messages []models.Message, view *models.View) []models.Message {
	if view == nil {
		return messages
	}
	out := make([]models.Message, 0, len(messages))
	if IsEmpty(*view) {
		return out
	}
	for _, m := range messages {
		if matchAll(newTagSet(m.Tags), view.Conditions) {
			out = append(out, m)
		}
	}
	return out
}

// CountForView returns len(FilterByView(messages, view)) without building the slice
func CountForView(messages []models.Message, view *models.View) int {
	if view == nil {
		return len(messages)
	}
	if IsEmpty(*view) {
		return 0
	}
	n := 0
	for _, m := range messages {
		if matchAll(newTagSet(m.Tags), view.Conditions) {
			n++
		}
	}
	return n
}

// CountsByView returns the match count of every view keyed by view ID
func CountsByView(messages []models.Message, views []models.View) map[string]int {
	counts := make(map[string]int, len(views))
	if len(views) == 0 {
		return counts
	}

	sets := make([]tagSet, len(messages))
	for i, m := range messages {
		sets[i] = newTagSet(m.Tags)
	}
	for _, v := range views {
		n := 0
		if !IsEmpty(v) {
			for _, s := range sets {
				if matchAll(s, v.Conditions) {
					n++
				}
			}
		}
		counts[v.ID] = n
	}
	return counts
}

// VisibleViews returns the views shown in navigation, preserving order
func VisibleViews(views []models.View) []models.View {
	out := make([]models.View, 0, len(views))
	for _, v := range views {
		if v.Visible {
			out = append(out, v)
		}
	}
	return out
}

// ReferencedTags returns the distinct tag IDs used by a view's conditions in
// first-seen order
func ReferencedTags(view models.View) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, c := range view.Conditions {
		for _, id := range c.Tags {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}
