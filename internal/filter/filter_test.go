package filter

import (
	"testing"

	"github.com/ajramos/tagview/internal/models"
	"github.com/stretchr/testify/assert"
)

func msg(id string, tags ...string) models.Message {
	return models.Message{ID: id, Subject: "subject " + id, Tags: tags}
}

func cond(t models.ConditionType, tags ...string) models.Condition {
	return models.Condition{Type: t, Tags: tags}
}

func TestMatchesCondition(t *testing.T) {
	m := msg("1", "work", "urgent")

	tests := []struct {
		name     string
		cond     models.Condition
		expected bool
	}{
		{"any_hit", cond(models.ConditionIncludesAny, "work", "business"), true},
		{"any_miss", cond(models.ConditionIncludesAny, "business", "spam"), false},
		{"all_hit", cond(models.ConditionIncludesAll, "work", "urgent"), true},
		{"all_partial", cond(models.ConditionIncludesAll, "work", "business"), false},
		{"exclude_hit", cond(models.ConditionExcludesAny, "urgent"), false},
		{"exclude_miss", cond(models.ConditionExcludesAny, "spam", "promo"), true},
		{"unknown_type", cond("sometimes", "work"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MatchesCondition(m, tt.cond))
		})
	}
}

func TestMatchesCondition_EmptyTagsAlwaysTrue(t *testing.T) {
	messages := []models.Message{msg("1"), msg("2", "work"), msg("3", "spam", "promo")}
	types := []models.ConditionType{
		models.ConditionIncludesAny,
		models.ConditionIncludesAll,
		models.ConditionExcludesAny,
	}

	for _, m := range messages {
		for _, ct := range types {
			assert.True(t, MatchesCondition(m, cond(ct)), "message %s type %s", m.ID, ct)
			assert.True(t, MatchesCondition(m, models.Condition{Type: ct, Tags: []string{}}))
		}
	}
}

func TestMatchesView_EmptyViewsMatchNothing(t *testing.T) {
	views := []models.View{
		{ID: "none"},
		{ID: "one_empty", Conditions: []models.Condition{cond(models.ConditionIncludesAny)}},
		{ID: "all_empty", Conditions: []models.Condition{
			cond(models.ConditionIncludesAll),
			cond(models.ConditionExcludesAny),
		}},
	}
	messages := []models.Message{msg("1"), msg("2", "work"), msg("3", "a", "b", "c")}

	for _, v := range views {
		t.Run(v.ID, func(t *testing.T) {
			assert.True(t, IsEmpty(v))
			for _, m := range messages {
				assert.False(t, MatchesView(m, v))
			}
			assert.Empty(t, FilterByView(messages, &v))
			assert.Equal(t, 0, CountForView(messages, &v))
		})
	}
}

func TestMatchesView_ComposesConditions(t *testing.T) {
	v := models.View{
		ID: "work",
		Conditions: []models.Condition{
			cond(models.ConditionIncludesAny, "work", "business"),
			cond(models.ConditionExcludesAny, "spam"),
		},
	}

	assert.True(t, MatchesView(msg("1", "work", "urgent"), v))
	assert.False(t, MatchesView(msg("1", "work", "spam"), v))
	assert.False(t, MatchesView(msg("2", "urgent"), v))
	assert.True(t, MatchesView(msg("3", "business"), v))
}

func TestMatchesView_EmptyConditionDoesNotWiden(t *testing.T) {
	v := models.View{
		ID: "mixed",
		Conditions: []models.Condition{
			cond(models.ConditionIncludesAll),
			cond(models.ConditionIncludesAll, "finance", "banking"),
		},
	}

	assert.True(t, MatchesView(msg("1", "banking", "finance", "home"), v))
	assert.False(t, MatchesView(msg("2", "banking"), v))
}

func TestMatchesView_DanglingTagIsInert(t *testing.T) {
	// "deleted" no longer exists in any registry; it is just a string here
	m := msg("1", "work", "deleted")

	assert.False(t, MatchesCondition(m, cond(models.ConditionIncludesAny, "ghost")))
	assert.True(t, MatchesCondition(m, cond(models.ConditionExcludesAny, "ghost")))
	assert.True(t, MatchesCondition(m, cond(models.ConditionIncludesAny, "deleted")))

	v := models.View{Conditions: []models.Condition{cond(models.ConditionIncludesAll, "work", "ghost")}}
	assert.False(t, MatchesView(m, v))
}

func TestFilterByView_NilReturnsInput(t *testing.T) {
	messages := []models.Message{msg("3", "x"), msg("1"), msg("2", "y")}

	out := FilterByView(messages, nil)
	assert.Equal(t, messages, out)
	assert.Len(t, out, 3)
	assert.Equal(t, 3, CountForView(messages, nil))
}

func TestFilterByView_PreservesOrder(t *testing.T) {
	messages := []models.Message{
		msg("5", "work"),
		msg("2", "home"),
		msg("9", "work", "urgent"),
		msg("1", "spam", "work"),
		msg("4", "work"),
	}
	v := models.View{Conditions: []models.Condition{
		cond(models.ConditionIncludesAny, "work"),
		cond(models.ConditionExcludesAny, "spam"),
	}}

	out := FilterByView(messages, &v)
	ids := make([]string, 0, len(out))
	for _, m := range out {
		ids = append(ids, m.ID)
	}
	assert.Equal(t, []string{"5", "9", "4"}, ids)
	assert.Equal(t, len(out), CountForView(messages, &v))
}

func TestCountForView_MatchesFilterLength(t *testing.T) {
	messages := []models.Message{
		msg("1", "a"), msg("2", "a", "b"), msg("3", "b", "c"), msg("4"), msg("5", "c"),
	}
	views := []models.View{
		{Conditions: []models.Condition{cond(models.ConditionIncludesAny, "a", "c")}},
		{Conditions: []models.Condition{cond(models.ConditionIncludesAll, "a", "b")}},
		{Conditions: []models.Condition{cond(models.ConditionExcludesAny, "a")}},
		{Conditions: []models.Condition{
			cond(models.ConditionExcludesAny, "a"),
			cond(models.ConditionIncludesAny, "b", "c"),
		}},
	}

	for i := range views {
		assert.Equal(t, len(FilterByView(messages, &views[i])), CountForView(messages, &views[i]))
	}
}

func TestCountsByView(t *testing.T) {
	messages := []models.Message{msg("1", "work"), msg("2", "home"), msg("3", "work", "home")}
	views := []models.View{
		{ID: "work", Conditions: []models.Condition{cond(models.ConditionIncludesAny, "work")}},
		{ID: "home_only", Conditions: []models.Condition{
			cond(models.ConditionIncludesAny, "home"),
			cond(models.ConditionExcludesAny, "work"),
		}},
		{ID: "empty"},
	}

	counts := CountsByView(messages, views)
	assert.Equal(t, map[string]int{"work": 2, "home_only": 1, "empty": 0}, counts)
	assert.Empty(t, CountsByView(messages, nil))
}

func TestVisibleViews(t *testing.T) {
	views := []models.View{
		{ID: "a", Visible: true},
		{ID: "b", Visible: false},
		{ID: "c", Visible: true},
	}

	visible := VisibleViews(views)
	assert.Len(t, visible, 2)
	assert.Equal(t, "a", visible[0].ID)
	assert.Equal(t, "c", visible[1].ID)
}

func TestReferencedTags(t *testing.T) {
	v := models.View{Conditions: []models.Condition{
		cond(models.ConditionIncludesAny, "work", "business"),
		cond(models.ConditionExcludesAny, "spam", "work"),
	}}

	assert.Equal(t, []string{"work", "business", "spam"}, ReferencedTags(v))
	assert.Nil(t, ReferencedTags(models.View{}))
}
