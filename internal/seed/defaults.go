package seed

import "github.com/ajramos/tagview/internal/models"

// DefaultTags is the starter registry written on first run when no tag seed
// file is configured
func DefaultTags() []models.Tag {
	return []models.Tag{
		{ID: "document", Name: "Document"},
		{ID: "official", Name: "Official"},
		{ID: "living", Name: "Living"},
		{ID: "home", Name: "Home"},
		{ID: "utilities", Name: "Utilities"},
		{ID: "banking", Name: "Banking"},
		{ID: "finance", Name: "Finance"},
		{ID: "work", Name: "Work"},
		{ID: "education", Name: "Education"},
		{ID: "school", Name: "School"},
		{ID: "business", Name: "Business"},
		{ID: "gov", Name: "Government"},
		{ID: "tax", Name: "Tax"},
		{ID: "health-ins", Name: "Health Insurance"},
		{ID: "invest", Name: "Investment"},
		{ID: "housing", Name: "Housing"},
		{ID: "job", Name: "Job"},
		{ID: "prof", Name: "Professional"},
	}
}

// DefaultViews is the starter view list
func DefaultViews() []models.View {
	anyOf := func(id, name string, tags ...string) models.View {
		return models.View{
			ID:         id,
			Name:       name,
			Visible:    true,
			Conditions: []models.Condition{{Type: models.ConditionIncludesAny, Tags: tags}},
		}
	}
	return []models.View{
		anyOf("docs", "Official Documents", "document", "official"),
		anyOf("living", "Living", "living", "home", "utilities"),
		anyOf("banking", "Banking", "banking", "finance"),
		anyOf("work", "Work", "work"),
		anyOf("education", "Education", "education", "school"),
		anyOf("business", "Business", "business"),
	}
}
