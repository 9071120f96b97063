package services

import (
	"context"
	"time"

	"github.com/ajramos/tagview/internal/models"
)

// TagService is the tag registry: identity, validation and change notification
type TagService interface {
	ListTags() []models.Tag
	GetTag(id string) (models.Tag, bool)
	GetTagsByIDs(ids []string) []models.Tag
	ValidateName(name string) error
	AddTag(name string) (models.Tag, error)
	ImportTags(tags []models.Tag) []models.Tag
	UpdateTag(tag models.Tag) (models.Tag, error)
	AppendNegativeExample(id string, example models.NegativeExample) (models.Tag, error)
	DeleteTag(id string) bool
	SearchTags(query string) []models.Tag
	SimilarTags(name, excludeID string) []models.Tag
	ReorderTags(ids []string) error
	Subscribe(fn func([]models.Tag)) (unsubscribe func())
}

// MutationService applies tag edits to a message collection
type MutationService interface {
	AddTagsToMessage(messages []models.Message, messageID string, tagIDs []string) []models.Message
	RemoveTagFromMessage(messages []models.Message, messageID, tagID string) []models.Message
	RemoveTagWithNegativeExample(messages []models.Message, messageID, tagID string, recordNegative bool) (*MutationResult, error)
}

// ViewService owns the saved view collection and the current selection
type ViewService interface {
	ListViews() []models.View
	GetView(id string) (models.View, bool)
	SaveView(view models.View) (models.View, error)
	DeleteView(id string) bool
	ReorderViews(ids []string) error
	SetVisible(id string, visible bool) error
	AddCondition(viewID string, cond models.Condition) (models.View, error)
	UpdateCondition(viewID string, index int, cond models.Condition) (models.View, error)
	RemoveCondition(viewID string, index int) (models.View, error)
	SelectView(id string) error
	SelectedView() *models.View
	Filter(messages []models.Message) []models.Message
	Counts(messages []models.Message) map[string]int
	Subscribe(fn func([]models.View)) (unsubscribe func())
}

// UndoService handles undo operations for reversible tag edits
type UndoService interface {
	// Record an action that can be undone
	RecordAction(action *UndoableAction) error

	// Undo the last recorded action against the given collection
	UndoLastAction(messages []models.Message) ([]models.Message, *UndoResult, error)

	// Check if there's an action to undo
	HasUndoableAction() bool

	// Get description of what would be undone
	GetUndoDescription() string

	// Get a copy of the pending action, nil when there is none
	LastAction() *UndoableAction

	// Clear undo history
	ClearUndoHistory()
}

// TagWriter persists the full tag list
type TagWriter interface {
	ReplaceTags(ctx context.Context, tags []models.Tag) error
}

// ViewWriter persists the full view list
type ViewWriter interface {
	ReplaceViews(ctx context.Context, views []models.View) error
}

// Data structures

// MutationResult is the outcome of a combined message/registry edit
type MutationResult struct {
	Messages []models.Message
	Tag      *models.Tag // Set when the registry was updated
}

// UndoActionType represents the type of action that can be undone
type UndoActionType string

const (
	UndoActionTagAdd    UndoActionType = "tag_add"
	UndoActionTagRemove UndoActionType = "tag_remove"
)

// UndoableAction represents an action that can be undone
type UndoableAction struct {
	ID          string         `json:"id"`          // Unique identifier
	Type        UndoActionType `json:"type"`        // Type of action
	MessageID   string         `json:"message_id"`  // Affected message
	TagIDs      []string       `json:"tag_ids"`     // Tags actually added or removed
	Timestamp   time.Time      `json:"timestamp"`   // When the action was performed
	Description string         `json:"description"` // Human-readable description
}

// UndoResult represents the result of an undo operation
type UndoResult struct {
	Success     bool           `json:"success"`
	Description string         `json:"description"`
	ActionType  UndoActionType `json:"action_type"`
	MessageID   string         `json:"message_id"`
	TagIDs      []string       `json:"tag_ids"`
}
