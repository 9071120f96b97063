package services

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/ajramos/tagview/internal/models"
	"github.com/google/uuid"
)

// UndoServiceImpl implements UndoService with a single level of history
type UndoServiceImpl struct {
	lastAction *UndoableAction
	mu         sync.RWMutex
	logger     *log.Logger // Optional - for debug logging
}

// NewUndoService creates a new undo service
func NewUndoService() *UndoServiceImpl {
	return &UndoServiceImpl{}
}

// SetLogger sets the logger for debug output
func (s *UndoServiceImpl) SetLogger(logger *log.Logger) {
	s.logger = logger
}

// RecordAction records an action for potential undo
func (s *UndoServiceImpl) RecordAction(action *UndoableAction) error {
	if action == nil {
		return fmt.Errorf("action cannot be nil")
	}
	if action.ID == "" {
		action.ID = uuid.New().String()
	}
	if action.Timestamp.IsZero() {
		action.Timestamp = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastAction = action
	return nil
}

// UndoLastAction reverses the last recorded tag edit on messages. Negative
// examples recorded alongside a removal are kept.
func (s *UndoServiceImpl) UndoLastAction(messages []models.Message) ([]models.Message, *UndoResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lastAction == nil {
		return messages, &UndoResult{Success: false, Description: "No action to undo"}, ErrNothingToUndo
	}

	action := s.lastAction
	result := &UndoResult{
		Success:    true,
		ActionType: action.Type,
		MessageID:  action.MessageID,
		TagIDs:     action.TagIDs,
	}

	if indexOfMessage(messages, action.MessageID) < 0 {
		result.Success = false
		result.Description = "Message is no longer available"
		return messages, result, fmt.Errorf("%w: %s", ErrMessageNotFound, action.MessageID)
	}

	out := messages
	switch action.Type {
	case UndoActionTagAdd:
		for _, id := range action.TagIDs {
			out, _ = removeTag(out, action.MessageID, id)
		}
		result.Description = fmt.Sprintf("Removed %d tag(s)", len(action.TagIDs))
	case UndoActionTagRemove:
		out, _ = addTags(out, action.MessageID, action.TagIDs)
		result.Description = fmt.Sprintf("Re-added %d tag(s)", len(action.TagIDs))
	default:
		result.Success = false
		result.Description = fmt.Sprintf("Unknown action type: %s", action.Type)
		return messages, result, fmt.Errorf("%w: unknown undo action %q", ErrInvalidInput, action.Type)
	}

	if s.logger != nil {
		s.logger.Printf("undo: %s on %s", action.Type, action.MessageID)
	}
	s.lastAction = nil
	return out, result, nil
}

// HasUndoableAction checks if there's an action that can be undone
func (s *UndoServiceImpl) HasUndoableAction() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastAction != nil
}

// GetUndoDescription returns a description of what will be undone
func (s *UndoServiceImpl) GetUndoDescription() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.lastAction == nil {
		return "No action to undo"
	}
	return s.lastAction.Description
}

// ClearUndoHistory clears the undo history
func (s *UndoServiceImpl) ClearUndoHistory() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastAction = nil
}

// LastAction returns a copy of the pending action, or nil
func (s *UndoServiceImpl) LastAction() *UndoableAction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.lastAction == nil {
		return nil
	}
	c := *s.lastAction
	c.TagIDs = append([]string(nil), s.lastAction.TagIDs...)
	return &c
}
