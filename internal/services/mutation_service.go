package services

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/ajramos/tagview/internal/models"
)

// MutationServiceImpl implements MutationService
type MutationServiceImpl struct {
	tags        TagService
	undoService UndoService // Optional - for recording undo actions
	now         func() time.Time
	logger      *log.Logger // Optional - for debug logging
}

// NewMutationService creates a new mutation service backed by a tag registry
func NewMutationService(tags TagService) *MutationServiceImpl {
	return &MutationServiceImpl{
		tags: tags,
		now:  time.Now,
	}
}

// SetUndoService sets the undo service for recording undo actions
func (s *MutationServiceImpl) SetUndoService(undoService UndoService) {
	s.undoService = undoService
}

// SetLogger sets the logger for debug output
func (s *MutationServiceImpl) SetLogger(logger *log.Logger) {
	s.logger = logger
}

// SetClock overrides the time source used for negative example timestamps
func (s *MutationServiceImpl) SetClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// AddTagsToMessage unions tagIDs into the target message's tags. The input
// slice is never modified; other messages are carried over as-is.
func (s *MutationServiceImpl) AddTagsToMessage(messages []models.Message, messageID string, tagIDs []string) []models.Message {
	out, added := addTags(messages, messageID, tagIDs)
	if len(added) > 0 && s.undoService != nil {
		_ = s.undoService.RecordAction(&UndoableAction{
			Type:        UndoActionTagAdd,
			MessageID:   messageID,
			TagIDs:      added,
			Description: fmt.Sprintf("Add %s", strings.Join(added, ", ")),
		})
	}
	return out
}

// RemoveTagFromMessage drops tagID from the target message. It is a no-op
// when the message does not carry the tag.
func (s *MutationServiceImpl) RemoveTagFromMessage(messages []models.Message, messageID, tagID string) []models.Message {
	out, removed := removeTag(messages, messageID, tagID)
	if removed && s.undoService != nil {
		_ = s.undoService.RecordAction(&UndoableAction{
			Type:        UndoActionTagRemove,
			MessageID:   messageID,
			TagIDs:      []string{tagID},
			Description: fmt.Sprintf("Remove %s", tagID),
		})
	}
	return out
}

// RemoveTagWithNegativeExample removes tagID from the message and, when
// recordNegative is set, appends a snapshot of the message to the tag's
// negative examples. Recording requires the message to carry an existing tag.
// Preconditions are checked before anything changes; if the registry update
// fails the message change is discarded too.
func (s *MutationServiceImpl) RemoveTagWithNegativeExample(messages []models.Message, messageID, tagID string, recordNegative bool) (*MutationResult, error) {
	idx := indexOfMessage(messages, messageID)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrMessageNotFound, messageID)
	}

	target := messages[idx]
	if recordNegative {
		if _, ok := s.tags.GetTag(tagID); !ok {
			return nil, fmt.Errorf("%w: %s", ErrTagNotFound, tagID)
		}
		if !target.HasTag(tagID) {
			return nil, fmt.Errorf("%w: %s on %s", ErrTagNotOnMessage, tagID, messageID)
		}
	}

	updatedMessages, removed := removeTag(messages, messageID, tagID)
	result := &MutationResult{Messages: updatedMessages}

	if recordNegative {
		updated, err := s.tags.AppendNegativeExample(tagID, models.NegativeExample{
			Subject:   target.Subject,
			Preview:   target.Preview,
			Timestamp: s.now(),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to record negative example: %w", err)
		}
		result.Tag = &updated
		if s.logger != nil {
			s.logger.Printf("mutations: recorded negative example for %s from message %s", tagID, messageID)
		}
	}

	if removed && s.undoService != nil {
		_ = s.undoService.RecordAction(&UndoableAction{
			Type:        UndoActionTagRemove,
			MessageID:   messageID,
			TagIDs:      []string{tagID},
			Description: fmt.Sprintf("Remove %s", tagID),
		})
	}
	return result, nil
}

func indexOfMessage(messages []models.Message, messageID string) int {
	for i, m := range messages {
		if m.ID == messageID {
			return i
		}
	}
	return -1
}

// addTags returns the updated collection and the tag IDs that were newly added
func addTags(messages []models.Message, messageID string, tagIDs []string) ([]models.Message, []string) {
	idx := indexOfMessage(messages, messageID)
	if idx < 0 {
		return messages, nil
	}

	target := messages[idx]
	var added []string
	for _, id := range tagIDs {
		if strings.TrimSpace(id) == "" || target.HasTag(id) || containsString(added, id) {
			continue
		}
		added = append(added, id)
	}
	if len(added) == 0 {
		return messages, nil
	}

	updated := target.Clone()
	updated.Tags = append(updated.Tags, added...)
	return replaceAt(messages, idx, updated), added
}

// removeTag returns the updated collection and whether the tag was present
func removeTag(messages []models.Message, messageID, tagID string) ([]models.Message, bool) {
	idx := indexOfMessage(messages, messageID)
	if idx < 0 || !messages[idx].HasTag(tagID) {
		return messages, false
	}

	target := messages[idx]
	updated := target
	updated.Tags = make([]string, 0, len(target.Tags))
	for _, t := range target.Tags {
		if t != tagID {
			updated.Tags = append(updated.Tags, t)
		}
	}
	return replaceAt(messages, idx, updated), true
}

func replaceAt(messages []models.Message, idx int, m models.Message) []models.Message {
	out := make([]models.Message, len(messages))
	copy(out, messages)
	out[idx] = m
	return out
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
