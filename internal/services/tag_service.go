package services

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/ajramos/tagview/internal/models"
	"github.com/google/uuid"
)

// Tag name bounds, inclusive, measured in characters after trimming
const (
	TagNameMinLength = 2
	TagNameMaxLength = 50
)

// TagServiceImpl implements TagService
type TagServiceImpl struct {
	mu     sync.RWMutex
	tags   []models.Tag
	issued map[string]struct{} // Every ID seen this session, including deleted ones
	subs   notifier[[]models.Tag]
	newID  func() string
	logger *log.Logger // Optional - for debug logging
}

// NewTagService creates an empty tag registry
func NewTagService() *TagServiceImpl {
	return &TagServiceImpl{
		issued: make(map[string]struct{}),
		newID: func() string {
			return "tag-" + uuid.NewString()
		},
	}
}

// SetLogger sets the logger for debug output
func (s *TagServiceImpl) SetLogger(logger *log.Logger) {
	s.logger = logger
}

// Seed loads an initial tag collection without notifying subscribers.
// Seeded IDs must be non-empty and unique; seeded names are taken as-is.
func (s *TagServiceImpl) Seed(tags []models.Tag) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		id := strings.TrimSpace(t.ID)
		if id == "" {
			return fmt.Errorf("%w: seed tag %q has no id", ErrInvalidInput, t.Name)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: duplicate seed tag id %q", ErrInvalidInput, id)
		}
		seen[id] = struct{}{}
	}

	s.tags = make([]models.Tag, 0, len(tags))
	for _, t := range tags {
		c := t.Clone()
		c.ID = strings.TrimSpace(c.ID)
		s.tags = append(s.tags, c)
		s.issued[c.ID] = struct{}{}
	}
	return nil
}

func (s *TagServiceImpl) ListTags() []models.Tag {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *TagServiceImpl) GetTag(id string) (models.Tag, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexLocked(id); i >= 0 {
		return s.tags[i].Clone(), true
	}
	return models.Tag{}, false
}

// GetTagsByIDs resolves ids in order, skipping any that no longer exist
func (s *TagServiceImpl) GetTagsByIDs(ids []string) []models.Tag {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Tag, 0, len(ids))
	for _, id := range ids {
		if i := s.indexLocked(id); i >= 0 {
			out = append(out, s.tags[i].Clone())
		}
	}
	return out
}

// ValidateName checks a candidate name against length bounds and existing names
func (s *TagServiceImpl) ValidateName(name string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.validateNameLocked(name, "")
}

// validateNameLocked skips the tag with excludeID in the duplicate check
func (s *TagServiceImpl) validateNameLocked(name, excludeID string) error {
	trimmed := strings.TrimSpace(name)
	length := utf8.RuneCountInString(trimmed)

	switch {
	case trimmed == "":
		return &ValidationError{Reason: ReasonEmpty, Message: "Tag name cannot be empty"}
	case length < TagNameMinLength:
		return &ValidationError{
			Reason:  ReasonTooShort,
			Message: fmt.Sprintf("Tag name must be at least %d characters", TagNameMinLength),
		}
	case length > TagNameMaxLength:
		return &ValidationError{
			Reason:  ReasonTooLong,
			Message: fmt.Sprintf("Tag name cannot exceed %d characters", TagNameMaxLength),
		}
	}

	lower := strings.ToLower(trimmed)
	for _, t := range s.tags {
		if t.ID == excludeID {
			continue
		}
		if strings.ToLower(strings.TrimSpace(t.Name)) == lower {
			return &ValidationError{Reason: ReasonDuplicate, Message: "A tag with this name already exists"}
		}
	}
	return nil
}

// AddTag validates name and appends a new tag with a fresh ID
func (s *TagServiceImpl) AddTag(name string) (models.Tag, error) {
	s.mu.Lock()
	if err := s.validateNameLocked(name, ""); err != nil {
		s.mu.Unlock()
		return models.Tag{}, err
	}

	tag := models.Tag{ID: s.nextIDLocked(), Name: strings.TrimSpace(name)}
	s.tags = append(s.tags, tag)
	snapshot := s.snapshotLocked()
	turn := s.subs.ticket()
	s.mu.Unlock()

	if s.logger != nil {
		s.logger.Printf("tags: added %s (%q)", tag.ID, tag.Name)
	}
	s.subs.publish(turn, snapshot)
	return tag.Clone(), nil
}

// ImportTags merges externally sourced tags (for example mail labels) into the
// registry. Tags whose ID was already issued or whose name fails validation
// are skipped. Subscribers are notified once when anything was added.
func (s *TagServiceImpl) ImportTags(tags []models.Tag) []models.Tag {
	s.mu.Lock()
	added := make([]models.Tag, 0, len(tags))
	for _, t := range tags {
		id := strings.TrimSpace(t.ID)
		if id == "" {
			continue
		}
		if _, used := s.issued[id]; used {
			continue
		}
		if err := s.validateNameLocked(t.Name, ""); err != nil {
			continue
		}
		c := t.Clone()
		c.ID = id
		c.Name = strings.TrimSpace(c.Name)
		s.tags = append(s.tags, c)
		s.issued[id] = struct{}{}
		added = append(added, c.Clone())
	}
	if len(added) == 0 {
		s.mu.Unlock()
		return added
	}
	snapshot := s.snapshotLocked()
	turn := s.subs.ticket()
	s.mu.Unlock()

	if s.logger != nil {
		s.logger.Printf("tags: imported %d tag(s)", len(added))
	}
	s.subs.publish(turn, snapshot)
	return added
}

// UpdateTag replaces name, instructions, examples and negative examples of an
// existing tag. The name is only re-validated when it changed.
func (s *TagServiceImpl) UpdateTag(tag models.Tag) (models.Tag, error) {
	s.mu.Lock()
	i := s.indexLocked(tag.ID)
	if i < 0 {
		s.mu.Unlock()
		return models.Tag{}, fmt.Errorf("%w: %s", ErrTagNotFound, tag.ID)
	}

	name := strings.TrimSpace(tag.Name)
	if name != s.tags[i].Name {
		if err := s.validateNameLocked(name, tag.ID); err != nil {
			s.mu.Unlock()
			return models.Tag{}, err
		}
	}

	instructions := normalizeInstructions(tag.Instructions)
	if len(instructions) > models.MaxTagInstructions {
		s.mu.Unlock()
		return models.Tag{}, &ValidationError{
			Reason:  ReasonTooManyInstructions,
			Message: fmt.Sprintf("Tag cannot have more than %d instructions", models.MaxTagInstructions),
		}
	}

	updated := tag.Clone()
	updated.Name = name
	updated.Instructions = instructions
	s.tags[i] = updated
	snapshot := s.snapshotLocked()
	turn := s.subs.ticket()
	s.mu.Unlock()

	if s.logger != nil {
		s.logger.Printf("tags: updated %s (%q)", updated.ID, updated.Name)
	}
	s.subs.publish(turn, snapshot)
	return updated.Clone(), nil
}

// AppendNegativeExample adds example to the tag's negative examples in a
// single registry update.
func (s *TagServiceImpl) AppendNegativeExample(id string, example models.NegativeExample) (models.Tag, error) {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return models.Tag{}, fmt.Errorf("%w: %s", ErrTagNotFound, id)
	}
	updated := s.tags[i].Clone()
	updated.NegativeExamples = append(updated.NegativeExamples, example)
	s.tags[i] = updated
	snapshot := s.snapshotLocked()
	turn := s.subs.ticket()
	s.mu.Unlock()

	if s.logger != nil {
		s.logger.Printf("tags: negative example added to %s (%d total)", id, len(updated.NegativeExamples))
	}
	s.subs.publish(turn, snapshot)
	return updated.Clone(), nil
}

// DeleteTag removes the tag if present. Views and messages that reference the
// ID are left alone; the ID is never reissued.
func (s *TagServiceImpl) DeleteTag(id string) bool {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	s.tags = append(s.tags[:i:i], s.tags[i+1:]...)
	snapshot := s.snapshotLocked()
	turn := s.subs.ticket()
	s.mu.Unlock()

	if s.logger != nil {
		s.logger.Printf("tags: deleted %s", id)
	}
	s.subs.publish(turn, snapshot)
	return true
}

// SearchTags returns tags whose name contains query, case-insensitively
func (s *TagServiceImpl) SearchTags(query string) []models.Tag {
	return s.matchNames(strings.ToLower(query), "")
}

// SimilarTags hints at near-duplicates while renaming: tags other than
// excludeID whose name contains the trimmed name
func (s *TagServiceImpl) SimilarTags(name, excludeID string) []models.Tag {
	q := strings.ToLower(strings.TrimSpace(name))
	if q == "" {
		return []models.Tag{}
	}
	return s.matchNames(q, excludeID)
}

func (s *TagServiceImpl) matchNames(lowerQuery, excludeID string) []models.Tag {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Tag, 0)
	for _, t := range s.tags {
		if excludeID != "" && t.ID == excludeID {
			continue
		}
		if strings.Contains(strings.ToLower(t.Name), lowerQuery) {
			out = append(out, t.Clone())
		}
	}
	return out
}

// ReorderTags applies a new order. ids must be a permutation of the current IDs.
func (s *TagServiceImpl) ReorderTags(ids []string) error {
	s.mu.Lock()
	if len(ids) != len(s.tags) {
		s.mu.Unlock()
		return fmt.Errorf("%w: expected %d tag ids, got %d", ErrInvalidInput, len(s.tags), len(ids))
	}
	byID := make(map[string]models.Tag, len(s.tags))
	for _, t := range s.tags {
		byID[t.ID] = t
	}
	reordered := make([]models.Tag, 0, len(ids))
	for _, id := range ids {
		t, ok := byID[id]
		if !ok {
			s.mu.Unlock()
			return fmt.Errorf("%w: unknown or repeated tag id %q", ErrInvalidInput, id)
		}
		delete(byID, id)
		reordered = append(reordered, t)
	}
	s.tags = reordered
	snapshot := s.snapshotLocked()
	turn := s.subs.ticket()
	s.mu.Unlock()

	s.subs.publish(turn, snapshot)
	return nil
}

// Subscribe registers fn to receive the full tag list after every mutation.
// The returned function unsubscribes and may be called any number of times.
func (s *TagServiceImpl) Subscribe(fn func([]models.Tag)) func() {
	return s.subs.subscribe(fn)
}

func (s *TagServiceImpl) indexLocked(id string) int {
	for i, t := range s.tags {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (s *TagServiceImpl) snapshotLocked() []models.Tag {
	out := make([]models.Tag, len(s.tags))
	for i, t := range s.tags {
		out[i] = t.Clone()
	}
	return out
}

func (s *TagServiceImpl) nextIDLocked() string {
	for {
		id := s.newID()
		if _, used := s.issued[id]; !used {
			s.issued[id] = struct{}{}
			return id
		}
	}
}

func normalizeInstructions(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, inst := range in {
		if trimmed := strings.TrimSpace(inst); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
