package services

import (
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/ajramos/tagview/internal/filter"
	"github.com/ajramos/tagview/internal/models"
	"github.com/google/uuid"
)

// ViewServiceImpl implements ViewService
type ViewServiceImpl struct {
	mu       sync.RWMutex
	views    []models.View
	selected string
	subs     notifier[[]models.View]
	logger   *log.Logger // Optional - for debug logging
}

// NewViewService creates a view service over an initial collection
func NewViewService(views []models.View) *ViewServiceImpl {
	s := &ViewServiceImpl{views: make([]models.View, 0, len(views))}
	for _, v := range views {
		s.views = append(s.views, v.Clone())
	}
	return s
}

// SetLogger sets the logger for debug output
func (s *ViewServiceImpl) SetLogger(logger *log.Logger) {
	s.logger = logger
}

func (s *ViewServiceImpl) ListViews() []models.View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *ViewServiceImpl) GetView(id string) (models.View, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexLocked(id); i >= 0 {
		return s.views[i].Clone(), true
	}
	return models.View{}, false
}

// SaveView creates the view, or replaces the one with the same ID.
// An empty ID gets a generated one.
func (s *ViewServiceImpl) SaveView(view models.View) (models.View, error) {
	if err := validateView(view); err != nil {
		return models.View{}, err
	}

	v := view.Clone()
	v.Name = strings.TrimSpace(v.Name)

	s.mu.Lock()
	if strings.TrimSpace(v.ID) == "" {
		v.ID = "view-" + uuid.NewString()
	}
	if i := s.indexLocked(v.ID); i >= 0 {
		s.views[i] = v
	} else {
		s.views = append(s.views, v)
	}
	snapshot := s.snapshotLocked()
	turn := s.subs.ticket()
	s.mu.Unlock()

	if s.logger != nil {
		s.logger.Printf("views: saved %s (%q, %d conditions)", v.ID, v.Name, len(v.Conditions))
	}
	s.subs.publish(turn, snapshot)
	return v.Clone(), nil
}

// DeleteView removes a view; the selection is cleared if it pointed at it
func (s *ViewServiceImpl) DeleteView(id string) bool {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	s.views = append(s.views[:i:i], s.views[i+1:]...)
	if s.selected == id {
		s.selected = ""
	}
	snapshot := s.snapshotLocked()
	turn := s.subs.ticket()
	s.mu.Unlock()

	s.subs.publish(turn, snapshot)
	return true
}

// ReorderViews applies a new order. ids must be a permutation of the current IDs.
func (s *ViewServiceImpl) ReorderViews(ids []string) error {
	s.mu.Lock()
	if len(ids) != len(s.views) {
		s.mu.Unlock()
		return fmt.Errorf("%w: expected %d view ids, got %d", ErrInvalidInput, len(s.views), len(ids))
	}
	byID := make(map[string]models.View, len(s.views))
	for _, v := range s.views {
		byID[v.ID] = v
	}
	reordered := make([]models.View, 0, len(ids))
	for _, id := range ids {
		v, ok := byID[id]
		if !ok {
			s.mu.Unlock()
			return fmt.Errorf("%w: unknown or repeated view id %q", ErrInvalidInput, id)
		}
		delete(byID, id)
		reordered = append(reordered, v)
	}
	s.views = reordered
	snapshot := s.snapshotLocked()
	turn := s.subs.ticket()
	s.mu.Unlock()

	s.subs.publish(turn, snapshot)
	return nil
}

func (s *ViewServiceImpl) SetVisible(id string, visible bool) error {
	_, err := s.modify(id, func(v *models.View) error {
		v.Visible = visible
		return nil
	})
	return err
}

func (s *ViewServiceImpl) AddCondition(viewID string, cond models.Condition) (models.View, error) {
	return s.modify(viewID, func(v *models.View) error {
		if !cond.Type.Valid() {
			return fmt.Errorf("%w: %q", ErrInvalidCondition, cond.Type)
		}
		v.Conditions = append(v.Conditions, models.Condition{Type: cond.Type, Tags: dedupe(cond.Tags)})
		return nil
	})
}

func (s *ViewServiceImpl) UpdateCondition(viewID string, index int, cond models.Condition) (models.View, error) {
	return s.modify(viewID, func(v *models.View) error {
		if index < 0 || index >= len(v.Conditions) {
			return fmt.Errorf("%w: condition index %d out of range", ErrInvalidInput, index)
		}
		if !cond.Type.Valid() {
			return fmt.Errorf("%w: %q", ErrInvalidCondition, cond.Type)
		}
		v.Conditions[index] = models.Condition{Type: cond.Type, Tags: dedupe(cond.Tags)}
		return nil
	})
}

func (s *ViewServiceImpl) RemoveCondition(viewID string, index int) (models.View, error) {
	return s.modify(viewID, func(v *models.View) error {
		if index < 0 || index >= len(v.Conditions) {
			return fmt.Errorf("%w: condition index %d out of range", ErrInvalidInput, index)
		}
		v.Conditions = append(v.Conditions[:index:index], v.Conditions[index+1:]...)
		return nil
	})
}

// SelectView sets the current view. An empty id selects the unfiltered inbox.
func (s *ViewServiceImpl) SelectView(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id != "" && s.indexLocked(id) < 0 {
		return fmt.Errorf("%w: %s", ErrViewNotFound, id)
	}
	s.selected = id
	return nil
}

// SelectedView returns the current view, or nil for the unfiltered inbox
func (s *ViewServiceImpl) SelectedView() *models.View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexLocked(s.selected); s.selected != "" && i >= 0 {
		v := s.views[i].Clone()
		return &v
	}
	return nil
}

// Filter narrows messages to the selected view
func (s *ViewServiceImpl) Filter(messages []models.Message) []models.Message {
	return filter.FilterByView(messages, s.SelectedView())
}

// Counts returns match counts for the visible views
func (s *ViewServiceImpl) Counts(messages []models.Message) map[string]int {
	return filter.CountsByView(messages, filter.VisibleViews(s.ListViews()))
}

// Subscribe registers fn to receive the full view list after every mutation
func (s *ViewServiceImpl) Subscribe(fn func([]models.View)) func() {
	return s.subs.subscribe(fn)
}

func (s *ViewServiceImpl) modify(id string, apply func(v *models.View) error) (models.View, error) {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return models.View{}, fmt.Errorf("%w: %s", ErrViewNotFound, id)
	}
	v := s.views[i].Clone()
	if err := apply(&v); err != nil {
		s.mu.Unlock()
		return models.View{}, err
	}
	s.views[i] = v
	snapshot := s.snapshotLocked()
	turn := s.subs.ticket()
	s.mu.Unlock()

	s.subs.publish(turn, snapshot)
	return v.Clone(), nil
}

func (s *ViewServiceImpl) indexLocked(id string) int {
	for i, v := range s.views {
		if v.ID == id {
			return i
		}
	}
	return -1
}

func (s *ViewServiceImpl) snapshotLocked() []models.View {
	out := make([]models.View, len(s.views))
	for i, v := range s.views {
		out[i] = v.Clone()
	}
	return out
}

func validateView(view models.View) error {
	if strings.TrimSpace(view.Name) == "" {
		return fmt.Errorf("%w: view name cannot be empty", ErrInvalidInput)
	}
	for i, c := range view.Conditions {
		if !c.Type.Valid() {
			return fmt.Errorf("%w: condition %d has type %q", ErrInvalidCondition, i, c.Type)
		}
	}
	return nil
}

func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id != "" && !containsString(out, id) {
			out = append(out, id)
		}
	}
	return out
}
