package services

import (
	"context"
	"errors"
	"testing"

	"github.com/ajramos/tagview/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockTagWriter implements TagWriter for testing
type MockTagWriter struct {
	mock.Mock
}

func (m *MockTagWriter) ReplaceTags(ctx context.Context, tags []models.Tag) error {
	args := m.Called(ctx, tags)
	return args.Error(0)
}

// MockViewWriter implements ViewWriter for testing
type MockViewWriter struct {
	mock.Mock
}

func (m *MockViewWriter) ReplaceViews(ctx context.Context, views []models.View) error {
	args := m.Called(ctx, views)
	return args.Error(0)
}

func TestPersistenceService_WritesTagsThrough(t *testing.T) {
	ctx := context.Background()
	writer := &MockTagWriter{}
	registry := NewTagService()
	p := NewPersistenceService(ctx, writer, nil)

	writer.On("ReplaceTags", ctx, mock.MatchedBy(func(tags []models.Tag) bool {
		return len(tags) == 1 && tags[0].Name == "Travel"
	})).Return(nil).Once()

	detach := p.AttachTags(registry)
	_, err := registry.AddTag("Travel")
	require.NoError(t, err)
	writer.AssertExpectations(t)
	assert.NoError(t, p.Err())

	detach()
	_, err = registry.AddTag("Family")
	require.NoError(t, err)
	writer.AssertNumberOfCalls(t, "ReplaceTags", 1)
}

func TestPersistenceService_WritesViewsThrough(t *testing.T) {
	ctx := context.Background()
	writer := &MockViewWriter{}
	views := NewViewService(testViews())
	p := NewPersistenceService(ctx, nil, writer)

	writer.On("ReplaceViews", ctx, mock.AnythingOfType("[]models.View")).Return(nil)

	p.AttachViews(views)
	require.NoError(t, views.SetVisible("banking", true))
	writer.AssertNumberOfCalls(t, "ReplaceViews", 1)
}

func TestPersistenceService_RecordsFailure(t *testing.T) {
	ctx := context.Background()
	writer := &MockTagWriter{}
	registry := seededTagService(t)
	p := NewPersistenceService(ctx, writer, nil)

	diskFull := errors.New("disk full")
	writer.On("ReplaceTags", ctx, mock.Anything).Return(diskFull)

	p.AttachTags(registry)
	assert.True(t, registry.DeleteTag("home"))

	// The in-memory mutation stands; the write error is kept
	_, ok := registry.GetTag("home")
	assert.False(t, ok)
	assert.ErrorIs(t, p.Err(), diskFull)
	assert.Contains(t, p.Err().Error(), "failed to persist tags")
}

func TestPersistenceService_NilWriters(t *testing.T) {
	p := NewPersistenceService(context.Background(), nil, nil)
	registry := NewTagService()
	views := NewViewService(nil)

	detachTags := p.AttachTags(registry)
	detachViews := p.AttachViews(views)
	assert.Equal(t, 0, registry.subs.len())
	assert.Equal(t, 0, views.subs.len())

	detachTags()
	detachViews()
}
