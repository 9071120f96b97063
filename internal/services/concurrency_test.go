package services

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/ajramos/tagview/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestTagService_ConcurrentAccess(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := NewTagService()
	var notified sync.Map
	s.Subscribe(func(tags []models.Tag) { notified.Store(len(tags), true) })

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = s.AddTag(fmt.Sprintf("tag %02d", i))
			_ = s.ListTags()
			_ = s.SearchTags("tag")
		}(i)
	}
	wg.Wait()

	tags := s.ListTags()
	assert.Len(t, tags, 20)
	seen := make(map[string]bool)
	for _, tag := range tags {
		assert.False(t, seen[tag.ID], "duplicate id %s", tag.ID)
		seen[tag.ID] = true
	}
	_, ok := notified.Load(20)
	assert.True(t, ok)
}

func TestViewService_ConcurrentSelectAndCount(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := NewViewService(testViews())
	messages := testMessages()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = s.SelectView("work")
			_ = s.Filter(messages)
		}()
		go func() {
			defer wg.Done()
			_ = s.Counts(messages)
			_ = s.SetVisible("banking", true)
		}()
	}
	wg.Wait()

	assert.Equal(t, "work", s.SelectedView().ID)
	assert.Equal(t, map[string]int{"work": 2, "banking": 1}, s.Counts(messages))
}

func TestTagService_LastNotificationIsLatest(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := NewTagService()
	entered := make(chan struct{})
	release := make(chan struct{})
	var first sync.Once
	var mu sync.Mutex
	var last []models.Tag
	s.Subscribe(func(tags []models.Tag) {
		first.Do(func() {
			close(entered)
			<-release
		})
		mu.Lock()
		last = tags
		mu.Unlock()
	})

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, err := s.AddTag("alpha")
		assert.NoError(t, err)
	}()
	<-entered

	go func() {
		defer wg.Done()
		_, err := s.AddTag("beta")
		assert.NoError(t, err)
	}()
	// beta is applied while alpha's delivery is still in progress
	require.Eventually(t, func() bool { return len(s.ListTags()) == 2 }, time.Second, time.Millisecond)
	close(release)
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Len(t, last, 2)
	assert.Equal(t, s.ListTags(), last)
}

func TestViewService_LastNotificationIsLatest(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := NewViewService(testViews())
	entered := make(chan struct{})
	release := make(chan struct{})
	var first sync.Once
	var mu sync.Mutex
	var last []models.View
	s.Subscribe(func(views []models.View) {
		first.Do(func() {
			close(entered)
			<-release
		})
		mu.Lock()
		last = views
		mu.Unlock()
	})

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		assert.NoError(t, s.SetVisible("banking", true))
	}()
	<-entered

	go func() {
		defer wg.Done()
		assert.True(t, s.DeleteView("work"))
	}()
	require.Eventually(t, func() bool { return len(s.ListViews()) == 1 }, time.Second, time.Millisecond)
	close(release)
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, last, 1)
	assert.Equal(t, "banking", last[0].ID)
	assert.True(t, last[0].Visible)
}
