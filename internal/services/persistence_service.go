package services

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/ajramos/tagview/internal/models"
)

// PersistenceServiceImpl writes registry and view changes through to storage
// as they happen. Notifications carry no error channel, so failures are
// logged and kept for Err.
type PersistenceServiceImpl struct {
	ctx     context.Context
	tags    TagWriter
	views   ViewWriter
	mu      sync.Mutex
	lastErr error
	logger  *log.Logger // Optional - for debug logging
}

// NewPersistenceService creates a write-through persister. Either writer may be nil.
func NewPersistenceService(ctx context.Context, tags TagWriter, views ViewWriter) *PersistenceServiceImpl {
	return &PersistenceServiceImpl{ctx: ctx, tags: tags, views: views}
}

// SetLogger sets the logger for debug output
func (p *PersistenceServiceImpl) SetLogger(logger *log.Logger) {
	p.logger = logger
}

// AttachTags subscribes to the registry; the returned func detaches
func (p *PersistenceServiceImpl) AttachTags(registry TagService) func() {
	if p.tags == nil {
		return func() {}
	}
	return registry.Subscribe(func(tags []models.Tag) {
		p.record(p.tags.ReplaceTags(p.ctx, tags), "tags")
	})
}

// AttachViews subscribes to the view service; the returned func detaches
func (p *PersistenceServiceImpl) AttachViews(views ViewService) func() {
	if p.views == nil {
		return func() {}
	}
	return views.Subscribe(func(list []models.View) {
		p.record(p.views.ReplaceViews(p.ctx, list), "views")
	})
}

// Err returns the most recent write failure, if any
func (p *PersistenceServiceImpl) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastErr
}

func (p *PersistenceServiceImpl) record(err error, what string) {
	if err == nil {
		return
	}
	err = fmt.Errorf("failed to persist %s: %w", what, err)
	if p.logger != nil {
		p.logger.Printf("persistence: %v", err)
	}
	p.mu.Lock()
	p.lastErr = err
	p.mu.Unlock()
}
