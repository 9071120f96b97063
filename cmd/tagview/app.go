package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/ajramos/tagview/internal/config"
	"github.com/ajramos/tagview/internal/db"
	"github.com/ajramos/tagview/internal/models"
	"github.com/ajramos/tagview/internal/render"
	"github.com/ajramos/tagview/internal/seed"
	"github.com/ajramos/tagview/internal/services"
)

// App wires storage, services and the renderer for one command invocation
type App struct {
	cfg    *config.Config
	logger *log.Logger
	logOut io.Closer

	store     *db.Store
	tagStore  *db.TagStore
	viewStore *db.ViewStore
	msgStore  *db.MessageStore
	settings  *db.SettingsStore

	tags     *services.TagServiceImpl
	views    *services.ViewServiceImpl
	mutation *services.MutationServiceImpl
	undo     *services.UndoServiceImpl
	persist  *services.PersistenceServiceImpl
	renderer *render.Renderer

	messages []models.Message
	detach   []func()
}

// NewApp opens the database, seeds it on first run and loads tags, views and
// messages into the services
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{cfg: cfg}
	a.initLogger()

	store, err := db.Open(ctx, cfg.DatabasePath)
	if err != nil {
		a.closeLogger()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	a.store = store
	a.tagStore = db.NewTagStore(store)
	a.viewStore = db.NewViewStore(store)
	a.msgStore = db.NewMessageStore(store)
	a.settings = db.NewSettingsStore(store)

	if err := a.load(ctx); err != nil {
		_ = store.Close()
		a.closeLogger()
		return nil, err
	}
	return a, nil
}

func (a *App) load(ctx context.Context) error {
	if err := a.seedIfEmpty(ctx); err != nil {
		return err
	}

	tags, err := a.tagStore.ListTags(ctx)
	if err != nil {
		return fmt.Errorf("failed to load tags: %w", err)
	}
	a.tags = services.NewTagService()
	a.tags.SetLogger(a.logger)
	if err := a.tags.Seed(tags); err != nil {
		return fmt.Errorf("failed to load tags: %w", err)
	}

	views, err := a.viewStore.ListViews(ctx)
	if err != nil {
		return fmt.Errorf("failed to load views: %w", err)
	}
	a.views = services.NewViewService(views)
	a.views.SetLogger(a.logger)

	if id, ok, err := a.settings.Get(ctx, db.SettingSelectedView); err != nil {
		return fmt.Errorf("failed to load selected view: %w", err)
	} else if ok && id != "" {
		if err := a.views.SelectView(id); err != nil && a.logger != nil {
			a.logger.Printf("app: stored selection %q ignored: %v", id, err)
		}
	}

	a.messages, err = a.msgStore.ListMessages(ctx)
	if err != nil {
		return fmt.Errorf("failed to load messages: %w", err)
	}

	a.undo = services.NewUndoService()
	a.undo.SetLogger(a.logger)
	if err := a.restoreUndo(ctx); err != nil {
		return err
	}

	a.mutation = services.NewMutationService(a.tags)
	a.mutation.SetUndoService(a.undo)
	a.mutation.SetLogger(a.logger)

	a.persist = services.NewPersistenceService(ctx, a.tagStore, a.viewStore)
	a.persist.SetLogger(a.logger)
	a.detach = append(a.detach, a.persist.AttachTags(a.tags), a.persist.AttachViews(a.views))

	a.renderer = render.NewRenderer(a.cfg.Display.SenderWidth, a.cfg.Display.SubjectWidth, a.cfg.Display.DateFormat)
	a.renderer.SetTags(a.tags.ListTags())
	a.detach = append(a.detach, a.tags.Subscribe(a.renderer.SetTags))
	return nil
}

// seedIfEmpty fills a fresh database from the configured seed files, or from
// the built-in starter tags and views when none are set
func (a *App) seedIfEmpty(ctx context.Context) error {
	if _, seeded, err := a.settings.Get(ctx, db.SettingSeeded); err != nil {
		return fmt.Errorf("failed to read seed state: %w", err)
	} else if seeded {
		return nil
	}

	tags := seed.DefaultTags()
	if a.cfg.Seed.Tags != "" {
		loaded, err := seed.LoadTags(a.cfg.Seed.Tags)
		if err != nil {
			return err
		}
		tags = loaded
	}
	views := seed.DefaultViews()
	if a.cfg.Seed.Views != "" {
		loaded, err := seed.LoadViews(a.cfg.Seed.Views)
		if err != nil {
			return err
		}
		views = loaded
	}
	var messages []models.Message
	if a.cfg.Seed.Messages != "" {
		loaded, err := seed.LoadMessages(a.cfg.Seed.Messages)
		if err != nil {
			return err
		}
		messages = loaded
	}

	if err := a.tagStore.ReplaceTags(ctx, tags); err != nil {
		return fmt.Errorf("failed to seed tags: %w", err)
	}
	if err := a.viewStore.ReplaceViews(ctx, views); err != nil {
		return fmt.Errorf("failed to seed views: %w", err)
	}
	if err := a.msgStore.UpsertMessages(ctx, messages); err != nil {
		return fmt.Errorf("failed to seed messages: %w", err)
	}
	if a.logger != nil {
		a.logger.Printf("app: seeded %d tags, %d views, %d messages", len(tags), len(views), len(messages))
	}
	return a.settings.Set(ctx, db.SettingSeeded, "1")
}

func (a *App) restoreUndo(ctx context.Context) error {
	raw, ok, err := a.settings.Get(ctx, db.SettingUndoAction)
	if err != nil {
		return fmt.Errorf("failed to load undo state: %w", err)
	}
	if !ok || raw == "" {
		return nil
	}
	var action services.UndoableAction
	if err := json.Unmarshal([]byte(raw), &action); err != nil {
		if a.logger != nil {
			a.logger.Printf("app: discarding unreadable undo state: %v", err)
		}
		return nil
	}
	return a.undo.RecordAction(&action)
}

func (a *App) saveUndo(ctx context.Context) error {
	value := ""
	if last := a.undo.LastAction(); last != nil {
		data, err := json.Marshal(last)
		if err != nil {
			return fmt.Errorf("failed to encode undo state: %w", err)
		}
		value = string(data)
	}
	return a.settings.Set(ctx, db.SettingUndoAction, value)
}

// Messages returns the loaded message collection
func (a *App) Messages() []models.Message {
	return a.messages
}

// ApplyMessages replaces the in-memory collection and stores the tags of the
// messages named in changed
func (a *App) ApplyMessages(ctx context.Context, updated []models.Message, changed ...string) error {
	a.messages = updated
	for _, id := range changed {
		for _, m := range updated {
			if m.ID != id {
				continue
			}
			if err := a.msgStore.SaveMessageTags(ctx, m.ID, m.Tags); err != nil {
				return fmt.Errorf("failed to save tags for %s: %w", m.ID, err)
			}
			break
		}
	}
	return nil
}

// UntagWithNegativeExample removes tagID from a message and records the message
// as a negative example for the tag. The message's tags are stored before the
// registry changes, so a failed write leaves the tag untouched; if recording
// fails afterwards the stored message tags are restored.
func (a *App) UntagWithNegativeExample(ctx context.Context, messageID, tagID string) (*services.MutationResult, error) {
	current := a.Messages()
	var target models.Message
	found := false
	for _, m := range current {
		if m.ID == messageID {
			target, found = m, true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: %s", services.ErrMessageNotFound, messageID)
	}
	if _, ok := a.tags.GetTag(tagID); !ok {
		return nil, fmt.Errorf("%w: %s", services.ErrTagNotFound, tagID)
	}
	if !target.HasTag(tagID) {
		return nil, fmt.Errorf("%w: %s on %s", services.ErrTagNotOnMessage, tagID, messageID)
	}

	remaining := make([]string, 0, len(target.Tags))
	for _, id := range target.Tags {
		if id != tagID {
			remaining = append(remaining, id)
		}
	}
	if err := a.msgStore.SaveMessageTags(ctx, messageID, remaining); err != nil {
		return nil, fmt.Errorf("failed to save tags for %s: %w", messageID, err)
	}

	result, err := a.mutation.RemoveTagWithNegativeExample(current, messageID, tagID, true)
	if err != nil {
		if restoreErr := a.msgStore.SaveMessageTags(ctx, messageID, target.Tags); restoreErr != nil {
			err = errors.Join(err, fmt.Errorf("failed to restore tags for %s: %w", messageID, restoreErr))
		}
		return nil, err
	}
	a.messages = result.Messages
	return result, nil
}

// SelectView changes and stores the current view selection. An empty id clears it.
func (a *App) SelectView(ctx context.Context, id string) error {
	if err := a.views.SelectView(id); err != nil {
		return err
	}
	return a.settings.Set(ctx, db.SettingSelectedView, id)
}

// Close stores undo state, detaches listeners and closes the database. Write
// failures reported by the persistence listeners are returned here.
func (a *App) Close(ctx context.Context) error {
	if a == nil {
		return nil
	}
	var errs []error
	if a.undo != nil {
		errs = append(errs, a.saveUndo(ctx))
	}
	if a.views != nil {
		if sel := a.views.SelectedView(); sel == nil {
			errs = append(errs, a.settings.Set(ctx, db.SettingSelectedView, ""))
		}
	}
	for _, fn := range a.detach {
		fn()
	}
	a.detach = nil
	if a.persist != nil {
		errs = append(errs, a.persist.Err())
	}
	if a.store != nil {
		errs = append(errs, a.store.Close())
	}
	a.closeLogger()
	return errors.Join(errs...)
}

// initLogger opens the log file named in the config, or tagview.log under the
// config directory. Logging is skipped if neither can be opened.
func (a *App) initLogger() {
	path := a.cfg.LogFile
	if path == "" {
		dir := config.DefaultLogDir()
		if dir == "" {
			return
		}
		path = filepath.Join(dir, "tagview.log")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return
	}
	a.logOut = f
	a.logger = log.New(f, "[tagview] ", log.LstdFlags|log.Lmicroseconds)
}

func (a *App) closeLogger() {
	if a.logOut != nil {
		_ = a.logOut.Close()
		a.logOut = nil
	}
}
