package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/felixgeelhaar/interlock/pkg/storage"
)

// ChangeEvent reports a change to one of the workspace data files.
type ChangeEvent struct {
	File       string // "tickets" or "events"
	Path       string
	ChangeType string // "create", "write", "remove", "rename"
}

// DataWatcher watches the .interlock directory for changes to the ticket
// and event logs. Other files in the directory are ignored.
type DataWatcher struct {
	watcher  *fsnotify.Watcher
	dataDir  string
	debounce time.Duration
	onChange func(ChangeEvent)
}

// NewDataWatcher creates a watcher over the workspace data directory.
func NewDataWatcher(dataDir string, debounce time.Duration, onChange func(ChangeEvent)) (*DataWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if debounce == 0 {
		debounce = 500 * time.Millisecond
	}
	return &DataWatcher{
		watcher:  w,
		dataDir:  dataDir,
		debounce: debounce,
		onChange: onChange,
	}, nil
}

// Run starts the event loop. It blocks until the context is cancelled.
func (w *DataWatcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	if err := w.watcher.Add(w.dataDir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dataDir, err)
	}

	var lastEvent ChangeEvent
	debouncer := NewDebouncer(w.debounce, func() {
		if w.onChange != nil {
			w.onChange(lastEvent)
		}
	})
	defer debouncer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			file := fileOf(event.Name)
			if file == "" {
				continue
			}
			changeType := opToChangeType(event.Op)
			if changeType == "" {
				continue
			}

			lastEvent = ChangeEvent{File: file, Path: event.Name, ChangeType: changeType}
			debouncer.Trigger()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watcher error: %w", err)
		}
	}
}

// fileOf classifies a path as one of the watched data files.
func fileOf(path string) string {
	switch filepath.Base(path) {
	case storage.TicketsFile:
		return "tickets"
	case storage.EventsFile:
		return "events"
	default:
		return ""
	}
}

func opToChangeType(op fsnotify.Op) string {
	switch {
	case op.Has(fsnotify.Create):
		return "create"
	case op.Has(fsnotify.Write):
		return "write"
	case op.Has(fsnotify.Remove):
		return "remove"
	case op.Has(fsnotify.Rename):
		return "rename"
	default:
		return ""
	}
}
