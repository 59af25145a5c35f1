// Package watcher reports debounced changes to individual files, such as a
// favicon source image or a preview page definition.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	seoerrors "github.com/conneroisu/seo/internal/errors"
	"github.com/conneroisu/seo/internal/logging"
	"github.com/fsnotify/fsnotify"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// FileWatcher watches files for changes with debouncing. Editors often
// replace a file instead of writing it, so the parent directory is watched
// and events are matched against the registered files.
type FileWatcher struct {
	watcher   *fsnotify.Watcher
	debouncer *Debouncer
	logger    logging.Logger
	targets   map[string]bool
	dirs      map[string]bool
	handlers  []ChangeHandler
	mutex     sync.RWMutex
}

// ChangeEvent represents a file change event
type ChangeEvent struct {
	Type    EventType
	Path    string
	ModTime time.Time
	Size    int64
}

// EventType represents the type of file change
type EventType int

const (
	EventTypeCreated EventType = iota
	EventTypeModified
	EventTypeDeleted
	EventTypeRenamed
)

// String returns the string representation of the EventType
func (e EventType) String() string {
	switch e {
	case EventTypeCreated:
		return "created"
	case EventTypeModified:
		return "modified"
	case EventTypeDeleted:
		return "deleted"
	case EventTypeRenamed:
		return "renamed"
	default:
		return "unknown"
	}
}

// ChangeHandler handles file change events
type ChangeHandler func(events []ChangeEvent) error

// NewFileWatcher creates a new file watcher
func NewFileWatcher(debounceDelay time.Duration, logger logging.Logger) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, seoerrors.NewIOError(seoerrors.ErrCodeInternalError, "failed to create file watcher", err)
	}
	if logger == nil {
		logger = logging.Discard()
	}

	return &FileWatcher{
		watcher:   watcher,
		debouncer: newDebouncer(debounceDelay),
		logger:    logger.WithComponent("watcher"),
		targets:   make(map[string]bool),
		dirs:      make(map[string]bool),
	}, nil
}

// AddHandler adds a change handler
func (fw *FileWatcher) AddHandler(handler ChangeHandler) {
	fw.mutex.Lock()
	defer fw.mutex.Unlock()
	fw.handlers = append(fw.handlers, handler)
}

// AddFile starts watching a single existing file.
func (fw *FileWatcher) AddFile(path string) error {
	absPath, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return seoerrors.WrapIO(err, seoerrors.ErrCodeInvalidPath, "invalid path")
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return seoerrors.NewIOError(seoerrors.ErrCodeFileNotFound, "cannot watch missing file", err).WithFile(path)
	}
	if info.IsDir() {
		return seoerrors.ErrInvalidPath(path).WithContext("reason", "is a directory")
	}

	dir := filepath.Dir(absPath)

	fw.mutex.Lock()
	defer fw.mutex.Unlock()

	if !fw.dirs[dir] {
		if err := fw.watcher.Add(dir); err != nil {
			return seoerrors.WrapIO(err, seoerrors.ErrCodeInvalidPath, "failed to watch "+dir)
		}
		fw.dirs[dir] = true
	}
	fw.targets[absPath] = true
	return nil
}

// Files lists the watched files.
func (fw *FileWatcher) Files() []string {
	fw.mutex.RLock()
	defer fw.mutex.RUnlock()

	files := make([]string, 0, len(fw.targets))
	for path := range fw.targets {
		files = append(files, path)
	}
	return files
}

// Start starts the file watcher
func (fw *FileWatcher) Start(ctx context.Context) error {
	go fw.debouncer.start(ctx)
	go fw.processEvents(ctx)
	go fw.watchLoop(ctx)
	return nil
}

// Stop stops the file watcher and cleans up resources
func (fw *FileWatcher) Stop() error {
	fw.debouncer.stop()
	return fw.watcher.Close()
}

func (fw *FileWatcher) watchLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			fw.handleFsnotifyEvent(event)
		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.logger.Warn(ctx, err, "File watcher error")
		}
	}
}

func (fw *FileWatcher) handleFsnotifyEvent(event fsnotify.Event) {
	path, err := filepath.Abs(event.Name)
	if err != nil {
		return
	}

	fw.mutex.RLock()
	watched := fw.targets[path]
	fw.mutex.RUnlock()
	if !watched || event.Op == fsnotify.Chmod {
		return
	}

	changeEvent := ChangeEvent{Type: eventType(event.Op), Path: path}
	if info, err := os.Stat(path); err == nil {
		changeEvent.ModTime = info.ModTime()
		changeEvent.Size = info.Size()
	}

	fw.debouncer.push(changeEvent)
}

func eventType(op fsnotify.Op) EventType {
	switch {
	case op.Has(fsnotify.Create):
		return EventTypeCreated
	case op.Has(fsnotify.Write):
		return EventTypeModified
	case op.Has(fsnotify.Remove):
		return EventTypeDeleted
	case op.Has(fsnotify.Rename):
		return EventTypeRenamed
	default:
		return EventTypeModified
	}
}

func (fw *FileWatcher) processEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case events := <-fw.debouncer.output:
			fw.mutex.RLock()
			handlers := fw.handlers
			fw.mutex.RUnlock()

			for _, handler := range handlers {
				if err := handler(events); err != nil {
					fw.logger.Error(ctx, err, "File watcher handler error", "events", len(events))
				}
			}
		}
	}
}

// Debouncer groups rapid file changes together
type Debouncer struct {
	delay   time.Duration
	events  chan ChangeEvent
	output  chan []ChangeEvent
	timer   *time.Timer
	pending *orderedmap.OrderedMap[string, ChangeEvent]
	mutex   sync.Mutex
}

func newDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{
		delay:   delay,
		events:  make(chan ChangeEvent, 100),
		output:  make(chan []ChangeEvent, 10),
		pending: orderedmap.New[string, ChangeEvent](),
	}
}

// push queues an event without blocking; a full queue drops it.
func (d *Debouncer) push(event ChangeEvent) {
	select {
	case d.events <- event:
	default:
	}
}

func (d *Debouncer) start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-d.events:
			d.addEvent(event)
		}
	}
}

func (d *Debouncer) addEvent(event ChangeEvent) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	// Latest event per path wins, first-seen order is kept.
	d.pending.Set(event.Path, event)

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.flush)
}

func (d *Debouncer) flush() {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if d.pending.Len() == 0 {
		return
	}

	events := make([]ChangeEvent, 0, d.pending.Len())
	for pair := d.pending.Oldest(); pair != nil; pair = pair.Next() {
		events = append(events, pair.Value)
	}

	select {
	case d.output <- events:
	default:
		// Channel full, skip
	}

	d.pending = orderedmap.New[string, ChangeEvent]()
}

func (d *Debouncer) stop() {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
}

// Describe renders events for log lines.
func Describe(events []ChangeEvent) string {
	if len(events) == 1 {
		return fmt.Sprintf("%s %s", filepath.Base(events[0].Path), events[0].Type)
	}
	return fmt.Sprintf("%d files changed", len(events))
}
