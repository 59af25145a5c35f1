package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	seoerrors "github.com/conneroisu/seo/internal/errors"
	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventTypeString(t *testing.T) {
	assert.Equal(t, "created", EventTypeCreated.String())
	assert.Equal(t, "modified", EventTypeModified.String())
	assert.Equal(t, "deleted", EventTypeDeleted.String())
	assert.Equal(t, "renamed", EventTypeRenamed.String())
	assert.Equal(t, "unknown", EventType(99).String())
}

func TestEventTypeFromOp(t *testing.T) {
	assert.Equal(t, EventTypeCreated, eventType(fsnotify.Create))
	assert.Equal(t, EventTypeModified, eventType(fsnotify.Write))
	assert.Equal(t, EventTypeDeleted, eventType(fsnotify.Remove))
	assert.Equal(t, EventTypeRenamed, eventType(fsnotify.Rename))
	assert.Equal(t, EventTypeCreated, eventType(fsnotify.Create|fsnotify.Write))
}

func TestDebouncerKeepsFirstSeenOrder(t *testing.T) {
	d := newDebouncer(time.Hour)
	d.addEvent(ChangeEvent{Path: "b", Type: EventTypeCreated})
	d.addEvent(ChangeEvent{Path: "a", Type: EventTypeModified})
	d.addEvent(ChangeEvent{Path: "b", Type: EventTypeModified})
	d.stop()
	d.flush()

	batch := <-d.output
	require.Len(t, batch, 2)
	assert.Equal(t, "b", batch[0].Path)
	assert.Equal(t, EventTypeModified, batch[0].Type)
	assert.Equal(t, "a", batch[1].Path)

	// Nothing pending means nothing is sent.
	d.flush()
	select {
	case <-d.output:
		t.Fatal("unexpected batch")
	default:
	}
}

func TestAddFileErrors(t *testing.T) {
	fw, err := NewFileWatcher(10*time.Millisecond, nil)
	require.NoError(t, err)
	defer fw.Stop()

	err = fw.AddFile(filepath.Join(t.TempDir(), "missing.png"))
	require.Error(t, err)
	assert.Equal(t, seoerrors.ErrCodeFileNotFound, seoerrors.GetErrorCode(err))

	err = fw.AddFile(t.TempDir())
	require.Error(t, err)
	assert.Equal(t, seoerrors.ErrCodeInvalidPath, seoerrors.GetErrorCode(err))
}

func TestWatcherReportsChangesToTargetOnly(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "page.yml")
	other := filepath.Join(dir, "other.yml")
	require.NoError(t, os.WriteFile(target, []byte("values: {}"), 0o644))
	require.NoError(t, os.WriteFile(other, []byte("values: {}"), 0o644))

	fw, err := NewFileWatcher(20*time.Millisecond, nil)
	require.NoError(t, err)
	defer fw.Stop()

	require.NoError(t, fw.AddFile(target))
	require.NoError(t, fw.AddFile(target))
	assert.Len(t, fw.Files(), 1)

	var mu sync.Mutex
	var received []ChangeEvent
	fw.AddHandler(func(events []ChangeEvent) error {
		mu.Lock()
		defer mu.Unlock()
		received = append(received, events...)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, fw.Start(ctx))

	require.NoError(t, os.WriteFile(other, []byte("values: {title: x}"), 0o644))
	require.NoError(t, os.WriteFile(target, []byte("values: {title: y}"), 0o644))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(received) > 0
	}, 2*time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	for _, e := range received {
		assert.Equal(t, target, e.Path)
	}
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "logo.png modified", Describe([]ChangeEvent{{Path: "/x/logo.png", Type: EventTypeModified}}))
	assert.Equal(t, "2 files changed", Describe([]ChangeEvent{{Path: "a"}, {Path: "b"}}))
}
