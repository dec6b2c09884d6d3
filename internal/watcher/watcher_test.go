package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/conneroisu/playlint/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventTypeString(t *testing.T) {
	assert.Equal(t, "created", EventTypeCreated.String())
	assert.Equal(t, "modified", EventTypeModified.String())
	assert.Equal(t, "deleted", EventTypeDeleted.String())
	assert.Equal(t, "renamed", EventTypeRenamed.String())
	assert.Equal(t, "unknown", EventType(42).String())
}

func TestFilters(t *testing.T) {
	tests := []struct {
		name   string
		filter FileFilter
		path   string
		want   bool
	}{
		{"yaml yml", YAMLFilter, "site.yml", true},
		{"yaml yaml upper", YAMLFilter, "roles/x/tasks/main.YAML", true},
		{"yaml json", YAMLFilter, "package.json", false},
		{"hidden dir", NoHiddenFilter, "repo/.git/config.yml", false},
		{"hidden file", NoHiddenFilter, "roles/.main.yml", false},
		{"visible", NoHiddenFilter, "./roles/main.yml", true},
		{"parent", NoHiddenFilter, "../roles/main.yml", true},
		{"swap", NoEditorTempFilter, "site.yml.swp", false},
		{"backup", NoEditorTempFilter, "site.yml~", false},
		{"emacs lock", NoEditorTempFilter, "#site.yml#", false},
		{"plain", NoEditorTempFilter, "site.yml", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter(tt.path))
		})
	}
}

func TestDebouncerBatchesAndDeduplicates(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)

	d.addEvent(ChangeEvent{Type: EventTypeCreated, Path: "b.yml"})
	d.addEvent(ChangeEvent{Type: EventTypeModified, Path: "a.yml"})
	d.addEvent(ChangeEvent{Type: EventTypeModified, Path: "b.yml"})

	select {
	case events := <-d.output:
		require.Len(t, events, 2)
		assert.Equal(t, "a.yml", events[0].Path)
		assert.Equal(t, "b.yml", events[1].Path)
		assert.Equal(t, EventTypeModified, events[1].Type)
	case <-time.After(2 * time.Second):
		t.Fatal("debouncer did not flush")
	}

	select {
	case events := <-d.output:
		t.Fatalf("unexpected second batch: %v", events)
	case <-time.After(60 * time.Millisecond):
	}
}

func TestFileWatcherDeliversYAMLChanges(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "roles"), 0o755))

	fw, err := NewFileWatcher(20*time.Millisecond, logging.NopLogger{})
	require.NoError(t, err)
	defer fw.Stop()

	fw.AddFilter(YAMLFilter)
	fw.AddFilter(NoHiddenFilter)

	batches := make(chan []ChangeEvent, 10)
	fw.AddHandler(func(_ context.Context, events []ChangeEvent) error {
		batches <- events
		return nil
	})

	require.NoError(t, fw.AddRecursive(dir))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, fw.Start(ctx))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "roles", "notes.txt"), []byte("x"), 0o644))
	target := filepath.Join(dir, "roles", "main.yml")
	require.NoError(t, os.WriteFile(target, []byte("- name: x\n"), 0o644))

	deadline := time.After(5 * time.Second)
	for {
		select {
		case events := <-batches:
			for _, e := range events {
				assert.True(t, YAMLFilter(e.Path), "unexpected path %s", e.Path)
				if e.Path == target {
					return
				}
			}
		case <-deadline:
			t.Fatal("no change event for the yaml file")
		}
	}
}

func TestAddRecursiveMissingPath(t *testing.T) {
	fw, err := NewFileWatcher(time.Millisecond, nil)
	require.NoError(t, err)
	defer fw.Stop()

	assert.Error(t, fw.AddRecursive(filepath.Join(t.TempDir(), "missing")))
}
