package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rishinpoolat/portfolio/internal/core/domain"
	"github.com/rishinpoolat/portfolio/internal/core/ports/driven"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestNew(t *testing.T) {
	t.Run("defaults to every category", func(t *testing.T) {
		s := New("/tmp/portfolio")
		assert.Equal(t, "/tmp/portfolio", s.Root())
		assert.Equal(t, domain.AllCategories(), s.categories)
	})

	t.Run("restricts categories", func(t *testing.T) {
		s := New("/tmp/portfolio", WithCategories(domain.CategoryProjects))
		assert.Equal(t, []domain.Category{domain.CategoryProjects}, s.categories)
	})

	t.Run("implements DocumentSource interface", func(t *testing.T) {
		var _ driven.DocumentSource = New("/tmp")
	})
}

func TestSource_List(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "projects", "b.md"), "b")
	writeFile(t, filepath.Join(root, "projects", "a.md"), "a")
	writeFile(t, filepath.Join(root, "projects", ".draft.md"), "hidden")
	writeFile(t, filepath.Join(root, "projects", "notes.txt"), "not markdown")
	writeFile(t, filepath.Join(root, "projects", "nested", "deep.md"), "not top level")
	writeFile(t, filepath.Join(root, "education", "msc.md"), "msc")
	writeFile(t, filepath.Join(root, "blog", "post.md"), "unknown category")

	files, err := New(root).List(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []domain.SourceFile{
		{Path: filepath.Join(root, "projects", "a.md"), Category: "projects"},
		{Path: filepath.Join(root, "projects", "b.md"), Category: "projects"},
		{Path: filepath.Join(root, "education", "msc.md"), Category: "education"},
	}, files)
}

func TestSource_List_Errors(t *testing.T) {
	t.Run("missing root", func(t *testing.T) {
		_, err := New(filepath.Join(t.TempDir(), "missing")).List(context.Background())
		assert.Error(t, err)
	})

	t.Run("root is a file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "file.md")
		writeFile(t, path, "x")
		_, err := New(path).List(context.Background())
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := New(t.TempDir()).List(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("empty tree", func(t *testing.T) {
		files, err := New(t.TempDir()).List(context.Background())
		require.NoError(t, err)
		assert.Empty(t, files)
	})
}

func TestSource_Read(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "projects", "bot.md")
	writeFile(t, path, "# Bot")

	raw, err := New(root).Read(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, path, raw.Path)
	assert.Equal(t, []byte("# Bot"), raw.Content)
	assert.Equal(t, int64(5), raw.Size)
	assert.False(t, raw.ModifiedAt.IsZero())

	_, err = New(root).Read(context.Background(), filepath.Join(root, "missing.md"))
	assert.ErrorIs(t, err, domain.ErrProcessing)
}

func TestSource_CategoryOf(t *testing.T) {
	root := "/data/portfolio"
	s := New(root)

	tests := []struct {
		path string
		want string
		ok   bool
	}{
		{path: "/data/portfolio/projects/bot.md", want: "projects", ok: true},
		{path: "/data/portfolio/hackathon/ibm.md", want: "hackathon", ok: true},
		{path: "/data/portfolio/projects/bot.txt"},
		{path: "/data/portfolio/projects/.bot.md"},
		{path: "/data/portfolio/blog/post.md"},
		{path: "/data/portfolio/projects/sub/bot.md"},
		{path: "/elsewhere/projects/bot.md"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, ok := s.CategoryOf(tt.path)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHandleFsEvent(t *testing.T) {
	tests := []struct {
		name           string
		file           string
		setupFile      bool
		setupDir       bool
		operation      fsnotify.Op
		expectedChange bool
		expectedType   ChangeType
	}{
		{name: "create file event", file: "bot.md", setupFile: true, operation: fsnotify.Create, expectedChange: true, expectedType: ChangeUpdated},
		{name: "write file event", file: "bot.md", setupFile: true, operation: fsnotify.Write, expectedChange: true, expectedType: ChangeUpdated},
		{name: "remove file event", file: "bot.md", operation: fsnotify.Remove, expectedChange: true, expectedType: ChangeDeleted},
		{name: "rename file event", file: "bot.md", operation: fsnotify.Rename, expectedChange: true, expectedType: ChangeDeleted},
		{name: "chmod file event - not handled", file: "bot.md", setupFile: true, operation: fsnotify.Chmod},
		{name: "create directory event - should be skipped", file: "dir.md", setupDir: true, operation: fsnotify.Create},
		{name: "hidden file create - should be skipped", file: ".bot.md", setupFile: true, operation: fsnotify.Create},
		{name: "non-markdown create - should be skipped", file: "bot.txt", setupFile: true, operation: fsnotify.Create},
		{name: "write of vanished file - should be skipped", file: "gone.md", operation: fsnotify.Write},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			path := filepath.Join(root, "projects", tt.file)
			require.NoError(t, os.MkdirAll(filepath.Join(root, "projects"), 0o755))
			if tt.setupFile {
				writeFile(t, path, "content")
			}
			if tt.setupDir {
				require.NoError(t, os.MkdirAll(path, 0o755))
			}

			change, ok := New(root).handleFsEvent(fsnotify.Event{Name: path, Op: tt.operation})

			assert.Equal(t, tt.expectedChange, ok)
			if tt.expectedChange {
				assert.Equal(t, tt.expectedType, change.Type)
				assert.Equal(t, path, change.Path)
				assert.Equal(t, "projects", change.Category)
			}
		})
	}
}

func TestSource_Watch(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "projects"), 0o755))
	existing := filepath.Join(root, "projects", "old.md")
	writeFile(t, existing, "old")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes, err := New(root).Watch(ctx, 50*time.Millisecond)
	require.NoError(t, err)

	created := filepath.Join(root, "projects", "new.md")
	writeFile(t, created, "first")
	writeFile(t, created, "second")
	require.NoError(t, os.Remove(existing))

	seen := map[string]ChangeType{}
	deadline := time.After(3 * time.Second)
	for len(seen) < 2 {
		select {
		case batch := <-changes:
			for _, c := range batch {
				seen[c.Path] = c.Type
			}
		case <-deadline:
			t.Fatalf("timeout waiting for changes, got %v", seen)
		}
	}

	assert.Equal(t, ChangeUpdated, seen[created])
	assert.Equal(t, ChangeDeleted, seen[existing])

	cancel()
	select {
	case _, ok := <-changes:
		for ok {
			_, ok = <-changes
		}
	case <-time.After(time.Second):
		t.Fatal("channel not closed after cancel")
	}
}

func TestSource_Watch_MissingRoot(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing")).Watch(context.Background(), 0)
	assert.Error(t, err)
}
