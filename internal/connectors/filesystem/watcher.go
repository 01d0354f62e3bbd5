package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/rishinpoolat/portfolio/internal/core/domain"
	"github.com/rishinpoolat/portfolio/internal/logger"
)

// DefaultDebounce is how long the watcher waits for events to settle.
const DefaultDebounce = 500 * time.Millisecond

// ChangeType describes what happened to a file.
type ChangeType int

// Change types.
const (
	ChangeUpdated ChangeType = iota
	ChangeDeleted
)

// Change is a settled modification to a markdown file.
type Change struct {
	Path     string
	Category string
	Type     ChangeType
}

// Watch reports markdown changes under the category directories.
// Events are debounced and delivered as batches, one change per path,
// sorted by path. The channel closes when ctx is cancelled.
func (s *Source) Watch(ctx context.Context, debounce time.Duration) (<-chan []Change, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := w.Add(s.root); err != nil {
		w.Close()
		return nil, fmt.Errorf("watch %s: %w", s.root, err)
	}
	for _, cat := range s.categories {
		dir := filepath.Join(s.root, cat.String())
		if err := w.Add(dir); err != nil {
			logger.Debug("Not watching %s: %v", dir, err)
		}
	}

	out := make(chan []Change)
	go s.watchLoop(ctx, w, debounce, out)
	return out, nil
}

func (s *Source) watchLoop(ctx context.Context, w *fsnotify.Watcher, debounce time.Duration, out chan<- []Change) {
	defer close(out)
	defer w.Close()

	pending := make(map[string]Change)
	timer := time.NewTimer(debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.Events:
			if !ok {
				return
			}
			if dir, ok := s.newCategoryDir(event); ok {
				if err := w.Add(dir); err != nil {
					logger.Warn("Failed to watch %s: %v", dir, err)
				}
				continue
			}
			change, ok := s.handleFsEvent(event)
			if !ok {
				continue
			}
			pending[change.Path] = change
			timer.Reset(debounce)

		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			logger.Warn("Watcher error: %v", err)

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			batch := make([]Change, 0, len(pending))
			for _, c := range pending {
				batch = append(batch, c)
			}
			sort.Slice(batch, func(i, j int) bool { return batch[i].Path < batch[j].Path })
			pending = make(map[string]Change)

			select {
			case out <- batch:
			case <-ctx.Done():
				return
			}
		}
	}
}

// handleFsEvent maps a raw event to a change. Directories, hidden files,
// non-markdown files and chmod events are ignored.
func (s *Source) handleFsEvent(event fsnotify.Event) (Change, bool) {
	category, ok := s.CategoryOf(event.Name)
	if !ok {
		return Change{}, false
	}

	switch {
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		return Change{Path: event.Name, Category: category, Type: ChangeDeleted}, true
	case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
		if info, err := os.Stat(event.Name); err != nil || info.IsDir() {
			return Change{}, false
		}
		return Change{Path: event.Name, Category: category, Type: ChangeUpdated}, true
	default:
		return Change{}, false
	}
}

// newCategoryDir reports a category directory created after the watch started.
func (s *Source) newCategoryDir(event fsnotify.Event) (string, bool) {
	if !event.Has(fsnotify.Create) || filepath.Clean(filepath.Dir(event.Name)) != filepath.Clean(s.root) {
		return "", false
	}
	info, err := os.Stat(event.Name)
	if err != nil || !info.IsDir() {
		return "", false
	}
	cat := domain.Category(filepath.Base(event.Name))
	for _, c := range s.categories {
		if c == cat {
			return event.Name, true
		}
	}
	return "", false
}
