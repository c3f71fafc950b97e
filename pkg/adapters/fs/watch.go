package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/quire/pkg/core"
)

// DebounceWindow coalesces bursts (atomic renames, editor swap files) into one event per path.
const DebounceWindow = 50 * time.Millisecond

// Watch emits change events for posts and authors whose site-relative path
// matches pattern (doublestar syntax, "**" for everything). The channel is
// closed when ctx is done.
func (r *Repository) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	if pattern == "" {
		pattern = "**"
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid watch pattern %q", pattern)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	for _, dir := range []string{r.contentRoot(), filepath.Join(r.Path, r.config.AuthorsDir)} {
		if err := addTree(watcher, dir); err != nil {
			_ = watcher.Close()
			return nil, err
		}
	}

	events := make(chan core.Event, 64)
	r.setWatcherActive(true)

	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(events)
		defer watcher.Close()
		defer r.setWatcherActive(false)
		return r.watchLoop(ctx, watcher, pattern, events)
	}, lifecycle.WithErrorHandler(func(err error) {
		r.reportWatchError(fmt.Errorf("watcher stopped: %w", err))
	}))

	return events, nil
}

func (r *Repository) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, pattern string, out chan<- core.Event) error {
	pending := make(map[string]core.Event)
	timer := time.NewTimer(DebounceWindow)
	timer.Stop()
	var flush <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := addTree(watcher, ev.Name); err != nil {
						r.reportWatchError(err)
					}
				}
			}

			e, ok := r.translate(ev, pattern)
			if !ok {
				continue
			}
			if prev, exists := pending[e.Path]; exists && prev.Type == core.EventCreate && e.Type == core.EventModify {
				e.Type = core.EventCreate
			}
			pending[e.Path] = e
			if flush == nil {
				timer.Reset(DebounceWindow)
				flush = timer.C
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			r.reportWatchError(err)

		case <-flush:
			flush = nil
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			sort.Strings(paths)
			for _, p := range paths {
				select {
				case out <- pending[p]:
				case <-ctx.Done():
					return nil
				}
			}
			pending = make(map[string]core.Event)
		}
	}
}

// translate maps an fsnotify event to a site event, filtering noise.
func (r *Repository) translate(ev fsnotify.Event, pattern string) (core.Event, bool) {
	base := filepath.Base(ev.Name)
	if strings.HasPrefix(base, TempFilePrefix) || strings.HasPrefix(base, ".") {
		return core.Event{}, false
	}

	rel, err := filepath.Rel(r.Path, ev.Name)
	if err != nil {
		return core.Event{}, false
	}
	rel = filepath.ToSlash(rel)

	if match, err := doublestar.Match(pattern, rel); err != nil || !match {
		return core.Event{}, false
	}

	var t core.EventType
	switch {
	case ev.Has(fsnotify.Create):
		t = core.EventCreate
	case ev.Has(fsnotify.Write):
		t = core.EventModify
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		t = core.EventDelete
	default:
		return core.Event{}, false
	}

	return core.Event{Type: t, Path: rel, Timestamp: time.Now().Unix()}, true
}

func (r *Repository) reportWatchError(err error) {
	r.config.Logger.Error("watch error", "error", err)
	if r.config.ErrorHandler != nil {
		r.config.ErrorHandler(err)
	}
}

// addTree registers dir and its non-hidden subdirectories; fsnotify is not recursive.
func addTree(watcher *fsnotify.Watcher, dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil
	}
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}

var _ core.Watchable = (*Repository)(nil)
