// Package watch reports changed HTML files under a build output tree.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/newgentdigital/go-autoparam/internal/fileutil"
)

// DefaultDebounce is how long the watcher waits for a burst of writes to settle.
const DefaultDebounce = 200 * time.Millisecond

// Watcher collects write and create events for matching files and delivers
// them in batches, at most once per debounce window.
type Watcher struct {
	root       string
	extensions []string
	debounce   time.Duration
	logger     *slog.Logger
	fsw        *fsnotify.Watcher
	events     chan []string
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period before a batch is delivered.
// d <= 0 keeps the default.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithExtensions sets which file extensions are reported.
// Invalid entries are ignored.
func WithExtensions(exts ...string) Option {
	return func(w *Watcher) {
		var normalized []string
		for _, ext := range exts {
			if e, err := fileutil.NormalizeExtension(ext); err == nil {
				normalized = append(normalized, e)
			}
		}
		if len(normalized) > 0 {
			w.extensions = normalized
		}
	}
}

// WithLogger sets the logger for watch errors and skipped directories.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// New starts watching root and every directory below it.
// The caller must call Run, which releases the underlying watcher on return.
func New(root string, opts ...Option) (*Watcher, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watch: %s is not a directory", root)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	w := &Watcher{
		root:       root,
		extensions: []string{".html"},
		debounce:   DefaultDebounce,
		logger:     slog.Default(),
		fsw:        fsw,
		events:     make(chan []string, 1),
	}
	for _, opt := range opts {
		opt(w)
	}

	if err := w.addTree(root); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	return w, nil
}

// Events delivers sorted, de-duplicated paths. The channel is closed when Run returns.
func (w *Watcher) Events() <-chan []string {
	return w.events
}

// Run processes file system events until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	defer close(w.events)
	defer func() {
		if err := w.fsw.Close(); err != nil {
			w.logger.Error("Error closing file watcher", "error", err)
		}
	}()

	pending := make(map[string]struct{})
	timer := time.NewTimer(w.debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if w.handle(event) {
				pending[event.Name] = struct{}{}
				timer.Reset(w.debounce)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("Watcher error", "error", err)

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			batch := make([]string, 0, len(pending))
			for path := range pending {
				batch = append(batch, path)
			}
			slices.Sort(batch)
			clear(pending)

			select {
			case w.events <- batch:
			case <-ctx.Done():
				return nil
			}
		}
	}
}

// handle reacts to one event and reports whether it names a file to deliver.
func (w *Watcher) handle(event fsnotify.Event) bool {
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addTree(event.Name); err != nil {
				w.logger.Warn("Cannot watch new directory", "dir", event.Name, "error", err)
			}
			return false
		}
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return false
	}
	return fileutil.HasExtension(event.Name, w.extensions)
}

// addTree adds dir and its subdirectories. Symlinked directories are not followed.
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if !entry.IsDir() {
			return nil
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("failed to watch directory %s: %w", path, err)
		}
		return nil
	})
}
