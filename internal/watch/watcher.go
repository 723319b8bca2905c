package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ChangeHandler receives the distinct watched paths that changed during one
// debounce window, in first-seen order.
type ChangeHandler func(paths []string)

// FileWatcher watches a fixed set of files and reports settled changes.
//
// Parent directories are watched rather than the files themselves so that
// editors that save by rename are still observed.
type FileWatcher struct {
	watcher *fsnotify.Watcher
	files   map[string]bool
	delay   time.Duration
	handler ChangeHandler
	logger  *slog.Logger

	changes chan string
	done    chan struct{}
	once    sync.Once
}

// NewFileWatcher prepares a watcher for files. Call Start to begin.
func NewFileWatcher(files []string, delay time.Duration, handler ChangeHandler, logger *slog.Logger) (*FileWatcher, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("watch: no files given")
	}
	if delay <= 0 {
		delay = DefaultDelay
	}
	if logger == nil {
		logger = slog.Default()
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create watcher: %w", err)
	}

	w := &FileWatcher{
		watcher: fw,
		files:   make(map[string]bool, len(files)),
		delay:   delay,
		handler: handler,
		logger:  logger,
		changes: make(chan string, 64),
		done:    make(chan struct{}),
	}

	dirs := make(map[string]bool)
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			fw.Close()
			return nil, fmt.Errorf("watch: resolve %s: %w", f, err)
		}
		w.files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, fmt.Errorf("watch: add %s: %w", dir, err)
		}
	}
	return w, nil
}

// Start runs the event and debounce loops until ctx is done or Stop is
// called. It does not block.
func (w *FileWatcher) Start(ctx context.Context) {
	go w.processEvents(ctx)
	go w.debounceLoop(ctx)
}

// Stop releases the underlying watcher. Safe to call more than once.
func (w *FileWatcher) Stop() {
	w.once.Do(func() {
		close(w.done)
		w.watcher.Close()
	})
}

func (w *FileWatcher) processEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			path := filepath.Clean(event.Name)
			if !w.files[path] {
				continue
			}
			select {
			case w.changes <- path:
			default:
				// Buffer full; a pending flush will re-read the file anyway.
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", "error", err)
		}
	}
}

func (w *FileWatcher) debounceLoop(ctx context.Context) {
	var batch []string
	seen := make(map[string]bool)
	var timer *time.Timer
	var timerC <-chan time.Time

	flush := func() {
		if len(batch) > 0 && w.handler != nil {
			w.handler(batch)
		}
		batch = nil
		clear(seen)
		if timer != nil {
			timer.Stop()
			timer = nil
			timerC = nil
		}
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case path := <-w.changes:
			if !seen[path] {
				seen[path] = true
				batch = append(batch, path)
			}
			if timer == nil {
				timer = time.NewTimer(w.delay)
				timerC = timer.C
			} else {
				timer.Reset(w.delay)
			}
		case <-timerC:
			flush()
		}
	}
}
