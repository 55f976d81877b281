// Package inbox watches a folder and offers new media files for summarizing.
package inbox

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/csheth/podsum/internal/media"
)

// DefaultSettle is how long a file must go without writes before it is offered.
const DefaultSettle = 500 * time.Millisecond

// Watcher reports files that appear in a directory once they stop changing.
type Watcher struct {
	dir    string
	settle time.Duration
	logger *zap.Logger
	fs     *fsnotify.Watcher

	files chan media.File
	ready chan string
	done  chan struct{}

	mu     sync.Mutex
	timers map[string]*pendingFile
}

// pendingFile is the settle timer for one path. A callback whose entry has
// been replaced in Watcher.timers must not deliver.
type pendingFile struct {
	timer *time.Timer
}

// Option customises a Watcher.
type Option func(*Watcher)

func WithSettle(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.settle = d
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// New starts watching dir. Call Run to deliver events.
func New(dir string, opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	w := &Watcher{
		dir:    dir,
		settle: DefaultSettle,
		logger: zap.NewNop(),
		fs:     fsw,
		files:  make(chan media.File),
		ready:  make(chan string),
		done:   make(chan struct{}),
		timers: make(map[string]*pendingFile),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Dir returns the watched directory.
func (w *Watcher) Dir() string {
	return w.dir
}

// Files delivers settled uploads. It is closed when Run returns.
func (w *Watcher) Files() <-chan media.File {
	return w.files
}

// Run processes filesystem events until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	defer close(w.files)
	defer w.fs.Close()
	defer w.stopTimers()
	defer close(w.done)

	w.logger.Info("inbox watching", zap.String("dir", w.dir))
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("inbox stopped", zap.String("dir", w.dir))
			return ctx.Err()

		case event, ok := <-w.fs.Events:
			if !ok {
				return errors.New("inbox: event channel closed")
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !candidate(event.Name) {
				w.logger.Debug("inbox ignoring file", zap.String("path", event.Name))
				continue
			}
			w.schedule(event.Name)

		case path := <-w.ready:
			file, err := media.Stat(path)
			if err != nil {
				w.logger.Debug("inbox file vanished", zap.String("path", path), zap.Error(err))
				continue
			}
			w.logger.Info("inbox file ready", zap.String("path", path), zap.Int64("size", file.Size))
			select {
			case w.files <- file:
			case <-ctx.Done():
				return ctx.Err()
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return errors.New("inbox: error channel closed")
			}
			w.logger.Warn("inbox watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if p, ok := w.timers[path]; ok && p.timer.Stop() {
		p.timer.Reset(w.settle)
		return
	}
	p := &pendingFile{}
	w.timers[path] = p
	p.timer = time.AfterFunc(w.settle, func() { w.settled(path, p) })
}

func (w *Watcher) settled(path string, p *pendingFile) {
	w.mu.Lock()
	if w.timers[path] != p {
		w.mu.Unlock()
		return
	}
	delete(w.timers, path)
	w.mu.Unlock()
	select {
	case w.ready <- path:
	case <-w.done:
	}
}

func (w *Watcher) stopTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, p := range w.timers {
		p.timer.Stop()
		delete(w.timers, path)
	}
}

// candidate skips hidden and partially downloaded files.
func candidate(path string) bool {
	name := filepath.Base(path)
	if strings.HasPrefix(name, ".") {
		return false
	}
	return media.Allowed(name)
}
