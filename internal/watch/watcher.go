// Package watch follows content directories and re-checks post files as they
// change on disk. Re-checks are throttled per path so editor save storms do
// not trigger redundant work.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/goliatone/go-post/internal/logging"
	"github.com/goliatone/go-post/pkg/interfaces"
)

// Op values carried on emitted events.
const (
	OpCreate = "create"
	OpWrite  = "write"
	OpRemove = "remove"
	OpRename = "rename"
)

const (
	// DefaultPattern selects the files worth re-checking.
	DefaultPattern = "*.md"
	// DefaultEvery is the minimum interval between re-checks of one path.
	DefaultEvery = 500 * time.Millisecond
)

// Config configures a Watcher.
type Config struct {
	// Dirs are the content directories to follow. At least one is required.
	Dirs []string
	// Pattern filters file names, DefaultPattern when empty.
	Pattern string
	// Recursive watches subdirectories too, including ones created later.
	Recursive bool
	// Checker re-checks changed files. Required.
	Checker interfaces.DocumentChecker
	// Every is the minimum interval between re-checks of one path. Zero
	// selects DefaultEvery; negative disables throttling.
	Every time.Duration
	// Burst is how many re-checks a path may spend at once, default 1.
	Burst  int
	Logger interfaces.Logger
}

// Watcher implements interfaces.Watcher on an fsnotify watcher.
type Watcher struct {
	fsw       *fsnotify.Watcher
	checker   interfaces.DocumentChecker
	pattern   string
	recursive bool
	limiter   *pathLimiter
	logger    interfaces.Logger

	events chan interfaces.WatchEvent
	errs   chan error

	cancel    context.CancelFunc
	done      chan struct{}
	closeOnce sync.Once
	closeErr  error
}

var _ interfaces.Watcher = (*Watcher)(nil)

// New starts watching the configured directories. The watcher stops when ctx
// is canceled or Close is called; both channels are closed on the way out.
func New(ctx context.Context, cfg Config) (*Watcher, error) {
	if len(cfg.Dirs) == 0 {
		return nil, errors.New("watch: no directories to watch")
	}
	if cfg.Checker == nil {
		return nil, errors.New("watch: checker is required")
	}

	pattern := cfg.Pattern
	if pattern == "" {
		pattern = DefaultPattern
	}
	if _, err := filepath.Match(pattern, "probe.md"); err != nil {
		return nil, fmt.Errorf("watch: invalid pattern %q: %w", pattern, err)
	}

	every := cfg.Every
	if every == 0 {
		every = DefaultEvery
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.NoOp()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create watcher: %w", err)
	}

	w := &Watcher{
		fsw:       fsw,
		checker:   cfg.Checker,
		pattern:   pattern,
		recursive: cfg.Recursive,
		limiter:   newPathLimiter(every, cfg.Burst),
		logger:    logger,
		events:    make(chan interfaces.WatchEvent, 16),
		errs:      make(chan error, 1),
		done:      make(chan struct{}),
	}

	for _, dir := range cfg.Dirs {
		dir = strings.TrimSpace(dir)
		if dir == "" {
			continue
		}
		if cfg.Recursive {
			err = w.addTree(dir)
		} else {
			err = fsw.Add(dir)
		}
		if err != nil {
			fsw.Close()
			return nil, fmt.Errorf("watch: add %s: %w", dir, err)
		}
	}

	if ctx == nil {
		ctx = context.Background()
	}
	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	go w.run(runCtx)

	logger.Debug("watch started", "dirs", strings.Join(cfg.Dirs, ","), "pattern", pattern)
	return w, nil
}

// Events delivers change notifications with fresh check results.
func (w *Watcher) Events() <-chan interfaces.WatchEvent {
	return w.events
}

// Errors delivers filesystem and re-check failures.
func (w *Watcher) Errors() <-chan error {
	return w.errs
}

// Close stops the watcher and releases its filesystem watches. It returns
// once both channels are closed.
func (w *Watcher) Close() error {
	w.closeOnce.Do(func() {
		w.cancel()
		w.closeErr = w.fsw.Close()
		<-w.done
	})
	return w.closeErr
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.done)
	defer close(w.errs)
	defer close(w.events)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			out, err := w.handleEvent(ctx, event)
			if err != nil {
				w.forwardError(ctx, err)
				continue
			}
			if out == nil {
				continue
			}
			select {
			case w.events <- *out:
			case <-ctx.Done():
				return
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.forwardError(ctx, err)
		}
	}
}

// handleEvent turns one filesystem notification into an emitted event, or
// nil when the change is not worth reporting. Created directories extend the
// watch instead.
func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) (*interfaces.WatchEvent, error) {
	name := filepath.Clean(event.Name)
	if isHidden(name) {
		return nil, nil
	}

	if event.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(name); err == nil && info.IsDir() {
			if w.recursive {
				if err := w.addTree(name); err != nil {
					return nil, fmt.Errorf("watch: add %s: %w", name, err)
				}
			}
			return nil, nil
		}
	}

	if matched, _ := filepath.Match(w.pattern, filepath.Base(name)); !matched {
		return nil, nil
	}

	switch {
	case event.Op.Has(fsnotify.Remove), event.Op.Has(fsnotify.Rename):
		return &interfaces.WatchEvent{Path: name, Op: opString(event.Op)}, nil
	case event.Op.Has(fsnotify.Create), event.Op.Has(fsnotify.Write):
		if !w.limiter.Allow(name, time.Now()) {
			w.logger.Debug("re-check throttled", "path", name)
			return nil, nil
		}
		source, err := os.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("watch: read %s: %w", name, err)
		}
		result, err := w.checker.CheckSource(ctx, name, source)
		if err != nil {
			return nil, fmt.Errorf("watch: check %s: %w", name, err)
		}
		return &interfaces.WatchEvent{Path: name, Op: opString(event.Op), Result: result}, nil
	default:
		// Chmod alone changes nothing worth re-checking.
		return nil, nil
	}
}

// addTree watches root and every non-hidden directory below it.
func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(entry.Name(), ".") {
			return fs.SkipDir
		}
		return w.fsw.Add(path)
	})
}

func (w *Watcher) forwardError(ctx context.Context, err error) {
	select {
	case w.errs <- err:
	case <-ctx.Done():
	}
}

// opString maps a notification to the emitted op, removal winning over the
// other bits when an event carries several.
func opString(op fsnotify.Op) string {
	switch {
	case op.Has(fsnotify.Remove):
		return OpRemove
	case op.Has(fsnotify.Rename):
		return OpRename
	case op.Has(fsnotify.Create):
		return OpCreate
	default:
		return OpWrite
	}
}

// isHidden reports whether any path segment is a dotfile. "." and ".." do
// not count.
func isHidden(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == "." || part == ".." || part == "" {
			continue
		}
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}
