package forest

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/wethinkt/go-timegraph/internal/tuilog"
)

// DefaultDebounce is the quiet period after the last write before a
// changed forest file is reloaded.
const DefaultDebounce = 250 * time.Millisecond

// Reload is delivered each time the watched file has been read again.
type Reload struct {
	Result *Result
	Err    error
}

// Watcher reloads a forest file when it changes on disk. It watches the
// parent directory so editors that replace the file by renaming are seen.
type Watcher struct {
	path     string
	debounce time.Duration
	watcher  *fsnotify.Watcher
	done     chan struct{}
	stopOnce sync.Once
}

// NewWatcher creates a watcher for the forest file at path.
func NewWatcher(path string, debounce time.Duration) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, err
	}
	return &Watcher{
		path:     abs,
		debounce: debounce,
		watcher:  fw,
		done:     make(chan struct{}),
	}, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string { return w.path }

// Start begins watching and returns a channel of reloads. The channel is
// closed when ctx is canceled or Stop is called.
func (w *Watcher) Start(ctx context.Context) <-chan Reload {
	reloads := make(chan Reload, 4)
	go w.watchLoop(ctx, reloads)
	tuilog.Log.Info("Watching forest file", "path", w.path)
	return reloads
}

// Stop stops the watcher and releases resources.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)
		err = w.watcher.Close()
	})
	return err
}

func (w *Watcher) watchLoop(ctx context.Context, reloads chan<- Reload) {
	defer close(reloads)

	// Debounce with a single timer owned by this goroutine so nothing can
	// send after reloads is closed.
	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
					tuilog.Log.Warn("Forest file moved away", "path", w.path, "op", event.Op.String())
				}
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			res, err := Load(w.path)
			select {
			case reloads <- Reload{Result: res, Err: err}:
				tuilog.Log.Debug("Forest reloaded", "path", w.path, "error", err)
			case <-ctx.Done():
				return
			case <-w.done:
				return
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			tuilog.Log.Error("Watcher error", "error", err)

		case <-w.done:
			return
		case <-ctx.Done():
			return
		}
	}
}
