package state

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is the quiet period after the last write before a reload.
const DefaultDebounce = 250 * time.Millisecond

// Watcher reloads a Loader's file whenever it changes on disk. It watches the
// containing directory so that files replaced by rename are picked up too.
type Watcher struct {
	Reloads <-chan error // result of each reload, nil on success

	loader   *Loader
	debounce time.Duration
	log      *zap.Logger

	reloads chan error
	done    chan struct{}
	started bool
	watcher *fsnotify.Watcher
	stop    sync.Once
}

// NewWatcher creates a watcher for loader's file. A debounce of zero means
// DefaultDebounce.
func NewWatcher(loader *Loader, debounce time.Duration, log *zap.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if log == nil {
		log = zap.NewNop()
	}

	ch := make(chan error, 8)
	return &Watcher{
		Reloads:  ch,
		loader:   loader,
		debounce: debounce,
		log:      log,
		reloads:  ch,
		done:     make(chan struct{}),
		watcher:  fw,
	}, nil
}

// Start begins watching.
func (w *Watcher) Start() error {
	if err := w.watcher.Add(filepath.Dir(w.loader.Path())); err != nil {
		return err
	}
	w.started = true
	go w.loop()
	return nil
}

// Stop closes the watcher and the Reloads channel. Later calls do nothing.
func (w *Watcher) Stop() {
	w.stop.Do(func() {
		w.watcher.Close()
		if w.started {
			<-w.done
		}
		close(w.reloads)
	})
}

func (w *Watcher) loop() {
	defer close(w.done)

	target := filepath.Clean(w.loader.Path())
	var pending bool
	var last time.Time
	ticker := time.NewTicker(w.debounce / 2)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				pending = true
				last = time.Now()
			}

		case <-ticker.C:
			if pending && time.Since(last) >= w.debounce {
				pending = false
				w.emit(w.loader.Reload(context.Background()))
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error", zap.Error(err))
		}
	}
}

// emit reports a reload result without blocking the loop.
func (w *Watcher) emit(err error) {
	select {
	case w.reloads <- err:
	default:
	}
}
