package shapes

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// reloadDebounce coalesces the burst of events an editor save produces.
const reloadDebounce = 200 * time.Millisecond

// Watcher reports changes to a single shape file. The parent directory is
// watched so that editors which save by rename are still seen.
type Watcher struct {
	w      *fsnotify.Watcher
	file   string
	log    *zap.Logger
	events chan struct{}
	stopCh chan struct{}
	doneCh chan struct{}
	once   sync.Once

	mu    sync.Mutex
	timer *time.Timer
}

// Watch starts watching path. Close must be called to release it.
func Watch(path string, log *zap.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, err
	}

	w := &Watcher{
		w:      fw,
		file:   abs,
		log:    log,
		events: make(chan struct{}, 1),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
	go w.run()
	log.Debug("watching shape file", zap.String("path", abs))
	return w, nil
}

// Events delivers one value per debounced burst of changes. It is never
// closed; select on it together with your own shutdown signal.
func (w *Watcher) Events() <-chan struct{} { return w.events }

// Path returns the absolute path being watched.
func (w *Watcher) Path() string { return w.file }

// Close stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.stopCh)
		<-w.doneCh
		w.mu.Lock()
		if w.timer != nil {
			w.timer.Stop()
		}
		w.mu.Unlock()
		err = w.w.Close()
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.doneCh)
	for {
		select {
		case <-w.stopCh:
			return
		case ev, ok := <-w.w.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.file {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			w.log.Debug("shape file event", zap.String("op", ev.Op.String()))
			w.schedule()
		case err, ok := <-w.w.Errors:
			if !ok {
				return
			}
			w.log.Warn("shape watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(reloadDebounce, func() {
		select {
		case w.events <- struct{}{}:
		default:
		}
	})
}
