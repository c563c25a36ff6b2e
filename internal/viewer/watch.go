package viewer

import (
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Faultbox/sheep3d/internal/logger"
)

// Watcher reports changes to a single file. It watches the parent
// directory so editors that replace the file on save are still seen.
//
// The watch goroutine only forwards events; reacting to them is left to
// whoever drains Changes, typically once per frame.
type Watcher struct {
	fs      *fsnotify.Watcher
	target  string
	changes chan string
	done    chan struct{}
	once    sync.Once
}

// Watch starts watching path.
func Watch(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrap(err, "watch")
	}
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "watch")
	}
	if err := fs.Add(filepath.Dir(abs)); err != nil {
		fs.Close()
		return nil, errors.Wrapf(err, "watch %s", filepath.Dir(abs))
	}

	w := &Watcher{
		fs:      fs,
		target:  abs,
		changes: make(chan string, 1),
		done:    make(chan struct{}),
	}
	go w.run()

	logger.Info("watching scene", zap.String("path", abs))
	return w, nil
}

// Changes delivers the watched path after it changes. Bursts of events
// collapse into one pending notification.
func (w *Watcher) Changes() <-chan string { return w.changes }

func (w *Watcher) run() {
	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !w.relevant(ev) {
				continue
			}
			select {
			case w.changes <- w.target:
			default:
				// one already pending
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			logger.Warn("watch error", zap.Error(err))
		case <-w.done:
			return
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != w.target {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename)
}

// Close stops watching. It is safe to call more than once.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.fs.Close()
	})
	return err
}

// Pending drains ch without blocking and reports whether anything was
// waiting.
func Pending(ch <-chan string) bool {
	changed := false
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return changed
			}
			changed = true
		default:
			return changed
		}
	}
}
