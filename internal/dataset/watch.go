package dataset

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/ecagl/ragent/internal/logger"
)

// Watcher reports when the dataset file changes on disk so long-running
// sessions can warn that loaded records and built indexes are stale.
type Watcher struct {
	watcher *fsnotify.Watcher
	path    string
	changes chan string
	done    chan struct{}
	log     *logger.Logger
}

// Watch starts watching the dataset file. It watches the parent directory
// rather than the file itself so editors that replace the file by rename
// are still detected.
func Watch(path string, log *logger.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: resolve %s: %w", path, err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("dataset: create watcher: %w", err)
	}

	if err := fw.Add(filepath.Dir(abs)); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("dataset: watch %s: %w", filepath.Dir(abs), err)
	}

	if log == nil {
		log = logger.New("dataset", nil)
	}

	w := &Watcher{
		watcher: fw,
		path:    abs,
		changes: make(chan string, 1),
		done:    make(chan struct{}),
		log:     log.WithComponent("dataset-watch"),
	}
	go w.loop()
	return w, nil
}

// Changes delivers the dataset path whenever the file is written, created,
// or renamed. The channel has capacity one; repeated changes before the
// consumer reads collapse into a single notification.
func (w *Watcher) Changes() <-chan string {
	return w.changes
}

// Close stops watching and releases the underlying watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}

func (w *Watcher) loop() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			w.log.Debug("dataset changed: %s (%s)", event.Name, event.Op)
			select {
			case w.changes <- w.path:
			default:
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error: %v", err)
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Op.Has(fsnotify.Write) || event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Rename)
}
