package scan

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// Watcher watches transcript directories with fsnotify and invokes
// a rescan callback once writes have settled for the debounce
// period. The callback carries no paths: a scan pass is cheap and
// always rebuilds the whole snapshot.
type Watcher struct {
	onChange func()
	watcher  *fsnotify.Watcher
	debounce time.Duration
	mu       sync.Mutex
	dirty    time.Time // zero when nothing is pending
	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
	now      func() time.Time
}

// NewWatcher creates a watcher that calls onChange after transcript
// writes have been quiet for the debounce period.
func NewWatcher(debounce time.Duration, onChange func()) (*Watcher, error) {
	if onChange == nil {
		return nil, fmt.Errorf("onChange callback is nil: %w", os.ErrInvalid)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		onChange: onChange,
		watcher:  fsw,
		debounce: debounce,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
		now:      time.Now,
	}, nil
}

// WatchRecursive walks a directory tree and adds every
// subdirectory to the watch list, returning how many were added.
// Inaccessible directories are skipped.
func (w *Watcher) WatchRecursive(root string) (int, error) {
	watched := 0
	err := filepath.WalkDir(root,
		func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if d.IsDir() {
				if addErr := w.watcher.Add(path); addErr == nil {
					watched++
				}
			}
			return nil
		})
	return watched, err
}

// Start begins processing file events in a goroutine.
func (w *Watcher) Start() {
	go w.loop()
}

// Stop stops the watcher and waits for the loop to finish.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stop)
		<-w.done
		w.watcher.Close()
	})
}

func (w *Watcher) loop() {
	defer close(w.done)
	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	for {
		select {
		case <-w.stop:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logrus.WithError(err).Warn("transcript watcher error")

		case <-ticker.C:
			w.flush()
		}
	}
}

// handleEvent marks the tree dirty for relevant events,
// auto-watching newly created directories so sessions in new
// projects are picked up.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return
	}

	isDir := false
	if event.Op&fsnotify.Create != 0 {
		isDir = w.watchIfDir(event.Name)
	}

	if !isDir && !strings.HasSuffix(event.Name, ".jsonl") {
		return
	}

	w.mu.Lock()
	w.dirty = w.now()
	w.mu.Unlock()
}

// watchIfDir adds path to the watch list when it is a directory and
// reports whether it was one.
func (w *Watcher) watchIfDir(path string) bool {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return false
	}
	_ = w.watcher.Add(path)
	return true
}

func (w *Watcher) flush() {
	w.mu.Lock()
	if w.dirty.IsZero() || w.now().Sub(w.dirty) < w.debounce {
		w.mu.Unlock()
		return
	}
	w.dirty = time.Time{}
	w.mu.Unlock()

	logrus.Debug("transcripts changed, triggering rescan")
	w.onChange()
}
