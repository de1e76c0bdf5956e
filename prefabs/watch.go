package prefabs

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const defaultQuiet = 150 * time.Millisecond

// Watcher reports prefab files that changed on disk. Bursts of events for
// the same set of files are coalesced until quiet has passed with no new
// events, so an editor's save sequence yields one batch.
type Watcher struct {
	fs      *fsnotify.Watcher
	changes chan []string
	errs    chan error
	quiet   time.Duration
	closeCh chan struct{}
	doneCh  chan struct{}
	once sync.Once
}

// NewWatcher watches root and its immediate subdirectories.
func NewWatcher(root string, quiet time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	dirs := []string{root}
	if entries, err := os.ReadDir(root); err == nil {
		for _, e := range entries {
			if e.IsDir() {
				dirs = append(dirs, filepath.Join(root, e.Name()))
			}
		}
	}
	for _, dir := range dirs {
		if err := fw.Add(dir); err != nil {
			_ = fw.Close()
			return nil, err
		}
	}
	if quiet <= 0 {
		quiet = defaultQuiet
	}

	w := &Watcher{
		fs:      fw,
		changes: make(chan []string, 4),
		errs:    make(chan error, 1),
		quiet:   quiet,
		closeCh: make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// Changes delivers batches of changed paths.
func (w *Watcher) Changes() <-chan []string {
	return w.changes
}

func (w *Watcher) Errors() <-chan error {
	return w.errs
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.fs.Close()
		<-w.doneCh
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.doneCh)
	defer close(w.changes)
	defer close(w.errs)

	pending := map[string]struct{}{}
	timer := time.NewTimer(w.quiet)
	timer.Stop()

	for {
		select {
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if !isPrefabFile(event.Name) {
				continue
			}
			pending[event.Name] = struct{}{}
			timer.Reset(w.quiet)
		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			batch := make([]string, 0, len(pending))
			for p := range pending {
				batch = append(batch, p)
			}
			clear(pending)
			select {
			case w.changes <- batch:
			case <-w.closeCh:
				return
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			select {
			case w.errs <- err:
			default:
			}
		case <-w.closeCh:
			return
		}
	}
}

func isPrefabFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".tengo":
		return true
	}
	return false
}
