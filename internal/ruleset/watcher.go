package ruleset

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/streetrace-ai/shellgate/internal/classify"
)

// Watcher watches the user rules directory and rebuilds the knowledge base
// when pack files change. The rebuilt KB is handed to onSwap; callers swap
// it into their classifier atomically.
type Watcher struct {
	loader   *Loader
	onSwap   func(*classify.KB)
	watcher  *fsnotify.Watcher
	stopChan chan struct{}
	wg       sync.WaitGroup

	// Debounce rapid file changes
	debounce     time.Duration
	pendingTimer *time.Timer
	timerMu      sync.Mutex
}

// NewWatcher creates a watcher over the loader's user rules directory.
func NewWatcher(loader *Loader, onSwap func(*classify.KB)) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		loader:   loader,
		onSwap:   onSwap,
		watcher:  fsWatcher,
		stopChan: make(chan struct{}),
		debounce: 500 * time.Millisecond,
	}, nil
}

// Start begins watching the user rules directory.
func (w *Watcher) Start() error {
	if w.loader.userDir == "" {
		log.Warn("no user rules directory configured, watcher not started")
		return nil
	}

	if err := w.watcher.Add(w.loader.userDir); err != nil {
		// Directory might not exist yet
		log.Warn("cannot watch rules directory (may not exist yet): %v", err)
		return nil
	}

	w.wg.Add(1)
	go w.run()

	log.Info("watching rules directory: %s", w.loader.userDir)
	return nil
}

// Stop stops the watcher.
func (w *Watcher) Stop() error {
	close(w.stopChan)
	w.wg.Wait()

	w.timerMu.Lock()
	if w.pendingTimer != nil {
		w.pendingTimer.Stop()
	}
	w.timerMu.Unlock()

	return w.watcher.Close()
}

func (w *Watcher) run() {
	defer w.wg.Done()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Warn("watcher error: %v", err)

		case <-w.stopChan:
			return
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !strings.HasSuffix(event.Name, ".yaml") && !strings.HasSuffix(event.Name, ".yml") {
		return
	}

	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}

	log.Debug("rule file changed: %s (%s)", filepath.Base(event.Name), event.Op)
	w.scheduleRebuild()
}

func (w *Watcher) scheduleRebuild() {
	w.timerMu.Lock()
	defer w.timerMu.Unlock()

	if w.pendingTimer != nil {
		w.pendingTimer.Stop()
	}

	w.pendingTimer = time.AfterFunc(w.debounce, w.rebuild)
}

func (w *Watcher) rebuild() {
	log.Info("reloading rule packs...")
	kb, err := w.loader.Build()
	if err != nil {
		// Keep the previous KB; a broken reload must not widen or
		// narrow classification mid-flight.
		log.Error("failed to rebuild knowledge base: %v", err)
		return
	}
	w.onSwap(kb)
}
