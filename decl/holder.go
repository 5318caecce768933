package decl

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	declared "github.com/parametry/declared"
)

// Holder provides thread-safe access to one declaration file's compiled
// set with hot reload support. The held set is always one whose every
// definition compiled; a reload that parses badly or drops definitions
// keeps the previous set in place.
type Holder struct {
	mu       sync.RWMutex
	set      *declared.ParamSet
	path     string
	logger   zerolog.Logger
	watcher  *fsnotify.Watcher
	onChange []func(*declared.ParamSet)
	stopCh   chan struct{}
}

// NewHolder loads the declaration file and returns a holder for it.
func NewHolder(path string, logger zerolog.Logger) (*Holder, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("decl: absolute path: %w", err)
	}
	h := &Holder{
		path:   absPath,
		logger: logger,
		stopCh: make(chan struct{}),
	}
	set, err := load(absPath)
	if err != nil {
		return nil, err
	}
	h.set = set
	return h, nil
}

// load is the strict flavor used by the holder: compile issues count as
// failure.
func load(path string) (*declared.ParamSet, error) {
	set, err := LoadFile(path)
	if err != nil {
		if iss, ok := declared.AsIssues(err); ok {
			return nil, fmt.Errorf("decl: %s compiled with %d issue(s): %w", path, len(iss), err)
		}
		return nil, err
	}
	return set, nil
}

// Get returns the current set (thread-safe). Callers must treat it as
// read-only.
func (h *Holder) Get() *declared.ParamSet {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.set
}

// Reload re-reads the declaration file. It returns an error and keeps the
// old set when the file fails to parse or compile.
func (h *Holder) Reload() error {
	newSet, err := load(h.path)
	if err != nil {
		h.logger.Error().Err(err).Str("path", h.path).Msg("declaration reload failed, keeping old set")
		return err
	}

	h.mu.Lock()
	old := h.set
	h.set = newSet
	callbacks := make([]func(*declared.ParamSet), len(h.onChange))
	copy(callbacks, h.onChange)
	h.mu.Unlock()

	if old.Len() != newSet.Len() {
		h.logger.Info().Int("old", old.Len()).Int("new", newSet.Len()).Msg("parameter count changed")
	}
	for _, fn := range callbacks {
		fn(newSet)
	}

	h.logger.Info().Str("path", h.path).Int("params", newSet.Len()).Msg("declaration reloaded")
	return nil
}

// OnChange registers a callback to be called after each successful reload.
func (h *Holder) OnChange(fn func(*declared.ParamSet)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onChange = append(h.onChange, fn)
}

// WatchFile starts watching the declaration file for changes. Changes
// trigger automatic reload.
func (h *Holder) WatchFile() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("decl: create watcher: %w", err)
	}
	h.watcher = watcher

	// Watch the directory; editors that save atomically replace the file
	// and a file-level watch would go stale.
	dir := filepath.Dir(h.path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return fmt.Errorf("decl: watch directory: %w", err)
	}

	go h.watchLoop()

	h.logger.Info().Str("path", h.path).Msg("watching declaration file for changes")
	return nil
}

// Stop stops watching for file changes.
func (h *Holder) Stop() {
	close(h.stopCh)
	if h.watcher != nil {
		h.watcher.Close()
	}
}

func (h *Holder) watchLoop() {
	filename := filepath.Base(h.path)

	for {
		select {
		case event, ok := <-h.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filename {
				continue
			}
			// Write or create; atomic saves surface as create.
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				h.logger.Debug().
					Str("event", event.Op.String()).
					Str("file", event.Name).
					Msg("declaration file changed")
				if err := h.Reload(); err != nil {
					h.logger.Error().Err(err).Msg("file watch reload failed")
				}
			}

		case err, ok := <-h.watcher.Errors:
			if !ok {
				return
			}
			h.logger.Error().Err(err).Msg("file watcher error")

		case <-h.stopCh:
			return
		}
	}
}
