package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultReloadDebounce is how long the Watcher waits after the last file
// event before reloading. Editors often emit several events for one save.
const DefaultReloadDebounce = 100 * time.Millisecond

// Watcher reloads a config file when it changes on disk.
//
// Each successful reload whose options differ from the previous one is
// handed to the change callback, which takes ownership of the Config and
// must eventually Release it. Reloads with identical content are released
// by the Watcher and not reported.
type Watcher struct {
	path     string
	alloc    Allocator
	debounce time.Duration
	onChange func(*Config)
	onError  func(error)

	watcher *fsnotify.Watcher
	last    Digest
	hasLast bool

	started  atomic.Bool
	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce overrides DefaultReloadDebounce.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) { w.debounce = d }
}

// WithErrorHandler receives reload and watch errors. Without one they are
// dropped.
func WithErrorHandler(fn func(error)) WatcherOption {
	return func(w *Watcher) { w.onError = fn }
}

// WithInitial seeds the Watcher with the digest of the config already in
// use, so a write that leaves the options unchanged is not reported.
func WithInitial(cfg *Config) WatcherOption {
	return func(w *Watcher) {
		if d, err := cfg.Digest(); err == nil {
			w.last = d
			w.hasLast = true
		}
	}
}

// NewWatcher watches path. The file's directory is watched rather than the
// file itself so that atomic renames by editors are seen.
func NewWatcher(path string, alloc Allocator, onChange func(*Config), opts ...WatcherOption) (*Watcher, error) {
	if onChange == nil {
		return nil, errors.New("config watcher: nil change callback")
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("config watcher: %w", err)
	}
	path = filepath.Clean(path)
	if err := fw.Add(filepath.Dir(path)); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("config watcher: watch %s: %w", filepath.Dir(path), err)
	}

	w := &Watcher{
		path:     path,
		alloc:    alloc,
		debounce: DefaultReloadDebounce,
		onChange: onChange,
		watcher:  fw,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Start begins watching in a new goroutine.
func (w *Watcher) Start() {
	if w.started.CompareAndSwap(false, true) {
		go w.loop()
	}
}

// Stop ends watching and waits for the watch goroutine to exit. It is safe
// to call more than once, and safe to call without Start.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		_ = w.watcher.Close()
	})
	if w.started.Load() {
		<-w.doneCh
	}
}

func (w *Watcher) loop() {
	defer close(w.doneCh)

	timer := time.NewTimer(0)
	<-timer.C
	defer timer.Stop()

	for {
		select {
		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			timer.Reset(w.debounce)

		case <-timer.C:
			w.reload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.reportError(err)
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := ReadFile(w.path, w.alloc)
	if err != nil {
		w.reportError(err)
		return
	}
	digest, err := cfg.Digest()
	if err != nil {
		_ = cfg.Release()
		w.reportError(err)
		return
	}
	if w.hasLast && digest == w.last {
		_ = cfg.Release()
		return
	}
	w.last = digest
	w.hasLast = true
	w.onChange(cfg)
}

func (w *Watcher) reportError(err error) {
	if w.onError != nil {
		w.onError(err)
	}
}
