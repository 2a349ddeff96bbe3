package config

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceDelay coalesces the write bursts editors and atomic saves produce.
const debounceDelay = 200 * time.Millisecond

// ChangeCallback is invoked with the freshly loaded configuration after the
// watched file changes and revalidates.
type ChangeCallback func(prev, next *Config)

// Watcher watches a configuration file and reloads it on change. Reloads
// that fail to parse or validate are logged and dropped; the previous
// configuration stays active.
type Watcher struct {
	filename string
	log      *slog.Logger

	mu       sync.RWMutex
	current  *Config
	callback ChangeCallback

	fsWatcher *fsnotify.Watcher
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

// NewWatcher loads filename and begins watching it for changes.
func NewWatcher(filename string, callback ChangeCallback, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}

	cfg, err := Load(filename)
	if err != nil {
		return nil, err
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("config: create fs watcher: %w", err)
	}

	if err := fsWatcher.Add(filename); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("config: watch %s: %w", filename, err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	w := &Watcher{
		filename:  filename,
		log:       logger,
		current:   cfg,
		callback:  callback,
		fsWatcher: fsWatcher,
		cancel:    cancel,
	}

	w.wg.Add(1)
	go w.watchLoop(ctx)

	return w, nil
}

// Current returns the active configuration.
func (w *Watcher) Current() *Config {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return w.current
}

// Close stops watching and releases the file system watcher.
func (w *Watcher) Close() error {
	w.cancel()
	err := w.fsWatcher.Close()
	w.wg.Wait()

	return err
}

func (w *Watcher) watchLoop(ctx context.Context) {
	defer w.wg.Done()

	var (
		timer   *time.Timer
		timerCh <-chan time.Time
	)

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}

			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			if timer == nil {
				timer = time.NewTimer(debounceDelay)
				timerCh = timer.C
			} else {
				timer.Reset(debounceDelay)
			}

			// Editors may replace the file; re-arm the watch.
			_ = w.fsWatcher.Add(w.filename)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}

			w.log.Warn("config watch error", "err", err)

		case <-timerCh:
			w.reload()
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := Load(w.filename)
	if err != nil {
		w.log.Warn("config reload rejected", "file", w.filename, "err", err)
		return
	}

	w.mu.Lock()
	old := w.current
	w.current = cfg
	callback := w.callback
	w.mu.Unlock()

	w.log.Info("config reloaded", "file", w.filename)

	if callback != nil {
		callback(old, cfg)
	}
}
