package portfolio

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 250 * time.Millisecond

// ContentWatcher reloads content when files under the content root change.
// Reloads are debounced; a failed reload keeps the current snapshot.
type ContentWatcher struct {
	root     string
	reload   func(context.Context) error
	watcher  *fsnotify.Watcher
	debounce time.Duration
	logger   *slog.Logger

	reloadChan chan struct{}
	stopChan   chan struct{}
	stopOnce   sync.Once
	done       sync.WaitGroup
}

// NewContentWatcher watches root and every directory below it.
func NewContentWatcher(root string, reload func(context.Context) error, logger *slog.Logger) (*ContentWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	cw := &ContentWatcher{
		root:       root,
		reload:     reload,
		watcher:    w,
		debounce:   defaultDebounce,
		logger:     logger,
		reloadChan: make(chan struct{}, 1),
		stopChan:   make(chan struct{}),
	}
	if err := cw.addTree(root); err != nil {
		w.Close()
		return nil, err
	}
	return cw, nil
}

func (cw *ContentWatcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := cw.watcher.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

// Start begins watching in the background until ctx is done or Stop is called.
func (cw *ContentWatcher) Start(ctx context.Context) {
	cw.logger.Info("watching content", "root", cw.root)
	cw.done.Add(2)
	go cw.watchLoop(ctx)
	go cw.reloadLoop(ctx)
}

// Stop stops watching and waits for the loops to exit.
func (cw *ContentWatcher) Stop() error {
	var err error
	cw.stopOnce.Do(func() {
		close(cw.stopChan)
		err = cw.watcher.Close()
		cw.done.Wait()
	})
	return err
}

func (cw *ContentWatcher) watchLoop(ctx context.Context) {
	defer cw.done.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case <-cw.stopChan:
			return
		case event, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
				continue
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := cw.addTree(event.Name); err != nil {
						cw.logger.Warn("cannot watch new directory", "path", event.Name, "error", err)
					}
				}
			}
			cw.logger.Debug("content change detected", "path", event.Name, "op", event.Op.String())
			cw.triggerReload()
		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			cw.logger.Error("content watcher error", "error", err)
		}
	}
}

func (cw *ContentWatcher) reloadLoop(ctx context.Context) {
	defer cw.done.Done()
	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return
		case <-cw.stopChan:
			if timer != nil {
				timer.Stop()
			}
			return
		case <-cw.reloadChan:
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(cw.debounce)
			fire = timer.C
		case <-fire:
			fire = nil
			if err := cw.reload(ctx); err != nil {
				cw.logger.Error("content reload failed; keeping previous snapshot", "error", err)
			}
		}
	}
}

func (cw *ContentWatcher) triggerReload() {
	select {
	case cw.reloadChan <- struct{}{}:
	default:
	}
}
