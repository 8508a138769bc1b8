package app

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/gogpu/papercut"
)

// ConfigWatcher reloads a config file when it changes on disk.
type ConfigWatcher struct {
	path    string
	watcher *fsnotify.Watcher
	updates chan papercut.Config
	done    chan struct{}
}

// WatchConfig watches path. The containing directory is watched so that
// editors which replace the file on save are noticed.
func WatchConfig(path string) (*ConfigWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("app: watch config: %w", err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("app: watch config: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, fmt.Errorf("app: watch config: %w", err)
	}

	cw := &ConfigWatcher{
		path:    abs,
		watcher: w,
		updates: make(chan papercut.Config, 1),
		done:    make(chan struct{}),
	}
	go cw.run()
	return cw, nil
}

// Updates delivers successfully parsed configs. Only the newest pending
// config is kept. The channel closes after Close.
func (cw *ConfigWatcher) Updates() <-chan papercut.Config { return cw.updates }

// Close stops watching and waits for the watch goroutine to exit.
func (cw *ConfigWatcher) Close() error {
	err := cw.watcher.Close()
	<-cw.done
	return err
}

func (cw *ConfigWatcher) run() {
	defer close(cw.done)
	defer close(cw.updates)

	for {
		select {
		case e, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(e.Name) != cw.path || !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
				continue
			}
			cfg, err := papercut.LoadConfig(cw.path)
			if err != nil {
				papercut.Logger().Warn("app: config reload failed", "path", cw.path, "err", err)
				continue
			}
			cw.publish(cfg)
		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			papercut.Logger().Warn("app: config watcher", "err", err)
		}
	}
}

func (cw *ConfigWatcher) publish(cfg papercut.Config) {
	select {
	case <-cw.updates:
	default:
	}
	cw.updates <- cfg
}
