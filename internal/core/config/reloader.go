package config

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const reloadDelay = 100 * time.Millisecond

// Reloader re-reads a configuration file when it changes on disk and hands
// every valid result to a callback. Saves that leave the bytes unchanged are
// ignored.
type Reloader struct {
	path     string
	onReload func(*Config)
	last     []byte
}

func NewReloader(path string, onReload func(*Config)) *Reloader {
	r := &Reloader{path: filepath.Clean(path), onReload: onReload}
	r.last, _ = os.ReadFile(r.path)
	return r
}

// Start watches the file's directory, which also catches editors that save
// by renaming a temp file over the original. The returned stop function
// ends the watch and waits for a pending reload to finish.
func (r *Reloader) Start(ctx context.Context) (stop func(), err error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(r.path)); err != nil {
		fsw.Close()
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer fsw.Close()
		r.loop(ctx, fsw)
	}()
	return func() { cancel(); wg.Wait() }, nil
}

func (r *Reloader) loop(ctx context.Context, fsw *fsnotify.Watcher) {
	timer := time.NewTimer(reloadDelay)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) == r.path && ev.Has(fsnotify.Write|fsnotify.Create) {
				timer.Reset(reloadDelay)
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			slog.Warn("config watcher error", "path", r.path, "error", err)
		case <-timer.C:
			r.reload()
		}
	}
}

func (r *Reloader) reload() {
	data, err := os.ReadFile(r.path)
	if err != nil {
		slog.Warn("failed to read configuration, keeping the previous one", "path", r.path, "error", err)
		return
	}
	if bytes.Equal(data, r.last) {
		return
	}
	cfg, err := Parse(data)
	if err != nil {
		slog.Warn("invalid configuration, keeping the previous one", "path", r.path, "error", err)
		return
	}
	r.last = data
	slog.Info("configuration reloaded", "path", r.path)
	if r.onReload != nil {
		r.onReload(cfg)
	}
}
