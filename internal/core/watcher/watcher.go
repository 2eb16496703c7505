package watcher

import (
	"crypto/sha256"
	"idiomlint/internal/shared/observability"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gobwas/glob"
)

type digest = [sha256.Size]byte

// Watcher reports batches of changed source files after a quiet period.
// Writes that leave a file's content unchanged are dropped.
type Watcher struct {
	fsw          *fsnotify.Watcher
	excludeDirs  []glob.Glob
	excludeFiles []glob.Glob
	onChange     func([]string)
	emitMu       sync.Mutex

	mu       sync.Mutex
	debounce time.Duration
	exts     map[string]bool
	pending  map[string]struct{}
	digests  map[string]digest
	flush    *time.Timer
}

// NewWatcher creates a watcher. Directory patterns match base names; file
// patterns match the base name or the slash path. onChange is called with
// sorted paths, never concurrently with itself.
func NewWatcher(debounce time.Duration, excludeDirs, excludeFiles []string, onChange func([]string)) (*Watcher, error) {
	if onChange == nil {
		return nil, os.ErrInvalid
	}
	dirs, err := compileAll(excludeDirs)
	if err != nil {
		return nil, err
	}
	files, err := compileAll(excludeFiles)
	if err != nil {
		return nil, err
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		fsw:          fsw,
		excludeDirs:  dirs,
		excludeFiles: files,
		onChange:     onChange,
		debounce:     debounce,
		exts:         map[string]bool{".java": true},
		pending:      make(map[string]struct{}),
		digests:      make(map[string]digest),
	}, nil
}

func compileAll(patterns []string) ([]glob.Glob, error) {
	out := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, nil
}

// SetExtensions replaces the file extensions that are reported. An empty
// list reports every file.
func (w *Watcher) SetExtensions(extensions []string) {
	exts := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		if ext = strings.ToLower(strings.TrimSpace(ext)); ext != "" {
			exts[ext] = true
		}
	}
	w.mu.Lock()
	w.exts = exts
	w.mu.Unlock()
}

func (w *Watcher) SetDebounce(debounce time.Duration) {
	w.mu.Lock()
	w.debounce = debounce
	w.mu.Unlock()
}

// Watch registers every directory below paths and starts the event loop.
// Existing files are hashed first, so rewriting them unchanged is not
// reported.
func (w *Watcher) Watch(paths []string) error {
	for _, root := range paths {
		if err := w.addTree(root, func(path string) { w.remember(path) }); err != nil {
			return err
		}
	}
	go w.loop()
	return nil
}

// addTree watches root and every directory below it that is not excluded,
// calling visit for each source file found. A file root is watched through
// its parent directory.
func (w *Watcher) addTree(root string, visit func(path string)) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && w.excludedDir(path) {
				return filepath.SkipDir
			}
			return w.fsw.Add(path)
		}
		if !w.excludedFile(path) {
			visit(path)
		}
		if path == root {
			return w.fsw.Add(filepath.Dir(path))
		}
		return nil
	})
}

func (w *Watcher) loop() {
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			observability.WatcherEventsTotal.Inc()
			w.handle(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			slog.Error("watcher error", "error", err)
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	if ev.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			if w.excludedDir(ev.Name) {
				return
			}
			// Files may land in a new directory before it is watched.
			if err := w.addTree(ev.Name, w.enqueue); err != nil {
				slog.Warn("failed to watch new directory", "path", ev.Name, "error", err)
			}
			return
		}
	}
	if ev.Has(fsnotify.Chmod) && !ev.Has(fsnotify.Write) {
		return
	}
	if !w.excludedFile(ev.Name) {
		w.enqueue(ev.Name)
	}
}

func (w *Watcher) enqueue(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending[path] = struct{}{}
	if w.flush != nil {
		w.flush.Stop()
	}
	w.flush = time.AfterFunc(w.debounce, w.emit)
}

// emit hashes the pending files once the quiet period is over, so files
// still being written are not compared, and reports those that changed.
func (w *Watcher) emit() {
	w.mu.Lock()
	paths := make([]string, 0, len(w.pending))
	for p := range w.pending {
		paths = append(paths, p)
	}
	clear(w.pending)
	w.mu.Unlock()

	paths = slices.DeleteFunc(paths, func(p string) bool { return !w.remember(p) })
	if len(paths) == 0 {
		return
	}
	slices.Sort(paths)

	w.emitMu.Lock()
	defer w.emitMu.Unlock()
	w.onChange(paths)
}

// remember stores the content digest of path and reports whether it
// differs from the stored one. Unreadable files, usually removed ones, are
// forgotten and count as changed.
func (w *Watcher) remember(path string) bool {
	sum, err := hashFile(path)

	w.mu.Lock()
	defer w.mu.Unlock()
	if err != nil {
		delete(w.digests, path)
		return true
	}
	prev, seen := w.digests[path]
	w.digests[path] = sum
	return !seen || prev != sum
}

func hashFile(path string) (digest, error) {
	var sum digest
	f, err := os.Open(path)
	if err != nil {
		return sum, err
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return sum, err
	}
	h.Sum(sum[:0])
	return sum, nil
}

func (w *Watcher) excludedDir(path string) bool {
	base := filepath.Base(path)
	return slices.ContainsFunc(w.excludeDirs, func(g glob.Glob) bool { return g.Match(base) })
}

func (w *Watcher) excludedFile(path string) bool {
	base := filepath.Base(path)
	w.mu.Lock()
	exts := w.exts
	w.mu.Unlock()
	if len(exts) > 0 && !exts[strings.ToLower(filepath.Ext(base))] {
		return true
	}
	slash := filepath.ToSlash(path)
	return slices.ContainsFunc(w.excludeFiles, func(g glob.Glob) bool {
		return g.Match(base) || g.Match(slash)
	})
}

func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.flush != nil {
		w.flush.Stop()
	}
	w.mu.Unlock()
	return w.fsw.Close()
}
