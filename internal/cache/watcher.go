package cache

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceDelay coalesces the burst of filesystem events a single git
// operation produces into one invalidation.
const debounceDelay = 500 * time.Millisecond

// Watcher invalidates a cache when the repository's refs change, so the next
// read regenerates instead of waiting out the TTL.
type Watcher struct {
	gitDir   string
	onChange func()
	fsw      *fsnotify.Watcher
}

// NewWatcher creates a watcher over the given .git directory. onChange is
// called (debounced) whenever HEAD or any ref is updated.
func NewWatcher(gitDir string, onChange func()) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating filesystem watcher: %w", err)
	}

	w := &Watcher{gitDir: gitDir, onChange: onChange, fsw: fsw}

	// Watch the git dir itself (HEAD, packed-refs) plus the loose ref
	// directories. fsnotify is not recursive.
	paths := []string{
		gitDir,
		filepath.Join(gitDir, "refs", "heads"),
		filepath.Join(gitDir, "refs", "tags"),
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := fsw.Add(p); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("watching %s: %w", p, err)
		}
	}

	return w, nil
}

// Run processes filesystem events until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !relevantEvent(event) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounceDelay, w.onChange)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "[cache] Warning: watcher error: %v\n", err)
		}
	}
}

// relevantEvent filters for ref updates: HEAD, packed-refs, and anything
// under refs/. Lock files churn constantly and are ignored.
func relevantEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename|fsnotify.Remove) == 0 {
		return false
	}
	name := filepath.Base(event.Name)
	if strings.HasSuffix(name, ".lock") {
		return false
	}
	if name == "HEAD" || name == "packed-refs" {
		return true
	}
	return strings.Contains(event.Name, string(filepath.Separator)+"refs"+string(filepath.Separator))
}
