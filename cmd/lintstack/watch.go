package main

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/hashicorp/go-hclog"
)

const debounce = 100 * time.Millisecond

// watchSet is the set of absolute paths a watch session reacts to.
type watchSet struct {
	files map[string]bool
	dirs  map[string]bool
}

func newWatchSet(files []string, configPath string) *watchSet {
	ws := &watchSet{files: map[string]bool{}, dirs: map[string]bool{}}
	add := func(p string) {
		abs, err := filepath.Abs(p)
		if err != nil {
			return
		}
		ws.files[abs] = true
		ws.dirs[filepath.Dir(abs)] = true
	}
	for _, f := range files {
		add(f)
	}
	if configPath != "" {
		add(configPath)
	}
	return ws
}

// relevant reports whether ev should trigger another pass: a write to a
// linted file, or to anything that looks like a configuration document.
func (ws *watchSet) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
		return false
	}
	if ws.files[ev.Name] {
		return true
	}
	return strings.HasPrefix(filepath.Base(ev.Name), ".lintstackrc")
}

// watch runs pass once, then again after every relevant change until ctx
// is cancelled. It returns the exit code of the last pass.
func watch(ctx context.Context, files []string, configPath string, logger hclog.Logger,
	pass func(context.Context) int) int {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Error("creating watcher", "error", err)
		return 2
	}
	defer func() { _ = w.Close() }()

	ws := newWatchSet(files, configPath)
	for dir := range ws.dirs {
		if err := w.Add(dir); err != nil {
			logger.Error("watching directory", "dir", dir, "error", err)
			return 2
		}
	}

	code := pass(ctx)
	rerun := make(chan struct{}, 1)
	var timer *time.Timer
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return code
		case ev, ok := <-w.Events:
			if !ok {
				return code
			}
			if !ws.relevant(ev) {
				continue
			}
			logger.Debug("change detected", "path", ev.Name)
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, func() {
				select {
				case rerun <- struct{}{}:
				default:
				}
			})
		case <-rerun:
			code = pass(ctx)
		case err, ok := <-w.Errors:
			if !ok {
				return code
			}
			logger.Warn("watcher error", "error", err)
		}
	}
}
