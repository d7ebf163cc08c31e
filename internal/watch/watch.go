// Package watch re-runs a callback whenever a file changes on disk.
package watch

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	mdwerror "github.com/msto63/ccp/foundation/core/error"
	mdwlog "github.com/msto63/ccp/foundation/core/log"
)

// DefaultDebounce collapses the burst of events a single save produces.
const DefaultDebounce = 100 * time.Millisecond

// Options configures WatchWithOptions
type Options struct {
	// Debounce is how long the file must stay quiet before fn runs.
	Debounce time.Duration
	Logger   *mdwlog.Logger
}

// Watch calls fn once immediately and again after each write to path or
// re-creation of it, until ctx is done.
func Watch(ctx context.Context, path string, fn func()) error {
	return WatchWithOptions(ctx, path, fn, Options{})
}

// WatchWithOptions is Watch with explicit options.
func WatchWithOptions(ctx context.Context, path string, fn func(), opts Options) error {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Logger == nil {
		opts.Logger = mdwlog.GetDefault()
	}
	logger := opts.Logger.WithField("file", path)

	target, err := filepath.Abs(path)
	if err != nil {
		return mdwerror.Wrap(err, "failed to resolve watched path").
			WithCode(mdwerror.CodeIOError).
			WithOperation("watch.Watch")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return mdwerror.Wrap(err, "failed to create watcher").
			WithCode(mdwerror.CodeIOError).
			WithOperation("watch.Watch")
	}
	defer watcher.Close()

	// Editors often replace the file instead of writing it in place, which
	// drops a watch on the file itself. Watching the directory survives that.
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return mdwerror.Wrap(err, "failed to watch directory").
			WithCode(mdwerror.CodeIOError).
			WithOperation("watch.Watch").
			WithDetail("dir", filepath.Dir(target))
	}

	fn()

	timer := time.NewTimer(opts.Debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Debug("Stopping file watcher")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			logger.Debug("File changed", mdwlog.Fields{"op": event.Op.String()})
			timer.Reset(opts.Debounce)

		case <-timer.C:
			fn()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.WarnWithErr("Watcher error", err)
		}
	}
}
