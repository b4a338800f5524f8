package littlehouse

import (
	"fmt"
	"os"
	"time"

	"github.com/radovskyb/watcher"
)

// watchContent invalidates the post cache whenever a file in the posts
// directory is written, created, renamed or removed. It polls every
// interval and returns a func that stops the watcher.
func (a *App) watchContent(interval time.Duration) (func(), error) {
	if err := os.MkdirAll(a.Config.PostsDir, 0o755); err != nil {
		return nil, fmt.Errorf("create posts dir: %w", err)
	}

	w := watcher.New()
	w.SetMaxEvents(1)
	w.FilterOps(watcher.Write, watcher.Create, watcher.Remove, watcher.Rename, watcher.Move)
	if err := w.Add(a.Config.PostsDir); err != nil {
		return nil, err
	}

	done := make(chan struct{})
	go func() {
		for {
			select {
			case ev := <-w.Event:
				a.Echo.Logger.Debugf("content changed: %s %s", ev.Op, ev.Name())
				a.Cache.Invalidate()
			case err := <-w.Error:
				a.Echo.Logger.Errorf("content watcher: %v", err)
			case <-w.Closed:
				return
			case <-done:
				return
			}
		}
	}()

	go func() {
		if err := w.Start(interval); err != nil {
			a.Echo.Logger.Errorf("content watcher: %v", err)
		}
	}()

	return func() {
		close(done)
		w.Close()
	}, nil
}
