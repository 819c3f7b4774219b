package resources

import (
	"context"
	"log"
	"time"

	"github.com/fsnotify/fsnotify"
)

const reloadDelay = 250 * time.Millisecond

// watchDir calls onChange once writes to directory settle. It stops when
// ctx is done.
func watchDir(ctx context.Context, directory string, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	if err := watcher.Add(directory); err != nil {
		_ = watcher.Close()
		return err
	}

	go func() {
		<-ctx.Done()
		_ = watcher.Close()
	}()

	changed := make(chan struct{}, 1)
	go debounce(changed, reloadDelay, onChange)
	go forwardEvents(watcher, changed)
	return nil
}

func forwardEvents(watcher *fsnotify.Watcher, changed chan<- struct{}) {
	defer close(changed)
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Remove) ||
				event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				select {
				case changed <- struct{}{}:
				default:
				}
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Printf("resources: watcher error: %v\n", err)
		}
	}
}

func debounce(changed <-chan struct{}, delay time.Duration, callback func()) {
	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case _, ok := <-changed:
			if !ok {
				if timer != nil {
					timer.Stop()
				}
				return
			}
			if timer != nil {
				timer.Reset(delay)
			} else {
				timer = time.NewTimer(delay)
				fire = timer.C
			}

		case <-fire:
			fire = nil
			timer = nil
			callback()
		}
	}
}
