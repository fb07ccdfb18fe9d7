package source

import (
	"github.com/fsnotify/fsnotify"
)

// follower wakes a pump parked at EOF when the file is written to.
type follower struct {
	watcher *fsnotify.Watcher
}

func newFollower(name string) (*follower, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err = w.Add(name); err != nil {
		_ = w.Close()
		return nil, err
	}
	return &follower{watcher: w}, nil
}

func (f *follower) wait(done <-chan struct{}) error {
	for {
		select {
		case <-done:
			return errStopped
		case event, ok := <-f.watcher.Events:
			if !ok {
				return errStopped
			}
			switch {
			case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				return errStopped
			case event.Op&fsnotify.Write != 0:
				return nil
			}
		case err, ok := <-f.watcher.Errors:
			if !ok {
				return errStopped
			}
			return err
		}
	}
}

func (f *follower) Close() error {
	return f.watcher.Close()
}
