/*
   XmitView - MVS transmission file viewer
   Copyright (c) 2026, The XmitView Authors

   This file is part of XmitView.

   XmitView is free software: you can redistribute it and/or modify
   it under the terms of the GNU General Public License as published by
   the Free Software Foundation, either version 3 of the License, or
   (at your option) any later version.

   XmitView is distributed in the hope that it will be useful,
   but WITHOUT ANY WARRANTY; without even the implied warranty of
   MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
   GNU General Public License for more details.

   You should have received a copy of the GNU General Public License
   along with XmitView. If not, see <http://www.gnu.org/licenses/>.
*/

package util

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
)

// EventHandler receives a file event that passed the watcher's filter.
type EventHandler func(fsnotify.Event) error

// FlushFunc is called once the watched tree has been quiet for the back-off
// period.
type FlushFunc func() error

/*
	NewDirWatcher creates a recursive watcher for the tree rooted in dir.
	Directories created later on are added to the watch. Events for files are
	only passed on when accept returns true for the file path. A nil accept
	passes all events. The watcher does nothing until Start is called.
*/
func NewDirWatcher(dir string, accept func(string) bool) (*DirWatcher, error) {

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ret := &DirWatcher{watcher: w, accept: accept, done: make(chan struct{})}

	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return ret.watch(path)
		}
		return nil
	})

	if err != nil {
		log.WithField("dir", dir).Errorf("cannot set up watch: %v", err)
		w.Close()
		return nil, err
	}

	return ret, nil
}

// DirWatcher reports file changes in a directory tree.
type DirWatcher struct {
	watcher *fsnotify.Watcher
	accept  func(string) bool
	done    chan struct{}
	//
	mu      sync.Mutex
	running bool
	stopped bool
}

/*
	Start runs the watch loop in its own go routine. Each accepted event is
	passed to handler. After backoff without further events, flush is called.
	Both are only ever called from the watch loop, so they need no locking.
*/
func (dw *DirWatcher) Start(backoff time.Duration, handler EventHandler,
	flush FlushFunc) error {

	dw.mu.Lock()
	defer dw.mu.Unlock()

	if dw.stopped {
		return fmt.Errorf("directory watcher stopped")
	}
	if dw.running {
		return fmt.Errorf("directory watcher already started")
	}
	dw.running = true

	go dw.loop(backoff, handler, flush)
	return nil
}

//
func (dw *DirWatcher) loop(backoff time.Duration, handler EventHandler,
	flush FlushFunc) {

	defer close(dw.done)

	timer := time.NewTimer(backoff)
	timer.Stop()
	pending := false

	for {
		select {

		case evt, ok := <-dw.watcher.Events:
			if !ok {
				log.Debug("directory watcher exiting")
				return
			}

			if !dw.dispatch(evt, handler) {
				continue
			}
			if !timer.Stop() && pending {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(backoff)
			pending = true

		case err, ok := <-dw.watcher.Errors:
			if ok {
				log.Errorf("directory watcher error: %v", err)
			}

		case <-timer.C:
			pending = false
			if err := flush(); err != nil {
				log.Errorf("error flushing: %v", err)
			}
		}
	}
}

// dispatch tracks new directories and passes file events on. It returns
// whether the handler has been called.
func (dw *DirWatcher) dispatch(evt fsnotify.Event, handler EventHandler) bool {

	log.WithFields(log.Fields{
		"path": evt.Name, "op": evt.Op}).Trace("file system event")

	if evt.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(evt.Name); err == nil && info.IsDir() {
			dw.watch(evt.Name)
			return false
		}
	}

	if dw.accept != nil && !dw.accept(evt.Name) {
		return false
	}

	if err := handler(evt); err != nil {
		log.WithField("path", evt.Name).Errorf(
			"error in watch event handler: %v", err)
	}
	return true
}

//
func (dw *DirWatcher) watch(dir string) error {
	if err := dw.watcher.Add(dir); err != nil {
		log.WithField("dir", dir).Errorf("cannot watch directory: %v", err)
		return err
	}
	log.WithField("dir", dir).Debug("watching directory")
	return nil
}

/*
	Stop closes the watcher and waits for the watch loop to exit. A stopped
	watcher cannot be started again.
*/
func (dw *DirWatcher) Stop() {

	dw.mu.Lock()
	if dw.stopped {
		dw.mu.Unlock()
		return
	}
	dw.stopped = true
	running := dw.running
	dw.mu.Unlock()

	log.Debug("closing directory watcher")
	if err := dw.watcher.Close(); err != nil {
		log.Errorf("could not close directory watcher: %v", err)
	}
	if running {
		<-dw.done
	}
}
