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

package repo

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"

	"github.com/xelalexv/xmitview/pkg/util"
	"github.com/xelalexv/xmitview/pkg/xmit"
)

// characters that separate words in names, for the tokenizer to see
const replaceChars = "`~!@#$%^&*_-+=()[]{}|;:',.<>?/\\"

const (
	batchLimit    = 100
	watchBackoff  = 5 * time.Second
	storeDir      = "store"
	defaultSearch = 100
)

var nameCleaner *strings.Replacer

//
func init() {
	rep := make([]string, 2*len(replaceChars))
	for ix, c := range replaceChars {
		rep[ix*2] = string(c)
		rep[ix*2+1] = " "
	}
	nameCleaner = strings.NewReplacer(rep...)
}

// Entry is what gets indexed per transmission file.
type Entry struct {
	Name    string   `json:"name"`
	Dataset string   `json:"dataset"`
	Utility string   `json:"utility"`
	Origin  string   `json:"origin"`
	Members []string `json:"members"`
}

// NewEntry decodes the transmission file at path, relative to the
// repository root rel, and collects its searchable parts. Files that decode
// only partially still yield an entry with what could be read.
func NewEntry(path, rel string) (*Entry, error) {

	c, err := xmit.OpenFile(path)
	if err != nil {
		return nil, err
	}

	e := &Entry{
		Name:   nameCleaner.Replace(rel),
		Origin: nameCleaner.Replace(c.Origin().String()),
	}

	if len(c.Datasets) > 0 {
		e.Dataset = nameCleaner.Replace(c.Datasets[0].Name)
		e.Utility = c.Datasets[0].Utility
	}

	a, err := c.FindEmbeddedArchive()
	if err != nil {
		log.WithField("file", rel).Debugf("no member list: %v", err)
		return e, nil
	}

	for _, m := range a.Members() {
		e.Members = append(e.Members, m.TrimmedName())
	}

	return e, nil
}

// NewIndex opens the search index stored at base, or creates it if base
// does not exist yet. The index covers the transmission files below repo.
func NewIndex(base, repo string) (*Index, error) {

	var err error
	i := &Index{}

	if i.base, err = filepath.Abs(base); err != nil {
		return nil, err
	}
	if i.repo, err = filepath.Abs(repo); err != nil {
		return nil, err
	}

	logger := log.WithFields(log.Fields{"base": i.base, "repo": i.repo})

	if _, err := os.Stat(i.base); os.IsNotExist(err) {
		logger.Info("creating new index")
		if i.index, err = bleve.New(i.base, bleve.NewIndexMapping()); err != nil {
			logger.Errorf("cannot create index: %v", err)
			return nil, err
		}
		i.empty = true

	} else {
		logger.Info("opening index")
		if i.index, err = bleve.Open(i.base); err != nil {
			logger.Errorf("cannot open index: %v", err)
			return nil, err
		}
	}

	i.batch = i.index.NewBatch()
	return i, nil
}

// Index is a full text index over the transmission files of a repository
// directory. Once started, it follows changes in the repository.
type Index struct {
	base string
	repo string
	//
	index   bleve.Index
	empty   bool
	watcher *util.DirWatcher
	//
	mu         sync.Mutex
	stopped    bool
	batch      *bleve.Batch
	batchCount int
}

// Start brings the index up to date with the repository, and starts
// watching the repository for changes.
func (i *Index) Start() error {

	start := time.Now()
	if err := i.prune(); err != nil {
		return fmt.Errorf("error pruning index: %v", err)
	}
	log.WithField("duration", time.Since(start)).Info("index pruned")

	start = time.Now()
	if err := i.update(); err != nil {
		return fmt.Errorf("error updating index: %v", err)
	}
	log.WithField("duration", time.Since(start)).Info("index updated")

	if err := i.startWatching(); err != nil {
		return fmt.Errorf("error starting repo watcher: %v", err)
	}

	if err := i.flush(); err != nil {
		return err
	}

	log.Info("index ready")
	return nil
}

// Stop ends watching and closes the index.
func (i *Index) Stop() {

	if i.watcher != nil {
		i.watcher.Stop()
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	if !i.stopped && i.index != nil {
		if err := i.index.Close(); err != nil {
			log.Errorf("error closing index: %v", err)
		}
	}
	i.stopped = true
}

// Repo returns the absolute path of the indexed repository.
func (i *Index) Repo() string {
	return i.repo
}

// prune removes entries whose files have gone
func (i *Index) prune() error {

	if i.empty {
		return nil
	}

	ix, err := i.index.Advanced()
	if err != nil {
		return err
	}

	rd, err := ix.Reader()
	if err != nil {
		return err
	}
	defer rd.Close()

	docs, err := rd.DocIDReaderAll()
	if err != nil {
		return err
	}
	defer docs.Close()

	for {
		d, err := docs.Next()
		if err != nil {
			return err
		}
		if d == nil {
			return nil
		}
		id, err := rd.ExternalID(d)
		if err != nil {
			return err
		}
		if _, err := os.Stat(filepath.Join(i.repo, id)); os.IsNotExist(err) {
			i.removeEntry(id)
		}
	}
}

// update adds all transmission files changed since the last index write
func (i *Index) update() error {

	var lastMod time.Time
	if !i.empty {
		if store, err := os.Stat(filepath.Join(i.base, storeDir)); err == nil {
			lastMod = store.ModTime()
			log.Debugf("last index mod time: %v", lastMod)
		}
	}
	i.empty = false

	return filepath.WalkDir(i.repo,
		func(path string, d fs.DirEntry, err error) error {

			if err != nil {
				return err
			}
			if i.isStopped() {
				return fmt.Errorf("forced exit")
			}
			if d.IsDir() || !xmit.IsTransmissionFile(path) {
				return nil
			}
			if info, err := d.Info(); err == nil && info.ModTime().After(lastMod) {
				i.addEntry(path)
			}
			return nil
		})
}

//
func (i *Index) startWatching() error {
	var err error
	if i.watcher, err = util.NewDirWatcher(
		i.repo, xmit.IsTransmissionFile); err != nil {
		return err
	}
	return i.watcher.Start(watchBackoff, i.watchEvent, i.flush)
}

//
func (i *Index) watchEvent(evt fsnotify.Event) error {

	log.WithFields(log.Fields{
		"path": i.makeRelative(evt.Name), "op": evt.Op}).Debug("index update")

	switch {
	case evt.Op&(fsnotify.Create|fsnotify.Write) != 0:
		return i.addEntry(evt.Name)
	case evt.Op&(fsnotify.Rename|fsnotify.Remove) != 0:
		return i.removeEntry(i.makeRelative(evt.Name))
	}

	return nil
}

//
func (i *Index) addEntry(path string) error {

	rel := i.makeRelative(path)
	logger := log.WithField("file", rel)

	e, err := NewEntry(path, rel)
	if err != nil {
		// keep the file findable by name
		logger.Warnf("cannot decode transmission file: %v", err)
		e = &Entry{Name: nameCleaner.Replace(rel)}
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	logger.Debug("adding entry to index")
	if err := i.batch.Index(rel, e); err != nil {
		logger.Errorf("failed to batch entry add: %v", err)
		return err
	}
	return i.batched(false)
}

//
func (i *Index) removeEntry(rel string) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	log.WithField("file", rel).Debug("removing entry from index")
	i.batch.Delete(rel)
	return i.batched(false)
}

//
func (i *Index) flush() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.batched(true)
}

// batched executes pending batch actions when flush is set, or when the
// batch gets large. Callers hold the lock.
func (i *Index) batched(flush bool) error {

	if i.stopped {
		return nil
	}

	if i.batchCount++; flush || i.batchCount > batchLimit {
		log.Debug("flushing pending index actions")
		if err := i.index.Batch(i.batch); err != nil {
			log.Errorf("failed to execute index batch: %v", err)
			return err
		}
		i.batch = i.index.NewBatch()
		i.batchCount = 0
	}

	return nil
}

//
func (i *Index) isStopped() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.stopped
}

//
func (i *Index) makeRelative(path string) string {
	if rel, err := filepath.Rel(i.repo, path); err == nil &&
		!strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(rel)
	}
	return path
}
