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

package control

import (
	"net/http"

	lru "github.com/hashicorp/golang-lru/v2"
	log "github.com/sirupsen/logrus"

	"github.com/xelalexv/xmitview/pkg/iebcopy"
	"github.com/xelalexv/xmitview/pkg/repo"
	"github.com/xelalexv/xmitview/pkg/xmit"
)

// decoded is a transmission file together with its embedded archive, if
// there is one.
type decoded struct {
	container *xmit.Container
	archive   *iebcopy.Archive
	// why there is no archive
	archiveErr error
}

// archiveCache keeps recently used decoded files, keyed by reference.
type archiveCache struct {
	entries *lru.Cache[string, *decoded]
}

//
func newArchiveCache(size int) (*archiveCache, error) {
	if size <= 0 {
		size = defaultCacheSize
	}
	c, err := lru.New[string, *decoded](size)
	if err != nil {
		return nil, err
	}
	return &archiveCache{entries: c}, nil
}

// get returns the decoded file for ref, decoding it on a cache miss.
func (c *archiveCache) get(ref, repository string) (*decoded, error) {

	if d, ok := c.entries.Get(ref); ok {
		log.WithField("ref", ref).Trace("archive cache hit")
		return d, nil
	}

	cont, err := repo.Open(ref, repository)
	if err != nil {
		return nil, err
	}

	d := &decoded{container: cont}
	d.archive, d.archiveErr = cont.FindEmbeddedArchive()

	c.entries.Add(ref, d)
	log.WithFields(log.Fields{
		"ref":    ref,
		"cached": c.entries.Len(),
	}).Debug("archive decoded")

	return d, nil
}

// getDecoded resolves the file reference of a request. On error, a reply
// has already been sent, and nil is returned.
func (a *api) getDecoded(w http.ResponseWriter, req *http.Request) *decoded {

	ref, err := getRef(req)
	if handleError(err, http.StatusBadRequest, w) {
		return nil
	}

	d, err := a.cache.get(ref, a.repository)
	if handleError(err, http.StatusUnprocessableEntity, w) {
		return nil
	}

	return d
}

// getArchive is like getDecoded, but requires an embedded archive.
func (a *api) getArchive(w http.ResponseWriter, req *http.Request) *iebcopy.Archive {
	d := a.getDecoded(w, req)
	if d == nil {
		return nil
	}
	if handleError(d.archiveErr, http.StatusUnprocessableEntity, w) {
		return nil
	}
	return d.archive
}
