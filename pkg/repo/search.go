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
	"io"
	"strings"

	"github.com/blevesearch/bleve/v2"
	log "github.com/sirupsen/logrus"
)

// Hit is a single matching transmission file.
type Hit struct {
	Path  string  `json:"path"`
	Score float64 `json:"score"`
}

// SearchResult lists the files that matched a search, best match first.
// Complete is false when there were more matches than hits returned.
type SearchResult struct {
	Hits     []Hit  `json:"hits"`
	Total    uint64 `json:"total"`
	Complete bool   `json:"complete"`
}

//
func (r *SearchResult) Paths() []string {
	ret := make([]string, len(r.Hits))
	for ix, h := range r.Hits {
		ret[ix] = h.Path
	}
	return ret
}

// Write lists the hits as repo references, followed by a summary line.
func (r *SearchResult) Write(w io.Writer) error {

	for _, h := range r.Hits {
		if _, err := fmt.Fprintf(w, "%s%s\n", schemeRepo, h.Path); err != nil {
			return err
		}
	}

	summary := fmt.Sprintf("\ntotal hits: %d", r.Total)
	if !r.Complete {
		summary += fmt.Sprintf(", showing first %d", len(r.Hits))
	}
	_, err := fmt.Fprintln(w, summary)
	return err
}

// Search runs a query string search over file names, data set names, origin,
// and member names. Terms can be limited to a field, as in Members:REVIEW.
// At most max hits are returned; zero or less selects the default.
func (i *Index) Search(term string, max int) (*SearchResult, error) {

	if term = strings.TrimSpace(term); term == "" {
		return nil, fmt.Errorf("no search term")
	}
	if max <= 0 {
		max = defaultSearch
	}

	req := bleve.NewSearchRequestOptions(
		bleve.NewQueryStringQuery(term), max, 0, false)
	res, err := i.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("search for '%s' failed: %v", term, err)
	}

	log.WithFields(log.Fields{
		"term":  term,
		"total": res.Total,
		"took":  res.Took,
	}).Debug("search done")

	ret := &SearchResult{Total: res.Total, Hits: make([]Hit, 0, len(res.Hits))}
	for _, h := range res.Hits {
		ret.Hits = append(ret.Hits, Hit{Path: h.ID, Score: h.Score})
	}
	ret.Complete = uint64(len(ret.Hits)) >= res.Total

	return ret, nil
}

// Count returns the number of files currently indexed.
func (i *Index) Count() (uint64, error) {
	return i.index.DocCount()
}
