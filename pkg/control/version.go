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
	"fmt"
	"net/http"
	"strings"

	"github.com/xelalexv/xmitview/pkg/util"
)

// Status is what the version endpoint reports: the server version, and
// whether search is available, with the number of indexed files.
type Status struct {
	Server  string `json:"server"`
	Search  bool   `json:"search"`
	Indexed uint64 `json:"indexed,omitempty"`
	Cached  int    `json:"cached"`
}

//
func (s *Status) String() string {

	var sb strings.Builder
	fmt.Fprintf(&sb, "server:     %s\n", s.Server)
	if s.Search {
		fmt.Fprintf(&sb, "search:     on, %d files indexed\n", s.Indexed)
	} else {
		sb.WriteString("search:     off\n")
	}
	fmt.Fprintf(&sb, "cached:     %d\n", s.Cached)
	return sb.String()
}

//
func (a *api) version(w http.ResponseWriter, req *http.Request) {

	st := &Status{
		Server: util.XmitViewVersion,
		Search: a.index != nil,
		Cached: a.cache.entries.Len(),
	}

	if st.Search {
		n, err := a.index.Count()
		if handleError(err, http.StatusInternalServerError, w) {
			return
		}
		st.Indexed = n
	}

	if wantsJSON(req) {
		sendJSONReply(st, http.StatusOK, w)
	} else {
		sendReply([]byte(st.String()), http.StatusOK, w)
	}
}
