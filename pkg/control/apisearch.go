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
	"bytes"
	"errors"
	"net/http"
)

var errNoIndex = errors.New("server runs without search index")

// search looks up transmission files in the repository index. Hits come back
// as repo references, ready for use as file arguments of the other endpoints.
func (a *api) search(w http.ResponseWriter, req *http.Request) {

	if a.index == nil {
		handleError(errNoIndex, http.StatusServiceUnavailable, w)
		return
	}

	max, err := getIntArg(req, "items", 0)
	if handleError(err, http.StatusUnprocessableEntity, w) {
		return
	}

	res, err := a.index.Search(getArg(req, "term"), max)
	if handleError(err, http.StatusUnprocessableEntity, w) {
		return
	}

	if wantsJSON(req) {
		sendJSONReply(res, http.StatusOK, w)
		return
	}

	buf := &bytes.Buffer{}
	if handleError(res.Write(buf), http.StatusInternalServerError, w) {
		return
	}
	sendReply(buf.Bytes(), http.StatusOK, w)
}
