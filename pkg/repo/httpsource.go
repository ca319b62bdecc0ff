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
	"net/http"
	"net/url"
	"path"
	"time"
)

// MaxDownload limits the size of transmission files fetched via HTTP
const MaxDownload = 64 * 1048576

var httpClient = &http.Client{Timeout: 60 * time.Second}

// NewHTTPSource fetches a transmission file from a URL.
func NewHTTPSource(ref string) (*HTTPSource, error) {

	u, err := url.Parse(ref)
	if err != nil {
		return nil, err
	}

	resp, err := httpClient.Get(ref)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("cannot fetch '%s': %s", ref, resp.Status)
	}

	return &HTTPSource{
		name:     path.Base(u.Path),
		response: resp,
		reader:   io.LimitReader(resp.Body, MaxDownload),
	}, nil
}

// HTTPSource reads a transmission file from an HTTP response.
type HTTPSource struct {
	name     string
	response *http.Response
	reader   io.Reader
}

//
func (hs *HTTPSource) Read(p []byte) (n int, err error) {
	return hs.reader.Read(p)
}

//
func (hs *HTTPSource) Close() error {
	return hs.response.Body.Close()
}

// Name is the last path element of the URL.
func (hs *HTTPSource) Name() string {
	return hs.name
}
