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

	"github.com/xelalexv/xmitview/pkg/xmit"
)

// Source is an opened transmission file, named so that its compressor can
// be told from the name.
type Source interface {
	io.ReadCloser
	Name() string
}

const (
	schemeRepo  = "repo://"
	schemeHTTP  = "http://"
	schemeHTTPS = "https://"
)

// Resolve opens the transmission file a reference points to. References
// are either repo://{path within repository}, or an http(s) URL.
func Resolve(ref, repo string) (Source, error) {

	switch {

	case strings.HasPrefix(ref, schemeRepo):
		return NewFileSource(repo, strings.TrimPrefix(ref, schemeRepo))

	case strings.HasPrefix(ref, schemeHTTP), strings.HasPrefix(ref, schemeHTTPS):
		return NewHTTPSource(ref)
	}

	return nil, fmt.Errorf("unsupported reference: '%s'", ref)
}

// Open resolves ref and decodes the transmission file.
func Open(ref, repo string) (*xmit.Container, error) {
	src, err := Resolve(ref, repo)
	if err != nil {
		return nil, err
	}
	return xmit.OpenSource(src, src.Name())
}
