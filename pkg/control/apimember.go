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
	"fmt"
	"net/http"

	"github.com/xelalexv/xmitview/pkg/iebcopy"
	"github.com/xelalexv/xmitview/pkg/mvs"
)

// output formats for member content
const (
	FormatAuto = "auto"
	FormatText = "text"
	FormatRaw  = "raw"
	FormatDump = "dump"
)

// RenderMember renders the payload of a member in the requested format. Auto
// renders text types as text, and everything else as a dump. A nil code page
// selects CP273.
func RenderMember(p *iebcopy.MemberPayload, format string,
	cp *mvs.Codepage) (*bytes.Buffer, error) {

	if cp == nil {
		cp = mvs.CP273
	}

	if format == "" || format == FormatAuto {
		if p.Datatype.Text() {
			format = FormatText
		} else {
			format = FormatDump
		}
	}

	var buf bytes.Buffer
	var err error

	switch format {
	case FormatText:
		if p.Datatype.Text() {
			_, err = p.Write(&buf, cp)
		} else {
			_, err = p.WriteRecords(&buf, cp, "\n")
		}
	case FormatRaw:
		_, err = buf.Write(p.Data)
	case FormatDump:
		err = mvs.NewDumper(cp, 0).Dump(&buf, p.Data)
	default:
		err = fmt.Errorf("unknown format: '%s'", format)
	}

	return &buf, err
}

//
func (a *api) member(w http.ResponseWriter, req *http.Request) {

	arch := a.getArchive(w, req)
	if arch == nil {
		return
	}

	name := getArg(req, "name")
	if name == "" {
		handleError(fmt.Errorf("no member name given"), http.StatusBadRequest, w)
		return
	}

	cp := mvs.CP273
	if c := getArg(req, "codepage"); c != "" {
		var err error
		if cp, err = mvs.CodepageByName(c); handleError(
			err, http.StatusBadRequest, w) {
			return
		}
	}

	p, err := arch.MemberPayload(name)
	if err != nil {
		status := http.StatusUnprocessableEntity
		if errors.Is(err, mvs.ErrMemberNotFound) {
			status = http.StatusNotFound
		}
		handleError(err, status, w)
		return
	}

	format := getArg(req, "format")
	buf, err := RenderMember(p, format, cp)
	if handleError(err, http.StatusUnprocessableEntity, w) {
		return
	}

	w.Header().Set("X-Member-Type", string(p.Datatype))
	w.Header().Set("X-Member-Digest", p.Digest().String())

	if format == FormatRaw {
		sendStreamReply(buf, http.StatusOK, w)
	} else {
		sendTextStreamReply(buf, http.StatusOK, w)
	}
}
