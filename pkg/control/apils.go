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
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/xelalexv/xmitview/pkg/iebcopy"
	"github.com/xelalexv/xmitview/pkg/mvs"
)

// MemberInfo is the listing entry of a member.
type MemberInfo struct {
	Name       string              `json:"name"`
	Hidden     bool                `json:"hidden,omitempty"`
	TTR        string              `json:"ttr"`
	Address    string              `json:"address"`
	Alias      bool                `json:"alias,omitempty"`
	UserData   string              `json:"userdata"`
	ISPF       *iebcopy.ISPFStats  `json:"ispf,omitempty"`
	LoadModule *iebcopy.LoadModule `json:"lmod,omitempty"`
	Unknown    string              `json:"unknown,omitempty"`
	Size       int                 `json:"size,omitempty"`
	Type       string              `json:"type,omitempty"`
	Digest     string              `json:"digest,omitempty"`
}

// NewMemberInfo collects the listing information of a member. With digest
// set, the member's payload is assembled for size, type, and digest.
func NewMemberInfo(a *iebcopy.Archive, m *iebcopy.MemberEntry,
	digest bool) *MemberInfo {

	ret := &MemberInfo{
		Name:     m.TrimmedName(),
		Hidden:   m.Hidden,
		TTR:      m.TTR(),
		Address:  m.Absolute.String(),
		Alias:    m.Alias,
		UserData: m.UserData.Kind.String(),
	}

	switch m.UserData.Kind {
	case iebcopy.UserDataISPF:
		ret.ISPF = m.UserData.ISPF
	case iebcopy.UserDataLoadModule:
		ret.LoadModule = m.UserData.LoadModule
	case iebcopy.UserDataUnknown:
		ret.Unknown = m.UserData.Reason
	}

	if digest {
		p, err := a.MemberPayload(m.Name)
		switch {
		case err == nil:
			ret.Size = p.Len()
			ret.Type = string(p.Datatype)
			ret.Digest = p.Digest().String()
		case errors.Is(err, mvs.ErrEmptyMember):
			ret.Type = "empty"
		default:
			ret.Type = "damaged"
		}
	}

	return ret
}

//
func (a *api) list(w http.ResponseWriter, req *http.Request) {

	arch := a.getArchive(w, req)
	if arch == nil {
		return
	}

	digest := isFlagSet(req, "digest")

	if wantsJSON(req) {
		ret := make([]*MemberInfo, 0, len(arch.Members()))
		for _, m := range arch.Members() {
			ret = append(ret, NewMemberInfo(arch, m, digest))
		}
		sendJSONReply(ret, http.StatusOK, w)
		return
	}

	read, write := io.Pipe()
	go func() {
		WriteMemberList(write, arch, digest)
		write.Close()
	}()

	sendTextStreamReply(read, http.StatusOK, w)
}

// WriteMemberList writes a listing of all members of an archive.
func WriteMemberList(w io.Writer, a *iebcopy.Archive, digest bool) {

	fmt.Fprintf(w, "\n%s (%s)\n\n", a.Name, a.DCB)

	for _, m := range a.Members() {
		mi := NewMemberInfo(a, m, digest)
		alias := ""
		if mi.Alias {
			alias = "alias"
		}
		fmt.Fprintf(w, "%-16s %s %-5s %s\n", m.DisplayName, mi.TTR, alias,
			m.UserData)
		if digest && mi.Digest != "" {
			fmt.Fprintf(w, "%16s %8d %-6s %s\n", "", mi.Size, mi.Type, mi.Digest)
		} else if digest {
			fmt.Fprintf(w, "%16s %8s %-6s\n", "", "-", mi.Type)
		}
	}

	fmt.Fprintf(w, "\n%d members\n", len(a.Members()))
	if p := a.Problems(); len(p) > 0 {
		fmt.Fprintf(w, "%d damaged records, see info\n", len(p))
	}
	fmt.Fprintln(w)
}
