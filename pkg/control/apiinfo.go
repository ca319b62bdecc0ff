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
	"io"
	"net/http"

	"github.com/xelalexv/xmitview/pkg/iebcopy"
	"github.com/xelalexv/xmitview/pkg/xmit"
)

// Info describes a transmission file and its embedded archive.
type Info struct {
	Name     string         `json:"name"`
	Origin   string         `json:"origin"`
	Layout   []string       `json:"layout"`
	Datasets []*DatasetInfo `json:"datasets"`
	Archive  *ArchiveInfo   `json:"archive,omitempty"`
	// why there is no archive
	NoArchive string `json:"noArchive,omitempty"`
}

//
type DatasetInfo struct {
	Name    string   `json:"name"`
	Utility string   `json:"utility"`
	File    int      `json:"file"`
	DCB     string   `json:"dcb"`
	Chain   []string `json:"chain,omitempty"`
	Records int      `json:"records"`
	Bytes   int      `json:"bytes"`
}

//
type ArchiveInfo struct {
	Header   string   `json:"header"`
	DCB      string   `json:"dcb"`
	Members  int      `json:"members"`
	Overview []string `json:"overview"`
	Problems []string `json:"problems,omitempty"`
}

// NewInfo summarizes a transmission. arch may be nil, in which case
// archErr tells why.
func NewInfo(c *xmit.Container, arch *iebcopy.Archive, archErr error) *Info {

	ret := &Info{
		Name:   c.Name,
		Origin: c.Origin().String(),
		Layout: c.Layout(),
	}

	for _, ds := range c.Datasets {
		ret.Datasets = append(ret.Datasets, &DatasetInfo{
			Name:    ds.Name,
			Utility: ds.Utility,
			File:    ds.File,
			DCB:     ds.DCB.String(),
			Chain:   ds.Chain,
			Records: len(ds.Records),
			Bytes:   ds.Bytes(),
		})
	}

	if arch == nil {
		if archErr != nil {
			ret.NoArchive = archErr.Error()
		}
		return ret
	}

	ai := &ArchiveInfo{
		Header:  arch.Header.String(),
		DCB:     arch.DCB.String(),
		Members: len(arch.Members()),
	}
	for _, s := range arch.Overview() {
		ai.Overview = append(ai.Overview, s.String())
	}
	for _, p := range arch.Problems() {
		ai.Problems = append(ai.Problems, p.Error())
	}
	ret.Archive = ai

	return ret
}

// Write renders the summary as text.
func (i *Info) Write(w io.Writer) {

	fmt.Fprintf(w, "\n%s\n%s\n\n", i.Name, i.Origin)
	for _, l := range i.Layout {
		fmt.Fprintln(w, l)
	}

	fmt.Fprintln(w)
	for _, ds := range i.Datasets {
		fmt.Fprintf(w, "file %d: %s %s (%s), %d records, %d bytes\n",
			ds.File, ds.Name, ds.Utility, ds.DCB, ds.Records, ds.Bytes)
		for _, u := range ds.Chain {
			fmt.Fprintf(w, "        then %s\n", u)
		}
	}

	if i.Archive == nil {
		fmt.Fprintf(w, "\nno embedded archive: %s\n\n", i.NoArchive)
		return
	}

	fmt.Fprintf(w, "\n%s\n%s, %d members\n\n", i.Archive.Header, i.Archive.DCB,
		i.Archive.Members)
	for _, o := range i.Archive.Overview {
		fmt.Fprintln(w, o)
	}
	if len(i.Archive.Problems) > 0 {
		fmt.Fprintln(w, "\nproblems:")
		for _, p := range i.Archive.Problems {
			fmt.Fprintf(w, "  %s\n", p)
		}
	}
	fmt.Fprintln(w)
}

//
func (a *api) info(w http.ResponseWriter, req *http.Request) {

	d := a.getDecoded(w, req)
	if d == nil {
		return
	}

	info := NewInfo(d.container, d.archive, d.archiveErr)

	if wantsJSON(req) {
		sendJSONReply(info, http.StatusOK, w)
		return
	}

	read, write := io.Pipe()
	go func() {
		info.Write(write)
		write.Close()
	}()

	sendTextStreamReply(read, http.StatusOK, w)
}
