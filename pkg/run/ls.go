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

package run

import (
	"fmt"
	"io"
	"net/url"
	"os"

	"github.com/xelalexv/xmitview/pkg/control"
)

//
func NewList() *List {

	l := &List{}
	l.Runner = *NewRunner(
		"ls [-i|--input {file}] [-r|--ref {reference}] [-a|--address {address}] [-d|--digest]",
		"list members of a transmitted library",
		`
Use the ls command to list the members of the partitioned data set embedded
in a transmission file, either from a local file or via the API server.`,
		"", runnerHelpEpilogue, l.Run)

	l.AddBaseSettings()
	l.AddAddressSetting()
	l.AddSetting(&l.Input, "input", "i", "", nil, "local transmission file", false)
	l.AddSetting(&l.Ref, "ref", "r", "", nil,
		"reference of transmission file on API server, repo://{path} or URL", false)
	l.AddSetting(&l.Digest, "digest", "d", "", false,
		"show size, type, and digest of each member", false)

	return l
}

//
type List struct {
	Runner
	//
	Input  string
	Ref    string
	Digest bool
}

//
func (l *List) Run() error {

	if err := l.ParseSettings(); err != nil {
		return err
	}

	if err := validateSource(l.Input, l.Ref); err != nil {
		return err
	}

	if l.Input != "" {
		_, a, err := openArchive(l.Input)
		if err != nil {
			return err
		}
		control.WriteMemberList(os.Stdout, a, l.Digest)
		return nil
	}

	resp, err := l.apiCall("GET", fmt.Sprintf("/ls?ref=%s&digest=%v",
		url.QueryEscape(l.Ref), l.Digest), false, nil)
	if err != nil {
		return err
	}
	defer resp.Close()

	_, err = io.Copy(os.Stdout, resp)
	return err
}
