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
	"github.com/xelalexv/xmitview/pkg/xmit"
)

//
func NewInfo() *Info {

	i := &Info{}
	i.Runner = *NewRunner(
		"info [-i|--input {file}] [-r|--ref {reference}] [-a|--address {address}]",
		"show structure of a transmission file",
		`
Use the info command to show origin, control records, data sets, and the
unload record overview of a transmission file.`,
		"", runnerHelpEpilogue, i.Run)

	i.AddBaseSettings()
	i.AddAddressSetting()
	i.AddSetting(&i.Input, "input", "i", "", nil, "local transmission file", false)
	i.AddSetting(&i.Ref, "ref", "r", "", nil,
		"reference of transmission file on API server, repo://{path} or URL", false)

	return i
}

//
type Info struct {
	Runner
	//
	Input string
	Ref   string
}

//
func (i *Info) Run() error {

	if err := i.ParseSettings(); err != nil {
		return err
	}

	if err := validateSource(i.Input, i.Ref); err != nil {
		return err
	}

	if i.Input != "" {
		c, err := xmit.OpenFile(i.Input)
		if err != nil {
			return err
		}
		a, err := c.FindEmbeddedArchive()
		control.NewInfo(c, a, err).Write(os.Stdout)
		return nil
	}

	resp, err := i.apiCall("GET",
		fmt.Sprintf("/info?ref=%s", url.QueryEscape(i.Ref)), false, nil)
	if err != nil {
		return err
	}
	defer resp.Close()

	_, err = io.Copy(os.Stdout, resp)
	return err
}
