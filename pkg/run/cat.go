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
func NewCat() *Cat {

	c := &Cat{}
	c.Runner = *NewRunner(
		`cat [-i|--input {file}] [-r|--ref {reference}] [-a|--address {address}]
      -m|--member {name} [-f|--format {auto|text|raw|dump}] [-c|--codepage {code page}]
      [-o|--output {file}]`,
		"output the content of a member",
		`
Use the cat command to output a member of a transmitted library. Text members
are decoded with the selected code page, one record per line. Other members
are shown as hex dump, unless raw format is requested.`,
		"", runnerHelpEpilogue, c.Run)

	c.AddBaseSettings()
	c.AddAddressSetting()
	c.AddSetting(&c.Input, "input", "i", "", nil, "local transmission file", false)
	c.AddSetting(&c.Ref, "ref", "r", "", nil,
		"reference of transmission file on API server, repo://{path} or URL", false)
	c.AddSetting(&c.Member, "member", "m", "", nil, "member name", true)
	c.AddSetting(&c.Format, "format", "f", "", control.FormatAuto,
		"output format: auto, text, raw, dump", false)
	c.AddSetting(&c.Codepage, "codepage", "c", "", "cp273",
		"EBCDIC code page: cp273, cp037", false)
	c.AddSetting(&c.Output, "output", "o", "", nil,
		"write to this file instead of stdout", false)

	return c
}

//
type Cat struct {
	Runner
	//
	Input    string
	Ref      string
	Member   string
	Format   string
	Codepage string
	Output   string
}

//
func (c *Cat) Run() error {

	if err := c.ParseSettings(); err != nil {
		return err
	}

	if err := validateSource(c.Input, c.Ref); err != nil {
		return err
	}

	out := io.Writer(os.Stdout)
	if c.Output != "" {
		f, err := os.Create(c.Output)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	if c.Input != "" {
		cp, err := codepage(c.Codepage)
		if err != nil {
			return err
		}
		_, a, err := openArchive(c.Input)
		if err != nil {
			return err
		}
		p, err := a.MemberPayload(c.Member)
		if err != nil {
			return err
		}
		buf, err := control.RenderMember(p, c.Format, cp)
		if err != nil {
			return err
		}
		_, err = io.Copy(out, buf)
		return err
	}

	resp, err := c.apiCall("GET", fmt.Sprintf(
		"/member?ref=%s&name=%s&format=%s&codepage=%s",
		url.QueryEscape(c.Ref), url.QueryEscape(c.Member),
		url.QueryEscape(c.Format), url.QueryEscape(c.Codepage)), false, nil)
	if err != nil {
		return err
	}
	defer resp.Close()

	_, err = io.Copy(out, resp)
	return err
}
