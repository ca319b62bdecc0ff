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
	"os"

	"github.com/xelalexv/xmitview/pkg/mvs"
)

//
func NewDump() *Dump {

	d := &Dump{}
	d.Runner = *NewRunner(
		`dump -i|--input {file} [-m|--member {name}] [-n|--record {index}]
      [-c|--codepage {code page}] [-w|--width {bytes per row}]`,
		"hex dump unload records or member data",
		`
Use the dump command to output a hex dump of the unload records in a
transmission file. With a member name, the member's data is dumped instead,
with a record index, only that record.`,
		"", runnerHelpEpilogue, d.Run)

	d.AddBaseSettings()
	d.AddSetting(&d.Input, "input", "i", "", nil, "local transmission file", true)
	d.AddSetting(&d.Member, "member", "m", "", nil, "member to dump", false)
	d.AddSetting(&d.Record, "record", "n", "", -1, "index of unload record to dump", false)
	d.AddSetting(&d.Codepage, "codepage", "c", "", "cp273",
		"EBCDIC code page for the character column: cp273, cp037", false)
	d.AddSetting(&d.Width, "width", "w", "", mvs.DefaultRowBytes,
		"bytes per row", false)

	return d
}

//
type Dump struct {
	Runner
	//
	Input    string
	Member   string
	Record   int
	Codepage string
	Width    int
}

//
func (d *Dump) Run() error {

	if err := d.ParseSettings(); err != nil {
		return err
	}

	cp, err := codepage(d.Codepage)
	if err != nil {
		return err
	}
	dumper := mvs.NewDumper(cp, d.Width)

	_, a, err := openArchive(d.Input)
	if err != nil {
		return err
	}

	if d.Member != "" {
		p, err := a.MemberPayload(d.Member)
		if err != nil {
			return err
		}
		fmt.Printf("\n%s (%s, %d bytes, %s)\n\n", p.Member.TrimmedName(),
			p.Datatype, p.Len(), p.Digest())
		return dumper.Dump(os.Stdout, p.Data)
	}

	if d.Record > -1 {
		if d.Record >= len(a.Records) {
			return fmt.Errorf("no record %d, archive has %d records",
				d.Record, len(a.Records))
		}
		r := a.Records[d.Record]
		fmt.Printf("\n%s\n\n", r)
		return dumper.Dump(os.Stdout, r.Data)
	}

	for _, r := range a.Records {
		fmt.Printf("\n%s\n\n", r)
		if err := dumper.Dump(os.Stdout, r.Data); err != nil {
			return err
		}
	}

	fmt.Println()
	return nil
}
