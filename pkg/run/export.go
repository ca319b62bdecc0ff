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

	"github.com/schollz/progressbar/v3"

	"github.com/xelalexv/xmitview/pkg/iebcopy"
)

//
func NewExport() *Export {

	e := &Export{}
	e.Runner = *NewRunner(
		`export -i|--input {file} [-o|--output {directory}] [-c|--codepage {code page}]
      [-y|--yes] [-q|--quiet]`,
		"export all members to a directory",
		`
Use the export command to write every member of a transmitted library to its
own file. EBCDIC text members are decoded, one record per line, and get the
.txt extension. All other members are written as they are, with an extension
according to their guessed type. Empty and damaged members are skipped.`,
		"", runnerHelpEpilogue, e.Run)

	e.AddBaseSettings()
	e.AddSetting(&e.Input, "input", "i", "", nil, "local transmission file", true)
	e.AddSetting(&e.Output, "output", "o", "", ".", "output directory", false)
	e.AddSetting(&e.Codepage, "codepage", "c", "", "cp273",
		"EBCDIC code page for text members: cp273, cp037", false)
	e.AddSetting(&e.Yes, "yes", "y", "", false, "skip confirmation", false)
	e.AddSetting(&e.Quiet, "quiet", "q", "", false, "no progress bar", false)

	return e
}

//
type Export struct {
	Runner
	//
	Input    string
	Output   string
	Codepage string
	Yes      bool
	Quiet    bool
}

//
func (e *Export) Run() error {

	if err := e.ParseSettings(); err != nil {
		return err
	}

	cp, err := codepage(e.Codepage)
	if err != nil {
		return err
	}

	_, a, err := openArchive(e.Input)
	if err != nil {
		return err
	}

	count := len(a.Members())
	if count == 0 {
		fmt.Println("\nno members to export")
		return nil
	}

	if !e.Yes && !GetUserConfirmation(fmt.Sprintf(
		"\nexport %d members of %s to %s, overwriting existing files?",
		count, a.Name, e.Output)) {
		return nil
	}

	if err := os.MkdirAll(e.Output, 0755); err != nil {
		return err
	}

	var progress iebcopy.ExportFunc
	var bar *progressbar.ProgressBar

	if !e.Quiet {
		bar = progressbar.NewOptions(count,
			progressbar.OptionSetDescription("exporting"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish())
		progress = func(m *iebcopy.MemberEntry, file string) {
			bar.Describe(m.TrimmedName())
			bar.Add(1)
		}
	}

	res, err := a.Export(e.Output, cp, progress)
	if bar != nil {
		bar.Finish()
	}
	if err != nil {
		return err
	}

	fmt.Printf("\nexported %d members, %d bytes", len(res.Files), res.Written)
	if len(res.Empty) > 0 {
		fmt.Printf(", skipped %d empty members", len(res.Empty))
	}
	if len(res.Damaged) > 0 {
		fmt.Printf(", skipped %d damaged members", len(res.Damaged))
	}
	fmt.Println()
	return nil
}
