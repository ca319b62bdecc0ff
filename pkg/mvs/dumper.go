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

package mvs

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// DefaultRowBytes is the number of bytes shown per dump line
const DefaultRowBytes = 16

// Dumper renders bytes in classic dump format: hex digits in groups of four
// bytes, followed by the characters as decoded with the dumper's code page.
type Dumper struct {
	codepage *Codepage
	rowBytes int
}

// NewDumper creates a dumper. A nil code page selects CP273, a non-positive
// row width selects DefaultRowBytes.
func NewDumper(cp *Codepage, rowBytes int) *Dumper {
	if cp == nil {
		cp = CP273
	}
	if rowBytes <= 0 {
		rowBytes = DefaultRowBytes
	}
	return &Dumper{codepage: cp, rowBytes: rowBytes}
}

// Lines returns the dump of b, one string per row.
func (d *Dumper) Lines(b []byte) []string {

	groups := (d.rowBytes + 3) / 4
	hexWidth := 8*groups + groups - 1

	var ret []string
	for pos := 0; pos < len(b); pos += d.rowBytes {
		end := pos + d.rowBytes
		if end > len(b) {
			end = len(b)
		}
		row := b[pos:end]

		var hex strings.Builder
		for ix := 0; ix < len(row); ix += 4 {
			if ix > 0 {
				hex.WriteByte(' ')
			}
			g := ix + 4
			if g > len(row) {
				g = len(row)
			}
			fmt.Fprintf(&hex, "%X", row[ix:g])
		}

		ret = append(ret, fmt.Sprintf("%-*s  %s",
			hexWidth, hex.String(), d.codepage.Printable(row)))
	}
	return ret
}

// Dump writes the dump of b to w.
func (d *Dumper) Dump(w io.Writer, b []byte) error {

	bw := bufio.NewWriter(w)
	for _, l := range d.Lines(b) {
		if _, err := bw.WriteString(l); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}
