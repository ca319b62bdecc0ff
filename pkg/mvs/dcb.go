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
	"fmt"
	"strings"
)

// Unknown is the placeholder for record format and organization when a
// transmission does not state them
const Unknown = "?"

// record format bits, first byte of RECFM
const (
	recFmFixed      = 0x80
	recFmVariable   = 0x40
	recFmUndefined  = recFmFixed | recFmVariable
	recFmBlocked    = 0x10
	recFmSpanned    = 0x08
	recFmANSI       = 0x04
	recFmMachine    = 0x02
	recFmFormatMask = recFmFixed | recFmVariable
)

var dsOrgNames = map[uint16]string{
	0x0008: "VS",
	0x0200: "PO",
	0x4000: "PS",
}

// RecordFormat is the textual record format of a data set, such as FB, VBA,
// or U.
type RecordFormat string

// RecordFormatFromBits decodes the first byte of a RECFM field.
func RecordFormatFromBits(b byte) RecordFormat {

	var sb strings.Builder

	switch b & recFmFormatMask {
	case recFmUndefined:
		sb.WriteByte('U')
	case recFmFixed:
		sb.WriteByte('F')
	default:
		sb.WriteByte('V')
	}

	if b&recFmBlocked != 0 {
		sb.WriteByte('B')
	}

	if b&recFmANSI != 0 {
		sb.WriteByte('A')
	} else if b&recFmMachine != 0 {
		sb.WriteByte('M')
	}

	if b&recFmSpanned != 0 {
		sb.WriteByte('S')
	}

	return RecordFormat(sb.String())
}

// Fixed reports whether records have a fixed length.
func (f RecordFormat) Fixed() bool {
	return strings.HasPrefix(string(f), "F")
}

// Variable reports whether records are preceded by a record descriptor word.
func (f RecordFormat) Variable() bool {
	return strings.HasPrefix(string(f), "V")
}

// Undefined is true for format U, and for any format not known at all.
func (f RecordFormat) Undefined() bool {
	return !f.Fixed() && !f.Variable()
}

//
func (f RecordFormat) String() string {
	if f == "" {
		return Unknown
	}
	return string(f)
}

// DSOrgName returns the short name of a data set organization code. Codes
// not in the table are rendered as hex.
func DSOrgName(code uint16) string {
	if n, ok := dsOrgNames[code]; ok {
		return n
	}
	return fmt.Sprintf("X'%04X'", code)
}

// DCB holds the data control block attributes of a data set that matter for
// reading its records.
type DCB struct {
	RecFm   RecordFormat
	LRecL   int
	DSOrg   string
	BlkSize int
}

// UnknownDCB is what a data set gets when its transmission record carries no
// attributes.
func UnknownDCB() DCB {
	return DCB{RecFm: Unknown, DSOrg: Unknown}
}

//
func (d DCB) String() string {
	return fmt.Sprintf("RECFM=%s,LRECL=%d,BLKSIZE=%d,DSORG=%s",
		d.RecFm, d.LRecL, d.BlkSize, d.DSOrg)
}
