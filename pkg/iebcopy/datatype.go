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

package iebcopy

import (
	"bytes"

	"github.com/xelalexv/xmitview/pkg/mvs"
)

// Datatype is the guessed content type of a member
type Datatype string

const (
	TypeEBCDIC     Datatype = "ebcdic"
	TypeASCII      Datatype = "ascii"
	TypeXmit       Datatype = "xmit"
	TypePDF        Datatype = "pdf"
	TypeZip        Datatype = "zip"
	TypeObject     Datatype = "obj"
	TypeLoadModule Datatype = "lmod"
	TypeBinary     Datatype = "bin"
)

// percentage of suspect characters below which data counts as text
const textThreshold = 2

var (
	zipMagic = []byte("PK\x03\x04")
	pdfMagic = []byte("%PDF")
	// INMR01 in EBCDIC, behind the first segment header
	xmitMagic = []byte{0xc9, 0xd5, 0xd4, 0xd9, 0xf0, 0xf1}
	// ESD, TXT, RLD, END, and SYM cards of an object deck
	objectCards = [][]byte{
		{0xc5, 0xe2, 0xc4},
		{0xe3, 0xe7, 0xe3},
		{0xd9, 0xd3, 0xc4},
		{0xc5, 0xd5, 0xc4},
		{0xe2, 0xe8, 0xd4},
	}
)

// Text reports whether the type is one of the text types.
func (d Datatype) Text() bool {
	return d == TypeEBCDIC || d == TypeASCII
}

// Extension is the file name extension used when exporting members of this
// type. Only EBCDIC text is exported as decoded lines, so it alone gets txt.
func (d Datatype) Extension() string {
	if d == TypeEBCDIC {
		return "txt"
	}
	return string(d)
}

// GuessDatatype applies the content heuristic to a sample of member data,
// usually its first few logical records. A ZIP signature wins over
// everything else. Undefined record format is the fallback for load modules,
// not a positive signature.
func GuessDatatype(sample []byte, recFm mvs.RecordFormat) Datatype {

	if bytes.HasPrefix(sample, zipMagic) {
		return TypeZip
	}

	if mvs.CP273.SuspectRatio(sample) < textThreshold {
		return TypeEBCDIC
	}

	if mvs.Latin1.SuspectRatio(sample) < textThreshold {
		return TypeASCII
	}

	if len(sample) >= 8 && bytes.Equal(sample[2:8], xmitMagic) {
		return TypeXmit
	}

	if bytes.Contains(sample, pdfMagic) {
		return TypePDF
	}

	if isObjectDeck(sample) {
		return TypeObject
	}

	if recFm.Undefined() {
		return TypeLoadModule
	}

	return TypeBinary
}

// isObjectDeck checks for the X'02' card marker followed by a known card
// type.
func isObjectDeck(b []byte) bool {
	if len(b) < 4 || b[0] != 0x02 {
		return false
	}
	for _, c := range objectCards {
		if bytes.Equal(b[1:4], c) {
			return true
		}
	}
	return false
}
