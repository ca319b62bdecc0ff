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
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/xelalexv/xmitview/pkg/mvs"
)

// section lengths of load module user data, see IHAPDS
const (
	basicSectionLength   = 21
	scatterSectionLength = 8
	aliasSectionLength   = 11
	ssiSectionLength     = 4
	apfSectionLength     = 2
	lpoSectionLength     = 13
)

// program attribute byte 1
const (
	Atr1Reentrant  = 0x80
	Atr1Reusable   = 0x40
	Atr1Overlay    = 0x20
	Atr1Test       = 0x10
	Atr1OnlyLoad   = 0x08
	Atr1Scatter    = 0x04
	Atr1Executable = 0x02
	Atr1OneBlock   = 0x01
)

// flag bytes
const (
	ftb1Big     = 0x40
	ftb1SSI     = 0x10
	ftb1APF     = 0x08
	ftb1PgmObj  = 0x04
	ftb2RMode   = 0x10
	ftb2MainAMd = 0x03
)

// LoadModule holds the attributes of an executable program from its
// directory entry user data.
type LoadModule struct {
	Atr1             byte
	Atr2             byte
	Storage          uint32
	FirstBlockLength int
	EntryPoint       uint32
	Ftb1             byte
	Ftb2             byte
	Ftb3             byte
	// set when the entry is an alias
	BaseName string
	// set when SSI information is present
	SSI []byte
	// APF authorization code, -1 if there's no APF section
	AuthCode int
	// large program object section, set when present
	VirtualStorage   uint32
	MainEntryOffset  uint32
	AliasEntryOffset uint32
	Big              bool
}

//
func decodeLoadModule(b []byte, alias bool) (*LoadModule, error) {

	if len(b) < basicSectionLength {
		return nil, fmt.Errorf("basic section cut off, len=%d", len(b))
	}

	lm := &LoadModule{
		Atr1:             b[8],
		Atr2:             b[9],
		Storage:          uint24(b[10:]),
		FirstBlockLength: int(binary.BigEndian.Uint16(b[13:])),
		EntryPoint:       uint24(b[15:]),
		Ftb1:             b[18],
		Ftb2:             b[19],
		Ftb3:             b[20],
		AuthCode:         -1,
	}

	pos := basicSectionLength

	if lm.Atr1&Atr1Scatter != 0 {
		pos += scatterSectionLength
	}

	if alias {
		if pos+aliasSectionLength > len(b) {
			return nil, fmt.Errorf("alias section cut off at %d", pos)
		}
		name, _ := mvs.MemberName(b[pos+3 : pos+aliasSectionLength])
		lm.BaseName = name
		pos += aliasSectionLength
	}

	if lm.Ftb1&ftb1SSI != 0 {
		pos = (pos + 1) / 2 * 2
		if pos+ssiSectionLength > len(b) {
			return nil, fmt.Errorf("SSI section cut off at %d", pos)
		}
		lm.SSI = b[pos : pos+ssiSectionLength]
		pos += ssiSectionLength
	}

	if lm.Ftb1&ftb1APF != 0 {
		if pos+apfSectionLength > len(b) {
			return nil, fmt.Errorf("APF section cut off at %d", pos)
		}
		lm.AuthCode = int(b[pos+1])
		pos += apfSectionLength
	}

	if lm.Ftb1&ftb1Big != 0 && pos+lpoSectionLength <= len(b) {
		lm.Big = true
		lm.VirtualStorage = binary.BigEndian.Uint32(b[pos+1:])
		lm.MainEntryOffset = binary.BigEndian.Uint32(b[pos+5:])
		lm.AliasEntryOffset = binary.BigEndian.Uint32(b[pos+9:])
	}

	return lm, nil
}

//
func uint24(b []byte) uint32 {
	return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
}

// AMode returns the addressing mode of the main entry point.
func (l *LoadModule) AMode() string {
	switch l.Ftb2 & ftb2MainAMd {
	case 0x03:
		return "ANY"
	case 0x02:
		return "31"
	case 0x01:
		return "64"
	}
	return "24"
}

// RMode returns the residence mode.
func (l *LoadModule) RMode() string {
	if l.Ftb2&ftb2RMode != 0 {
		return "ANY"
	}
	return "24"
}

//
func (l *LoadModule) Reentrant() bool {
	return l.Atr1&Atr1Reentrant != 0
}

//
func (l *LoadModule) Reusable() bool {
	return l.Atr1&Atr1Reusable != 0
}

//
func (l *LoadModule) Executable() bool {
	return l.Atr1&Atr1Executable != 0
}

// ProgramObject is true for members written by the binder into a PDSE.
func (l *LoadModule) ProgramObject() bool {
	return l.Ftb1&ftb1PgmObj != 0
}

// Attributes lists the set attribute flags in their usual short names.
func (l *LoadModule) Attributes() []string {
	var ret []string
	for _, a := range []struct {
		bit  byte
		name string
	}{
		{Atr1Reentrant, "RENT"},
		{Atr1Reusable, "REUS"},
		{Atr1Overlay, "OVLY"},
		{Atr1Test, "TEST"},
		{Atr1OnlyLoad, "OL"},
		{Atr1Scatter, "SCTR"},
		{Atr1Executable, "EXEC"},
		{Atr1OneBlock, "1BLK"},
	} {
		if l.Atr1&a.bit != 0 {
			ret = append(ret, a.name)
		}
	}
	return ret
}

//
func (l *LoadModule) String() string {

	base := l.BaseName
	if base == "" {
		base = strings.Repeat(" ", mvs.MemberNameLength)
	}

	ac := "--"
	if l.AuthCode >= 0 {
		ac = fmt.Sprintf("%02d", l.AuthCode)
	}

	flag := func(set bool, on, off string) string {
		if set {
			return on
		}
		return off
	}

	return fmt.Sprintf("%s %08X %s %-3s %-3s %s %s %s", base, l.Storage, ac,
		l.AMode(), l.RMode(), flag(l.Reentrant(), "RN", "--"),
		flag(l.Reusable(), "RU", "--"), flag(l.Executable(), "--", "NX"))
}
