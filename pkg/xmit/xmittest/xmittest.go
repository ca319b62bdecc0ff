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

// Package xmittest builds synthetic transmission files and IEBCOPY unload
// records for use in tests.
package xmittest

import (
	"bytes"
	"encoding/binary"

	"github.com/xelalexv/xmitview/pkg/mvs"
)

// maximum segment body length
const maxSegment = 253

// text unit keys
const (
	KeyDSNAM = 0x0002
	KeyDIR   = 0x000c
	KeyDSORG = 0x003c
	KeyBLKSZ = 0x0030
	KeyLRECL = 0x0042
	KeyRECFM = 0x0049
	KeyFNODE = 0x1011
	KeyFUID  = 0x1012
	KeyFTIME = 0x1024
	KeyTNODE = 0x1001
	KeyTUID  = 0x1002
	KeyNUMF  = 0x102f
	KeySIZE  = 0x102c
	KeyUTILN = 0x1028
)

// EBCDIC encodes s in CP273.
func EBCDIC(s string) []byte {
	return mvs.CP273.EncodeString(s)
}

// Uint16 returns v as two big endian bytes.
func Uint16(v int) []byte {
	return binary.BigEndian.AppendUint16(nil, uint16(v))
}

// TextUnit encodes a text unit with the given values.
func TextUnit(key uint16, values ...[]byte) []byte {
	var b bytes.Buffer
	b.Write(Uint16(int(key)))
	b.Write(Uint16(len(values)))
	for _, v := range values {
		b.Write(Uint16(len(v)))
		b.Write(v)
	}
	return b.Bytes()
}

// TextUnitString encodes a text unit with EBCDIC values.
func TextUnitString(key uint16, values ...string) []byte {
	var vals [][]byte
	for _, v := range values {
		vals = append(vals, EBCDIC(v))
	}
	return TextUnit(key, vals...)
}

// ControlRecord encodes a control record of the given type. file is only
// used for INMR02.
func ControlRecord(kind string, file int, units ...[]byte) []byte {
	var b bytes.Buffer
	b.Write(EBCDIC(kind))
	if kind == "INMR02" {
		b.Write(binary.BigEndian.AppendUint32(nil, uint32(file)))
	}
	for _, u := range units {
		b.Write(u)
	}
	return b.Bytes()
}

// Builder assembles a segmented transmission file.
type Builder struct {
	buf bytes.Buffer
}

// Control appends a control record.
func (b *Builder) Control(rec []byte) *Builder {
	b.segment(rec, true)
	return b
}

// Data appends a data record.
func (b *Builder) Data(rec []byte) *Builder {
	b.segment(rec, false)
	return b
}

// Raw appends bytes as they are.
func (b *Builder) Raw(raw []byte) *Builder {
	b.buf.Write(raw)
	return b
}

//
func (b *Builder) Bytes() []byte {
	return b.buf.Bytes()
}

//
func (b *Builder) segment(rec []byte, control bool) {
	first := true
	for {
		n := len(rec)
		if n > maxSegment {
			n = maxSegment
		}
		var flags byte
		if first {
			flags |= 0x80
		}
		if n == len(rec) {
			flags |= 0x40
		}
		if control {
			flags |= 0x20
		}
		b.buf.WriteByte(byte(n + 2))
		b.buf.WriteByte(flags)
		b.buf.Write(rec[:n])
		rec = rec[n:]
		first = false
		if len(rec) == 0 {
			return
		}
	}
}

// Extent describes one extent for CopyR2.
type Extent struct {
	Bin, StartCyl, StartHead, EndCyl, EndHead, Tracks int
}

// CopyR1 builds the first unload header record.
func CopyR1(recfm byte, lrecl, blksize, tracksPerCylinder int) []byte {
	b := make([]byte, 64)
	copy(b[1:], []byte{0xca, 0x6d, 0x0f})
	binary.BigEndian.PutUint16(b[4:], 0x0200)
	binary.BigEndian.PutUint16(b[6:], uint16(blksize))
	binary.BigEndian.PutUint16(b[8:], uint16(lrecl))
	b[10] = recfm
	binary.BigEndian.PutUint16(b[26:], uint16(tracksPerCylinder))
	return b
}

// CopyR2 builds the second unload header record.
func CopyR2(extents ...Extent) []byte {
	b := make([]byte, 16+16*len(extents))
	b[0] = byte(len(extents))
	for ix, e := range extents {
		d := b[16+16*ix:]
		binary.BigEndian.PutUint16(d[4:], uint16(e.Bin))
		binary.BigEndian.PutUint16(d[6:], uint16(e.StartCyl))
		binary.BigEndian.PutUint16(d[8:], uint16(e.StartHead))
		binary.BigEndian.PutUint16(d[10:], uint16(e.EndCyl))
		binary.BigEndian.PutUint16(d[12:], uint16(e.EndHead))
		binary.BigEndian.PutUint16(d[14:], uint16(e.Tracks))
	}
	return b
}

// DirectoryEntry builds a directory entry. userData must have even length.
func DirectoryEntry(name string, track, record int, alias bool,
	userData []byte) []byte {

	b := make([]byte, 12, 12+len(userData))
	copy(b, mvs.CP037.EncodeString(mvs.PadMemberName(name)))
	binary.BigEndian.PutUint16(b[8:], uint16(track))
	b[10] = byte(record)
	b[11] = byte(len(userData) / 2)
	if alias {
		b[11] |= 0x80
	}
	return append(b, userData...)
}

// EndOfDirectory is the entry with the all ones name.
func EndOfDirectory() []byte {
	return append(bytes.Repeat([]byte{0xff}, 8), 0, 0, 0, 0)
}

// DirectoryBlock builds a 276 byte directory block. An empty high key gives
// the all ones key of the last block.
func DirectoryBlock(highKey string, entries ...[]byte) []byte {
	b := make([]byte, 276)
	binary.BigEndian.PutUint16(b[8:], 8)
	binary.BigEndian.PutUint16(b[10:], 256)
	if highKey == "" {
		copy(b[12:20], bytes.Repeat([]byte{0xff}, 8))
	} else {
		copy(b[12:20], mvs.CP037.EncodeString(mvs.PadMemberName(highKey)))
	}
	pos := 22
	for _, e := range entries {
		copy(b[pos:], e)
		pos += len(e)
	}
	binary.BigEndian.PutUint16(b[20:], uint16(pos-20))
	return b
}

// Address is an absolute address for member data.
type Address struct {
	M, BB, CC, HH, R int
}

// Block prefixes data with a data block address.
func Block(data []byte) []byte {
	b := make([]byte, 12, 12+len(data))
	binary.BigEndian.PutUint16(b[10:], uint16(len(data)))
	return append(b, data...)
}

// MemberData builds a member data record with the given blocks, each
// already prefixed by Block. The blocks get addr stamped into their count
// fields, with record numbers counting up from addr.R.
func MemberData(addr Address, blocks ...[]byte) []byte {
	var b []byte
	for ix, blk := range blocks {
		hdr := append([]byte{}, blk...)
		hdr[1] = byte(addr.M)
		binary.BigEndian.PutUint16(hdr[2:], uint16(addr.BB))
		binary.BigEndian.PutUint16(hdr[4:], uint16(addr.CC))
		binary.BigEndian.PutUint16(hdr[6:], uint16(addr.HH))
		hdr[8] = byte(addr.R + ix)
		b = append(b, hdr...)
	}
	return b
}

// EOFRecord builds an end of data marker.
func EOFRecord() []byte {
	return make([]byte, 12)
}

// Transmission wraps unload records into a transmission file announcing an
// IEBCOPY data set, followed by the usual INMCOPY record for the same file.
func Transmission(dsname string, recfm []byte, lrecl int,
	unload ...[]byte) []byte {

	b := &Builder{}
	b.Control(ControlRecord("INMR01", 0,
		TextUnitString(KeyFNODE, "NODE1"),
		TextUnitString(KeyFUID, "IBMUSER"),
		TextUnitString(KeyTNODE, "NODE2"),
		TextUnitString(KeyTUID, "OTHER"),
		TextUnitString(KeyFTIME, "20240115123456"),
		TextUnit(KeyNUMF, []byte{0x01}),
	))

	var quals []string
	for _, q := range bytes.Split([]byte(dsname), []byte(".")) {
		quals = append(quals, string(q))
	}

	b.Control(ControlRecord("INMR02", 1,
		TextUnitString(KeyUTILN, "IEBCOPY"),
		TextUnit(KeyDSORG, Uint16(0x0200)),
		TextUnit(KeyRECFM, recfm),
		TextUnit(KeyLRECL, Uint16(lrecl)),
		TextUnit(KeyBLKSZ, Uint16(lrecl*10)),
		TextUnitString(KeyDSNAM, quals...),
	))
	b.Control(ControlRecord("INMR02", 1,
		TextUnitString(KeyUTILN, "INMCOPY"),
		TextUnit(KeyDSORG, Uint16(0x4000)),
		TextUnit(KeyRECFM, []byte{0xc0, 0x02}),
		TextUnit(KeyLRECL, Uint16(32756)),
	))
	b.Control(ControlRecord("INMR03", 0))

	for _, u := range unload {
		b.Data(u)
	}

	b.Control(ControlRecord("INMR06", 0))
	return b.Bytes()
}
