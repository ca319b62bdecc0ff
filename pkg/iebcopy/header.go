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
	"encoding/binary"
	"fmt"

	"github.com/xelalexv/xmitview/pkg/mvs"
)

var copyR1ID = []byte{0xca, 0x6d, 0x0f}

const (
	copyR1Length     = 28
	extentLength     = 16
	extentTableStart = 16
)

// PhysicalHeader is the first unload record (COPYR1). It describes the
// unloaded data set and the geometry of the device it came from.
type PhysicalHeader struct {
	Indicator         byte
	DSOrg             uint16
	BlkSize           int
	LRecL             int
	RecFm             mvs.RecordFormat
	KeyLen            int
	TapeBlkSize       int
	TracksPerCylinder int
}

// ParsePhysicalHeader decodes a COPYR1 record.
func ParsePhysicalHeader(b []byte) (*PhysicalHeader, error) {

	if len(b) < copyR1Length {
		return nil, mvs.ErrInvalidHeaderRecord.WithMessage(
			"physical header too short").WithDetail("length", len(b))
	}

	if !bytes.Equal(b[1:4], copyR1ID) {
		return nil, mvs.ErrInvalidHeaderRecord.WithMessage(
			"physical header without IEBCOPY identifier").WithDetail(
			"found", fmt.Sprintf("%X", b[1:4]))
	}

	return &PhysicalHeader{
		Indicator:         b[0],
		DSOrg:             binary.BigEndian.Uint16(b[4:]),
		BlkSize:           int(binary.BigEndian.Uint16(b[6:])),
		LRecL:             int(binary.BigEndian.Uint16(b[8:])),
		RecFm:             mvs.RecordFormatFromBits(b[10]),
		KeyLen:            int(b[11]),
		TapeBlkSize:       int(binary.BigEndian.Uint16(b[14:])),
		TracksPerCylinder: int(binary.BigEndian.Uint16(b[26:])),
	}, nil
}

// DCB returns the data set attributes recorded in this header.
func (h *PhysicalHeader) DCB() mvs.DCB {
	return mvs.DCB{
		RecFm:   h.RecFm,
		LRecL:   h.LRecL,
		BlkSize: h.BlkSize,
		DSOrg:   mvs.DSOrgName(h.DSOrg),
	}
}

//
func (h *PhysicalHeader) String() string {
	return fmt.Sprintf(
		"COPYR1 DSORG=%s BLKSIZE=%d LRECL=%d RECFM=%s TBLK=%d TRKCYL=%d",
		mvs.DSOrgName(h.DSOrg), h.BlkSize, h.LRecL, h.RecFm, h.TapeBlkSize,
		h.TracksPerCylinder)
}

// ParseExtentTable decodes a COPYR2 record. Its first byte is the number of
// 16 byte DEB extents, which start at offset 16.
func ParseExtentTable(b []byte, tracksPerCylinder int) (*ExtentTable, error) {

	if len(b) < 1 {
		return nil, mvs.ErrInvalidHeaderRecord.WithMessage(
			"extent header empty")
	}

	count := int(b[0])
	if need := extentTableStart + count*extentLength; len(b) < need {
		return nil, mvs.ErrInvalidHeaderRecord.WithMessage(
			"extent header too short").WithDetail("extents", count).
			WithDetail("length", len(b))
	}

	t := &ExtentTable{TracksPerCylinder: tracksPerCylinder}
	for ix := 0; ix < count; ix++ {
		e := b[extentTableStart+ix*extentLength:]
		t.Extents = append(t.Extents, Extent{
			Bin:       binary.BigEndian.Uint16(e[4:]),
			StartCyl:  binary.BigEndian.Uint16(e[6:]),
			StartHead: binary.BigEndian.Uint16(e[8:]),
			EndCyl:    binary.BigEndian.Uint16(e[10:]),
			EndHead:   binary.BigEndian.Uint16(e[12:]),
			Tracks:    binary.BigEndian.Uint16(e[14:]),
		})
	}

	return t, nil
}
