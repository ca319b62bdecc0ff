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

	"github.com/xelalexv/xmitview/pkg/mvs"
)

// AddressLength is the length of the FMBBCCHHRKDD prefix of unload records
const AddressLength = 12

// Address is the device address prefix of unload records and data blocks.
type Address struct {
	Flag byte
	M    uint8
	BB   uint16
	CCHH uint32
	R    uint8
	K    uint8
	DD   uint16
}

// ParseAddress decodes the address at the start of b.
func ParseAddress(b []byte) (Address, error) {
	if len(b) < AddressLength {
		return Address{}, mvs.ErrTruncated.WithMessage(
			"address cut off").WithDetail("length", len(b))
	}
	return Address{
		Flag: b[0],
		M:    b[1],
		BB:   binary.BigEndian.Uint16(b[2:]),
		CCHH: binary.BigEndian.Uint32(b[4:]),
		R:    b[8],
		K:    b[9],
		DD:   binary.BigEndian.Uint16(b[10:]),
	}, nil
}

//
func (a Address) Cylinder() uint16 {
	return uint16(a.CCHH >> 16)
}

//
func (a Address) Head() uint16 {
	return uint16(a.CCHH)
}

// Absolute returns the MBBCCHHR part of this address.
func (a Address) Absolute() AbsoluteAddress {
	return AbsoluteAddress{M: a.M, BB: a.BB, CC: a.Cylinder(), HH: a.Head(),
		R: a.R}
}

//
func (a Address) String() string {
	return fmt.Sprintf("%02X%02X%04X%08X%02X%02X%04X",
		a.Flag, a.M, a.BB, a.CCHH, a.R, a.K, a.DD)
}

// AbsoluteAddress identifies a record on the original volume by extent
// number, bin, cylinder, head, and record number. It is comparable, and
// used as map key to locate member data.
type AbsoluteAddress struct {
	M  uint8
	BB uint16
	CC uint16
	HH uint16
	R  uint8
}

//
func (a AbsoluteAddress) String() string {
	return fmt.Sprintf("%02X%04X%04X%04X%02X", a.M, a.BB, a.CC, a.HH, a.R)
}

// Extent describes one contiguous area of tracks of the unloaded data set.
type Extent struct {
	Bin       uint16
	StartCyl  uint16
	StartHead uint16
	EndCyl    uint16
	EndHead   uint16
	Tracks    uint16
}

// ExtentTable is the list of extents from the second header record, plus
// the device geometry needed for address translation.
type ExtentTable struct {
	TracksPerCylinder int
	Extents           []Extent
}

// Translate converts a relative track number and record number from a
// directory entry into an absolute address. Tracks are consumed extent by
// extent. Track numbers beyond the last extent yield
// ErrAddressOutOfExtentRange.
func (t *ExtentTable) Translate(track int, record uint8) (AbsoluteAddress, error) {

	if t.TracksPerCylinder <= 0 {
		return AbsoluteAddress{}, mvs.ErrInvalidHeaderRecord.WithMessage(
			"no device geometry").WithDetail("tracksPerCylinder",
			t.TracksPerCylinder)
	}

	rel := track
	for m, e := range t.Extents {
		if rel >= int(e.Tracks) {
			rel -= int(e.Tracks)
			continue
		}

		cc := rel/t.TracksPerCylinder + int(e.StartCyl)
		hh := rel%t.TracksPerCylinder + int(e.StartHead)
		cc += hh / t.TracksPerCylinder
		hh %= t.TracksPerCylinder

		return AbsoluteAddress{
			M:  uint8(m),
			BB: e.Bin,
			CC: uint16(cc),
			HH: uint16(hh),
			R:  record,
		}, nil
	}

	return AbsoluteAddress{}, mvs.ErrAddressOutOfExtentRange.WithDetail(
		"track", track).WithDetail("extents", len(t.Extents))
}
