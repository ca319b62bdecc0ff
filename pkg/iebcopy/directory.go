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

// DirectoryBlockLength is the size of a directory block including count,
// key, and data
const DirectoryBlockLength = 276

const (
	directoryKeyLength  = 8
	directoryDataLength = 256
	activeLengthOffset  = 20
	entriesOffset       = 22
	entryFixedLength    = 12
	userDataCountMask   = 0x1f
	aliasFlag           = 0x80
)

var highKeyLast = bytes.Repeat([]byte{0xff}, 8)

// DirectoryBlock is one decoded 276 byte block of a PDS directory.
type DirectoryBlock struct {
	HighKey string
	// set for the block with the all ones high key, or the end of directory
	// entry
	Last    bool
	Active  int
	Entries []*MemberEntry
}

// MemberEntry is a member or alias as listed in the directory.
type MemberEntry struct {
	Name        string
	DisplayName string
	Hidden      bool
	Track       uint16
	Record      uint8
	Alias       bool
	UserData    *UserData
	Absolute    AbsoluteAddress
}

// DecodeDirectoryRecord decodes all directory blocks in an unload record.
// Blocks follow each other at 276 byte intervals, a trailing partial block is
// padding. Decoding stops after the last directory block, or at the first
// broken entry. Entries decoded up to that point are returned with the error.
func DecodeDirectoryRecord(b []byte, extents *ExtentTable) ([]*MemberEntry, bool, error) {

	var ret []*MemberEntry

	for pos := 0; pos+DirectoryBlockLength <= len(b); pos += DirectoryBlockLength {
		blk, err := DecodeDirectoryBlock(b[pos:pos+DirectoryBlockLength], extents)
		if blk != nil {
			ret = append(ret, blk.Entries...)
		}
		if err != nil {
			if de, ok := err.(*mvs.DecodeError); ok {
				err = de.WithDetail("block", pos/DirectoryBlockLength)
			}
			return ret, false, err
		}
		if blk.Last {
			return ret, true, nil
		}
	}

	return ret, false, nil
}

// DecodeDirectoryBlock decodes a single directory block. Absolute addresses
// of the entries are resolved right away through the extent table. When an
// entry can't be decoded, the block is returned along with the error, holding
// the entries before the broken one.
func DecodeDirectoryBlock(b []byte, extents *ExtentTable) (*DirectoryBlock, error) {

	if len(b) < DirectoryBlockLength {
		return nil, mvs.ErrTruncated.WithMessage(
			"directory block cut off").WithDetail("length", len(b))
	}

	keyLen := binary.BigEndian.Uint16(b[8:])
	dataLen := binary.BigEndian.Uint16(b[10:])
	if keyLen != directoryKeyLength || dataLen != directoryDataLength {
		return nil, mvs.ErrInvalidDirectoryBlockHeader.
			WithDetail("keyLength", keyLen).WithDetail("dataLength", dataLen)
	}

	blk := &DirectoryBlock{
		Active: int(binary.BigEndian.Uint16(b[activeLengthOffset:])),
	}

	if bytes.Equal(b[12:20], highKeyLast) {
		blk.Last = true
	} else {
		blk.HighKey = mvs.CP273.DecodeString(b[12:20])
	}

	// active length counts from the count field
	end := activeLengthOffset + blk.Active
	if end > DirectoryBlockLength {
		return nil, mvs.ErrInvalidDirectoryBlockHeader.WithMessage(
			"active length exceeds block").WithDetail("active", blk.Active)
	}

	for pos := entriesOffset; pos < end; {
		if pos+mvs.MemberNameLength <= end &&
			bytes.Equal(b[pos:pos+mvs.MemberNameLength], highKeyLast) {
			blk.Last = true
			break
		}
		e, n, err := decodeMemberEntry(b[pos:end], extents)
		if err != nil {
			if de, ok := err.(*mvs.DecodeError); ok {
				err = de.WithDetail("position", pos)
			}
			return blk, err
		}
		blk.Entries = append(blk.Entries, e)
		pos += n
	}

	return blk, nil
}

//
func decodeMemberEntry(b []byte, extents *ExtentTable) (*MemberEntry, int, error) {

	if len(b) < entryFixedLength {
		return nil, 0, mvs.ErrTruncated.WithMessage(
			"directory entry cut off").WithDetail("length", len(b))
	}

	c := b[11]
	halfwords := int(c & userDataCountMask)
	length := entryFixedLength + 2*halfwords
	if length > len(b) {
		return nil, 0, mvs.ErrTruncated.WithMessage(
			"directory entry user data cut off").WithDetail(
			"halfwords", halfwords)
	}

	e := &MemberEntry{
		DisplayName: mvs.CP037.Printable(b[:mvs.MemberNameLength]),
		Track:       binary.BigEndian.Uint16(b[8:]),
		Record:      b[10],
		Alias:       c&aliasFlag != 0,
	}
	e.Name, e.Hidden = mvs.MemberName(b[:mvs.MemberNameLength])

	raw := make([]byte, 2*halfwords)
	copy(raw, b[entryFixedLength:length])
	e.UserData = DecodeUserData(halfwords, raw, e.Alias)

	abs, err := extents.Translate(int(e.Track), e.Record)
	if err != nil {
		if de, ok := err.(*mvs.DecodeError); ok {
			err = de.WithDetail("member", e.Name)
		}
		return nil, 0, err
	}
	e.Absolute = abs

	return e, length, nil
}

// TrimmedName returns the member name without padding.
func (e *MemberEntry) TrimmedName() string {
	return string(bytes.TrimRight([]byte(e.Name), " "))
}

// TTR returns the relative address in the usual hex notation.
func (e *MemberEntry) TTR() string {
	return fmt.Sprintf("%04X%02X", e.Track, e.Record)
}

//
func (e *MemberEntry) String() string {
	hidden := ""
	if e.Hidden {
		hidden = fmt.Sprintf(" (x'%s')", e.Name)
	}
	return fmt.Sprintf("%8s: %s %s%s", e.DisplayName, e.TTR(), e.UserData,
		hidden)
}
