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
	"fmt"
)

// RecordKind is the classification of an unload record
type RecordKind int

const (
	KindPhysicalHeader RecordKind = iota
	KindExtentHeader
	KindDirectory
	KindMemberData
	KindAttribute
	KindEOF
	KindUnknown
)

var recordKindNames = map[RecordKind]string{
	KindPhysicalHeader: "CopyR1",
	KindExtentHeader:   "CopyR2",
	KindDirectory:      "Dirblock",
	KindMemberData:     "Mbrdata",
	KindAttribute:      "Attrib",
	KindEOF:            "Eof",
	KindUnknown:        "Unknown",
}

//
func (k RecordKind) String() string {
	if n, ok := recordKindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("RecordKind(%d)", int(k))
}

// address flags of PDSE attribute records
const (
	attributeFlag1 = 0x04
	attributeFlag2 = 0x08
)

// UnloadRecord is one logical record of an IEBCOPY unload data set.
type UnloadRecord struct {
	Index   int
	Kind    RecordKind
	Data    []byte
	Address *Address
}

// Classify determines the kind of a record that follows the two header
// records. The checks are applied in this order, and the address is always
// decoded first, since member data also passes the length check.
func Classify(data []byte) (RecordKind, *Address) {

	if len(data) < AddressLength {
		return KindUnknown, nil
	}

	addr, _ := ParseAddress(data)

	switch {
	case addr.K == directoryKeyLength:
		return KindDirectory, &addr
	case len(data) == AddressLength:
		return KindEOF, &addr
	case addr.Flag == 0:
		return KindMemberData, &addr
	case addr.Flag == attributeFlag1 || addr.Flag == attributeFlag2:
		return KindAttribute, &addr
	}

	return KindUnknown, &addr
}

// Len returns the size of the record in bytes.
func (r *UnloadRecord) Len() int {
	return len(r.Data)
}

//
func (r *UnloadRecord) String() string {
	head := r.Data
	if len(head) > 16 {
		head = head[:16]
	}
	return fmt.Sprintf("%5d %-8s %6d %X", r.Index, r.Kind, len(r.Data), head)
}
