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

package xmit

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/xelalexv/xmitview/pkg/mvs"
)

const textUnitHeaderLength = 4

// ValueKind tells how a text unit value is to be interpreted
type ValueKind int

const (
	ValueOpaque ValueKind = iota
	ValueInt
	ValueText
	ValueRecFm
	ValueDSOrg
)

type keySpec struct {
	field string
	kind  ValueKind
}

// text unit keys, field names are given without the INM prefix
var textUnitKeys = map[uint16]keySpec{
	0x0030: {"BLKSZ", ValueInt},
	0x1022: {"CREAT", ValueText},
	0x0001: {"DDNAM", ValueText},
	0x000c: {"DIR", ValueInt},
	0x0002: {"DSNAM", ValueText},
	0x003c: {"DSORG", ValueDSOrg},
	0x8028: {"EATTR", ValueOpaque},
	0x1027: {"ERRCD", ValueOpaque},
	0x0022: {"EXPDT", ValueText},
	0x1026: {"FACK", ValueOpaque},
	0x102d: {"FFM", ValueOpaque},
	0x1011: {"FNODE", ValueText},
	0x1024: {"FTIME", ValueText},
	0x1012: {"FUID", ValueText},
	0x1023: {"FVERS", ValueInt},
	0x1021: {"LCHG", ValueText},
	0x0042: {"LRECL", ValueInt},
	0x1020: {"LREF", ValueText},
	0x8018: {"LSIZE", ValueInt},
	0x0003: {"MEMBR", ValueText},
	0x102f: {"NUMF", ValueInt},
	0x102a: {"RECCT", ValueInt},
	0x0049: {"RECFM", ValueRecFm},
	0x000b: {"SECND", ValueInt},
	0x102c: {"SIZE", ValueInt},
	0x0028: {"TERM", ValueOpaque},
	0x1001: {"TNODE", ValueText},
	0x1025: {"TTIME", ValueText},
	0x1002: {"TUID", ValueText},
	0x8012: {"TYPE", ValueOpaque},
	0x1029: {"USERP", ValueText},
	0x1028: {"UTILN", ValueText},
}

// Value is a single decoded value of a text unit. Raw always holds the
// undecoded bytes.
type Value struct {
	Kind ValueKind
	Int  uint64
	Text string
	Raw  []byte
}

//
func (v Value) String() string {
	switch v.Kind {
	case ValueInt:
		return fmt.Sprintf("%d", v.Int)
	case ValueText, ValueRecFm, ValueDSOrg:
		return v.Text
	}
	return fmt.Sprintf("X'%X'", v.Raw)
}

// Attribute is a decoded text unit, a key with zero or more values.
type Attribute struct {
	Key    uint16
	Field  string
	Values []Value
}

// String joins multiple values with dots, which turns the qualifiers of a
// data set name into the full name.
func (a *Attribute) String() string {
	parts := make([]string, len(a.Values))
	for ix, v := range a.Values {
		parts[ix] = v.String()
	}
	return strings.Join(parts, ".")
}

// Int returns the first value as an integer, or 0 if there is none.
func (a *Attribute) Int() int {
	if len(a.Values) == 0 {
		return 0
	}
	return int(a.Values[0].Int)
}

// DecodeAttribute decodes the text unit at the start of b, and returns it
// together with the number of bytes it occupies.
func DecodeAttribute(b []byte) (*Attribute, int, error) {

	if len(b) < textUnitHeaderLength {
		return nil, 0, mvs.ErrTruncated.WithMessage(
			"text unit header cut off").WithDetail("available", len(b))
	}

	key := binary.BigEndian.Uint16(b)
	count := int(binary.BigEndian.Uint16(b[2:]))

	def, ok := textUnitKeys[key]
	if !ok {
		return nil, 0, mvs.ErrUnknownAttributeKey.WithDetail(
			"key", fmt.Sprintf("%04X", key))
	}

	attr := &Attribute{Key: key, Field: def.field}
	pos := textUnitHeaderLength

	for ix := 0; ix < count; ix++ {
		if pos+2 > len(b) {
			return nil, 0, mvs.ErrTruncated.WithMessage(
				"text unit value length cut off").
				WithDetail("field", def.field).WithDetail("value", ix)
		}
		length := int(binary.BigEndian.Uint16(b[pos:]))
		pos += 2
		if pos+length > len(b) {
			return nil, 0, mvs.ErrTruncated.WithMessage(
				"text unit value cut off").WithDetail("field", def.field).
				WithDetail("value", ix).WithDetail("length", length)
		}
		attr.Values = append(attr.Values, decodeValue(def.kind, b[pos:pos+length]))
		pos += length
	}

	return attr, pos, nil
}

//
func decodeValue(kind ValueKind, raw []byte) Value {

	v := Value{Kind: kind, Raw: raw}

	switch kind {

	case ValueInt:
		if len(raw) > 8 {
			v.Kind = ValueOpaque
			break
		}
		for _, b := range raw {
			v.Int = v.Int<<8 | uint64(b)
		}

	case ValueText:
		v.Text = mvs.CP273.DecodeString(raw)

	case ValueRecFm:
		if len(raw) == 0 {
			v.Kind = ValueOpaque
			break
		}
		v.Text = string(mvs.RecordFormatFromBits(raw[0]))

	case ValueDSOrg:
		if len(raw) < 2 {
			v.Kind = ValueOpaque
			break
		}
		code := binary.BigEndian.Uint16(raw)
		v.Int = uint64(code)
		v.Text = mvs.DSOrgName(code)
	}

	return v
}
