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

// control record types
const (
	KindHeader   = "INMR01"
	KindDataset  = "INMR02"
	KindDataInfo = "INMR03"
	KindUser     = "INMR04"
	KindTrailer  = "INMR06"
	KindAck      = "INMR07"
)

const (
	controlTypeLength = 6
	fileNumberLength  = 4
)

// ControlRecord is a record of a transmission that carries text units rather
// than data.
type ControlRecord struct {
	Kind       string
	Offset     int64
	File       int
	Attributes []*Attribute
	byField    map[string]*Attribute
}

// NewControlRecord decodes a reassembled control record. Type INMR02 carries
// a file number in front of its text units.
func NewControlRecord(rec *Record) (*ControlRecord, error) {

	if len(rec.Data) < controlTypeLength {
		return nil, mvs.ErrTruncated.WithMessage(
			"control record too short").WithDetail("offset", rec.Offset)
	}

	cr := &ControlRecord{
		Kind:    mvs.CP273.DecodeString(rec.Data[:controlTypeLength]),
		Offset:  rec.Offset,
		byField: make(map[string]*Attribute),
	}

	pos := controlTypeLength
	if strings.HasSuffix(cr.Kind, "2") {
		if len(rec.Data) < pos+fileNumberLength {
			return nil, mvs.ErrTruncated.WithMessage(
				"file number cut off").WithDetail("offset", rec.Offset)
		}
		cr.File = int(binary.BigEndian.Uint32(rec.Data[pos:]))
		pos += fileNumberLength
	}

	for pos < len(rec.Data) {
		attr, n, err := DecodeAttribute(rec.Data[pos:])
		if err != nil {
			if de, ok := err.(*mvs.DecodeError); ok {
				err = de.WithDetail("record", cr.Kind).
					WithDetail("offset", rec.Offset).WithDetail("position", pos)
			}
			return nil, err
		}
		cr.Attributes = append(cr.Attributes, attr)
		cr.byField[attr.Field] = attr
		pos += n
	}

	return cr, nil
}

// Attribute returns the text unit with the given field name, without the INM
// prefix.
func (c *ControlRecord) Attribute(field string) (*Attribute, bool) {
	a, ok := c.byField[field]
	return a, ok
}

// Text returns the textual rendition of a field, or def if the field is not
// present.
func (c *ControlRecord) Text(field, def string) string {
	if a, ok := c.byField[field]; ok && len(a.Values) > 0 {
		return a.String()
	}
	return def
}

// Int returns the first value of a field as integer, or def if the field is
// not present.
func (c *ControlRecord) Int(field string, def int) int {
	if a, ok := c.byField[field]; ok && len(a.Values) > 0 {
		return a.Int()
	}
	return def
}

//
func (c *ControlRecord) String() string {
	var sb strings.Builder
	sb.WriteString(c.Kind)
	if strings.HasSuffix(c.Kind, "2") {
		fmt.Fprintf(&sb, "(%d)", c.File)
	}
	for _, a := range c.Attributes {
		fmt.Fprintf(&sb, " %s=%s", a.Field, a)
	}
	return sb.String()
}
