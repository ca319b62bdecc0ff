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
	"fmt"
	"time"
)

const timestampLayout = "20060102"

// Origin summarizes who sent a transmission, and when.
type Origin struct {
	Node string
	User string
	// raw INMFTIME, yyyymmddhhmmss...
	Time string
}

// Origin takes sender node, user, and time from the INMR01 header record.
// Fields that are missing get placeholders.
func (c *Container) Origin() *Origin {

	o := &Origin{Node: "<FNODE>", User: "<FUID>"}
	if len(c.ControlRecords) == 0 || c.ControlRecords[0].Kind != KindHeader {
		return o
	}

	hdr := c.ControlRecords[0]
	o.Node = singleValue(hdr, "FNODE", o.Node)
	o.User = singleValue(hdr, "FUID", o.User)
	o.Time = singleValue(hdr, "FTIME", "")
	return o
}

//
func singleValue(cr *ControlRecord, field, def string) string {
	if a, ok := cr.Attribute(field); ok && len(a.Values) == 1 {
		return a.Values[0].String()
	}
	return def
}

// Date returns the transmission date. ok is false if the header carries no
// valid time stamp.
func (o *Origin) Date() (t time.Time, ok bool) {
	if len(o.Time) < len(timestampLayout) {
		return t, false
	}
	t, err := time.Parse(timestampLayout, o.Time[:len(timestampLayout)])
	return t, err == nil
}

//
func (o *Origin) String() string {
	date := "yyyy-mm-dd"
	if len(o.Time) >= 8 {
		date = fmt.Sprintf("%s-%s-%s", o.Time[:4], o.Time[4:6], o.Time[6:8])
	}
	return fmt.Sprintf("INMR01: %s.%s - %s", o.Node, o.User, date)
}
