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

package mvs

import (
	"fmt"
	"strings"
)

// MemberNameLength is the fixed length of a PDS member name, blank padded
const MemberNameLength = 8

const memberNameChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789#$@ "

var validMemberNameBytes [256]bool

func init() {
	for _, b := range CP037.EncodeString(memberNameChars) {
		validMemberNameBytes[b] = true
	}
}

// MemberName decodes a raw member name from a directory entry. If any of its
// bytes falls outside of the member name character set, the name is returned
// as upper case hex digits and hidden is set.
func MemberName(raw []byte) (name string, hidden bool) {
	for _, b := range raw {
		if !validMemberNameBytes[b] {
			return fmt.Sprintf("%X", raw), true
		}
	}
	return CP037.DecodeString(raw), false
}

// PadMemberName blank pads name to the fixed member name length. Names that
// are already that long or longer are left alone.
func PadMemberName(name string) string {
	if len(name) >= MemberNameLength {
		return name
	}
	return name + strings.Repeat(" ", MemberNameLength-len(name))
}
