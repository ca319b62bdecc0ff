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
	"strconv"
	"strings"
	"time"

	"github.com/xelalexv/xmitview/pkg/mvs"
)

const ispfStatsLength = 30

// ISPFStats are the edit statistics ISPF keeps in the directory entry of
// text members.
type ISPFStats struct {
	Version       int
	Modification  int
	Flags         byte
	Created       time.Time
	Changed       time.Time
	Lines         int
	InitialLines  int
	ModifiedLines int
	UserID        string
}

//
func decodeISPFStats(b []byte) (*ISPFStats, error) {

	if len(b) != ispfStatsLength {
		return nil, fmt.Errorf("len=%d", len(b))
	}

	created, err := packedDate(b[4:8])
	if err != nil {
		return nil, fmt.Errorf("created: %v", err)
	}

	changed, err := packedDate(b[8:12])
	if err != nil {
		return nil, fmt.Errorf("changed: %v", err)
	}

	hh, err1 := packedByte(b[12])
	mm, err2 := packedByte(b[13])
	ss, err3 := packedByte(b[3])
	if err1 != nil || err2 != nil || err3 != nil || hh > 23 || mm > 59 ||
		ss > 59 {
		return nil, fmt.Errorf("invalid change time %X%X%X", b[12], b[13], b[3])
	}
	changed = changed.Add(time.Duration(hh)*time.Hour +
		time.Duration(mm)*time.Minute + time.Duration(ss)*time.Second)

	return &ISPFStats{
		Version:       int(b[0]),
		Modification:  int(b[1]),
		Flags:         b[2],
		Created:       created,
		Changed:       changed,
		Lines:         int(binary.BigEndian.Uint16(b[14:])),
		InitialLines:  int(binary.BigEndian.Uint16(b[16:])),
		ModifiedLines: int(binary.BigEndian.Uint16(b[18:])),
		UserID:        strings.TrimRight(mvs.CP273.DecodeString(b[20:28]), " \x00"),
	}, nil
}

// packedDate decodes a date in the P'0cyydddF' format, where c counts
// centuries since 1900.
func packedDate(b []byte) (time.Time, error) {

	century := int(b[0])
	digits := fmt.Sprintf("%X", b[1:4])
	if sign := digits[5]; sign != 'F' && sign != 'C' {
		return time.Time{}, fmt.Errorf("invalid sign in packed date %X", b)
	}

	if !isDecimal(digits[:5]) {
		return time.Time{}, fmt.Errorf("invalid packed date %X", b)
	}
	yy, _ := strconv.Atoi(digits[:2])
	ddd, _ := strconv.Atoi(digits[2:5])

	year := 1900 + 100*century + yy
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	days := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC).YearDay()
	if ddd < 1 || ddd > days {
		return time.Time{}, fmt.Errorf("invalid day of year %d in %X", ddd, b)
	}

	return start.AddDate(0, 0, ddd-1), nil
}

// packedByte decodes two packed decimal digits.
func packedByte(b byte) (int, error) {
	hi, lo := int(b>>4), int(b&0x0f)
	if hi > 9 || lo > 9 {
		return 0, fmt.Errorf("invalid packed digits %02X", b)
	}
	return hi*10 + lo, nil
}

//
func isDecimal(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// VersionModification returns the version in vv.mm format.
func (s *ISPFStats) VersionModification() string {
	return fmt.Sprintf("%02d.%02d", s.Version, s.Modification)
}

//
func (s *ISPFStats) String() string {
	return fmt.Sprintf("%s %5d %s",
		s.Changed.Format("2006-01-02"), s.Lines, s.UserID)
}
