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
	"sort"
)

// KindStats summarizes the unload records of one kind.
type KindStats struct {
	Kind    RecordKind
	Count   int
	Bytes   int
	Min     int
	Max     int
	Indexes []int
}

//
func (s *KindStats) Average() float64 {
	if s.Count == 0 {
		return 0
	}
	return float64(s.Bytes) / float64(s.Count)
}

//
func (s *KindStats) String() string {
	lengths := ""
	if s.Count > 1 {
		if s.Min != s.Max {
			lengths = fmt.Sprintf(", MinAvgMax=[%5d - %6.1f - %5d]",
				s.Min, s.Average(), s.Max)
		} else {
			lengths = fmt.Sprintf(", reclen=%d", s.Min)
		}
	}
	return fmt.Sprintf("%8s : %5d - %9d bytes%s", s.Kind, s.Count, s.Bytes,
		lengths)
}

// Overview returns record statistics per kind, ordered by kind.
func (a *Archive) Overview() []*KindStats {

	byKind := make(map[RecordKind]*KindStats)

	for _, r := range a.Records {
		s, ok := byKind[r.Kind]
		if !ok {
			s = &KindStats{Kind: r.Kind, Min: r.Len()}
			byKind[r.Kind] = s
		}
		s.Count++
		s.Bytes += r.Len()
		if r.Len() > s.Max {
			s.Max = r.Len()
		}
		if r.Len() < s.Min {
			s.Min = r.Len()
		}
		s.Indexes = append(s.Indexes, r.Index)
	}

	ret := make([]*KindStats, 0, len(byKind))
	for _, s := range byKind {
		ret = append(ret, s)
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i].Kind < ret[j].Kind })

	return ret
}
