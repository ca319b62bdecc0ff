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
	"errors"
	"io"

	"github.com/xelalexv/xmitview/pkg/mvs"
)

const segmentHeaderLength = 2

// segment descriptor flags
const (
	segmentFirst   = 0x80
	segmentLast    = 0x40
	segmentControl = 0x20
)

// Record is a logical record reassembled from one or more segments.
type Record struct {
	Offset   int64
	Control  bool
	First    bool
	Segments int
	Data     []byte
}

// SegmentReader reads logical records from a transmission file. Each record
// is the concatenation of segment bodies up to and including a segment
// flagged as last.
type SegmentReader struct {
	src   io.Reader
	pos   int64
	count int
}

//
func NewSegmentReader(src io.Reader) *SegmentReader {
	return &SegmentReader{src: src}
}

// Count returns the number of records read so far.
func (r *SegmentReader) Count() int {
	return r.count
}

// Next returns the next record, or io.EOF when the input is exhausted at a
// record boundary. Input ending within a record yields ErrTruncated.
func (r *SegmentReader) Next() (*Record, error) {

	var hdr [segmentHeaderLength]byte
	rec := &Record{Offset: r.pos}

	for {
		offset := r.pos
		n, err := io.ReadFull(r.src, hdr[:])
		r.pos += int64(n)

		if err != nil {
			if rec.Segments == 0 && errors.Is(err, io.EOF) {
				return nil, io.EOF
			}
			return nil, mvs.ErrTruncated.WithMessage(
				"segment header cut off").WithDetail("offset", offset)
		}

		length, flags := int(hdr[0]), hdr[1]
		if length < segmentHeaderLength {
			return nil, mvs.ErrInvalidSegmentLength.
				WithDetail("offset", offset).WithDetail("length", length)
		}

		if rec.Segments == 0 {
			rec.Control = flags&segmentControl != 0
			rec.First = flags&segmentFirst != 0
		}

		start := len(rec.Data)
		rec.Data = append(rec.Data, make([]byte, length-segmentHeaderLength)...)
		n, err = io.ReadFull(r.src, rec.Data[start:])
		r.pos += int64(n)

		if err != nil {
			return nil, mvs.ErrTruncated.WithMessage("segment body cut off").
				WithDetail("offset", offset).WithDetail("length", length)
		}

		rec.Segments++
		if flags&segmentLast != 0 {
			break
		}
	}

	r.count++
	return rec, nil
}
