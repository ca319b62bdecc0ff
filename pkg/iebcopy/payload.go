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
	"io"

	"github.com/opencontainers/go-digest"
	"golang.org/x/text/encoding"

	"github.com/xelalexv/xmitview/pkg/mvs"
)

const (
	descriptorLength = 4
	sampleRecords    = 5
)

// MemberPayload is the reassembled content of a member, in the blocked form
// it had on disk.
type MemberPayload struct {
	Member   *MemberEntry
	DCB      mvs.DCB
	Data     []byte
	Datatype Datatype
}

//
func newMemberPayload(m *MemberEntry, dcb mvs.DCB, data []byte) *MemberPayload {

	p := &MemberPayload{Member: m, DCB: dcb, Data: data}

	var sample []byte
	it := p.Records()
	for ix := 0; ix < sampleRecords; ix++ {
		rec, err := it.Next()
		if err != nil {
			break
		}
		sample = append(sample, rec...)
	}
	p.Datatype = GuessDatatype(sample, dcb.RecFm)

	return p
}

// Len returns the size of the blocked payload.
func (p *MemberPayload) Len() int {
	return len(p.Data)
}

// Digest returns the SHA-256 digest of the blocked payload.
func (p *MemberPayload) Digest() digest.Digest {
	return digest.FromBytes(p.Data)
}

// Records returns an iterator over the logical records of this payload,
// unblocked according to the record format.
func (p *MemberPayload) Records() *RecordIterator {
	it := &RecordIterator{data: p.Data, lrecl: p.DCB.LRecL}
	switch {
	case p.DCB.RecFm.Fixed() && p.DCB.LRecL > 0:
		it.mode = blockingFixed
	case p.DCB.RecFm.Variable():
		it.mode = blockingVariable
	default:
		it.mode = blockingNone
	}
	return it
}

// Write writes text payloads decoded with enc, one record per line. ASCII
// payloads are always decoded as Latin-1. Payloads of all other types are
// written as they are. A nil enc selects CP273.
func (p *MemberPayload) Write(w io.Writer, enc encoding.Encoding) (int64, error) {
	if !p.Datatype.Text() {
		return p.WriteRecords(w, nil, "")
	}
	if p.Datatype == TypeASCII {
		enc = mvs.Latin1
	} else if enc == nil {
		enc = mvs.CP273
	}
	return p.WriteRecords(w, enc, "\n")
}

// TextRecords returns an iterator yielding the logical records decoded with
// enc. A nil enc selects CP273.
func (p *MemberPayload) TextRecords(enc encoding.Encoding) *TextIterator {
	if enc == nil {
		enc = mvs.CP273
	}
	return &TextIterator{records: p.Records(), decoder: enc.NewDecoder()}
}

// WriteRecords writes all logical records to w. With a non-nil encoding, the
// records are decoded, and each one is followed by sep. Without an encoding,
// records are written as they are, and sep is ignored.
func (p *MemberPayload) WriteRecords(w io.Writer, enc encoding.Encoding,
	sep string) (int64, error) {

	var written int64

	if enc == nil {
		it := p.Records()
		for {
			rec, err := it.Next()
			if err == io.EOF {
				return written, nil
			}
			if err != nil {
				return written, err
			}
			n, err := w.Write(rec)
			written += int64(n)
			if err != nil {
				return written, err
			}
		}
	}

	it := p.TextRecords(enc)
	for {
		line, err := it.Next()
		if err == io.EOF {
			return written, nil
		}
		if err != nil {
			return written, err
		}
		n, err := io.WriteString(w, line+sep)
		written += int64(n)
		if err != nil {
			return written, err
		}
	}
}

type blocking int

const (
	blockingNone blocking = iota
	blockingFixed
	blockingVariable
)

// RecordIterator unblocks a payload into logical records. Records are slices
// of the payload and must not be modified.
type RecordIterator struct {
	data     []byte
	mode     blocking
	lrecl    int
	pos      int
	blockEnd int
	done     bool
}

// Next returns the next logical record, or io.EOF after the last one. Fixed
// records come in slices of the record length, the final one possibly
// shorter. Variable records are taken from blocks, each with a block
// descriptor, and stop when fewer than 4 bytes remain. Any other format
// yields the whole payload as a single record.
func (it *RecordIterator) Next() ([]byte, error) {

	if it.done {
		return nil, io.EOF
	}

	switch it.mode {

	case blockingFixed:
		if it.pos >= len(it.data) {
			it.done = true
			return nil, io.EOF
		}
		end := it.pos + it.lrecl
		if end > len(it.data) {
			end = len(it.data)
		}
		rec := it.data[it.pos:end]
		it.pos = end
		return rec, nil

	case blockingVariable:
		return it.nextVariable()
	}

	it.done = true
	return it.data, nil
}

//
func (it *RecordIterator) nextVariable() ([]byte, error) {

	for it.pos >= it.blockEnd {
		if len(it.data)-it.blockEnd < descriptorLength {
			it.done = true
			return nil, io.EOF
		}
		start := it.blockEnd
		length := int(binary.BigEndian.Uint16(it.data[start:]))
		if length < descriptorLength {
			it.done = true
			return nil, mvs.ErrTruncated.WithMessage(
				"invalid block descriptor").WithDetail("offset", start).
				WithDetail("length", length)
		}
		it.pos = start + descriptorLength
		it.blockEnd = start + length
		if it.blockEnd > len(it.data) {
			it.blockEnd = len(it.data)
		}
	}

	if it.pos+descriptorLength > it.blockEnd {
		it.done = true
		return nil, mvs.ErrTruncated.WithMessage(
			"record descriptor cut off").WithDetail("offset", it.pos)
	}

	length := int(binary.BigEndian.Uint16(it.data[it.pos:]))
	if length < descriptorLength {
		it.done = true
		return nil, mvs.ErrTruncated.WithMessage(
			"invalid record descriptor").WithDetail("offset", it.pos).
			WithDetail("length", length)
	}

	end := it.pos + length
	if end > len(it.data) {
		end = len(it.data)
	}
	rec := it.data[it.pos+descriptorLength : end]
	it.pos += length

	return rec, nil
}

// TextIterator yields decoded logical records.
type TextIterator struct {
	records *RecordIterator
	decoder *encoding.Decoder
}

// Next returns the next record as text, or io.EOF after the last one.
func (it *TextIterator) Next() (string, error) {
	rec, err := it.records.Next()
	if err != nil {
		return "", err
	}
	b, err := it.decoder.Bytes(rec)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
