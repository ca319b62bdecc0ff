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
	"bytes"
	"fmt"
	"io"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/xelalexv/xmitview/pkg/iebcopy"
	"github.com/xelalexv/xmitview/pkg/mvs"
)

// UtilityIEBCOPY is the utility name of data sets unloaded by IEBCOPY
const UtilityIEBCOPY = "IEBCOPY"

// first segment header flags byte, and EBCDIC INMR01
var signature = []byte{0xe0, 0xc9, 0xd5, 0xd4, 0xd9, 0xf0, 0xf1}

const signatureLength = 8

// Container is a decoded transmission file.
type Container struct {
	Name           string
	ControlRecords []*ControlRecord
	Datasets       []*Dataset
	primaries      map[int]*Dataset
	layout         []string
}

// Open reads a complete transmission from src. The signature is checked
// before any segment is decoded.
func Open(src io.ReadSeeker) (*Container, error) {

	var start [signatureLength]byte
	if _, err := io.ReadFull(src, start[:]); err != nil {
		return nil, mvs.ErrMalformedSignature.WithCause(err)
	}
	if !bytes.Equal(start[1:], signature) {
		return nil, mvs.ErrMalformedSignature.WithDetail(
			"found", fmt.Sprintf("%X", start[:]))
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	c := &Container{primaries: make(map[int]*Dataset)}
	if err := c.read(NewSegmentReader(src)); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"controlRecords": len(c.ControlRecords),
		"datasets":       len(c.Datasets),
	}).Debug("transmission decoded")

	return c, nil
}

//
func (c *Container) read(sr *SegmentReader) error {

	var current *Dataset
	dataInfos := 0
	dataCount, dataBytes := 0, 0

	flushData := func() {
		if dataCount > 0 {
			c.layout = append(c.layout, fmt.Sprintf(
				" DataRecords %d - %d bytes", dataCount, dataBytes))
			dataCount, dataBytes = 0, 0
		}
	}

	for {
		rec, err := sr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		if !rec.Control {
			if current == nil {
				if len(c.Datasets) == 0 {
					return mvs.ErrTruncated.WithMessage(
						"data record before any data set").WithDetail(
						"offset", rec.Offset)
				}
				current = c.Datasets[0]
			}
			current.Records = append(current.Records, rec.Data)
			dataCount++
			dataBytes += len(rec.Data)
			continue
		}

		flushData()

		cr, err := NewControlRecord(rec)
		if err != nil {
			return err
		}
		c.ControlRecords = append(c.ControlRecords, cr)
		c.layout = append(c.layout, layoutLine(cr, rec))

		switch cr.Kind {

		case KindDataset:
			ds := NewDataset(cr)
			c.Datasets = append(c.Datasets, ds)
			if primary, ok := c.primaries[ds.File]; ok {
				primary.Chain = append(primary.Chain, ds.Utility)
			} else {
				c.primaries[ds.File] = ds
			}
			log.WithFields(log.Fields{
				"name":    ds.Name,
				"utility": ds.Utility,
				"file":    ds.File,
			}).Debug("data set announced")

		case KindDataInfo:
			dataInfos++
			if ds, ok := c.primaries[dataInfos]; ok {
				current = ds
			} else {
				current = nil
			}
		}
	}

	flushData()
	return nil
}

// layoutLine shows the flags of the record's final segment. That one is
// always flagged last, and is flagged first as well only when the record fit
// into a single segment.
func layoutLine(cr *ControlRecord, rec *Record) string {
	first := '.'
	if rec.Segments == 1 {
		first = '<'
	}
	return fmt.Sprintf(" %s  %c>", cr.Kind, first)
}

// FindEmbeddedArchive returns the unloaded partitioned data set carried by
// this transmission. The first data set needs to have been written by
// IEBCOPY.
func (c *Container) FindEmbeddedArchive() (*iebcopy.Archive, error) {

	if len(c.Datasets) == 0 {
		return nil, mvs.ErrUnexpectedUtility.WithMessage(
			"transmission contains no data set")
	}

	ds := c.Datasets[0]
	if ds.Utility != UtilityIEBCOPY {
		return nil, mvs.ErrUnexpectedUtility.WithDetail(
			"utility", ds.Utility).WithDetail("dataset", ds.Name)
	}

	return iebcopy.NewArchive(ds.Name, ds.DCB, ds.Records)
}

// Layout returns the sequence of control records and data record runs, one
// line per entry. Markers are the first (<) and last (>) flags of a control
// record's final segment, so a record spanning several segments shows as .>
func (c *Container) Layout() []string {
	return c.layout
}

//
func (c *Container) String() string {
	return c.Name + "\n" + strings.Join(c.layout, "\n")
}
