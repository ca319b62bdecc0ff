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
	log "github.com/sirupsen/logrus"

	"github.com/xelalexv/xmitview/pkg/mvs"
)

// Archive is a partitioned data set reconstructed from its IEBCOPY unload
// records. All records are decoded up front, member payloads are assembled
// on request.
type Archive struct {
	Name    string
	DCB     mvs.DCB
	Header  *PhysicalHeader
	Extents *ExtentTable
	Records []*UnloadRecord

	members   []*MemberEntry
	byName    map[string]*MemberEntry
	startOf   map[AbsoluteAddress][]*MemberEntry
	firstData map[AbsoluteAddress]int
	problems  []error
}

// NewArchive decodes the unload records of a data set. The two header
// records must be present and intact, damage to later records is logged and
// collected as problems. An unknown record format in dcb is taken from the
// physical header.
func NewArchive(name string, dcb mvs.DCB, records [][]byte) (*Archive, error) {

	if len(records) < 2 {
		return nil, mvs.ErrInvalidHeaderRecord.WithMessage(
			"unload header records missing").WithDetail("records", len(records))
	}

	hdr, err := ParsePhysicalHeader(records[0])
	if err != nil {
		return nil, err
	}

	extents, err := ParseExtentTable(records[1], hdr.TracksPerCylinder)
	if err != nil {
		return nil, err
	}

	if dcb.RecFm == "" || dcb.RecFm == mvs.Unknown {
		dcb = hdr.DCB()
	}

	a := &Archive{
		Name:      name,
		DCB:       dcb,
		Header:    hdr,
		Extents:   extents,
		byName:    make(map[string]*MemberEntry),
		startOf:   make(map[AbsoluteAddress][]*MemberEntry),
		firstData: make(map[AbsoluteAddress]int),
	}

	a.Records = append(a.Records,
		&UnloadRecord{Index: 0, Kind: KindPhysicalHeader, Data: records[0]},
		&UnloadRecord{Index: 1, Kind: KindExtentHeader, Data: records[1]})

	directoryDone := false

	for ix := 2; ix < len(records); ix++ {
		kind, addr := Classify(records[ix])
		rec := &UnloadRecord{Index: ix, Kind: kind, Data: records[ix],
			Address: addr}
		a.Records = append(a.Records, rec)

		switch kind {

		case KindDirectory:
			if directoryDone {
				continue
			}
			entries, last, err := DecodeDirectoryRecord(rec.Data, extents)
			for _, e := range entries {
				a.addMember(e)
			}
			directoryDone = last
			if err != nil {
				a.problem(ix, err)
			}

		case KindMemberData:
			abs := addr.Absolute()
			if _, ok := a.firstData[abs]; !ok {
				a.firstData[abs] = ix
			}

		case KindUnknown:
			log.WithFields(log.Fields{
				"record": ix,
				"length": len(rec.Data),
			}).Debug("unrecognized unload record")
		}
	}

	log.WithFields(log.Fields{
		"dataset":  name,
		"records":  len(a.Records),
		"members":  len(a.members),
		"problems": len(a.problems),
	}).Debug("unload data set decoded")

	return a, nil
}

//
func (a *Archive) addMember(e *MemberEntry) {
	a.members = append(a.members, e)
	a.byName[e.Name] = e
	a.startOf[e.Absolute] = append(a.startOf[e.Absolute], e)
	if err := e.UserData.Err(); err != nil {
		log.WithFields(log.Fields{
			"member": e.Name,
			"error":  err,
		}).Debug("user data not recognized")
	}
}

//
func (a *Archive) problem(record int, err error) {
	if de, ok := err.(*mvs.DecodeError); ok {
		err = de.WithDetail("record", record)
	}
	log.WithField("record", record).Warnf("damaged unload record: %v", err)
	a.problems = append(a.problems, err)
}

// Members returns the directory entries in directory order.
func (a *Archive) Members() []*MemberEntry {
	return a.members
}

// Member looks up a directory entry by name. Names shorter than eight
// characters are blank padded. For duplicate names, the last entry wins.
func (a *Archive) Member(name string) (*MemberEntry, error) {
	if e, ok := a.byName[mvs.PadMemberName(name)]; ok {
		return e, nil
	}
	return nil, mvs.ErrMemberNotFound.WithDetail("member", name)
}

// Problems returns errors found in records after the headers. Records with
// problems have been skipped in part or entirely.
func (a *Archive) Problems() []error {
	return a.problems
}

// MemberPayload assembles the data of a member. The scan starts at the
// first member data record with the member's absolute address, and ends
// before the next record that is not member data, or that starts a member
// not sharing this one's address, such as a different member. Members
// without data yield ErrEmptyMember.
func (a *Archive) MemberPayload(name string) (*MemberPayload, error) {

	m, err := a.Member(name)
	if err != nil {
		return nil, err
	}

	start, ok := a.firstData[m.Absolute]
	if !ok {
		return nil, mvs.ErrEmptyMember.WithDetail("member", m.Name)
	}

	stop := start + 1
	for ; stop < len(a.Records); stop++ {
		rec := a.Records[stop]
		if rec.Kind != KindMemberData || a.startsOther(rec.Address.Absolute(), m) {
			break
		}
	}

	var data []byte
	for _, rec := range a.Records[start:stop] {
		var err error
		if data, err = appendBlocks(data, rec.Data); err != nil {
			if de, ok := err.(*mvs.DecodeError); ok {
				err = de.WithDetail("member", m.Name).WithDetail(
					"record", rec.Index)
			}
			return nil, err
		}
	}

	if len(data) == 0 {
		return nil, mvs.ErrEmptyMember.WithDetail("member", m.Name)
	}

	return newMemberPayload(m, a.DCB, data), nil
}

// startsOther reports whether addr is where some member other than m, and
// not an alias of m, starts.
func (a *Archive) startsOther(addr AbsoluteAddress, m *MemberEntry) bool {
	entries, ok := a.startOf[addr]
	if !ok {
		return false
	}
	for _, e := range entries {
		if e.Name == m.Name {
			return false
		}
	}
	return true
}

// appendBlocks appends the data blocks contained in a member data record.
// Each block has its own address prefix, whose data length gives the size of
// the block.
func appendBlocks(dst, rec []byte) ([]byte, error) {
	for pos := 0; pos < len(rec)-AddressLength; {
		addr, _ := ParseAddress(rec[pos:])
		pos += AddressLength
		end := pos + int(addr.DD)
		if end > len(rec) {
			return dst, mvs.ErrTruncated.WithMessage(
				"data block exceeds record").WithDetail("offset", pos).
				WithDetail("length", addr.DD)
		}
		dst = append(dst, rec[pos:end]...)
		pos = end
	}
	return dst, nil
}
