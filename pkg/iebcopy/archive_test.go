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
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xelalexv/xmitview/pkg/mvs"
	"github.com/xelalexv/xmitview/pkg/xmit/xmittest"
)

func line(s string) []byte {
	return mvs.CP273.EncodeString(s + strings.Repeat(" ", 80-len(s)))
}

func lines(ss ...string) []byte {
	var ret []byte
	for _, s := range ss {
		ret = append(ret, line(s)...)
	}
	return ret
}

// testUnload returns the unload records of a small FB 80 library with
// members ALPHA, BETA, its alias ALIASB, and the empty member EMPTY
func testUnload() [][]byte {
	return [][]byte{
		xmittest.CopyR1(0x90, 80, 800, 15),
		xmittest.CopyR2(xmittest.Extent{EndHead: 14, Tracks: 15}),
		xmittest.DirectoryBlock("",
			xmittest.DirectoryEntry("ALIASB", 2, 1, true, nil),
			xmittest.DirectoryEntry("ALPHA", 1, 1, false, paddedISPF()),
			xmittest.DirectoryEntry("BETA", 2, 1, false, nil),
			xmittest.DirectoryEntry("EMPTY", 3, 1, false, nil),
			xmittest.EndOfDirectory(),
		),
		xmittest.MemberData(xmittest.Address{HH: 1, R: 1},
			xmittest.Block(lines("LINE 1", "LINE 2")),
			xmittest.Block(lines("LINE 3"))),
		xmittest.MemberData(xmittest.Address{HH: 1, R: 3},
			xmittest.Block(lines("LINE 4"))),
		xmittest.MemberData(xmittest.Address{HH: 2, R: 1},
			xmittest.Block(lines("BETA 1", "BETA 2"))),
		xmittest.EOFRecord(),
	}
}

func testArchive(t *testing.T) *Archive {
	a, err := NewArchive("USER.TEST.PDS",
		mvs.DCB{RecFm: "FB", LRecL: 80, BlkSize: 800, DSOrg: "PO"}, testUnload())
	require.NoError(t, err)
	return a
}

func TestArchiveMembers(t *testing.T) {
	a := testArchive(t)
	assert.Empty(t, a.Problems())

	var names []string
	for _, m := range a.Members() {
		names = append(names, m.Name)
	}
	assert.Equal(t, []string{"ALIASB  ", "ALPHA   ", "BETA    ", "EMPTY   "},
		names)

	alpha, err := a.Member("ALPHA")
	require.NoError(t, err)
	assert.Equal(t, AbsoluteAddress{HH: 1, R: 1}, alpha.Absolute)
	assert.Equal(t, "000101", alpha.TTR())
	assert.Equal(t, UserDataISPF, alpha.UserData.Kind)
	assert.False(t, alpha.Alias)

	alias, err := a.Member("ALIASB")
	require.NoError(t, err)
	assert.True(t, alias.Alias)
	assert.Equal(t, UserDataNone, alias.UserData.Kind)

	_, err = a.Member("NOPE")
	assert.True(t, errors.Is(err, mvs.ErrMemberNotFound))
}

func TestArchiveRecordKinds(t *testing.T) {
	a := testArchive(t)
	var kinds []RecordKind
	for _, r := range a.Records {
		kinds = append(kinds, r.Kind)
	}
	assert.Equal(t, []RecordKind{KindPhysicalHeader, KindExtentHeader,
		KindDirectory, KindMemberData, KindMemberData, KindMemberData,
		KindEOF}, kinds)

	ov := a.Overview()
	require.Len(t, ov, 5)
	assert.Equal(t, KindMemberData, ov[3].Kind)
	assert.Equal(t, 3, ov[3].Count)
	assert.Equal(t, []int{3, 4, 5}, ov[3].Indexes)
	assert.Contains(t, ov[3].String(), "MinAvgMax")
}

func TestMemberPayload(t *testing.T) {
	a := testArchive(t)

	p, err := a.MemberPayload("ALPHA")
	require.NoError(t, err)
	assert.Equal(t, TypeEBCDIC, p.Datatype)
	assert.Equal(t, 320, p.Len())
	recs := collect(t, p.Records())
	require.Len(t, recs, 4)
	assert.Equal(t, line("LINE 4"), recs[3])

	p, err = a.MemberPayload("BETA")
	require.NoError(t, err)
	assert.Equal(t, lines("BETA 1", "BETA 2"), p.Data)
	assert.NotEmpty(t, p.Digest().String())

	// an alias sharing the start address yields the same data
	alias, err := a.MemberPayload("ALIASB")
	require.NoError(t, err)
	assert.Equal(t, p.Data, alias.Data)
	assert.Equal(t, p.Digest(), alias.Digest())
}

func TestEmptyMember(t *testing.T) {
	a := testArchive(t)
	p, err := a.MemberPayload("EMPTY")
	assert.Nil(t, p)
	assert.True(t, errors.Is(err, mvs.ErrEmptyMember))
}

func TestMemberPayloadBlockOverrun(t *testing.T) {
	recs := testUnload()
	// claim a longer block than the record holds
	recs[5][11] = 0xff
	a, err := NewArchive("X", mvs.DCB{RecFm: "FB", LRecL: 80}, recs)
	require.NoError(t, err)
	_, err = a.MemberPayload("BETA")
	assert.True(t, errors.Is(err, mvs.ErrTruncated))
}

func TestArchiveHeaderFailures(t *testing.T) {
	recs := testUnload()
	_, err := NewArchive("X", mvs.UnknownDCB(), recs[:1])
	assert.True(t, errors.Is(err, mvs.ErrInvalidHeaderRecord))

	recs[0][1] = 0
	_, err = NewArchive("X", mvs.UnknownDCB(), recs)
	assert.True(t, errors.Is(err, mvs.ErrInvalidHeaderRecord))
}

func TestArchiveDCBFromHeader(t *testing.T) {
	recs := testUnload()
	a, err := NewArchive("X", mvs.UnknownDCB(), recs)
	require.NoError(t, err)
	assert.Equal(t, mvs.RecordFormat("FB"), a.DCB.RecFm)
	assert.Equal(t, 80, a.DCB.LRecL)
}

func TestArchiveDamagedDirectory(t *testing.T) {
	recs := testUnload()
	// break the data length of the directory block
	recs[2][11] = 0xfe
	a, err := NewArchive("X", mvs.UnknownDCB(), recs)
	require.NoError(t, err)
	require.Len(t, a.Problems(), 1)
	assert.True(t, errors.Is(a.Problems()[0],
		mvs.ErrInvalidDirectoryBlockHeader))
	assert.Empty(t, a.Members())
}

func TestArchiveBrokenDirectoryEntry(t *testing.T) {
	recs := testUnload()
	unload := [][]byte{recs[0], recs[1],
		xmittest.DirectoryBlock("",
			xmittest.DirectoryEntry("AAA", 1, 1, false, nil),
			xmittest.DirectoryEntry("BAD", 99, 1, false, nil),
			xmittest.DirectoryEntry("CCC", 2, 1, false, nil),
			xmittest.EndOfDirectory()),
		xmittest.DirectoryBlock("",
			xmittest.DirectoryEntry("DDD", 2, 1, false, nil),
			xmittest.EndOfDirectory()),
		recs[3], recs[4], recs[5], recs[6],
	}

	a, err := NewArchive("X", mvs.UnknownDCB(), unload)
	require.NoError(t, err)
	require.Len(t, a.Problems(), 1)
	assert.True(t, errors.Is(a.Problems()[0], mvs.ErrAddressOutOfExtentRange))

	var names []string
	for _, m := range a.Members() {
		names = append(names, m.TrimmedName())
	}
	assert.Equal(t, []string{"AAA", "DDD"}, names)

	// the surviving entry still bounds the scan of its neighbour
	p, err := a.MemberPayload("AAA")
	require.NoError(t, err)
	assert.Equal(t, lines("LINE 1", "LINE 2", "LINE 3", "LINE 4"), p.Data)
}

func TestExport(t *testing.T) {
	a := testArchive(t)
	dir := t.TempDir()

	var seen []string
	res, err := a.Export(dir, mvs.CP273, func(m *MemberEntry, file string) {
		seen = append(seen, m.TrimmedName())
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"ALIASB", "ALPHA", "BETA", "EMPTY"}, seen)
	assert.Equal(t, []string{"EMPTY   "}, res.Empty)
	require.Len(t, res.Files, 3)

	b, err := os.ReadFile(filepath.Join(dir, "ALPHA.txt"))
	require.NoError(t, err)
	out := strings.Split(strings.TrimSuffix(string(b), "\n"), "\n")
	require.Len(t, out, 4)
	assert.Equal(t, "LINE 1", strings.TrimRight(out[0], " "))
}

func TestExportSkipsDamagedMember(t *testing.T) {
	recs := testUnload()
	recs[5][11] = 0xff
	a, err := NewArchive("X", mvs.UnknownDCB(), recs)
	require.NoError(t, err)

	dir := t.TempDir()
	res, err := a.Export(dir, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"ALIASB  ", "BETA    "}, res.Damaged)
	assert.Equal(t, []string{"EMPTY   "}, res.Empty)
	assert.Equal(t, []string{filepath.Join(dir, "ALPHA.txt")}, res.Files)

	_, err = os.Stat(filepath.Join(dir, "BETA.txt"))
	assert.True(t, os.IsNotExist(err))
}

func TestExportASCIIRaw(t *testing.T) {
	ascii := []byte(strings.Repeat("plain ascii text, line by line. ", 5))
	recs := testUnload()
	recs[5] = xmittest.MemberData(xmittest.Address{HH: 2, R: 1},
		xmittest.Block(ascii))
	a, err := NewArchive("X", mvs.UnknownDCB(), recs)
	require.NoError(t, err)

	p, err := a.MemberPayload("BETA")
	require.NoError(t, err)
	require.Equal(t, TypeASCII, p.Datatype)

	dir := t.TempDir()
	_, err = a.Export(dir, mvs.CP273, nil)
	require.NoError(t, err)

	b, err := os.ReadFile(filepath.Join(dir, "BETA.ascii"))
	require.NoError(t, err)
	assert.Equal(t, ascii, b)
}
