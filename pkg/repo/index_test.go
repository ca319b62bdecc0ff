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

package repo

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xelalexv/xmitview/pkg/mvs"
	"github.com/xelalexv/xmitview/pkg/xmit/xmittest"
)

func transmission(member string) []byte {
	card := mvs.CP273.EncodeString("DATA" + strings.Repeat(" ", 76))
	return xmittest.Transmission("SYS2.CMDLIB", []byte{0x90, 0x00}, 80,
		xmittest.CopyR1(0x90, 80, 800, 15),
		xmittest.CopyR2(xmittest.Extent{EndHead: 14, Tracks: 15}),
		xmittest.DirectoryBlock("",
			xmittest.DirectoryEntry(member, 1, 1, false, nil),
			xmittest.EndOfDirectory()),
		xmittest.MemberData(xmittest.Address{HH: 1, R: 1}, xmittest.Block(card)),
		xmittest.EOFRecord(),
	)
}

func writeRepo(t *testing.T) string {
	repo := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(repo, "cbt"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(repo, "cbt", "file123.xmi"),
		transmission("REVIEW"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(repo, "other.xmit"),
		transmission("QUEUE"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(repo, "broken.xmi"),
		[]byte("not a transmission"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(repo, "notes.txt"),
		[]byte("REVIEW"), 0644))
	return repo
}

func TestNewEntry(t *testing.T) {
	repo := writeRepo(t)
	e, err := NewEntry(filepath.Join(repo, "cbt", "file123.xmi"), "cbt/file123.xmi")
	require.NoError(t, err)
	assert.Equal(t, "cbt file123 xmi", e.Name)
	assert.Equal(t, "SYS2 CMDLIB", e.Dataset)
	assert.Equal(t, "IEBCOPY", e.Utility)
	assert.Equal(t, []string{"REVIEW"}, e.Members)
	assert.Contains(t, e.Origin, "IBMUSER")

	_, err = NewEntry(filepath.Join(repo, "broken.xmi"), "broken.xmi")
	assert.Error(t, err)
}

func TestIndexSearch(t *testing.T) {

	repo := writeRepo(t)
	base := filepath.Join(t.TempDir(), "index")

	ix, err := NewIndex(base, repo)
	require.NoError(t, err)
	require.NoError(t, ix.Start())

	res, err := ix.Search("review", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"cbt/file123.xmi"}, res.Paths())
	assert.Greater(t, res.Hits[0].Score, 0.0)
	assert.True(t, res.Complete)

	res, err = ix.Search("queue", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"other.xmit"}, res.Paths())

	// undecodable files are still found by name
	res, err = ix.Search("broken", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"broken.xmi"}, res.Paths())

	res, err = ix.Search("cmdlib", 1)
	require.NoError(t, err)
	assert.Len(t, res.Hits, 1)
	assert.False(t, res.Complete)
	assert.Equal(t, uint64(2), res.Total)

	var sb strings.Builder
	require.NoError(t, res.Write(&sb))
	assert.Contains(t, sb.String(), "total hits: 2, showing first 1")
	assert.True(t, strings.HasPrefix(sb.String(), "repo://"))

	n, err := ix.Count()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), n)

	_, err = ix.Search("  ", 10)
	assert.Error(t, err)

	ix.Stop()

	// reopening prunes entries of removed files
	require.NoError(t, os.Remove(filepath.Join(repo, "other.xmit")))
	ix, err = NewIndex(base, repo)
	require.NoError(t, err)
	require.NoError(t, ix.Start())
	defer ix.Stop()

	res, err = ix.Search("queue", 10)
	require.NoError(t, err)
	assert.Empty(t, res.Hits)

	res, err = ix.Search("review", 10)
	require.NoError(t, err)
	assert.Len(t, res.Hits, 1)
}
