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

package control

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xelalexv/xmitview/pkg/mvs"
	"github.com/xelalexv/xmitview/pkg/repo"
	"github.com/xelalexv/xmitview/pkg/xmit/xmittest"
)

func card(s string) []byte {
	return mvs.CP273.EncodeString(s + strings.Repeat(" ", 80-len(s)))
}

func testRepo(t *testing.T) string {
	dir := t.TempDir()
	data := xmittest.Transmission("USER.TEST.PDS", []byte{0x90, 0x00}, 80,
		xmittest.CopyR1(0x90, 80, 800, 15),
		xmittest.CopyR2(xmittest.Extent{EndHead: 14, Tracks: 15}),
		xmittest.DirectoryBlock("",
			xmittest.DirectoryEntry("EMPTY", 2, 1, false, nil),
			xmittest.DirectoryEntry("HELLO", 1, 1, false, nil),
			xmittest.EndOfDirectory()),
		xmittest.MemberData(xmittest.Address{HH: 1, R: 1},
			xmittest.Block(append(card("HELLO"), card("WORLD")...))),
		xmittest.EOFRecord(),
	)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lib.xmi"), data, 0644))
	return dir
}

func testServer(t *testing.T, index *repo.Index) (http.Handler, string) {
	dir := testRepo(t)
	srv, err := NewAPIServer("", dir, index, 4)
	require.NoError(t, err)
	return srv.Handler(), dir
}

func call(h http.Handler, uri string, json bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", uri, nil)
	if json {
		req.Header.Set("Accept", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestVersion(t *testing.T) {
	h, _ := testServer(t, nil)

	rec := call(h, "/version", false)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "search:     off")

	rec = call(h, "/version", true)
	var st Status
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
	assert.False(t, st.Search)
	assert.NotEmpty(t, st.Server)
	assert.Zero(t, st.Cached)

	call(h, "/ls?file=lib.xmi", false)
	rec = call(h, "/version", false)
	assert.Contains(t, rec.Body.String(), "cached:     1")
}

func TestList(t *testing.T) {
	h, _ := testServer(t, nil)

	rec := call(h, "/ls?file=lib.xmi", false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "USER.TEST.PDS")
	assert.Contains(t, rec.Body.String(), "HELLO")
	assert.Contains(t, rec.Body.String(), "2 members")

	rec = call(h, "/ls?file=lib.xmi&digest=true", true)
	require.Equal(t, http.StatusOK, rec.Code)
	var members []*MemberInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &members))
	require.Len(t, members, 2)
	assert.Equal(t, "EMPTY", members[0].Name)
	assert.Equal(t, "empty", members[0].Type)
	assert.Equal(t, "HELLO", members[1].Name)
	assert.Equal(t, "000101", members[1].TTR)
	assert.Equal(t, "ebcdic", members[1].Type)
	assert.Equal(t, 160, members[1].Size)
	assert.True(t, strings.HasPrefix(members[1].Digest, "sha256:"))
}

func TestListErrors(t *testing.T) {
	h, _ := testServer(t, nil)
	assert.Equal(t, http.StatusBadRequest, call(h, "/ls", false).Code)
	assert.Equal(t, http.StatusUnprocessableEntity,
		call(h, "/ls?file=missing.xmi", false).Code)
	assert.Equal(t, http.StatusUnprocessableEntity,
		call(h, "/ls?file=../lib.xmi", false).Code)
}

func TestInfo(t *testing.T) {
	h, _ := testServer(t, nil)

	rec := call(h, "/info?ref=repo://lib.xmi", true)
	require.Equal(t, http.StatusOK, rec.Code)
	var info Info
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(t, "lib", info.Name)
	assert.Equal(t, "INMR01: NODE1.IBMUSER - 2024-01-15", info.Origin)
	require.Len(t, info.Datasets, 2)
	assert.Equal(t, []string{"INMCOPY"}, info.Datasets[0].Chain)
	require.NotNil(t, info.Archive)
	assert.Equal(t, 2, info.Archive.Members)
	assert.Empty(t, info.Archive.Problems)

	rec = call(h, "/info?file=lib.xmi", false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "INMR02")
	assert.Contains(t, rec.Body.String(), "Mbrdata")
}

func TestMember(t *testing.T) {
	h, _ := testServer(t, nil)

	rec := call(h, "/member?file=lib.xmi&name=HELLO", false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ebcdic", rec.Header().Get("X-Member-Type"))
	lines := strings.Split(strings.TrimRight(rec.Body.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "HELLO", strings.TrimSpace(lines[0]))
	assert.Equal(t, "WORLD", strings.TrimSpace(lines[1]))

	rec = call(h, "/member?file=lib.xmi&name=HELLO&format=raw", false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, append(card("HELLO"), card("WORLD")...), rec.Body.Bytes())

	rec = call(h, "/member?file=lib.xmi&name=HELLO&format=dump&codepage=cp037",
		false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "C8C5D3D3 D6404040"))

	assert.Equal(t, http.StatusNotFound,
		call(h, "/member?file=lib.xmi&name=NOPE", false).Code)
	assert.Equal(t, http.StatusUnprocessableEntity,
		call(h, "/member?file=lib.xmi&name=EMPTY", false).Code)
	assert.Equal(t, http.StatusBadRequest,
		call(h, "/member?file=lib.xmi", false).Code)
	assert.Equal(t, http.StatusBadRequest,
		call(h, "/member?file=lib.xmi&name=HELLO&codepage=cp999", false).Code)
	assert.Equal(t, http.StatusUnprocessableEntity,
		call(h, "/member?file=lib.xmi&name=HELLO&format=pdf", false).Code)
}

func TestSearch(t *testing.T) {

	h, _ := testServer(t, nil)
	assert.Equal(t, http.StatusServiceUnavailable,
		call(h, "/search?term=hello", false).Code)

	dir := testRepo(t)
	ix, err := repo.NewIndex(filepath.Join(t.TempDir(), "index"), dir)
	require.NoError(t, err)
	require.NoError(t, ix.Start())
	defer ix.Stop()

	srv, err := NewAPIServer("", dir, ix, 4)
	require.NoError(t, err)
	h = srv.Handler()

	rec := call(h, "/search?term=hello", false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "repo://lib.xmi")
	assert.Contains(t, rec.Body.String(), "total hits: 1")

	rec = call(h, "/search?term=hello", true)
	var res repo.SearchResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, []string{"lib.xmi"}, res.Paths())

	assert.Equal(t, http.StatusUnprocessableEntity,
		call(h, "/search?term=", false).Code)
	assert.Equal(t, http.StatusUnprocessableEntity,
		call(h, "/search?term=x&items=many", false).Code)
}
