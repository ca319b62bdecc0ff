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
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitNameTypeCompressor(t *testing.T) {

	tests := []struct {
		file       string
		name       string
		typ        string
		compressor string
	}{
		{"CBT123.XMI", "CBT123", "xmi", ""},
		{"/tmp/files/cbt123.xmit.gz", "cbt123", "xmit", "gz"},
		{"lib.xmt.zip", "lib", "xmt", "zip"},
		{"lib.xmi.7z", "lib", "xmi", "7z"},
		{"readme.txt", "readme.txt", "", ""},
		{"archive.zip", "archive", "", "zip"},
		{"a.xmi.xmi", "a.xmi", "xmi", ""},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			name, typ, compressor := SplitNameTypeCompressor(tt.file)
			assert.Equal(t, tt.name, name)
			assert.Equal(t, tt.typ, typ)
			assert.Equal(t, tt.compressor, compressor)
		})
	}

	assert.True(t, IsTransmissionFile("x.xmi.gz"))
	assert.False(t, IsTransmissionFile("x.gz"))
}

func TestOpenFilePlain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "HELLO.XMI")
	require.NoError(t, os.WriteFile(path, testTransmission(), 0644))

	c, err := OpenFile(path)
	require.NoError(t, err)
	assert.Equal(t, "HELLO", c.Name)
	require.NotEmpty(t, c.Datasets)
	assert.Equal(t, "USER.TEST.PDS", c.Datasets[0].Name)
}

func TestOpenFileGZip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hello.xmi.gz")
	f, err := os.Create(path)
	require.NoError(t, err)
	gw := gzip.NewWriter(f)
	gw.Name = "packed.xmi"
	_, err = gw.Write(testTransmission())
	require.NoError(t, err)
	require.NoError(t, gw.Close())
	require.NoError(t, f.Close())

	c, err := OpenFile(path)
	require.NoError(t, err)
	assert.Equal(t, "packed", c.Name)
	a, err := c.FindEmbeddedArchive()
	require.NoError(t, err)
	assert.Len(t, a.Members(), 1)
}

func TestOpenFileZip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hello.zip")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	w, err := zw.Create("inner.xmit")
	require.NoError(t, err)
	_, err = w.Write(testTransmission())
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	c, err := OpenFile(path)
	require.NoError(t, err)
	assert.Equal(t, "inner", c.Name)
	assert.Len(t, c.Datasets, 2)
}

func TestOpenFileNotTransmission(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junk.xmi")
	require.NoError(t, os.WriteFile(path, []byte("not a transmission"), 0644))
	_, err := OpenFile(path)
	assert.Error(t, err)

	_, err = OpenFile(filepath.Join(t.TempDir(), "missing.xmi"))
	assert.Error(t, err)
}
