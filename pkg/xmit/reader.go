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
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/sevenzip"
	"github.com/klauspost/compress/gzip"

	log "github.com/sirupsen/logrus"
)

// OpenFile opens a transmission file from disk. Files compressed with gzip,
// zip, or 7-zip are unpacked on the fly, using the first archive entry.
func OpenFile(path string) (*Container, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return OpenSource(f, path)
}

// OpenSource reads a transmission from src and closes it. The compressor is
// derived from the extension of file, which also names the container.
func OpenSource(src io.ReadCloser, file string) (*Container, error) {

	name, _, compressor := SplitNameTypeCompressor(file)

	sr, err := NewSourceReader(src, compressor)
	if err != nil {
		src.Close()
		return nil, err
	}
	defer sr.Close()

	if sr.Name() != "" {
		name = sr.Name()
	}

	var rs io.ReadSeeker
	if f, ok := src.(*os.File); ok && compressor == "" {
		rs = f
	} else {
		var sponge bytes.Buffer
		if _, err := io.Copy(&sponge, sr); err != nil {
			return nil, err
		}
		rs = bytes.NewReader(sponge.Bytes())
	}

	c, err := Open(rs)
	if err != nil {
		return nil, err
	}

	c.Name = name
	return c, nil
}

// NewSourceReader returns a reader for the content of r, unpacking it with
// the given compressor. The empty compressor passes r through.
func NewSourceReader(r io.ReadCloser, compressor string) (*SourceReader, error) {

	log.WithField("compressor", compressor).Debug("source reader requested")

	var ret *SourceReader
	var err error

	switch compressor {

	case "gzip", "gz":
		ret, err = getGZipReader(r)

	case "zip":
		ret, err = getZipReader(r, false)

	case "7z":
		ret, err = getZipReader(r, true)

	case "":
		ret = &SourceReader{readCloser: r}

	default:
		err = fmt.Errorf("unsupported compressor: '%s'", compressor)
	}

	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"compressor": ret.compressor,
		"name":       ret.name,
		"type":       ret.typ}).Debug("source reader created")

	return ret, nil
}

// SourceReader reads the possibly compressed content of a transmission file.
type SourceReader struct {
	readCloser io.ReadCloser
	//
	name       string
	typ        string
	compressor string
}

//
func (r *SourceReader) Read(p []byte) (n int, err error) {
	return r.readCloser.Read(p)
}

//
func (r *SourceReader) Close() error {
	return r.readCloser.Close()
}

// Name of the packed file, if the compressor keeps one
func (r *SourceReader) Name() string {
	return r.name
}

//
func (r *SourceReader) Type() string {
	return r.typ
}

//
func (r *SourceReader) Compressor() string {
	return r.compressor
}

//
func getGZipReader(r io.ReadCloser) (*SourceReader, error) {

	gzr, err := gzip.NewReader(r)
	if err != nil {
		return nil, err
	}

	ret := &SourceReader{
		readCloser: &gzipCloser{Reader: gzr, src: r},
		compressor: "gzip",
	}
	ret.name, ret.typ, _ = SplitNameTypeCompressor(gzr.Name)

	return ret, nil
}

// gzipCloser closes both the gzip reader and its source
type gzipCloser struct {
	*gzip.Reader
	src io.Closer
}

//
func (g *gzipCloser) Close() error {
	err := g.Reader.Close()
	if e := g.src.Close(); err == nil {
		err = e
	}
	return err
}

//
func getZipReader(r io.ReadCloser, zip7 bool) (*SourceReader, error) {

	var sponge bytes.Buffer
	size, err := io.Copy(&sponge, r)
	if err != nil {
		return nil, err
	}
	r.Close()

	ret := &SourceReader{}
	var entry string

	if zip7 {
		zr, err := sevenzip.NewReader(bytes.NewReader(sponge.Bytes()), size)
		if err != nil {
			return nil, err
		}
		if len(zr.File) == 0 {
			return nil, fmt.Errorf("empty 7-zip archive")
		}
		if len(zr.File) > 1 {
			log.Warn("7-zip archive has more than one entry, using first")
		}
		entry = zr.File[0].Name
		ret.compressor = "7z"
		ret.readCloser, err = zr.File[0].Open()
		if err != nil {
			return nil, err
		}

	} else {
		zr, err := zip.NewReader(bytes.NewReader(sponge.Bytes()), size)
		if err != nil {
			return nil, err
		}
		if len(zr.File) == 0 {
			return nil, fmt.Errorf("empty zip archive")
		}
		if len(zr.File) > 1 {
			log.Warn("zip archive has more than one entry, using first")
		}
		entry = zr.File[0].Name
		ret.compressor = "zip"
		ret.readCloser, err = zr.File[0].Open()
		if err != nil {
			return nil, err
		}
	}

	ret.name, ret.typ, _ = SplitNameTypeCompressor(entry)
	return ret, nil
}

// IsTransmissionFile reports whether a file name looks like a possibly
// compressed transmission file.
func IsTransmissionFile(file string) bool {
	_, typ, _ := SplitNameTypeCompressor(file)
	return typ != ""
}

// SplitNameTypeCompressor splits a file name into base name, transmission
// type extension, and compressor extension. Unknown extensions stay part of
// the name.
func SplitNameTypeCompressor(file string) (name, typ, compressor string) {

	_, n := filepath.Split(file)

	for {
		ext := filepath.Ext(n)
		if ext == "" {
			name = n
			break
		}

		lower := strings.ToLower(strings.TrimPrefix(ext, "."))

		switch lower {

		case "xmi", "xmit", "xmt":
			if typ != "" {
				return n, typ, compressor
			}
			typ = lower

		case "gz", "gzip", "zip", "7z":
			if compressor != "" || typ != "" {
				return n, typ, compressor
			}
			compressor = lower

		default:
			return n, typ, compressor
		}

		n = strings.TrimSuffix(n, ext)
	}

	return name, typ, compressor
}
