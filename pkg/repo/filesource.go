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
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// NewFileSource opens file within the repository directory repo. Paths that
// would leave the repository are refused.
func NewFileSource(repo, file string) (*FileSource, error) {

	path, err := SafeJoin(repo, file)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	return &FileSource{file: f, reader: bufio.NewReader(f), name: path}, nil
}

// FileSource reads a transmission file from the repository.
type FileSource struct {
	file   *os.File
	reader io.Reader
	name   string
}

//
func (fs *FileSource) Read(p []byte) (n int, err error) {
	return fs.reader.Read(p)
}

//
func (fs *FileSource) Close() error {
	return fs.file.Close()
}

//
func (fs *FileSource) Name() string {
	return fs.name
}

// SafeJoin joins file to the repository directory repo, and makes sure the
// result stays inside of repo.
func SafeJoin(repo, file string) (string, error) {

	if repo == "" {
		return "", fmt.Errorf("no repository configured")
	}

	base, err := filepath.Abs(repo)
	if err != nil {
		return "", err
	}

	path := filepath.Join(base, filepath.FromSlash(file))
	rel, err := filepath.Rel(base, path)
	if err != nil || rel == "." || rel == ".." ||
		strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid repository path: '%s'", file)
	}

	return path, nil
}
