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

package util

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirWatcher(t *testing.T) {

	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.Mkdir(sub, 0755))

	dw, err := NewDirWatcher(dir, func(p string) bool {
		return strings.HasSuffix(p, ".xmi")
	})
	require.NoError(t, err)

	events := make(chan string, 16)
	flushed := make(chan struct{}, 16)

	require.NoError(t, dw.Start(50*time.Millisecond,
		func(evt fsnotify.Event) error {
			if evt.Op&fsnotify.Create != 0 {
				events <- filepath.Base(evt.Name)
			}
			return nil
		},
		func() error {
			flushed <- struct{}{}
			return nil
		}))
	defer dw.Stop()

	assert.Error(t, dw.Start(time.Second, nil, nil))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "skip.txt"), nil, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "lib.xmi"), nil, 0644))

	select {
	case name := <-events:
		assert.Equal(t, "lib.xmi", name)
	case <-time.After(5 * time.Second):
		t.Fatal("no event for new transmission file")
	}

	select {
	case <-flushed:
	case <-time.After(5 * time.Second):
		t.Fatal("no flush after back-off")
	}
}

func TestDirWatcherStop(t *testing.T) {
	dw, err := NewDirWatcher(t.TempDir(), nil)
	require.NoError(t, err)
	dw.Stop()
	dw.Stop()
	assert.Error(t, dw.Start(time.Second, nil, nil))
}

func TestDirWatcherMissingDir(t *testing.T) {
	_, err := NewDirWatcher(filepath.Join(t.TempDir(), "nope"), nil)
	assert.Error(t, err)
}
