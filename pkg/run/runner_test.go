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

package run

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xelalexv/xmitview/pkg/mvs"
)

func TestRequiredSettingMissing(t *testing.T) {
	s := NewSearch()
	err := s.ParseSettings()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "term")
}

func TestSettingFromEnvironment(t *testing.T) {
	t.Setenv("XMITVIEW_TERM", "review")
	t.Setenv("XMITVIEW_ADDRESS", "example.org:9999")

	s := NewSearch()
	require.NoError(t, s.ParseSettings())
	assert.Equal(t, "review", s.Term)
	assert.Equal(t, "example.org:9999", s.Address)
	assert.Equal(t, 100, s.Items)
	assert.True(t, s.IsSet("term"))
	assert.False(t, s.IsSet("items"))
}

func TestSettingFromFlag(t *testing.T) {
	t.Setenv("XMITVIEW_TERM", "review")

	s := NewSearch()
	require.NoError(t, s.Flags().Set("term", "queue"))
	require.NoError(t, s.Flags().Set("items", "5"))
	require.NoError(t, s.ParseSettings())
	assert.Equal(t, "queue", s.Term)
	assert.Equal(t, 5, s.Items)
	assert.Equal(t, "localhost:8888", s.Address)
}

func TestInvalidLogLevel(t *testing.T) {
	v := NewVersion()
	require.NoError(t, v.Flags().Set("log-level", "chatty"))
	assert.Error(t, v.ParseSettings())
}

func TestValidateSource(t *testing.T) {
	assert.Error(t, validateSource("", ""))
	assert.Error(t, validateSource("a.xmi", "repo://a.xmi"))
	assert.NoError(t, validateSource("a.xmi", ""))
	assert.NoError(t, validateSource("", "repo://a.xmi"))
}

func TestCodepageSetting(t *testing.T) {
	cp, err := codepage("")
	require.NoError(t, err)
	assert.Equal(t, mvs.CP273, cp)

	cp, err = codepage("IBM037")
	require.NoError(t, err)
	assert.Equal(t, mvs.CP037, cp)

	_, err = codepage("cp500")
	assert.Error(t, err)
}

func TestAPICall(t *testing.T) {

	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/version" {
				http.Error(w, "no such thing", http.StatusNotFound)
				return
			}
			if r.Header.Get("Accept") == "application/json" {
				io.WriteString(w, `{"server":"test"}`)
				return
			}
			io.WriteString(w, "server:     test\n")
		}))
	defer srv.Close()

	r := NewRunner("test", "", "", "", "", nil)
	r.Address = strings.TrimPrefix(srv.URL, "http://")

	body, err := r.apiCall("GET", "/version", false, nil)
	require.NoError(t, err)
	b, err := io.ReadAll(body)
	body.Close()
	require.NoError(t, err)
	assert.Equal(t, "server:     test\n", string(b))

	body, err = r.apiCall("GET", "/version", true, nil)
	require.NoError(t, err)
	b, _ = io.ReadAll(body)
	body.Close()
	assert.Equal(t, `{"server":"test"}`, string(b))

	_, err = r.apiCall("GET", "/nothing", false, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
	assert.Contains(t, err.Error(), "no such thing")
}
