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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xelalexv/xmitview/pkg/mvs"
	"github.com/xelalexv/xmitview/pkg/xmit/xmittest"
)

func TestControlRecordFileNumber(t *testing.T) {

	data := xmittest.ControlRecord("INMR02", 3,
		xmittest.TextUnitString(xmittest.KeyUTILN, "IEBCOPY"),
		xmittest.TextUnit(xmittest.KeyLRECL, xmittest.Uint16(80)))

	cr, err := NewControlRecord(&Record{Data: data, Control: true})
	require.NoError(t, err)
	assert.Equal(t, KindDataset, cr.Kind)
	assert.Equal(t, 3, cr.File)
	require.Len(t, cr.Attributes, 2)
	assert.Equal(t, "IEBCOPY", cr.Text("UTILN", "?"))
	assert.Equal(t, 80, cr.Int("LRECL", 0))
	assert.Equal(t, 7, cr.Int("BLKSZ", 7))
	assert.Equal(t, "INMR02(3) UTILN=IEBCOPY LRECL=80", cr.String())
}

func TestControlRecordWithoutFileNumber(t *testing.T) {

	data := xmittest.ControlRecord("INMR01", 0,
		xmittest.TextUnitString(xmittest.KeyFNODE, "NODE1"))

	cr, err := NewControlRecord(&Record{Data: data})
	require.NoError(t, err)
	assert.Equal(t, KindHeader, cr.Kind)
	assert.Equal(t, 0, cr.File)
	a, ok := cr.Attribute("FNODE")
	require.True(t, ok)
	assert.Equal(t, "NODE1", a.String())
	_, ok = cr.Attribute("FUID")
	assert.False(t, ok)
}

func TestControlRecordUnknownKey(t *testing.T) {

	data := xmittest.ControlRecord("INMR02", 1,
		xmittest.TextUnit(0x7777, []byte{0x01}))

	_, err := NewControlRecord(&Record{Data: data, Offset: 99})
	require.Error(t, err)
	assert.True(t, errors.Is(err, mvs.ErrUnknownAttributeKey))

	var de *mvs.DecodeError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, 10, de.Details["position"])
	assert.Equal(t, int64(99), de.Details["offset"])
	assert.Equal(t, "INMR02", de.Details["record"])
}

func TestControlRecordTooShort(t *testing.T) {
	_, err := NewControlRecord(&Record{Data: xmittest.EBCDIC("INMR")})
	assert.True(t, errors.Is(err, mvs.ErrTruncated))

	_, err = NewControlRecord(&Record{Data: xmittest.EBCDIC("INMR02")})
	assert.True(t, errors.Is(err, mvs.ErrTruncated))
}
