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

func TestDecodeAttribute(t *testing.T) {

	tests := []struct {
		name  string
		unit  []byte
		field string
		text  string
		kind  ValueKind
	}{
		{
			name:  "record format",
			unit:  xmittest.TextUnit(xmittest.KeyRECFM, []byte{0x80, 0x00}),
			field: "RECFM",
			text:  "F",
			kind:  ValueRecFm,
		},
		{
			name:  "blocked variable",
			unit:  xmittest.TextUnit(xmittest.KeyRECFM, []byte{0x50, 0x02}),
			field: "RECFM",
			text:  "VB",
			kind:  ValueRecFm,
		},
		{
			name:  "data set name",
			unit:  xmittest.TextUnitString(xmittest.KeyDSNAM, "USER", "TEST", "PDS"),
			field: "DSNAM",
			text:  "USER.TEST.PDS",
			kind:  ValueText,
		},
		{
			name:  "partitioned",
			unit:  xmittest.TextUnit(xmittest.KeyDSORG, xmittest.Uint16(0x0200)),
			field: "DSORG",
			text:  "PO",
			kind:  ValueDSOrg,
		},
		{
			name:  "record length",
			unit:  xmittest.TextUnit(xmittest.KeyLRECL, xmittest.Uint16(80)),
			field: "LRECL",
			text:  "80",
			kind:  ValueInt,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// trailing bytes belong to the next text unit
			b := append(append([]byte{}, tt.unit...), 0xde, 0xad)
			attr, n, err := DecodeAttribute(b)
			require.NoError(t, err)
			assert.Equal(t, len(tt.unit), n)
			assert.Equal(t, tt.field, attr.Field)
			assert.Equal(t, tt.text, attr.String())
			assert.Equal(t, tt.kind, attr.Values[0].Kind)
		})
	}
}

func TestDecodeAttributeInt(t *testing.T) {
	attr, _, err := DecodeAttribute(
		xmittest.TextUnit(xmittest.KeySIZE, []byte{0x01, 0x00, 0x00}))
	require.NoError(t, err)
	assert.Equal(t, 65536, attr.Int())

	attr, _, err = DecodeAttribute(xmittest.TextUnit(xmittest.KeySIZE))
	require.NoError(t, err)
	assert.Empty(t, attr.Values)
	assert.Equal(t, 0, attr.Int())
}

func TestDecodeAttributeErrors(t *testing.T) {

	_, _, err := DecodeAttribute(xmittest.TextUnit(0x7777, []byte{0x01}))
	assert.True(t, errors.Is(err, mvs.ErrUnknownAttributeKey))
	assert.Equal(t, "UNKNOWN_ATTRIBUTE_KEY", mvs.ErrorCode(err))

	_, _, err = DecodeAttribute([]byte{0x00, 0x49})
	assert.True(t, errors.Is(err, mvs.ErrTruncated))

	unit := xmittest.TextUnitString(xmittest.KeyDSNAM, "USER")
	_, _, err = DecodeAttribute(unit[:len(unit)-1])
	assert.True(t, errors.Is(err, mvs.ErrTruncated))
}
