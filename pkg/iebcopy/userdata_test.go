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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xelalexv/xmitview/pkg/mvs"
)

func ispfStats() []byte {
	b := []byte{
		0x01, 0x02, 0x00, 0x30, // version, modification, flags, seconds
		0x01, 0x24, 0x01, 0x5f, // created 2024.015
		0x01, 0x24, 0x03, 0x2f, // changed 2024.032
		0x14, 0x35, // 14:35
		0x00, 0x04, 0x00, 0x03, 0x00, 0x01, // lines, initial, modified
	}
	return append(b, mvs.CP273.EncodeString("IBMUSER  ")[:8]...)[:28:28]
}

func paddedISPF() []byte {
	return append(ispfStats(), 0x00, 0x00)
}

func TestISPFStats(t *testing.T) {
	ud := DecodeUserData(15, paddedISPF(), false)
	require.Equal(t, UserDataISPF, ud.Kind)
	require.NoError(t, ud.Err())

	s := ud.ISPF
	assert.Equal(t, "01.02", s.VersionModification())
	assert.Equal(t, time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC),
		s.Created)
	assert.Equal(t, time.Date(2024, time.February, 1, 14, 35, 30, 0, time.UTC),
		s.Changed)
	assert.Equal(t, 4, s.Lines)
	assert.Equal(t, 3, s.InitialLines)
	assert.Equal(t, 1, s.ModifiedLines)
	assert.Equal(t, "IBMUSER", s.UserID)
	assert.Equal(t, "2024-02-01     4 IBMUSER", ud.String())
}

func TestISPFStatsTwentiethCentury(t *testing.T) {
	b := paddedISPF()
	copy(b[4:8], []byte{0x00, 0x99, 0x36, 0x5f})
	ud := DecodeUserData(15, b, false)
	require.Equal(t, UserDataISPF, ud.Kind)
	assert.Equal(t, time.Date(1999, time.December, 31, 0, 0, 0, 0, time.UTC),
		ud.ISPF.Created)
}

func TestISPFStatsInvalidDate(t *testing.T) {
	b := paddedISPF()
	copy(b[8:12], []byte{0x01, 0x23, 0x36, 0x6f}) // day 366 in 2023
	ud := DecodeUserData(15, b, false)
	assert.Equal(t, UserDataUnknown, ud.Kind)
	assert.Equal(t, b, ud.Raw)
	assert.True(t, errors.Is(ud.Err(), mvs.ErrUnrecognizedSubRecord))

	b = paddedISPF()
	b[12] = 0x1a
	assert.Equal(t, UserDataUnknown, DecodeUserData(15, b, false).Kind)
}

func TestUserDataSelection(t *testing.T) {
	ud := DecodeUserData(0, nil, false)
	assert.Equal(t, UserDataNone, ud.Kind)
	assert.NoError(t, ud.Err())
	assert.Equal(t, "", ud.String())

	raw := make([]byte, 6)
	ud = DecodeUserData(3, raw, false)
	assert.Equal(t, UserDataUnknown, ud.Kind)
	assert.Equal(t, "halfwords=3", ud.Reason)
	assert.Equal(t, raw, ud.Raw)
	assert.Equal(t, "*unknown* halfwords=3", ud.String())
	assert.NotEmpty(t, ud.Dump())

	ud = DecodeUserData(15, make([]byte, 28), false)
	assert.Equal(t, UserDataUnknown, ud.Kind)
	assert.Equal(t, "len=28", ud.Reason)
}

func loadModuleData() []byte {
	b := make([]byte, 40)
	b[8] = Atr1Reentrant | Atr1Reusable | Atr1Executable
	b[10], b[11], b[12] = 0x00, 0x10, 0x00 // storage
	b[15], b[16], b[17] = 0x00, 0x00, 0x20 // entry point
	b[19] = 0x13                           // RMODE ANY, AMODE ANY
	return b
}

func TestLoadModule(t *testing.T) {
	b := loadModuleData()
	b[18] = ftb1APF
	b[22] = 0x01 // auth code

	ud := DecodeUserData(20, b, false)
	require.Equal(t, UserDataLoadModule, ud.Kind)
	lm := ud.LoadModule
	assert.Equal(t, uint32(0x1000), lm.Storage)
	assert.Equal(t, uint32(0x20), lm.EntryPoint)
	assert.Equal(t, 1, lm.AuthCode)
	assert.Equal(t, "ANY", lm.AMode())
	assert.Equal(t, "ANY", lm.RMode())
	assert.Equal(t, []string{"RENT", "REUS", "EXEC"}, lm.Attributes())
	assert.Equal(t, "         00001000 01 ANY ANY RN RU --", lm.String())
}

func TestLoadModuleAliasAfterScatter(t *testing.T) {
	b := loadModuleData()
	b[8] = Atr1Scatter
	b[19] = 0x02
	copy(b[32:40], mvs.CP037.EncodeString("BASEMOD "))

	ud := DecodeUserData(20, b, true)
	require.Equal(t, UserDataLoadModule, ud.Kind)
	assert.Equal(t, "BASEMOD ", ud.LoadModule.BaseName)
	assert.Equal(t, -1, ud.LoadModule.AuthCode)
	assert.Equal(t, "31", ud.LoadModule.AMode())
	assert.Equal(t, "24", ud.LoadModule.RMode())
	assert.Equal(t, "BASEMOD  00000000 -- 31  24  -- -- NX",
		ud.LoadModule.String())
}

func TestLoadModuleSSIAlignment(t *testing.T) {
	b := loadModuleData()
	b[18] = ftb1SSI | ftb1APF
	copy(b[22:26], []byte{0x01, 0x02, 0x03, 0x04})
	b[27] = 0x05

	ud := DecodeUserData(20, b, false)
	require.Equal(t, UserDataLoadModule, ud.Kind)
	assert.Equal(t, []byte{0x01, 0x02, 0x03, 0x04}, ud.LoadModule.SSI)
	assert.Equal(t, 5, ud.LoadModule.AuthCode)
}

func TestLoadModuleTooShort(t *testing.T) {
	b := loadModuleData()
	b[8] = Atr1Scatter
	ud := DecodeUserData(20, b[:30], true)
	assert.Equal(t, UserDataUnknown, ud.Kind)
	assert.Contains(t, ud.Reason, "alias")
}
