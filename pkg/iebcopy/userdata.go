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
	"fmt"
	"strings"

	"github.com/xelalexv/xmitview/pkg/mvs"
)

// UserDataKind tells which of the user data variants a directory entry
// carries
type UserDataKind int

const (
	UserDataNone UserDataKind = iota
	UserDataISPF
	UserDataLoadModule
	UserDataUnknown
)

// user data lengths in half words
const (
	ispfStatsHalfwords  = 15
	loadModuleHalfwords = 20
)

//
func (k UserDataKind) String() string {
	switch k {
	case UserDataNone:
		return "none"
	case UserDataISPF:
		return "ispf"
	case UserDataLoadModule:
		return "lmod"
	}
	return "unknown"
}

// UserData is the optional trailing part of a directory entry. Exactly one of
// ISPF and LoadModule is set, according to Kind. Raw always holds the
// undecoded bytes, and Reason says why data was classified unknown.
type UserData struct {
	Kind       UserDataKind
	Raw        []byte
	ISPF       *ISPFStats
	LoadModule *LoadModule
	Reason     string
}

// DecodeUserData selects the decoder by the declared length in half words.
// Zero half words gives a UserData of kind none.
func DecodeUserData(halfwords int, raw []byte, alias bool) *UserData {

	ud := &UserData{Kind: UserDataUnknown, Raw: raw}

	switch halfwords {

	case 0:
		ud.Kind = UserDataNone

	case ispfStatsHalfwords:
		stats, err := decodeISPFStats(raw)
		if err != nil {
			ud.Reason = err.Error()
			break
		}
		ud.Kind = UserDataISPF
		ud.ISPF = stats

	case loadModuleHalfwords:
		lmod, err := decodeLoadModule(raw, alias)
		if err != nil {
			ud.Reason = err.Error()
			break
		}
		ud.Kind = UserDataLoadModule
		ud.LoadModule = lmod

	default:
		ud.Reason = fmt.Sprintf("halfwords=%d", halfwords)
	}

	return ud
}

// Err returns ErrUnrecognizedSubRecord with the reason attached for unknown
// user data, and nil otherwise.
func (u *UserData) Err() error {
	if u == nil || u.Kind != UserDataUnknown {
		return nil
	}
	return mvs.ErrUnrecognizedSubRecord.WithDetail("reason", u.Reason).
		WithDetail("length", len(u.Raw))
}

//
func (u *UserData) String() string {
	if u == nil {
		return ""
	}
	switch u.Kind {
	case UserDataNone:
		return ""
	case UserDataISPF:
		return u.ISPF.String()
	case UserDataLoadModule:
		return u.LoadModule.String()
	}
	return "*unknown* " + u.Reason
}

// Dump renders unknown user data for diagnosis.
func (u *UserData) Dump() string {
	return strings.Join(mvs.NewDumper(mvs.CP037, 0).Lines(u.Raw), "\n")
}
