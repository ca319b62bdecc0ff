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
	"fmt"

	"github.com/xelalexv/xmitview/pkg/mvs"
)

// Dataset is a data set announced by an INMR02 control record, together
// with the data records that belong to it.
type Dataset struct {
	Name    string
	Utility string
	File    int
	DCB     mvs.DCB
	Size    int
	// utilities of further INMR02 records for the same file, in order
	Chain   []string
	Records [][]byte
}

// NewDataset takes the data set attributes from an INMR02 record. Missing
// attributes get placeholder values.
func NewDataset(cr *ControlRecord) *Dataset {

	dcb := mvs.UnknownDCB()
	if a, ok := cr.Attribute("RECFM"); ok && len(a.Values) > 0 {
		dcb.RecFm = mvs.RecordFormat(a.Values[0].Text)
	}
	dcb.LRecL = cr.Int("LRECL", 0)
	dcb.BlkSize = cr.Int("BLKSZ", 0)
	dcb.DSOrg = cr.Text("DSORG", mvs.Unknown)

	return &Dataset{
		Name:    cr.Text("DSNAM", mvs.Unknown),
		Utility: cr.Text("UTILN", mvs.Unknown),
		File:    cr.File,
		Size:    cr.Int("SIZE", 0),
		DCB:     dcb,
	}
}

// Bytes returns the total payload size of all records.
func (d *Dataset) Bytes() int {
	n := 0
	for _, r := range d.Records {
		n += len(r)
	}
	return n
}

//
func (d *Dataset) String() string {
	return fmt.Sprintf("%s %s (%s) file %d, %d records",
		d.Name, d.Utility, d.DCB, d.File, len(d.Records))
}
