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
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"golang.org/x/text/encoding"

	"github.com/xelalexv/xmitview/pkg/mvs"
)

// ExportResult tells what an export did.
type ExportResult struct {
	Files   []string
	Empty   []string
	Damaged []string
	Written int64
}

// ExportFunc is called after each member has been handled. file is empty for
// skipped members.
type ExportFunc func(m *MemberEntry, file string)

// Export writes every member to its own file in dir. EBCDIC text members are
// decoded with enc and written one record per line, all others are written
// as concatenated raw records. The file extension follows the guessed type.
// Empty members are skipped, and members whose data is damaged are skipped
// with a warning. Only file system errors end the export.
func (a *Archive) Export(dir string, enc encoding.Encoding,
	progress ExportFunc) (*ExportResult, error) {

	if enc == nil {
		enc = mvs.CP273
	}

	res := &ExportResult{}

	for _, m := range a.members {

		p, err := a.MemberPayload(m.Name)
		if errors.Is(err, mvs.ErrEmptyMember) {
			log.WithField("member", m.TrimmedName()).Debug("skipping empty member")
			res.Empty = append(res.Empty, m.Name)
			if progress != nil {
				progress(m, "")
			}
			continue
		}
		if err != nil {
			res.damaged(m, err, progress)
			continue
		}

		file := filepath.Join(dir,
			fmt.Sprintf("%s.%s", m.TrimmedName(), p.Datatype.Extension()))

		n, err := writeMember(file, p, enc)
		if mvs.IsDecodeError(err) {
			os.Remove(file)
			res.damaged(m, err, progress)
			continue
		}
		if err != nil {
			return res, fmt.Errorf("exporting member %s: %v", m.TrimmedName(), err)
		}

		log.WithFields(log.Fields{
			"member": m.TrimmedName(),
			"type":   p.Datatype,
			"file":   file,
			"bytes":  n,
		}).Debug("member exported")

		res.Files = append(res.Files, file)
		res.Written += n
		if progress != nil {
			progress(m, file)
		}
	}

	return res, nil
}

//
func (r *ExportResult) damaged(m *MemberEntry, err error, progress ExportFunc) {
	log.WithFields(log.Fields{
		"member": m.TrimmedName(),
		"error":  err,
	}).Warn("skipping damaged member")
	r.Damaged = append(r.Damaged, m.Name)
	if progress != nil {
		progress(m, "")
	}
}

//
func writeMember(file string, p *MemberPayload, enc encoding.Encoding) (int64, error) {

	f, err := os.Create(file)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	var n int64
	if p.Datatype == TypeEBCDIC {
		n, err = p.WriteRecords(w, enc, "\n")
	} else {
		n, err = p.WriteRecords(w, nil, "")
	}
	if err != nil {
		return n, err
	}

	if err := w.Flush(); err != nil {
		return n, err
	}
	return n, f.Close()
}
