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
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"

	"github.com/xelalexv/xmitview/pkg/repo"
)

//
func NewSearch() *Search {

	s := &Search{}
	s.Runner = *NewRunner(
		`search [-a|--address {address}] -t|--term {search term} [-n|--items {max results}]
      [-j|--json]`,
		"search for transmission files in the server's repository",
		`
Use the search command to find transmission files in the API server's
repository, if indexing is enabled there. The search covers file names, data
set names, origin, and member names. Hits are listed as references, for use
with the --ref option of other commands.`,
		"", runnerHelpEpilogue, s.Run)

	s.AddBaseSettings()
	s.AddAddressSetting()
	s.AddSetting(&s.Term, "term", "t", "", nil,
		"search term, in bleve query string syntax", true)
	s.AddSetting(&s.Items, "items", "n", "", 100,
		"max number of hits to return", false)
	s.AddSetting(&s.JSON, "json", "j", "", false, "output raw JSON result", false)

	return s
}

//
type Search struct {
	Runner
	//
	Term  string
	Items int
	JSON  bool
}

//
func (s *Search) Run() error {

	if err := s.ParseSettings(); err != nil {
		return err
	}

	resp, err := s.apiCall("GET",
		fmt.Sprintf("/search?items=%d&term=%s", s.Items, url.QueryEscape(s.Term)),
		true, nil)
	if err != nil {
		return err
	}
	defer resp.Close()

	if s.JSON {
		_, err := io.Copy(os.Stdout, resp)
		return err
	}

	var res repo.SearchResult
	if err := json.NewDecoder(resp).Decode(&res); err != nil {
		return err
	}

	fmt.Println()
	if err := res.Write(os.Stdout); err != nil {
		return err
	}
	fmt.Println()

	return nil
}
