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
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/xelalexv/xmitview/pkg/control"
	"github.com/xelalexv/xmitview/pkg/repo"
)

//
func NewServe() *Serve {

	s := &Serve{}
	s.Runner = *NewRunner(
		`serve [-a|--address {listen address}] -r|--repo {directory}
      [-x|--index {directory}] [--cache {size}]`,
		"serve a repository of transmission files via HTTP",
		`
Use the serve command to start the API server. It serves the transmission
files in the repository directory. If an index directory is given, the
repository is indexed for search, and watched for changes.`,
		"", runnerHelpEpilogue, s.Run)

	s.AddBaseSettings()
	s.AddSetting(&s.Address, "address", "a", "", control.DefaultAddress,
		"listen address", false)
	s.AddSetting(&s.Repo, "repo", "r", "", nil, "repository directory", true)
	s.AddSetting(&s.Index, "index", "x", "", nil, "search index directory", false)
	s.AddSetting(&s.Cache, "cache", "", "", 32,
		"number of decoded files to keep in memory", false)

	return s
}

//
type Serve struct {
	Runner
	//
	Repo  string
	Index string
	Cache int
}

//
func (s *Serve) Run() error {

	if err := s.ParseSettings(); err != nil {
		return err
	}

	var index *repo.Index
	if s.Index != "" {
		var err error
		if index, err = repo.NewIndex(s.Index, s.Repo); err != nil {
			return err
		}
		defer index.Stop()
		go func() {
			if err := index.Start(); err != nil {
				log.Errorf("search index not available: %v", err)
			}
		}()
	}

	srv, err := control.NewAPIServer(s.Address, s.Repo, index, s.Cache)
	if err != nil {
		return err
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		log.Infof("received %v, shutting down", <-sig)
		if err := srv.Stop(); err != nil {
			log.Errorf("error stopping API server: %v", err)
		}
	}()

	return srv.Serve()
}
