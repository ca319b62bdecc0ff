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

package main

import (
	"os"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/xelalexv/xmitview/pkg/run"
)

//
func main() {

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warnf("cannot load .env file: %v", err)
	}

	root := &cobra.Command{
		Use:   "xmitctl",
		Short: "view MVS transmission files and the libraries they carry",
		Long: `
xmitctl decodes MVS transmission files (XMIT, as created by TSO TRANSMIT), and
the partitioned data sets unloaded by IEBCOPY they carry. Members can be
listed, shown, dumped, and exported. A repository of transmission files can
be served via HTTP, with search.`,
		SilenceUsage: true,
	}

	root.AddCommand(
		&run.NewList().Command,
		&run.NewInfo().Command,
		&run.NewCat().Command,
		&run.NewDump().Command,
		&run.NewExport().Command,
		&run.NewServe().Command,
		&run.NewSearch().Command,
		&run.NewVersion().Command,
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
