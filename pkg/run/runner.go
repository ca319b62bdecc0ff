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
	"bufio"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/xelalexv/xmitview/pkg/iebcopy"
	"github.com/xelalexv/xmitview/pkg/mvs"
	"github.com/xelalexv/xmitview/pkg/xmit"
)

const envPrefix = "XMITVIEW"

const runnerHelpEpilogue = `- Settings can also be given as environment variables, by prefixing the
  upper case setting name with XMITVIEW_ and replacing dashes with
  underscores, e.g. XMITVIEW_LOG_LEVEL. A .env file in the working
  directory is read as well.

`

var apiClient = &http.Client{Timeout: 60 * time.Second}

//
type setting struct {
	name string
	ref  interface{}
}

// Runner is the base of all commands. It ties command line flags and
// environment variables together via viper.
type Runner struct {
	cobra.Command
	//
	Address  string
	LogLevel string
	//
	viper    *viper.Viper
	settings []*setting
}

// NewRunner creates a runner that calls exec when the command is run. The
// help text is assembled from long, helpIntro, and helpEpilogue.
func NewRunner(use, short, long, helpIntro, helpEpilogue string,
	exec func() error) *Runner {

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	r := &Runner{viper: v}
	r.Command = cobra.Command{
		Use:                   use,
		Short:                 short,
		Long:                  long,
		DisableFlagsInUseLine: true,
		SilenceUsage:          true,
		Args:                  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return exec()
		},
	}

	if helpIntro != "" || helpEpilogue != "" {
		r.Command.SetHelpTemplate(helpIntro + r.Command.HelpTemplate() +
			"\nNotes:\n" + helpEpilogue)
	}

	return r
}

// AddBaseSettings adds the settings every command has.
func (r *Runner) AddBaseSettings() {
	r.AddSetting(&r.LogLevel, "log-level", "", "", "warn",
		"log level: trace, debug, info, warn, error", false)
}

// AddAddressSetting adds the API address setting, for commands talking to
// an API server.
func (r *Runner) AddAddressSetting() {
	r.AddSetting(&r.Address, "address", "a", "", "localhost:8888",
		"API server address", false)
}

// AddSetting adds a setting backed by ref, which needs to be a pointer to a
// string, int, or bool. The environment variable defaults to the upper case
// name prefixed with XMITVIEW_.
func (r *Runner) AddSetting(ref interface{}, name, short, env string,
	dflt interface{}, usage string, required bool) {

	fs := r.Flags()

	switch p := ref.(type) {
	case *string:
		d, _ := dflt.(string)
		fs.StringVarP(p, name, short, d, usage)
	case *int:
		d, _ := dflt.(int)
		fs.IntVarP(p, name, short, d, usage)
	case *bool:
		d, _ := dflt.(bool)
		fs.BoolVarP(p, name, short, d, usage)
	default:
		panic(fmt.Sprintf("unsupported setting type for %s: %T", name, ref))
	}

	if err := r.viper.BindPFlag(name, fs.Lookup(name)); err != nil {
		panic(err)
	}
	if env != "" {
		if err := r.viper.BindEnv(name, env); err != nil {
			panic(err)
		}
	}
	if required {
		// an environment variable may satisfy a required setting, so this
		// is checked when parsing
		fs.SetAnnotation(name, "xmitview_required", []string{"true"})
	}

	r.settings = append(r.settings, &setting{name: name, ref: ref})
}

// ParseSettings copies the effective value of every setting into its
// backing field, and configures logging.
func (r *Runner) ParseSettings() error {

	for _, s := range r.settings {
		switch p := s.ref.(type) {
		case *string:
			*p = r.viper.GetString(s.name)
		case *int:
			*p = r.viper.GetInt(s.name)
		case *bool:
			*p = r.viper.GetBool(s.name)
		}
	}

	var missing []string
	r.Flags().VisitAll(func(f *pflag.Flag) {
		if _, ok := f.Annotations["xmitview_required"]; ok &&
			!r.viper.IsSet(f.Name) {
			missing = append(missing, f.Name)
		}
	})
	if len(missing) > 0 {
		return fmt.Errorf("required settings missing: %s",
			strings.Join(missing, ", "))
	}

	if r.LogLevel != "" {
		level, err := log.ParseLevel(r.LogLevel)
		if err != nil {
			return err
		}
		log.SetLevel(level)
	}
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	return nil
}

// IsSet tells whether a setting was given explicitly, either as a flag or
// via the environment.
func (r *Runner) IsSet(name string) bool {
	if r.Flags().Changed(name) {
		return true
	}
	_, ok := os.LookupEnv(envPrefix + "_" +
		strings.ToUpper(strings.ReplaceAll(name, "-", "_")))
	return ok
}

// apiCall calls the API server. On success, the caller has to close the
// returned body. A reply other than OK is turned into an error carrying the
// server's message.
func (r *Runner) apiCall(method, path string, json bool,
	body io.Reader) (io.ReadCloser, error) {

	req, err := http.NewRequest(method,
		fmt.Sprintf("http://%s%s", r.Address, path), body)
	if err != nil {
		return nil, err
	}

	if json {
		req.Header.Set("Accept", "application/json")
	}

	log.WithFields(log.Fields{"method": method, "path": path}).Debug("API call")

	resp, err := apiClient.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		msg, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%s: %s", resp.Status,
			strings.TrimSpace(string(msg)))
	}

	return resp.Body, nil
}

// GetUserConfirmation asks a yes/no question on the terminal.
func GetUserConfirmation(prompt string) bool {

	fmt.Printf("%s [y/N] ", prompt)

	in := bufio.NewReader(os.Stdin)
	answer, err := in.ReadString('\n')
	if err != nil {
		return false
	}

	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

// openArchive decodes a local transmission file and returns the container,
// and the embedded archive if there is one.
func openArchive(input string) (*xmit.Container, *iebcopy.Archive, error) {

	c, err := xmit.OpenFile(input)
	if err != nil {
		return nil, nil, err
	}

	a, err := c.FindEmbeddedArchive()
	if err != nil {
		return c, nil, err
	}

	for _, p := range a.Problems() {
		log.Warnf("%v", p)
	}

	return c, a, nil
}

//
func validateSource(input, ref string) error {
	if input == "" && ref == "" {
		return fmt.Errorf("either input file or reference required")
	}
	if input != "" && ref != "" {
		return fmt.Errorf("input file and reference are mutually exclusive")
	}
	return nil
}

//
func codepage(name string) (*mvs.Codepage, error) {
	if name == "" {
		return mvs.CP273, nil
	}
	return mvs.CodepageByName(name)
}
