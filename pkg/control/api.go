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

package control

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/xelalexv/xmitview/pkg/repo"
)

const (
	// DefaultAddress is where the API listens if not configured otherwise
	DefaultAddress   = ":8888"
	defaultCacheSize = 32
	shutdownTimeout  = 10 * time.Second
)

// APIServer serves archives of a repository over HTTP.
type APIServer interface {
	Serve() error
	Stop() error
	Handler() http.Handler
}

// NewAPIServer creates an API server listening on address. Transmission
// files are looked up in the repository directory. index may be nil, which
// disables search. cacheSize bounds the number of decoded files kept.
func NewAPIServer(address, repository string, index *repo.Index,
	cacheSize int) (APIServer, error) {

	if address == "" {
		address = DefaultAddress
	}

	cache, err := newArchiveCache(cacheSize)
	if err != nil {
		return nil, err
	}

	a := &api{
		address:    address,
		repository: repository,
		index:      index,
		cache:      cache,
	}

	a.router = mux.NewRouter().StrictSlash(true)
	addRoute(a.router, "version", "GET", "/version", a.version)
	addRoute(a.router, "ls", "GET", "/ls", a.list)
	addRoute(a.router, "info", "GET", "/info", a.info)
	addRoute(a.router, "member", "GET", "/member", a.member)
	addRoute(a.router, "search", "GET", "/search", a.search)

	return a, nil
}

//
type api struct {
	address    string
	repository string
	index      *repo.Index
	cache      *archiveCache
	router     *mux.Router
	server     *http.Server
}

//
func addRoute(r *mux.Router, name, method, pattern string,
	handler http.HandlerFunc) {
	r.Methods(method).Path(pattern).Name(name).Handler(logged(name, handler))
}

//
func logged(name string, h http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		h(w, req)
		log.WithFields(log.Fields{
			"route":    name,
			"uri":      req.RequestURI,
			"duration": time.Since(start),
		}).Debug("API call")
	})
}

// Serve blocks until the server is stopped.
func (a *api) Serve() error {

	a.server = &http.Server{
		Addr:              a.address,
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.WithField("address", a.address).Info("API server starting")
	if err := a.server.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}

	log.Info("API server stopped")
	return nil
}

//
func (a *api) Stop() error {
	if a.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return a.server.Shutdown(ctx)
}

//
func (a *api) Handler() http.Handler {
	return a.router
}

// getRef returns the reference of the requested transmission file, taken
// from either the ref or the file argument, the latter being a path in the
// repository.
func getRef(req *http.Request) (string, error) {
	if ref := getArg(req, "ref"); ref != "" {
		return ref, nil
	}
	if file := getArg(req, "file"); file != "" {
		return "repo://" + file, nil
	}
	return "", fmt.Errorf("no file reference given")
}

//
func handleError(e error, statusCode int, w http.ResponseWriter) bool {
	if e == nil {
		return false
	}
	log.Errorf("%v", e)
	sendReply([]byte(e.Error()), statusCode, w)
	return true
}

//
func sendReply(body []byte, statusCode int, w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; charset=UTF-8")
	w.WriteHeader(statusCode)
	if _, err := w.Write(append(body, '\n')); err != nil {
		log.Errorf("problem writing response: %v", err)
	}
}

//
func sendStreamReply(r io.Reader, statusCode int, w http.ResponseWriter) {
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "application/octet-stream")
	}
	w.WriteHeader(statusCode)
	if _, err := io.Copy(w, r); err != nil {
		log.Errorf("problem writing response: %v", err)
	}
}

//
func sendTextStreamReply(r io.Reader, statusCode int, w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; charset=UTF-8")
	sendStreamReply(r, statusCode, w)
}

//
func sendJSONReply(obj interface{}, statusCode int, w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(obj); err != nil {
		log.Errorf("problem writing response: %v", err)
	}
}

//
func getArg(req *http.Request, arg string) string {
	return strings.TrimSpace(req.URL.Query().Get(arg))
}

//
func getIntArg(req *http.Request, arg string, def int) (int, error) {
	v := getArg(req, arg)
	if v == "" {
		return def, nil
	}
	ret, err := strconv.Atoi(v)
	if err != nil {
		return def, fmt.Errorf("invalid value for %s: %v", arg, err)
	}
	return ret, nil
}

//
func isFlagSet(req *http.Request, flag string) bool {
	v := strings.ToLower(getArg(req, flag))
	return v == "true" || v == "1" || v == "yes"
}

//
func wantsJSON(req *http.Request) bool {
	return strings.Contains(req.Header.Get("Accept"), "application/json") ||
		isFlagSet(req, "json")
}
