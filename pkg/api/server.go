// Copyright 2016 DeepFabric, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// See the License for the specific language governing permissions and
// limitations under the License.

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/fagongzi/log"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/unrolled/render"
	"github.com/urfave/negroni"
)

const (
	// APIPrefix url prefix for api
	APIPrefix = "/api"
	// MetricsPath url of the prometheus metrics
	MetricsPath = "/metrics"

	shutdownTimeout = time.Second * 5
)

// NewAPIHandler returns a HTTP handler for API.
func NewAPIHandler(service Service) http.Handler {
	engine := negroni.New()

	engine.Use(negroni.NewRecovery())

	router := mux.NewRouter()
	router.Handle(MetricsPath, promhttp.Handler())
	router.PathPrefix(APIPrefix).Handler(negroni.New(
		newCross(),
		negroni.Wrap(createRouter(APIPrefix, service)),
	))

	engine.UseHandler(router)
	return engine
}

func createRouter(prefix string, service Service) *mux.Router {
	rd := render.New(render.Options{
		IndentJSON: true,
	})

	router := mux.NewRouter().PathPrefix(prefix).Subrouter()
	initAPIForSystem(router, service, rd)
	initAPIForLog(router, rd)
	return router
}

// Server is the admin http server of the cell
type Server struct {
	addr string
	svr  *http.Server
}

// NewServer returns a admin http server
func NewServer(addr string, service Service) *Server {
	return &Server{
		addr: addr,
		svr: &http.Server{
			Addr:    addr,
			Handler: NewAPIHandler(service),
		},
	}
}

// Start start the http server, blocked until the server stopped
func (s *Server) Start() error {
	log.Infof("bootstrap: api server start at %s", s.addr)

	err := s.svr.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}

	return errors.Wrapf(err, "api server at %s", s.addr)
}

// Stop stop the http server
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return s.svr.Shutdown(ctx)
}
