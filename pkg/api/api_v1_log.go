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
	"fmt"
	"net/http"
	"strings"

	"github.com/fagongzi/log"
	"github.com/gorilla/mux"
	"github.com/unrolled/render"
)

var (
	levels = map[string]struct{}{
		"debug":   {},
		"info":    {},
		"warn":    {},
		"warning": {},
		"error":   {},
		"fatal":   {},
	}
)

type logHandler struct {
	rd *render.Render
}

func initAPIForLog(router *mux.Router, rd *render.Render) {
	handler := &logHandler{
		rd: rd,
	}

	router.HandleFunc("/v1/log", handler.setLogLevel).Methods("PUT")
}

func (h *logHandler) setLogLevel(w http.ResponseWriter, r *http.Request) {
	result := &Result{
		Code: CodeSuccess,
	}

	set, err := readSetLogLevel(r.Body)
	if err != nil {
		result.setError(err)
	} else if level := strings.ToLower(set.Level); !validLevel(level) {
		result.setError(fmt.Errorf("unknown log level %s", set.Level))
	} else {
		log.SetLevelByString(level)
		log.Infof("api: log level changed to %s", level)
	}

	h.rd.JSON(w, http.StatusOK, result)
}

func validLevel(level string) bool {
	_, ok := levels[level]
	return ok
}
