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
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/shirou/gopsutil/mem"
	"github.com/shirou/gopsutil/process"
	"github.com/unrolled/render"
)

type systemHandler struct {
	service Service
	rd      *render.Render
}

func initAPIForSystem(router *mux.Router, service Service, rd *render.Render) {
	handler := newSystemHandler(service, rd)

	router.HandleFunc("/v1/system", handler.get).Methods("GET")
	router.HandleFunc("/v1/flush", handler.flush).Methods("POST")
}

func newSystemHandler(service Service, rd *render.Render) *systemHandler {
	return &systemHandler{
		service: service,
		rd:      rd,
	}
}

func (h *systemHandler) get(w http.ResponseWriter, r *http.Request) {
	result := &Result{
		Code: CodeSuccess,
	}

	system, err := h.service.GetSystem()
	if err != nil {
		result.setError(err)
	} else {
		fillMemory(system)
	}

	result.Value = system

	h.rd.JSON(w, http.StatusOK, result)
}

func (h *systemHandler) flush(w http.ResponseWriter, r *http.Request) {
	result := &Result{
		Code: CodeSuccess,
	}

	err := h.service.FlushAll()
	if err != nil {
		result.setError(err)
	}

	h.rd.JSON(w, http.StatusOK, result)
}

// fillMemory fills the memory usage, the fields are left zero if failed
func fillMemory(system *System) {
	if vm, err := mem.VirtualMemory(); err == nil {
		system.HostMemTotal = vm.Total
		system.HostMemUsed = vm.Used
		system.HostMemUsedPercent = vm.UsedPercent
	}

	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return
	}

	if info, err := p.MemoryInfo(); err == nil {
		system.ProcessRSS = info.RSS
		system.ProcessVMS = info.VMS
	}
}
