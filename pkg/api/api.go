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
	"encoding/json"
	"io"
	"io/ioutil"

	"github.com/pkg/errors"
)

// SetLogLevel set log level of the cell
type SetLogLevel struct {
	Level string `json:"level"`
}

// System the system info of the cell
type System struct {
	Version string `json:"version"`
	Driver  string `json:"driver"`
	StartAt int64  `json:"startAt"`
	Uptime  string `json:"uptime"`

	Clients     uint64 `json:"clients"`
	MaxClients  uint64 `json:"maxClients"`
	Keys        int64  `json:"keys"`
	TotalCMDs   uint64 `json:"totalCMDs"`
	RejectedCMD uint64 `json:"rejectedCMD"`

	HostMemTotal       uint64  `json:"hostMemTotal,omitempty"`
	HostMemUsed        uint64  `json:"hostMemUsed,omitempty"`
	HostMemUsedPercent float64 `json:"hostMemUsedPercent,omitempty"`
	ProcessRSS         uint64  `json:"processRSS,omitempty"`
	ProcessVMS         uint64  `json:"processVMS,omitempty"`
}

// Service service interface
type Service interface {
	GetSystem() (*System, error)
	FlushAll() error
}

func readSetLogLevel(r io.ReadCloser) (*SetLogLevel, error) {
	value := &SetLogLevel{}
	return value, readJSON(r, value)
}

func readJSON(r io.ReadCloser, data interface{}) error {
	defer r.Close()

	b, err := ioutil.ReadAll(r)
	if err != nil {
		return errors.Wrap(err, "")
	}
	err = json.Unmarshal(b, data)
	if err != nil {
		return errors.Wrap(err, "")
	}

	return nil
}
