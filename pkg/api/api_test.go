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
	"errors"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testService struct {
	flushed  int
	flushErr error
}

func (s *testService) GetSystem() (*System, error) {
	return &System{
		Driver:  "memory",
		Clients: 2,
		Keys:    10,
	}, nil
}

func (s *testService) FlushAll() error {
	s.flushed++
	return s.flushErr
}

func doRequest(t *testing.T, svr *httptest.Server, method, path, body string) (*http.Response, *Result) {
	req, err := http.NewRequest(method, svr.URL+path, strings.NewReader(body))
	require.NoError(t, err)

	rsp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer rsp.Body.Close()

	data, err := ioutil.ReadAll(rsp.Body)
	require.NoError(t, err)

	result := &Result{}
	if strings.HasPrefix(path, APIPrefix) {
		require.NoError(t, json.Unmarshal(data, result))
	}
	return rsp, result
}

func TestGetSystem(t *testing.T) {
	svr := httptest.NewServer(NewAPIHandler(&testService{}))
	defer svr.Close()

	rsp, result := doRequest(t, svr, http.MethodGet, "/api/v1/system", "")
	assert.Equal(t, http.StatusOK, rsp.StatusCode)
	assert.Equal(t, "*", rsp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, CodeSuccess, result.Code)

	value := result.Value.(map[string]interface{})
	assert.Equal(t, "memory", value["driver"])
	assert.Equal(t, float64(2), value["clients"])
	assert.Equal(t, float64(10), value["keys"])
}

func TestFlush(t *testing.T) {
	service := &testService{}
	svr := httptest.NewServer(NewAPIHandler(service))
	defer svr.Close()

	_, result := doRequest(t, svr, http.MethodPost, "/api/v1/flush", "")
	assert.Equal(t, CodeSuccess, result.Code)
	assert.Equal(t, 1, service.flushed)

	service.flushErr = errors.New("disk failed")
	_, result = doRequest(t, svr, http.MethodPost, "/api/v1/flush", "")
	assert.Equal(t, CodeError, result.Code)
	assert.Equal(t, "disk failed", result.Error)
}

func TestSetLogLevel(t *testing.T) {
	svr := httptest.NewServer(NewAPIHandler(&testService{}))
	defer svr.Close()

	_, result := doRequest(t, svr, http.MethodPut, "/api/v1/log", `{"level":"debug"}`)
	assert.Equal(t, CodeSuccess, result.Code)

	_, result = doRequest(t, svr, http.MethodPut, "/api/v1/log", `{"level":"info"}`)
	assert.Equal(t, CodeSuccess, result.Code)

	_, result = doRequest(t, svr, http.MethodPut, "/api/v1/log", `{"level":"verbose"}`)
	assert.Equal(t, CodeError, result.Code)

	_, result = doRequest(t, svr, http.MethodPut, "/api/v1/log", `not json`)
	assert.Equal(t, CodeError, result.Code)
}

func TestOptions(t *testing.T) {
	svr := httptest.NewServer(NewAPIHandler(&testService{}))
	defer svr.Close()

	req, err := http.NewRequest(http.MethodOptions, svr.URL+"/api/v1/system", nil)
	require.NoError(t, err)

	rsp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	rsp.Body.Close()

	assert.Equal(t, http.StatusOK, rsp.StatusCode)
	assert.Contains(t, rsp.Header.Get("Access-Control-Allow-Methods"), "PUT")
}

func TestMetrics(t *testing.T) {
	svr := httptest.NewServer(NewAPIHandler(&testService{}))
	defer svr.Close()

	rsp, err := http.Get(svr.URL + MetricsPath)
	require.NoError(t, err)
	defer rsp.Body.Close()

	data, err := ioutil.ReadAll(rsp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rsp.StatusCode)
	assert.Contains(t, string(data), "go_goroutines")
}
