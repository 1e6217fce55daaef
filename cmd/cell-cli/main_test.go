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

package main

import (
	"bytes"
	"net"
	"testing"
	"time"

	"github.com/deepfabric/cellkv/pkg/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startServer(t *testing.T) string {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	listen := l.Addr().String()
	l.Close()

	cfg := server.NewCfg()
	cfg.Redis.Listen = listen
	s, err := server.NewServer(cfg)
	require.NoError(t, err)

	go s.Start()
	select {
	case <-s.Started():
	case <-time.After(time.Second * 5):
		t.Fatal("server not started")
	}

	t.Cleanup(s.Stop)
	return listen
}

func run(t *testing.T, listen string, args ...string) (string, error) {
	root := newRootCmd()
	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetErr(out)
	root.SetArgs(append([]string{"--addr", listen}, args...))

	err := root.Execute()
	return out.String(), err
}

func TestCLI(t *testing.T) {
	listen := startServer(t)

	out, err := run(t, listen, "incr", "counter")
	require.NoError(t, err)
	assert.Equal(t, "(integer) 1\n", out)

	out, err = run(t, listen, "incrby", "counter", "9")
	require.NoError(t, err)
	assert.Equal(t, "(integer) 10\n", out)

	out, err = run(t, listen, "get", "none")
	require.NoError(t, err)
	assert.Equal(t, "(nil)\n", out)

	out, err = run(t, listen, "sadd", "tags", "b", "a")
	require.NoError(t, err)
	assert.Equal(t, "(integer) 2\n", out)

	out, err = run(t, listen, "sinter", "tags")
	require.NoError(t, err)
	assert.Equal(t, "1) a\n2) b\n", out)

	_, err = run(t, listen, "incr")
	assert.Error(t, err)

	_, err = run(t, listen, "incrby", "counter", "x")
	assert.Error(t, err)
}
