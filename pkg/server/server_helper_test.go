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

package server

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func freeAddr(t testing.TB) string {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	l.Close()
	return addr
}

// startTestServer starts a server with memory storage, the server is
// stopped when the test finished.
func startTestServer(t testing.TB, adjust func(cfg *Cfg)) *Server {
	cfg := NewCfg()
	cfg.Redis.Listen = freeAddr(t)
	if adjust != nil {
		adjust(cfg)
	}

	s, err := NewServer(cfg)
	require.NoError(t, err)

	errC := make(chan error, 1)
	go func() {
		errC <- s.Start()
	}()

	select {
	case <-s.Started():
	case err := <-errC:
		t.Fatalf("server start failed: %+v", err)
	case <-time.After(time.Second * 5):
		t.Fatal("server not started")
	}

	t.Cleanup(s.Stop)
	return s
}
