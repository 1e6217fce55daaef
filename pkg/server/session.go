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
	"github.com/deepfabric/cellkv/pkg/pool"
	"github.com/deepfabric/cellkv/pkg/redis"
	"github.com/fagongzi/goetty"
	"github.com/fagongzi/log"
)

type session struct {
	conn goetty.IOSession
	addr string
}

func newSession(conn goetty.IOSession) *session {
	return &session{
		conn: conn,
		addr: conn.RemoteAddr(),
	}
}

func (s *session) close() {
	log.Debugf("redis-[%s]: closed", s.addr)
}

// onResp writes the reply to the connection, the rsp is released to the pool
func (s *session) onResp(rsp *redis.Response) {
	rsp.WriteTo(s.conn.OutBuf())
	pool.ReleaseResponse(rsp)
	s.flush()
}

func (s *session) writeError(err []byte) {
	redis.WriteError(err, s.conn.OutBuf())
	s.flush()
}

func (s *session) flush() {
	if err := s.conn.Flush(); err != nil {
		log.Errorf("redis-[%s]: flush failed, errors:\n %+v", s.addr, err)
	}
}
