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
	"strings"

	"github.com/deepfabric/cellkv/pkg/redis"
	"github.com/fagongzi/util/hack"
)

func (s *RedisServer) initKeysCommands() {
	s.register(redis.Del, -2, s.onDel)
	s.register(redis.Exists, -2, s.onExists)
	s.register(redis.Type, 2, s.onType)
	s.register(redis.Keys, 2, s.onKeys)
	s.register(redis.DBSize, 1, s.onDBSize)
	s.register(redis.FlushDB, -1, s.onFlushAll)
	s.register(redis.FlushAll, -1, s.onFlushAll)
}

func (s *RedisServer) onDel(cmd redis.Command, rsp *redis.Response) {
	n, err := s.driver.GetDataEngine().Delete(cmd.Args()...)
	if err != nil {
		setError(cmd, rsp, err)
		return
	}

	rsp.SetInteger(n)
}

func (s *RedisServer) onExists(cmd redis.Command, rsp *redis.Response) {
	n, err := s.driver.GetDataEngine().Exists(cmd.Args()...)
	if err != nil {
		setError(cmd, rsp, err)
		return
	}

	rsp.SetInteger(n)
}

func (s *RedisServer) onType(cmd redis.Command, rsp *redis.Response) {
	kind, err := s.driver.GetDataEngine().Type(cmd.Args()[0])
	if err != nil {
		setError(cmd, rsp, err)
		return
	}

	rsp.StatusResult = []byte(kind.String())
}

func (s *RedisServer) onKeys(cmd redis.Command, rsp *redis.Response) {
	keys, err := s.driver.GetDataEngine().Keys(cmd.Args()[0])
	if err != nil {
		setError(cmd, rsp, err)
		return
	}

	rsp.SetSliceArray(keys)
}

func (s *RedisServer) onDBSize(cmd redis.Command, rsp *redis.Response) {
	n, err := s.driver.GetDataEngine().DBSize()
	if err != nil {
		setError(cmd, rsp, err)
		return
	}

	rsp.SetInteger(n)
}

// ASYNC and SYNC options are accepted, the flush is always synchronous
func (s *RedisServer) onFlushAll(cmd redis.Command, rsp *redis.Response) {
	args := cmd.Args()
	if len(args) > 1 ||
		(len(args) == 1 && !isFlushOption(args[0])) {
		rsp.SetErrorf("ERR syntax error")
		return
	}

	err := s.driver.GetDataEngine().FlushAll()
	if err != nil {
		setError(cmd, rsp, err)
		return
	}

	rsp.StatusResult = redis.StatusOK
}

func isFlushOption(value []byte) bool {
	option := strings.ToLower(hack.SliceToString(value))
	return option == "async" || option == "sync"
}
