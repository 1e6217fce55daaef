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
	"github.com/deepfabric/cellkv/pkg/redis"
	"github.com/deepfabric/cellkv/pkg/storage"
	"github.com/deepfabric/cellkv/pkg/util"
	"github.com/fagongzi/util/hack"
	"github.com/shopspring/decimal"
)

func (s *RedisServer) initKVCommands() {
	s.register(redis.Get, 2, s.onGet)
	s.register(redis.Set, 3, s.onSet)
	s.register(redis.SetNX, 3, s.onSetNX)
	s.register(redis.GetSet, 3, s.onGetSet)
	s.register(redis.Append, 3, s.onAppend)
	s.register(redis.StrLen, 2, s.onStrLen)
	s.register(redis.MGet, -2, s.onMGet)
	s.register(redis.MSet, -3, s.onMSet)
	s.register(redis.Incr, 2, s.onIncr)
	s.register(redis.IncrBy, 3, s.onIncrBy)
	s.register(redis.Decr, 2, s.onDecr)
	s.register(redis.DecrBy, 3, s.onDecrBy)
	s.register(redis.IncrByFloat, 3, s.onIncrByFloat)
}

func (s *RedisServer) onGet(cmd redis.Command, rsp *redis.Response) {
	value, err := s.driver.GetKVEngine().Get(cmd.Args()[0])
	if err != nil {
		setError(cmd, rsp, err)
		return
	}

	rsp.SetBulk(value)
}

func (s *RedisServer) onSet(cmd redis.Command, rsp *redis.Response) {
	args := cmd.Args()
	err := s.driver.GetKVEngine().Set(args[0], args[1])
	if err != nil {
		setError(cmd, rsp, err)
		return
	}

	rsp.StatusResult = redis.StatusOK
}

func (s *RedisServer) onSetNX(cmd redis.Command, rsp *redis.Response) {
	args := cmd.Args()
	n, err := s.driver.GetKVEngine().SetNX(args[0], args[1])
	if err != nil {
		setError(cmd, rsp, err)
		return
	}

	rsp.SetInteger(n)
}

func (s *RedisServer) onGetSet(cmd redis.Command, rsp *redis.Response) {
	args := cmd.Args()
	value, err := s.driver.GetKVEngine().GetSet(args[0], args[1])
	if err != nil {
		setError(cmd, rsp, err)
		return
	}

	rsp.SetBulk(value)
}

func (s *RedisServer) onAppend(cmd redis.Command, rsp *redis.Response) {
	args := cmd.Args()
	n, err := s.driver.GetKVEngine().Append(args[0], args[1])
	if err != nil {
		setError(cmd, rsp, err)
		return
	}

	rsp.SetInteger(n)
}

func (s *RedisServer) onStrLen(cmd redis.Command, rsp *redis.Response) {
	n, err := s.driver.GetKVEngine().StrLen(cmd.Args()[0])
	if err != nil {
		setError(cmd, rsp, err)
		return
	}

	rsp.SetInteger(n)
}

func (s *RedisServer) onMGet(cmd redis.Command, rsp *redis.Response) {
	values, err := s.driver.GetKVEngine().MGet(cmd.Args()...)
	if err != nil {
		setError(cmd, rsp, err)
		return
	}

	rsp.SetSliceArray(values)
}

func (s *RedisServer) onMSet(cmd redis.Command, rsp *redis.Response) {
	args := cmd.Args()
	if len(args)%2 != 0 {
		rsp.SetErrorf("ERR wrong number of arguments for 'mset' command")
		return
	}

	keys := make([][]byte, 0, len(args)/2)
	values := make([][]byte, 0, len(args)/2)
	for i := 0; i < len(args); i += 2 {
		keys = append(keys, args[i])
		values = append(values, args[i+1])
	}

	err := s.driver.GetKVEngine().MSet(keys, values)
	if err != nil {
		setError(cmd, rsp, err)
		return
	}

	rsp.StatusResult = redis.StatusOK
}

func (s *RedisServer) onIncr(cmd redis.Command, rsp *redis.Response) {
	s.doIncrBy(cmd, rsp, 1)
}

func (s *RedisServer) onDecr(cmd redis.Command, rsp *redis.Response) {
	s.doIncrBy(cmd, rsp, -1)
}

func (s *RedisServer) onIncrBy(cmd redis.Command, rsp *redis.Response) {
	incr, err := util.StrInt64(cmd.Args()[1])
	if err != nil {
		rsp.SetError(storage.ErrNotInteger)
		return
	}

	s.doIncrBy(cmd, rsp, incr)
}

func (s *RedisServer) onDecrBy(cmd redis.Command, rsp *redis.Response) {
	decr, err := util.StrInt64(cmd.Args()[1])
	if err != nil {
		rsp.SetError(storage.ErrNotInteger)
		return
	}

	n, err := s.driver.GetKVEngine().DecrBy(cmd.Args()[0], decr)
	if err != nil {
		setError(cmd, rsp, err)
		return
	}

	rsp.SetInteger(n)
}

func (s *RedisServer) doIncrBy(cmd redis.Command, rsp *redis.Response, incr int64) {
	n, err := s.driver.GetKVEngine().IncrBy(cmd.Args()[0], incr)
	if err != nil {
		setError(cmd, rsp, err)
		return
	}

	rsp.SetInteger(n)
}

func (s *RedisServer) onIncrByFloat(cmd redis.Command, rsp *redis.Response) {
	args := cmd.Args()
	incr, err := decimal.NewFromString(hack.SliceToString(args[1]))
	if err != nil {
		rsp.SetError(storage.ErrNotFloat)
		return
	}

	value, err := s.driver.GetKVEngine().IncrByFloat(args[0], incr)
	if err != nil {
		setError(cmd, rsp, err)
		return
	}

	rsp.SetBulk(value)
}
