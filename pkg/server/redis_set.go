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
)

func (s *RedisServer) initSetCommands() {
	s.register(redis.SAdd, -3, s.onSAdd)
	s.register(redis.SRem, -3, s.onSRem)
	s.register(redis.SCard, 2, s.onSCard)
	s.register(redis.SMembers, 2, s.onSMembers)
	s.register(redis.SIsMember, 3, s.onSIsMember)
	s.register(redis.SPop, 2, s.onSPop)
	s.register(redis.SInter, -2, s.onSInter)
	s.register(redis.SUnion, -2, s.onSUnion)
	s.register(redis.SDiff, -2, s.onSDiff)
	s.register(redis.SInterStore, -3, s.onSInterStore)
	s.register(redis.SUnionStore, -3, s.onSUnionStore)
	s.register(redis.SDiffStore, -3, s.onSDiffStore)
}

func (s *RedisServer) onSAdd(cmd redis.Command, rsp *redis.Response) {
	args := cmd.Args()
	n, err := s.driver.GetSetEngine().SAdd(args[0], args[1:]...)
	s.integerResult(cmd, rsp, n, err)
}

func (s *RedisServer) onSRem(cmd redis.Command, rsp *redis.Response) {
	args := cmd.Args()
	n, err := s.driver.GetSetEngine().SRem(args[0], args[1:]...)
	s.integerResult(cmd, rsp, n, err)
}

func (s *RedisServer) onSCard(cmd redis.Command, rsp *redis.Response) {
	n, err := s.driver.GetSetEngine().SCard(cmd.Args()[0])
	s.integerResult(cmd, rsp, n, err)
}

func (s *RedisServer) onSMembers(cmd redis.Command, rsp *redis.Response) {
	members, err := s.driver.GetSetEngine().SMembers(cmd.Args()[0])
	s.membersResult(cmd, rsp, members, err)
}

func (s *RedisServer) onSIsMember(cmd redis.Command, rsp *redis.Response) {
	args := cmd.Args()
	n, err := s.driver.GetSetEngine().SIsMember(args[0], args[1])
	s.integerResult(cmd, rsp, n, err)
}

func (s *RedisServer) onSPop(cmd redis.Command, rsp *redis.Response) {
	member, err := s.driver.GetSetEngine().SPop(cmd.Args()[0])
	if err != nil {
		setError(cmd, rsp, err)
		return
	}

	rsp.SetBulk(member)
}

func (s *RedisServer) onSInter(cmd redis.Command, rsp *redis.Response) {
	members, err := s.driver.GetSetEngine().SInter(cmd.Args()...)
	s.membersResult(cmd, rsp, members, err)
}

func (s *RedisServer) onSUnion(cmd redis.Command, rsp *redis.Response) {
	members, err := s.driver.GetSetEngine().SUnion(cmd.Args()...)
	s.membersResult(cmd, rsp, members, err)
}

func (s *RedisServer) onSDiff(cmd redis.Command, rsp *redis.Response) {
	members, err := s.driver.GetSetEngine().SDiff(cmd.Args()...)
	s.membersResult(cmd, rsp, members, err)
}

func (s *RedisServer) onSInterStore(cmd redis.Command, rsp *redis.Response) {
	args := cmd.Args()
	n, err := s.driver.GetSetEngine().SInterStore(args[0], args[1:]...)
	s.integerResult(cmd, rsp, n, err)
}

func (s *RedisServer) onSUnionStore(cmd redis.Command, rsp *redis.Response) {
	args := cmd.Args()
	n, err := s.driver.GetSetEngine().SUnionStore(args[0], args[1:]...)
	s.integerResult(cmd, rsp, n, err)
}

func (s *RedisServer) onSDiffStore(cmd redis.Command, rsp *redis.Response) {
	args := cmd.Args()
	n, err := s.driver.GetSetEngine().SDiffStore(args[0], args[1:]...)
	s.integerResult(cmd, rsp, n, err)
}

func (s *RedisServer) integerResult(cmd redis.Command, rsp *redis.Response, n int64, err error) {
	if err != nil {
		setError(cmd, rsp, err)
		return
	}

	rsp.SetInteger(n)
}

func (s *RedisServer) membersResult(cmd redis.Command, rsp *redis.Response, members [][]byte, err error) {
	if err != nil {
		setError(cmd, rsp, err)
		return
	}

	rsp.SetSliceArray(members)
}
