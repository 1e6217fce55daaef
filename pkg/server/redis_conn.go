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
	"sort"
	"strings"

	"github.com/deepfabric/cellkv/pkg/redis"
	"github.com/fagongzi/util/hack"
)

const (
	errDBIndex = "ERR DB index is out of range"
)

func (s *RedisServer) initConnCommands() {
	s.register(redis.Ping, -1, s.onPing)
	s.register(redis.Echo, 2, s.onEcho)
	s.register(redis.Quit, 1, s.onQuit)
	s.register(redis.Select, 2, s.onSelect)
	s.register(redis.Cmds, -1, s.onCommandInfo)
}

func (s *RedisServer) onPing(cmd redis.Command, rsp *redis.Response) {
	args := cmd.Args()
	switch len(args) {
	case 0:
		rsp.StatusResult = redis.StatusPong
	case 1:
		rsp.SetBulk(args[0])
	default:
		rsp.SetErrorf("ERR wrong number of arguments for 'ping' command")
	}
}

func (s *RedisServer) onEcho(cmd redis.Command, rsp *redis.Response) {
	rsp.SetBulk(cmd.Args()[0])
}

func (s *RedisServer) onQuit(cmd redis.Command, rsp *redis.Response) {
	rsp.StatusResult = redis.StatusOK
}

// only the db 0 is served
func (s *RedisServer) onSelect(cmd redis.Command, rsp *redis.Response) {
	if hack.SliceToString(cmd.Args()[0]) != "0" {
		rsp.SetErrorf(errDBIndex)
		return
	}

	rsp.StatusResult = redis.StatusOK
}

func (s *RedisServer) onCommandInfo(cmd redis.Command, rsp *redis.Response) {
	args := cmd.Args()
	if len(args) == 0 {
		names := make([]string, 0, len(s.commands))
		for name := range s.commands {
			names = append(names, name)
		}
		sort.Strings(names)

		values := make([][]byte, 0, len(names))
		for _, name := range names {
			values = append(values, []byte(name))
		}
		rsp.SetSliceArray(values)
		return
	}

	sub := strings.ToLower(hack.SliceToString(args[0]))
	switch sub {
	case "count":
		rsp.SetInteger(int64(len(s.commands)))
	default:
		rsp.SetErrorf("ERR unknown subcommand '%s'", sub)
	}
}
