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

package redis

import (
	"strings"

	"github.com/fagongzi/util/hack"
)

// Command names served by a cell
const (
	Ping   = "ping"
	Echo   = "echo"
	Quit   = "quit"
	Select = "select"
	Cmds   = "command"

	Del      = "del"
	Exists   = "exists"
	Type     = "type"
	Keys     = "keys"
	DBSize   = "dbsize"
	FlushDB  = "flushdb"
	FlushAll = "flushall"

	Get         = "get"
	Set         = "set"
	SetNX       = "setnx"
	GetSet      = "getset"
	Append      = "append"
	StrLen      = "strlen"
	MGet        = "mget"
	MSet        = "mset"
	Incr        = "incr"
	IncrBy      = "incrby"
	IncrByFloat = "incrbyfloat"
	Decr        = "decr"
	DecrBy      = "decrby"

	SAdd        = "sadd"
	SRem        = "srem"
	SCard       = "scard"
	SMembers    = "smembers"
	SIsMember   = "sismember"
	SPop        = "spop"
	SInter      = "sinter"
	SUnion      = "sunion"
	SDiff       = "sdiff"
	SInterStore = "sinterstore"
	SUnionStore = "sunionstore"
	SDiffStore  = "sdiffstore"
)

// Command redis command
type Command [][]byte

// NewCommand returns a command built from string arguments
func NewCommand(cmd string, args ...string) Command {
	c := make(Command, 0, len(args)+1)
	c = append(c, []byte(cmd))
	for _, arg := range args {
		c = append(c, []byte(arg))
	}

	return c
}

// Cmd returns the raw command name
func (c Command) Cmd() []byte {
	return c[0]
}

// CmdString returns the lower case command name
func (c Command) CmdString() string {
	return strings.ToLower(hack.SliceToString(c[0]))
}

// Args returns the command args
func (c Command) Args() [][]byte {
	return c[1:]
}

// String returns a printable form used by debug logs
func (c Command) String() string {
	var sb strings.Builder
	for i, arg := range c {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.Write(arg)
	}
	return sb.String()
}
