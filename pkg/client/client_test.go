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

package client

import (
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
	addr := l.Addr().String()
	l.Close()

	cfg := server.NewCfg()
	cfg.Redis.Listen = addr
	s, err := server.NewServer(cfg)
	require.NoError(t, err)

	go s.Start()
	select {
	case <-s.Started():
	case <-time.After(time.Second * 5):
		t.Fatal("server not started")
	}

	t.Cleanup(s.Stop)
	return addr
}

func TestCounter(t *testing.T) {
	c := NewClient(startServer(t))
	defer c.Close()

	require.NoError(t, c.Ping())

	_, err := c.Del("counter")
	require.NoError(t, err)

	var values []int64
	for i := 0; i < 3; i++ {
		n, err := c.Incr("counter")
		require.NoError(t, err)
		values = append(values, n)
	}
	for i := 0; i < 3; i++ {
		n, err := c.Decr("counter")
		require.NoError(t, err)
		values = append(values, n)
	}
	assert.Equal(t, []int64{1, 2, 3, 2, 1, 0}, values)

	n, err := c.IncrBy("counter", 100)
	require.NoError(t, err)
	assert.Equal(t, int64(100), n)

	n, err = c.DecrBy("counter", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(99), n)

	value, err := c.Get("counter")
	require.NoError(t, err)
	assert.Equal(t, "99", value)
}

func TestSets(t *testing.T) {
	c := NewClient(startServer(t))
	defer c.Close()

	_, err := c.Del("foo-tags", "bar-tags")
	require.NoError(t, err)

	for _, tag := range []string{"one", "two", "three"} {
		_, err := c.SAdd("foo-tags", tag)
		require.NoError(t, err)
	}
	for _, tag := range []string{"three", "four", "five"} {
		_, err := c.SAdd("bar-tags", tag)
		require.NoError(t, err)
	}

	n, err := c.SAdd("foo-tags", "one")
	require.NoError(t, err)
	assert.Equal(t, int64(0), n, "adding a exists member is a no-op")

	members, err := c.SMembers("foo-tags")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"one", "two", "three"}, members)

	members, err = c.SInter("foo-tags", "bar-tags")
	require.NoError(t, err)
	assert.Equal(t, []string{"three"}, members)

	members, err = c.SUnion("foo-tags", "bar-tags")
	require.NoError(t, err)
	assert.Len(t, members, 5)

	members, err = c.SDiff("foo-tags", "bar-tags")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"one", "two"}, members)

	ok, err := c.SIsMember("bar-tags", "four")
	require.NoError(t, err)
	assert.True(t, ok)

	n, err = c.SRem("bar-tags", "four", "six")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = c.SCard("bar-tags")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	members, err = c.SMembers("none")
	require.NoError(t, err)
	assert.Empty(t, members)
}

func TestErrors(t *testing.T) {
	c := NewClient(startServer(t))
	defer c.Close()

	_, err := c.Get("none")
	assert.True(t, IsNil(err))

	require.NoError(t, c.Set("k", "v"))
	_, err = c.Incr("k")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ERR value is not an integer or out of range")

	_, err = c.SAdd("k", "a")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WRONGTYPE")

	n, err := c.Exists("k", "none")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
