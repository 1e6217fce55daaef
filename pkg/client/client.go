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
	"time"

	"github.com/deepfabric/cellkv/pkg/util"
	"github.com/garyburd/redigo/redis"
	"github.com/pkg/errors"
)

const (
	defaultAddr           = "127.0.0.1:6379"
	defaultMaxIdle        = 4
	defaultIdleTimeout    = time.Minute
	defaultConnectTimeout = time.Second * 10
	defaultReadTimeout    = time.Second * 30
	defaultWriteTimeout   = time.Second * 30
)

// Cfg client cfg, zero values are replaced by the defaults
type Cfg struct {
	Addr string

	MaxIdle   int
	MaxActive int

	IdleTimeout    time.Duration
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
}

// Client is a cell client, safe for concurrent use
type Client struct {
	pool *redis.Pool
}

// NewClient returns a client with the default cfg connect to addr
func NewClient(addr string) *Client {
	return NewClientWithCfg(&Cfg{
		Addr: addr,
	})
}

// NewClientWithCfg returns a client
func NewClientWithCfg(cfg *Cfg) *Client {
	addr := util.GetStringValue(cfg.Addr, defaultAddr)
	connectTimeout := util.GetDurationValue(cfg.ConnectTimeout, defaultConnectTimeout)
	readTimeout := util.GetDurationValue(cfg.ReadTimeout, defaultReadTimeout)
	writeTimeout := util.GetDurationValue(cfg.WriteTimeout, defaultWriteTimeout)

	return &Client{
		pool: &redis.Pool{
			MaxIdle:     util.GetIntValue(cfg.MaxIdle, defaultMaxIdle),
			MaxActive:   cfg.MaxActive,
			IdleTimeout: util.GetDurationValue(cfg.IdleTimeout, defaultIdleTimeout),
			Wait:        cfg.MaxActive > 0,
			Dial: func() (redis.Conn, error) {
				return redis.Dial("tcp", addr,
					redis.DialConnectTimeout(connectTimeout),
					redis.DialReadTimeout(readTimeout),
					redis.DialWriteTimeout(writeTimeout))
			},
			TestOnBorrow: func(c redis.Conn, t time.Time) error {
				if time.Since(t) < time.Minute {
					return nil
				}
				_, err := c.Do("PING")
				return err
			},
		},
	}
}

// Close close the client and the idle connections
func (c *Client) Close() error {
	return c.pool.Close()
}

func (c *Client) do(cmd string, args ...interface{}) (interface{}, error) {
	conn := c.pool.Get()
	defer conn.Close()

	reply, err := conn.Do(cmd, args...)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", cmd)
	}

	return reply, nil
}

func (c *Client) doInt64(cmd string, args ...interface{}) (int64, error) {
	return redis.Int64(c.do(cmd, args...))
}

func (c *Client) doStrings(cmd string, args ...interface{}) ([]string, error) {
	return redis.Strings(c.do(cmd, args...))
}

func keysArgs(keys []string) []interface{} {
	args := make([]interface{}, 0, len(keys))
	for _, key := range keys {
		args = append(args, key)
	}
	return args
}

func keyArgs(key string, members []string) []interface{} {
	args := make([]interface{}, 0, len(members)+1)
	args = append(args, key)
	for _, member := range members {
		args = append(args, member)
	}
	return args
}

// IsNil returns true if the err means the key is not exists
func IsNil(err error) bool {
	return errors.Cause(err) == redis.ErrNil
}
