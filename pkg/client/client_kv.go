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
	"github.com/garyburd/redigo/redis"
)

// Ping ping the server
func (c *Client) Ping() error {
	_, err := redis.String(c.do("PING"))
	return err
}

// Del deletes the keys, returns the number of keys deleted
func (c *Client) Del(keys ...string) (int64, error) {
	return c.doInt64("DEL", keysArgs(keys)...)
}

// Exists returns the number of keys exists
func (c *Client) Exists(keys ...string) (int64, error) {
	return c.doInt64("EXISTS", keysArgs(keys)...)
}

// Get returns the value of the key, use IsNil to check the not exists error
func (c *Client) Get(key string) (string, error) {
	return redis.String(c.do("GET", key))
}

// Set set the value of the key
func (c *Client) Set(key, value string) error {
	_, err := c.do("SET", key, value)
	return err
}

// Incr increment the counter by one, returns the new value
func (c *Client) Incr(key string) (int64, error) {
	return c.doInt64("INCR", key)
}

// Decr decrement the counter by one, returns the new value
func (c *Client) Decr(key string) (int64, error) {
	return c.doInt64("DECR", key)
}

// IncrBy increment the counter by incr
func (c *Client) IncrBy(key string, incr int64) (int64, error) {
	return c.doInt64("INCRBY", key, incr)
}

// DecrBy decrement the counter by decr
func (c *Client) DecrBy(key string, decr int64) (int64, error) {
	return c.doInt64("DECRBY", key, decr)
}
