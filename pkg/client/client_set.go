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

// SAdd adds the members to the set, returns the number of new members
func (c *Client) SAdd(key string, members ...string) (int64, error) {
	return c.doInt64("SADD", keyArgs(key, members)...)
}

// SRem removes the members from the set
func (c *Client) SRem(key string, members ...string) (int64, error) {
	return c.doInt64("SREM", keyArgs(key, members)...)
}

// SCard returns the number of members of the set
func (c *Client) SCard(key string) (int64, error) {
	return c.doInt64("SCARD", key)
}

// SIsMember returns true if the member is in the set
func (c *Client) SIsMember(key, member string) (bool, error) {
	n, err := c.doInt64("SISMEMBER", key, member)
	return n == 1, err
}

// SMembers returns the members of the set, no order is guaranteed
func (c *Client) SMembers(key string) ([]string, error) {
	return c.doStrings("SMEMBERS", key)
}

// SInter returns the members of the intersection of the sets
func (c *Client) SInter(keys ...string) ([]string, error) {
	return c.doStrings("SINTER", keysArgs(keys)...)
}

// SUnion returns the members of the union of the sets
func (c *Client) SUnion(keys ...string) ([]string, error) {
	return c.doStrings("SUNION", keysArgs(keys)...)
}

// SDiff returns the members of the first set but not in others
func (c *Client) SDiff(keys ...string) ([]string, error) {
	return c.doStrings("SDIFF", keysArgs(keys)...)
}
