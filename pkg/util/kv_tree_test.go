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

package util

import (
	"errors"
	"testing"

	. "github.com/pingcap/check"
)

var _ = Suite(&testKVTreeSuite{})

func TestUtil(t *testing.T) {
	TestingT(t)
}

type testKVTreeSuite struct {
}

func (s *testKVTreeSuite) TestKVTreePutAndGet(c *C) {
	tree := NewKVTree()

	key := []byte("counter")
	tree.Put(key, int64(1))

	v := tree.Get(key)
	c.Assert(v, Equals, int64(1))
	c.Assert(tree.Get([]byte("foo-tags")), IsNil)

	tree.Put(key, int64(2))
	c.Assert(tree.Get(key), Equals, int64(2))
	c.Assert(tree.Len(), Equals, 1)
}

func (s *testKVTreeSuite) TestKVTreeDelete(c *C) {
	tree := NewKVTree()

	key := []byte("key1")
	c.Assert(tree.Delete(key), IsFalse)

	tree.Put(key, "value1")
	c.Assert(tree.Delete(key), IsTrue)
	c.Assert(tree.Get(key), IsNil)
	c.Assert(tree.Len(), Equals, 0)
}

func (s *testKVTreeSuite) TestKVTreeClear(c *C) {
	tree := NewKVTree()
	tree.Put([]byte("key1"), "value1")
	tree.Put([]byte("key2"), "value2")

	tree.Clear()
	c.Assert(tree.Len(), Equals, 0)
	c.Assert(tree.Get([]byte("key1")), IsNil)
}

func (s *testKVTreeSuite) TestKVTreeScan(c *C) {
	tree := NewKVTree()

	key1 := []byte("key1")
	key2 := []byte("key2")
	key3 := []byte("key3")
	key4 := []byte("key4")

	tree.Put(key3, "value3")
	tree.Put(key1, "value1")
	tree.Put(key4, "value4")
	tree.Put(key2, "value2")

	var keys []string
	err := tree.Scan(key1, key4, func(key []byte, value interface{}) (bool, error) {
		keys = append(keys, string(key))
		return true, nil
	})
	c.Assert(err, IsNil)
	c.Assert(keys, DeepEquals, []string{"key1", "key2", "key3"})

	cnt := 0
	err = tree.Scan(nil, nil, func(key []byte, value interface{}) (bool, error) {
		cnt++
		return true, nil
	})
	c.Assert(err, IsNil)
	c.Assert(cnt, Equals, 4)

	cnt = 0
	err = tree.Scan(key1, nil, func(key []byte, value interface{}) (bool, error) {
		if string(key) == string(key2) {
			return false, nil
		}

		cnt++
		return true, nil
	})
	c.Assert(err, IsNil)
	c.Assert(cnt, Equals, 1)

	cnt = 0
	err = tree.Scan(key1, nil, func(key []byte, value interface{}) (bool, error) {
		if string(key) == string(key2) {
			return true, errors.New("err")
		}

		cnt++
		return true, nil
	})
	c.Assert(err, NotNil)
	c.Assert(cnt, Equals, 1)

	err = tree.Scan(nil, nil, func(key []byte, value interface{}) (bool, error) {
		tree.Delete(key)
		return true, nil
	})
	c.Assert(err, IsNil)
	c.Assert(tree.Len(), Equals, 0)
}
