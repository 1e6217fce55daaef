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

package storage

import (
	"fmt"
	"sync"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type driverSuite struct {
	suite.Suite

	create func() (Driver, error)
	driver Driver
}

func TestMemoryDriver(t *testing.T) {
	suite.Run(t, &driverSuite{
		create: func() (Driver, error) {
			return NewMemoryDriver(), nil
		},
	})
}

func TestBadgerDriver(t *testing.T) {
	suite.Run(t, &driverSuite{
		create: func() (Driver, error) {
			return NewBadgerDriver(&BadgerCfg{InMemory: true})
		},
	})
}

func TestBadgerDriverOnDisk(t *testing.T) {
	dir := t.TempDir()

	driver, err := NewBadgerDriver(&BadgerCfg{DataPath: dir})
	require.NoError(t, err)

	_, err = driver.GetSetEngine().SAdd([]byte("tags"), []byte("a"), []byte("b"))
	require.NoError(t, err)
	_, err = driver.GetKVEngine().IncrBy([]byte("counter"), 7)
	require.NoError(t, err)
	require.NoError(t, driver.Close())

	driver, err = NewBadgerDriver(&BadgerCfg{DataPath: dir})
	require.NoError(t, err)
	defer driver.Close()

	members, err := driver.GetSetEngine().SMembers([]byte("tags"))
	require.NoError(t, err)
	assert.Equal(t, [][]byte{[]byte("a"), []byte("b")}, members)

	value, err := driver.GetKVEngine().Get([]byte("counter"))
	require.NoError(t, err)
	assert.Equal(t, "7", string(value))
}

func (s *driverSuite) SetupTest() {
	driver, err := s.create()
	s.Require().NoError(err)
	s.driver = driver
}

func (s *driverSuite) TearDownTest() {
	s.Require().NoError(s.driver.Close())
}

func (s *driverSuite) kv() KVEngine {
	return s.driver.GetKVEngine()
}

func (s *driverSuite) set() SetEngine {
	return s.driver.GetSetEngine()
}

func (s *driverSuite) data() DataEngine {
	return s.driver.GetDataEngine()
}

func (s *driverSuite) sadd(key string, members ...string) {
	values := make([][]byte, 0, len(members))
	for _, m := range members {
		values = append(values, []byte(m))
	}

	_, err := s.set().SAdd([]byte(key), values...)
	s.Require().NoError(err)
}

func strs(values [][]byte) []string {
	var result []string
	for _, v := range values {
		result = append(result, string(v))
	}
	return result
}

func (s *driverSuite) TestCounter() {
	key := []byte("counter")

	_, err := s.data().Delete(key)
	s.Require().NoError(err)

	for _, expect := range []int64{1, 2, 3} {
		n, err := s.kv().IncrBy(key, 1)
		s.Require().NoError(err)
		s.Equal(expect, n)
	}

	for _, expect := range []int64{2, 1, 0} {
		n, err := s.kv().DecrBy(key, 1)
		s.Require().NoError(err)
		s.Equal(expect, n)
	}

	value, err := s.kv().Get(key)
	s.Require().NoError(err)
	s.Equal("0", string(value))
}

func (s *driverSuite) TestIncrErrors() {
	s.Require().NoError(s.kv().Set([]byte("str"), []byte("abc")))
	_, err := s.kv().IncrBy([]byte("str"), 1)
	s.Equal(ErrNotInteger, err)

	s.Require().NoError(s.kv().Set([]byte("max"), []byte("9223372036854775807")))
	_, err = s.kv().IncrBy([]byte("max"), 1)
	s.Equal(ErrOverflow, err)

	value, err := s.kv().Get([]byte("max"))
	s.Require().NoError(err)
	s.Equal("9223372036854775807", string(value), "failed incr must not change the value")

	_, err = s.kv().DecrBy([]byte("min"), -9223372036854775808)
	s.Equal(ErrOverflow, err)

	s.sadd("set", "a")
	_, err = s.kv().IncrBy([]byte("set"), 1)
	s.Equal(ErrWrongType, err)

	for _, v := range []string{"007", "+5", "-0", " 1"} {
		s.Require().NoError(s.kv().Set([]byte("loose"), []byte(v)))
		_, err = s.kv().IncrBy([]byte("loose"), 1)
		s.Equal(ErrNotInteger, err, v)
	}
}

func (s *driverSuite) TestIncrByFloat() {
	value, err := s.kv().IncrByFloat([]byte("f"), decimal.RequireFromString("10.5"))
	s.Require().NoError(err)
	s.Equal("10.5", string(value))

	value, err = s.kv().IncrByFloat([]byte("f"), decimal.RequireFromString("0.1"))
	s.Require().NoError(err)
	s.Equal("10.6", string(value))

	value, err = s.kv().IncrByFloat([]byte("f"), decimal.RequireFromString("-10.6"))
	s.Require().NoError(err)
	s.Equal("0", string(value))

	s.Require().NoError(s.kv().Set([]byte("bad"), []byte("1.2.3")))
	_, err = s.kv().IncrByFloat([]byte("bad"), decimal.NewFromInt(1))
	s.Equal(ErrNotFloat, err)
}

func (s *driverSuite) TestStrings() {
	value, err := s.kv().Get([]byte("k"))
	s.Require().NoError(err)
	s.Nil(value)

	n, err := s.kv().SetNX([]byte("k"), []byte("v1"))
	s.Require().NoError(err)
	s.Equal(int64(1), n)

	n, err = s.kv().SetNX([]byte("k"), []byte("v2"))
	s.Require().NoError(err)
	s.Equal(int64(0), n)

	old, err := s.kv().GetSet([]byte("k"), []byte("v3"))
	s.Require().NoError(err)
	s.Equal("v1", string(old))

	n, err = s.kv().Append([]byte("k"), []byte("45"))
	s.Require().NoError(err)
	s.Equal(int64(4), n)

	n, err = s.kv().StrLen([]byte("k"))
	s.Require().NoError(err)
	s.Equal(int64(4), n)

	s.Require().NoError(s.kv().Set([]byte("empty"), []byte{}))
	value, err = s.kv().Get([]byte("empty"))
	s.Require().NoError(err)
	s.NotNil(value)
	s.Len(value, 0)

	s.Require().NoError(s.kv().MSet([][]byte{[]byte("a"), []byte("b")}, [][]byte{[]byte("1"), []byte("2")}))
	s.sadd("set", "x")
	values, err := s.kv().MGet([]byte("a"), []byte("none"), []byte("b"), []byte("set"))
	s.Require().NoError(err)
	s.Len(values, 4)
	s.Equal("1", string(values[0]))
	s.Nil(values[1])
	s.Equal("2", string(values[2]))
	s.Nil(values[3])
}

func (s *driverSuite) TestSetReplacesSet() {
	s.sadd("key", "a", "b")
	s.Require().NoError(s.kv().Set([]byte("key"), []byte("v")))

	kind, err := s.data().Type([]byte("key"))
	s.Require().NoError(err)
	s.Equal(KindString, kind)

	s.sadd("key2", "a")
	_, err = s.set().SAdd([]byte("key"), []byte("a"))
	s.Equal(ErrWrongType, err)

	n, err := s.data().Delete([]byte("key"))
	s.Require().NoError(err)
	s.Equal(int64(1), n)

	members, err := s.set().SMembers([]byte("key"))
	s.Require().NoError(err)
	s.Empty(members)
}

func (s *driverSuite) TestSetIntersect() {
	_, err := s.data().Delete([]byte("foo-tags"), []byte("bar-tags"))
	s.Require().NoError(err)

	s.sadd("foo-tags", "one", "two", "three")
	s.sadd("bar-tags", "three", "four", "five")

	members, err := s.set().SInter([]byte("foo-tags"), []byte("bar-tags"))
	s.Require().NoError(err)
	s.Equal([]string{"three"}, strs(members))

	members, err = s.set().SMembers([]byte("foo-tags"))
	s.Require().NoError(err)
	s.ElementsMatch([]string{"one", "two", "three"}, strs(members))
}

func (s *driverSuite) TestSetAlgebra() {
	s.sadd("a", "1", "2", "3", "4")
	s.sadd("b", "3", "4", "5")
	s.sadd("c", "4", "6")

	members, err := s.set().SUnion([]byte("a"), []byte("b"), []byte("c"))
	s.Require().NoError(err)
	s.Equal([]string{"1", "2", "3", "4", "5", "6"}, strs(members))

	members, err = s.set().SDiff([]byte("a"), []byte("b"), []byte("c"))
	s.Require().NoError(err)
	s.Equal([]string{"1", "2"}, strs(members))

	members, err = s.set().SInter([]byte("a"), []byte("b"), []byte("c"))
	s.Require().NoError(err)
	s.Equal([]string{"4"}, strs(members))

	members, err = s.set().SInter([]byte("a"), []byte("missing"))
	s.Require().NoError(err)
	s.Empty(members)

	members, err = s.set().SDiff([]byte("missing"), []byte("a"))
	s.Require().NoError(err)
	s.Empty(members)

	s.Require().NoError(s.kv().Set([]byte("str"), []byte("v")))
	_, err = s.set().SUnion([]byte("a"), []byte("str"))
	s.Equal(ErrWrongType, err)
}

func (s *driverSuite) TestSetStore() {
	s.sadd("a", "1", "2", "3")
	s.sadd("b", "2", "3", "4")
	s.Require().NoError(s.kv().Set([]byte("dst"), []byte("v")))

	n, err := s.set().SInterStore([]byte("dst"), []byte("a"), []byte("b"))
	s.Require().NoError(err)
	s.Equal(int64(2), n)

	members, err := s.set().SMembers([]byte("dst"))
	s.Require().NoError(err)
	s.Equal([]string{"2", "3"}, strs(members))

	n, err = s.set().SUnionStore([]byte("dst"), []byte("a"), []byte("b"))
	s.Require().NoError(err)
	s.Equal(int64(4), n)

	n, err = s.set().SDiffStore([]byte("a"), []byte("a"), []byte("b"))
	s.Require().NoError(err)
	s.Equal(int64(1), n)

	members, err = s.set().SMembers([]byte("a"))
	s.Require().NoError(err)
	s.Equal([]string{"1"}, strs(members))

	n, err = s.set().SInterStore([]byte("dst"), []byte("a"), []byte("missing"))
	s.Require().NoError(err)
	s.Equal(int64(0), n)

	kind, err := s.data().Type([]byte("dst"))
	s.Require().NoError(err)
	s.Equal(KindNone, kind)
}

func (s *driverSuite) TestSetMembers() {
	n, err := s.set().SAdd([]byte("s"), []byte("a"), []byte("b"), []byte("a"))
	s.Require().NoError(err)
	s.Equal(int64(2), n)

	n, err = s.set().SAdd([]byte("s"), []byte("a"))
	s.Require().NoError(err)
	s.Equal(int64(0), n)

	n, err = s.set().SCard([]byte("s"))
	s.Require().NoError(err)
	s.Equal(int64(2), n)

	n, err = s.set().SIsMember([]byte("s"), []byte("b"))
	s.Require().NoError(err)
	s.Equal(int64(1), n)

	n, err = s.set().SIsMember([]byte("s"), []byte("c"))
	s.Require().NoError(err)
	s.Equal(int64(0), n)

	n, err = s.set().SRem([]byte("s"), []byte("a"), []byte("c"))
	s.Require().NoError(err)
	s.Equal(int64(1), n)

	member, err := s.set().SPop([]byte("s"))
	s.Require().NoError(err)
	s.Equal("b", string(member))

	member, err = s.set().SPop([]byte("s"))
	s.Require().NoError(err)
	s.Nil(member)

	n, err = s.data().Exists([]byte("s"))
	s.Require().NoError(err)
	s.Equal(int64(0), n)

	s.sadd("r", "x")
	n, err = s.set().SRem([]byte("r"), []byte("x"))
	s.Require().NoError(err)
	s.Equal(int64(1), n)

	kind, err := s.data().Type([]byte("r"))
	s.Require().NoError(err)
	s.Equal(KindNone, kind)
}

func (s *driverSuite) TestKeySpace() {
	s.Require().NoError(s.kv().Set([]byte("user:1"), []byte("a")))
	s.Require().NoError(s.kv().Set([]byte("user:2"), []byte("b")))
	s.sadd("user:tags", "t")
	s.sadd("other", "t")

	keys, err := s.data().Keys([]byte("user:*"))
	s.Require().NoError(err)
	s.Equal([]string{"user:1", "user:2", "user:tags"}, strs(keys))

	keys, err = s.data().Keys([]byte("user:?"))
	s.Require().NoError(err)
	s.Equal([]string{"user:1", "user:2"}, strs(keys))

	n, err := s.data().DBSize()
	s.Require().NoError(err)
	s.Equal(int64(4), n)

	n, err = s.data().Exists([]byte("user:1"), []byte("user:1"), []byte("none"))
	s.Require().NoError(err)
	s.Equal(int64(2), n)

	kind, err := s.data().Type([]byte("other"))
	s.Require().NoError(err)
	s.Equal("set", kind.String())

	n, err = s.data().Delete([]byte("user:1"), []byte("other"), []byte("none"))
	s.Require().NoError(err)
	s.Equal(int64(2), n)

	s.Require().NoError(s.data().FlushAll())
	n, err = s.data().DBSize()
	s.Require().NoError(err)
	s.Equal(int64(0), n)
}

func (s *driverSuite) TestConcurrentIncr() {
	workers, times := 64, 50

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < times; j++ {
				_, err := s.kv().IncrBy([]byte("counter"), 1)
				s.NoError(err)
			}
		}()
	}
	wg.Wait()

	value, err := s.kv().Get([]byte("counter"))
	s.Require().NoError(err)
	s.Equal(fmt.Sprintf("%d", workers*times), string(value))
}

func (s *driverSuite) TestConcurrentSAdd() {
	workers, times := 64, 20

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < times; j++ {
				n, err := s.set().SAdd([]byte("tags"), []byte(fmt.Sprintf("%d-%d", i, j)))
				s.NoError(err)
				s.Equal(int64(1), n)
			}
		}(i)
	}
	wg.Wait()

	n, err := s.set().SCard([]byte("tags"))
	s.Require().NoError(err)
	s.Equal(int64(workers*times), n)
}

func addLargeSet(t *testing.T, driver Driver, key []byte, batches, batchSize int) {
	for i := 0; i < batches; i++ {
		members := make([][]byte, 0, batchSize)
		for j := 0; j < batchSize; j++ {
			members = append(members, []byte(fmt.Sprintf("member-%08d", i*batchSize+j)))
		}

		n, err := driver.GetSetEngine().SAdd(key, members...)
		require.NoError(t, err)
		require.Equal(t, int64(batchSize), n)
	}
}

func countMemberKeys(t *testing.T, d *badgerDriver) int64 {
	var n int64
	require.NoError(t, d.view(func(txn *badger.Txn) error {
		n = countKeys(txn, []byte{memberPrefix})
		return nil
	}))
	return n
}

func TestBadgerDeleteLargeSet(t *testing.T) {
	driver, err := NewBadgerDriver(&BadgerCfg{InMemory: true})
	require.NoError(t, err)
	defer driver.Close()
	d := driver.(*badgerDriver)

	// larger than a single badger txn can hold
	key := []byte("large")
	addLargeSet(t, driver, key, 40, 5000)
	n, err := driver.GetSetEngine().SCard(key)
	require.NoError(t, err)
	require.Equal(t, int64(200000), n)

	n, err = driver.GetDataEngine().Delete(key)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = driver.GetDataEngine().Exists(key)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	n, err = driver.GetSetEngine().SCard(key)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	// a new set at the same key does not see the old members
	_, err = driver.GetSetEngine().SAdd(key, []byte("a"))
	require.NoError(t, err)
	members, err := driver.GetSetEngine().SMembers(key)
	require.NoError(t, err)
	assert.Equal(t, [][]byte{[]byte("a")}, members)

	require.NoError(t, d.collectGarbage())
	assert.Equal(t, int64(1), countMemberKeys(t, d))
}

func TestBadgerReplaceLargeSet(t *testing.T) {
	driver, err := NewBadgerDriver(&BadgerCfg{InMemory: true})
	require.NoError(t, err)
	defer driver.Close()
	d := driver.(*badgerDriver)

	key := []byte("large")
	addLargeSet(t, driver, key, 40, 5000)
	require.NoError(t, driver.GetKVEngine().Set(key, []byte("v")))

	kind, err := driver.GetDataEngine().Type(key)
	require.NoError(t, err)
	assert.Equal(t, KindString, kind)

	// the store destination is replaced too
	src := []byte("src")
	addLargeSet(t, driver, src, 2, 5000)
	n, err := driver.GetSetEngine().SDiffStore(src, src, src)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	n, err = driver.GetDataEngine().Exists(src)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	require.NoError(t, d.collectGarbage())
	assert.Equal(t, int64(0), countMemberKeys(t, d))
}
