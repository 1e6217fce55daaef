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
	"github.com/shopspring/decimal"
)

// Kind is the kind of the value stored at a key
type Kind byte

const (
	// KindNone the key is not exists
	KindNone = Kind(0)
	// KindString the key holds a string, counters are strings
	KindString = Kind(1)
	// KindSet the key holds a set
	KindSet = Kind(2)
)

// String returns the name used by the TYPE command
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindSet:
		return "set"
	}
	return "none"
}

// Driver is def storage interface
type Driver interface {
	GetDataEngine() DataEngine
	GetKVEngine() KVEngine
	GetSetEngine() SetEngine
	Close() error
}

// DataEngine is the key space engine, works on keys of any kind
type DataEngine interface {
	// Delete deletes the keys, returns the number of keys deleted
	Delete(keys ...[]byte) (int64, error)
	// Exists returns the number of the keys exists, a key is counted every time it appears
	Exists(keys ...[]byte) (int64, error)
	Type(key []byte) (Kind, error)
	// Keys returns the keys match the glob style pattern in order
	Keys(pattern []byte) ([][]byte, error)
	DBSize() (int64, error)
	FlushAll() error
}

// KVEngine is the string and counter engine
type KVEngine interface {
	Set(key, value []byte) error
	// Get returns nil if the key is not exists
	Get(key []byte) ([]byte, error)
	SetNX(key, value []byte) (int64, error)
	GetSet(key, value []byte) ([]byte, error)
	Append(key, value []byte) (int64, error)
	StrLen(key []byte) (int64, error)
	MGet(keys ...[]byte) ([][]byte, error)
	MSet(keys [][]byte, values [][]byte) error
	// IncrBy treats a not exists key as 0
	IncrBy(key []byte, incr int64) (int64, error)
	DecrBy(key []byte, decr int64) (int64, error)
	IncrByFloat(key []byte, incr decimal.Decimal) ([]byte, error)
}

// SetEngine is the set engine, a set which has no member is deleted
type SetEngine interface {
	SAdd(key []byte, members ...[]byte) (int64, error)
	SRem(key []byte, members ...[]byte) (int64, error)
	SCard(key []byte) (int64, error)
	SMembers(key []byte) ([][]byte, error)
	SIsMember(key []byte, member []byte) (int64, error)
	// SPop returns nil if the key is not exists
	SPop(key []byte) ([]byte, error)
	SInter(keys ...[]byte) ([][]byte, error)
	SUnion(keys ...[]byte) ([][]byte, error)
	SDiff(keys ...[]byte) ([][]byte, error)
	SInterStore(dst []byte, keys ...[]byte) (int64, error)
	SUnionStore(dst []byte, keys ...[]byte) (int64, error)
	SDiffStore(dst []byte, keys ...[]byte) (int64, error)
}
