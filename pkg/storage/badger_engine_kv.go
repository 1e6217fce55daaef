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
	"github.com/deepfabric/cellkv/pkg/util"
	"github.com/dgraph-io/badger/v4"
	"github.com/shopspring/decimal"
)

type badgerKVEngine struct {
	d *badgerDriver
}

func (e *badgerKVEngine) Set(key, value []byte) error {
	return e.d.update(func(txn *badger.Txn) error {
		return e.d.putString(txn, key, value)
	})
}

func (e *badgerKVEngine) Get(key []byte) ([]byte, error) {
	var value []byte
	err := e.d.view(func(txn *badger.Txn) error {
		var err error
		value, err = getString(txn, key)
		return err
	})

	return value, err
}

func (e *badgerKVEngine) SetNX(key, value []byte) (int64, error) {
	var n int64
	err := e.d.update(func(txn *badger.Txn) error {
		n = 0
		kind, err := getKind(txn, key)
		if err != nil || kind != KindNone {
			return err
		}

		n = 1
		return e.d.putString(txn, key, value)
	})

	return n, err
}

func (e *badgerKVEngine) GetSet(key, value []byte) ([]byte, error) {
	var old []byte
	err := e.d.update(func(txn *badger.Txn) error {
		var err error
		old, err = getString(txn, key)
		if err != nil {
			return err
		}

		return e.d.putString(txn, key, value)
	})

	return old, err
}

func (e *badgerKVEngine) Append(key, value []byte) (int64, error) {
	var n int64
	err := e.d.update(func(txn *badger.Txn) error {
		old, err := getString(txn, key)
		if err != nil {
			return err
		}

		newValue := make([]byte, 0, len(old)+len(value))
		newValue = append(newValue, old...)
		newValue = append(newValue, value...)
		n = int64(len(newValue))
		return e.d.putString(txn, key, newValue)
	})

	return n, err
}

func (e *badgerKVEngine) StrLen(key []byte) (int64, error) {
	value, err := e.Get(key)
	return int64(len(value)), err
}

func (e *badgerKVEngine) MGet(keys ...[]byte) ([][]byte, error) {
	values := make([][]byte, len(keys))
	err := e.d.view(func(txn *badger.Txn) error {
		for i, key := range keys {
			value, err := getString(txn, key)
			if err == ErrWrongType {
				continue
			} else if err != nil {
				return err
			}
			values[i] = value
		}
		return nil
	})

	return values, err
}

func (e *badgerKVEngine) MSet(keys [][]byte, values [][]byte) error {
	return e.d.update(func(txn *badger.Txn) error {
		for i := 0; i < len(keys); i++ {
			if err := e.d.putString(txn, keys[i], values[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

func (e *badgerKVEngine) IncrBy(key []byte, incr int64) (int64, error) {
	var n int64
	err := e.d.update(func(txn *badger.Txn) error {
		value, err := getString(txn, key)
		if err != nil {
			return err
		}

		n, err = incrValue(value, incr)
		if err != nil {
			return err
		}

		return e.d.putString(txn, key, util.FormatInt64ToBytes(n))
	})

	return n, err
}

func (e *badgerKVEngine) DecrBy(key []byte, decr int64) (int64, error) {
	incr, err := util.NegInt64(decr)
	if err != nil {
		return 0, ErrOverflow
	}

	return e.IncrBy(key, incr)
}

func (e *badgerKVEngine) IncrByFloat(key []byte, incr decimal.Decimal) ([]byte, error) {
	var newValue []byte
	err := e.d.update(func(txn *badger.Txn) error {
		value, err := getString(txn, key)
		if err != nil {
			return err
		}

		newValue, err = incrFloatValue(value, incr)
		if err != nil {
			return err
		}

		return e.d.putString(txn, key, newValue)
	})

	return newValue, err
}
