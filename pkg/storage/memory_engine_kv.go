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
	"github.com/shopspring/decimal"
)

type memoryKVEngine struct {
	d *memoryDriver
}

func (e *memoryKVEngine) Set(key, value []byte) error {
	e.d.Lock()
	e.d.putString(key, value)
	e.d.Unlock()

	return nil
}

func (e *memoryKVEngine) Get(key []byte) ([]byte, error) {
	e.d.RLock()
	defer e.d.RUnlock()

	return e.d.getString(key)
}

func (e *memoryKVEngine) SetNX(key, value []byte) (int64, error) {
	e.d.Lock()
	defer e.d.Unlock()

	if e.d.kv.Get(key) != nil {
		return 0, nil
	}

	e.d.putString(key, value)
	return 1, nil
}

func (e *memoryKVEngine) GetSet(key, value []byte) ([]byte, error) {
	e.d.Lock()
	defer e.d.Unlock()

	old, err := e.d.getString(key)
	if err != nil {
		return nil, err
	}

	e.d.putString(key, value)
	return old, nil
}

func (e *memoryKVEngine) Append(key, value []byte) (int64, error) {
	e.d.Lock()
	defer e.d.Unlock()

	old, err := e.d.getString(key)
	if err != nil {
		return 0, err
	}

	newValue := make([]byte, 0, len(old)+len(value))
	newValue = append(newValue, old...)
	newValue = append(newValue, value...)
	e.d.putString(key, newValue)
	return int64(len(newValue)), nil
}

func (e *memoryKVEngine) StrLen(key []byte) (int64, error) {
	e.d.RLock()
	defer e.d.RUnlock()

	value, err := e.d.getString(key)
	return int64(len(value)), err
}

func (e *memoryKVEngine) MGet(keys ...[]byte) ([][]byte, error) {
	e.d.RLock()
	defer e.d.RUnlock()

	values := make([][]byte, len(keys))
	for i, key := range keys {
		// a key of other kind is treated as not exists
		values[i], _ = e.d.getString(key)
	}

	return values, nil
}

func (e *memoryKVEngine) MSet(keys [][]byte, values [][]byte) error {
	e.d.Lock()
	for i := 0; i < len(keys); i++ {
		e.d.putString(keys[i], values[i])
	}
	e.d.Unlock()

	return nil
}

func (e *memoryKVEngine) IncrBy(key []byte, incr int64) (int64, error) {
	e.d.Lock()
	defer e.d.Unlock()

	value, err := e.d.getString(key)
	if err != nil {
		return 0, err
	}

	n, err := incrValue(value, incr)
	if err != nil {
		return 0, err
	}

	e.d.putString(key, util.FormatInt64ToBytes(n))
	return n, nil
}

func (e *memoryKVEngine) DecrBy(key []byte, decr int64) (int64, error) {
	incr, err := util.NegInt64(decr)
	if err != nil {
		return 0, ErrOverflow
	}

	return e.IncrBy(key, incr)
}

func (e *memoryKVEngine) IncrByFloat(key []byte, incr decimal.Decimal) ([]byte, error) {
	e.d.Lock()
	defer e.d.Unlock()

	value, err := e.d.getString(key)
	if err != nil {
		return nil, err
	}

	newValue, err := incrFloatValue(value, incr)
	if err != nil {
		return nil, err
	}

	e.d.putString(key, newValue)
	return newValue, nil
}
