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
)

type memoryDataEngine struct {
	d *memoryDriver
}

func (e *memoryDataEngine) Delete(keys ...[]byte) (int64, error) {
	e.d.Lock()
	defer e.d.Unlock()

	var n int64
	for _, key := range keys {
		if e.d.kv.Delete(key) {
			n++
		}
	}

	return n, nil
}

func (e *memoryDataEngine) Exists(keys ...[]byte) (int64, error) {
	e.d.RLock()
	defer e.d.RUnlock()

	var n int64
	for _, key := range keys {
		if e.d.kv.Get(key) != nil {
			n++
		}
	}

	return n, nil
}

func (e *memoryDataEngine) Type(key []byte) (Kind, error) {
	e.d.RLock()
	defer e.d.RUnlock()

	v := e.d.kv.Get(key)
	if v == nil {
		return KindNone, nil
	}

	return v.(*memoryValue).kind, nil
}

func (e *memoryDataEngine) Keys(pattern []byte) ([][]byte, error) {
	e.d.RLock()
	defer e.d.RUnlock()

	var keys [][]byte
	err := e.d.kv.Scan(nil, nil, func(key []byte, value interface{}) (bool, error) {
		if util.MatchPattern(pattern, key) {
			keys = append(keys, key)
		}
		return true, nil
	})

	return keys, err
}

func (e *memoryDataEngine) DBSize() (int64, error) {
	e.d.RLock()
	n := e.d.kv.Len()
	e.d.RUnlock()

	return int64(n), nil
}

func (e *memoryDataEngine) FlushAll() error {
	e.d.Lock()
	e.d.kv.Clear()
	e.d.Unlock()

	return nil
}
