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
)

type badgerDataEngine struct {
	d *badgerDriver
}

func (e *badgerDataEngine) Delete(keys ...[]byte) (int64, error) {
	var n int64
	err := e.d.update(func(txn *badger.Txn) error {
		n = 0
		for _, key := range keys {
			deleted, err := e.d.deleteKey(txn, key)
			if err != nil {
				return err
			}

			if deleted {
				n++
			}
		}
		return nil
	})

	return n, err
}

func (e *badgerDataEngine) Exists(keys ...[]byte) (int64, error) {
	var n int64
	err := e.d.view(func(txn *badger.Txn) error {
		for _, key := range keys {
			kind, err := getKind(txn, key)
			if err != nil {
				return err
			}

			if kind != KindNone {
				n++
			}
		}
		return nil
	})

	return n, err
}

func (e *badgerDataEngine) Type(key []byte) (Kind, error) {
	kind := KindNone
	err := e.d.view(func(txn *badger.Txn) error {
		var err error
		kind, err = getKind(txn, key)
		return err
	})

	return kind, err
}

func (e *badgerDataEngine) Keys(pattern []byte) ([][]byte, error) {
	var keys [][]byte
	err := e.d.view(func(txn *badger.Txn) error {
		all, err := scanKeys(txn, []byte{metaPrefix}, 0)
		if err != nil {
			return err
		}

		for _, key := range all {
			if util.MatchPattern(pattern, key) {
				keys = append(keys, key)
			}
		}
		return nil
	})

	return keys, err
}

func (e *badgerDataEngine) DBSize() (int64, error) {
	var n int64
	err := e.d.view(func(txn *badger.Txn) error {
		n = countKeys(txn, []byte{metaPrefix})
		return nil
	})

	return n, err
}

// FlushAll drops the user data, the set id sequence is kept so the ids
// are never reused.
func (e *badgerDataEngine) FlushAll() error {
	e.d.writeLock.Lock()
	defer e.d.writeLock.Unlock()

	return e.d.db.DropPrefix([]byte{metaPrefix},
		[]byte{stringPrefix},
		[]byte{memberPrefix},
		[]byte{garbagePrefix})
}
