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
	"github.com/dgraph-io/badger/v4"
	"github.com/fagongzi/util/hack"
)

type badgerSetEngine struct {
	d *badgerDriver
}

func (e *badgerSetEngine) SAdd(key []byte, members ...[]byte) (int64, error) {
	var n int64
	err := e.d.update(func(txn *badger.Txn) error {
		n = 0
		m, exists, err := checkKind(txn, key, KindSet)
		if err != nil {
			return err
		}

		if !exists {
			m, err = e.d.newSet(txn, key)
			if err != nil {
				return err
			}
		}

		for _, member := range members {
			memberKey := encodeMemberKey(m.id, member)
			_, err := txn.Get(memberKey)
			if err == nil {
				continue
			} else if err != badger.ErrKeyNotFound {
				return err
			}

			if err := txn.Set(memberKey, nil); err != nil {
				return err
			}
			n++
		}
		return nil
	})

	return n, err
}

func (e *badgerSetEngine) SRem(key []byte, members ...[]byte) (int64, error) {
	var n int64
	err := e.d.update(func(txn *badger.Txn) error {
		n = 0
		m, exists, err := checkKind(txn, key, KindSet)
		if err != nil || !exists {
			return err
		}

		for _, member := range members {
			memberKey := encodeMemberKey(m.id, member)
			_, err := txn.Get(memberKey)
			if err == badger.ErrKeyNotFound {
				continue
			} else if err != nil {
				return err
			}

			if err := txn.Delete(memberKey); err != nil {
				return err
			}
			n++
		}

		left, err := scanKeys(txn, encodeID(memberPrefix, m.id), 1)
		if err != nil {
			return err
		}

		if len(left) == 0 {
			return txn.Delete(encodeKey(metaPrefix, key))
		}
		return nil
	})

	return n, err
}

func (e *badgerSetEngine) SCard(key []byte) (int64, error) {
	var n int64
	err := e.d.view(func(txn *badger.Txn) error {
		m, exists, err := checkKind(txn, key, KindSet)
		if err != nil || !exists {
			return err
		}

		n = countKeys(txn, encodeID(memberPrefix, m.id))
		return nil
	})

	return n, err
}

func (e *badgerSetEngine) SMembers(key []byte) ([][]byte, error) {
	var members [][]byte
	err := e.d.view(func(txn *badger.Txn) error {
		var err error
		members, err = getMembers(txn, key)
		return err
	})

	return members, err
}

func (e *badgerSetEngine) SIsMember(key []byte, member []byte) (int64, error) {
	var n int64
	err := e.d.view(func(txn *badger.Txn) error {
		m, exists, err := checkKind(txn, key, KindSet)
		if err != nil || !exists {
			return err
		}

		_, err = txn.Get(encodeMemberKey(m.id, member))
		if err == badger.ErrKeyNotFound {
			return nil
		} else if err != nil {
			return err
		}

		n = 1
		return nil
	})

	return n, err
}

func (e *badgerSetEngine) SPop(key []byte) ([]byte, error) {
	var member []byte
	err := e.d.update(func(txn *badger.Txn) error {
		member = nil
		m, exists, err := checkKind(txn, key, KindSet)
		if err != nil || !exists {
			return err
		}

		// the smallest member and whether it is the last one
		members, err := scanKeys(txn, encodeID(memberPrefix, m.id), 2)
		if err != nil || len(members) == 0 {
			return err
		}

		member = members[0]
		if err := txn.Delete(encodeMemberKey(m.id, member)); err != nil {
			return err
		}

		if len(members) == 1 {
			return txn.Delete(encodeKey(metaPrefix, key))
		}
		return nil
	})

	return member, err
}

func (e *badgerSetEngine) SInter(keys ...[]byte) ([][]byte, error) {
	return e.compute(opInter, keys)
}

func (e *badgerSetEngine) SUnion(keys ...[]byte) ([][]byte, error) {
	return e.compute(opUnion, keys)
}

func (e *badgerSetEngine) SDiff(keys ...[]byte) ([][]byte, error) {
	return e.compute(opDiff, keys)
}

func (e *badgerSetEngine) SInterStore(dst []byte, keys ...[]byte) (int64, error) {
	return e.store(opInter, dst, keys)
}

func (e *badgerSetEngine) SUnionStore(dst []byte, keys ...[]byte) (int64, error) {
	return e.store(opUnion, dst, keys)
}

func (e *badgerSetEngine) SDiffStore(dst []byte, keys ...[]byte) (int64, error) {
	return e.store(opDiff, dst, keys)
}

func (e *badgerSetEngine) compute(op setOp, keys [][]byte) ([][]byte, error) {
	var members []string
	err := e.d.view(func(txn *badger.Txn) error {
		var err error
		members, err = doCompute(txn, op, keys)
		return err
	})
	if err != nil {
		return nil, err
	}

	return sortedMembers(members), nil
}

func (e *badgerSetEngine) store(op setOp, dst []byte, keys [][]byte) (int64, error) {
	var n int64
	err := e.d.update(func(txn *badger.Txn) error {
		members, err := doCompute(txn, op, keys)
		if err != nil {
			return err
		}

		if _, err := e.d.deleteKey(txn, dst); err != nil {
			return err
		}

		n = int64(len(members))
		if n == 0 {
			return nil
		}

		m, err := e.d.newSet(txn, dst)
		if err != nil {
			return err
		}

		for _, member := range members {
			if err := txn.Set(encodeMemberKey(m.id, hack.StringToSlice(member)), nil); err != nil {
				return err
			}
		}
		return nil
	})

	return n, err
}

func getMembers(txn *badger.Txn, key []byte) ([][]byte, error) {
	m, exists, err := checkKind(txn, key, KindSet)
	if err != nil || !exists {
		return nil, err
	}

	return scanKeys(txn, encodeID(memberPrefix, m.id), 0)
}

func doCompute(txn *badger.Txn, op setOp, keys [][]byte) ([]string, error) {
	sets := make([][]string, 0, len(keys))
	for _, key := range keys {
		members, err := getMembers(txn, key)
		if err != nil {
			return nil, err
		}

		set := make([]string, 0, len(members))
		for _, member := range members {
			set = append(set, string(member))
		}
		sets = append(sets, set)
	}

	return op.apply(sets), nil
}
