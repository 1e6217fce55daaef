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
	"github.com/fagongzi/util/hack"
	"github.com/samber/lo"
)

type memorySetEngine struct {
	d *memoryDriver
}

func (e *memorySetEngine) SAdd(key []byte, members ...[]byte) (int64, error) {
	e.d.Lock()
	defer e.d.Unlock()

	value, err := e.d.get(key, KindSet)
	if err != nil {
		return 0, err
	}

	if value == nil {
		value = &memoryValue{
			kind:    KindSet,
			members: make(map[string]struct{}, len(members)),
		}
		e.d.kv.Put(key, value)
	}

	var n int64
	for _, member := range members {
		if _, ok := value.members[string(member)]; !ok {
			value.members[string(member)] = struct{}{}
			n++
		}
	}

	return n, nil
}

func (e *memorySetEngine) SRem(key []byte, members ...[]byte) (int64, error) {
	e.d.Lock()
	defer e.d.Unlock()

	value, err := e.d.get(key, KindSet)
	if err != nil || value == nil {
		return 0, err
	}

	var n int64
	for _, member := range members {
		if _, ok := value.members[hack.SliceToString(member)]; ok {
			delete(value.members, hack.SliceToString(member))
			n++
		}
	}

	if len(value.members) == 0 {
		e.d.kv.Delete(key)
	}

	return n, nil
}

func (e *memorySetEngine) SCard(key []byte) (int64, error) {
	e.d.RLock()
	defer e.d.RUnlock()

	value, err := e.d.get(key, KindSet)
	if err != nil || value == nil {
		return 0, err
	}

	return int64(len(value.members)), nil
}

func (e *memorySetEngine) SMembers(key []byte) ([][]byte, error) {
	e.d.RLock()
	defer e.d.RUnlock()

	value, err := e.d.get(key, KindSet)
	if err != nil || value == nil {
		return nil, err
	}

	return sortedMembers(lo.Keys(value.members)), nil
}

func (e *memorySetEngine) SIsMember(key []byte, member []byte) (int64, error) {
	e.d.RLock()
	defer e.d.RUnlock()

	value, err := e.d.get(key, KindSet)
	if err != nil || value == nil {
		return 0, err
	}

	if _, ok := value.members[hack.SliceToString(member)]; ok {
		return 1, nil
	}

	return 0, nil
}

func (e *memorySetEngine) SPop(key []byte) ([]byte, error) {
	e.d.Lock()
	defer e.d.Unlock()

	value, err := e.d.get(key, KindSet)
	if err != nil || value == nil {
		return nil, err
	}

	var member string
	for member = range value.members {
		break
	}

	delete(value.members, member)
	if len(value.members) == 0 {
		e.d.kv.Delete(key)
	}

	return []byte(member), nil
}

func (e *memorySetEngine) SInter(keys ...[]byte) ([][]byte, error) {
	return e.compute(opInter, keys)
}

func (e *memorySetEngine) SUnion(keys ...[]byte) ([][]byte, error) {
	return e.compute(opUnion, keys)
}

func (e *memorySetEngine) SDiff(keys ...[]byte) ([][]byte, error) {
	return e.compute(opDiff, keys)
}

func (e *memorySetEngine) SInterStore(dst []byte, keys ...[]byte) (int64, error) {
	return e.store(opInter, dst, keys)
}

func (e *memorySetEngine) SUnionStore(dst []byte, keys ...[]byte) (int64, error) {
	return e.store(opUnion, dst, keys)
}

func (e *memorySetEngine) SDiffStore(dst []byte, keys ...[]byte) (int64, error) {
	return e.store(opDiff, dst, keys)
}

func (e *memorySetEngine) compute(op setOp, keys [][]byte) ([][]byte, error) {
	e.d.RLock()
	defer e.d.RUnlock()

	members, err := e.doCompute(op, keys)
	if err != nil {
		return nil, err
	}

	return sortedMembers(members), nil
}

func (e *memorySetEngine) store(op setOp, dst []byte, keys [][]byte) (int64, error) {
	e.d.Lock()
	defer e.d.Unlock()

	members, err := e.doCompute(op, keys)
	if err != nil {
		return 0, err
	}

	e.d.kv.Delete(dst)
	if len(members) == 0 {
		return 0, nil
	}

	value := &memoryValue{
		kind:    KindSet,
		members: make(map[string]struct{}, len(members)),
	}
	for _, member := range members {
		value.members[member] = struct{}{}
	}
	e.d.kv.Put(dst, value)

	return int64(len(members)), nil
}

func (e *memorySetEngine) doCompute(op setOp, keys [][]byte) ([]string, error) {
	sets := make([][]string, 0, len(keys))
	for _, key := range keys {
		value, err := e.d.get(key, KindSet)
		if err != nil {
			return nil, err
		}

		if value == nil {
			sets = append(sets, nil)
			continue
		}

		sets = append(sets, lo.Keys(value.members))
	}

	return op.apply(sets), nil
}
