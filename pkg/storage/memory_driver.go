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
	"sync"

	"github.com/deepfabric/cellkv/pkg/util"
)

// memoryValue is the value of a key, value is used by KindString,
// members is used by KindSet.
type memoryValue struct {
	kind    Kind
	value   []byte
	members map[string]struct{}
}

type memoryDriver struct {
	sync.RWMutex

	kv *util.KVTree

	dataEngine DataEngine
	kvEngine   KVEngine
	setEngine  SetEngine
}

// NewMemoryDriver returns Driver with memory implemention
func NewMemoryDriver() Driver {
	d := &memoryDriver{
		kv: util.NewKVTree(),
	}
	d.dataEngine = &memoryDataEngine{d: d}
	d.kvEngine = &memoryKVEngine{d: d}
	d.setEngine = &memorySetEngine{d: d}
	return d
}

func (d *memoryDriver) GetDataEngine() DataEngine {
	return d.dataEngine
}

func (d *memoryDriver) GetKVEngine() KVEngine {
	return d.kvEngine
}

func (d *memoryDriver) GetSetEngine() SetEngine {
	return d.setEngine
}

func (d *memoryDriver) Close() error {
	d.Lock()
	d.kv.Clear()
	d.Unlock()
	return nil
}

// get returns nil if the key is not exists, or ErrWrongType
// if the key is not the expect kind.
func (d *memoryDriver) get(key []byte, expect Kind) (*memoryValue, error) {
	v := d.kv.Get(key)
	if v == nil {
		return nil, nil
	}

	value := v.(*memoryValue)
	if value.kind != expect {
		return nil, ErrWrongType
	}

	return value, nil
}

func (d *memoryDriver) getString(key []byte) ([]byte, error) {
	value, err := d.get(key, KindString)
	if err != nil || value == nil {
		return nil, err
	}

	return value.value, nil
}

func (d *memoryDriver) putString(key, value []byte) {
	d.kv.Put(key, &memoryValue{
		kind:  KindString,
		value: value,
	})
}
