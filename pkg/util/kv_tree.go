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
	"bytes"

	"github.com/google/btree"
)

const (
	defaultBTreeDegree = 64
)

type treeItem struct {
	key   []byte
	value interface{}
}

// Less returns true if the item key is less than the other.
func (item *treeItem) Less(other btree.Item) bool {
	return bytes.Compare(item.key, other.(*treeItem).key) < 0
}

// KVTree is a ordered key space on a btree, the values are owned by the caller.
// It is not safe for concurrent use, the caller must hold a lock.
type KVTree struct {
	tree *btree.BTree
}

// NewKVTree return a kv btree
func NewKVTree() *KVTree {
	return &KVTree{
		tree: btree.New(defaultBTreeDegree),
	}
}

// Put puts a key, value to the tree
func (kv *KVTree) Put(key []byte, value interface{}) {
	kv.tree.ReplaceOrInsert(&treeItem{
		key:   key,
		value: value,
	})
}

// Get get value, return nil if not the key is not exists
func (kv *KVTree) Get(key []byte) interface{} {
	item := kv.tree.Get(&treeItem{key: key})
	if item == nil {
		return nil
	}

	return item.(*treeItem).value
}

// Delete deletes a key, return false if not the key is not exists
func (kv *KVTree) Delete(key []byte) bool {
	return nil != kv.tree.Delete(&treeItem{key: key})
}

// Len returns the number of keys
func (kv *KVTree) Len() int {
	return kv.tree.Len()
}

// Clear removes all keys
func (kv *KVTree) Clear() {
	kv.tree.Clear(false)
}

// Scan scans in [start, end), nil end means no upper bound.
// The handler may modify the tree, returns false means end the scan.
func (kv *KVTree) Scan(start, end []byte, handler func(key []byte, value interface{}) (bool, error)) error {
	var items []*treeItem
	kv.tree.AscendGreaterOrEqual(&treeItem{key: start}, func(i btree.Item) bool {
		target := i.(*treeItem)
		if end != nil && bytes.Compare(target.key, end) >= 0 {
			return false
		}

		items = append(items, target)
		return true
	})

	for _, target := range items {
		c, err := handler(target.key, target.value)
		if err != nil || !c {
			return err
		}
	}

	return nil
}
