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
	"encoding/binary"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/fagongzi/log"
	"github.com/pkg/errors"
)

const (
	setIDBandwidth = 1000
	gcBatchSize    = 1000
)

var (
	metaPrefix    = byte('m')
	stringPrefix  = byte('k')
	memberPrefix  = byte('s')
	garbagePrefix = byte('g')

	setIDKey = []byte("#set-id")
)

// BadgerCfg badger driver cfg
type BadgerCfg struct {
	DataPath   string `json:"dataPath" yaml:"dataPath"`
	InMemory   bool   `json:"inMemory" yaml:"inMemory"`
	SyncWrites bool   `json:"syncWrites" yaml:"syncWrites"`
}

// meta is the value of the m|key, a set has a id which is never reused,
// the members of the set are stored under the id.
type meta struct {
	kind Kind
	id   uint64
}

func (m meta) encode() []byte {
	if m.kind != KindSet {
		return []byte{byte(m.kind)}
	}

	value := make([]byte, 9)
	value[0] = byte(m.kind)
	binary.BigEndian.PutUint64(value[1:], m.id)
	return value
}

type badgerDriver struct {
	db     *badger.DB
	setIDs *badger.Sequence

	// all read-write txns of the driver are serialised by writeLock,
	// so they never conflict with each other.
	writeLock sync.Mutex
	garbage   bool

	gcC   chan struct{}
	stopC chan struct{}
	gcWG  sync.WaitGroup

	dataEngine DataEngine
	kvEngine   KVEngine
	setEngine  SetEngine
}

// NewBadgerDriver returns Driver with badger implemention,
// the keys are stored as:
// m|key -> kind[|set id], k|key -> value, s|set id|member -> empty,
// g|set id -> empty for the deleted sets whose members are not removed yet.
func NewBadgerDriver(cfg *BadgerCfg) (Driver, error) {
	opts := badger.DefaultOptions(cfg.DataPath).
		WithInMemory(cfg.InMemory).
		WithSyncWrites(cfg.SyncWrites).
		WithLogger(badgerLogger{})
	if cfg.InMemory {
		opts = opts.WithDir("").WithValueDir("")
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrapf(err, "open badger at %s", cfg.DataPath)
	}

	setIDs, err := db.GetSequence(setIDKey, setIDBandwidth)
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "get set id sequence")
	}

	d := &badgerDriver{
		db:     db,
		setIDs: setIDs,
		gcC:    make(chan struct{}, 1),
		stopC:  make(chan struct{}),
	}
	d.dataEngine = &badgerDataEngine{d: d}
	d.kvEngine = &badgerKVEngine{d: d}
	d.setEngine = &badgerSetEngine{d: d}

	d.gcWG.Add(1)
	go d.runGC()
	// garbage left by the last run
	d.notifyGC()
	return d, nil
}

func (d *badgerDriver) GetDataEngine() DataEngine {
	return d.dataEngine
}

func (d *badgerDriver) GetKVEngine() KVEngine {
	return d.kvEngine
}

func (d *badgerDriver) GetSetEngine() SetEngine {
	return d.setEngine
}

func (d *badgerDriver) Close() error {
	close(d.stopC)
	d.gcWG.Wait()

	if err := d.setIDs.Release(); err != nil {
		log.Errorf("badger: release set id sequence failed, errors:\n %+v", err)
	}

	return d.db.Close()
}

// update runs fn in a read-write txn, the garbage collector is notified
// if fn deleted some sets.
func (d *badgerDriver) update(fn func(txn *badger.Txn) error) error {
	d.writeLock.Lock()
	defer d.writeLock.Unlock()

	d.garbage = false
	err := d.db.Update(fn)
	if err == nil && d.garbage {
		d.notifyGC()
	}

	return err
}

func (d *badgerDriver) view(fn func(txn *badger.Txn) error) error {
	return d.db.View(fn)
}

func (d *badgerDriver) notifyGC() {
	select {
	case d.gcC <- struct{}{}:
	default:
	}
}

func (d *badgerDriver) runGC() {
	defer d.gcWG.Done()

	for {
		select {
		case <-d.stopC:
			return
		case <-d.gcC:
			if err := d.collectGarbage(); err != nil {
				log.Errorf("badger: collect garbage failed, errors:\n %+v", err)
			}
		}
	}
}

// collectGarbage removes the members of the deleted sets in batches,
// the members are unreachable since the meta of the set is deleted.
func (d *badgerDriver) collectGarbage() error {
	var ids [][]byte
	err := d.view(func(txn *badger.Txn) error {
		var err error
		ids, err = scanKeys(txn, []byte{garbagePrefix}, 0)
		return err
	})
	if err != nil {
		return err
	}

	for _, id := range ids {
		if err := d.dropMembers(encodeKey(memberPrefix, id)); err != nil {
			return err
		}

		err := d.db.Update(func(txn *badger.Txn) error {
			return txn.Delete(encodeKey(garbagePrefix, id))
		})
		if err != nil {
			return err
		}
	}

	return nil
}

func (d *badgerDriver) dropMembers(prefix []byte) error {
	for {
		var members [][]byte
		err := d.view(func(txn *badger.Txn) error {
			var err error
			members, err = scanKeys(txn, prefix, gcBatchSize)
			return err
		})
		if err != nil {
			return err
		}

		if len(members) == 0 {
			return nil
		}

		wb := d.db.NewWriteBatch()
		for _, member := range members {
			key := make([]byte, 0, len(prefix)+len(member))
			key = append(key, prefix...)
			if err := wb.Delete(append(key, member...)); err != nil {
				wb.Cancel()
				return err
			}
		}

		if err := wb.Flush(); err != nil {
			return err
		}
	}
}

// newSet creates a empty set with a new id at key
func (d *badgerDriver) newSet(txn *badger.Txn, key []byte) (meta, error) {
	id, err := d.setIDs.Next()
	if err != nil {
		return meta{}, err
	}

	m := meta{kind: KindSet, id: id}
	return m, txn.Set(encodeKey(metaPrefix, key), m.encode())
}

// putString replaces the value of key with a string
func (d *badgerDriver) putString(txn *badger.Txn, key, value []byte) error {
	kind, err := getKind(txn, key)
	if err != nil {
		return err
	}

	if kind == KindSet {
		if _, err := d.deleteKey(txn, key); err != nil {
			return err
		}
	}

	err = txn.Set(encodeKey(metaPrefix, key), meta{kind: KindString}.encode())
	if err != nil {
		return err
	}

	return txn.Set(encodeKey(stringPrefix, key), value)
}

// deleteKey returns false if the key is not exists, the members of a set
// are left to the garbage collector so the txn size does not depend on the
// size of the set.
func (d *badgerDriver) deleteKey(txn *badger.Txn, key []byte) (bool, error) {
	m, err := getMeta(txn, key)
	if err != nil {
		return false, err
	}

	switch m.kind {
	case KindNone:
		return false, nil
	case KindString:
		err = txn.Delete(encodeKey(stringPrefix, key))
	case KindSet:
		err = txn.Set(encodeID(garbagePrefix, m.id), nil)
		d.garbage = true
	}
	if err != nil {
		return false, err
	}

	return true, txn.Delete(encodeKey(metaPrefix, key))
}

func encodeKey(prefix byte, key []byte) []byte {
	value := make([]byte, 0, len(key)+1)
	value = append(value, prefix)
	return append(value, key...)
}

func encodeID(prefix byte, id uint64) []byte {
	value := make([]byte, 9)
	value[0] = prefix
	binary.BigEndian.PutUint64(value[1:], id)
	return value
}

func encodeMemberKey(id uint64, member []byte) []byte {
	value := make([]byte, 9, 9+len(member))
	value[0] = memberPrefix
	binary.BigEndian.PutUint64(value[1:], id)
	return append(value, member...)
}

func getMeta(txn *badger.Txn, key []byte) (meta, error) {
	item, err := txn.Get(encodeKey(metaPrefix, key))
	if err == badger.ErrKeyNotFound {
		return meta{}, nil
	} else if err != nil {
		return meta{}, err
	}

	value, err := item.ValueCopy(nil)
	if err != nil {
		return meta{}, err
	}

	if len(value) == 0 {
		return meta{}, errors.Errorf("invalid meta of key %s", key)
	}

	m := meta{kind: Kind(value[0])}
	if m.kind == KindSet {
		if len(value) != 9 {
			return meta{}, errors.Errorf("invalid set meta of key %s", key)
		}
		m.id = binary.BigEndian.Uint64(value[1:])
	}

	return m, nil
}

func getKind(txn *badger.Txn, key []byte) (Kind, error) {
	m, err := getMeta(txn, key)
	return m.kind, err
}

// checkKind returns true if the key exists and is the expect kind
func checkKind(txn *badger.Txn, key []byte, expect Kind) (meta, bool, error) {
	m, err := getMeta(txn, key)
	if err != nil {
		return meta{}, false, err
	}

	if m.kind == KindNone {
		return m, false, nil
	}

	if m.kind != expect {
		return meta{}, false, ErrWrongType
	}

	return m, true, nil
}

func getString(txn *badger.Txn, key []byte) ([]byte, error) {
	_, exists, err := checkKind(txn, key, KindString)
	if err != nil || !exists {
		return nil, err
	}

	item, err := txn.Get(encodeKey(stringPrefix, key))
	if err != nil {
		return nil, err
	}

	value, err := item.ValueCopy(nil)
	if err != nil {
		return nil, err
	}

	if value == nil {
		value = []byte{}
	}
	return value, nil
}

// scanKeys returns at most limit keys with the prefix, 0 means no limit,
// the prefix is removed
func scanKeys(txn *badger.Txn, prefix []byte, limit int) ([][]byte, error) {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = prefix

	it := txn.NewIterator(opts)
	defer it.Close()

	var keys [][]byte
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		key := it.Item().KeyCopy(nil)
		keys = append(keys, key[len(prefix):])
		if limit > 0 && len(keys) >= limit {
			break
		}
	}

	return keys, nil
}

func countKeys(txn *badger.Txn, prefix []byte) int64 {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = prefix

	it := txn.NewIterator(opts)
	defer it.Close()

	var n int64
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		n++
	}
	return n
}

type badgerLogger struct{}

func (badgerLogger) Errorf(format string, v ...interface{}) {
	log.Errorf("badger: "+format, v...)
}

func (badgerLogger) Warningf(format string, v ...interface{}) {
	log.Warningf("badger: "+format, v...)
}

func (badgerLogger) Infof(format string, v ...interface{}) {
	log.Debugf("badger: "+format, v...)
}

func (badgerLogger) Debugf(format string, v ...interface{}) {
	log.Debugf("badger: "+format, v...)
}
