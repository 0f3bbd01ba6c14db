// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"encoding/binary"

	"github.com/syndtr/goleveldb/leveldb"

	"github.com/bitmark-inc/provenanced/fault"
)

// Batch - a set of writes across pools applied atomically by Commit
type Batch struct {
	owner   *DB
	batch   *leveldb.Batch
	pending []cacheItem
}

type cacheItem struct {
	op    dbOperation
	key   string
	value []byte
}

// NewBatch - start an empty batch
func (d *DB) NewBatch() *Batch {
	return &Batch{
		owner: d,
		batch: new(leveldb.Batch),
	}
}

// Put - add a key/value pair to the batch
func (b *Batch) Put(p *PoolHandle, key []byte, value []byte) {
	k := p.prefixKey(key)
	b.batch.Put(k, value)
	b.pending = append(b.pending, cacheItem{op: dbPut, key: string(k), value: copyBytes(value)})
}

// PutN - add a uint64 value as 8 bytes big endian
func (b *Batch) PutN(p *PoolHandle, key []byte, value uint64) {
	buffer := make([]byte, 8)
	binary.BigEndian.PutUint64(buffer, value)
	b.Put(p, key, buffer)
}

// Delete - add a key removal to the batch
func (b *Batch) Delete(p *PoolHandle, key []byte) {
	k := p.prefixKey(key)
	b.batch.Delete(k)
	b.pending = append(b.pending, cacheItem{op: dbDelete, key: string(k)})
}

// Len - number of operations in the batch
func (b *Batch) Len() int {
	return b.batch.Len()
}

// Commit - write all operations, the batch is empty afterwards
func (b *Batch) Commit() error {
	b.owner.access.RLock()
	defer b.owner.access.RUnlock()
	if nil == b.owner.db {
		return fault.DatabaseIsNotSet
	}

	err := b.owner.db.Write(b.batch, nil)
	if nil == err {
		for _, item := range b.pending {
			b.owner.cache.Set(item.op, item.key, item.value)
		}
	}
	b.Reset()
	return err
}

// Reset - discard all operations
func (b *Batch) Reset() {
	b.batch.Reset()
	b.pending = nil
}
