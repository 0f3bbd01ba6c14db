// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"encoding/binary"
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
	ldb_util "github.com/syndtr/goleveldb/leveldb/util"

	"github.com/bitmark-inc/provenanced/fault"
)

// PoolHandle - one prefixed table of a database
type PoolHandle struct {
	prefix byte
	limit  []byte
	owner  *DB
}

// Element - a binary data item
type Element struct {
	Key   []byte
	Value []byte
}

// prepend the prefix onto the key
func (p *PoolHandle) prefixKey(key []byte) []byte {
	prefixedKey := make([]byte, 1, len(key)+1)
	prefixedKey[0] = p.prefix
	return append(prefixedKey, key...)
}

// Put - store a key/value bytes pair to the database
func (p *PoolHandle) Put(key []byte, value []byte) error {
	p.owner.access.RLock()
	defer p.owner.access.RUnlock()
	if nil == p.owner.db {
		return fault.DatabaseIsNotSet
	}
	k := p.prefixKey(key)
	err := p.owner.db.Put(k, value, nil)
	if nil != err {
		return err
	}
	p.owner.cache.Set(dbPut, string(k), copyBytes(value))
	return nil
}

// PutN - store a uint64 as an 8 byte big endian value
func (p *PoolHandle) PutN(key []byte, value uint64) error {
	buffer := make([]byte, 8)
	binary.BigEndian.PutUint64(buffer, value)
	return p.Put(key, buffer)
}

// Delete - remove a key from the database
func (p *PoolHandle) Delete(key []byte) error {
	p.owner.access.RLock()
	defer p.owner.access.RUnlock()
	if nil == p.owner.db {
		return fault.DatabaseIsNotSet
	}
	k := p.prefixKey(key)
	err := p.owner.db.Delete(k, nil)
	if nil != err {
		return err
	}
	p.owner.cache.Set(dbDelete, string(k), nil)
	return nil
}

// Get - read a value for a given key
//
// returns nil value if the key is not present
func (p *PoolHandle) Get(key []byte) ([]byte, error) {
	p.owner.access.RLock()
	defer p.owner.access.RUnlock()
	if nil == p.owner.db {
		return nil, fault.DatabaseIsNotSet
	}
	k := p.prefixKey(key)

	if value, known, exists := p.owner.cache.Get(string(k)); known {
		if !exists {
			return nil, nil
		}
		return copyBytes(value), nil
	}

	value, err := p.owner.db.Get(k, nil)
	if leveldb.ErrNotFound == err {
		return nil, nil
	} else if nil != err {
		return nil, err
	}
	p.owner.cache.Set(dbPut, string(k), copyBytes(value))
	return value, nil
}

// GetN - read a record and decode first 8 bytes as big endian uint64
//
// second parameter is false if record was not found
func (p *PoolHandle) GetN(key []byte) (uint64, bool, error) {
	buffer, err := p.Get(key)
	if nil != err {
		return 0, false, err
	}
	if nil == buffer {
		return 0, false, nil
	}
	if len(buffer) < 8 {
		return 0, false, fmt.Errorf("truncated record for: %x", key)
	}
	return binary.BigEndian.Uint64(buffer[:8]), true, nil
}

// Has - check if a key exists
func (p *PoolHandle) Has(key []byte) (bool, error) {
	value, err := p.Get(key)
	return nil != value, err
}

// LastElement - get the last element of a key range
//
// a nil key prefix covers the whole pool
func (p *PoolHandle) LastElement(keyPrefix []byte) (Element, bool, error) {
	p.owner.access.RLock()
	defer p.owner.access.RUnlock()
	if nil == p.owner.db {
		return Element{}, false, fault.DatabaseIsNotSet
	}

	iter := p.owner.db.NewIterator(p.keyRange(keyPrefix), nil)

	found := false
	result := Element{}
	if iter.Last() {

		// contents of the returned slice must not be modified, and are
		// only valid until the next call to Next
		result.Key = copyBytes(iter.Key()[1:]) // strip the prefix
		result.Value = copyBytes(iter.Value())
		found = true
	}
	iter.Release()
	return result, found, iter.Error()
}

// range of keys starting with a key prefix
func (p *PoolHandle) keyRange(keyPrefix []byte) *ldb_util.Range {
	if 0 == len(keyPrefix) {
		return &ldb_util.Range{
			Start: []byte{p.prefix}, // Start of key range, included in the range
			Limit: p.limit,          // Limit of key range, excluded from the range
		}
	}
	return ldb_util.BytesPrefix(p.prefixKey(keyPrefix))
}

func copyBytes(b []byte) []byte {
	if nil == b {
		return nil
	}
	c := make([]byte, len(b))
	copy(c, b)
	return c
}
