// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package saltstore

import (
	"context"
	"encoding/binary"
	"fmt"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/provenanced/fault"
	"github.com/bitmark-inc/provenanced/merkle"
	"github.com/bitmark-inc/provenanced/record"
	"github.com/bitmark-inc/provenanced/storage"
	"github.com/bitmark-inc/provenanced/util"
)

// Local - salt records kept in the local database
type Local struct {
	log *logger.L
	db  *storage.DB
}

// NewLocal - salt store on an open database
func NewLocal(log *logger.L, db *storage.DB) *Local {
	return &Local{
		log: log,
		db:  db,
	}
}

// key: kind ++ subject ++ root
func rowKey(kind record.Kind, subject uint64, root merkle.Digest) []byte {
	key := util.AppendBytes(make([]byte, 0, 64), []byte(kind))
	key = binary.BigEndian.AppendUint64(key, subject)
	return append(key, root[:]...)
}

// value: count ++ (salt ++ value)*
func packRow(row Row) []byte {
	buffer := util.ToVarint64(uint64(len(row.Salts)))
	for i, s := range row.Salts {
		buffer = util.AppendBytes(buffer, []byte(s))
		buffer = util.AppendBytes(buffer, []byte(row.Values[i]))
	}
	return buffer
}

func unpackSalts(buffer []byte) ([]string, error) {
	count, n := util.FromVarint64(buffer)
	if 0 == n || count > uint64(len(buffer)) {
		return nil, fmt.Errorf("%w: corrupt salt record", fault.SaltStoreUnavailable)
	}
	salts := make([]string, 0, count)
	for i := uint64(0); i < count; i += 1 {
		s, m := util.ReadBytes(buffer[n:])
		if 0 == m {
			return nil, fmt.Errorf("%w: corrupt salt record", fault.SaltStoreUnavailable)
		}
		n += m
		_, m = util.ReadBytes(buffer[n:])
		if 0 == m {
			return nil, fmt.Errorf("%w: corrupt salt record", fault.SaltStoreUnavailable)
		}
		n += m
		salts = append(salts, string(s))
	}
	return salts, nil
}

// Put - store a salt record
func (l *Local) Put(ctx context.Context, schema *record.Schema, row Row) error {
	if err := ctx.Err(); nil != err {
		return err
	}
	if err := CheckRow(schema, row); nil != err {
		return err
	}
	key := rowKey(schema.Kind, row.Subject, row.Root)
	if err := l.db.Salts.Put(key, packRow(row)); nil != err {
		return fmt.Errorf("%w: %s", fault.SaltStoreUnavailable, err)
	}
	l.log.Debugf("salts stored: %s/%d  root: %s", schema.Kind, row.Subject, row.Root)
	return nil
}

// Salts - the salts of one anchored version of a record
func (l *Local) Salts(ctx context.Context, schema *record.Schema, subject uint64, root merkle.Digest) ([]string, error) {
	if err := ctx.Err(); nil != err {
		return nil, err
	}
	value, err := l.db.Salts.Get(rowKey(schema.Kind, subject, root))
	if nil != err {
		return nil, fmt.Errorf("%w: %s", fault.SaltStoreUnavailable, err)
	}
	if nil == value {
		return nil, fault.SaltsNotFound
	}
	return unpackSalts(value)
}

// PutCode - store the identifier code of a subject
func (l *Local) PutCode(ctx context.Context, subject uint64, code string) error {
	if err := ctx.Err(); nil != err {
		return err
	}
	key := binary.BigEndian.AppendUint64(nil, subject)
	if err := l.db.Codes.Put(key, []byte(code)); nil != err {
		return fmt.Errorf("%w: %s", fault.SaltStoreUnavailable, err)
	}
	return nil
}

// Code - the identifier code of a subject
func (l *Local) Code(ctx context.Context, subject uint64) (string, bool, error) {
	if err := ctx.Err(); nil != err {
		return "", false, err
	}
	value, err := l.db.Codes.Get(binary.BigEndian.AppendUint64(nil, subject))
	if nil != err {
		return "", false, fmt.Errorf("%w: %s", fault.SaltStoreUnavailable, err)
	}
	if nil == value {
		return "", false, nil
	}
	return string(value), true, nil
}
