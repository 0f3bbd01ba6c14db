// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"sync"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/provenanced/fault"
	"github.com/bitmark-inc/provenanced/merkle"
	"github.com/bitmark-inc/provenanced/record"
	"github.com/bitmark-inc/provenanced/storage"
	"github.com/bitmark-inc/provenanced/util"
)

// Local - ledger kept in the local database
//
// writes are serialised so sequence numbers are dense per (kind, subject)
type Local struct {
	sync.Mutex
	log *logger.L
	db  *storage.DB
}

// NewLocal - ledger on an open database
func NewLocal(log *logger.L, db *storage.DB) *Local {
	return &Local{
		log: log,
		db:  db,
	}
}

// kind ++ subject
func subjectKey(kind record.Kind, subject uint64) []byte {
	key := util.AppendBytes(make([]byte, 0, 32), []byte(kind))
	return binary.BigEndian.AppendUint64(key, subject)
}

// pending sequence numbers of a batch
type sequences map[string]uint64

// add one anchor to a batch, does not commit
func (l *Local) appendAnchor(b *storage.Batch, seq sequences, subject uint64, kind record.Kind, root merkle.Digest, locator string) (Anchor, error) {
	sKey := subjectKey(kind, subject)

	next, ok := seq[string(sKey)]
	if !ok {
		n, _, err := l.db.AnchorCount.GetN(sKey)
		if nil != err {
			return Anchor{}, fmt.Errorf("%w: %s", fault.LedgerUnavailable, err)
		}
		next = n
	}
	seq[string(sKey)] = next + 1

	key := binary.BigEndian.AppendUint64(sKey, next)
	value := util.AppendBytes(append(make([]byte, 0, 64), root[:]...), []byte(locator))
	handle := merkle.NewDigest(append(append([]byte{}, key...), value...))

	b.Put(l.db.Anchors, key, value)
	b.PutN(l.db.AnchorCount, sKey, next+1)
	b.Put(l.db.Handles, handle[:], key)

	return Anchor{
		Subject:  subject,
		Kind:     kind,
		Root:     root,
		Locator:  locator,
		Sequence: next,
		Handle:   handle,
	}, nil
}

// Write - append one anchor
func (l *Local) Write(ctx context.Context, subject uint64, kind record.Kind, root merkle.Digest, locator string) (Anchor, error) {
	if err := ctx.Err(); nil != err {
		return Anchor{}, err
	}
	if err := CheckAnchor(root, locator); nil != err {
		return Anchor{}, err
	}

	l.Lock()
	defer l.Unlock()

	b := l.db.NewBatch()
	a, err := l.appendAnchor(b, sequences{}, subject, kind, root, locator)
	if nil != err {
		return Anchor{}, err
	}
	if err := b.Commit(); nil != err {
		return Anchor{}, fmt.Errorf("%w: %s", fault.LedgerUnavailable, err)
	}

	l.log.Infof("anchored: %s/%d  sequence: %d  handle: %s", kind, subject, a.Sequence, a.Handle)
	return a, nil
}

// WriteBatch - append several anchors of one kind in a single database write
func (l *Local) WriteBatch(ctx context.Context, kind record.Kind, subjects []uint64, roots []merkle.Digest, locators []string) (BatchReceipt, error) {
	if err := ctx.Err(); nil != err {
		return BatchReceipt{}, err
	}
	if err := CheckBatch(subjects, roots, locators); nil != err {
		return BatchReceipt{}, err
	}

	l.Lock()
	defer l.Unlock()

	b := l.db.NewBatch()
	seq := sequences{}
	anchors := make([]Anchor, len(subjects))
	for i, subject := range subjects {
		a, err := l.appendAnchor(b, seq, subject, kind, roots[i], locators[i])
		if nil != err {
			return BatchReceipt{}, err
		}
		anchors[i] = a
	}
	if err := b.Commit(); nil != err {
		return BatchReceipt{}, fmt.Errorf("%w: %s", fault.LedgerUnavailable, err)
	}

	receipt := BatchReceipt{
		Handle:  BatchHandle(anchors),
		Anchors: anchors,
	}
	l.log.Infof("anchored batch: %s  count: %d  handle: %s", kind, len(anchors), receipt.Handle)
	return receipt, nil
}

// Read - most recent anchor for a subject and kind
func (l *Local) Read(ctx context.Context, subject uint64, kind record.Kind) (Anchor, bool, error) {
	if err := ctx.Err(); nil != err {
		return Anchor{}, false, err
	}
	e, found, err := l.db.Anchors.LastElement(subjectKey(kind, subject))
	if nil != err {
		return Anchor{}, false, fmt.Errorf("%w: %s", fault.LedgerUnavailable, err)
	}
	if !found {
		return Anchor{}, false, nil
	}
	a, err := unpackAnchor(e.Key, e.Value)
	if nil != err {
		return Anchor{}, false, err
	}
	return a, true, nil
}

// History - all anchors for a subject and kind, oldest first
func (l *Local) History(ctx context.Context, subject uint64, kind record.Kind) ([]Anchor, error) {
	if err := ctx.Err(); nil != err {
		return nil, err
	}
	anchors := []Anchor{}
	err := l.db.Anchors.NewPrefixCursor(subjectKey(kind, subject)).Map(func(key []byte, value []byte) error {
		a, err := unpackAnchor(key, value)
		if nil != err {
			return err
		}
		anchors = append(anchors, a)
		return nil
	})
	if nil != err {
		return nil, fmt.Errorf("%w: %s", fault.LedgerUnavailable, err)
	}
	return anchors, nil
}

// LookupHandle - the anchor written with a given handle
func (l *Local) LookupHandle(ctx context.Context, handle merkle.Digest) (Anchor, bool, error) {
	if err := ctx.Err(); nil != err {
		return Anchor{}, false, err
	}
	key, err := l.db.Handles.Get(handle[:])
	if nil != err {
		return Anchor{}, false, fmt.Errorf("%w: %s", fault.LedgerUnavailable, err)
	}
	if nil == key {
		return Anchor{}, false, nil
	}
	value, err := l.db.Anchors.Get(key)
	if nil != err {
		return Anchor{}, false, fmt.Errorf("%w: %s", fault.LedgerUnavailable, err)
	}
	if nil == value {
		return Anchor{}, false, nil
	}
	a, err := unpackAnchor(key, value)
	return a, nil == err, err
}

// List - page through all anchors in key order
func (l *Local) List(ctx context.Context, start string, count int) ([]Anchor, string, error) {
	if err := ctx.Err(); nil != err {
		return nil, "", err
	}
	if count <= 0 {
		return nil, "", fault.InvalidCount
	}

	cursor := l.db.Anchors.NewFetchCursor()
	if "" != start {
		key, err := hex.DecodeString(start)
		if nil != err {
			return nil, "", fault.InvalidCursor
		}
		cursor.Seek(key)
	}

	elements, err := cursor.Fetch(count)
	if nil != err {
		return nil, "", fmt.Errorf("%w: %s", fault.LedgerUnavailable, err)
	}

	anchors := make([]Anchor, 0, len(elements))
	for _, e := range elements {
		a, err := unpackAnchor(e.Key, e.Value)
		if nil != err {
			return nil, "", err
		}
		anchors = append(anchors, a)
	}

	next := ""
	if len(elements) == count {
		last := elements[len(elements)-1].Key
		next = hex.EncodeToString(append(append([]byte{}, last...), 0x00))
	}
	return anchors, next, nil
}

// key:   kind ++ subject ++ sequence
// value: root ++ locator
func unpackAnchor(key []byte, value []byte) (Anchor, error) {
	kind, n := util.ReadBytes(key)
	if 0 == n || len(key) != n+16 {
		return Anchor{}, fmt.Errorf("%w: anchor key: %x", fault.LedgerUnavailable, key)
	}
	if len(value) < merkle.DigestLength+1 {
		return Anchor{}, fmt.Errorf("%w: anchor value: %x", fault.LedgerUnavailable, value)
	}

	a := Anchor{
		Kind:     record.Kind(kind),
		Subject:  binary.BigEndian.Uint64(key[n : n+8]),
		Sequence: binary.BigEndian.Uint64(key[n+8 : n+16]),
	}
	copy(a.Root[:], value[:merkle.DigestLength])

	locator, m := util.ReadBytes(value[merkle.DigestLength:])
	if 0 == m || merkle.DigestLength+m != len(value) {
		return Anchor{}, fmt.Errorf("%w: anchor value: %x", fault.LedgerUnavailable, value)
	}
	a.Locator = string(locator)
	a.Handle = merkle.NewDigest(append(append([]byte{}, key...), value...))
	return a, nil
}
