// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package ledger - append-only anchoring of commitment roots
//
// every write for a (subject, kind) appends a new anchor; reads return
// the most recent one and History returns all of them, oldest first.
package ledger

import (
	"context"

	"github.com/bitmark-inc/provenanced/merkle"
	"github.com/bitmark-inc/provenanced/record"
)

// MaximumBatch - most anchors accepted by a single WriteBatch
const MaximumBatch = 1000

// Anchor - one ledger entry
type Anchor struct {
	Subject  uint64        `json:"subject"`
	Kind     record.Kind   `json:"kind"`
	Root     merkle.Digest `json:"root"`
	Locator  string        `json:"locator"`
	Sequence uint64        `json:"sequence"`
	Handle   merkle.Digest `json:"handle"`
}

// BatchReceipt - result of a batch write
//
// the handle covers the handles of all anchors in the batch
type BatchReceipt struct {
	Handle  merkle.Digest `json:"handle"`
	Anchors []Anchor      `json:"anchors"`
}

// Ledger - anchor storage
type Ledger interface {
	Write(ctx context.Context, subject uint64, kind record.Kind, root merkle.Digest, locator string) (Anchor, error)
	WriteBatch(ctx context.Context, kind record.Kind, subjects []uint64, roots []merkle.Digest, locators []string) (BatchReceipt, error)
	Read(ctx context.Context, subject uint64, kind record.Kind) (Anchor, bool, error)
	History(ctx context.Context, subject uint64, kind record.Kind) ([]Anchor, error)
}

// Enumerator - paged access to every anchor, used by the audit
//
// start is an opaque cursor, "" for the beginning; the returned
// cursor is "" when there are no more anchors
type Enumerator interface {
	List(ctx context.Context, start string, count int) ([]Anchor, string, error)
}

// CheckBatch - validate the parallel arrays of a batch write
func CheckBatch(subjects []uint64, roots []merkle.Digest, locators []string) error {
	if 0 == len(subjects) {
		return errEmptyBatch
	}
	if len(subjects) > MaximumBatch {
		return errLargeBatch
	}
	if len(subjects) != len(roots) || len(subjects) != len(locators) {
		return errBatchLength
	}
	for i := range subjects {
		if err := CheckAnchor(roots[i], locators[i]); nil != err {
			return err
		}
	}
	return nil
}

// CheckAnchor - validate a single anchor
func CheckAnchor(root merkle.Digest, locator string) error {
	if root.IsZero() {
		return errZeroRoot
	}
	if "" == locator {
		return errNoLocator
	}
	return nil
}

// BatchHandle - digest over the handles of a batch
func BatchHandle(anchors []Anchor) merkle.Digest {
	buffer := make([]byte, 0, len(anchors)*merkle.DigestLength)
	for _, a := range anchors {
		buffer = append(buffer, a.Handle[:]...)
	}
	return merkle.NewDigest(buffer)
}
