// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package saltstore

import (
	"context"

	"github.com/bitmark-inc/provenanced/commitment"
	"github.com/bitmark-inc/provenanced/fault"
	"github.com/bitmark-inc/provenanced/merkle"
	"github.com/bitmark-inc/provenanced/record"
)

// Row - one salt record
type Row struct {
	Subject uint64
	Root    merkle.Digest
	Values  []string // canonical values in field order
	Salts   []string // one per value
}

// Store - salt record persistence
//
// Salts returns fault.SaltsNotFound when no row exists for the
// subject and root
type Store interface {
	Put(ctx context.Context, schema *record.Schema, row Row) error
	Salts(ctx context.Context, schema *record.Schema, subject uint64, root merkle.Digest) ([]string, error)
	PutCode(ctx context.Context, subject uint64, code string) error
	Code(ctx context.Context, subject uint64) (string, bool, error)
}

// CheckRow - reject a row that does not fit its schema
func CheckRow(schema *record.Schema, row Row) error {
	if len(row.Values) != schema.Arity() || len(row.Salts) != schema.Arity() {
		return fault.FieldCountMismatch
	}
	if row.Root.IsZero() {
		return fault.InvalidDigest
	}
	for _, s := range row.Salts {
		if !commitment.ValidSalt(s) {
			return fault.InvalidSalt
		}
	}
	return nil
}
