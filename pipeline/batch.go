// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pipeline

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/bitmark-inc/provenanced/fault"
	"github.com/bitmark-inc/provenanced/ledger"
	"github.com/bitmark-inc/provenanced/merkle"
	"github.com/bitmark-inc/provenanced/record"
)

// BatchResult - what was written for a batch
type BatchResult struct {
	ID      string        `json:"id"`
	Kind    record.Kind   `json:"kind"`
	Handle  merkle.Digest `json:"handle"`
	Records []Receipt     `json:"records"`
}

// Persisted - count of records whose salt record was written
func (b BatchResult) Persisted() int {
	n := 0
	for _, r := range b.Records {
		if r.Persisted {
			n += 1
		}
	}
	return n
}

// SubmitBatch - commit and upload several records of one kind, anchor
// them with a single ledger write, then persist each record
//
// fault.PartialPersistence is returned with the result when any
// record could not be persisted
func (p *Pipeline) SubmitBatch(ctx context.Context, records []record.Record) (BatchResult, error) {
	log := p.submitLog

	if 0 == len(records) {
		return BatchResult{}, fault.EmptyBatch
	}
	if len(records) > ledger.MaximumBatch {
		return BatchResult{}, fmt.Errorf("%w: %d records, maximum: %d", fault.BatchTooLarge, len(records), ledger.MaximumBatch)
	}

	var kind record.Kind
	var schema *record.Schema
	for i, rec := range records {
		s, err := p.schemaOf(rec)
		if nil != err {
			return BatchResult{}, fmt.Errorf("record %d: %w", i, err)
		}
		if 0 == i {
			kind = rec.Kind()
			schema = s
		} else if rec.Kind() != kind {
			return BatchResult{}, fault.BatchKindMismatch
		}
	}

	id := uuid.NewString()
	log.Infof("batch: %s  kind: %s  count: %d", id, kind, len(records))

	items := make([]prepared, len(records))
	subjects := make([]uint64, len(records))
	roots := make([]merkle.Digest, len(records))
	locators := make([]string, len(records))
	for i, rec := range records {
		item, err := p.prepare(ctx, rec)
		if nil != err {
			log.Errorf("batch: %s  record %d error: %s", id, i, err)
			return BatchResult{}, err
		}
		items[i] = item
		subjects[i] = rec.Subject()
		roots[i] = item.commitment.Root
		locators[i] = item.locator
	}

	batch, err := p.h.Ledger.WriteBatch(ctx, kind, subjects, roots, locators)
	if nil != err {
		log.Errorf("batch: %s  anchor error: %s", id, err)
		return BatchResult{}, err
	}
	if len(batch.Anchors) != len(items) {
		return BatchResult{}, fmt.Errorf("%w: %d anchors for %d records", fault.LedgerUnavailable, len(batch.Anchors), len(items))
	}
	log.Infof("batch: %s  anchored  handle: %s", id, batch.Handle)

	result := BatchResult{
		ID:      id,
		Kind:    kind,
		Handle:  batch.Handle,
		Records: make([]Receipt, len(items)),
	}

	var wg sync.WaitGroup
	for i := range items {
		result.Records[i] = newReceipt(batch.Anchors[i])
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			receipt := &result.Records[i]
			if err := p.persist(ctx, schema, items[i], receipt); nil != err {
				log.Criticalf("batch: %s  orphaned anchor: %s/%d  handle: %s  error: %s", id, kind, receipt.Subject, receipt.Handle, err)
				receipt.Error = err.Error()
			}
		}(i)
	}
	wg.Wait()

	if n := result.Persisted(); n != len(items) {
		return result, fmt.Errorf("%w: %d of %d", fault.PartialPersistence, n, len(items))
	}
	log.Infof("batch: %s  complete", id)
	return result, nil
}
