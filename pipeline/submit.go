// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/bitmark-inc/provenanced/blobstore"
	"github.com/bitmark-inc/provenanced/commitment"
	"github.com/bitmark-inc/provenanced/fault"
	"github.com/bitmark-inc/provenanced/ledger"
	"github.com/bitmark-inc/provenanced/merkle"
	"github.com/bitmark-inc/provenanced/record"
	"github.com/bitmark-inc/provenanced/saltstore"
)

// Receipt - what was written for one record
type Receipt struct {
	Kind      record.Kind   `json:"kind"`
	Subject   uint64        `json:"subject"`
	Root      merkle.Digest `json:"root"`
	Locator   string        `json:"locator"`
	Handle    merkle.Digest `json:"handle"`
	Sequence  uint64        `json:"sequence"`
	Code      string        `json:"qrCode,omitempty"`
	Persisted bool          `json:"persisted"`
	Error     string        `json:"error,omitempty"`
}

// a record with its commitment and uploaded payload
type prepared struct {
	record     record.Record
	values     []string
	commitment *commitment.Commitment
	locator    string
}

// check a record against its schema
func (p *Pipeline) schemaOf(rec record.Record) (*record.Schema, error) {
	if nil == rec {
		return nil, fault.MissingParameters
	}
	schema, err := p.h.Registry.Lookup(rec.Kind())
	if nil != err {
		return nil, err
	}
	if err := schema.Check(rec); nil != err {
		return nil, err
	}
	return schema, nil
}

// build the commitment and upload the payload
func (p *Pipeline) prepare(ctx context.Context, rec record.Record) (prepared, error) {
	log := p.submitLog

	values := rec.Values()
	log.Infof("calculating merkle: %s/%d", rec.Kind(), rec.Subject())
	c, err := commitment.Build(values)
	if nil != err {
		return prepared{}, err
	}

	payload, err := json.Marshal(rec)
	if nil != err {
		return prepared{}, fmt.Errorf("%w: %s", fault.InvalidJSON, err)
	}

	locator, err := blobstore.PutWithRetry(ctx, log, p.h.Blobs, payload, UploadAttempts)
	if nil != err {
		log.Errorf("upload %s/%d error: %s", rec.Kind(), rec.Subject(), err)
		return prepared{}, err
	}
	log.Infof("payload stored: %s/%d  locator: %s", rec.Kind(), rec.Subject(), locator)

	return prepared{
		record:     rec,
		values:     values,
		commitment: c,
		locator:    locator,
	}, nil
}

// write the salt record and any code row
func (p *Pipeline) persist(ctx context.Context, schema *record.Schema, item prepared, receipt *Receipt) error {
	row := saltstore.Row{
		Subject: item.record.Subject(),
		Root:    item.commitment.Root,
		Values:  item.values,
		Salts:   item.commitment.Salts(),
	}
	if err := p.h.Salts.Put(ctx, schema, row); nil != err {
		return err
	}

	if schema.IssuesCode {
		code := record.EncodeCode(row.Subject)
		if err := p.h.Salts.PutCode(ctx, row.Subject, code); nil != err {
			return err
		}
		receipt.Code = code
	}
	receipt.Persisted = true
	return nil
}

func newReceipt(a ledger.Anchor) Receipt {
	return Receipt{
		Kind:     a.Kind,
		Subject:  a.Subject,
		Root:     a.Root,
		Locator:  a.Locator,
		Handle:   a.Handle,
		Sequence: a.Sequence,
	}
}

// Submit - commit, upload, anchor and persist one record
//
// if persistence fails after anchoring, the receipt is still returned
// together with the error
func (p *Pipeline) Submit(ctx context.Context, rec record.Record) (Receipt, error) {
	log := p.submitLog

	schema, err := p.schemaOf(rec)
	if nil != err {
		return Receipt{}, err
	}

	item, err := p.prepare(ctx, rec)
	if nil != err {
		return Receipt{}, err
	}

	anchor, err := p.h.Ledger.Write(ctx, rec.Subject(), rec.Kind(), item.commitment.Root, item.locator)
	if nil != err {
		log.Errorf("anchor %s/%d error: %s", rec.Kind(), rec.Subject(), err)
		return Receipt{}, err
	}
	log.Infof("anchored: %s/%d  handle: %s  root: %s", rec.Kind(), rec.Subject(), anchor.Handle, anchor.Root)

	receipt := newReceipt(anchor)
	if err := p.persist(ctx, schema, item, &receipt); nil != err {
		log.Criticalf("orphaned anchor: %s/%d  handle: %s  error: %s", rec.Kind(), rec.Subject(), anchor.Handle, err)
		receipt.Error = err.Error()
		return receipt, err
	}

	log.Infof("submitted: %s/%d  locator: %s  root: %s", rec.Kind(), rec.Subject(), receipt.Locator, receipt.Root)
	return receipt, nil
}
