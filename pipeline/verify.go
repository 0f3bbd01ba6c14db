// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/bitmark-inc/provenanced/commitment"
	"github.com/bitmark-inc/provenanced/fault"
	"github.com/bitmark-inc/provenanced/ledger"
	"github.com/bitmark-inc/provenanced/outcome"
	"github.com/bitmark-inc/provenanced/record"
)

// Verify - classify the latest anchored record of one kind for a subject
//
// only upstream failures are returned as errors; NotFound and
// Tampered are outcomes
func (p *Pipeline) Verify(ctx context.Context, subject uint64, kind record.Kind) (outcome.Outcome, error) {
	schema, err := p.h.Registry.Lookup(kind)
	if nil != err {
		return outcome.Outcome{}, err
	}

	key := outcome.Key(kind, subject)
	if o, found, err := p.cached(ctx, key); nil != err || found {
		return o, err
	}

	o, err := p.check(ctx, schema, subject)
	if nil != err {
		return outcome.Outcome{}, err
	}
	return o, p.remember(ctx, key, o)
}

// VerifyAll - classify every kind for a subject
//
// each kind is checked independently; any Tampered kind makes the
// result Tampered and otherwise any missing kind makes it NotFound
func (p *Pipeline) VerifyAll(ctx context.Context, subject uint64) (outcome.Outcome, error) {
	key := outcome.Key(outcome.AllKinds, subject)
	if o, found, err := p.cached(ctx, key); nil != err || found {
		return o, err
	}

	kinds := p.h.Registry.Kinds()
	parts := make([]outcome.Outcome, 0, len(kinds))
	for _, kind := range kinds {
		schema, err := p.h.Registry.Lookup(kind)
		if nil != err {
			return outcome.Outcome{}, err
		}
		o, err := p.check(ctx, schema, subject)
		if nil != err {
			return outcome.Outcome{}, err
		}
		parts = append(parts, o)
	}

	o := outcome.Combine(subject, parts)
	p.verifyLog.Infof("aggregate: %d  status: %s", subject, o.Status)
	return o, p.remember(ctx, key, o)
}

func (p *Pipeline) cached(ctx context.Context, key string) (outcome.Outcome, bool, error) {
	o, found, err := p.h.Cache.Get(ctx, key)
	if nil != err {
		p.verifyLog.Errorf("cache get: %s  error: %s", key, err)
		return outcome.Outcome{}, false, err
	}
	if found {
		p.verifyLog.Debugf("cache hit: %s  status: %s", key, o.Status)
	}
	return o, found, nil
}

func (p *Pipeline) remember(ctx context.Context, key string, o outcome.Outcome) error {
	err := p.h.Cache.Set(ctx, key, o, p.h.Policy.TTL(o.Status))
	if nil != err {
		p.verifyLog.Errorf("cache set: %s  error: %s", key, err)
	}
	return err
}

// recover the anchored record, its payload and salts
type recovered struct {
	anchor ledger.Anchor
	record record.Record
	values []string
	salts  []string
}

// fetch everything needed to rebuild a commitment
//
// a nil result with no error means something is missing
func (p *Pipeline) recover(ctx context.Context, schema *record.Schema, subject uint64) (*recovered, error) {
	log := p.verifyLog

	anchor, found, err := p.h.Ledger.Read(ctx, subject, schema.Kind)
	if nil != err {
		return nil, err
	}
	if !found {
		log.Debugf("no anchor: %s/%d", schema.Kind, subject)
		return nil, nil
	}

	payload, err := p.h.Blobs.Get(ctx, anchor.Locator)
	if errors.Is(err, fault.BlobNotFound) {
		log.Warnf("payload missing: %s/%d  locator: %s", schema.Kind, subject, anchor.Locator)
		return nil, nil
	}
	if nil != err {
		return nil, err
	}

	salts, err := p.h.Salts.Salts(ctx, schema, subject, anchor.Root)
	if errors.Is(err, fault.SaltsNotFound) {
		log.Warnf("data-integrity: anchor without salts: %s/%d  root: %s", schema.Kind, subject, anchor.Root)
		return nil, nil
	}
	if nil != err {
		return nil, err
	}

	r := &recovered{
		anchor: anchor,
		salts:  salts,
	}

	rec, err := schema.DecodePayload(payload)
	if nil != err {
		log.Warnf("payload undecodable: %s/%d  error: %s", schema.Kind, subject, err)
		return r, nil
	}

	// the anchor key is authoritative for the subject
	rec.SetSubject(subject)
	r.record = rec
	r.values = rec.Values()
	return r, nil
}

// steps after the cache: recover, rebuild and compare
func (p *Pipeline) check(ctx context.Context, schema *record.Schema, subject uint64) (outcome.Outcome, error) {
	log := p.verifyLog

	r, err := p.recover(ctx, schema, subject)
	if nil != err {
		log.Errorf("verify %s/%d error: %s", schema.Kind, subject, err)
		return outcome.Outcome{}, err
	}
	if nil == r {
		return outcome.New(schema.Kind, subject, outcome.NotFound), nil
	}

	o := outcome.New(schema.Kind, subject, outcome.Tampered)
	o.Anchored = r.anchor.Root.String()
	if nil == r.record {
		return o, nil
	}

	c, err := commitment.Rebuild(r.values, r.salts)
	if nil != err {
		log.Warnf("rebuild %s/%d error: %s", schema.Kind, subject, err)
		return o, nil
	}
	o.Computed = c.Root.String()

	log.Infof("%s/%d  anchored: %s  computed: %s", schema.Kind, subject, o.Anchored, o.Computed)
	if o.Anchored == o.Computed {
		o.Status = outcome.Verified
		o.Message = outcome.Verified.Message()
	}
	return o, nil
}

// Code - the stored identifier code of a subject
func (p *Pipeline) Code(ctx context.Context, subject uint64) (string, error) {
	code, found, err := p.h.Salts.Code(ctx, subject)
	if nil != err {
		return "", err
	}
	if !found {
		return "", fmt.Errorf("%w: code for %d", fault.NotFound, subject)
	}
	return code, nil
}
