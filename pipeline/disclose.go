// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pipeline

import (
	"context"
	"fmt"

	"github.com/bitmark-inc/provenanced/commitment"
	"github.com/bitmark-inc/provenanced/fault"
	"github.com/bitmark-inc/provenanced/merkle"
	"github.com/bitmark-inc/provenanced/record"
)

// Disclosure - one field of a record with the proof that it is part
// of the anchored root
//
// the other fields stay hidden behind their leaf digests
type Disclosure struct {
	Kind    record.Kind     `json:"kind"`
	Subject uint64          `json:"subject"`
	Field   string          `json:"field"`
	Value   string          `json:"value"`
	Salt    string          `json:"salt"`
	Leaf    merkle.Digest   `json:"leaf"`
	Proof   []merkle.Digest `json:"proof"`
	Root    merkle.Digest   `json:"root"`
}

// Valid - recompute the leaf and fold the proof to the root
func (d Disclosure) Valid() bool {
	leaf := commitment.LeafDigest(d.Salt, d.Value)
	return leaf == d.Leaf && merkle.VerifyProof(leaf, d.Proof, d.Root)
}

// Disclose - reveal one field of the latest record of a kind
//
// the stored record must still match its anchor
func (p *Pipeline) Disclose(ctx context.Context, subject uint64, kind record.Kind, field string) (Disclosure, error) {
	schema, err := p.h.Registry.Lookup(kind)
	if nil != err {
		return Disclosure{}, err
	}
	index, err := schema.Index(field)
	if nil != err {
		return Disclosure{}, err
	}

	r, err := p.recover(ctx, schema, subject)
	if nil != err {
		return Disclosure{}, err
	}
	if nil == r {
		return Disclosure{}, fmt.Errorf("%w: %s/%d", fault.NotFound, kind, subject)
	}
	if nil == r.record {
		return Disclosure{}, fault.RecordTampered
	}

	c, err := commitment.Rebuild(r.values, r.salts)
	if nil != err || c.Root != r.anchor.Root {
		p.verifyLog.Warnf("disclose refused, record tampered: %s/%d", kind, subject)
		return Disclosure{}, fault.RecordTampered
	}

	proof, err := c.Proof(index)
	if nil != err {
		return Disclosure{}, err
	}

	return Disclosure{
		Kind:    kind,
		Subject: subject,
		Field:   field,
		Value:   r.values[index],
		Salt:    c.Leaves[index].Salt,
		Leaf:    c.Leaves[index].Digest,
		Proof:   proof,
		Root:    c.Root,
	}, nil
}
