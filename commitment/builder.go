// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package commitment

import (
	"github.com/bitmark-inc/provenanced/fault"
	"github.com/bitmark-inc/provenanced/merkle"
)

// Commitment - the leaves of a record in field order and their root
type Commitment struct {
	Root   merkle.Digest `json:"root"`
	Leaves []Leaf        `json:"leaves"`
}

// Build - commit each value with a fresh salt and reduce to a root
func Build(values []string) (*Commitment, error) {
	if 0 == len(values) {
		return nil, fault.NoLeaves
	}

	leaves := make([]Leaf, len(values))
	for i, v := range values {
		leaf, err := Commit(v)
		if nil != err {
			return nil, err
		}
		leaves[i] = leaf
	}
	return assemble(leaves)
}

// Rebuild - recompute a commitment from values and their stored salts
//
// salts must be in the same order as the values they were issued for
func Rebuild(values []string, salts []string) (*Commitment, error) {
	if len(values) != len(salts) {
		return nil, fault.FieldCountMismatch
	}
	if 0 == len(values) {
		return nil, fault.NoLeaves
	}

	leaves := make([]Leaf, len(values))
	for i, v := range values {
		if !ValidSalt(salts[i]) {
			return nil, fault.InvalidSalt
		}
		leaves[i] = Leaf{
			Salt:   salts[i],
			Digest: LeafDigest(salts[i], v),
		}
	}
	return assemble(leaves)
}

func assemble(leaves []Leaf) (*Commitment, error) {
	root, err := merkle.Root(digestsOf(leaves))
	if nil != err {
		return nil, err
	}
	return &Commitment{
		Root:   root,
		Leaves: leaves,
	}, nil
}

func digestsOf(leaves []Leaf) []merkle.Digest {
	d := make([]merkle.Digest, len(leaves))
	for i, l := range leaves {
		d[i] = l.Digest
	}
	return d
}

// Salts - ordered salts for persistence
func (c *Commitment) Salts() []string {
	s := make([]string, len(c.Leaves))
	for i, l := range c.Leaves {
		s[i] = l.Salt
	}
	return s
}

// Digests - ordered leaf digests
func (c *Commitment) Digests() []merkle.Digest {
	return digestsOf(c.Leaves)
}

// Proof - inclusion proof for the leaf at index
func (c *Commitment) Proof(index int) ([]merkle.Digest, error) {
	return merkle.Proof(c.Digests(), index)
}
