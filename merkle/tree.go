// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package merkle

import (
	"github.com/bitmark-inc/provenanced/fault"
)

// parent of two nodes, the pair is sorted before hashing
func pairDigest(a Digest, b Digest) Digest {
	if a.Compare(b) > 0 {
		a, b = b, a
	}
	buffer := make([]byte, 0, 2*DigestLength)
	buffer = append(buffer, a[:]...)
	buffer = append(buffer, b[:]...)
	return NewDigest(buffer)
}

// FullMerkleTree - compute all levels of the tree from a set of leaves
//
// structure is:
//   1. N * leaf digests
//   2. level 1..m digests
//   3. merkle root digest (last element)
//
// returns nil for an empty set of leaves
func FullMerkleTree(leaves []Digest) []Digest {

	leafCount := len(leaves)
	if 0 == leafCount {
		return nil
	}

	// compute length of leaves + all tree levels including root
	totalLength := 1 // space for the final root
	for n := leafCount; n > 1; n = (n + 1) / 2 {
		totalLength += n
	}

	tree := make([]Digest, totalLength)
	copy(tree[:], leaves)

	n := leafCount // next write position
	j := 0         // next read position
	for workLength := leafCount; workLength > 1; workLength = (workLength + 1) / 2 {
		for i := 0; i < workLength; i += 2 {
			if i+1 == workLength {
				tree[n] = tree[j] // promote odd node
				j += 1
			} else {
				tree[n] = pairDigest(tree[j], tree[j+1])
				j += 2
			}
			n += 1
		}
	}
	return tree
}

// Root - reduce a set of leaves to the single root digest
func Root(leaves []Digest) (Digest, error) {
	tree := FullMerkleTree(leaves)
	if nil == tree {
		return Digest{}, fault.NoLeaves
	}
	return tree[len(tree)-1], nil
}

// Proof - the sibling digests needed to fold leaf[index] up to the root
//
// levels where the node was promoted contribute no sibling
func Proof(leaves []Digest, index int) ([]Digest, error) {
	if index < 0 || index >= len(leaves) {
		return nil, fault.InvalidProofIndex
	}
	tree := FullMerkleTree(leaves)

	proof := make([]Digest, 0, 8)
	start := 0
	for width := len(leaves); width > 1; width = (width + 1) / 2 {
		sibling := index ^ 1
		if sibling < width {
			proof = append(proof, tree[start+sibling])
		}
		start += width
		index /= 2
	}
	return proof, nil
}

// VerifyProof - fold a leaf with its proof and compare to the root
func VerifyProof(leaf Digest, proof []Digest, root Digest) bool {
	node := leaf
	for _, sibling := range proof {
		node = pairDigest(node, sibling)
	}
	return node == root
}
