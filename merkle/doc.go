// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package merkle - Keccak-256 digests and the commitment tree
//
// The tree is built bottom up, one level at a time:
//
//   1. level 0 is the list of leaf digests in field order
//   2. nodes are taken in pairs (0,1), (2,3), …
//   3. each pair is ordered by unsigned byte comparison, smaller first,
//      and the parent is Keccak-256(first ++ second)
//   4. an odd final node is promoted unchanged to the next level
//   5. the single node of the last level is the root
//
// A single leaf is its own root.  Because pairs are sorted, an
// inclusion proof is just the list of siblings; no left/right flags
// are needed.
package merkle
