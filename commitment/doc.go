// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package commitment - salted field leaves and the record commitment root
//
// every field value is committed separately:
//
//   salt   = hex(16 random bytes)
//   digest = Keccak-256(salt ++ value)
//
// and the ordered digests are reduced to a single root by the merkle
// package.  Rebuild repeats the computation with stored salts so a
// verifier can compare roots.
package commitment
