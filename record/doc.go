// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package record - lifecycle event records and their field schemas
//
// each kind of record has a fixed, ordered list of fields; the order
// is the leaf order of the commitment and must never change for an
// existing kind.
//
// field values are converted to text before hashing:
//
//   text     - as given
//   unsigned - base 10, no sign, no leading zeros
//   decimal  - shortest round trip decimal, no exponent
//   date     - YYYY-MM-DD as given
//   absent   - empty string
package record
