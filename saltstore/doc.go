// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package saltstore - persistence of salt records
//
// A salt record holds the salts used to build the commitment of one
// submitted record, in field order, together with the plaintext
// canonical values.  Records are keyed by (kind, subject, root) so
// that every anchored version of a subject can be verified, not only
// the latest.
//
// Registration records also leave an identifier code row that maps a
// subject to the token printed on its label.
//
// Two implementations are provided:
//
//   Local    - LevelDB pools of the storage package
//   Postgres - one table per record kind, created from the kind schema
package saltstore
