// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package storage - maintain the on-disk data store
//
// maintain separate pools of a number of elements in key->value form
//
// This maintains a LevelDB database split into a series of tables.
// Each table is defined by a prefix byte that is obtained from the
// prefix tag in the struct defining the available tables.
//
// Notes:
// 1. each separate pool has a single byte prefix (to spread the keys in LevelDB)
// 2. ++         = concatenation of byte data
// 3. kind       = varint length ++ kind name
// 4. subject    = big endian uint64 (8 bytes)
// 5. sequence   = successive index value as big endian uint64 (8 bytes)
// 6. root       = 32 byte Keccak-256 commitment root
// 7. handle     = 32 byte Keccak-256 of the packed anchor
// 8. locator    = CID text
//
// Ledger:
//
//   A ++ kind ++ subject ++ sequence - anchors, oldest first
//                                      data: root ++ varint length ++ locator
//   N ++ kind ++ subject             - next sequence to use
//                                      data: count
//   H ++ handle                      - anchor key for a handle
//                                      data: kind ++ subject ++ sequence
//
// Blobs:
//
//   B ++ locator                     - payload
//                                      data: JSON document
//
// Salts:
//
//   S ++ kind ++ subject ++ root     - salt record
//                                      data: JSON salt row
//   Q ++ subject                     - identifier token
//                                      data: JSON code row
//
// Testing:
//   Z ++ key                         - testing data
package storage
