// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package pipeline - submission and verification of provenance records
//
// Submission of one record runs strictly in order:
//
//   1. build the salted commitment of the canonical field values
//   2. upload the JSON payload to the blob store (bounded retries)
//   3. anchor (subject, kind, root, locator) on the ledger
//   4. persist the salt record and, for registrations, the code row
//
// A failure aborts the remaining steps.  Steps 2 to 4 are not a
// transaction: a failure in step 4 leaves an orphaned anchor, which is
// logged and can be found later by the audit.
//
// A batch builds and uploads every record, anchors them all with one
// ledger call, then persists each record concurrently; the batch is
// anchored atomically but persisted record by record.
//
// Verification reads the anchor, the payload and the salts, rebuilds
// the commitment with the stored salts and compares roots.  Outcomes
// are cached with a lifetime that depends on the result.
package pipeline

//go:generate mockgen -destination=mocks/ledger.go -package=mocks github.com/bitmark-inc/provenanced/ledger Ledger
//go:generate mockgen -destination=mocks/blobstore.go -package=mocks -mock_names=Store=MockBlobStore github.com/bitmark-inc/provenanced/blobstore Store
//go:generate mockgen -destination=mocks/saltstore.go -package=mocks -mock_names=Store=MockSaltStore github.com/bitmark-inc/provenanced/saltstore Store
//go:generate mockgen -destination=mocks/cache.go -package=mocks github.com/bitmark-inc/provenanced/outcome Cache
