// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package blobstore - off-ledger storage of plaintext record payloads
//
// documents are addressed by a locator string; stores in this package
// use CIDv1 (raw codec, sha2-256) locators, a pinning service returns
// its own CIDs.  Get never checks a document against its locator: a
// changed document must reach the verifier so it can be reported as
// tampered.
package blobstore

import (
	"context"
	"fmt"

	"github.com/bitmark-inc/logger"
	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"

	"github.com/bitmark-inc/provenanced/fault"
)

// Store - put and get documents by locator
type Store interface {
	Put(ctx context.Context, document []byte) (string, error)
	Get(ctx context.Context, locator string) ([]byte, error)
}

// Locator - CIDv1 of a document
func Locator(document []byte) (string, error) {
	sum, err := multihash.Sum(document, multihash.SHA2_256, -1)
	if nil != err {
		return "", err
	}
	return cid.NewCidV1(cid.Raw, sum).String(), nil
}

// ParseLocator - check a locator is a defined CID
func ParseLocator(locator string) (cid.Cid, error) {
	id, err := cid.Decode(locator)
	if nil != err || !id.Defined() {
		return cid.Undef, fault.InvalidLocator
	}
	return id, nil
}

// PutWithRetry - upload a document, trying up to attempts times with no backoff
//
// every failed attempt is logged; exhaustion is an upload failure
func PutWithRetry(ctx context.Context, log *logger.L, store Store, document []byte, attempts int) (string, error) {
	if attempts < 1 {
		attempts = 1
	}
	var lastErr error
	for i := 1; i <= attempts; i += 1 {
		if err := ctx.Err(); nil != err {
			return "", err
		}
		locator, err := store.Put(ctx, document)
		if nil == err {
			return locator, nil
		}
		lastErr = err
		log.Errorf("attempt %d failed to upload payload: %s", i, err)
	}
	return "", fmt.Errorf("%w: after %d attempts: %s", fault.UploadFailed, attempts, lastErr)
}
