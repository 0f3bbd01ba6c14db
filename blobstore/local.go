// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blobstore

import (
	"context"
	"fmt"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/provenanced/fault"
	"github.com/bitmark-inc/provenanced/storage"
)

// Local - documents kept in the local database
type Local struct {
	log *logger.L
	db  *storage.DB
}

// NewLocal - blob store on an open database
func NewLocal(log *logger.L, db *storage.DB) *Local {
	return &Local{
		log: log,
		db:  db,
	}
}

// Put - store a document under its CID
func (l *Local) Put(ctx context.Context, document []byte) (string, error) {
	if err := ctx.Err(); nil != err {
		return "", err
	}
	locator, err := Locator(document)
	if nil != err {
		return "", err
	}
	if err := l.db.Blobs.Put([]byte(locator), document); nil != err {
		return "", fmt.Errorf("%w: %s", fault.BlobStoreUnavailable, err)
	}
	l.log.Debugf("stored: %s  bytes: %d", locator, len(document))
	return locator, nil
}

// Get - fetch a document
func (l *Local) Get(ctx context.Context, locator string) ([]byte, error) {
	if err := ctx.Err(); nil != err {
		return nil, err
	}
	if _, err := ParseLocator(locator); nil != err {
		return nil, err
	}
	document, err := l.db.Blobs.Get([]byte(locator))
	if nil != err {
		return nil, fmt.Errorf("%w: %s", fault.BlobStoreUnavailable, err)
	}
	if nil == document {
		return nil, fault.BlobNotFound
	}
	return document, nil
}

// Has - check a document is present
func (l *Local) Has(ctx context.Context, locator string) (bool, error) {
	if err := ctx.Err(); nil != err {
		return false, err
	}
	found, err := l.db.Blobs.Has([]byte(locator))
	if nil != err {
		return false, fmt.Errorf("%w: %s", fault.BlobStoreUnavailable, err)
	}
	return found, nil
}
