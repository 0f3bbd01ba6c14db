// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pipeline

import (
	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/provenanced/blobstore"
	"github.com/bitmark-inc/provenanced/ledger"
	"github.com/bitmark-inc/provenanced/outcome"
	"github.com/bitmark-inc/provenanced/record"
	"github.com/bitmark-inc/provenanced/saltstore"
)

// UploadAttempts - tries to store a payload before giving up
const UploadAttempts = 3

// Handles - the external collaborators of the pipeline
type Handles struct {
	Registry *record.Registry
	Ledger   ledger.Ledger
	Blobs    blobstore.Store
	Salts    saltstore.Store
	Cache    outcome.Cache
	Policy   outcome.Policy
}

// Pipeline - submission and verification on a set of handles
type Pipeline struct {
	submitLog *logger.L
	verifyLog *logger.L
	h         Handles
}

// New - create a pipeline
//
// a nil registry is replaced by the default record kinds and a zero
// policy by the default lifetimes
func New(h Handles) *Pipeline {
	if nil == h.Registry {
		h.Registry = record.Default()
	}
	if (outcome.Policy{}) == h.Policy {
		h.Policy = outcome.DefaultPolicy()
	}
	return &Pipeline{
		submitLog: logger.New("submit"),
		verifyLog: logger.New("verify"),
		h:         h,
	}
}

// Registry - the record kinds accepted
func (p *Pipeline) Registry() *record.Registry {
	return p.h.Registry
}
