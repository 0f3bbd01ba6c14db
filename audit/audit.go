// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package audit - find anchors that were never persisted locally
//
// Submission anchors a record before its salts are written, so a
// failure in between leaves an anchor that can never be verified.
// The audit pages through every anchor on the ledger and reports
// those with no salt record.  Nothing is repaired.
package audit

import (
	"context"
	"errors"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/provenanced/fault"
	"github.com/bitmark-inc/provenanced/ledger"
	"github.com/bitmark-inc/provenanced/record"
	"github.com/bitmark-inc/provenanced/saltstore"
)

// DefaultPageSize - anchors fetched per ledger call
const DefaultPageSize = 100

// Report - result of one pass
type Report struct {
	Started  time.Time       `json:"started"`
	Finished time.Time       `json:"finished"`
	Scanned  int             `json:"scanned"`
	Orphans  []ledger.Anchor `json:"orphans"`
	Unknown  []ledger.Anchor `json:"unknown"`
}

// Auditor - compares ledger anchors with the salt store
type Auditor struct {
	log      *logger.L
	registry *record.Registry
	anchors  ledger.Enumerator
	salts    saltstore.Store
	pageSize int
}

// New - create an auditor
func New(log *logger.L, registry *record.Registry, anchors ledger.Enumerator, salts saltstore.Store) *Auditor {
	return &Auditor{
		log:      log,
		registry: registry,
		anchors:  anchors,
		salts:    salts,
		pageSize: DefaultPageSize,
	}
}

// SetPageSize - change the ledger page size
func (a *Auditor) SetPageSize(n int) {
	if n > 0 {
		a.pageSize = n
	}
}

// Run - one full pass over the ledger
func (a *Auditor) Run(ctx context.Context) (Report, error) {
	report := Report{
		Started: time.Now(),
		Orphans: []ledger.Anchor{},
		Unknown: []ledger.Anchor{},
	}

	cursor := ""
	for {
		anchors, next, err := a.anchors.List(ctx, cursor, a.pageSize)
		if nil != err {
			return report, err
		}

		for _, anchor := range anchors {
			report.Scanned += 1

			schema, err := a.registry.Lookup(anchor.Kind)
			if nil != err {
				a.log.Warnf("unknown kind: %q  subject: %d  handle: %s", anchor.Kind, anchor.Subject, anchor.Handle)
				report.Unknown = append(report.Unknown, anchor)
				continue
			}

			_, err = a.salts.Salts(ctx, schema, anchor.Subject, anchor.Root)
			if errors.Is(err, fault.SaltsNotFound) {
				a.log.Warnf("orphaned anchor: %s/%d  sequence: %d  handle: %s", anchor.Kind, anchor.Subject, anchor.Sequence, anchor.Handle)
				report.Orphans = append(report.Orphans, anchor)
				continue
			}
			if nil != err {
				return report, err
			}
		}

		if "" == next {
			break
		}
		cursor = next
	}

	report.Finished = time.Now()
	a.log.Infof("audit: scanned: %d  orphans: %d  unknown: %d", report.Scanned, len(report.Orphans), len(report.Unknown))
	return report, nil
}
