// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package outcome - verification results and their cache
package outcome

import (
	"fmt"

	"github.com/bitmark-inc/provenanced/record"
)

// Status - classification of a verification
type Status string

// the possible classifications
const (
	Verified Status = "Verified"
	Tampered Status = "Tampered"
	NotFound Status = "NotFound"
)

// Message - human readable text for a status
func (s Status) Message() string {
	switch s {
	case Verified:
		return "Product is Authentic"
	case Tampered:
		return "Product data is tampered"
	default:
		return "Product not found"
	}
}

// AllKinds - the kind name used for aggregate verification
const AllKinds record.Kind = "all"

// Outcome - the result of verifying one kind or the aggregate of
// several kinds for a subject
type Outcome struct {
	Status   Status                 `json:"status"`
	Message  string                 `json:"message"`
	Kind     record.Kind            `json:"kind"`
	Subject  uint64                 `json:"subject"`
	Anchored string                 `json:"anchored,omitempty"`
	Computed string                 `json:"computed,omitempty"`
	Details  map[record.Kind]Status `json:"details,omitempty"`
}

// New - an outcome with the message of its status
func New(kind record.Kind, subject uint64, status Status) Outcome {
	return Outcome{
		Status:  status,
		Message: status.Message(),
		Kind:    kind,
		Subject: subject,
	}
}

// Combine - aggregate several per-kind outcomes
//
// any Tampered makes the aggregate Tampered, otherwise any NotFound
// makes it NotFound
func Combine(subject uint64, parts []Outcome) Outcome {
	status := Verified
	details := make(map[record.Kind]Status, len(parts))
	for _, p := range parts {
		details[p.Kind] = p.Status
		switch p.Status {
		case Tampered:
			status = Tampered
		case NotFound:
			if Verified == status {
				status = NotFound
			}
		}
	}
	if 0 == len(parts) {
		status = NotFound
	}
	o := New(AllKinds, subject, status)
	o.Details = details
	return o
}

// Clone - copy of an outcome that shares no details map
func (o Outcome) Clone() Outcome {
	if nil == o.Details {
		return o
	}
	details := make(map[record.Kind]Status, len(o.Details))
	for k, s := range o.Details {
		details[k] = s
	}
	o.Details = details
	return o
}

// Key - the cache key of an outcome
func Key(kind record.Kind, subject uint64) string {
	return fmt.Sprintf("verify:%s:%d", kind, subject)
}
