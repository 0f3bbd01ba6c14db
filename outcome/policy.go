// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package outcome

import (
	"time"
)

// default lifetimes of cached outcomes
const (
	DefaultVerifiedTTL = 3600 * time.Second
	DefaultTamperedTTL = 300 * time.Second
	DefaultNotFoundTTL = 60 * time.Second
)

// Policy - cache lifetime per status
//
// a negative result may be caused by a store that is catching up, so
// it is rechecked sooner than a positive one
type Policy struct {
	Verified time.Duration
	Tampered time.Duration
	NotFound time.Duration
}

// DefaultPolicy - the standard lifetimes
func DefaultPolicy() Policy {
	return Policy{
		Verified: DefaultVerifiedTTL,
		Tampered: DefaultTamperedTTL,
		NotFound: DefaultNotFoundTTL,
	}
}

// PolicyFromSeconds - lifetimes from configuration, zero keeps the default
func PolicyFromSeconds(verified int, tampered int, notFound int) Policy {
	p := DefaultPolicy()
	if verified > 0 {
		p.Verified = time.Duration(verified) * time.Second
	}
	if tampered > 0 {
		p.Tampered = time.Duration(tampered) * time.Second
	}
	if notFound > 0 {
		p.NotFound = time.Duration(notFound) * time.Second
	}
	return p
}

// TTL - lifetime of an outcome with the given status
func (p Policy) TTL(s Status) time.Duration {
	switch s {
	case Verified:
		return p.Verified
	case Tampered:
		return p.Tampered
	default:
		return p.NotFound
	}
}
