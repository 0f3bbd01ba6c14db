// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package fault - error instances
//
// Provides a single instance of errors to allow easy comparison
// without having to resort to partial string matches.
//
// Each error belongs to a class so that callers can decide how to
// report it without knowing the individual instance:
//
//   InvalidError     - bad input, rejected before any I/O
//   NotFoundError    - a lookup found nothing
//   UnavailableError - an upstream store or service failed
//   ProcessError     - internal processing failed
//   ExistsError      - an item is already present
package fault
