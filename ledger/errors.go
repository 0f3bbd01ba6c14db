// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"fmt"

	"github.com/bitmark-inc/provenanced/fault"
)

var (
	errEmptyBatch  = fault.EmptyBatch
	errLargeBatch  = fault.BatchTooLarge
	errBatchLength = fmt.Errorf("%w: subjects, roots and locators differ in length", fault.InvalidCount)
	errZeroRoot    = fmt.Errorf("%w: zero root", fault.InvalidDigest)
	errNoLocator   = fault.InvalidLocator
)
