// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package commitment

import (
	"io"
)

// SetRandomSource - replace the entropy source, returns a restore function
func SetRandomSource(r io.Reader) func() {
	saved := randomSource
	randomSource = r
	return func() {
		randomSource = saved
	}
}
