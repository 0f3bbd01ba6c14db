// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package record

import (
	"strconv"
	"time"
)

// DateLayout - the only accepted date format
const DateLayout = "2006-01-02"

// Unsigned - canonical text of an unsigned integer field
func Unsigned(n uint64) string {
	return strconv.FormatUint(n, 10)
}

// Decimal - canonical text of an optional decimal field
func Decimal(f *float64) string {
	if nil == f {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

// ValidDate - check a date field
func ValidDate(s string) bool {
	if len(DateLayout) != len(s) {
		return false
	}
	_, err := time.Parse(DateLayout, s)
	return nil == err
}
