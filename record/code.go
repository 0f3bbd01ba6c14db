// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package record

import (
	"encoding/base64"
	"strconv"
	"strings"

	"github.com/bitmark-inc/provenanced/fault"
)

// decoders tried in order, printed codes use the first
var codeEncodings = []*base64.Encoding{
	base64.StdEncoding,
	base64.URLEncoding,
	base64.RawStdEncoding,
	base64.RawURLEncoding,
}

// EncodeCode - identifier token printed on a label
func EncodeCode(subject uint64) string {
	return base64.StdEncoding.EncodeToString([]byte(Unsigned(subject)))
}

// DecodeCode - subject identifier from a label token
func DecodeCode(code string) (uint64, error) {
	code = strings.TrimSpace(code)
	if "" == code {
		return 0, fault.InvalidCode
	}
	for _, e := range codeEncodings {
		buffer, err := e.DecodeString(code)
		if nil != err {
			continue
		}
		s := string(buffer)
		if "" == s || strings.TrimLeft(s, "0123456789") != "" {
			return 0, fault.InvalidCode
		}
		n, err := strconv.ParseUint(s, 10, 64)
		if nil != err {
			return 0, fault.InvalidCode
		}
		return n, nil
	}
	return 0, fault.InvalidCode
}
