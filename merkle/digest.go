// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package merkle

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/sha3"

	"github.com/bitmark-inc/provenanced/fault"
)

// DigestLength - number of bytes in the digest
const DigestLength = 32

// marker for a 256 bit hex digest
const hexPrefix = "0x"

// Digest - type for a digest
//
// stored in hash output order, represented as "0x" + lower case hex
// for print and for JSON encoding
type Digest [DigestLength]byte

// NewDigest - create a Keccak-256 digest from a byte slice
func NewDigest(record []byte) Digest {
	var d Digest
	h := sha3.NewLegacyKeccak256()
	h.Write(record)
	h.Sum(d[:0])
	return d
}

// IsZero - true if digest has never been set
func (digest Digest) IsZero() bool {
	return digest == Digest{}
}

// Compare - unsigned byte comparison, as bytes.Compare
func (digest Digest) Compare(other Digest) int {
	return bytes.Compare(digest[:], other[:])
}

// convert a binary digest to hex string for use by the fmt package (for %s)
func (digest Digest) String() string {
	return hexPrefix + hex.EncodeToString(digest[:])
}

// Hex - lower case hex without the prefix
func (digest Digest) Hex() string {
	return hex.EncodeToString(digest[:])
}

// convert a binary digest to hex string for use by the fmt package (for %#v)
func (digest Digest) GoString() string {
	return "<Keccak-256:" + hex.EncodeToString(digest[:]) + ">"
}

// Scan - convert a hex representation to a digest for use by the format package scan routines
func (digest *Digest) Scan(state fmt.ScanState, verb rune) error {
	token, err := state.Token(true, func(c rune) bool {
		if c >= '0' && c <= '9' {
			return true
		}
		if c >= 'A' && c <= 'F' {
			return true
		}
		if c >= 'a' && c <= 'f' {
			return true
		}
		return 'x' == c || 'X' == c
	})
	if nil != err {
		return err
	}
	return digest.UnmarshalText(token)
}

// MarshalText - convert digest to prefixed hex text
func (digest Digest) MarshalText() ([]byte, error) {
	return []byte(digest.String()), nil
}

// UnmarshalText - convert hex text, with or without the prefix, into a digest
func (digest *Digest) UnmarshalText(s []byte) error {
	text := strings.TrimPrefix(strings.TrimPrefix(string(s), hexPrefix), "0X")
	if DigestLength != hex.DecodedLen(len(text)) {
		return fault.InvalidDigest
	}
	buffer, err := hex.DecodeString(text)
	if nil != err {
		return fault.InvalidDigest
	}
	copy(digest[:], buffer)
	return nil
}

// DigestFromBytes - convert and validate a binary byte slice to a digest
func DigestFromBytes(digest *Digest, buffer []byte) error {
	if DigestLength != len(buffer) {
		return fault.InvalidDigest
	}
	copy(digest[:], buffer)
	return nil
}

// DigestFromString - parse prefixed or plain hex text
func DigestFromString(s string) (Digest, error) {
	var d Digest
	err := d.UnmarshalText([]byte(s))
	return d, err
}
