// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package commitment

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/bitmark-inc/provenanced/fault"
	"github.com/bitmark-inc/provenanced/merkle"
)

// SaltLength - number of random bytes in a salt
const SaltLength = 16

// entropy for new salts
var randomSource io.Reader = rand.Reader

// Leaf - one committed field
type Leaf struct {
	Salt   string        `json:"salt"`
	Digest merkle.Digest `json:"digest"`
}

// NewSalt - fresh random salt as lower case hex
func NewSalt() (string, error) {
	buffer := make([]byte, SaltLength)
	if _, err := io.ReadFull(randomSource, buffer); nil != err {
		return "", fmt.Errorf("%w: %s", fault.RandomSourceFailed, err)
	}
	return hex.EncodeToString(buffer), nil
}

// ValidSalt - check a stored salt has the generated shape
func ValidSalt(salt string) bool {
	if 2*SaltLength != len(salt) {
		return false
	}
	for _, c := range salt {
		if !('0' <= c && c <= '9' || 'a' <= c && c <= 'f') {
			return false
		}
	}
	return true
}

// LeafDigest - Keccak-256 of the salt text followed by the canonical value
func LeafDigest(salt string, value string) merkle.Digest {
	buffer := make([]byte, 0, len(salt)+len(value))
	buffer = append(buffer, salt...)
	buffer = append(buffer, value...)
	return merkle.NewDigest(buffer)
}

// Commit - salt and hash a single canonical field value
func Commit(value string) (Leaf, error) {
	salt, err := NewSalt()
	if nil != err {
		return Leaf{}, err
	}
	return Leaf{
		Salt:   salt,
		Digest: LeafDigest(salt, value),
	}, nil
}
