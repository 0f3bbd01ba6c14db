// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package merkle_test

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/provenanced/fault"
	"github.com/bitmark-inc/provenanced/merkle"
)

const emptyKeccak = "0xc5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470"

func TestEmptyDigest(t *testing.T) {
	d := merkle.NewDigest(nil)
	assert.Equal(t, emptyKeccak, d.String(), "keccak of empty input")
	assert.Equal(t, emptyKeccak[2:], d.Hex(), "plain hex")
	assert.False(t, d.IsZero(), "digest is zero")
}

func TestDigestText(t *testing.T) {
	d := merkle.NewDigest([]byte("abc"))
	assert.Equal(t, "4e03657aea45a94fc7d47ba826c8d667c0d1e6e33a64a036ec44f58fa12d6c45", d.Hex(), "keccak-256 of abc")

	buffer, err := json.Marshal(d)
	assert.Nil(t, err, "marshal error")
	assert.Equal(t, `"`+d.String()+`"`, string(buffer), "json text")

	var j merkle.Digest
	err = json.Unmarshal(buffer, &j)
	assert.Nil(t, err, "unmarshal error")
	assert.Equal(t, d, j, "json round trip")

	p, err := merkle.DigestFromString(d.Hex())
	assert.Nil(t, err, "unprefixed parse error")
	assert.Equal(t, d, p, "unprefixed parse")

	var s merkle.Digest
	n, err := fmt.Sscan(d.String(), &s)
	assert.Nil(t, err, "scan error")
	assert.Equal(t, 1, n, "scan count")
	assert.Equal(t, d, s, "scanned digest")
}

func TestInvalidDigestText(t *testing.T) {
	for _, s := range []string{
		"",
		"0x",
		"0x1234",
		emptyKeccak + "00",
		"0xz5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470",
	} {
		_, err := merkle.DigestFromString(s)
		assert.Equal(t, fault.InvalidDigest, err, "text: %q", s)
	}
}

func TestDigestFromBytes(t *testing.T) {
	var d merkle.Digest
	err := merkle.DigestFromBytes(&d, make([]byte, 31))
	assert.Equal(t, fault.InvalidDigest, err, "short buffer")

	buffer := make([]byte, merkle.DigestLength)
	buffer[0] = 0xff
	err = merkle.DigestFromBytes(&d, buffer)
	assert.Nil(t, err, "valid buffer")
	assert.Equal(t, byte(0xff), d[0], "first byte")
	assert.Equal(t, 1, d.Compare(merkle.Digest{}), "compare")
}
