// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package counter_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/provenanced/counter"
)

// test incrementing/decrementing a counter
func TestCounter(t *testing.T) {

	var c1 counter.Counter

	assert.True(t, c1.IsZero(), "counter is not zero at start")

	for i := 0; i < 5; i += 1 {
		c1.Increment()
	}
	assert.Equal(t, uint64(5), c1.Uint64(), "after incrementing")

	assert.Equal(t, uint64(4), c1.Decrement(), "after decrementing")

	for i := 0; i < 4; i += 1 {
		c1.Decrement()
	}
	assert.True(t, c1.IsZero(), "counter did not return to zero")
}

// in flight requests go up and down concurrently
func TestConcurrentCounter(t *testing.T) {
	var active counter.Counter
	var total counter.Counter

	var wg sync.WaitGroup
	for i := 0; i < 50; i += 1 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			total.Increment()
			done := active.Track()
			done()
		}()
	}
	wg.Wait()

	assert.Equal(t, uint64(50), total.Uint64(), "total")
	assert.True(t, active.IsZero(), "active")
}
