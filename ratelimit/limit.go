// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package ratelimit - token bucket limiting shared by the HTTP API and RPC services
package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/bitmark-inc/provenanced/fault"
)

// Limit - limiting for a single request
func Limit(ctx context.Context, limiter *rate.Limiter) error {
	return wait(ctx, limiter.Reserve())
}

// LimitN - limiting for a multiple request
//
// an invalid count is charged as a single request and then rejected
func LimitN(ctx context.Context, limiter *rate.Limiter, count int, maximumCount int) error {
	if count <= 0 || count > maximumCount {
		if err := wait(ctx, limiter.Reserve()); nil != err {
			return err
		}
		return fault.InvalidCount
	}
	return wait(ctx, limiter.ReserveN(time.Now(), count))
}

// Allow - non-blocking check used by the HTTP middleware
func Allow(limiter *rate.Limiter) error {
	if !limiter.Allow() {
		return fault.RateLimiting
	}
	return nil
}

func wait(ctx context.Context, r *rate.Reservation) error {
	if !r.OK() {
		return fault.RateLimiting
	}
	delay := r.Delay()
	if 0 == delay {
		return nil
	}
	t := time.NewTimer(delay)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		r.Cancel()
		return ctx.Err()
	}
}
