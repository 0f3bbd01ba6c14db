// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package outcome_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/provenanced/fault"
	"github.com/bitmark-inc/provenanced/fixtures"
	"github.com/bitmark-inc/provenanced/outcome"
	"github.com/bitmark-inc/provenanced/record"
)

func TestMain(m *testing.M) {
	os.Exit(fixtures.Run(m))
}

func TestMessages(t *testing.T) {
	assert.Equal(t, "Product is Authentic", outcome.Verified.Message(), "verified")
	assert.Equal(t, "Product data is tampered", outcome.Tampered.Message(), "tampered")
	assert.Equal(t, "Product not found", outcome.NotFound.Message(), "not found")
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "verify:sale:7", outcome.Key(record.KindSale, 7), "sale")
	assert.Equal(t, "verify:all:7", outcome.Key(outcome.AllKinds, 7), "aggregate")
}

func TestCombine(t *testing.T) {
	part := func(kind record.Kind, s outcome.Status) outcome.Outcome {
		return outcome.New(kind, 7, s)
	}

	items := []struct {
		parts    []outcome.Outcome
		expected outcome.Status
	}{
		{
			parts: []outcome.Outcome{
				part(record.KindRegistration, outcome.Verified),
				part(record.KindVaccination, outcome.Verified),
				part(record.KindSale, outcome.Verified),
			},
			expected: outcome.Verified,
		},
		{
			parts: []outcome.Outcome{
				part(record.KindRegistration, outcome.Verified),
				part(record.KindVaccination, outcome.NotFound),
				part(record.KindSale, outcome.Verified),
			},
			expected: outcome.NotFound,
		},
		{
			parts: []outcome.Outcome{
				part(record.KindRegistration, outcome.NotFound),
				part(record.KindVaccination, outcome.Tampered),
				part(record.KindSale, outcome.Verified),
			},
			expected: outcome.Tampered,
		},
		{
			parts:    nil,
			expected: outcome.NotFound,
		},
	}

	for i, item := range items {
		o := outcome.Combine(7, item.parts)
		assert.Equal(t, item.expected, o.Status, "%d: status", i)
		assert.Equal(t, item.expected.Message(), o.Message, "%d: message", i)
		assert.Equal(t, outcome.AllKinds, o.Kind, "%d: kind", i)
		assert.Len(t, o.Details, len(item.parts), "%d: details", i)
	}
}

func TestPolicy(t *testing.T) {
	p := outcome.DefaultPolicy()
	assert.Equal(t, time.Hour, p.TTL(outcome.Verified), "verified")
	assert.Equal(t, 5*time.Minute, p.TTL(outcome.Tampered), "tampered")
	assert.Equal(t, time.Minute, p.TTL(outcome.NotFound), "not found")
	assert.True(t, p.TTL(outcome.Verified) > p.TTL(outcome.Tampered), "asymmetry")

	p = outcome.PolicyFromSeconds(10, 0, 2)
	assert.Equal(t, 10*time.Second, p.Verified, "configured verified")
	assert.Equal(t, outcome.DefaultTamperedTTL, p.Tampered, "default tampered")
	assert.Equal(t, 2*time.Second, p.NotFound, "configured not found")
}

func TestMemoryExpiry(t *testing.T) {
	c := outcome.NewMemory(time.Minute)
	ctx := context.Background()
	p := outcome.Policy{
		Verified: time.Hour,
		Tampered: 20 * time.Millisecond,
		NotFound: 20 * time.Millisecond,
	}

	good := outcome.New(record.KindSale, 1, outcome.Verified)
	bad := outcome.New(record.KindSale, 2, outcome.Tampered)
	require.Nil(t, c.Set(ctx, outcome.Key(good.Kind, good.Subject), good, p.TTL(good.Status)), "set good")
	require.Nil(t, c.Set(ctx, outcome.Key(bad.Kind, bad.Subject), bad, p.TTL(bad.Status)), "set bad")

	o, found, err := c.Get(ctx, outcome.Key(record.KindSale, 2))
	assert.Nil(t, err, "get error")
	assert.True(t, found, "tampered present")
	assert.Equal(t, bad, o, "tampered outcome")

	time.Sleep(60 * time.Millisecond)

	_, found, _ = c.Get(ctx, outcome.Key(record.KindSale, 2))
	assert.False(t, found, "tampered expired")

	o, found, _ = c.Get(ctx, outcome.Key(record.KindSale, 1))
	assert.True(t, found, "verified still present")
	assert.Equal(t, good, o, "verified outcome")
}

func TestMemoryDetailsNotShared(t *testing.T) {
	c := outcome.NewMemory(time.Minute)
	ctx := context.Background()
	key := outcome.Key(outcome.AllKinds, 7)

	o := outcome.Combine(7, []outcome.Outcome{
		outcome.New(record.KindRegistration, 7, outcome.Verified),
		outcome.New(record.KindSale, 7, outcome.Verified),
	})
	require.Nil(t, c.Set(ctx, key, o, time.Minute), "set error")
	o.Details[record.KindSale] = outcome.Tampered

	got, found, err := c.Get(ctx, key)
	require.Nil(t, err, "get error")
	require.True(t, found, "found")
	assert.Equal(t, outcome.Verified, got.Details[record.KindSale], "unchanged by caller before set")

	got.Details[record.KindRegistration] = outcome.NotFound
	again, _, _ := c.Get(ctx, key)
	assert.Equal(t, outcome.Verified, again.Details[record.KindRegistration], "unchanged by caller after get")
	assert.Len(t, again.Details, 2, "details")
}

func TestRedis(t *testing.T) {
	commands := &outcome.RedisCommands{
		Values: map[string]string{},
		TTL:    map[string]time.Duration{},
	}
	c := outcome.NewTestRedis(logger.New(fixtures.LogCategory), commands)
	ctx := context.Background()

	_, found, err := c.Get(ctx, "verify:sale:7")
	assert.Nil(t, err, "miss error")
	assert.False(t, found, "miss")

	o := outcome.Combine(7, []outcome.Outcome{outcome.New(record.KindSale, 7, outcome.Verified)})
	require.Nil(t, c.Set(ctx, "verify:all:7", o, time.Hour), "set")
	assert.Equal(t, time.Hour, commands.TTL["verify:all:7"], "ttl")

	cached, found, err := c.Get(ctx, "verify:all:7")
	assert.Nil(t, err, "hit error")
	assert.True(t, found, "hit")
	assert.Equal(t, o, cached, "outcome")

	commands.Values["verify:sale:8"] = "not json"
	_, found, err = c.Get(ctx, "verify:sale:8")
	assert.Nil(t, err, "corrupt error")
	assert.False(t, found, "corrupt is a miss")

	commands.Err = errors.New("connection refused")
	_, _, err = c.Get(ctx, "verify:all:7")
	assert.True(t, errors.Is(err, fault.CacheUnavailable), "get unavailable: %v", err)
	err = c.Set(ctx, "verify:all:7", o, time.Hour)
	assert.True(t, errors.Is(err, fault.CacheUnavailable), "set unavailable: %v", err)

	_, err = outcome.NewRedis(logger.New(fixtures.LogCategory), outcome.RedisConfiguration{})
	assert.Equal(t, fault.MissingRemoteURL, err, "no address")
}
