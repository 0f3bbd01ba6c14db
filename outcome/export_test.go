// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package outcome

import (
	"context"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/redis/go-redis/v9"
)

// RedisCommands - canned replies for a redis cache under test
type RedisCommands struct {
	Values map[string]string
	TTL    map[string]time.Duration
	Err    error
}

func (c *RedisCommands) Get(ctx context.Context, key string) *redis.StringCmd {
	if nil != c.Err {
		return redis.NewStringResult("", c.Err)
	}
	v, ok := c.Values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (c *RedisCommands) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	if nil != c.Err {
		return redis.NewStatusResult("", c.Err)
	}
	c.Values[key] = string(value.([]byte))
	c.TTL[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func NewTestRedis(log *logger.L, commands *RedisCommands) *Redis {
	return newRedis(log, commands)
}
