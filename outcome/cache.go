// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package outcome

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/bitmark-inc/logger"
	cache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"

	"github.com/bitmark-inc/provenanced/fault"
)

// Cache - memo of verification outcomes
//
// writes blindly overwrite, the last writer wins
type Cache interface {
	Get(ctx context.Context, key string) (Outcome, bool, error)
	Set(ctx context.Context, key string, o Outcome, ttl time.Duration) error
}

// Memory - in process cache
type Memory struct {
	cache *cache.Cache
}

// NewMemory - empty in process cache, expired items are purged at the
// cleanup interval
func NewMemory(cleanup time.Duration) *Memory {
	return &Memory{
		cache: cache.New(DefaultNotFoundTTL, cleanup),
	}
}

// Get - fetch an unexpired outcome
func (m *Memory) Get(ctx context.Context, key string) (Outcome, bool, error) {
	obj, found := m.cache.Get(key)
	if !found {
		return Outcome{}, false, nil
	}
	return obj.(Outcome).Clone(), true, nil
}

// Set - store an outcome
func (m *Memory) Set(ctx context.Context, key string, o Outcome, ttl time.Duration) error {
	m.cache.Set(key, o.Clone(), ttl)
	return nil
}

// the subset of a redis client used here
type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// RedisConfiguration - connection parameters
type RedisConfiguration struct {
	Address  string `gluamapper:"address" json:"address"`
	Password string `gluamapper:"password" json:"-"`
	Database int    `gluamapper:"database" json:"database"`
}

// Redis - outcomes shared between processes through redis
type Redis struct {
	log    *logger.L
	client redisClient
	close  func() error
}

// NewRedis - cache on a redis server
func NewRedis(log *logger.L, cfg RedisConfiguration) (*Redis, error) {
	if "" == cfg.Address {
		return nil, fault.MissingRemoteURL
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.Database,
	})
	r := newRedis(log, client)
	r.close = client.Close
	return r, nil
}

func newRedis(log *logger.L, client redisClient) *Redis {
	return &Redis{
		log:    log,
		client: client,
	}
}

// Close - release the connection pool
func (r *Redis) Close() error {
	if nil == r.close {
		return nil
	}
	return r.close()
}

// Get - fetch an outcome
//
// an undecodable value is treated as a miss
func (r *Redis) Get(ctx context.Context, key string) (Outcome, bool, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return Outcome{}, false, nil
	}
	if nil != err {
		return Outcome{}, false, fmt.Errorf("%w: %s", fault.CacheUnavailable, err)
	}

	var o Outcome
	if err := json.Unmarshal(data, &o); nil != err {
		r.log.Warnf("discard cached value: %s  error: %s", key, err)
		return Outcome{}, false, nil
	}
	return o, true, nil
}

// Set - store an outcome
func (r *Redis) Set(ctx context.Context, key string, o Outcome, ttl time.Duration) error {
	data, err := json.Marshal(o)
	if nil != err {
		return err
	}
	if err := r.client.Set(ctx, key, data, ttl).Err(); nil != err {
		return fmt.Errorf("%w: %s", fault.CacheUnavailable, err)
	}
	return nil
}
