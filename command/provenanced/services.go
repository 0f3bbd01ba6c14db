// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/provenanced/blobstore"
	"github.com/bitmark-inc/provenanced/blobstore/grpcblob"
	"github.com/bitmark-inc/provenanced/ledger"
	"github.com/bitmark-inc/provenanced/ledger/remote"
	"github.com/bitmark-inc/provenanced/outcome"
	"github.com/bitmark-inc/provenanced/pipeline"
	"github.com/bitmark-inc/provenanced/record"
	"github.com/bitmark-inc/provenanced/saltstore"
	"github.com/bitmark-inc/provenanced/storage"
)

// services - the stores selected by the configuration
type services struct {
	registry *record.Registry
	ledger   remote.Store
	local    *ledger.Local // set when the ledger is local, for serving
	blobs    blobstore.Store
	salts    saltstore.Store
	cache    outcome.Cache
	policy   outcome.Policy

	finalisers []func()
}

// open every store, on error anything already opened is closed
func openServices(ctx context.Context, log *logger.L, options *Configuration, db *storage.DB) (*services, error) {
	s := &services{
		registry: record.Default(),
		policy:   options.Policy(),
	}
	ok := false
	defer func() {
		if !ok {
			s.finalise()
		}
	}()

	switch options.Ledger.Mode {
	case modeRemote:
		log.Infof("ledger: remote: %s", options.Ledger.URL)
		timeout := time.Duration(options.Ledger.Timeout) * time.Second
		client, err := remote.NewClient(logger.New("ledger"), options.Ledger.URL, timeout)
		if nil != err {
			return nil, err
		}
		s.ledger = client
	default:
		log.Info("ledger: local")
		s.local = ledger.NewLocal(logger.New("ledger"), db)
		s.ledger = s.local
	}

	switch options.BlobStore.Mode {
	case modePinning:
		log.Infof("blobstore: pinning: %s", options.BlobStore.Pinning.API)
		pinning, err := blobstore.NewPinning(logger.New("blobstore"), options.BlobStore.Pinning)
		if nil != err {
			return nil, err
		}
		s.blobs = pinning
	case modeGRPC:
		log.Infof("blobstore: grpc: %s", options.BlobStore.Address)
		timeout := time.Duration(options.BlobStore.Timeout) * time.Second
		client, err := grpcblob.Dial(options.BlobStore.Address, timeout)
		if nil != err {
			return nil, err
		}
		s.addFinaliser(func() { _ = client.Close() })
		s.blobs = client
	default:
		log.Info("blobstore: local")
		s.blobs = blobstore.NewLocal(logger.New("blobstore"), db)
	}

	switch options.SaltStore.Mode {
	case modePostgres:
		log.Info("saltstore: postgres")
		postgres, err := saltstore.ConnectPostgres(ctx, logger.New("saltstore"), options.SaltStore.DSN)
		if nil != err {
			return nil, err
		}
		s.addFinaliser(postgres.Close)
		if err := postgres.Setup(ctx, s.registry); nil != err {
			return nil, err
		}
		s.salts = postgres
	default:
		log.Info("saltstore: local")
		s.salts = saltstore.NewLocal(logger.New("saltstore"), db)
	}

	switch options.Cache.Mode {
	case modeRedis:
		log.Infof("cache: redis: %s", options.Cache.Redis.Address)
		redis, err := outcome.NewRedis(logger.New("outcome"), options.Cache.Redis)
		if nil != err {
			return nil, err
		}
		s.addFinaliser(func() { _ = redis.Close() })
		s.cache = redis
	default:
		log.Info("cache: memory")
		s.cache = outcome.NewMemory(time.Duration(options.Cache.Cleanup) * time.Second)
	}

	ok = true
	return s, nil
}

func (s *services) addFinaliser(f func()) {
	s.finalisers = append(s.finalisers, f)
}

// close in reverse order of opening
func (s *services) finalise() {
	for i := len(s.finalisers) - 1; i >= 0; i -= 1 {
		s.finalisers[i]()
	}
	s.finalisers = nil
}

// the handles for the record pipeline
func (s *services) handles() pipeline.Handles {
	return pipeline.Handles{
		Registry: s.registry,
		Ledger:   s.ledger,
		Blobs:    s.blobs,
		Salts:    s.salts,
		Cache:    s.cache,
		Policy:   s.policy,
	}
}
