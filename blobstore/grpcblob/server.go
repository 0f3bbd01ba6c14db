// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package grpcblob

import (
	"context"
	"errors"

	"github.com/bitmark-inc/logger"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/bitmark-inc/provenanced/blobstore"
	"github.com/bitmark-inc/provenanced/fault"
)

// Hasher - optional presence check of a store
type Hasher interface {
	Has(ctx context.Context, locator string) (bool, error)
}

// Server - exposes a blob store over gRPC
type Server struct {
	UnimplementedBlobStoreServer
	Log   *logger.L
	Store blobstore.Store
}

// Put - store a document
func (s *Server) Put(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.StringValue, error) {
	locator, err := s.Store.Put(ctx, in.GetValue())
	if nil != err {
		s.Log.Errorf("put error: %s", err)
		return nil, toStatus(err)
	}
	return wrapperspb.String(locator), nil
}

// Get - fetch a document
func (s *Server) Get(ctx context.Context, in *wrapperspb.StringValue) (*wrapperspb.BytesValue, error) {
	document, err := s.Store.Get(ctx, in.GetValue())
	if nil != err {
		return nil, toStatus(err)
	}
	return wrapperspb.Bytes(document), nil
}

// Has - check a document is present
func (s *Server) Has(ctx context.Context, in *wrapperspb.StringValue) (*wrapperspb.BoolValue, error) {
	h, ok := s.Store.(Hasher)
	if !ok {
		return nil, status.Error(codes.Unimplemented, "store has no presence check")
	}
	found, err := h.Has(ctx, in.GetValue())
	if nil != err {
		return nil, toStatus(err)
	}
	return wrapperspb.Bool(found), nil
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, fault.BlobNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, fault.InvalidLocator):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		return status.Error(codes.Unavailable, err.Error())
	}
}
