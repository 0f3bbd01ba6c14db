// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package grpcblob

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/bitmark-inc/provenanced/fault"
)

// Client - blobstore.Store over the gRPC service
type Client struct {
	cc      *grpc.ClientConn
	client  BlobStoreClient
	timeout time.Duration
}

// Dial - connect to a blob store server
//
// the connection is established lazily on the first call
func Dial(target string, timeout time.Duration) (*Client, error) {
	if "" == target {
		return nil, fault.MissingRemoteURL
	}
	cc, err := grpc.NewClient(target, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if nil != err {
		return nil, err
	}
	c := NewClient(cc, timeout)
	c.cc = cc
	return c, nil
}

// NewClient - client on an existing connection
func NewClient(cc grpc.ClientConnInterface, timeout time.Duration) *Client {
	return &Client{
		client:  NewBlobStoreClient(cc),
		timeout: timeout,
	}
}

// Close - close a connection made by Dial
func (c *Client) Close() error {
	if nil == c.cc {
		return nil
	}
	return c.cc.Close()
}

// Put - store a document
func (c *Client) Put(ctx context.Context, document []byte) (string, error) {
	ctx, cancel := c.context(ctx)
	defer cancel()

	reply, err := c.client.Put(ctx, wrapperspb.Bytes(document))
	if nil != err {
		return "", fromStatus(err)
	}
	return reply.GetValue(), nil
}

// Get - fetch a document
func (c *Client) Get(ctx context.Context, locator string) ([]byte, error) {
	ctx, cancel := c.context(ctx)
	defer cancel()

	reply, err := c.client.Get(ctx, wrapperspb.String(locator))
	if nil != err {
		return nil, fromStatus(err)
	}
	return reply.GetValue(), nil
}

// Has - check a document is present
func (c *Client) Has(ctx context.Context, locator string) (bool, error) {
	ctx, cancel := c.context(ctx)
	defer cancel()

	reply, err := c.client.Has(ctx, wrapperspb.String(locator))
	if nil != err {
		return false, fromStatus(err)
	}
	return reply.GetValue(), nil
}

func (c *Client) context(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

func fromStatus(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return fmt.Errorf("%w: %s", fault.BlobStoreUnavailable, err)
	}
	switch st.Code() {
	case codes.NotFound:
		return fault.BlobNotFound
	case codes.InvalidArgument:
		return fault.InvalidLocator
	default:
		return fmt.Errorf("%w: %s", fault.BlobStoreUnavailable, st.Message())
	}
}
