// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package remote - ledger access over JSON-RPC
//
// the server side exposes a ledger as the "Ledger" net/rpc service
// with the JSON codec, one request per HTTP POST; the client side
// implements ledger.Ledger against such a server.
package remote

import (
	"context"
	"io"
	"net/http"
	"net/rpc"
	"net/rpc/jsonrpc"

	"github.com/bitmark-inc/logger"
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/provenanced/ledger"
	"github.com/bitmark-inc/provenanced/merkle"
	"github.com/bitmark-inc/provenanced/ratelimit"
	"github.com/bitmark-inc/provenanced/record"
)

const (
	serviceName = "Ledger"

	maximumList = 1000
	rateLimit   = 200
	rateBurst   = ledger.MaximumBatch
)

// Store - what a served ledger must provide
type Store interface {
	ledger.Ledger
	ledger.Enumerator
}

// Ledger - type for the RPC
type Ledger struct {
	Log     *logger.L
	Limiter *rate.Limiter
	Store   Store
}

// WriteArguments - arguments for RPC request
type WriteArguments struct {
	Subject uint64        `json:"subject"`
	Kind    record.Kind   `json:"kind"`
	Root    merkle.Digest `json:"root"`
	Locator string        `json:"locator"`
}

// WriteBatchArguments - arguments for RPC request
type WriteBatchArguments struct {
	Kind     record.Kind     `json:"kind"`
	Subjects []uint64        `json:"subjects"`
	Roots    []merkle.Digest `json:"roots"`
	Locators []string        `json:"locators"`
}

// ReadArguments - arguments for Read and History
type ReadArguments struct {
	Subject uint64      `json:"subject"`
	Kind    record.Kind `json:"kind"`
}

// ReadReply - result of Read
type ReadReply struct {
	Anchor ledger.Anchor `json:"anchor"`
	Found  bool          `json:"found"`
}

// HistoryReply - result of History
type HistoryReply struct {
	Anchors []ledger.Anchor `json:"anchors"`
}

// ListArguments - arguments for List
type ListArguments struct {
	Start string `json:"start"`
	Count int    `json:"count"`
}

// ListReply - result of List
type ListReply struct {
	Anchors []ledger.Anchor `json:"anchors"`
	Next    string          `json:"next"`
}

// New - RPC service over a ledger
func New(log *logger.L, store Store) *Ledger {
	return &Ledger{
		Log:     log,
		Limiter: rate.NewLimiter(rateLimit, rateBurst),
		Store:   store,
	}
}

// Write - RPC to append one anchor
func (l *Ledger) Write(arguments *WriteArguments, reply *ledger.Anchor) error {
	ctx := context.Background()
	if err := ratelimit.Limit(ctx, l.Limiter); nil != err {
		return err
	}
	l.Log.Debugf("Ledger.Write: %+v", arguments)

	a, err := l.Store.Write(ctx, arguments.Subject, arguments.Kind, arguments.Root, arguments.Locator)
	if nil != err {
		return err
	}
	*reply = a
	return nil
}

// WriteBatch - RPC to append anchors of one kind
func (l *Ledger) WriteBatch(arguments *WriteBatchArguments, reply *ledger.BatchReceipt) error {
	ctx := context.Background()
	if err := ratelimit.LimitN(ctx, l.Limiter, len(arguments.Subjects), ledger.MaximumBatch); nil != err {
		return err
	}
	l.Log.Debugf("Ledger.WriteBatch: %s  count: %d", arguments.Kind, len(arguments.Subjects))

	r, err := l.Store.WriteBatch(ctx, arguments.Kind, arguments.Subjects, arguments.Roots, arguments.Locators)
	if nil != err {
		return err
	}
	*reply = r
	return nil
}

// Read - RPC for the latest anchor
func (l *Ledger) Read(arguments *ReadArguments, reply *ReadReply) error {
	ctx := context.Background()
	if err := ratelimit.Limit(ctx, l.Limiter); nil != err {
		return err
	}

	a, found, err := l.Store.Read(ctx, arguments.Subject, arguments.Kind)
	if nil != err {
		return err
	}
	reply.Anchor = a
	reply.Found = found
	return nil
}

// History - RPC for all anchors of a subject and kind
func (l *Ledger) History(arguments *ReadArguments, reply *HistoryReply) error {
	ctx := context.Background()
	if err := ratelimit.Limit(ctx, l.Limiter); nil != err {
		return err
	}

	anchors, err := l.Store.History(ctx, arguments.Subject, arguments.Kind)
	if nil != err {
		return err
	}
	reply.Anchors = anchors
	return nil
}

// List - RPC to page through all anchors
func (l *Ledger) List(arguments *ListArguments, reply *ListReply) error {
	ctx := context.Background()
	if err := ratelimit.LimitN(ctx, l.Limiter, arguments.Count, maximumList); nil != err {
		return err
	}

	anchors, next, err := l.Store.List(ctx, arguments.Start, arguments.Count)
	if nil != err {
		return err
	}
	reply.Anchors = anchors
	reply.Next = next
	return nil
}

// type to allow rpc system to interface to http request
type internalConnection struct {
	in  io.Reader
	out io.Writer
}

func (c *internalConnection) Read(p []byte) (n int, err error) {
	return c.in.Read(p)
}
func (c *internalConnection) Write(d []byte) (n int, err error) {
	return c.out.Write(d)
}
func (c *internalConnection) Close() error {
	return nil
}

type httpHandler struct {
	log    *logger.L
	server *rpc.Server
}

// NewHandler - HTTP handler serving the ledger RPC
func NewHandler(log *logger.L, store Store) (http.Handler, error) {
	server := rpc.NewServer()
	if err := server.RegisterName(serviceName, New(log, store)); nil != err {
		return nil, err
	}
	return &httpHandler{
		log:    log,
		server: server,
	}, nil
}

// performs a call to any RPC
func (h *httpHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if http.MethodPost != r.Method {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	serverCodec := jsonrpc.NewServerCodec(&internalConnection{in: r.Body, out: w})
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)
	err := h.server.ServeRequest(serverCodec)
	if nil != err {
		h.log.Errorf("rpc from: %s  error: %s", r.RemoteAddr, err)
	}
}
