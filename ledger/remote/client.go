// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/provenanced/fault"
	"github.com/bitmark-inc/provenanced/ledger"
	"github.com/bitmark-inc/provenanced/merkle"
	"github.com/bitmark-inc/provenanced/record"
)

// Client - ledger.Ledger backed by a remote ledger RPC server
type Client struct {
	log    *logger.L
	url    string
	client *http.Client
	id     uint64
}

type clientRequest struct {
	Method string         `json:"method"`
	Params [1]interface{} `json:"params"`
	ID     uint64         `json:"id"`
}

type clientResponse struct {
	ID     uint64          `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  interface{}     `json:"error"`
}

// NewClient - client for the RPC endpoint at url
func NewClient(log *logger.L, url string, timeout time.Duration) (*Client, error) {
	if "" == url {
		return nil, fault.MissingRemoteURL
	}
	return &Client{
		log: log,
		url: url,
		client: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// call one method, any failure other than a decoded reply is an unavailable ledger
func (c *Client) call(ctx context.Context, method string, arguments interface{}, reply interface{}) error {
	request := clientRequest{
		Method: serviceName + "." + method,
		Params: [1]interface{}{arguments},
		ID:     atomic.AddUint64(&c.id, 1),
	}
	buffer, err := json.Marshal(request)
	if nil != err {
		return err
	}

	r, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(buffer))
	if nil != err {
		return fmt.Errorf("%w: %s", fault.LedgerUnavailable, err)
	}
	r.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(r)
	if nil != err {
		return fmt.Errorf("%w: %s", fault.LedgerUnavailable, err)
	}
	defer resp.Body.Close()

	if http.StatusOK != resp.StatusCode {
		return fmt.Errorf("%w: status: %s", fault.LedgerUnavailable, resp.Status)
	}

	var response clientResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); nil != err {
		return fmt.Errorf("%w: %s", fault.LedgerUnavailable, err)
	}
	if response.ID != request.ID {
		return fmt.Errorf("%w: response id: %d  expected: %d", fault.LedgerUnavailable, response.ID, request.ID)
	}
	if nil != response.Error {
		c.log.Warnf("%s: remote error: %v", request.Method, response.Error)
		return fmt.Errorf("%w: %v", fault.LedgerUnavailable, response.Error)
	}
	if err := json.Unmarshal(response.Result, reply); nil != err {
		return fmt.Errorf("%w: %s", fault.LedgerUnavailable, err)
	}
	return nil
}

// Write - append one anchor
func (c *Client) Write(ctx context.Context, subject uint64, kind record.Kind, root merkle.Digest, locator string) (ledger.Anchor, error) {
	if err := ledger.CheckAnchor(root, locator); nil != err {
		return ledger.Anchor{}, err
	}
	arguments := WriteArguments{
		Subject: subject,
		Kind:    kind,
		Root:    root,
		Locator: locator,
	}
	var reply ledger.Anchor
	err := c.call(ctx, "Write", &arguments, &reply)
	return reply, err
}

// WriteBatch - append anchors of one kind in one call
func (c *Client) WriteBatch(ctx context.Context, kind record.Kind, subjects []uint64, roots []merkle.Digest, locators []string) (ledger.BatchReceipt, error) {
	if err := ledger.CheckBatch(subjects, roots, locators); nil != err {
		return ledger.BatchReceipt{}, err
	}
	arguments := WriteBatchArguments{
		Kind:     kind,
		Subjects: subjects,
		Roots:    roots,
		Locators: locators,
	}
	var reply ledger.BatchReceipt
	err := c.call(ctx, "WriteBatch", &arguments, &reply)
	return reply, err
}

// Read - latest anchor
func (c *Client) Read(ctx context.Context, subject uint64, kind record.Kind) (ledger.Anchor, bool, error) {
	arguments := ReadArguments{
		Subject: subject,
		Kind:    kind,
	}
	var reply ReadReply
	if err := c.call(ctx, "Read", &arguments, &reply); nil != err {
		return ledger.Anchor{}, false, err
	}
	return reply.Anchor, reply.Found, nil
}

// History - all anchors, oldest first
func (c *Client) History(ctx context.Context, subject uint64, kind record.Kind) ([]ledger.Anchor, error) {
	arguments := ReadArguments{
		Subject: subject,
		Kind:    kind,
	}
	var reply HistoryReply
	if err := c.call(ctx, "History", &arguments, &reply); nil != err {
		return nil, err
	}
	return reply.Anchors, nil
}

// List - page through all anchors
func (c *Client) List(ctx context.Context, start string, count int) ([]ledger.Anchor, string, error) {
	arguments := ListArguments{
		Start: start,
		Count: count,
	}
	var reply ListReply
	if err := c.call(ctx, "List", &arguments, &reply); nil != err {
		return nil, "", err
	}
	return reply.Anchors, reply.Next, nil
}
