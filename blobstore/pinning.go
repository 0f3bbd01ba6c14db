// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blobstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/provenanced/fault"
)

const (
	pinPath        = "/pinning/pinJSONToIPFS"
	gatewayPath    = "/ipfs/"
	maximumPayload = 4 * 1024 * 1024
)

// PinningConfiguration - endpoints and credentials of a pinning service
type PinningConfiguration struct {
	API     string `gluamapper:"api" json:"api"`
	Gateway string `gluamapper:"gateway" json:"gateway"`
	Key     string `gluamapper:"key" json:"-"`
	Secret  string `gluamapper:"secret" json:"-"`
	Timeout int    `gluamapper:"timeout" json:"timeout"` // seconds
}

// Pinning - documents pinned to IPFS through a pinning service
type Pinning struct {
	log     *logger.L
	api     string
	gateway string
	key     string
	secret  string
	client  *http.Client
}

type pinReply struct {
	IpfsHash  string `json:"IpfsHash"`
	PinSize   int64  `json:"PinSize"`
	Timestamp string `json:"Timestamp"`
}

// NewPinning - client for a pinning service
func NewPinning(log *logger.L, configuration PinningConfiguration) (*Pinning, error) {
	if "" == configuration.API || "" == configuration.Gateway {
		return nil, fault.MissingRemoteURL
	}
	timeout := time.Duration(configuration.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Pinning{
		log:     log,
		api:     strings.TrimSuffix(configuration.API, "/"),
		gateway: strings.TrimSuffix(configuration.Gateway, "/"),
		key:     configuration.Key,
		secret:  configuration.Secret,
		client: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// Put - pin a JSON document, the locator is the returned IPFS hash
func (p *Pinning) Put(ctx context.Context, document []byte) (string, error) {
	r, err := http.NewRequestWithContext(ctx, http.MethodPost, p.api+pinPath, bytes.NewReader(document))
	if nil != err {
		return "", err
	}
	r.Header.Set("Content-Type", "application/json")
	r.Header.Set("pinata_api_key", p.key)
	r.Header.Set("pinata_secret_api_key", p.secret)

	resp, err := p.client.Do(r)
	if nil != err {
		return "", fmt.Errorf("%w: %s", fault.BlobStoreUnavailable, err)
	}
	defer resp.Body.Close()

	if http.StatusOK != resp.StatusCode {
		return "", fmt.Errorf("%w: pin status: %s", fault.BlobStoreUnavailable, resp.Status)
	}

	var reply pinReply
	if err := json.NewDecoder(io.LimitReader(resp.Body, maximumPayload)).Decode(&reply); nil != err {
		return "", fmt.Errorf("%w: pin reply: %s", fault.BlobStoreUnavailable, err)
	}
	if _, err := ParseLocator(reply.IpfsHash); nil != err {
		return "", fmt.Errorf("%w: pin reply hash: %q", fault.BlobStoreUnavailable, reply.IpfsHash)
	}

	p.log.Infof("pinned: %s  size: %d", reply.IpfsHash, reply.PinSize)
	return reply.IpfsHash, nil
}

// Get - fetch a document through the gateway
func (p *Pinning) Get(ctx context.Context, locator string) ([]byte, error) {
	if _, err := ParseLocator(locator); nil != err {
		return nil, err
	}
	r, err := http.NewRequestWithContext(ctx, http.MethodGet, p.gateway+gatewayPath+locator, nil)
	if nil != err {
		return nil, err
	}

	resp, err := p.client.Do(r)
	if nil != err {
		return nil, fmt.Errorf("%w: %s", fault.BlobStoreUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, fault.BlobNotFound
	default:
		return nil, fmt.Errorf("%w: gateway status: %s", fault.BlobStoreUnavailable, resp.Status)
	}

	document, err := io.ReadAll(io.LimitReader(resp.Body, maximumPayload))
	if nil != err {
		return nil, fmt.Errorf("%w: %s", fault.BlobStoreUnavailable, err)
	}
	return document, nil
}
