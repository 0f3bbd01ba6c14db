// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package apicalls

import (
	"bytes"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bitmark-inc/provenanced/fault"
)

const maximumReply = 16 << 20

// Client - to hold the HTTP connection to a provenanced
type Client struct {
	url     string
	client  *http.Client
	verbose bool
	handle  io.Writer // if verbose is set output items here
}

// ReplyError - a non-success reply from the server
type ReplyError struct {
	Code    int    `json:"code"`
	Message string `json:"error"`
}

func (e *ReplyError) Error() string {
	return fmt.Sprintf("server replied: %d  %s", e.Code, e.Message)
}

// NewClient - create a client for the API at connect
// e.g. "http://127.0.0.1:8080"
func NewClient(connect string, insecure bool, timeout time.Duration, verbose bool, handle io.Writer) (*Client, error) {
	if "" == connect {
		return nil, fault.MissingRemoteURL
	}
	u, err := url.Parse(connect)
	if nil != err {
		return nil, fmt.Errorf("%w: %s", fault.MissingRemoteURL, err)
	}
	if "http" != u.Scheme && "https" != u.Scheme {
		return nil, fmt.Errorf("%w: %q", fault.MissingRemoteURL, connect)
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if insecure {
		transport.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: true,
		}
	}

	return &Client{
		url: strings.TrimRight(connect, "/"),
		client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		verbose: verbose,
		handle:  handle,
	}, nil
}

// send one request and decode the reply
//
// reply is decoded for a 200 and for any extra accepted status
// codes, anything else is returned as a *ReplyError
func (c *Client) call(method string, path string, body []byte, reply interface{}, accept ...int) (int, error) {
	var in io.Reader
	if nil != body {
		in = bytes.NewReader(body)
	}

	request, err := http.NewRequest(method, c.url+path, in)
	if nil != err {
		return 0, err
	}
	if nil != body {
		request.Header.Set("Content-Type", "application/json")
	}
	request.Header.Set("Accept", "application/json")

	if c.verbose {
		fmt.Fprintf(c.handle, "%s %s\n", method, request.URL)
	}

	response, err := c.client.Do(request)
	if nil != err {
		return 0, err
	}
	defer response.Body.Close()

	data, err := io.ReadAll(io.LimitReader(response.Body, maximumReply))
	if nil != err {
		return response.StatusCode, err
	}
	if c.verbose {
		fmt.Fprintf(c.handle, "status: %d\nreply: %s\n", response.StatusCode, data)
	}

	ok := http.StatusOK == response.StatusCode
	for _, code := range accept {
		if code == response.StatusCode {
			ok = true
		}
	}
	if !ok {
		e := &ReplyError{}
		if err := json.Unmarshal(data, e); nil != err || "" == e.Message {
			e.Message = strings.TrimSpace(string(data))
		}
		e.Code = response.StatusCode
		return response.StatusCode, e
	}

	if err := json.Unmarshal(data, reply); nil != err {
		return response.StatusCode, fmt.Errorf("%w: %s", fault.InvalidJSON, err)
	}
	return response.StatusCode, nil
}
