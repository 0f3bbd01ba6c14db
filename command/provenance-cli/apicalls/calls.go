// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package apicalls

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/bitmark-inc/provenanced/api"
	"github.com/bitmark-inc/provenanced/fault"
	"github.com/bitmark-inc/provenanced/outcome"
	"github.com/bitmark-inc/provenanced/pipeline"
	"github.com/bitmark-inc/provenanced/record"
)

var submitPaths = map[record.Kind]string{
	record.KindRegistration: "/api/pigs",
	record.KindVaccination:  "/api/vaccination",
	record.KindSale:         "/api/sales",
}

// Submit - send a record or a JSON array of records of one kind
//
// a reply with some records anchored but not persisted is returned
// together with its error
func (client *Client) Submit(kind record.Kind, body []byte) (*api.SubmitReply, error) {
	path, ok := submitPaths[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", fault.InvalidKind, kind)
	}
	if !json.Valid(body) {
		return nil, fault.InvalidJSON
	}

	var reply api.SubmitReply
	code, err := client.call(http.MethodPost, path, body, &reply, http.StatusInternalServerError)
	if nil != err {
		return nil, err
	}
	if http.StatusOK != code {
		if "" == reply.Status {
			return nil, &ReplyError{Code: code, Message: reply.Error}
		}
		return &reply, &ReplyError{Code: code, Message: reply.Status}
	}
	return &reply, nil
}

// Verify - check every record kind of the subject behind an identifier token
func (client *Client) Verify(code string) (*outcome.Outcome, error) {
	body, err := json.Marshal(api.VerifyArguments{Code: code})
	if nil != err {
		return nil, err
	}

	var reply outcome.Outcome
	if _, err := client.call(http.MethodPost, "/api/verify", body, &reply, http.StatusNotFound); nil != err {
		return nil, err
	}
	return &reply, nil
}

// VerifyKind - check one record kind
func (client *Client) VerifyKind(kind record.Kind, code string) (*outcome.Outcome, error) {
	path := "/api/verify/" + url.PathEscape(string(kind)) + "/" + url.PathEscape(code)

	var reply outcome.Outcome
	if _, err := client.call(http.MethodGet, path, nil, &reply, http.StatusNotFound); nil != err {
		return nil, err
	}
	return &reply, nil
}

// Disclose - fetch a single field with its inclusion proof
//
// the proof is checked locally, a proof that does not reach the
// anchored root is an error
func (client *Client) Disclose(kind record.Kind, code string, field string) (*pipeline.Disclosure, error) {
	path := "/api/disclose/" + url.PathEscape(string(kind)) + "/" + url.PathEscape(code) + "/" + url.PathEscape(field)

	var reply pipeline.Disclosure
	if _, err := client.call(http.MethodGet, path, nil, &reply); nil != err {
		return nil, err
	}
	if !reply.Valid() {
		return &reply, fault.RecordTampered
	}
	return &reply, nil
}

// Code - the identifier token of a subject
func (client *Client) Code(subject uint64) (string, error) {
	var reply api.CodeReply
	path := "/api/code/" + strconv.FormatUint(subject, 10)
	if _, err := client.call(http.MethodGet, path, nil, &reply); nil != err {
		return "", err
	}
	return reply.Code, nil
}

// Details - server version and counters
func (client *Client) Details() (*api.DetailsReply, error) {
	var reply api.DetailsReply
	if _, err := client.call(http.MethodGet, "/api/details", nil, &reply); nil != err {
		return nil, err
	}
	return &reply, nil
}
