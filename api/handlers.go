// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bitmark-inc/provenanced/fault"
	"github.com/bitmark-inc/provenanced/outcome"
	"github.com/bitmark-inc/provenanced/pipeline"
	"github.com/bitmark-inc/provenanced/record"
)

// SubmitReply - result of a submission
type SubmitReply struct {
	Status  string             `json:"status"`
	Batch   string             `json:"batch,omitempty"`
	Records []pipeline.Receipt `json:"records"`
	Error   string             `json:"error,omitempty"`
}

// VerifyArguments - body of the aggregate verification
type VerifyArguments struct {
	Code string `json:"qrCode"`
}

// CodeReply - identifier token of a subject
type CodeReply struct {
	Code string `json:"qrCode"`
}

// DetailsReply - service status
type DetailsReply struct {
	Version  string   `json:"version"`
	Uptime   string   `json:"uptime"`
	Requests uint64   `json:"requests"`
	Active   uint64   `json:"active"`
	Kinds    []string `json:"kinds"`
}

func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maximumBody))
	if nil != err {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, fault.PayloadTooLarge
		}
		return nil, fmt.Errorf("%w: %s", fault.InvalidJSON, err)
	}
	return body, nil
}

// POST a single record or an array of records of one kind
func (s *Server) submit(kind record.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := requestIDOf(r)

		body, err := s.readBody(w, r)
		if nil != err {
			sendFault(w, err)
			return
		}

		records, isBatch, err := s.pipeline.Registry().Decode(kind, body)
		if nil != err {
			s.log.Infof("request: %s  rejected: %s", id, err)
			sendFault(w, err)
			return
		}

		ctx := r.Context()
		if !isBatch {
			receipt, err := s.pipeline.Submit(ctx, records[0])
			if nil != err {
				s.log.Errorf("request: %s  submit error: %s", id, err)
				if receipt.Root.IsZero() {
					sendFault(w, err)
					return
				}
				sendStatus(w, http.StatusInternalServerError, SubmitReply{
					Status:  "Anchored but not persisted",
					Records: []pipeline.Receipt{receipt},
					Error:   err.Error(),
				})
				return
			}
			sendReply(w, SubmitReply{
				Status:  "Data added",
				Records: []pipeline.Receipt{receipt},
			})
			return
		}

		result, err := s.pipeline.SubmitBatch(ctx, records)
		if errors.Is(err, fault.PartialPersistence) {
			s.log.Errorf("request: %s  batch: %s  error: %s", id, result.ID, err)
			sendStatus(w, http.StatusInternalServerError, SubmitReply{
				Status:  "Anchored but not all persisted",
				Batch:   result.ID,
				Records: result.Records,
				Error:   err.Error(),
			})
			return
		}
		if nil != err {
			s.log.Errorf("request: %s  batch error: %s", id, err)
			sendFault(w, err)
			return
		}
		sendReply(w, SubmitReply{
			Status:  "Data added",
			Batch:   result.ID,
			Records: result.Records,
		})
	}
}

// outcomes are successful replies, except NotFound which is a 404
func sendOutcome(w http.ResponseWriter, o outcome.Outcome) {
	if outcome.NotFound == o.Status {
		sendStatus(w, http.StatusNotFound, o)
		return
	}
	sendReply(w, o)
}

func (s *Server) verifyAll(w http.ResponseWriter, r *http.Request) {
	body, err := s.readBody(w, r)
	if nil != err {
		sendFault(w, err)
		return
	}

	var arguments VerifyArguments
	if err := json.Unmarshal(body, &arguments); nil != err {
		sendFault(w, fmt.Errorf("%w: %s", fault.InvalidJSON, err))
		return
	}
	if "" == arguments.Code {
		sendFault(w, fault.MissingParameters)
		return
	}
	subject, err := record.DecodeCode(arguments.Code)
	if nil != err {
		sendFault(w, err)
		return
	}

	o, err := s.pipeline.VerifyAll(r.Context(), subject)
	if nil != err {
		s.log.Errorf("request: %s  verify error: %s", requestIDOf(r), err)
		sendFault(w, err)
		return
	}
	sendOutcome(w, o)
}

// kind and subject from the path
func (s *Server) kindAndSubject(r *http.Request) (record.Kind, uint64, error) {
	kind := record.Kind(chi.URLParam(r, "kind"))
	if _, err := s.pipeline.Registry().Lookup(kind); nil != err {
		return "", 0, err
	}
	subject, err := record.DecodeCode(chi.URLParam(r, "code"))
	if nil != err {
		return "", 0, err
	}
	return kind, subject, nil
}

func (s *Server) verifyKind(w http.ResponseWriter, r *http.Request) {
	kind, subject, err := s.kindAndSubject(r)
	if nil != err {
		sendFault(w, err)
		return
	}

	o, err := s.pipeline.Verify(r.Context(), subject, kind)
	if nil != err {
		s.log.Errorf("request: %s  verify error: %s", requestIDOf(r), err)
		sendFault(w, err)
		return
	}
	sendOutcome(w, o)
}

func (s *Server) disclose(w http.ResponseWriter, r *http.Request) {
	kind, subject, err := s.kindAndSubject(r)
	if nil != err {
		sendFault(w, err)
		return
	}

	d, err := s.pipeline.Disclose(r.Context(), subject, kind, chi.URLParam(r, "field"))
	if nil != err {
		sendFault(w, err)
		return
	}
	sendReply(w, d)
}

func (s *Server) code(w http.ResponseWriter, r *http.Request) {
	subject, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if nil != err {
		sendFault(w, fault.InvalidSubject)
		return
	}

	code, err := s.pipeline.Code(r.Context(), subject)
	if nil != err {
		sendFault(w, err)
		return
	}
	sendReply(w, CodeReply{Code: code})
}

func (s *Server) details(w http.ResponseWriter, r *http.Request) {
	kinds := []string{}
	for _, k := range s.pipeline.Registry().Kinds() {
		kinds = append(kinds, k.String())
	}
	sendReply(w, DetailsReply{
		Version:  s.version,
		Uptime:   time.Since(s.start).Round(time.Second).String(),
		Requests: s.requests.Uint64(),
		Active:   s.active.Uint64(),
		Kinds:    kinds,
	})
}
