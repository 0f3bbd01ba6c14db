// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/provenanced/counter"
	"github.com/bitmark-inc/provenanced/pipeline"
	"github.com/bitmark-inc/provenanced/ratelimit"
	"github.com/bitmark-inc/provenanced/record"
)

// defaults
const (
	DefaultMaximumBody       = 1 << 20
	DefaultRequestsPerSecond = 200
	DefaultBurst             = 100
)

// RequestIDHeader - carries the identifier of a request
const RequestIDHeader = "X-Request-Id"

// Configuration - limits of the HTTP boundary
type Configuration struct {
	MaximumBody       int64   `gluamapper:"maximum_body" json:"maximum_body"`
	RequestsPerSecond float64 `gluamapper:"requests_per_second" json:"requests_per_second"`
	Burst             int     `gluamapper:"burst" json:"burst"`
}

// Server - HTTP handlers on a pipeline
type Server struct {
	log         *logger.L
	pipeline    *pipeline.Pipeline
	limiter     *rate.Limiter
	maximumBody int64
	version     string
	start       time.Time
	requests    counter.Counter
	active      counter.Counter
}

type requestIDKey struct{}

// New - create the HTTP boundary
func New(log *logger.L, p *pipeline.Pipeline, cfg Configuration, version string) *Server {
	if cfg.MaximumBody <= 0 {
		cfg.MaximumBody = DefaultMaximumBody
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = DefaultRequestsPerSecond
	}
	if cfg.Burst <= 0 {
		cfg.Burst = DefaultBurst
	}
	return &Server{
		log:         log,
		pipeline:    p,
		limiter:     rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		maximumBody: cfg.MaximumBody,
		version:     version,
		start:       time.Now(),
	}
}

// Router - all routes of the service
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(s.limit)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		sendNotFound(w)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		sendMethodNotAllowed(w)
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/pigs", s.submit(record.KindRegistration))
		r.Post("/vaccination", s.submit(record.KindVaccination))
		r.Post("/sales", s.submit(record.KindSale))

		r.Post("/verify", s.verifyAll)
		r.Get("/verify/{kind}/{code}", s.verifyKind)
		r.Get("/disclose/{kind}/{code}/{field}", s.disclose)
		r.Get("/code/{id}", s.code)
		r.Get("/details", s.details)
	})
	return r
}

// attach a request identifier and log the request
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(id); nil != err {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)

		s.requests.Increment()
		defer s.active.Track()()

		s.log.Debugf("request: %s  %s %s  from: %s", id, r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

func (s *Server) limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := ratelimit.Allow(s.limiter); nil != err {
			s.log.Warnf("request: %s  rate limited", requestIDOf(r))
			sendFault(w, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func requestIDOf(r *http.Request) string {
	id, _ := r.Context().Value(requestIDKey{}).(string)
	return id
}
