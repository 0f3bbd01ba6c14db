// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"crypto/tls"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/bitmark-inc/logger"
	"google.golang.org/grpc"

	"github.com/bitmark-inc/provenanced/blobstore/grpcblob"
)

const (
	readWriteTimeout = 10 * time.Second
	shutdownTimeout  = 5 * time.Second

	ledgerRPCPath = "/ledger/rpc"
)

// listeners - everything accepting connections
type listeners struct {
	log     *logger.L
	servers []*http.Server
	grpc    *grpc.Server
}

// change "*:PORT" to "[::]:PORT"
// on the assumption that this will listen on tcp4 and tcp6
func expandListen(listen string) string {
	if "" != listen && '*' == listen[0] {
		return "[::]" + ":" + strings.Split(listen, ":")[1]
	}
	return listen
}

// start an HTTP server on each address, TLS when configured
func (l *listeners) serveHTTP(addresses []string, handler http.Handler, tlsConfiguration *tls.Config) error {
	for _, listen := range addresses {
		listen = expandListen(listen)

		ln, err := net.Listen("tcp", listen)
		if nil != err {
			return err
		}
		if nil != tlsConfiguration {
			cfg := tlsConfiguration.Clone()
			cfg.NextProtos = []string{"http/1.1"}
			ln = tls.NewListener(ln, cfg)
			l.log.Infof("starting server: https on: %q", listen)
		} else {
			l.log.Infof("starting server: http on: %q", listen)
		}

		s := &http.Server{
			Addr:           listen,
			Handler:        handler,
			ReadTimeout:    readWriteTimeout,
			WriteTimeout:   readWriteTimeout,
			MaxHeaderBytes: 1 << 20,
		}
		l.servers = append(l.servers, s)

		go func() {
			if err := s.Serve(ln); nil != err && !errors.Is(err, http.ErrServerClosed) {
				l.log.Criticalf("server on: %q  error: %s", s.Addr, err)
			}
		}()
	}
	return nil
}

// publish a blob store over gRPC
func (l *listeners) serveBlobs(listen string, server *grpcblob.Server) error {
	listen = expandListen(listen)
	ln, err := net.Listen("tcp", listen)
	if nil != err {
		return err
	}

	l.grpc = grpc.NewServer()
	grpcblob.RegisterBlobStoreServer(l.grpc, server)
	l.log.Infof("starting server: grpc blobstore on: %q", listen)

	go func() {
		if err := l.grpc.Serve(ln); nil != err {
			l.log.Criticalf("grpc on: %q  error: %s", listen, err)
		}
	}()
	return nil
}

// stop accepting and wait a short while for requests in progress
func (l *listeners) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	for _, s := range l.servers {
		if err := s.Shutdown(ctx); nil != err {
			l.log.Errorf("server on: %q  shutdown error: %s", s.Addr, err)
		}
	}
	if nil != l.grpc {
		l.grpc.GracefulStop()
	}
}
