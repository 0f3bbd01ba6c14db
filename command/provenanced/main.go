// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/getoptions"
	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/provenanced/api"
	"github.com/bitmark-inc/provenanced/audit"
	"github.com/bitmark-inc/provenanced/background"
	"github.com/bitmark-inc/provenanced/blobstore/grpcblob"
	"github.com/bitmark-inc/provenanced/ledger/remote"
	"github.com/bitmark-inc/provenanced/pipeline"
	"github.com/bitmark-inc/provenanced/storage"
)

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

// main program
func main() {
	// ensure exit handler is first
	defer exitwithstatus.Handler()

	flags := []getoptions.Option{
		{Long: "help", HasArg: getoptions.NO_ARGUMENT, Short: 'h'},
		{Long: "verbose", HasArg: getoptions.NO_ARGUMENT, Short: 'v'},
		{Long: "quiet", HasArg: getoptions.NO_ARGUMENT, Short: 'q'},
		{Long: "version", HasArg: getoptions.NO_ARGUMENT, Short: 'V'},
		{Long: "config-file", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'c'},
		{Long: "env-file", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'e'},
	}

	program, options, arguments, err := getoptions.GetOS(flags)
	if nil != err {
		exitwithstatus.Message("%s: getoptions error: %s", program, err)
	}

	if len(options["version"]) > 0 {
		processSetupCommand(program, []string{"version"})
		return
	}

	if len(options["help"]) > 0 {
		processSetupCommand(program, []string{"help"})
		return
	}

	// these commands do not require the configuration and
	// process data needed for initial setup
	if len(arguments) > 0 && processSetupCommand(program, arguments) {
		return
	}

	if 1 != len(options["config-file"]) {
		exitwithstatus.Message("%s: only one config-file option is required, %d were detected", program, len(options["config-file"]))
	}

	environmentFile := ""
	if n := len(options["env-file"]); n > 1 {
		exitwithstatus.Message("%s: at most one env-file option is allowed, %d were detected", program, n)
	} else if 1 == n {
		environmentFile = options["env-file"][0]
	}

	// read options and parse the configuration file
	configurationFile := options["config-file"][0]
	theConfiguration, err := getConfiguration(configurationFile, environmentFile)
	if nil != err {
		exitwithstatus.Message("%s: failed to read configuration from: %q  error: %s", program, configurationFile, err)
	}

	// these commands require the configuration and
	// perform enquiries on the configuration
	if len(arguments) > 0 && processConfigCommand(arguments, theConfiguration) {
		return
	}

	// start logging
	if len(options["verbose"]) > 0 {
		theConfiguration.Logging.Console = true
	}
	if err = logger.Initialise(theConfiguration.Logging); nil != err {
		exitwithstatus.Message("%s: logger setup failed with error: %s", program, err)
	}
	defer logger.Finalise()

	// create a logger channel for the main program
	log := logger.New("main")
	defer log.Info("finished")
	log.Info("starting…")
	log.Infof("version: %s", version)
	log.Debugf("theConfiguration: %v", theConfiguration)

	// ------------------
	// start of real main
	// ------------------

	// optional PID file
	// use if not running under a supervisor program like daemon(8)
	if "" != theConfiguration.PidFile {
		lockFile, err := os.OpenFile(theConfiguration.PidFile, os.O_WRONLY|os.O_EXCL|os.O_CREATE, os.ModeExclusive|0600)
		if err != nil {
			if os.IsExist(err) {
				exitwithstatus.Message("%s: another instance is already running", program)
			}
			exitwithstatus.Message("%s: PID file: %q creation failed, error: %s", program, theConfiguration.PidFile, err)
		}
		fmt.Fprintf(lockFile, "%d\n", os.Getpid())
		lockFile.Close()
		defer os.Remove(theConfiguration.PidFile)
	}

	// start the data storage
	log.Info("initialise storage")
	log.Infof("database: %q", theConfiguration.Database.Name)
	db, err := storage.Open(theConfiguration.Database.Name, storage.ReadWrite)
	if nil != err {
		log.Criticalf("storage initialise error: %s", err)
		exitwithstatus.Message("storage initialise error: %s", err)
	}
	defer db.Close()

	// connect the ledger, blob, salt and cache stores
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	s, err := openServices(ctx, log, theConfiguration, db)
	cancel()
	if nil != err {
		log.Criticalf("services initialise error: %s", err)
		exitwithstatus.Message("services initialise error: %s", err)
	}
	defer s.finalise()

	// these commands are allowed to access the stores
	if len(arguments) > 0 && processDataCommand(log, arguments, s) {
		return
	}

	p := pipeline.New(s.handles())

	l := &listeners{
		log: log,
	}
	defer l.shutdown()

	// HTTP API, with the ledger RPC beside it when serving a local ledger
	if len(theConfiguration.HTTP.Listen) > 0 {
		mux := http.NewServeMux()
		mux.Handle("/", api.New(logger.New("api"), p, theConfiguration.HTTP.Configuration, version).Router())

		if theConfiguration.Ledger.Serve {
			handler, err := remote.NewHandler(logger.New("ledger-rpc"), s.local)
			if nil != err {
				log.Criticalf("ledger rpc initialise error: %s", err)
				exitwithstatus.Message("ledger rpc initialise error: %s", err)
			}
			mux.Handle(ledgerRPCPath, handler)
			log.Infof("serving ledger on: %s", ledgerRPCPath)
		}

		var tlsConfiguration *tls.Config
		if "" != theConfiguration.HTTP.Certificate {
			tlsConfiguration, err = loadCertificate(theConfiguration.HTTP.Certificate, theConfiguration.HTTP.PrivateKey)
			if nil != err {
				log.Criticalf("certificate error: %s", err)
				exitwithstatus.Message("certificate error: %s", err)
			}
		}

		if err := l.serveHTTP(theConfiguration.HTTP.Listen, mux, tlsConfiguration); nil != err {
			log.Criticalf("http listen error: %s", err)
			exitwithstatus.Message("http listen error: %s", err)
		}
	} else {
		log.Warn("no http listeners: API disabled")
	}

	// publish the blob store for other instances
	if "" != theConfiguration.BlobStore.Serve {
		server := &grpcblob.Server{
			Log:   logger.New("blob-rpc"),
			Store: s.blobs,
		}
		if err := l.serveBlobs(theConfiguration.BlobStore.Serve, server); nil != err {
			log.Criticalf("grpc listen error: %s", err)
			exitwithstatus.Message("grpc listen error: %s", err)
		}
	}

	// periodic orphan audit
	if theConfiguration.Audit.Interval > 0 {
		interval := time.Duration(theConfiguration.Audit.Interval) * time.Second
		auditor := audit.New(logger.New("audit"), s.registry, s.ledger, s.salts)
		processes := background.Processes{
			audit.NewPeriodic(auditor, interval, nil),
		}
		b := background.Start(processes, nil)
		defer b.Stop()
	}

	// wait for CTRL-C before shutting down to allow manual testing
	if 0 == len(options["quiet"]) {
		fmt.Printf("\n\nWaiting for CTRL-C (SIGINT) or 'kill <pid>' (SIGTERM)…")
	}

	// turn Signals into channel messages
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	sig := <-ch
	log.Infof("received signal: %v", sig)
	if 0 == len(options["quiet"]) {
		fmt.Printf("\nreceived signal: %v\n", sig)
		fmt.Printf("\nshutting down…\n")
	}

	log.Info("shutting down…")
}
