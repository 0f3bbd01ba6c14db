// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/provenanced/audit"
	"github.com/bitmark-inc/provenanced/record"
	"github.com/bitmark-inc/provenanced/saltstore"
)

const (
	httpCertificateFilename = "http.crt"
	httpPrivateKeyFilename  = "http.key"
)

// setup command handler
//
// commands that run to create key and certificate files these
// commands cannot access any internal database or states or the
// configuration file
func processSetupCommand(program string, arguments []string) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
		arguments = arguments[1:]
	}

	switch command {
	case "gen-rpc-cert", "rpc":
		certificateFilename := getFilenameWithDirectory(arguments, httpCertificateFilename)
		privateKeyFilename := getFilenameWithDirectory(arguments, httpPrivateKeyFilename)

		addresses := []string{}
		if len(arguments) >= 2 {
			for _, a := range arguments[1:] {
				if "" != a {
					addresses = append(addresses, a)
				}
			}
		}

		err := makeSelfSignedCertificate("http", certificateFilename, privateKeyFilename, 0 != len(addresses), addresses)
		if nil != err {
			fmt.Printf("generate HTTP key: %q and certificate: %q error: %s\n", privateKeyFilename, certificateFilename, err)
			exitwithstatus.Exit(1)
		}
		fmt.Printf("generated HTTP key: %q and certificate: %q\n", privateKeyFilename, certificateFilename)

	case "sql-schema", "sql":
		for _, statement := range saltstore.CreateTables(record.Default()) {
			fmt.Printf("%s;\n\n", statement)
		}

	case "start", "run":
		return false // continue processing

	case "show-config", "cfg":
		return false // defer processing until configuration is read

	case "audit":
		return false // defer processing until stores are open

	case "version", "v":
		fmt.Printf("%s\n", version)
		return true

	default:
		switch command {
		case "help", "h", "?":
		case "", " ":
			fmt.Printf("error: missing command\n")
		default:
			fmt.Printf("error: no such command: %q\n", command)
		}
		fmt.Printf("usage: %s [--help] [--verbose] [--quiet] --config-file=FILE [--env-file=FILE] [[command|help] arguments...]\n", program)

		fmt.Printf("supported commands:\n\n")
		fmt.Printf("  help                       (h)      - display this message\n\n")
		fmt.Printf("  version                    (v)      - display version sting\n\n")

		fmt.Printf("  gen-rpc-cert [DIR]         (rpc)    - create private key in:  %q\n", "DIR/"+httpPrivateKeyFilename)
		fmt.Printf("                                        and the certificate in: %q\n", "DIR/"+httpCertificateFilename)
		fmt.Printf("\n")

		fmt.Printf("  gen-rpc-cert [DIR] [IPs...]         - create private key in:  %q\n", "DIR/"+httpPrivateKeyFilename)
		fmt.Printf("                                        and the certificate in: %q\n", "DIR/"+httpCertificateFilename)
		fmt.Printf("\n")

		fmt.Printf("  sql-schema                 (sql)    - print the PostgreSQL tables for the salt store\n")
		fmt.Printf("\n")

		fmt.Printf("  start                      (run)    - just run the program, same as no arguments\n")
		fmt.Printf("                                        for convienience when passing script arguments\n")
		fmt.Printf("\n")

		fmt.Printf("  show-config                (cfg)    - just check the configuration file\n")
		fmt.Printf("\n")

		fmt.Printf("  audit                               - list ledger anchors that have no salt record\n")
		fmt.Printf("\n")

		exitwithstatus.Exit(1)
	}

	// indicate processing complete and preform normal exit from main
	return true
}

// configuration file enquiry commands
// have configuration file read and decoded, but nothing else
func processConfigCommand(arguments []string, options *Configuration) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
	}

	switch command {
	case "show-config", "cfg":
		printJSON(options)

	default: // unknown commands fall through to data command
		return false
	}

	// indicate processing complete and perform normal exit from main
	return true
}

// data command handler
// the stores are open so these commands can read them
func processDataCommand(log *logger.L, arguments []string, s *services) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
	}

	switch command {

	case "start", "run":
		return false // continue processing

	case "audit":
		auditor := audit.New(logger.New("audit"), s.registry, s.ledger, s.salts)
		report, err := auditor.Run(context.Background())
		if nil != err {
			log.Errorf("audit error: %s", err)
			exitwithstatus.Message("audit error: %s", err)
		}
		printJSON(report)
		if len(report.Orphans) > 0 {
			exitwithstatus.Exit(2)
		}

	default:
		exitwithstatus.Message("error: no such command: %s", command)

	}

	// indicate processing complete and perform normal exit from main
	return true
}

func printJSON(item interface{}) {
	b, err := json.MarshalIndent(item, "", "  ")
	if nil != err {
		exitwithstatus.Message("error: %s", err)
	}
	os.Stdout.Write(b)
	os.Stdout.WriteString("\n")
}

func getFilenameWithDirectory(arguments []string, name string) string {
	dir := "."
	if len(arguments) >= 1 {
		dir = strings.TrimSpace(arguments[0])
	}

	return filepath.Join(dir, name)
}
