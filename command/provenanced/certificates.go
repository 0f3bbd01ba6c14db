// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"crypto/tls"
	"fmt"
	"os"
	"time"

	"github.com/bitmark-inc/certgen"

	"github.com/bitmark-inc/provenanced/util"
)

// load the TLS key pair for the HTTP listeners
func loadCertificate(certificateFileName string, keyFileName string) (*tls.Config, error) {
	if !util.EnsureFileExists(certificateFileName) {
		return nil, fmt.Errorf("certificate: %q does not exist", certificateFileName)
	}

	if !util.EnsureFileExists(keyFileName) {
		return nil, fmt.Errorf("private key: %q does not exist", keyFileName)
	}

	keyPair, err := tls.LoadX509KeyPair(certificateFileName, keyFileName)
	if nil != err {
		return nil, err
	}

	return &tls.Config{
		Certificates: []tls.Certificate{
			keyPair,
		},
		MinVersion: tls.VersionTLS12,
	}, nil
}

// create a self-signed certificate
func makeSelfSignedCertificate(name string, certificateFileName string, privateKeyFileName string, override bool, extraHosts []string) error {

	if util.EnsureFileExists(certificateFileName) {
		return fmt.Errorf("certificate: %q already exists", certificateFileName)
	}

	if util.EnsureFileExists(privateKeyFileName) {
		return fmt.Errorf("private key: %q already exists", privateKeyFileName)
	}

	org := "provenanced self signed cert for: " + name
	validUntil := time.Now().Add(10 * 365 * 24 * time.Hour)
	cert, key, err := certgen.NewTLSCertPair(org, validUntil, override, extraHosts)
	if err != nil {
		return err
	}

	if err = os.WriteFile(certificateFileName, cert, 0666); err != nil {
		return err
	}

	if err = os.WriteFile(privateKeyFileName, key, 0600); err != nil {
		os.Remove(certificateFileName)
		return err
	}

	return nil
}
