// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/provenanced/api"
	"github.com/bitmark-inc/provenanced/blobstore"
	"github.com/bitmark-inc/provenanced/configuration"
	"github.com/bitmark-inc/provenanced/outcome"
	"github.com/bitmark-inc/provenanced/util"
)

// basic defaults (directories and files are relative to the "DataDirectory" from Configuration file)
const (
	defaultDataDirectory = "" // this will error; use "." for the same directory as the config file
	defaultEnvironment   = ".env"

	defaultLevelDBDirectory = "data"
	defaultDatabase         = "provenance.leveldb"

	defaultLogDirectory = "log"
	defaultLogFile      = "provenanced.log"
	defaultLogCount     = 10          //  number of log files retained
	defaultLogSize      = 1024 * 1024 // rotate when <logfile> exceeds this size

	defaultRemoteTimeout = 30 // seconds
	defaultCacheCleanup  = 600
	defaultAuditInterval = 0 // disabled
)

// store modes
const (
	modeLocal    = "local"
	modeRemote   = "remote"
	modePinning  = "pinning"
	modeGRPC     = "grpc"
	modePostgres = "postgres"
	modeMemory   = "memory"
	modeRedis    = "redis"
)

// LoglevelMap - to hold log levels
type LoglevelMap map[string]string

// path expanded or calculated defaults
var (
	defaultLogLevels = LoglevelMap{
		"main":            "info",
		logger.DefaultTag: "critical",
	}
)

// HTTPType - API listener
type HTTPType struct {
	api.Configuration `gluamapper:",squash"`

	Listen      []string `gluamapper:"listen" json:"listen"`
	Certificate string   `gluamapper:"certificate" json:"certificate"`
	PrivateKey  string   `gluamapper:"private_key" json:"private_key"`
}

// DatabaseType - local LevelDB
type DatabaseType struct {
	Directory string `gluamapper:"directory" json:"directory"`
	Name      string `gluamapper:"name" json:"name"`
}

// LedgerType - where anchors are written
//
// local mode with serve set also publishes the ledger RPC on the
// HTTP listeners so other instances can run in remote mode
type LedgerType struct {
	Mode    string `gluamapper:"mode" json:"mode"`
	URL     string `gluamapper:"url" json:"url"`
	Timeout int    `gluamapper:"timeout" json:"timeout"` // seconds
	Serve   bool   `gluamapper:"serve" json:"serve"`
}

// BlobStoreType - where canonical payloads are uploaded
type BlobStoreType struct {
	Mode    string                         `gluamapper:"mode" json:"mode"`
	Pinning blobstore.PinningConfiguration `gluamapper:"pinning" json:"pinning"`
	Address string                         `gluamapper:"address" json:"address"`
	Timeout int                            `gluamapper:"timeout" json:"timeout"` // seconds
	Serve   string                         `gluamapper:"serve" json:"serve"`
}

// SaltStoreType - where salt records are kept
type SaltStoreType struct {
	Mode string `gluamapper:"mode" json:"mode"`
	DSN  string `gluamapper:"dsn" json:"-"`
}

// CacheType - verification outcome cache and its lifetimes in seconds
type CacheType struct {
	Mode     string                     `gluamapper:"mode" json:"mode"`
	Redis    outcome.RedisConfiguration `gluamapper:"redis" json:"redis"`
	Cleanup  int                        `gluamapper:"cleanup" json:"cleanup"`
	Verified int                        `gluamapper:"verified" json:"verified"`
	Tampered int                        `gluamapper:"tampered" json:"tampered"`
	NotFound int                        `gluamapper:"not_found" json:"not_found"`
}

// AuditType - orphan audit interval in seconds, zero disables
type AuditType struct {
	Interval int `gluamapper:"interval" json:"interval"`
}

// Configuration - the whole daemon configuration
type Configuration struct {
	DataDirectory string       `gluamapper:"data_directory" json:"data_directory"`
	PidFile       string       `gluamapper:"pidfile" json:"pidfile"`
	Database      DatabaseType `gluamapper:"database" json:"database"`

	HTTP      HTTPType             `gluamapper:"http" json:"http"`
	Ledger    LedgerType           `gluamapper:"ledger" json:"ledger"`
	BlobStore BlobStoreType        `gluamapper:"blobstore" json:"blobstore"`
	SaltStore SaltStoreType        `gluamapper:"saltstore" json:"saltstore"`
	Cache     CacheType            `gluamapper:"cache" json:"cache"`
	Audit     AuditType            `gluamapper:"audit" json:"audit"`
	Logging   logger.Configuration `gluamapper:"logging" json:"logging"`
}

// Policy - cache lifetimes
func (c *Configuration) Policy() outcome.Policy {
	return outcome.PolicyFromSeconds(c.Cache.Verified, c.Cache.Tampered, c.Cache.NotFound)
}

// will read decode and verify the configuration
//
// a blank environment file name means the optional ".env" beside the
// configuration file
func getConfiguration(configurationFileName string, environmentFileName string) (*Configuration, error) {

	configurationFileName, err := filepath.Abs(filepath.Clean(configurationFileName))
	if nil != err {
		return nil, err
	}

	// absolute path to the main directory
	dataDirectory, _ := filepath.Split(configurationFileName)

	required := true
	if "" == environmentFileName {
		environmentFileName = filepath.Join(dataDirectory, defaultEnvironment)
		required = false
	}
	if _, err := configuration.LoadEnvironment(environmentFileName, required); nil != err {
		return nil, err
	}

	options := &Configuration{

		DataDirectory: defaultDataDirectory,
		PidFile:       "", // no PidFile by default

		Database: DatabaseType{
			Directory: defaultLevelDBDirectory,
			Name:      defaultDatabase,
		},

		HTTP: HTTPType{
			Configuration: api.Configuration{
				MaximumBody:       api.DefaultMaximumBody,
				RequestsPerSecond: api.DefaultRequestsPerSecond,
				Burst:             api.DefaultBurst,
			},
			Certificate: "", // plain HTTP by default
			PrivateKey:  "",
		},

		Ledger: LedgerType{
			Mode:    modeLocal,
			Timeout: defaultRemoteTimeout,
		},

		BlobStore: BlobStoreType{
			Mode:    modeLocal,
			Timeout: defaultRemoteTimeout,
		},

		SaltStore: SaltStoreType{
			Mode: modeLocal,
		},

		Cache: CacheType{
			Mode:     modeMemory,
			Cleanup:  defaultCacheCleanup,
			Verified: int(outcome.DefaultVerifiedTTL.Seconds()),
			Tampered: int(outcome.DefaultTamperedTTL.Seconds()),
			NotFound: int(outcome.DefaultNotFoundTTL.Seconds()),
		},

		Audit: AuditType{
			Interval: defaultAuditInterval,
		},

		Logging: logger.Configuration{
			Directory: defaultLogDirectory,
			File:      defaultLogFile,
			Size:      defaultLogSize,
			Count:     defaultLogCount,
			Levels:    defaultLogLevels,
		},
	}

	if err := configuration.ParseConfigurationFile(configurationFileName, options); err != nil {
		return nil, err
	}

	if err := checkModes(options); nil != err {
		return nil, err
	}

	// ensure absolute data directory
	if "" == options.DataDirectory || "~" == options.DataDirectory {
		return nil, fmt.Errorf("Path: %q is not a valid directory", options.DataDirectory)
	} else if "." == options.DataDirectory {
		options.DataDirectory = dataDirectory // same directory as the configuration file
	} else {
		options.DataDirectory = filepath.Clean(options.DataDirectory)
	}

	// this directory must exist - i.e. must be created prior to running
	if fileInfo, err := os.Stat(options.DataDirectory); nil != err {
		return nil, err
	} else if !fileInfo.IsDir() {
		return nil, fmt.Errorf("Path: %q is not a directory", options.DataDirectory)
	}

	// force all relevant items to be absolute paths
	// if not, assign them to the data directory
	mustBeAbsolute := []*string{
		&options.Database.Directory,
		&options.Logging.Directory,
	}
	for _, f := range mustBeAbsolute {
		*f = util.EnsureAbsolute(options.DataDirectory, *f)
	}

	// optional absolute paths i.e. blank or an absolute path
	optionalAbsolute := []*string{
		&options.PidFile,
		&options.HTTP.Certificate,
		&options.HTTP.PrivateKey,
	}
	for _, f := range optionalAbsolute {
		if "" != *f {
			*f = util.EnsureAbsolute(options.DataDirectory, *f)
		}
	}

	// fail if any of these are not simple file names i.e. must
	// not contain path seperator, then add the correct directory
	// prefix, file item is first and corresponding directory is
	// second (or nil if no prefix can be added)
	mustNotBePaths := [][2]*string{
		{&options.Database.Name, &options.Database.Directory},
		{&options.Logging.File, nil},
	}
	for _, f := range mustNotBePaths {
		switch filepath.Dir(*f[0]) {
		case "", ".":
			if nil != f[1] {
				*f[0] = util.EnsureAbsolute(*f[1], *f[0])
			}
		default:
			return nil, fmt.Errorf("Files: %q is not plain name", *f[0])
		}
	}

	// make absolute and create directories if they do not already exist
	for _, d := range []*string{
		&options.Database.Directory,
		&options.Logging.Directory,
	} {
		*d = util.EnsureAbsolute(options.DataDirectory, *d)
		if err := util.EnsureDirectory(*d); nil != err {
			return nil, err
		}
	}

	// done
	return options, nil
}

// normalise the store modes and check their required settings
func checkModes(options *Configuration) error {

	options.Ledger.Mode = strings.ToLower(options.Ledger.Mode)
	switch options.Ledger.Mode {
	case modeLocal:
	case modeRemote:
		if "" == options.Ledger.URL {
			return fmt.Errorf("ledger: remote mode requires a url")
		}
		if options.Ledger.Serve {
			return fmt.Errorf("ledger: only a local ledger can be served")
		}
	default:
		return fmt.Errorf("ledger: mode: %q is not supported", options.Ledger.Mode)
	}

	options.BlobStore.Mode = strings.ToLower(options.BlobStore.Mode)
	switch options.BlobStore.Mode {
	case modeLocal, modePinning:
	case modeGRPC:
		if "" == options.BlobStore.Address {
			return fmt.Errorf("blobstore: grpc mode requires an address")
		}
	default:
		return fmt.Errorf("blobstore: mode: %q is not supported", options.BlobStore.Mode)
	}

	options.SaltStore.Mode = strings.ToLower(options.SaltStore.Mode)
	switch options.SaltStore.Mode {
	case modeLocal:
	case modePostgres:
		if "" == options.SaltStore.DSN {
			return fmt.Errorf("saltstore: postgres mode requires a dsn")
		}
	default:
		return fmt.Errorf("saltstore: mode: %q is not supported", options.SaltStore.Mode)
	}

	options.Cache.Mode = strings.ToLower(options.Cache.Mode)
	switch options.Cache.Mode {
	case modeMemory, modeRedis:
	default:
		return fmt.Errorf("cache: mode: %q is not supported", options.Cache.Mode)
	}

	if ("" == options.HTTP.Certificate) != ("" == options.HTTP.PrivateKey) {
		return fmt.Errorf("http: certificate and private_key must both be set for TLS")
	}

	if options.Audit.Interval < 0 {
		return fmt.Errorf("audit: interval: %d is negative", options.Audit.Interval)
	}

	return nil
}
