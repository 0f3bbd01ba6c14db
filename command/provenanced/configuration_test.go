// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfiguration(t *testing.T, text string) (string, string) {
	dir := t.TempDir()
	fileName := filepath.Join(dir, "provenanced.conf")
	require.NoError(t, os.WriteFile(fileName, []byte(text), 0600), "write configuration")
	return dir, fileName
}

func TestSampleConfiguration(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://provenance@localhost/provenance")

	sample, err := os.ReadFile("provenanced.conf.sample")
	require.NoError(t, err, "read sample")
	dir, fileName := writeConfiguration(t, string(sample))

	options, err := getConfiguration(fileName, "")
	require.NoError(t, err, "parse sample")

	assert.Equal(t, filepath.Clean(dir), filepath.Clean(options.DataDirectory), "data directory")
	assert.Equal(t, filepath.Join(dir, "data", "provenance.leveldb"), options.Database.Name, "database")
	assert.DirExists(t, filepath.Join(dir, "data"), "database directory created")
	assert.DirExists(t, filepath.Join(dir, "log"), "log directory created")

	assert.Equal(t, []string{"127.0.0.1:8080", "[::1]:8080"}, options.HTTP.Listen, "listen")
	assert.Equal(t, int64(1048576), options.HTTP.MaximumBody, "maximum body")
	assert.Equal(t, 100, options.HTTP.Burst, "burst")
	assert.Equal(t, "", options.HTTP.Certificate, "no TLS")

	assert.Equal(t, modeLocal, options.Ledger.Mode, "ledger")
	assert.Equal(t, modeLocal, options.BlobStore.Mode, "blobstore")
	assert.Equal(t, "https://api.pinata.cloud", options.BlobStore.Pinning.API, "pinning api")
	assert.Equal(t, modeLocal, options.SaltStore.Mode, "saltstore")
	assert.Equal(t, "postgres://provenance@localhost/provenance", options.SaltStore.DSN, "dsn from environment")
	assert.Equal(t, modeMemory, options.Cache.Mode, "cache")
	assert.Equal(t, 3600, options.Audit.Interval, "audit")

	policy := options.Policy()
	assert.Equal(t, time.Hour, policy.Verified, "verified lifetime")
	assert.Equal(t, 5*time.Minute, policy.Tampered, "tampered lifetime")
	assert.Equal(t, time.Minute, policy.NotFound, "not found lifetime")

	assert.Equal(t, "info", options.Logging.Levels["DEFAULT"], "log level")
}

func TestConfigurationEnvironmentFile(t *testing.T) {
	const variable = "PROVENANCE_TEST_REDIS"
	t.Cleanup(func() { _ = os.Unsetenv(variable) })

	dir, fileName := writeConfiguration(t, `
return {
    data_directory = ".",
    cache = {
        mode = "Redis",
        redis = { address = os.getenv("`+variable+`") },
        verified = 10,
    },
}
`)
	env := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(env, []byte(variable+"=redis.internal:6379\n"), 0600), "write env")

	options, err := getConfiguration(fileName, "")
	require.NoError(t, err, "parse")

	assert.Equal(t, modeRedis, options.Cache.Mode, "mode is normalised")
	assert.Equal(t, "redis.internal:6379", options.Cache.Redis.Address, "address from .env")
	assert.Equal(t, 10*time.Second, options.Policy().Verified, "verified lifetime")
	assert.Equal(t, 5*time.Minute, options.Policy().Tampered, "default kept")
}

func TestConfigurationMissingEnvironmentFile(t *testing.T) {
	dir, fileName := writeConfiguration(t, `return { data_directory = "." }`)

	_, err := getConfiguration(fileName, filepath.Join(dir, "absent.env"))
	assert.Error(t, err, "explicit env file must exist")

	_, err = getConfiguration(fileName, "")
	assert.NoError(t, err, "implicit env file is optional")
}

func TestConfigurationErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"no data directory", `return { }`},
		{"data directory missing", `return { data_directory = "/nonexistent/provenance" }`},
		{"ledger mode", `return { data_directory = ".", ledger = { mode = "chain" } }`},
		{"remote without url", `return { data_directory = ".", ledger = { mode = "remote" } }`},
		{"serve remote", `return { data_directory = ".", ledger = { mode = "remote", url = "http://x/ledger/rpc", serve = true } }`},
		{"blobstore mode", `return { data_directory = ".", blobstore = { mode = "s3" } }`},
		{"grpc without address", `return { data_directory = ".", blobstore = { mode = "grpc" } }`},
		{"saltstore mode", `return { data_directory = ".", saltstore = { mode = "mysql" } }`},
		{"postgres without dsn", `return { data_directory = ".", saltstore = { mode = "postgres" } }`},
		{"cache mode", `return { data_directory = ".", cache = { mode = "memcached" } }`},
		{"half tls", `return { data_directory = ".", http = { certificate = "http.crt" } }`},
		{"negative audit", `return { data_directory = ".", audit = { interval = -1 } }`},
		{"database path", `return { data_directory = ".", database = { name = "sub/provenance.leveldb" } }`},
	}

	for _, test := range tests {
		_, fileName := writeConfiguration(t, test.text)
		_, err := getConfiguration(fileName, "")
		assert.Error(t, err, test.name)
	}
}

func TestExpandListen(t *testing.T) {
	assert.Equal(t, "[::]:8080", expandListen("*:8080"), "wildcard")
	assert.Equal(t, "127.0.0.1:8080", expandListen("127.0.0.1:8080"), "unchanged")
}
