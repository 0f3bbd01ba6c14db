// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package fixtures - shared test setup
package fixtures

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/provenanced/storage"
)

const (
	dir         = "testing"
	LogCategory = "testing"
)

// SetupTestLogger - start a file logger that only records critical messages
func SetupTestLogger() {
	removeFiles()
	_ = os.Mkdir(dir, 0700)

	logging := logger.Configuration{
		Directory: dir,
		File:      fmt.Sprintf("%s.log", LogCategory),
		Size:      1048576,
		Count:     10,
		Console:   false,
		Levels: map[string]string{
			logger.DefaultTag: "critical",
		},
	}

	// start logging
	_ = logger.Initialise(logging)
}

// TeardownTestLogger - stop logging and remove the log files
func TeardownTestLogger() {
	logger.Finalise()
	removeFiles()
}

// Run - wrap a test binary with the test logger, for use by TestMain
func Run(m *testing.M) int {
	SetupTestLogger()
	defer TeardownTestLogger()
	return m.Run()
}

// OpenTestDB - an empty database removed at the end of the test
func OpenTestDB(t *testing.T) *storage.DB {
	db, err := storage.Open(filepath.Join(t.TempDir(), "test.leveldb"), storage.ReadWrite)
	if nil != err {
		t.Fatalf("open database error: %s", err)
	}
	t.Cleanup(db.Close)
	return db
}

func removeFiles() {
	err := os.RemoveAll(dir)
	if nil != err {
		fmt.Println("remove dir with error: ", err)
	}
}
