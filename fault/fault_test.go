// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/bitmark-inc/provenanced/fault"
)

var (
	ErrExistsOne      = fault.ExistsError("exists one ")
	ErrExistsTwo      = fault.ExistsError("exists two")
	ErrInvalidOne     = fault.InvalidError("invalid one")
	ErrInvalidTwo     = fault.InvalidError("invalid two")
	ErrNotFoundOne    = fault.NotFoundError("not found one")
	ErrNotFoundTwo    = fault.NotFoundError("not found two")
	ErrProcessOne     = fault.ProcessError("process one")
	ErrProcessTwo     = fault.ProcessError("process two")
	ErrUnavailableOne = fault.UnavailableError("unavailable one")
	ErrUnavailableTwo = fault.UnavailableError("unavailable two")
)

// test that the various error classes can be told apart
func TestClasses(t *testing.T) {
	errorList := []struct {
		err         error
		exists      bool
		invalid     bool
		notFound    bool
		process     bool
		unavailable bool
	}{
		{ErrExistsOne, true, false, false, false, false},
		{ErrExistsTwo, true, false, false, false, false},
		{ErrInvalidOne, false, true, false, false, false},
		{ErrInvalidTwo, false, true, false, false, false},
		{ErrNotFoundOne, false, false, true, false, false},
		{ErrNotFoundTwo, false, false, true, false, false},
		{ErrProcessOne, false, false, false, true, false},
		{ErrProcessTwo, false, false, false, true, false},
		{ErrUnavailableOne, false, false, false, false, true},
		{ErrUnavailableTwo, false, false, false, false, true},
		{errors.New("plain"), false, false, false, false, false},
	}

	for i, e := range errorList {
		err := e.err
		if fault.IsErrExists(err) != e.exists {
			t.Errorf("%d: expected 'exists' == %v for err = %v", i, e.exists, err)
		}
		if fault.IsErrInvalid(err) != e.invalid {
			t.Errorf("%d: expected 'invalid' == %v for err = %v", i, e.invalid, err)
		}
		if fault.IsErrNotFound(err) != e.notFound {
			t.Errorf("%d: expected 'not found' == %v for err = %v", i, e.notFound, err)
		}
		if fault.IsErrProcess(err) != e.process {
			t.Errorf("%d: expected 'process' == %v for err = %v", i, e.process, err)
		}
		if fault.IsErrUnavailable(err) != e.unavailable {
			t.Errorf("%d: expected 'unavailable' == %v for err = %v", i, e.unavailable, err)
		}
	}
}

// wrapping must not lose the class or the instance
func TestWrapped(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("%w: %w", fault.LedgerUnavailable, cause)

	if !fault.IsErrUnavailable(err) {
		t.Errorf("wrapped error lost its class: %v", err)
	}
	if !errors.Is(err, fault.LedgerUnavailable) {
		t.Errorf("wrapped error lost its instance: %v", err)
	}
	if !errors.Is(err, cause) {
		t.Errorf("wrapped error lost its cause: %v", err)
	}
	if fault.IsErrInvalid(err) {
		t.Errorf("wrapped error has wrong class: %v", err)
	}
}
