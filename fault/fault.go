// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

import (
	"errors"
)

// GenericError - error base
type GenericError string

// to allow for different classes of errors
type ExistsError GenericError
type InvalidError GenericError
type NotFoundError GenericError
type ProcessError GenericError
type UnavailableError GenericError

// common errors - keep in alphabetic order
var (
	AlreadyInitialised   = ExistsError("already initialised")
	AnchorNotFound       = NotFoundError("anchor not found")
	BatchKindMismatch    = InvalidError("batch records must all be the same kind")
	BatchTooLarge        = InvalidError("batch is too large")
	BlobNotFound         = NotFoundError("blob not found")
	BlobStoreUnavailable = UnavailableError("blob store unavailable")
	CacheUnavailable     = UnavailableError("outcome cache unavailable")
	DatabaseIsNotSet     = ProcessError("database is not set")
	EmptyBatch           = InvalidError("batch is empty")
	FieldCountMismatch   = InvalidError("field and salt counts differ")
	InvalidCode          = InvalidError("invalid identifier code")
	InvalidCount         = InvalidError("invalid count")
	InvalidCursor        = InvalidError("invalid cursor")
	InvalidDate          = InvalidError("invalid date")
	InvalidDigest        = InvalidError("invalid digest")
	InvalidField         = InvalidError("invalid field")
	InvalidJSON          = InvalidError("invalid JSON")
	InvalidKind          = InvalidError("invalid record kind")
	InvalidLocator       = InvalidError("invalid locator")
	InvalidProofIndex    = InvalidError("invalid proof index")
	InvalidSalt          = InvalidError("invalid salt")
	InvalidStructPointer = InvalidError("invalid struct pointer")
	InvalidSubject       = InvalidError("invalid subject identifier")
	LedgerUnavailable    = UnavailableError("ledger unavailable")
	MethodNotAllowed     = InvalidError("method not allowed")
	MissingField         = InvalidError("missing required field")
	MissingRemoteURL     = InvalidError("remote URL is required")
	MissingParameters    = InvalidError("missing parameters")
	NoLeaves             = InvalidError("no leaves")
	NotFound             = NotFoundError("not found")
	PartialPersistence   = UnavailableError("batch anchored but not all records persisted")
	PayloadTooLarge      = InvalidError("payload too large")
	RandomSourceFailed   = ProcessError("random source failed")
	RateLimiting         = ProcessError("rate limiting")
	RecordTampered       = ProcessError("record does not match anchored root")
	SaltStoreUnavailable = UnavailableError("salt store unavailable")
	SaltsNotFound        = NotFoundError("salt record not found")
	UnknownField         = InvalidError("unknown field")
	UploadFailed         = UnavailableError("failed to upload payload after retries")
	WrongDatabaseVersion = ProcessError("incompatible database version")
)

// the error interface base method
func (e GenericError) Error() string { return string(e) }

// the error interface methods
func (e ExistsError) Error() string      { return string(e) }
func (e InvalidError) Error() string     { return string(e) }
func (e NotFoundError) Error() string    { return string(e) }
func (e ProcessError) Error() string     { return string(e) }
func (e UnavailableError) Error() string { return string(e) }

// determine the class of an error
//
// wrapped errors are unwrapped, so fmt.Errorf("…: %w", fault.X) keeps
// the class of X
func IsErrExists(e error) bool      { var t ExistsError; return errors.As(e, &t) }
func IsErrInvalid(e error) bool     { var t InvalidError; return errors.As(e, &t) }
func IsErrNotFound(e error) bool    { var t NotFoundError; return errors.As(e, &t) }
func IsErrProcess(e error) bool     { var t ProcessError; return errors.As(e, &t) }
func IsErrUnavailable(e error) bool { var t UnavailableError; return errors.As(e, &t) }
