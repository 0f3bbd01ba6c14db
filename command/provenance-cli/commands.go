// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/provenanced/fault"
	"github.com/bitmark-inc/provenanced/record"
)

// common errors - keep in alphabetic order
const (
	ErrCodeOrID     = fault.InvalidError("one of code or id is required")
	ErrMissingField = fault.InvalidError("field name is required")
	ErrMissingID    = fault.InvalidError("id is required")
	ErrMissingKind  = fault.InvalidError("kind is required")
)

func runSubmit(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	kind, err := checkKind(c.String("kind"), true)
	if nil != err {
		return err
	}

	body, err := readInput(c.String("file"))
	if nil != err {
		return err
	}

	reply, err := m.client.Submit(kind, body)
	if nil != reply {
		printJson(m.w, reply)
	}
	return err
}

func runVerify(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	code, err := checkCode(c.String("code"), c.String("id"))
	if nil != err {
		return err
	}

	kind, err := checkKind(c.String("kind"), false)
	if nil != err {
		return err
	}

	if "" == kind {
		o, err := m.client.Verify(code)
		if nil != err {
			return err
		}
		return printJson(m.w, o)
	}

	o, err := m.client.VerifyKind(kind, code)
	if nil != err {
		return err
	}
	return printJson(m.w, o)
}

func runCode(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	id := strings.TrimSpace(c.String("id"))
	if "" == id {
		return ErrMissingID
	}
	subject, err := strconv.ParseUint(id, 10, 64)
	if nil != err {
		return fmt.Errorf("%w: %s", fault.InvalidSubject, err)
	}

	code, err := m.client.Code(subject)
	if nil != err {
		return err
	}
	return printJson(m.w, map[string]string{"qrCode": code})
}

func runDisclose(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	kind, err := checkKind(c.String("kind"), true)
	if nil != err {
		return err
	}
	code, err := checkCode(c.String("code"), c.String("id"))
	if nil != err {
		return err
	}
	field := strings.TrimSpace(c.String("field"))
	if "" == field {
		return ErrMissingField
	}

	d, err := m.client.Disclose(kind, code, field)
	if nil != d {
		printJson(m.w, d)
	}
	return err
}

func runDetails(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	details, err := m.client.Details()
	if nil != err {
		return err
	}
	return printJson(m.w, details)
}

// a blank kind is only allowed when not required
func checkKind(s string, required bool) (record.Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if "" == s {
		if required {
			return "", ErrMissingKind
		}
		return "", nil
	}
	kind := record.Kind(s)
	if _, err := record.Default().Lookup(kind); nil != err {
		return "", err
	}
	return kind, nil
}

// the identifier token, computed from the id when no code is given
func checkCode(code string, id string) (string, error) {
	code = strings.TrimSpace(code)
	id = strings.TrimSpace(id)
	switch {
	case "" != code && "" == id:
		if _, err := record.DecodeCode(code); nil != err {
			return "", err
		}
		return code, nil
	case "" == code && "" != id:
		subject, err := strconv.ParseUint(id, 10, 64)
		if nil != err {
			return "", fmt.Errorf("%w: %s", fault.InvalidSubject, err)
		}
		return record.EncodeCode(subject), nil
	default:
		return "", ErrCodeOrID
	}
}

func readInput(fileName string) ([]byte, error) {
	if "" == fileName || "-" == fileName {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(fileName)
}

func printJson(handle io.Writer, message interface{}) error {

	b, err := json.MarshalIndent(message, "", "  ")
	if nil != err {
		return err
	}

	fmt.Fprintf(handle, "%s\n", b)
	return nil
}
