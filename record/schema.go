// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package record

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"github.com/bitmark-inc/provenanced/fault"
)

// Kind - name of a record kind
type Kind string

// the built-in kinds
const (
	KindRegistration Kind = "registration"
	KindVaccination  Kind = "vaccination"
	KindSale         Kind = "sale"
)

// String - kind name
func (k Kind) String() string {
	return string(k)
}

// FieldType - how a field is represented and validated
type FieldType int

// field types
const (
	TypeText FieldType = iota
	TypeUnsigned
	TypeDecimal
	TypeDate
)

// Field - one entry of a schema
type Field struct {
	Name     string    // JSON name
	Type     FieldType // representation
	Required bool      // must be present and non-empty
}

// Record - a decoded record of one kind
//
// Values returns the canonical field text in schema order
type Record interface {
	Kind() Kind
	Subject() uint64
	SetSubject(uint64)
	Values() []string
}

// Schema - the fixed description of a kind
type Schema struct {
	Kind       Kind
	Table      string        // relational table name
	SaltPrefix string        // relational salt column prefix
	Subject    int           // position of the subject identifier
	IssuesCode bool          // submission also stores an identifier token row
	Fields     []Field       // in commitment order
	New        func() Record // empty record for decoding
}

// Arity - number of fields
func (s *Schema) Arity() int {
	return len(s.Fields)
}

// Index - position of a named field
func (s *Schema) Index(name string) (int, error) {
	for i, f := range s.Fields {
		if f.Name == name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %s", fault.UnknownField, name)
}

// Columns - relational column names of the fields
func (s *Schema) Columns() []string {
	c := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		c[i] = snakeCase(f.Name)
	}
	return c
}

// SaltColumns - relational column names of the salts, numbered from 1
func (s *Schema) SaltColumns() []string {
	c := make([]string, len(s.Fields))
	for i := range s.Fields {
		c[i] = fmt.Sprintf("%s%d", s.SaltPrefix, i+1)
	}
	return c
}

// Decode - strict decode of a submitted JSON object
//
// rejects unknown fields, missing required fields, values of the
// wrong type and malformed dates
func (s *Schema) Decode(data []byte) (Record, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); nil != err {
		return nil, fmt.Errorf("%w: %s", fault.InvalidJSON, err)
	}
	if nil == raw {
		return nil, fault.InvalidJSON
	}

	for name := range raw {
		if _, err := s.Index(name); nil != err {
			return nil, err
		}
	}
	for _, f := range s.Fields {
		if !f.Required {
			continue
		}
		v, ok := raw[f.Name]
		if !ok || isEmpty(v) {
			return nil, fmt.Errorf("%w: %s", fault.MissingField, f.Name)
		}
	}

	r := s.New()
	if err := json.Unmarshal(data, r); nil != err {
		return nil, fmt.Errorf("%w: %s", fault.InvalidField, err)
	}
	if err := s.Check(r); nil != err {
		return nil, err
	}
	return r, nil
}

// DecodePayload - lenient decode of a stored payload
//
// no presence checks are made since the payload is only used to
// recompute a commitment
func (s *Schema) DecodePayload(data []byte) (Record, error) {
	r := s.New()
	if err := json.Unmarshal(data, r); nil != err {
		return nil, fmt.Errorf("%w: %s", fault.InvalidJSON, err)
	}
	return r, nil
}

// Check - validate a record against the schema
func (s *Schema) Check(r Record) error {
	if r.Kind() != s.Kind {
		return fault.InvalidKind
	}
	values := r.Values()
	if len(values) != len(s.Fields) {
		return fault.FieldCountMismatch
	}
	for i, f := range s.Fields {
		if TypeDate == f.Type && "" != values[i] && !ValidDate(values[i]) {
			return fmt.Errorf("%w: %s", fault.InvalidDate, f.Name)
		}
	}
	return nil
}

func isEmpty(v json.RawMessage) bool {
	v = bytes.TrimSpace(v)
	return 0 == len(v) || bytes.Equal(v, []byte("null")) || bytes.Equal(v, []byte(`""`))
}

// pigId => pig_id
func snakeCase(s string) string {
	var b strings.Builder
	for i, c := range s {
		if unicode.IsUpper(c) {
			if i > 0 {
				b.WriteByte('_')
			}
			c = unicode.ToLower(c)
		}
		b.WriteRune(c)
	}
	return b.String()
}
