// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package record

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/bitmark-inc/provenanced/fault"
)

// Registry - the set of kinds accepted by a server
type Registry struct {
	schemas map[Kind]*Schema
	kinds   []Kind
}

// NewRegistry - registry of the given schemas, order is kept for aggregate verification
func NewRegistry(schemas ...*Schema) (*Registry, error) {
	r := &Registry{
		schemas: make(map[Kind]*Schema, len(schemas)),
		kinds:   make([]Kind, 0, len(schemas)),
	}
	for _, s := range schemas {
		if "" == s.Kind || nil == s.New || 0 == len(s.Fields) {
			return nil, fault.InvalidKind
		}
		if s.Subject < 0 || s.Subject >= len(s.Fields) {
			return nil, fmt.Errorf("%w: %s subject position", fault.InvalidField, s.Kind)
		}
		if _, ok := r.schemas[s.Kind]; ok {
			return nil, fmt.Errorf("%w: duplicate kind %s", fault.InvalidKind, s.Kind)
		}
		r.schemas[s.Kind] = s
		r.kinds = append(r.kinds, s.Kind)
	}
	return r, nil
}

// Default - registration, vaccination and sale
func Default() *Registry {
	r, err := NewRegistry(RegistrationSchema, VaccinationSchema, SaleSchema)
	if nil != err {
		panic(err)
	}
	return r
}

// Kinds - all kinds in registration order
func (r *Registry) Kinds() []Kind {
	return append([]Kind{}, r.kinds...)
}

// Lookup - schema for a kind
func (r *Registry) Lookup(kind Kind) (*Schema, error) {
	s, ok := r.schemas[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", fault.InvalidKind, string(kind))
	}
	return s, nil
}

// Decode - decode a submission body of a single object or an array of objects
//
// the second return is true for an array body
func (r *Registry) Decode(kind Kind, data []byte) ([]Record, bool, error) {
	s, err := r.Lookup(kind)
	if nil != err {
		return nil, false, err
	}

	data = bytes.TrimSpace(data)
	if 0 == len(data) {
		return nil, false, fault.InvalidJSON
	}

	if '[' != data[0] {
		rec, err := s.Decode(data)
		if nil != err {
			return nil, false, err
		}
		return []Record{rec}, false, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); nil != err {
		return nil, true, fmt.Errorf("%w: %s", fault.InvalidJSON, err)
	}
	if 0 == len(items) {
		return nil, true, fault.EmptyBatch
	}

	records := make([]Record, len(items))
	for i, item := range items {
		rec, err := s.Decode(item)
		if nil != err {
			return nil, true, fmt.Errorf("record %d: %w", i, err)
		}
		records[i] = rec
	}
	return records, true, nil
}
