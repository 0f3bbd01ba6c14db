// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package record_test

import (
	"encoding/json"
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/provenanced/fault"
	"github.com/bitmark-inc/provenanced/record"
)

const fullRegistration = `{
  "pigId": 7, "birthDate": "2024-01-01", "soldAt": "2024-06-30",
  "breed": "Duroc", "geneticLineage": "L1", "birthWeight": 1.50,
  "earTag": "E-77", "sex": "F", "status": "active", "farmId": "F9"
}`

const fullVaccination = `{
  "vaccinationId": 31, "pigId": 7, "vaccineName": "PCV2", "batchNumber": "B-1",
  "administeredBy": "vet", "adminDate": "2024-02-01", "nextDueDate": "2024-08-01"
}`

const fullSale = `{
  "saleId": 90, "pigId": 7, "saleDate": "2024-06-30", "finalWeight": 112.25,
  "buyerName": "Market", "buyerContact": "555-0100", "price": 310
}`

func TestDefaultKinds(t *testing.T) {
	r := record.Default()
	assert.Equal(t, []record.Kind{
		record.KindRegistration,
		record.KindVaccination,
		record.KindSale,
	}, r.Kinds(), "kinds")

	s, err := r.Lookup(record.KindRegistration)
	require.Nil(t, err, "lookup error")
	assert.Equal(t, 10, s.Arity(), "registration arity")

	s, err = r.Lookup(record.KindSale)
	require.Nil(t, err, "lookup error")
	assert.Equal(t, 7, s.Arity(), "sale arity")

	_, err = r.Lookup("harvest")
	assert.True(t, errors.Is(err, fault.InvalidKind), "unknown kind: %v", err)
}

func TestRegistrationValues(t *testing.T) {
	rec, err := record.RegistrationSchema.Decode([]byte(fullRegistration))
	require.Nil(t, err, "decode error")

	assert.Equal(t, uint64(7), rec.Subject(), "subject")
	assert.Equal(t, []string{
		"7", "2024-01-01", "2024-06-30", "Duroc", "L1", "1.5", "E-77", "F", "active", "F9",
	}, rec.Values(), "canonical values")
}

func TestOptionalFieldsAreEmpty(t *testing.T) {
	rec, err := record.RegistrationSchema.Decode([]byte(`{
	  "pigId": 8, "birthDate": "2024-01-02", "breed": "Duroc",
	  "sex": "M", "status": "active", "farmId": "F9"
	}`))
	require.Nil(t, err, "decode error")
	assert.Equal(t, []string{
		"8", "2024-01-02", "", "Duroc", "", "", "", "M", "active", "F9",
	}, rec.Values(), "canonical values")
}

func TestSubjectPositions(t *testing.T) {
	for _, item := range []struct {
		schema *record.Schema
		data   string
	}{
		{record.RegistrationSchema, fullRegistration},
		{record.VaccinationSchema, fullVaccination},
		{record.SaleSchema, fullSale},
	} {
		rec, err := item.schema.Decode([]byte(item.data))
		require.Nil(t, err, "decode error: %s", item.schema.Kind)
		assert.Equal(t, "7", rec.Values()[item.schema.Subject], "subject position: %s", item.schema.Kind)

		rec.SetSubject(12)
		assert.Equal(t, uint64(12), rec.Subject(), "set subject: %s", item.schema.Kind)
		assert.Equal(t, "12", rec.Values()[item.schema.Subject], "moved subject: %s", item.schema.Kind)
	}
}

// JSON names of the structures must be the schema field names
func TestJSONNamesMatchSchema(t *testing.T) {
	for _, item := range []struct {
		schema *record.Schema
		data   string
	}{
		{record.RegistrationSchema, fullRegistration},
		{record.VaccinationSchema, fullVaccination},
		{record.SaleSchema, fullSale},
	} {
		rec, err := item.schema.Decode([]byte(item.data))
		require.Nil(t, err, "decode error: %s", item.schema.Kind)

		buffer, err := json.Marshal(rec)
		require.Nil(t, err, "marshal error")
		var m map[string]interface{}
		require.Nil(t, json.Unmarshal(buffer, &m), "unmarshal error")

		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		names := make([]string, 0, item.schema.Arity())
		for _, f := range item.schema.Fields {
			names = append(names, f.Name)
		}
		sort.Strings(keys)
		sort.Strings(names)
		assert.Equal(t, names, keys, "names: %s", item.schema.Kind)

		again, err := item.schema.DecodePayload(buffer)
		require.Nil(t, err, "payload decode error")
		assert.Equal(t, rec.Values(), again.Values(), "payload values: %s", item.schema.Kind)
	}
}

func TestDecodeErrors(t *testing.T) {
	s := record.RegistrationSchema
	for _, item := range []struct {
		data string
		err  error
	}{
		{`{`, fault.InvalidJSON},
		{`null`, fault.InvalidJSON},
		{`{"pigId": 7, "birthDate": "2024-01-01", "breed": "D", "sex": "F", "status": "a"}`, fault.MissingField},
		{`{"pigId": 7, "birthDate": "2024-01-01", "breed": "", "sex": "F", "status": "a", "farmId": "F9"}`, fault.MissingField},
		{`{"pigId": null, "birthDate": "2024-01-01", "breed": "D", "sex": "F", "status": "a", "farmId": "F9"}`, fault.MissingField},
		{`{"pigId": 7, "birthDate": "2024-01-01", "breed": "D", "sex": "F", "status": "a", "farmId": "F9", "colour": "pink"}`, fault.UnknownField},
		{`{"pigId": "7", "birthDate": "2024-01-01", "breed": "D", "sex": "F", "status": "a", "farmId": "F9"}`, fault.InvalidField},
		{`{"pigId": -7, "birthDate": "2024-01-01", "breed": "D", "sex": "F", "status": "a", "farmId": "F9"}`, fault.InvalidField},
		{`{"pigId": 7, "birthDate": "2024-13-01", "breed": "D", "sex": "F", "status": "a", "farmId": "F9"}`, fault.InvalidDate},
		{`{"pigId": 7, "birthDate": "2024-1-1", "breed": "D", "sex": "F", "status": "a", "farmId": "F9"}`, fault.InvalidDate},
		{`{"pigId": 7, "birthDate": "2024-01-01", "soldAt": "soon", "breed": "D", "sex": "F", "status": "a", "farmId": "F9"}`, fault.InvalidDate},
	} {
		_, err := s.Decode([]byte(item.data))
		assert.True(t, errors.Is(err, item.err), "data: %s  error: %v", item.data, err)
		assert.True(t, fault.IsErrInvalid(err), "class: %s", item.data)
	}
}

func TestRegistryDecode(t *testing.T) {
	r := record.Default()

	records, batch, err := r.Decode(record.KindVaccination, []byte(fullVaccination))
	require.Nil(t, err, "single decode error")
	assert.False(t, batch, "single is not a batch")
	assert.Equal(t, 1, len(records), "single count")

	records, batch, err = r.Decode(record.KindVaccination, []byte(" ["+fullVaccination+","+fullVaccination+"]"))
	require.Nil(t, err, "batch decode error")
	assert.True(t, batch, "array is a batch")
	assert.Equal(t, 2, len(records), "batch count")

	_, _, err = r.Decode(record.KindVaccination, []byte("[]"))
	assert.Equal(t, fault.EmptyBatch, err, "empty batch")

	_, _, err = r.Decode(record.KindVaccination, []byte("  "))
	assert.Equal(t, fault.InvalidJSON, err, "empty body")

	_, _, err = r.Decode(record.KindVaccination, []byte("["+fullVaccination+",{}]"))
	assert.True(t, errors.Is(err, fault.MissingField), "second record invalid: %v", err)

	_, _, err = r.Decode(record.KindSale, []byte(fullVaccination))
	assert.True(t, errors.Is(err, fault.UnknownField), "wrong kind body: %v", err)
}

func TestNewRegistry(t *testing.T) {
	_, err := record.NewRegistry(record.SaleSchema, record.SaleSchema)
	assert.True(t, errors.Is(err, fault.InvalidKind), "duplicate: %v", err)

	_, err = record.NewRegistry(&record.Schema{Kind: "x"})
	assert.Equal(t, fault.InvalidKind, err, "no fields")

	bad := *record.SaleSchema
	bad.Kind = "bad"
	bad.Subject = 7
	_, err = record.NewRegistry(&bad)
	assert.True(t, errors.Is(err, fault.InvalidField), "subject position: %v", err)
}

func TestColumns(t *testing.T) {
	s := record.RegistrationSchema
	assert.Equal(t, []string{
		"pig_id", "birth_date", "sold_at", "breed", "genetic_lineage",
		"birth_weight", "ear_tag", "sex", "status", "farm_id",
	}, s.Columns(), "columns")
	assert.Equal(t, "salt1", s.SaltColumns()[0], "first salt column")
	assert.Equal(t, "salt10", s.SaltColumns()[9], "last salt column")
	assert.Equal(t, "vsalt7", record.VaccinationSchema.SaltColumns()[6], "vaccination salt column")

	i, err := s.Index("farmId")
	assert.Nil(t, err, "index error")
	assert.Equal(t, 9, i, "farmId index")
	_, err = s.Index("colour")
	assert.True(t, errors.Is(err, fault.UnknownField), "unknown field")
}

func TestCanonical(t *testing.T) {
	assert.Equal(t, "0", record.Unsigned(0), "zero")
	assert.Equal(t, "18446744073709551615", record.Unsigned(^uint64(0)), "max")

	for _, item := range []struct {
		f float64
		s string
	}{
		{1.5, "1.5"},
		{310, "310"},
		{0.1, "0.1"},
		{112.25, "112.25"},
		{-2, "-2"},
		{1e21, "1000000000000000000000"},
	} {
		f := item.f
		assert.Equal(t, item.s, record.Decimal(&f), "decimal: %v", item.f)
	}
	assert.Equal(t, "", record.Decimal(nil), "absent decimal")

	assert.True(t, record.ValidDate("2024-02-29"), "leap day")
	assert.False(t, record.ValidDate("2023-02-29"), "not a leap year")
	assert.False(t, record.ValidDate("01/01/2024"), "wrong layout")
}

func TestCode(t *testing.T) {
	assert.Equal(t, "Nw==", record.EncodeCode(7), "encode 7")
	assert.Equal(t, "MTIz", record.EncodeCode(123), "encode 123")

	for _, item := range []struct {
		code    string
		subject uint64
	}{
		{"Nw==", 7},
		{"Nw", 7},
		{" MTIz ", 123},
		{record.EncodeCode(18446744073709551615), 18446744073709551615},
	} {
		n, err := record.DecodeCode(item.code)
		assert.Nil(t, err, "decode error: %q", item.code)
		assert.Equal(t, item.subject, n, "decode: %q", item.code)
	}

	for _, code := range []string{"", "!!!!", "MWE=", "LTE="} {
		_, err := record.DecodeCode(code)
		assert.Equal(t, fault.InvalidCode, err, "code: %q", code)
	}
}
