// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package saltstore

import (
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/bitmark-inc/provenanced/record"
)

// relational names outside the kind schemas
const (
	rootColumn    = "merkle_root"
	createdColumn = "created_at"

	codeTable         = "qr_codes"
	codeIDColumn      = "qr_id"
	codeSubjectColumn = "pig_id"
	codeDataColumn    = "qr_code_data"
)

func quote(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

func quoteAll(names []string) []string {
	q := make([]string, len(names))
	for i, n := range names {
		q[i] = quote(n)
	}
	return q
}

// CreateTables - DDL statements for the tables of every kind in a registry
//
// plaintext columns are text holding the canonical values; a row is
// identified by its subject column and merkle root
func CreateTables(registry *record.Registry) []string {
	statements := []string{}
	for _, kind := range registry.Kinds() {
		schema, err := registry.Lookup(kind)
		if nil != err {
			continue
		}
		statements = append(statements, createTable(schema)...)
	}

	statements = append(statements, fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (%s TEXT PRIMARY KEY, %s TEXT NOT NULL UNIQUE, %s TEXT NOT NULL)",
		quote(codeTable), quote(codeIDColumn), quote(codeSubjectColumn), quote(codeDataColumn),
	))
	return statements
}

func createTable(schema *record.Schema) []string {
	columns := schema.Columns()
	definitions := make([]string, 0, 2*len(columns)+2)
	for i, c := range columns {
		if i == schema.Subject || schema.Fields[i].Required {
			definitions = append(definitions, quote(c)+" TEXT NOT NULL")
		} else {
			definitions = append(definitions, quote(c)+" TEXT NOT NULL DEFAULT ''")
		}
	}
	for _, c := range schema.SaltColumns() {
		definitions = append(definitions, quote(c)+" CHAR(32) NOT NULL")
	}
	definitions = append(definitions,
		quote(rootColumn)+" TEXT NOT NULL",
		quote(createdColumn)+" TIMESTAMPTZ NOT NULL DEFAULT now()",
		fmt.Sprintf("PRIMARY KEY (%s, %s)", quote(columns[schema.Subject]), quote(rootColumn)),
	)

	return []string{
		fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n  %s\n)", quote(schema.Table), strings.Join(definitions, ",\n  ")),
	}
}

// the statement to insert one salt record
func insertStatement(schema *record.Schema) string {
	columns := append(quoteAll(schema.Columns()), quoteAll(schema.SaltColumns())...)
	columns = append(columns, quote(rootColumn))

	placeholders := make([]string, len(columns))
	for i := range placeholders {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	return fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) ON CONFLICT DO NOTHING",
		quote(schema.Table), strings.Join(columns, ", "), strings.Join(placeholders, ", "),
	)
}

// the statement to select the salts of one record
func selectSaltsStatement(schema *record.Schema) string {
	return fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s = $1 AND %s = $2",
		strings.Join(quoteAll(schema.SaltColumns()), ", "),
		quote(schema.Table),
		quote(schema.Columns()[schema.Subject]),
		quote(rootColumn),
	)
}

var (
	upsertCodeStatement = fmt.Sprintf(
		"INSERT INTO %s (%s, %s, %s) VALUES ($1, $2, $3) ON CONFLICT (%s) DO UPDATE SET %s = EXCLUDED.%s",
		quote(codeTable), quote(codeIDColumn), quote(codeSubjectColumn), quote(codeDataColumn),
		quote(codeSubjectColumn), quote(codeDataColumn), quote(codeDataColumn),
	)
	selectCodeStatement = fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s = $1",
		quote(codeDataColumn), quote(codeTable), quote(codeSubjectColumn),
	)
)
