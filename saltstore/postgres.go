// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package saltstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/bitmark-inc/logger"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bitmark-inc/provenanced/fault"
	"github.com/bitmark-inc/provenanced/merkle"
	"github.com/bitmark-inc/provenanced/record"
)

// Querier - the subset of a pgx pool used here
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Postgres - salt records kept in PostgreSQL
type Postgres struct {
	log  *logger.L
	db   Querier
	pool *pgxpool.Pool
}

// NewPostgres - salt store on an existing connection or pool
func NewPostgres(log *logger.L, db Querier) *Postgres {
	return &Postgres{
		log: log,
		db:  db,
	}
}

// ConnectPostgres - open a connection pool for a DSN
func ConnectPostgres(ctx context.Context, log *logger.L, dsn string) (*Postgres, error) {
	if "" == dsn {
		return nil, fault.MissingRemoteURL
	}
	pool, err := pgxpool.New(ctx, dsn)
	if nil != err {
		return nil, fmt.Errorf("%w: %s", fault.SaltStoreUnavailable, err)
	}
	if err := pool.Ping(ctx); nil != err {
		pool.Close()
		return nil, fmt.Errorf("%w: %s", fault.SaltStoreUnavailable, err)
	}
	p := NewPostgres(log, pool)
	p.pool = pool
	return p, nil
}

// Close - release a pool opened by ConnectPostgres
func (p *Postgres) Close() {
	if nil != p.pool {
		p.pool.Close()
	}
}

// Setup - create any missing tables
func (p *Postgres) Setup(ctx context.Context, registry *record.Registry) error {
	for _, statement := range CreateTables(registry) {
		if _, err := p.db.Exec(ctx, statement); nil != err {
			return fmt.Errorf("%w: %s", fault.SaltStoreUnavailable, err)
		}
	}
	return nil
}

// Put - insert a salt record
func (p *Postgres) Put(ctx context.Context, schema *record.Schema, row Row) error {
	if err := CheckRow(schema, row); nil != err {
		return err
	}

	args := make([]any, 0, 2*len(row.Values)+1)
	for _, v := range row.Values {
		args = append(args, v)
	}
	for _, s := range row.Salts {
		args = append(args, s)
	}
	args = append(args, row.Root.String())

	if _, err := p.db.Exec(ctx, insertStatement(schema), args...); nil != err {
		return fmt.Errorf("%w: %s", fault.SaltStoreUnavailable, err)
	}
	p.log.Debugf("salts stored: %s/%d  root: %s", schema.Kind, row.Subject, row.Root)
	return nil
}

// Salts - the salts of one anchored version of a record
func (p *Postgres) Salts(ctx context.Context, schema *record.Schema, subject uint64, root merkle.Digest) ([]string, error) {
	salts := make([]string, schema.Arity())
	dest := make([]any, len(salts))
	for i := range salts {
		dest[i] = &salts[i]
	}

	err := p.db.QueryRow(ctx, selectSaltsStatement(schema), record.Unsigned(subject), root.String()).Scan(dest...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fault.SaltsNotFound
	}
	if nil != err {
		return nil, fmt.Errorf("%w: %s", fault.SaltStoreUnavailable, err)
	}
	return salts, nil
}

// PutCode - store or replace the identifier code of a subject
func (p *Postgres) PutCode(ctx context.Context, subject uint64, code string) error {
	_, err := p.db.Exec(ctx, upsertCodeStatement, uuid.NewString(), record.Unsigned(subject), code)
	if nil != err {
		return fmt.Errorf("%w: %s", fault.SaltStoreUnavailable, err)
	}
	return nil
}

// Code - the identifier code of a subject
func (p *Postgres) Code(ctx context.Context, subject uint64) (string, bool, error) {
	var code string
	err := p.db.QueryRow(ctx, selectCodeStatement, record.Unsigned(subject)).Scan(&code)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if nil != err {
		return "", false, fmt.Errorf("%w: %s", fault.SaltStoreUnavailable, err)
	}
	return code, true, nil
}
