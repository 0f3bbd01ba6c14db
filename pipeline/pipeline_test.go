// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pipeline_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/provenanced/blobstore"
	"github.com/bitmark-inc/provenanced/commitment"
	"github.com/bitmark-inc/provenanced/fault"
	"github.com/bitmark-inc/provenanced/fixtures"
	"github.com/bitmark-inc/provenanced/ledger"
	"github.com/bitmark-inc/provenanced/merkle"
	"github.com/bitmark-inc/provenanced/outcome"
	"github.com/bitmark-inc/provenanced/pipeline"
	"github.com/bitmark-inc/provenanced/pipeline/mocks"
	"github.com/bitmark-inc/provenanced/record"
	"github.com/bitmark-inc/provenanced/saltstore"
)

func TestMain(m *testing.M) {
	os.Exit(fixtures.Run(m))
}

type collaborators struct {
	ledger *mocks.MockLedger
	blobs  *mocks.MockBlobStore
	salts  *mocks.MockSaltStore
	cache  *mocks.MockCache
	p      *pipeline.Pipeline
}

func setup(t *testing.T) *collaborators {
	ctl := gomock.NewController(t)
	c := &collaborators{
		ledger: mocks.NewMockLedger(ctl),
		blobs:  mocks.NewMockBlobStore(ctl),
		salts:  mocks.NewMockSaltStore(ctl),
		cache:  mocks.NewMockCache(ctl),
	}
	c.p = pipeline.New(pipeline.Handles{
		Ledger: c.ledger,
		Blobs:  c.blobs,
		Salts:  c.salts,
		Cache:  c.cache,
	})
	return c
}

func sale(subject uint64, buyer string) *record.Sale {
	weight := 112.25
	price := 310.0
	return &record.Sale{
		SaleID:       90,
		PigID:        subject,
		SaleDate:     "2024-06-30",
		FinalWeight:  &weight,
		BuyerName:    buyer,
		BuyerContact: "555-0100",
		Price:        &price,
	}
}

func registration(subject uint64) *record.Registration {
	return &record.Registration{
		PigID:     subject,
		BirthDate: "2024-01-01",
		Breed:     "Duroc",
		Sex:       "F",
		Status:    "active",
		FarmID:    "F9",
	}
}

func anchorFor(subject uint64, kind record.Kind, root merkle.Digest, locator string) ledger.Anchor {
	return ledger.Anchor{
		Subject: subject,
		Kind:    kind,
		Root:    root,
		Locator: locator,
		Handle:  merkle.NewDigest([]byte(locator)),
	}
}

func TestSubmitOrder(t *testing.T) {
	c := setup(t)
	ctx := context.Background()
	rec := sale(7, "Market")
	payload, _ := json.Marshal(rec)
	locator, _ := blobstore.Locator(payload)

	var anchored merkle.Digest
	var row saltstore.Row
	gomock.InOrder(
		c.blobs.EXPECT().Put(gomock.Any(), payload).Return(locator, nil).Times(1),
		c.ledger.EXPECT().Write(gomock.Any(), uint64(7), record.KindSale, gomock.Any(), locator).
			DoAndReturn(func(_ context.Context, subject uint64, kind record.Kind, root merkle.Digest, l string) (ledger.Anchor, error) {
				anchored = root
				return anchorFor(subject, kind, root, l), nil
			}).Times(1),
		c.salts.EXPECT().Put(gomock.Any(), record.SaleSchema, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *record.Schema, r saltstore.Row) error {
				row = r
				return nil
			}).Times(1),
	)

	receipt, err := c.p.Submit(ctx, rec)
	require.Nil(t, err, "submit error")
	assert.True(t, receipt.Persisted, "persisted")
	assert.Equal(t, locator, receipt.Locator, "locator")
	assert.Equal(t, anchored, receipt.Root, "root")
	assert.Equal(t, "", receipt.Code, "sales issue no code")

	assert.Equal(t, uint64(7), row.Subject, "row subject")
	assert.Equal(t, anchored, row.Root, "row root")
	assert.Equal(t, rec.Values(), row.Values, "row values")
	require.Len(t, row.Salts, 7, "salt count")

	rebuilt, err := commitment.Rebuild(row.Values, row.Salts)
	require.Nil(t, err, "rebuild error")
	assert.Equal(t, anchored, rebuilt.Root, "salts reproduce the root")
}

func TestSubmitRegistrationIssuesCode(t *testing.T) {
	c := setup(t)
	rec := registration(7)

	c.blobs.EXPECT().Put(gomock.Any(), gomock.Any()).Return("bafkreiexample", nil).Times(1)
	c.ledger.EXPECT().Write(gomock.Any(), uint64(7), record.KindRegistration, gomock.Any(), "bafkreiexample").
		DoAndReturn(func(_ context.Context, subject uint64, kind record.Kind, root merkle.Digest, l string) (ledger.Anchor, error) {
			return anchorFor(subject, kind, root, l), nil
		}).Times(1)
	c.salts.EXPECT().Put(gomock.Any(), record.RegistrationSchema, gomock.Any()).Return(nil).Times(1)
	c.salts.EXPECT().PutCode(gomock.Any(), uint64(7), "Nw==").Return(nil).Times(1)

	receipt, err := c.p.Submit(context.Background(), rec)
	require.Nil(t, err, "submit error")
	assert.Equal(t, "Nw==", receipt.Code, "code")
}

func TestSubmitUploadExhausted(t *testing.T) {
	c := setup(t)

	c.blobs.EXPECT().Put(gomock.Any(), gomock.Any()).Return("", fault.BlobStoreUnavailable).Times(pipeline.UploadAttempts)

	_, err := c.p.Submit(context.Background(), sale(7, "Market"))
	assert.True(t, errors.Is(err, fault.UploadFailed), "upload failed: %v", err)
}

func TestSubmitUploadRecovers(t *testing.T) {
	c := setup(t)

	gomock.InOrder(
		c.blobs.EXPECT().Put(gomock.Any(), gomock.Any()).Return("", fault.BlobStoreUnavailable).Times(2),
		c.blobs.EXPECT().Put(gomock.Any(), gomock.Any()).Return("bafkreiexample", nil).Times(1),
	)
	c.ledger.EXPECT().Write(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, subject uint64, kind record.Kind, root merkle.Digest, l string) (ledger.Anchor, error) {
			return anchorFor(subject, kind, root, l), nil
		}).Times(1)
	c.salts.EXPECT().Put(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(1)

	_, err := c.p.Submit(context.Background(), sale(7, "Market"))
	assert.Nil(t, err, "third attempt succeeds")
}

func TestSubmitLedgerFailure(t *testing.T) {
	c := setup(t)

	c.blobs.EXPECT().Put(gomock.Any(), gomock.Any()).Return("bafkreiexample", nil).Times(1)
	c.ledger.EXPECT().Write(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(ledger.Anchor{}, fault.LedgerUnavailable).Times(1)
	// no salt store calls

	_, err := c.p.Submit(context.Background(), sale(7, "Market"))
	assert.Equal(t, fault.LedgerUnavailable, err, "ledger failure")
}

func TestSubmitOrphanedAnchor(t *testing.T) {
	c := setup(t)

	c.blobs.EXPECT().Put(gomock.Any(), gomock.Any()).Return("bafkreiexample", nil).Times(1)
	c.ledger.EXPECT().Write(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, subject uint64, kind record.Kind, root merkle.Digest, l string) (ledger.Anchor, error) {
			return anchorFor(subject, kind, root, l), nil
		}).Times(1)
	c.salts.EXPECT().Put(gomock.Any(), gomock.Any(), gomock.Any()).Return(fault.SaltStoreUnavailable).Times(1)

	receipt, err := c.p.Submit(context.Background(), sale(7, "Market"))
	assert.Equal(t, fault.SaltStoreUnavailable, err, "persist failure")
	assert.False(t, receipt.Persisted, "not persisted")
	assert.False(t, receipt.Root.IsZero(), "anchored root still reported")
}

func TestSubmitInvalid(t *testing.T) {
	c := setup(t)

	rec := sale(7, "Market")
	rec.SaleDate = "30/06/2024"
	_, err := c.p.Submit(context.Background(), rec)
	assert.True(t, errors.Is(err, fault.InvalidDate), "bad date: %v", err)

	_, err = c.p.Submit(context.Background(), nil)
	assert.Equal(t, fault.MissingParameters, err, "nil record")
}

func TestSubmitBatch(t *testing.T) {
	c := setup(t)
	records := []record.Record{sale(7, "A"), sale(8, "B"), sale(9, "C")}

	c.blobs.EXPECT().Put(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, doc []byte) (string, error) {
		return blobstore.Locator(doc)
	}).Times(3)
	c.ledger.EXPECT().WriteBatch(gomock.Any(), record.KindSale, []uint64{7, 8, 9}, gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, kind record.Kind, subjects []uint64, roots []merkle.Digest, locators []string) (ledger.BatchReceipt, error) {
			anchors := make([]ledger.Anchor, len(subjects))
			for i := range subjects {
				anchors[i] = anchorFor(subjects[i], kind, roots[i], locators[i])
			}
			return ledger.BatchReceipt{Handle: ledger.BatchHandle(anchors), Anchors: anchors}, nil
		}).Times(1)
	c.salts.EXPECT().Put(gomock.Any(), record.SaleSchema, gomock.Any()).Return(nil).Times(3)

	result, err := c.p.SubmitBatch(context.Background(), records)
	require.Nil(t, err, "batch error")
	assert.NotEqual(t, "", result.ID, "batch id")
	assert.Equal(t, 3, result.Persisted(), "persisted")
	for i, r := range result.Records {
		assert.Equal(t, records[i].Subject(), r.Subject, "%d: order kept", i)
	}
}

func TestSubmitBatchLedgerFailure(t *testing.T) {
	c := setup(t)

	c.blobs.EXPECT().Put(gomock.Any(), gomock.Any()).Return("bafkreiexample", nil).Times(2)
	c.ledger.EXPECT().WriteBatch(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(ledger.BatchReceipt{}, fault.LedgerUnavailable).Times(1)
	// nothing persisted

	_, err := c.p.SubmitBatch(context.Background(), []record.Record{sale(7, "A"), sale(8, "B")})
	assert.Equal(t, fault.LedgerUnavailable, err, "batch anchored atomically")
}

func TestSubmitBatchPartialPersistence(t *testing.T) {
	c := setup(t)

	c.blobs.EXPECT().Put(gomock.Any(), gomock.Any()).Return("bafkreiexample", nil).Times(2)
	c.ledger.EXPECT().WriteBatch(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, kind record.Kind, subjects []uint64, roots []merkle.Digest, locators []string) (ledger.BatchReceipt, error) {
			anchors := make([]ledger.Anchor, len(subjects))
			for i := range subjects {
				anchors[i] = anchorFor(subjects[i], kind, roots[i], locators[i])
			}
			return ledger.BatchReceipt{Anchors: anchors}, nil
		}).Times(1)
	c.salts.EXPECT().Put(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *record.Schema, row saltstore.Row) error {
			if 8 == row.Subject {
				return fault.SaltStoreUnavailable
			}
			return nil
		}).Times(2)

	result, err := c.p.SubmitBatch(context.Background(), []record.Record{sale(7, "A"), sale(8, "B")})
	assert.True(t, errors.Is(err, fault.PartialPersistence), "partial: %v", err)
	require.Len(t, result.Records, 2, "records")
	assert.True(t, result.Records[0].Persisted, "first persisted")
	assert.False(t, result.Records[1].Persisted, "second not persisted")
	assert.Equal(t, fault.SaltStoreUnavailable.Error(), result.Records[1].Error, "second error")
}

func TestSubmitBatchRejects(t *testing.T) {
	c := setup(t)

	_, err := c.p.SubmitBatch(context.Background(), nil)
	assert.Equal(t, fault.EmptyBatch, err, "empty")

	_, err = c.p.SubmitBatch(context.Background(), []record.Record{sale(7, "A"), registration(7)})
	assert.Equal(t, fault.BatchKindMismatch, err, "mixed kinds")
}

func TestSubmitBatchTooLarge(t *testing.T) {
	c := setup(t)

	// no collaborator expectations: any upload or ledger call fails the test
	records := make([]record.Record, ledger.MaximumBatch+1)
	for i := range records {
		records[i] = sale(uint64(i+1), "A")
	}
	result, err := c.p.SubmitBatch(context.Background(), records)
	assert.True(t, errors.Is(err, fault.BatchTooLarge), "too large")
	assert.True(t, fault.IsErrInvalid(err), "invalid class")
	assert.Equal(t, 0, len(result.Records), "no receipts")
}

// stored state of one sale, as the collaborators would return it
type stored struct {
	payload []byte
	salts   []string
	anchor  ledger.Anchor
}

func storedSale(t *testing.T, rec *record.Sale) stored {
	payload, err := json.Marshal(rec)
	require.Nil(t, err, "marshal error")
	cm, err := commitment.Build(rec.Values())
	require.Nil(t, err, "build error")
	locator, _ := blobstore.Locator(payload)
	return stored{
		payload: payload,
		salts:   cm.Salts(),
		anchor:  anchorFor(rec.PigID, record.KindSale, cm.Root, locator),
	}
}

func (c *collaborators) expectStored(s stored) {
	c.ledger.EXPECT().Read(gomock.Any(), s.anchor.Subject, record.KindSale).Return(s.anchor, true, nil).Times(1)
	c.blobs.EXPECT().Get(gomock.Any(), s.anchor.Locator).Return(s.payload, nil).Times(1)
	c.salts.EXPECT().Salts(gomock.Any(), record.SaleSchema, s.anchor.Subject, s.anchor.Root).Return(s.salts, nil).Times(1)
}

func TestVerifyVerified(t *testing.T) {
	c := setup(t)
	s := storedSale(t, sale(7, "Market"))

	c.cache.EXPECT().Get(gomock.Any(), "verify:sale:7").Return(outcome.Outcome{}, false, nil).Times(1)
	c.expectStored(s)
	c.cache.EXPECT().Set(gomock.Any(), "verify:sale:7", gomock.Any(), time.Hour).Return(nil).Times(1)

	o, err := c.p.Verify(context.Background(), 7, record.KindSale)
	require.Nil(t, err, "verify error")
	assert.Equal(t, outcome.Verified, o.Status, "status")
	assert.Equal(t, "Product is Authentic", o.Message, "message")
	assert.Equal(t, s.anchor.Root.String(), o.Anchored, "anchored")
	assert.Equal(t, o.Anchored, o.Computed, "computed")
}

func TestVerifyTampered(t *testing.T) {
	c := setup(t)
	s := storedSale(t, sale(7, "Market"))
	s.payload, _ = json.Marshal(sale(7, "Someone Else"))

	c.cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(outcome.Outcome{}, false, nil).Times(1)
	c.expectStored(s)
	c.cache.EXPECT().Set(gomock.Any(), "verify:sale:7", gomock.Any(), 5*time.Minute).Return(nil).Times(1)

	o, err := c.p.Verify(context.Background(), 7, record.KindSale)
	require.Nil(t, err, "verify error")
	assert.Equal(t, outcome.Tampered, o.Status, "status")
	assert.NotEqual(t, o.Anchored, o.Computed, "roots differ")
}

func TestVerifyShiftedSalts(t *testing.T) {
	c := setup(t)
	s := storedSale(t, sale(7, "Market"))
	s.salts = append(s.salts[1:], s.salts[0])

	c.cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(outcome.Outcome{}, false, nil).Times(1)
	c.expectStored(s)
	c.cache.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(1)

	o, err := c.p.Verify(context.Background(), 7, record.KindSale)
	require.Nil(t, err, "verify error")
	assert.Equal(t, outcome.Tampered, o.Status, "shifted salts")
}

func TestVerifyUndecodablePayload(t *testing.T) {
	c := setup(t)
	s := storedSale(t, sale(7, "Market"))
	s.payload = []byte(`{"saleId": "ninety"}`)

	c.cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(outcome.Outcome{}, false, nil).Times(1)
	c.expectStored(s)
	c.cache.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(1)

	o, err := c.p.Verify(context.Background(), 7, record.KindSale)
	require.Nil(t, err, "verify error")
	assert.Equal(t, outcome.Tampered, o.Status, "garbage payload")
}

func TestVerifyCacheHit(t *testing.T) {
	c := setup(t)
	cached := outcome.New(record.KindSale, 7, outcome.Verified)

	c.cache.EXPECT().Get(gomock.Any(), "verify:sale:7").Return(cached, true, nil).Times(1)
	// no ledger, blob or salt store calls

	o, err := c.p.Verify(context.Background(), 7, record.KindSale)
	assert.Nil(t, err, "verify error")
	assert.Equal(t, cached, o, "cached outcome")
}

func TestVerifyNotFound(t *testing.T) {
	c := setup(t)

	c.cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(outcome.Outcome{}, false, nil).Times(1)
	c.ledger.EXPECT().Read(gomock.Any(), uint64(99), record.KindSale).Return(ledger.Anchor{}, false, nil).Times(1)
	c.cache.EXPECT().Set(gomock.Any(), "verify:sale:99", gomock.Any(), time.Minute).Return(nil).Times(1)

	o, err := c.p.Verify(context.Background(), 99, record.KindSale)
	require.Nil(t, err, "verify error")
	assert.Equal(t, outcome.NotFound, o.Status, "status")
}

func TestVerifyMissingSalts(t *testing.T) {
	c := setup(t)
	s := storedSale(t, sale(7, "Market"))

	c.cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(outcome.Outcome{}, false, nil).Times(1)
	c.ledger.EXPECT().Read(gomock.Any(), uint64(7), record.KindSale).Return(s.anchor, true, nil).Times(1)
	c.blobs.EXPECT().Get(gomock.Any(), s.anchor.Locator).Return(s.payload, nil).Times(1)
	c.salts.EXPECT().Salts(gomock.Any(), gomock.Any(), uint64(7), s.anchor.Root).Return(nil, fault.SaltsNotFound).Times(1)
	c.cache.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any(), time.Minute).Return(nil).Times(1)

	o, err := c.p.Verify(context.Background(), 7, record.KindSale)
	require.Nil(t, err, "verify error")
	assert.Equal(t, outcome.NotFound, o.Status, "status")
}

func TestVerifyUpstreamFailures(t *testing.T) {
	c := setup(t)

	c.cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(outcome.Outcome{}, false, nil).Times(1)
	c.ledger.EXPECT().Read(gomock.Any(), gomock.Any(), gomock.Any()).Return(ledger.Anchor{}, false, fault.LedgerUnavailable).Times(1)
	// nothing cached

	_, err := c.p.Verify(context.Background(), 7, record.KindSale)
	assert.Equal(t, fault.LedgerUnavailable, err, "ledger")

	c.cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(outcome.Outcome{}, false, fault.CacheUnavailable).Times(1)
	_, err = c.p.Verify(context.Background(), 7, record.KindSale)
	assert.Equal(t, fault.CacheUnavailable, err, "cache")

	_, err = c.p.Verify(context.Background(), 7, "harvest")
	assert.True(t, errors.Is(err, fault.InvalidKind), "kind: %v", err)
}

func TestVerifyAll(t *testing.T) {
	c := setup(t)
	s := storedSale(t, sale(7, "Market"))

	c.cache.EXPECT().Get(gomock.Any(), "verify:all:7").Return(outcome.Outcome{}, false, nil).Times(1)
	c.ledger.EXPECT().Read(gomock.Any(), uint64(7), record.KindRegistration).Return(ledger.Anchor{}, false, nil).Times(1)
	c.ledger.EXPECT().Read(gomock.Any(), uint64(7), record.KindVaccination).Return(ledger.Anchor{}, false, nil).Times(1)
	c.expectStored(s)
	c.cache.EXPECT().Set(gomock.Any(), "verify:all:7", gomock.Any(), time.Minute).Return(nil).Times(1)

	o, err := c.p.VerifyAll(context.Background(), 7)
	require.Nil(t, err, "verify error")
	assert.Equal(t, outcome.NotFound, o.Status, "partial history is not verified")
	assert.Equal(t, outcome.Verified, o.Details[record.KindSale], "sale detail")
	assert.Equal(t, outcome.NotFound, o.Details[record.KindRegistration], "registration detail")
}

func TestDisclose(t *testing.T) {
	c := setup(t)
	s := storedSale(t, sale(7, "Market"))
	c.expectStored(s)

	d, err := c.p.Disclose(context.Background(), 7, record.KindSale, "buyerName")
	require.Nil(t, err, "disclose error")
	assert.Equal(t, "Market", d.Value, "value")
	assert.Equal(t, s.salts[4], d.Salt, "salt")
	assert.Equal(t, s.anchor.Root, d.Root, "root")
	assert.True(t, d.Valid(), "proof folds to root")

	d.Value = "Someone Else"
	assert.False(t, d.Valid(), "altered value")
}

func TestDiscloseRefusesTampered(t *testing.T) {
	c := setup(t)
	s := storedSale(t, sale(7, "Market"))
	s.payload, _ = json.Marshal(sale(7, "Someone Else"))
	c.expectStored(s)

	_, err := c.p.Disclose(context.Background(), 7, record.KindSale, "price")
	assert.Equal(t, fault.RecordTampered, err, "tampered")

	_, err = c.p.Disclose(context.Background(), 7, record.KindSale, "colour")
	assert.True(t, errors.Is(err, fault.UnknownField), "unknown field: %v", err)
}

func TestCode(t *testing.T) {
	c := setup(t)

	c.salts.EXPECT().Code(gomock.Any(), uint64(7)).Return("Nw==", true, nil).Times(1)
	c.salts.EXPECT().Code(gomock.Any(), uint64(8)).Return("", false, nil).Times(1)

	code, err := c.p.Code(context.Background(), 7)
	assert.Nil(t, err, "code error")
	assert.Equal(t, "Nw==", code, "code")

	_, err = c.p.Code(context.Background(), 8)
	assert.True(t, errors.Is(err, fault.NotFound), "missing: %v", err)
}
