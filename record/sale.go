// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package record

// Sale - transfer of an animal to a buyer
type Sale struct {
	SaleID       uint64   `json:"saleId"`
	PigID        uint64   `json:"pigId"`
	SaleDate     string   `json:"saleDate"`
	FinalWeight  *float64 `json:"finalWeight,omitempty"`
	BuyerName    string   `json:"buyerName"`
	BuyerContact string   `json:"buyerContact,omitempty"`
	Price        *float64 `json:"price"`
}

// SaleSchema - field order of a sale
var SaleSchema = &Schema{
	Kind:       KindSale,
	Table:      "sales",
	SaltPrefix: "ssalt",
	Subject:    1,
	Fields: []Field{
		{Name: "saleId", Type: TypeUnsigned, Required: true},
		{Name: "pigId", Type: TypeUnsigned, Required: true},
		{Name: "saleDate", Type: TypeDate, Required: true},
		{Name: "finalWeight", Type: TypeDecimal},
		{Name: "buyerName", Type: TypeText, Required: true},
		{Name: "buyerContact", Type: TypeText},
		{Name: "price", Type: TypeDecimal, Required: true},
	},
	New: func() Record { return &Sale{} },
}

// Kind - sale
func (s *Sale) Kind() Kind {
	return KindSale
}

// Subject - the sold animal
func (s *Sale) Subject() uint64 {
	return s.PigID
}

// SetSubject - replace the animal
func (s *Sale) SetSubject(id uint64) {
	s.PigID = id
}

// Values - canonical field text
func (s *Sale) Values() []string {
	return []string{
		Unsigned(s.SaleID),
		Unsigned(s.PigID),
		s.SaleDate,
		Decimal(s.FinalWeight),
		s.BuyerName,
		s.BuyerContact,
		Decimal(s.Price),
	}
}
