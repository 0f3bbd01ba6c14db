// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package record

// Registration - birth registration of an animal
type Registration struct {
	PigID          uint64   `json:"pigId"`
	BirthDate      string   `json:"birthDate"`
	SoldAt         string   `json:"soldAt,omitempty"`
	Breed          string   `json:"breed"`
	GeneticLineage string   `json:"geneticLineage,omitempty"`
	BirthWeight    *float64 `json:"birthWeight,omitempty"`
	EarTag         string   `json:"earTag,omitempty"`
	Sex            string   `json:"sex"`
	Status         string   `json:"status"`
	FarmID         string   `json:"farmId"`
}

// RegistrationSchema - field order of a registration
var RegistrationSchema = &Schema{
	Kind:       KindRegistration,
	Table:      "pig_profiles",
	SaltPrefix: "salt",
	Subject:    0,
	IssuesCode: true,
	Fields: []Field{
		{Name: "pigId", Type: TypeUnsigned, Required: true},
		{Name: "birthDate", Type: TypeDate, Required: true},
		{Name: "soldAt", Type: TypeDate},
		{Name: "breed", Type: TypeText, Required: true},
		{Name: "geneticLineage", Type: TypeText},
		{Name: "birthWeight", Type: TypeDecimal},
		{Name: "earTag", Type: TypeText},
		{Name: "sex", Type: TypeText, Required: true},
		{Name: "status", Type: TypeText, Required: true},
		{Name: "farmId", Type: TypeText, Required: true},
	},
	New: func() Record { return &Registration{} },
}

// Kind - registration
func (r *Registration) Kind() Kind {
	return KindRegistration
}

// Subject - the animal
func (r *Registration) Subject() uint64 {
	return r.PigID
}

// SetSubject - replace the animal
func (r *Registration) SetSubject(id uint64) {
	r.PigID = id
}

// Values - canonical field text
func (r *Registration) Values() []string {
	return []string{
		Unsigned(r.PigID),
		r.BirthDate,
		r.SoldAt,
		r.Breed,
		r.GeneticLineage,
		Decimal(r.BirthWeight),
		r.EarTag,
		r.Sex,
		r.Status,
		r.FarmID,
	}
}
