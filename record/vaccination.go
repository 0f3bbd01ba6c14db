// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package record

// Vaccination - one administered vaccine dose
type Vaccination struct {
	VaccinationID  uint64 `json:"vaccinationId"`
	PigID          uint64 `json:"pigId"`
	VaccineName    string `json:"vaccineName"`
	BatchNumber    string `json:"batchNumber,omitempty"`
	AdministeredBy string `json:"administeredBy,omitempty"`
	AdminDate      string `json:"adminDate"`
	NextDueDate    string `json:"nextDueDate,omitempty"`
}

// VaccinationSchema - field order of a vaccination
var VaccinationSchema = &Schema{
	Kind:       KindVaccination,
	Table:      "vaccination_logs",
	SaltPrefix: "vsalt",
	Subject:    1,
	Fields: []Field{
		{Name: "vaccinationId", Type: TypeUnsigned, Required: true},
		{Name: "pigId", Type: TypeUnsigned, Required: true},
		{Name: "vaccineName", Type: TypeText, Required: true},
		{Name: "batchNumber", Type: TypeText},
		{Name: "administeredBy", Type: TypeText},
		{Name: "adminDate", Type: TypeDate, Required: true},
		{Name: "nextDueDate", Type: TypeDate},
	},
	New: func() Record { return &Vaccination{} },
}

// Kind - vaccination
func (v *Vaccination) Kind() Kind {
	return KindVaccination
}

// Subject - the vaccinated animal
func (v *Vaccination) Subject() uint64 {
	return v.PigID
}

// SetSubject - replace the animal
func (v *Vaccination) SetSubject(id uint64) {
	v.PigID = id
}

// Values - canonical field text
func (v *Vaccination) Values() []string {
	return []string{
		Unsigned(v.VaccinationID),
		Unsigned(v.PigID),
		v.VaccineName,
		v.BatchNumber,
		v.AdministeredBy,
		v.AdminDate,
		v.NextDueDate,
	}
}
