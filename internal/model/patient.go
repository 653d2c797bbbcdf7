package model

import "strings"

// Patient is a row in the patient roster CSV. Reference data; the app only
// ever appends new patients, it never edits existing rows.
type Patient struct {
	PatientID         string `csv:"patient_id" json:"patient_id"`
	FirstName         string `csv:"first_name" json:"first_name"`
	LastName          string `csv:"last_name" json:"last_name"`
	DOB               string `csv:"dob" json:"dob"`
	Email             string `csv:"email" json:"email"`
	Phone             string `csv:"phone" json:"phone"`
	InsuranceCarrier  string `csv:"insurance_carrier" json:"insurance_carrier"`
	InsuranceMemberID string `csv:"insurance_member_id" json:"insurance_member_id"`
	InsuranceGroup    string `csv:"insurance_group" json:"insurance_group"`
	PreferredDoctorID string `csv:"preferred_doctor_id" json:"preferred_doctor_id"`
}

func (p *Patient) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

type LookupPatientRequest struct {
	Name string `form:"name" json:"name" validate:"required"`
	DOB  string `form:"dob" json:"dob" validate:"required"`
}

type RegisterPatientRequest struct {
	FirstName         string `form:"first_name" json:"first_name" validate:"required"`
	LastName          string `form:"last_name" json:"last_name"`
	DOB               string `form:"dob" json:"dob" validate:"required"`
	Email             string `form:"email" json:"email" validate:"omitempty,email"`
	Phone             string `form:"phone" json:"phone"`
	PreferredDoctorID string `form:"preferred_doctor_id" json:"preferred_doctor_id"`
}
