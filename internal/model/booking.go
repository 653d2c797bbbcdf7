package model

import "time"

type VisitType string

const (
	VisitTypeNew       VisitType = "new"
	VisitTypeReturning VisitType = "returning"
)

// VisitDuration returns the visit length in minutes. New patients get a
// double-length intake visit.
func VisitDuration(vt VisitType) int {
	if vt == VisitTypeNew {
		return 60
	}
	return 30
}

type BookingStatus string

const BookingStatusConfirmed BookingStatus = "CONFIRMED"

// Booking is a row in the bookings ledger workbook. Append-only; rows are
// never updated or deleted.
type Booking struct {
	BookingID         string        `json:"booking_id"`
	PatientID         string        `json:"patient_id"`
	PatientName       string        `json:"patient_name"`
	DoctorID          string        `json:"doctor_id"`
	DoctorName        string        `json:"doctor_name"`
	Date              string        `json:"date"`
	SlotStart         string        `json:"slot_start"`
	SlotEnd           string        `json:"slot_end"`
	Location          string        `json:"location"`
	VisitType         VisitType     `json:"visit_type"`
	InsuranceCarrier  string        `json:"insurance_carrier"`
	InsuranceMemberID string        `json:"insurance_member_id"`
	InsuranceGroup    string        `json:"insurance_group"`
	Status            BookingStatus `json:"status"`
	CreatedAt         time.Time     `json:"created_at"`
	Notes             string        `json:"notes"`
}

type CreateBookingRequest struct {
	PatientID         string `form:"patient_id" json:"patient_id" validate:"required"`
	DoctorID          string `form:"doctor_id" json:"doctor_id" validate:"required"`
	Date              string `form:"date" json:"date" validate:"required"`
	SlotStart         string `form:"slot_start" json:"slot_start" validate:"required"`
	SlotEnd           string `form:"slot_end" json:"slot_end" validate:"required"`
	VisitType         string `form:"visit_type" json:"visit_type" validate:"required,oneof=new returning"`
	InsuranceCarrier  string `form:"insurance_carrier" json:"insurance_carrier"`
	InsuranceMemberID string `form:"insurance_member_id" json:"insurance_member_id"`
	InsuranceGroup    string `form:"insurance_group" json:"insurance_group"`
	Notes             string `form:"notes" json:"notes" validate:"max=1000"`
}
