package model

// Slot is a row in the "availability" sheet: one 30-minute window on a
// doctor's schedule. Dates are YYYY-MM-DD, times HH:MM, matching the sheet.
type Slot struct {
	DoctorID  string `json:"doctor_id"`
	Date      string `json:"date"`
	SlotStart string `json:"slot_start"`
	SlotEnd   string `json:"slot_end"`
	Location  string `json:"location"`
	Booked    bool   `json:"booked"`
}

// SlotWindow is a bookable window presented to the user. For 60-minute
// visits it spans two adjacent underlying slots.
type SlotWindow struct {
	SlotStart string `json:"slot_start"`
	SlotEnd   string `json:"slot_end"`
	Location  string `json:"location"`
}

// SlotRange identifies one underlying 30-minute row to mark booked.
type SlotRange struct {
	Start string
	End   string
}
