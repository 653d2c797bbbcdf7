package model

// Doctor is a row in the "doctors" sheet of the schedule workbook.
type Doctor struct {
	DoctorID   string `json:"doctor_id"`
	DoctorName string `json:"doctor_name"`
	Specialty  string `json:"specialty"`
	Location   string `json:"location"`
}

// Holiday is a row in the "holidays" sheet. Dates listed here have no
// bookable availability regardless of the slot grid.
type Holiday struct {
	Date string `json:"date"`
	Name string `json:"name"`
}
