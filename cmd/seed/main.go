// Command seed generates the sample input files the app runs on: a patient
// roster CSV and a schedule workbook with doctors, a 30-minute availability
// grid, and a holidays sheet.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"github.com/jwalitptl/clinic-scheduler/internal/model"
)

const (
	dayStart     = 9 * 60  // 09:00
	dayEnd       = 17 * 60 // 17:00
	slotMinutes  = 30
	scheduleDays = 5
)

func main() {
	var (
		outDir    = flag.String("out", "data", "output directory")
		startDate = flag.String("start", "2024-06-10", "first schedule date (YYYY-MM-DD)")
	)
	flag.Parse()

	start, err := time.Parse("2006-01-02", *startDate)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid start date")
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatal().Err(err).Msg("failed to create output directory")
	}

	patientsPath := filepath.Join(*outDir, "patients.csv")
	if err := writePatients(patientsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to write patient roster")
	}
	log.Info().Str("path", patientsPath).Msg("wrote patient roster")

	schedulePath := filepath.Join(*outDir, "doctor_schedules.xlsx")
	if err := writeSchedule(schedulePath, start); err != nil {
		log.Fatal().Err(err).Msg("failed to write schedule workbook")
	}
	log.Info().Str("path", schedulePath).Msg("wrote schedule workbook")
}

func writePatients(path string) error {
	patients := []*model.Patient{
		{PatientID: "P001", FirstName: "Aarav", LastName: "Patel", DOB: "1988-04-12", Email: "aarav.patel@example.com", Phone: "5550100001", InsuranceCarrier: "BlueShield", InsuranceMemberID: "BS-48221", InsuranceGroup: "G-100", PreferredDoctorID: "D01"},
		{PatientID: "P002", FirstName: "Maya", LastName: "Iyer", DOB: "1992-11-03", Email: "maya.iyer@example.com", Phone: "5550100002", InsuranceCarrier: "Aetna", InsuranceMemberID: "AE-90312", InsuranceGroup: "G-210", PreferredDoctorID: "D02"},
		{PatientID: "P003", FirstName: "Liam", LastName: "Novak", DOB: "1975-06-28", Email: "liam.novak@example.com", Phone: "5550100003", InsuranceCarrier: "Cigna", InsuranceMemberID: "CG-11854", InsuranceGroup: "G-033", PreferredDoctorID: "D01"},
		{PatientID: "P004", FirstName: "Sofia", LastName: "Marino", DOB: "2001-01-19", Email: "sofia.marino@example.com", Phone: "5550100004", InsuranceCarrier: "UnitedHealth", InsuranceMemberID: "UH-77140", InsuranceGroup: "G-451", PreferredDoctorID: "D03"},
		{PatientID: "P005", FirstName: "Ethan", LastName: "Brooks", DOB: "1969-09-07", Email: "ethan.brooks@example.com", Phone: "5550100005", InsuranceCarrier: "BlueShield", InsuranceMemberID: "BS-20977", InsuranceGroup: "G-100", PreferredDoctorID: "D02"},
		{PatientID: "P006", FirstName: "Noor", LastName: "Haddad", DOB: "1995-02-23", Email: "noor.haddad@example.com", Phone: "5550100006", InsuranceCarrier: "Aetna", InsuranceMemberID: "AE-31458", InsuranceGroup: "G-210", PreferredDoctorID: ""},
		{PatientID: "P007", FirstName: "Kenji", LastName: "Watanabe", DOB: "1983-12-15", Email: "kenji.watanabe@example.com", Phone: "5550100007", InsuranceCarrier: "Cigna", InsuranceMemberID: "CG-66201", InsuranceGroup: "G-033", PreferredDoctorID: "D03"},
		{PatientID: "P008", FirstName: "Ana", LastName: "Costa", DOB: "1990-07-30", Email: "ana.costa@example.com", Phone: "5550100008", InsuranceCarrier: "UnitedHealth", InsuranceMemberID: "UH-90543", InsuranceGroup: "G-451", PreferredDoctorID: "D01"},
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gocsv.MarshalFile(&patients, f)
}

func writeSchedule(path string, start time.Time) error {
	doctors := []*model.Doctor{
		{DoctorID: "D01", DoctorName: "Dr. Priya Sharma", Specialty: "General Medicine", Location: "Main Clinic"},
		{DoctorID: "D02", DoctorName: "Dr. Marcus Webb", Specialty: "Cardiology", Location: "Main Clinic"},
		{DoctorID: "D03", DoctorName: "Dr. Elena Rossi", Specialty: "Dermatology", Location: "North Branch"},
	}

	f := excelize.NewFile()
	defer f.Close()

	if _, err := f.NewSheet("doctors"); err != nil {
		return err
	}
	header := []interface{}{"doctor_id", "doctor_name", "specialty", "location"}
	if err := f.SetSheetRow("doctors", "A1", &header); err != nil {
		return err
	}
	for i, d := range doctors {
		row := []interface{}{d.DoctorID, d.DoctorName, d.Specialty, d.Location}
		if err := f.SetSheetRow("doctors", fmt.Sprintf("A%d", i+2), &row); err != nil {
			return err
		}
	}

	if _, err := f.NewSheet("availability"); err != nil {
		return err
	}
	availHeader := []interface{}{"doctor_id", "date", "slot_start", "slot_end", "location", "booked"}
	if err := f.SetSheetRow("availability", "A1", &availHeader); err != nil {
		return err
	}
	rowNum := 2
	for _, d := range doctors {
		for day := 0; day < scheduleDays; day++ {
			date := start.AddDate(0, 0, day).Format("2006-01-02")
			for t := dayStart; t < dayEnd; t += slotMinutes {
				row := []interface{}{
					d.DoctorID, date,
					clock(t), clock(t + slotMinutes),
					d.Location, "0",
				}
				if err := f.SetSheetRow("availability", fmt.Sprintf("A%d", rowNum), &row); err != nil {
					return err
				}
				rowNum++
			}
		}
	}

	if _, err := f.NewSheet("holidays"); err != nil {
		return err
	}
	holHeader := []interface{}{"date", "name"}
	if err := f.SetSheetRow("holidays", "A1", &holHeader); err != nil {
		return err
	}
	holiday := []interface{}{start.AddDate(0, 0, 2).Format("2006-01-02"), "Clinic Maintenance Day"}
	if err := f.SetSheetRow("holidays", "A2", &holiday); err != nil {
		return err
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		return err
	}
	return f.SaveAs(path)
}

func clock(mins int) string {
	return fmt.Sprintf("%02d:%02d", mins/60, mins%60)
}
