package report

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/jwalitptl/clinic-scheduler/internal/repository"
	"github.com/jwalitptl/clinic-scheduler/pkg/metrics"
)

type Service struct {
	patients repository.PatientRepository
	schedule repository.ScheduleRepository
	bookings repository.BookingRepository
	dir      string
	metrics  *metrics.Metrics
}

func NewService(
	patients repository.PatientRepository,
	schedule repository.ScheduleRepository,
	bookings repository.BookingRepository,
	dir string,
	m *metrics.Metrics,
) *Service {
	return &Service{
		patients: patients,
		schedule: schedule,
		bookings: bookings,
		dir:      dir,
		metrics:  m,
	}
}

// Export writes a snapshot workbook for admin review with one sheet per
// table and returns its path.
func (s *Service) Export(ctx context.Context) (string, error) {
	patients, err := s.patients.List(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load patients: %w", err)
	}
	doctors, err := s.schedule.Doctors(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load doctors: %w", err)
	}
	slots, err := s.schedule.AllSlots(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load availability: %w", err)
	}
	holidays, err := s.schedule.Holidays(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load holidays: %w", err)
	}
	bookings, err := s.bookings.List(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load bookings: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := writeSheet(f, "patients",
		[]string{"patient_id", "first_name", "last_name", "dob", "email", "phone",
			"insurance_carrier", "insurance_member_id", "insurance_group", "preferred_doctor_id"},
		len(patients), func(i int) []interface{} {
			p := patients[i]
			return []interface{}{p.PatientID, p.FirstName, p.LastName, p.DOB, p.Email, p.Phone,
				p.InsuranceCarrier, p.InsuranceMemberID, p.InsuranceGroup, p.PreferredDoctorID}
		}); err != nil {
		return "", err
	}

	if err := writeSheet(f, "doctors",
		[]string{"doctor_id", "doctor_name", "specialty", "location"},
		len(doctors), func(i int) []interface{} {
			d := doctors[i]
			return []interface{}{d.DoctorID, d.DoctorName, d.Specialty, d.Location}
		}); err != nil {
		return "", err
	}

	if err := writeSheet(f, "availability",
		[]string{"doctor_id", "date", "slot_start", "slot_end", "location", "booked"},
		len(slots), func(i int) []interface{} {
			sl := slots[i]
			booked := "0"
			if sl.Booked {
				booked = "1"
			}
			return []interface{}{sl.DoctorID, sl.Date, sl.SlotStart, sl.SlotEnd, sl.Location, booked}
		}); err != nil {
		return "", err
	}

	if err := writeSheet(f, "holidays",
		[]string{"date", "name"},
		len(holidays), func(i int) []interface{} {
			h := holidays[i]
			return []interface{}{h.Date, h.Name}
		}); err != nil {
		return "", err
	}

	if err := writeSheet(f, "bookings",
		[]string{"booking_id", "patient_id", "patient_name", "doctor_id", "doctor_name",
			"date", "slot_start", "slot_end", "location", "visit_type", "status", "created_at", "notes"},
		len(bookings), func(i int) []interface{} {
			b := bookings[i]
			return []interface{}{b.BookingID, b.PatientID, b.PatientName, b.DoctorID, b.DoctorName,
				b.Date, b.SlotStart, b.SlotEnd, b.Location, string(b.VisitType), string(b.Status),
				b.CreatedAt.Format("2006-01-02T15:04:05"), b.Notes}
		}); err != nil {
		return "", err
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		return "", fmt.Errorf("failed to prepare report workbook: %w", err)
	}

	path := filepath.Join(s.dir, fmt.Sprintf("admin_report_%s.xlsx", time.Now().Format("20060102_150405")))
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save report workbook: %w", err)
	}

	if s.metrics != nil {
		s.metrics.ReportsExported.Inc()
	}
	return path, nil
}

func writeSheet(f *excelize.File, name string, header []string, n int, row func(i int) []interface{}) error {
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("failed to create %s sheet: %w", name, err)
	}
	headerRow := make([]interface{}, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(name, "A1", &headerRow); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		r := row(i)
		if err := f.SetSheetRow(name, fmt.Sprintf("A%d", i+2), &r); err != nil {
			return err
		}
	}
	return nil
}
