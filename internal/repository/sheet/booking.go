package sheet

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/jwalitptl/clinic-scheduler/internal/model"
	"github.com/jwalitptl/clinic-scheduler/pkg/metrics"
)

// SheetBookings is the single sheet in the ledger workbook.
const SheetBookings = "bookings"

// CreatedAtLayout matches the second-resolution timestamps in the ledger.
const CreatedAtLayout = "2006-01-02T15:04:05"

var bookingsHeader = []interface{}{
	"booking_id", "patient_id", "patient_name", "doctor_id", "doctor_name",
	"date", "slot_start", "slot_end", "location", "visit_type",
	"insurance_carrier", "insurance_member_id", "insurance_group",
	"status", "created_at", "notes",
}

type BookingRepository struct {
	path    string
	mu      sync.Mutex
	metrics *metrics.Metrics
}

func NewBookingRepository(path string, m *metrics.Metrics) *BookingRepository {
	return &BookingRepository{path: path, metrics: m}
}

// Append adds one row to the ledger, creating the workbook on first use.
func (r *BookingRepository) Append(ctx context.Context, booking *model.Booking) error {
	start := time.Now()
	var err error
	defer func() { observe(r.metrics, "bookings", "append", start, err) }()

	r.mu.Lock()
	defer r.mu.Unlock()

	var f *excelize.File
	next := 2
	if _, statErr := os.Stat(r.path); statErr == nil {
		f, err = excelize.OpenFile(r.path)
		if err != nil {
			return fmt.Errorf("failed to open bookings ledger: %w", err)
		}
		rows, rowsErr := f.GetRows(SheetBookings)
		if rowsErr != nil {
			f.Close()
			err = fmt.Errorf("failed to read bookings ledger: %w", rowsErr)
			return err
		}
		next = len(rows) + 1
	} else {
		f = excelize.NewFile()
		if _, err = f.NewSheet(SheetBookings); err != nil {
			f.Close()
			return fmt.Errorf("failed to create bookings ledger: %w", err)
		}
		if err = f.DeleteSheet("Sheet1"); err != nil {
			f.Close()
			return fmt.Errorf("failed to create bookings ledger: %w", err)
		}
		if err = f.SetSheetRow(SheetBookings, "A1", &bookingsHeader); err != nil {
			f.Close()
			return err
		}
	}
	defer f.Close()

	row := []interface{}{
		booking.BookingID,
		booking.PatientID,
		booking.PatientName,
		booking.DoctorID,
		booking.DoctorName,
		booking.Date,
		booking.SlotStart,
		booking.SlotEnd,
		booking.Location,
		string(booking.VisitType),
		booking.InsuranceCarrier,
		booking.InsuranceMemberID,
		booking.InsuranceGroup,
		string(booking.Status),
		booking.CreatedAt.Format(CreatedAtLayout),
		booking.Notes,
	}
	if err = f.SetSheetRow(SheetBookings, fmt.Sprintf("A%d", next), &row); err != nil {
		return err
	}

	if err = f.SaveAs(r.path); err != nil {
		return fmt.Errorf("failed to save bookings ledger: %w", err)
	}
	return nil
}

// List returns every ledger row. A missing ledger means no bookings yet.
func (r *BookingRepository) List(ctx context.Context) ([]*model.Booking, error) {
	start := time.Now()
	var err error
	defer func() { observe(r.metrics, "bookings", "load", start, err) }()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, statErr := os.Stat(r.path); os.IsNotExist(statErr) {
		return nil, nil
	}

	f, err := excelize.OpenFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open bookings ledger: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(SheetBookings)
	if err != nil {
		return nil, fmt.Errorf("failed to read bookings ledger: %w", err)
	}

	var bookings []*model.Booking
	for i, row := range rows {
		if i == 0 {
			continue
		}
		createdAt, _ := time.Parse(CreatedAtLayout, cell(row, 14))
		bookings = append(bookings, &model.Booking{
			BookingID:         cell(row, 0),
			PatientID:         cell(row, 1),
			PatientName:       cell(row, 2),
			DoctorID:          cell(row, 3),
			DoctorName:        cell(row, 4),
			Date:              cell(row, 5),
			SlotStart:         cell(row, 6),
			SlotEnd:           cell(row, 7),
			Location:          cell(row, 8),
			VisitType:         model.VisitType(cell(row, 9)),
			InsuranceCarrier:  cell(row, 10),
			InsuranceMemberID: cell(row, 11),
			InsuranceGroup:    cell(row, 12),
			Status:            model.BookingStatus(cell(row, 13)),
			CreatedAt:         createdAt,
			Notes:             cell(row, 15),
		})
	}
	return bookings, nil
}
