package booking

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/clinic-scheduler/internal/model"
	"github.com/jwalitptl/clinic-scheduler/internal/repository"
	"github.com/jwalitptl/clinic-scheduler/internal/service/notification"
	apperrors "github.com/jwalitptl/clinic-scheduler/pkg/errors"
	"github.com/jwalitptl/clinic-scheduler/pkg/logger"
	"github.com/jwalitptl/clinic-scheduler/pkg/metrics"
)

type Service struct {
	schedule repository.ScheduleRepository
	bookings repository.BookingRepository
	patients repository.PatientRepository
	notifier *notification.Service
	metrics  *metrics.Metrics
	logger   *logger.Logger
}

func NewService(
	schedule repository.ScheduleRepository,
	bookings repository.BookingRepository,
	patients repository.PatientRepository,
	notifier *notification.Service,
	m *metrics.Metrics,
	log *logger.Logger,
) *Service {
	return &Service{
		schedule: schedule,
		bookings: bookings,
		patients: patients,
		notifier: notifier,
		metrics:  m,
		logger:   log,
	}
}

// Book confirms an appointment: it flips the underlying 30-minute slot rows
// to booked (all of them, atomically with respect to this process), appends
// the ledger row, and records the notification fan-out. The slot flip and
// the ledger append are sequential writes to two files; a crash in between
// leaves a flipped slot without a ledger row. Accepted for this prototype.
func (s *Service) Book(ctx context.Context, req *model.CreateBookingRequest) (*model.Booking, error) {
	patient, err := s.patients.Get(ctx, req.PatientID)
	if err != nil {
		s.reject("unknown_patient")
		return nil, apperrors.BadRequest(fmt.Sprintf("unknown patient %s", req.PatientID), err)
	}

	doctor, err := s.schedule.GetDoctor(ctx, req.DoctorID)
	if err != nil {
		s.reject("unknown_doctor")
		return nil, apperrors.BadRequest(fmt.Sprintf("unknown doctor %s", req.DoctorID), err)
	}

	blocks, err := splitBlocks(req.SlotStart, req.SlotEnd)
	if err != nil {
		s.reject("bad_window")
		return nil, apperrors.BadRequest("invalid time window", err)
	}

	if err := s.schedule.BookSlots(ctx, req.DoctorID, req.Date, blocks); err != nil {
		if errors.Is(err, repository.ErrSlotTaken) {
			s.reject("slot_taken")
			return nil, apperrors.Conflict("requested time is no longer available", err)
		}
		s.reject("schedule_write")
		return nil, apperrors.Internal(err)
	}

	booking := &model.Booking{
		BookingID:         uuid.NewString()[:8],
		PatientID:         patient.PatientID,
		PatientName:       patient.FullName(),
		DoctorID:          doctor.DoctorID,
		DoctorName:        doctor.DoctorName,
		Date:              req.Date,
		SlotStart:         req.SlotStart,
		SlotEnd:           req.SlotEnd,
		Location:          doctor.Location,
		VisitType:         model.VisitType(req.VisitType),
		InsuranceCarrier:  req.InsuranceCarrier,
		InsuranceMemberID: req.InsuranceMemberID,
		InsuranceGroup:    req.InsuranceGroup,
		Status:            model.BookingStatusConfirmed,
		CreatedAt:         time.Now(),
		Notes:             req.Notes,
	}

	if err := s.bookings.Append(ctx, booking); err != nil {
		// The slot is already flipped; there is no rollback. Surface
		// loudly so the operator can reconcile the two files by hand.
		s.logger.Error(err, "ledger append failed after slot flip",
			"booking_id", booking.BookingID, "doctor_id", doctor.DoctorID,
			"date", req.Date, "slot_start", req.SlotStart)
		s.reject("ledger_write")
		return nil, apperrors.Internal(err)
	}

	if s.metrics != nil {
		s.metrics.BookingsConfirmed.Inc()
	}
	s.logger.Info("booking confirmed",
		"booking_id", booking.BookingID, "patient_id", patient.PatientID,
		"doctor_id", doctor.DoctorID, "date", req.Date, "slot_start", req.SlotStart)

	if err := s.notifier.SendBookingMessages(ctx, patient, doctor, booking); err != nil {
		// Notification failures never unwind a confirmed booking.
		s.logger.Error(err, "notification fan-out incomplete", "booking_id", booking.BookingID)
	}

	return booking, nil
}

// Get scans the ledger for one booking. The ledger is small and
// append-only; a linear pass is fine here.
func (s *Service) Get(ctx context.Context, id string) (*model.Booking, error) {
	bookings, err := s.bookings.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger: %w", err)
	}
	for _, b := range bookings {
		if b.BookingID == id {
			return b, nil
		}
	}
	return nil, fmt.Errorf("booking %s: %w", id, repository.ErrNotFound)
}

func (s *Service) List(ctx context.Context) ([]*model.Booking, error) {
	bookings, err := s.bookings.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

func (s *Service) reject(reason string) {
	if s.metrics != nil {
		s.metrics.BookingsRejected.WithLabelValues(reason).Inc()
	}
}

// splitBlocks breaks a window into the underlying 30-minute rows. A
// 60-minute window blocks both halves; anything that is not a whole number
// of 30-minute steps is rejected.
func splitBlocks(start, end string) ([]model.SlotRange, error) {
	startMins, err := toMinutes(start)
	if err != nil {
		return nil, err
	}
	endMins, err := toMinutes(end)
	if err != nil {
		return nil, err
	}

	span := endMins - startMins
	if span <= 0 || span%30 != 0 {
		return nil, fmt.Errorf("window %s-%s is not on the 30-minute grid", start, end)
	}

	var blocks []model.SlotRange
	for t := startMins; t < endMins; t += 30 {
		blocks = append(blocks, model.SlotRange{Start: toClock(t), End: toClock(t + 30)})
	}
	return blocks, nil
}

func toMinutes(clock string) (int, error) {
	parts := strings.SplitN(clock, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q", clock)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid time %q", clock)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid time %q", clock)
	}
	return h*60 + m, nil
}

func toClock(mins int) string {
	return fmt.Sprintf("%02d:%02d", mins/60, mins%60)
}
