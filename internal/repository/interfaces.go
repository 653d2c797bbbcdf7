package repository

import (
	"context"
	"errors"

	"github.com/jwalitptl/clinic-scheduler/internal/model"
)

// Sentinel errors shared by all store implementations.
var (
	ErrNotFound  = errors.New("not found")
	ErrSlotTaken = errors.New("requested time is no longer available")
)

// All repository interfaces in one file
type (
	// PatientRepository reads the patient roster and registers new patients.
	PatientRepository interface {
		List(ctx context.Context) ([]*model.Patient, error)
		Get(ctx context.Context, id string) (*model.Patient, error)
		Append(ctx context.Context, patient *model.Patient) error
		NextID(ctx context.Context) (string, error)
	}

	// ScheduleRepository reads the schedule workbook and flips slots to
	// booked. BookSlots re-reads current state inside its critical section
	// so a stale view of availability cannot double-book a row.
	ScheduleRepository interface {
		Doctors(ctx context.Context) ([]*model.Doctor, error)
		GetDoctor(ctx context.Context, id string) (*model.Doctor, error)
		Holidays(ctx context.Context) ([]*model.Holiday, error)
		Slots(ctx context.Context, doctorID, date string) ([]*model.Slot, error)
		AllSlots(ctx context.Context) ([]*model.Slot, error)
		Dates(ctx context.Context, doctorID string) ([]string, error)
		BookSlots(ctx context.Context, doctorID, date string, blocks []model.SlotRange) error
	}

	// BookingRepository appends to and reads the bookings ledger.
	BookingRepository interface {
		Append(ctx context.Context, booking *model.Booking) error
		List(ctx context.Context) ([]*model.Booking, error)
	}

	// CommunicationRepository appends to and reads the communications log.
	CommunicationRepository interface {
		Append(ctx context.Context, record *model.CommunicationRecord) error
		List(ctx context.Context) ([]*model.CommunicationRecord, error)
	}
)
