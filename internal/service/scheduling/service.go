package scheduling

import (
	"context"
	"fmt"

	"github.com/jwalitptl/clinic-scheduler/internal/model"
	"github.com/jwalitptl/clinic-scheduler/internal/repository"
)

// Visit durations the slot grid supports.
const (
	SlotMinutes       = 30
	NewPatientMinutes = 60
)

type Service struct {
	repo repository.ScheduleRepository
}

func NewService(repo repository.ScheduleRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Doctors(ctx context.Context) ([]*model.Doctor, error) {
	return s.repo.Doctors(ctx)
}

func (s *Service) GetDoctor(ctx context.Context, id string) (*model.Doctor, error) {
	return s.repo.GetDoctor(ctx, id)
}

func (s *Service) Dates(ctx context.Context, doctorID string) ([]string, error) {
	return s.repo.Dates(ctx, doctorID)
}

// OpenSlots returns every unbooked row across all doctors, for the admin
// view.
func (s *Service) OpenSlots(ctx context.Context) ([]*model.Slot, error) {
	slots, err := s.repo.AllSlots(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load availability: %w", err)
	}
	var open []*model.Slot
	for _, slot := range slots {
		if !slot.Booked {
			open = append(open, slot)
		}
	}
	return open, nil
}

// AvailableSlots returns the open windows for a doctor on a date, ordered
// by start time. The grid is 30-minute rows; a 60-minute visit needs two
// adjacent open rows merged into one window. Holiday dates have no
// availability. An empty result is not an error.
func (s *Service) AvailableSlots(ctx context.Context, doctorID, date string, minutes int) ([]model.SlotWindow, error) {
	if minutes != SlotMinutes && minutes != NewPatientMinutes {
		return nil, fmt.Errorf("unsupported visit duration: %d minutes", minutes)
	}

	holidays, err := s.repo.Holidays(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load holidays: %w", err)
	}
	for _, h := range holidays {
		if h.Date == date {
			return nil, nil
		}
	}

	slots, err := s.repo.Slots(ctx, doctorID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load availability: %w", err)
	}

	var open []*model.Slot
	for _, slot := range slots {
		if !slot.Booked {
			open = append(open, slot)
		}
	}

	if minutes == SlotMinutes {
		windows := make([]model.SlotWindow, 0, len(open))
		for _, slot := range open {
			windows = append(windows, model.SlotWindow{
				SlotStart: slot.SlotStart,
				SlotEnd:   slot.SlotEnd,
				Location:  slot.Location,
			})
		}
		return windows, nil
	}

	// Adjacent open pairs merge into 60-minute windows. Windows may
	// overlap: 09:00-10:00 and 09:30-10:30 are both offered when three
	// consecutive rows are open.
	var windows []model.SlotWindow
	var prev *model.Slot
	for _, slot := range open {
		if prev != nil && prev.SlotEnd == slot.SlotStart {
			windows = append(windows, model.SlotWindow{
				SlotStart: prev.SlotStart,
				SlotEnd:   slot.SlotEnd,
				Location:  slot.Location,
			})
		}
		prev = slot
	}
	return windows, nil
}
