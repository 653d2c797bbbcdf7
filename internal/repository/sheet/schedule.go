package sheet

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/xuri/excelize/v2"

	"github.com/jwalitptl/clinic-scheduler/internal/model"
	"github.com/jwalitptl/clinic-scheduler/internal/repository"
	"github.com/jwalitptl/clinic-scheduler/pkg/metrics"
)

// Sheet names in the schedule workbook.
const (
	SheetDoctors      = "doctors"
	SheetAvailability = "availability"
	SheetHolidays     = "holidays"
)

const scheduleCacheKey = "schedule"

var (
	doctorsHeader      = []interface{}{"doctor_id", "doctor_name", "specialty", "location"}
	availabilityHeader = []interface{}{"doctor_id", "date", "slot_start", "slot_end", "location", "booked"}
	holidaysHeader     = []interface{}{"date", "name"}
)

type scheduleTables struct {
	doctors  []*model.Doctor
	slots    []*model.Slot
	holidays []*model.Holiday
}

type ScheduleRepository struct {
	path    string
	mu      sync.Mutex
	cache   *gocache.Cache
	metrics *metrics.Metrics
}

func NewScheduleRepository(path string, cacheTTL time.Duration, m *metrics.Metrics) *ScheduleRepository {
	if cacheTTL <= 0 {
		cacheTTL = DefaultCacheTTL
	}
	return &ScheduleRepository{
		path:    path,
		cache:   gocache.New(cacheTTL, 2*cacheTTL),
		metrics: m,
	}
}

func (r *ScheduleRepository) Doctors(ctx context.Context) ([]*model.Doctor, error) {
	tables, err := r.load()
	if err != nil {
		return nil, err
	}
	return tables.doctors, nil
}

func (r *ScheduleRepository) GetDoctor(ctx context.Context, id string) (*model.Doctor, error) {
	tables, err := r.load()
	if err != nil {
		return nil, err
	}
	for _, d := range tables.doctors {
		if d.DoctorID == id {
			return d, nil
		}
	}
	return nil, fmt.Errorf("doctor %s: %w", id, repository.ErrNotFound)
}

func (r *ScheduleRepository) Holidays(ctx context.Context) ([]*model.Holiday, error) {
	tables, err := r.load()
	if err != nil {
		return nil, err
	}
	return tables.holidays, nil
}

// Slots returns every availability row for a doctor on a date, booked or
// not, ordered by start time.
func (r *ScheduleRepository) Slots(ctx context.Context, doctorID, date string) ([]*model.Slot, error) {
	tables, err := r.load()
	if err != nil {
		return nil, err
	}

	var slots []*model.Slot
	for _, s := range tables.slots {
		if s.DoctorID == doctorID && s.Date == date {
			slots = append(slots, s)
		}
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i].SlotStart < slots[j].SlotStart })
	return slots, nil
}

// AllSlots returns every availability row in the workbook.
func (r *ScheduleRepository) AllSlots(ctx context.Context) ([]*model.Slot, error) {
	tables, err := r.load()
	if err != nil {
		return nil, err
	}
	return tables.slots, nil
}

// Dates returns the distinct schedule dates for a doctor, ascending.
func (r *ScheduleRepository) Dates(ctx context.Context, doctorID string) ([]string, error) {
	tables, err := r.load()
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var dates []string
	for _, s := range tables.slots {
		if s.DoctorID != doctorID {
			continue
		}
		if _, ok := seen[s.Date]; ok {
			continue
		}
		seen[s.Date] = struct{}{}
		dates = append(dates, s.Date)
	}
	sort.Strings(dates)
	return dates, nil
}

// BookSlots marks the given ranges booked. It re-reads the workbook inside
// the lock, verifies every range is still open, flips the flags and saves.
// Either every range flips or none does.
func (r *ScheduleRepository) BookSlots(ctx context.Context, doctorID, date string, blocks []model.SlotRange) error {
	start := time.Now()
	var err error
	defer func() { observe(r.metrics, "schedule", "book", start, err) }()

	r.mu.Lock()
	defer r.mu.Unlock()

	tables, err := r.loadFile()
	if err != nil {
		return err
	}

	var matched []*model.Slot
	for _, block := range blocks {
		found := false
		for _, s := range tables.slots {
			if s.DoctorID == doctorID && s.Date == date && s.SlotStart == block.Start && s.SlotEnd == block.End {
				if s.Booked {
					err = fmt.Errorf("%s %s-%s: %w", date, block.Start, block.End, repository.ErrSlotTaken)
					return err
				}
				matched = append(matched, s)
				found = true
				break
			}
		}
		if !found {
			err = fmt.Errorf("%s %s-%s: %w", date, block.Start, block.End, repository.ErrSlotTaken)
			return err
		}
	}

	for _, s := range matched {
		s.Booked = true
	}

	if err = r.saveLocked(tables); err != nil {
		return err
	}
	r.cache.Delete(scheduleCacheKey)
	return nil
}

func (r *ScheduleRepository) load() (*scheduleTables, error) {
	if cached, ok := r.cache.Get(scheduleCacheKey); ok {
		return cached.(*scheduleTables), nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	tables, err := r.loadFile()
	if err != nil {
		return nil, err
	}
	r.cache.SetDefault(scheduleCacheKey, tables)
	return tables, nil
}

func (r *ScheduleRepository) loadFile() (*scheduleTables, error) {
	start := time.Now()
	var err error
	defer func() { observe(r.metrics, "schedule", "load", start, err) }()

	if _, err = os.Stat(r.path); os.IsNotExist(err) {
		err = fmt.Errorf("schedule workbook %s: %w", r.path, repository.ErrNotFound)
		return nil, err
	}

	f, err := excelize.OpenFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open schedule workbook: %w", err)
	}
	defer f.Close()

	tables := &scheduleTables{}

	rows, err := f.GetRows(SheetDoctors)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s sheet: %w", SheetDoctors, err)
	}
	for i, row := range rows {
		if i == 0 {
			continue
		}
		tables.doctors = append(tables.doctors, &model.Doctor{
			DoctorID:   cell(row, 0),
			DoctorName: cell(row, 1),
			Specialty:  cell(row, 2),
			Location:   cell(row, 3),
		})
	}

	rows, err = f.GetRows(SheetAvailability)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s sheet: %w", SheetAvailability, err)
	}
	for i, row := range rows {
		if i == 0 {
			continue
		}
		tables.slots = append(tables.slots, &model.Slot{
			DoctorID:  cell(row, 0),
			Date:      cell(row, 1),
			SlotStart: cell(row, 2),
			SlotEnd:   cell(row, 3),
			Location:  cell(row, 4),
			Booked:    cell(row, 5) == "1" || cell(row, 5) == "TRUE" || cell(row, 5) == "true",
		})
	}

	rows, err = f.GetRows(SheetHolidays)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s sheet: %w", SheetHolidays, err)
	}
	for i, row := range rows {
		if i == 0 {
			continue
		}
		tables.holidays = append(tables.holidays, &model.Holiday{
			Date: cell(row, 0),
			Name: cell(row, 1),
		})
	}

	return tables, nil
}

func (r *ScheduleRepository) saveLocked(tables *scheduleTables) error {
	start := time.Now()
	var err error
	defer func() { observe(r.metrics, "schedule", "save", start, err) }()

	f := excelize.NewFile()
	defer f.Close()

	if err = writeDoctorsSheet(f, tables.doctors); err != nil {
		return err
	}
	if err = writeAvailabilitySheet(f, tables.slots); err != nil {
		return err
	}
	if err = writeHolidaysSheet(f, tables.holidays); err != nil {
		return err
	}
	if err = f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to prepare schedule workbook: %w", err)
	}

	if err = f.SaveAs(r.path); err != nil {
		return fmt.Errorf("failed to save schedule workbook: %w", err)
	}
	return nil
}

func writeDoctorsSheet(f *excelize.File, doctors []*model.Doctor) error {
	if _, err := f.NewSheet(SheetDoctors); err != nil {
		return fmt.Errorf("failed to create %s sheet: %w", SheetDoctors, err)
	}
	if err := f.SetSheetRow(SheetDoctors, "A1", &doctorsHeader); err != nil {
		return err
	}
	for i, d := range doctors {
		row := []interface{}{d.DoctorID, d.DoctorName, d.Specialty, d.Location}
		if err := f.SetSheetRow(SheetDoctors, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return err
		}
	}
	return nil
}

func writeAvailabilitySheet(f *excelize.File, slots []*model.Slot) error {
	if _, err := f.NewSheet(SheetAvailability); err != nil {
		return fmt.Errorf("failed to create %s sheet: %w", SheetAvailability, err)
	}
	if err := f.SetSheetRow(SheetAvailability, "A1", &availabilityHeader); err != nil {
		return err
	}
	for i, s := range slots {
		booked := "0"
		if s.Booked {
			booked = "1"
		}
		row := []interface{}{s.DoctorID, s.Date, s.SlotStart, s.SlotEnd, s.Location, booked}
		if err := f.SetSheetRow(SheetAvailability, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return err
		}
	}
	return nil
}

func writeHolidaysSheet(f *excelize.File, holidays []*model.Holiday) error {
	if _, err := f.NewSheet(SheetHolidays); err != nil {
		return fmt.Errorf("failed to create %s sheet: %w", SheetHolidays, err)
	}
	if err := f.SetSheetRow(SheetHolidays, "A1", &holidaysHeader); err != nil {
		return err
	}
	for i, h := range holidays {
		row := []interface{}{h.Date, h.Name}
		if err := f.SetSheetRow(SheetHolidays, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return err
		}
	}
	return nil
}
