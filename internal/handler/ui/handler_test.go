package ui

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/clinic-scheduler/internal/model"
	"github.com/jwalitptl/clinic-scheduler/internal/repository"
	apperrors "github.com/jwalitptl/clinic-scheduler/pkg/errors"
)

type fakeBackend struct {
	patients []*model.Patient
	doctors  []*model.Doctor
	windows  []model.SlotWindow
	booking  *model.Booking
	bookErr  error
	records  []*model.CommunicationRecord
}

func (f *fakeBackend) Lookup(ctx context.Context, name, dob string) (*model.Patient, error) {
	for _, p := range f.patients {
		if p.DOB == dob && strings.EqualFold(p.FullName(), name) {
			return p, nil
		}
	}
	return nil, fmt.Errorf("patient %q: %w", name, repository.ErrNotFound)
}

func (f *fakeBackend) Register(ctx context.Context, req *model.RegisterPatientRequest) (*model.Patient, error) {
	p := &model.Patient{
		PatientID: fmt.Sprintf("P%03d", len(f.patients)+1),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		DOB:       req.DOB,
	}
	f.patients = append(f.patients, p)
	return p, nil
}

func (f *fakeBackend) Get(ctx context.Context, id string) (*model.Patient, error) {
	for _, p := range f.patients {
		if p.PatientID == id {
			return p, nil
		}
	}
	return nil, fmt.Errorf("patient %s: %w", id, repository.ErrNotFound)
}

func (f *fakeBackend) List(ctx context.Context) ([]*model.Patient, error) {
	return f.patients, nil
}

func (f *fakeBackend) Doctors(ctx context.Context) ([]*model.Doctor, error) {
	return f.doctors, nil
}

func (f *fakeBackend) GetDoctor(ctx context.Context, id string) (*model.Doctor, error) {
	for _, d := range f.doctors {
		if d.DoctorID == id {
			return d, nil
		}
	}
	return nil, fmt.Errorf("doctor %s: %w", id, repository.ErrNotFound)
}

func (f *fakeBackend) Dates(ctx context.Context, doctorID string) ([]string, error) {
	return []string{"2024-06-10", "2024-06-11"}, nil
}

func (f *fakeBackend) AvailableSlots(ctx context.Context, doctorID, date string, minutes int) ([]model.SlotWindow, error) {
	return f.windows, nil
}

func (f *fakeBackend) OpenSlots(ctx context.Context) ([]*model.Slot, error) {
	return nil, nil
}

type fakeBookings struct {
	booking *model.Booking
	err     error
}

func (f *fakeBookings) Book(ctx context.Context, req *model.CreateBookingRequest) (*model.Booking, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.booking, nil
}

func (f *fakeBookings) Get(ctx context.Context, id string) (*model.Booking, error) {
	if f.booking != nil && f.booking.BookingID == id {
		return f.booking, nil
	}
	return nil, fmt.Errorf("booking %s: %w", id, repository.ErrNotFound)
}

func (f *fakeBookings) List(ctx context.Context) ([]*model.Booking, error) {
	if f.booking == nil {
		return nil, nil
	}
	return []*model.Booking{f.booking}, nil
}

type fakeReports struct{}

func (f *fakeReports) Export(ctx context.Context) (string, error) {
	return "admin_report_20240610_091500.xlsx", nil
}

type fakeComms struct{ records []*model.CommunicationRecord }

func (f *fakeComms) List(ctx context.Context) ([]*model.CommunicationRecord, error) {
	return f.records, nil
}

func setupUI(t *testing.T, backend *fakeBackend, bookings *fakeBookings) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.LoadHTMLGlob("../../../web/templates/*.html")

	h := NewHandler(backend, backend, bookings, &fakeReports{},
		&fakeComms{records: backend.records}, t.TempDir())
	h.RegisterRoutes(r)
	return r
}

func defaultBackend() *fakeBackend {
	return &fakeBackend{
		patients: []*model.Patient{
			{PatientID: "P001", FirstName: "Aarav", LastName: "Patel", DOB: "1990-03-14", PreferredDoctorID: "D01"},
		},
		doctors: []*model.Doctor{
			{DoctorID: "D01", DoctorName: "Dr. Priya Sharma", Specialty: "General Medicine", Location: "Main Clinic"},
		},
		windows: []model.SlotWindow{
			{SlotStart: "09:00", SlotEnd: "09:30", Location: "Main Clinic"},
		},
	}
}

func postForm(r *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.ServeHTTP(w, req)
	return w
}

func TestIndexListsDoctors(t *testing.T) {
	r := setupUI(t, defaultBackend(), &fakeBookings{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Dr. Priya Sharma")
}

func TestLookupHitRedirectsToSchedule(t *testing.T) {
	r := setupUI(t, defaultBackend(), &fakeBookings{})

	w := postForm(r, "/lookup", url.Values{
		"name": {"Aarav Patel"},
		"dob":  {"1990-03-14"},
	})

	require.Equal(t, http.StatusSeeOther, w.Code)
	loc := w.Header().Get("Location")
	assert.Contains(t, loc, "/schedule?")
	assert.Contains(t, loc, "patient_id=P001")
	assert.Contains(t, loc, "visit_type=returning")
}

func TestLookupMissShowsRegistration(t *testing.T) {
	r := setupUI(t, defaultBackend(), &fakeBookings{})

	w := postForm(r, "/lookup", url.Values{
		"name": {"Noah Kim"},
		"dob":  {"2001-07-09"},
	})

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "New Patient")
	assert.Contains(t, body, `value="Noah"`)
	assert.Contains(t, body, `value="Kim"`)
	assert.Contains(t, body, `value="2001-07-09"`)
}

func TestRegisterRedirectsToScheduleAsNewVisit(t *testing.T) {
	r := setupUI(t, defaultBackend(), &fakeBookings{})

	w := postForm(r, "/register", url.Values{
		"first_name": {"Noah"},
		"last_name":  {"Kim"},
		"dob":        {"2001-07-09"},
	})

	require.Equal(t, http.StatusSeeOther, w.Code)
	loc := w.Header().Get("Location")
	assert.Contains(t, loc, "patient_id=P002")
	assert.Contains(t, loc, "visit_type=new")
}

func TestScheduleShowsSlots(t *testing.T) {
	r := setupUI(t, defaultBackend(), &fakeBookings{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/schedule?patient_id=P001&visit_type=returning", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Aarav Patel")
	assert.Contains(t, body, `value="09:00|09:30"`)
	assert.Contains(t, body, "2024-06-10")
}

func TestBookRedirectsToConfirmation(t *testing.T) {
	bookings := &fakeBookings{booking: &model.Booking{BookingID: "ab12cd34"}}
	r := setupUI(t, defaultBackend(), bookings)

	w := postForm(r, "/book", url.Values{
		"patient_id": {"P001"},
		"doctor_id":  {"D01"},
		"date":       {"2024-06-10"},
		"window":     {"09:00|09:30"},
		"visit_type": {"returning"},
	})

	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/confirmation/ab12cd34", w.Header().Get("Location"))
}

func TestBookConflictShowsErrorWithBackLink(t *testing.T) {
	bookings := &fakeBookings{err: apperrors.Conflict("requested time is no longer available", repository.ErrSlotTaken)}
	r := setupUI(t, defaultBackend(), bookings)

	w := postForm(r, "/book", url.Values{
		"patient_id": {"P001"},
		"doctor_id":  {"D01"},
		"date":       {"2024-06-10"},
		"window":     {"09:00|09:30"},
		"visit_type": {"returning"},
	})

	require.Equal(t, http.StatusConflict, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "no longer available")
	assert.Contains(t, body, "/schedule?")
}

func TestConfirmationShowsNotifications(t *testing.T) {
	backend := defaultBackend()
	backend.records = []*model.CommunicationRecord{
		{Timestamp: "2024-06-01T10:15:00", Channel: model.ChannelEmail,
			To: "aarav.patel@example.com", Subject: "Appointment Confirmation", BookingID: "ab12cd34"},
		{Timestamp: "2024-06-01T10:15:00", Channel: model.ChannelSMS,
			To: "5550100001", Subject: "Other Booking", BookingID: "zz99zz99"},
	}
	bookings := &fakeBookings{booking: &model.Booking{
		BookingID: "ab12cd34", PatientName: "Aarav Patel", DoctorName: "Dr. Priya Sharma",
		Date: "2024-06-10", SlotStart: "09:00", SlotEnd: "09:30",
		Status: model.BookingStatusConfirmed,
	}}
	r := setupUI(t, backend, bookings)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/confirmation/ab12cd34", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "ab12cd34")
	assert.Contains(t, body, "aarav.patel@example.com")
	assert.NotContains(t, body, "Other Booking")
}

func TestDownloadFormUnknownName(t *testing.T) {
	r := setupUI(t, defaultBackend(), &fakeBookings{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/forms/billing", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Something Went Wrong")
}

func TestAdminExportRedirectsWithFileName(t *testing.T) {
	r := setupUI(t, defaultBackend(), &fakeBookings{})

	w := postForm(r, "/admin/export", url.Values{})

	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/admin?exported=admin_report_20240610_091500.xlsx", w.Header().Get("Location"))
}

func TestSplitName(t *testing.T) {
	first, last := splitName("Aarav Patel")
	assert.Equal(t, "Aarav", first)
	assert.Equal(t, "Patel", last)

	first, last = splitName("Cher")
	assert.Equal(t, "Cher", first)
	assert.Equal(t, "", last)

	first, last = splitName("Mary Jane van der Berg")
	assert.Equal(t, "Mary", first)
	assert.Equal(t, "Jane van der Berg", last)
}
