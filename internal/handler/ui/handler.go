// Package ui serves the browser form flow: patient lookup, slot selection,
// booking confirmation, and the admin review page. It drives the same
// services as the JSON API; pages carry state between steps in query
// strings and form fields, never in server-side sessions.
package ui

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/clinic-scheduler/internal/model"
	"github.com/jwalitptl/clinic-scheduler/internal/repository"
	apperrors "github.com/jwalitptl/clinic-scheduler/pkg/errors"
	"github.com/jwalitptl/clinic-scheduler/pkg/validator"
)

type PatientService interface {
	Lookup(ctx context.Context, name, dob string) (*model.Patient, error)
	Register(ctx context.Context, req *model.RegisterPatientRequest) (*model.Patient, error)
	Get(ctx context.Context, id string) (*model.Patient, error)
	List(ctx context.Context) ([]*model.Patient, error)
}

type SchedulingService interface {
	Doctors(ctx context.Context) ([]*model.Doctor, error)
	GetDoctor(ctx context.Context, id string) (*model.Doctor, error)
	Dates(ctx context.Context, doctorID string) ([]string, error)
	AvailableSlots(ctx context.Context, doctorID, date string, minutes int) ([]model.SlotWindow, error)
	OpenSlots(ctx context.Context) ([]*model.Slot, error)
}

type BookingService interface {
	Book(ctx context.Context, req *model.CreateBookingRequest) (*model.Booking, error)
	Get(ctx context.Context, id string) (*model.Booking, error)
	List(ctx context.Context) ([]*model.Booking, error)
}

type ReportService interface {
	Export(ctx context.Context) (string, error)
}

type CommunicationLister interface {
	List(ctx context.Context) ([]*model.CommunicationRecord, error)
}

// Downloadable form templates, by short name.
var formTemplates = map[string]string{
	"intake":  "intake_form_template.html",
	"consent": "consent_form_template.html",
}

const (
	adminOpenSlotLimit = 200
	adminBookingLimit  = 50
)

type Handler struct {
	patients    PatientService
	scheduling  SchedulingService
	bookings    BookingService
	reports     ReportService
	comms       CommunicationLister
	templateDir string
	validator   validator.Validator
}

func NewHandler(
	patients PatientService,
	scheduling SchedulingService,
	bookings BookingService,
	reports ReportService,
	comms CommunicationLister,
	templateDir string,
) *Handler {
	return &Handler{
		patients:    patients,
		scheduling:  scheduling,
		bookings:    bookings,
		reports:     reports,
		comms:       comms,
		templateDir: templateDir,
		validator:   validator.New(),
	}
}

// Index is step 1: the lookup form.
func (h *Handler) Index(c *gin.Context) {
	doctors, err := h.scheduling.Doctors(c.Request.Context())
	if err != nil {
		h.renderError(c, err, "/")
		return
	}
	c.HTML(http.StatusOK, "index.html", gin.H{"Doctors": doctors})
}

type lookupForm struct {
	Name     string `form:"name" validate:"required"`
	DOB      string `form:"dob" validate:"required"`
	DoctorID string `form:"doctor_id"`
}

// Lookup resolves the visitor to a returning patient or hands off to the
// registration form for a new one.
func (h *Handler) Lookup(c *gin.Context) {
	var form lookupForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderError(c, apperrors.BadRequest(err.Error(), err), "/")
		return
	}
	if err := h.validator.Validate(&form); err != nil {
		h.renderError(c, apperrors.BadRequest(err.Error(), err), "/")
		return
	}

	p, err := h.patients.Lookup(c.Request.Context(), form.Name, form.DOB)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			first, last := splitName(form.Name)
			c.HTML(http.StatusOK, "register.html", gin.H{
				"FirstName": first,
				"LastName":  last,
				"DOB":       form.DOB,
				"DoctorID":  form.DoctorID,
			})
			return
		}
		h.renderError(c, err, "/")
		return
	}

	c.Redirect(http.StatusSeeOther, scheduleURL(p.PatientID, form.DoctorID, model.VisitTypeReturning, ""))
}

// Register creates a new patient record, then continues to scheduling.
func (h *Handler) Register(c *gin.Context) {
	var req model.RegisterPatientRequest
	if err := c.ShouldBind(&req); err != nil {
		h.renderError(c, apperrors.BadRequest(err.Error(), err), "/")
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		h.renderError(c, apperrors.BadRequest(err.Error(), err), "/")
		return
	}

	p, err := h.patients.Register(c.Request.Context(), &req)
	if err != nil {
		h.renderError(c, err, "/")
		return
	}

	c.Redirect(http.StatusSeeOther, scheduleURL(p.PatientID, req.PreferredDoctorID, model.VisitTypeNew, ""))
}

// Schedule is step 2: doctor, date and slot selection plus insurance
// collection, all on one page.
func (h *Handler) Schedule(c *gin.Context) {
	ctx := c.Request.Context()

	patient, err := h.patients.Get(ctx, c.Query("patient_id"))
	if err != nil {
		h.renderError(c, apperrors.BadRequest("unknown patient", err), "/")
		return
	}

	visitType := model.VisitTypeReturning
	if c.Query("visit_type") == string(model.VisitTypeNew) {
		visitType = model.VisitTypeNew
	}
	minutes := model.VisitDuration(visitType)

	doctors, err := h.scheduling.Doctors(ctx)
	if err != nil {
		h.renderError(c, err, "/")
		return
	}
	if len(doctors) == 0 {
		h.renderError(c, apperrors.NotFound("doctors", nil), "/")
		return
	}

	doctor := pickDoctor(doctors, c.Query("doctor_id"), patient.PreferredDoctorID)

	dates, err := h.scheduling.Dates(ctx, doctor.DoctorID)
	if err != nil {
		h.renderError(c, err, "/")
		return
	}

	date := c.Query("date")
	if date == "" && len(dates) > 0 {
		date = dates[0]
	}

	var slots []model.SlotWindow
	if date != "" {
		slots, err = h.scheduling.AvailableSlots(ctx, doctor.DoctorID, date, minutes)
		if err != nil {
			h.renderError(c, err, "/")
			return
		}
	}

	c.HTML(http.StatusOK, "schedule.html", gin.H{
		"Patient":   patient,
		"Doctor":    doctor,
		"Doctors":   doctors,
		"Dates":     dates,
		"Date":      date,
		"Slots":     slots,
		"VisitType": string(visitType),
		"Minutes":   minutes,
	})
}

type bookForm struct {
	PatientID         string `form:"patient_id" validate:"required"`
	DoctorID          string `form:"doctor_id" validate:"required"`
	Date              string `form:"date" validate:"required"`
	Window            string `form:"window" validate:"required"`
	VisitType         string `form:"visit_type" validate:"required,oneof=new returning"`
	InsuranceCarrier  string `form:"insurance_carrier"`
	InsuranceMemberID string `form:"insurance_member_id"`
	InsuranceGroup    string `form:"insurance_group"`
	Notes             string `form:"notes" validate:"max=1000"`
}

// Book is step 4: confirm and write the booking.
func (h *Handler) Book(c *gin.Context) {
	var form bookForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderError(c, apperrors.BadRequest(err.Error(), err), "/")
		return
	}
	if err := h.validator.Validate(&form); err != nil {
		h.renderError(c, apperrors.BadRequest(err.Error(), err), "/")
		return
	}

	slotStart, slotEnd, ok := strings.Cut(form.Window, "|")
	if !ok {
		h.renderError(c, apperrors.BadRequest("invalid slot selection", nil), "/")
		return
	}

	backURL := scheduleURL(form.PatientID, form.DoctorID, model.VisitType(form.VisitType), form.Date)

	booking, err := h.bookings.Book(c.Request.Context(), &model.CreateBookingRequest{
		PatientID:         form.PatientID,
		DoctorID:          form.DoctorID,
		Date:              form.Date,
		SlotStart:         slotStart,
		SlotEnd:           slotEnd,
		VisitType:         form.VisitType,
		InsuranceCarrier:  form.InsuranceCarrier,
		InsuranceMemberID: form.InsuranceMemberID,
		InsuranceGroup:    form.InsuranceGroup,
		Notes:             form.Notes,
	})
	if err != nil {
		h.renderError(c, err, backURL)
		return
	}

	c.Redirect(http.StatusSeeOther, "/confirmation/"+booking.BookingID)
}

// Confirmation is step 5: confirmation details, form downloads, and the
// simulated notifications that were logged for this booking.
func (h *Handler) Confirmation(c *gin.Context) {
	booking, err := h.bookings.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.renderError(c, apperrors.NotFound("booking", err), "/")
		return
	}

	var sent []*model.CommunicationRecord
	records, err := h.comms.List(c.Request.Context())
	if err == nil {
		for _, rec := range records {
			if rec.BookingID == booking.BookingID {
				sent = append(sent, rec)
			}
		}
	}

	c.HTML(http.StatusOK, "confirmation.html", gin.H{
		"Booking":       booking,
		"Notifications": sent,
	})
}

// DownloadForm serves the static intake/consent templates.
func (h *Handler) DownloadForm(c *gin.Context) {
	file, ok := formTemplates[c.Param("name")]
	if !ok {
		h.renderError(c, apperrors.NotFound("form template", nil), "/")
		return
	}
	c.FileAttachment(filepath.Join(h.templateDir, file), file)
}

// Admin shows current data and the report export button.
func (h *Handler) Admin(c *gin.Context) {
	ctx := c.Request.Context()

	patients, err := h.patients.List(ctx)
	if err != nil {
		h.renderError(c, err, "/")
		return
	}
	open, err := h.scheduling.OpenSlots(ctx)
	if err != nil {
		h.renderError(c, err, "/")
		return
	}
	if len(open) > adminOpenSlotLimit {
		open = open[:adminOpenSlotLimit]
	}
	bookings, err := h.bookings.List(ctx)
	if err != nil {
		h.renderError(c, err, "/")
		return
	}
	if len(bookings) > adminBookingLimit {
		bookings = bookings[len(bookings)-adminBookingLimit:]
	}

	c.HTML(http.StatusOK, "admin.html", gin.H{
		"Patients":  patients,
		"OpenSlots": open,
		"Bookings":  bookings,
		"Exported":  c.Query("exported"),
	})
}

// ExportReport writes the admin workbook and returns to the admin page
// with a download link.
func (h *Handler) ExportReport(c *gin.Context) {
	path, err := h.reports.Export(c.Request.Context())
	if err != nil {
		h.renderError(c, err, "/admin")
		return
	}
	c.Redirect(http.StatusSeeOther, "/admin?exported="+url.QueryEscape(filepath.Base(path)))
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/", h.Index)
	r.POST("/lookup", h.Lookup)
	r.POST("/register", h.Register)
	r.GET("/schedule", h.Schedule)
	r.POST("/book", h.Book)
	r.GET("/confirmation/:id", h.Confirmation)
	r.GET("/forms/:name", h.DownloadForm)
	r.GET("/admin", h.Admin)
	r.POST("/admin/export", h.ExportReport)
}

// renderError shows the failure and keeps the session going. Every failure
// is terminal for the current action only.
func (h *Handler) renderError(c *gin.Context, err error, backURL string) {
	status := http.StatusInternalServerError
	message := "something went wrong"
	if appErr, ok := apperrors.AsAppError(err); ok {
		status = appErr.HTTPStatus()
		message = appErr.Message
	} else if err != nil {
		message = err.Error()
	}

	c.HTML(status, "error.html", gin.H{
		"Message": message,
		"BackURL": backURL,
	})
}

func pickDoctor(doctors []*model.Doctor, requested, preferred string) *model.Doctor {
	for _, d := range doctors {
		if requested != "" && d.DoctorID == requested {
			return d
		}
	}
	for _, d := range doctors {
		if preferred != "" && d.DoctorID == preferred {
			return d
		}
	}
	return doctors[0]
}

func scheduleURL(patientID, doctorID string, visitType model.VisitType, date string) string {
	q := url.Values{}
	q.Set("patient_id", patientID)
	q.Set("visit_type", string(visitType))
	if doctorID != "" {
		q.Set("doctor_id", doctorID)
	}
	if date != "" {
		q.Set("date", date)
	}
	return "/schedule?" + q.Encode()
}

func splitName(name string) (first, last string) {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}
