package notification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jwalitptl/clinic-scheduler/internal/model"
	"github.com/jwalitptl/clinic-scheduler/pkg/logger"
)

// TimestampLayout matches the second-resolution timestamps in the log.
const TimestampLayout = "2006-01-02T15:04:05"

// Fallback recipients for patients with no contact details on file.
const (
	fallbackEmail = "unknown@example.com"
	fallbackPhone = "9999999999"
)

// Notifier delivers one message. The default implementation only records
// the send in the communications log; a real channel integration replaces
// it without touching booking logic.
type Notifier interface {
	Send(ctx context.Context, record *model.CommunicationRecord) error
}

type Service struct {
	notifier Notifier
	logger   *logger.Logger
}

func NewService(notifier Notifier, log *logger.Logger) *Service {
	return &Service{notifier: notifier, logger: log}
}

// SendBookingMessages records the full message fan-out for one confirmed
// booking: confirmation by email and SMS, the intake-forms email, and the
// three scheduled reminders. Six log rows per booking.
func (s *Service) SendBookingMessages(ctx context.Context, patient *model.Patient, doctor *model.Doctor, booking *model.Booking) error {
	email := patient.Email
	if email == "" {
		email = fallbackEmail
	}
	phone := patient.Phone
	if phone == "" {
		phone = fallbackPhone
	}

	records := []*model.CommunicationRecord{
		{
			Channel: model.ChannelEmail,
			To:      email,
			Subject: "Appointment Confirmation",
			Message: fmt.Sprintf("Your appointment is confirmed on %s at %s with %s.",
				booking.Date, booking.SlotStart, doctor.DoctorName),
		},
		{
			Channel: model.ChannelSMS,
			To:      phone,
			Subject: "Appointment Confirmation",
			Message: fmt.Sprintf("Appt %s %s with %s - Reply YES to confirm.",
				booking.Date, booking.SlotStart, doctor.DoctorName),
		},
		{
			Channel: model.ChannelEmail,
			To:      email,
			Subject: "Intake Forms",
			Message: "Please complete the attached intake and consent forms before your visit.",
		},
		{
			Channel: model.ChannelEmail,
			To:      email,
			Subject: "Reminder 1",
			Message: "Friendly reminder about your appointment. No action required.",
		},
		{
			Channel: model.ChannelEmail,
			To:      email,
			Subject: "Reminder 2 - Action Required",
			Message: "Have you filled the forms? Please confirm your visit.",
		},
		{
			Channel: model.ChannelSMS,
			To:      phone,
			Subject: "Reminder 3 - Action Required",
			Message: "Confirm visit? Reply with reason if cancelling.",
		},
	}

	var errs []error
	for _, rec := range records {
		rec.BookingID = booking.BookingID
		if rec.Timestamp == "" {
			rec.Timestamp = time.Now().Format(TimestampLayout)
		}
		if err := s.notifier.Send(ctx, rec); err != nil {
			s.logger.Error(err, "failed to send notification",
				"channel", rec.Channel, "booking_id", booking.BookingID)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
