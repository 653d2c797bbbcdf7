package model

// Notification channels. The prototype only records sends; no message
// actually leaves the machine unless the SMTP notifier is enabled.
const (
	ChannelEmail = "EMAIL"
	ChannelSMS   = "SMS"
)

// CommunicationRecord is a row in the communications log CSV. Append-only.
type CommunicationRecord struct {
	Timestamp string `csv:"timestamp" json:"timestamp"`
	Channel   string `csv:"channel" json:"channel"`
	To        string `csv:"to" json:"to"`
	Subject   string `csv:"subject" json:"subject"`
	Message   string `csv:"message" json:"message"`
	BookingID string `csv:"booking_id" json:"booking_id"`
}
