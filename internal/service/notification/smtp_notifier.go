package notification

import (
	"context"
	"fmt"

	gomail "gopkg.in/gomail.v2"

	"github.com/jwalitptl/clinic-scheduler/internal/model"
)

// SMTPConfig holds the settings for the real email sender.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPNotifier sends EMAIL records over SMTP and still appends every record
// to the communications log so the ledger of sends stays complete. SMS has
// no real transport; those records are log-only.
type SMTPNotifier struct {
	dialer *gomail.Dialer
	from   string
	log    *LogNotifier
}

func NewSMTPNotifier(cfg SMTPConfig, log *LogNotifier) *SMTPNotifier {
	return &SMTPNotifier{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
		log:    log,
	}
}

func (n *SMTPNotifier) Send(ctx context.Context, record *model.CommunicationRecord) error {
	if record.Channel == model.ChannelEmail {
		m := gomail.NewMessage()
		m.SetHeader("From", n.from)
		m.SetHeader("To", record.To)
		m.SetHeader("Subject", record.Subject)
		m.SetBody("text/plain", record.Message)

		if err := n.dialer.DialAndSend(m); err != nil {
			return fmt.Errorf("failed to send email to %s: %w", record.To, err)
		}
	}
	return n.log.Send(ctx, record)
}
