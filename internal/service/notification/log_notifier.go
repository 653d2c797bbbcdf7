package notification

import (
	"context"
	"time"

	"github.com/jwalitptl/clinic-scheduler/internal/model"
	"github.com/jwalitptl/clinic-scheduler/internal/repository"
	"github.com/jwalitptl/clinic-scheduler/pkg/metrics"
)

// LogNotifier is the default Notifier: it appends the record to the
// communications log and nothing else. No message leaves the machine.
type LogNotifier struct {
	repo    repository.CommunicationRepository
	metrics *metrics.Metrics
}

func NewLogNotifier(repo repository.CommunicationRepository, m *metrics.Metrics) *LogNotifier {
	return &LogNotifier{repo: repo, metrics: m}
}

func (n *LogNotifier) Send(ctx context.Context, record *model.CommunicationRecord) error {
	if record.Timestamp == "" {
		record.Timestamp = time.Now().Format(TimestampLayout)
	}
	if err := n.repo.Append(ctx, record); err != nil {
		return err
	}
	if n.metrics != nil {
		n.metrics.NotificationsSent.WithLabelValues(record.Channel).Inc()
	}
	return nil
}
