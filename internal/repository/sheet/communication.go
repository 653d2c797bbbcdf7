package sheet

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/jwalitptl/clinic-scheduler/internal/model"
	"github.com/jwalitptl/clinic-scheduler/pkg/metrics"
)

type CommunicationRepository struct {
	path    string
	mu      sync.Mutex
	metrics *metrics.Metrics
}

func NewCommunicationRepository(path string, m *metrics.Metrics) *CommunicationRepository {
	return &CommunicationRepository{path: path, metrics: m}
}

// Append writes one row to the log, adding the header on first use.
func (r *CommunicationRepository) Append(ctx context.Context, record *model.CommunicationRecord) error {
	start := time.Now()
	var err error
	defer func() { observe(r.metrics, "communications", "append", start, err) }()

	r.mu.Lock()
	defer r.mu.Unlock()

	_, statErr := os.Stat(r.path)
	isNew := os.IsNotExist(statErr)

	f, err := os.OpenFile(r.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open communications log: %w", err)
	}
	defer f.Close()

	rows := []*model.CommunicationRecord{record}
	if isNew {
		err = gocsv.Marshal(&rows, f)
	} else {
		err = gocsv.MarshalWithoutHeaders(&rows, f)
	}
	if err != nil {
		return fmt.Errorf("failed to append to communications log: %w", err)
	}
	return nil
}

// List returns every log row. A missing log means nothing was sent yet.
func (r *CommunicationRepository) List(ctx context.Context) ([]*model.CommunicationRecord, error) {
	start := time.Now()
	var err error
	defer func() { observe(r.metrics, "communications", "load", start, err) }()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, statErr := os.Stat(r.path); os.IsNotExist(statErr) {
		return nil, nil
	}

	f, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open communications log: %w", err)
	}
	defer f.Close()

	var records []*model.CommunicationRecord
	if err = gocsv.UnmarshalFile(f, &records); err != nil {
		return nil, fmt.Errorf("failed to parse communications log: %w", err)
	}
	return records, nil
}
