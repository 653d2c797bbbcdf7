package sheet

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gocarina/gocsv"
	gocache "github.com/patrickmn/go-cache"

	"github.com/jwalitptl/clinic-scheduler/internal/model"
	"github.com/jwalitptl/clinic-scheduler/internal/repository"
	"github.com/jwalitptl/clinic-scheduler/pkg/metrics"
)

const patientsCacheKey = "patients"

type PatientRepository struct {
	path    string
	mu      sync.Mutex
	cache   *gocache.Cache
	metrics *metrics.Metrics
}

func NewPatientRepository(path string, cacheTTL time.Duration, m *metrics.Metrics) *PatientRepository {
	if cacheTTL <= 0 {
		cacheTTL = DefaultCacheTTL
	}
	return &PatientRepository{
		path:    path,
		cache:   gocache.New(cacheTTL, 2*cacheTTL),
		metrics: m,
	}
}

func (r *PatientRepository) List(ctx context.Context) ([]*model.Patient, error) {
	if cached, ok := r.cache.Get(patientsCacheKey); ok {
		return cached.([]*model.Patient), nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loadLocked()
}

func (r *PatientRepository) Get(ctx context.Context, id string) (*model.Patient, error) {
	patients, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range patients {
		if p.PatientID == id {
			return p, nil
		}
	}
	return nil, fmt.Errorf("patient %s: %w", id, repository.ErrNotFound)
}

func (r *PatientRepository) Append(ctx context.Context, patient *model.Patient) error {
	start := time.Now()
	var err error
	defer func() { observe(r.metrics, "patients", "append", start, err) }()

	r.mu.Lock()
	defer r.mu.Unlock()

	patients, err := r.loadLocked()
	if err != nil {
		return err
	}
	patients = append(patients, patient)

	f, err := os.Create(r.path)
	if err != nil {
		return fmt.Errorf("failed to write patient roster: %w", err)
	}
	defer f.Close()

	if err = gocsv.MarshalFile(&patients, f); err != nil {
		return fmt.Errorf("failed to write patient roster: %w", err)
	}
	r.cache.Delete(patientsCacheKey)
	return nil
}

// NextID continues the roster's P-prefixed numeric sequence.
func (r *PatientRepository) NextID(ctx context.Context) (string, error) {
	patients, err := r.List(ctx)
	if err != nil {
		return "", err
	}
	max := 0
	for _, p := range patients {
		n, err := strconv.Atoi(strings.TrimPrefix(p.PatientID, "P"))
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return fmt.Sprintf("P%03d", max+1), nil
}

func (r *PatientRepository) loadLocked() ([]*model.Patient, error) {
	start := time.Now()
	var err error
	defer func() { observe(r.metrics, "patients", "load", start, err) }()

	f, err := os.Open(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("patient roster %s: %w", r.path, repository.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to open patient roster: %w", err)
	}
	defer f.Close()

	var patients []*model.Patient
	if err = gocsv.UnmarshalFile(f, &patients); err != nil {
		return nil, fmt.Errorf("failed to parse patient roster: %w", err)
	}

	r.cache.SetDefault(patientsCacheKey, patients)
	return patients, nil
}
