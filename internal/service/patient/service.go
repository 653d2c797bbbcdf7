package patient

import (
	"context"
	"fmt"
	"strings"

	"github.com/jwalitptl/clinic-scheduler/internal/model"
	"github.com/jwalitptl/clinic-scheduler/internal/repository"
)

type Service struct {
	repo repository.PatientRepository
}

func NewService(repo repository.PatientRepository) *Service {
	return &Service{repo: repo}
}

// Lookup finds a returning patient by full name and date of birth. The
// match is deliberately loose: DOB must be exact, and either name token may
// hit the first or last name, or the whole string must equal "first last".
// A miss returns repository.ErrNotFound, which callers treat as "new
// patient", not a failure.
func (s *Service) Lookup(ctx context.Context, name, dob string) (*model.Patient, error) {
	patients, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load patients: %w", err)
	}

	name = strings.ToLower(strings.TrimSpace(name))
	parts := strings.Fields(name)

	for _, p := range patients {
		if p.DOB != dob {
			continue
		}
		first := strings.ToLower(p.FirstName)
		last := strings.ToLower(p.LastName)
		if containsToken(parts, first) || containsToken(parts, last) || first+" "+last == name {
			return p, nil
		}
	}
	return nil, fmt.Errorf("patient %q (%s): %w", name, dob, repository.ErrNotFound)
}

// Register appends a new patient with the next roster id.
func (s *Service) Register(ctx context.Context, req *model.RegisterPatientRequest) (*model.Patient, error) {
	id, err := s.repo.NextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate patient id: %w", err)
	}

	p := &model.Patient{
		PatientID:         id,
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		DOB:               req.DOB,
		Email:             req.Email,
		Phone:             req.Phone,
		PreferredDoctorID: req.PreferredDoctorID,
	}
	if err := s.repo.Append(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to register patient: %w", err)
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, id string) (*model.Patient, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*model.Patient, error) {
	return s.repo.List(ctx)
}

func containsToken(tokens []string, want string) bool {
	if want == "" {
		return false
	}
	for _, t := range tokens {
		if t == want {
			return true
		}
	}
	return false
}
