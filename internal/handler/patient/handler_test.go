package patient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/clinic-scheduler/internal/model"
	"github.com/jwalitptl/clinic-scheduler/internal/repository"
)

type fakeService struct {
	patients []*model.Patient
}

func (f *fakeService) Lookup(ctx context.Context, name, dob string) (*model.Patient, error) {
	for _, p := range f.patients {
		if p.DOB == dob && strings.EqualFold(p.FullName(), name) {
			return p, nil
		}
	}
	return nil, fmt.Errorf("patient %q: %w", name, repository.ErrNotFound)
}

func (f *fakeService) Register(ctx context.Context, req *model.RegisterPatientRequest) (*model.Patient, error) {
	p := &model.Patient{
		PatientID: fmt.Sprintf("P%03d", len(f.patients)+1),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		DOB:       req.DOB,
		Email:     req.Email,
	}
	f.patients = append(f.patients, p)
	return p, nil
}

func (f *fakeService) Get(ctx context.Context, id string) (*model.Patient, error) {
	for _, p := range f.patients {
		if p.PatientID == id {
			return p, nil
		}
	}
	return nil, fmt.Errorf("patient %s: %w", id, repository.ErrNotFound)
}

func (f *fakeService) List(ctx context.Context) ([]*model.Patient, error) {
	return f.patients, nil
}

func setupRouter(svc Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(svc).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestLookupReturningPatient(t *testing.T) {
	svc := &fakeService{patients: []*model.Patient{
		{PatientID: "P001", FirstName: "Aarav", LastName: "Patel", DOB: "1990-03-14"},
	}}
	r := setupRouter(svc)

	w := postJSON(r, "/api/v1/patients/lookup", `{"name": "Aarav Patel", "dob": "1990-03-14"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool         `json:"success"`
		Data    LookupResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Data.Found)
	assert.Equal(t, model.VisitTypeReturning, resp.Data.VisitType)
	assert.Equal(t, 30, resp.Data.DurationMinutes)
	require.NotNil(t, resp.Data.Patient)
	assert.Equal(t, "P001", resp.Data.Patient.PatientID)
}

func TestLookupNewPatientIsNotAnError(t *testing.T) {
	r := setupRouter(&fakeService{})

	w := postJSON(r, "/api/v1/patients/lookup", `{"name": "Noah Kim", "dob": "2001-07-09"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data LookupResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Data.Found)
	assert.Nil(t, resp.Data.Patient)
	assert.Equal(t, model.VisitTypeNew, resp.Data.VisitType)
	assert.Equal(t, 60, resp.Data.DurationMinutes)
}

func TestLookupRequiresNameAndDOB(t *testing.T) {
	r := setupRouter(&fakeService{})

	w := postJSON(r, "/api/v1/patients/lookup", `{"name": "Aarav Patel"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegisterPatient(t *testing.T) {
	r := setupRouter(&fakeService{})

	w := postJSON(r, "/api/v1/patients", `{"first_name": "Noah", "last_name": "Kim", "dob": "2001-07-09"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "P001")
}

func TestRegisterPatientRejectsBadEmail(t *testing.T) {
	r := setupRouter(&fakeService{})

	w := postJSON(r, "/api/v1/patients", `{"first_name": "Noah", "dob": "2001-07-09", "email": "not-an-email"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetPatientNotFound(t *testing.T) {
	r := setupRouter(&fakeService{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/patients/P999", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
