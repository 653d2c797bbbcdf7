package sheet

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/clinic-scheduler/internal/model"
	"github.com/jwalitptl/clinic-scheduler/internal/repository"
)

func writeRoster(t *testing.T, path string, patients []*model.Patient) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, gocsv.MarshalFile(&patients, f))
}

func TestPatientRepositoryListAndGet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patients.csv")
	writeRoster(t, path, []*model.Patient{
		{PatientID: "P001", FirstName: "Aarav", LastName: "Patel", DOB: "1990-03-14", Email: "aarav.patel@example.com"},
		{PatientID: "P002", FirstName: "Meera", LastName: "Iyer", DOB: "1985-11-02"},
	})

	repo := NewPatientRepository(path, time.Minute, nil)

	patients, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, patients, 2)

	p, err := repo.Get(context.Background(), "P002")
	require.NoError(t, err)
	assert.Equal(t, "Meera Iyer", p.FullName())

	_, err = repo.Get(context.Background(), "P999")
	assert.True(t, errors.Is(err, repository.ErrNotFound))
}

func TestPatientRepositoryMissingFile(t *testing.T) {
	repo := NewPatientRepository(filepath.Join(t.TempDir(), "patients.csv"), time.Minute, nil)

	_, err := repo.List(context.Background())
	assert.True(t, errors.Is(err, repository.ErrNotFound))
}

func TestPatientRepositoryAppendPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patients.csv")
	writeRoster(t, path, []*model.Patient{
		{PatientID: "P001", FirstName: "Aarav", LastName: "Patel", DOB: "1990-03-14"},
	})

	repo := NewPatientRepository(path, time.Minute, nil)
	require.NoError(t, repo.Append(context.Background(), &model.Patient{
		PatientID: "P002", FirstName: "Noah", LastName: "Kim", DOB: "2001-07-09",
	}))

	// A fresh repository must see the new row on disk, and the writing
	// repository must not serve a stale cached roster.
	patients, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, patients, 2)

	fresh := NewPatientRepository(path, time.Minute, nil)
	patients, err = fresh.List(context.Background())
	require.NoError(t, err)
	require.Len(t, patients, 2)
	assert.Equal(t, "P002", patients[1].PatientID)
}

func TestPatientRepositoryNextID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patients.csv")
	writeRoster(t, path, []*model.Patient{
		{PatientID: "P001", FirstName: "Aarav", LastName: "Patel", DOB: "1990-03-14"},
		{PatientID: "P007", FirstName: "Meera", LastName: "Iyer", DOB: "1985-11-02"},
		{PatientID: "odd-id", FirstName: "X", LastName: "Y", DOB: "1970-01-01"},
	})

	repo := NewPatientRepository(path, time.Minute, nil)
	id, err := repo.NextID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "P008", id)
}
