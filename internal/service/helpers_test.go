package service_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"hospital-directory/internal/database"
	"hospital-directory/internal/models"
	"hospital-directory/internal/repository"
	"hospital-directory/internal/service"
	"hospital-directory/internal/session"
	"hospital-directory/pkg/utils"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fixture struct {
	hospitals *repository.HospitalRepository
	services  *repository.ServiceRepository
	sessions  *session.MemoryStore
	auth      *service.AuthService
	hospital  *service.HospitalService
	catalog   *service.CatalogService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := database.NewTestDB(t)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	hasher := &utils.BcryptHasher{Cost: bcrypt.MinCost}

	f := &fixture{
		hospitals: repository.NewHospitalRepo(db),
		services:  repository.NewServiceRepo(db),
		sessions:  session.NewMemoryStore(),
	}
	f.auth = service.NewAuthService(f.hospitals, f.sessions, hasher, log)
	f.hospital = service.NewHospitalService(f.hospitals, hasher, log)
	f.catalog = service.NewCatalogService(f.services, f.auth, log)
	return f
}

func ptr[T any](v T) *T { return &v }

func registerInput(email, password string) service.RegisterInput {
	return service.RegisterInput{
		Email:     email,
		Password:  password,
		Name:      "General Hospital",
		Address:   "1 Main St",
		Phone:     "555-0100",
		Latitude:  ptr(6.5244),
		Longitude: ptr(3.3792),
	}
}

func (f *fixture) register(t *testing.T, email, password string) *models.Hospital {
	t.Helper()
	h, err := f.auth.Register(context.Background(), registerInput(email, password))
	require.NoError(t, err)
	return h
}

func (f *fixture) login(t *testing.T, email, password string) *service.LoginResult {
	t.Helper()
	res, err := f.auth.Login(context.Background(), email, password)
	require.NoError(t, err)
	return res
}
