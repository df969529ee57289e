package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"hospital-directory/internal/models"
	"hospital-directory/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/samber/oops"
)

type HospitalService struct {
	hospitalRepo *repository.HospitalRepository
	hasher       PasswordHasher
	validate     *validator.Validate
	log          *slog.Logger
}

func NewHospitalService(hospitalRepo *repository.HospitalRepository, hasher PasswordHasher, log *slog.Logger) *HospitalService {
	return &HospitalService{
		hospitalRepo: hospitalRepo,
		hasher:       hasher,
		validate:     newValidator(),
		log:          log,
	}
}

// HospitalUpdateInput holds a partial profile update. Nil fields are left unchanged.
type HospitalUpdateInput struct {
	Name      *string  `json:"name" validate:"omitempty,min=1,max=255"`
	Address   *string  `json:"address" validate:"omitempty,min=1,max=500"`
	Phone     *string  `json:"phone" validate:"omitempty,min=1,max=50"`
	Latitude  *float64 `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
	Email     *string  `json:"email" validate:"omitempty,email,max=254"`
	Password  *string  `json:"password" validate:"omitempty,max=72"`
}

// ListHospitals retrieves all hospitals
func (s *HospitalService) ListHospitals(ctx context.Context) ([]models.Hospital, error) {
	hospitals, err := s.hospitalRepo.GetAllHospitals(ctx)
	if err != nil {
		return nil, oops.Code("HOSPITAL_LIST_FAILED").Wrap(err)
	}
	return hospitals, nil
}

// GetHospital retrieves a hospital by ID
func (s *HospitalService) GetHospital(ctx context.Context, id uint) (*models.Hospital, error) {
	hospital, err := s.hospitalRepo.GetHospitalByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrHospitalNotFound) {
			return nil, ErrNotFound
		}
		return nil, oops.Code("HOSPITAL_LOOKUP_FAILED").With("hospital_id", id).Wrap(err)
	}
	return hospital, nil
}

// UpdateHospital updates the caller's own hospital record.
// The caller must be the hospital identified by id.
func (s *HospitalService) UpdateHospital(ctx context.Context, caller *models.Hospital, id uint, in HospitalUpdateInput) (*models.Hospital, error) {
	if caller == nil {
		return nil, ErrUnauthenticated
	}
	if caller.ID != id {
		s.log.WarnContext(ctx, "hospital update rejected", "caller_id", caller.ID, "target_id", id)
		return nil, ErrForbidden
	}

	if in.Email != nil {
		email := normalizeEmail(*in.Email)
		in.Email = &email
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		in.Name = &name
	}
	if err := checkInput(s.validate, in); err != nil {
		return nil, err
	}

	upd := models.HospitalUpdate{
		Name:      in.Name,
		Address:   in.Address,
		Phone:     in.Phone,
		Latitude:  in.Latitude,
		Longitude: in.Longitude,
		Email:     in.Email,
	}

	if in.Email != nil && *in.Email != caller.Email {
		_, err := s.hospitalRepo.GetHospitalByEmail(ctx, *in.Email)
		if err == nil {
			return nil, emailTakenError()
		}
		if !errors.Is(err, repository.ErrHospitalNotFound) {
			return nil, oops.Code("HOSPITAL_LOOKUP_FAILED").Wrap(err)
		}
	}

	if in.Password != nil && *in.Password != "" {
		if err := checkPassword(*in.Password); err != nil {
			return nil, err
		}
		hash, err := s.hasher.Hash(*in.Password)
		if err != nil {
			return nil, oops.Code("PASSWORD_HASH_FAILED").Wrap(err)
		}
		upd.PasswordHash = &hash
	}

	hospital, err := s.hospitalRepo.UpdateHospital(ctx, id, upd)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrHospitalNotFound):
			return nil, ErrNotFound
		case errors.Is(err, repository.ErrEmailTaken):
			return nil, emailTakenError()
		}
		return nil, oops.Code("HOSPITAL_UPDATE_FAILED").With("hospital_id", id).Wrap(err)
	}

	s.log.InfoContext(ctx, "hospital updated", "hospital_id", id)

	return hospital, nil
}

// DeleteHospital removes the caller's own hospital and its services.
func (s *HospitalService) DeleteHospital(ctx context.Context, caller *models.Hospital, id uint) error {
	if caller == nil {
		return ErrUnauthenticated
	}
	if caller.ID != id {
		s.log.WarnContext(ctx, "hospital delete rejected", "caller_id", caller.ID, "target_id", id)
		return ErrForbidden
	}

	if err := s.hospitalRepo.DeleteHospital(ctx, id); err != nil {
		if errors.Is(err, repository.ErrHospitalNotFound) {
			return ErrNotFound
		}
		return oops.Code("HOSPITAL_DELETE_FAILED").With("hospital_id", id).Wrap(err)
	}

	s.log.InfoContext(ctx, "hospital deleted", "hospital_id", id)

	return nil
}
