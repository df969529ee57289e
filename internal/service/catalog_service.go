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

// IdentityResolver maps an Authorization header to the calling hospital.
type IdentityResolver interface {
	Resolve(ctx context.Context, authorization string) (*models.Hospital, error)
}

// CatalogService manages the services hospitals list in the directory.
type CatalogService struct {
	serviceRepo *repository.ServiceRepository
	identity    IdentityResolver
	validate    *validator.Validate
	log         *slog.Logger
}

func NewCatalogService(serviceRepo *repository.ServiceRepository, identity IdentityResolver, log *slog.Logger) *CatalogService {
	return &CatalogService{
		serviceRepo: serviceRepo,
		identity:    identity,
		validate:    newValidator(),
		log:         log,
	}
}

// ServiceInput is the client-supplied part of a new service.
// The owning hospital is never part of it.
type ServiceInput struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description"`
}

// ServiceUpdateInput holds a partial service update.
type ServiceUpdateInput struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description"`
}

// ListServices lists services, optionally for a single hospital
func (s *CatalogService) ListServices(ctx context.Context, hospitalID *uint) ([]models.Service, error) {
	services, err := s.serviceRepo.GetServices(ctx, hospitalID)
	if err != nil {
		return nil, oops.Code("SERVICE_LIST_FAILED").Wrap(err)
	}
	return services, nil
}

// GetService retrieves a service by ID
func (s *CatalogService) GetService(ctx context.Context, id uint) (*models.Service, error) {
	service, err := s.serviceRepo.GetServiceByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrServiceNotFound) {
			return nil, ErrNotFound
		}
		return nil, oops.Code("SERVICE_LOOKUP_FAILED").With("service_id", id).Wrap(err)
	}
	return service, nil
}

// CreateService attaches a new service to the hospital the Authorization header resolves to.
// An unresolvable identity is a validation failure.
func (s *CatalogService) CreateService(ctx context.Context, authorization string, in ServiceInput) (*models.Service, error) {
	hospital, err := s.identity.Resolve(ctx, authorization)
	if err != nil {
		if isIdentityError(err) {
			return nil, newValidationError("could not determine hospital for this request", nil)
		}
		return nil, err
	}

	in.Name = strings.TrimSpace(in.Name)
	if err := checkInput(s.validate, in); err != nil {
		return nil, err
	}

	service := &models.Service{
		HospitalID:  hospital.ID,
		Name:        in.Name,
		Description: in.Description,
	}
	if err := s.serviceRepo.CreateService(ctx, service); err != nil {
		return nil, oops.Code("SERVICE_CREATE_FAILED").With("hospital_id", hospital.ID).Wrap(err)
	}

	s.log.InfoContext(ctx, "service created", "service_id", service.ID, "hospital_id", hospital.ID)

	return service, nil
}

// UpdateService changes a service owned by the caller.
func (s *CatalogService) UpdateService(ctx context.Context, caller *models.Hospital, id uint, in ServiceUpdateInput) (*models.Service, error) {
	if _, err := s.ownedService(ctx, caller, id); err != nil {
		return nil, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		in.Name = &name
	}
	if err := checkInput(s.validate, in); err != nil {
		return nil, err
	}

	service, err := s.serviceRepo.UpdateService(ctx, id, models.ServiceUpdate{
		Name:        in.Name,
		Description: in.Description,
	})
	if err != nil {
		if errors.Is(err, repository.ErrServiceNotFound) {
			return nil, ErrNotFound
		}
		return nil, oops.Code("SERVICE_UPDATE_FAILED").With("service_id", id).Wrap(err)
	}
	return service, nil
}

// DeleteService removes a service owned by the caller.
func (s *CatalogService) DeleteService(ctx context.Context, caller *models.Hospital, id uint) error {
	if _, err := s.ownedService(ctx, caller, id); err != nil {
		return err
	}

	if err := s.serviceRepo.DeleteService(ctx, id); err != nil {
		if errors.Is(err, repository.ErrServiceNotFound) {
			return ErrNotFound
		}
		return oops.Code("SERVICE_DELETE_FAILED").With("service_id", id).Wrap(err)
	}

	s.log.InfoContext(ctx, "service deleted", "service_id", id, "hospital_id", caller.ID)

	return nil
}

func (s *CatalogService) ownedService(ctx context.Context, caller *models.Hospital, id uint) (*models.Service, error) {
	if caller == nil {
		return nil, ErrUnauthenticated
	}

	service, err := s.GetService(ctx, id)
	if err != nil {
		return nil, err
	}

	if service.HospitalID != caller.ID {
		s.log.WarnContext(ctx, "service change rejected", "caller_id", caller.ID, "service_id", id)
		return nil, ErrForbidden
	}
	return service, nil
}

func isIdentityError(err error) bool {
	return errors.Is(err, ErrUnauthenticated) ||
		errors.Is(err, ErrInvalidToken) ||
		errors.Is(err, ErrNotFound)
}
