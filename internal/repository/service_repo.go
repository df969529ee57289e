package repository

import (
	"context"
	"errors"

	"hospital-directory/internal/models"

	"gorm.io/gorm"
)

var ErrServiceNotFound = errors.New("service not found")

type ServiceRepository struct {
	db *gorm.DB
}

func NewServiceRepo(db *gorm.DB) *ServiceRepository {
	return &ServiceRepository{db: db}
}

// GetServices lists services, optionally restricted to one hospital
func (r *ServiceRepository) GetServices(ctx context.Context, hospitalID *uint) ([]models.Service, error) {
	services := []models.Service{}
	q := r.db.WithContext(ctx).Order("id ASC")
	if hospitalID != nil {
		q = q.Where("hospital_id = ?", *hospitalID)
	}
	err := q.Find(&services).Error
	return services, err
}

// GetServiceByID retrieves a service by ID
func (r *ServiceRepository) GetServiceByID(ctx context.Context, id uint) (*models.Service, error) {
	var service models.Service
	err := r.db.WithContext(ctx).First(&service, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, err
	}
	return &service, nil
}

// CreateService creates a new service
func (r *ServiceRepository) CreateService(ctx context.Context, service *models.Service) error {
	return r.db.WithContext(ctx).Create(service).Error
}

// UpdateService applies the non-nil fields of upd and returns the stored record
func (r *ServiceRepository) UpdateService(ctx context.Context, id uint, upd models.ServiceUpdate) (*models.Service, error) {
	fields := map[string]interface{}{}
	if upd.Name != nil {
		fields["name"] = *upd.Name
	}
	if upd.Description != nil {
		fields["description"] = *upd.Description
	}

	if len(fields) > 0 {
		result := r.db.WithContext(ctx).Model(&models.Service{ID: id}).Updates(fields)
		if result.Error != nil {
			return nil, result.Error
		}
	}

	return r.GetServiceByID(ctx, id)
}

// DeleteService hard deletes a service
func (r *ServiceRepository) DeleteService(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Service{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrServiceNotFound
	}
	return nil
}

// CountServices returns the number of listed services
func (r *ServiceRepository) CountServices(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Service{}).Count(&n).Error
	return n, err
}
