package repository

import (
	"context"
	"errors"

	"hospital-directory/internal/models"

	"gorm.io/gorm"
)

var (
	ErrHospitalNotFound = errors.New("hospital not found")
	ErrEmailTaken       = errors.New("email already registered")
)

type HospitalRepository struct {
	db *gorm.DB
}

func NewHospitalRepo(db *gorm.DB) *HospitalRepository {
	return &HospitalRepository{db: db}
}

// GetAllHospitals retrieves every hospital with its services
func (r *HospitalRepository) GetAllHospitals(ctx context.Context) ([]models.Hospital, error) {
	hospitals := []models.Hospital{}
	err := r.db.WithContext(ctx).Preload("Services").Order("name ASC, id ASC").Find(&hospitals).Error
	if err != nil {
		return nil, err
	}
	for i := range hospitals {
		normalizeServices(&hospitals[i])
	}
	return hospitals, nil
}

// GetHospitalByID retrieves a hospital by ID
func (r *HospitalRepository) GetHospitalByID(ctx context.Context, id uint) (*models.Hospital, error) {
	var hospital models.Hospital
	err := r.db.WithContext(ctx).Preload("Services").First(&hospital, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHospitalNotFound
		}
		return nil, err
	}
	normalizeServices(&hospital)
	return &hospital, nil
}

// GetHospitalByEmail retrieves a hospital by its unique email
func (r *HospitalRepository) GetHospitalByEmail(ctx context.Context, email string) (*models.Hospital, error) {
	var hospital models.Hospital
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&hospital).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHospitalNotFound
		}
		return nil, err
	}
	return &hospital, nil
}

// CreateHospital creates a new hospital
func (r *HospitalRepository) CreateHospital(ctx context.Context, hospital *models.Hospital) error {
	err := r.db.WithContext(ctx).Create(hospital).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrEmailTaken
	}
	normalizeServices(hospital)
	return err
}

// UpdateHospital applies the non-nil fields of upd and returns the stored record
func (r *HospitalRepository) UpdateHospital(ctx context.Context, id uint, upd models.HospitalUpdate) (*models.Hospital, error) {
	fields := map[string]interface{}{}
	if upd.Name != nil {
		fields["name"] = *upd.Name
	}
	if upd.Address != nil {
		fields["address"] = *upd.Address
	}
	if upd.Phone != nil {
		fields["phone"] = *upd.Phone
	}
	if upd.Latitude != nil {
		fields["latitude"] = *upd.Latitude
	}
	if upd.Longitude != nil {
		fields["longitude"] = *upd.Longitude
	}
	if upd.Email != nil {
		fields["email"] = *upd.Email
	}
	if upd.PasswordHash != nil {
		fields["password"] = *upd.PasswordHash
	}

	if len(fields) > 0 {
		result := r.db.WithContext(ctx).Model(&models.Hospital{ID: id}).Updates(fields)
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
				return nil, ErrEmailTaken
			}
			return nil, result.Error
		}
	}

	return r.GetHospitalByID(ctx, id)
}

// DeleteHospital removes a hospital together with its services
func (r *HospitalRepository) DeleteHospital(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("hospital_id = ?", id).Delete(&models.Service{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Hospital{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrHospitalNotFound
		}
		return nil
	})
}

// CountHospitals returns the number of registered hospitals
func (r *HospitalRepository) CountHospitals(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Hospital{}).Count(&n).Error
	return n, err
}

// Ping checks database connectivity
func (r *HospitalRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func normalizeServices(h *models.Hospital) {
	if h.Services == nil {
		h.Services = []models.Service{}
	}
}
