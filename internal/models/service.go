package models

// Service is an offering listed under exactly one hospital.
type Service struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	HospitalID  uint   `gorm:"not null;index" json:"hospital_id"`
	Name        string `gorm:"size:255;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
}

// TableName specifies the table name for Service model
func (Service) TableName() string {
	return "services"
}

// ServiceUpdate carries the mutable fields of a service. Nil fields are left untouched.
type ServiceUpdate struct {
	Name        *string
	Description *string
}
