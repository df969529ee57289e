package models

import "time"

// Hospital represents a hospital listed in the directory.
// It doubles as the credential record: Password holds the bcrypt hash only.
type Hospital struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Address   string    `gorm:"size:500;not null" json:"address"`
	Phone     string    `gorm:"size:50;not null" json:"phone"`
	Latitude  float64   `gorm:"not null" json:"latitude"`
	Longitude float64   `gorm:"not null" json:"longitude"`
	Email     string    `gorm:"size:254;uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	Services  []Service `gorm:"foreignKey:HospitalID;constraint:OnDelete:CASCADE" json:"services"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for Hospital model
func (Hospital) TableName() string {
	return "hospitals"
}

// HospitalUpdate carries the mutable profile fields of a hospital.
// Nil fields are left untouched.
type HospitalUpdate struct {
	Name      *string
	Address   *string
	Phone     *string
	Latitude  *float64
	Longitude *float64
	Email     *string

	PasswordHash *string
}
