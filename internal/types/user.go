package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	SexMale   = "male"
	SexFemale = "female"
)

type User struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Email       string         `gorm:"uniqueIndex;not null;column:email" json:"email"`
	FirstName   string         `gorm:"not null;column:first_name" json:"first_name"`
	LastName    string         `gorm:"not null;column:last_name" json:"last_name"`
	SexAtBirth  string         `gorm:"column:sex_at_birth;index" json:"sex_at_birth"`
	DateOfBirth *time.Time     `gorm:"column:date_of_birth" json:"date_of_birth,omitempty"`
	HeightCm    float64        `gorm:"column:height_cm" json:"height_cm"`
	WeightKg    float64        `gorm:"column:weight_kg" json:"weight_kg"`
	CreatedAt   time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (User) TableName() string { return "user" }

// Age in whole years at the given instant. Returns -1 when date of
// birth is not set.
func (u *User) Age(at time.Time) int {
	if u.DateOfBirth == nil || u.DateOfBirth.IsZero() {
		return -1
	}
	years := at.Year() - u.DateOfBirth.Year()
	anniversary := u.DateOfBirth.AddDate(years, 0, 0)
	if anniversary.After(at) {
		years--
	}
	return years
}

func (u *User) BMI() float64 {
	if u.HeightCm <= 0 || u.WeightKg <= 0 {
		return 0
	}
	meters := u.HeightCm / 100
	return u.WeightKg / (meters * meters)
}

// HasCompleteProfile reports whether the demographic fields the
// adjustment calculator needs are all present.
func (u *User) HasCompleteProfile() bool {
	if u.DateOfBirth == nil || u.DateOfBirth.IsZero() {
		return false
	}
	if u.SexAtBirth != SexMale && u.SexAtBirth != SexFemale {
		return false
	}
	return u.HeightCm > 0 && u.WeightKg > 0
}
