package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Category struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Name           string         `gorm:"not null;column:name" json:"name"`
	Slug           string         `gorm:"uniqueIndex;not null;column:slug" json:"slug"`
	BaselineRating float64        `gorm:"not null;default:500;column:baseline_rating" json:"baseline_rating"`
	CreatedAt      time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Category) TableName() string { return "category" }

type MeasurementType struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CategoryID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"category_id"`
	Category       *Category      `gorm:"constraint:OnDelete:CASCADE;foreignKey:CategoryID;references:ID" json:"category,omitempty"`
	Name           string         `gorm:"not null;column:name" json:"name"`
	Unit           string         `gorm:"column:unit" json:"unit"`
	HigherIsBetter bool           `gorm:"not null;default:true;column:higher_is_better" json:"higher_is_better"`
	Weight         float64        `gorm:"not null;default:1;column:weight" json:"weight"`
	CreatedAt      time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (MeasurementType) TableName() string { return "measurement_type" }
