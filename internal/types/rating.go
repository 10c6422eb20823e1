package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Rating is the per user x category skill estimate, bounded to
// [0, 3000]. Created on category enrollment with the category's
// baseline and mutated only by the recompute orchestrator.
type Rating struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_rating_user_category" json:"user_id"`
	User       *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	CategoryID uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_rating_user_category;index" json:"category_id"`
	Category   *Category      `gorm:"constraint:OnDelete:CASCADE;foreignKey:CategoryID;references:ID" json:"category,omitempty"`
	Value      float64        `gorm:"not null;column:value" json:"value"`
	CreatedAt  time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Rating) TableName() string { return "rating" }

// OverallRating is the derived cross-category aggregate per user. It
// is never independently authoritative; it can always be rebuilt from
// the category ratings.
type OverallRating struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	User      *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	Value     float64        `gorm:"not null;column:value" json:"value"`
	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (OverallRating) TableName() string { return "overall_rating" }
