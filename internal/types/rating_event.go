package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	EventTypeRatingChange           = "rating_change"
	EventTypeTierChange             = "tier_change"
	EventTypeRecompute              = "recompute"
	EventTypeMeasurementImprovement = "measurement_improvement"
)

// RatingEvent is one append-only row in the rating audit ledger.
// Rows are never updated; the only delete path is age-based retention
// cleanup.
type RatingEvent struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	User       *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	CategoryID *uuid.UUID     `gorm:"type:uuid;index" json:"category_id,omitempty"`
	Category   *Category      `gorm:"constraint:OnDelete:SET NULL;foreignKey:CategoryID;references:ID" json:"category,omitempty"`
	EventType  string         `gorm:"not null;column:event_type;index" json:"event_type"`
	OldValue   float64        `gorm:"not null;column:old_value" json:"old_value"`
	NewValue   float64        `gorm:"not null;column:new_value" json:"new_value"`
	Delta      float64        `gorm:"not null;column:delta" json:"delta"`
	Metadata   datatypes.JSON `gorm:"column:metadata" json:"metadata,omitempty"`
	CreatedAt  time.Time      `gorm:"not null;index" json:"created_at"`
}

func (RatingEvent) TableName() string { return "rating_event" }
