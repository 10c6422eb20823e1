package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	EntryStatusPending  = "pending"
	EntryStatusApproved = "approved"
	EntryStatusRejected = "rejected"
)

// MeasurementEntry is a raw user-submitted performance measurement.
// Entries are created by the submission workflow and transitioned by
// the review workflow; the rating engine only ever reads approved
// entries inside the rolling window.
type MeasurementEntry struct {
	ID                uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	UserID            uuid.UUID        `gorm:"type:uuid;not null;index" json:"user_id"`
	User              *User            `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	MeasurementTypeID uuid.UUID        `gorm:"type:uuid;not null;index" json:"measurement_type_id"`
	MeasurementType   *MeasurementType `gorm:"constraint:OnDelete:CASCADE;foreignKey:MeasurementTypeID;references:ID" json:"measurement_type,omitempty"`
	Value             float64          `gorm:"not null;column:value" json:"value"`
	Status            string           `gorm:"not null;default:pending;column:status;index" json:"status"`
	CreatedAt         time.Time        `gorm:"not null;index" json:"created_at"`
	UpdatedAt         time.Time        `gorm:"not null" json:"updated_at"`
	DeletedAt         gorm.DeletedAt   `gorm:"index" json:"deleted_at,omitempty"`
}

func (MeasurementEntry) TableName() string { return "measurement_entry" }
