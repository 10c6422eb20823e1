package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/fitrank-backend/internal/types"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		// Identity + demographics
		&types.User{},

		// Competition structure
		&types.Category{},
		&types.MeasurementType{},

		// Raw inputs
		&types.MeasurementEntry{},

		// Engine outputs
		&types.Rating{},
		&types.OverallRating{},

		// Audit ledger
		&types.RatingEvent{},
	)
}

// EnsureRatingIndexes adds the indexes the recompute hot paths rely on
// beyond what AutoMigrate derives from tags.
func EnsureRatingIndexes(db *gorm.DB) error {
	// Population assembly: approved entries per type inside the rolling
	// window, newest first.
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_entry_type_status_created
		ON measurement_entry (measurement_type_id, status, created_at DESC)
		WHERE deleted_at IS NULL;
	`).Error; err != nil {
		return fmt.Errorf("create idx_entry_type_status_created: %w", err)
	}

	// Latest-per-type lookup for one user.
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_entry_user_type_created
		ON measurement_entry (user_id, measurement_type_id, created_at DESC)
		WHERE deleted_at IS NULL;
	`).Error; err != nil {
		return fmt.Errorf("create idx_entry_user_type_created: %w", err)
	}

	// Ledger recency queries and retention cleanup.
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_rating_event_created_type
		ON rating_event (created_at DESC, event_type);
	`).Error; err != nil {
		return fmt.Errorf("create idx_rating_event_created_type: %w", err)
	}

	return nil
}
