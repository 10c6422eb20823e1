package entries

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/fitrank-backend/internal/platform/logger"
	"github.com/yungbote/fitrank-backend/internal/types"
)

// PopulationFilter narrows a comparison population to demographically
// similar users. A nil filter means the unfiltered global sample.
type PopulationFilter struct {
	Sex         string
	MinWeightKg float64
	MaxWeightKg float64
}

type EntryRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.MeasurementEntry) ([]*types.MeasurementEntry, error)
	ListTypesByCategory(ctx context.Context, tx *gorm.DB, categoryID uuid.UUID) ([]*types.MeasurementType, error)
	LatestApprovedPerType(ctx context.Context, tx *gorm.DB, userID, categoryID uuid.UUID, since time.Time) (map[uuid.UUID]*types.MeasurementEntry, error)
	ApprovedValues(ctx context.Context, tx *gorm.DB, typeID uuid.UUID, since time.Time, filter *PopulationFilter) ([]float64, error)
	CountApprovedForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, since time.Time) (int64, error)
}

type entryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEntryRepo(db *gorm.DB, baseLog *logger.Logger) EntryRepo {
	return &entryRepo{db: db, log: baseLog.With("repo", "EntryRepo")}
}

func (er *entryRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.MeasurementEntry) ([]*types.MeasurementEntry, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}
	if len(rows) == 0 {
		return []*types.MeasurementEntry{}, nil
	}
	for _, e := range rows {
		if e.ID == uuid.Nil {
			e.ID = uuid.New()
		}
	}
	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (er *entryRepo) ListTypesByCategory(ctx context.Context, tx *gorm.DB, categoryID uuid.UUID) ([]*types.MeasurementType, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}
	var rows []*types.MeasurementType
	if err := transaction.WithContext(ctx).
		Where("category_id = ?", categoryID).
		Order("name ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// LatestApprovedPerType returns the newest approved in-window entry
// per measurement type of the category, keyed by measurement type ID.
func (er *entryRepo) LatestApprovedPerType(ctx context.Context, tx *gorm.DB, userID, categoryID uuid.UUID, since time.Time) (map[uuid.UUID]*types.MeasurementEntry, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}
	var rows []*types.MeasurementEntry
	if err := transaction.WithContext(ctx).
		Joins("JOIN measurement_type mt ON mt.id = measurement_entry.measurement_type_id AND mt.deleted_at IS NULL").
		Where("mt.category_id = ?", categoryID).
		Where("measurement_entry.user_id = ?", userID).
		Where("measurement_entry.status = ?", types.EntryStatusApproved).
		Where("measurement_entry.created_at >= ?", since).
		Order("measurement_entry.created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	latest := make(map[uuid.UUID]*types.MeasurementEntry, len(rows))
	for _, e := range rows {
		if _, seen := latest[e.MeasurementTypeID]; !seen {
			latest[e.MeasurementTypeID] = e
		}
	}
	return latest, nil
}

// ApprovedValues returns the raw values of approved in-window entries
// for one measurement type, optionally narrowed by a demographic
// filter on the submitting user.
func (er *entryRepo) ApprovedValues(ctx context.Context, tx *gorm.DB, typeID uuid.UUID, since time.Time, filter *PopulationFilter) ([]float64, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}
	// The user join is unconditional so entries of soft-deleted users
	// never count, filtered or not.
	q := transaction.WithContext(ctx).
		Model(&types.MeasurementEntry{}).
		Joins(`JOIN "user" u ON u.id = measurement_entry.user_id AND u.deleted_at IS NULL`).
		Where("measurement_entry.measurement_type_id = ?", typeID).
		Where("measurement_entry.status = ?", types.EntryStatusApproved).
		Where("measurement_entry.created_at >= ?", since)
	if filter != nil {
		q = q.
			Where("u.sex_at_birth = ?", filter.Sex).
			Where("u.weight_kg >= ? AND u.weight_kg <= ?", filter.MinWeightKg, filter.MaxWeightKg)
	}
	var values []float64
	if err := q.Pluck("measurement_entry.value", &values).Error; err != nil {
		return nil, err
	}
	return values, nil
}

func (er *entryRepo) CountApprovedForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, since time.Time) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.MeasurementEntry{}).
		Where("user_id = ?", userID).
		Where("status = ?", types.EntryStatusApproved).
		Where("created_at >= ?", since).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
