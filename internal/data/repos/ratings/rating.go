package ratings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	errs "github.com/yungbote/fitrank-backend/internal/pkg/errors"
	"github.com/yungbote/fitrank-backend/internal/platform/logger"
	"github.com/yungbote/fitrank-backend/internal/types"
)

type RatingRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.Rating) ([]*types.Rating, error)
	GetByUserCategory(ctx context.Context, tx *gorm.DB, userID, categoryID uuid.UUID) (*types.Rating, error)
	UpdateValue(ctx context.Context, tx *gorm.DB, userID, categoryID uuid.UUID, value float64) error
	ListByCategory(ctx context.Context, tx *gorm.DB, categoryID uuid.UUID) ([]*types.Rating, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Rating, error)
	GetOverall(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.OverallRating, error)
	UpsertOverall(ctx context.Context, tx *gorm.DB, userID uuid.UUID, value float64) error
}

type ratingRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRatingRepo(db *gorm.DB, baseLog *logger.Logger) RatingRepo {
	return &ratingRepo{db: db, log: baseLog.With("repo", "RatingRepo")}
}

func (rr *ratingRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.Rating) ([]*types.Rating, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	if len(rows) == 0 {
		return []*types.Rating{}, nil
	}
	for _, r := range rows {
		if r.ID == uuid.Nil {
			r.ID = uuid.New()
		}
	}
	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (rr *ratingRepo) GetByUserCategory(ctx context.Context, tx *gorm.DB, userID, categoryID uuid.UUID) (*types.Rating, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	var row types.Rating
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND category_id = ?", userID, categoryID).
		First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("rating user=%s category=%s: %w", userID, categoryID, errs.ErrNotFound)
		}
		return nil, err
	}
	return &row, nil
}

func (rr *ratingRepo) UpdateValue(ctx context.Context, tx *gorm.DB, userID, categoryID uuid.UUID, value float64) error {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Rating{}).
		Where("user_id = ? AND category_id = ?", userID, categoryID).
		Updates(map[string]any{
			"value":      value,
			"updated_at": time.Now().UTC(),
		}).Error
}

func (rr *ratingRepo) ListByCategory(ctx context.Context, tx *gorm.DB, categoryID uuid.UUID) ([]*types.Rating, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	var rows []*types.Rating
	if err := transaction.WithContext(ctx).
		Where("category_id = ?", categoryID).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (rr *ratingRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Rating, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	var rows []*types.Rating
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (rr *ratingRepo) GetOverall(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.OverallRating, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	var row types.OverallRating
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("overall rating user=%s: %w", userID, errs.ErrNotFound)
		}
		return nil, err
	}
	return &row, nil
}

func (rr *ratingRepo) UpsertOverall(ctx context.Context, tx *gorm.DB, userID uuid.UUID, value float64) error {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	now := time.Now().UTC()
	row := &types.OverallRating{
		ID:        uuid.New(),
		UserID:    userID,
		Value:     value,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]any{"value": value, "updated_at": now}),
		}).
		Create(row).Error
}
