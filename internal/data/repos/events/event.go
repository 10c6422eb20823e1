package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/fitrank-backend/internal/platform/logger"
	"github.com/yungbote/fitrank-backend/internal/types"
)

// UserStats aggregates a user's rating movement over a trailing
// window.
type UserStats struct {
	TotalChange     float64 `json:"total_change"`
	AverageChange   float64 `json:"average_change"`
	BestGain        float64 `json:"best_gain"`
	WorstLoss       float64 `json:"worst_loss"`
	EventCount      int64   `json:"event_count"`
	TierChangeCount int64   `json:"tier_change_count"`
}

// LeaderboardRow is one user's summed rating change over a window.
type LeaderboardRow struct {
	UserID      uuid.UUID `json:"user_id"`
	TotalChange float64   `json:"total_change"`
	EventCount  int64     `json:"event_count"`
}

type EventRepo interface {
	Create(ctx context.Context, tx *gorm.DB, event *types.RatingEvent) (*types.RatingEvent, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit, offset int) ([]*types.RatingEvent, error)
	ListByCategory(ctx context.Context, tx *gorm.DB, categoryID uuid.UUID, limit, offset int) ([]*types.RatingEvent, error)
	ListRecent(ctx context.Context, tx *gorm.DB, eventType string, limit, offset int) ([]*types.RatingEvent, error)
	Stats(ctx context.Context, tx *gorm.DB, userID uuid.UUID, since time.Time) (*UserStats, error)
	ChangeLeaderboard(ctx context.Context, tx *gorm.DB, since time.Time, limit int) ([]*LeaderboardRow, error)
	DeleteOlderThan(ctx context.Context, tx *gorm.DB, cutoff time.Time) (int64, error)
}

type eventRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEventRepo(db *gorm.DB, baseLog *logger.Logger) EventRepo {
	return &eventRepo{db: db, log: baseLog.With("repo", "EventRepo")}
}

// Create appends one ledger row. Rows are never updated afterwards.
func (er *eventRepo) Create(ctx context.Context, tx *gorm.DB, event *types.RatingEvent) (*types.RatingEvent, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	if err := transaction.WithContext(ctx).Create(event).Error; err != nil {
		return nil, err
	}
	return event, nil
}

func (er *eventRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit, offset int) ([]*types.RatingEvent, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}
	var rows []*types.RatingEvent
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (er *eventRepo) ListByCategory(ctx context.Context, tx *gorm.DB, categoryID uuid.UUID, limit, offset int) ([]*types.RatingEvent, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}
	var rows []*types.RatingEvent
	if err := transaction.WithContext(ctx).
		Where("category_id = ?", categoryID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (er *eventRepo) ListRecent(ctx context.Context, tx *gorm.DB, eventType string, limit, offset int) ([]*types.RatingEvent, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}
	q := transaction.WithContext(ctx).Model(&types.RatingEvent{})
	if eventType != "" {
		q = q.Where("event_type = ?", eventType)
	}
	var rows []*types.RatingEvent
	if err := q.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (er *eventRepo) Stats(ctx context.Context, tx *gorm.DB, userID uuid.UUID, since time.Time) (*UserStats, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}
	var stats UserStats
	if err := transaction.WithContext(ctx).
		Model(&types.RatingEvent{}).
		Select(`
			COALESCE(SUM(delta), 0)                                              AS total_change,
			COALESCE(AVG(delta), 0)                                              AS average_change,
			COALESCE(MAX(delta), 0)                                              AS best_gain,
			COALESCE(MIN(delta), 0)                                              AS worst_loss,
			COUNT(*)                                                             AS event_count,
			COALESCE(SUM(CASE WHEN event_type = ? THEN 1 ELSE 0 END), 0)         AS tier_change_count`,
			types.EventTypeTierChange).
		Where("user_id = ?", userID).
		Where("created_at >= ?", since).
		Scan(&stats).Error; err != nil {
		return nil, err
	}
	return &stats, nil
}

func (er *eventRepo) ChangeLeaderboard(ctx context.Context, tx *gorm.DB, since time.Time, limit int) ([]*LeaderboardRow, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}
	var rows []*LeaderboardRow
	if err := transaction.WithContext(ctx).
		Model(&types.RatingEvent{}).
		Select("user_id, COALESCE(SUM(delta), 0) AS total_change, COUNT(*) AS event_count").
		Where("created_at >= ?", since).
		Group("user_id").
		Order("total_change DESC").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// DeleteOlderThan is the only delete path on the ledger: age-based
// retention cleanup.
func (er *eventRepo) DeleteOlderThan(ctx context.Context, tx *gorm.DB, cutoff time.Time) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}
	res := transaction.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&types.RatingEvent{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
