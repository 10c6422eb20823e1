package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/fitrank-backend/internal/data/repos/events"
	errs "github.com/yungbote/fitrank-backend/internal/pkg/errors"
	"github.com/yungbote/fitrank-backend/internal/platform/logger"
	"github.com/yungbote/fitrank-backend/internal/types"
)

const (
	defaultPageLimit = 50
	maxPageLimit     = 200
)

// ChangeEvent is the input for one ledger append. Metadata is an
// opaque diagnostic payload that round-trips losslessly through
// storage.
type ChangeEvent struct {
	UserID     uuid.UUID
	CategoryID *uuid.UUID
	EventType  string
	OldValue   float64
	NewValue   float64
	Metadata   map[string]any
}

type RatingEventService interface {
	Record(ctx context.Context, tx *gorm.DB, input ChangeEvent) (*types.RatingEvent, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*types.RatingEvent, error)
	ListByCategory(ctx context.Context, categoryID uuid.UUID, limit, offset int) ([]*types.RatingEvent, error)
	ListRecent(ctx context.Context, eventType string, limit, offset int) ([]*types.RatingEvent, error)
	UserStats(ctx context.Context, userID uuid.UUID, days int) (*events.UserStats, error)
	ChangeLeaderboard(ctx context.Context, days, limit int) ([]*events.LeaderboardRow, error)
	Cleanup(ctx context.Context, olderThanDays int) (int64, error)
}

type ratingEventService struct {
	db   *gorm.DB
	log  *logger.Logger
	repo events.EventRepo
}

func NewRatingEventService(db *gorm.DB, baseLog *logger.Logger, repo events.EventRepo) RatingEventService {
	return &ratingEventService{
		db:   db,
		log:  baseLog.With("service", "RatingEventService"),
		repo: repo,
	}
}

func (s *ratingEventService) Record(ctx context.Context, tx *gorm.DB, input ChangeEvent) (*types.RatingEvent, error) {
	if input.UserID == uuid.Nil {
		return nil, fmt.Errorf("record event: user id required: %w", errs.ErrInvalidArgument)
	}
	switch input.EventType {
	case types.EventTypeRatingChange, types.EventTypeTierChange,
		types.EventTypeRecompute, types.EventTypeMeasurementImprovement:
	default:
		return nil, fmt.Errorf("record event: unknown event type %q: %w", input.EventType, errs.ErrInvalidArgument)
	}

	var metadata datatypes.JSON
	if len(input.Metadata) > 0 {
		raw, err := json.Marshal(input.Metadata)
		if err != nil {
			return nil, fmt.Errorf("marshal event metadata: %w", err)
		}
		metadata = datatypes.JSON(raw)
	}

	event := &types.RatingEvent{
		ID:         uuid.New(),
		UserID:     input.UserID,
		CategoryID: input.CategoryID,
		EventType:  input.EventType,
		OldValue:   input.OldValue,
		NewValue:   input.NewValue,
		Delta:      input.NewValue - input.OldValue,
		Metadata:   metadata,
		CreatedAt:  time.Now().UTC(),
	}
	return s.repo.Create(ctx, tx, event)
}

func (s *ratingEventService) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*types.RatingEvent, error) {
	limit, offset = clampPage(limit, offset)
	return s.repo.ListByUser(ctx, nil, userID, limit, offset)
}

func (s *ratingEventService) ListByCategory(ctx context.Context, categoryID uuid.UUID, limit, offset int) ([]*types.RatingEvent, error) {
	limit, offset = clampPage(limit, offset)
	return s.repo.ListByCategory(ctx, nil, categoryID, limit, offset)
}

func (s *ratingEventService) ListRecent(ctx context.Context, eventType string, limit, offset int) ([]*types.RatingEvent, error) {
	limit, offset = clampPage(limit, offset)
	return s.repo.ListRecent(ctx, nil, eventType, limit, offset)
}

func (s *ratingEventService) UserStats(ctx context.Context, userID uuid.UUID, days int) (*events.UserStats, error) {
	if days <= 0 {
		days = 30
	}
	since := time.Now().UTC().AddDate(0, 0, -days)
	return s.repo.Stats(ctx, nil, userID, since)
}

func (s *ratingEventService) ChangeLeaderboard(ctx context.Context, days, limit int) ([]*events.LeaderboardRow, error) {
	if days <= 0 {
		days = 30
	}
	limit, _ = clampPage(limit, 0)
	since := time.Now().UTC().AddDate(0, 0, -days)
	return s.repo.ChangeLeaderboard(ctx, nil, since, limit)
}

func (s *ratingEventService) Cleanup(ctx context.Context, olderThanDays int) (int64, error) {
	if olderThanDays <= 0 {
		return 0, fmt.Errorf("cleanup: olderThanDays must be positive: %w", errs.ErrInvalidArgument)
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -olderThanDays)
	deleted, err := s.repo.DeleteOlderThan(ctx, nil, cutoff)
	if err != nil {
		return 0, err
	}
	s.log.Info("rating event retention cleanup", "older_than_days", olderThanDays, "deleted", deleted)
	return deleted, nil
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
