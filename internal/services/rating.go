package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/fitrank-backend/internal/data/repos/entries"
	"github.com/yungbote/fitrank-backend/internal/data/repos/profiles"
	"github.com/yungbote/fitrank-backend/internal/data/repos/ratings"
	errs "github.com/yungbote/fitrank-backend/internal/pkg/errors"
	"github.com/yungbote/fitrank-backend/internal/platform/logger"
	"github.com/yungbote/fitrank-backend/internal/rating"
	"github.com/yungbote/fitrank-backend/internal/types"
)

// RecomputeFactors explains how a recompute arrived at its value.
type RecomputeFactors struct {
	// MeasurementCount is how many measurement types contributed.
	MeasurementCount int `json:"measurement_count"`
	// PopulationSize is the smallest comparison population among the
	// contributing measurement types: the weakest comparability link.
	PopulationSize int `json:"population_size"`
	// AdjustmentApplied reports whether the demographic fairness factor
	// was applied to the raw rating.
	AdjustmentApplied bool `json:"adjustment_applied"`
}

type RecomputeResult struct {
	UserID      uuid.UUID   `json:"user_id"`
	CategoryID  uuid.UUID   `json:"category_id"`
	OldValue    float64     `json:"old_value"`
	NewValue    float64     `json:"new_value"`
	Change      float64     `json:"change"`
	OldTier     rating.Tier `json:"old_tier"`
	NewTier     rating.Tier `json:"new_tier"`
	TierChanged bool        `json:"tier_changed"`
	// NoEligibleData marks the no-op case: zero approved entries in the
	// rolling window. Explicitly not an error.
	NoEligibleData bool             `json:"no_eligible_data,omitempty"`
	Factors        RecomputeFactors `json:"factors"`
}

type OverallResult struct {
	UserID   uuid.UUID `json:"user_id"`
	OldValue float64   `json:"old_value"`
	NewValue float64   `json:"new_value"`
	Change   float64   `json:"change"`
}

type RatingService interface {
	RecomputeUserCategoryRating(ctx context.Context, userID, categoryID uuid.UUID) (*RecomputeResult, error)
	RecomputeCategoryRatings(ctx context.Context, categoryID uuid.UUID) ([]*RecomputeResult, error)
	RecomputeOverallRating(ctx context.Context, userID uuid.UUID) (*OverallResult, error)
	BatchRecompute(ctx context.Context, userIDs []uuid.UUID, categoryID *uuid.UUID) ([]*RecomputeResult, error)
}

type ratingService struct {
	db       *gorm.DB
	log      *logger.Logger
	opts     rating.Options
	ratings  ratings.RatingRepo
	entries  entries.EntryRepo
	profiles profiles.ProfileRepo
	events   RatingEventService
	dist     *DistributionBuilder
	lock     RecomputeLock
}

// NewRatingService builds the recompute orchestrator. opts is the
// explicit engine configuration; zero fields fall back to defaults.
// lock may be nil, in which case serialization is left to the data
// layer's read-modify-write.
func NewRatingService(
	db *gorm.DB,
	baseLog *logger.Logger,
	opts rating.Options,
	ratingRepo ratings.RatingRepo,
	entryRepo entries.EntryRepo,
	profileRepo profiles.ProfileRepo,
	eventService RatingEventService,
	dist *DistributionBuilder,
	lock RecomputeLock,
) RatingService {
	return &ratingService{
		db:       db,
		log:      baseLog.With("service", "RatingService"),
		opts:     opts.Normalize(),
		ratings:  ratingRepo,
		entries:  entryRepo,
		profiles: profileRepo,
		events:   eventService,
		dist:     dist,
		lock:     lock,
	}
}

func (s *ratingService) RecomputeUserCategoryRating(ctx context.Context, userID, categoryID uuid.UUID) (*RecomputeResult, error) {
	if s.lock != nil {
		release, err := s.lock.Acquire(ctx, userID, categoryID)
		if err != nil {
			// Proceed unlocked rather than block the workflow; the rating
			// row update remains the serialization point.
			s.log.Warn("recompute lock not acquired", "user_id", userID, "category_id", categoryID, "error", err)
		} else {
			defer release()
		}
	}
	return s.recomputeUserCategory(ctx, nil, userID, categoryID)
}

func (s *ratingService) recomputeUserCategory(ctx context.Context, tx *gorm.DB, userID, categoryID uuid.UUID) (*RecomputeResult, error) {
	current, err := s.ratings.GetByUserCategory(ctx, tx, userID, categoryID)
	if err != nil {
		return nil, err
	}

	profile, err := s.profiles.GetByID(ctx, tx, userID)
	if err != nil {
		return nil, err
	}
	if !profile.HasCompleteProfile() {
		return nil, fmt.Errorf("recompute user=%s: %w", userID, errs.ErrIncompleteProfile)
	}

	now := time.Now().UTC()
	since := s.opts.WindowStart(now)

	oldTier := rating.TierFor(current.Value)
	result := &RecomputeResult{
		UserID:     userID,
		CategoryID: categoryID,
		OldValue:   current.Value,
		NewValue:   current.Value,
		OldTier:    oldTier,
		NewTier:    oldTier,
	}

	latest, err := s.entries.LatestApprovedPerType(ctx, tx, userID, categoryID, since)
	if err != nil {
		return nil, err
	}
	if len(latest) == 0 {
		// No eligible data is a no-op, not an error, and writes no event.
		result.NoEligibleData = true
		return result, nil
	}

	measurementTypes, err := s.entries.ListTypesByCategory(ctx, tx, categoryID)
	if err != nil {
		return nil, err
	}

	distributions, err := s.dist.Build(ctx, tx, measurementTypes, profile, now, s.opts)
	if err != nil {
		return nil, err
	}

	var (
		weightedSum float64
		totalWeight float64
		count       int
		minPop      int
	)
	for _, mt := range measurementTypes {
		entry, ok := latest[mt.ID]
		if !ok {
			continue
		}
		dist := distributions[mt.ID]
		if len(dist.Values) == 0 {
			continue
		}
		pr := rating.Percentile(dist.Values, entry.Value, mt.HigherIsBetter)
		weight := 1.0
		if s.opts.WeightStrategy == rating.WeightStrategyMeasurement && mt.Weight > 0 {
			weight = mt.Weight
		}
		weightedSum += rating.RatingFromPercentile(pr.Percentile) * weight
		totalWeight += weight
		count++
		if minPop == 0 || pr.SampleSize < minPop {
			minPop = pr.SampleSize
		}
	}

	raw := rating.BaseRating
	if totalWeight > 0 {
		raw = weightedSum / totalWeight
	}

	newValue := raw
	adjusted := false
	if s.opts.EnableAdjustments {
		newValue = rating.Adjust(raw, profile)
		adjusted = true
	}
	// The adjustment itself is unclamped (it must stay invertible);
	// the stored rating is bounded to the scale here.
	newValue = rating.ClampToScale(newValue)

	if err := s.ratings.UpdateValue(ctx, tx, userID, categoryID, newValue); err != nil {
		return nil, err
	}

	result.NewValue = newValue
	result.Change = newValue - current.Value
	result.NewTier = rating.TierFor(newValue)
	result.TierChanged = result.NewTier != result.OldTier
	result.Factors = RecomputeFactors{
		MeasurementCount:  count,
		PopulationSize:    minPop,
		AdjustmentApplied: adjusted,
	}

	s.emitRecomputeEvent(ctx, tx, result)
	return result, nil
}

// emitRecomputeEvent appends the audit event for a non-negligible
// change. Ledger write failures are logged and swallowed: audit-trail
// durability must never fail the recompute itself.
func (s *ratingService) emitRecomputeEvent(ctx context.Context, tx *gorm.DB, result *RecomputeResult) {
	if math.Abs(result.Change) <= rating.NegligibleDelta {
		return
	}
	eventType := types.EventTypeRatingChange
	if result.TierChanged {
		eventType = types.EventTypeTierChange
	}
	categoryID := result.CategoryID
	_, err := s.events.Record(ctx, tx, ChangeEvent{
		UserID:     result.UserID,
		CategoryID: &categoryID,
		EventType:  eventType,
		OldValue:   result.OldValue,
		NewValue:   result.NewValue,
		Metadata: map[string]any{
			"old_tier":           string(result.OldTier),
			"new_tier":           string(result.NewTier),
			"measurement_count":  result.Factors.MeasurementCount,
			"population_size":    result.Factors.PopulationSize,
			"adjustment_applied": result.Factors.AdjustmentApplied,
		},
	})
	if err != nil {
		s.log.Warn("failed to record rating event",
			"user_id", result.UserID, "category_id", result.CategoryID, "error", err)
	}
}

// RecomputeCategoryRatings recomputes every enrolled user in the
// category. Users are independent, so the work runs in parallel with a
// bounded group; one bad profile is logged and excluded, never aborts
// the batch.
func (s *ratingService) RecomputeCategoryRatings(ctx context.Context, categoryID uuid.UUID) ([]*RecomputeResult, error) {
	enrolled, err := s.ratings.ListByCategory(ctx, nil, categoryID)
	if err != nil {
		return nil, err
	}
	userIDs := make([]uuid.UUID, 0, len(enrolled))
	for _, r := range enrolled {
		userIDs = append(userIDs, r.UserID)
	}
	return s.recomputeUsers(ctx, userIDs, func(ctx context.Context, userID uuid.UUID) (*RecomputeResult, error) {
		return s.RecomputeUserCategoryRating(ctx, userID, categoryID)
	})
}

func (s *ratingService) RecomputeOverallRating(ctx context.Context, userID uuid.UUID) (*OverallResult, error) {
	categoryRatings, err := s.ratings.ListByUser(ctx, nil, userID)
	if err != nil {
		return nil, err
	}

	oldValue := 0.0
	if existing, err := s.ratings.GetOverall(ctx, nil, userID); err == nil {
		oldValue = existing.Value
	} else if !errors.Is(err, errs.ErrNotFound) {
		return nil, err
	}

	result := &OverallResult{UserID: userID, OldValue: oldValue, NewValue: oldValue}
	if len(categoryRatings) == 0 {
		return result, nil
	}

	var weightedSum, totalWeight float64
	for _, r := range categoryRatings {
		weight := 1.0
		if w, ok := s.opts.CategoryWeights[r.CategoryID]; ok && w > 0 {
			weight = w
		}
		weightedSum += r.Value * weight
		totalWeight += weight
	}
	newValue := weightedSum / totalWeight

	if err := s.ratings.UpsertOverall(ctx, nil, userID, newValue); err != nil {
		return nil, err
	}
	result.NewValue = newValue
	result.Change = newValue - oldValue

	if math.Abs(result.Change) > rating.NegligibleDelta {
		if _, err := s.events.Record(ctx, nil, ChangeEvent{
			UserID:    userID,
			EventType: types.EventTypeRecompute,
			OldValue:  oldValue,
			NewValue:  newValue,
			Metadata:  map[string]any{"category_count": len(categoryRatings)},
		}); err != nil {
			s.log.Warn("failed to record overall rating event", "user_id", userID, "error", err)
		}
	}
	return result, nil
}

// BatchRecompute recomputes a set of users: one category when given,
// otherwise every category each user is enrolled in. Failures are
// isolated per user.
func (s *ratingService) BatchRecompute(ctx context.Context, userIDs []uuid.UUID, categoryID *uuid.UUID) ([]*RecomputeResult, error) {
	if categoryID != nil {
		target := *categoryID
		return s.recomputeUsers(ctx, userIDs, func(ctx context.Context, userID uuid.UUID) (*RecomputeResult, error) {
			return s.RecomputeUserCategoryRating(ctx, userID, target)
		})
	}

	var (
		mu      sync.Mutex
		results []*RecomputeResult
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.BatchConcurrency)
	for _, userID := range userIDs {
		userID := userID
		g.Go(func() error {
			enrolled, err := s.ratings.ListByUser(gctx, nil, userID)
			if err != nil {
				s.log.Error("batch recompute: listing enrollments failed", "user_id", userID, "error", err)
				return nil
			}
			for _, r := range enrolled {
				res, err := s.RecomputeUserCategoryRating(gctx, userID, r.CategoryID)
				if err != nil {
					s.log.Error("batch recompute: user failed", "user_id", userID, "category_id", r.CategoryID, "error", err)
					continue
				}
				mu.Lock()
				results = append(results, res)
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// recomputeUsers fans one recompute function out over users with
// bounded parallelism and per-user error isolation.
func (s *ratingService) recomputeUsers(ctx context.Context, userIDs []uuid.UUID, fn func(context.Context, uuid.UUID) (*RecomputeResult, error)) ([]*RecomputeResult, error) {
	var (
		mu      sync.Mutex
		results []*RecomputeResult
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.BatchConcurrency)
	for _, userID := range userIDs {
		userID := userID
		g.Go(func() error {
			res, err := fn(gctx, userID)
			if err != nil {
				s.log.Error("recompute failed for user", "user_id", userID, "error", err)
				return nil
			}
			mu.Lock()
			results = append(results, res)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
