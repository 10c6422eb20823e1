package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/fitrank-backend/internal/data/repos/entries"
	"github.com/yungbote/fitrank-backend/internal/platform/logger"
	"github.com/yungbote/fitrank-backend/internal/rating"
	"github.com/yungbote/fitrank-backend/internal/types"
)

// Distribution is one comparison population for a measurement type.
type Distribution struct {
	Values []float64
	// Filtered reports whether the demographic filter held; false means
	// the unfiltered global fallback was used and fairness on this
	// measurement type is degraded.
	Filtered bool
	// Attempts is how many band widenings it took (0 when the global
	// fallback was used).
	Attempts int
}

// DistributionBuilder assembles comparison populations from recent
// approved entries: same sex, adaptively widening bodyweight band,
// global fallback when peers are too sparse.
type DistributionBuilder struct {
	entries entries.EntryRepo
	log     *logger.Logger
}

func NewDistributionBuilder(entryRepo entries.EntryRepo, baseLog *logger.Logger) *DistributionBuilder {
	return &DistributionBuilder{
		entries: entryRepo,
		log:     baseLog.With("service", "DistributionBuilder"),
	}
}

// Build returns one distribution per measurement type, keyed by type
// ID. Widening is bounded: opts.WeightBandAttempts tries, then the
// unfiltered global sample. An empty global sample yields an empty
// distribution, never an error, so recompute can always proceed.
func (b *DistributionBuilder) Build(ctx context.Context, tx *gorm.DB, measurementTypes []*types.MeasurementType, profile *types.User, now time.Time, opts rating.Options) (map[uuid.UUID]Distribution, error) {
	opts = opts.Normalize()
	since := opts.WindowStart(now)

	out := make(map[uuid.UUID]Distribution, len(measurementTypes))
	for _, mt := range measurementTypes {
		dist, err := b.buildOne(ctx, tx, mt.ID, profile, since, opts)
		if err != nil {
			return nil, err
		}
		out[mt.ID] = dist
	}
	return out, nil
}

func (b *DistributionBuilder) buildOne(ctx context.Context, tx *gorm.DB, typeID uuid.UUID, profile *types.User, since time.Time, opts rating.Options) (Distribution, error) {
	band := opts.WeightBandPct
	for attempt := 1; attempt <= opts.WeightBandAttempts; attempt++ {
		filter := &entries.PopulationFilter{
			Sex:         profile.SexAtBirth,
			MinWeightKg: profile.WeightKg * (1 - band),
			MaxWeightKg: profile.WeightKg * (1 + band),
		}
		values, err := b.entries.ApprovedValues(ctx, tx, typeID, since, filter)
		if err != nil {
			return Distribution{}, err
		}
		if len(values) >= opts.MinPopulationSize {
			return Distribution{Values: values, Filtered: true, Attempts: attempt}, nil
		}
		band *= opts.WeightBandGrowth
	}

	// Sparse measurement type: trade fairness for availability.
	b.log.Debug("population filter too sparse, falling back to global sample",
		"measurement_type_id", typeID, "attempts", opts.WeightBandAttempts)
	values, err := b.entries.ApprovedValues(ctx, tx, typeID, since, nil)
	if err != nil {
		return Distribution{}, err
	}
	return Distribution{Values: values, Filtered: false}, nil
}
