package rating

import (
	"time"

	"github.com/google/uuid"
)

type WeightStrategy string

const (
	// WeightStrategyEqual weighs every measurement type the same.
	WeightStrategyEqual WeightStrategy = "equal"
	// WeightStrategyMeasurement uses each measurement type's configured
	// weight.
	WeightStrategyMeasurement WeightStrategy = "measurement_weight"
)

// Options is the explicit engine configuration, passed in at
// construction time. The engine performs no ambient environment
// lookups; env resolution happens once at the app boundary.
type Options struct {
	// RollingWindowDays bounds entry eligibility: only approved entries
	// newer than now minus this window feed ratings or populations.
	RollingWindowDays int
	WeightStrategy    WeightStrategy
	EnableAdjustments bool
	// MinPopulationSize is the sample size below which the distribution
	// builder keeps widening its demographic filter.
	MinPopulationSize int

	// Bodyweight band filter: start at +-WeightBandPct around the
	// user's weight and multiply the band by WeightBandGrowth per
	// attempt, WeightBandAttempts times, before falling back to the
	// unfiltered global sample. Heuristic constants kept configurable.
	WeightBandPct      float64
	WeightBandGrowth   float64
	WeightBandAttempts int

	// BatchConcurrency bounds parallel users during category-wide and
	// batch recompute.
	BatchConcurrency int

	// CategoryWeights optionally biases the overall-rating aggregate;
	// missing categories weigh 1.0.
	CategoryWeights map[uuid.UUID]float64
}

func DefaultOptions() Options {
	return Options{
		RollingWindowDays:  180,
		WeightStrategy:     WeightStrategyEqual,
		EnableAdjustments:  true,
		MinPopulationSize:  10,
		WeightBandPct:      0.10,
		WeightBandGrowth:   2.0,
		WeightBandAttempts: 3,
		BatchConcurrency:   4,
	}
}

// Normalize fills zero fields with defaults so a partially built
// Options never divides by zero or loops forever.
func (o Options) Normalize() Options {
	def := DefaultOptions()
	if o.RollingWindowDays <= 0 {
		o.RollingWindowDays = def.RollingWindowDays
	}
	if o.WeightStrategy == "" {
		o.WeightStrategy = def.WeightStrategy
	}
	if o.MinPopulationSize <= 0 {
		o.MinPopulationSize = def.MinPopulationSize
	}
	if o.WeightBandPct <= 0 {
		o.WeightBandPct = def.WeightBandPct
	}
	if o.WeightBandGrowth <= 1 {
		o.WeightBandGrowth = def.WeightBandGrowth
	}
	if o.WeightBandAttempts <= 0 {
		o.WeightBandAttempts = def.WeightBandAttempts
	}
	if o.BatchConcurrency <= 0 {
		o.BatchConcurrency = def.BatchConcurrency
	}
	return o
}

// WindowStart is the oldest eligible entry timestamp as of now.
func (o Options) WindowStart(now time.Time) time.Time {
	return now.AddDate(0, 0, -o.RollingWindowDays)
}
