package rating

import "math"

const (
	// BaseRating is the rating of a median performer. The 500 midpoint
	// (rather than the classical 1000/1500 conventions) is load-bearing:
	// stored ratings and tier thresholds assume it.
	BaseRating = 500.0
	// RatingScale is the logistic slope of the percentile transform.
	RatingScale = 400.0

	MinRating = 0.0
	MaxRating = 3000.0

	// Percentiles are clamped away from 0 and 100 before the logit so
	// the transform never produces infinities.
	minPercentile = 0.1
	maxPercentile = 99.9

	// NegligibleDelta is the change magnitude below which a recompute
	// is not worth an audit event.
	NegligibleDelta = 0.01
)

// RatingFromPercentile maps a percentile rank in [0, 100] onto the
// bounded rating scale via a logistic curve. The 50th percentile maps
// to BaseRating.
func RatingFromPercentile(percentile float64) float64 {
	p := clamp(percentile, minPercentile, maxPercentile) / 100
	r := BaseRating + RatingScale*math.Log(p/(1-p))
	return clamp(r, MinRating, MaxRating)
}

// PercentileFromRating inverts RatingFromPercentile for ratings inside
// the unclamped band. Ratings that were clamped at the scale bounds
// map back to the percentile of the bound, not the original input.
func PercentileFromRating(rating float64) float64 {
	p := 1 / (1 + math.Exp(-(rating-BaseRating)/RatingScale))
	return clamp(p*100, 0, 100)
}

// ExpectedScore is the classical head-to-head expectation of player a
// against player b. Retained for live-challenge contexts; the primary
// recompute path is percentile driven.
func ExpectedScore(a, b float64) float64 {
	return 1 / (1 + math.Pow(10, (b-a)/RatingScale))
}

// NewRating applies the classical update current + k*(actual-expected),
// clamped to the scale bounds.
func NewRating(current, expected, actual, k float64) float64 {
	return clamp(current+k*(actual-expected), MinRating, MaxRating)
}

// KFactor shrinks the update step for established players: it drops
// with higher current rating and with the number of prior recorded
// performances, and never goes below 8.
func KFactor(current float64, priorPerformances int) float64 {
	k := 32.0
	switch {
	case current >= 2000:
		k = 16
	case current >= 1600:
		k = 24
	}
	if priorPerformances > 0 {
		k /= 1 + float64(priorPerformances)/20
	}
	if k < 8 {
		k = 8
	}
	return k
}

// ClampToScale bounds a rating to [MinRating, MaxRating]. Persisted
// ratings are always clamped; intermediate values (notably adjusted
// ratings that must survive a Deadjust round-trip) are not.
func ClampToScale(v float64) float64 {
	return clamp(v, MinRating, MaxRating)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
