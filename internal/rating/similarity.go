package rating

import (
	"math"
	"time"

	"github.com/yungbote/fitrank-backend/internal/types"
)

// Similarity thresholds for pairwise comparison display. Not part of
// the recompute path.
const (
	SimilarityFair       = 0.8
	SimilarityBorderline = 0.6
)

// Similarity scores how comparable two profiles are in [0, 1] as a
// weighted blend of sex match and age/height/weight closeness.
func Similarity(a, b *types.User) float64 {
	score := 0.0
	if a.SexAtBirth == b.SexAtBirth {
		score += 0.4
	}
	now := time.Now()
	score += 0.2 * closeness(float64(a.Age(now)), float64(b.Age(now)), 30)
	score += 0.2 * closeness(a.HeightCm, b.HeightCm, 30)
	score += 0.2 * closeness(a.WeightKg, b.WeightKg, 40)
	return score
}

// SimilarityVerdict buckets a similarity score for display.
func SimilarityVerdict(score float64) string {
	switch {
	case score >= SimilarityFair:
		return "fair"
	case score >= SimilarityBorderline:
		return "borderline"
	default:
		return "unfair"
	}
}

// closeness maps an absolute difference onto [0, 1], hitting zero at
// span.
func closeness(a, b, span float64) float64 {
	d := math.Abs(a-b) / span
	if d > 1 {
		return 0
	}
	return 1 - d
}
