package rating

import (
	"math"
	"testing"
)

func TestRatingFromPercentileMedian(t *testing.T) {
	r := RatingFromPercentile(50)
	if math.Abs(r-BaseRating) > 1e-9 {
		t.Fatalf("median percentile should map to base rating, got %v", r)
	}
}

func TestRatingFromPercentileWorkedExample(t *testing.T) {
	// 60th percentile -> 500 + 400*ln(0.6/0.4) ~= 662.
	r := RatingFromPercentile(60)
	want := BaseRating + RatingScale*math.Log(0.6/0.4)
	if math.Abs(r-want) > 1e-9 {
		t.Fatalf("expected %v, got %v", want, r)
	}
	if math.Abs(r-662.2) > 1 {
		t.Fatalf("expected ~662, got %v", r)
	}
}

func TestRatingBounds(t *testing.T) {
	for p := 0.0; p <= 100; p += 0.25 {
		r := RatingFromPercentile(p)
		if r < MinRating || r > MaxRating {
			t.Fatalf("rating %v out of bounds for percentile %v", r, p)
		}
	}
	if RatingFromPercentile(0) != MinRating {
		t.Fatalf("percentile 0 should clamp to the floor")
	}
	if RatingFromPercentile(100) != MaxRating {
		t.Fatalf("percentile 100 should clamp to the ceiling")
	}
}

func TestTransformRoundTrip(t *testing.T) {
	// Round trip holds wherever the rating is not clamped at the scale
	// bounds; sample the invertible band.
	for p := 25.0; p <= 99; p++ {
		r := RatingFromPercentile(p)
		if r <= MinRating || r >= MaxRating {
			continue
		}
		back := PercentileFromRating(r)
		if math.Abs(back-p) > 1e-6 {
			t.Fatalf("round trip p=%v -> r=%v -> %v", p, r, back)
		}
	}
}

func TestExpectedScore(t *testing.T) {
	if e := ExpectedScore(1000, 1000); math.Abs(e-0.5) > 1e-9 {
		t.Fatalf("equal ratings should expect 0.5, got %v", e)
	}
	stronger := ExpectedScore(1200, 1000)
	weaker := ExpectedScore(1000, 1200)
	if stronger <= 0.5 || weaker >= 0.5 {
		t.Fatalf("expected asymmetry, got %v vs %v", stronger, weaker)
	}
	if math.Abs(stronger+weaker-1) > 1e-9 {
		t.Fatalf("expectations should sum to 1, got %v", stronger+weaker)
	}
}

func TestNewRatingClamped(t *testing.T) {
	if r := NewRating(10, 0.9, 0, 32); r != MinRating {
		t.Fatalf("expected clamp to floor, got %v", r)
	}
	up := NewRating(1000, 0.5, 1, 32)
	if math.Abs(up-1016) > 1e-9 {
		t.Fatalf("expected 1016, got %v", up)
	}
}

func TestKFactorDampening(t *testing.T) {
	if k := KFactor(400, 0); k != 32 {
		t.Fatalf("fresh low rating should get full K, got %v", k)
	}
	if k := KFactor(2200, 0); k != 16 {
		t.Fatalf("high rating should dampen K, got %v", k)
	}
	few := KFactor(1000, 2)
	many := KFactor(1000, 50)
	if many >= few {
		t.Fatalf("more prior performances should shrink K: %v vs %v", few, many)
	}
	if k := KFactor(2900, 500); k != 8 {
		t.Fatalf("K must floor at 8, got %v", k)
	}
}
