package rating

import (
	"math"
	"testing"
)

func TestPercentileEmptyPopulation(t *testing.T) {
	res := Percentile(nil, 42, true)
	if !res.NoData {
		t.Fatalf("expected NoData for empty population")
	}
	if res.Percentile != 50 {
		t.Fatalf("expected fallback percentile 50, got %v", res.Percentile)
	}
	if res.SampleSize != 0 {
		t.Fatalf("expected sample size 0, got %d", res.SampleSize)
	}
}

func TestPercentileWorkedExample(t *testing.T) {
	pop := []float64{80, 90, 100, 110, 120}
	res := Percentile(pop, 100, true)
	if res.NoData {
		t.Fatalf("unexpected NoData")
	}
	if math.Abs(res.Percentile-60) > 1e-9 {
		t.Fatalf("expected percentile 60, got %v", res.Percentile)
	}
	if res.SampleSize != 5 {
		t.Fatalf("expected sample size 5, got %d", res.SampleSize)
	}
}

func TestPercentileLowerIsBetter(t *testing.T) {
	// Sprint times: lower is better. 12.0 beats 13 and 14 and ties 12.
	pop := []float64{11, 12, 13, 14}
	res := Percentile(pop, 12, false)
	if math.Abs(res.Percentile-75) > 1e-9 {
		t.Fatalf("expected percentile 75, got %v", res.Percentile)
	}
}

func TestPercentileMonotonic(t *testing.T) {
	pop := []float64{5, 5, 7, 9, 9, 9, 14, 21, 21, 30}
	prev := -1.0
	for v := 0.0; v <= 35; v += 0.5 {
		cur := Percentile(pop, v, true).Percentile
		if cur < prev {
			t.Fatalf("percentile decreased from %v to %v at value %v", prev, cur, v)
		}
		prev = cur
	}

	prev = 101
	for v := 0.0; v <= 35; v += 0.5 {
		cur := Percentile(pop, v, false).Percentile
		if cur > prev {
			t.Fatalf("inverted percentile increased from %v to %v at value %v", prev, cur, v)
		}
		prev = cur
	}
}

func TestPercentileTieAtMedian(t *testing.T) {
	// A user exactly at the unique median outperforms the median member
	// plus everyone below it.
	pop := []float64{10, 20, 30}
	res := Percentile(pop, 20, true)
	want := 2.0 / 3.0 * 100
	if math.Abs(res.Percentile-want) > 1e-9 {
		t.Fatalf("expected %v, got %v", want, res.Percentile)
	}
}
