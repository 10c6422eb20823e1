package rating

import (
	"testing"

	"github.com/yungbote/fitrank-backend/internal/types"
)

func TestSimilarityIdenticalProfiles(t *testing.T) {
	a := profileWith(types.SexFemale, 28, 170, 65)
	b := profileWith(types.SexFemale, 28, 170, 65)
	if s := Similarity(a, b); s < 0.999 {
		t.Fatalf("identical profiles should score ~1.0, got %v", s)
	}
	if v := SimilarityVerdict(Similarity(a, b)); v != "fair" {
		t.Fatalf("expected fair verdict, got %q", v)
	}
}

func TestSimilarityDissimilarProfiles(t *testing.T) {
	a := profileWith(types.SexFemale, 22, 155, 50)
	b := profileWith(types.SexMale, 58, 198, 115)
	s := Similarity(a, b)
	if s >= SimilarityBorderline {
		t.Fatalf("expected unfair comparison, got %v", s)
	}
	if v := SimilarityVerdict(s); v != "unfair" {
		t.Fatalf("expected unfair verdict, got %q", v)
	}
}

func TestSimilarityVerdictBuckets(t *testing.T) {
	if SimilarityVerdict(0.85) != "fair" {
		t.Fatalf("0.85 should be fair")
	}
	if SimilarityVerdict(0.7) != "borderline" {
		t.Fatalf("0.7 should be borderline")
	}
	if SimilarityVerdict(0.5) != "unfair" {
		t.Fatalf("0.5 should be unfair")
	}
}
