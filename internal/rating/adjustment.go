package rating

import (
	"math"
	"time"

	"github.com/yungbote/fitrank-backend/internal/types"
)

// Factors is the set of multiplicative demographic fairness
// corrections for one profile. Each factor is 1.0 at its optimum band;
// Total is the geometric mean of the four, so no single extreme
// attribute dominates the adjustment.
type Factors struct {
	Sex    float64 `json:"sex_factor"`
	Age    float64 `json:"age_factor"`
	Weight float64 `json:"weight_factor"`
	Height float64 `json:"height_factor"`
	Total  float64 `json:"total_factor"`
}

// ComputeFactors derives the adjustment factors from a profile. The
// caller is responsible for checking profile completeness first;
// missing attributes fall back to factor 1.0.
func ComputeFactors(profile *types.User) Factors {
	f := Factors{
		Sex:    sexFactor(profile.SexAtBirth),
		Age:    ageFactor(profile.Age(time.Now())),
		Weight: bmiFactor(profile.BMI()),
		Height: heightFactor(profile.HeightCm),
	}
	f.Total = math.Pow(f.Sex*f.Age*f.Weight*f.Height, 0.25)
	return f
}

// Apply multiplies a raw rating by the total factor. The result is
// deliberately unclamped so Remove stays an exact inverse; bounding to
// the scale happens only when a rating is persisted.
func (f Factors) Apply(raw float64) float64 {
	return raw * f.Total
}

// Remove is the exact inverse of Apply:
// f.Remove(f.Apply(x)) == x up to floating-point tolerance.
func (f Factors) Remove(adjusted float64) float64 {
	if f.Total == 0 {
		return adjusted
	}
	return adjusted / f.Total
}

// Adjust applies the profile's demographic correction to a raw rating.
func Adjust(raw float64, profile *types.User) float64 {
	return ComputeFactors(profile).Apply(raw)
}

// Deadjust removes the profile's demographic correction.
func Deadjust(adjusted float64, profile *types.User) float64 {
	return ComputeFactors(profile).Remove(adjusted)
}

func sexFactor(sex string) float64 {
	if sex == types.SexFemale {
		return 1.15
	}
	return 1.0
}

// ageFactor peaks (1.0) at 25-34 and compensates increasingly outside
// that band. Unknown age (negative) gets no adjustment.
func ageFactor(age int) float64 {
	switch {
	case age < 0:
		return 1.0
	case age < 18:
		return 1.08
	case age < 25:
		return 1.02
	case age < 35:
		return 1.0
	case age < 45:
		return 1.05
	case age < 55:
		return 1.10
	case age < 65:
		return 1.18
	default:
		return 1.25
	}
}

// bmiFactor treats 18.5-25 as the optimum band.
func bmiFactor(bmi float64) float64 {
	switch {
	case bmi <= 0:
		return 1.0
	case bmi < 18.5:
		return 1.08
	case bmi < 25:
		return 1.0
	case bmi < 30:
		return 1.05
	case bmi < 35:
		return 1.12
	default:
		return 1.20
	}
}

// heightFactor treats 160-190cm as the optimum band.
func heightFactor(heightCm float64) float64 {
	switch {
	case heightCm <= 0:
		return 1.0
	case heightCm < 150:
		return 1.10
	case heightCm < 160:
		return 1.05
	case heightCm < 190:
		return 1.0
	case heightCm < 200:
		return 1.04
	default:
		return 1.08
	}
}
