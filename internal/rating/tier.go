package rating

// Tier is a display band derived from a rating value. Tiers are never
// stored; they are always recomputed from the current rating.
type Tier string

const (
	TierBeginner     Tier = "beginner"
	TierIntermediate Tier = "intermediate"
	TierAdvanced     Tier = "advanced"
	TierExpert       Tier = "expert"
	TierMaster       Tier = "master"
	TierLegendary    Tier = "legendary"
)

func TierFor(value float64) Tier {
	switch {
	case value < 500:
		return TierBeginner
	case value < 1000:
		return TierIntermediate
	case value < 1500:
		return TierAdvanced
	case value < 2000:
		return TierExpert
	case value < 2500:
		return TierMaster
	default:
		return TierLegendary
	}
}
