package rating

// PercentileResult carries a percentile rank plus enough context for
// callers to judge how trustworthy it is.
type PercentileResult struct {
	Percentile float64 `json:"percentile"`
	SampleSize int     `json:"sample_size"`
	// NoData is set when the comparison population was empty and the
	// percentile is the 50.0 fallback rather than a real measurement.
	NoData bool `json:"no_data"`
}

// Percentile ranks value against population, returning the share of
// the population the value is not worse than, in [0, 100].
//
// Tie convention: a population member exactly equal to value counts as
// outperformed ("not worse" from the value's side). With population
// [80,90,100,110,120] and value 100 (higher is better) the result is
// 60: the value is >= three of the five members.
//
// When higherIsBetter is false the comparison direction inverts before
// ranking, so lower raw values rank higher.
func Percentile(population []float64, value float64, higherIsBetter bool) PercentileResult {
	n := len(population)
	if n == 0 {
		return PercentileResult{Percentile: 50, SampleSize: 0, NoData: true}
	}
	outperformed := 0
	for _, member := range population {
		if higherIsBetter {
			if member <= value {
				outperformed++
			}
		} else {
			if member >= value {
				outperformed++
			}
		}
	}
	return PercentileResult{
		Percentile: float64(outperformed) / float64(n) * 100,
		SampleSize: n,
	}
}
