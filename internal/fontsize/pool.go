package fontsize

import "math"

// Plausible filters a candidate pool down to values inside [min, max].
// Sizes outside the range are implausible as body text and are discarded
// before any statistics run.
func Plausible(pool []float64, min, max float64) []float64 {
	kept := make([]float64, 0, len(pool))
	for _, v := range pool {
		if v >= min && v <= max {
			kept = append(kept, v)
		}
	}
	return kept
}

// RejectOutliers trims candidates further than two population standard
// deviations from the mean. Pools of two or fewer values are returned
// unchanged; there is not enough signal to call anything an outlier.
func RejectOutliers(pool []float64) []float64 {
	if len(pool) <= 2 {
		return pool
	}

	mean := Mean(pool)

	var sumSq float64
	for _, v := range pool {
		d := v - mean
		sumSq += d * d
	}
	std := math.Sqrt(sumSq / float64(len(pool)))

	kept := make([]float64, 0, len(pool))
	for _, v := range pool {
		if math.Abs(v-mean) <= 2*std {
			kept = append(kept, v)
		}
	}
	return kept
}

// Mean returns the arithmetic mean of the pool, or 0 for an empty pool.
func Mean(pool []float64) float64 {
	if len(pool) == 0 {
		return 0
	}
	var sum float64
	for _, v := range pool {
		sum += v
	}
	return sum / float64(len(pool))
}
