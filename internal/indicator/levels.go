package indicator

import "sort"

// Support estimates a support level: the mean of the k smallest
// rolling-window lows. Returns ok=false when there are fewer lows
// than the window.
func Support(lows []float64, window, k int) (float64, bool) {
	mins := rollingMin(lows, window)
	return meanOfExtremes(mins, k, false)
}

// Resistance estimates a resistance level: the mean of the k largest
// rolling-window highs.
func Resistance(highs []float64, window, k int) (float64, bool) {
	maxs := rollingMax(highs, window)
	return meanOfExtremes(maxs, k, true)
}

func rollingMin(vals []float64, window int) []float64 {
	if window <= 0 || len(vals) < window {
		return nil
	}
	out := make([]float64, 0, len(vals)-window+1)
	for i := window; i <= len(vals); i++ {
		m := vals[i-window]
		for _, v := range vals[i-window+1 : i] {
			if v < m {
				m = v
			}
		}
		out = append(out, m)
	}
	return out
}

func rollingMax(vals []float64, window int) []float64 {
	if window <= 0 || len(vals) < window {
		return nil
	}
	out := make([]float64, 0, len(vals)-window+1)
	for i := window; i <= len(vals); i++ {
		m := vals[i-window]
		for _, v := range vals[i-window+1 : i] {
			if v > m {
				m = v
			}
		}
		out = append(out, m)
	}
	return out
}

// meanOfExtremes averages the k smallest (or largest) values.
func meanOfExtremes(vals []float64, k int, largest bool) (float64, bool) {
	if len(vals) == 0 || k <= 0 {
		return 0, false
	}
	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)
	if largest {
		sorted = sorted[len(sorted)-min(k, len(sorted)):]
	} else {
		sorted = sorted[:min(k, len(sorted))]
	}

	var sum float64
	for _, v := range sorted {
		sum += v
	}
	return sum / float64(len(sorted)), true
}
