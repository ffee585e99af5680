package analytics

import (
	"math"
	"sort"
)

// Descriptive statistics over raw score slices. These mirror the moments the
// dashboard reports for a score distribution.

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func median(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

func stdDev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := mean(xs)
	var sum float64
	for _, x := range xs {
		d := x - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(xs)-1))
}

// skewness is the adjusted Fisher-Pearson coefficient, matching what pandas
// reports for the same column.
func skewness(xs []float64) float64 {
	n := float64(len(xs))
	if n < 3 {
		return 0
	}
	m := mean(xs)
	s := stdDev(xs)
	if s == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		d := (x - m) / s
		sum += d * d * d
	}
	return n / ((n - 1) * (n - 2)) * sum
}

// kurtosis is excess kurtosis with the standard sample bias correction.
func kurtosis(xs []float64) float64 {
	n := float64(len(xs))
	if n < 4 {
		return 0
	}
	m := mean(xs)
	s := stdDev(xs)
	if s == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		d := (x - m) / s
		sum += d * d * d * d
	}
	return n*(n+1)/((n-1)*(n-2)*(n-3))*sum - 3*(n-1)*(n-1)/((n-2)*(n-3))
}

// pearson computes the Pearson correlation coefficient for paired samples.
func pearson(xs, ys []float64) float64 {
	n := len(xs)
	if n != len(ys) || n < 2 {
		return 0
	}
	mx, my := mean(xs), mean(ys)
	var sxy, sxx, syy float64
	for i := 0; i < n; i++ {
		dx := xs[i] - mx
		dy := ys[i] - my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	if sxx == 0 || syy == 0 {
		return 0
	}
	return sxy / math.Sqrt(sxx*syy)
}

// Bin is one bucket of a score histogram.
type Bin struct {
	Low   float64 `json:"low"`
	High  float64 `json:"high"`
	Count int     `json:"count"`
}

// histogram buckets xs into the given number of equal-width bins.
func histogram(xs []float64, bins int) []Bin {
	if len(xs) == 0 || bins <= 0 {
		return nil
	}
	lo, hi := xs[0], xs[0]
	for _, x := range xs {
		if x < lo {
			lo = x
		}
		if x > hi {
			hi = x
		}
	}
	if hi == lo {
		return []Bin{{Low: lo, High: hi, Count: len(xs)}}
	}
	width := (hi - lo) / float64(bins)
	out := make([]Bin, bins)
	for i := range out {
		out[i].Low = lo + float64(i)*width
		out[i].High = out[i].Low + width
	}
	for _, x := range xs {
		idx := int((x - lo) / width)
		if idx >= bins {
			idx = bins - 1
		}
		out[idx].Count++
	}
	return out
}

// correlationStrength labels an absolute correlation the way the dashboard
// always has.
func correlationStrength(r float64) string {
	abs := math.Abs(r)
	switch {
	case abs >= 0.8:
		return "Very Strong"
	case abs >= 0.6:
		return "Strong"
	case abs >= 0.4:
		return "Moderate"
	case abs >= 0.2:
		return "Weak"
	default:
		return "Very Weak"
	}
}
