package dataset

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Finite returns the non-NaN values of xs.
func Finite(xs []float64) []float64 {
	out := make([]float64, 0, len(xs))
	for _, x := range xs {
		if !math.IsNaN(x) {
			out = append(out, x)
		}
	}
	return out
}

// Mean skips NaN; NaN when nothing is left.
func Mean(xs []float64) float64 {
	f := Finite(xs)
	if len(f) == 0 {
		return math.NaN()
	}
	return stat.Mean(f, nil)
}

// Variance is the sample variance (ddof=1) skipping NaN; NaN below two values.
func Variance(xs []float64) float64 {
	f := Finite(xs)
	if len(f) < 2 {
		return math.NaN()
	}
	return stat.Variance(f, nil)
}

// Std is the sample standard deviation.
func Std(xs []float64) float64 {
	return math.Sqrt(Variance(xs))
}

// Sorted returns the finite values of xs in ascending order.
func Sorted(xs []float64) []float64 {
	out := Finite(xs)
	sort.Float64s(out)
	return out
}

// Quantile uses linear interpolation between closest ranks on an ascending
// slice (position q*(n-1), as pandas does).
func Quantile(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if n == 1 {
		return sorted[0]
	}
	pos := q * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// Pearson is the correlation over rows where both values are present.
// NaN when fewer than two pairs remain or either side is constant.
func Pearson(x, y []float64) float64 {
	var xs, ys []float64
	for i := range x {
		if i >= len(y) || math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			continue
		}
		xs = append(xs, x[i])
		ys = append(ys, y[i])
	}
	if len(xs) < 2 || constant(xs) || constant(ys) {
		return math.NaN()
	}
	r := stat.Correlation(xs, ys, nil)
	return math.Max(-1, math.Min(1, r))
}

func constant(xs []float64) bool {
	for _, x := range xs[1:] {
		if x != xs[0] {
			return false
		}
	}
	return true
}
