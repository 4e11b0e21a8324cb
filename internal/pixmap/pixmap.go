// Package pixmap implements grid operations on row-major float64 maps.
// All maps covering the same grid share one linear indexing: i = y*w + x.
package pixmap

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// MeanOverBands computes the per-pixel mean across bands, skipping
// non-finite samples. Excluded pixels and pixels with no finite sample
// in any band yield 0.
func MeanOverBands(bands [][]float64, excluded []bool) []float64 {
	if len(bands) == 0 {
		return nil
	}
	l := len(bands[0])
	mean := make([]float64, l)
	samples := make([]float64, 0, len(bands))
	for i := 0; i < l; i++ {
		if excluded != nil && excluded[i] {
			continue
		}
		samples = samples[:0]
		for _, b := range bands {
			if v := b[i]; isFinite(v) {
				samples = append(samples, v)
			}
		}
		if len(samples) > 0 {
			mean[i] = stat.Mean(samples, nil)
		}
	}
	return mean
}

// MinPositive returns the smallest strictly positive finite value among
// pixels not excluded. ok is false when no such value exists.
func MinPositive(data []float64, excluded []bool) (min float64, ok bool) {
	min = math.Inf(1)
	for i, v := range data {
		if excluded != nil && excluded[i] {
			continue
		}
		if isFinite(v) && v > 0 && v < min {
			min = v
			ok = true
		}
	}
	if !ok {
		return 0, false
	}
	return min, true
}

// Clean returns copies of data and variance where excluded pixels are NaN
// and every kept pixel holding a negative or non-finite value in either
// map is replaced by repl in both.
func Clean(data, variance []float64, excluded []bool, repl float64) ([]float64, []float64) {
	d := make([]float64, len(data))
	v := make([]float64, len(variance))
	for i := range data {
		if excluded != nil && excluded[i] {
			d[i] = math.NaN()
			v[i] = math.NaN()
			continue
		}
		dv, vv := data[i], variance[i]
		if !isFinite(dv) || !isFinite(vv) || dv < 0 || vv < 0 {
			dv, vv = repl, repl
		}
		d[i] = dv
		v[i] = vv
	}
	return d, v
}

// ShotNoise adds a Poisson term to the variance map in place and, when src
// is non-nil, perturbs the data map by a zero-mean Poisson deviate. The
// per-pixel rate is |flux2[i]| * scale. Pixels already NaN are left alone.
func ShotNoise(data, variance, flux2 []float64, scale float64, src rand.Source) {
	for i := range data {
		if math.IsNaN(data[i]) {
			continue
		}
		f2 := flux2[i]
		if !isFinite(f2) {
			continue
		}
		lam := math.Abs(f2) * scale
		variance[i] += lam
		if src == nil || lam == 0 {
			continue
		}
		p := distuv.Poisson{Lambda: lam, Src: src}
		data[i] += p.Rand() - lam
	}
}

// Scale returns copies of data and variance normalised per pixel by norm
// and multiplied by factor. The variance scales with the square. Pixels
// where norm is zero pass through unchanged.
func Scale(data, variance, norm []float64, factor float64) ([]float64, []float64) {
	d := make([]float64, len(data))
	v := make([]float64, len(variance))
	for i := range data {
		d[i] = data[i]
		v[i] = variance[i]
		if n := norm[i]; n != 0 {
			f := factor / n
			d[i] *= f
			v[i] *= f * f
		}
	}
	return d, v
}

// Flatten packs the non-NaN pixels of data and variance into dense 1D
// vectors, dropping every pixel that is NaN in either map. indices holds
// the linear grid index of each kept row.
func Flatten(data, variance []float64) (d, v []float64, indices []int) {
	for i := range data {
		if math.IsNaN(data[i]) || math.IsNaN(variance[i]) {
			continue
		}
		d = append(d, data[i])
		v = append(v, variance[i])
		indices = append(indices, i)
	}
	return d, v, indices
}

/// Scatter is the inverse of Flatten: it spreads values back onto a grid of
// size pixels at the given linear indices, filling the rest with fill.
func Scatter(values []float64, indices []int, size int, fill float64) []float64 {
	out := make([]float64, size)
	for i := range out {
		out[i] = fill
	}
	for r, idx := range indices {
		out[idx] = values[r]
	}
	return out
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
