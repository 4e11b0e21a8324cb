package pixmap

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func TestMeanOverBands(t *testing.T) {
	nan := math.NaN()
	tests := []struct {
		name     string
		bands    [][]float64
		excluded []bool
		expected []float64
	}{
		{
			name: "two_bands",
			bands: [][]float64{
				{1, 2, 3, 4},
				{3, 2, 1, 0},
			},
			excluded: []bool{false, false, false, false},
			expected: []float64{2, 2, 2, 2},
		},
		{
			name: "excluded_pixels_zero",
			bands: [][]float64{
				{1, 2, 3, 4},
				{3, 2, 1, 0},
			},
			excluded: []bool{false, true, false, true},
			expected: []float64{2, 0, 2, 0},
		},
		{
			name: "nan_skipped_per_pixel",
			bands: [][]float64{
				{1, nan, nan},
				{3, 2, nan},
			},
			excluded: []bool{false, false, false},
			expected: []float64{2, 2, 0},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MeanOverBands(tt.bands, tt.excluded)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestMinPositive(t *testing.T) {
	nan := math.NaN()
	tests := []struct {
		name     string
		data     []float64
		excluded []bool
		min      float64
		ok       bool
	}{
		{name: "plain", data: []float64{4, 2, 8}, min: 2, ok: true},
		{name: "zero_and_negative_skipped", data: []float64{0, -3, 5}, min: 5, ok: true},
		{name: "nan_skipped", data: []float64{nan, 7}, min: 7, ok: true},
		{name: "excluded_skipped", data: []float64{1, 9}, excluded: []bool{true, false}, min: 9, ok: true},
		{name: "no_positive", data: []float64{0, -1}, ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			min, ok := MinPositive(tt.data, tt.excluded)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.min, min)
		})
	}
}

func TestClean(t *testing.T) {
	data := []float64{1, -2, 3, math.Inf(1)}
	variance := []float64{0.1, 0.2, -0.3, 0.4}
	excluded := []bool{false, false, false, false}

	d, v := Clean(data, variance, excluded, 0)
	assert.Equal(t, []float64{1, 0, 0, 0}, d)
	assert.Equal(t, []float64{0.1, 0, 0, 0}, v)

	// replacement value propagates to both maps
	d, v = Clean(data, variance, excluded, 7)
	assert.Equal(t, []float64{1, 7, 7, 7}, d)
	assert.Equal(t, []float64{0.1, 7, 7, 7}, v)

	// originals untouched
	assert.Equal(t, []float64{1, -2, 3, math.Inf(1)}, data)
}

func TestClean_Excluded(t *testing.T) {
	d, v := Clean([]float64{1, 2}, []float64{3, 4}, []bool{true, false}, 0)
	assert.True(t, math.IsNaN(d[0]))
	assert.True(t, math.IsNaN(v[0]))
	assert.Equal(t, 2.0, d[1])
	assert.Equal(t, 4.0, v[1])
}

func TestShotNoise(t *testing.T) {
	t.Run("variance_term", func(t *testing.T) {
		data := []float64{1, 1, math.NaN()}
		variance := []float64{0.5, 0.5, 0.5}
		flux2 := []float64{2, -4, 8}

		ShotNoise(data, variance, flux2, 0.25, nil)
		assert.InDelta(t, 1.0, variance[0], 1e-12)
		assert.Equal(t, 1.5, variance[1])
		// NaN pixels keep their variance
		assert.Equal(t, 0.5, variance[2])
		// without a source the data map is untouched
		assert.Equal(t, 1.0, data[0])
	})

	t.Run("seeded_jitter_reproducible", func(t *testing.T) {
		run := func(seed uint64) []float64 {
			data := []float64{100, 200, 300}
			variance := []float64{1, 1, 1}
			flux2 := []float64{50, 60, 70}
			ShotNoise(data, variance, flux2, 2, rand.NewSource(seed))
			return data
		}
		a := run(42)
		b := run(42)
		c := run(43)
		assert.Equal(t, a, b)
		assert.NotEqual(t, a, c)
	})
}

func TestScale(t *testing.T) {
	data := []float64{2, 4, 6}
	variance := []float64{1, 1, 1}
	norm := []float64{2, 0, 3}

	d, v := Scale(data, variance, norm, 100)
	assert.Equal(t, 100.0, d[0])
	assert.Equal(t, 4.0, d[1]) // zero norm passes through
	assert.InEpsilon(t, 200.0, d[2], 1e-12)
	assert.Equal(t, 2500.0, v[0])
	assert.Equal(t, 1.0, v[1])
	assert.InEpsilon(t, 10000.0/9.0, v[2], 1e-12)
	assert.Equal(t, []float64{2, 4, 6}, data)
}

func TestFlattenScatter(t *testing.T) {
	nan := math.NaN()
	data := []float64{1, nan, 3, 4}
	variance := []float64{5, 6, nan, 8}

	d, v, idx := Flatten(data, variance)
	require.Equal(t, []int{0, 3}, idx)
	assert.Equal(t, []float64{1, 4}, d)
	assert.Equal(t, []float64{5, 8}, v)

	back := Scatter(d, idx, len(data), -1)
	assert.Equal(t, []float64{1, -1, -1, 4}, back)
}
