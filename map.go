package sedmap

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"

	"github.com/sedmap/sedmap/internal/fits"
	"github.com/sedmap/sedmap/internal/pixmap"
)

// Map is a reconstructed 2D image of one fitted physical quantity,
// aligned to the pixel grid of the band maps.
type Map struct {
	Name string
	Unit string
	Data []float64
	W, H int
}

// At returns the value at pixel (x, y).
func (m *Map) At(x, y int) float64 { return m.Data[y*m.W+x] }

// MapStats summarises the finite pixels of a map.
type MapStats struct {
	Count  int
	Mean   float64
	Median float64
	Std    float64
	Min    float64
	Max    float64
	P10    float64
	P90    float64
}

// Stats computes summary statistics over the finite pixels of the map.
func (m *Map) Stats() MapStats {
	finite := make([]float64, 0, len(m.Data))
	for _, v := range m.Data {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			finite = append(finite, v)
		}
	}
	st := MapStats{Count: len(finite)}
	if len(finite) == 0 {
		return st
	}
	st.Mean, _ = stats.Mean(finite)
	st.Median, _ = stats.Median(finite)
	st.Std, _ = stats.StandardDeviation(finite)
	st.Min, _ = stats.Min(finite)
	st.Max, _ = stats.Max(finite)
	st.P10, _ = stats.Percentile(finite, 10)
	st.P90, _ = stats.Percentile(finite, 90)
	return st
}

// WriteFITS stores the map as a BITPIX -64 FITS image with QUANTITY and
// BUNIT header cards.
func (m *Map) WriteFITS(path string) error {
	img := &fits.Image{Data: m.Data, W: m.W, H: m.H}
	var cards []fits.Card
	if m.Name != "" {
		cards = append(cards, fits.Card{Name: "QUANTITY", Value: m.Name, Comment: "fitted quantity"})
	}
	if m.Unit != "" {
		cards = append(cards, fits.Card{Name: "BUNIT", Value: m.Unit, Comment: "pixel unit"})
	}
	return fits.WriteImage(path, img, cards...)
}

// MapOption adjusts map reconstruction.
type MapOption func(*MapConfig)

// MapConfig controls map reconstruction. Build one with NewMapConfig.
type MapConfig struct {
	// Fill is written to pixels absent from the table.
	Fill float64
}

// NewMapConfig applies opts over the defaults: NaN fill.
func NewMapConfig(opts ...MapOption) MapConfig {
	cfg := MapConfig{Fill: math.NaN()}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithFillValue sets the value written to pixels absent from the table.
func WithFillValue(v float64) MapOption {
	return func(c *MapConfig) { c.Fill = v }
}

// Reconstruct scatters one value per table row back onto the image grid,
// inverting the flattening of GenTable. Pixels the table dropped receive
// fill. When scaled is true and the table was flux-normalised, the
// normalisation is undone per pixel using the stored mean map and scale
// factor.
func (fl *FilterList) Reconstruct(values []float64, fill float64, scaled bool) (*Map, error) {
	t := fl.table
	if t == nil {
		return nil, ErrNoTable
	}
	if len(values) != len(t.IDs) {
		return nil, fmt.Errorf("%w: %d values for %d table rows", ErrShapeMismatch, len(values), len(t.IDs))
	}
	out := pixmap.Scatter(values, t.IDs, t.W*t.H, fill)
	if scaled && fl.scaleFac != 0 {
		for _, idx := range t.IDs {
			out[idx] *= fl.meanMap[idx] / fl.scaleFac
		}
	}
	return &Map{Data: out, W: t.W, H: t.H}, nil
}
