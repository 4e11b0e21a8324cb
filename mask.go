package sedmap

import (
	"fmt"

	"github.com/sedmap/sedmap/internal/fits"
)

// Mask flags the pixels excluded from tabulation.
type Mask struct {
	excluded []bool
	w, h     int
}

// LoadMask reads an exclusion mask from a FITS image. A pixel is kept
// when its stored value equals zero; any other value excludes it.
func LoadMask(path string) (*Mask, error) {
	img, err := fits.ReadImage(path, 0)
	if err != nil {
		return nil, fmt.Errorf("load mask: %w", err)
	}
	excluded := make([]bool, len(img.Data))
	for i, v := range img.Data {
		excluded[i] = v != 0
	}
	return &Mask{excluded: excluded, w: img.W, h: img.H}, nil
}

// NewMask builds a mask from an exclusion slice in row-major order, true
// marking excluded pixels.
func NewMask(excluded []bool, w, h int) (*Mask, error) {
	if len(excluded) != w*h {
		return nil, fmt.Errorf("%w: %d mask pixels for a %dx%d grid", ErrShapeMismatch, len(excluded), w, h)
	}
	m := &Mask{excluded: make([]bool, len(excluded)), w: w, h: h}
	copy(m.excluded, excluded)
	return m, nil
}

// Shape returns the mask's pixel dimensions.
func (m *Mask) Shape() (w, h int) { return m.w, m.h }

// Excluded reports whether the pixel at linear index i is excluded.
func (m *Mask) Excluded(i int) bool { return m.excluded[i] }

// ValidCount returns the number of pixels the mask keeps.
func (m *Mask) ValidCount() int {
	var n int
	for _, e := range m.excluded {
		if !e {
			n++
		}
	}
	return n
}
