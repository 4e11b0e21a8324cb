package sedmap

import (
	"fmt"

	"github.com/sedmap/sedmap/internal/fits"
)

// Filter bundles one band's flux, PSF-squared flux, and variance maps
// with the band's magnitude zero-point. All three maps share the same
// pixel grid.
type Filter struct {
	name      string
	zeropoint float64
	flux      *fits.Image
	flux2     *fits.Image
	variance  *fits.Image
}

type FilterOption func(*filterConfig) error

type filterConfig struct {
	ext  int
	texp float64
}

// WithExtension selects the FITS extension the three maps are read from.
func WithExtension(n int) FilterOption {
	return func(c *filterConfig) error {
		if n < 0 {
			return fmt.Errorf("negative FITS extension %d", n)
		}
		c.ext = n
		return nil
	}
}

// WithTexp overrides the exposure time in seconds. Files normally carry
// it in the TEXPTIME header card.
func WithTexp(seconds float64) FilterOption {
	return func(c *filterConfig) error {
		if seconds < 0 {
			return fmt.Errorf("negative exposure time %g", seconds)
		}
		c.texp = seconds
		return nil
	}
}

// NewFilter loads a band from its three map files.
func NewFilter(name, fluxPath, flux2Path, varPath string, zeropoint float64, opts ...FilterOption) (*Filter, error) {
	var cfg filterConfig
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}
	flux, err := fits.ReadImage(fluxPath, cfg.ext)
	if err != nil {
		return nil, fmt.Errorf("band %s: %w", name, err)
	}
	flux2, err := fits.ReadImage(flux2Path, cfg.ext)
	if err != nil {
		return nil, fmt.Errorf("band %s: %w", name, err)
	}
	variance, err := fits.ReadImage(varPath, cfg.ext)
	if err != nil {
		return nil, fmt.Errorf("band %s: %w", name, err)
	}
	if cfg.texp > 0 {
		flux.Texp = cfg.texp
	}
	return newFilter(name, flux, flux2, variance, zeropoint)
}

// NewFilterData builds a band from in-memory maps in row-major order.
func NewFilterData(name string, flux, flux2, variance []float64, w, h int, zeropoint float64, opts ...FilterOption) (*Filter, error) {
	var cfg filterConfig
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}
	for _, m := range [][]float64{flux, flux2, variance} {
		if len(m) != w*h {
			return nil, fmt.Errorf("%w: band %s has %d pixels for a %dx%d grid", ErrShapeMismatch, name, len(m), w, h)
		}
	}
	return newFilter(name,
		&fits.Image{Data: flux, W: w, H: h, Texp: cfg.texp},
		&fits.Image{Data: flux2, W: w, H: h},
		&fits.Image{Data: variance, W: w, H: h},
		zeropoint)
}

func newFilter(name string, flux, flux2, variance *fits.Image, zeropoint float64) (*Filter, error) {
	if name == "" {
		return nil, fmt.Errorf("band with empty name")
	}
	if flux2.W != flux.W || flux2.H != flux.H {
		return nil, fmt.Errorf("%w: band %s psf2 map is %dx%d, flux map is %dx%d",
			ErrShapeMismatch, name, flux2.W, flux2.H, flux.W, flux.H)
	}
	if variance.W != flux.W || variance.H != flux.H {
		return nil, fmt.Errorf("%w: band %s variance map is %dx%d, flux map is %dx%d",
			ErrShapeMismatch, name, variance.W, variance.H, flux.W, flux.H)
	}
	return &Filter{
		name:      name,
		zeropoint: zeropoint,
		flux:      flux,
		flux2:     flux2,
		variance:  variance,
	}, nil
}

// Name returns the band label.
func (f *Filter) Name() string { return f.name }

// Zeropoint returns the band's magnitude zero-point.
func (f *Filter) Zeropoint() float64 { return f.zeropoint }

// Shape returns the pixel dimensions of the band's maps.
func (f *Filter) Shape() (w, h int) { return f.flux.W, f.flux.H }

// Texp returns the exposure time in seconds, 0 when unknown.
func (f *Filter) Texp() float64 { return f.flux.Texp }
