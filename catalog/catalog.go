// Package catalog loads band-catalog files describing a galaxy's imaging:
// which photometric bands exist, their zero-points, and where the map
// files live. File names follow the {galaxy}_{band} convention.
package catalog

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrInvalid reports a catalog that failed validation.
var ErrInvalid = errors.New("invalid catalog")

// Band is one photometric filter with its magnitude zero-point.
type Band struct {
	Name      string  `yaml:"name"`
	Zeropoint float64 `yaml:"zeropoint"`
}

// Catalog enumerates the bands of one galaxy and where its maps live.
// Band order is preserved everywhere downstream.
type Catalog struct {
	Galaxy   string  `yaml:"galaxy"`
	Redshift float64 `yaml:"redshift"`
	Dir      string  `yaml:"dir"`
	Bands    []Band  `yaml:"bands"`
}

// Load reads and validates the catalog file at path.
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	c, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	if c.Dir == "" {
		c.Dir = filepath.Dir(path)
	}
	return c, nil
}

// Parse decodes and validates a catalog. Unknown fields are rejected.
func Parse(r io.Reader) (*Catalog, error) {
	var c Catalog
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return nil, err
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) validate() error {
	if c.Galaxy == "" {
		return fmt.Errorf("%w: missing galaxy name", ErrInvalid)
	}
	if c.Redshift < 0 {
		return fmt.Errorf("%w: negative redshift %g", ErrInvalid, c.Redshift)
	}
	if len(c.Bands) == 0 {
		return fmt.Errorf("%w: no bands", ErrInvalid)
	}
	seen := make(map[string]struct{}, len(c.Bands))
	for _, b := range c.Bands {
		if b.Name == "" {
			return fmt.Errorf("%w: band with empty name", ErrInvalid)
		}
		if _, ok := seen[b.Name]; ok {
			return fmt.Errorf("%w: duplicate band %s", ErrInvalid, b.Name)
		}
		seen[b.Name] = struct{}{}
		if math.IsNaN(b.Zeropoint) || math.IsInf(b.Zeropoint, 0) {
			return fmt.Errorf("%w: band %s has a non-finite zeropoint", ErrInvalid, b.Name)
		}
	}
	return nil
}

// FluxPath returns the flux map path for a band.
func (c *Catalog) FluxPath(band string) string {
	return filepath.Join(c.Dir, fmt.Sprintf("%s_%s.fits", c.Galaxy, band))
}

// Flux2Path returns the PSF-squared flux map path for a band.
func (c *Catalog) Flux2Path(band string) string {
	return filepath.Join(c.Dir, fmt.Sprintf("%s_%s_PSF2.fits", c.Galaxy, band))
}

// VarPath returns the variance map path for a band.
func (c *Catalog) VarPath(band string) string {
	return filepath.Join(c.Dir, fmt.Sprintf("%s_%s_var.fits", c.Galaxy, band))
}

// MaskPath returns the exclusion mask path for the galaxy.
func (c *Catalog) MaskPath() string {
	return filepath.Join(c.Dir, fmt.Sprintf("%s_mask.fits", c.Galaxy))
}
