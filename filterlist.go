package sedmap

import (
	"errors"
	"fmt"
)

// FilterList aggregates the bands of one galaxy with its exclusion mask
// and the metadata the fitting code needs. Band order is input order and
// carries through every derived table and catalogue.
type FilterList struct {
	filters  []*Filter
	mask     *Mask
	code     Code
	redshift float64

	table    *Table
	meanMap  []float64
	scaleFac float64
}

type ListOption func(*FilterList) error

// WithCode selects the SED-fitting code tables are generated for.
// The default is LePhare.
func WithCode(code Code) ListOption {
	return func(fl *FilterList) error {
		switch code {
		case LePhare, Cigale:
			fl.code = code
			return nil
		default:
			return fmt.Errorf("unknown SED code %q", code)
		}
	}
}

// WithRedshift sets the spectroscopic redshift written to the table.
func WithRedshift(z float64) ListOption {
	return func(fl *FilterList) error {
		if z < 0 {
			return fmt.Errorf("negative redshift %g", z)
		}
		fl.redshift = z
		return nil
	}
}

// NewFilterList validates that every band shares the mask's pixel grid
// and aggregates the bands in input order. No table is generated yet.
func NewFilterList(filters []*Filter, mask *Mask, opts ...ListOption) (*FilterList, error) {
	if mask == nil {
		return nil, errors.New("nil mask")
	}
	fl := &FilterList{code: LePhare, mask: mask}
	for _, opt := range opts {
		if err := opt(fl); err != nil {
			return nil, err
		}
	}
	seen := make(map[string]struct{}, len(filters))
	for _, f := range filters {
		w, h := f.Shape()
		if w != mask.w || h != mask.h {
			return nil, fmt.Errorf("%w: band %s maps are %dx%d, mask is %dx%d",
				ErrShapeMismatch, f.name, w, h, mask.w, mask.h)
		}
		if _, ok := seen[f.name]; ok {
			return nil, fmt.Errorf("duplicate band %s", f.name)
		}
		seen[f.name] = struct{}{}
	}
	fl.filters = append(fl.filters, filters...)
	return fl, nil
}

// Shape returns the shared pixel dimensions of the mask and all bands.
func (fl *FilterList) Shape() (w, h int) { return fl.mask.w, fl.mask.h }

// Bands returns the band labels in table order.
func (fl *FilterList) Bands() []string {
	names := make([]string, len(fl.filters))
	for i, f := range fl.filters {
		names[i] = f.name
	}
	return names
}

// NBands returns the number of bands.
func (fl *FilterList) NBands() int { return len(fl.filters) }

// Code returns the fitting code tables are generated for.
func (fl *FilterList) Code() Code { return fl.code }

// Redshift returns the galaxy redshift.
func (fl *FilterList) Redshift() float64 { return fl.redshift }

// Mask returns the exclusion mask.
func (fl *FilterList) Mask() *Mask { return fl.mask }

// Table returns the last generated table, nil before GenTable.
func (fl *FilterList) Table() *Table { return fl.table }

// MeanMap returns the per-pixel mean flux map captured by the last
// LePhare table generation, nil otherwise. Treat it as read-only.
func (fl *FilterList) MeanMap() []float64 { return fl.meanMap }

// ScaleFactor returns the flux scale factor of the last LePhare table
// generation, 0 otherwise.
func (fl *FilterList) ScaleFactor() float64 { return fl.scaleFac }
