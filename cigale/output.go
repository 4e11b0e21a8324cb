// Package cigale writes input tables for the Cigale SED-fitting code
// and reads its FITS results back into per-pixel quantities.
//
// Cigale consumes fluxes in mJy and is run externally; this package
// only prepares its input and interprets out/results.fits.
package cigale

import (
	"fmt"

	"github.com/sedmap/sedmap"
	"github.com/sedmap/sedmap/internal/fits"
)

// Output is a parsed results table. Columns keep the names Cigale
// gives them, such as "bayes.sfh.sfr" or "best.stellar.m_star".
//
// An Output reconstructs images only after Link ties it back to the
// FilterList whose table was fitted.
type Output struct {
	names []string
	cols  map[string][]float64
	ids   []float64
	fl    *sedmap.FilterList
}

// ReadOutput loads the first binary table of a results file,
// conventionally out/results.fits. The table must carry an id column
// echoing the catalogue row IDs.
func ReadOutput(path string) (*Output, error) {
	tbl, err := fits.ReadTable(path)
	if err != nil {
		return nil, err
	}
	ids, ok := tbl.Cols["id"]
	if !ok {
		return nil, fmt.Errorf("fits %s: no id column", path)
	}
	o := &Output{cols: tbl.Cols, ids: ids}
	for _, n := range tbl.Names {
		if n == "id" {
			continue
		}
		o.names = append(o.names, n)
	}
	return o, nil
}

// NumRows returns the number of result rows.
func (o *Output) NumRows() int { return len(o.ids) }

// Params lists the fitted quantities in file column order.
func (o *Output) Params() []string {
	out := make([]string, len(o.names))
	copy(out, o.names)
	return out
}

// Column returns the named fitted column.
func (o *Output) Column(name string) ([]float64, error) {
	c, ok := o.cols[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", sedmap.ErrUnknownQuantity, name)
	}
	return c, nil
}

// Link ties the output to the filter list whose table it was fitted
// from. The filter list must hold a generated table with one row per
// result row, and the id column must echo the table's pixel indices.
func (o *Output) Link(fl *sedmap.FilterList) error {
	t := fl.Table()
	if t == nil {
		return sedmap.ErrNoTable
	}
	if t.NumRows() != len(o.ids) {
		return fmt.Errorf("%w: output has %d rows, table has %d",
			sedmap.ErrShapeMismatch, len(o.ids), t.NumRows())
	}
	for r, v := range o.ids {
		if v != float64(t.IDs[r]) {
			return fmt.Errorf("%w: output row %d has id %g, table has %d",
				sedmap.ErrShapeMismatch, r, v, t.IDs[r])
		}
	}
	o.fl = fl
	return nil
}

// ToImage reconstructs the named quantity as a 2D map on the original
// pixel grid. Pixels absent from the table receive the fill value,
// NaN unless overridden. Cigale tables carry physical fluxes, so
// values scatter back without any rescaling.
func (o *Output) ToImage(name string, opts ...sedmap.MapOption) (*sedmap.Map, error) {
	if o.fl == nil {
		return nil, sedmap.ErrUnlinked
	}
	c, err := o.Column(name)
	if err != nil {
		return nil, err
	}
	cfg := sedmap.NewMapConfig(opts...)
	m, err := o.fl.Reconstruct(c, cfg.Fill, false)
	if err != nil {
		return nil, err
	}
	m.Name = name
	return m, nil
}
