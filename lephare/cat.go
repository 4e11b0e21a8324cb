package lephare

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sedmap/sedmap"
)

// Cat records where a catalogue was written and the layout it uses, so
// a fit run can mirror the layout in its configuration.
type Cat struct {
	Path   string
	Unit   Unit
	Mag    MagType
	Format Format
	Rows   RowType
	NBands int
}

type CatOption func(*catConfig) error

type catConfig struct {
	unit   Unit
	mag    MagType
	format Format
	rows   RowType
}

func newCatConfig(opts []CatOption) (catConfig, error) {
	cfg := catConfig{unit: UnitMag, mag: MagAB, format: MEME, rows: Long}
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}

// WithUnit declares whether the catalogue holds magnitudes or fluxes.
// The default is UnitMag, matching generated tables. The declaration
// tells the fitting code how to read the values; it does not convert
// them.
func WithUnit(u Unit) CatOption {
	return func(c *catConfig) error {
		switch u {
		case UnitMag, UnitFlux:
			c.unit = u
			return nil
		}
		return fmt.Errorf("unknown catalogue unit %q", string(u))
	}
}

// WithMagType declares the magnitude system. The default is MagAB.
func WithMagType(m MagType) CatOption {
	return func(c *catConfig) error {
		switch m {
		case MagAB, MagVega:
			c.mag = m
			return nil
		}
		return fmt.Errorf("unknown magnitude type %q", string(m))
	}
}

// WithFormat selects the column layout. The default is MEME.
func WithFormat(f Format) CatOption {
	return func(c *catConfig) error {
		switch f {
		case MEME, MMEE:
			c.format = f
			return nil
		}
		return fmt.Errorf("unknown catalogue format %q", string(f))
	}
}

// WithRowType selects long or short rows. The default is Long.
func WithRowType(r RowType) CatOption {
	return func(c *catConfig) error {
		switch r {
		case Long, Short:
			c.rows = r
			return nil
		}
		return fmt.Errorf("unknown row type %q", string(r))
	}
}

// WriteCat writes the table as a LePhare input catalogue: a commented
// column-name line followed by one row per kept pixel.
func WriteCat(w io.Writer, t *sedmap.Table, opts ...CatOption) error {
	cfg, err := newCatConfig(opts)
	if err != nil {
		return err
	}
	return writeCat(w, t, cfg)
}

// SaveCat writes the catalogue to path, conventionally {galaxy}.in, and
// returns the layout record a Runner consumes.
func SaveCat(path string, t *sedmap.Table, opts ...CatOption) (*Cat, error) {
	cfg, err := newCatConfig(opts)
	if err != nil {
		return nil, err
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	if err := writeCat(f, t, cfg); err != nil {
		f.Close()
		return nil, err
	}
	if err := f.Close(); err != nil {
		return nil, err
	}
	return &Cat{
		Path:   path,
		Unit:   cfg.unit,
		Mag:    cfg.mag,
		Format: cfg.format,
		Rows:   cfg.rows,
		NBands: len(t.Bands),
	}, nil
}

func writeCat(w io.Writer, t *sedmap.Table, cfg catConfig) error {
	if t.Code != sedmap.LePhare {
		return fmt.Errorf("table was generated for %s, not %s", t.Code, sedmap.LePhare)
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# %s\n", strings.Join(catColumns(t, cfg), " "))
	for r := range t.IDs {
		fmt.Fprintf(bw, "%d", t.IDs[r])
		switch cfg.format {
		case MMEE:
			for b := range t.Bands {
				fmt.Fprintf(bw, " %.6e", t.Values[b][r])
			}
			for b := range t.Bands {
				fmt.Fprintf(bw, " %.6e", t.Errors[b][r])
			}
		default:
			for b := range t.Bands {
				fmt.Fprintf(bw, " %.6e %.6e", t.Values[b][r], t.Errors[b][r])
			}
		}
		if cfg.rows == Long {
			fmt.Fprintf(bw, " %d %.6e", t.Context, t.Redshift)
		}
		fmt.Fprintln(bw)
	}
	return bw.Flush()
}

func catColumns(t *sedmap.Table, cfg catConfig) []string {
	names := make([]string, 0, 2*len(t.Bands)+3)
	names = append(names, "ID")
	switch cfg.format {
	case MMEE:
		names = append(names, t.Bands...)
		for _, b := range t.Bands {
			names = append(names, "e_"+b)
		}
	default:
		for _, b := range t.Bands {
			names = append(names, b, "e_"+b)
		}
	}
	if cfg.rows == Long {
		names = append(names, "Context", "zs")
	}
	return names
}
