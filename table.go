package sedmap

import (
	"bufio"
	"fmt"
	"io"
	"math"
	mathrand "math/rand"
	"os"
	"strings"

	"github.com/sedmap/sedmap/internal/photometry"
	"github.com/sedmap/sedmap/internal/pixmap"
	"golang.org/x/exp/rand"
)

// CleanMethod selects how negative or non-finite samples are replaced
// during table generation.
type CleanMethod int

const (
	// CleanZero replaces invalid samples with zero; the affected rows
	// carry the Unusable sentinel in magnitude tables.
	CleanZero CleanMethod = iota
	// CleanMin replaces invalid samples with the smallest strictly
	// positive flux of the band.
	CleanMin
)

func (m CleanMethod) String() string {
	switch m {
	case CleanZero:
		return "zero"
	case CleanMin:
		return "min"
	}
	return fmt.Sprintf("CleanMethod(%d)", int(m))
}

// ParseCleanMethod converts a method name to its CleanMethod.
func ParseCleanMethod(s string) (CleanMethod, error) {
	switch strings.ToLower(s) {
	case "zero":
		return CleanZero, nil
	case "min":
		return CleanMin, nil
	}
	return 0, fmt.Errorf("unknown clean method %q", s)
}

// Unusable flags catalogue entries the fitting code must ignore.
const Unusable = -99

type TableOption func(*tableConfig) error

type tableConfig struct {
	clean       CleanMethod
	scaleFactor float64
	texpFac     float64
	seed        uint64
	seeded      bool
}

// WithCleanMethod selects the replacement policy for invalid samples.
// The default is CleanZero.
func WithCleanMethod(m CleanMethod) TableOption {
	return func(c *tableConfig) error {
		switch m {
		case CleanZero, CleanMin:
			c.clean = m
			return nil
		}
		return fmt.Errorf("unknown clean method %d", int(m))
	}
}

// WithScaleFactor sets the uniform factor applied after mean-map
// normalisation of LePhare tables. The default is 100. Cigale tables
// are never rescaled.
func WithScaleFactor(f float64) TableOption {
	return func(c *tableConfig) error {
		if f <= 0 || math.IsInf(f, 0) || math.IsNaN(f) {
			return fmt.Errorf("scale factor %g out of range", f)
		}
		c.scaleFactor = f
		return nil
	}
}

// WithTexpFac enables synthetic shot noise: each band's variance grows by
// |psf2 flux| * k / texp per pixel and the flux receives a matching
// zero-mean Poisson perturbation. k = 0 disables noise, as does a band
// without a known exposure time.
func WithTexpFac(k float64) TableOption {
	return func(c *tableConfig) error {
		if k < 0 || math.IsInf(k, 0) || math.IsNaN(k) {
			return fmt.Errorf("exposure factor %g out of range", k)
		}
		c.texpFac = k
		return nil
	}
}

// WithNoiseSeed pins the noise source so repeated generations produce
// identical tables. Without it each generation draws fresh noise.
func WithNoiseSeed(seed uint64) TableOption {
	return func(c *tableConfig) error {
		c.seed = seed
		c.seeded = true
		return nil
	}
}

// Table holds one row per kept pixel with a value and an error column
// per band, shaped for the fitting code it was generated for. LePhare
// tables hold AB magnitudes, Cigale tables fluxes in mJy.
type Table struct {
	Code     Code
	Bands    []string
	IDs      []int // linear pixel index of each row
	Redshift float64
	Context  int // LePhare band-inclusion mask, 2^nbands-1
	Values   [][]float64
	Errors   [][]float64
	W, H     int
}

// NumRows returns the number of table rows.
func (t *Table) NumRows() int { return len(t.IDs) }

// GenTable derives the per-pixel photometric table from the filter list,
// replacing any previously generated table.
//
// Per band the pipeline is:
//  1. drop pixels the mask excludes,
//  2. replace negative or non-finite samples per the clean method,
//  3. optionally add exposure-scaled shot noise,
//  4. normalise by the mean map and scale factor (LePhare only),
//  5. flatten to one row per kept pixel,
//  6. convert counts to the unit the fitting code expects.
//
// Rows where the flux or variance ended up at zero carry the Unusable
// sentinel in LePhare tables so the fit ignores them.
func (fl *FilterList) GenTable(opts ...TableOption) (*Table, error) {
	cfg := tableConfig{scaleFactor: 100}
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}
	if len(fl.filters) == 0 {
		return nil, ErrNoFilters
	}

	var src rand.Source
	if cfg.texpFac > 0 {
		if cfg.seeded {
			src = rand.NewSource(cfg.seed)
		} else {
			src = rand.NewSource(mathrand.Uint64())
		}
	}

	var meanMap []float64
	if fl.code == LePhare {
		bands := make([][]float64, len(fl.filters))
		for i, f := range fl.filters {
			bands[i] = f.flux.Data
		}
		meanMap = pixmap.MeanOverBands(bands, fl.mask.excluded)
	}

	t := &Table{
		Code:     fl.code,
		Bands:    fl.Bands(),
		Redshift: fl.redshift,
		W:        fl.mask.w,
		H:        fl.mask.h,
	}
	if fl.code == LePhare {
		t.Context = 1<<len(fl.filters) - 1
	}

	for bi, f := range fl.filters {
		var repl float64
		if cfg.clean == CleanMin {
			if min, ok := pixmap.MinPositive(f.flux.Data, fl.mask.excluded); ok {
				repl = min
			}
		}
		data, variance := pixmap.Clean(f.flux.Data, f.variance.Data, fl.mask.excluded, repl)
		if cfg.texpFac > 0 && f.Texp() > 0 {
			pixmap.ShotNoise(data, variance, f.flux2.Data, cfg.texpFac/f.Texp(), src)
		}
		if fl.code == LePhare {
			data, variance = pixmap.Scale(data, variance, meanMap, cfg.scaleFactor)
		}
		d, v, idx := pixmap.Flatten(data, variance)
		if bi == 0 {
			t.IDs = idx
		} else if len(d) != len(t.IDs) {
			return nil, fmt.Errorf("%w: band %s keeps %d pixels, band %s keeps %d",
				ErrShapeMismatch, f.name, len(d), fl.filters[0].name, len(t.IDs))
		}

		values := make([]float64, len(d))
		errs := make([]float64, len(d))
		switch fl.code {
		case Cigale:
			for i := range d {
				values[i], errs[i] = photometry.CountToFluxMJy(d[i], math.Sqrt(v[i]), f.zeropoint)
			}
		default:
			for i := range d {
				if d[i] == 0 || v[i] == 0 {
					values[i], errs[i] = Unusable, Unusable
					continue
				}
				values[i], errs[i] = photometry.CountToMag(d[i], math.Sqrt(v[i]), f.zeropoint)
			}
		}
		t.Values = append(t.Values, values)
		t.Errors = append(t.Errors, errs)
	}

	fl.table = t
	fl.meanMap = meanMap
	fl.scaleFac = 0
	if fl.code == LePhare {
		fl.scaleFac = cfg.scaleFactor
	}
	return t, nil
}

// ColumnNames returns the column layout for the table's fitting code.
func (t *Table) ColumnNames() []string {
	names := make([]string, 0, 2*len(t.Bands)+2)
	switch t.Code {
	case Cigale:
		names = append(names, "id", "redshift")
		for _, b := range t.Bands {
			names = append(names, b, b+"_err")
		}
	default:
		names = append(names, "ID")
		for _, b := range t.Bands {
			names = append(names, b, "e_"+b)
		}
		names = append(names, "Context", "zs")
	}
	return names
}

// WriteTo writes the table as whitespace-separated text with a leading
// comment line naming the columns. It implements io.WriterTo.
func (t *Table) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	bw := bufio.NewWriter(cw)
	fmt.Fprintf(bw, "# %s\n", strings.Join(t.ColumnNames(), " "))
	for r := range t.IDs {
		switch t.Code {
		case Cigale:
			fmt.Fprintf(bw, "%d %.6e", t.IDs[r], t.Redshift)
			for b := range t.Bands {
				fmt.Fprintf(bw, " %.6e %.6e", t.Values[b][r], t.Errors[b][r])
			}
		default:
			fmt.Fprintf(bw, "%d", t.IDs[r])
			for b := range t.Bands {
				fmt.Fprintf(bw, " %.6e %.6e", t.Values[b][r], t.Errors[b][r])
			}
			fmt.Fprintf(bw, " %d %.6e", t.Context, t.Redshift)
		}
		fmt.Fprintln(bw)
	}
	err := bw.Flush()
	return cw.n, err
}

// Save writes the table to a file at path.
func (t *Table) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := t.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}
