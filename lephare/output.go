package lephare

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/sedmap/sedmap"
)

// missing is the sentinel the fitting code writes for quantities it
// could not determine. It becomes NaN at load.
const missing = -99

// Column is one parsed output column with one value per catalogue row.
type Column struct {
	Quantity
	Data []float64
}

// Output is a parsed fit result file. Columns are resolved against the
// output-parameter registry at load, log-encoded quantities are
// de-logged and missing sentinels become NaN, so lookups after parsing
// cannot surprise.
//
// An Output reconstructs images only after Link ties it back to the
// FilterList whose table was fitted.
type Output struct {
	// Config holds the echoed configuration from the file header.
	Config map[string]string

	cols   []Column
	byName map[string]int
	rows   int
	fl     *sedmap.FilterList
}

// ReadOutput parses the fit result file at path, conventionally
// {galaxy}.out.
func ReadOutput(path string) (*Output, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	o, err := ParseOutput(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return o, nil
}

// ParseOutput parses a fit result stream. The header carries echoed
// "# key : value" configuration lines up to the output-format marker,
// then "NAME column" pairs declaring 1-based data columns up to a
// full-width # line, then whitespace-separated data rows.
func ParseOutput(r io.Reader) (*Output, error) {
	o := &Output{
		Config: make(map[string]string),
		byName: make(map[string]int),
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if err := o.parseConfig(sc); err != nil {
		return nil, err
	}
	decl, err := o.parseFormat(sc)
	if err != nil {
		return nil, err
	}
	if err := o.parseRows(sc, decl); err != nil {
		return nil, err
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	for i := range o.cols {
		if !o.cols[i].Log {
			continue
		}
		for j, v := range o.cols[i].Data {
			o.cols[i].Data[j] = math.Pow(10, v)
		}
	}
	return o, nil
}

func (o *Output) parseConfig(sc *bufio.Scanner) error {
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if strings.HasPrefix(line, "# Output format") {
			return nil
		}
		body := strings.Trim(line, "#")
		i := strings.LastIndex(body, ":")
		if i < 0 {
			continue
		}
		key := strings.TrimSpace(body[:i])
		if key == "" {
			continue
		}
		o.Config[key] = strings.TrimSpace(body[i+1:])
	}
	return fmt.Errorf("output format marker not reached")
}

type declCol struct {
	key string
	col int
}

func (o *Output) parseFormat(sc *bufio.Scanner) ([]declCol, error) {
	var decl []declCol
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if strings.HasPrefix(line, "####") {
			return decl, nil
		}
		for _, item := range strings.Split(strings.Trim(line, "#, \t"), ",") {
			fields := strings.Fields(item)
			if len(fields) == 0 {
				continue
			}
			if len(fields) != 2 {
				return nil, fmt.Errorf("malformed output format entry %q", item)
			}
			col, err := strconv.Atoi(fields[1])
			if err != nil || col < 1 {
				return nil, fmt.Errorf("bad column index in output format entry %q", item)
			}
			decl = append(decl, declCol{key: fields[0], col: col})
		}
	}
	return nil, fmt.Errorf("end of output format header not reached")
}

func (o *Output) parseRows(sc *bufio.Scanner, decl []declCol) error {
	for _, d := range decl {
		q, ok := Lookup(d.key)
		if !ok {
			// keys outside the registry stay usable as raw columns
			q = Quantity{Key: d.key, Label: strings.ToLower(strings.TrimSuffix(d.key, "()"))}
		}
		o.byName[q.Label] = len(o.cols)
		o.cols = append(o.cols, Column{Quantity: q})
	}

	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		for i, d := range decl {
			if d.col > len(fields) {
				return fmt.Errorf("row %d has %d columns, %s wants column %d",
					o.rows+1, len(fields), d.key, d.col)
			}
			v, err := strconv.ParseFloat(fields[d.col-1], 64)
			if err != nil {
				// non-numeric columns degrade instead of failing the load
				v = math.NaN()
			}
			if v == missing {
				v = math.NaN()
			}
			o.cols[i].Data = append(o.cols[i].Data, v)
		}
		o.rows++
	}
	return nil
}

// NumRows returns the number of parsed data rows.
func (o *Output) NumRows() int { return o.rows }

// Params lists the parsed column labels in declaration order.
func (o *Output) Params() []string {
	names := make([]string, len(o.cols))
	for i, c := range o.cols {
		names[i] = c.Label
	}
	return names
}

// Column returns the named parsed column. The name is a column label
// such as "mass_med".
func (o *Output) Column(name string) (Column, error) {
	i, ok := o.byName[name]
	if !ok {
		return Column{}, fmt.Errorf("%w: %q", sedmap.ErrUnknownQuantity, name)
	}
	return o.cols[i], nil
}

// Link ties the output to the filter list whose table it was fitted
// from, recovering the row to pixel mapping and the flux normalisation
// for image reconstruction. The filter list must hold a generated
// table with one row per parsed data row, and when the output carries
// an ID column it must echo the table's pixel indices.
func (o *Output) Link(fl *sedmap.FilterList) error {
	t := fl.Table()
	if t == nil {
		return sedmap.ErrNoTable
	}
	if t.NumRows() != o.rows {
		return fmt.Errorf("%w: output has %d rows, table has %d",
			sedmap.ErrShapeMismatch, o.rows, t.NumRows())
	}
	if i, ok := o.byName["ID"]; ok {
		for r, v := range o.cols[i].Data {
			if v != float64(t.IDs[r]) {
				return fmt.Errorf("%w: output row %d has ID %g, table has %d",
					sedmap.ErrShapeMismatch, r, v, t.IDs[r])
			}
		}
	}
	o.fl = fl
	return nil
}

// ToImage reconstructs the named quantity as a 2D map on the original
// pixel grid. Pixels absent from the table receive the fill value,
// NaN unless overridden. Flux-scaled quantities are restored to
// physical units by undoing the table normalisation per pixel.
func (o *Output) ToImage(name string, opts ...sedmap.MapOption) (*sedmap.Map, error) {
	if o.fl == nil {
		return nil, sedmap.ErrUnlinked
	}
	c, err := o.Column(name)
	if err != nil {
		return nil, err
	}
	cfg := sedmap.NewMapConfig(opts...)
	m, err := o.fl.Reconstruct(c.Data, cfg.Fill, c.Scaled)
	if err != nil {
		return nil, err
	}
	m.Name = c.Label
	m.Unit = c.Unit
	return m, nil
}
