// Package fits reads and writes the FITS images and binary tables the
// pipeline exchanges with external fitting tools. Format handling is
// delegated to github.com/astrogo/fitsio.
package fits

import (
	"fmt"
	"os"

	"github.com/astrogo/fitsio"
)

// Image is a 2D map in row-major order: pixel (x, y) lives at Data[y*W+x].
type Image struct {
	Data []float64
	W, H int
	// Texp is the exposure time in seconds taken from the TEXPTIME header
	// card, 0 when the card is absent.
	Texp float64
}

func (img *Image) At(x, y int) float64 { return img.Data[y*img.W+x] }

// Card is a header card attached to an image on write.
type Card struct {
	Name    string
	Value   any
	Comment string
}

// ReadImage loads the 2D image stored in HDU ext of the file at path.
// Pixel values of any FITS numeric type are converted to float64.
func ReadImage(path string, ext int) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fit, err := fitsio.Open(f)
	if err != nil {
		return nil, fmt.Errorf("open fits %s: %w", path, err)
	}
	defer fit.Close()

	if ext < 0 || ext >= len(fit.HDUs()) {
		return nil, fmt.Errorf("fits %s: no HDU %d", path, ext)
	}
	img, ok := fit.HDU(ext).(fitsio.Image)
	if !ok {
		return nil, fmt.Errorf("fits %s: HDU %d is not an image", path, ext)
	}
	hdr := img.Header()
	axes := hdr.Axes()
	if len(axes) != 2 {
		return nil, fmt.Errorf("fits %s: HDU %d has %d axes, want 2", path, ext, len(axes))
	}
	w, h := axes[0], axes[1]
	data, err := readPixels(img, hdr.Bitpix())
	if err != nil {
		return nil, fmt.Errorf("fits %s: %w", path, err)
	}
	if len(data) != w*h {
		return nil, fmt.Errorf("fits %s: %d pixels for %dx%d image", path, len(data), w, h)
	}
	// Integer images may store physical = raw*BSCALE + BZERO.
	bzero, bscale := 0.0, 1.0
	if c := hdr.Get("BZERO"); c != nil {
		bzero = cardFloat(c.Value)
	}
	if c := hdr.Get("BSCALE"); c != nil {
		if v := cardFloat(c.Value); v != 0 {
			bscale = v
		}
	}
	if bzero != 0 || bscale != 1 {
		for i, v := range data {
			data[i] = v*bscale + bzero
		}
	}
	out := &Image{Data: data, W: w, H: h}
	if c := hdr.Get("TEXPTIME"); c != nil {
		out.Texp = cardFloat(c.Value)
	}
	return out, nil
}

// WriteImage stores img as a BITPIX -64 image HDU in a new file at path,
// appending the given header cards. A TEXPTIME card is added when
// img.Texp is set.
func WriteImage(path string, img *Image, cards ...Card) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	fit, err := fitsio.Create(f)
	if err != nil {
		return fmt.Errorf("create fits %s: %w", path, err)
	}

	hdu := fitsio.NewImage(-64, []int{img.W, img.H})
	defer hdu.Close()
	if img.Texp > 0 {
		cards = append([]Card{{Name: "TEXPTIME", Value: img.Texp, Comment: "exposure time [s]"}}, cards...)
	}
	for _, c := range cards {
		card := fitsio.Card{Name: c.Name, Value: c.Value, Comment: c.Comment}
		if err := hdu.Header().Append(card); err != nil {
			fit.Close()
			return fmt.Errorf("fits %s: card %s: %w", path, c.Name, err)
		}
	}
	data := img.Data
	if err := hdu.Write(&data); err != nil {
		fit.Close()
		return fmt.Errorf("fits %s: write pixels: %w", path, err)
	}
	if err := fit.Write(hdu); err != nil {
		fit.Close()
		return fmt.Errorf("fits %s: write HDU: %w", path, err)
	}
	if err := fit.Close(); err != nil {
		return fmt.Errorf("fits %s: close: %w", path, err)
	}
	return nil
}

// Table holds the numeric columns of a binary-table HDU. Column order
// follows the file; non-numeric columns are dropped.
type Table struct {
	Names []string
	Cols  map[string][]float64
}

// NumRows reports the number of rows read.
func (t *Table) NumRows() int {
	for _, c := range t.Cols {
		return len(c)
	}
	return 0
}

// ReadTable loads the first table HDU of the file at path, coercing every
// numeric column to float64.
func ReadTable(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fit, err := fitsio.Open(f)
	if err != nil {
		return nil, fmt.Errorf("open fits %s: %w", path, err)
	}
	defer fit.Close()

	var tbl *fitsio.Table
	for _, hdu := range fit.HDUs() {
		if t, ok := hdu.(*fitsio.Table); ok {
			tbl = t
			break
		}
	}
	if tbl == nil {
		return nil, fmt.Errorf("fits %s: no table HDU", path)
	}

	cols := make(map[string][]float64)
	rows, err := tbl.Read(0, tbl.NumRows())
	if err != nil {
		return nil, fmt.Errorf("fits %s: read table: %w", path, err)
	}
	defer rows.Close()
	for rows.Next() {
		rec := make(map[string]any)
		if err := rows.Scan(&rec); err != nil {
			return nil, fmt.Errorf("fits %s: scan row: %w", path, err)
		}
		for k, v := range rec {
			fv, ok := numeric(v)
			if !ok {
				continue
			}
			cols[k] = append(cols[k], fv)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("fits %s: iterate table: %w", path, err)
	}

	out := &Table{Cols: cols}
	for _, c := range tbl.Cols() {
		if _, ok := cols[c.Name]; ok {
			out.Names = append(out.Names, c.Name)
		}
	}
	return out, nil
}

func readPixels(img fitsio.Image, bitpix int) ([]float64, error) {
	switch bitpix {
	case 8:
		var raw []int8
		if err := img.Read(&raw); err != nil {
			return nil, err
		}
		return toFloat64(raw), nil
	case 16:
		var raw []int16
		if err := img.Read(&raw); err != nil {
			return nil, err
		}
		return toFloat64(raw), nil
	case 32:
		var raw []int32
		if err := img.Read(&raw); err != nil {
			return nil, err
		}
		return toFloat64(raw), nil
	case 64:
		var raw []int64
		if err := img.Read(&raw); err != nil {
			return nil, err
		}
		return toFloat64(raw), nil
	case -32:
		var raw []float32
		if err := img.Read(&raw); err != nil {
			return nil, err
		}
		return toFloat64(raw), nil
	case -64:
		var raw []float64
		if err := img.Read(&raw); err != nil {
			return nil, err
		}
		return raw, nil
	default:
		return nil, fmt.Errorf("unsupported BITPIX %d", bitpix)
	}
}

func toFloat64[T int8 | int16 | int32 | int64 | float32](raw []T) []float64 {
	out := make([]float64, len(raw))
	for i, v := range raw {
		out[i] = float64(v)
	}
	return out
}

func numeric(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	default:
		return 0, false
	}
}

func cardFloat(v any) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case float32:
		return float64(x)
	case int:
		return float64(x)
	case int64:
		return float64(x)
	default:
		return 0
	}
}
