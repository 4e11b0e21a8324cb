package cigale

import (
	"fmt"
	"io"
	"os"

	"github.com/sedmap/sedmap"
)

// WriteCat writes the table as a Cigale input catalogue: a commented
// column-name line, then id, redshift and mJy flux/error pairs per
// band.
func WriteCat(w io.Writer, t *sedmap.Table) error {
	if t.Code != sedmap.Cigale {
		return fmt.Errorf("table was generated for %s, not %s", t.Code, sedmap.Cigale)
	}
	_, err := t.WriteTo(w)
	return err
}

// SaveCat writes the catalogue to path, conventionally
// {galaxy}_cigale.txt.
func SaveCat(path string, t *sedmap.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteCat(f, t); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
