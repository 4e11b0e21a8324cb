// Package sedmap assembles multi-band galaxy imaging into per-pixel
// photometric tables for external SED-fitting codes and turns the fitted
// results back into resolved 2D maps of physical quantities.
//
// The flow is strictly forward: load the band maps and the exclusion
// mask, aggregate them into a FilterList, generate a Table, feed it to
// LePhare or Cigale, parse the result file, link it back to the
// FilterList, and reconstruct any fitted quantity as a Map.
package sedmap

import "errors"

// Code identifies the external SED-fitting code a table is generated for.
type Code string

const (
	LePhare Code = "lephare"
	Cigale  Code = "cigale"
)

var (
	// ErrShapeMismatch reports maps that disagree in pixel dimensions.
	ErrShapeMismatch = errors.New("pixel dimensions disagree")
	// ErrNoFilters reports a table request on an empty filter list.
	ErrNoFilters = errors.New("filter list has no filters")
	// ErrNoTable reports an operation that needs a generated table.
	ErrNoTable = errors.New("no table generated")
	// ErrUnlinked reports map reconstruction before linking.
	ErrUnlinked = errors.New("output not linked to a filter list")
	// ErrUnknownQuantity reports a quantity absent from a fit output.
	ErrUnknownQuantity = errors.New("unknown quantity")
)
