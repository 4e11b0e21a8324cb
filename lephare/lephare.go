// Package lephare drives the LePhare photometric SED-fitting code:
// it writes input catalogues and configuration files, invokes the
// fitting binaries and parses the resulting output table back into
// per-pixel quantities.
//
// The fitting math itself stays inside LePhare. This package only
// prepares its inputs and interprets its outputs.
package lephare

// Unit tells the fitting code whether catalogue values are magnitudes
// or fluxes (the INP_TYPE key).
type Unit string

const (
	UnitMag  Unit = "M"
	UnitFlux Unit = "F"
)

// MagType selects the magnitude system of the catalogue (CAT_MAG).
type MagType string

const (
	MagAB   MagType = "AB"
	MagVega MagType = "VEGA"
)

// Format selects the column layout of the catalogue (CAT_FMT).
type Format string

const (
	// MEME interleaves value and error per band.
	MEME Format = "MEME"
	// MMEE writes all values first, then all errors.
	MMEE Format = "MMEE"
)

// RowType selects the trailing catalogue columns (CAT_TYPE). Long rows
// carry the context mask and the redshift after the photometry, short
// rows stop after the photometry.
type RowType string

const (
	Long  RowType = "LONG"
	Short RowType = "SHORT"
)
