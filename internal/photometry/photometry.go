// Package photometry converts instrument counts to magnitudes and fluxes.
package photometry

import "math"

// abOffset relates AB magnitudes to spectral flux density in erg/s/cm2/Hz:
// mag = -2.5 log10(F) - 48.6.
const abOffset = 48.6

// mJy is one millijansky in erg/s/cm2/Hz.
const mJy = 1e-26

// CountToMag converts counts per second and the associated standard error
// into an AB magnitude and its error:
//
//	mag  = -2.5 log10(d) + zpt
//	emag = 1.08 err / d
func CountToMag(data, err, zeropoint float64) (mag, emag float64) {
	mag = -2.5*math.Log10(data) + zeropoint
	emag = 1.08 * err / data
	return mag, emag
}

// CountToFlux converts counts per second and the associated standard error
// into spectral flux density in erg/s/cm2/Hz.
func CountToFlux(data, err, zeropoint float64) (flux, eflux float64) {
	f := math.Pow(10, -(zeropoint+abOffset)/2.5)
	return data * f, err * f
}

// CountToFluxMJy converts counts per second and the associated standard
// error into flux density in millijansky.
func CountToFluxMJy(data, err, zeropoint float64) (flux, eflux float64) {
	f, ef := CountToFlux(data, err, zeropoint)
	return f / mJy, ef / mJy
}
