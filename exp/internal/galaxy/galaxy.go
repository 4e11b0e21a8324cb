// Package galaxy builds synthetic multi-band scenes for pipeline sweeps.
package galaxy

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/sedmap/sedmap"
)

// Zeropoint is shared by every synthetic band.
const Zeropoint = 25.0

// Texp is the exposure time stamped on every synthetic band, in seconds.
const Texp = 507.0

// Scene bundles a filter list with the noiseless flux it was built from.
type Scene struct {
	List *sedmap.FilterList
	// Truth holds the per-band input flux before any cleaning or noise,
	// in row-major order. Truth[0] is the reference band for round trips.
	Truth [][]float64
	W, H  int
}

// Build renders an exponential-profile blob centred on a w by h grid,
// one amplitude per band, with Gaussian background noise on top. Pixels
// beyond three effective radii are excluded by the mask.
func Build(w, h, nbands int, seed uint64) (*Scene, error) {
	if nbands < 1 {
		return nil, fmt.Errorf("need at least one band, got %d", nbands)
	}
	rng := rand.New(rand.NewPCG(seed, seed))

	cx, cy := float64(w-1)/2, float64(h-1)/2
	re := float64(min(w, h)) / 6

	excluded := make([]bool, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dx, dy := float64(x)-cx, float64(y)-cy
			excluded[y*w+x] = math.Hypot(dx, dy) > 3*re
		}
	}
	mask, err := sedmap.NewMask(excluded, w, h)
	if err != nil {
		return nil, err
	}

	truth := make([][]float64, nbands)
	filters := make([]*sedmap.Filter, nbands)
	for b := 0; b < nbands; b++ {
		amp := 100 * (1 + 0.5*float64(b))
		flux := make([]float64, w*h)
		flux2 := make([]float64, w*h)
		variance := make([]float64, w*h)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				i := y*w + x
				dx, dy := float64(x)-cx, float64(y)-cy
				r := math.Hypot(dx, dy)
				// scale length re/1.678 puts half the light inside re
				profile := amp * math.Exp(-1.678*r/re)
				// background noise drives some outskirt pixels negative,
				// which is what the clean methods differ on
				flux[i] = profile + rng.NormFloat64()*0.01*amp
				flux2[i] = 0.25 * flux[i]
				variance[i] = 0.0001*amp*amp + 0.01*math.Abs(profile)
			}
		}
		truth[b] = flux
		name := fmt.Sprintf("band%02d", b)
		filters[b], err = sedmap.NewFilterData(name, flux, flux2, variance, w, h, Zeropoint,
			sedmap.WithTexp(Texp))
		if err != nil {
			return nil, err
		}
	}

	list, err := sedmap.NewFilterList(filters, mask, sedmap.WithRedshift(0.62))
	if err != nil {
		return nil, err
	}
	return &Scene{List: list, Truth: truth, W: w, H: h}, nil
}
