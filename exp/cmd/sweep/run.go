package main

import (
	"log"
	"math"
	"time"

	"exp/internal/db"
	"exp/internal/galaxy"

	"github.com/sedmap/sedmap"
)

// Parameter grid (can be expanded)
var (
	cleanMethods = []sedmap.CleanMethod{sedmap.CleanZero, sedmap.CleanMin}
	scaleFactors = []float64{10, 100, 1000}
	texpFacs     = []float64{0, 1, 4, 16}
)

func sweepMain(store *db.DB, width, height, bands int, seed uint64) {
	scene, err := galaxy.Build(width, height, bands, seed)
	if err != nil {
		log.Fatalf("failed to build scene: %v", err)
	}
	kept := scene.List.Mask().ValidCount()
	log.Printf("synthetic scene: %dx%d px, %d bands, %d kept pixels", width, height, bands, kept)

	galaxyID, err := store.InsertGalaxy(width, height, bands, int64(seed), kept)
	if err != nil {
		log.Fatalf("failed to record scene: %v", err)
	}

	total := len(cleanMethods) * len(scaleFactors) * len(texpFacs)
	done := 0
	for _, clean := range cleanMethods {
		for _, scale := range scaleFactors {
			for _, texp := range texpFacs {
				res, err := roundTrip(scene, clean, scale, texp, seed)
				if err != nil {
					log.Printf("round trip clean=%s scale=%g texp=%g: %v", clean, scale, texp, err)
					continue
				}
				gridID, err := store.InsertGridPoint(clean.String(), scale, texp)
				if err != nil {
					log.Printf("failed to record grid point: %v", err)
					continue
				}
				res.GalaxyID = galaxyID
				res.GridPointID = gridID
				if _, err := store.InsertResult(res); err != nil {
					log.Printf("failed to record result: %v", err)
					continue
				}
				done++
				log.Printf("[%d/%d] clean=%s scale=%g texp=%g rows=%d rms=%.4g gen=%.1fms",
					done, total, clean, scale, texp, res.Rows, res.RMS, res.GenMS)
			}
		}
	}

	count, err := store.CountResults()
	if err != nil {
		log.Fatalf("failed to count results: %v", err)
	}
	log.Printf("sweep complete: %d/%d runs stored, %d results total", done, total, count)
}

// roundTrip pushes the scene through table generation, an identity fit
// and reconstruction, and measures the damage against the input flux.
func roundTrip(scene *galaxy.Scene, clean sedmap.CleanMethod, scale, texpFac float64, seed uint64) (*db.Result, error) {
	fl := scene.List

	start := time.Now()
	tbl, err := fl.GenTable(
		sedmap.WithCleanMethod(clean),
		sedmap.WithScaleFactor(scale),
		sedmap.WithTexpFac(texpFac),
		sedmap.WithNoiseSeed(seed),
	)
	if err != nil {
		return nil, err
	}
	genMS := float64(time.Since(start).Microseconds()) / 1000

	// identity fit: the reference band's magnitudes go straight back to
	// normalised counts, standing in for a fitted flux column
	fitted := identityFit(tbl.Values[0])

	start = time.Now()
	m, err := fl.Reconstruct(fitted, math.NaN(), true)
	if err != nil {
		return nil, err
	}
	reconMS := float64(time.Since(start).Microseconds()) / 1000

	rms, maxErr := flatError(m.Data, scene.Truth[0], fl.Mask())
	return &db.Result{
		Rows:    tbl.NumRows(),
		RMS:     rms,
		MaxErr:  maxErr,
		GenMS:   genMS,
		ReconMS: reconMS,
	}, nil
}

// identityFit inverts the magnitude conversion row by row. Unusable
// rows come back as NaN, exactly as a fitting code would drop them.
func identityFit(mags []float64) []float64 {
	counts := make([]float64, len(mags))
	for i, mag := range mags {
		if mag == sedmap.Unusable {
			counts[i] = math.NaN()
			continue
		}
		counts[i] = math.Pow(10, (galaxy.Zeropoint-mag)/2.5)
	}
	return counts
}

// flatError compares the reconstructed map with the input flux over the
// kept pixels and returns the RMS and maximum absolute deviation.
func flatError(got, want []float64, mask *sedmap.Mask) (rms, maxAbs float64) {
	var sum float64
	var n int
	for i := range got {
		if mask.Excluded(i) || math.IsNaN(got[i]) {
			continue
		}
		d := got[i] - want[i]
		sum += d * d
		if a := math.Abs(d); a > maxAbs {
			maxAbs = a
		}
		n++
	}
	if n == 0 {
		return math.NaN(), math.NaN()
	}
	return math.Sqrt(sum/float64(n)), maxAbs
}
