package photometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountToMag(t *testing.T) {
	tests := []struct {
		name      string
		data, err float64
		zeropoint float64
		mag, emag float64
	}{
		{name: "unit_counts", data: 1, err: 0.5, zeropoint: 25, mag: 25, emag: 0.54},
		{name: "hundred_counts", data: 100, err: 1, zeropoint: 5, mag: 0, emag: 0.0108},
		{name: "dim", data: 0.01, err: 0.001, zeropoint: 20, mag: 25, emag: 0.108},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mag, emag := CountToMag(tt.data, tt.err, tt.zeropoint)
			assert.InDelta(t, tt.mag, mag, 1e-9)
			assert.InDelta(t, tt.emag, emag, 1e-9)
		})
	}
}

func TestCountToMag_Invalid(t *testing.T) {
	mag, _ := CountToMag(0, 1, 25)
	assert.True(t, math.IsInf(mag, 1))

	mag, _ = CountToMag(-1, 1, 25)
	assert.True(t, math.IsNaN(mag))
}

func TestCountToFlux(t *testing.T) {
	// zeropoint -48.6 maps one count to one erg/s/cm2/Hz
	f, ef := CountToFlux(1, 0.25, -48.6)
	assert.InEpsilon(t, 1.0, f, 1e-12)
	assert.InEpsilon(t, 0.25, ef, 1e-12)

	// zeropoint 16.4 maps one count to exactly one mJy
	f, ef = CountToFluxMJy(1, 2, 16.4)
	assert.InEpsilon(t, 1.0, f, 1e-9)
	assert.InEpsilon(t, 2.0, ef, 1e-9)

	// flux halves when counts halve
	f2, _ := CountToFluxMJy(0.5, 2, 16.4)
	assert.InEpsilon(t, f/2, f2, 1e-12)
}
