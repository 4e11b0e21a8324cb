package catalog

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
galaxy: "1"
redshift: 0.622
dir: data
bands:
  - name: "435"
    zeropoint: 25.68
  - name: "606"
    zeropoint: 26.51
  - name: "775"
    zeropoint: 25.69
`

func TestParse(t *testing.T) {
	c, err := Parse(strings.NewReader(sample))
	require.NoError(t, err)
	assert.Equal(t, "1", c.Galaxy)
	assert.Equal(t, 0.622, c.Redshift)
	require.Len(t, c.Bands, 3)
	assert.Equal(t, Band{Name: "435", Zeropoint: 25.68}, c.Bands[0])
	assert.Equal(t, Band{Name: "775", Zeropoint: 25.69}, c.Bands[2])
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{name: "missing_galaxy", yaml: "redshift: 0.1\nbands:\n  - name: a\n    zeropoint: 25\n"},
		{name: "no_bands", yaml: "galaxy: g\nredshift: 0.1\n"},
		{name: "negative_redshift", yaml: "galaxy: g\nredshift: -1\nbands:\n  - name: a\n    zeropoint: 25\n"},
		{name: "duplicate_band", yaml: "galaxy: g\nbands:\n  - name: a\n    zeropoint: 25\n  - name: a\n    zeropoint: 26\n"},
		{name: "empty_band_name", yaml: "galaxy: g\nbands:\n  - name: \"\"\n    zeropoint: 25\n"},
		{name: "non_finite_zeropoint", yaml: "galaxy: g\nbands:\n  - name: a\n    zeropoint: .nan\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.yaml))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestParse_UnknownField(t *testing.T) {
	_, err := Parse(strings.NewReader("galaxy: g\nzeropoints: [1]\n"))
	assert.Error(t, err)
}

func TestPaths(t *testing.T) {
	c, err := Parse(strings.NewReader(sample))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("data", "1_435.fits"), c.FluxPath("435"))
	assert.Equal(t, filepath.Join("data", "1_435_PSF2.fits"), c.Flux2Path("435"))
	assert.Equal(t, filepath.Join("data", "1_435_var.fits"), c.VarPath("435"))
	assert.Equal(t, filepath.Join("data", "1_mask.fits"), c.MaskPath())
}
