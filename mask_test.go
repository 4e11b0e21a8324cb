package sedmap_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sedmap/sedmap"
	"github.com/sedmap/sedmap/internal/fits"
)

func TestLoadMask(t *testing.T) {
	path := filepath.Join(t.TempDir(), "1_mask.fits")
	require.NoError(t, fits.WriteImage(path, &fits.Image{
		Data: []float64{0, 1, 0, 0, 2.5, 0},
		W:    3,
		H:    2,
	}))

	m, err := sedmap.LoadMask(path)
	require.NoError(t, err)

	w, h := m.Shape()
	assert.Equal(t, 3, w)
	assert.Equal(t, 2, h)
	// zero keeps a pixel, any other value excludes it
	assert.False(t, m.Excluded(0))
	assert.True(t, m.Excluded(1))
	assert.True(t, m.Excluded(4))
	assert.Equal(t, 4, m.ValidCount())
}

func TestLoadMask_Missing(t *testing.T) {
	_, err := sedmap.LoadMask(filepath.Join(t.TempDir(), "none.fits"))
	assert.Error(t, err)
}

func TestNewMask_ShapeMismatch(t *testing.T) {
	_, err := sedmap.NewMask(make([]bool, 5), 2, 2)
	assert.ErrorIs(t, err, sedmap.ErrShapeMismatch)
}

func TestNewMask_CopiesInput(t *testing.T) {
	excluded := []bool{false, true, false, false}
	m, err := sedmap.NewMask(excluded, 2, 2)
	require.NoError(t, err)

	excluded[0] = true
	assert.False(t, m.Excluded(0))
}
