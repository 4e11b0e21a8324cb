package sedmap_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sedmap/sedmap"
)

func grid(w, h int, fill float64) []float64 {
	data := make([]float64, w*h)
	for i := range data {
		data[i] = fill
	}
	return data
}

func testFilter(t *testing.T, name string, w, h int, fill float64, opts ...sedmap.FilterOption) *sedmap.Filter {
	t.Helper()
	f, err := sedmap.NewFilterData(name, grid(w, h, fill), grid(w, h, fill), grid(w, h, 1), w, h, 25, opts...)
	require.NoError(t, err)
	return f
}

func openMask(t *testing.T, excluded []bool, w, h int) *sedmap.Mask {
	t.Helper()
	m, err := sedmap.NewMask(excluded, w, h)
	require.NoError(t, err)
	return m
}

func TestNewFilterList(t *testing.T) {
	mask := openMask(t, make([]bool, 16), 4, 4)

	fl, err := sedmap.NewFilterList([]*sedmap.Filter{
		testFilter(t, "435", 4, 4, 1),
		testFilter(t, "606", 4, 4, 2),
	}, mask, sedmap.WithRedshift(0.622))
	require.NoError(t, err)

	w, h := fl.Shape()
	assert.Equal(t, 4, w)
	assert.Equal(t, 4, h)
	assert.Equal(t, []string{"435", "606"}, fl.Bands())
	assert.Equal(t, 2, fl.NBands())
	assert.Equal(t, sedmap.LePhare, fl.Code())
	assert.Equal(t, 0.622, fl.Redshift())
	assert.Nil(t, fl.Table())
}

func TestNewFilterList_ShapeMismatch(t *testing.T) {
	// one band's variance map is 9x10 against 10x10 flux maps
	_, err := sedmap.NewFilterData("435", grid(10, 10, 1), grid(10, 10, 1), grid(9, 10, 1), 10, 10, 25)
	require.Error(t, err)
	assert.ErrorIs(t, err, sedmap.ErrShapeMismatch)

	// a band that disagrees with the mask is rejected by the list
	mask := openMask(t, make([]bool, 100), 10, 10)
	_, err = sedmap.NewFilterList([]*sedmap.Filter{testFilter(t, "435", 9, 10, 1)}, mask)
	require.Error(t, err)
	assert.ErrorIs(t, err, sedmap.ErrShapeMismatch)
}

func TestNewFilterList_DuplicateBand(t *testing.T) {
	mask := openMask(t, make([]bool, 16), 4, 4)
	_, err := sedmap.NewFilterList([]*sedmap.Filter{
		testFilter(t, "435", 4, 4, 1),
		testFilter(t, "435", 4, 4, 2),
	}, mask)
	assert.Error(t, err)
}

func TestListOptions(t *testing.T) {
	mask := openMask(t, make([]bool, 16), 4, 4)

	fl, err := sedmap.NewFilterList(nil, mask, sedmap.WithCode(sedmap.Cigale))
	require.NoError(t, err)
	assert.Equal(t, sedmap.Cigale, fl.Code())

	_, err = sedmap.NewFilterList(nil, mask, sedmap.WithCode(sedmap.Code("eazy")))
	assert.Error(t, err)

	_, err = sedmap.NewFilterList(nil, mask, sedmap.WithRedshift(-0.5))
	assert.Error(t, err)
}
