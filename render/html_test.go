package render_test

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sedmap/sedmap"
	"github.com/sedmap/sedmap/render"
)

func TestHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, render.HTML(&buf, testMap(), render.DefaultConfig()))

	page := buf.String()
	assert.Contains(t, page, "echarts")
	assert.Contains(t, page, "heatmap")
	assert.Contains(t, page, "mass_med")
	assert.Contains(t, page, "Msun")
	assert.Contains(t, page, "X [pixel]")
	assert.Contains(t, page, "#440154")
	assert.NotContains(t, page, "NaN")
}

func TestHTML_UpperOrigin(t *testing.T) {
	m := &sedmap.Map{Name: "age_median", W: 2, H: 2, Data: []float64{math.NaN(), 1, 2, 3}}
	cfg := render.DefaultConfig()
	cfg.Origin = render.OriginUpper

	var buf bytes.Buffer
	require.NoError(t, render.HTML(&buf, m, cfg))

	// row 1 moves to category index 0 when the origin flips
	page := buf.String()
	assert.Contains(t, page, "[0,0,2]")
	assert.Contains(t, page, "[1,0,3]")
	assert.Contains(t, page, "[1,1,1]")
}

func TestHTML_Errors(t *testing.T) {
	cfg := render.DefaultConfig()

	err := render.HTML(&bytes.Buffer{}, nil, cfg)
	assert.ErrorContains(t, err, "nil map")

	err = render.HTML(&bytes.Buffer{}, &sedmap.Map{W: 1, H: 2, Data: make([]float64, 3)}, cfg)
	assert.ErrorContains(t, err, "3 pixels")

	blank := &sedmap.Map{Name: "sfr_med", W: 1, H: 1, Data: []float64{math.NaN()}}
	err = render.HTML(&bytes.Buffer{}, blank, cfg)
	assert.ErrorContains(t, err, "no finite pixels")
}
