package render

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"
)

// ColorMap maps a normalised value in [0, 1] onto a color ramp built
// from evenly spaced hex anchors.
type ColorMap struct {
	name   string
	stops  []string
	colors []rgb
}

type rgb struct{ r, g, b float64 }

var (
	Viridis = newColorMap("viridis",
		"#440154", "#46327e", "#365c8d", "#277f8e",
		"#1fa187", "#4ac16d", "#a0da39", "#fde725")
	Inferno = newColorMap("inferno",
		"#000004", "#1b0c41", "#4a0c6b", "#781c6d", "#a52c60",
		"#cf4446", "#ed6925", "#fb9a06", "#fcffa4")
	Gray = newColorMap("gray",
		"#000000", "#ffffff")
	Rainbow = newColorMap("rainbow",
		"#7f00ff", "#0000ff", "#00ffff", "#00ff00",
		"#ffff00", "#ff7f00", "#ff0000")
)

// ParseColorMap resolves a colormap by name, ignoring case.
func ParseColorMap(name string) (ColorMap, error) {
	switch strings.ToLower(name) {
	case "viridis":
		return Viridis, nil
	case "inferno":
		return Inferno, nil
	case "gray", "grey":
		return Gray, nil
	case "rainbow":
		return Rainbow, nil
	}
	return ColorMap{}, fmt.Errorf("unknown colormap %q", name)
}

func newColorMap(name string, stops ...string) ColorMap {
	cm := ColorMap{name: name, stops: stops, colors: make([]rgb, len(stops))}
	for i, s := range stops {
		cm.colors[i] = mustHex(s)
	}
	return cm
}

func mustHex(s string) rgb {
	if len(s) != 7 || s[0] != '#' {
		panic("render: bad color literal " + s)
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		panic("render: bad color literal " + s)
	}
	return rgb{
		r: float64(v>>16&0xff) / 255,
		g: float64(v>>8&0xff) / 255,
		b: float64(v&0xff) / 255,
	}
}

// Name returns the colormap name.
func (c ColorMap) Name() string { return c.name }

// Stops returns the hex anchors, low to high.
func (c ColorMap) Stops() []string {
	out := make([]string, len(c.stops))
	copy(out, c.stops)
	return out
}

// At returns the color for t, clamped to [0, 1].
func (c ColorMap) At(t float64) color.NRGBA {
	if len(c.colors) == 0 {
		return color.NRGBA{A: 0xff}
	}
	if math.IsNaN(t) || t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	pos := t * float64(len(c.colors)-1)
	i := int(pos)
	if i >= len(c.colors)-1 {
		return toNRGBA(c.colors[len(c.colors)-1])
	}
	f := pos - float64(i)
	a, b := c.colors[i], c.colors[i+1]
	return toNRGBA(rgb{
		r: a.r + (b.r-a.r)*f,
		g: a.g + (b.g-a.g)*f,
		b: a.b + (b.b-a.b)*f,
	})
}

func toNRGBA(c rgb) color.NRGBA {
	return color.NRGBA{
		R: uint8(c.r*255 + 0.5),
		G: uint8(c.g*255 + 0.5),
		B: uint8(c.b*255 + 0.5),
		A: 0xff,
	}
}
