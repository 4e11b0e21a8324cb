// Package render draws reconstructed quantity maps as false-color
// figures, either rasterised to PNG or as interactive HTML heatmaps.
package render

import (
	"fmt"
	"image"
	"io"
	"math"
	"strconv"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/sedmap/sedmap"
)

// Origin selects which map row is drawn at the bottom of the figure.
type Origin int

const (
	// OriginLower draws row 0 at the bottom, the common astronomical
	// orientation.
	OriginLower Origin = iota
	// OriginUpper draws row 0 at the top.
	OriginUpper
)

// Config holds the figure layout. The zero value is usable; DefaultConfig
// fills in the conventional labels.
type Config struct {
	ColorMap ColorMap
	Title    string
	XLabel   string
	YLabel   string
	// BarLabel annotates the color bar. Empty means the map name and unit.
	BarLabel string
	FontSize float64
	// Width is the pixel width of the map panel before margins.
	Width int
	// Min and Max override the color range. Nil means the finite data range.
	Min, Max *float64
	Origin   Origin
}

// DefaultConfig returns the standard figure layout.
func DefaultConfig() Config {
	return Config{
		ColorMap: Viridis,
		XLabel:   "X [pixel]",
		YLabel:   "Y [pixel]",
		FontSize: 13,
		Width:    520,
	}
}

// PNG renders m as a false-color raster with axes and a vertical color
// bar and writes the encoded image to w. Pixels holding NaN stay
// transparent and show the white background.
func PNG(w io.Writer, m *sedmap.Map, cfg Config) error {
	if m == nil {
		return fmt.Errorf("nil map")
	}
	if m.W <= 0 || m.H <= 0 || len(m.Data) != m.W*m.H {
		return fmt.Errorf("map %q has %d pixels for %dx%d", m.Name, len(m.Data), m.W, m.H)
	}
	fillDefaults(&cfg)

	vmin, vmax, ok := dataRange(m.Data, cfg.Min, cfg.Max)
	if !ok {
		return fmt.Errorf("map %q has no finite pixels", m.Name)
	}

	raster := rasterize(m, cfg, vmin, vmax)
	panelW := cfg.Width
	panelH := int(math.Round(float64(panelW) * float64(m.H) / float64(m.W)))
	if panelH < 1 {
		panelH = 1
	}
	panel := image.NewNRGBA(image.Rect(0, 0, panelW, panelH))
	draw.NearestNeighbor.Scale(panel, panel.Bounds(), raster, raster.Bounds(), draw.Src, nil)

	fs := cfg.FontSize
	marginL := int(4.5 * fs)
	marginR := int(7 * fs)
	marginB := int(3.5 * fs)
	marginT := int(1.5 * fs)
	if cfg.Title != "" {
		marginT = int(2.5 * fs)
	}

	ft, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return fmt.Errorf("parse font: %w", err)
	}
	labelFace := truetype.NewFace(ft, &truetype.Options{Size: fs, DPI: 72, Hinting: font.HintingNone})
	tickFace := truetype.NewFace(ft, &truetype.Options{Size: 0.85 * fs, DPI: 72, Hinting: font.HintingNone})

	dc := gg.NewContext(marginL+panelW+marginR, marginT+panelH+marginB)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.DrawImage(panel, marginL, marginT)

	dc.SetRGB(0, 0, 0)
	dc.SetLineWidth(1)
	dc.DrawRectangle(float64(marginL)-0.5, float64(marginT)-0.5, float64(panelW)+1, float64(panelH)+1)
	dc.Stroke()

	drawTicks(dc, tickFace, m, cfg, marginL, marginT, panelW, panelH)
	drawLabels(dc, labelFace, cfg, marginL, marginT, panelW, panelH)
	drawColorBar(dc, tickFace, labelFace, m, cfg, vmin, vmax, marginL+panelW, marginT, panelH)

	return dc.EncodePNG(w)
}

func fillDefaults(cfg *Config) {
	if len(cfg.ColorMap.colors) == 0 {
		cfg.ColorMap = Viridis
	}
	if cfg.FontSize <= 0 {
		cfg.FontSize = 13
	}
	if cfg.Width <= 0 {
		cfg.Width = 520
	}
}

func dataRange(data []float64, min, max *float64) (float64, float64, bool) {
	vmin, vmax := math.Inf(1), math.Inf(-1)
	for _, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		if v < vmin {
			vmin = v
		}
		if v > vmax {
			vmax = v
		}
	}
	if min != nil {
		vmin = *min
	}
	if max != nil {
		vmax = *max
	}
	if math.IsInf(vmin, 0) || math.IsInf(vmax, 0) {
		return 0, 0, false
	}
	return vmin, vmax, true
}

func rasterize(m *sedmap.Map, cfg Config, vmin, vmax float64) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, m.W, m.H))
	span := vmax - vmin
	for y := 0; y < m.H; y++ {
		row := y
		if cfg.Origin == OriginLower {
			row = m.H - 1 - y
		}
		for x := 0; x < m.W; x++ {
			v := m.Data[row*m.W+x]
			if math.IsNaN(v) {
				continue
			}
			t := 0.5
			if span > 0 {
				t = (v - vmin) / span
			}
			img.SetNRGBA(x, y, cfg.ColorMap.At(t))
		}
	}
	return img
}

func drawTicks(dc *gg.Context, face font.Face, m *sedmap.Map, cfg Config, left, top, panelW, panelH int) {
	dc.SetFontFace(face)
	dc.SetRGB(0, 0, 0)
	scaleX := float64(panelW) / float64(m.W)
	bottom := float64(top + panelH)
	for v := 0; v < m.W; v += tickStep(m.W) {
		px := float64(left) + (float64(v)+0.5)*scaleX
		dc.DrawLine(px, bottom, px, bottom+4)
		dc.Stroke()
		dc.DrawStringAnchored(strconv.Itoa(v), px, bottom+6, 0.5, 1)
	}
	scaleY := float64(panelH) / float64(m.H)
	for v := 0; v < m.H; v += tickStep(m.H) {
		py := float64(top) + (float64(v)+0.5)*scaleY
		if cfg.Origin == OriginLower {
			py = float64(top+panelH) - (float64(v)+0.5)*scaleY
		}
		dc.DrawLine(float64(left)-4, py, float64(left), py)
		dc.Stroke()
		dc.DrawStringAnchored(strconv.Itoa(v), float64(left)-6, py, 1, 0.35)
	}
}

// tickStep picks a 1/2/5-series stride yielding about five ticks.
func tickStep(n int) int {
	if n <= 5 {
		return 1
	}
	raw := float64(n) / 5
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	var s float64
	switch norm := raw / mag; {
	case norm < 1.5:
		s = 1
	case norm < 3.5:
		s = 2
	case norm < 7.5:
		s = 5
	default:
		s = 10
	}
	step := int(s * mag)
	if step < 1 {
		step = 1
	}
	return step
}

func drawLabels(dc *gg.Context, face font.Face, cfg Config, left, top, panelW, panelH int) {
	dc.SetFontFace(face)
	dc.SetRGB(0, 0, 0)
	cx := float64(left) + float64(panelW)/2
	if cfg.Title != "" {
		dc.DrawStringAnchored(cfg.Title, cx, float64(top)/2, 0.5, 0.5)
	}
	if cfg.XLabel != "" {
		h := float64(dc.Height())
		dc.DrawStringAnchored(cfg.XLabel, cx, h-0.8*cfg.FontSize, 0.5, 0.5)
	}
	if cfg.YLabel != "" {
		cy := float64(top) + float64(panelH)/2
		lx := 1.1 * cfg.FontSize
		dc.Push()
		dc.RotateAbout(-math.Pi/2, lx, cy)
		dc.DrawStringAnchored(cfg.YLabel, lx, cy, 0.5, 0.5)
		dc.Pop()
	}
}

func drawColorBar(dc *gg.Context, tickFace, labelFace font.Face, m *sedmap.Map, cfg Config, vmin, vmax float64, panelRight, top, panelH int) {
	fs := cfg.FontSize
	barX := panelRight + int(1.2*fs)
	barW := int(fs)
	if barW < 8 {
		barW = 8
	}
	bar := image.NewNRGBA(image.Rect(0, 0, barW, panelH))
	for y := 0; y < panelH; y++ {
		t := 1.0
		if panelH > 1 {
			t = 1 - float64(y)/float64(panelH-1)
		}
		c := cfg.ColorMap.At(t)
		for x := 0; x < barW; x++ {
			bar.SetNRGBA(x, y, c)
		}
	}
	dc.DrawImage(bar, barX, top)
	dc.SetRGB(0, 0, 0)
	dc.SetLineWidth(1)
	dc.DrawRectangle(float64(barX)-0.5, float64(top)-0.5, float64(barW)+1, float64(panelH)+1)
	dc.Stroke()

	dc.SetFontFace(tickFace)
	tx := float64(barX+barW) + 4
	dc.DrawStringAnchored(formatTick(vmax), tx, float64(top), 0, 0.35)
	dc.DrawStringAnchored(formatTick(vmin), tx, float64(top+panelH), 0, 0.35)

	label := cfg.BarLabel
	if label == "" {
		label = m.Name
		if m.Unit != "" {
			label = fmt.Sprintf("%s [%s]", m.Name, m.Unit)
		}
	}
	if label != "" {
		dc.SetFontFace(labelFace)
		lx := float64(barX+barW) + 4.2*fs
		cy := float64(top) + float64(panelH)/2
		dc.Push()
		dc.RotateAbout(-math.Pi/2, lx, cy)
		dc.DrawStringAnchored(label, lx, cy, 0.5, 0.5)
		dc.Pop()
	}
}

func formatTick(v float64) string {
	return strconv.FormatFloat(v, 'g', 3, 64)
}
