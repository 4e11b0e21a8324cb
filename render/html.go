package render

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/sedmap/sedmap"
)

// HTML renders m as an interactive heatmap with a visual-map slider and
// writes a standalone HTML page to w. Pixels holding NaN are left blank.
func HTML(w io.Writer, m *sedmap.Map, cfg Config) error {
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

	title := cfg.Title
	if title == "" {
		title = m.Name
	}

	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: m.Unit,
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name:      cfg.XLabel,
			Type:      "category",
			Data:      axisLabels(m.W),
			SplitArea: &opts.SplitArea{Show: opts.Bool(true)},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:      cfg.YLabel,
			Type:      "category",
			Data:      axisLabels(m.H),
			SplitArea: &opts.SplitArea{Show: opts.Bool(true)},
		}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: opts.Bool(true),
			Min:        float32(vmin),
			Max:        float32(vmax),
			Range:      []float32{float32(vmin), float32(vmax)},
			InRange:    &opts.VisualMapInRange{Color: cfg.ColorMap.Stops()},
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	name := m.Name
	if name == "" {
		name = "value"
	}
	hm.AddSeries(name, heatmapData(m, cfg.Origin))
	return hm.Render(w)
}

func axisLabels(n int) []string {
	labels := make([]string, n)
	for i := range labels {
		labels[i] = strconv.Itoa(i)
	}
	return labels
}

// heatmapData flattens the map into cell triples. The category y axis
// places index 0 at the bottom, matching the lower origin.
func heatmapData(m *sedmap.Map, origin Origin) []opts.HeatMapData {
	data := make([]opts.HeatMapData, 0, len(m.Data))
	for y := 0; y < m.H; y++ {
		idx := y
		if origin == OriginUpper {
			idx = m.H - 1 - y
		}
		for x := 0; x < m.W; x++ {
			v := m.Data[y*m.W+x]
			if math.IsNaN(v) {
				continue
			}
			data = append(data, opts.HeatMapData{Value: [3]any{x, idx, v}})
		}
	}
	return data
}
