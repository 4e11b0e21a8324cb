package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"

	"exp/internal/db"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

func reportMain(store *db.DB, outDir string) {
	results, err := store.ListDetailedResults()
	if err != nil {
		log.Fatalf("failed to list results: %v", err)
	}
	if len(results) == 0 {
		log.Fatal("no results stored yet, run a sweep first")
	}
	log.Printf("loaded %d results", len(results))

	scatterPath := filepath.Join(outDir, "rms_scatter.html")
	if err := generateScatterPlot(results, scatterPath); err != nil {
		log.Printf("failed to generate scatter plot: %v", err)
	} else {
		log.Printf("wrote %s", scatterPath)
	}

	heatmapPath := filepath.Join(outDir, "rms_heatmap.html")
	if err := generateHeatmap(results, heatmapPath); err != nil {
		log.Printf("failed to generate heatmap: %v", err)
	} else {
		log.Printf("wrote %s", heatmapPath)
	}

	printSummaryTable(results)
}

// generateScatterPlot plots round-trip RMS against the noise factor,
// one series per clean method and scale factor pair.
func generateScatterPlot(results []*db.DetailedResult, outputPath string) error {
	var maxTexp float64
	for _, r := range results {
		if r.TexpFac > maxTexp {
			maxTexp = r.TexpFac
		}
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Round-trip RMS vs exposure noise factor",
			Subtitle: "One point per stored run",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: "texp factor",
			Type: "value",
			Min:  0,
			Max:  maxTexp,
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:         "RMS [count/s]",
			NameLocation: "start",
			Type:         "value",
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:     opts.Bool(true),
			Trigger:  "item",
			Position: "bottom",
		}),
		charts.WithDataZoomOpts(opts.DataZoom{
			Type:   "slider",
			Start:  0,
			End:    100,
			Orient: "vertical",
		}),
		charts.WithDataZoomOpts(opts.DataZoom{
			Type:   "slider",
			Start:  0,
			End:    100,
			Orient: "horizontal",
		}),
	)

	groups := make(map[string][]opts.ScatterData)
	for _, r := range results {
		key := fmt.Sprintf("clean=%s scale=%g", r.CleanMethod, r.ScaleFactor)
		groups[key] = append(groups[key], opts.ScatterData{
			Value:      []any{r.TexpFac, r.RMS},
			Symbol:     "circle",
			SymbolSize: 10,
			Name:       fmt.Sprintf("%s texp=%g %dx%d rows=%d", key, r.TexpFac, r.Width, r.Height, r.Rows),
		})
	}

	// Sort keys for consistent legend order
	var keys []string
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		scatter.AddSeries(key, groups[key])
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer f.Close()

	return scatter.Render(f)
}

// generateHeatmap lays out the grid as clean/scale columns against
// noise factor rows, with the mean RMS over stored runs as intensity.
func generateHeatmap(results []*db.DetailedResult, outputPath string) error {
	type colKey struct {
		clean string
		scale float64
	}
	type cell struct {
		sum float64
		n   int
	}
	cells := make(map[colKey]map[float64]*cell)

	colSet := make(map[colKey]bool)
	texpSet := make(map[float64]bool)
	for _, r := range results {
		key := colKey{r.CleanMethod, r.ScaleFactor}
		colSet[key] = true
		texpSet[r.TexpFac] = true
		if cells[key] == nil {
			cells[key] = make(map[float64]*cell)
		}
		c := cells[key][r.TexpFac]
		if c == nil {
			c = &cell{}
			cells[key][r.TexpFac] = c
		}
		c.sum += r.RMS
		c.n++
	}

	var cols []colKey
	for key := range colSet {
		cols = append(cols, key)
	}
	sort.Slice(cols, func(i, j int) bool {
		if cols[i].clean == cols[j].clean {
			return cols[i].scale < cols[j].scale
		}
		return cols[i].clean < cols[j].clean
	})
	var texps []float64
	for t := range texpSet {
		texps = append(texps, t)
	}
	sort.Float64s(texps)

	var xLabels, yLabels []string
	for _, c := range cols {
		xLabels = append(xLabels, fmt.Sprintf("%s/%g", c.clean, c.scale))
	}
	for _, t := range texps {
		yLabels = append(yLabels, fmt.Sprintf("texp=%g", t))
	}

	var heatmapData []opts.HeatMapData
	var maxRMS float64
	for i, t := range texps {
		for j, key := range cols {
			c := cells[key][t]
			if c == nil || c.n == 0 {
				continue
			}
			mean := c.sum / float64(c.n)
			if mean > maxRMS {
				maxRMS = mean
			}
			heatmapData = append(heatmapData, opts.HeatMapData{
				Value: [3]any{j, i, mean},
			})
		}
	}

	heatmap := charts.NewHeatMap()
	heatmap.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Round-trip RMS by grid point",
			Subtitle: "Mean RMS [count/s] over stored runs",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name:      "clean/scale",
			Type:      "category",
			Data:      xLabels,
			SplitArea: &opts.SplitArea{Show: opts.Bool(true)},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:      "noise",
			Type:      "category",
			Data:      yLabels,
			SplitArea: &opts.SplitArea{Show: opts.Bool(true)},
		}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        float32(maxRMS),
			Range:      []float32{0, float32(maxRMS)},
			InRange:    &opts.VisualMapInRange{Color: []string{"#313695", "#74add1", "#fee090", "#f46d43", "#a50026"}},
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	heatmap.AddSeries("RMS", heatmapData)

	f, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer f.Close()

	return heatmap.Render(f)
}

// printSummaryTable logs the per grid point averages for a quick read
// without opening the charts.
func printSummaryTable(results []*db.DetailedResult) {
	type gridKey struct {
		clean string
		scale float64
		texp  float64
	}
	type agg struct {
		rms   float64
		gen   float64
		recon float64
		n     int
	}
	byGrid := make(map[gridKey]*agg)
	for _, r := range results {
		key := gridKey{r.CleanMethod, r.ScaleFactor, r.TexpFac}
		a := byGrid[key]
		if a == nil {
			a = &agg{}
			byGrid[key] = a
		}
		a.rms += r.RMS
		a.gen += r.GenMS
		a.recon += r.ReconMS
		a.n++
	}

	var keys []gridKey
	for k := range byGrid {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.clean != b.clean {
			return a.clean < b.clean
		}
		if a.scale != b.scale {
			return a.scale < b.scale
		}
		return a.texp < b.texp
	})

	log.Printf("%-6s | %6s | %6s | %5s | %10s | %8s | %8s\n", "clean", "scale", "texp", "runs", "avgRMS", "gen ms", "recon ms")
	log.Printf("%s\n", "-------+--------+--------+-------+------------+----------+---------")
	for _, k := range keys {
		a := byGrid[k]
		n := float64(a.n)
		log.Printf("%-6s | %6g | %6g | %5d | %10.4g | %8.2f | %8.2f\n",
			k.clean, k.scale, k.texp, a.n, a.rms/n, a.gen/n, a.recon/n)
	}
}
