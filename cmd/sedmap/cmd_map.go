package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sedmap/sedmap"
	"github.com/sedmap/sedmap/cigale"
	"github.com/sedmap/sedmap/lephare"
	"github.com/sedmap/sedmap/render"
)

var (
	mapFlags    genFlags
	mapOutput   string
	mapQuantity string
	mapPNGPath  string
	mapHTMLPath string
	mapFITSPath string
	mapCmapName string
)

var mapCmd = &cobra.Command{
	Use:   "map",
	Short: "Reconstruct a fitted quantity as a 2D map and export it",
	Long: `map regenerates the photometric table, links the fit result file
against it, scatters the chosen quantity back onto the pixel grid,
and writes the map in any of the requested formats.`,
	RunE: runMap,
}

var (
	statsFlags    genFlags
	statsOutput   string
	statsQuantity string
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarise a fitted quantity over the kept pixels",
	RunE:  runStats,
}

func init() {
	mapFlags.register(mapCmd)
	mapCmd.Flags().StringVar(&mapOutput, "output", "", "Fit result file (required)")
	mapCmd.Flags().StringVar(&mapQuantity, "quantity", "", "Quantity to reconstruct, e.g. mass_med (required)")
	mapCmd.Flags().StringVar(&mapPNGPath, "png", "", "Write a PNG figure to this path")
	mapCmd.Flags().StringVar(&mapHTMLPath, "html", "", "Write an interactive HTML heatmap to this path")
	mapCmd.Flags().StringVar(&mapFITSPath, "fits", "", "Write a FITS image to this path")
	mapCmd.Flags().StringVar(&mapCmapName, "cmap", "viridis", "Colormap: viridis, inferno, gray, rainbow")
	mapCmd.MarkFlagRequired("output")
	mapCmd.MarkFlagRequired("quantity")

	statsFlags.register(statsCmd)
	statsCmd.Flags().StringVar(&statsOutput, "output", "", "Fit result file (required)")
	statsCmd.Flags().StringVar(&statsQuantity, "quantity", "", "Quantity to summarise, e.g. mass_med (required)")
	statsCmd.MarkFlagRequired("output")
	statsCmd.MarkFlagRequired("quantity")
}

// fitOutput is the part of a parsed fit result the export commands use;
// both the lephare and cigale readers satisfy it.
type fitOutput interface {
	NumRows() int
	Params() []string
	Link(*sedmap.FilterList) error
	ToImage(string, ...sedmap.MapOption) (*sedmap.Map, error)
}

func loadOutput(code sedmap.Code, path string) (fitOutput, error) {
	if code == sedmap.Cigale {
		return cigale.ReadOutput(path)
	}
	return lephare.ReadOutput(path)
}

func linkQuantity(cmd *cobra.Command, g *genFlags, output, quantity string) (*sedmap.Map, error) {
	_, fl, _, err := g.buildTable(cmd)
	if err != nil {
		return nil, err
	}
	o, err := loadOutput(fl.Code(), output)
	if err != nil {
		return nil, err
	}
	if err := o.Link(fl); err != nil {
		return nil, err
	}
	logger.Debug("fit output linked",
		zap.String("path", output),
		zap.Int("rows", o.NumRows()))
	return o.ToImage(quantity)
}

func runMap(cmd *cobra.Command, args []string) error {
	if mapPNGPath == "" && mapHTMLPath == "" && mapFITSPath == "" {
		return errors.New("nothing to write: pass at least one of --png, --html, --fits")
	}
	cm, err := render.ParseColorMap(mapCmapName)
	if err != nil {
		return err
	}
	m, err := linkQuantity(cmd, &mapFlags, mapOutput, mapQuantity)
	if err != nil {
		return err
	}

	cfg := render.DefaultConfig()
	cfg.ColorMap = cm
	if mapPNGPath != "" {
		if err := writeFigure(mapPNGPath, m, cfg, render.PNG); err != nil {
			return err
		}
		logger.Info("png written", zap.String("path", mapPNGPath), zap.String("quantity", m.Name))
	}
	if mapHTMLPath != "" {
		if err := writeFigure(mapHTMLPath, m, cfg, render.HTML); err != nil {
			return err
		}
		logger.Info("html written", zap.String("path", mapHTMLPath), zap.String("quantity", m.Name))
	}
	if mapFITSPath != "" {
		if err := m.WriteFITS(mapFITSPath); err != nil {
			return err
		}
		logger.Info("fits written", zap.String("path", mapFITSPath), zap.String("quantity", m.Name))
	}
	return nil
}

func writeFigure(path string, m *sedmap.Map, cfg render.Config, write func(io.Writer, *sedmap.Map, render.Config) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f, m, cfg); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func runStats(cmd *cobra.Command, args []string) error {
	m, err := linkQuantity(cmd, &statsFlags, statsOutput, statsQuantity)
	if err != nil {
		return err
	}
	st := m.Stats()
	name := m.Name
	if m.Unit != "" {
		name = fmt.Sprintf("%s [%s]", m.Name, m.Unit)
	}
	fmt.Printf("%s, %d finite pixels of %d\n", name, st.Count, len(m.Data))
	for _, row := range []struct {
		label string
		value float64
	}{
		{"mean", st.Mean},
		{"median", st.Median},
		{"std", st.Std},
		{"min", st.Min},
		{"max", st.Max},
		{"p10", st.P10},
		{"p90", st.P90},
	} {
		fmt.Printf("%-8s %g\n", row.label, row.value)
	}
	return nil
}
