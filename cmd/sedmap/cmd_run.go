package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sedmap/sedmap/catalog"
	"github.com/sedmap/sedmap/lephare"
)

var (
	runCatalog string
	runIn      string
	runParams  string
	runWork    string
	runSkips   []string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Drive the external LePhare fit end to end",
	Long: `run writes the parameter files and invokes the LePhare stages on an
input catalogue produced by "table". The installation is located
through LEPHAREDIR (a .env file is honoured) and intermediate
products go to --work, falling back to LEPHAREWORK.`,
	RunE: runFit,
}

func init() {
	runCmd.Flags().StringVar(&runCatalog, "catalog", "", "Band catalog file (required)")
	runCmd.Flags().StringVar(&runIn, "in", "", "Input catalogue from \"table\" (required)")
	runCmd.Flags().StringVar(&runParams, "params", "", "Fit parameter file, YAML (required)")
	runCmd.Flags().StringVar(&runWork, "work", "", "Working directory for generated files")
	runCmd.Flags().StringSliceVar(&runSkips, "skip", nil,
		"Stages to skip: sed, filter, mag-star, mag-gal, mag-qso")
	runCmd.MarkFlagRequired("catalog")
	runCmd.MarkFlagRequired("in")
	runCmd.MarkFlagRequired("params")
}

func runFit(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cat, err := catalog.Load(runCatalog)
	if err != nil {
		return err
	}
	p, err := lephare.LoadParams(runParams)
	if err != nil {
		return err
	}
	opts, err := skipOptions(runSkips)
	if err != nil {
		return err
	}

	// the parameter file declares the catalogue layout it was built for
	in := &lephare.Cat{
		Path:   runIn,
		Unit:   p.InpType,
		Mag:    p.CatMag,
		Format: p.CatFmt,
		Rows:   p.CatType,
		NBands: len(cat.Bands),
	}
	work := runWork
	if work == "" {
		work = os.Getenv("LEPHAREWORK")
	}
	r := &lephare.Runner{
		Dir:  os.Getenv("LEPHAREDIR"),
		Work: work,
		Log:  logger,
	}
	if r.Dir == "" {
		return fmt.Errorf("LEPHAREDIR is not set")
	}

	o, err := r.Run(ctx, in, p, opts...)
	if err != nil {
		return err
	}
	logger.Info("fit output parsed",
		zap.String("galaxy", cat.Galaxy),
		zap.Int("rows", o.NumRows()),
		zap.Int("quantities", len(o.Params())))
	return nil
}

func skipOptions(names []string) ([]lephare.RunOption, error) {
	var opts []lephare.RunOption
	for _, n := range names {
		switch strings.ToLower(n) {
		case "sed":
			opts = append(opts, lephare.SkipSEDGen())
		case "filter":
			opts = append(opts, lephare.SkipFilterGen())
		case "mag-star":
			opts = append(opts, lephare.SkipMagStar())
		case "mag-gal":
			opts = append(opts, lephare.SkipMagGal())
		case "mag-qso":
			opts = append(opts, lephare.SkipMagQSO())
		default:
			return nil, fmt.Errorf("unknown stage %q", n)
		}
	}
	return opts, nil
}
