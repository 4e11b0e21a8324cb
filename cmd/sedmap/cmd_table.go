package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sedmap/sedmap"
	"github.com/sedmap/sedmap/cigale"
	"github.com/sedmap/sedmap/lephare"
)

var (
	tableFlags genFlags
	tableOut   string
)

var tableCmd = &cobra.Command{
	Use:   "table",
	Short: "Build the per-pixel input catalogue for the fitting code",
	Long: `table reads every band triplet and the exclusion mask named by the
band catalog, cleans and normalises the pixel fluxes, and writes the
input catalogue the fitting code consumes: AB magnitudes for LePhare,
mJy fluxes for Cigale.`,
	RunE: runTable,
}

func init() {
	tableFlags.register(tableCmd)
	tableCmd.Flags().StringVar(&tableOut, "out", "", "Output catalogue path (required)")
	tableCmd.MarkFlagRequired("out")
}

func runTable(cmd *cobra.Command, args []string) error {
	cat, _, tbl, err := tableFlags.buildTable(cmd)
	if err != nil {
		return err
	}
	if tbl.Code == sedmap.Cigale {
		err = cigale.SaveCat(tableOut, tbl)
	} else {
		_, err = lephare.SaveCat(tableOut, tbl)
	}
	if err != nil {
		return err
	}
	logger.Info("catalogue written",
		zap.String("path", tableOut),
		zap.String("galaxy", cat.Galaxy),
		zap.String("code", string(tbl.Code)),
		zap.Int("rows", tbl.NumRows()))
	return nil
}
