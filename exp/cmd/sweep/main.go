package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"

	"exp/internal/db"
)

// This tool measures the catalogue round trip across a grid of
// table-generation parameters. A synthetic scene goes through table
// generation for every combination of clean method, scale factor and
// exposure noise factor; each table is pushed through an identity fit,
// reconstructed back into a flux map and compared against the input.
// Results accumulate in SQLite under the -db path. The -report flag
// renders HTML charts from the stored runs instead of sweeping.

func main() {
	dbPath := flag.String("db", "/tmp/sedmap-sweep/sweep.db", "SQLite database path")
	width := flag.Int("width", 96, "scene width in pixels")
	height := flag.Int("height", 96, "scene height in pixels")
	bands := flag.Int("bands", 4, "number of synthetic bands")
	seed := flag.Uint64("seed", 1, "scene and noise seed")
	report := flag.Bool("report", false, "render HTML reports from stored runs instead of sweeping")
	outDir := flag.String("out", "/tmp/sedmap-sweep", "output directory for reports")
	flag.Parse()

	if err := os.MkdirAll(filepath.Dir(*dbPath), 0o755); err != nil {
		log.Fatalf("failed to create database directory: %v", err)
	}
	store, err := db.Open(*dbPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer store.Close()

	if *report {
		if err := os.MkdirAll(*outDir, 0o755); err != nil {
			log.Fatalf("failed to create output directory: %v", err)
		}
		reportMain(store, *outDir)
		return
	}
	sweepMain(store, *width, *height, *bands, *seed)
}
