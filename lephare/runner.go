package lephare

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// StageError reports a fitting stage that failed, carrying the tail of
// its standard error stream.
type StageError struct {
	Stage  string
	Stderr string
	Err    error
}

func (e *StageError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("stage %s: %v: %s", e.Stage, e.Err, e.Stderr)
}

func (e *StageError) Unwrap() error { return e.Err }

// Runner invokes the fitting binaries of a LePhare installation.
// Binaries are resolved under Dir/source and every stage inherits
// LEPHAREDIR and LEPHAREWORK.
type Runner struct {
	// Dir is the installation root, usually $LEPHAREDIR.
	Dir string
	// Work receives every generated file. Empty means the current
	// directory.
	Work string
	// Env entries are appended to the inherited environment.
	Env []string
	// Log receives stage progress. Nil disables logging.
	Log *zap.Logger
}

type RunOption func(*runConfig)

type runConfig struct {
	skipSEDGen    bool
	skipFilterGen bool
	skipMagGal    bool
	skipMagQSO    bool
	skipMagStar   bool
}

// SkipSEDGen reuses the compiled template libraries of a previous run.
func SkipSEDGen() RunOption { return func(c *runConfig) { c.skipSEDGen = true } }

// SkipFilterGen reuses the compiled filter set of a previous run.
func SkipFilterGen() RunOption { return func(c *runConfig) { c.skipFilterGen = true } }

// SkipMagGal reuses the galaxy magnitude grid of a previous run.
func SkipMagGal() RunOption { return func(c *runConfig) { c.skipMagGal = true } }

// SkipMagQSO reuses the QSO magnitude grid of a previous run.
func SkipMagQSO() RunOption { return func(c *runConfig) { c.skipMagQSO = true } }

// SkipMagStar reuses the stellar magnitude grid of a previous run.
func SkipMagStar() RunOption { return func(c *runConfig) { c.skipMagStar = true } }

type stage struct {
	name string
	args []string
}

// Run drives a full fit of the catalogue: configuration files are
// written to the work directory, the stages execute in order with any
// requested skips, and the resulting output file is parsed. The
// catalogue layout overrides the matching configuration fields so the
// fit always reads what was actually written.
func (r *Runner) Run(ctx context.Context, cat *Cat, p *Params, opts ...RunOption) (*Output, error) {
	var cfg runConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if cat == nil {
		return nil, fmt.Errorf("nil catalogue")
	}
	if p == nil {
		return nil, fmt.Errorf("nil params")
	}

	work := r.Work
	if work == "" {
		work = "."
	}
	work, err := filepath.Abs(work)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(work, 0o755); err != nil {
		return nil, err
	}

	run := *p
	run.CatIn, err = filepath.Abs(cat.Path)
	if err != nil {
		return nil, err
	}
	run.InpType = cat.Unit
	run.CatMag = cat.Mag
	run.CatFmt = cat.Format
	run.CatType = cat.Rows
	if run.CatOut == "" {
		run.CatOut = filepath.Join(work, run.ID+".out")
	}
	if run.ParaOut == "" {
		run.ParaOut = filepath.Join(work, run.ID+"_output.para")
	}
	if len(run.FilterList) != cat.NBands {
		return nil, fmt.Errorf("%d filters configured for a %d band catalogue",
			len(run.FilterList), cat.NBands)
	}
	if err := run.Validate(); err != nil {
		return nil, err
	}

	para := filepath.Join(work, run.ID+".para")
	if err := writeFile(para, run.WriteParams); err != nil {
		return nil, err
	}
	if err := writeFile(run.ParaOut, run.WriteOutputParams); err != nil {
		return nil, err
	}

	var stages []stage
	if !cfg.skipSEDGen {
		stages = append(stages,
			stage{"sedtolib", []string{"-t", "S", "-c", para}},
			stage{"sedtolib", []string{"-t", "Q", "-c", para}},
			stage{"sedtolib", []string{"-t", "G", "-c", para}},
		)
	}
	if !cfg.skipFilterGen {
		stages = append(stages, stage{"filter", []string{"-c", para}})
	}
	if !cfg.skipMagStar {
		stages = append(stages, stage{"mag_star", []string{"-c", para}})
	}
	if !cfg.skipMagGal {
		stages = append(stages, stage{"mag_gal", []string{"-t", "G", "-c", para}})
	}
	if !cfg.skipMagQSO {
		stages = append(stages, stage{"mag_gal", []string{"-t", "Q", "-c", para}})
	}
	stages = append(stages, stage{"zphota", []string{"-c", para}})

	log := r.Log
	if log == nil {
		log = zap.NewNop()
	}
	for _, s := range stages {
		start := time.Now()
		log.Info("running fit stage", zap.String("stage", s.name), zap.Strings("args", s.args))
		if err := r.runStage(ctx, work, s.name, s.args); err != nil {
			return nil, err
		}
		log.Info("fit stage done", zap.String("stage", s.name), zap.Duration("elapsed", time.Since(start)))
	}

	log.Info("fit complete", zap.String("output", run.CatOut))
	return ReadOutput(run.CatOut)
}

func (r *Runner) runStage(ctx context.Context, work, name string, args []string) error {
	bin := filepath.Join(r.Dir, "source", name)
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Dir = work
	cmd.Env = append(os.Environ(),
		"LEPHAREDIR="+r.Dir,
		"LEPHAREWORK="+work,
	)
	cmd.Env = append(cmd.Env, r.Env...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return &StageError{Stage: name, Stderr: tail(stderr.String(), 2048), Err: err}
	}
	return nil
}

func writeFile(path string, render func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := render(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
