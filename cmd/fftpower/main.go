// Command fftpower estimates the isotropic power spectrum of a particle
// catalog painted onto a periodic mesh.
//
// Usage:
//
//	fftpower [flags]
//
// Examples:
//
//	fftpower -nmesh 128 -boxsize 1000 -count 100000
//	fftpower -config run.yaml
//	fftpower -config run.yaml -watch
//	fftpower -config run.yaml -save-as survey -store catalogs.db
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/michaelJwilson/meshkit/catalog"
	"github.com/michaelJwilson/meshkit/catalog/store"
	"github.com/michaelJwilson/meshkit/config"
	"github.com/michaelJwilson/meshkit/mesh/core"
	"github.com/michaelJwilson/meshkit/mesh/field"
	"github.com/michaelJwilson/meshkit/mesh/paint"
	"github.com/michaelJwilson/meshkit/mesh/spectrum"
)

func main() {
	var (
		configPath = flag.String("config", "", "YAML configuration file")
		nmesh      = flag.Int("nmesh", 0, "override mesh cells per side")
		boxsize    = flag.Float64("boxsize", 0, "override box side length")
		window     = flag.String("window", "", "override assignment window (ngp, cic, tsc)")
		count      = flag.Int("count", 0, "override generated catalog particle count")
		workers    = flag.Int("workers", 0, "override worker count")
		storePath  = flag.String("store", "", "SQLite catalog store path")
		saveAs     = flag.String("save-as", "", "save the generated catalog under this name")
		watch      = flag.Bool("watch", false, "re-run whenever the config file changes")
		verbose    = flag.Bool("v", false, "debug logging")
	)

	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if *watch && *configPath == "" {
		logger.Error("-watch requires -config")
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("load config", "err", err)
		os.Exit(1)
	}

	applyFlags(cfg, *nmesh, *boxsize, *window, *count, *workers, *storePath)

	if !*watch {
		if err := run(cfg, *saveAs, logger); err != nil {
			logger.Error("run failed", "err", err)
			os.Exit(1)
		}

		return
	}

	runs := make(chan *config.Config, 1)
	runs <- cfg

	watcher, err := config.NewWatcher(*configPath, func(prev, next *config.Config) {
		applyFlags(next, *nmesh, *boxsize, *window, *count, *workers, *storePath)
		select {
		case runs <- next:
		default:
		}
	}, logger)
	if err != nil {
		logger.Error("watch config", "err", err)
		os.Exit(1)
	}
	defer watcher.Close()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)

	for {
		select {
		case next := <-runs:
			if err := run(next, *saveAs, logger); err != nil {
				logger.Error("run failed", "err", err)
			}

		case sig := <-sigs:
			logger.Info("shutting down", "signal", sig.String())
			return
		}
	}
}

// applyFlags lets command-line overrides win over file and environment.
func applyFlags(cfg *config.Config, nmesh int, boxsize float64, window string, count, workers int, storePath string) {
	if nmesh > 0 {
		cfg.Nmesh = nmesh
	}

	if boxsize > 0 {
		cfg.BoxSize = boxsize
	}

	if window != "" {
		cfg.Window = window
	}

	if count > 0 {
		cfg.Catalog.Count = count
	}

	if workers > 0 {
		cfg.Workers = workers
	}

	if storePath != "" {
		cfg.Catalog.Path = storePath
	}
}

func run(cfg *config.Config, saveAs string, logger *slog.Logger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	m, err := field.New(cfg.Nmesh, cfg.BoxSize)
	if err != nil {
		return err
	}

	logger.Info("mesh ready",
		"nmesh", cfg.Nmesh,
		"boxsize", cfg.BoxSize,
		"memory", humanize.IBytes(uint64(m.Size()*8+m.ComplexSize()*16)))

	cat, err := buildCatalog(cfg, saveAs, logger)
	if err != nil {
		return err
	}

	w, err := paint.ParseWindow(cfg.Window)
	if err != nil {
		return err
	}

	engineOpts := []core.EngineOption{}
	if cfg.Workers > 0 {
		engineOpts = append(engineOpts, core.WithWorkers(cfg.Workers))
	}

	tr, err := field.NewTransform(m, engineOpts...)
	if err != nil {
		return err
	}

	painter, err := paint.NewPainter(m, w, engineOpts...)
	if err != nil {
		return err
	}

	specOpts := []spectrum.Option{spectrum.WithSubtractShotNoise(cfg.Subtract)}
	if cfg.Workers > 0 {
		specOpts = append(specOpts, spectrum.WithWorkers(cfg.Workers))
	}
	if cfg.Bins.Dk > 0 {
		specOpts = append(specOpts, spectrum.WithBinWidth(cfg.Bins.Dk))
	}
	if cfg.Bins.Kmax > 0 {
		specOpts = append(specOpts, spectrum.WithKRange(cfg.Bins.Kmin, cfg.Bins.Kmax))
	}

	est, err := spectrum.New(m, specOpts...)
	if err != nil {
		return err
	}

	started := time.Now()

	result, err := est.FromCatalog(cat, tr, painter)
	if err != nil {
		return err
	}

	logger.Info("spectrum estimated",
		"particles", cat.Len(),
		"window", w.String(),
		"elapsed", time.Since(started))

	printResult(result)

	return nil
}

// buildCatalog resolves the configured particle source, optionally
// persisting generated catalogs.
func buildCatalog(cfg *config.Config, saveAs string, logger *slog.Logger) (catalog.Catalog, error) {
	var (
		cat *catalog.ArrayCatalog
		err error
	)

	switch cfg.Catalog.Kind {
	case config.KindUniform:
		cat, err = catalog.NewUniform(cfg.Catalog.Count, cfg.BoxSize, cfg.Seed)

	case config.KindSimplex:
		cat, err = catalog.NewSimplexDensity(cfg.Catalog.Count, cfg.BoxSize, cfg.Seed, catalog.SimplexOptions{})

	case config.KindStore:
		db, openErr := store.Open(cfg.Catalog.Path, logger)
		if openErr != nil {
			return nil, openErr
		}
		defer db.Close()

		return db.LoadCatalog(context.Background(), cfg.Catalog.Name)

	default:
		return nil, fmt.Errorf("config: unknown catalog kind %q", cfg.Catalog.Kind)
	}

	if err != nil {
		return nil, err
	}

	if saveAs != "" && cfg.Catalog.Path != "" {
		db, err := store.Open(cfg.Catalog.Path, logger)
		if err != nil {
			return nil, err
		}
		defer db.Close()

		if _, err := db.SaveCatalog(context.Background(), saveAs, cat); err != nil {
			return nil, err
		}
	}

	return cat, nil
}

func printResult(result *spectrum.Result) {
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)

	fmt.Fprintln(tw, "k\tP(k)\tmodes\t")

	for i := range result.K {
		if result.Modes[i] == 0 || math.IsNaN(result.Power[i]) {
			continue
		}

		fmt.Fprintf(tw, "%.5f\t%.4g\t%d\t\n", result.K[i], result.Power[i], result.Modes[i])
	}

	tw.Flush()

	fmt.Printf("shot noise: %.4g\n", result.ShotNoise)
}
