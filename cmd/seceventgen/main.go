package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"pkg.jsn.cam/seceventgen/internal/config"
	"pkg.jsn.cam/seceventgen/internal/event"
	"pkg.jsn.cam/seceventgen/internal/generator"
	"pkg.jsn.cam/seceventgen/internal/output"
	"pkg.jsn.cam/seceventgen/internal/util"
	"pkg.jsn.cam/seceventgen/pkg/taxonomy"
)

/* writes a SQL script that seeds a table with synthetic security events */

func main() {
	name := filepath.Base(os.Args[0])

	lookup, err := config.Environment(".env")
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", name, err)
		os.Exit(1)
	}

	cfg, err := config.Parse(name, os.Args[1:], lookup, os.Stderr)
	if errors.Is(err, config.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", name, err)
		os.Exit(1)
	}

	if cfg.ListPolicies {
		listPolicies()
		return
	}

	log := util.Init(cfg.LogLevel, cfg.LogFormat)
	if err := run(cfg, log); err != nil {
		log.Error("Generation failed", zap.Error(err))
		util.Sync()
		os.Exit(1)
	}
	util.Sync()
}

func listPolicies() {
	for _, name := range generator.List() {
		p, _ := generator.Get(name)
		fmt.Printf("%-10s %s\n", name, p.Description())
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	tax := taxonomy.Default()
	if cfg.TaxonomyPath != "" {
		loaded, err := taxonomy.Load(cfg.TaxonomyPath)
		if err != nil {
			return err
		}
		tax = loaded
	}

	seedSource := "flag"
	if !cfg.SeedSet {
		seedSource = "clock"
	}
	log.Info("Starting generation",
		zap.Uint64("seed", cfg.Seed),
		zap.String("seed_source", seedSource),
		zap.String("policy", cfg.Policy),
		zap.Int("count", cfg.Count),
		zap.String("table", cfg.Table),
		zap.Strings("categories", tax.CategoryNames()),
	)

	opts := []generator.Option{generator.WithLogger(log)}

	var bar *progressbar.ProgressBar
	if cfg.Progress {
		bar = progressbar.NewOptions(cfg.Count,
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("generating"),
			progressbar.OptionShowCount(),
			progressbar.OptionThrottle(100*time.Millisecond),
			progressbar.OptionClearOnFinish(),
		)
		opts = append(opts, generator.WithProgress(bar))
	}

	gen, err := generator.New(generator.Config{
		Taxonomy:    tax,
		Policy:      cfg.Policy,
		Count:       cfg.Count,
		Seed:        cfg.Seed,
		Table:       cfg.Table,
		Clear:       cfg.Clear,
		ColumnList:  cfg.ColumnList,
		CreateTable: cfg.CreateTable,
		Event: event.Options{
			BaseDate: cfg.BaseDate,
			Actors:   cfg.Actors,
		},
	}, opts...)
	if err != nil {
		return err
	}
	if bar != nil {
		// the weighted policy may emit fewer records than requested
		bar.ChangeMax(gen.Count())
	}

	sink, err := output.NewSink(os.Stdout, cfg.Compression)
	if err != nil {
		return err
	}

	started := time.Now()
	stats, err := gen.Run(sink)
	if err != nil {
		// a partial script is not valid SQL
		sink.Abort()
		return err
	}
	if err := sink.Close(); err != nil {
		return err
	}
	if bar != nil {
		_ = bar.Finish()
	}

	categories := make([]string, 0, len(stats.Categories))
	for c, n := range stats.Categories {
		categories = append(categories, fmt.Sprintf("%s=%d", c, n))
	}
	sort.Strings(categories)

	severities := make([]string, 0, len(stats.Severities))
	for _, sev := range []event.Severity{event.SeverityLow, event.SeverityMedium, event.SeverityHigh, event.SeverityCritical} {
		severities = append(severities, fmt.Sprintf("%s=%d", sev, stats.Severities[sev]))
	}

	log.Info("Generation complete",
		zap.Int("rows", stats.Rows),
		zap.Int("malicious", stats.Malicious),
		zap.Strings("per_category", categories),
		zap.Strings("per_severity", severities),
		zap.String("sql_size", humanize.Bytes(uint64(stats.Bytes))),
		zap.String("written", humanize.Bytes(uint64(sink.Written()))),
		zap.String("compression", string(cfg.Compression)),
		zap.Duration("elapsed", time.Since(started)),
	)
	return nil
}
