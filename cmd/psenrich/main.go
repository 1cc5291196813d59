// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/poiesic/psenrich"
	"github.com/poiesic/psenrich/config"
	"github.com/poiesic/psenrich/core"
	"github.com/poiesic/psenrich/enrichment"
	"github.com/urfave/cli/v2"
)

const configKey = "config"

// openDatabase is replaced in tests.
var openDatabase = func(cfg *config.Config) (*psenrich.Database, error) {
	return psenrich.NewDatabase(cfg.DBPath, psenrich.WithAIConfig(cfg.ToAIConfig()))
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "psenrich",
		Usage: "Enrich problem statements with AI-generated analysis",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML config file",
			},
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "Path to BadgerDB database directory",
			},
		},
		Before: setup,
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "Enrich every candidate in a catalog",
				Action: runCommand,
				Flags:  append(catalogFlags(), runFlags()...),
			},
			{
				Name:   "one",
				Usage:  "Enrich a single candidate by external id",
				Action: oneCommand,
				Flags: append(catalogFlags(), append(runFlags(),
					&cli.StringFlag{
						Name:     "id",
						Usage:    "External id of the candidate",
						Required: true,
					},
				)...),
			},
			{
				Name:   "status",
				Usage:  "Show stored record counts and the latest runs",
				Action: statusCommand,
				Flags:  catalogFlags(),
			},
		},
	}
}

func catalogFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "catalog",
			Usage: "Path to the candidate catalog (.json, .yaml or .yml)",
		},
	}
}

func runFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "report",
			Usage: "Write the JSON run summary to this file",
		},
		&cli.DurationFlag{
			Name:  "pacing",
			Usage: "Delay between consecutive candidates",
			Value: enrichment.DefaultPacing,
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "Timeout for a single analysis call (0 disables)",
			Value: enrichment.DefaultCallTimeout,
		},
		&cli.StringFlag{
			Name:  "provider",
			Usage: "Analysis provider (openai, gemini)",
		},
		&cli.StringFlag{
			Name:  "host",
			Usage: "Analysis service host URL",
		},
		&cli.StringFlag{
			Name:  "model",
			Usage: "Analysis model name",
		},
		&cli.IntFlag{
			Name:  "rpm",
			Usage: "Maximum analysis requests per minute (0 disables)",
		},
	}
}

// setup loads .env and the layered config, then configures logging.
func setup(c *cli.Context) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if c.IsSet("db") {
		cfg.DBPath = c.String("db")
	}

	if err := setupLogger(cfg.LogLevel); err != nil {
		return err
	}
	if c.App.Metadata == nil {
		c.App.Metadata = map[string]any{}
	}
	c.App.Metadata[configKey] = cfg
	return nil
}

func setupLogger(levelStr string) error {
	level, err := config.ParseLevel(levelStr)
	if err != nil {
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", strings.ToLower(levelStr))
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}

// commandConfig returns the loaded config with command flag overrides applied.
func commandConfig(c *cli.Context) (*config.Config, error) {
	loaded, ok := c.App.Metadata[configKey].(*config.Config)
	if !ok {
		return nil, errors.New("configuration not loaded")
	}
	cfg := *loaded

	if c.IsSet("catalog") {
		cfg.Catalog = c.String("catalog")
	}
	if c.IsSet("report") {
		cfg.Report = c.String("report")
	}
	if c.IsSet("pacing") {
		cfg.Pacing = c.Duration("pacing")
	}
	if c.IsSet("timeout") {
		cfg.CallTimeout = c.Duration("timeout")
	}
	if c.IsSet("provider") {
		cfg.AIProvider = c.String("provider")
	}
	if c.IsSet("host") {
		cfg.AIHost = c.String("host")
	}
	if c.IsSet("model") {
		cfg.AIModel = c.String("model")
	}
	if c.IsSet("rpm") {
		cfg.AIRequestsPerMinute = c.Int("rpm")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func requireCatalog(cfg *config.Config) error {
	if cfg.Catalog == "" {
		return errors.New("catalog path is required (--catalog or catalog in config)")
	}
	return nil
}

func pipelineOptions(c *cli.Context, cfg *config.Config) []enrichment.Option {
	return []enrichment.Option{
		enrichment.WithPacing(cfg.Pacing),
		enrichment.WithCallTimeout(cfg.CallTimeout),
		enrichment.WithProgress(c.App.ErrWriter),
	}
}

func runCommand(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := commandConfig(c)
	if err != nil {
		return err
	}
	if err := requireCatalog(cfg); err != nil {
		return err
	}

	db, err := openDatabase(cfg)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	fmt.Fprintf(c.App.ErrWriter, "Database: %s\n", cfg.DBPath)
	fmt.Fprintf(c.App.ErrWriter, "Catalog: %s\n", cfg.Catalog)
	fmt.Fprintf(c.App.ErrWriter, "Analysis: %s %s\n", cfg.AIProvider, cfg.AIModel)
	fmt.Fprintln(c.App.ErrWriter)

	summary, err := db.EnrichFile(ctx, cfg.Catalog, pipelineOptions(c, cfg)...)
	if summary == nil {
		return fmt.Errorf("enrichment failed: %w", err)
	}
	if err != nil {
		slog.Warn("run not recorded", "err", err)
	}
	return finish(c, cfg, summary)
}

func oneCommand(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := commandConfig(c)
	if err != nil {
		return err
	}
	if err := requireCatalog(cfg); err != nil {
		return err
	}

	db, err := openDatabase(cfg)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	summary, err := db.EnrichOne(ctx, cfg.Catalog, c.String("id"), pipelineOptions(c, cfg)...)
	if summary == nil {
		return err
	}
	if err != nil {
		slog.Warn("run not recorded", "err", err)
	}
	return finish(c, cfg, summary)
}

// finish prints failures and writes the report. Item failures never make the
// command fail.
func finish(c *cli.Context, cfg *config.Config, summary *enrichment.RunSummary) error {
	for _, o := range summary.Failures() {
		fmt.Fprintf(c.App.Writer, "%s\t%s\t%s\n", o.ExternalID, o.Kind, o.Message)
	}
	if cfg.Report != "" {
		if err := enrichment.SaveReport(cfg.Report, summary); err != nil {
			return err
		}
		fmt.Fprintf(c.App.ErrWriter, "Report written to %s\n", cfg.Report)
	}
	return nil
}

func statusCommand(c *cli.Context) error {
	ctx := context.Background()

	loaded, ok := c.App.Metadata[configKey].(*config.Config)
	if !ok {
		return errors.New("configuration not loaded")
	}
	cfg := *loaded
	if c.IsSet("catalog") {
		cfg.Catalog = c.String("catalog")
	}
	def := config.New()
	// Status never calls the analyzer, so any provider settings will do.
	cfg.AIProvider, cfg.AIHost, cfg.AIModel, cfg.AIAPIKey = def.AIProvider, def.AIHost, def.AIModel, ""

	db, err := openDatabase(&cfg)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	status, err := db.Status(ctx)
	if err != nil {
		return err
	}
	w := c.App.Writer
	fmt.Fprintf(w, "Records: %d\n", status.Records)
	printRun(w, "Last batch run", status.LastBatch)
	printRun(w, "Last single run", status.LastSingle)

	if cfg.Catalog != "" {
		stale, err := db.Stale(ctx, cfg.Catalog)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Stale: %d\n", len(stale))
		for _, id := range stale {
			fmt.Fprintf(w, "  %s\n", id)
		}
	}
	return nil
}

func printRun(w io.Writer, label string, run *core.RunRecord) {
	if run == nil {
		fmt.Fprintf(w, "%s: none\n", label)
		return
	}
	fmt.Fprintf(w, "%s: %s at %s (%d total, %d created, %d skipped, %d failed, %s)\n",
		label, run.RunID, run.StartedAt.Format(time.RFC3339),
		run.Total, run.Created, run.Skipped, run.Failed,
		run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond))
}
