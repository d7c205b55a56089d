package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/IshaanNene/bizgoat/internal/browser"
	"github.com/IshaanNene/bizgoat/internal/config"
	"github.com/IshaanNene/bizgoat/internal/crawl"
	"github.com/IshaanNene/bizgoat/internal/listing"
	"github.com/IshaanNene/bizgoat/internal/observability"
	"github.com/IshaanNene/bizgoat/internal/parser"
	"github.com/IshaanNene/bizgoat/internal/storage"
	"github.com/IshaanNene/bizgoat/internal/types"
)

// crawlFlags are command-line overrides of the loaded config.
type crawlFlags struct {
	max       int
	startPage int
	category  string
	output    string
	resume    bool
	headful   bool
}

// crawlCmd creates the "crawl" subcommand.
func crawlCmd() *cobra.Command {
	var flags crawlFlags
	cmd := &cobra.Command{
		Use:   "crawl",
		Short: "Sign in, walk the search results and scrape company profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCrawl(cmd, flags)
		},
	}

	cmd.Flags().IntVarP(&flags.max, "max", "m", 0, "maximum companies to scrape (0 = use config)")
	cmd.Flags().IntVar(&flags.startPage, "start-page", 0, "first listing page to collect (0 = use config)")
	cmd.Flags().StringVar(&flags.category, "category", "", "service category typed into the advanced search")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "spreadsheet output path")
	cmd.Flags().BoolVar(&flags.resume, "resume", false, "continue from the existing checkpoint")
	cmd.Flags().BoolVar(&flags.headful, "headful", false, "show the browser window")

	return cmd
}

// applyCLIOverrides applies command-line flag values to the config.
func applyCLIOverrides(cfg *config.Config, flags crawlFlags) {
	if flags.max > 0 {
		cfg.Crawl.MaxCompanies = flags.max
	}
	if flags.startPage > 0 {
		cfg.Crawl.StartPage = flags.startPage
	}
	if flags.category != "" {
		cfg.Site.SearchCategory = flags.category
	}
	if flags.output != "" {
		cfg.Output.ExcelPath = flags.output
	}
	if flags.resume {
		cfg.Crawl.Resume = true
	}
	if flags.headful {
		cfg.Browser.Headless = false
	}
}

// runCrawl executes the crawl command.
func runCrawl(cmd *cobra.Command, flags crawlFlags) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyCLIOverrides(cfg, flags)
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger := setupLogger(cfg.Logging)

	metrics := observability.NewMetrics(logger)
	if cfg.Metrics.Enabled {
		if err := metrics.StartServer(cfg.Metrics.Port, cfg.Metrics.Path); err != nil {
			logger.Warn("failed to start metrics server", "error", err)
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var prior *types.CheckpointSnapshot
	if !cfg.Crawl.Resume && crawl.HasCheckpoint(cfg.Output.CheckpointPath) {
		logger.Info("existing checkpoint will be overwritten, pass --resume to continue it", "path", cfg.Output.CheckpointPath)
	}
	if cfg.Crawl.Resume {
		prior, err = crawl.LoadCheckpoint(cfg.Output.CheckpointPath)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			logger.Info("no checkpoint to resume from, starting fresh", "path", cfg.Output.CheckpointPath)
		case err != nil:
			return fmt.Errorf("load checkpoint: %w", err)
		}
	}

	sink, excel, err := openSinks(cfg, prior, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := sink.Close(); err != nil {
			logger.Error("closing sinks", "error", err)
		}
	}()

	var archive *storage.PageArchive
	if cfg.Output.ArchiveDir != "" {
		if archive, err = storage.NewPageArchive(cfg.Output.ArchiveDir, logger); err != nil {
			return err
		}
	}

	orch := crawl.New(crawl.Options{
		Listing: listing.Options{
			Filter: listing.Filter{
				BaseURL:   cfg.Site.BaseURL,
				SearchURL: cfg.Site.SearchURL,
				Category:  cfg.Site.SearchCategory,
				StepDelay: cfg.Crawl.FilterStepDelay,
			},
			MaxCompanies:  cfg.Crawl.MaxCompanies,
			StartPage:     cfg.Crawl.StartPage,
			PageDelay:     cfg.Crawl.PageDelay,
			WaitTimeout:   cfg.Browser.WaitTimeout,
			MaxStalePages: cfg.Crawl.MaxStalePages,
		},
		DetailDelay:     cfg.Crawl.DetailDelay,
		CheckpointEvery: cfg.Crawl.CheckpointEvery,
	}, crawl.Deps{
		Parser:     parser.NewDetailParser(logger),
		Sink:       sink,
		Archive:    archive,
		Checkpoint: crawl.NewCheckpointWriter(cfg.Output.CheckpointPath, logger),
		Metrics:    metrics,
	}, logger)
	orch.Resume(prior)

	logger.Info("starting crawl",
		"run_id", orch.RunID(),
		"max_companies", cfg.Crawl.MaxCompanies,
		"start_page", cfg.Crawl.StartPage,
		"category", cfg.Site.SearchCategory,
		"output", cfg.Output.ExcelPath,
	)

	sess, err := browser.Launch(&cfg.Browser, logger)
	if err != nil {
		return err
	}
	defer sess.Close()

	if cfg.Auth.Enabled {
		err := browser.Login(ctx, sess, browser.Credentials{
			LoginURL: cfg.Site.LoginURL,
			Email:    cfg.Auth.Email,
			Password: cfg.Auth.Password,
		}, logger)
		if err != nil {
			return fmt.Errorf("login: %w", err)
		}
	}

	summary, runErr := orch.Run(ctx, sess)

	renderReport(os.Stdout, summary, artifacts{
		Spreadsheet: cfg.Output.ExcelPath,
		Rows:        excel.Count(),
		Checkpoint:  cfg.Output.CheckpointPath,
		JSONL:       cfg.Output.JSONLPath,
		Archive:     cfg.Output.ArchiveDir,
	}, metrics)

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return fmt.Errorf("crawl: %w", runErr)
	}
	return nil
}

// openSinks builds the spreadsheet sink plus the optional JSONL and MongoDB
// sinks. Records carried over from a checkpoint are written to the fresh
// spreadsheet before the crawl starts.
func openSinks(cfg *config.Config, prior *types.CheckpointSnapshot, logger *slog.Logger) (*storage.MultiSink, *storage.ExcelSink, error) {
	excel := storage.NewExcelSink(logger)
	if err := excel.Initialize(cfg.Output.ExcelPath); err != nil {
		return nil, nil, fmt.Errorf("initialize spreadsheet: %w", err)
	}
	if prior != nil && len(prior.Businesses) > 0 {
		if err := excel.Seed(prior.Businesses); err != nil {
			excel.Close()
			return nil, nil, fmt.Errorf("seed spreadsheet: %w", err)
		}
	}
	sinks := []storage.Sink{excel}

	closeAll := func() {
		for _, s := range sinks {
			_ = s.Close()
		}
	}

	if cfg.Output.JSONLPath != "" {
		jsonl, err := storage.NewJSONLSink(cfg.Output.JSONLPath, prior != nil, logger)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		sinks = append(sinks, jsonl)
	}

	if cfg.Mongo.Enabled {
		mongo, err := storage.NewMongoSink(cfg.Mongo.URI, cfg.Mongo.Database, cfg.Mongo.Collection, logger)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		sinks = append(sinks, mongo)
	}

	return storage.NewMultiSink(sinks, logger), excel, nil
}
