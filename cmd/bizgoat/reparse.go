package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/IshaanNene/bizgoat/internal/config"
	"github.com/IshaanNene/bizgoat/internal/crawl"
	"github.com/IshaanNene/bizgoat/internal/observability"
	"github.com/IshaanNene/bizgoat/internal/parser"
	"github.com/IshaanNene/bizgoat/internal/storage"
)

// reparseCmd creates the "reparse" subcommand.
func reparseCmd() *cobra.Command {
	var output string
	var writeCheckpoint bool

	cmd := &cobra.Command{
		Use:   "reparse [archive-dir]",
		Short: "Re-run the profile parser over archived pages",
		Long: `Reparse reads the compressed detail pages saved by a crawl with
output.archive_dir set, parses them again without a browser and rewrites
the spreadsheet.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logger := setupLogger(cfg.Logging)

			dir := cfg.Output.ArchiveDir
			if len(args) == 1 {
				dir = args[0]
			}
			if dir == "" {
				return fmt.Errorf("no archive directory: pass one or set output.archive_dir")
			}
			if output == "" {
				output = cfg.Output.ExcelPath
			}

			archive, err := storage.NewPageArchive(dir, logger)
			if err != nil {
				return err
			}

			start := time.Now()
			records, err := crawl.Reparse(cmd.Context(), archive, parser.NewDetailParser(logger), logger)
			if err != nil {
				return err
			}

			excel := storage.NewExcelSink(logger)
			if err := excel.Initialize(output); err != nil {
				return fmt.Errorf("initialize spreadsheet: %w", err)
			}
			defer excel.Close()
			if err := excel.Seed(records); err != nil {
				return fmt.Errorf("write spreadsheet: %w", err)
			}

			summary := crawl.Summary{
				RunID:     "reparse",
				Succeeded: len(records),
				Total:     len(records),
				Duration:  time.Since(start),
			}
			arts := artifacts{Spreadsheet: output, Rows: excel.Count(), Archive: dir}

			if writeCheckpoint {
				w := crawl.NewCheckpointWriter(cfg.Output.CheckpointPath, logger)
				if err := w.Flush(crawl.BuildSnapshot(records, nil, summary.RunID, time.Now())); err != nil {
					return err
				}
				arts.Checkpoint = w.Path()
			}

			renderReport(os.Stdout, summary, arts, observability.NewMetrics(logger))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "spreadsheet output path (default output.excel_path)")
	cmd.Flags().BoolVar(&writeCheckpoint, "checkpoint", false, "also rewrite the checkpoint from the reparsed records")
	return cmd
}
