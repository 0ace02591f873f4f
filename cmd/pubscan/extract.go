package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/uapcse/pubscan/internal/config"
	"github.com/uapcse/pubscan/internal/database"
	"github.com/uapcse/pubscan/internal/log"
	"github.com/uapcse/pubscan/internal/model"
	"github.com/uapcse/pubscan/internal/pipeline"
	"github.com/uapcse/pubscan/internal/report"
)

// NewExtractCmd creates the extract command.
func NewExtractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract [file...]",
		Short: "Extract publication records from a pasted list",
		Long: `Extract parses one or more pasted publication blocks into records.

Every 4-digit publication year in the input anchors one record. From each
anchor the surrounding lines are scanned for the standalone quartile token
(Q1-Q4) and the publication title, skipping metric labels such as SJR,
SNIP, CiteScore, ABS, and ABDC. Entries whose title or quartile cannot be
found are reported as skipped instead of silently dropped.

With no file arguments, the block is read from stdin.

Examples:
  # Extract from a pasted block on stdin
  pbpaste | pubscan extract

  # Extract from files
  pubscan extract scholar.txt scopus.txt

  # Extract from a page saved as HTML
  pubscan extract --strip-html profile.html

  # Output JSON report
  pubscan extract --json scholar.txt

  # Use a custom configuration file
  pubscan extract -c myconfig.yaml scholar.txt

Configuration file (.pubscan) example:
  defaults:
    yearMin: 2000
    yearMax: 2099
  sources:
    scholar.txt:
      minTitleLen: 12
      metadataPrefixes: [SJR, SNIP, CiteScore, ABS, ABDC, FWCI]`,
		Args: cobra.ArbitraryArgs,
		RunE: runExtractCmd,
	}

	// Input flags
	cmd.Flags().StringP("source", "s", "",
		"Source label recorded with the run (default: file name, or \"paste\" for stdin)")
	cmd.Flags().Bool("strip-html", false,
		"Convert HTML input to plain text before extraction")

	// Heuristic override flags
	cmd.Flags().Int("year-min", 0,
		"Lowest publication year accepted as an anchor (default from profile)")
	cmd.Flags().Int("year-max", 0,
		"Highest publication year accepted as an anchor (default from profile)")
	cmd.Flags().Int("min-title-len", 0,
		"Minimum line length counted as title content (default from profile)")

	// Batch extraction flags
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of concurrent file extractions")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .pubscan in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	// Persistence flags
	cmd.Flags().Bool("no-save", false,
		"Do not save the run to the history database")

	return cmd
}

// runExtractCmd executes the extract command.
func runExtractCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging with oversized-attribute truncation
	logger := log.NewLogger(os.Stderr, getVerboseFlag(cmd))
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runExtract(ctx, cfg, cmd.InOrStdin(), logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	source, err := cmd.Flags().GetString("source")
	if err != nil {
		return nil, err
	}
	if source != "" {
		cfg.Source = source
	}

	cfg.StripHTML, err = cmd.Flags().GetBool("strip-html")
	if err != nil {
		return nil, err
	}

	cfg.YearMin, err = cmd.Flags().GetInt("year-min")
	if err != nil {
		return nil, err
	}

	cfg.YearMax, err = cmd.Flags().GetInt("year-max")
	if err != nil {
		return nil, err
	}

	cfg.MinTitleLen, err = cmd.Flags().GetInt("min-title-len")
	if err != nil {
		return nil, err
	}

	cfg.BatchSize, err = cmd.Flags().GetInt("batch")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Load heuristic profiles from the config file.
	// If the user explicitly specified a config file path, error if not found.
	// If no path was specified, silently use empty profiles.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cfg.Profiles, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	} else {
		cfg.Profiles = &config.File{
			Sources: make(map[string]config.Profile),
		}
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	noSave, err := cmd.Flags().GetBool("no-save")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noSave
	cfg.DBDir = config.XDGDataDir()

	// Positional arguments are input files; none means stdin.
	cfg.Inputs = args

	return cfg, nil
}

// runExtract executes the extraction.
func runExtract(ctx context.Context, cfg *config.Config, stdin io.Reader, logger *slog.Logger) error {
	logger.Info("starting extraction",
		"inputs", cfg.Inputs,
		"stripHTML", cfg.StripHTML,
		"batchSize", cfg.BatchSize,
		"saveToDB", cfg.SaveToDB,
	)

	// Open database connection if saving is enabled
	var db *database.RunDB
	if cfg.SaveToDB {
		var err error
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		logger.Info("database opened", "dir", cfg.DBDir)
	}

	inputs, err := readInputs(cfg, stdin)
	if err != nil {
		return err
	}

	// Use batch processor for parallel extraction if multiple inputs
	if len(inputs) > 1 && cfg.BatchSize > 1 {
		return runBatchExtract(ctx, cfg, inputs, db, logger)
	}

	return runSequentialExtract(ctx, cfg, inputs, db, logger)
}

// readInputs gathers the raw blocks to extract from.
// File arguments are read in order; with no arguments, stdin is the input.
func readInputs(cfg *config.Config, stdin io.Reader) ([]pipeline.Input, error) {
	if len(cfg.Inputs) == 0 {
		raw, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return []pipeline.Input{{Source: cfg.Source, RawText: string(raw)}}, nil
	}

	inputs := make([]pipeline.Input, 0, len(cfg.Inputs))
	for _, path := range cfg.Inputs {
		raw, err := os.ReadFile(path) //nolint:gosec // User-provided input path is intentional
		if err != nil {
			return nil, fmt.Errorf("failed to read input %s: %w", path, err)
		}

		source := filepath.Base(path)
		if cfg.Source != config.DefaultSource && len(cfg.Inputs) == 1 {
			// An explicit label only makes sense for a single input.
			source = cfg.Source
		}
		inputs = append(inputs, pipeline.Input{Source: source, RawText: string(raw)})
	}
	return inputs, nil
}

// runSequentialExtract processes inputs one at a time.
func runSequentialExtract(ctx context.Context, cfg *config.Config, inputs []pipeline.Input, db *database.RunDB, logger *slog.Logger) error {
	for _, input := range inputs {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		p := createPipelineForSource(cfg, input.Source, logger)

		extractReport := model.NewExtractReport(input.Source, input.RawText)

		startTime := time.Now()
		if err := p.Execute(ctx, extractReport); err != nil {
			logger.Error("extraction failed", "source", input.Source, "error", err)
			fmt.Fprintf(os.Stderr, "Extraction error for %s: %v\n", input.Source, err)
			continue
		}
		logger.Debug("extraction finished",
			"source", input.Source,
			"elapsed", time.Since(startTime).Round(time.Millisecond),
		)

		if err := outputReport(cfg, extractReport); err != nil {
			logger.Error("report failed", "source", input.Source, "error", err)
		}

		if err := saveRun(ctx, db, extractReport, logger); err != nil {
			logger.Error("failed to save run", "source", input.Source, "error", err)
		}
	}

	return nil
}

// runBatchExtract processes multiple inputs concurrently using BatchProcessor.
func runBatchExtract(ctx context.Context, cfg *config.Config, inputs []pipeline.Input, db *database.RunDB, logger *slog.Logger) error {
	fmt.Printf("Starting batch extraction of %d inputs (concurrency: %d)...\n\n",
		len(inputs), cfg.BatchSize)

	startTime := time.Now()

	// Per-source profiles would require per-input pipeline creation, so
	// batch mode applies the defaults profile only.
	if cfg.Profiles != nil && len(cfg.Profiles.Sources) > 0 {
		logger.Warn("batch extraction uses the defaults profile only; per-source profiles are ignored",
			"sourceCount", len(cfg.Profiles.Sources))
		fmt.Fprintf(os.Stderr, "Warning: Per-source profiles are ignored in batch mode. Use --batch 1 to apply them.\n\n")
	}

	bp := pipeline.NewBatchProcessor(
		func() *pipeline.Pipeline {
			return createPipelineForSource(cfg, "", logger)
		},
		pipeline.WithConcurrency(cfg.BatchSize),
		pipeline.WithBatchLogger(logger),
	)

	// Process with callback for streaming output
	var mu sync.Mutex
	err := bp.ProcessBatchWithCallback(ctx, inputs, func(extractReport *model.ExtractReport, index int) {
		mu.Lock()
		defer mu.Unlock()

		fmt.Printf("[%d/%d] Extraction completed: %s\n", index+1, len(inputs), extractReport.Source)

		if err := outputReport(cfg, extractReport); err != nil {
			logger.Error("report failed", "source", extractReport.Source, "error", err)
		}

		if err := saveRun(ctx, db, extractReport, logger); err != nil {
			logger.Error("failed to save run", "source", extractReport.Source, "error", err)
		}
	})

	fmt.Printf("\nBatch extraction completed in %s\n", time.Since(startTime).Round(time.Millisecond))

	return err
}

// createPipelineForSource creates a pipeline with the heuristics resolved
// for the given source label.
func createPipelineForSource(cfg *config.Config, source string, logger *slog.Logger) *pipeline.Pipeline {
	pipelineOpts := []pipeline.Option{
		pipeline.WithLogger(logger),
	}

	configOpts := []pipeline.DefaultPipelineOption{
		pipeline.WithPipelineHeuristics(cfg.HeuristicsFor(source)),
		pipeline.WithPipelineStripHTML(cfg.StripHTML),
	}
	if cfg.Concurrency > 0 {
		configOpts = append(configOpts, pipeline.WithPipelineConcurrency(cfg.Concurrency))
	}

	return pipeline.DefaultPipeline(pipelineOpts, configOpts...)
}

// outputReport outputs the extraction report in the requested format.
func outputReport(cfg *config.Config, extractReport *model.ExtractReport) error {
	if extractReport.Summary == nil {
		extractReport.Summary = model.NewSummary(extractReport)
	}

	// Determine output destination
	var output *os.File
	if cfg.ReportFile != "" {
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	} else {
		output = os.Stdout
	}

	var writer report.Writer
	switch {
	case cfg.JSONReport:
		writer = report.NewFullJSONWriter(output, getVersion(), report.WithPrettyPrint())
	case cfg.MarkdownReport:
		writer = report.NewMarkdownWriter(output)
	default:
		writer = report.NewSimpleWriter(output)
	}

	_, err := writer.Write(extractReport)
	return err
}

// saveRun saves the extraction run to the database if enabled.
// If db is nil, this function is a no-op.
func saveRun(ctx context.Context, db *database.RunDB, extractReport *model.ExtractReport, logger *slog.Logger) error {
	if db == nil {
		return nil
	}

	if extractReport.Summary == nil {
		extractReport.Summary = model.NewSummary(extractReport)
	}

	runID, err := db.SaveRun(ctx, extractReport)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	logger.Info("run saved to database", "source", extractReport.Source, "runID", runID)
	return nil
}
