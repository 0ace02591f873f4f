package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/uapcse/pubscan/internal/config"
	"github.com/uapcse/pubscan/internal/database"
	"github.com/uapcse/pubscan/internal/model"
)

// Constants for record trend direction and summary messages.
const (
	trendGrew      = "grew"
	trendShrank    = "shrank"
	trendUnchanged = "unchanged"
	noRecordsLabel = "No records"
)

// NewHistoryCmd creates the history command.
// This command compares extraction runs with historical data stored in the database.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [source]",
		Short: "Compare extraction runs with historical data",
		Long: `History displays differences between the current and previous extraction runs.

This command retrieves historical extraction data from the database and shows:
- Records that appeared since the last run
- Records that disappeared since the last run
- Records whose quartile tier changed between runs

The comparison requires at least two runs in the database for the specified
source. Use 'pubscan extract' to extract publication lists and save results.

Examples:
  # Compare the latest two runs for a source
  pubscan history scholar.txt

  # List all run history for a source
  pubscan history --list scholar.txt

  # Compare with a specific historical run by ID
  pubscan history --with-run-id 5 scholar.txt

  # Compare runs since a specific date
  pubscan history --since "2026-01-01" scholar.txt

  # Output comparison in JSON format
  pubscan history --json scholar.txt

  # List all sources in the database
  pubscan history --list-sources`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	// History listing flags
	cmd.Flags().BoolP("list", "l", false,
		"List run history for the specified source")
	cmd.Flags().BoolP("list-sources", "L", false,
		"List all sources in the database")

	// Comparison target flags
	cmd.Flags().Int64P("with-run-id", "i", 0,
		"Compare with a specific run by ID (use --list to see available IDs)")
	cmd.Flags().StringP("since", "s", "",
		"Compare with the first run after this date (format: YYYY-MM-DD)")

	// Output format flags
	cmd.Flags().BoolP("json", "j", false,
		"Output comparison result in JSON format")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output comparison result in Markdown format")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	// Handle --list-sources flag first (requires database but no source)
	listSources, err := cmd.Flags().GetBool("list-sources")
	if err != nil {
		return err
	}

	// Validate arguments before opening database (unless --list-sources)
	var source string
	if !listSources {
		if len(args) == 0 {
			return errors.New("source is required (use --list-sources to see available sources)")
		}
		source = args[0]
	}

	// Use XDG data directory for database
	dbDir := config.XDGDataDir()

	db, err := database.Open(dbDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx := context.Background()

	if listSources {
		return listStoredSources(ctx, db)
	}

	// Handle --list flag
	listHistory, err := cmd.Flags().GetBool("list")
	if err != nil {
		return err
	}
	if listHistory {
		return listRunHistory(ctx, db, source)
	}

	// Get output format flags
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	markdownOutput, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}

	// Get comparison target flags
	withRunID, err := cmd.Flags().GetInt64("with-run-id")
	if err != nil {
		return err
	}
	sinceDate, err := cmd.Flags().GetString("since")
	if err != nil {
		return err
	}

	return runComparison(ctx, db, source, withRunID, sinceDate, jsonOutput, markdownOutput)
}

// listStoredSources lists all sources that have extraction runs in the database.
func listStoredSources(ctx context.Context, db *database.RunDB) error {
	sources, err := db.ListSources(ctx)
	if err != nil {
		return fmt.Errorf("failed to list sources: %w", err)
	}

	if len(sources) == 0 {
		fmt.Println("No extraction runs found in the database.")
		fmt.Println("\nUse 'pubscan extract <file>' to extract a publication list.")
		return nil
	}

	fmt.Printf("Sources (%d):\n\n", len(sources))
	for _, s := range sources {
		fmt.Printf("  • %s\n", s)
	}
	fmt.Println("\nUse 'pubscan history --list <source>' to see run history for a source.")

	return nil
}

// listRunHistory lists all extraction runs for a specific source.
func listRunHistory(ctx context.Context, db *database.RunDB, source string) error {
	runs, err := db.GetRunHistoryWithMetadata(ctx, source)
	if err != nil {
		return fmt.Errorf("failed to get run history: %w", err)
	}

	if len(runs) == 0 {
		fmt.Printf("No run history found for %s\n", source)
		fmt.Println("\nUse 'pubscan extract' to extract this source.")
		return nil
	}

	fmt.Printf("Run history for %s (%d runs):\n\n", source, len(runs))
	fmt.Printf("  %-6s  %-20s  %s\n", "ID", "Date", "Outcome Summary")
	fmt.Println("  " + strings.Repeat("-", 60))

	for _, meta := range runs {
		fmt.Printf("  %-6d  %-20s  %s\n",
			meta.ID,
			meta.Timestamp.Format("2006-01-02 15:04:05"),
			formatOutcomeSummary(meta.OutcomeSummary),
		)
	}

	fmt.Println("\nUse 'pubscan history <source>' to compare the latest two runs.")
	fmt.Println("Use 'pubscan history --with-run-id <id> <source>' to compare with a specific run.")

	return nil
}

// formatOutcomeSummary formats the outcome summary map into a human-readable string.
func formatOutcomeSummary(summary map[string]int) string {
	if summary == nil {
		return "N/A"
	}

	var parts []string
	if v := summary["extracted"]; v > 0 {
		parts = append(parts, fmt.Sprintf("E:%d", v))
	}
	if v := summary["missing_title"]; v > 0 {
		parts = append(parts, fmt.Sprintf("MT:%d", v))
	}
	if v := summary["missing_quartile"]; v > 0 {
		parts = append(parts, fmt.Sprintf("MQ:%d", v))
	}

	if len(parts) == 0 {
		return noRecordsLabel
	}
	return strings.Join(parts, " ")
}

// runComparison performs the actual comparison between extraction runs.
func runComparison(ctx context.Context, db *database.RunDB, source string, withRunID int64, sinceDate string, jsonOutput, markdownOutput bool) error {
	runs, err := db.GetRunHistory(ctx, source)
	if err != nil {
		return fmt.Errorf("failed to get run history: %w", err)
	}

	if len(runs) == 0 {
		return fmt.Errorf("no run history found for %s", source)
	}

	if len(runs) < 2 && withRunID == 0 && sinceDate == "" {
		return fmt.Errorf("at least 2 runs are required for comparison (found %d)", len(runs))
	}

	// Determine which runs to compare
	var currentRun, previousRun *model.ExtractReport

	// Latest run is always the current one
	currentRun = runs[0]

	if withRunID > 0 {
		previousRun, err = db.GetRunByID(ctx, withRunID)
		if err != nil {
			return fmt.Errorf("failed to get run with ID %d: %w", withRunID, err)
		}
		if previousRun == nil {
			return fmt.Errorf("run with ID %d not found", withRunID)
		}
		// Validate that the run ID belongs to the same source
		if previousRun.Source != source {
			return fmt.Errorf("run ID %d belongs to %s, not %s", withRunID, previousRun.Source, source)
		}
	} else if sinceDate != "" {
		parsedDate, err := time.Parse("2006-01-02", sinceDate)
		if err != nil {
			return fmt.Errorf("invalid date format (use YYYY-MM-DD): %w", err)
		}

		// Runs are sorted by timestamp DESC (newest first), so iterate in
		// reverse to find the oldest run at or after the date.
		for i := len(runs) - 1; i >= 0; i-- {
			r := runs[i]
			if r.DateExtracted.After(parsedDate) || r.DateExtracted.Equal(parsedDate) {
				previousRun = r
				break
			}
		}
		if previousRun == nil {
			return fmt.Errorf("no runs found since %s", sinceDate)
		}
		if previousRun == currentRun {
			return fmt.Errorf("only one run found since %s; at least 2 runs are required for comparison", sinceDate)
		}
	} else {
		// Default: compare with the previous run
		previousRun = runs[1]
	}

	comparison := compareRuns(previousRun, currentRun)

	if jsonOutput {
		return outputComparisonJSON(comparison)
	}
	if markdownOutput {
		return outputComparisonMarkdown(comparison)
	}
	return outputComparisonText(comparison)
}

// ComparisonResult holds the result of comparing two extraction runs.
type ComparisonResult struct {
	// Source is the input label both runs were extracted from.
	Source string `json:"source"`

	// PreviousRun contains metadata about the previous run.
	PreviousRun RunStats `json:"previous_run"`

	// CurrentRun contains metadata about the current run.
	CurrentRun RunStats `json:"current_run"`

	// NewRecords contains records present in the current run only.
	NewRecords []model.Outcome `json:"new_records,omitempty"`

	// RemovedRecords contains records present in the previous run only.
	RemovedRecords []model.Outcome `json:"removed_records,omitempty"`

	// QuartileChanges contains records whose quartile tier changed.
	QuartileChanges []QuartileChange `json:"quartile_changes,omitempty"`

	// UnchangedCount is the number of records identical in both runs.
	UnchangedCount int `json:"unchanged_count"`

	// Trend describes the overall change between the runs.
	Trend Trend `json:"trend"`
}

// RunStats contains metadata about a run for comparison display.
type RunStats struct {
	// DateExtracted is when the run was performed.
	DateExtracted time.Time `json:"date_extracted"`

	// ExtractedCount is the number of complete records in the run.
	ExtractedCount int `json:"extracted_count"`

	// MissingTitleCount is the number of anchors skipped for lack of a title.
	MissingTitleCount int `json:"missing_title_count"`

	// MissingQuartileCount is the number of anchors skipped for lack of a quartile.
	MissingQuartileCount int `json:"missing_quartile_count"`
}

// QuartileChange describes a record whose quartile tier differs between runs.
type QuartileChange struct {
	// Title is the publication title.
	Title string `json:"title"`

	// Year is the publication year.
	Year int `json:"year"`

	// PreviousQuartile is the tier recorded in the previous run.
	PreviousQuartile model.Quartile `json:"previous_quartile"`

	// CurrentQuartile is the tier recorded in the current run.
	CurrentQuartile model.Quartile `json:"current_quartile"`
}

// Trend describes the change in record counts between runs.
type Trend struct {
	// Direction is "grew", "shrank", or "unchanged".
	Direction string `json:"direction"`

	// ExtractedDelta is the change in complete record count.
	ExtractedDelta int `json:"extracted_delta"`

	// SkippedDelta is the change in skipped anchor count.
	SkippedDelta int `json:"skipped_delta"`
}

// compareRuns compares two extraction runs and generates a comparison result.
func compareRuns(previous, current *model.ExtractReport) *ComparisonResult {
	result := &ComparisonResult{
		Source:      current.Source,
		PreviousRun: runStats(previous),
		CurrentRun:  runStats(current),
	}

	// Build record maps keyed by title and year
	previousRecords := make(map[string]model.Outcome)
	currentRecords := make(map[string]model.Outcome)

	for _, o := range previous.Outcomes {
		if o.IsExtracted() {
			previousRecords[recordKey(o)] = o
		}
	}
	for _, o := range current.Outcomes {
		if o.IsExtracted() {
			currentRecords[recordKey(o)] = o
		}
	}

	// New records (in current but not in previous)
	for _, o := range current.Outcomes {
		if !o.IsExtracted() {
			continue
		}
		if _, exists := previousRecords[recordKey(o)]; !exists {
			result.NewRecords = append(result.NewRecords, o)
		}
	}

	// Removed records, quartile changes, and unchanged records
	for _, o := range previous.Outcomes {
		if !o.IsExtracted() {
			continue
		}
		cur, exists := currentRecords[recordKey(o)]
		switch {
		case !exists:
			result.RemovedRecords = append(result.RemovedRecords, o)
		case cur.Quartile != o.Quartile:
			result.QuartileChanges = append(result.QuartileChanges, QuartileChange{
				Title:            o.Title,
				Year:             o.Year,
				PreviousQuartile: o.Quartile,
				CurrentQuartile:  cur.Quartile,
			})
		default:
			result.UnchangedCount++
		}
	}

	result.Trend = calculateTrend(result.PreviousRun, result.CurrentRun)

	return result
}

// runStats extracts comparison metadata from a run.
func runStats(report *model.ExtractReport) RunStats {
	stats := RunStats{DateExtracted: report.DateExtracted}
	for _, o := range report.Outcomes {
		if o.IsExtracted() {
			stats.ExtractedCount++
			continue
		}
		switch o.Reason {
		case model.SkipMissingTitle:
			stats.MissingTitleCount++
		case model.SkipMissingQuartile:
			stats.MissingQuartileCount++
		}
	}
	return stats
}

// recordKey generates a unique key for a record for comparison purposes.
// Quartile is excluded so tier changes are detected rather than reported
// as a removal plus an addition.
func recordKey(o model.Outcome) string {
	return o.Title + "|" + strconv.Itoa(o.Year)
}

// calculateTrend calculates the change in record counts between two runs.
func calculateTrend(previous, current RunStats) Trend {
	trend := Trend{
		ExtractedDelta: current.ExtractedCount - previous.ExtractedCount,
		SkippedDelta: (current.MissingTitleCount + current.MissingQuartileCount) -
			(previous.MissingTitleCount + previous.MissingQuartileCount),
	}

	switch {
	case trend.ExtractedDelta > 0:
		trend.Direction = trendGrew
	case trend.ExtractedDelta < 0:
		trend.Direction = trendShrank
	default:
		trend.Direction = trendUnchanged
	}

	return trend
}

// outputComparisonJSON outputs the comparison result in JSON format.
func outputComparisonJSON(result *ComparisonResult) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// outputComparisonMarkdown outputs the comparison result in Markdown format.
func outputComparisonMarkdown(result *ComparisonResult) error {
	fmt.Printf("# Run Comparison: %s\n\n", result.Source)

	fmt.Println("## Summary")
	fmt.Printf("\n**Record Trend:** %s\n\n", formatTrendDirection(result.Trend.Direction))

	fmt.Println("| Metric | Previous | Current | Change |")
	fmt.Println("|--------|----------|---------|--------|")
	fmt.Printf("| Date | %s | %s | - |\n",
		result.PreviousRun.DateExtracted.Format("2006-01-02 15:04"),
		result.CurrentRun.DateExtracted.Format("2006-01-02 15:04"))
	fmt.Printf("| Extracted | %d | %d | %s |\n",
		result.PreviousRun.ExtractedCount,
		result.CurrentRun.ExtractedCount,
		formatDelta(result.Trend.ExtractedDelta))
	fmt.Printf("| Missing title | %d | %d | %s |\n",
		result.PreviousRun.MissingTitleCount,
		result.CurrentRun.MissingTitleCount,
		formatDelta(result.CurrentRun.MissingTitleCount-result.PreviousRun.MissingTitleCount))
	fmt.Printf("| Missing quartile | %d | %d | %s |\n",
		result.PreviousRun.MissingQuartileCount,
		result.CurrentRun.MissingQuartileCount,
		formatDelta(result.CurrentRun.MissingQuartileCount-result.PreviousRun.MissingQuartileCount))

	if len(result.NewRecords) > 0 {
		fmt.Printf("\n## New Records (%d)\n\n", len(result.NewRecords))
		for _, o := range result.NewRecords {
			fmt.Printf("- **[%d] [%s]** %s\n", o.Year, o.Quartile, o.Title)
		}
	}

	if len(result.RemovedRecords) > 0 {
		fmt.Printf("\n## Removed Records (%d)\n\n", len(result.RemovedRecords))
		for _, o := range result.RemovedRecords {
			fmt.Printf("- ~~**[%d] [%s]** %s~~\n", o.Year, o.Quartile, o.Title)
		}
	}

	if len(result.QuartileChanges) > 0 {
		fmt.Printf("\n## Quartile Changes (%d)\n\n", len(result.QuartileChanges))
		for _, c := range result.QuartileChanges {
			fmt.Printf("- **[%d]** %s: %s → %s\n", c.Year, c.Title, c.PreviousQuartile, c.CurrentQuartile)
		}
	}

	if result.UnchangedCount > 0 {
		fmt.Printf("\n---\n\n*%d records unchanged*\n", result.UnchangedCount)
	}

	return nil
}

// outputComparisonText outputs the comparison result in human-readable text format.
func outputComparisonText(result *ComparisonResult) error {
	fmt.Printf("Run Comparison: %s\n", result.Source)
	fmt.Println(strings.Repeat("=", 60))

	fmt.Printf("\nRecord Trend: %s\n", formatTrendDirection(result.Trend.Direction))

	fmt.Printf("\nPrevious run: %s\n", result.PreviousRun.DateExtracted.Format("2006-01-02 15:04:05"))
	fmt.Printf("Current run:  %s\n", result.CurrentRun.DateExtracted.Format("2006-01-02 15:04:05"))

	fmt.Println("\nOutcome Summary:")
	fmt.Printf("  %-18s  %-10s  %-10s  %-10s\n", "Outcome", "Previous", "Current", "Change")
	fmt.Println("  " + strings.Repeat("-", 53))
	fmt.Printf("  %-18s  %-10d  %-10d  %-10s\n", "Extracted",
		result.PreviousRun.ExtractedCount, result.CurrentRun.ExtractedCount,
		formatDelta(result.Trend.ExtractedDelta))
	fmt.Printf("  %-18s  %-10d  %-10d  %-10s\n", "Missing title",
		result.PreviousRun.MissingTitleCount, result.CurrentRun.MissingTitleCount,
		formatDelta(result.CurrentRun.MissingTitleCount-result.PreviousRun.MissingTitleCount))
	fmt.Printf("  %-18s  %-10d  %-10d  %-10s\n", "Missing quartile",
		result.PreviousRun.MissingQuartileCount, result.CurrentRun.MissingQuartileCount,
		formatDelta(result.CurrentRun.MissingQuartileCount-result.PreviousRun.MissingQuartileCount))

	if len(result.NewRecords) > 0 {
		fmt.Printf("\nNew Records (%d):\n", len(result.NewRecords))
		for _, o := range result.NewRecords {
			fmt.Printf("  [+] [%d] [%s] %s\n", o.Year, o.Quartile, o.Title)
		}
	}

	if len(result.RemovedRecords) > 0 {
		fmt.Printf("\nRemoved Records (%d):\n", len(result.RemovedRecords))
		for _, o := range result.RemovedRecords {
			fmt.Printf("  [-] [%d] [%s] %s\n", o.Year, o.Quartile, o.Title)
		}
	}

	if len(result.QuartileChanges) > 0 {
		fmt.Printf("\nQuartile Changes (%d):\n", len(result.QuartileChanges))
		for _, c := range result.QuartileChanges {
			fmt.Printf("  [~] [%d] %s: %s -> %s\n", c.Year, c.Title, c.PreviousQuartile, c.CurrentQuartile)
		}
	}

	if result.UnchangedCount > 0 {
		fmt.Printf("\nUnchanged: %d records\n", result.UnchangedCount)
	}

	return nil
}

// formatTrendDirection formats the record trend direction for display.
func formatTrendDirection(direction string) string {
	switch direction {
	case trendGrew:
		return "GREW (more complete records)"
	case trendShrank:
		return "SHRANK (fewer complete records)"
	default:
		return "UNCHANGED"
	}
}

// formatDelta formats a numeric delta with sign for display.
func formatDelta(delta int) string {
	if delta > 0 {
		return "+" + strconv.Itoa(delta)
	} else if delta < 0 {
		return strconv.Itoa(delta)
	}
	return "0"
}
