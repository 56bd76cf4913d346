// =============================================================================
// Sales Tax Receipts - Process Command
// =============================================================================
//
// This file defines the 'process' command, which renders the receipt of every
// basket file in the input directory.
//
// COMMAND USAGE:
//   receipts process [flags]
//
// FLAGS:
//   --dry-run : Parse and render without writing or archiving anything
//   --file    : Process only this file
//   --format  : Receipt format, overrides output_format
//
// PROCESSING PIPELINE:
//   1. Prepare the directories
//   2. Discover basket files in the input directory
//   3. For each file (concurrently, at most max_concurrency at a time):
//      a. Parse the basket
//      b. Render the receipt
//      c. Write the output file
//      d. Archive the processed files
//   4. Write the error log and the summary report
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/ginjaninja78/sales-tax-receipts/internal/parser"
	"github.com/ginjaninja78/sales-tax-receipts/internal/processor"
	"github.com/ginjaninja78/sales-tax-receipts/internal/receiptwriter"
	"github.com/ginjaninja78/sales-tax-receipts/internal/taxtable"
	"github.com/ginjaninja78/sales-tax-receipts/pkg/utils"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/cobra"
)

// errNotProcessed is reported for files left alone after a failure when
// continue_on_error is off.
var errNotProcessed = errors.New("not processed, an earlier file failed")

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// dryRun simulates processing without writing output files.
var dryRun bool

// filePath is the path to a specific file to process.
var filePath string

// processFormat overrides the configured output format.
var processFormat string

// =============================================================================
// PROCESS COMMAND DEFINITION
// =============================================================================

// processCmd represents the 'process' command.
var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Render the receipts of all basket files in the input directory",
	Long: `The process command scans the input directory for basket files and writes
the receipt of each one to the output directory.

Files are processed concurrently. A basket that cannot be parsed does not
affect the others unless continue_on_error is disabled.

On successful processing:
  - The receipt is placed in the output directory
  - The basket file is moved to the input archive
  - A copy of the receipt is placed in the output archive

On error:
  - An error log is created in the output directory
  - The basket file remains in the input directory`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runProcess(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().BoolVar(
		&dryRun,
		"dry-run",
		false,
		"Parse and render without writing or archiving anything",
	)

	processCmd.Flags().StringVar(
		&filePath,
		"file",
		"",
		"Process only this basket file",
	)

	processCmd.Flags().StringVarP(
		&processFormat,
		"format",
		"f",
		"",
		"Receipt format: text, xml, yaml or xlsx (default from config)",
	)
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// runProcess orchestrates the receipt pipeline over the input directory.
func runProcess(out io.Writer) error {
	startTime := time.Now()
	cfg := appConfig

	// =========================================================================
	// STEP 1: PREPARE
	// =========================================================================

	name := processFormat
	if name == "" {
		name = cfg.OutputFormat
	}
	format, err := receiptwriter.ParseFormat(name)
	if err != nil {
		return err
	}

	files := utils.NewFileManager(cfg.InputDir, cfg.OutputDir, cfg.InputArchiveDir, cfg.OutputArchiveDir)
	files.ArchiveOnSuccess = cfg.ArchiveOnSuccess
	files.UseTimestampSubdirs = cfg.UseTimestampSubdirs
	if err := files.EnsureDirectories(); err != nil {
		return err
	}

	// =========================================================================
	// STEP 2: DISCOVER INPUT FILES
	// =========================================================================

	var inputFiles []string
	if filePath != "" {
		inputFiles = []string{filePath}
	} else {
		inputFiles, err = files.DiscoverInputFiles(cfg.InputPattern)
		if err != nil {
			return err
		}
	}

	if len(inputFiles) == 0 {
		fmt.Fprintln(out, "No basket files found in the input directory.")
		return nil
	}

	appLogger.Infof("Found %d file(s) to process", len(inputFiles))

	// =========================================================================
	// STEP 3: PROCESS FILES CONCURRENTLY
	// =========================================================================

	options := processor.DefaultOptions()
	options.Format = format
	options.FileNameFormat = cfg.OutputFileFormat
	options.DryRun = dryRun

	basketParser := parser.New(taxtable.Default())
	var failed atomic.Bool

	p := pool.NewWithResults[processor.Result]().WithMaxGoroutines(cfg.MaxConcurrency)
	for _, file := range inputFiles {
		p.Go(func() processor.Result {
			if !cfg.ContinueOnError && failed.Load() {
				return processor.Result{FilePath: file, Error: errNotProcessed}
			}
			result := processor.New(file, basketParser, files, options, appLogger).Run()
			if !result.Success {
				failed.Store(true)
			}
			return result
		})
	}
	results := p.Wait()
	slices.SortFunc(results, func(a, b processor.Result) int {
		return strings.Compare(a.FilePath, b.FilePath)
	})

	// =========================================================================
	// STEP 4: COLLECT RESULTS
	// =========================================================================

	summary := utils.ProcessingSummary{
		StartTime:  startTime,
		TotalFiles: len(inputFiles),
	}
	var errorEntries []utils.ErrorLogEntry
	salesTaxes, total := decimal.Zero, decimal.Zero

	for _, result := range results {
		base := filepath.Base(result.FilePath)
		if result.Success {
			summary.SuccessfulFiles++
			summary.TotalEntries += result.Stats.EntriesParsed
			summary.SkippedLines += result.Stats.LinesSkipped
			salesTaxes = salesTaxes.Add(result.Stats.SalesTaxes)
			total = total.Add(result.Stats.Total)
			summary.ProcessedFiles = append(summary.ProcessedFiles, utils.ProcessedFileInfo{
				InputFile:   base,
				OutputFile:  filepath.Base(result.OutputFile),
				Entries:     result.Stats.EntriesParsed,
				SalesTaxes:  result.Stats.SalesTaxes.StringFixed(2),
				Total:       result.Stats.Total.StringFixed(2),
				ProcessTime: result.Stats.ProcessingTime,
			})
			fmt.Fprintf(out, "  ✓ %s -> %s\n", base, lo.Ternary(result.OutputFile != "", filepath.Base(result.OutputFile), "(dry run)"))
			continue
		}

		summary.FailedFiles++
		summary.FailedFilesList = append(summary.FailedFilesList, utils.FailedFileInfo{
			InputFile:    base,
			ErrorMessage: result.Error.Error(),
		})
		errorEntries = append(errorEntries, utils.ErrorLogEntry{
			Timestamp:    time.Now(),
			FileName:     base,
			ErrorType:    lo.Ternary(result.ErrorType != "", result.ErrorType, "skipped"),
			ErrorMessage: result.Error.Error(),
			LineNumber:   result.ErrorLine,
		})
		fmt.Fprintf(out, "  ✗ %s: %v\n", base, result.Error)
	}

	summary.EndTime = time.Now()
	summary.SalesTaxes = salesTaxes.StringFixed(2)
	summary.Total = total.StringFixed(2)

	// =========================================================================
	// STEP 5: PRINT SUMMARY AND WRITE REPORTS
	// =========================================================================

	fmt.Fprintln(out, "\n=== Processing Complete ===")
	fmt.Fprintf(out, "Total files:     %d\n", summary.TotalFiles)
	fmt.Fprintf(out, "Successful:      %d\n", summary.SuccessfulFiles)
	fmt.Fprintf(out, "Errors:          %d\n", summary.FailedFiles)
	fmt.Fprintf(out, "Sales Taxes:     %s\n", summary.SalesTaxes)
	fmt.Fprintf(out, "Total:           %s\n", summary.Total)
	fmt.Fprintf(out, "Time elapsed:    %s\n", summary.EndTime.Sub(startTime))

	if dryRun {
		return nil
	}

	if len(errorEntries) > 0 {
		logPath, err := utils.WriteErrorLog(errorEntries, cfg.OutputDir)
		if err != nil {
			appLogger.Warnf("Failed to write error log: %v", err)
		} else {
			fmt.Fprintf(out, "\nErrors have been logged to %s\n", logPath)
		}
	}

	if _, err := utils.WriteSummaryLog(summary, cfg.OutputDir); err != nil {
		appLogger.Warnf("Failed to write summary: %v", err)
	}

	if summary.FailedFiles > 0 && !cfg.ContinueOnError {
		return errors.Newf("%d file(s) failed", summary.FailedFiles)
	}
	return nil
}
