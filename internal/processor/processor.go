// =============================================================================
// Sales Tax Receipts - Processor Module
// =============================================================================
//
// This module runs the receipt pipeline for a single basket file.
//
// PIPELINE:
//   1. Read the basket file
//   2. Parse it into a basket (non-basket lines are skipped and logged)
//   3. Render the receipt document in the configured format
//   4. Write the output file
//   5. Archive the processed files
//
// A number format error in any line fails the whole file; nothing is written
// for it and the input stays where it is.
//
// CONCURRENCY:
//   A Processor handles one file. Several processors may run concurrently;
//   they share only the parser and the file manager, neither of which holds
//   mutable state.
//
// =============================================================================

package processor

import (
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/ginjaninja78/sales-tax-receipts/internal/parser"
	"github.com/ginjaninja78/sales-tax-receipts/internal/receiptwriter"
	"github.com/ginjaninja78/sales-tax-receipts/pkg/utils"
	"github.com/shopspring/decimal"
)

// Error types reported in Result.ErrorType.
const (
	ErrorTypeRead         = "read"
	ErrorTypeNumberFormat = "number_format"
	ErrorTypeRender       = "render"
	ErrorTypeWrite        = "write"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of processing a single file.
type Result struct {
	// FilePath is the path to the input file that was processed.
	FilePath string

	// OutputFile is the path to the written receipt.
	// Empty if processing failed or in dry-run mode.
	OutputFile string

	// Success indicates whether the processing was successful.
	Success bool

	// Error contains the error if processing failed.
	Error error

	// ErrorType classifies Error (see the ErrorType constants).
	ErrorType string

	// ErrorLine is the input line that caused Error, 0 if not line related.
	ErrorLine int

	// Stats contains processing statistics.
	Stats ProcessingStats
}

// ProcessingStats contains statistics about the processing.
type ProcessingStats struct {
	// LinesRead is the number of lines in the input file.
	LinesRead int

	// EntriesParsed is the number of basket entries.
	EntriesParsed int

	// LinesSkipped is the number of non-blank lines that were not entries.
	LinesSkipped int

	// SalesTaxes is the total tax of the basket.
	SalesTaxes decimal.Decimal

	// Total is the grand total of the basket.
	Total decimal.Decimal

	// ProcessingTime is the time taken to process the file.
	ProcessingTime time.Duration
}

// =============================================================================
// PROCESSOR STRUCTURE
// =============================================================================

// Logger is the logging interface used by the processor.
type Logger interface {
	Debugf(template string, args ...interface{})
	Infof(template string, args ...interface{})
	Warnf(template string, args ...interface{})
	Errorf(template string, args ...interface{})
}

// Options control how a file is rendered and written.
type Options struct {
	// Format is the receipt document format.
	Format receiptwriter.Format

	// FileNameFormat names the output file (see utils.GenerateOutputFileName).
	FileNameFormat string

	// DryRun parses and renders but writes and archives nothing.
	DryRun bool

	// Generate holds the document generation options.
	Generate receiptwriter.GenerateOptions
}

// DefaultOptions returns text output named after the input file.
func DefaultOptions() Options {
	return Options{
		Format:         receiptwriter.FormatText,
		FileNameFormat: "{original}_{uuid}",
		Generate:       receiptwriter.DefaultGenerateOptions(),
	}
}

// Processor handles the receipt pipeline of a single basket file.
type Processor struct {
	inputPath string
	parser    *parser.Parser
	files     *utils.FileManager
	options   Options
	logger    Logger
}

// New creates a new Processor instance.
func New(inputPath string, p *parser.Parser, files *utils.FileManager, options Options, logger Logger) *Processor {
	return &Processor{
		inputPath: inputPath,
		parser:    p,
		files:     files,
		options:   options,
		logger:    logger,
	}
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run executes the pipeline for the file.
func (p *Processor) Run() (result Result) {
	startTime := time.Now()
	result = Result{FilePath: p.inputPath}
	defer func() {
		result.Stats.ProcessingTime = time.Since(startTime)
	}()

	p.logger.Infof("Processing file: %s", p.inputPath)

	// =========================================================================
	// STEP 1: READ INPUT
	// =========================================================================

	data, err := os.ReadFile(p.inputPath)
	if err != nil {
		return p.fail(result, ErrorTypeRead, errors.Wrap(err, "failed to read basket file"))
	}

	// =========================================================================
	// STEP 2: PARSE BASKET
	// =========================================================================

	parsed, err := p.parser.ParseDetailed(string(data))
	if err != nil {
		var nfe *parser.NumberFormatError
		if errors.As(err, &nfe) {
			result.ErrorLine = nfe.Line
		}
		return p.fail(result, ErrorTypeNumberFormat, errors.Wrap(err, "failed to parse basket"))
	}

	for _, skipped := range parsed.Skipped {
		p.logger.Debugf("Skipped line %d of %s: %q", skipped.Number, filepath.Base(p.inputPath), skipped.Text)
	}

	result.Stats.LinesRead = parsed.LinesRead
	result.Stats.EntriesParsed = parsed.Basket.Len()
	result.Stats.LinesSkipped = len(parsed.Skipped)
	result.Stats.SalesTaxes = parsed.Basket.TotalTaxes()
	result.Stats.Total = parsed.Basket.Total()

	p.logger.Debugf("Parsed %d entries, skipped %d lines", result.Stats.EntriesParsed, result.Stats.LinesSkipped)

	// =========================================================================
	// STEP 3: RENDER RECEIPT
	// =========================================================================

	document, err := receiptwriter.GenerateWithOptions(parsed.Basket, p.options.Format, p.options.Generate)
	if err != nil {
		return p.fail(result, ErrorTypeRender, errors.Wrap(err, "failed to render receipt"))
	}

	if p.options.DryRun {
		p.logger.Infof("Dry run: %s would produce %d bytes of %s", p.inputPath, len(document), p.options.Format)
		result.Success = true
		return result
	}

	// =========================================================================
	// STEP 4: WRITE OUTPUT FILE
	// =========================================================================

	name := utils.GenerateOutputFileName(p.options.FileNameFormat, p.options.Format.Extension(), map[string]string{
		"original": utils.OriginalName(p.inputPath),
	})
	outputPath, err := p.files.WriteOutputFile(name, document)
	if err != nil {
		return p.fail(result, ErrorTypeWrite, err)
	}

	result.OutputFile = outputPath
	p.logger.Infof("Wrote receipt to: %s", outputPath)

	// =========================================================================
	// STEP 5: ARCHIVE FILES
	// =========================================================================

	if err := p.archiveFiles(outputPath); err != nil {
		// Log the error but don't fail the processing.
		p.logger.Warnf("Failed to archive files: %v", err)
	}

	result.Success = true
	return result
}

// fail records err on the result and logs it.
func (p *Processor) fail(result Result, errorType string, err error) Result {
	p.logger.Errorf("Failed to process %s: %v", p.inputPath, err)
	result.Success = false
	result.Error = err
	result.ErrorType = errorType
	return result
}

// archiveFiles moves the input and copies the output to the archives.
func (p *Processor) archiveFiles(outputPath string) error {
	if _, err := p.files.ArchiveInputFile(p.inputPath); err != nil {
		return errors.Wrap(err, "failed to archive input")
	}
	if _, err := p.files.ArchiveOutputFile(outputPath); err != nil {
		return errors.Wrap(err, "failed to archive output")
	}
	return nil
}
