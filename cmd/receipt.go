// =============================================================================
// Sales Tax Receipts - Receipt Command
// =============================================================================
//
// This file defines the 'receipt' command, which prints the receipt of one or
// more basket files.
//
// COMMAND USAGE:
//   receipts receipt [file...] [flags]
//
// Without files, or with "-", the basket is read from standard input.
//
// FLAGS:
//   --format : Receipt format (text, xml, yaml, xlsx). Defaults to the
//              configured output format.
//   --output : Write the receipt to this file instead of standard output.
//              Requires a single basket. Required for xlsx.
//
// =============================================================================

package cmd

import (
	"io"
	"os"

	"github.com/cockroachdb/errors"
	ierr "github.com/ginjaninja78/sales-tax-receipts/internal/errors"
	"github.com/ginjaninja78/sales-tax-receipts/internal/parser"
	"github.com/ginjaninja78/sales-tax-receipts/internal/receiptwriter"
	"github.com/spf13/cobra"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// receiptFormat overrides the configured output format.
var receiptFormat string

// receiptOutput is the file the receipt is written to.
var receiptOutput string

// =============================================================================
// RECEIPT COMMAND DEFINITION
// =============================================================================

// receiptCmd represents the 'receipt' command.
var receiptCmd = &cobra.Command{
	Use:   "receipt [file...]",
	Short: "Print the receipt of basket files",
	Long: `The receipt command parses basket files and prints their receipts.

Lines that are not basket lines (headers, blank lines, totals) are skipped.
A line with a quantity that cannot be read rejects the whole basket; the
remaining files are still printed and the command exits with an error.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReceipt(cmd.InOrStdin(), cmd.OutOrStdout(), args)
	},
}

func init() {
	rootCmd.AddCommand(receiptCmd)

	receiptCmd.Flags().StringVarP(
		&receiptFormat,
		"format",
		"f",
		"",
		"Receipt format: text, xml, yaml or xlsx (default from config)",
	)

	receiptCmd.Flags().StringVarP(
		&receiptOutput,
		"output",
		"o",
		"",
		"Write the receipt to this file",
	)
}

// runReceipt renders the receipt of every input.
func runReceipt(stdin io.Reader, stdout io.Writer, args []string) error {
	name := receiptFormat
	if name == "" {
		name = appConfig.OutputFormat
	}
	format, err := receiptwriter.ParseFormat(name)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		args = []string{"-"}
	}
	if receiptOutput != "" && len(args) > 1 {
		return errors.New("--output requires a single basket")
	}
	if format == receiptwriter.FormatXLSX && receiptOutput == "" {
		return errors.New("xlsx receipts require --output")
	}

	printed, failed := 0, 0
	for _, arg := range args {
		text, err := readBasket(stdin, arg)
		if err != nil {
			return err
		}

		b, err := parser.Parse(text)
		if err != nil {
			// The basket of this file is dropped; the others are still rendered.
			appLogger.Errorf("Failed to parse %s: %v", arg, err)
			failed++
			continue
		}
		appLogger.Debugf("Parsed %d entries from %s", b.Len(), arg)

		document, err := receiptwriter.Generate(b, format)
		if err != nil {
			return err
		}

		if receiptOutput != "" {
			if err := os.WriteFile(receiptOutput, document, 0644); err != nil {
				return errors.Wrapf(err, "failed to write %s", receiptOutput)
			}
			appLogger.Infof("Wrote receipt to: %s", receiptOutput)
			continue
		}

		if printed > 0 {
			io.WriteString(stdout, "\n")
		}
		if _, err := stdout.Write(document); err != nil {
			return errors.Wrap(err, "failed to write receipt")
		}
		printed++
	}

	if failed > 0 {
		return errors.Mark(errors.Newf("%d basket(s) could not be parsed", failed), ierr.ErrNumberFormat)
	}
	return nil
}

// readBasket reads a basket file, or standard input for "-".
func readBasket(stdin io.Reader, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", errors.Wrap(err, "failed to read standard input")
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, "failed to read %s", path)
	}
	return string(data), nil
}
