// =============================================================================
// Sales Tax Receipts - Validate Command
// =============================================================================
//
// This file defines the 'validate' command, which reports every line of a
// basket file that would be skipped or would reject the basket.
//
// COMMAND USAGE:
//   receipts validate [file...] [flags]
//
// FLAGS:
//   --strict     : Treat warnings (skipped lines, zero quantities) as errors
//   --fail-fast  : Stop at the first error
//
// The command fails if any file has an error finding.
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"

	"github.com/cockroachdb/errors"
	ierr "github.com/ginjaninja78/sales-tax-receipts/internal/errors"
	"github.com/ginjaninja78/sales-tax-receipts/internal/parser"
	"github.com/ginjaninja78/sales-tax-receipts/internal/taxtable"
	"github.com/ginjaninja78/sales-tax-receipts/internal/validation"
	"github.com/spf13/cobra"
)

var strict bool

var failFast bool

// validateCmd represents the 'validate' command.
var validateCmd = &cobra.Command{
	Use:   "validate [file...]",
	Short: "Report basket lines that would be skipped or rejected",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runValidate(cmd.InOrStdin(), cmd.OutOrStdout(), args)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().BoolVar(&strict, "strict", false, "Treat warnings as errors")
	validateCmd.Flags().BoolVar(&failFast, "fail-fast", false, "Stop at the first error")
}

func runValidate(stdin io.Reader, stdout io.Writer, args []string) error {
	if len(args) == 0 {
		args = []string{"-"}
	}

	v := validation.NewValidatorWithOptions(parser.NewLineParser(taxtable.Default()), validation.ValidationOptions{
		StopOnFirstError:      failFast,
		TreatWarningsAsErrors: strict,
	})

	invalid := 0
	for _, arg := range args {
		text, err := readBasket(stdin, arg)
		if err != nil {
			return err
		}

		result := v.Validate(text)
		appLogger.Debugf("Validated %s: %d lines, %d entries", arg, result.LinesValidated, result.EntriesParsed)

		fmt.Fprintf(stdout, "%s: %d entries, %d error(s), %d warning(s)\n",
			arg, result.EntriesParsed, result.ErrorCount, result.WarningCount)
		if len(result.Errors) > 0 {
			fmt.Fprintln(stdout, validation.FormatErrors(result.Errors))
		}
		if !result.IsValid {
			invalid++
		}
	}

	if invalid > 0 {
		return errors.Mark(errors.Newf("%d basket(s) failed validation", invalid), ierr.ErrValidationFailed)
	}
	return nil
}
