// =============================================================================
// Sales Tax Receipts - Examples Command
// =============================================================================
//
// This file defines the 'examples' command, which prints the receipts of the
// three sample baskets.
//
// COMMAND USAGE:
//   receipts examples
//
// OUTPUT:
//   Output 1:
//
//   1 book: 12.49
//   ...
//   Total: 29.83
//
//   Output 2:
//   ...
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/ginjaninja78/sales-tax-receipts/internal/parser"
	"github.com/spf13/cobra"
)

// sampleBaskets are the sample inputs. The second one is given with gross
// prices and carries the totals of its own receipt, which are skipped.
var sampleBaskets = []string{
	strings.Join([]string{
		"> 1 book at 12.49",
		"> 1 music CD at 14.99",
		"> 1 chocolate bar at 0.85",
	}, "\n"),
	strings.Join([]string{
		"> 1 imported box of chocolates: 10.50",
		"> 1 imported bottle of perfume: 54.65",
		"> Sales Taxes: 7.65",
		"> Total: 65.15",
	}, "\n"),
	strings.Join([]string{
		"> 1 imported bottle of perfume at 27.99",
		"> 1 bottle of perfume at 18.99",
		"> 1 packet of headache pills at 9.75",
		"> 1 box of imported chocolates at 11.25",
	}, "\n"),
}

// examplesCmd represents the 'examples' command.
var examplesCmd = &cobra.Command{
	Use:   "examples",
	Short: "Print the receipts of the sample baskets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printExamples(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(examplesCmd)
}

// printExamples writes the receipt of every sample basket to out.
func printExamples(out io.Writer) error {
	for i, input := range sampleBaskets {
		b, err := parser.Parse(input)
		if err != nil {
			return errors.Wrapf(err, "failed to parse sample basket %d", i+1)
		}
		fmt.Fprintf(out, "Output %d:\n\n%s\n\n", i+1, b.Receipt())
	}
	return nil
}
