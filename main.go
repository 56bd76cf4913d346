// =============================================================================
// Sales Tax Receipts - Main Entry Point
// =============================================================================
//
// USAGE:
//   receipts examples      - Print the receipts of the sample baskets
//   receipts receipt FILE  - Print the receipt of a basket file
//   receipts process       - Render every basket in the input directory
//   receipts validate FILE - Report skipped or rejected basket lines
//   receipts version       - Display the application version
//
// ARCHITECTURE:
//   - cmd/      : CLI command definitions (Cobra)
//   - internal/ : Tax schedule, basket model, parser, receipt writers
//   - pkg/      : File management shared by the batch commands
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/sales-tax-receipts/cmd"
)

func main() {
	cmd.Execute()
}
