// =============================================================================
// Sales Tax Receipts - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. All other commands
// are attached to it.
//
// COBRA CLI STRUCTURE:
//   rootCmd (receipts)
//   ├── examplesCmd (receipts examples)
//   ├── receiptCmd  (receipts receipt [file...])
//   ├── processCmd  (receipts process)
//   ├── validateCmd (receipts validate [file...])
//   └── versionCmd  (receipts version)
//
// Before any subcommand runs, the root command loads the configuration and
// builds the logger. Both are shared by the subcommands through appConfig
// and appLogger.
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/ginjaninja78/sales-tax-receipts/internal/config"
	"github.com/ginjaninja78/sales-tax-receipts/internal/logger"
	"github.com/spf13/cobra"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
// This can be overridden using the --config flag.
var cfgFile string

// verbose forces debug logging when set to true.
var verbose bool

// appConfig is the configuration loaded before each command.
var appConfig *config.MainConfig

// appLogger is the logger built from appConfig.
var appLogger *logger.Logger

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "receipts",
	Short: "Sales Tax Receipts - Compute sales taxes and print shopping receipts",
	Long: `Sales Tax Receipts reads shopping basket listings, computes the sales tax
of every item and prints a receipt with the taxed prices, the total tax and
the grand total.

Basket lines look like:
  1 book at 12.49                      (net price, taxes are added)
  1 imported bottle of perfume: 54.65  (gross price, taxes are included)

Basic sales tax is 10% except for books, food and medical products.
Imported goods carry an extra 5%. Taxes are rounded up to the nearest 0.05.

Example Usage:
  receipts examples                    # Print the receipts of the sample baskets
  receipts receipt basket.txt          # Print the receipt of a basket file
  receipts process                     # Render every basket in the input directory
  receipts validate basket.txt         # Report lines that would be skipped or rejected`,

	SilenceUsage: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initApp()
	},

	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if appLogger != nil {
			appLogger.Sync()
		}
	},

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. It is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	// ==========================================================================
	// PERSISTENT FLAGS
	// ==========================================================================

	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the main configuration file",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable debug logging",
	)
}

// initApp loads the configuration and builds the logger.
func initApp() error {
	cfg, err := config.LoadMainConfig(cfgFile)
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}

	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}

	log, err := logger.New(level, cfg.LogFile)
	if err != nil {
		return errors.Wrap(err, "failed to create logger")
	}

	appConfig = cfg
	appLogger = log
	appLogger.Debugf("Configuration loaded from %s", cfgFile)
	return nil
}
