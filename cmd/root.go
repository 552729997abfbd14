// =============================================================================
// Payslip Ledger - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. Every subcommand is
// attached to it.
//
// COBRA CLI STRUCTURE:
//   rootCmd (payslip-ledger)
//   ├── extractCmd    (payslip-ledger extract)
//   ├── summaryCmd    (payslip-ledger summary)
//   ├── additionalCmd (payslip-ledger additional)
//   ├── gapsCmd       (payslip-ledger gaps)
//   ├── exportCmd     (payslip-ledger export)
//   ├── validateCmd   (payslip-ledger validate)
//   └── versionCmd    (payslip-ledger version)
//
// CONFIGURATION:
//   Before any subcommand runs the root command loads the .env file, the
//   main configuration and sets up the logger.
//
// =============================================================================

package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/ginjaninja78/payslip-ledger/internal/config"
	"github.com/ginjaninja78/payslip-ledger/internal/log"
	"github.com/ginjaninja78/payslip-ledger/internal/store"
	"github.com/spf13/cobra"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
var cfgFile string

// envFile holds the path to the optional .env file.
var envFile string

// verbose enables debug logging when set to true.
var verbose bool

// mainConfig and logger are set by the root command's pre-run hook.
var (
	mainConfig *config.MainConfig
	logger     *log.Logger
)

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "payslip-ledger",
	Short: "Payslip Ledger - Extract payslip records and summarise payments",
	Long: `Payslip Ledger reads payslip documents (PDF or plain text), extracts one
dated record of categorised payment amounts per document and keeps them in a
record store. Stored records can be summarised over a date range, checked for
missing months and exported.

Key Features:
  - Configurable category tables per payslip layout (YAML or XLSX)
  - Concurrent extraction with per-document error reporting
  - JSON file or SQLite record store
  - Summary, additional-payment totals and gap checks
  - XLSX, CSV and PDF exports

Example Usage:
  payslip-ledger extract                              # Extract every document in the input directory
  payslip-ledger summary --start 2022-05 --end 2023-04
  payslip-ledger additional --set "RTC,RCA"
  payslip-ledger gaps`,

	SilenceUsage: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initApp()
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
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the main configuration file (defaults apply if it does not exist)",
	)

	rootCmd.PersistentFlags().StringVar(
		&envFile,
		"env-file",
		".env",
		"Path to an optional .env file with PAYSLIP_* overrides",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable debug logging",
	)
}

// initApp loads the environment, the main configuration and the logger.
func initApp() error {
	if err := config.LoadDotEnv(envFile); err != nil {
		return err
	}

	cfg, err := config.LoadMainConfig(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load main config: %w", err)
	}

	level := log.ParseLevel(cfg.LogLevel)
	if verbose {
		level = slog.LevelDebug
	}

	mainConfig = cfg
	logger = log.New(log.Config{
		Level:     level,
		Format:    cfg.LogFormat,
		Component: log.ComponentApp,
		Output:    os.Stderr,
	})
	log.SetDefault(logger)

	logger.Debug("configuration loaded",
		log.FieldPath, cfgFile,
		log.FieldBackend, cfg.StoreBackend,
		"store_path", cfg.StorePath)

	return nil
}

// openStore opens the configured record store.
func openStore() (store.Store, error) {
	s, err := store.New(mainConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to open record store: %w", err)
	}
	return s, nil
}
