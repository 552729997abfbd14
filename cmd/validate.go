// =============================================================================
// Payslip Ledger - Validate Command
// =============================================================================
//
// The validate command checks the configuration without reading any payslip.
//
// COMMAND USAGE:
//   payslip-ledger validate
//
// CHECKS:
//   - The main configuration (already loaded by the root command)
//   - Every layout file: category table and line rules
//   - The built-in default layout
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/ginjaninja78/payslip-ledger/internal/config"
	"github.com/ginjaninja78/payslip-ledger/internal/log"
	"github.com/ginjaninja78/payslip-ledger/internal/pipeline"
	"github.com/ginjaninja78/payslip-ledger/internal/validation"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration and layout files",
	Long: `The validate command loads the main configuration and every layout in
layouts_dir, resolves each layout's category table (inline and XLSX) and
compiles its patterns and line rules.

Problems are listed per layout. The command fails if any of them is an error;
warnings alone do not fail it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Main configuration OK (store: %s at %s)\n", mainConfig.StoreBackend, mainConfig.StorePath)

		layouts, err := config.LoadLayoutConfigs(mainConfig.LayoutsDir)
		if err != nil {
			return fmt.Errorf("failed to load layout configs: %w", err)
		}
		layouts = append(layouts, config.DefaultLayout())

		var all []*validation.ValidationError
		for _, layout := range layouts {
			errs := validateLayout(layout)
			all = append(all, errs...)

			if len(errs) == 0 {
				fmt.Fprintf(out, "  ✓ %s\n", layout.LayoutName)
				continue
			}
			fmt.Fprintf(out, "  ✗ %s\n", layout.LayoutName)
			fmt.Fprint(out, validation.FormatErrors(errs))
		}

		result := validation.Summarize(all)
		logger.Info("configuration validated",
			log.FieldOperation, log.OpValidate,
			"layouts", len(layouts),
			"errors", result.ErrorCount,
			"warnings", result.WarningCount)

		if !result.IsValid {
			return fmt.Errorf("validation failed with %d error(s)", result.ErrorCount)
		}
		fmt.Fprintf(out, "Configuration is valid (%d warning(s))\n", result.WarningCount)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

// validateLayout reports a layout's category table and line rule problems.
func validateLayout(layout *config.LayoutConfig) []*validation.ValidationError {
	source := layout.SourcePath
	if source == "" {
		source = layout.LayoutName
	}

	var errs []*validation.ValidationError
	defs, err := pipeline.LayoutDefinitions(layout)
	if err != nil {
		errs = append(errs, &validation.ValidationError{
			Severity: validation.SeverityError,
			Field:    source,
			Value:    layout.CategoriesXLSX,
			Rule:     "categories_xlsx",
			Message:  err.Error(),
		})
	} else {
		errs = append(errs, validation.ValidateCategories(source, defs)...)
	}

	if _, err := pipeline.NewTransformer(layout.LineRules); err != nil {
		errs = append(errs, &validation.ValidationError{
			Severity: validation.SeverityError,
			Field:    source,
			Rule:     "line_rules",
			Message:  err.Error(),
		})
	}
	return errs
}
