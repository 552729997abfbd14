package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ginjaninja78/payslip-ledger/internal/aggregate"
	"github.com/ginjaninja78/payslip-ledger/internal/log"
	"github.com/ginjaninja78/payslip-ledger/internal/record"
	"github.com/ginjaninja78/payslip-ledger/internal/report"
	"github.com/ginjaninja78/payslip-ledger/pkg/utils"
	"github.com/spf13/cobra"
)

var (
	exportFormat string
	exportOutput string
)

// exportCmd writes the stored records and their summary to a file.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored records and their summary (xlsx, csv or pdf)",
	Long: `The export command writes the stored records to the output directory.

  xlsx: a Records sheet (one row per month, one column per category) and a
        Summary sheet with the date ranges and totals
  csv:  the Records table only
  pdf:  a one-page statement with the totals and the gap check

--start and --end limit the summary totals; the Records table always holds
every stored record.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format := strings.ToLower(exportFormat)
		switch format {
		case report.FormatXLSX, report.FormatCSV, report.FormatPDF:
		default:
			return fmt.Errorf("unknown export format %q (want xlsx, csv or pdf)", exportFormat)
		}

		rng, records, err := loadRangeAndRecords(cmd)
		if err != nil {
			return err
		}

		path := exportOutput
		if path == "" {
			if err := os.MkdirAll(mainConfig.OutputDir, 0755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
			name := utils.GenerateOutputFileName(mainConfig.OutputNameFormat, format, map[string]string{"kind": "records"})
			path = filepath.Join(mainConfig.OutputDir, name)
		}

		summary := aggregate.Aggregate(records, rng)
		if err := writeExport(path, format, records, summary, aggregate.FindGaps(records)); err != nil {
			return err
		}

		logger.Info("export written",
			log.FieldOperation, log.OpExport,
			log.FieldPath, path,
			log.FieldRecords, len(records))
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d record(s) to %s\n", len(records), path)
		return nil
	},
}

// writeExport writes the export to path. A failed export leaves no file behind.
func writeExport(path, format string, records []record.Record, summary aggregate.Result, gaps aggregate.GapReport) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := report.Export(file, format, records, summary, gaps); err != nil {
		file.Close()
		os.Remove(path)
		return err
	}
	if err := file.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportFormat, "format", report.FormatXLSX, "Export format: xlsx, csv or pdf")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default: generated name in output_dir)")
	exportCmd.Flags().StringVar(&rangeStart, "start", "", "First month to include in the summary (YYYY-MM)")
	exportCmd.Flags().StringVar(&rangeEnd, "end", "", "Last month to include in the summary (YYYY-MM)")
}
