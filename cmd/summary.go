// =============================================================================
// Payslip Ledger - Summary, Additional and Gaps Commands
// =============================================================================
//
// These commands read the record store and report on it.
//
// COMMAND USAGE:
//   payslip-ledger summary [--start YYYY-MM] [--end YYYY-MM]
//   payslip-ledger additional [--categories A,B] [--set A,B --set C,D]
//   payslip-ledger gaps
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/ginjaninja78/payslip-ledger/internal/aggregate"
	"github.com/ginjaninja78/payslip-ledger/internal/log"
	"github.com/ginjaninja78/payslip-ledger/internal/record"
	"github.com/ginjaninja78/payslip-ledger/internal/report"
	"github.com/spf13/cobra"
)

var (
	rangeStart           string
	rangeEnd             string
	additionalCategories []string
	additionalSets       []string
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Total every payment category over a date range",
	Long: `The summary command totals every payment category of the stored records
whose month lies inside [--start, --end]. Either bound may be omitted.

The requested, available and actual date ranges are printed before the
totals. When no record falls inside the range the totals are empty and a
warning is printed instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rng, records, err := loadRangeAndRecords(cmd)
		if err != nil {
			return err
		}

		res := aggregate.Aggregate(records, rng)
		logWarning(log.OpAggregate, res.Warning)
		report.WriteSummary(cmd.OutOrStdout(), res)
		return nil
	},
}

var additionalCmd = &cobra.Command{
	Use:   "additional",
	Short: "Total a subset of payment categories over a date range",
	Long: `The additional command sums a chosen set of categories into one total.
Categories that never appear in the records contribute zero.

Without --categories or --set the configured additional_categories are used
(default: Overtimes, NOC Shift Differential, Bonus). --set may be repeated to
print several totals in one run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rng, records, err := loadRangeAndRecords(cmd)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, set := range categorySets() {
			res := aggregate.AggregateSubset(records, set, rng)
			logWarning(log.OpAggregate, res.Aggregate.Warning)
			report.WriteSubset(out, res)
		}
		return nil
	},
}

var gapsCmd = &cobra.Command{
	Use:   "gaps",
	Short: "List months missing between the earliest and latest record",
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := loadRecords(cmd.Context())
		if err != nil {
			return err
		}

		gaps := aggregate.FindGaps(records)
		logWarning(log.OpGaps, gaps.Warning)
		report.WriteGaps(cmd.OutOrStdout(), gaps)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd, additionalCmd, gapsCmd)

	for _, c := range []*cobra.Command{summaryCmd, additionalCmd} {
		c.Flags().StringVar(&rangeStart, "start", "", "First month to include (YYYY-MM)")
		c.Flags().StringVar(&rangeEnd, "end", "", "Last month to include (YYYY-MM)")
	}

	additionalCmd.Flags().StringSliceVar(&additionalCategories, "categories", nil, "Comma-separated categories to total")
	additionalCmd.Flags().StringArrayVar(&additionalSets, "set", nil, "A comma-separated category set; may be repeated")
}

// categorySets returns the category sets requested on the command line, or
// the configured default set.
func categorySets() [][]string {
	var sets [][]string
	if len(additionalCategories) > 0 {
		sets = append(sets, additionalCategories)
	}
	for _, raw := range additionalSets {
		var set []string
		for _, name := range strings.Split(raw, ",") {
			if name = strings.TrimSpace(name); name != "" {
				set = append(set, name)
			}
		}
		if len(set) > 0 {
			sets = append(sets, set)
		}
	}
	if len(sets) == 0 {
		sets = append(sets, mainConfig.AdditionalCategories)
	}
	return sets
}

// loadRangeAndRecords validates the range flags before touching the store.
func loadRangeAndRecords(cmd *cobra.Command) (aggregate.Range, []record.Record, error) {
	rng, err := aggregate.ParseRange(rangeStart, rangeEnd)
	if err != nil {
		return aggregate.Range{}, nil, err
	}
	records, err := loadRecords(cmd.Context())
	if err != nil {
		return aggregate.Range{}, nil, err
	}
	return rng, records, nil
}

func loadRecords(ctx context.Context) ([]record.Record, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	s, err := openStore()
	if err != nil {
		return nil, err
	}
	defer s.Close()

	records, err := s.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load records: %w", err)
	}

	logger.Debug("records loaded",
		log.FieldOperation, log.OpLoad,
		log.FieldBackend, mainConfig.StoreBackend,
		log.FieldRecords, len(records))
	return records, nil
}

func logWarning(op string, w aggregate.Warning) {
	if w == aggregate.WarningNone {
		return
	}
	logger.Warn(w.Message(), log.FieldOperation, op, log.FieldWarning, string(w))
}
