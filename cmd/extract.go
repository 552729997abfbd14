// =============================================================================
// Payslip Ledger - Extract Command
// =============================================================================
//
// The extract command turns payslip documents into records and saves them to
// the record store.
//
// COMMAND USAGE:
//   payslip-ledger extract [file...]       # Documents given, or the input directory
//   payslip-ledger extract --merge         # Replace same-month records, keep the rest
//   payslip-ledger extract --dump FILE     # Print the "Key: Value" lines of a document
//   payslip-ledger extract --dry-run       # Extract and print, do not save
//
// =============================================================================

package cmd

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/ginjaninja78/payslip-ledger/internal/config"
	"github.com/ginjaninja78/payslip-ledger/internal/extractor"
	"github.com/ginjaninja78/payslip-ledger/internal/log"
	"github.com/ginjaninja78/payslip-ledger/internal/pipeline"
	"github.com/ginjaninja78/payslip-ledger/internal/report"
	"github.com/ginjaninja78/payslip-ledger/internal/textsource"
	"github.com/ginjaninja78/payslip-ledger/internal/validation"
	"github.com/ginjaninja78/payslip-ledger/pkg/utils"
	"github.com/spf13/cobra"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	extractMerge  bool
	extractDump   bool
	extractDryRun bool
	extractNoLogs bool
)

// =============================================================================
// EXTRACT COMMAND DEFINITION
// =============================================================================

var extractCmd = &cobra.Command{
	Use:   "extract [file...]",
	Short: "Extract records from payslip documents into the record store",
	Long: `The extract command reads every payslip document in the input directory
(or the files given as arguments), extracts one record per document and saves
the collection to the record store.

Documents whose pay period cannot be found are skipped and reported; the
remaining documents are still saved.

By default the store is replaced by the records of this run. With --merge the
stored records are kept and only the months that were re-extracted are
replaced.

On completion:
  - Successfully extracted documents are archived when archive_on_success is set
  - An error log and a processing summary are written to the output directory`,

	RunE: func(cmd *cobra.Command, args []string) error {
		if extractDump {
			return runDump(cmd, args)
		}
		return runExtract(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().BoolVar(&extractMerge, "merge", false, "Merge into the stored records instead of replacing them")
	extractCmd.Flags().BoolVar(&extractDump, "dump", false, "Print the \"Key: Value\" lines of the documents instead of extracting")
	extractCmd.Flags().BoolVar(&extractDryRun, "dry-run", false, "Extract and print records without saving or archiving")
	extractCmd.Flags().BoolVar(&extractNoLogs, "no-run-logs", false, "Do not write the error log and processing summary")
}

// =============================================================================
// EXTRACT PROCESSING
// =============================================================================

func newProcessor() (*pipeline.Processor, error) {
	layouts, err := config.LoadLayoutConfigs(mainConfig.LayoutsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load layout configs: %w", err)
	}
	return pipeline.NewProcessor(textsource.NewMux(), layouts, logger)
}

func documentsFor(fm *utils.FileManager, args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	files, err := fm.DiscoverInputFiles(mainConfig.FilePatterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to discover input files: %w", err)
	}
	return files, nil
}

func runExtract(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	fm := utils.NewFileManager(mainConfig.InputDir, mainConfig.OutputDir, mainConfig.InputArchiveDir)
	fm.ArchiveOnSuccess = mainConfig.ArchiveOnSuccess && !extractDryRun
	fm.UseTimestampSubdirs = mainConfig.ArchiveTimestampSubdirs

	processor, err := newProcessor()
	if err != nil {
		return err
	}

	files, err := documentsFor(fm, args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Fprintln(out, "No payslip documents found.")
		return nil
	}
	fmt.Fprintf(out, "Found %d document(s) to process\n", len(files))

	batch, batchErr := processor.ProcessAll(ctx, files, pipeline.BatchOptions{
		MaxConcurrency:  mainConfig.MaxConcurrency,
		ContinueOnError: mainConfig.ShouldContinueOnError(),
	})

	for _, res := range batch.Results {
		if res.Success {
			fmt.Fprintf(out, "  ✓ %s -> ", filepath.Base(res.FilePath))
			report.WriteRecord(out, res.Record)
		} else {
			fmt.Fprintf(out, "  ✗ %s: %v\n", filepath.Base(res.FilePath), res.Error)
		}
	}

	if batchErr != nil {
		return fmt.Errorf("extraction stopped: %w", batchErr)
	}

	records := batch.Records()
	storedCount := len(records)
	storePath := mainConfig.StorePath

	if !extractDryRun {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		if extractMerge {
			existing, err := s.Load(ctx)
			if err != nil {
				return fmt.Errorf("failed to load stored records: %w", err)
			}
			records = pipeline.MergeRecords(existing, records)
		}

		if err := s.Save(ctx, records); err != nil {
			return fmt.Errorf("failed to save records: %w", err)
		}
		storedCount = len(records)

		logger.Info("records saved",
			log.FieldOperation, log.OpSave,
			log.FieldBackend, mainConfig.StoreBackend,
			log.FieldPath, storePath,
			log.FieldRecords, storedCount)
		fmt.Fprintf(out, "Saved %d record(s) to %s\n", storedCount, storePath)
	}

	summary := utils.ProcessingSummary{
		RunID:           batch.RunID,
		StartTime:       batch.Started,
		EndTime:         batch.Started.Add(batch.Duration),
		TotalFiles:      len(files),
		SuccessfulFiles: batch.Succeeded,
		FailedFiles:     batch.Failed,
		StorePath:       storePath,
		StoredRecords:   storedCount,
	}
	var errorEntries []utils.ErrorLogEntry

	for _, res := range batch.Results {
		summary.TotalLines += res.Stats.Lines
		summary.Warnings += len(res.Warnings)

		if !res.Success {
			errorEntries = append(errorEntries, errorLogEntry(res))
			summary.FailedFilesList = append(summary.FailedFilesList, utils.FailedFileInfo{
				InputFile:    res.FilePath,
				ErrorMessage: fmt.Sprint(res.Error),
			})
			continue
		}

		archivePath, err := fm.ArchiveInputFile(res.FilePath)
		if err != nil {
			logger.Warn("archive failed",
				log.NewFields().WithOperation(log.OpArchive).WithFile(res.FilePath).WithError(err).ToSlice()...)
			archivePath = ""
		}
		summary.ProcessedFiles = append(summary.ProcessedFiles, utils.ProcessedFileInfo{
			InputFile:   res.FilePath,
			ArchivePath: archivePath,
			Layout:      res.Layout,
			Period:      res.Record.Period.String(),
			Categories:  len(res.Record.Payments),
			ProcessTime: res.Stats.ProcessingTime,
		})
	}

	if !extractDryRun && !extractNoLogs {
		if err := fm.EnsureDirectories(); err != nil {
			return err
		}
		if path, err := utils.WriteErrorLog(errorEntries, mainConfig.OutputDir); err != nil {
			logger.Warn("error log not written", log.FieldError, err.Error())
		} else if path != "" {
			fmt.Fprintf(out, "Errors have been logged to %s\n", path)
		}
		if _, err := utils.WriteSummaryLog(summary, mainConfig.OutputDir); err != nil {
			logger.Warn("summary log not written", log.FieldError, err.Error())
		}
	}

	fmt.Fprintln(out, "\n=== Extraction Complete ===")
	fmt.Fprintf(out, "Total documents: %d\n", len(files))
	fmt.Fprintf(out, "Successful:      %d\n", batch.Succeeded)
	fmt.Fprintf(out, "Skipped:         %d\n", batch.Failed)
	fmt.Fprintf(out, "Time elapsed:    %s\n", batch.Duration.Round(time.Millisecond))

	return nil
}

func errorLogEntry(res pipeline.Result) utils.ErrorLogEntry {
	entry := utils.ErrorLogEntry{
		Timestamp:    time.Now(),
		FileName:     res.FilePath,
		ErrorType:    "extraction",
		ErrorMessage: fmt.Sprint(res.Error),
	}

	var ve *validation.ValidationError
	switch {
	case errors.As(res.Error, &ve):
		entry.ErrorType = "validation"
		entry.Field = ve.Field
		entry.Value = ve.Value
	case errors.Is(res.Error, extractor.ErrPeriodNotFound):
		entry.ErrorType = "period_not_found"
	case errors.Is(res.Error, textsource.ErrUnsupported):
		entry.ErrorType = "unsupported_document"
	}
	return entry
}

// =============================================================================
// KEY/VALUE DUMP
// =============================================================================

func runDump(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	processor, err := newProcessor()
	if err != nil {
		return err
	}

	fm := utils.NewFileManager(mainConfig.InputDir, mainConfig.OutputDir, mainConfig.InputArchiveDir)
	files, err := documentsFor(fm, args)
	if err != nil {
		return err
	}

	for _, file := range files {
		lines, err := processor.Lines(ctx, file)
		if err != nil {
			fmt.Fprintf(out, "  ✗ %s: %v\n", filepath.Base(file), err)
			continue
		}
		fmt.Fprintf(out, "== %s ==\n", filepath.Base(file))
		report.WriteKeyValues(out, extractor.KeyValues(lines))
	}
	return nil
}
