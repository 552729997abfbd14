// =============================================================================
// Payslip Ledger - Document Processor
// =============================================================================
//
// This module turns one payslip document into one record.
//
// PROCESSING PIPELINE:
//   1. Select the layout whose file patterns match the document
//   2. Read the first page's text lines from the text source
//   3. Apply the layout's line rules
//   4. Find the pay period and extract the category amounts
//   5. Validate the record
//
// CONCURRENCY:
//   A Processor is safe for concurrent use once built. Layouts are compiled
//   up front and never mutated afterwards.
//
// =============================================================================

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ginjaninja78/payslip-ledger/internal/config"
	"github.com/ginjaninja78/payslip-ledger/internal/extractor"
	"github.com/ginjaninja78/payslip-ledger/internal/log"
	"github.com/ginjaninja78/payslip-ledger/internal/record"
	"github.com/ginjaninja78/payslip-ledger/internal/textsource"
	"github.com/ginjaninja78/payslip-ledger/internal/validation"
	"github.com/ginjaninja78/payslip-ledger/internal/xlsxparser"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of processing a single document.
type Result struct {
	// FilePath is the document that was processed.
	FilePath string

	// Layout is the name of the layout used.
	Layout string

	// Record is the extracted record. Zero if processing failed.
	Record record.Record

	// Success indicates whether a record was produced.
	Success bool

	// Error is the reason processing failed. Extraction failures are
	// *extractor.ExtractionError; an invalid record is a
	// *validation.ValidationError wrapped in one.
	Error error

	// Warnings are non-fatal validation findings.
	Warnings []*validation.ValidationError

	// Stats contains processing statistics.
	Stats ProcessingStats
}

// ProcessingStats contains statistics about the processing.
type ProcessingStats struct {
	// Lines is the number of text lines read.
	Lines int

	// Categories is the number of categories found.
	Categories int

	// ProcessingTime is the time taken to process the document.
	ProcessingTime time.Duration
}

// =============================================================================
// LAYOUT COMPILATION
// =============================================================================

type compiledLayout struct {
	config      *config.LayoutConfig
	transformer *Transformer
	extractor   *extractor.Extractor
}

// LayoutDefinitions resolves a layout's full category table: the inline
// categories, then the rows of its XLSX table, or the default categories
// when both are empty.
func LayoutDefinitions(layout *config.LayoutConfig) ([]extractor.Definition, error) {
	defs := layout.Definitions()
	if layout.CategoriesXLSX != "" {
		rows, err := xlsxparser.Parse(layout.CategoriesXLSX)
		if err != nil {
			return nil, fmt.Errorf("layout %s: %w", layout.LayoutName, err)
		}
		defs = append(defs, rows...)
	}
	if len(defs) == 0 {
		defs = extractor.DefaultDefinitions()
	}
	return defs, nil
}

func compileLayout(layout *config.LayoutConfig) (*compiledLayout, error) {
	defs, err := LayoutDefinitions(layout)
	if err != nil {
		return nil, err
	}
	schema, err := extractor.NewSchema(defs)
	if err != nil {
		return nil, fmt.Errorf("layout %s: %w", layout.LayoutName, err)
	}
	transformer, err := NewTransformer(layout.LineRules)
	if err != nil {
		return nil, fmt.Errorf("layout %s: %w", layout.LayoutName, err)
	}
	return &compiledLayout{
		config:      layout,
		transformer: transformer,
		extractor:   extractor.New(schema),
	}, nil
}

// =============================================================================
// PROCESSOR
// =============================================================================

// Processor extracts records from documents.
type Processor struct {
	source   textsource.Source
	configs  []*config.LayoutConfig
	layouts  map[*config.LayoutConfig]*compiledLayout
	fallback *compiledLayout
	logger   *log.Logger
}

// NewProcessor compiles every layout. The built-in default layout handles
// documents no layout matches.
func NewProcessor(source textsource.Source, layouts []*config.LayoutConfig, logger *log.Logger) (*Processor, error) {
	if logger == nil {
		logger = log.Discard()
	}

	p := &Processor{
		source:  source,
		configs: layouts,
		layouts: make(map[*config.LayoutConfig]*compiledLayout, len(layouts)),
		logger:  logger.WithComponent(log.ComponentPipeline),
	}

	for _, layout := range layouts {
		compiled, err := compileLayout(layout)
		if err != nil {
			return nil, err
		}
		p.layouts[layout] = compiled
	}

	fallback, err := compileLayout(config.DefaultLayout())
	if err != nil {
		return nil, err
	}
	p.fallback = fallback

	return p, nil
}

func (p *Processor) layoutFor(path string) *compiledLayout {
	if compiled, ok := p.layouts[config.SelectLayout(p.configs, path)]; ok {
		return compiled
	}
	return p.fallback
}

// Lines returns the document's text lines after the matching layout's line
// rules.
func (p *Processor) Lines(ctx context.Context, path string) ([]string, error) {
	raw, err := p.source.Lines(ctx, path)
	if err != nil {
		return nil, &extractor.ExtractionError{Source: path, Err: err}
	}
	return p.layoutFor(path).transformer.Apply(raw), nil
}

// Process runs the pipeline for one document. It never panics on a bad
// document; every failure is reported in the Result.
func (p *Processor) Process(ctx context.Context, path string) (result Result) {
	start := time.Now()
	layout := p.layoutFor(path)
	result = Result{FilePath: path, Layout: layout.config.LayoutName}

	defer func() {
		result.Stats.ProcessingTime = time.Since(start)
	}()

	raw, err := p.source.Lines(ctx, path)
	if err != nil {
		result.Error = &extractor.ExtractionError{Source: path, Err: err}
		p.logFailure(result)
		return result
	}
	lines := layout.transformer.Apply(raw)
	result.Stats.Lines = len(lines)

	rec, err := layout.extractor.Extract(lines)
	if err != nil {
		var ee *extractor.ExtractionError
		if errors.As(err, &ee) && ee.Source == "" {
			ee.Source = path
		}
		result.Error = err
		p.logFailure(result)
		return result
	}

	for _, finding := range validation.ValidateRecord(rec, layout.extractor.Schema().Names()) {
		if finding.IsFatal() {
			result.Error = &extractor.ExtractionError{Source: path, Err: finding}
			p.logFailure(result)
			return result
		}
		result.Warnings = append(result.Warnings, finding)
	}

	result.Record = rec
	result.Success = true
	result.Stats.Categories = len(rec.Payments)

	p.logger.Debug("document processed",
		log.NewFields().
			WithOperation(log.OpExtract).
			WithFile(path).
			WithRecord(rec.Period.String(), len(rec.Payments)).
			ToSlice()...)
	for _, w := range result.Warnings {
		p.logger.Warn("record warning", log.FieldFile, path, log.FieldWarning, w.Error())
	}

	return result
}

func (p *Processor) logFailure(result Result) {
	p.logger.Warn("document skipped",
		log.NewFields().
			WithOperation(log.OpExtract).
			WithFile(result.FilePath).
			WithError(result.Error).
			ToSlice()...)
}
