package pipeline

import (
	"context"
	"time"

	"github.com/ginjaninja78/payslip-ledger/internal/log"
	"github.com/ginjaninja78/payslip-ledger/internal/period"
	"github.com/ginjaninja78/payslip-ledger/internal/record"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// BatchOptions controls a batch run.
type BatchOptions struct {
	// MaxConcurrency bounds the number of documents processed at once.
	// Values below 1 mean 1.
	MaxConcurrency int

	// ContinueOnError keeps going after a failed document. When false the
	// first failure cancels the documents not yet started.
	ContinueOnError bool
}

// Batch is the outcome of a batch run.
type Batch struct {
	RunID     string
	Results   []Result
	Started   time.Time
	Duration  time.Duration
	Succeeded int
	Failed    int
}

// Records returns the records of the successful results in input order.
func (b *Batch) Records() []record.Record {
	records := make([]record.Record, 0, b.Succeeded)
	for _, r := range b.Results {
		if r.Success {
			records = append(records, r.Record)
		}
	}
	return records
}

// ProcessAll processes the documents concurrently. Results are indexed like
// paths regardless of completion order. The returned error is the first
// failure when ContinueOnError is false, or a context error.
func (p *Processor) ProcessAll(ctx context.Context, paths []string, opts BatchOptions) (*Batch, error) {
	batch := &Batch{
		RunID:   uuid.NewString(),
		Results: make([]Result, len(paths)),
		Started: time.Now(),
	}
	logger := p.logger.With(log.FieldRunID, batch.RunID)

	limit := opts.MaxConcurrency
	if limit < 1 {
		limit = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				batch.Results[i] = Result{FilePath: path, Error: err}
				return nil
			}
			res := p.Process(gctx, path)
			batch.Results[i] = res
			if !res.Success && !opts.ContinueOnError {
				return res.Error
			}
			return nil
		})
	}
	err := g.Wait()

	for _, r := range batch.Results {
		if r.Success {
			batch.Succeeded++
		} else {
			batch.Failed++
		}
	}
	batch.Duration = time.Since(batch.Started)

	logger.Info("batch finished",
		log.FieldOperation, log.OpExtract,
		log.FieldRecords, batch.Succeeded,
		"failed", batch.Failed,
		log.FieldDuration, batch.Duration.Milliseconds())

	if err == nil {
		err = ctx.Err()
	}
	return batch, err
}

// MergeRecords replaces every existing record whose period appears in
// fresh and appends the fresh records. Existing records keep their order.
func MergeRecords(existing, fresh []record.Record) []record.Record {
	replaced := make(map[period.Period]struct{}, len(fresh))
	for _, r := range fresh {
		replaced[r.Period] = struct{}{}
	}

	merged := make([]record.Record, 0, len(existing)+len(fresh))
	for _, r := range existing {
		if _, ok := replaced[r.Period]; ok {
			continue
		}
		merged = append(merged, r)
	}
	return append(merged, fresh...)
}
