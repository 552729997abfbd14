// Package store persists the record collection.
package store

import (
	"context"
	"fmt"

	"github.com/ginjaninja78/payslip-ledger/internal/config"
	"github.com/ginjaninja78/payslip-ledger/internal/record"
)

// Store loads and saves the whole record collection. Save replaces what was
// stored before. Load of a store that was never written returns no records.
type Store interface {
	Load(ctx context.Context) ([]record.Record, error)
	Save(ctx context.Context, records []record.Record) error
	Close() error
}

// New opens the backend selected by the configuration.
func New(cfg *config.MainConfig) (Store, error) {
	switch cfg.StoreBackend {
	case config.StoreJSON, "":
		return NewJSONStore(cfg.StorePath), nil
	case config.StoreSQLite:
		return NewSQLiteStore(cfg.StorePath)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
