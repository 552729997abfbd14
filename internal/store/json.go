package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ginjaninja78/payslip-ledger/internal/record"
)

// JSONStore keeps the collection as a JSON array in a single file.
type JSONStore struct {
	path string
}

// NewJSONStore returns a store backed by path. The file is created on the
// first Save.
func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

// Path returns the backing file path.
func (s *JSONStore) Path() string { return s.path }

// Load reads the collection. A missing file is an empty collection.
func (s *JSONStore) Load(ctx context.Context) ([]record.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return []record.Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read store %s: %w", s.path, err)
	}

	records := []record.Record{}
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode store %s: %w", s.path, err)
	}
	return records, nil
}

// Save writes the collection to a temporary file and renames it over the
// store so a failed write never leaves a truncated file behind.
func (s *JSONStore) Save(ctx context.Context, records []record.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if records == nil {
		records = []record.Record{}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode records: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create store directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace store %s: %w", s.path, err)
	}
	return nil
}

// Close is a no-op.
func (s *JSONStore) Close() error { return nil }
