package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ginjaninja78/payslip-ledger/internal/period"
	"github.com/ginjaninja78/payslip-ledger/internal/record"
	"github.com/shopspring/decimal"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps the collection in a SQLite database. Records keep their
// collection order through the position column; amounts are stored as
// decimal text.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the database at dbPath and runs
// the migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Load reads every record in stored order.
func (s *SQLiteStore) Load(ctx context.Context) ([]record.Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, period FROM records ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	type row struct {
		id     int64
		period period.Period
	}
	var ordered []row
	for rows.Next() {
		var (
			id  int64
			raw string
		)
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		p, err := period.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", id, err)
		}
		ordered = append(ordered, row{id: id, period: p})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}

	payments, err := s.loadPayments(ctx)
	if err != nil {
		return nil, err
	}

	records := make([]record.Record, 0, len(ordered))
	for _, r := range ordered {
		rec, err := record.New(r.period, payments[r.id])
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", r.id, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func (s *SQLiteStore) loadPayments(ctx context.Context) (map[int64]map[string]decimal.Decimal, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT record_id, category, amount FROM payments`)
	if err != nil {
		return nil, fmt.Errorf("query payments: %w", err)
	}
	defer rows.Close()

	payments := make(map[int64]map[string]decimal.Decimal)
	for rows.Next() {
		var (
			id       int64
			category string
			raw      string
		)
		if err := rows.Scan(&id, &category, &raw); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("payment %s of record %d: %w", category, id, err)
		}
		if payments[id] == nil {
			payments[id] = make(map[string]decimal.Decimal)
		}
		payments[id][category] = amount
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate payments: %w", err)
	}
	return payments, nil
}

// Save replaces the stored collection inside one transaction.
func (s *SQLiteStore) Save(ctx context.Context, records []record.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM payments`); err != nil {
		return fmt.Errorf("clear payments: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM records`); err != nil {
		return fmt.Errorf("clear records: %w", err)
	}

	insertRecord, err := tx.PrepareContext(ctx, `INSERT INTO records (position, period) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare record insert: %w", err)
	}
	defer insertRecord.Close()

	insertPayment, err := tx.PrepareContext(ctx, `INSERT INTO payments (record_id, category, amount) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare payment insert: %w", err)
	}
	defer insertPayment.Close()

	for i, r := range records {
		if r.Period.IsZero() {
			return fmt.Errorf("record %d: %w", i, record.ErrMissingPeriod)
		}
		res, err := insertRecord.ExecContext(ctx, i, r.Period.String())
		if err != nil {
			return fmt.Errorf("insert record %s: %w", r.Period, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("record id for %s: %w", r.Period, err)
		}
		for _, name := range r.Categories() {
			if _, err := insertPayment.ExecContext(ctx, id, name, r.Payments[name].String()); err != nil {
				return fmt.Errorf("insert payment %s for %s: %w", name, r.Period, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
