package confidence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"MarketSandbox/internal/store"
)

// SQLiteStore persists confidences to a SQLite database.
type SQLiteStore struct {
	db     *sql.DB
	mu     sync.Mutex
	logger *zap.Logger
}

// NewSQLiteStore opens (or creates) the SQLite database and runs migrations.
func NewSQLiteStore(dbPath string, logger *zap.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db, logger: logger}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logger.Info("sqlite confidence store opened", zap.String("path", dbPath))
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS confidences (
			ticker     TEXT PRIMARY KEY,
			confidence REAL NOT NULL,
			updated_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_confidences_updated ON confidences(updated_at)`,
	}

	for _, q := range stmts {
		if _, err := s.db.Exec(q); err != nil {
			return fmt.Errorf("exec %q: %w", q[:min(40, len(q))], err)
		}
	}
	return nil
}

func (s *SQLiteStore) All(ctx context.Context) (map[string]float64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT ticker, confidence FROM confidences`)
	if err != nil {
		return nil, fmt.Errorf("query confidences: %w", err)
	}
	defer rows.Close()

	out := make(map[string]float64)
	for rows.Next() {
		var ticker string
		var v float64
		if err := rows.Scan(&ticker, &v); err != nil {
			return nil, fmt.Errorf("scan confidence: %w", err)
		}
		out[ticker] = v
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Get(ctx context.Context, ticker string) (float64, bool, error) {
	var v float64
	err := s.db.QueryRowContext(ctx, `SELECT confidence FROM confidences WHERE ticker = ?`, store.Key(ticker)).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("query confidence: %w", err)
	}
	return v, true, nil
}

func (s *SQLiteStore) PutAll(ctx context.Context, values map[string]float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().Unix()
	for ticker, v := range values {
		if _, err := tx.ExecContext(ctx, `INSERT INTO confidences (ticker, confidence, updated_at)
			VALUES (?, ?, ?)
			ON CONFLICT(ticker) DO UPDATE SET confidence = excluded.confidence, updated_at = excluded.updated_at`,
			store.Key(ticker), v, now,
		); err != nil {
			return fmt.Errorf("upsert %s: %w", ticker, err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) Close() error {
	s.logger.Info("closing sqlite confidence store")
	return s.db.Close()
}
