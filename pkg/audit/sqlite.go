package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteConfig contains configuration for the SQLite audit backend.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// MaxOpenConns is the maximum number of open connections.
	// Default: 10
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 5
	MaxIdleConns int

	// WALMode enables Write-Ahead Logging for better concurrency.
	// Default: true
	WALMode bool

	// BusyTimeout is how long to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the default SQLite configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Path:         "data/audit.db",
		MaxOpenConns: 10,
		MaxIdleConns: 5,
		WALMode:      true,
		BusyTimeout:  5 * time.Second,
	}
}

// SQLiteStorage implements Storage using SQLite.
type SQLiteStorage struct {
	db     *sql.DB
	config *SQLiteConfig
	logger *slog.Logger

	storeStmt *sql.Stmt
	getStmt   *sql.Stmt
	countStmt *sql.Stmt

	closeOnce sync.Once
}

// NewSQLiteStorage creates a SQLite audit backend, initializing the schema
// and enabling WAL mode if configured.
func NewSQLiteStorage(config *SQLiteConfig) (*SQLiteStorage, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}

	logger := slog.Default().With("component", "audit.storage.sqlite")

	db, err := sql.Open("sqlite3", config.Path)
	if err != nil {
		return nil, NewStorageError("sqlite", "open", err)
	}

	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)

	s := &SQLiteStorage{
		db:     db,
		config: config,
		logger: logger,
	}

	if config.BusyTimeout > 0 {
		if _, err := db.Exec(fmt.Sprintf("PRAGMA busy_timeout = %d", config.BusyTimeout.Milliseconds())); err != nil {
			db.Close()
			return nil, NewStorageError("sqlite", "busy_timeout", err)
		}
	}
	if config.WALMode {
		if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
			db.Close()
			return nil, NewStorageError("sqlite", "enable_wal", err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, NewStorageError("sqlite", "init_schema", err)
	}

	if err := s.prepareStatements(); err != nil {
		db.Close()
		return nil, NewStorageError("sqlite", "prepare", err)
	}

	logger.Info("audit storage opened", "path", config.Path, "wal", config.WALMode)
	return s, nil
}

func (s *SQLiteStorage) prepareStatements() error {
	var err error

	s.storeStmt, err = s.db.Prepare(`
		INSERT INTO decisions
		    (id, ruleset, ruleset_version, rule, allowed, context,
		     evaluated_at, duration_micros, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}

	s.getStmt, err = s.db.Prepare(`
		SELECT id, ruleset, ruleset_version, rule, allowed, context,
		       evaluated_at, duration_micros, recorded_at
		FROM decisions WHERE id = ?`)
	if err != nil {
		return err
	}

	s.countStmt, err = s.db.Prepare(`SELECT COUNT(*) FROM decisions`)
	return err
}

// Store persists a decision record.
func (s *SQLiteStorage) Store(ctx context.Context, record *DecisionRecord) error {
	contextJSON, err := json.Marshal(record.Context)
	if err != nil {
		return NewStorageError("sqlite", "marshal_context", err)
	}

	recordedAt := record.RecordedAt
	if recordedAt.IsZero() {
		recordedAt = time.Now().UTC()
	}

	_, err = s.storeStmt.ExecContext(ctx,
		record.ID, record.RuleSet, record.RuleSetVersion, record.Rule,
		record.Allowed, string(contextJSON),
		record.EvaluatedAt.UTC(), record.DurationMicros, recordedAt)
	if err != nil {
		return NewStorageError("sqlite", "store", err)
	}
	return nil
}

// Get returns the record with the given decision ID.
func (s *SQLiteStorage) Get(ctx context.Context, id string) (*DecisionRecord, error) {
	record, err := scanRecord(s.getStmt.QueryRowContext(ctx, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, NewStorageError("sqlite", "get", err)
	}
	return record, nil
}

// Query returns matching records, newest first.
func (s *SQLiteStorage) Query(ctx context.Context, filter Filter) ([]*DecisionRecord, error) {
	var (
		conds []string
		args  []any
	)
	if filter.Rule != "" {
		conds = append(conds, "rule = ?")
		args = append(args, filter.Rule)
	}
	if filter.Outcome != "" {
		conds = append(conds, "allowed = ?")
		args = append(args, filter.Outcome == "allow")
	}
	if !filter.Since.IsZero() {
		conds = append(conds, "evaluated_at >= ?")
		args = append(args, filter.Since.UTC())
	}
	if !filter.Until.IsZero() {
		conds = append(conds, "evaluated_at < ?")
		args = append(args, filter.Until.UTC())
	}

	query := `SELECT id, ruleset, ruleset_version, rule, allowed, context,
	                 evaluated_at, duration_micros, recorded_at
	          FROM decisions`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY evaluated_at DESC, id DESC LIMIT ?"

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, NewStorageError("sqlite", "query", err)
	}
	defer rows.Close()

	var records []*DecisionRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, NewStorageError("sqlite", "scan", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// Count returns the total number of stored records.
func (s *SQLiteStorage) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.countStmt.QueryRowContext(ctx).Scan(&n); err != nil {
		return 0, NewStorageError("sqlite", "count", err)
	}
	return n, nil
}

// DeleteBefore removes records evaluated before the cutoff.
func (s *SQLiteStorage) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM decisions WHERE evaluated_at < ?", cutoff.UTC())
	if err != nil {
		return 0, NewStorageError("sqlite", "delete_before", err)
	}
	return res.RowsAffected()
}

// TrimToCount removes the oldest records until at most max remain.
func (s *SQLiteStorage) TrimToCount(ctx context.Context, max int64) (int64, error) {
	if max < 0 {
		return 0, nil
	}
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM decisions WHERE id IN (
		    SELECT id FROM decisions
		    ORDER BY evaluated_at DESC, id DESC
		    LIMIT -1 OFFSET ?
		)`, max)
	if err != nil {
		return 0, NewStorageError("sqlite", "trim", err)
	}
	return res.RowsAffected()
}

// Close closes the database. Subsequent calls are no-ops.
func (s *SQLiteStorage) Close() error {
	var err error
	s.closeOnce.Do(func() {
		for _, stmt := range []*sql.Stmt{s.storeStmt, s.getStmt, s.countStmt} {
			if stmt != nil {
				stmt.Close()
			}
		}
		err = s.db.Close()
	})
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*DecisionRecord, error) {
	var (
		record      DecisionRecord
		contextJSON string
	)
	err := row.Scan(&record.ID, &record.RuleSet, &record.RuleSetVersion,
		&record.Rule, &record.Allowed, &contextJSON,
		&record.EvaluatedAt, &record.DurationMicros, &record.RecordedAt)
	if err != nil {
		return nil, err
	}
	if contextJSON != "" {
		if err := json.Unmarshal([]byte(contextJSON), &record.Context); err != nil {
			return nil, fmt.Errorf("corrupt context JSON for %s: %w", record.ID, err)
		}
	}
	return &record, nil
}
