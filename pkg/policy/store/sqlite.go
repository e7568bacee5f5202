package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// Revision is one recorded ruleset load: the raw source that was active
// and when it became active. Revisions let operators answer "which rules
// were in force when decision X was made".
type Revision struct {
	// ID is the auto-assigned revision number.
	ID int64

	// RuleSet and Version identify the loaded ruleset.
	RuleSet string
	Version string

	// RuleCount is the number of rules in the revision.
	RuleCount int

	// Source is the raw ruleset file content.
	Source []byte

	// LoadedAt is when the revision became active.
	LoadedAt time.Time
}

// RevisionStore persists ruleset revisions in SQLite.
// It uses the pure-Go driver so deployments need no cgo toolchain for the
// revision history (the audit log uses its own backend).
type RevisionStore struct {
	db *sql.DB
	mu sync.Mutex

	saveStmt *sql.Stmt
	getStmt  *sql.Stmt
	listStmt *sql.Stmt

	closeOnce sync.Once
}

// Open opens (creating if necessary) a revision store at the given path.
func Open(path string) (*RevisionStore, error) {
	if path == "" {
		return nil, fmt.Errorf("revision store path cannot be empty")
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open revision store: %w", err)
	}

	// SQLite only supports a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	s := &RevisionStore{db: db}

	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize revision schema: %w", err)
	}
	if err := s.prepareStatements(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare statements: %w", err)
	}

	return s, nil
}

func (s *RevisionStore) initSchema() error {
	const schema = `
CREATE TABLE IF NOT EXISTS ruleset_revisions (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    ruleset    TEXT NOT NULL,
    version    TEXT NOT NULL DEFAULT '',
    rule_count INTEGER NOT NULL,
    source     BLOB NOT NULL,
    loaded_at  TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_revisions_ruleset_loaded
    ON ruleset_revisions(ruleset, loaded_at DESC);
`
	_, err := s.db.Exec(schema)
	return err
}

func (s *RevisionStore) prepareStatements() error {
	var err error

	s.saveStmt, err = s.db.Prepare(`
		INSERT INTO ruleset_revisions (ruleset, version, rule_count, source, loaded_at)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}

	s.getStmt, err = s.db.Prepare(`
		SELECT id, ruleset, version, rule_count, source, loaded_at
		FROM ruleset_revisions WHERE id = ?`)
	if err != nil {
		return err
	}

	s.listStmt, err = s.db.Prepare(`
		SELECT id, ruleset, version, rule_count, source, loaded_at
		FROM ruleset_revisions
		WHERE ruleset = ?
		ORDER BY loaded_at DESC, id DESC
		LIMIT ?`)
	return err
}

// Save records a revision and returns its assigned ID.
func (s *RevisionStore) Save(ctx context.Context, rev *Revision) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	loadedAt := rev.LoadedAt
	if loadedAt.IsZero() {
		loadedAt = time.Now().UTC()
	}

	res, err := s.saveStmt.ExecContext(ctx,
		rev.RuleSet, rev.Version, rev.RuleCount, rev.Source, loadedAt)
	if err != nil {
		return 0, fmt.Errorf("failed to save revision: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read revision id: %w", err)
	}
	return id, nil
}

// Get returns the revision with the given ID, or sql.ErrNoRows if it does
// not exist.
func (s *RevisionStore) Get(ctx context.Context, id int64) (*Revision, error) {
	row := s.getStmt.QueryRowContext(ctx, id)
	return scanRevision(row)
}

// List returns up to limit revisions of the named ruleset, newest first.
func (s *RevisionStore) List(ctx context.Context, ruleset string, limit int) ([]*Revision, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.listStmt.QueryContext(ctx, ruleset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list revisions: %w", err)
	}
	defer rows.Close()

	var revisions []*Revision
	for rows.Next() {
		rev, err := scanRevision(rows)
		if err != nil {
			return nil, err
		}
		revisions = append(revisions, rev)
	}
	return revisions, rows.Err()
}

// Close closes the store. Subsequent calls are no-ops.
func (s *RevisionStore) Close() error {
	var err error
	s.closeOnce.Do(func() {
		for _, stmt := range []*sql.Stmt{s.saveStmt, s.getStmt, s.listStmt} {
			if stmt != nil {
				stmt.Close()
			}
		}
		err = s.db.Close()
	})
	return err
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRevision(row scanner) (*Revision, error) {
	var rev Revision
	if err := row.Scan(&rev.ID, &rev.RuleSet, &rev.Version, &rev.RuleCount, &rev.Source, &rev.LoadedAt); err != nil {
		return nil, err
	}
	return &rev, nil
}
