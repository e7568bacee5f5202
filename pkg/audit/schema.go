package audit

// SchemaVersion is the current audit database schema version.
const SchemaVersion = 1

// schema contains the SQL statements creating the audit schema.
const schema = `
-- Decision records
CREATE TABLE IF NOT EXISTS decisions (
    id               TEXT PRIMARY KEY,
    ruleset          TEXT NOT NULL,
    ruleset_version  TEXT NOT NULL DEFAULT '',
    rule             TEXT NOT NULL,
    allowed          BOOLEAN NOT NULL,
    context          TEXT,
    evaluated_at     TIMESTAMP NOT NULL,
    duration_micros  INTEGER NOT NULL,
    recorded_at      TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_decisions_evaluated_at ON decisions(evaluated_at);
CREATE INDEX IF NOT EXISTS idx_decisions_rule ON decisions(rule, evaluated_at);

-- Schema version bookkeeping
CREATE TABLE IF NOT EXISTS schema_version (
    version     INTEGER PRIMARY KEY,
    applied_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

INSERT OR IGNORE INTO schema_version (version) VALUES (1);
`
