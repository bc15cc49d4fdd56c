// ABOUTME: SQLite schema for the local curator store
// ABOUTME: Intent metadata table plus the durable decision archive
package storage

// Schema contains all SQL statements for database initialization
const Schema = `
-- Curator-owned intent metadata, keyed by display name
CREATE TABLE IF NOT EXISTS intent_metadata (
    display_name TEXT PRIMARY KEY,
    purpose TEXT,
    scope TEXT,
    keywords TEXT,
    created_at DATETIME,
    updated_at DATETIME
);

-- Durable archive of pipeline decisions (the in-memory ring's backing log)
CREATE TABLE IF NOT EXISTS decisions (
    id TEXT PRIMARY KEY,
    created_at DATETIME NOT NULL,
    session_id TEXT,
    message TEXT,
    nlu_intent TEXT,
    nlu_confidence REAL DEFAULT 0,
    reusability_score INTEGER DEFAULT 0,
    action TEXT,
    blocked INTEGER DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_decisions_created ON decisions(created_at);
CREATE INDEX IF NOT EXISTS idx_decisions_session ON decisions(session_id);
`
