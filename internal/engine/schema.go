package engine

// SchemaVersion tags the persisted database image. Bump it whenever Schema
// changes: a stored image with a different tag is discarded on load and the
// schema is recreated from scratch. This is a full data wipe, not a
// migration.
const SchemaVersion = "6"

// Schema contains all SQL statements for creating tables and indexes
const Schema = `
-- Activities table: calendar activities, one row per entry
CREATE TABLE IF NOT EXISTS activities (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    date TEXT NOT NULL,     -- ISO calendar date, YYYY-MM-DD
    title TEXT NOT NULL,
    description TEXT
);
CREATE INDEX IF NOT EXISTS idx_date ON activities(date);

-- Users table: fixed set of accounts created at first-run bootstrap
CREATE TABLE IF NOT EXISTS users (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    username TEXT NOT NULL UNIQUE,
    password TEXT NOT NULL,
    isAdmin INTEGER NOT NULL DEFAULT 0,
    createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`
