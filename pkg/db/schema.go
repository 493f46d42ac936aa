package db

const (
	// SchemaV1 is the dream history schema. Rows are ordered by position,
	// which mirrors the index of a record in the JSON history file.
	SchemaV1 = `
CREATE TABLE IF NOT EXISTS dreamjournal_versions (
    component TEXT PRIMARY KEY,
    version INTEGER NOT NULL,
    created_at REAL DEFAULT (unixepoch())
);

CREATE TABLE IF NOT EXISTS dreams (
    id TEXT PRIMARY KEY,
    position INTEGER NOT NULL UNIQUE,
    title TEXT NOT NULL,
    text TEXT NOT NULL,
    analysis TEXT NOT NULL DEFAULT '{}',
    image_path TEXT NOT NULL DEFAULT '',
    metadata TEXT NOT NULL DEFAULT '{}',
    date TEXT NOT NULL,
    created_at REAL DEFAULT (unixepoch())
);

CREATE INDEX IF NOT EXISTS dreams_date_idx ON dreams(date);
`
)
