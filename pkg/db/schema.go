package db

const schema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA foreign_keys = ON;

-- Harvests: one row per completed harvest run
CREATE TABLE IF NOT EXISTS harvests (
    harvest_id INTEGER PRIMARY KEY AUTOINCREMENT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    query TEXT NOT NULL,
    base_url TEXT NOT NULL,
    page_size INTEGER NOT NULL,
    max_records INTEGER NOT NULL,
    num_found INTEGER DEFAULT 0,
    row_count INTEGER DEFAULT 0,
    duplicate_count INTEGER DEFAULT 0,
    max_tocs INTEGER DEFAULT 0,
    max_notes INTEGER DEFAULT 0,
    output_path TEXT
);

CREATE INDEX IF NOT EXISTS idx_harvests_created ON harvests(created_at DESC);

-- Harvest rows: accepted rows in output order, stored as JSON
CREATE TABLE IF NOT EXISTS harvest_rows (
    row_id INTEGER PRIMARY KEY AUTOINCREMENT,
    harvest_id INTEGER NOT NULL,
    position INTEGER NOT NULL,
    dedup_key TEXT NOT NULL,
    hollis_number TEXT,
    row_json TEXT NOT NULL,
    FOREIGN KEY (harvest_id) REFERENCES harvests(harvest_id) ON DELETE CASCADE,
    UNIQUE(harvest_id, position),
    UNIQUE(harvest_id, dedup_key)
);

CREATE INDEX IF NOT EXISTS idx_harvest_rows_harvest ON harvest_rows(harvest_id);
CREATE INDEX IF NOT EXISTS idx_harvest_rows_hollis ON harvest_rows(hollis_number);
`
