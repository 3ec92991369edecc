package sqlite

// Schema defines the SQLite database schema
const Schema = `
-- Saved calculator sessions, one row per key
CREATE TABLE IF NOT EXISTS snapshots (
	key TEXT PRIMARY KEY,
	payload_json TEXT NOT NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

-- Calculation audit table
CREATE TABLE IF NOT EXISTS calculations (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	calculator TEXT NOT NULL,
	method TEXT NOT NULL,
	value REAL,
	error TEXT NOT NULL DEFAULT '',
	text TEXT NOT NULL DEFAULT '',
	inputs_json TEXT NOT NULL DEFAULT '',
	timestamp TIMESTAMP NOT NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_calculations_calculator ON calculations(calculator);
CREATE INDEX IF NOT EXISTS idx_calculations_method ON calculations(method);
CREATE INDEX IF NOT EXISTS idx_calculations_timestamp ON calculations(timestamp DESC);
`
