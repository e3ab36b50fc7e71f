package sqlite

const (
	// timestampLayout matches what CURRENT_TIMESTAMP writes.
	timestampLayout = "2006-01-02 15:04:05"
)

// AUTOINCREMENT keeps ids from being reused after a delete.
const schema = `
CREATE TABLE IF NOT EXISTS urls (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	url         TEXT    NOT NULL UNIQUE,
	description TEXT    NOT NULL DEFAULT '',
	category    TEXT    NOT NULL DEFAULT '',
	status      INTEGER NOT NULL DEFAULT 0 CHECK (status IN (0, 1)),
	timestamp   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_urls_status ON urls(status);
CREATE INDEX IF NOT EXISTS idx_urls_category ON urls(category);
CREATE INDEX IF NOT EXISTS idx_urls_timestamp ON urls(timestamp);
`

const selectColumns = `SELECT id, url, description, category, status, timestamp FROM urls`
