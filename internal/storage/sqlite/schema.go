package sqlite

// initSchema creates the tables and indexes if they do not exist.
func (db *DB) initSchema() error {
	schema := `
	-- One row per sample. key is the series name within a metric.
	CREATE TABLE IF NOT EXISTS metrics_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp TEXT NOT NULL,
		metric_name TEXT NOT NULL,
		key TEXT NOT NULL DEFAULT '',
		value REAL NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_metrics_history_lookup
		ON metrics_history(metric_name, key, timestamp);
	CREATE INDEX IF NOT EXISTS idx_metrics_history_timestamp
		ON metrics_history(timestamp);
	`

	_, err := db.conn.Exec(schema)
	return err
}
