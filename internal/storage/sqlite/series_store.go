package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/willibrandon/tickwise/internal/metrics"
)

// timestampLayout is fixed-width UTC so that text comparison in SQL matches
// chronological order.
const timestampLayout = "2006-01-02T15:04:05.000000000Z"

// bucketLayout is what SQLite's datetime() returns.
const bucketLayout = "2006-01-02 15:04:05"

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func parseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(timestampLayout, s)
	if err != nil {
		t, err = time.Parse(time.RFC3339Nano, s)
	}
	return t, err
}

// MetricInfo summarises one stored metric.
type MetricInfo struct {
	Name   string
	Series int
	Points int64
	Oldest time.Time
	Newest time.Time
}

// SeriesStore reads and writes series under a metric name. Each series is
// stored under its name as the row key.
type SeriesStore struct {
	db *DB
}

// NewSeriesStore creates a store on db.
func NewSeriesStore(db *DB) *SeriesStore {
	return &SeriesStore{db: db}
}

// SaveSeries inserts every valid point of s in one transaction and returns
// how many were inserted.
func (s *SeriesStore) SaveSeries(ctx context.Context, metric string, series metrics.Series) (int, error) {
	if len(series.Data) == 0 {
		return 0, nil
	}

	tx, err := s.db.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO metrics_history (timestamp, metric_name, key, value) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, dp := range series.Data {
		if !dp.IsValid() {
			continue
		}
		if _, err := stmt.ExecContext(ctx, formatTimestamp(dp.Timestamp), metric, series.Name, dp.Value); err != nil {
			return 0, fmt.Errorf("failed to insert point for %s: %w", series.Name, err)
		}
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return inserted, nil
}

// SaveAll stores several series under the same metric and returns the total
// number of points inserted.
func (s *SeriesStore) SaveAll(ctx context.Context, metric string, series []metrics.Series) (int, error) {
	total := 0
	for _, ser := range series {
		n, err := s.SaveSeries(ctx, metric, ser)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

// LoadSeries returns the raw points of every series of metric recorded at
// or after since. At most limitPerSeries points are returned per series,
// keeping the newest. Series come back ordered by name.
func (s *SeriesStore) LoadSeries(ctx context.Context, metric string, since time.Time, limitPerSeries int) ([]metrics.Series, error) {
	if limitPerSeries <= 0 {
		limitPerSeries = 10000
	}

	// The window function keeps the newest N rows per key.
	query := `
		SELECT key, timestamp, value FROM (
			SELECT key, timestamp, value,
				ROW_NUMBER() OVER (PARTITION BY key ORDER BY timestamp DESC) AS rn
			FROM metrics_history
			WHERE metric_name = ? AND timestamp >= ?
		)
		WHERE rn <= ?
		ORDER BY key, timestamp ASC
	`

	rows, err := s.db.conn.QueryContext(ctx, query, metric, formatTimestamp(since), limitPerSeries)
	if err != nil {
		return nil, fmt.Errorf("failed to query series: %w", err)
	}
	defer rows.Close()

	var out []metrics.Series
	for rows.Next() {
		var key, ts string
		var value float64
		if err := rows.Scan(&key, &ts, &value); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		t, err := parseTimestamp(ts)
		if err != nil {
			continue
		}
		out = appendPoint(out, key, metrics.DataPoint{Timestamp: t, Value: value})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return out, nil
}

// LoadAggregated averages the points of each series into buckets of
// interval, which is rounded down to whole seconds (minimum 1s).
func (s *SeriesStore) LoadAggregated(ctx context.Context, metric string, since time.Time, interval time.Duration) ([]metrics.Series, error) {
	secs := int(interval / time.Second)
	if secs < 1 {
		secs = 1
	}

	query := `
		SELECT
			key,
			datetime((strftime('%s', timestamp) / ?) * ?, 'unixepoch') AS bucket,
			AVG(value)
		FROM metrics_history
		WHERE metric_name = ? AND timestamp >= ?
		GROUP BY key, bucket
		ORDER BY key, bucket ASC
	`

	rows, err := s.db.conn.QueryContext(ctx, query, secs, secs, metric, formatTimestamp(since))
	if err != nil {
		return nil, fmt.Errorf("failed to query aggregated: %w", err)
	}
	defer rows.Close()

	var out []metrics.Series
	for rows.Next() {
		var key, bucket string
		var value float64
		if err := rows.Scan(&key, &bucket, &value); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		t, err := time.ParseInLocation(bucketLayout, bucket, time.UTC)
		if err != nil {
			continue
		}
		out = appendPoint(out, key, metrics.DataPoint{Timestamp: t, Value: value})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return out, nil
}

// LoadWindow reads a metric over window, aggregating long windows.
func (s *SeriesStore) LoadWindow(ctx context.Context, metric string, window metrics.TimeWindow, now time.Time) ([]metrics.Series, error) {
	since := window.Since(now)
	if window.NeedsAggregation() {
		return s.LoadAggregated(ctx, metric, since, window.Granularity())
	}
	return s.LoadSeries(ctx, metric, since, 0)
}

// appendPoint adds dp to the series named key. Rows arrive grouped by key,
// so only the last series needs checking.
func appendPoint(out []metrics.Series, key string, dp metrics.DataPoint) []metrics.Series {
	if n := len(out); n > 0 && out[n-1].Name == key {
		out[n-1].Data = append(out[n-1].Data, dp)
		return out
	}
	return append(out, metrics.Series{Name: key, Data: []metrics.DataPoint{dp}})
}

// ListMetrics summarises every stored metric, ordered by name.
func (s *SeriesStore) ListMetrics(ctx context.Context) ([]MetricInfo, error) {
	query := `
		SELECT metric_name, COUNT(DISTINCT key), COUNT(*), MIN(timestamp), MAX(timestamp)
		FROM metrics_history
		GROUP BY metric_name
		ORDER BY metric_name
	`

	rows, err := s.db.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list metrics: %w", err)
	}
	defer rows.Close()

	var out []MetricInfo
	for rows.Next() {
		var info MetricInfo
		var oldest, newest string
		if err := rows.Scan(&info.Name, &info.Series, &info.Points, &oldest, &newest); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		info.Oldest, _ = parseTimestamp(oldest)
		info.Newest, _ = parseTimestamp(newest)
		out = append(out, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return out, nil
}

// Count returns the number of stored points for metric.
func (s *SeriesStore) Count(ctx context.Context, metric string) (int64, error) {
	var n int64
	err := s.db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM metrics_history WHERE metric_name = ?`, metric).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count: %w", err)
	}
	return n, nil
}

// Latest returns the newest point of one series.
func (s *SeriesStore) Latest(ctx context.Context, metric, series string) (metrics.DataPoint, bool, error) {
	query := `
		SELECT timestamp, value FROM metrics_history
		WHERE metric_name = ? AND key = ?
		ORDER BY timestamp DESC
		LIMIT 1
	`

	var ts string
	var value float64
	err := s.db.conn.QueryRowContext(ctx, query, metric, series).Scan(&ts, &value)
	if err == sql.ErrNoRows {
		return metrics.DataPoint{}, false, nil
	}
	if err != nil {
		return metrics.DataPoint{}, false, fmt.Errorf("failed to get latest: %w", err)
	}

	t, err := parseTimestamp(ts)
	if err != nil {
		return metrics.DataPoint{}, false, fmt.Errorf("bad timestamp %q: %w", ts, err)
	}
	return metrics.DataPoint{Timestamp: t, Value: value}, true, nil
}

// Prune deletes points older than retentionDays (default 7) and returns the
// number of rows removed.
func (s *SeriesStore) Prune(ctx context.Context, retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		retentionDays = 7
	}

	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	result, err := s.db.conn.ExecContext(ctx, `DELETE FROM metrics_history WHERE timestamp < ?`, formatTimestamp(cutoff))
	if err != nil {
		return 0, fmt.Errorf("failed to prune: %w", err)
	}
	return result.RowsAffected()
}
