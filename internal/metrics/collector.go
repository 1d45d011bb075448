package metrics

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/willibrandon/tickwise/internal/logger"
)

// SeriesSaver persists collected points. It is satisfied by the sqlite
// SeriesStore.
type SeriesSaver interface {
	SaveSeries(ctx context.Context, metric string, s Series) (int, error)
	Prune(ctx context.Context, retentionDays int) (int64, error)
}

type collectedSeries struct {
	buffer *CircularBuffer

	mu      sync.Mutex
	unsaved int // newest points in buffer not yet handed to the saver
	dropped int // unsaved points evicted before they could be saved

	flushMu sync.Mutex // serializes saves of this series
}

// Collector buffers live duration samples for one metric, keyed by series
// name, and optionally flushes them to a SeriesSaver in the background.
type Collector struct {
	metric string
	series map[string]*collectedSeries
	order  []string
	store  SeriesSaver
	mu     sync.RWMutex
	cancel context.CancelFunc
	wg     sync.WaitGroup

	capacity        int
	persistInterval time.Duration
	pruneInterval   time.Duration
	retentionDays   int
}

// CollectorOption configures a Collector.
type CollectorOption func(*Collector)

// WithCapacity sets the per-series buffer capacity. Non-positive values
// keep the default.
func WithCapacity(capacity int) CollectorOption {
	return func(c *Collector) {
		if capacity > 0 {
			c.capacity = capacity
		}
	}
}

// WithStore enables background persistence.
func WithStore(store SeriesSaver) CollectorOption {
	return func(c *Collector) {
		c.store = store
	}
}

// WithPersistInterval sets how often new points are flushed. Non-positive
// values keep the default.
func WithPersistInterval(d time.Duration) CollectorOption {
	return func(c *Collector) {
		if d > 0 {
			c.persistInterval = d
		}
	}
}

// WithPruneInterval sets how often retention is applied. Non-positive values
// keep the default.
func WithPruneInterval(d time.Duration) CollectorOption {
	return func(c *Collector) {
		if d > 0 {
			c.pruneInterval = d
		}
	}
}

// WithRetentionDays sets the retention passed to Prune.
func WithRetentionDays(days int) CollectorOption {
	return func(c *Collector) {
		c.retentionDays = days
	}
}

// NewCollector creates a collector for the named metric.
func NewCollector(metric string, opts ...CollectorOption) *Collector {
	c := &Collector{
		metric:          metric,
		series:          make(map[string]*collectedSeries),
		capacity:        DefaultBufferCapacity,
		persistInterval: 10 * time.Second,
		pruneInterval:   time.Hour,
		retentionDays:   7,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Metric returns the metric name the collector records under.
func (c *Collector) Metric() string {
	return c.metric
}

// Record adds a sample stamped with the current time.
func (c *Collector) Record(name string, valueMs float64) {
	c.RecordAt(name, time.Now(), valueMs)
}

// RecordAt adds a sample with an explicit timestamp. Invalid samples are
// dropped.
//
// With a store, a series whose unsaved backlog reaches three quarters of
// the buffer capacity is flushed before RecordAt returns, so a fast
// producer cannot evict points that were never saved.
func (c *Collector) RecordAt(name string, ts time.Time, valueMs float64) {
	dp := NewDataPointAt(ts, valueMs)
	if !dp.IsValid() {
		logger.Debug("dropping invalid sample", "metric", c.metric, "series", name, "value", valueMs)
		return
	}

	c.mu.Lock()
	cs, ok := c.series[name]
	if !ok {
		cs = &collectedSeries{buffer: NewCircularBuffer(c.capacity)}
		c.series[name] = cs
		c.order = append(c.order, name)
	}
	c.mu.Unlock()

	if c.store == nil {
		cs.buffer.Push(dp)
		return
	}

	cs.mu.Lock()
	cs.buffer.Push(dp)
	if cs.unsaved < c.capacity {
		cs.unsaved++
	} else {
		cs.dropped++
	}
	full := cs.unsaved >= c.flushThreshold()
	cs.mu.Unlock()

	if full {
		c.flushSeries(context.Background(), name, cs)
	}
}

// flushThreshold is the unsaved backlog that forces a synchronous flush.
func (c *Collector) flushThreshold() int {
	return max(c.capacity-c.capacity/4, 1)
}

// Dropped returns how many samples were evicted from a full buffer before
// they reached the store. It is 0 unless the store kept failing.
func (c *Collector) Dropped() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	total := 0
	for _, cs := range c.series {
		cs.mu.Lock()
		total += cs.dropped
		cs.mu.Unlock()
	}
	return total
}

// Snapshot returns every collected series in first-seen order.
func (c *Collector) Snapshot() []Series {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Series, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, Series{Name: name, Data: c.series[name].buffer.Snapshot()})
	}
	return out
}

// Latest returns the newest sample of a series.
func (c *Collector) Latest(name string) (DataPoint, bool) {
	c.mu.RLock()
	cs, ok := c.series[name]
	c.mu.RUnlock()
	if !ok {
		return DataPoint{}, false
	}
	return cs.buffer.Latest()
}

// Names returns the collected series names sorted alphabetically.
func (c *Collector) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := append([]string(nil), c.order...)
	sort.Strings(names)
	return names
}

// Start launches the persistence and prune loops when a store is set.
func (c *Collector) Start(ctx context.Context) {
	ctx, c.cancel = context.WithCancel(ctx)
	if c.store == nil {
		return
	}

	c.wg.Add(2)
	go c.persistLoop(ctx)
	go c.pruneLoop(ctx)
}

// Stop cancels the background loops, waits for them and performs a final
// flush.
func (c *Collector) Stop() {
	if c.cancel != nil {
		c.cancel()
	}
	c.wg.Wait()
	if c.store != nil {
		c.Flush(context.Background())
	}
}

// Flush hands every point not yet persisted to the store.
func (c *Collector) Flush(ctx context.Context) {
	if c.store == nil {
		return
	}

	c.mu.RLock()
	names := append([]string(nil), c.order...)
	c.mu.RUnlock()

	for _, name := range names {
		c.mu.RLock()
		cs := c.series[name]
		c.mu.RUnlock()

		c.flushSeries(ctx, name, cs)
	}
}

// flushSeries saves the unsaved tail of one series. On failure the points
// stay pending for the next attempt.
func (c *Collector) flushSeries(ctx context.Context, name string, cs *collectedSeries) {
	cs.flushMu.Lock()
	defer cs.flushMu.Unlock()

	cs.mu.Lock()
	points := cs.buffer.GetRecent(cs.unsaved)
	cs.mu.Unlock()
	if len(points) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := c.store.SaveSeries(ctx, c.metric, Series{Name: name, Data: points}); err != nil {
		logger.Warn("failed to persist series", "metric", c.metric, "series", name, "error", err)
		return
	}

	cs.mu.Lock()
	cs.unsaved = max(cs.unsaved-len(points), 0)
	cs.mu.Unlock()
}

func (c *Collector) persistLoop(ctx context.Context) {
	defer c.wg.Done()

	ticker := time.NewTicker(c.persistInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Flush(ctx)
		}
	}
}

func (c *Collector) pruneLoop(ctx context.Context) {
	defer c.wg.Done()

	ticker := time.NewTicker(c.pruneInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			pctx, cancel := context.WithTimeout(ctx, 30*time.Second)
			n, err := c.store.Prune(pctx, c.retentionDays)
			cancel()
			if err != nil {
				logger.Warn("prune failed", "error", err)
				continue
			}
			logger.Debug("pruned metrics history", "rows", n)
		}
	}
}
