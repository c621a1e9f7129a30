package stats

import (
	"sort"
	"sync"
)

// HistogramStatsCollector records every value reported for a statistic,
// enabling mean, median, and percentile queries over the collected series.
type HistogramStatsCollector struct {
	mu    sync.RWMutex
	stats Stats
}

// NewHistogramStatsCollector creates a new histogram stats collector.
func NewHistogramStatsCollector() *HistogramStatsCollector {
	return &HistogramStatsCollector{
		stats: make(Stats),
	}
}

// Incr increments the count of a statistic by the given value.
func (c *HistogramStatsCollector) Incr(stat string, value int64) {
	c.record(stat, value)
}

// Decr decrements the count of a statistic by the given value.
func (c *HistogramStatsCollector) Decr(stat string, value int64) {
	c.record(stat, -value)
}

// Timing records the time it took for an event to occur.
func (c *HistogramStatsCollector) Timing(stat string, value int64) {
	c.record(stat, value)
}

// Gauge records the current value of a statistic.
func (c *HistogramStatsCollector) Gauge(stat string, value int64) {
	c.record(stat, value)
}

// Histogram records the statistical distribution of a set of values.
func (c *HistogramStatsCollector) Histogram(stat string, value int64) {
	c.record(stat, value)
}

func (c *HistogramStatsCollector) record(stat string, value int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stats[stat] = append(c.stats[stat], value)
}

// GetStats returns a copy of the collected statistics.
func (c *HistogramStatsCollector) GetStats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(Stats, len(c.stats))
	for stat, values := range c.stats {
		out[stat] = append([]int64(nil), values...)
	}

	return out
}

// Count returns the number of values recorded for a statistic.
func (c *HistogramStatsCollector) Count(stat string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.stats[stat])
}

// Sum returns the sum of the values recorded for a statistic.
func (c *HistogramStatsCollector) Sum(stat string) int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var sum int64
	for _, value := range c.stats[stat] {
		sum += value
	}

	return sum
}

// Mean returns the mean value of a statistic.
func (c *HistogramStatsCollector) Mean(stat string) float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	values := c.stats[stat]
	if len(values) == 0 {
		return 0
	}

	var sum int64
	for _, value := range values {
		sum += value
	}

	return float64(sum) / float64(len(values))
}

// Median returns the median value of a statistic.
func (c *HistogramStatsCollector) Median(stat string) float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	values := append([]int64(nil), c.stats[stat]...)
	if len(values) == 0 {
		return 0
	}

	sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })

	mid := len(values) / 2
	if len(values)%2 == 0 {
		return float64(values[mid-1]+values[mid]) / 2
	}

	return float64(values[mid])
}
