package metrics

import "sync/atomic"

// Collector tracks generation-pipeline counters for the metrics endpoint.
type Collector struct {
	generations      uint64
	failures         uint64
	fallbackRenders  uint64
	providerErrors   uint64
	auditWriteErrors uint64
	totalDurationSec uint64
}

func New() *Collector {
	return &Collector{}
}

func (c *Collector) RecordGeneration(durationSecs int64, failed bool) {
	atomic.AddUint64(&c.generations, 1)
	if failed {
		atomic.AddUint64(&c.failures, 1)
	}
	if durationSecs > 0 {
		atomic.AddUint64(&c.totalDurationSec, uint64(durationSecs))
	}
}

func (c *Collector) RecordFallback() {
	atomic.AddUint64(&c.fallbackRenders, 1)
}

func (c *Collector) RecordProviderError() {
	atomic.AddUint64(&c.providerErrors, 1)
}

func (c *Collector) RecordAuditWriteError() {
	atomic.AddUint64(&c.auditWriteErrors, 1)
}

func (c *Collector) Snapshot() map[string]any {
	total := atomic.LoadUint64(&c.generations)
	failed := atomic.LoadUint64(&c.failures)
	totalSec := atomic.LoadUint64(&c.totalDurationSec)
	avg := float64(0)
	if total > 0 {
		avg = float64(totalSec) / float64(total)
	}
	return map[string]any{
		"generationsTotal":     total,
		"generationsFailed":    failed,
		"fallbackRenders":      atomic.LoadUint64(&c.fallbackRenders),
		"providerErrors":       atomic.LoadUint64(&c.providerErrors),
		"auditWriteErrors":     atomic.LoadUint64(&c.auditWriteErrors),
		"avgDurationSeconds":   avg,
		"totalDurationSeconds": totalSec,
	}
}
