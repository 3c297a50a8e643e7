package metrics

import (
	"sync/atomic"
	"time"
)

// Collector tracks request-level and payroll-batch counters. All methods are
// safe for concurrent use.
type Collector struct {
	totalRequests       uint64
	errorRequests       uint64
	totalDurationMs     uint64
	batchRuns           uint64
	batchFailures       uint64
	employeesCalculated uint64
}

func New() *Collector {
	return &Collector{}
}

func (c *Collector) RecordRequest(status int, duration time.Duration) {
	atomic.AddUint64(&c.totalRequests, 1)
	if status >= 500 {
		atomic.AddUint64(&c.errorRequests, 1)
	}
	atomic.AddUint64(&c.totalDurationMs, uint64(duration.Milliseconds()))
}

func (c *Collector) RecordBatch(employees int, failed bool) {
	atomic.AddUint64(&c.batchRuns, 1)
	if failed {
		atomic.AddUint64(&c.batchFailures, 1)
	}
	if employees > 0 {
		atomic.AddUint64(&c.employeesCalculated, uint64(employees))
	}
}

func (c *Collector) Snapshot() map[string]any {
	total := atomic.LoadUint64(&c.totalRequests)
	errs := atomic.LoadUint64(&c.errorRequests)
	totalMs := atomic.LoadUint64(&c.totalDurationMs)
	avg := float64(0)
	if total > 0 {
		avg = float64(totalMs) / float64(total)
	}
	return map[string]any{
		"requestsTotal":       total,
		"errorsTotal":         errs,
		"avgDurationMs":       avg,
		"batchRunsTotal":      atomic.LoadUint64(&c.batchRuns),
		"batchFailuresTotal":  atomic.LoadUint64(&c.batchFailures),
		"employeesCalculated": atomic.LoadUint64(&c.employeesCalculated),
	}
}
