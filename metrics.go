package qlab

import (
	"sort"
	"sync"
	"time"
)

// Metrics tracks the worker pool that runs simulation jobs.
type Metrics struct {
	mu                 sync.RWMutex
	WorkerCount        int
	JobQueueSize       int
	JobCount           int64
	FailedJobs         int64
	SchedulingFailures int64
	TotalJobTime       time.Duration
	AverageJobLatency  time.Duration
	P95JobLatency      time.Duration
	P99JobLatency      time.Duration
	JobSuccessRate     float64

	latencies  []time.Duration
	windowSize int
}

func NewMetrics() *Metrics {
	return &Metrics{
		latencies:  make([]time.Duration, 0, 1000), // Store last 1000 measurements
		windowSize: 1000,
	}
}

func (m *Metrics) recordJobExecution(startTime time.Time, success bool) {
	duration := time.Since(startTime)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.TotalJobTime += duration
	m.JobCount++
	if !success {
		m.FailedJobs++
	}

	m.JobSuccessRate = float64(m.JobCount-m.FailedJobs) / float64(m.JobCount)
	m.updateLatencyPercentiles(duration)
}

// recordQueueSize reads the backlog while holding the lock.
func (m *Metrics) recordQueueSize(jobs chan Job) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.JobQueueSize = len(jobs)
}

func (m *Metrics) recordSchedulingFailure() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SchedulingFailures++
}

func (m *Metrics) updateLatencyPercentiles(duration time.Duration) {
	m.AverageJobLatency = m.TotalJobTime / time.Duration(m.JobCount)

	m.latencies = append(m.latencies, duration)
	if len(m.latencies) > m.windowSize {
		m.latencies = m.latencies[1:]
	}

	sorted := append([]time.Duration(nil), m.latencies...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i] < sorted[j]
	})

	m.P95JobLatency = sorted[percentileIndex(len(sorted), 0.95)]
	m.P99JobLatency = sorted[percentileIndex(len(sorted), 0.99)]
}

func percentileIndex(n int, p float64) int {
	return min(int(float64(n)*p), n-1)
}

// ExportMetrics returns a flat snapshot for dashboards.
func (m *Metrics) ExportMetrics() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"worker_count":        m.WorkerCount,
		"queue_size":          m.JobQueueSize,
		"job_count":           m.JobCount,
		"success_rate":        m.JobSuccessRate,
		"avg_latency":         m.AverageJobLatency.Milliseconds(),
		"p95_latency":         m.P95JobLatency.Milliseconds(),
		"p99_latency":         m.P99JobLatency.Milliseconds(),
		"scheduling_failures": m.SchedulingFailures,
	}
}
