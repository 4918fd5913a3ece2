package observability

import (
	"sort"
	"strconv"
	"sync"
	"time"
)

// Metrics keeps in-memory counters exposed on /health/metrics.
type Metrics struct {
	mu           sync.Mutex
	requestCount map[string]int64
	requestNanos map[string]int64
	errorCount   map[string]int64
	relocations  map[string]int64
	relocFails   map[string]int64
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requestCount: make(map[string]int64),
		requestNanos: make(map[string]int64),
		errorCount:   make(map[string]int64),
		relocations:  make(map[string]int64),
		relocFails:   make(map[string]int64),
	}
}

// RecordRequest counts a finished request and its latency.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + strconv.Itoa(status)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
	m.requestNanos[key] += duration.Nanoseconds()
}

// RecordError counts a failed request by error code.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + code
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// RecordRelocation counts one relocation attempt for an upload field.
func (m *Metrics) RecordRelocation(field string, err error) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		m.relocFails[field]++
		return
	}
	m.relocations[field]++
}

// RequestStat is one request counter.
type RequestStat struct {
	Key       string  `json:"key"`
	Count     int64   `json:"count"`
	AvgMillis float64 `json:"avg_ms"`
}

// Snapshot is a point-in-time copy of every counter.
type Snapshot struct {
	Requests           []RequestStat    `json:"requests"`
	Errors             map[string]int64 `json:"errors"`
	Relocations        map[string]int64 `json:"relocations"`
	RelocationFailures map[string]int64 `json:"relocation_failures"`
}

// Snapshot copies the counters; request stats are sorted by key.
func (m *Metrics) Snapshot() Snapshot {
	snap := Snapshot{
		Requests:           []RequestStat{},
		Errors:             map[string]int64{},
		Relocations:        map[string]int64{},
		RelocationFailures: map[string]int64{},
	}
	if m == nil {
		return snap
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for key, count := range m.requestCount {
		snap.Requests = append(snap.Requests, RequestStat{
			Key:       key,
			Count:     count,
			AvgMillis: float64(m.requestNanos[key]) / float64(count) / float64(time.Millisecond),
		})
	}
	sort.Slice(snap.Requests, func(i, j int) bool { return snap.Requests[i].Key < snap.Requests[j].Key })
	copyCounts(snap.Errors, m.errorCount)
	copyCounts(snap.Relocations, m.relocations)
	copyCounts(snap.RelocationFailures, m.relocFails)
	return snap
}

func copyCounts(dst, src map[string]int64) {
	for k, v := range src {
		dst[k] = v
	}
}
