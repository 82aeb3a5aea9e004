package metrics

import (
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"
)

// Collector accumulates in-memory request statistics for the running
// process. All methods are safe for concurrent use.
type Collector struct {
	startTime      time.Time
	totalRequests  atomic.Int64
	activeRequests atomic.Int64
	routes         *counterVec
}

// Stats is a snapshot of the collector's top-level counters.
type Stats struct {
	TotalRequests  int64   `json:"total_requests"`
	ActiveRequests int64   `json:"active_requests"`
	UptimeSeconds  float64 `json:"uptime_seconds"`
	Uptime         string  `json:"uptime"`
}

// NewCollector creates a Collector with the start time set to now.
func NewCollector() *Collector {
	return &Collector{
		startTime: time.Now(),
		routes:    newCounterVec(),
	}
}

// RequestStarted records the beginning of a request.
func (c *Collector) RequestStarted() {
	c.totalRequests.Add(1)
	c.activeRequests.Add(1)
}

// RequestFinished records a completed request with its route and status.
func (c *Collector) RequestFinished(method, route string, status int) {
	c.activeRequests.Add(-1)
	c.routes.inc(map[string]string{
		"method": method,
		"route":  route,
		"status": strconv.Itoa(status),
	})
}

// Stats returns a snapshot of the top-level counters.
func (c *Collector) Stats() Stats {
	uptime := time.Since(c.startTime)
	return Stats{
		TotalRequests:  c.totalRequests.Load(),
		ActiveRequests: c.activeRequests.Load(),
		UptimeSeconds:  uptime.Seconds(),
		Uptime:         uptime.Round(time.Second).String(),
	}
}

// Routes returns the per-route labeled counters.
func (c *Collector) Routes() *counterVec {
	return c.routes
}

// --- labeled counters ---

// counterVec is a mutex-guarded map of label sets to counts.
type counterVec struct {
	mu     sync.Mutex
	counts map[string]*counterEntry
}

type counterEntry struct {
	labels map[string]string
	value  int64
}

func newCounterVec() *counterVec {
	return &counterVec{counts: make(map[string]*counterEntry)}
}

// inc increments the counter for the given label set.
func (cv *counterVec) inc(labels map[string]string) {
	key := labelKey(labels)

	cv.mu.Lock()
	defer cv.mu.Unlock()

	e, ok := cv.counts[key]
	if !ok {
		e = &counterEntry{labels: labels}
		cv.counts[key] = e
	}
	e.value++
}

// snapshot returns a stable-ordered copy of all counter entries.
func (cv *counterVec) snapshot() []counterEntry {
	cv.mu.Lock()
	defer cv.mu.Unlock()

	keys := make([]string, 0, len(cv.counts))
	for k := range cv.counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	entries := make([]counterEntry, 0, len(keys))
	for _, k := range keys {
		entries = append(entries, *cv.counts[k])
	}
	return entries
}

// labelKey builds a deterministic map key from a label set.
func labelKey(labels map[string]string) string {
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b []byte
	for _, k := range keys {
		b = append(b, k...)
		b = append(b, '=')
		b = append(b, labels[k]...)
		b = append(b, ';')
	}
	return string(b)
}
