package metrics

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"
)

// Metrics holds request counters and latency histograms keyed by
// method:path pattern.
type Metrics struct {
	mu sync.RWMutex

	requestCount    map[string]uint64
	requestErrors   map[string]uint64
	requestDuration map[string]*Histogram

	startTime time.Time
}

// Histogram tracks value distributions in seconds
type Histogram struct {
	count uint64
	sum   float64
	// Buckets: 5ms, 10ms, 25ms, 50ms, 100ms, 250ms, 500ms, 1s, 2.5s, 5s
	buckets    []float64
	bucketVals []uint64
}

// NewHistogram creates a new histogram with default buckets
func NewHistogram() *Histogram {
	return &Histogram{
		buckets:    []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		bucketVals: make([]uint64, 10),
	}
}

func (h *Histogram) observe(v float64) {
	h.count++
	h.sum += v
	for i, b := range h.buckets {
		if v <= b {
			h.bucketVals[i]++
		}
	}
}

// New creates a new Metrics instance
func New() *Metrics {
	return &Metrics{
		requestCount:    make(map[string]uint64),
		requestErrors:   make(map[string]uint64),
		requestDuration: make(map[string]*Histogram),
		startTime:       time.Now(),
	}
}

// global metrics instance
var defaultMetrics = New()

// Default returns the default metrics instance
func Default() *Metrics {
	return defaultMetrics
}

// RecordRequest records a completed HTTP request
func (m *Metrics) RecordRequest(method, path string, status int, duration time.Duration) {
	key := method + ":" + path

	m.mu.Lock()
	defer m.mu.Unlock()

	m.requestCount[key]++

	if status >= 400 {
		errKey := fmt.Sprintf("%s:%dxx", key, status/100)
		m.requestErrors[errKey]++
	}

	h, ok := m.requestDuration[key]
	if !ok {
		h = NewHistogram()
		m.requestDuration[key] = h
	}
	h.observe(duration.Seconds())
}

// WriteText writes all metrics in a plain text exposition format
func (m *Metrics) WriteText(w http.ResponseWriter) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var b strings.Builder

	fmt.Fprintf(&b, "uptime_seconds %.0f\n", time.Since(m.startTime).Seconds())

	for _, key := range sortedKeys(m.requestCount) {
		fmt.Fprintf(&b, "http_requests_total{route=%q} %d\n", key, m.requestCount[key])
	}
	for _, key := range sortedKeys(m.requestErrors) {
		fmt.Fprintf(&b, "http_request_errors_total{route=%q} %d\n", key, m.requestErrors[key])
	}
	for _, key := range sortedHistKeys(m.requestDuration) {
		h := m.requestDuration[key]
		fmt.Fprintf(&b, "http_request_duration_seconds_count{route=%q} %d\n", key, h.count)
		fmt.Fprintf(&b, "http_request_duration_seconds_sum{route=%q} %f\n", key, h.sum)
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(b.String()))
}

// Handler handles GET /metrics using the default instance
func Handler(w http.ResponseWriter, r *http.Request) {
	defaultMetrics.WriteText(w)
}

// Middleware records request metrics for every handled request
func Middleware(m *Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rw, r)

			m.RecordRequest(r.Method, routePattern(r), rw.status, time.Since(start))
		})
	}
}

// routePattern prefers the matched mux pattern over the raw path so ids
// do not explode label cardinality.
func routePattern(r *http.Request) string {
	if p := r.Pattern; p != "" {
		// Pattern includes the method prefix ("GET /blogposts/{id}")
		if _, after, found := strings.Cut(p, " "); found {
			return after
		}
		return p
	}
	return r.URL.Path
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func sortedKeys(m map[string]uint64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedHistKeys(m map[string]*Histogram) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
