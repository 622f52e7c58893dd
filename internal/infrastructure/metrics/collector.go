package metrics

import (
	"sync"
	"sync/atomic"
)

// Collector collects and aggregates metrics for the application.
type Collector struct {
	// API metrics
	apiRequests sync.Map // map[string]*uint64 - method -> count
	apiErrors   sync.Map // map[string]*uint64 - method -> error count
	apiDuration sync.Map // map[string]*durationValue - method -> total duration in seconds

	// Component metrics
	componentMessages sync.Map // map[string]*uint64 - component -> processed events
	componentFailures sync.Map // map[string]*uint64 - component/source -> failures
	componentStale    sync.Map // map[string]*uint64 - component -> discarded stale resolutions

	// Exporter reference (optional, mirrors every recorded value to Prometheus)
	exporter *PrometheusExporter
}

// durationValue holds duration with mutex for thread-safe updates.
type durationValue struct {
	mu           sync.Mutex
	totalSeconds float64
}

// APIMetrics holds API request metrics.
type APIMetrics struct {
	RequestCounts        map[string]uint64
	ErrorCounts          map[string]uint64
	TotalDurationSeconds map[string]float64
}

// ComponentMetrics holds UI component event metrics.
type ComponentMetrics struct {
	Messages map[string]uint64
	Failures map[string]uint64 // keyed by "component/source"
	Stale    map[string]uint64
}

// NewCollector creates a new metrics collector.
func NewCollector() *Collector {
	return &Collector{}
}

// SetExporter sets the Prometheus exporter that receives every recorded value.
func (c *Collector) SetExporter(exporter *PrometheusExporter) {
	c.exporter = exporter
}

// RecordRequest records an API request.
func (c *Collector) RecordRequest(method string) {
	atomic.AddUint64(c.getOrCreateCounter(&c.apiRequests, method), 1)
	if c.exporter != nil {
		c.exporter.RecordRequest(method)
	}
}

// RecordError records an API error.
func (c *Collector) RecordError(method string) {
	atomic.AddUint64(c.getOrCreateCounter(&c.apiErrors, method), 1)
	if c.exporter != nil {
		c.exporter.RecordError(method)
	}
}

// RecordDuration records the duration of an API call in seconds.
func (c *Collector) RecordDuration(method string, durationSeconds float64) {
	val, _ := c.apiDuration.LoadOrStore(method, &durationValue{})
	dv := val.(*durationValue)

	dv.mu.Lock()
	dv.totalSeconds += durationSeconds
	dv.mu.Unlock()

	if c.exporter != nil {
		c.exporter.RecordDuration(method, durationSeconds)
	}
}

// RecordMessage records an event processed by a component.
func (c *Collector) RecordMessage(component string) {
	atomic.AddUint64(c.getOrCreateCounter(&c.componentMessages, component), 1)
	if c.exporter != nil {
		c.exporter.RecordMessage(component)
	}
}

// RecordFailure records a failure stored by a component.
func (c *Collector) RecordFailure(component, source string) {
	atomic.AddUint64(c.getOrCreateCounter(&c.componentFailures, component+"/"+source), 1)
	if c.exporter != nil {
		c.exporter.RecordFailure(component, source)
	}
}

// RecordStale records a query resolution discarded because a newer query superseded it.
func (c *Collector) RecordStale(component string) {
	atomic.AddUint64(c.getOrCreateCounter(&c.componentStale, component), 1)
	if c.exporter != nil {
		c.exporter.RecordStale(component)
	}
}

// GetAPIMetrics returns current API metrics.
func (c *Collector) GetAPIMetrics() *APIMetrics {
	result := &APIMetrics{
		RequestCounts:        snapshotCounters(&c.apiRequests),
		ErrorCounts:          snapshotCounters(&c.apiErrors),
		TotalDurationSeconds: make(map[string]float64),
	}

	c.apiDuration.Range(func(key, value interface{}) bool {
		dv := value.(*durationValue)
		dv.mu.Lock()
		result.TotalDurationSeconds[key.(string)] = dv.totalSeconds
		dv.mu.Unlock()
		return true
	})

	return result
}

// GetComponentMetrics returns current component metrics.
func (c *Collector) GetComponentMetrics() *ComponentMetrics {
	return &ComponentMetrics{
		Messages: snapshotCounters(&c.componentMessages),
		Failures: snapshotCounters(&c.componentFailures),
		Stale:    snapshotCounters(&c.componentStale),
	}
}

// getOrCreateCounter gets or creates a counter for the given key.
func (c *Collector) getOrCreateCounter(m *sync.Map, key string) *uint64 {
	val, _ := m.LoadOrStore(key, new(uint64))
	return val.(*uint64)
}

func snapshotCounters(m *sync.Map) map[string]uint64 {
	out := make(map[string]uint64)
	m.Range(func(key, value interface{}) bool {
		out[key.(string)] = atomic.LoadUint64(value.(*uint64))
		return true
	})
	return out
}
