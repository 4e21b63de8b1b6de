package observability

import (
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/yungbote/nutrilog-backend/internal/pkg/logger"
)

// Metrics holds the process-wide counters served on /metrics. All methods are
// no-ops on a nil receiver so callers never need to check Enabled.
type Metrics struct {
	apiRequests   *CounterVec
	apiLatency    *HistogramVec
	apiInflight   *Gauge
	cacheLookups  *CounterVec
	cacheInval    *CounterVec
	rateLimit     *CounterVec
	resolutions   *CounterVec
	aggregateTime *HistogramVec
}

var (
	initOnce sync.Once
	instance *Metrics
)

func Enabled() bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("METRICS_ENABLED"))) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

func Current() *Metrics {
	return instance
}

// Init installs the process metrics when METRICS_ENABLED is set.
func Init(log *logger.Logger) *Metrics {
	if !Enabled() {
		return nil
	}
	initOnce.Do(func() {
		instance = NewMetrics()
		if log != nil {
			log.Info("metrics enabled")
		}
	})
	return instance
}

func NewMetrics() *Metrics {
	return &Metrics{
		apiRequests:   NewCounterVec("nutrilog_api_requests_total", "HTTP requests by method, route and status.", []string{"method", "route", "status"}),
		apiLatency:    NewHistogramVec("nutrilog_api_request_duration_seconds", "HTTP request latency.", []string{"method", "route"}, nil),
		apiInflight:   NewGauge("nutrilog_api_inflight_requests", "HTTP requests currently being served."),
		cacheLookups:  NewCounterVec("nutrilog_aggregate_cache_lookups_total", "Aggregate cache lookups by kind and result.", []string{"kind", "result"}),
		cacheInval:    NewCounterVec("nutrilog_aggregate_cache_invalidations_total", "Aggregate cache keys invalidated on write.", []string{"kind"}),
		rateLimit:     NewCounterVec("nutrilog_rate_limit_decisions_total", "Rate limit decisions by class.", []string{"class", "decision"}),
		resolutions:   NewCounterVec("nutrilog_entry_resolutions_total", "Nutrient resolutions by source and outcome.", []string{"source", "outcome"}),
		aggregateTime: NewHistogramVec("nutrilog_aggregate_compute_seconds", "Aggregate recompute latency on cache miss.", []string{"kind"}, nil),
	}
}

func (m *Metrics) WriteHTTP(w http.ResponseWriter, r *http.Request) {
	if m == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	_ = m.WritePrometheus(w)
}

func (m *Metrics) WritePrometheus(w io.Writer) error {
	if m == nil {
		return nil
	}
	writers := []interface{ WritePrometheus(io.Writer) error }{
		m.apiRequests, m.apiLatency, m.apiInflight,
		m.cacheLookups, m.cacheInval, m.rateLimit,
		m.resolutions, m.aggregateTime,
	}
	for _, wr := range writers {
		if err := wr.WritePrometheus(w); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.apiRequests.Inc(method, route, status)
	m.apiLatency.Observe(dur.Seconds(), method, route)
}

func (m *Metrics) APIInflight(delta float64) {
	if m == nil {
		return
	}
	m.apiInflight.Add(delta)
}

// ObserveCacheLookup records a hit or miss for an aggregate kind.
func (m *Metrics) ObserveCacheLookup(kind string, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.Inc(kind, result)
}

func (m *Metrics) CacheLookups(kind, result string) float64 {
	if m == nil {
		return 0
	}
	return m.cacheLookups.Value(kind, result)
}

func (m *Metrics) IncCacheInvalidation(kind string) {
	if m == nil {
		return
	}
	m.cacheInval.Inc(kind)
}

func (m *Metrics) ObserveRateLimit(class string, allowed bool) {
	if m == nil {
		return
	}
	decision := "rejected"
	if allowed {
		decision = "allowed"
	}
	m.rateLimit.Inc(class, decision)
}

func (m *Metrics) ObserveResolution(source, outcome string) {
	if m == nil {
		return
	}
	m.resolutions.Inc(source, outcome)
}

func (m *Metrics) ObserveAggregateCompute(kind string, dur time.Duration) {
	if m == nil {
		return
	}
	m.aggregateTime.Observe(dur.Seconds(), kind)
}
