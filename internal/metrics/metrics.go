// Package metrics holds the Prometheus collectors of the client and the dev server.
//
// A nil *Metrics is valid and records nothing, so components can take metrics as optional.
package metrics

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "rulekeeper"

// Metrics is a set of collectors registered in its own registry
type Metrics struct {
	registry *prometheus.Registry

	// requestDuration время ответа сервера метаданных.
	// Labels: endpoint, status (код ответа или "error")
	requestDuration *prometheus.HistogramVec

	// pagesFetched страницы, полученные постраничным чтением. Labels: endpoint
	pagesFetched *prometheus.CounterVec

	// syncDuration длительность sync. Labels: scope (global, module), result (ok, error)
	syncDuration *prometheus.HistogramVec

	// gatingRejections отказы в анализе. Labels: reason (not_started, missing_global, missing_module)
	gatingRejections *prometheus.CounterVec

	// analysesRun выполненные анализы
	analysesRun prometheus.Counter

	// issuesReported найденные замечания. Labels: rule
	issuesReported *prometheus.CounterVec

	// serverRequests запросы к dev серверу. Labels: route, code
	serverRequests *prometheus.CounterVec
}

// New creates metrics in a fresh registry.
// withRuntime adds Go runtime and process collectors, used by the long-running server.
func New(withRuntime bool) *Metrics {
	reg := prometheus.NewRegistry()
	if withRuntime {
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "client",
			Name:      "request_duration_seconds",
			Help:      "Metadata server request latency in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"endpoint", "status"}),
		pagesFetched: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "client",
			Name:      "pages_fetched_total",
			Help:      "Total pages fetched by paginated reads",
		}, []string{"endpoint"}),
		syncDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "duration_seconds",
			Help:      "Synchronization duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300},
		}, []string{"scope", "result"}),
		gatingRejections: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "gating_rejections_total",
			Help:      "Total analysis requests rejected for missing synchronization state",
		}, []string{"reason"}),
		analysesRun: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "analyses_total",
			Help:      "Total analyses run",
		}),
		issuesReported: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "issues_total",
			Help:      "Total issues reported by analyses",
		}, []string{"rule"}),
		serverRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "server",
			Name:      "requests_total",
			Help:      "Total requests served by the metadata server",
		}, []string{"route", "code"}),
	}
}

// Registry returns the registry holding all collectors
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveRequest records one metadata server round trip. status 0 means a transport failure.
func (m *Metrics) ObserveRequest(endpoint string, status int, d time.Duration) {
	if m == nil {
		return
	}
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	m.requestDuration.WithLabelValues(endpoint, label).Observe(d.Seconds())
}

// PageFetched counts one page of a paginated read
func (m *Metrics) PageFetched(endpoint string) {
	if m == nil {
		return
	}
	m.pagesFetched.WithLabelValues(endpoint).Inc()
}

// ObserveSync records one synchronization run
func (m *Metrics) ObserveSync(scope string, err error, d time.Duration) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.syncDuration.WithLabelValues(scope, result).Observe(d.Seconds())
}

// GatingRejected counts an analysis rejected by the storage gate
func (m *Metrics) GatingRejected(reason string) {
	if m == nil {
		return
	}
	m.gatingRejections.WithLabelValues(reason).Inc()
}

// AnalysisRun counts a finished analysis
func (m *Metrics) AnalysisRun() {
	if m == nil {
		return
	}
	m.analysesRun.Inc()
}

// IssueReported counts one issue
func (m *Metrics) IssueReported(ruleKey string) {
	if m == nil {
		return
	}
	m.issuesReported.WithLabelValues(ruleKey).Inc()
}

// ServerRequest counts one request handled by the dev server
func (m *Metrics) ServerRequest(route string, code int) {
	if m == nil {
		return
	}
	m.serverRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
}

// Handler returns the /metrics HTTP handler
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// WriteTextfile writes all metrics in text format for the node exporter textfile collector
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
