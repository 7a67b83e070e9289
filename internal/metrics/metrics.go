// Package metrics exposes Prometheus metrics for the dashboard.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the dashboard collectors on a private registry.
type Metrics struct {
	reg *prometheus.Registry

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	apiRequests     *prometheus.CounterVec
	apiDuration     *prometheus.HistogramVec
	readerStatus    *prometheus.GaugeVec
	tagWrites       *prometheus.CounterVec
}

// New registers the dashboard collectors.
func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rfidash_http_requests_total",
			Help: "Dashboard HTTP requests by method and status.",
		}, []string{"method", "code"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "rfidash_http_request_duration_seconds",
			Help:    "Dashboard HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),
		apiRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rfidash_api_requests_total",
			Help: "Requests to the inventory service by method and status.",
		}, []string{"method", "code"}),
		apiDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "rfidash_api_request_duration_seconds",
			Help:    "Inventory service request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),
		readerStatus: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "rfidash_reader_status",
			Help: "1 for the current reader status, 0 otherwise.",
		}, []string{"status"}),
		tagWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rfidash_tag_writes_total",
			Help: "Tag write attempts by result.",
		}, []string{"result"}),
	}

	m.reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests, m.requestDuration,
		m.apiRequests, m.apiDuration,
		m.readerStatus, m.tagWrites,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

// Middleware counts and times dashboard requests.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return promhttp.InstrumentHandlerDuration(m.requestDuration,
		promhttp.InstrumentHandlerCounter(m.requests, next))
}

// RoundTripper instruments requests to the inventory service. A nil next
// uses http.DefaultTransport.
func (m *Metrics) RoundTripper(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return promhttp.InstrumentRoundTripperCounter(m.apiRequests,
		promhttp.InstrumentRoundTripperDuration(m.apiDuration, next))
}

// ReaderStatus marks status as the current reader status.
func (m *Metrics) ReaderStatus(statuses []string, current string) {
	for _, s := range statuses {
		v := 0.0
		if s == current {
			v = 1
		}
		m.readerStatus.WithLabelValues(s).Set(v)
	}
}

// TagWrite records the outcome of a tag write.
func (m *Metrics) TagWrite(ok bool) {
	m.tagWrites.WithLabelValues(strconv.FormatBool(ok)).Inc()
}
