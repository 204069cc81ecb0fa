// Package metrics collects and exposes Prometheus metrics for the API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is the subset of Collector used by the HTTP and service layers.
type Recorder interface {
	RecordHTTPRequest(method, route string, status int, duration time.Duration)
	RecordTaskOperation(operation, result string)
	RecordLoginAttempt(result string)
}

// Result labels shared by task operations and login attempts.
const (
	ResultSuccess  = "success"
	ResultNotFound = "not_found"
	ResultInvalid  = "invalid"
	ResultFailure  = "error"
)

type Collector struct {
	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
	taskOperations *prometheus.CounterVec
	loginAttempts  *prometheus.CounterVec
}

// NewCollector creates the metrics and registers them with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "todolist_http_requests_total",
			Help: "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "todolist_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		taskOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "todolist_task_operations_total",
			Help: "Task service calls by operation and result.",
		}, []string{"operation", "result"}),
		loginAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "todolist_login_attempts_total",
			Help: "Login attempts by result.",
		}, []string{"result"}),
	}

	reg.MustRegister(
		c.httpRequests,
		c.httpDuration,
		c.taskOperations,
		c.loginAttempts,
	)

	return c
}

func (c *Collector) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (c *Collector) RecordTaskOperation(operation, result string) {
	c.taskOperations.WithLabelValues(operation, result).Inc()
}

func (c *Collector) RecordLoginAttempt(result string) {
	c.loginAttempts.WithLabelValues(result).Inc()
}

// Handler returns the Prometheus scrape handler for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop discards everything. Used when metrics are not wired, e.g. in tests.
type Nop struct{}

func (Nop) RecordHTTPRequest(string, string, int, time.Duration) {}
func (Nop) RecordTaskOperation(string, string)                  {}
func (Nop) RecordLoginAttempt(string)                           {}

var (
	_ Recorder = (*Collector)(nil)
	_ Recorder = Nop{}
)
